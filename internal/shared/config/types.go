package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Mode     string `mapstructure:"mode"`
	Timezone string `mapstructure:"timezone"`
	// AllowedOrigins lists CORS origins; "*" admits any.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// MaxStreams caps concurrent live query streams.
	MaxStreams int `mapstructure:"max_streams"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects the driver ("mysql" or "sqlite") and carries the
// transaction retry policy used by every mutating command.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	TxMaxAttempts   int    `mapstructure:"tx_max_attempts"`
	TxRetryBackoff  int    `mapstructure:"tx_retry_backoff_ms"`
	DeleteBatchSize int    `mapstructure:"delete_batch_size"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

func (d *DatabaseConfig) RetryBackoff() time.Duration {
	return time.Duration(d.TxRetryBackoff) * time.Millisecond
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
	// WriteLimit caps mutating requests per client IP per minute; 0 disables.
	WriteLimit int `mapstructure:"write_limit"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RelayConfig controls the outbound webhook sync. Delivery is best effort.
type RelayConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	TimeoutSeconds int  `mapstructure:"timeout_seconds"`
}

func (r *RelayConfig) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

type WorkflowConfig struct {
	// StrictTransitions rejects off-graph status changes unless the command
	// carries an explicit override.
	StrictTransitions bool `mapstructure:"strict_transitions"`
	NotePreviewLength int  `mapstructure:"note_preview_length"`
}
