package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceHandler_AddsSourceOnlyForConfiguredLevels(t *testing.T) {
	tests := []struct {
		name       string
		log        func(l *slog.Logger)
		wantSource bool
	}{
		{name: "info stays compact", log: func(l *slog.Logger) { l.Info("hello") }, wantSource: false},
		{name: "warn has source", log: func(l *slog.Logger) { l.Warn("careful") }, wantSource: true},
		{name: "error has source", log: func(l *slog.Logger) { l.Error("boom") }, wantSource: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			l := slog.New(newSourceHandler(base, slog.LevelWarn, slog.LevelError))

			tt.log(l)

			assert.Equal(t, tt.wantSource, bytes.Contains(buf.Bytes(), []byte("source=")), buf.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestNewNop_DiscardsEverything(t *testing.T) {
	l := NewNop()
	assert.NotPanics(t, func() {
		l.Infow("ignored", "k", "v")
		l.With("a", 1).Named("x").Errorw("ignored too")
	})
}
