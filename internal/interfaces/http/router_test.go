package http

import (
	"bytes"
	"context"
	"encoding/json"
	"go/parser"
	"go/token"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schoolit/servicedesk/internal/infrastructure/config"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/models"
	sharedConfig "github.com/schoolit/servicedesk/internal/shared/config"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	cfg := &config.Config{
		Server:   sharedConfig.ServerConfig{AllowedOrigins: []string{"*"}},
		Database: sharedConfig.DatabaseConfig{TxMaxAttempts: 3, DeleteBatchSize: 50},
		Relay:    sharedConfig.RelayConfig{Enabled: false},
	}

	c, err := NewContainer(gdb, cfg, logger.NewNop())
	require.NoError(t, err)
	c.SetupRoutes()

	ctx, cancel := context.WithCancel(context.Background())
	c.StartBackground(ctx)
	t.Cleanup(func() {
		cancel()
		c.Shutdown(context.Background())
	})
	return c
}

func do(t *testing.T, c *Container, method, path, actor string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set("X-Actor-Id", actor)
		req.Header.Set("X-Actor-Name", actor)
	}
	w := httptest.NewRecorder()
	c.Engine().ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func TestRouter_CallLifecycle(t *testing.T) {
	c := newTestContainer(t)

	w, env := do(t, c, http.MethodPost, "/api/schools", "mgr_1", map[string]any{"name": "Ort Herzliya"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var school struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &school))

	w, _ = do(t, c, http.MethodPost, "/api/schools/"+school.ID+"/calls", "", map[string]any{
		"category": "printer", "description": "Jammed",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, c, http.MethodPost, "/api/schools/"+school.ID+"/calls", "teacher_7", map[string]any{
		"category": "printer", "description": "Jammed",
		"location": map[string]string{"room_number": "204"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var call struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		History []struct {
			Action string `json:"action"`
		} `json:"history"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &call))
	assert.Equal(t, "new", call.Status)

	w, _ = do(t, c, http.MethodPatch, "/api/calls/"+call.ID+"/status", "tech_1", map[string]any{"status": "in_progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = do(t, c, http.MethodGet, "/api/calls/"+call.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &call))
	assert.Equal(t, "in_progress", call.Status)
	assert.Len(t, call.History, 2)

	w, _ = do(t, c, http.MethodDelete, "/api/schools/"+school.ID, "mgr_1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = do(t, c, http.MethodGet, "/api/calls/"+call.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Health(t *testing.T) {
	c := newTestContainer(t)

	w, _ := do(t, c, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

var routerAnnotation = regexp.MustCompile(`^// @Router (\S+) \[(\w+)\]$`)
var pathParam = regexp.MustCompile(`\{(\w+)\}`)

// Every registered route carries a @Router annotation and every annotation
// names a registered route, so generated API docs stay in step with the router.
func TestRouter_AnnotationsMatchRoutes(t *testing.T) {
	c := newTestContainer(t)

	var registered []string
	for _, r := range c.Engine().Routes() {
		registered = append(registered, r.Method+" "+r.Path)
	}

	files, err := filepath.Glob("handlers/*.go")
	require.NoError(t, err)
	nested, err := filepath.Glob("handlers/*/*.go")
	require.NoError(t, err)
	files = append(files, nested...)

	var annotated []string
	fset := token.NewFileSet()
	for _, file := range files {
		if strings.HasSuffix(file, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, file, nil, parser.ParseComments)
		require.NoError(t, err, file)
		for _, group := range f.Comments {
			for _, line := range group.List {
				m := routerAnnotation.FindStringSubmatch(line.Text)
				if m == nil {
					continue
				}
				annotated = append(annotated, strings.ToUpper(m[2])+" "+pathParam.ReplaceAllString(m[1], ":$1"))
			}
		}
	}

	assert.ElementsMatch(t, registered, annotated)
}
