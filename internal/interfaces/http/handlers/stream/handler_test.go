package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolit/servicedesk/internal/application/feed"
	"github.com/schoolit/servicedesk/internal/application/servicecall/dto"
	callusecases "github.com/schoolit/servicedesk/internal/application/servicecall/usecases"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	apperrors "github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockGetCall struct {
	mu     sync.Mutex
	status string
	err    error
}

func (m *mockGetCall) set(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

func (m *mockGetCall) Execute(_ context.Context, q callusecases.GetCallQuery) (*dto.CallDTO, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return &dto.CallDTO{ID: q.CallID, Status: m.status}, nil
}

type sseEvent struct {
	name string
	data string
}

// readEvent returns the next named event, skipping comment frames.
func readEvent(t *testing.T, r *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if ev.name != "" {
				return ev
			}
		case strings.HasPrefix(line, "event:"):
			ev.name = strings.TrimPrefix(line, "event:")
		case strings.HasPrefix(line, "data:"):
			ev.data = strings.TrimPrefix(line, "data:")
		}
	}
}

func openStream(t *testing.T, srv *httptest.Server, path string) (*bufio.Reader, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ContentType, resp.Header.Get("Content-Type"))
	t.Cleanup(func() { _ = resp.Body.Close() })
	return bufio.NewReader(resp.Body), cancel
}

func newServer(t *testing.T, getCall callusecases.GetCallExecutor) (*feed.Hub, *httptest.Server) {
	t.Helper()
	hub := feed.NewHub(logger.NewNop())
	catalog := feed.NewCatalog(nil, getCall, nil, nil, nil)
	h := NewHandler(hub, catalog, 0, logger.NewNop())

	r := gin.New()
	r.GET("/stream/calls/:call_id", h.Call)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func TestHandler_Call_PushesSnapshotOnChange(t *testing.T) {
	getCall := &mockGetCall{status: "new"}
	hub, srv := newServer(t, getCall)

	r, cancel := openStream(t, srv, "/stream/calls/call_abc")
	defer cancel()

	first := readEvent(t, r)
	assert.Equal(t, "snapshot", first.name)
	var payload struct {
		Seq  uint64      `json:"seq"`
		Data dto.CallDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(first.data), &payload))
	assert.Equal(t, "new", payload.Data.Status)

	getCall.set("in_progress")
	hub.Handle(pubsub.ChangeEvent{Topic: pubsub.TopicCalls, CallID: "call_other"})
	hub.Handle(pubsub.ChangeEvent{Topic: pubsub.TopicCalls, CallID: "call_abc"})

	second := readEvent(t, r)
	require.NoError(t, json.Unmarshal([]byte(second.data), &payload))
	assert.Equal(t, "in_progress", payload.Data.Status)

	cancel()
	require.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHandler_Call_LoadErrorSentAsEvent(t *testing.T) {
	getCall := &mockGetCall{err: apperrors.NewNotFoundError("service call not found")}
	_, srv := newServer(t, getCall)

	r, cancel := openStream(t, srv, "/stream/calls/call_missing")
	defer cancel()

	ev := readEvent(t, r)
	assert.Equal(t, "error", ev.name)
	assert.Contains(t, ev.data, "service call not found")
}

func TestHandler_Call_RejectsBadID(t *testing.T) {
	_, srv := newServer(t, &mockGetCall{})

	resp, err := srv.Client().Get(srv.URL + "/stream/calls/inv_abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type fullHub struct{}

func (fullHub) Subscribe(feed.Query) *feed.Subscription { return nil }
func (fullHub) Count() int                              { return 1 }

func TestHandler_TooManyStreams(t *testing.T) {
	h := NewHandler(fullHub{}, feed.NewCatalog(nil, &mockGetCall{}, nil, nil, nil), 1, logger.NewNop())
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/stream/calls/call_abc", nil)
	c.Params = gin.Params{{Key: "call_id", Value: "call_abc"}}

	h.Call(c)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
