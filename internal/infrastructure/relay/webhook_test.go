package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

var t0 = time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)

type staticLookup struct {
	url string
	err error
}

func (l staticLookup) WebhookURL(context.Context, string) (string, error) {
	return l.url, l.err
}

type captured struct {
	mu          sync.Mutex
	bodies      [][]byte
	contentType string
}

func (c *captured) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.bodies = append(c.bodies, body)
		c.contentType = r.Header.Get("Content-Type")
		c.mu.Unlock()
		w.WriteHeader(status)
	}
}

func (c *captured) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.bodies)
}

func testCall(t *testing.T) *servicecall.ServiceCall {
	t.Helper()
	call, err := servicecall.NewServiceCall(servicecall.NewCallParams{
		SchoolID:    "sch_1",
		SchoolName:  "Ofek",
		Category:    vo.CategoryHardware,
		Description: "Printer jam",
		Client:      servicecall.Client{ID: "u_1", Name: "Noa", Phone: "050"},
		Location:    servicecall.Location{FloorLabel: "1", CategoryLabel: "Offices", RoomLabel: "Office", RoomNumber: "101"},
	}, t0)
	require.NoError(t, err)
	return call
}

func closeRelay(t *testing.T, r *WebhookRelay) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Close(ctx))
}

func TestWebhookRelay_PostsEnvelope(t *testing.T) {
	rec := &captured{}
	srv := httptest.NewServer(rec.handler(http.StatusOK))
	defer srv.Close()

	r := NewWebhookRelay(Config{Enabled: true, Timeout: time.Second}, staticLookup{url: srv.URL}, logger.NewNop())
	defer closeRelay(t, r)

	call := testCall(t)
	_, _, err := call.AddNote("checked toner", shared.Actor{ID: "tech_1", Name: "Dana"}, t0.Add(time.Minute), 0)
	require.NoError(t, err)

	r.Dispatch(call, ActionCreate)
	r.Wait()

	require.Equal(t, 1, rec.count())
	assert.Equal(t, "application/json", rec.contentType)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.bodies[0], &got))
	assert.Equal(t, call.ID(), got["id"])
	assert.Equal(t, "create", got["action"])

	payload := got["payload"].(map[string]any)
	assert.Equal(t, "new", payload["status"])
	assert.Equal(t, "hardware", payload["category"])
	assert.Nil(t, payload["priority"])
	assert.Nil(t, payload["resolvedAt"])
	assert.Equal(t, "2025-03-02T08:00:00.000Z", payload["createdAt"])
	assert.Equal(t, "050", payload["clientPhone"])

	notes := payload["notes"].([]any)
	require.Len(t, notes, 1)
	assert.Equal(t, "checked toner", notes[0].(map[string]any)["text"])
}

func TestWebhookRelay_FailuresAreSwallowed(t *testing.T) {
	rec := &captured{}
	srv := httptest.NewServer(rec.handler(http.StatusInternalServerError))
	defer srv.Close()

	r := NewWebhookRelay(Config{Enabled: true, Timeout: time.Second}, staticLookup{url: srv.URL}, logger.NewNop())
	defer closeRelay(t, r)

	r.Dispatch(testCall(t), ActionUpdate)
	r.Wait()
	assert.Equal(t, 1, rec.count(), "no retry after a non-2xx answer")
}

func TestWebhookRelay_SkipsWithoutURL(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		lookup staticLookup
	}{
		{name: "empty url", cfg: Config{Enabled: true}, lookup: staticLookup{}},
		{name: "lookup error", cfg: Config{Enabled: true}, lookup: staticLookup{err: errors.New("db down")}},
		{name: "disabled", cfg: Config{Enabled: false}, lookup: staticLookup{url: "http://127.0.0.1:1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewWebhookRelay(tt.cfg, tt.lookup, logger.NewNop())
			r.Dispatch(testCall(t), ActionCreate)
			r.Wait()
			closeRelay(t, r)
		})
	}
}

func TestWebhookRelay_DispatchDoesNotBlockOnSlowEndpoint(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewWebhookRelay(Config{Enabled: true, Timeout: 5 * time.Second}, staticLookup{url: srv.URL}, logger.NewNop())

	start := time.Now()
	r.Dispatch(testCall(t), ActionUpdate)
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	close(release)
	closeRelay(t, r)

	r.Dispatch(testCall(t), ActionUpdate)
	r.Wait()
}

func TestWebhookRelay_TimeoutBoundsDelivery(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	r := NewWebhookRelay(Config{Enabled: true, Timeout: 50 * time.Millisecond}, staticLookup{url: srv.URL}, logger.NewNop())

	r.Dispatch(testCall(t), ActionUpdate)
	done := make(chan struct{})
	go func() {
		r.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("delivery was not bounded by the relay timeout")
	}
	closeRelay(t, r)
}
