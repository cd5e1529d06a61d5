// Package relay pushes call snapshots to each school's spreadsheet webhook.
// Delivery is fire-and-forget: failures are logged, never retried.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/schoolit/servicedesk/internal/domain/school"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	"github.com/schoolit/servicedesk/internal/shared/goroutine"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "servicedesk-relay"
)

// WebhookLookup resolves a school's webhook URL. An empty URL disables
// delivery for that school.
type WebhookLookup interface {
	WebhookURL(ctx context.Context, schoolID string) (string, error)
}

// Dispatcher is what use cases depend on.
type Dispatcher interface {
	Dispatch(call *servicecall.ServiceCall, action Action)
}

type Config struct {
	Enabled bool
	Timeout time.Duration
}

type WebhookRelay struct {
	lookup     WebhookLookup
	httpClient *http.Client
	timeout    time.Duration
	enabled    bool
	logger     logger.Interface

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

func NewWebhookRelay(cfg Config, lookup WebhookLookup, log logger.Interface) *WebhookRelay {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &WebhookRelay{
		lookup:     lookup,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
		enabled:    cfg.Enabled,
		logger:     log,
	}
}

// Dispatch snapshots call now and delivers it in the background. It never
// blocks on the network and is a no-op once Close has been called.
func (r *WebhookRelay) Dispatch(call *servicecall.ServiceCall, action Action) {
	if !r.enabled || call == nil {
		return
	}

	envelope := BuildEnvelope(call, action)
	schoolID := call.SchoolID()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.inflight.Add(1)
	r.mu.Unlock()

	goroutine.SafeGoTracked(r.logger, "webhook-relay", func() {
		r.deliver(schoolID, envelope)
	}, r.inflight.Done)
}

func (r *WebhookRelay) deliver(schoolID string, envelope Envelope) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	url, err := r.lookup.WebhookURL(ctx, schoolID)
	if err != nil {
		r.logger.Warnw("webhook lookup failed",
			"school_id", schoolID,
			"call_id", envelope.ID,
			"error", err,
		)
		return
	}
	if url == "" {
		return
	}

	if err := r.post(ctx, url, envelope); err != nil {
		r.logger.Warnw("webhook delivery failed",
			"school_id", schoolID,
			"call_id", envelope.ID,
			"action", envelope.Action,
			"error", err,
		)
		return
	}

	r.logger.Debugw("webhook delivered",
		"school_id", schoolID,
		"call_id", envelope.ID,
		"action", envelope.Action,
	)
}

func (r *WebhookRelay) post(ctx context.Context, url string, envelope Envelope) error {
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Wait blocks until every dispatched delivery has finished.
func (r *WebhookRelay) Wait() {
	r.inflight.Wait()
}

// Close stops accepting dispatches and drains the in-flight ones, or gives
// up when ctx ends first.
func (r *WebhookRelay) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.httpClient.CloseIdleConnections()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SchoolWebhooks reads webhook URLs from the school repository.
type SchoolWebhooks struct {
	repo school.Repository
}

func NewSchoolWebhooks(repo school.Repository) *SchoolWebhooks {
	return &SchoolWebhooks{repo: repo}
}

func (s *SchoolWebhooks) WebhookURL(ctx context.Context, schoolID string) (string, error) {
	sch, err := s.repo.GetByID(ctx, schoolID)
	if err != nil {
		return "", err
	}
	return sch.WebhookURL(), nil
}
