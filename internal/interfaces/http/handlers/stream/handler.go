// Package stream serves live query snapshots over server-sent events.
package stream

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/schoolit/servicedesk/internal/application/feed"
	invusecases "github.com/schoolit/servicedesk/internal/application/inventory/usecases"
	callusecases "github.com/schoolit/servicedesk/internal/application/servicecall/usecases"
	sessionusecases "github.com/schoolit/servicedesk/internal/application/worksession/usecases"
	apperrors "github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/id"
	"github.com/schoolit/servicedesk/internal/shared/logger"
	"github.com/schoolit/servicedesk/internal/shared/utils"
)

const (
	KeepaliveInterval = 30 * time.Second

	ContentType = "text/event-stream"

	// DefaultMaxStreams caps concurrent subscriptions per process.
	DefaultMaxStreams = 500

	// calls streams send one page; the desk UI renders at most this many rows.
	streamPageSize = 100
)

type Subscriber interface {
	Subscribe(q feed.Query) *feed.Subscription
	Count() int
}

type Handler struct {
	hub        Subscriber
	catalog    *feed.Catalog
	maxStreams int
	keepalive  time.Duration
	logger     logger.Interface
}

func NewHandler(hub Subscriber, catalog *feed.Catalog, maxStreams int, logger logger.Interface) *Handler {
	if maxStreams <= 0 {
		maxStreams = DefaultMaxStreams
	}
	return &Handler{
		hub:        hub,
		catalog:    catalog,
		maxStreams: maxStreams,
		keepalive:  KeepaliveInterval,
		logger:     logger,
	}
}

type callsStreamRequest struct {
	ClientID   string `form:"client_id"`
	RoomNumber string `form:"room"`
	Status     string `form:"status"`
	OpenOnly   bool   `form:"open_only"`
	Details    bool   `form:"details"`
}

// SchoolCalls handles GET /stream/schools/:school_id/calls
// @Summary Stream school calls
// @Description Server-sent snapshots of a school call query
// @Tags stream
// @Produce text/event-stream
// @Param school_id path string true "School ID"
// @Param request query callsStreamRequest false "Filters"
// @Success 200 {string} string
// @Failure 400 {object} utils.APIResponse
// @Router /api/stream/schools/{school_id}/calls [get]
func (h *Handler) SchoolCalls(c *gin.Context) {
	schoolID, err := utils.ParseSIDParam(c, "school_id", id.PrefixSchool, "school")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	var req callsStreamRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	h.serve(c, h.catalog.Calls(callusecases.ListCallsQuery{
		SchoolID:    schoolID,
		ClientID:    req.ClientID,
		RoomNumber:  req.RoomNumber,
		Status:      req.Status,
		OpenOnly:    req.OpenOnly,
		WithDetails: req.Details,
		Page:        1,
		PageSize:    streamPageSize,
	}))
}

// Call handles GET /stream/calls/:call_id
// @Summary Stream a call
// @Tags stream
// @Produce text/event-stream
// @Param call_id path string true "Call ID"
// @Success 200 {string} string
// @Failure 404 {object} utils.APIResponse
// @Router /api/stream/calls/{call_id} [get]
func (h *Handler) Call(c *gin.Context) {
	callID, err := utils.ParseSIDParam(c, "call_id", id.PrefixServiceCall, "service call")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	h.serve(c, h.catalog.Call(callID))
}

// Inventory handles GET /stream/inventory
// @Summary Stream inventory
// @Tags stream
// @Produce text/event-stream
// @Param active_only query bool false "Active items only"
// @Param low_only query bool false "Low stock only"
// @Param category query string false "Category"
// @Success 200 {string} string
// @Failure 500 {object} utils.APIResponse
// @Router /api/stream/inventory [get]
func (h *Handler) Inventory(c *gin.Context) {
	q := invusecases.ListItemsQuery{
		ActiveOnly: c.Query("active_only") == "true",
		LowOnly:    c.Query("low_only") == "true",
		Category:   c.Query("category"),
	}
	h.serve(c, h.catalog.Inventory(q))
}

// ActiveSession handles GET /stream/technicians/:tech_id/session
// @Summary Stream a technician session
// @Tags stream
// @Produce text/event-stream
// @Param tech_id path string true "Technician ID"
// @Success 200 {string} string
// @Failure 500 {object} utils.APIResponse
// @Router /api/stream/technicians/{tech_id}/session [get]
func (h *Handler) ActiveSession(c *gin.Context) {
	techID := c.Param("tech_id")
	if techID == "" {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("tech_id is required"))
		return
	}
	h.serve(c, h.catalog.ActiveSession(techID))
}

// Sessions handles GET /stream/sessions
// @Summary Stream work sessions
// @Tags stream
// @Produce text/event-stream
// @Param tech_id query string false "Technician ID"
// @Param school_id query string false "School ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {string} string
// @Failure 400 {object} utils.APIResponse
// @Router /api/stream/sessions [get]
func (h *Handler) Sessions(c *gin.Context) {
	h.serve(c, h.catalog.Sessions(sessionusecases.ListSessionsQuery{
		TechID:   c.Query("tech_id"),
		SchoolID: c.Query("school_id"),
		DateFrom: c.Query("from"),
		DateTo:   c.Query("to"),
		Page:     1,
		PageSize: streamPageSize,
	}))
}

func (h *Handler) serve(c *gin.Context, q feed.Query) {
	if h.hub.Count() >= h.maxStreams {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many connections"})
		return
	}

	connID := uuid.New().String()
	c.Header("Content-Type", ContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	if _, err := c.Writer.WriteString(": connected\n\n"); err != nil {
		return
	}
	c.Writer.Flush()

	sub := h.hub.Subscribe(q)
	defer sub.Unsubscribe()

	h.logger.Debugw("stream opened", "conn_id", connID, "query", q.Name)
	defer h.logger.Debugw("stream closed", "conn_id", connID, "query", q.Name)

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-sub.C():
			if !ok {
				return
			}
			h.write(c, snap)
		case <-ticker.C:
			if _, err := c.Writer.WriteString(": keepalive\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

func (h *Handler) write(c *gin.Context, snap feed.Snapshot) {
	if snap.Err != nil {
		message := "failed to load"
		var appErr *apperrors.AppError
		if errors.As(snap.Err, &appErr) {
			message = appErr.Message
		}
		c.SSEvent("error", gin.H{"seq": snap.Seq, "error": message})
	} else {
		c.SSEvent("snapshot", gin.H{"seq": snap.Seq, "at": snap.At, "data": snap.Data})
	}
	c.Writer.Flush()
}
