package worksession

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolit/servicedesk/internal/application/worksession/usecases"
	"github.com/schoolit/servicedesk/internal/interfaces/http/middleware"
	"github.com/schoolit/servicedesk/internal/shared/id"
	"github.com/schoolit/servicedesk/internal/shared/logger"
	"github.com/schoolit/servicedesk/internal/shared/utils"
)

type ClockInRequest struct {
	SchoolID string `json:"school_id" binding:"required"`
}

// SessionsRequest filters session lists and hour reports. Dates are
// YYYY-MM-DD in the desk's business timezone.
type SessionsRequest struct {
	TechID   string `form:"tech_id"`
	SchoolID string `form:"school_id"`
	DateFrom string `form:"from"`
	DateTo   string `form:"to"`
}

func (r *SessionsRequest) toQuery(page, pageSize int) usecases.ListSessionsQuery {
	return usecases.ListSessionsQuery{
		TechID:   r.TechID,
		SchoolID: r.SchoolID,
		DateFrom: r.DateFrom,
		DateTo:   r.DateTo,
		Page:     page,
		PageSize: pageSize,
	}
}

type Handler struct {
	clockInUC       usecases.ClockInExecutor
	clockOutUC      usecases.ClockOutExecutor
	activeSessionUC usecases.ActiveSessionExecutor
	listSessionsUC  usecases.ListSessionsExecutor
	hoursUC         usecases.HoursByTechnicianExecutor
	logger          logger.Interface
}

func NewHandler(
	clockInUC usecases.ClockInExecutor,
	clockOutUC usecases.ClockOutExecutor,
	activeSessionUC usecases.ActiveSessionExecutor,
	listSessionsUC usecases.ListSessionsExecutor,
	hoursUC usecases.HoursByTechnicianExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		clockInUC:       clockInUC,
		clockOutUC:      clockOutUC,
		activeSessionUC: activeSessionUC,
		listSessionsUC:  listSessionsUC,
		hoursUC:         hoursUC,
		logger:          logger,
	}
}

// ClockIn handles POST /sessions. The calling actor is the technician.
// @Summary Clock in
// @Description Start a work session for the calling technician
// @Tags sessions
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param request body ClockInRequest true "Session data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/sessions [post]
func (h *Handler) ClockIn(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}

	var req ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.clockInUC.Execute(c.Request.Context(), usecases.ClockInCommand{Tech: actor, SchoolID: req.SchoolID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Clocked in successfully")
}

// ClockOut handles POST /sessions/:session_id/clock-out
// @Summary Clock out
// @Tags sessions
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param session_id path string true "Session ID"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/sessions/{session_id}/clock-out [post]
func (h *Handler) ClockOut(c *gin.Context) {
	sessionID, err := utils.ParseSIDParam(c, "session_id", id.PrefixWorkSession, "work session")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.clockOutUC.Execute(c.Request.Context(), usecases.ClockOutCommand{SessionID: sessionID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Clocked out successfully", result)
}

// ActiveSession handles GET /technicians/:tech_id/session. Data is null
// when the technician is off the clock.
// @Summary Get active session
// @Tags sessions
// @Produce json
// @Param tech_id path string true "Technician ID"
// @Success 200 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /api/technicians/{tech_id}/session [get]
func (h *Handler) ActiveSession(c *gin.Context) {
	result, err := h.activeSessionUC.Execute(c.Request.Context(), c.Param("tech_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListSessions handles GET /sessions
// @Summary List work sessions
// @Tags sessions
// @Produce json
// @Param request query SessionsRequest false "Filters"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/sessions [get]
func (h *Handler) ListSessions(c *gin.Context) {
	var req SessionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}
	p := utils.ParsePagination(c)

	result, err := h.listSessionsUC.Execute(c.Request.Context(), req.toQuery(p.Page, p.PageSize))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Sessions, result.Total, result.Page, result.PageSize)
}

// HoursByTechnician handles GET /sessions/hours
// @Summary Hours by technician
// @Description Total worked hours per technician over a date range
// @Tags sessions
// @Produce json
// @Param request query SessionsRequest false "Filters"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/sessions/hours [get]
func (h *Handler) HoursByTechnician(c *gin.Context) {
	var req SessionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.hoursUC.Execute(c.Request.Context(), req.toQuery(0, 0))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
