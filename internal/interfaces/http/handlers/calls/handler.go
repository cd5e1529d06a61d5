package calls

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolit/servicedesk/internal/application/servicecall/dto"
	"github.com/schoolit/servicedesk/internal/application/servicecall/usecases"
	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/interfaces/http/middleware"
	"github.com/schoolit/servicedesk/internal/shared/id"
	"github.com/schoolit/servicedesk/internal/shared/logger"
	"github.com/schoolit/servicedesk/internal/shared/utils"
)

type Handler struct {
	createCallUC  usecases.CreateCallExecutor
	transitionUC  usecases.TransitionStatusExecutor
	setPriorityUC usecases.SetPriorityExecutor
	setCategoryUC usecases.SetCategoryExecutor
	addNoteUC     usecases.AddNoteExecutor
	supplyUC      usecases.SupplyEquipmentExecutor
	getCallUC     usecases.GetCallExecutor
	listCallsUC   usecases.ListCallsExecutor
	statsUC       usecases.CallStatsExecutor
	logger        logger.Interface
}

func NewHandler(
	createCallUC usecases.CreateCallExecutor,
	transitionUC usecases.TransitionStatusExecutor,
	setPriorityUC usecases.SetPriorityExecutor,
	setCategoryUC usecases.SetCategoryExecutor,
	addNoteUC usecases.AddNoteExecutor,
	supplyUC usecases.SupplyEquipmentExecutor,
	getCallUC usecases.GetCallExecutor,
	listCallsUC usecases.ListCallsExecutor,
	statsUC usecases.CallStatsExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		createCallUC:  createCallUC,
		transitionUC:  transitionUC,
		setPriorityUC: setPriorityUC,
		setCategoryUC: setCategoryUC,
		addNoteUC:     addNoteUC,
		supplyUC:      supplyUC,
		getCallUC:     getCallUC,
		listCallsUC:   listCallsUC,
		statsUC:       statsUC,
		logger:        logger,
	}
}

// CreateCall handles POST /schools/:school_id/calls
// @Summary Create a service call
// @Description Open a new service call for a school
// @Tags calls
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param school_id path string true "School ID"
// @Param request body CreateCallRequest true "Call data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/schools/{school_id}/calls [post]
func (h *Handler) CreateCall(c *gin.Context) {
	schoolID, err := utils.ParseSIDParam(c, "school_id", id.PrefixSchool, "school")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}

	var req CreateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create call", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.createCallUC.Execute(c.Request.Context(), req.ToCommand(schoolID, actor))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result.Call, "Service call created successfully")
}

// GetCall handles GET /calls/:call_id. ?order=desc lists history newest first.
// @Summary Get service call
// @Description Get a call with its history, notes and supplies
// @Tags calls
// @Produce json
// @Param call_id path string true "Call ID"
// @Param order query string false "History order" Enums(asc, desc)
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/calls/{call_id} [get]
func (h *Handler) GetCall(c *gin.Context) {
	callID, err := parseCallID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getCallUC.Execute(c.Request.Context(), usecases.GetCallQuery{CallID: callID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if c.Query("order") == "desc" {
		result.History = dto.NewestFirst(result.History)
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListCalls handles GET /schools/:school_id/calls
// @Summary List service calls
// @Description List calls of a school with filters and paging
// @Tags calls
// @Produce json
// @Param school_id path string true "School ID"
// @Param request query ListCallsRequest false "Filters"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/schools/{school_id}/calls [get]
func (h *Handler) ListCalls(c *gin.Context) {
	schoolID, err := utils.ParseSIDParam(c, "school_id", id.PrefixSchool, "school")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ListCallsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}
	p := utils.ParsePagination(c)

	result, err := h.listCallsUC.Execute(c.Request.Context(), req.ToQuery(schoolID, p.Page, p.PageSize))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Calls, result.Total, result.Page, result.PageSize)
}

// CallStats handles GET /schools/:school_id/calls/stats
// @Summary Service call statistics
// @Description Count calls of a school by status and priority
// @Tags calls
// @Produce json
// @Param school_id path string true "School ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/schools/{school_id}/calls/stats [get]
func (h *Handler) CallStats(c *gin.Context) {
	schoolID, err := utils.ParseSIDParam(c, "school_id", id.PrefixSchool, "school")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.statsUC.Execute(c.Request.Context(), usecases.CallStatsQuery{SchoolID: schoolID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateStatus handles PATCH /calls/:call_id/status
// @Summary Change call status
// @Tags calls
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param call_id path string true "Call ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/calls/{call_id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	callID, actor, ok := callAndActor(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update call status", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.transitionUC.Execute(c.Request.Context(), usecases.TransitionStatusCommand{
		CallID:   callID,
		Status:   req.Status,
		Actor:    actor,
		Override: req.Override,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Call status updated successfully", result)
}

// UpdatePriority handles PATCH /calls/:call_id/priority
// @Summary Change call priority
// @Tags calls
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param call_id path string true "Call ID"
// @Param request body UpdatePriorityRequest true "New priority"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/calls/{call_id}/priority [patch]
func (h *Handler) UpdatePriority(c *gin.Context) {
	callID, actor, ok := callAndActor(c)
	if !ok {
		return
	}

	var req UpdatePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.setPriorityUC.Execute(c.Request.Context(), usecases.SetPriorityCommand{
		CallID:   callID,
		Priority: req.Priority,
		Actor:    actor,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Call priority updated successfully", result)
}

// UpdateCategory handles PATCH /calls/:call_id/category
// @Summary Change call category
// @Tags calls
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param call_id path string true "Call ID"
// @Param request body UpdateCategoryRequest true "New category"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/calls/{call_id}/category [patch]
func (h *Handler) UpdateCategory(c *gin.Context) {
	callID, actor, ok := callAndActor(c)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.setCategoryUC.Execute(c.Request.Context(), usecases.SetCategoryCommand{
		CallID:   callID,
		Category: req.Category,
		Actor:    actor,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Call category updated successfully", result)
}

// AddNote handles POST /calls/:call_id/notes
// @Summary Add a note to a call
// @Description Notes are stored as plain text
// @Tags calls
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param call_id path string true "Call ID"
// @Param request body AddNoteRequest true "Note text"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/calls/{call_id}/notes [post]
func (h *Handler) AddNote(c *gin.Context) {
	callID, actor, ok := callAndActor(c)
	if !ok {
		return
	}

	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.addNoteUC.Execute(c.Request.Context(), usecases.AddNoteCommand{
		CallID: callID,
		Text:   req.Text,
		Actor:  actor,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result.Call, "Note added successfully")
}

// SupplyEquipment handles POST /calls/:call_id/supplies
// @Summary Supply equipment to a call
// @Description Take items from inventory and record them on the call
// @Tags calls
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param call_id path string true "Call ID"
// @Param request body SupplyRequest true "Items and quantities"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/calls/{call_id}/supplies [post]
func (h *Handler) SupplyEquipment(c *gin.Context) {
	callID, actor, ok := callAndActor(c)
	if !ok {
		return
	}

	var req SupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for supply equipment", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.supplyUC.Execute(c.Request.Context(), usecases.SupplyEquipmentCommand{
		CallID:   callID,
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Actor:    actor,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, SupplyResponse{
		ItemID:     result.ItemID,
		Requested:  result.Requested,
		Applied:    result.Applied,
		StockAfter: result.StockAfter,
		Clamped:    result.Clamped(),
		Call:       result.Call,
	}, "Equipment supplied successfully")
}

func parseCallID(c *gin.Context) (string, error) {
	return utils.ParseSIDParam(c, "call_id", id.PrefixServiceCall, "call")
}

func callAndActor(c *gin.Context) (string, shared.Actor, bool) {
	callID, err := parseCallID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return "", shared.Actor{}, false
	}
	actor, ok := middleware.MustActor(c)
	return callID, actor, ok
}
