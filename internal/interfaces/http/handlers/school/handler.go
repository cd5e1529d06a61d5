package school

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolit/servicedesk/internal/application/school/usecases"
	domain "github.com/schoolit/servicedesk/internal/domain/school"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/shared/id"
	"github.com/schoolit/servicedesk/internal/shared/logger"
	"github.com/schoolit/servicedesk/internal/shared/utils"
)

type CreateSchoolRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Address     string `json:"address" binding:"max=500"`
	ContactName string `json:"contact_name" binding:"max=200"`
	WebhookURL  string `json:"webhook_url" binding:"omitempty,url"`
}

// UpdateSettingsRequest changes only the fields present. An empty
// webhook_url turns outbound sync off.
type UpdateSettingsRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=200"`
	WebhookURL  *string `json:"webhook_url"`
}

type CategoriesRequest struct {
	Categories []vo.CategoryOption `json:"categories" binding:"required"`
}

type CreateAccountRequest struct {
	Role        string `json:"role" binding:"required,oneof=tech_manager technician school_admin client"`
	DisplayName string `json:"display_name" binding:"required,max=200"`
	Email       string `json:"email" binding:"omitempty,email"`
}

type Handler struct {
	createSchoolUC   usecases.CreateSchoolExecutor
	getSchoolUC      usecases.GetSchoolExecutor
	updateSettingsUC usecases.UpdateSettingsExecutor
	deleteSchoolUC   usecases.DeleteSchoolExecutor
	metaUC           usecases.MetaExecutor
	createAccountUC  usecases.CreateAccountExecutor
	listAccountsUC   usecases.ListAccountsExecutor
	logger           logger.Interface
}

func NewHandler(
	createSchoolUC usecases.CreateSchoolExecutor,
	getSchoolUC usecases.GetSchoolExecutor,
	updateSettingsUC usecases.UpdateSettingsExecutor,
	deleteSchoolUC usecases.DeleteSchoolExecutor,
	metaUC usecases.MetaExecutor,
	createAccountUC usecases.CreateAccountExecutor,
	listAccountsUC usecases.ListAccountsExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		createSchoolUC:   createSchoolUC,
		getSchoolUC:      getSchoolUC,
		updateSettingsUC: updateSettingsUC,
		deleteSchoolUC:   deleteSchoolUC,
		metaUC:           metaUC,
		createAccountUC:  createAccountUC,
		listAccountsUC:   listAccountsUC,
		logger:           logger,
	}
}

// CreateSchool handles POST /schools
// @Summary Create a school
// @Tags schools
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param request body CreateSchoolRequest true "School data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/schools [post]
func (h *Handler) CreateSchool(c *gin.Context) {
	var req CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.createSchoolUC.Execute(c.Request.Context(), usecases.CreateSchoolCommand{
		Name:        req.Name,
		Address:     req.Address,
		ContactName: req.ContactName,
		WebhookURL:  req.WebhookURL,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "School created successfully")
}

// ListSchools handles GET /schools
// @Summary List schools
// @Tags schools
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /api/schools [get]
func (h *Handler) ListSchools(c *gin.Context) {
	result, err := h.getSchoolUC.List(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetSchool handles GET /schools/:school_id
// @Summary Get school
// @Tags schools
// @Produce json
// @Param school_id path string true "School ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/schools/{school_id} [get]
func (h *Handler) GetSchool(c *gin.Context) {
	schoolID, ok := parseSchoolID(c)
	if !ok {
		return
	}

	result, err := h.getSchoolUC.Execute(c.Request.Context(), schoolID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateSettings handles PATCH /schools/:school_id
// @Summary Update school settings
// @Tags schools
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param school_id path string true "School ID"
// @Param request body UpdateSettingsRequest true "Settings to change"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/schools/{school_id} [patch]
func (h *Handler) UpdateSettings(c *gin.Context) {
	schoolID, ok := parseSchoolID(c)
	if !ok {
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.updateSettingsUC.Execute(c.Request.Context(), usecases.UpdateSettingsCommand{
		SchoolID:    schoolID,
		Name:        req.Name,
		Address:     req.Address,
		ContactName: req.ContactName,
		WebhookURL:  req.WebhookURL,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "School settings updated successfully", result)
}

// DeleteSchool handles DELETE /schools/:school_id. It removes every call,
// account and metadata record the school owns.
// @Summary Delete a school
// @Description Delete the school and everything it owns in bounded batches
// @Tags schools
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param school_id path string true "School ID"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/schools/{school_id} [delete]
func (h *Handler) DeleteSchool(c *gin.Context) {
	schoolID, ok := parseSchoolID(c)
	if !ok {
		return
	}

	report, err := h.deleteSchoolUC.Execute(c.Request.Context(), schoolID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("school deleted via API", "school_id", schoolID, "calls", report.Calls)
	utils.SuccessResponse(c, http.StatusOK, "School deleted successfully", report)
}

// GetCategories handles GET /schools/:school_id/categories
// @Summary Get call categories
// @Tags schools
// @Produce json
// @Param school_id path string true "School ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/schools/{school_id}/categories [get]
func (h *Handler) GetCategories(c *gin.Context) {
	schoolID, ok := parseSchoolID(c)
	if !ok {
		return
	}

	result, err := h.metaUC.GetCategories(c.Request.Context(), schoolID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateCategories handles PUT /schools/:school_id/categories
// @Summary Replace call categories
// @Tags schools
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param school_id path string true "School ID"
// @Param request body CategoriesRequest true "Categories"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/schools/{school_id}/categories [put]
func (h *Handler) UpdateCategories(c *gin.Context) {
	schoolID, ok := parseSchoolID(c)
	if !ok {
		return
	}

	var req CategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.metaUC.UpdateCategories(c.Request.Context(), schoolID, req.Categories)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Categories updated successfully", result)
}

// GetLocations handles GET /schools/:school_id/locations
// @Summary Get school locations
// @Tags schools
// @Produce json
// @Param school_id path string true "School ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/schools/{school_id}/locations [get]
func (h *Handler) GetLocations(c *gin.Context) {
	schoolID, ok := parseSchoolID(c)
	if !ok {
		return
	}

	result, err := h.metaUC.GetLocations(c.Request.Context(), schoolID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateLocations handles PUT /schools/:school_id/locations
// @Summary Replace school locations
// @Tags schools
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param school_id path string true "School ID"
// @Param request body domain.Locations true "Locations"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/schools/{school_id}/locations [put]
func (h *Handler) UpdateLocations(c *gin.Context) {
	schoolID, ok := parseSchoolID(c)
	if !ok {
		return
	}

	var req domain.Locations
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.metaUC.UpdateLocations(c.Request.Context(), schoolID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Locations updated successfully", result)
}

// CreateAccount handles POST /schools/:school_id/accounts
// @Summary Create a school account
// @Tags schools
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param school_id path string true "School ID"
// @Param request body CreateAccountRequest true "Account data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/schools/{school_id}/accounts [post]
func (h *Handler) CreateAccount(c *gin.Context) {
	schoolID, ok := parseSchoolID(c)
	if !ok {
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.createAccountUC.Execute(c.Request.Context(), usecases.CreateAccountCommand{
		SchoolID:    schoolID,
		Role:        req.Role,
		DisplayName: req.DisplayName,
		Email:       req.Email,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "Account created successfully")
}

// ListAccounts handles GET /schools/:school_id/accounts
// @Summary List school accounts
// @Tags schools
// @Produce json
// @Param school_id path string true "School ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/schools/{school_id}/accounts [get]
func (h *Handler) ListAccounts(c *gin.Context) {
	schoolID, ok := parseSchoolID(c)
	if !ok {
		return
	}

	result, err := h.listAccountsUC.Execute(c.Request.Context(), schoolID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func parseSchoolID(c *gin.Context) (string, bool) {
	schoolID, err := utils.ParseSIDParam(c, "school_id", id.PrefixSchool, "school")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return "", false
	}
	return schoolID, true
}
