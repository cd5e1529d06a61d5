package inventory

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/schoolit/servicedesk/internal/application/inventory/usecases"
	"github.com/schoolit/servicedesk/internal/interfaces/http/middleware"
	"github.com/schoolit/servicedesk/internal/shared/id"
	"github.com/schoolit/servicedesk/internal/shared/logger"
	"github.com/schoolit/servicedesk/internal/shared/utils"
)

const defaultMovementLimit = 50

type AddItemRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Category string `json:"category" binding:"max=100"`
	SKU      string `json:"sku" binding:"max=100"`
	InStock  int    `json:"in_stock" binding:"gte=0"`
	MinStock int    `json:"min_stock" binding:"gte=0"`
}

type UpdateItemRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=200"`
	Category *string `json:"category" binding:"omitempty,max=100"`
	SKU      *string `json:"sku" binding:"omitempty,max=100"`
	MinStock *int    `json:"min_stock" binding:"omitempty,gte=0"`
	Active   *bool   `json:"active"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// AdjustRequest sets stock to a counted level. Level is a pointer so an
// explicit zero is distinguishable from a missing field.
type AdjustRequest struct {
	Level *int `json:"level" binding:"required"`
}

type ListItemsRequest struct {
	ActiveOnly bool   `form:"active_only"`
	LowOnly    bool   `form:"low_only"`
	Category   string `form:"category"`
}

type Handler struct {
	addItemUC       usecases.AddItemExecutor
	updateItemUC    usecases.UpdateItemExecutor
	restockUC       usecases.RestockExecutor
	adjustStockUC   usecases.AdjustStockExecutor
	listItemsUC     usecases.ListItemsExecutor
	getItemUC       usecases.GetItemExecutor
	listMovementsUC usecases.ListMovementsExecutor
	logger          logger.Interface
}

func NewHandler(
	addItemUC usecases.AddItemExecutor,
	updateItemUC usecases.UpdateItemExecutor,
	restockUC usecases.RestockExecutor,
	adjustStockUC usecases.AdjustStockExecutor,
	listItemsUC usecases.ListItemsExecutor,
	getItemUC usecases.GetItemExecutor,
	listMovementsUC usecases.ListMovementsExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		addItemUC:       addItemUC,
		updateItemUC:    updateItemUC,
		restockUC:       restockUC,
		adjustStockUC:   adjustStockUC,
		listItemsUC:     listItemsUC,
		getItemUC:       getItemUC,
		listMovementsUC: listMovementsUC,
		logger:          logger,
	}
}

// AddItem handles POST /inventory
// @Summary Add an inventory item
// @Tags inventory
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param request body AddItemRequest true "Item data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/inventory [post]
func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for add item", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.addItemUC.Execute(c.Request.Context(), usecases.AddItemCommand{
		Name:     req.Name,
		Category: req.Category,
		SKU:      req.SKU,
		InStock:  req.InStock,
		MinStock: req.MinStock,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Inventory item added successfully")
}

// UpdateItem handles PATCH /inventory/:item_id
// @Summary Update an inventory item
// @Description Change item details. Every change is recorded as an update movement
// @Tags inventory
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param item_id path string true "Inventory item ID"
// @Param request body UpdateItemRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/inventory/{item_id} [patch]
func (h *Handler) UpdateItem(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}

	result, err := h.updateItemUC.Execute(c.Request.Context(), usecases.UpdateItemCommand{
		ItemID:   itemID,
		Name:     req.Name,
		Category: req.Category,
		SKU:      req.SKU,
		MinStock: req.MinStock,
		Active:   req.Active,
		Actor:    actor,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Inventory item updated successfully", result)
}

// Restock handles POST /inventory/:item_id/restock
// @Summary Restock an item
// @Tags inventory
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param item_id path string true "Inventory item ID"
// @Param request body RestockRequest true "Quantity received"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/inventory/{item_id}/restock [post]
func (h *Handler) Restock(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}

	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.restockUC.Execute(c.Request.Context(), usecases.RestockCommand{
		ItemID:   itemID,
		Quantity: req.Quantity,
		Actor:    actor,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Stock added successfully", result)
}

// AdjustStock handles POST /inventory/:item_id/adjust
// @Summary Adjust stock
// @Description Correct the stock count after a physical check
// @Tags inventory
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting user ID"
// @Param X-Actor-Name header string false "Acting user name"
// @Param item_id path string true "Inventory item ID"
// @Param request body AdjustRequest true "Stock correction"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/inventory/{item_id}/adjust [post]
func (h *Handler) AdjustStock(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}

	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.adjustStockUC.Execute(c.Request.Context(), usecases.AdjustStockCommand{
		ItemID: itemID,
		Level:  *req.Level,
		Actor:  actor,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Stock adjusted successfully", result)
}

// ListItems handles GET /inventory
// @Summary List inventory items
// @Tags inventory
// @Produce json
// @Param request query ListItemsRequest false "Filters"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/inventory [get]
func (h *Handler) ListItems(c *gin.Context) {
	var req ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.listItemsUC.Execute(c.Request.Context(), usecases.ListItemsQuery{
		ActiveOnly: req.ActiveOnly,
		LowOnly:    req.LowOnly,
		Category:   req.Category,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// LowStock handles GET /inventory/low
// @Summary List low stock items
// @Description Active items at or below their minimum stock
// @Tags inventory
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /api/inventory/low [get]
func (h *Handler) LowStock(c *gin.Context) {
	result, err := h.listItemsUC.LowStock(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetItem handles GET /inventory/:item_id
// @Summary Get inventory item
// @Tags inventory
// @Produce json
// @Param item_id path string true "Inventory item ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/inventory/{item_id} [get]
func (h *Handler) GetItem(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getItemUC.Execute(c.Request.Context(), itemID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListMovements handles GET /inventory/movements and GET /inventory/:item_id/movements
// @Summary List stock movements
// @Description Movements of one item, or of all items when no item is given
// @Tags inventory
// @Produce json
// @Param item_id path string false "Inventory item ID"
// @Param limit query int false "Maximum rows"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/inventory/movements [get]
// @Router /api/inventory/{item_id}/movements [get]
func (h *Handler) ListMovements(c *gin.Context) {
	var itemID string
	if c.Param("item_id") != "" {
		var err error
		if itemID, err = parseItemID(c); err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
	}

	limit := defaultMovementLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	result, err := h.listMovementsUC.Execute(c.Request.Context(), usecases.ListMovementsQuery{ItemID: itemID, Limit: limit})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func parseItemID(c *gin.Context) (string, error) {
	return utils.ParseSIDParam(c, "item_id", id.PrefixInventoryItem, "inventory item")
}
