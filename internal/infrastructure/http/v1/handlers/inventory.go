package handlers

import (
	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain/inventory"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

// InventoryHandler serves inventory record endpoints.
type InventoryHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, service: service}
}

// Get handles GET /inventory/:id
func (h *InventoryHandler) Get(c *gin.Context) {
	recordID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	rec, err := h.service.GetRecord(c.Request.Context(), recordID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// Adjust handles PATCH /inventory/:id/quantity
//
// Overwrites the record's quantity (manual stock-opname). The previous
// and new quantities are captured in the audit trail.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	recordID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AdjustQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rec, err := h.service.AdjustQuantity(c.Request.Context(), recordID, *req.Quantity, h.ActingUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// List handles GET /inventory
func (h *InventoryHandler) List(c *gin.Context) {
	productID, ok := h.ParseIDQuery(c, "productId")
	if !ok {
		return
	}
	warehouseID, ok := h.ParseIDQuery(c, "warehouseId")
	if !ok {
		return
	}

	filter := inventory.RecordFilter{
		ProductID:    productID,
		WarehouseID:  warehouseID,
		LowStockOnly: c.Query("lowStockOnly") == "true",
		Search:       c.Query("search"),
		Limit:        h.ParseIntQuery(c, "limit", 50),
		Offset:       h.ParseIntQuery(c, "offset", 0),
	}

	result, err := h.service.ListRecords(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Paginated(c, result.Items, result.TotalCount, result.Limit, result.Offset)
}
