package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/inventory"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

// MovementHandler serves the stock movement ledger endpoints.
type MovementHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewMovementHandler creates a new movement handler.
func NewMovementHandler(base *BaseHandler, service *inventory.Service) *MovementHandler {
	return &MovementHandler{BaseHandler: base, service: service}
}

// Create handles POST /movements
//
// Records a ledger entry and reconciles the inventory record for the
// (product, warehouse) pair in one transaction.
func (h *MovementHandler) Create(c *gin.Context) {
	var req dto.CreateMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "productId"))
		return
	}
	warehouseID, err := id.Parse(req.WarehouseID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "warehouseId"))
		return
	}

	input := inventory.MovementInput{
		ProductID:       productID,
		WarehouseID:     warehouseID,
		Direction:       inventory.Direction(req.Direction),
		Quantity:        req.Quantity,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		ActingUserID:    h.ActingUserID(c),
	}

	result, err := h.service.RecordMovement(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromMovementResult(result))
}

// List handles GET /movements
func (h *MovementHandler) List(c *gin.Context) {
	productID, ok := h.ParseIDQuery(c, "productId")
	if !ok {
		return
	}
	warehouseID, ok := h.ParseIDQuery(c, "warehouseId")
	if !ok {
		return
	}
	userID, ok := h.ParseIDQuery(c, "userId")
	if !ok {
		return
	}

	filter := inventory.MovementFilter{
		ProductID:   productID,
		WarehouseID: warehouseID,
		UserID:      userID,
		Limit:       h.ParseIntQuery(c, "limit", 100),
		Offset:      h.ParseIntQuery(c, "offset", 0),
	}

	if dir := c.Query("direction"); dir != "" {
		d := inventory.Direction(dir)
		if !d.Valid() {
			h.Error(c, apperror.NewValidation("direction must be 'in' or 'out'").WithDetail("param", "direction"))
			return
		}
		filter.Direction = &d
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid timestamp").WithDetail("param", "from"))
			return
		}
		filter.FromDate = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid timestamp").WithDetail("param", "to"))
			return
		}
		filter.ToDate = &t
	}

	result, err := h.service.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Paginated(c, result.Items, result.TotalCount, result.Limit, result.Offset)
}
