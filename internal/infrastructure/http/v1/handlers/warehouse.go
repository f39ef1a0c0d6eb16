package handlers

import (
	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain"
	"stockpilot/internal/domain/catalogs/warehouse"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler serves warehouse CRUD endpoints.
type WarehouseHandler struct {
	*BaseHandler
	service *warehouse.Service
}

// NewWarehouseHandler creates a new warehouse handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{BaseHandler: base, service: service}
}

// Create handles POST /warehouses
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req dto.CreateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	wh := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), wh); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, wh.ID)
}

// Get handles GET /warehouses/:id
func (h *WarehouseHandler) Get(c *gin.Context) {
	whID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	wh, err := h.service.GetByID(c.Request.Context(), whID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, wh)
}

// Update handles PUT /warehouses/:id
func (h *WarehouseHandler) Update(c *gin.Context) {
	whID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	wh, err := h.service.GetByID(c.Request.Context(), whID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(wh)
	if err := h.service.Update(c.Request.Context(), wh); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, wh)
}

// Delete handles DELETE /warehouses/:id
func (h *WarehouseHandler) Delete(c *gin.Context) {
	whID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), whID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// List handles GET /warehouses
func (h *WarehouseHandler) List(c *gin.Context) {
	filter := domain.ListFilter{
		Search:  c.Query("search"),
		OrderBy: c.Query("orderBy"),
		Limit:   h.ParseIntQuery(c, "limit", 50),
		Offset:  h.ParseIntQuery(c, "offset", 0),
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Paginated(c, result.Items, result.TotalCount, result.Limit, result.Offset)
}
