package handlers

import (
	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain"
	"stockpilot/internal/domain/catalogs/supplier"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

// SupplierHandler serves supplier CRUD endpoints.
type SupplierHandler struct {
	*BaseHandler
	service *supplier.Service
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *SupplierHandler {
	return &SupplierHandler{BaseHandler: base, service: service}
}

// Create handles POST /suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), sup); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, sup.ID)
}

// Get handles GET /suppliers/:id
func (h *SupplierHandler) Get(c *gin.Context) {
	supID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	sup, err := h.service.GetByID(c.Request.Context(), supID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sup)
}

// Update handles PUT /suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	supID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup, err := h.service.GetByID(c.Request.Context(), supID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(sup)
	if err := h.service.Update(c.Request.Context(), sup); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sup)
}

// Delete handles DELETE /suppliers/:id
func (h *SupplierHandler) Delete(c *gin.Context) {
	supID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), supID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// List handles GET /suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	filter := supplier.ListFilter{
		ListFilter: domain.ListFilter{
			Search:  c.Query("search"),
			OrderBy: c.Query("orderBy"),
			Limit:   h.ParseIntQuery(c, "limit", 50),
			Offset:  h.ParseIntQuery(c, "offset", 0),
		},
		ActiveOnly: c.Query("activeOnly") == "true",
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Paginated(c, result.Items, result.TotalCount, result.Limit, result.Offset)
}
