package handlers

import (
	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain"
	"stockpilot/internal/domain/catalogs/category"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

// CategoryHandler serves category CRUD endpoints.
type CategoryHandler struct {
	*BaseHandler
	service *category.Service
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(base *BaseHandler, service *category.Service) *CategoryHandler {
	return &CategoryHandler{BaseHandler: base, service: service}
}

// Create handles POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), cat); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cat.ID)
}

// Get handles GET /categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	catID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	cat, err := h.service.GetByID(c.Request.Context(), catID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cat)
}

// Update handles PUT /categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	catID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat, err := h.service.GetByID(c.Request.Context(), catID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(cat)
	if err := h.service.Update(c.Request.Context(), cat); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cat)
}

// Delete handles DELETE /categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	catID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), catID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// List handles GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
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
