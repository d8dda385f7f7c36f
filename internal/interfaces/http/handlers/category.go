// internal/interfaces/http/handlers/category.go
package handlers

import (
	"github.com/Josey34/multivendor-api-project/internal/domain/product"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	productService *product.Service
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(productService *product.Service) *CategoryHandler {
	return &CategoryHandler{productService: productService}
}

// GetCategories handles GET /categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.productService.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Categories retrieved successfully", categories)
}
