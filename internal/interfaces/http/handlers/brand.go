// internal/interfaces/http/handlers/brand.go
package handlers

import (
	"github.com/Josey34/multivendor-api-project/internal/domain/product"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// BrandHandler handles brand endpoints
type BrandHandler struct {
	productService *product.Service
}

// NewBrandHandler creates a new brand handler
func NewBrandHandler(productService *product.Service) *BrandHandler {
	return &BrandHandler{productService: productService}
}

// GetBrands handles GET /brands
func (h *BrandHandler) GetBrands(c *gin.Context) {
	brands, err := h.productService.Brands(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Brands retrieved successfully", brands)
}

// GetBrand handles GET /brands/:slug
func (h *BrandHandler) GetBrand(c *gin.Context) {
	brand, err := h.productService.BrandBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Brand retrieved successfully", brand)
}
