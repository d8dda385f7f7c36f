// internal/interfaces/http/handlers/vendor_product.go
package handlers

import (
	"strconv"

	"github.com/Josey34/multivendor-api-project/internal/domain/product"
	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// VendorProductHandler lets vendors manage their own listings
type VendorProductHandler struct {
	vendorService *product.VendorService
	perPage       int
}

// NewVendorProductHandler creates a new vendor product handler
func NewVendorProductHandler(vendorService *product.VendorService, perPage int) *VendorProductHandler {
	return &VendorProductHandler{
		vendorService: vendorService,
		perPage:       perPage,
	}
}

// GetProducts handles GET /vendor/products
func (h *VendorProductHandler) GetProducts(c *gin.Context) {
	filter := product.VendorProductFilter{
		Search: c.Query("search"),
		Page:   pageQuery(c, h.perPage),
	}
	if v := c.Query("is_active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			response.Error(c, shared.FieldError("is_active", "is_active must be true or false"))
			return
		}
		filter.IsActive = &active
	}

	list, err := h.vendorService.List(c.Request.Context(), currentIdentity(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Products retrieved successfully", list.Products, list.Meta)
}

// GetProduct handles GET /vendor/products/:id
func (h *VendorProductHandler) GetProduct(c *gin.Context) {
	productID, err := pathID(c, "id", "Product")
	if err != nil {
		response.Error(c, err)
		return
	}

	p, err := h.vendorService.Get(c.Request.Context(), currentIdentity(c), productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", p)
}

// CreateProduct handles POST /vendor/products
func (h *VendorProductHandler) CreateProduct(c *gin.Context) {
	var req product.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	p, err := h.vendorService.Create(c.Request.Context(), currentIdentity(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", p)
}

// UpdateProduct handles PUT /vendor/products/:id
func (h *VendorProductHandler) UpdateProduct(c *gin.Context) {
	productID, err := pathID(c, "id", "Product")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req product.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	p, err := h.vendorService.Update(c.Request.Context(), currentIdentity(c), productID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", p)
}

// DeleteProduct handles DELETE /vendor/products/:id
func (h *VendorProductHandler) DeleteProduct(c *gin.Context) {
	productID, err := pathID(c, "id", "Product")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.vendorService.Delete(c.Request.Context(), currentIdentity(c), productID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product deleted successfully", nil)
}
