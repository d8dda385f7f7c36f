// internal/interfaces/http/handlers/product.go
package handlers

import (
	"strconv"

	"github.com/Josey34/multivendor-api-project/internal/domain/product"
	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductHandler handles catalog and review endpoints
type ProductHandler struct {
	productService *product.Service
	reviewService  *product.ReviewService
	perPage        int
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *product.Service, reviewService *product.ReviewService, perPage int) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		reviewService:  reviewService,
		perPage:        perPage,
	}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter, err := h.productFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	list, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Products retrieved successfully", list.Products, list.Meta)
}

// GetProductBySlug handles GET /products/:slug
func (h *ProductHandler) GetProductBySlug(c *gin.Context) {
	p, err := h.productService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", p)
}

// GetReviews handles GET /products/:slug/reviews
func (h *ProductHandler) GetReviews(c *gin.Context) {
	p, err := h.productService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	list, err := h.reviewService.ListApproved(c.Request.Context(), p.ID, pageQuery(c, h.perPage))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Reviews retrieved successfully", gin.H{
		"reviews": list.Reviews,
		"summary": list.Summary,
	}, list.Meta)
}

// CreateReview handles POST /products/:slug/reviews
func (h *ProductHandler) CreateReview(c *gin.Context) {
	var req product.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	p, err := h.productService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), currentIdentity(c).UserID, p.ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Review submitted successfully", review)
}

func (h *ProductHandler) productFilter(c *gin.Context) (product.ProductFilter, error) {
	filter := product.ProductFilter{
		Search:      c.Query("search"),
		SortBy:      c.Query("sort"),
		InStockOnly: queryFlag(c, "in_stock"),
		Featured:    queryFlag(c, "is_featured"),
		OnSale:      queryFlag(c, "on_sale"),
		Page:        pageQuery(c, h.perPage),
	}

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, shared.FieldError("category_id", "Category must be a number")
		}
		filter.CategoryID = uint(id)
	}
	if v := c.Query("vendor_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, shared.FieldError("vendor_id", "Vendor must be a number")
		}
		filter.VendorID = uint(id)
	}

	prices := []struct {
		field  string
		target **decimal.Decimal
	}{
		{"min_price", &filter.MinPrice},
		{"max_price", &filter.MaxPrice},
	}
	for _, price := range prices {
		v := c.Query(price.field)
		if v == "" {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return filter, shared.FieldError(price.field, "Price must be a non-negative number")
		}
		*price.target = &d
	}

	return filter, nil
}
