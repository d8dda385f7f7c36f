// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"github.com/Josey34/multivendor-api-project/internal/domain/checkout"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// GetCheckoutSummary handles GET /checkout/summary
func (h *CheckoutHandler) GetCheckoutSummary(c *gin.Context) {
	summary, err := h.checkoutService.Summary(c.Request.Context(), currentIdentity(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Checkout summary retrieved successfully", summary)
}

// PlaceOrder handles POST /checkout
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req checkout.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	orders, err := h.checkoutService.PlaceOrder(c.Request.Context(), currentIdentity(c).UserID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order placed successfully", orders)
}
