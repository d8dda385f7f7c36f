// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"github.com/Josey34/multivendor-api-project/internal/domain/cart"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.cartService.GetCart(c.Request.Context(), currentIdentity(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", view)
}

// GetItems handles GET /cart/items
func (h *CartHandler) GetItems(c *gin.Context) {
	view, err := h.cartService.GetCart(c.Request.Context(), currentIdentity(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart items retrieved successfully", gin.H{
		"items":  view.Items,
		"totals": view.Totals,
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	view, err := h.cartService.AddItem(c.Request.Context(), currentIdentity(c).UserID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item added to cart successfully", view)
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	itemID, err := pathID(c, "id", "Cart item")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	view, err := h.cartService.UpdateItem(c.Request.Context(), currentIdentity(c).UserID, itemID, *req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart item updated successfully", view)
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	itemID, err := pathID(c, "id", "Cart item")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), currentIdentity(c).UserID, itemID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed from cart successfully", nil)
}

// ClearCart handles DELETE /cart/clear
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), currentIdentity(c).UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart cleared successfully", nil)
}
