// internal/interfaces/http/handlers/order.go
package handlers

import (
	"github.com/Josey34/multivendor-api-project/internal/domain/order"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles customer and vendor order endpoints
type OrderHandler struct {
	orderService *order.Service
	perPage      int
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, perPage int) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		perPage:      perPage,
	}
}

func (h *OrderHandler) orderFilter(c *gin.Context) order.OrderFilter {
	return order.OrderFilter{
		Status:        order.OrderStatus(c.Query("status")),
		PaymentStatus: order.PaymentStatus(c.Query("payment_status")),
		Search:        c.Query("search"),
		Page:          pageQuery(c, h.perPage),
	}
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	filter := h.orderFilter(c)
	filter.Search = ""

	list, err := h.orderService.ListForUser(c.Request.Context(), currentIdentity(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Orders retrieved successfully", list.Orders, list.Meta)
}

// GetOrder handles GET /orders/:order_number
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.orderService.GetForUser(c.Request.Context(), currentIdentity(c), c.Param("order_number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", o)
}

// CancelOrder handles POST /orders/:order_number/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	o, err := h.orderService.Cancel(c.Request.Context(), currentIdentity(c), c.Param("order_number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled successfully", o)
}

// GetVendorOrders handles GET /vendor/orders
func (h *OrderHandler) GetVendorOrders(c *gin.Context) {
	list, err := h.orderService.ListForVendor(c.Request.Context(), currentIdentity(c), h.orderFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Orders retrieved successfully", list.Orders, list.Meta)
}

// GetVendorOrder handles GET /vendor/orders/:order_number
func (h *OrderHandler) GetVendorOrder(c *gin.Context) {
	o, err := h.orderService.GetForVendor(c.Request.Context(), currentIdentity(c), c.Param("order_number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", o)
}

// UpdateOrderStatus handles PUT /vendor/orders/:order_number/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	o, err := h.orderService.UpdateStatus(c.Request.Context(), currentIdentity(c), c.Param("order_number"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated successfully", o)
}

// GetOrderStatistics handles GET /vendor/orders/statistics
func (h *OrderHandler) GetOrderStatistics(c *gin.Context) {
	stats, err := h.orderService.Statistics(c.Request.Context(), currentIdentity(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order statistics retrieved successfully", stats)
}
