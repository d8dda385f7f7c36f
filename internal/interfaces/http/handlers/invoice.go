// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/Josey34/multivendor-api-project/internal/domain/order"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/response"
	"github.com/Josey34/multivendor-api-project/internal/pkg/pdf"
	"github.com/gin-gonic/gin"
)

// InvoiceRenderer produces the PDF invoice of a loaded order
type InvoiceRenderer interface {
	GenerateInvoice(o *order.Order) ([]byte, error)
}

// InvoiceHandler handles invoice-related endpoints
type InvoiceHandler struct {
	orderService *order.Service
	renderer     InvoiceRenderer
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(orderService *order.Service, renderer InvoiceRenderer) *InvoiceHandler {
	return &InvoiceHandler{
		orderService: orderService,
		renderer:     renderer,
	}
}

// GenerateInvoice handles GET /orders/:order_number/invoice for the customer or the selling vendor
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	o, err := h.orderService.GetVisible(c.Request.Context(), currentIdentity(c), c.Param("order_number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	content, err := h.renderer.GenerateInvoice(o)
	if err != nil {
		response.Error(c, fmt.Errorf("failed to generate invoice for %s: %w", o.OrderNumber, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pdf.InvoiceFilename(o)))
	c.Data(http.StatusOK, "application/pdf", content)
}
