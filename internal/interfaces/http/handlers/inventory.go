// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"github.com/Josey34/multivendor-api-project/internal/domain/inventory"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// InventoryHandler exposes the stock ledger to vendors
type InventoryHandler struct {
	inventoryService *inventory.Service
	perPage          int
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *inventory.Service, perPage int) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		perPage:          perPage,
	}
}

// GetStockMovements handles GET /vendor/products/:id/stock-movements
func (h *InventoryHandler) GetStockMovements(c *gin.Context) {
	vendorID, err := currentIdentity(c).OwnedVendorID()
	if err != nil {
		response.Error(c, err)
		return
	}

	productID, err := pathID(c, "id", "Product")
	if err != nil {
		response.Error(c, err)
		return
	}

	movements, meta, err := h.inventoryService.Movements(c.Request.Context(), vendorID, productID, pageQuery(c, h.perPage))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Stock movements retrieved successfully", movements, meta)
}
