// internal/domain/inventory/entity.go
package inventory

import (
	"time"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	MovementTypeInbound  MovementType = "inbound"  // Cancellation, restock
	MovementTypeOutbound MovementType = "outbound" // Sale
)

// MovementReason represents the reason for a stock movement
type MovementReason string

const (
	ReasonSale         MovementReason = "sale"
	ReasonCancellation MovementReason = "cancellation"
	ReasonAdjustment   MovementReason = "adjustment" // Vendor restock or correction
)

// StockMovement is one append-only ledger row for a product's stock_quantity
type StockMovement struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ProductID        uint           `gorm:"not null;index" json:"product_id"`
	MovementType     MovementType   `gorm:"size:20;not null" json:"movement_type"`
	Reason           MovementReason `gorm:"size:30;not null" json:"reason"`
	Quantity         int            `gorm:"not null" json:"quantity"`
	PreviousQuantity int            `gorm:"not null" json:"previous_quantity"`
	NewQuantity      int            `gorm:"not null" json:"new_quantity"`
	ReferenceType    string         `gorm:"size:50" json:"reference_type,omitempty"`
	ReferenceID      string         `gorm:"size:50;index" json:"reference_id,omitempty"`
	CreatedBy        *uint          `json:"created_by,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

func (StockMovement) TableName() string { return "stock_movements" }
