// internal/domain/inventory/service.go
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/Josey34/multivendor-api-project/internal/domain/product"
	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const referenceTypeOrder = "order"

// stockStatusSQL recomputes stock_status from the row's own columns
const stockStatusSQL = "CASE WHEN stock_quantity <= 0 THEN ? WHEN stock_quantity <= low_stock_threshold THEN ? ELSE ? END"

// Service handles product stock adjustments and the movement ledger
type Service struct {
	db *gorm.DB
}

// NewService creates a new inventory service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Adjustment describes a single stock change caused by an order
type Adjustment struct {
	ProductID   uint
	Quantity    int
	OrderNumber string
	UserID      uint
}

// Decrement removes stock for a sale. The update only applies while enough
// stock remains, so concurrent checkouts can never drive stock below zero.
// It must run inside the caller's transaction.
func (s *Service) Decrement(tx *gorm.DB, adj Adjustment) error {
	if adj.Quantity <= 0 {
		return shared.ValidationError("Quantity must be at least 1")
	}

	result := tx.Model(&product.Product{}).
		Where("id = ? AND stock_quantity >= ?", adj.ProductID, adj.Quantity).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", adj.Quantity),
			"total_sales":    gorm.Expr("total_sales + ?", adj.Quantity),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.InsufficientStock(fmt.Sprintf("Insufficient stock for product %d", adj.ProductID))
	}

	return s.afterAdjustment(tx, adj, MovementTypeOutbound, ReasonSale, adj.Quantity)
}

// Restore puts stock back for a cancelled order line. total_sales never
// drops below zero.
func (s *Service) Restore(tx *gorm.DB, adj Adjustment) error {
	if adj.Quantity <= 0 {
		return shared.ValidationError("Quantity must be at least 1")
	}

	result := tx.Unscoped().Model(&product.Product{}).
		Where("id = ?", adj.ProductID).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", adj.Quantity),
			"total_sales":    gorm.Expr("CASE WHEN total_sales >= ? THEN total_sales - ? ELSE 0 END", adj.Quantity, adj.Quantity),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to restore stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Product")
	}

	return s.afterAdjustment(tx, adj, MovementTypeInbound, ReasonCancellation, -adj.Quantity)
}

// SetStock overwrites a product's stock level, as a vendor restock or count
// correction, and records the difference. Setting the current level is a no-op.
// It must run inside the caller's transaction.
func (s *Service) SetStock(tx *gorm.DB, productID uint, quantity int, userID uint) error {
	if quantity < 0 {
		return shared.FieldError("stock_quantity", "Stock quantity cannot be negative")
	}

	var current product.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "stock_quantity").
		First(&current, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NotFound("Product")
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	delta := current.StockQuantity - quantity
	if delta == 0 {
		return nil
	}

	if err := tx.Model(&product.Product{}).
		Where("id = ?", productID).
		Update("stock_quantity", quantity).Error; err != nil {
		return fmt.Errorf("failed to set stock: %w", err)
	}

	adj := Adjustment{ProductID: productID, Quantity: delta, UserID: userID}
	movementType := MovementTypeOutbound
	if delta < 0 {
		adj.Quantity = -delta
		movementType = MovementTypeInbound
	}
	return s.afterAdjustment(tx, adj, movementType, ReasonAdjustment, delta)
}

// afterAdjustment refreshes stock_status and appends the ledger row.
// delta is the amount subtracted from stock by the adjustment.
func (s *Service) afterAdjustment(tx *gorm.DB, adj Adjustment, movementType MovementType, reason MovementReason, delta int) error {
	if err := tx.Unscoped().Model(&product.Product{}).
		Where("id = ?", adj.ProductID).
		Update("stock_status", gorm.Expr(stockStatusSQL,
			product.StockStatusOutOfStock, product.StockStatusLowStock, product.StockStatusInStock)).Error; err != nil {
		return fmt.Errorf("failed to refresh stock status: %w", err)
	}

	var current product.Product
	if err := tx.Unscoped().Select("id", "stock_quantity").First(&current, adj.ProductID).Error; err != nil {
		return fmt.Errorf("failed to read stock level: %w", err)
	}

	movement := &StockMovement{
		ProductID:        adj.ProductID,
		MovementType:     movementType,
		Reason:           reason,
		Quantity:         adj.Quantity,
		PreviousQuantity: current.StockQuantity + delta,
		NewQuantity:      current.StockQuantity,
	}
	if adj.OrderNumber != "" {
		movement.ReferenceType = referenceTypeOrder
		movement.ReferenceID = adj.OrderNumber
	}
	if adj.UserID != 0 {
		uid := adj.UserID
		movement.CreatedBy = &uid
	}

	if err := tx.Create(movement).Error; err != nil {
		return fmt.Errorf("failed to record stock movement: %w", err)
	}
	return nil
}

// Movements lists the ledger of a vendor's product, newest first
func (s *Service) Movements(ctx context.Context, vendorID, productID uint, page shared.Page) ([]StockMovement, shared.PageMeta, error) {
	page = page.Normalize()

	var owned product.Product
	if err := s.db.WithContext(ctx).Select("id").
		Where("id = ? AND vendor_id = ?", productID, vendorID).
		First(&owned).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.PageMeta{}, shared.NotFound("Product")
		}
		return nil, shared.PageMeta{}, fmt.Errorf("failed to get product: %w", err)
	}

	query := s.db.WithContext(ctx).Model(&StockMovement{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, shared.PageMeta{}, fmt.Errorf("failed to count stock movements: %w", err)
	}

	var movements []StockMovement
	if err := query.Order("created_at DESC, id DESC").
		Offset(page.Offset()).Limit(page.PerPage).
		Find(&movements).Error; err != nil {
		return nil, shared.PageMeta{}, fmt.Errorf("failed to get stock movements: %w", err)
	}

	return movements, shared.NewPageMeta(page, total), nil
}
