// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/Josey34/multivendor-api-project/internal/domain/product"
	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles cart business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new cart service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ProductID        uint  `json:"product_id" binding:"required"`
	ProductVariantID *uint `json:"product_variant_id"`
	Quantity         int   `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents update cart item request. Zero removes the line.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// GetCart returns the user's cart with products, primary images and variants loaded
func (s *Service) GetCart(ctx context.Context, userID uint) (*View, error) {
	c, err := Load(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	return newView(c), nil
}

// Load reads the user's cart and its lines. A user without a cart gets an empty, unsaved one.
func Load(db *gorm.DB, userID uint) (*Cart, error) {
	var c Cart
	err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id") }).
		Preload("Items.Product").
		Preload("Items.Product.Images", "is_primary = ?", true).
		Preload("Items.Variant").
		Where("user_id = ?", userID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Cart{UserID: userID, Items: []CartItem{}}, nil
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	return &c, nil
}

// AddItem adds quantity of a product (and optional variant) to the cart
func (s *Service) AddItem(ctx context.Context, userID uint, req *AddItemRequest) (*View, error) {
	if req.Quantity < 1 {
		return nil, shared.FieldError("quantity", "Quantity must be at least 1")
	}

	db := s.db.WithContext(ctx)

	prod, err := findProduct(db, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !prod.IsPurchasable() {
		return nil, shared.NotAvailable("Product is not available")
	}

	price := prod.EffectivePrice()
	if req.ProductVariantID != nil {
		var variant product.ProductVariant
		err := db.Where("id = ? AND product_id = ? AND is_active = ?", *req.ProductVariantID, prod.ID, true).
			First(&variant).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, shared.NotFound("Product variant")
			}
			return nil, fmt.Errorf("failed to get product variant: %w", err)
		}
		price = variant.EffectivePrice()
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		c, err := findOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		existing, err := findLine(tx, c.ID, prod.ID, req.ProductVariantID)
		if err != nil {
			return err
		}

		if existing != nil {
			if req.Quantity > prod.StockQuantity-existing.Quantity {
				return shared.InsufficientStock(fmt.Sprintf("Cannot add more. Available: %d", prod.StockQuantity))
			}
			if err := tx.Model(existing).Update("quantity", existing.Quantity+req.Quantity).Error; err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}
			return nil
		}

		if req.Quantity > prod.StockQuantity {
			return shared.InsufficientStock(fmt.Sprintf("Insufficient stock. Available: %d", prod.StockQuantity))
		}

		item := &CartItem{
			CartID:           c.ID,
			ProductID:        prod.ID,
			ProductVariantID: req.ProductVariantID,
			Quantity:         req.Quantity,
			Price:            price,
		}
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to add cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// UpdateItem sets a line's quantity; zero removes it
func (s *Service) UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (*View, error) {
	if quantity < 0 {
		return nil, shared.FieldError("quantity", "Quantity cannot be negative")
	}

	db := s.db.WithContext(ctx)

	item, err := findOwnedItem(db, userID, itemID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		if err := db.Delete(&CartItem{}, item.ID).Error; err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
		return s.GetCart(ctx, userID)
	}

	prod, err := findProduct(db, item.ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > prod.StockQuantity {
		return nil, shared.InsufficientStock(fmt.Sprintf("Insufficient stock. Available: %d", prod.StockQuantity))
	}

	if err := db.Model(item).Update("quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem deletes one line from the user's cart
func (s *Service) RemoveItem(ctx context.Context, userID, itemID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND cart_id IN (?)", itemID,
			s.db.Model(&Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&CartItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Cart item")
	}
	return nil
}

// Clear removes every line from the user's cart
func (s *Service) Clear(ctx context.Context, userID uint) error {
	return ClearLines(s.db.WithContext(ctx), userID)
}

// ClearLines deletes the user's cart lines using db, which may be a transaction
func ClearLines(db *gorm.DB, userID uint) error {
	err := db.Where("cart_id IN (?)",
		db.Session(&gorm.Session{NewDB: true}).Model(&Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func findProduct(db *gorm.DB, productID uint) (*product.Product, error) {
	var prod product.Product
	if err := db.First(&prod, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Product")
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &prod, nil
}

// findOrCreateCart returns the user's cart row locked for the rest of tx, so
// concurrent adds of the same line are serialized
func findOrCreateCart(tx *gorm.DB, userID uint) (*Cart, error) {
	var c Cart
	if err := tx.Where(Cart{UserID: userID}).FirstOrCreate(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, c.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}
	return &c, nil
}

func findLine(tx *gorm.DB, cartID, productID uint, variantID *uint) (*CartItem, error) {
	query := tx.Where("cart_id = ? AND product_id = ?", cartID, productID)
	if variantID != nil {
		query = query.Where("product_variant_id = ?", *variantID)
	} else {
		query = query.Where("product_variant_id IS NULL")
	}

	var item CartItem
	if err := query.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return &item, nil
}

func findOwnedItem(db *gorm.DB, userID, itemID uint) (*CartItem, error) {
	var item CartItem
	err := db.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Cart item")
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return &item, nil
}
