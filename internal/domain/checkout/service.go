// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Josey34/multivendor-api-project/internal/config"
	"github.com/Josey34/multivendor-api-project/internal/domain/cart"
	"github.com/Josey34/multivendor-api-project/internal/domain/inventory"
	"github.com/Josey34/multivendor-api-project/internal/domain/order"
	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/Josey34/multivendor-api-project/internal/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const maxNotesLength = 500

// Service turns a cart into one order per vendor
type Service struct {
	db        *gorm.DB
	inventory *inventory.Service
	cache     order.StatsCache
	logger    logrus.FieldLogger
	commerce  config.CommerceConfig
	numbers   order.NumberGenerator
	now       func() time.Time
}

// NewService creates a new checkout service. cache may be nil.
func NewService(db *gorm.DB, inv *inventory.Service, cache order.StatsCache, logger logrus.FieldLogger, cfg *config.Config) *Service {
	return &Service{
		db:        db,
		inventory: inv,
		cache:     cache,
		logger:    logger,
		commerce:  cfg.Commerce,
		numbers:   order.NewOrderNumber,
		now:       time.Now,
	}
}

// PlaceOrderRequest represents checkout request
type PlaceOrderRequest struct {
	ShippingAddressID uint                `json:"shipping_address_id" binding:"required"`
	BillingAddressID  *uint               `json:"billing_address_id"`
	PaymentMethod     order.PaymentMethod `json:"payment_method" binding:"required"`
	Notes             string              `json:"notes"`
}

func (r *PlaceOrderRequest) validate() error {
	if r.ShippingAddressID == 0 {
		return shared.FieldError("shipping_address_id", "Shipping address is required")
	}
	if !r.PaymentMethod.Valid() {
		return shared.FieldError("payment_method", "Payment method must be one of cod, bank_transfer, credit_card, e-wallet")
	}
	if utf8.RuneCountInString(r.Notes) > maxNotesLength {
		return shared.FieldError("notes", fmt.Sprintf("Notes may not be longer than %d characters", maxNotesLength))
	}
	return nil
}

// Partition is the set of cart lines one vendor will fulfil, with its totals
type Partition struct {
	VendorID     uint            `json:"vendor_id"`
	Items        []cart.CartItem `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
}

// Split groups cart lines by the vendor of their product and prices each group.
// Lines must have their Product loaded. Partitions are ordered by vendor id.
func Split(items []cart.CartItem, taxRate, shippingCost decimal.Decimal) []Partition {
	byVendor := make(map[uint]*Partition)
	for _, item := range items {
		vendorID := item.Product.VendorID
		p, ok := byVendor[vendorID]
		if !ok {
			p = &Partition{VendorID: vendorID, Subtotal: decimal.Zero}
			byVendor[vendorID] = p
		}
		p.Items = append(p.Items, item)
		p.Subtotal = p.Subtotal.Add(item.Subtotal())
	}

	partitions := make([]Partition, 0, len(byVendor))
	for _, p := range byVendor {
		p.Tax = p.Subtotal.Mul(taxRate).Round(2)
		p.ShippingCost = shippingCost
		p.Discount = decimal.Zero
		p.Total = p.Subtotal.Add(p.Tax).Add(p.ShippingCost).Sub(p.Discount)
		partitions = append(partitions, *p)
	}
	sort.Slice(partitions, func(i, j int) bool { return partitions[i].VendorID < partitions[j].VendorID })
	return partitions
}

// Summary previews what PlaceOrder would create for the current cart
type Summary struct {
	Partitions   []Partition     `json:"orders"`
	ItemCount    int             `json:"item_count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Total        decimal.Decimal `json:"total"`
}

// Summary prices the user's cart per vendor without placing anything
func (s *Service) Summary(ctx context.Context, userID uint) (*Summary, error) {
	c, err := cart.Load(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, shared.EmptyCart()
	}
	if err := checkAvailability(c.Items); err != nil {
		return nil, err
	}

	summary := &Summary{
		Partitions:   Split(c.Items, s.commerce.TaxRate, s.commerce.FlatShippingCost),
		Subtotal:     decimal.Zero,
		Tax:          decimal.Zero,
		ShippingCost: decimal.Zero,
		Total:        decimal.Zero,
	}
	for _, p := range summary.Partitions {
		summary.Subtotal = summary.Subtotal.Add(p.Subtotal)
		summary.Tax = summary.Tax.Add(p.Tax)
		summary.ShippingCost = summary.ShippingCost.Add(p.ShippingCost)
		summary.Total = summary.Total.Add(p.Total)
		for _, item := range p.Items {
			summary.ItemCount += item.Quantity
		}
	}
	return summary, nil
}

// PlaceOrder checks out the user's cart. Every vendor order, stock change,
// payment and the cart clear commit together or not at all.
func (s *Service) PlaceOrder(ctx context.Context, userID uint, req *PlaceOrderRequest) ([]order.Order, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	c, err := cart.Load(db, userID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, shared.EmptyCart()
	}

	billingID := req.ShippingAddressID
	if req.BillingAddressID != nil {
		billingID = *req.BillingAddressID
	}
	for _, addressID := range []uint{req.ShippingAddressID, billingID} {
		if _, err := user.FindOwnedAddress(db, userID, addressID); err != nil {
			if shared.HasCode(err, shared.CodeNotFound) {
				return nil, shared.AddressNotOwned()
			}
			return nil, err
		}
	}

	if err := checkAvailability(c.Items); err != nil {
		return nil, err
	}

	partitions := Split(c.Items, s.commerce.TaxRate, s.commerce.FlatShippingCost)
	group := uuid.NewString()
	now := s.now()
	paymentStatus := req.PaymentMethod.InitialPaymentStatus()

	orderIDs := make([]uint, 0, len(partitions))
	err = db.Transaction(func(tx *gorm.DB) error {
		taken := make(map[string]bool, len(partitions))
		for _, p := range partitions {
			number, err := order.AllocateNumber(tx, s.numbers, now, s.commerce.OrderNumberAttempts, taken)
			if err != nil {
				return err
			}
			taken[number] = true

			o := &order.Order{
				OrderNumber:       number,
				CheckoutGroup:     group,
				UserID:            userID,
				VendorID:          p.VendorID,
				ShippingAddressID: req.ShippingAddressID,
				BillingAddressID:  billingID,
				Status:            order.OrderStatusPending,
				PaymentStatus:     paymentStatus,
				PaymentMethod:     req.PaymentMethod,
				Subtotal:          p.Subtotal,
				Tax:               p.Tax,
				ShippingCost:      p.ShippingCost,
				Discount:          p.Discount,
				Total:             p.Total,
				Currency:          s.commerce.Currency,
				Notes:             strings.TrimSpace(req.Notes),
				Items:             snapshotItems(p.Items),
			}
			if err := tx.Create(o).Error; err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}

			for _, item := range p.Items {
				if err := s.inventory.Decrement(tx, inventory.Adjustment{
					ProductID:   item.ProductID,
					Quantity:    item.Quantity,
					OrderNumber: number,
					UserID:      userID,
				}); err != nil {
					if shared.HasCode(err, shared.CodeInsufficientStock) {
						return shared.InsufficientStock(fmt.Sprintf("Insufficient stock for %s", item.Product.Name))
					}
					return err
				}
			}

			payment := &order.Payment{
				OrderID:       o.ID,
				PaymentMethod: req.PaymentMethod,
				Gateway:       string(req.PaymentMethod),
				Amount:        o.Total,
				Currency:      s.commerce.Currency,
				Status:        order.PaymentRecordPending,
			}
			if err := tx.Create(payment).Error; err != nil {
				return fmt.Errorf("failed to create payment: %w", err)
			}

			if err := order.RecordPlaced(tx, o.ID, userID); err != nil {
				return err
			}
			orderIDs = append(orderIDs, o.ID)
		}

		return cart.ClearLines(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	var orders []order.Order
	if err := order.Preloaded(db).Where("id IN ?", orderIDs).Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load placed orders: %w", err)
	}

	for _, o := range orders {
		if s.cache != nil {
			if err := s.cache.Invalidate(ctx, o.VendorID); err != nil {
				s.logger.WithError(err).WithField("vendor_id", o.VendorID).Warn("Failed to invalidate order statistics")
			}
		}
		s.logger.WithFields(logrus.Fields{
			"order_number":   o.OrderNumber,
			"checkout_group": group,
			"user_id":        userID,
			"vendor_id":      o.VendorID,
			"total":          o.Total.StringFixed(2),
		}).Info("Order placed")
	}

	return orders, nil
}

// checkAvailability verifies every product is still sellable and that the
// cart's combined quantity per product fits the current stock
func checkAvailability(items []cart.CartItem) error {
	needed := make(map[uint]int)
	for _, item := range items {
		if item.Product == nil || !item.Product.IsActive {
			return shared.NotAvailable("A product in your cart is no longer available")
		}
		needed[item.ProductID] += item.Quantity
	}

	for _, item := range items {
		qty, ok := needed[item.ProductID]
		if !ok {
			continue
		}
		if item.Product.StockQuantity < qty {
			return shared.InsufficientStock(fmt.Sprintf("Insufficient stock for %s. Available: %d",
				item.Product.Name, item.Product.StockQuantity))
		}
		delete(needed, item.ProductID)
	}
	return nil
}

func snapshotItems(items []cart.CartItem) []order.OrderItem {
	lines := make([]order.OrderItem, 0, len(items))
	for _, item := range items {
		line := order.OrderItem{
			ProductID:        item.ProductID,
			ProductVariantID: item.ProductVariantID,
			ProductName:      item.Product.Name,
			ProductSKU:       item.Product.SKU,
			Quantity:         item.Quantity,
			Price:            item.Price,
			Subtotal:         item.Subtotal(),
		}
		if item.Variant != nil {
			line.VariantName = item.Variant.Name
			line.VariantSKU = item.Variant.SKU
		}
		lines = append(lines, line)
	}
	return lines
}
