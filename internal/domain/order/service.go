// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Josey34/multivendor-api-project/internal/domain/inventory"
	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/Josey34/multivendor-api-project/internal/domain/user"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service handles order reads and the order lifecycle after checkout
type Service struct {
	db        *gorm.DB
	inventory *inventory.Service
	cache     StatsCache
	logger    logrus.FieldLogger
	now       func() time.Time
}

// NewService creates a new order service. A nil cache disables statistics caching.
func NewService(db *gorm.DB, inv *inventory.Service, cache StatsCache, logger logrus.FieldLogger) *Service {
	if cache == nil {
		cache = noopStatsCache{}
	}
	return &Service{
		db:        db,
		inventory: inv,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// OrderFilter narrows an order listing
type OrderFilter struct {
	Status        OrderStatus
	PaymentStatus PaymentStatus
	Search        string // order number or customer name/email, vendor listings only
	Page          shared.Page
}

func (f OrderFilter) validate() error {
	if f.Status != "" && !f.Status.Valid() {
		return shared.FieldError("status", "Invalid order status")
	}
	if f.PaymentStatus != "" && !f.PaymentStatus.Valid() {
		return shared.FieldError("payment_status", "Invalid payment status")
	}
	return nil
}

// OrderList is a page of orders
type OrderList struct {
	Orders []Order         `json:"orders"`
	Meta   shared.PageMeta `json:"meta"`
}

// UpdateStatusRequest is a vendor's request to advance an order
type UpdateStatusRequest struct {
	Status         OrderStatus `json:"status" binding:"required"`
	TrackingNumber string      `json:"tracking_number" binding:"max=255"`
}

// ListForUser lists the caller's own orders, newest first
func (s *Service) ListForUser(ctx context.Context, identity shared.Identity, filter OrderFilter) (*OrderList, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&Order{}).Where("user_id = ?", identity.UserID)
	return s.list(query, filter, "Vendor")
}

// GetForUser returns one of the caller's orders. Orders of other users are reported as not found.
func (s *Service) GetForUser(ctx context.Context, identity shared.Identity, orderNumber string) (*Order, error) {
	return s.load(s.db.WithContext(ctx).Where("user_id = ?", identity.UserID), orderNumber)
}

// ListForVendor lists orders placed with the caller's shop
func (s *Service) ListForVendor(ctx context.Context, identity shared.Identity, filter OrderFilter) (*OrderList, error) {
	vendorID, err := identity.OwnedVendorID()
	if err != nil {
		return nil, err
	}
	if err := filter.validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	query := db.Model(&Order{}).Where("vendor_id = ?", vendorID)
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("order_number LIKE ? OR user_id IN (?)", like,
			db.Model(&user.User{}).Select("id").Where("name LIKE ? OR email LIKE ?", like, like))
	}
	return s.list(query, filter, "User")
}

// GetForVendor returns one order of the caller's shop
func (s *Service) GetForVendor(ctx context.Context, identity shared.Identity, orderNumber string) (*Order, error) {
	vendorID, err := identity.OwnedVendorID()
	if err != nil {
		return nil, err
	}
	return s.load(s.db.WithContext(ctx).Where("vendor_id = ?", vendorID), orderNumber)
}

// GetVisible returns an order the caller either placed or fulfils
func (s *Service) GetVisible(ctx context.Context, identity shared.Identity, orderNumber string) (*Order, error) {
	query := s.db.WithContext(ctx)
	if identity.VendorID != nil {
		query = query.Where("user_id = ? OR vendor_id = ?", identity.UserID, *identity.VendorID)
	} else {
		query = query.Where("user_id = ?", identity.UserID)
	}
	return s.load(query, orderNumber)
}

// Cancel moves a pending order to cancelled and returns its stock
func (s *Service) Cancel(ctx context.Context, identity shared.Identity, orderNumber string) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").
			Where("order_number = ? AND user_id = ?", orderNumber, identity.UserID).
			First(&o).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NotFound("Order")
			}
			return fmt.Errorf("failed to get order: %w", err)
		}

		if err := CheckCancel(o.Status); err != nil {
			return err
		}

		now := s.now()
		updates := map[string]interface{}{
			"status":       OrderStatusCancelled,
			"cancelled_at": now,
		}
		if o.PaymentStatus == PaymentStatusUnpaid || o.PaymentStatus == PaymentStatusPending {
			updates["payment_status"] = PaymentStatusCancelled
		}
		if err := s.advance(tx, &o, updates); err != nil {
			return err
		}

		for _, item := range o.Items {
			if err := s.inventory.Restore(tx, inventory.Adjustment{
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				OrderNumber: o.OrderNumber,
				UserID:      identity.UserID,
			}); err != nil {
				return err
			}
		}

		if err := tx.Model(&Payment{}).
			Where("order_id = ? AND status = ?", o.ID, PaymentRecordPending).
			Update("status", PaymentRecordCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel payments: %w", err)
		}

		return recordHistory(tx, o.ID, OrderStatusPending, OrderStatusCancelled, identity.UserID, "Cancelled by customer")
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, o.VendorID)
	s.logger.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"user_id":      identity.UserID,
		"vendor_id":    o.VendorID,
	}).Info("Order cancelled")

	return s.GetForUser(ctx, identity, orderNumber)
}

// UpdateStatus advances one of the caller's shop orders through processing, shipped and delivered
func (s *Service) UpdateStatus(ctx context.Context, identity shared.Identity, orderNumber string, req *UpdateStatusRequest) (*Order, error) {
	vendorID, err := identity.OwnedVendorID()
	if err != nil {
		return nil, err
	}

	var from OrderStatus
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.Where("order_number = ? AND vendor_id = ?", orderNumber, vendorID).First(&o).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NotFound("Order")
			}
			return fmt.Errorf("failed to get order: %w", err)
		}

		if err := CheckTransition(o.Status, req.Status); err != nil {
			return err
		}
		from = o.Status

		now := s.now()
		updates := map[string]interface{}{"status": req.Status}
		switch req.Status {
		case OrderStatusShipped:
			updates["shipped_at"] = now
			if tracking := strings.TrimSpace(req.TrackingNumber); tracking != "" {
				updates["tracking_number"] = tracking
			}
		case OrderStatusDelivered:
			updates["delivered_at"] = now
		}

		if err := s.advance(tx, &o, updates); err != nil {
			return err
		}
		return recordHistory(tx, o.ID, from, req.Status, identity.UserID, "")
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, vendorID)
	s.logger.WithFields(logrus.Fields{
		"order_number": orderNumber,
		"vendor_id":    vendorID,
		"from":         from,
		"to":           req.Status,
	}).Info("Order status changed")

	return s.GetForVendor(ctx, identity, orderNumber)
}

// Statistics returns the caller's shop statistics, served from cache when fresh
func (s *Service) Statistics(ctx context.Context, identity shared.Identity) (*Statistics, error) {
	vendorID, err := identity.OwnedVendorID()
	if err != nil {
		return nil, err
	}

	cached, err := s.cache.Get(ctx, vendorID)
	if err != nil {
		s.logger.WithError(err).WithField("vendor_id", vendorID).Warn("Failed to read cached order statistics")
	}
	if cached != nil {
		return cached, nil
	}

	stats, err := computeStatistics(s.db.WithContext(ctx), vendorID, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, vendorID, stats); err != nil {
		s.logger.WithError(err).WithField("vendor_id", vendorID).Warn("Failed to cache order statistics")
	}
	return stats, nil
}

// advance writes updates only if the order still has the status it was read with
func (s *Service) advance(tx *gorm.DB, o *Order, updates map[string]interface{}) error {
	result := tx.Model(&Order{}).Where("id = ? AND status = ?", o.ID, o.Status).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.InvalidTransition("Order was modified by another request, please retry")
	}
	return nil
}

func (s *Service) invalidateStats(ctx context.Context, vendorID uint) {
	if err := s.cache.Invalidate(ctx, vendorID); err != nil {
		s.logger.WithError(err).WithField("vendor_id", vendorID).Warn("Failed to invalidate order statistics")
	}
}

func (s *Service) list(query *gorm.DB, filter OrderFilter, counterpart string) (*OrderList, error) {
	page := filter.Page.Normalize()

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	orders := []Order{}
	if err := query.Preload("Items").Preload(counterpart).
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).Limit(page.PerPage).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return &OrderList{Orders: orders, Meta: shared.NewPageMeta(page, total)}, nil
}

// load reads one order with everything an order detail view shows
func (s *Service) load(scoped *gorm.DB, orderNumber string) (*Order, error) {
	var o Order
	err := Preloaded(scoped).Where("order_number = ?", orderNumber).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Order")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}

// Preloaded adds the detail relationships of an order to db.
// Addresses are loaded even when their owner has since deleted them.
func Preloaded(db *gorm.DB) *gorm.DB {
	unscoped := func(db *gorm.DB) *gorm.DB { return db.Unscoped() }
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("Payments").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("order_status_history.id") }).
		Preload("ShippingAddress", unscoped).
		Preload("BillingAddress", unscoped).
		Preload("Vendor").
		Preload("User")
}

func recordHistory(tx *gorm.DB, orderID uint, from, to OrderStatus, actorID uint, note string) error {
	history := &OrderStatusHistory{
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		Note:       note,
		CreatedBy:  actorID,
	}
	if err := tx.Create(history).Error; err != nil {
		return fmt.Errorf("failed to create status history: %w", err)
	}
	return nil
}

// RecordPlaced appends the initial history row of an order created by checkout
func RecordPlaced(tx *gorm.DB, orderID, actorID uint) error {
	return recordHistory(tx, orderID, "", OrderStatusPending, actorID, "Order placed")
}
