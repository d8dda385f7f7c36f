package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Statistics summarizes a vendor's orders
type Statistics struct {
	TotalOrders      int64           `json:"total_orders"`
	PendingOrders    int64           `json:"pending_orders"`
	ProcessingOrders int64           `json:"processing_orders"`
	ShippedOrders    int64           `json:"shipped_orders"`
	DeliveredOrders  int64           `json:"delivered_orders"`
	CancelledOrders  int64           `json:"cancelled_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"` // Paid orders only
	TodayOrders      int64           `json:"today_orders"`
}

// StatsCache stores computed statistics per vendor. Get returns nil, nil on a miss.
type StatsCache interface {
	Get(ctx context.Context, vendorID uint) (*Statistics, error)
	Set(ctx context.Context, vendorID uint, stats *Statistics) error
	Invalidate(ctx context.Context, vendorID uint) error
}

type noopStatsCache struct{}

func (noopStatsCache) Get(context.Context, uint) (*Statistics, error) { return nil, nil }
func (noopStatsCache) Set(context.Context, uint, *Statistics) error   { return nil }
func (noopStatsCache) Invalidate(context.Context, uint) error         { return nil }

func computeStatistics(db *gorm.DB, vendorID uint, now time.Time) (*Statistics, error) {
	var rows []struct {
		Status OrderStatus
		Count  int64
	}
	if err := db.Model(&Order{}).
		Select("status, COUNT(*) AS count").
		Where("vendor_id = ?", vendorID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	stats := &Statistics{TotalRevenue: decimal.Zero}
	for _, row := range rows {
		stats.TotalOrders += row.Count
		switch row.Status {
		case OrderStatusPending:
			stats.PendingOrders = row.Count
		case OrderStatusProcessing:
			stats.ProcessingOrders = row.Count
		case OrderStatusShipped:
			stats.ShippedOrders = row.Count
		case OrderStatusDelivered:
			stats.DeliveredOrders = row.Count
		case OrderStatusCancelled:
			stats.CancelledOrders = row.Count
		}
	}

	var revenue struct {
		Revenue decimal.NullDecimal
	}
	if err := db.Model(&Order{}).
		Select("SUM(total) AS revenue").
		Where("vendor_id = ? AND payment_status = ?", vendorID, PaymentStatusPaid).
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if revenue.Revenue.Valid {
		stats.TotalRevenue = revenue.Revenue.Decimal.Round(2)
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.Model(&Order{}).
		Where("vendor_id = ? AND created_at >= ?", vendorID, startOfDay).
		Count(&stats.TodayOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count today's orders: %w", err)
	}

	return stats, nil
}
