// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/Josey34/multivendor-api-project/internal/domain/user"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents the fulfillment state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// PaymentStatus represents the settlement state of an order, independent of its status
type PaymentStatus string

const (
	PaymentStatusUnpaid    PaymentStatus = "unpaid"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPending, PaymentStatusPaid,
		PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

// PaymentMethod is the method chosen at checkout
type PaymentMethod string

const (
	PaymentMethodCOD          PaymentMethod = "cod"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodEWallet      PaymentMethod = "e-wallet"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodBankTransfer, PaymentMethodCreditCard, PaymentMethodEWallet:
		return true
	}
	return false
}

// InitialPaymentStatus is unpaid for cash on delivery and pending for everything else
func (m PaymentMethod) InitialPaymentStatus() PaymentStatus {
	if m == PaymentMethodCOD {
		return PaymentStatusUnpaid
	}
	return PaymentStatusPending
}

// Order is the part of a checkout that belongs to one vendor
type Order struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	OrderNumber       string        `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	CheckoutGroup     string        `gorm:"size:36;not null;index" json:"checkout_group"`
	UserID            uint          `gorm:"not null;index" json:"user_id"`
	VendorID          uint          `gorm:"not null;index" json:"vendor_id"`
	ShippingAddressID uint          `gorm:"not null" json:"shipping_address_id"`
	BillingAddressID  uint          `gorm:"not null" json:"billing_address_id"`
	Status            OrderStatus   `gorm:"size:20;not null;index" json:"status"`
	PaymentStatus     PaymentStatus `gorm:"size:20;not null;index" json:"payment_status"`
	PaymentMethod     PaymentMethod `gorm:"size:20;not null" json:"payment_method"`

	// Monetary snapshot, total = subtotal + tax + shipping_cost - discount
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_cost"`
	Discount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Currency     string          `gorm:"size:3;not null" json:"currency"`

	Notes          string `gorm:"type:text" json:"notes"`
	TrackingNumber string `gorm:"size:255" json:"tracking_number"`

	// Timestamps
	PaidAt      *time.Time     `json:"paid_at"`
	ShippedAt   *time.Time     `json:"shipped_at"`
	DeliveredAt *time.Time     `json:"delivered_at"`
	CancelledAt *time.Time     `json:"cancelled_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User            *user.User           `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT;" json:"user,omitempty"`
	Vendor          *user.Vendor         `gorm:"foreignKey:VendorID;constraint:OnDelete:RESTRICT;" json:"vendor,omitempty"`
	ShippingAddress *user.Address        `gorm:"foreignKey:ShippingAddressID;constraint:OnDelete:RESTRICT;" json:"shipping_address,omitempty"`
	BillingAddress  *user.Address        `gorm:"foreignKey:BillingAddressID;constraint:OnDelete:RESTRICT;" json:"billing_address,omitempty"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	Payments        []Payment            `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"payments,omitempty"`
	StatusHistory   []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem is a line frozen at checkout. Catalog edits never reach it.
type OrderItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	OrderID          uint            `gorm:"not null;index" json:"order_id"`
	ProductID        uint            `gorm:"not null;index" json:"product_id"`
	ProductVariantID *uint           `json:"product_variant_id"`
	ProductName      string          `gorm:"not null;size:255" json:"product_name"`
	ProductSKU       string          `gorm:"not null;size:100" json:"product_sku"`
	VariantName      string          `gorm:"size:255" json:"variant_name,omitempty"`
	VariantSKU       string          `gorm:"size:100" json:"variant_sku,omitempty"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	Price            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	CreatedAt        time.Time       `json:"created_at"`
}

// PaymentRecordStatus is the state of a single settlement attempt
type PaymentRecordStatus string

const (
	PaymentRecordPending   PaymentRecordStatus = "pending"
	PaymentRecordSuccess   PaymentRecordStatus = "success"
	PaymentRecordFailed    PaymentRecordStatus = "failed"
	PaymentRecordCancelled PaymentRecordStatus = "cancelled"
)

// Payment records one settlement attempt for an order
type Payment struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	OrderID       uint                `gorm:"not null;index" json:"order_id"`
	PaymentMethod PaymentMethod       `gorm:"size:20;not null" json:"payment_method"`
	Gateway       string              `gorm:"size:50" json:"gateway"`
	TransactionID string              `gorm:"size:255" json:"transaction_id,omitempty"`
	Amount        decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency      string              `gorm:"size:3;not null" json:"currency"`
	Status        PaymentRecordStatus `gorm:"size:20;not null" json:"status"`
	PaidAt        *time.Time          `json:"paid_at"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// OrderStatusHistory tracks order status changes
type OrderStatusHistory struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	OrderID    uint        `gorm:"not null;index" json:"order_id"`
	FromStatus OrderStatus `gorm:"size:20" json:"from_status,omitempty"`
	ToStatus   OrderStatus `gorm:"size:20;not null" json:"to_status"`
	Note       string      `gorm:"type:text" json:"note,omitempty"`
	CreatedBy  uint        `gorm:"index" json:"created_by"` // User ID who made the change
	CreatedAt  time.Time   `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderItem) TableName() string          { return "order_items" }
func (Payment) TableName() string            { return "payments" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// ItemCount sums the quantities of the order's lines
func (o *Order) ItemCount() int {
	n := 0
	for i := range o.Items {
		n += o.Items[i].Quantity
	}
	return n
}

// IsTerminal reports whether no further transition is allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

// Models lists the order tables for migration
func Models() []interface{} {
	return []interface{}{&Order{}, &OrderItem{}, &Payment{}, &OrderStatusHistory{}}
}
