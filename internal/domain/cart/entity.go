// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/Josey34/multivendor-api-project/internal/domain/product"
	"github.com/shopspring/decimal"
)

// Cart belongs to exactly one user
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// CartItem is one (product, variant) line. Price is the effective price
// captured when the line was first added.
type CartItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	CartID           uint            `gorm:"not null;index:idx_cart_items_line" json:"cart_id"`
	ProductID        uint            `gorm:"not null;index:idx_cart_items_line" json:"product_id"`
	ProductVariantID *uint           `gorm:"index:idx_cart_items_line" json:"product_variant_id"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	Price            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	ImageURL         string          `gorm:"-" json:"image_url,omitempty"`

	Product *product.Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant *product.ProductVariant `gorm:"foreignKey:ProductVariantID" json:"variant,omitempty"`
}

func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// Subtotal is price × quantity
func (i *CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int             `json:"item_count"`     // Number of lines
	TotalQuantity int             `json:"total_quantity"` // Sum of all quantities
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// Totals sums the cart's lines
func (c *Cart) Totals() Totals {
	totals := Totals{ItemCount: len(c.Items), Subtotal: decimal.Zero}
	for i := range c.Items {
		totals.TotalQuantity += c.Items[i].Quantity
		totals.Subtotal = totals.Subtotal.Add(c.Items[i].Subtotal())
	}
	return totals
}

// View is the cart as returned to its owner
type View struct {
	*Cart
	Totals Totals `json:"totals"`
}

func newView(c *Cart) *View {
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	for i := range c.Items {
		if c.Items[i].Product == nil {
			continue
		}
		if img := c.Items[i].Product.PrimaryImage(); img != nil {
			c.Items[i].ImageURL = img.URL
		}
	}
	return &View{Cart: c, Totals: c.Totals()}
}
