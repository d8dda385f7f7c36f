// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/Josey34/multivendor-api-project/internal/domain/user"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockStatus is derived from stock_quantity and low_stock_threshold
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// Product represents a catalog entry owned by one vendor
type Product struct {
	ID                uint                `gorm:"primaryKey" json:"id"`
	VendorID          uint                `gorm:"not null;index" json:"vendor_id"`
	CategoryID        *uint               `gorm:"index" json:"category_id"`
	BrandID           *uint               `gorm:"index" json:"brand_id"`
	Name              string              `gorm:"not null;size:255" json:"name"`
	Slug              string              `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	SKU               string              `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Description       string              `gorm:"type:text" json:"description"`
	ShortDescription  string              `gorm:"size:500" json:"short_description"`
	Price             decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"price"`
	SalePrice         decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"sale_price"`
	StockQuantity     int                 `gorm:"not null" json:"stock_quantity"`
	LowStockThreshold int                 `gorm:"not null" json:"low_stock_threshold"`
	StockStatus       StockStatus         `gorm:"size:20;not null;index" json:"stock_status"`
	IsActive          bool                `gorm:"not null;index" json:"is_active"`
	IsFeatured        bool                `gorm:"not null" json:"is_featured"`
	Rating            float64             `gorm:"type:decimal(3,2);not null" json:"rating"`
	TotalReviews      int                 `gorm:"not null" json:"total_reviews"`
	TotalSales        int                 `gorm:"not null" json:"total_sales"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	DeletedAt         gorm.DeletedAt      `gorm:"index" json:"-"`

	// Relationships
	Vendor   *user.Vendor     `gorm:"foreignKey:VendorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"vendor,omitempty"`
	Category *Category        `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	Brand    *Brand           `gorm:"foreignKey:BrandID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"brand,omitempty"`
	Images   []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"variants,omitempty"`
}

// Category represents product categories
type Category struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	Slug      string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	ParentID  *uint          `gorm:"index" json:"parent_id"`
	IsActive  bool           `gorm:"not null" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Brand represents product brands
type Brand struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	Slug      string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	IsActive  bool           `gorm:"not null" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ProductImage represents product images
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	AltText   string    `gorm:"size:255" json:"alt_text"`
	IsPrimary bool      `gorm:"not null" json:"is_primary"`
	SortOrder int       `gorm:"not null" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductVariant is a purchasable option of a product with its own price
type ProductVariant struct {
	ID        uint                `gorm:"primaryKey" json:"id"`
	ProductID uint                `gorm:"not null;index" json:"product_id"`
	Name      string              `gorm:"not null;size:255" json:"name"`
	SKU       string              `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Price     decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"price"`
	SalePrice decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"sale_price"`
	IsActive  bool                `gorm:"not null" json:"is_active"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Review is a customer's rating of a product; one per user and product
type Review struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ProductID  uint           `gorm:"not null;uniqueIndex:idx_reviews_product_user" json:"product_id"`
	UserID     uint           `gorm:"not null;uniqueIndex:idx_reviews_product_user" json:"user_id"`
	Rating     int            `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string         `gorm:"type:text;not null" json:"comment"`
	IsApproved bool           `gorm:"not null;index" json:"is_approved"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User   *user.User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Images []ReviewImage `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE;" json:"images,omitempty"`
}

// ReviewImage is a photo attached to a review
type ReviewImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  uint      `gorm:"not null;index" json:"review_id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	SortOrder int       `gorm:"not null" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

func (Product) TableName() string        { return "products" }
func (Category) TableName() string       { return "categories" }
func (Brand) TableName() string          { return "brands" }
func (ProductImage) TableName() string   { return "product_images" }
func (ProductVariant) TableName() string { return "product_variants" }
func (Review) TableName() string         { return "reviews" }
func (ReviewImage) TableName() string    { return "review_images" }

// EffectivePrice returns the sale price when it is set and lower than the list price
func EffectivePrice(price decimal.Decimal, salePrice decimal.NullDecimal) decimal.Decimal {
	if salePrice.Valid && salePrice.Decimal.LessThan(price) {
		return salePrice.Decimal
	}
	return price
}

// StockStatusFor derives the stock status of a quantity against a low-stock threshold
func StockStatusFor(quantity, lowStockThreshold int) StockStatus {
	switch {
	case quantity <= 0:
		return StockStatusOutOfStock
	case quantity <= lowStockThreshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// EffectivePrice returns the product's current selling price
func (p *Product) EffectivePrice() decimal.Decimal {
	return EffectivePrice(p.Price, p.SalePrice)
}

// IsPurchasable reports whether the product can be added to a cart at all
func (p *Product) IsPurchasable() bool {
	return p.IsActive && p.StockStatus != StockStatusOutOfStock && p.StockQuantity > 0
}

// PrimaryImage returns the primary image, or the first image when none is flagged
func (p *Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

// EffectivePrice returns the variant's current selling price
func (v *ProductVariant) EffectivePrice() decimal.Decimal {
	return EffectivePrice(v.Price, v.SalePrice)
}
