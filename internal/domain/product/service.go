// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// effectivePriceSQL mirrors EffectivePrice for filtering and sorting in the database
const effectivePriceSQL = "CASE WHEN sale_price IS NOT NULL AND sale_price < price THEN sale_price ELSE price END"

// priceParamSQL binds a decimal price. The cast keeps the comparison numeric
// on drivers that send decimals as text.
const priceParamSQL = "CAST(? AS DECIMAL(12,2))"

// Service serves catalog reads
type Service struct {
	db *gorm.DB
}

// NewService creates a new product service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ProductFilter is the typed filter for catalog listings
type ProductFilter struct {
	Search      string
	CategoryID  uint
	VendorID    uint
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	InStockOnly bool
	Featured    bool
	OnSale      bool
	SortBy      string
	Page        shared.Page
}

// ProductList is one page of products
type ProductList struct {
	Products []Product
	Meta     shared.PageMeta
}

// List returns active products matching the filter
func (s *Service) List(ctx context.Context, filter ProductFilter) (*ProductList, error) {
	page := filter.Page.Normalize()

	query := s.db.WithContext(ctx).Model(&Product{}).Where("is_active = ?", true)

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(sku) LIKE ?)", like, like, like)
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.VendorID > 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.MinPrice != nil {
		query = query.Where(effectivePriceSQL+" >= "+priceParamSQL, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where(effectivePriceSQL+" <= "+priceParamSQL, *filter.MaxPrice)
	}
	if filter.InStockOnly {
		query = query.Where("stock_status <> ?", StockStatusOutOfStock)
	}
	if filter.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if filter.OnSale {
		query = query.Where("sale_price IS NOT NULL AND sale_price < price")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, sort_order ASC, id ASC")
		}).
		Preload("Vendor").
		Order(sortClause(filter.SortBy)).
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return &ProductList{Products: products, Meta: shared.NewPageMeta(page, total)}, nil
}

// GetBySlug returns an active product with its images, variants, vendor and category
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	var product Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		Preload("Vendor").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, sort_order ASC, id ASC")
		}).
		Preload("Variants", "is_active = ?", true).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Product")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &product, nil
}

func sortClause(sortBy string) string {
	switch sortBy {
	case "price_asc":
		return effectivePriceSQL + " ASC, id ASC"
	case "price_desc":
		return effectivePriceSQL + " DESC, id DESC"
	case "rating":
		return "rating DESC, id DESC"
	case "popular":
		return "total_sales DESC, id DESC"
	case "name":
		return "name ASC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}
