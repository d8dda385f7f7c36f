// internal/domain/product/vendor_service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/Josey34/multivendor-api-project/internal/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultLowStockThreshold = 5

// StockSetter overwrites a product's stock level inside tx and records the change
type StockSetter interface {
	SetStock(tx *gorm.DB, productID uint, quantity int, userID uint) error
}

// VendorService lets a vendor manage its own listings
type VendorService struct {
	db    *gorm.DB
	stock StockSetter
}

// NewVendorService creates a new vendor product service
func NewVendorService(db *gorm.DB, stock StockSetter) *VendorService {
	return &VendorService{db: db, stock: stock}
}

// VendorProductFilter narrows a vendor's own listing
type VendorProductFilter struct {
	Search   string
	IsActive *bool
	Page     shared.Page
}

// CreateProductRequest represents a new listing
type CreateProductRequest struct {
	CategoryID        uint             `json:"category_id" binding:"required"`
	BrandID           *uint            `json:"brand_id"`
	Name              string           `json:"name" binding:"required,max=255"`
	SKU               string           `json:"sku" binding:"max=100"`
	Description       string           `json:"description" binding:"required"`
	ShortDescription  string           `json:"short_description" binding:"max=500"`
	Price             *decimal.Decimal `json:"price" binding:"required"`
	SalePrice         *decimal.Decimal `json:"sale_price"`
	StockQuantity     *int             `json:"stock_quantity" binding:"required,min=0"`
	LowStockThreshold *int             `json:"low_stock_threshold" binding:"omitempty,min=0"`
	IsFeatured        bool             `json:"is_featured"`
}

// UpdateProductRequest is a patch: nil fields are left untouched
type UpdateProductRequest struct {
	CategoryID        *uint            `json:"category_id"`
	BrandID           *uint            `json:"brand_id"`
	Name              *string          `json:"name" binding:"omitempty,max=255"`
	Description       *string          `json:"description"`
	ShortDescription  *string          `json:"short_description" binding:"omitempty,max=500"`
	Price             *decimal.Decimal `json:"price"`
	SalePrice         *decimal.Decimal `json:"sale_price"`
	RemoveSalePrice   bool             `json:"remove_sale_price"`
	StockQuantity     *int             `json:"stock_quantity" binding:"omitempty,min=0"`
	LowStockThreshold *int             `json:"low_stock_threshold" binding:"omitempty,min=0"`
	IsActive          *bool            `json:"is_active"`
	IsFeatured        *bool            `json:"is_featured"`
}

func (r *CreateProductRequest) validate() error {
	if r.CategoryID == 0 {
		return shared.FieldError("category_id", "Category is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return shared.FieldError("name", "Name is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return shared.FieldError("description", "Description is required")
	}
	if r.Price == nil {
		return shared.FieldError("price", "Price is required")
	}
	if r.StockQuantity == nil {
		return shared.FieldError("stock_quantity", "Stock quantity is required")
	}
	return validateListing(*r.Price, nullDecimal(r.SalePrice), *r.StockQuantity, r.threshold())
}

func (r *CreateProductRequest) threshold() int {
	if r.LowStockThreshold == nil {
		return defaultLowStockThreshold
	}
	return *r.LowStockThreshold
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.Round(2))
}

// validateListing checks the price and stock figures a listing ends up with
func validateListing(price decimal.Decimal, salePrice decimal.NullDecimal, stock, threshold int) error {
	if price.IsNegative() {
		return shared.FieldError("price", "Price cannot be negative")
	}
	if salePrice.Valid {
		if salePrice.Decimal.IsNegative() {
			return shared.FieldError("sale_price", "Sale price cannot be negative")
		}
		if !salePrice.Decimal.LessThan(price) {
			return shared.FieldError("sale_price", "Sale price must be lower than price")
		}
	}
	if stock < 0 {
		return shared.FieldError("stock_quantity", "Stock quantity cannot be negative")
	}
	if threshold < 0 {
		return shared.FieldError("low_stock_threshold", "Low stock threshold cannot be negative")
	}
	return nil
}

// List returns the vendor's products, newest first, inactive ones included
func (s *VendorService) List(ctx context.Context, identity shared.Identity, filter VendorProductFilter) (*ProductList, error) {
	vendorID, err := identity.OwnedVendorID()
	if err != nil {
		return nil, err
	}
	page := filter.Page.Normalize()

	query := s.db.WithContext(ctx).Model(&Product{}).Where("vendor_id = ?", vendorID)
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)", like, like)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	err = query.
		Preload("Category").
		Preload("Brand").
		Preload("Images", "is_primary = ?", true).
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return &ProductList{Products: products, Meta: shared.NewPageMeta(page, total)}, nil
}

// Get returns one of the vendor's products with its relations. Another
// vendor's product reads as not found.
func (s *VendorService) Get(ctx context.Context, identity shared.Identity, productID uint) (*Product, error) {
	vendorID, err := identity.OwnedVendorID()
	if err != nil {
		return nil, err
	}

	var p Product
	err = s.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, sort_order ASC, id ASC")
		}).
		Preload("Variants").
		Where("id = ? AND vendor_id = ?", productID, vendorID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Product")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &p, nil
}

// Create lists a new active product for an approved vendor. Opening stock is
// booked through the stock ledger.
func (s *VendorService) Create(ctx context.Context, identity shared.Identity, req *CreateProductRequest) (*Product, error) {
	vendorID, err := s.approvedVendor(ctx, identity)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := checkTaxonomy(db, &req.CategoryID, req.BrandID); err != nil {
		return nil, err
	}

	categoryID := req.CategoryID
	threshold := req.threshold()
	p := &Product{
		VendorID:          vendorID,
		CategoryID:        &categoryID,
		BrandID:           req.BrandID,
		Name:              strings.TrimSpace(req.Name),
		Description:       strings.TrimSpace(req.Description),
		ShortDescription:  strings.TrimSpace(req.ShortDescription),
		Price:             req.Price.Round(2),
		SalePrice:         nullDecimal(req.SalePrice),
		LowStockThreshold: threshold,
		StockStatus:       StockStatusFor(*req.StockQuantity, threshold),
		IsActive:          true,
		IsFeatured:        req.IsFeatured,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueProductSlug(tx, p.Name)
		if err != nil {
			return err
		}
		sku, err := productSKU(tx, req.SKU)
		if err != nil {
			return err
		}
		p.Slug, p.SKU = slug, sku

		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return s.stock.SetStock(tx, p.ID, *req.StockQuantity, identity.UserID)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, identity, p.ID)
}

// Update applies a patch to one of an approved vendor's products. Stock
// changes go through the stock ledger and stock_status follows the result.
func (s *VendorService) Update(ctx context.Context, identity shared.Identity, productID uint, req *UpdateProductRequest) (*Product, error) {
	vendorID, err := s.approvedVendor(ctx, identity)
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		name  string
		value *string
	}{{"name", req.Name}, {"description", req.Description}} {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return nil, shared.FieldError(f.name, f.name+" cannot be empty")
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND vendor_id = ?", productID, vendorID).
			First(&p).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NotFound("Product")
			}
			return fmt.Errorf("failed to get product: %w", err)
		}

		price := p.Price
		if req.Price != nil {
			price = req.Price.Round(2)
		}
		salePrice := p.SalePrice
		switch {
		case req.RemoveSalePrice:
			salePrice = decimal.NullDecimal{}
		case req.SalePrice != nil:
			salePrice = nullDecimal(req.SalePrice)
		}
		stock := p.StockQuantity
		if req.StockQuantity != nil {
			stock = *req.StockQuantity
		}
		threshold := p.LowStockThreshold
		if req.LowStockThreshold != nil {
			threshold = *req.LowStockThreshold
		}
		if err := validateListing(price, salePrice, stock, threshold); err != nil {
			return err
		}
		if err := checkTaxonomy(tx, req.CategoryID, req.BrandID); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"price":               price,
			"sale_price":          salePrice,
			"low_stock_threshold": threshold,
		}
		set := func(column string, value *string) {
			if value != nil {
				updates[column] = strings.TrimSpace(*value)
			}
		}
		set("name", req.Name)
		set("description", req.Description)
		set("short_description", req.ShortDescription)
		if req.CategoryID != nil {
			updates["category_id"] = *req.CategoryID
		}
		if req.BrandID != nil {
			updates["brand_id"] = *req.BrandID
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		if req.IsFeatured != nil {
			updates["is_featured"] = *req.IsFeatured
		}

		if err := tx.Model(&p).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		if req.StockQuantity != nil {
			if err := s.stock.SetStock(tx, p.ID, stock, identity.UserID); err != nil {
				return err
			}
		}
		if err := tx.Model(&Product{}).Where("id = ?", p.ID).
			Update("stock_status", StockStatusFor(stock, threshold)).Error; err != nil {
			return fmt.Errorf("failed to refresh stock status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, identity, productID)
}

// Delete soft deletes one of the vendor's products. Placed orders keep their
// snapshots; carts holding it stop checking out.
func (s *VendorService) Delete(ctx context.Context, identity shared.Identity, productID uint) error {
	vendorID, err := identity.OwnedVendorID()
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", productID, vendorID).
		Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Product")
	}
	return nil
}

// approvedVendor resolves the caller's shop and requires it to be approved
func (s *VendorService) approvedVendor(ctx context.Context, identity shared.Identity) (uint, error) {
	vendorID, err := identity.OwnedVendorID()
	if err != nil {
		return 0, err
	}

	var v user.Vendor
	if err := s.db.WithContext(ctx).Select("id", "status").First(&v, vendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, shared.Forbidden("Vendor account required")
		}
		return 0, fmt.Errorf("failed to get vendor: %w", err)
	}
	if !v.IsApproved() {
		return 0, shared.Forbidden("Your vendor account is not approved yet")
	}
	return vendorID, nil
}

func uniqueProductSlug(tx *gorm.DB, name string) (string, error) {
	base := user.Slugify(name)
	if base == "" {
		base = "product"
	}

	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := tx.Unscoped().Model(&Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// productSKU returns the requested SKU if it is free, or generates one
func productSKU(tx *gorm.DB, requested string) (string, error) {
	sku := strings.ToUpper(strings.TrimSpace(requested))
	if sku == "" {
		return "SKU-" + strings.ToUpper(uuid.NewString()[:8]), nil
	}

	var count int64
	if err := tx.Unscoped().Model(&Product{}).Where("sku = ?", sku).Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to check sku: %w", err)
	}
	if count > 0 {
		return "", shared.AlreadyExists("SKU is already in use")
	}
	return sku, nil
}
