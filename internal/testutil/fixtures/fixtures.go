// Package fixtures seeds users, vendors, addresses and products for service tests.
package fixtures

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/Josey34/multivendor-api-project/internal/config"
	"github.com/Josey34/multivendor-api-project/internal/domain/cart"
	"github.com/Josey34/multivendor-api-project/internal/domain/inventory"
	"github.com/Josey34/multivendor-api-project/internal/domain/order"
	"github.com/Josey34/multivendor-api-project/internal/domain/product"
	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/Josey34/multivendor-api-project/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Int64

func next() int64 { return seq.Add(1) }

// CatalogModels are the tables every cart, checkout and order test needs
func CatalogModels() []interface{} {
	return []interface{}{
		&user.User{},
		&user.Vendor{},
		&user.Address{},
		&product.Category{},
		&product.Brand{},
		&product.Product{},
		&product.ProductImage{},
		&product.ProductVariant{},
		&product.Review{},
		&product.ReviewImage{},
	}
}

// CommerceModels adds carts, the stock ledger and orders to the catalog tables
func CommerceModels() []interface{} {
	models := CatalogModels()
	models = append(models, &cart.Cart{}, &cart.CartItem{}, &inventory.StockMovement{})
	return append(models, order.Models()...)
}

// Config returns the default checkout settings: 10% tax, 10.00 flat shipping, IDR
func Config() *config.Config {
	return &config.Config{
		Commerce: config.CommerceConfig{
			TaxRate:             decimal.RequireFromString("0.10"),
			FlatShippingCost:    decimal.RequireFromString("10.00"),
			Currency:            "IDR",
			OrderNumberAttempts: 5,
			PageSize:            20,
		},
	}
}

// Brand creates an active brand
func Brand(t *testing.T, db *gorm.DB, name string) *product.Brand {
	t.Helper()
	b := &product.Brand{
		Name:     name,
		Slug:     fmt.Sprintf("brand-%d", next()),
		IsActive: true,
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

func InBrand(brandID uint) ProductOption {
	return func(p *product.Product) { p.BrandID = &brandID }
}

func Featured() ProductOption {
	return func(p *product.Product) { p.IsFeatured = true }
}

// Customer creates an active customer
func Customer(t *testing.T, db *gorm.DB) *user.User {
	t.Helper()
	n := next()
	u := &user.User{
		Name:     fmt.Sprintf("Customer %d", n),
		Email:    fmt.Sprintf("customer%d@example.com", n),
		Password: "x",
		Role:     shared.RoleCustomer,
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Vendor creates a vendor user and its approved shop
func Vendor(t *testing.T, db *gorm.DB) (*user.User, *user.Vendor) {
	t.Helper()
	n := next()
	u := &user.User{
		Name:     fmt.Sprintf("Seller %d", n),
		Email:    fmt.Sprintf("seller%d@example.com", n),
		Password: "x",
		Role:     shared.RoleVendor,
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)

	v := &user.Vendor{
		UserID:   u.ID,
		ShopName: fmt.Sprintf("Shop %d", n),
		Slug:     fmt.Sprintf("shop-%d", n),
		Status:   user.VendorStatusApproved,
	}
	require.NoError(t, db.Create(v).Error)
	return u, v
}

// VendorIdentity is the identity a vendor's token would resolve to
func VendorIdentity(u *user.User, v *user.Vendor) shared.Identity {
	vendorID := v.ID
	return shared.Identity{UserID: u.ID, Role: shared.RoleVendor, VendorID: &vendorID}
}

// CustomerIdentity is the identity a customer's token would resolve to
func CustomerIdentity(u *user.User) shared.Identity {
	return shared.Identity{UserID: u.ID, Role: shared.RoleCustomer}
}

// Address creates an address for the user
func Address(t *testing.T, db *gorm.DB, userID uint) *user.Address {
	t.Helper()
	a := &user.Address{
		UserID:       userID,
		FullName:     "Rina Putri",
		Phone:        "+62811000000",
		AddressLine1: "Jl. Merdeka 1",
		City:         "Jakarta",
		State:        "DKI Jakarta",
		PostalCode:   "10110",
		Country:      "Indonesia",
		Type:         user.AddressTypeBoth,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

// ProductOption adjusts a product before it is inserted
type ProductOption func(p *product.Product)

func WithStock(qty int) ProductOption {
	return func(p *product.Product) {
		p.StockQuantity = qty
		p.StockStatus = product.StockStatusFor(qty, p.LowStockThreshold)
	}
}

func WithSalePrice(price string) ProductOption {
	return func(p *product.Product) {
		p.SalePrice = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
}

func WithLowStockThreshold(n int) ProductOption {
	return func(p *product.Product) {
		p.LowStockThreshold = n
		p.StockStatus = product.StockStatusFor(p.StockQuantity, n)
	}
}

func Inactive() ProductOption {
	return func(p *product.Product) { p.IsActive = false }
}

func InCategory(categoryID uint) ProductOption {
	return func(p *product.Product) { p.CategoryID = &categoryID }
}

// Category creates an active category
func Category(t *testing.T, db *gorm.DB, name string) *product.Category {
	t.Helper()
	c := &product.Category{
		Name:     name,
		Slug:     fmt.Sprintf("category-%d", next()),
		IsActive: true,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

// Product creates an active product of the vendor priced at price with 10 units in stock
func Product(t *testing.T, db *gorm.DB, vendorID uint, price string, opts ...ProductOption) *product.Product {
	t.Helper()
	n := next()
	p := &product.Product{
		VendorID:          vendorID,
		Name:              fmt.Sprintf("Product %d", n),
		Slug:              fmt.Sprintf("product-%d", n),
		SKU:               fmt.Sprintf("SKU-%d", n),
		Price:             decimal.RequireFromString(price),
		StockQuantity:     10,
		LowStockThreshold: 2,
		StockStatus:       product.StockStatusInStock,
		IsActive:          true,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Variant creates an active variant of the product
func Variant(t *testing.T, db *gorm.DB, productID uint, name, price string) *product.ProductVariant {
	t.Helper()
	v := &product.ProductVariant{
		ProductID: productID,
		Name:      name,
		SKU:       fmt.Sprintf("VAR-%d", next()),
		Price:     decimal.RequireFromString(price),
		IsActive:  true,
	}
	require.NoError(t, db.Create(v).Error)
	return v
}

// Reload reads the product's current row
func Reload(t *testing.T, db *gorm.DB, id uint) *product.Product {
	t.Helper()
	var p product.Product
	require.NoError(t, db.First(&p, id).Error)
	return &p
}

// CartLine puts a line straight into the user's cart at the product's effective price
func CartLine(t *testing.T, db *gorm.DB, userID uint, p *product.Product, qty int) *cart.CartItem {
	t.Helper()
	var c cart.Cart
	require.NoError(t, db.Where(cart.Cart{UserID: userID}).FirstOrCreate(&c).Error)

	item := &cart.CartItem{
		CartID:    c.ID,
		ProductID: p.ID,
		Quantity:  qty,
		Price:     p.EffectivePrice(),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// CartSize counts the lines in the user's cart
func CartSize(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&cart.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Count(&n).Error)
	return n
}
