package cart_test

import (
	"context"
	"math"
	"testing"

	"github.com/Josey34/multivendor-api-project/internal/domain/cart"
	"github.com/Josey34/multivendor-api-project/internal/domain/product"
	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/Josey34/multivendor-api-project/internal/testutil"
	"github.com/Josey34/multivendor-api-project/internal/testutil/fixtures"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *cart.Service) {
	t.Helper()
	db := testutil.NewDB(t, append(fixtures.CatalogModels(), &cart.Cart{}, &cart.CartItem{})...)
	return db, cart.NewService(db)
}

func TestGetCartWithoutCart(t *testing.T) {
	db, svc := setup(t)
	u := fixtures.Customer(t, db)

	view, err := svc.GetCart(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.Totals.ItemCount)
	assert.True(t, view.Totals.Subtotal.IsZero())
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()
	db, svc := setup(t)
	u := fixtures.Customer(t, db)
	_, v := fixtures.Vendor(t, db)
	p := fixtures.Product(t, db, v.ID, "50.00", fixtures.WithSalePrice("45.00"))
	require.NoError(t, db.Create(&product.ProductImage{ProductID: p.ID, URL: "https://cdn.example.com/a.jpg", IsPrimary: true}).Error)
	require.NoError(t, db.Create(&product.ProductImage{ProductID: p.ID, URL: "https://cdn.example.com/b.jpg"}).Error)

	view, err := svc.AddItem(ctx, u.ID, &cart.AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	line := view.Items[0]
	assert.True(t, decimal.RequireFromString("45.00").Equal(line.Price), "captures the sale price")
	assert.Equal(t, 2, line.Quantity)
	require.NotNil(t, line.Product)
	require.Len(t, line.Product.Images, 1)
	assert.True(t, line.Product.Images[0].IsPrimary)
	assert.Equal(t, "https://cdn.example.com/a.jpg", line.ImageURL)
	assert.True(t, decimal.RequireFromString("90.00").Equal(view.Totals.Subtotal))

	t.Run("repeat add increments the existing line", func(t *testing.T) {
		require.NoError(t, db.Model(p).Update("sale_price", nil).Error)

		view, err := svc.AddItem(ctx, u.ID, &cart.AddItemRequest{ProductID: p.ID, Quantity: 3})
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, 5, view.Items[0].Quantity)
		assert.True(t, decimal.RequireFromString("45.00").Equal(view.Items[0].Price), "keeps the price captured on first add")
	})

	t.Run("cumulative quantity above stock", func(t *testing.T) {
		_, err := svc.AddItem(ctx, u.ID, &cart.AddItemRequest{ProductID: p.ID, Quantity: 6})
		derr, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, shared.CodeInsufficientStock, derr.Code)
		assert.Equal(t, "Cannot add more. Available: 10", derr.Message)
	})
}

func TestAddItemHugeQuantityOnExistingLine(t *testing.T) {
	ctx := context.Background()
	db, svc := setup(t)
	u := fixtures.Customer(t, db)
	_, v := fixtures.Vendor(t, db)
	p := fixtures.Product(t, db, v.ID, "50.00")

	_, err := svc.AddItem(ctx, u.ID, &cart.AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, u.ID, &cart.AddItemRequest{ProductID: p.ID, Quantity: math.MaxInt})
	assert.True(t, shared.HasCode(err, shared.CodeInsufficientStock), "got %v", err)

	view, err := svc.GetCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("50.00").Equal(view.Totals.Subtotal))
}

func TestAddItemVariantsAreSeparateLines(t *testing.T) {
	ctx := context.Background()
	db, svc := setup(t)
	u := fixtures.Customer(t, db)
	_, v := fixtures.Vendor(t, db)
	p := fixtures.Product(t, db, v.ID, "50.00")
	large := fixtures.Variant(t, db, p.ID, "Large", "55.00")

	_, err := svc.AddItem(ctx, u.ID, &cart.AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, u.ID, &cart.AddItemRequest{ProductID: p.ID, ProductVariantID: &large.ID, Quantity: 1})
	require.NoError(t, err)

	require.Len(t, view.Items, 2)
	require.NotNil(t, view.Items[1].Variant)
	assert.Equal(t, "Large", view.Items[1].Variant.Name)
	assert.True(t, decimal.RequireFromString("55.00").Equal(view.Items[1].Price))
	assert.True(t, decimal.RequireFromString("105.00").Equal(view.Totals.Subtotal))

	other := fixtures.Product(t, db, v.ID, "10.00")
	_, err = svc.AddItem(ctx, u.ID, &cart.AddItemRequest{ProductID: other.ID, ProductVariantID: &large.ID, Quantity: 1})
	assert.True(t, shared.HasCode(err, shared.CodeNotFound))
}

func TestAddItemFailures(t *testing.T) {
	ctx := context.Background()
	db, svc := setup(t)
	u := fixtures.Customer(t, db)
	_, v := fixtures.Vendor(t, db)

	tests := []struct {
		name    string
		product func() uint
		qty     int
		code    shared.ErrorCode
	}{
		{"inactive product", func() uint { return fixtures.Product(t, db, v.ID, "5.00", fixtures.Inactive()).ID }, 1, shared.CodeNotAvailable},
		{"out of stock", func() uint { return fixtures.Product(t, db, v.ID, "5.00", fixtures.WithStock(0)).ID }, 1, shared.CodeNotAvailable},
		{"more than stock", func() uint { return fixtures.Product(t, db, v.ID, "5.00", fixtures.WithStock(3)).ID }, 4, shared.CodeInsufficientStock},
		{"missing product", func() uint { return 9999 }, 1, shared.CodeNotFound},
		{"zero quantity", func() uint { return fixtures.Product(t, db, v.ID, "5.00").ID }, 0, shared.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddItem(ctx, u.ID, &cart.AddItemRequest{ProductID: tt.product(), Quantity: tt.qty})
			assert.True(t, shared.HasCode(err, tt.code), "got %v", err)
		})
	}

	view, err := svc.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()
	db, svc := setup(t)
	u := fixtures.Customer(t, db)
	stranger := fixtures.Customer(t, db)
	_, v := fixtures.Vendor(t, db)
	p := fixtures.Product(t, db, v.ID, "20.00", fixtures.WithStock(4))

	view, err := svc.AddItem(ctx, u.ID, &cart.AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	itemID := view.Items[0].ID

	view, err = svc.UpdateItem(ctx, u.ID, itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Items[0].Quantity)

	_, err = svc.UpdateItem(ctx, u.ID, itemID, 5)
	assert.True(t, shared.HasCode(err, shared.CodeInsufficientStock))

	_, err = svc.UpdateItem(ctx, stranger.ID, itemID, 1)
	assert.True(t, shared.HasCode(err, shared.CodeNotFound))

	_, err = svc.UpdateItem(ctx, u.ID, itemID, -1)
	assert.True(t, shared.HasCode(err, shared.CodeValidation))

	view, err = svc.UpdateItem(ctx, u.ID, itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	db, svc := setup(t)
	u := fixtures.Customer(t, db)
	stranger := fixtures.Customer(t, db)
	_, v := fixtures.Vendor(t, db)
	p := fixtures.Product(t, db, v.ID, "20.00")

	view, err := svc.AddItem(ctx, u.ID, &cart.AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	itemID := view.Items[0].ID

	err = svc.RemoveItem(ctx, stranger.ID, itemID)
	assert.True(t, shared.HasCode(err, shared.CodeNotFound))

	require.NoError(t, svc.RemoveItem(ctx, u.ID, itemID))

	err = svc.RemoveItem(ctx, u.ID, itemID)
	assert.True(t, shared.HasCode(err, shared.CodeNotFound))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	db, svc := setup(t)
	u := fixtures.Customer(t, db)
	other := fixtures.Customer(t, db)
	_, v := fixtures.Vendor(t, db)
	p := fixtures.Product(t, db, v.ID, "20.00")
	q := fixtures.Product(t, db, v.ID, "30.00")

	require.NoError(t, svc.Clear(ctx, u.ID), "clearing without a cart is a no-op")

	for _, id := range []uint{p.ID, q.ID} {
		_, err := svc.AddItem(ctx, u.ID, &cart.AddItemRequest{ProductID: id, Quantity: 1})
		require.NoError(t, err)
	}
	_, err := svc.AddItem(ctx, other.ID, &cart.AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, u.ID))

	view, err := svc.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	view, err = svc.GetCart(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
}
