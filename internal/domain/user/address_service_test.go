package user_test

import (
	"context"
	"testing"

	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/Josey34/multivendor-api-project/internal/domain/user"
	"github.com/Josey34/multivendor-api-project/internal/testutil"
	"github.com/Josey34/multivendor-api-project/internal/testutil/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAddressRequest(isDefault bool) *user.CreateAddressRequest {
	return &user.CreateAddressRequest{
		FullName:     "Budi Santoso",
		Phone:        "+62812345678",
		AddressLine1: "Jl. Sudirman 10",
		City:         "Bandung",
		State:        "Jawa Barat",
		PostalCode:   "40111",
		Country:      "Indonesia",
		Type:         user.AddressTypeShipping,
		IsDefault:    isDefault,
	}
}

func defaultIDs(t *testing.T, db *gorm.DB, userID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(&user.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Pluck("id", &ids).Error)
	return ids
}

func TestAddressService_SetDefault(t *testing.T) {
	db := testutil.NewDB(t, fixtures.CatalogModels()...)
	svc := user.NewAddressService(db)
	ctx := context.Background()
	u := fixtures.Customer(t, db)

	a, err := svc.Create(ctx, u.ID, newAddressRequest(false))
	require.NoError(t, err)
	assert.True(t, a.IsDefault, "first address becomes the default")

	b, err := svc.Create(ctx, u.ID, newAddressRequest(false))
	require.NoError(t, err)
	assert.False(t, b.IsDefault)

	got, err := svc.SetDefault(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDefault)

	assert.Equal(t, []uint{b.ID}, defaultIDs(t, db, u.ID))

	def, err := svc.GetDefault(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, def.ID)
}

func TestAddressService_CreateAsDefaultMovesFlag(t *testing.T) {
	db := testutil.NewDB(t, fixtures.CatalogModels()...)
	svc := user.NewAddressService(db)
	ctx := context.Background()
	u := fixtures.Customer(t, db)

	_, err := svc.Create(ctx, u.ID, newAddressRequest(false))
	require.NoError(t, err)
	second, err := svc.Create(ctx, u.ID, newAddressRequest(true))
	require.NoError(t, err)

	assert.Equal(t, []uint{second.ID}, defaultIDs(t, db, u.ID))
}

func TestAddressService_DefaultsAreScopedPerUser(t *testing.T) {
	db := testutil.NewDB(t, fixtures.CatalogModels()...)
	svc := user.NewAddressService(db)
	ctx := context.Background()
	alice := fixtures.Customer(t, db)
	bob := fixtures.Customer(t, db)

	aliceAddr, err := svc.Create(ctx, alice.ID, newAddressRequest(true))
	require.NoError(t, err)
	bobAddr, err := svc.Create(ctx, bob.ID, newAddressRequest(true))
	require.NoError(t, err)

	assert.Equal(t, []uint{aliceAddr.ID}, defaultIDs(t, db, alice.ID))
	assert.Equal(t, []uint{bobAddr.ID}, defaultIDs(t, db, bob.ID))

	_, err = svc.SetDefault(ctx, alice.ID, bobAddr.ID)
	assert.True(t, shared.HasCode(err, shared.CodeNotFound))
	assert.Equal(t, []uint{bobAddr.ID}, defaultIDs(t, db, bob.ID))
}

func TestAddressService_Update(t *testing.T) {
	db := testutil.NewDB(t, fixtures.CatalogModels()...)
	svc := user.NewAddressService(db)
	ctx := context.Background()
	u := fixtures.Customer(t, db)

	a, err := svc.Create(ctx, u.ID, newAddressRequest(false))
	require.NoError(t, err)
	b, err := svc.Create(ctx, u.ID, newAddressRequest(false))
	require.NoError(t, err)

	t.Run("patches only supplied fields", func(t *testing.T) {
		city := "Surabaya"
		got, err := svc.Update(ctx, u.ID, b.ID, &user.UpdateAddressRequest{City: &city})
		require.NoError(t, err)
		assert.Equal(t, "Surabaya", got.City)
		assert.Equal(t, "Jl. Sudirman 10", got.AddressLine1)
	})

	t.Run("rejects an empty required field", func(t *testing.T) {
		empty := " "
		_, err := svc.Update(ctx, u.ID, b.ID, &user.UpdateAddressRequest{FullName: &empty})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Contains(t, de.Fields, "full_name")
	})

	t.Run("reports the first empty field in form order", func(t *testing.T) {
		empty := ""
		for i := 0; i < 20; i++ {
			_, err := svc.Update(ctx, u.ID, b.ID, &user.UpdateAddressRequest{
				FullName: &empty, Phone: &empty, City: &empty, Country: &empty,
			})
			de, ok := shared.AsDomainError(err)
			require.True(t, ok)
			require.Len(t, de.Fields, 1)
			assert.Contains(t, de.Fields, "full_name")
		}
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		bad := user.AddressType("office")
		_, err := svc.Update(ctx, u.ID, b.ID, &user.UpdateAddressRequest{Type: &bad})
		assert.True(t, shared.HasCode(err, shared.CodeValidation))
	})

	t.Run("is_default true moves the flag", func(t *testing.T) {
		yes := true
		_, err := svc.Update(ctx, u.ID, b.ID, &user.UpdateAddressRequest{IsDefault: &yes})
		require.NoError(t, err)
		assert.Equal(t, []uint{b.ID}, defaultIDs(t, db, u.ID))

		reloaded, err := svc.Get(ctx, u.ID, a.ID)
		require.NoError(t, err)
		assert.False(t, reloaded.IsDefault)
	})
}

func TestAddressService_Delete(t *testing.T) {
	db := testutil.NewDB(t, fixtures.CatalogModels()...)
	svc := user.NewAddressService(db)
	ctx := context.Background()
	owner := fixtures.Customer(t, db)
	stranger := fixtures.Customer(t, db)

	a, err := svc.Create(ctx, owner.ID, newAddressRequest(false))
	require.NoError(t, err)

	err = svc.Delete(ctx, stranger.ID, a.ID)
	assert.True(t, shared.HasCode(err, shared.CodeNotFound))

	require.NoError(t, svc.Delete(ctx, owner.ID, a.ID))

	_, err = svc.Get(ctx, owner.ID, a.ID)
	assert.True(t, shared.HasCode(err, shared.CodeNotFound))

	err = svc.Delete(ctx, owner.ID, a.ID)
	assert.True(t, shared.HasCode(err, shared.CodeNotFound))

	var raw int64
	require.NoError(t, db.Unscoped().Model(&user.Address{}).Where("id = ?", a.ID).Count(&raw).Error)
	assert.Equal(t, int64(1), raw, "row is kept as a tombstone")
}

func TestAddressService_CreateValidation(t *testing.T) {
	db := testutil.NewDB(t, fixtures.CatalogModels()...)
	svc := user.NewAddressService(db)
	u := fixtures.Customer(t, db)

	req := newAddressRequest(false)
	req.Type = "warehouse"
	_, err := svc.Create(context.Background(), u.ID, req)
	assert.True(t, shared.HasCode(err, shared.CodeValidation))

	req = newAddressRequest(false)
	req.City = ""
	_, err = svc.Create(context.Background(), u.ID, req)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Contains(t, de.Fields, "city")
}

func TestAddress_FullAddress(t *testing.T) {
	a := user.Address{
		AddressLine1: "Jl. Merdeka 1",
		City:         "Jakarta",
		State:        "DKI Jakarta",
		PostalCode:   "10110",
		Country:      "Indonesia",
	}
	assert.Equal(t, "Jl. Merdeka 1, Jakarta, DKI Jakarta 10110, Indonesia", a.FullAddress())
}
