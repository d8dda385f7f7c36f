package product_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Josey34/multivendor-api-project/internal/domain/product"
	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/Josey34/multivendor-api-project/internal/testutil"
	"github.com/Josey34/multivendor-api-project/internal/testutil/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_Create(t *testing.T) {
	db := testutil.NewDB(t, fixtures.CatalogModels()...)
	svc := product.NewReviewService(db)
	ctx := context.Background()

	_, v := fixtures.Vendor(t, db)
	p := fixtures.Product(t, db, v.ID, "25.00")

	t.Run("recomputes rating from approved reviews", func(t *testing.T) {
		for _, rating := range []int{5, 4, 4} {
			buyer := fixtures.Customer(t, db)
			_, err := svc.Create(ctx, buyer.ID, p.ID, &product.CreateReviewRequest{
				Rating:  rating,
				Comment: "Solid product, arrived quickly.",
			})
			require.NoError(t, err)
		}

		reloaded := fixtures.Reload(t, db, p.ID)
		assert.InDelta(t, 4.33, reloaded.Rating, 0.0001)
		assert.Equal(t, 3, reloaded.TotalReviews)
	})

	t.Run("rejects a second review by the same user", func(t *testing.T) {
		buyer := fixtures.Customer(t, db)
		req := &product.CreateReviewRequest{Rating: 3, Comment: "It is fine for the price."}

		_, err := svc.Create(ctx, buyer.ID, p.ID, req)
		require.NoError(t, err)

		_, err = svc.Create(ctx, buyer.ID, p.ID, req)
		assert.True(t, shared.HasCode(err, shared.CodeAlreadyReviewed))

		assert.Equal(t, 4, fixtures.Reload(t, db, p.ID).TotalReviews)
	})

	t.Run("stores images in order", func(t *testing.T) {
		buyer := fixtures.Customer(t, db)
		review, err := svc.Create(ctx, buyer.ID, p.ID, &product.CreateReviewRequest{
			Rating:  5,
			Comment: "Photos attached for reference.",
			Images:  []string{"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg"},
		})
		require.NoError(t, err)
		require.Len(t, review.Images, 2)
		assert.Equal(t, 2, review.Images[1].SortOrder)
	})

	t.Run("unknown product", func(t *testing.T) {
		buyer := fixtures.Customer(t, db)
		_, err := svc.Create(ctx, buyer.ID, 9999, &product.CreateReviewRequest{Rating: 5, Comment: "Does not exist anywhere."})
		assert.True(t, shared.HasCode(err, shared.CodeNotFound))
	})
}

func TestCreateReviewRequest_Validate(t *testing.T) {
	tests := []struct {
		name  string
		req   product.CreateReviewRequest
		field string
	}{
		{"rating too low", product.CreateReviewRequest{Rating: 0, Comment: "long enough comment"}, "rating"},
		{"rating too high", product.CreateReviewRequest{Rating: 6, Comment: "long enough comment"}, "rating"},
		{"comment too short", product.CreateReviewRequest{Rating: 3, Comment: "too short"}, "comment"},
		{"comment too long", product.CreateReviewRequest{Rating: 3, Comment: strings.Repeat("a", 1001)}, "comment"},
		{"too many images", product.CreateReviewRequest{Rating: 3, Comment: "long enough comment", Images: make([]string, 6)}, "images"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			de, ok := shared.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, shared.CodeValidation, de.Code)
			assert.Contains(t, de.Fields, tt.field)
		})
	}

	ok := product.CreateReviewRequest{Rating: 1, Comment: strings.Repeat("a", 10)}
	assert.NoError(t, ok.Validate())
}

func TestReviewService_ListApproved(t *testing.T) {
	db := testutil.NewDB(t, fixtures.CatalogModels()...)
	svc := product.NewReviewService(db)
	ctx := context.Background()

	_, v := fixtures.Vendor(t, db)
	p := fixtures.Product(t, db, v.ID, "25.00")

	for _, rating := range []int{5, 3} {
		buyer := fixtures.Customer(t, db)
		_, err := svc.Create(ctx, buyer.ID, p.ID, &product.CreateReviewRequest{Rating: rating, Comment: "Reasonable quality overall."})
		require.NoError(t, err)
	}

	hidden := product.Review{ProductID: p.ID, UserID: fixtures.Customer(t, db).ID, Rating: 1, Comment: "pending moderation"}
	require.NoError(t, db.Create(&hidden).Error)

	list, err := svc.ListApproved(ctx, p.ID, shared.Page{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, list.Reviews, 2)
	assert.Equal(t, int64(2), list.Summary.TotalReviews)
	assert.InDelta(t, 4.0, list.Summary.AverageRating, 0.0001)
	for _, r := range list.Reviews {
		assert.NotNil(t, r.User)
	}
}
