// internal/domain/product/review_service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"gorm.io/gorm"
)

// ReviewService handles review submission and rating aggregation
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// Create stores the user's review of a product and refreshes the product's rating and review count
func (s *ReviewService) Create(ctx context.Context, userID, productID uint, req *CreateReviewRequest) (*Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	review := Review{
		ProductID:  productID,
		UserID:     userID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
		IsApproved: true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product Product
		if err := tx.Select("id").Where("id = ? AND is_active = ?", productID, true).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NotFound("Product")
			}
			return fmt.Errorf("failed to load product: %w", err)
		}

		var existing int64
		if err := tx.Unscoped().Model(&Review{}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check existing review: %w", err)
		}
		if existing > 0 {
			return shared.AlreadyReviewed()
		}

		if err := tx.Create(&review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		for i, url := range req.Images {
			image := ReviewImage{ReviewID: review.ID, URL: url, SortOrder: i + 1}
			if err := tx.Create(&image).Error; err != nil {
				return fmt.Errorf("failed to save review image: %w", err)
			}
			review.Images = append(review.Images, image)
		}

		return RefreshRating(tx, productID)
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// ListApproved returns a page of approved reviews with the product's aggregate
func (s *ReviewService) ListApproved(ctx context.Context, productID uint, page shared.Page) (*ReviewList, error) {
	page = page.Normalize()
	db := s.db.WithContext(ctx)

	summary, err := summarize(db, productID)
	if err != nil {
		return nil, err
	}

	var reviews []Review
	err = db.
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}

	return &ReviewList{
		Reviews: reviews,
		Summary: summary,
		Meta:    shared.NewPageMeta(page, summary.TotalReviews),
	}, nil
}

// RefreshRating recomputes rating and total_reviews from all approved reviews of the product
func RefreshRating(tx *gorm.DB, productID uint) error {
	summary, err := summarize(tx, productID)
	if err != nil {
		return err
	}

	if err := tx.Model(&Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"rating":        summary.AverageRating,
		"total_reviews": summary.TotalReviews,
	}).Error; err != nil {
		return fmt.Errorf("failed to update product rating: %w", err)
	}
	return nil
}

func summarize(db *gorm.DB, productID uint) (ReviewSummary, error) {
	var agg struct {
		Average float64
		Total   int64
	}
	err := db.Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Scan(&agg).Error
	if err != nil {
		return ReviewSummary{}, fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	return ReviewSummary{
		AverageRating: math.Round(agg.Average*100) / 100,
		TotalReviews:  agg.Total,
	}, nil
}
