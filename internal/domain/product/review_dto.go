// internal/domain/product/review_dto.go
package product

import (
	"strings"
	"unicode/utf8"

	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
)

const (
	minCommentLength   = 10
	maxCommentLength   = 1000
	maxImagesPerReview = 5
)

// CreateReviewRequest represents review creation data
type CreateReviewRequest struct {
	Rating  int      `json:"rating" binding:"required,min=1,max=5"`
	Comment string   `json:"comment" binding:"required"`
	Images  []string `json:"images" binding:"max=5,dive,url"`
}

// Validate checks the request independently of transport binding
func (r *CreateReviewRequest) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return shared.FieldError("rating", "rating must be between 1 and 5")
	}

	n := utf8.RuneCountInString(strings.TrimSpace(r.Comment))
	if n < minCommentLength || n > maxCommentLength {
		return shared.FieldError("comment", "comment must be between 10 and 1000 characters")
	}

	if len(r.Images) > maxImagesPerReview {
		return shared.FieldError("images", "a review can have at most 5 images")
	}
	return nil
}

// ReviewSummary is the aggregate shown next to a review list
type ReviewSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
}

// ReviewList is one page of approved reviews plus the product aggregate
type ReviewList struct {
	Reviews []Review
	Summary ReviewSummary
	Meta    shared.PageMeta
}
