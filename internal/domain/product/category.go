package product

import (
	"context"
	"fmt"
)

// CategorySummary is an active category with its number of listed products
type CategorySummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ParentID     *uint  `json:"parent_id"`
	ProductCount int64  `json:"product_count"`
}

// Categories lists active categories by name. Only active products are counted.
func (s *Service) Categories(ctx context.Context) ([]CategorySummary, error) {
	var categories []CategorySummary
	err := s.db.WithContext(ctx).
		Table("categories").
		Select("categories.id, categories.name, categories.slug, categories.parent_id, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id AND products.is_active = ? AND products.deleted_at IS NULL", true).
		Where("categories.is_active = ? AND categories.deleted_at IS NULL", true).
		Group("categories.id, categories.name, categories.slug, categories.parent_id").
		Order("categories.name ASC, categories.id ASC").
		Scan(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}
