package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"gorm.io/gorm"
)

// BrandSummary is an active brand with its number of listed products
type BrandSummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ProductCount int64  `json:"product_count"`
}

func (s *Service) brandQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("brands").
		Select("brands.id, brands.name, brands.slug, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.brand_id = brands.id AND products.is_active = ? AND products.deleted_at IS NULL", true).
		Where("brands.is_active = ? AND brands.deleted_at IS NULL", true).
		Group("brands.id, brands.name, brands.slug")
}

// Brands lists active brands by name
func (s *Service) Brands(ctx context.Context) ([]BrandSummary, error) {
	var brands []BrandSummary
	if err := s.brandQuery(ctx).Order("brands.name ASC, brands.id ASC").Scan(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve brands: %w", err)
	}
	return brands, nil
}

// BrandBySlug returns one active brand
func (s *Service) BrandBySlug(ctx context.Context, slug string) (*BrandSummary, error) {
	var brand BrandSummary
	result := s.brandQuery(ctx).Where("brands.slug = ?", slug).Limit(1).Scan(&brand)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve brand: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, shared.NotFound("Brand")
	}
	return &brand, nil
}

// checkTaxonomy verifies the referenced category and brand exist and are active
func checkTaxonomy(db *gorm.DB, categoryID, brandID *uint) error {
	if categoryID != nil {
		var category Category
		if err := db.Select("id").Where("id = ? AND is_active = ?", *categoryID, true).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.FieldError("category_id", "Category not found")
			}
			return fmt.Errorf("failed to get category: %w", err)
		}
	}
	if brandID != nil {
		var brand Brand
		if err := db.Select("id").Where("id = ? AND is_active = ?", *brandID, true).First(&brand).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.FieldError("brand_id", "Brand not found")
			}
			return fmt.Errorf("failed to get brand: %w", err)
		}
	}
	return nil
}
