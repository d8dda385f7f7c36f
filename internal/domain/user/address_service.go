// internal/domain/user/address_service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"gorm.io/gorm"
)

// AddressService handles address business logic
type AddressService struct {
	db *gorm.DB
}

// NewAddressService creates a new address service
func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

// CreateAddressRequest represents address creation data
type CreateAddressRequest struct {
	FullName     string      `json:"full_name" binding:"required,max=255"`
	Phone        string      `json:"phone" binding:"required,max=20"`
	AddressLine1 string      `json:"address_line_1" binding:"required,max=255"`
	AddressLine2 string      `json:"address_line_2" binding:"max=255"`
	City         string      `json:"city" binding:"required,max=100"`
	State        string      `json:"state" binding:"required,max=100"`
	PostalCode   string      `json:"postal_code" binding:"required,max=20"`
	Country      string      `json:"country" binding:"required,max=100"`
	Type         AddressType `json:"type" binding:"required,oneof=shipping billing both"`
	IsDefault    bool        `json:"is_default"`
}

// UpdateAddressRequest is a patch: nil fields are left untouched
type UpdateAddressRequest struct {
	FullName     *string      `json:"full_name"`
	Phone        *string      `json:"phone"`
	AddressLine1 *string      `json:"address_line_1"`
	AddressLine2 *string      `json:"address_line_2"`
	City         *string      `json:"city"`
	State        *string      `json:"state"`
	PostalCode   *string      `json:"postal_code"`
	Country      *string      `json:"country"`
	Type         *AddressType `json:"type"`
	IsDefault    *bool        `json:"is_default"`
}

// addressField pairs a json field name with its submitted value
type addressField struct {
	name  string
	value *string
}

// textFields lists the mandatory text fields in the order they are reported
func textFields(fullName, phone, line1, city, state, postalCode, country *string) []addressField {
	return []addressField{
		{"full_name", fullName},
		{"phone", phone},
		{"address_line_1", line1},
		{"city", city},
		{"state", state},
		{"postal_code", postalCode},
		{"country", country},
	}
}

func (r *CreateAddressRequest) validate() error {
	for _, f := range textFields(&r.FullName, &r.Phone, &r.AddressLine1, &r.City, &r.State, &r.PostalCode, &r.Country) {
		if strings.TrimSpace(*f.value) == "" {
			return shared.FieldError(f.name, f.name+" is required")
		}
	}
	return validateAddressType(r.Type)
}

// validate checks each supplied field on its own; absent fields are not required
func (r *UpdateAddressRequest) validate() error {
	for _, f := range textFields(r.FullName, r.Phone, r.AddressLine1, r.City, r.State, r.PostalCode, r.Country) {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return shared.FieldError(f.name, f.name+" cannot be empty")
		}
	}
	if r.Type != nil {
		return validateAddressType(*r.Type)
	}
	return nil
}

func (r *UpdateAddressRequest) updates() map[string]interface{} {
	updates := make(map[string]interface{})
	set := func(column string, value *string) {
		if value != nil {
			updates[column] = strings.TrimSpace(*value)
		}
	}

	set("full_name", r.FullName)
	set("phone", r.Phone)
	set("address_line_1", r.AddressLine1)
	set("address_line_2", r.AddressLine2)
	set("city", r.City)
	set("state", r.State)
	set("postal_code", r.PostalCode)
	set("country", r.Country)
	if r.Type != nil {
		updates["type"] = *r.Type
	}
	// Setting a default goes through markDefault; only clearing is a plain column write
	if r.IsDefault != nil && !*r.IsDefault {
		updates["is_default"] = false
	}
	return updates
}

func validateAddressType(t AddressType) error {
	switch t {
	case AddressTypeShipping, AddressTypeBilling, AddressTypeBoth:
		return nil
	}
	return shared.FieldError("type", "type must be one of shipping, billing, both")
}

// List returns the user's addresses, default first
func (s *AddressService) List(ctx context.Context, userID uint) ([]Address, error) {
	var addresses []Address
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve addresses: %w", err)
	}
	return addresses, nil
}

// Get retrieves an address owned by the user. Addresses of other users are reported as not found.
func (s *AddressService) Get(ctx context.Context, userID, addressID uint) (*Address, error) {
	return findOwnedAddress(s.db.WithContext(ctx), userID, addressID)
}

// Create stores a new address. The first address of a user always becomes the default.
func (s *AddressService) Create(ctx context.Context, userID uint, req *CreateAddressRequest) (*Address, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	address := Address{
		UserID:       userID,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		AddressLine1: strings.TrimSpace(req.AddressLine1),
		AddressLine2: strings.TrimSpace(req.AddressLine2),
		City:         strings.TrimSpace(req.City),
		State:        strings.TrimSpace(req.State),
		PostalCode:   strings.TrimSpace(req.PostalCode),
		Country:      strings.TrimSpace(req.Country),
		Type:         req.Type,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Address{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count addresses: %w", err)
		}

		if err := tx.Create(&address).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}

		if req.IsDefault || count == 0 {
			return markDefault(tx, userID, address.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, address.ID)
}

// Update applies a patch to an address owned by the user
func (s *AddressService) Update(ctx context.Context, userID, addressID uint, req *UpdateAddressRequest) (*Address, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		address, err := findOwnedAddress(tx, userID, addressID)
		if err != nil {
			return err
		}

		if updates := req.updates(); len(updates) > 0 {
			if err := tx.Model(address).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update address: %w", err)
			}
		}

		if req.IsDefault != nil && *req.IsDefault {
			return markDefault(tx, userID, address.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, addressID)
}

// Delete soft-deletes an address owned by the user
func (s *AddressService) Delete(ctx context.Context, userID, addressID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&Address{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Address")
	}
	return nil
}

// SetDefault makes the address the user's only default address
func (s *AddressService) SetDefault(ctx context.Context, userID, addressID uint) (*Address, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedAddress(tx, userID, addressID); err != nil {
			return err
		}
		return markDefault(tx, userID, addressID)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, addressID)
}

// GetDefault returns the user's default address
func (s *AddressService) GetDefault(ctx context.Context, userID uint) (*Address, error) {
	var address Address
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ?", userID, true).
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Default address")
		}
		return nil, fmt.Errorf("failed to retrieve default address: %w", err)
	}
	return &address, nil
}

// FindOwnedAddress loads an address inside the caller's transaction, scoped to the owner
func FindOwnedAddress(tx *gorm.DB, userID, addressID uint) (*Address, error) {
	return findOwnedAddress(tx, userID, addressID)
}

func findOwnedAddress(db *gorm.DB, userID, addressID uint) (*Address, error) {
	var address Address
	err := db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Address")
		}
		return nil, fmt.Errorf("failed to retrieve address: %w", err)
	}
	return &address, nil
}

// markDefault unsets every other default of the user, then sets this one
func markDefault(tx *gorm.DB, userID, addressID uint) error {
	if err := tx.Model(&Address{}).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, addressID, true).
		Update("is_default", false).Error; err != nil {
		return fmt.Errorf("failed to unset default addresses: %w", err)
	}

	if err := tx.Model(&Address{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		Update("is_default", true).Error; err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}
	return nil
}
