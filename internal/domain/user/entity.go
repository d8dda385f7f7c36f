// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"gorm.io/gorm"
)

// VendorStatus is the approval state of a vendor shop
type VendorStatus string

const (
	VendorStatusPending  VendorStatus = "pending"
	VendorStatusApproved VendorStatus = "approved"
	VendorStatusRejected VendorStatus = "rejected"
)

// AddressType says what an address may be used for
type AddressType string

const (
	AddressTypeShipping AddressType = "shipping"
	AddressTypeBilling  AddressType = "billing"
	AddressTypeBoth     AddressType = "both"
)

// User represents the user entity
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Email       string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string         `gorm:"not null;size:255" json:"-"`
	Phone       string         `gorm:"size:20" json:"phone"`
	Role        shared.Role    `gorm:"size:20;not null;index" json:"role"`
	IsActive    bool           `gorm:"not null" json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Vendor *Vendor `gorm:"foreignKey:UserID" json:"vendor,omitempty"`
}

// Vendor is a shop owned by exactly one user
type Vendor struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	ShopName    string         `gorm:"size:255;not null" json:"shop_name"`
	Slug        string         `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Phone       string         `gorm:"size:20" json:"phone"`
	Status      VendorStatus   `gorm:"size:20;not null;index" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Address represents user addresses
type Address struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	FullName     string         `gorm:"size:255;not null" json:"full_name"`
	Phone        string         `gorm:"size:20;not null" json:"phone"`
	AddressLine1 string         `gorm:"column:address_line_1;size:255;not null" json:"address_line_1"`
	AddressLine2 string         `gorm:"column:address_line_2;size:255" json:"address_line_2"`
	City         string         `gorm:"size:100;not null" json:"city"`
	State        string         `gorm:"size:100;not null" json:"state"`
	PostalCode   string         `gorm:"size:20;not null" json:"postal_code"`
	Country      string         `gorm:"size:100;not null" json:"country"`
	Type         AddressType    `gorm:"size:20;not null" json:"type"`
	IsDefault    bool           `gorm:"not null" json:"is_default"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string    { return "users" }
func (Vendor) TableName() string  { return "vendors" }
func (Address) TableName() string { return "addresses" }

// BeforeCreate normalizes the email before insert
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// IsApproved reports whether the vendor may sell
func (v *Vendor) IsApproved() bool {
	return v.Status == VendorStatusApproved
}

// FullAddress joins the non-empty parts of the address on one line
func (a *Address) FullAddress() string {
	parts := []string{
		a.AddressLine1,
		a.AddressLine2,
		a.City,
		strings.TrimSpace(a.State + " " + a.PostalCode),
		a.Country,
	}

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}
