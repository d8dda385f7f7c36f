// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Josey34/multivendor-api-project/internal/config"
	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/Josey34/multivendor-api-project/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles registration, login and vendor onboarding
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone" binding:"max=20"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterVendorRequest opens a shop for an existing user
type RegisterVendorRequest struct {
	ShopName    string `json:"shop_name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=2000"`
	Phone       string `json:"phone" binding:"max=20"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register creates a customer account and signs it in
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	hash, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, shared.FieldError("password", err.Error())
	}

	u := User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: hash,
		Phone:    req.Phone,
		Role:     shared.RoleCustomer,
		IsActive: true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&User{}).Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return shared.AlreadyExists("Email is already registered")
		}
		if err := tx.Create(&u).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.issueTokens(&u)
}

// Login authenticates a user by email and password
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var u User
	err := s.db.WithContext(ctx).
		Preload("Vendor").
		Where("email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(req.Email)), true).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.Unauthorized("Invalid email or password")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, shared.Unauthorized("Invalid email or password")
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&u).Update("last_login_at", now).Error; err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	u.LastLoginAt = &now

	return s.issueTokens(&u)
}

// Refresh exchanges a refresh token for a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.Unauthorized("Invalid or expired refresh token")
	}

	u, err := s.Profile(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, shared.Unauthorized("Account is disabled")
	}
	return s.issueTokens(u)
}

// Profile returns the user with its vendor shop, if any
func (s *Service) Profile(ctx context.Context, userID uint) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).Preload("Vendor").First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("User")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &u, nil
}

// RegisterVendor creates a pending vendor shop for the user and switches the user to the vendor role.
// The caller needs a new token afterwards, which is returned.
func (s *Service) RegisterVendor(ctx context.Context, userID uint, req *RegisterVendorRequest) (*AuthResponse, error) {
	shopName := strings.TrimSpace(req.ShopName)
	if shopName == "" {
		return nil, shared.FieldError("shop_name", "shop_name is required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u User
		if err := tx.Preload("Vendor").First(&u, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NotFound("User")
			}
			return fmt.Errorf("failed to load user: %w", err)
		}
		if u.Vendor != nil {
			return shared.AlreadyExists("User already owns a shop")
		}

		slug, err := uniqueSlug(tx, shopName)
		if err != nil {
			return err
		}

		vendor := Vendor{
			UserID:      userID,
			ShopName:    shopName,
			Slug:        slug,
			Description: req.Description,
			Phone:       req.Phone,
			Status:      VendorStatusPending,
		}
		if err := tx.Create(&vendor).Error; err != nil {
			return fmt.Errorf("failed to create vendor: %w", err)
		}

		if u.Role == shared.RoleCustomer {
			if err := tx.Model(&u).Update("role", shared.RoleVendor).Error; err != nil {
				return fmt.Errorf("failed to update role: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(u)
}

func (s *Service) issueTokens(u *User) (*AuthResponse, error) {
	sub := auth.Subject{UserID: u.ID, Email: u.Email, Role: u.Role}
	if u.Vendor != nil {
		vendorID := u.Vendor.ID
		sub.VendorID = &vendorID
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with dashes
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func uniqueSlug(tx *gorm.DB, shopName string) (string, error) {
	base := Slugify(shopName)
	if base == "" {
		base = "shop"
	}

	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := tx.Unscoped().Model(&Vendor{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
