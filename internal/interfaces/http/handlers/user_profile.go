// internal/interfaces/http/handlers/user_profile.go
package handlers

import (
	"github.com/Josey34/multivendor-api-project/internal/domain/user"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// UserProfileHandler serves the authenticated user's own account
type UserProfileHandler struct {
	userService *user.Service
}

// NewUserProfileHandler creates a new user profile handler
func NewUserProfileHandler(userService *user.Service) *UserProfileHandler {
	return &UserProfileHandler{userService: userService}
}

// GetProfile handles GET /auth/profile
func (h *UserProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.Profile(c.Request.Context(), currentIdentity(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved successfully", profile)
}
