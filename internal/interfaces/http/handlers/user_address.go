// internal/interfaces/http/handlers/user_address.go
package handlers

import (
	"github.com/Josey34/multivendor-api-project/internal/domain/user"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// UserAddressHandler handles the address book endpoints
type UserAddressHandler struct {
	addressService *user.AddressService
}

// NewUserAddressHandler creates a new user address handler
func NewUserAddressHandler(addressService *user.AddressService) *UserAddressHandler {
	return &UserAddressHandler{addressService: addressService}
}

// GetAddresses handles GET /addresses
func (h *UserAddressHandler) GetAddresses(c *gin.Context) {
	addresses, err := h.addressService.List(c.Request.Context(), currentIdentity(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Addresses retrieved successfully", addresses)
}

// GetDefaultAddress handles GET /addresses/default
func (h *UserAddressHandler) GetDefaultAddress(c *gin.Context) {
	address, err := h.addressService.GetDefault(c.Request.Context(), currentIdentity(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Default address retrieved successfully", address)
}

// GetAddress handles GET /addresses/:id
func (h *UserAddressHandler) GetAddress(c *gin.Context) {
	addressID, err := pathID(c, "id", "Address")
	if err != nil {
		response.Error(c, err)
		return
	}

	address, err := h.addressService.Get(c.Request.Context(), currentIdentity(c).UserID, addressID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Address retrieved successfully", address)
}

// CreateAddress handles POST /addresses
func (h *UserAddressHandler) CreateAddress(c *gin.Context) {
	var req user.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	address, err := h.addressService.Create(c.Request.Context(), currentIdentity(c).UserID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Address created successfully", address)
}

// UpdateAddress handles PUT /addresses/:id
func (h *UserAddressHandler) UpdateAddress(c *gin.Context) {
	addressID, err := pathID(c, "id", "Address")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req user.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	address, err := h.addressService.Update(c.Request.Context(), currentIdentity(c).UserID, addressID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Address updated successfully", address)
}

// DeleteAddress handles DELETE /addresses/:id
func (h *UserAddressHandler) DeleteAddress(c *gin.Context) {
	addressID, err := pathID(c, "id", "Address")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.addressService.Delete(c.Request.Context(), currentIdentity(c).UserID, addressID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Address deleted successfully", nil)
}

// SetDefaultAddress handles PUT /addresses/:id/default
func (h *UserAddressHandler) SetDefaultAddress(c *gin.Context) {
	addressID, err := pathID(c, "id", "Address")
	if err != nil {
		response.Error(c, err)
		return
	}

	address, err := h.addressService.SetDefault(c.Request.Context(), currentIdentity(c).UserID, addressID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Default address updated successfully", address)
}
