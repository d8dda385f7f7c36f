package shared

// Role is the authorization role of an authenticated user
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// Identity is the authenticated caller. It is passed explicitly into every
// operation that depends on who is asking.
type Identity struct {
	UserID   uint
	Role     Role
	VendorID *uint
}

// IsVendor reports whether the caller acts for a vendor it owns
func (i Identity) IsVendor() bool {
	return i.Role == RoleVendor && i.VendorID != nil
}

// OwnedVendorID returns the caller's vendor id or fails with Forbidden
func (i Identity) OwnedVendorID() (uint, error) {
	if !i.IsVendor() {
		return 0, Forbidden("Vendor access required")
	}
	return *i.VendorID, nil
}
