package model

// Role gates every mutating operation. Roles are granted by an external
// authority through the admin principal; the core only checks them.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleManufacturer Role = "manufacturer"
	RoleRetailer     Role = "retailer"
	RoleDistributor  Role = "distributor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManufacturer, RoleRetailer, RoleDistributor:
		return true
	}
	return false
}

// SellerRoles are the roles permitted to create products and move them
// through the lifecycle.
var SellerRoles = []Role{RoleManufacturer, RoleRetailer, RoleDistributor, RoleAdmin}
