package service

import "github.com/DerDob/kleiderkammer/internal/domain"

// Policy maps an authenticated user and an optional target to a yes/no
// decision. It holds no state beyond the configured admin group and has no
// side effects; enforcement happens at the handler boundary.
type Policy struct {
	adminGroup string
}

// NewPolicy creates a Policy for the given admin group identifier.
func NewPolicy(adminGroup string) *Policy {
	return &Policy{adminGroup: adminGroup}
}

// IsAdmin reports whether the admin group is among the user's groups.
func (p *Policy) IsAdmin(user *domain.User) bool {
	return user != nil && user.InGroup(p.adminGroup)
}

// CanManageInventory reports whether the user may add clothing items.
func (p *Policy) CanManageInventory(user *domain.User) bool {
	return p.IsAdmin(user)
}

// CanViewAllLendings reports whether the user may see other users' lendings.
func (p *Policy) CanViewAllLendings(user *domain.User) bool {
	return p.IsAdmin(user)
}

// CanManageLending reports whether the user may act on the given lending.
// A user may always act on their own lending; only admins act on others'.
func (p *Policy) CanManageLending(user *domain.User, lending *domain.Lending) bool {
	if p.IsAdmin(user) {
		return true
	}
	return user != nil && lending != nil && user.Email == lending.UserEmail
}
