package shared

import "github.com/google/uuid"

// Session identifies the operator a core operation runs on behalf of.
// It is passed explicitly into services; nothing reads ambient globals.
type Session struct {
	StoreID uuid.UUID
	UserID  uuid.UUID
	Role    string
}

// RoleOwner gates mutations reserved for the store owner, such as editing
// serialized units that are already persisted.
const RoleOwner = "owner"

// IsOwner reports whether the session carries the owner role
func (s Session) IsOwner() bool {
	return s.Role == RoleOwner
}
