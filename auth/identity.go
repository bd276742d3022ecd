// Package auth models the acting identity supplied by the external identity provider
// and the ownership rule that gates inventory and field mutation.
package auth

import (
	"github.com/rpupo63/inventory-catalog/models"
)

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleCreator Role = "Creator"
	RoleUser    Role = "User"
)

// Identity is the acting principal of one request. The zero value is anonymous.
type Identity struct {
	UserID string
	Roles  []Role
}

func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

func (i Identity) HasRole(role Role) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanMutate reports whether identity may update, delete, or change the fields of
// inventory: Admins may mutate any inventory, everyone else only their own.
func CanMutate(identity Identity, inventory *models.Inventory) bool {
	if inventory == nil || !identity.Authenticated() {
		return false
	}
	return identity.HasRole(RoleAdmin) || identity.UserID == inventory.OwnerID
}
