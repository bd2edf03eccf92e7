// file: service/authorization.go

package service

import (
	"slices"
	"user-management-api/model"
)

// Authorize allows identity when its role is one of requiredRoles. The
// identity is returned unchanged so callers can chain on it.
func Authorize(identity model.Identity, requiredRoles ...model.Role) (model.Identity, error) {
	if identity.Role == "" || !slices.Contains(requiredRoles, identity.Role) {
		return model.Identity{}, ErrForbidden
	}
	return identity, nil
}

// RequireRole binds a required-role set to a reusable check, one per
// protected operation.
func RequireRole(requiredRoles ...model.Role) func(model.Identity) (model.Identity, error) {
	roles := slices.Clone(requiredRoles)
	return func(identity model.Identity) (model.Identity, error) {
		return Authorize(identity, roles...)
	}
}
