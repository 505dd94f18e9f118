// Package access decides whether an actor may touch a farm and which of the
// farm's records the actor may see.  The actor is always passed in
// explicitly; nothing here reads request or session state.
package access

import "github.com/iliyamo/farm-biosecurity/internal/model"

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   uint64
	Role model.Role
}

// IsZero reports whether no actor has been resolved.
func (a Actor) IsZero() bool { return a.ID == 0 }

// CanAccess reports whether the actor may view the farm or submit
// assessments and checklists for it.
func CanAccess(a Actor, f *model.Farm) bool {
	if f == nil || a.IsZero() {
		return false
	}
	switch a.Role {
	case model.RoleAdmin:
		return true
	case model.RoleVet:
		return f.HasVet() && *f.VetID == a.ID
	case model.RoleFarmer:
		return f.FarmerID == a.ID
	default:
		return false
	}
}

// RecordScope returns the author filter to apply when listing a farm's
// records.  A nil author means every row; otherwise only rows written by
// that user.  ok is false when the actor may not access the farm at all.
func RecordScope(a Actor, f *model.Farm) (author *uint64, ok bool) {
	if !CanAccess(a, f) {
		return nil, false
	}
	switch a.Role {
	case model.RoleAdmin:
		return nil, true
	case model.RoleVet, model.RoleFarmer:
		id := a.ID
		return &id, true
	default:
		return nil, false
	}
}

// CanManage reports whether the actor may run directory-wide operations:
// creating and deleting farms, exporting, and authoring training material.
func CanManage(a Actor) bool {
	switch a.Role {
	case model.RoleAdmin:
		return !a.IsZero()
	case model.RoleFarmer, model.RoleVet:
		return false
	default:
		return false
	}
}
