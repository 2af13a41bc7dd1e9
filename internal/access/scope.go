package access

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bintrack-backend/internal/models"
)

// Caller is the identity the auth middleware resolved for the request.
type Caller struct {
	UserID    string
	CompanyID string
	Role      string
}

// Scope is the set of property ids a caller may act on. Unrestricted means
// no property filter at all (admins); an empty PropertyIDs list with
// Unrestricted=false means the caller has nothing assigned and must see
// empty results, never everything.
type Scope struct {
	Unrestricted bool
	PropertyIDs  []string
}

// Allows reports whether the caller may touch the given property.
func (s Scope) Allows(propertyID string) bool {
	if s.Unrestricted {
		return true
	}
	for _, id := range s.PropertyIDs {
		if id == propertyID {
			return true
		}
	}
	return false
}

// Empty reports whether the scope grants access to nothing.
func (s Scope) Empty() bool {
	return !s.Unrestricted && len(s.PropertyIDs) == 0
}

// Unrestricted scope singleton helpers.
func UnrestrictedScope() Scope   { return Scope{Unrestricted: true} }
func ScopeOf(ids []string) Scope { return Scope{PropertyIDs: ids} }

// ManagerScope picks the managed-property set for a property manager:
// properties owned via the back-reference win; the manager's own assignment
// list is only a fallback when nothing is owned directly.
func ManagerScope(owned, assigned []string) Scope {
	if len(owned) > 0 {
		return ScopeOf(owned)
	}
	return ScopeOf(assigned)
}

// EmployeeScope picks the assigned-property set for an employee, wrapping
// the legacy single-property field when the assignment list is empty.
func EmployeeScope(assigned []string, legacyPropertyID *string) Scope {
	if len(assigned) > 0 {
		return ScopeOf(assigned)
	}
	if legacyPropertyID != nil && *legacyPropertyID != "" {
		return ScopeOf([]string{*legacyPropertyID})
	}
	return ScopeOf(nil)
}

// Resolve computes the caller's property scope. Admin roles are
// unrestricted (handlers still filter by company); managers and employees
// get an explicit id set that may be empty.
func Resolve(db *sqlx.DB, caller Caller) (Scope, error) {
	switch caller.Role {
	case models.RoleSuperAdmin, models.RoleAdmin:
		return UnrestrictedScope(), nil

	case models.RolePropertyManager:
		var owned []string
		err := db.Select(&owned, `
			SELECT id FROM properties
			WHERE property_manager_id = $1 AND is_deleted = FALSE
		`, caller.UserID)
		if err != nil {
			return Scope{}, fmt.Errorf("failed to resolve managed properties: %w", err)
		}

		assigned, err := assignedProperties(db, caller.UserID)
		if err != nil {
			return Scope{}, err
		}

		return ManagerScope(owned, assigned), nil

	case models.RoleEmployee:
		assigned, err := assignedProperties(db, caller.UserID)
		if err != nil {
			return Scope{}, err
		}

		var legacy sql.NullString
		err = db.Get(&legacy, `SELECT property_id FROM users WHERE id = $1`, caller.UserID)
		if err != nil && err != sql.ErrNoRows {
			return Scope{}, fmt.Errorf("failed to resolve legacy property: %w", err)
		}

		var legacyID *string
		if legacy.Valid {
			legacyID = &legacy.String
		}

		return EmployeeScope(assigned, legacyID), nil

	default:
		return Scope{}, fmt.Errorf("unknown caller role %q", caller.Role)
	}
}

func assignedProperties(db *sqlx.DB, userID string) ([]string, error) {
	var ids []string
	err := db.Select(&ids, `
		SELECT property_id FROM user_properties WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve assigned properties: %w", err)
	}
	return ids, nil
}
