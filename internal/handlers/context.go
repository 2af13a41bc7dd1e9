package handlers

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"bintrack-backend/internal/access"
	"bintrack-backend/internal/middleware"
	"bintrack-backend/pkg/utils"
)

// requestCaller pulls the authenticated caller out of the request context.
func requestCaller(r *http.Request) (access.Caller, bool) {
	claims, ok := middleware.GetUserFromContext(r)
	if !ok {
		return access.Caller{}, false
	}
	return access.Caller{
		UserID:    claims.UserID,
		CompanyID: claims.CompanyID,
		Role:      claims.Role,
	}, true
}

// resolveScope loads the caller and their property scope, writing the error
// response itself when either step fails. The bool is false when the
// handler should stop.
func resolveScope(db *sqlx.DB, w http.ResponseWriter, r *http.Request) (access.Caller, access.Scope, bool) {
	caller, ok := requestCaller(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return access.Caller{}, access.Scope{}, false
	}

	scope, err := access.Resolve(db, caller)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to resolve access scope")
		return access.Caller{}, access.Scope{}, false
	}

	return caller, scope, true
}

// checkScopedProperty enforces that an explicitly requested property id is
// inside the caller's scope. Answers 403 and returns false otherwise.
func checkScopedProperty(scope access.Scope, propertyID string, w http.ResponseWriter) bool {
	if propertyID == "" || scope.Allows(propertyID) {
		return true
	}
	utils.RespondError(w, http.StatusForbidden, "Access denied for the requested property")
	return false
}
