package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bintrack-backend/internal/access"
)

func TestClockLogScopeClause_UnrestrictedAddsNothing(t *testing.T) {
	var a qargs
	assert.Empty(t, clockLogScopeClause(access.UnrestrictedScope(), &a))
	assert.Empty(t, []interface{}(a))
}

func TestClockLogScopeClause_RestrictedFiltersBothMembershipPaths(t *testing.T) {
	var a qargs
	clause := clockLogScopeClause(access.ScopeOf([]string{"p1", "p2"}), &a)

	assert.Contains(t, clause, "e.property_id = ANY($1)")
	assert.Contains(t, clause, "up.property_id = ANY($1)")
	assert.Contains(t, clause, "up.user_id = cl.employee_id")
	assert.Len(t, []interface{}(a), 1, "both membership paths share one bound array")
}
