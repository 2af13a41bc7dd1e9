package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bintrack-backend/internal/access"
)

func TestRecycleReportWhere_RejectsOutOfScopeProperty(t *testing.T) {
	scope := access.ScopeOf([]string{"p1", "p2"})
	r := httptest.NewRequest("GET", "/?propertyId=p3", nil)

	var a qargs
	_, err := recycleReportWhere(r, "co1", scope, &a)
	assert.ErrorIs(t, err, errPropertyOutOfScope)
	assert.NotContains(t, []interface{}(a), "p3", "denied property must never reach the query")
}

func TestRecycleReportWhere_AllowsInScopeProperty(t *testing.T) {
	scope := access.ScopeOf([]string{"p1", "p2"})
	r := httptest.NewRequest("GET", "/?propertyId=p1", nil)

	var a qargs
	where, err := recycleReportWhere(r, "co1", scope, &a)
	require.NoError(t, err)
	assert.Contains(t, where, "rr.property_id = $")
	assert.Contains(t, []interface{}(a), "p1")
}

func TestRecycleReportWhere_UnrestrictedSkipsScopeClause(t *testing.T) {
	r := httptest.NewRequest("GET", "/?propertyId=p3", nil)

	var a qargs
	where, err := recycleReportWhere(r, "co1", access.UnrestrictedScope(), &a)
	require.NoError(t, err)
	assert.NotContains(t, where, "ANY(")
	assert.Contains(t, []interface{}(a), "p3")
}
