package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeAllows(t *testing.T) {
	scope := ScopeOf([]string{"p1", "p2"})

	assert.True(t, scope.Allows("p1"))
	assert.True(t, scope.Allows("p2"))
	assert.False(t, scope.Allows("p3"), "unassigned property must be denied even if it exists")

	assert.True(t, UnrestrictedScope().Allows("anything"))
}

func TestScopeEmpty(t *testing.T) {
	assert.True(t, ScopeOf(nil).Empty())
	assert.True(t, ScopeOf([]string{}).Empty())
	assert.False(t, ScopeOf([]string{"p1"}).Empty())
	assert.False(t, UnrestrictedScope().Empty(), "unrestricted is never empty")
}

func TestManagerScope_OwnedWinsOverAssigned(t *testing.T) {
	scope := ManagerScope([]string{"owned1"}, []string{"assigned1", "assigned2"})
	assert.Equal(t, []string{"owned1"}, scope.PropertyIDs)
}

func TestManagerScope_FallsBackToAssigned(t *testing.T) {
	scope := ManagerScope(nil, []string{"assigned1"})
	assert.Equal(t, []string{"assigned1"}, scope.PropertyIDs)
}

func TestManagerScope_BothEmptyIsDeniedNotUnrestricted(t *testing.T) {
	scope := ManagerScope(nil, nil)
	assert.True(t, scope.Empty())
	assert.False(t, scope.Unrestricted)
}

func TestEmployeeScope_AssignedList(t *testing.T) {
	legacy := "legacy-prop"
	scope := EmployeeScope([]string{"p1", "p2"}, &legacy)
	assert.Equal(t, []string{"p1", "p2"}, scope.PropertyIDs)
}

func TestEmployeeScope_LegacyFallback(t *testing.T) {
	legacy := "legacy-prop"
	scope := EmployeeScope(nil, &legacy)
	assert.Equal(t, []string{"legacy-prop"}, scope.PropertyIDs)
}

func TestEmployeeScope_NothingAssigned(t *testing.T) {
	empty := ""
	assert.True(t, EmployeeScope(nil, nil).Empty())
	assert.True(t, EmployeeScope(nil, &empty).Empty())
}
