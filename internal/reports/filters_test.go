package reports

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bintrack-backend/internal/access"
)

func TestParseActivity(t *testing.T) {
	assert.Equal(t, MatchAll, ParseActivity(""))
	assert.Equal(t, MatchAll, ParseActivity("   "))
	assert.Equal(t, MatchRouteCheckpoint, ParseActivity("Route Check Point"))
	assert.Equal(t, MatchRouteCheckpoint, ParseActivity("route checkpoint"))
	assert.Equal(t, MatchNonRouteCheckpoint, ParseActivity("Violation Reported"))
	assert.Equal(t, MatchNonRouteCheckpoint, ParseActivity("violation"))
	assert.Equal(t, MatchService, ParseActivity("service"))
	assert.Equal(t, MatchService, ParseActivity("Service Completed"))

	// Keywords with no activity meaning must match nothing, not everything.
	assert.Equal(t, MatchNone, ParseActivity("gibberish"))
}

func TestDayWindowUTC(t *testing.T) {
	start, end, err := DayWindowUTC("2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, int64(86400-1), end-start)
	assert.Equal(t, "2026-03-10", DayKey(start))
	assert.Equal(t, "2026-03-10", DayKey(end))

	_, _, err = DayWindowUTC("03/10/2026")
	assert.Error(t, err)
}

func TestParseDateRange_SingleDateWins(t *testing.T) {
	r := httptest.NewRequest("GET", "/?date=2026-03-10&startDate=2026-01-01&endDate=2026-12-31", nil)

	start, end, err := ParseDateRange(r)
	require.NoError(t, err)
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, int64(86400-1), *end-*start)
}

func TestParseDateRange_OpenEnded(t *testing.T) {
	r := httptest.NewRequest("GET", "/?startDate=2026-03-01", nil)

	start, end, err := ParseDateRange(r)
	require.NoError(t, err)
	assert.NotNil(t, start)
	assert.Nil(t, end)
}

func TestFiltersFromRequest_IDvsName(t *testing.T) {
	scope := access.UnrestrictedScope()

	r := httptest.NewRequest("GET", "/?propertyId=0b2f8c64-9f75-4d1e-8f25-1a2b3c4d5e6f&user=Jane", nil)
	f, err := FiltersFromRequest(r, "co1", scope)
	require.NoError(t, err)
	assert.Equal(t, "0b2f8c64-9f75-4d1e-8f25-1a2b3c4d5e6f", f.PropertyID)
	assert.Empty(t, f.PropertyName)
	assert.Empty(t, f.EmployeeID)
	assert.Equal(t, "Jane", f.EmployeeName)

	r = httptest.NewRequest("GET", "/?property=Sunset+Villas", nil)
	f, err = FiltersFromRequest(r, "co1", scope)
	require.NoError(t, err)
	assert.Empty(t, f.PropertyID)
	assert.Equal(t, "Sunset Villas", f.PropertyName)
}
