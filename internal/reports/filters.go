package reports

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"bintrack-backend/internal/access"
)

// ActivityMatch is the restriction an activity keyword implies. The
// structured source matches its activity_type column directly; the
// qr_scan_logs source, which carries no activity field, maps it onto
// tag types.
type ActivityMatch int

const (
	// MatchAll: no activity filter requested.
	MatchAll ActivityMatch = iota
	// MatchRouteCheckpoint: keyword names route-checkpoint activity.
	MatchRouteCheckpoint
	// MatchNonRouteCheckpoint: keyword names violation activity.
	MatchNonRouteCheckpoint
	// MatchService: keyword names service activity. Only the structured
	// source records it; tag scans carry no service classification.
	MatchService
	// MatchNone: keyword has no meaning for either source, so nothing
	// matches.
	MatchNone
)

// ParseActivity infers the activity restriction from a keyword.
// Unrecognized non-empty keywords force zero results rather than silently
// matching everything.
func ParseActivity(activity string) ActivityMatch {
	keyword := strings.ToLower(strings.TrimSpace(activity))
	if keyword == "" {
		return MatchAll
	}
	if strings.Contains(keyword, "route check") {
		return MatchRouteCheckpoint
	}
	if strings.Contains(keyword, "violation") {
		return MatchNonRouteCheckpoint
	}
	if strings.Contains(keyword, "service") {
		return MatchService
	}
	return MatchNone
}

// Filters is the shared filter set both scan sources must honor.
type Filters struct {
	CompanyID string
	Scope     access.Scope

	// Inclusive Unix-second window; nil means unbounded on that side.
	StartTime *int64
	EndTime   *int64

	PropertyID   string
	PropertyName string
	EmployeeID   string
	EmployeeName string
	Activity     ActivityMatch
	Search       string
	ScanBy       string
}

// DayWindowUTC returns the inclusive [00:00:00, 23:59:59] Unix-second
// window of a YYYY-MM-DD date in UTC.
func DayWindowUTC(date string) (int64, int64, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	start := day.Unix()
	return start, start + 24*60*60 - 1, nil
}

// ParseDateRange reads date/startDate/endDate query params into a window.
// A bare `date` wins and covers that single day; otherwise startDate and
// endDate each bound their own side.
func ParseDateRange(r *http.Request) (*int64, *int64, error) {
	q := r.URL.Query()

	if date := q.Get("date"); date != "" {
		start, end, err := DayWindowUTC(date)
		if err != nil {
			return nil, nil, err
		}
		return &start, &end, nil
	}

	var startTime, endTime *int64
	if v := q.Get("startDate"); v != "" {
		start, _, err := DayWindowUTC(v)
		if err != nil {
			return nil, nil, err
		}
		startTime = &start
	}
	if v := q.Get("endDate"); v != "" {
		_, end, err := DayWindowUTC(v)
		if err != nil {
			return nil, nil, err
		}
		endTime = &end
	}
	return startTime, endTime, nil
}

// FiltersFromRequest builds the shared filter set from report query params.
// propertyId/property and employeeId/user are accepted as aliases; a value
// that is not a uuid is treated as a name match instead of an id.
func FiltersFromRequest(r *http.Request, companyID string, scope access.Scope) (Filters, error) {
	q := r.URL.Query()

	startTime, endTime, err := ParseDateRange(r)
	if err != nil {
		return Filters{}, err
	}

	f := Filters{
		CompanyID: companyID,
		Scope:     scope,
		StartTime: startTime,
		EndTime:   endTime,
		Activity:  ParseActivity(q.Get("activity")),
		Search:    strings.TrimSpace(q.Get("search")),
		ScanBy:    strings.TrimSpace(q.Get("scanBy")),
	}

	property := q.Get("propertyId")
	if property == "" {
		property = q.Get("property")
	}
	if looksLikeID(property) {
		f.PropertyID = property
	} else {
		f.PropertyName = strings.TrimSpace(property)
	}

	employee := q.Get("employeeId")
	if employee == "" {
		employee = q.Get("user")
	}
	if looksLikeID(employee) {
		f.EmployeeID = employee
	} else {
		f.EmployeeName = strings.TrimSpace(employee)
	}

	return f, nil
}

// looksLikeID is a cheap uuid shape check (36 chars, dashed). Names never
// collide with it in practice.
func looksLikeID(v string) bool {
	if len(v) != 36 {
		return false
	}
	return v[8] == '-' && v[13] == '-' && v[18] == '-' && v[23] == '-'
}
