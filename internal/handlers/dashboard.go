package handlers

import (
	"net/http"
	"time"

	"bintrack-backend/internal/access"
	"bintrack-backend/internal/models"
	"bintrack-backend/internal/reports"
	"bintrack-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

// dashboardCards are the five same-day counters at the top of the
// property-manager dashboard. Field names are the card labels the frontend
// binds to.
type dashboardCards struct {
	Violations          int `json:"violations"`
	UnitServices        int `json:"unitServices"`
	CheckInPending      int `json:"checkInPending"`
	RouteCheckpoints    int `json:"routeCheckpoints"`
	TodaysTaskCompleted int `json:"todaysTaskCompleted"`
}

// dashboardActivity is one row of the day's scan feed.
type dashboardActivity struct {
	ScanID       string `json:"scanId" db:"scan_id"`
	Barcode      string `json:"barcode" db:"barcode"`
	UnitNumber   string `json:"unitNumber" db:"unit_number"`
	TagType      string `json:"tagType" db:"tag_type"`
	PropertyName string `json:"propertyName" db:"property_name"`
	ScannedBy    string `json:"scannedBy" db:"scanned_by_name"`
	ScannedAt    int64  `json:"scannedAt" db:"scanned_at"`
}

// dashboardScope works out whose properties the dashboard covers. A manager
// always sees their own scope; an admin must name a property or a manager to
// impersonate, since "everything" makes the counters meaningless.
func dashboardScope(db *sqlx.DB, caller access.Caller, r *http.Request) (access.Scope, int, string) {
	q := r.URL.Query()
	propertyID := q.Get("propertyId")
	managerID := q.Get("propertyManagerId")

	switch caller.Role {
	case models.RoleAdmin, models.RoleSuperAdmin:
		if propertyID != "" {
			return access.Scope{PropertyIDs: []string{propertyID}}, 0, ""
		}
		if managerID != "" {
			scope, err := access.Resolve(db, access.Caller{
				UserID:    managerID,
				CompanyID: caller.CompanyID,
				Role:      models.RolePropertyManager,
			})
			if err != nil {
				return access.Scope{}, http.StatusInternalServerError, "Failed to resolve manager scope"
			}
			return scope, 0, ""
		}
		return access.Scope{}, http.StatusBadRequest, "propertyId or propertyManagerId is required"
	default:
		scope, err := access.Resolve(db, caller)
		if err != nil {
			return access.Scope{}, http.StatusInternalServerError, "Failed to resolve access scope"
		}
		if propertyID != "" {
			if !scope.Allows(propertyID) {
				return access.Scope{}, http.StatusForbidden, "Access denied for the requested property"
			}
			return access.Scope{PropertyIDs: []string{propertyID}}, 0, ""
		}
		return scope, 0, ""
	}
}

// PropertyManagerDashboard serves the day's counter cards plus a paginated
// activity feed of the day's tag scans. The five counters run concurrently.
func PropertyManagerDashboard(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requestCaller(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		scope, errStatus, errMsg := dashboardScope(db, caller, r)
		if errStatus != 0 {
			utils.RespondError(w, errStatus, errMsg)
			return
		}

		date := r.URL.Query().Get("date")
		if date == "" {
			date = time.Now().UTC().Format("2006-01-02")
		}
		dayStart, dayEnd, err := reports.DayWindowUTC(date)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		page := utils.ParsePagination(r)

		// Denied scope still renders: zero cards and an empty feed.
		if scope.Empty() {
			utils.Success(w, map[string]interface{}{
				"date":         date,
				"cards":        dashboardCards{},
				"activityLogs": utils.NewPagedResponse(page, 0, []dashboardActivity{}),
			})
			return
		}

		scopeArgs := []interface{}{caller.CompanyID, dayStart, dayEnd}
		if !scope.Unrestricted {
			scopeArgs = append(scopeArgs, pq.Array(scope.PropertyIDs))
		}

		// dayCount counts same-day rows of one table inside the scope,
		// windowed on the named timestamp column.
		dayCount := func(dst *int, table, tsColumn, extra string) func() error {
			query := "SELECT COUNT(*) FROM " + table +
				" WHERE company_id = $1 AND " + tsColumn + " >= $2 AND " + tsColumn + " <= $3"
			if !scope.Unrestricted {
				query += " AND property_id = ANY($4)"
			}
			query += extra
			return func() error { return db.Get(dst, query, scopeArgs...) }
		}

		var cards dashboardCards
		g := new(errgroup.Group)
		g.Go(dayCount(&cards.Violations, "violations", "created_at", ""))
		g.Go(dayCount(&cards.UnitServices, "service_notes", "created_at", ""))
		g.Go(dayCount(&cards.CheckInPending, "schedules", "scheduled_for", " AND status = 'scheduled'"))
		g.Go(func() error {
			// Task completions come from the transition log, not the task
			// row, so a task completed and later reopened still counts.
			query := `
				SELECT COUNT(*) FROM task_logs tl
				JOIN tasks t ON t.id = tl.task_id
				WHERE t.company_id = $1 AND tl.logged_at >= $2 AND tl.logged_at <= $3
				  AND tl.status = 'completed'`
			if !scope.Unrestricted {
				query += " AND t.property_id = ANY($4)"
			}
			return db.Get(&cards.TodaysTaskCompleted, query, scopeArgs...)
		})
		g.Go(func() error {
			// Route-checkpoint scans join through bin_tags since scan logs
			// do not carry the tag type.
			query := `
				SELECT COUNT(*) FROM qr_scan_logs l
				JOIN bin_tags t ON t.id = l.bin_tag_id
				WHERE l.company_id = $1 AND l.scanned_at >= $2 AND l.scanned_at <= $3
				  AND t.tag_type = 'route_checkpoint'`
			if !scope.Unrestricted {
				query += " AND t.property_id = ANY($4)"
			}
			return db.Get(&cards.RouteCheckpoints, query, scopeArgs...)
		})
		if err := g.Wait(); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to compute dashboard counters")
			return
		}

		var a qargs
		feedWhere := "l.company_id = " + a.bind(caller.CompanyID) +
			" AND l.scanned_at >= " + a.bind(dayStart) +
			" AND l.scanned_at <= " + a.bind(dayEnd)
		if !scope.Unrestricted {
			feedWhere += " AND t.property_id = ANY(" + a.bind(pq.Array(scope.PropertyIDs)) + ")"
		}
		if search := r.URL.Query().Get("search"); search != "" {
			pattern := a.bind("%" + search + "%")
			feedWhere += " AND (l.barcode ILIKE " + pattern +
				" OR l.unit_number ILIKE " + pattern +
				" OR COALESCE(p.name, l.property_name) ILIKE " + pattern +
				" OR COALESCE(u.name, l.scanned_by_name) ILIKE " + pattern + ")"
		}

		fromClause := `
			FROM qr_scan_logs l
			JOIN bin_tags t ON t.id = l.bin_tag_id
			LEFT JOIN properties p ON p.id = t.property_id
			LEFT JOIN users u ON u.id = l.scanned_by`

		var total int
		if err := db.Get(&total, "SELECT COUNT(*) "+fromClause+" WHERE "+feedWhere, a...); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to count dashboard activity")
			return
		}

		activity := []dashboardActivity{}
		err = db.Select(&activity, `
			SELECT l.id AS scan_id,
			       l.barcode,
			       l.unit_number,
			       t.tag_type,
			       COALESCE(p.name, l.property_name) AS property_name,
			       COALESCE(u.name, l.scanned_by_name) AS scanned_by_name,
			       l.scanned_at
			`+fromClause+`
			WHERE `+feedWhere+`
			ORDER BY l.scanned_at DESC
			LIMIT `+a.bind(page.Limit)+` OFFSET `+a.bind(page.Offset()), a...)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch dashboard activity")
			return
		}

		utils.Success(w, map[string]interface{}{
			"date":         date,
			"cards":        cards,
			"activityLogs": utils.NewPagedResponse(page, total, activity),
		})
	}
}
