package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"bintrack-backend/internal/access"
	"bintrack-backend/internal/models"
	"bintrack-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// TaskStatusReport lists tasks with their most recent task_logs entry, so
// the report reflects the last recorded transition even when the task row
// lags behind.
func TaskStatusReport(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		page := utils.ParsePagination(r)
		if scope.Empty() {
			utils.Success(w, utils.NewPagedResponse(page, 0, []struct{}{}))
			return
		}

		var a qargs
		where := "t.company_id = " + a.bind(caller.CompanyID)
		if !scope.Unrestricted {
			where += " AND t.property_id = ANY(" + a.bind(pq.Array(scope.PropertyIDs)) + ")"
		}
		if status := r.URL.Query().Get("status"); status != "" {
			where += " AND t.status = " + a.bind(status)
		}
		if propertyID := r.URL.Query().Get("propertyId"); propertyID != "" {
			if !checkScopedProperty(scope, propertyID, w) {
				return
			}
			where += " AND t.property_id = " + a.bind(propertyID)
		}

		var total int
		if err := db.Get(&total, "SELECT COUNT(*) FROM tasks t WHERE "+where, a...); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to count tasks")
			return
		}

		type taskStatusRow struct {
			ID             string  `json:"id" db:"id"`
			Title          string  `json:"title" db:"title"`
			Status         string  `json:"status" db:"status"`
			PropertyName   string  `json:"property_name" db:"property_name"`
			AssignedTo     *string `json:"assigned_to,omitempty" db:"assigned_to"`
			AssigneeName   *string `json:"assignee_name,omitempty" db:"assignee_name"`
			DueDate        *int64  `json:"due_date,omitempty" db:"due_date"`
			LatestStatus   *string `json:"latest_status,omitempty" db:"latest_status"`
			LatestNote     *string `json:"latest_note,omitempty" db:"latest_note"`
			LatestLoggedAt *int64  `json:"latest_logged_at,omitempty" db:"latest_logged_at"`
		}

		rows := []taskStatusRow{}
		err := db.Select(&rows, `
			SELECT t.id, t.title, t.status,
			       COALESCE(p.name, '') AS property_name,
			       t.assigned_to,
			       u.name AS assignee_name,
			       t.due_date,
			       tl.status AS latest_status,
			       tl.note AS latest_note,
			       tl.logged_at AS latest_logged_at
			FROM tasks t
			LEFT JOIN properties p ON p.id = t.property_id
			LEFT JOIN users u ON u.id = t.assigned_to
			LEFT JOIN LATERAL (
				SELECT status, note, logged_at FROM task_logs
				WHERE task_id = t.id
				ORDER BY logged_at DESC
				LIMIT 1
			) tl ON TRUE
			WHERE `+where+`
			ORDER BY t.created_at DESC
			LIMIT `+a.bind(page.Limit)+` OFFSET `+a.bind(page.Offset()), a...)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch task status report")
			return
		}

		utils.Success(w, utils.NewPagedResponse(page, total, rows))
	}
}

// clockLogScopeClause restricts clock logs to employees attached to the
// caller's properties, through either the assignment table or the legacy
// home-property column. Empty for unrestricted scopes.
func clockLogScopeClause(scope access.Scope, a *qargs) string {
	if scope.Unrestricted {
		return ""
	}
	arr := a.bind(pq.Array(scope.PropertyIDs))
	return "(e.property_id = ANY(" + arr + ")" +
		" OR EXISTS (SELECT 1 FROM user_properties up" +
		" WHERE up.user_id = cl.employee_id AND up.property_id = ANY(" + arr + ")))"
}

// EmployeeClockLogReport lists clock in/out records joined to the employee
// and their reporting manager (the manager of the employee's home property).
func EmployeeClockLogReport(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		page := utils.ParsePagination(r)
		if scope.Empty() {
			utils.Success(w, utils.NewPagedResponse(page, 0, []struct{}{}))
			return
		}

		var a qargs
		where := "cl.company_id = " + a.bind(caller.CompanyID)
		if clause := clockLogScopeClause(scope, &a); clause != "" {
			where += " AND " + clause
		}
		if employeeID := r.URL.Query().Get("employeeId"); employeeID != "" {
			where += " AND cl.employee_id = " + a.bind(employeeID)
		}
		if date := r.URL.Query().Get("date"); date != "" {
			day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
			if err != nil {
				utils.RespondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
				return
			}
			where += " AND cl.clock_in >= " + a.bind(day.Unix()) +
				" AND cl.clock_in <= " + a.bind(day.Unix()+24*60*60-1)
		}

		from := `
			FROM employee_clock_logs cl
			LEFT JOIN users e ON e.id = cl.employee_id
			LEFT JOIN properties hp ON hp.id = e.property_id
			LEFT JOIN users m ON m.id = hp.property_manager_id`

		var total int
		if err := db.Get(&total, "SELECT COUNT(*)"+from+" WHERE "+where, a...); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to count clock logs")
			return
		}

		type clockLogRow struct {
			ID           string  `json:"id" db:"id"`
			EmployeeID   string  `json:"employee_id" db:"employee_id"`
			EmployeeName string  `json:"employee_name" db:"employee_name"`
			ManagerName  *string `json:"manager_name,omitempty" db:"manager_name"`
			ClockIn      int64   `json:"clock_in" db:"clock_in"`
			ClockOut     *int64  `json:"clock_out,omitempty" db:"clock_out"`
		}

		rows := []clockLogRow{}
		err := db.Select(&rows, `
			SELECT cl.id, cl.employee_id,
			       COALESCE(e.name, '') AS employee_name,
			       m.name AS manager_name,
			       cl.clock_in, cl.clock_out`+from+`
			WHERE `+where+`
			ORDER BY cl.clock_in DESC
			LIMIT `+a.bind(page.Limit)+` OFFSET `+a.bind(page.Offset()), a...)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch clock logs")
			return
		}

		utils.Success(w, utils.NewPagedResponse(page, total, rows))
	}
}

// GetPropertyCheckLogs lists property check-in/out records for the caller's
// scope, newest first.
func GetPropertyCheckLogs(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		page := utils.ParsePagination(r)
		if scope.Empty() {
			utils.Success(w, utils.NewPagedResponse(page, 0, []models.PropertyCheckLogResponse{}))
			return
		}

		var a qargs
		where := "pcl.company_id = " + a.bind(caller.CompanyID)
		if !scope.Unrestricted {
			where += " AND pcl.property_id = ANY(" + a.bind(pq.Array(scope.PropertyIDs)) + ")"
		}
		if propertyID := r.URL.Query().Get("propertyId"); propertyID != "" {
			if !checkScopedProperty(scope, propertyID, w) {
				return
			}
			where += " AND pcl.property_id = " + a.bind(propertyID)
		}
		if employeeID := r.URL.Query().Get("employeeId"); employeeID != "" {
			where += " AND pcl.employee_id = " + a.bind(employeeID)
		}

		var total int
		if err := db.Get(&total, "SELECT COUNT(*) FROM property_check_logs pcl WHERE "+where, a...); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to count property check logs")
			return
		}

		logs := []models.PropertyCheckLog{}
		err := db.Select(&logs, `
			SELECT pcl.* FROM property_check_logs pcl
			WHERE `+where+`
			ORDER BY pcl.check_in DESC
			LIMIT `+a.bind(page.Limit)+` OFFSET `+a.bind(page.Offset()), a...)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch property check logs")
			return
		}

		data := make([]models.PropertyCheckLogResponse, len(logs))
		for i := range logs {
			data[i] = logs[i].ToPropertyCheckLogResponse()
		}

		utils.Success(w, utils.NewPagedResponse(page, total, data))
	}
}

// PropertyCheckIn opens a property check log for the caller, driven by the
// scanned tag barcode.
func PropertyCheckIn(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requestCaller(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req struct {
			Barcode string `json:"barcode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Barcode == "" {
			utils.RespondError(w, http.StatusBadRequest, "barcode is required")
			return
		}

		var tag struct {
			PropertyID string `db:"property_id"`
			CompanyID  string `db:"company_id"`
		}
		err := db.Get(&tag, `
			SELECT property_id, company_id FROM bin_tags
			WHERE barcode = $1 AND is_deleted = FALSE AND status = 'active'
			LIMIT 1
		`, req.Barcode)
		if err != nil {
			utils.RespondError(w, http.StatusNotFound, "Invalid or inactive QR code")
			return
		}

		now := time.Now().Unix()
		log := models.PropertyCheckLog{
			ID:         uuid.New().String(),
			CompanyID:  tag.CompanyID,
			PropertyID: tag.PropertyID,
			EmployeeID: caller.UserID,
			Barcode:    req.Barcode,
			CheckIn:    now,
			CreatedAt:  now,
		}
		_, err = db.Exec(`
			INSERT INTO property_check_logs (id, company_id, property_id, employee_id, barcode, check_in, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, log.ID, log.CompanyID, log.PropertyID, log.EmployeeID, log.Barcode, log.CheckIn, log.CreatedAt)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to record check-in")
			return
		}

		utils.RespondJSON(w, http.StatusCreated, log.ToPropertyCheckLogResponse())
	}
}

// PropertyCheckOut closes the caller's most recent open check log for the
// scanned property. Having no open log is a client error, not an upsert.
func PropertyCheckOut(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requestCaller(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req struct {
			Barcode string `json:"barcode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Barcode == "" {
			utils.RespondError(w, http.StatusBadRequest, "barcode is required")
			return
		}

		var propertyID string
		err := db.Get(&propertyID, `
			SELECT property_id FROM bin_tags
			WHERE barcode = $1 AND is_deleted = FALSE
			LIMIT 1
		`, req.Barcode)
		if err != nil {
			utils.RespondError(w, http.StatusNotFound, "Invalid or inactive QR code")
			return
		}

		now := time.Now().Unix()
		var open models.PropertyCheckLog
		err = db.Get(&open, `
			SELECT * FROM property_check_logs
			WHERE property_id = $1 AND employee_id = $2 AND check_out IS NULL
			ORDER BY check_in DESC
			LIMIT 1
		`, propertyID, caller.UserID)
		if err != nil {
			utils.RespondError(w, http.StatusNotFound, "No open check-in for this property")
			return
		}

		if _, err := db.Exec(`UPDATE property_check_logs SET check_out = $1 WHERE id = $2`, now, open.ID); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to record check-out")
			return
		}

		open.CheckOut = &now
		utils.Success(w, open.ToPropertyCheckLogResponse())
	}
}
