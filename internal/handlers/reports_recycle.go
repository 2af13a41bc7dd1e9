package handlers

import (
	"errors"
	"net/http"
	"strings"

	"bintrack-backend/internal/access"
	"bintrack-backend/internal/models"
	"bintrack-backend/internal/reports"
	"bintrack-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

// errPropertyOutOfScope marks an explicit propertyId the caller's scope
// does not contain. Callers answer 403, never an empty page.
var errPropertyOutOfScope = errors.New("property out of scope")

// recycleReportWhere builds the shared filter clause for recycle report
// queries from the request's query params and the caller's scope.
func recycleReportWhere(r *http.Request, companyID string, scope access.Scope, a *qargs) (string, error) {
	q := r.URL.Query()

	clauses := []string{"rr.company_id = " + a.bind(companyID)}

	if !scope.Unrestricted {
		clauses = append(clauses, "rr.property_id = ANY("+a.bind(pq.Array(scope.PropertyIDs))+")")
	}

	startTime, endTime, err := reports.ParseDateRange(r)
	if err != nil {
		return "", err
	}
	if startTime != nil {
		clauses = append(clauses, "rr.scan_date >= "+a.bind(*startTime))
	}
	if endTime != nil {
		clauses = append(clauses, "rr.scan_date <= "+a.bind(*endTime))
	}

	if propertyID := q.Get("propertyId"); propertyID != "" {
		if !scope.Allows(propertyID) {
			return "", errPropertyOutOfScope
		}
		clauses = append(clauses, "rr.property_id = "+a.bind(propertyID))
	}
	if status := strings.TrimSpace(q.Get("status")); status != "" {
		clauses = append(clauses, "rr.status = "+a.bind(status))
	}
	if scannedBy := strings.TrimSpace(q.Get("scannedBy")); scannedBy != "" {
		clauses = append(clauses, "rr.scanned_by = "+a.bind(scannedBy))
	}

	return strings.Join(clauses, " AND "), nil
}

// recycleSummary holds the three headline totals of the recycle report.
type recycleSummary struct {
	TotalRecycle      int `json:"totalRecycle"`
	TotalContaminated int `json:"totalContaminated"`
	TotalViolations   int `json:"totalViolations"`
}

// loadRecycleSummary computes the three totals concurrently against the
// shared filter clause.
func loadRecycleSummary(db *sqlx.DB, where string, a qargs) (recycleSummary, error) {
	var summary recycleSummary
	g := new(errgroup.Group)
	g.Go(func() error {
		return db.Get(&summary.TotalRecycle,
			"SELECT COUNT(*) FROM recycle_reports rr WHERE "+where+" AND rr.recycle = TRUE", a...)
	})
	g.Go(func() error {
		return db.Get(&summary.TotalContaminated,
			"SELECT COUNT(*) FROM recycle_reports rr WHERE "+where+" AND rr.contaminated = TRUE", a...)
	})
	g.Go(func() error {
		return db.Get(&summary.TotalViolations,
			"SELECT COUNT(*) FROM recycle_reports rr WHERE "+where+" AND rr.status = '"+
				models.RecycleStatusViolation+"'", a...)
	})
	return summary, g.Wait()
}

// RecycleReportSummary returns the headline recycle totals for the caller's
// scope, without the row listing.
func RecycleReportSummary(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}
		if scope.Empty() {
			utils.Success(w, recycleSummary{})
			return
		}

		var a qargs
		where, err := recycleReportWhere(r, caller.CompanyID, scope, &a)
		if errors.Is(err, errPropertyOutOfScope) {
			utils.RespondError(w, http.StatusForbidden, "Access denied for the requested property")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		summary, err := loadRecycleSummary(db, where, a)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to compute recycle summary")
			return
		}

		utils.Success(w, summary)
	}
}

// GetRecycleReports returns the headline totals plus the paginated listing,
// newest scan first. Filters: startDate, endDate, date, propertyId, status,
// scannedBy.
func GetRecycleReports(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		page := utils.ParsePagination(r)
		if scope.Empty() {
			utils.Success(w, map[string]interface{}{
				"summary":      recycleSummary{},
				"page":         page.Page,
				"limit":        page.Limit,
				"totalRecords": 0,
				"totalPages":   0,
				"data":         []models.RecycleReportResponse{},
			})
			return
		}

		var a qargs
		where, err := recycleReportWhere(r, caller.CompanyID, scope, &a)
		if errors.Is(err, errPropertyOutOfScope) {
			utils.RespondError(w, http.StatusForbidden, "Access denied for the requested property")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		summary, err := loadRecycleSummary(db, where, a)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to compute recycle summary")
			return
		}

		var total int
		if err := db.Get(&total, "SELECT COUNT(*) FROM recycle_reports rr WHERE "+where, a...); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to count recycle reports")
			return
		}

		query := `
			SELECT rr.* FROM recycle_reports rr
			WHERE ` + where + `
			ORDER BY rr.scan_date DESC
			LIMIT ` + a.bind(page.Limit) + ` OFFSET ` + a.bind(page.Offset())

		rows := []models.RecycleReport{}
		if err := db.Select(&rows, query, a...); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch recycle reports")
			return
		}

		data := make([]models.RecycleReportResponse, len(rows))
		for i := range rows {
			data[i] = rows[i].ToRecycleReportResponse()
		}

		utils.Success(w, map[string]interface{}{
			"summary":      summary,
			"page":         page.Page,
			"limit":        page.Limit,
			"totalRecords": total,
			"totalPages":   page.TotalPages(total),
			"data":         data,
		})
	}
}
