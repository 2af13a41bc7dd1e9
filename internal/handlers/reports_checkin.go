package handlers

import (
	"net/http"
	"time"

	"bintrack-backend/internal/reports"
	"bintrack-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// checkinRow is one reconstructed session as the report serializes it.
// Timestamps render as RFC3339 UTC strings for the frontend.
type checkinRow struct {
	User         string  `json:"user"`
	UserID       string  `json:"userId"`
	PropertyID   string  `json:"propertyId"`
	PropertyName string  `json:"propertyName"`
	BarcodeID    string  `json:"barcodeId"`
	Date         string  `json:"date"`
	CheckIn      string  `json:"checkIn"`
	CheckOut     *string `json:"checkOut"`
	Duration     *int64  `json:"durationSeconds"`
	ScanCount    int     `json:"scanCount"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

func isoUTC(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

// CheckinCheckoutHistoricalReport reconstructs check-in/check-out sessions
// from raw scans: scans are grouped per employee, per checkpoint-or-tag, per
// UTC day, and each group collapses to its first and last scan. A group with
// a single scan is an unterminated check-in and reports no check-out.
func CheckinCheckoutHistoricalReport(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		filters, err := reports.FiltersFromRequest(r, caller.CompanyID, scope)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if filters.PropertyID != "" && !checkScopedProperty(scope, filters.PropertyID, w) {
			return
		}

		records, source, err := reports.QueryScanRecords(db, filters)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch scan records")
			return
		}

		sessions := reports.BuildSessions(records)

		page := utils.ParsePagination(r)
		total := len(sessions)
		start := page.Offset()
		if start > total {
			start = total
		}
		end := start + page.Limit
		if end > total {
			end = total
		}

		rows := make([]checkinRow, 0, end-start)
		for _, sess := range sessions[start:end] {
			row := checkinRow{
				User:         sess.ActorName,
				UserID:       sess.ActorID,
				PropertyID:   sess.PropertyID,
				PropertyName: sess.PropertyName,
				BarcodeID:    sess.Barcode,
				Date:         sess.Day,
				CheckIn:      isoUTC(sess.FirstScan),
				Duration:     sess.Duration,
				ScanCount:    sess.ScanCount,
				CreatedAt:    isoUTC(sess.FirstScan),
				UpdatedAt:    isoUTC(sess.LastScan),
			}
			if sess.CheckOut != nil {
				out := isoUTC(*sess.CheckOut)
				row.CheckOut = &out
			}
			rows = append(rows, row)
		}

		resp := utils.NewPagedResponse(page, total, rows)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"page":         resp.Page,
			"limit":        resp.Limit,
			"totalRecords": resp.TotalRecords,
			"totalPages":   resp.TotalPages,
			"source":       source,
			"data":         resp.Data,
		})
	}
}

// serviceReportRow is one raw scan in the flat service report.
type serviceReportRow struct {
	User         string `json:"user"`
	UserID       string `json:"userId"`
	PropertyID   string `json:"propertyId"`
	PropertyName string `json:"propertyName"`
	BarcodeID    string `json:"barcodeId"`
	UnitNumber   string `json:"unitNumber"`
	Activity     string `json:"activity"`
	ScannedAt    string `json:"scannedAt"`
}

// ServiceReport lists raw scans one row per scan, newest first, under the
// same filter set and dual-source fallback as the historical report.
func ServiceReport(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		filters, err := reports.FiltersFromRequest(r, caller.CompanyID, scope)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if filters.PropertyID != "" && !checkScopedProperty(scope, filters.PropertyID, w) {
			return
		}

		records, source, err := reports.QueryScanRecords(db, filters)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch scan records")
			return
		}

		page := utils.ParsePagination(r)
		total := len(records)
		start := page.Offset()
		if start > total {
			start = total
		}
		end := start + page.Limit
		if end > total {
			end = total
		}

		rows := make([]serviceReportRow, 0, end-start)
		for _, rec := range records[start:end] {
			rows = append(rows, serviceReportRow{
				User:         rec.ActorName,
				UserID:       rec.ActorID,
				PropertyID:   rec.PropertyID,
				PropertyName: rec.PropertyName,
				BarcodeID:    rec.Barcode,
				UnitNumber:   rec.UnitNumber,
				Activity:     serviceActivity(rec.TagType),
				ScannedAt:    isoUTC(rec.ScannedAt),
			})
		}

		resp := utils.NewPagedResponse(page, total, rows)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"page":         resp.Page,
			"limit":        resp.Limit,
			"totalRecords": resp.TotalRecords,
			"totalPages":   resp.TotalPages,
			"source":       source,
			"data":         resp.Data,
		})
	}
}

// serviceActivity maps a tag type or event activity to its display label.
// Unknown values render as violations, matching the scan classification.
func serviceActivity(activity string) string {
	switch activity {
	case "route_checkpoint":
		return "Route Check Point"
	case "service":
		return "Service"
	case "other":
		return "Other"
	default:
		return "Violation Reported"
	}
}
