package handlers

import (
	"net/http"
	"time"

	"bintrack-backend/internal/reports"
	"bintrack-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// ServiceRouteSummary lists a property's route-checkpoint tags with their
// same-day scan counts and first/last scan times.
func ServiceRouteSummary(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		propertyID := r.URL.Query().Get("propertyId")
		if propertyID == "" {
			utils.RespondError(w, http.StatusBadRequest, "propertyId is required")
			return
		}
		if !checkScopedProperty(scope, propertyID, w) {
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

		var total int
		err = db.Get(&total, `
			SELECT COUNT(*) FROM bin_tags
			WHERE property_id = $1 AND tag_type = 'route_checkpoint' AND is_deleted = FALSE
		`, propertyID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to count checkpoints")
			return
		}

		type summaryRow struct {
			TagID      string `json:"tag_id" db:"tag_id"`
			UnitNumber string `json:"unit_number" db:"unit_number"`
			Barcode    string `json:"barcode" db:"barcode"`
			ScanCount  int    `json:"scan_count" db:"scan_count"`
			FirstScan  *int64 `json:"first_scan,omitempty" db:"first_scan"`
			LastScan   *int64 `json:"last_scan,omitempty" db:"last_scan"`
		}

		rows := []summaryRow{}
		err = db.Select(&rows, `
			SELECT t.id AS tag_id,
			       t.unit_number,
			       t.barcode,
			       (SELECT COUNT(*) FROM qr_scan_logs l
			        WHERE l.bin_tag_id = t.id AND l.scanned_at BETWEEN $2 AND $3) AS scan_count,
			       (SELECT MIN(l.scanned_at) FROM qr_scan_logs l
			        WHERE l.bin_tag_id = t.id AND l.scanned_at BETWEEN $2 AND $3) AS first_scan,
			       (SELECT MAX(l.scanned_at) FROM qr_scan_logs l
			        WHERE l.bin_tag_id = t.id AND l.scanned_at BETWEEN $2 AND $3) AS last_scan
			FROM bin_tags t
			WHERE t.property_id = $1 AND t.tag_type = 'route_checkpoint' AND t.is_deleted = FALSE
			ORDER BY t.unit_number ASC
			LIMIT $4 OFFSET $5
		`, propertyID, dayStart, dayEnd, page.Limit, page.Offset())
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch route summary")
			return
		}

		utils.Success(w, utils.NewPagedResponse(page, total, rows))
	}
}

// MissedRouteCheckpoints lists the checkpoints of a property that have no
// scan event on the given date, via set difference against the distinct
// scanned checkpoint ids.
func MissedRouteCheckpoints(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		propertyID := r.URL.Query().Get("propertyId")
		if propertyID == "" {
			utils.RespondError(w, http.StatusBadRequest, "propertyId is required")
			return
		}
		if !checkScopedProperty(scope, propertyID, w) {
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

		missedWhere := `
			c.property_id = $1
			AND c.id NOT IN (
				SELECT DISTINCT se.checkpoint_id FROM scan_events se
				WHERE se.property_id = $1 AND se.scanned_at BETWEEN $2 AND $3
			)`

		var total int
		err = db.Get(&total, "SELECT COUNT(*) FROM checkpoints c WHERE "+missedWhere,
			propertyID, dayStart, dayEnd)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to count missed checkpoints")
			return
		}

		type missedRow struct {
			ID           string  `json:"id" db:"id"`
			Name         string  `json:"name" db:"name"`
			BuildingName *string `json:"building_name,omitempty" db:"building_name"`
		}

		rows := []missedRow{}
		err = db.Select(&rows, `
			SELECT c.id, c.name, b.name AS building_name
			FROM checkpoints c
			LEFT JOIN buildings b ON b.id = c.building_id
			WHERE `+missedWhere+`
			ORDER BY c.name ASC
			LIMIT $4 OFFSET $5
		`, propertyID, dayStart, dayEnd, page.Limit, page.Offset())
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch missed checkpoints")
			return
		}

		utils.Success(w, utils.NewPagedResponse(page, total, rows))
	}
}
