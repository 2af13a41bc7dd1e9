package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"bintrack-backend/internal/models"
	"bintrack-backend/internal/services"
	"bintrack-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type recordScanRequest struct {
	Barcode   string   `json:"barcode"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// RecordScan is the full scan path: creates a QrScanLog snapshot row,
// bumps the tag's scan counter, and derives one RecycleReport entry
// classified by tag type. The three writes run strictly in sequence with no
// wrapping transaction; a mid-sequence failure leaves the earlier writes in
// place, matching the store-level behavior reports are built against.
func RecordScan(db *sqlx.DB, alerts *services.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requestCaller(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req recordScanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Barcode) == "" {
			utils.RespondError(w, http.StatusBadRequest, "Barcode is required")
			return
		}

		companyID, err := resolveCompany(db, caller.UserID, caller.CompanyID)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Unable to resolve company for this user")
			return
		}

		var tag models.BinTag
		err = db.Get(&tag, `
			SELECT * FROM bin_tags
			WHERE barcode = $1 AND company_id = $2 AND status = 'active' AND is_deleted = FALSE
		`, req.Barcode, companyID)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Invalid or inactive QR code")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		var actor models.User
		if err := db.Get(&actor, "SELECT * FROM users WHERE id = $1", caller.UserID); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to load user")
			return
		}

		now := time.Now().Unix()
		scanLog := models.QrScanLog{
			ID:             uuid.New().String(),
			CompanyID:      companyID,
			BinTagID:       tag.ID,
			ScannedBy:      actor.ID,
			ScannedByName:  actor.Name,
			ScannedByEmail: actor.Email,
			PropertyName:   tag.PropertyName,
			UnitNumber:     tag.UnitNumber,
			Barcode:        tag.Barcode,
			Latitude:       req.Latitude,
			Longitude:      req.Longitude,
			ScannedAt:      now,
			CreatedAt:      now,
		}

		_, err = db.Exec(`
			INSERT INTO qr_scan_logs (id, company_id, bin_tag_id, scanned_by, scanned_by_name,
				scanned_by_email, property_name, unit_number, barcode, latitude, longitude,
				scanned_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		`, scanLog.ID, scanLog.CompanyID, scanLog.BinTagID, scanLog.ScannedBy, scanLog.ScannedByName,
			scanLog.ScannedByEmail, scanLog.PropertyName, scanLog.UnitNumber, scanLog.Barcode,
			scanLog.Latitude, scanLog.Longitude, now)
		if err != nil {
			log.Printf("❌ Failed to insert scan log: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to record scan")
			return
		}

		_, err = db.Exec(`
			UPDATE bin_tags
			SET scan_count = scan_count + 1, last_scanned_at = $1, last_scanned_by = $2, updated_at = $1
			WHERE id = $3
		`, now, actor.ID, tag.ID)
		if err != nil {
			log.Printf("❌ Failed to update tag counters: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update tag")
			return
		}

		// Route-checkpoint scans log a checkpoint visit; every other tag
		// type counts as a reported violation with recycle set.
		status := models.RecycleStatusViolation
		recycle := true
		if tag.TagType == models.TagTypeRouteCheckpoint {
			status = models.RecycleStatusRouteCheckpoint
			recycle = false
		}

		_, err = db.Exec(`
			INSERT INTO recycle_reports (id, company_id, property_id, property_address,
				scan_date, recycle, contaminated, status, scanned_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $8, $5)
		`, uuid.New().String(), companyID, tag.PropertyID, tag.PropertyAddress,
			now, recycle, status, actor.ID)
		if err != nil {
			log.Printf("❌ Failed to insert recycle report: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to record recycle report")
			return
		}

		if status == models.RecycleStatusViolation && alerts != nil {
			go notifyPropertyManager(db, alerts, tag)
		}

		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Scan recorded",
			"data":    scanLog.ToQrScanLogResponse(tag.TagType),
		})
	}
}

// resolveCompany returns the caller's tenant, deriving it from the first
// assigned property when the user record carries no company (legacy
// employee accounts).
func resolveCompany(db *sqlx.DB, userID, claimCompanyID string) (string, error) {
	if claimCompanyID != "" {
		return claimCompanyID, nil
	}

	var companyID string
	err := db.Get(&companyID, `
		SELECT p.company_id
		FROM user_properties up
		JOIN properties p ON p.id = up.property_id
		WHERE up.user_id = $1
		LIMIT 1
	`, userID)
	if err != nil {
		return "", err
	}
	return companyID, nil
}

// notifyPropertyManager pushes a violation alert to the property's
// manager, best effort.
func notifyPropertyManager(db *sqlx.DB, alerts *services.AlertService, tag models.BinTag) {
	var tokens []string
	err := db.Select(&tokens, `
		SELECT ft.token
		FROM fcm_tokens ft
		JOIN properties p ON p.property_manager_id = ft.user_id
		WHERE p.id = $1
	`, tag.PropertyID)
	if err != nil {
		log.Printf("⚠️  Failed to load manager tokens: %v", err)
		return
	}

	for _, token := range tokens {
		if err := alerts.SendViolationScanAlert(token, tag.PropertyName, tag.UnitNumber); err != nil {
			log.Printf("⚠️  Violation alert failed: %v", err)
		}
	}
}

// GetQrScanLogs lists scan logs newest first, scope filtered.
func GetQrScanLogs(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		page := utils.ParsePagination(r)

		if scope.Empty() {
			utils.Success(w, utils.NewPagedResponse(page, 0, []models.QrScanLog{}))
			return
		}

		var a qargs
		where := "l.company_id = " + a.bind(caller.CompanyID)
		if !scope.Unrestricted {
			where += " AND t.property_id = ANY(" + a.bind(pq.Array(scope.PropertyIDs)) + ")"
		}
		if propertyID := r.URL.Query().Get("propertyId"); propertyID != "" {
			if !checkScopedProperty(scope, propertyID, w) {
				return
			}
			where += " AND t.property_id = " + a.bind(propertyID)
		}

		var total int
		err := db.Get(&total, `
			SELECT COUNT(*) FROM qr_scan_logs l
			JOIN bin_tags t ON t.id = l.bin_tag_id
			WHERE `+where, a...)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to count scan logs")
			return
		}

		query := `
			SELECT l.* FROM qr_scan_logs l
			JOIN bin_tags t ON t.id = l.bin_tag_id
			WHERE ` + where + `
			ORDER BY l.scanned_at DESC
			LIMIT ` + a.bind(page.Limit) + ` OFFSET ` + a.bind(page.Offset())

		logRows := []models.QrScanLog{}
		if err := db.Select(&logRows, query, a...); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch scan logs")
			return
		}

		utils.Success(w, utils.NewPagedResponse(page, total, logRows))
	}
}

type registerFCMTokenRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"device_type"`
}

// RegisterFCMToken stores a device push token for the caller.
func RegisterFCMToken(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requestCaller(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req registerFCMTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Token == "" || (req.DeviceType != "ios" && req.DeviceType != "android") {
			utils.RespondError(w, http.StatusBadRequest, "Token and a valid device_type are required")
			return
		}

		now := time.Now().Unix()
		_, err := db.Exec(`
			INSERT INTO fcm_tokens (user_id, token, device_type, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
			ON CONFLICT (token) DO UPDATE SET user_id = $1, updated_at = $4
		`, caller.UserID, req.Token, req.DeviceType, now)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to register token")
			return
		}

		utils.Success(w, map[string]interface{}{"success": true})
	}
}
