package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"bintrack-backend/internal/models"
	"bintrack-backend/internal/services"
	"bintrack-backend/internal/tags"
	"bintrack-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

// qargs collects positional query arguments and hands out $n placeholders.
type qargs []interface{}

func (a *qargs) bind(v interface{}) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// tagFilter is the listing filter, shared by List and selectAll bulk
// delete so both always agree on what "matching" means.
type tagFilter struct {
	companyID  string
	propertyID string
	tagType    string
	status     string
	search     string
}

func (f tagFilter) where(a *qargs) string {
	clauses := []string{
		"company_id = " + a.bind(f.companyID),
		"is_deleted = FALSE",
	}
	if f.propertyID != "" {
		clauses = append(clauses, "property_id = "+a.bind(f.propertyID))
	}
	if f.tagType != "" {
		clauses = append(clauses, "tag_type = "+a.bind(f.tagType))
	}
	if f.status != "" {
		clauses = append(clauses, "status = "+a.bind(f.status))
	}
	if f.search != "" {
		pattern := a.bind("%" + f.search + "%")
		clauses = append(clauses, "(unit_number ILIKE "+pattern+" OR barcode ILIKE "+pattern+")")
	}
	return strings.Join(clauses, " AND ")
}

// listStatusParam resolves the three mutually exclusive status-selection
// strategies: explicit status wins, then the select=active|inactive
// shorthand, and selectAll=true suppresses both.
func listStatusParam(status, selectParam string, selectAll bool) string {
	if selectAll {
		return ""
	}
	if status != "" {
		return strings.ToLower(status)
	}
	switch strings.ToLower(selectParam) {
	case "active":
		return models.TagStatusActive
	case "inactive":
		return models.TagStatusInactive
	}
	return ""
}

// GetBinTags lists tags with pagination plus active/inactive counters
// computed against the same filter minus the status constraint.
func GetBinTags(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		q := r.URL.Query()
		propertyID := q.Get("propertyId")
		if !checkScopedProperty(scope, propertyID, w) {
			return
		}

		page := utils.ParsePagination(r)

		if scope.Empty() {
			utils.Success(w, map[string]interface{}{
				"page": page.Page, "limit": page.Limit,
				"totalRecords": 0, "totalPages": 0,
				"activeCount": 0, "inactiveCount": 0,
				"data": []models.BinTagResponse{},
			})
			return
		}

		tagType := ""
		if raw := q.Get("type"); raw != "" {
			normalized, err := tags.NormalizeType(raw)
			if err != nil {
				utils.RespondError(w, http.StatusBadRequest, err.Error())
				return
			}
			tagType = normalized
		}

		filter := tagFilter{
			companyID:  caller.CompanyID,
			propertyID: propertyID,
			tagType:    tagType,
			status:     listStatusParam(q.Get("status"), q.Get("select"), q.Get("selectAll") == "true"),
			search:     strings.TrimSpace(q.Get("search")),
		}

		scopeClause := func(a *qargs) string {
			if scope.Unrestricted {
				return ""
			}
			return " AND property_id = ANY(" + a.bind(pq.Array(scope.PropertyIDs)) + ")"
		}

		// The page query, the total and the two status counters are
		// read-only and independent, so they run as one fan-out batch.
		var (
			tagRows       []models.BinTag
			total         int
			activeCount   int
			inactiveCount int
		)

		g := new(errgroup.Group)

		g.Go(func() error {
			var a qargs
			where := filter.where(&a) + scopeClause(&a)
			query := fmt.Sprintf(`
				SELECT * FROM bin_tags WHERE %s
				ORDER BY created_at DESC
				LIMIT %s OFFSET %s
			`, where, a.bind(page.Limit), a.bind(page.Offset()))
			return db.Select(&tagRows, query, a...)
		})

		g.Go(func() error {
			var a qargs
			where := filter.where(&a) + scopeClause(&a)
			return db.Get(&total, "SELECT COUNT(*) FROM bin_tags WHERE "+where, a...)
		})

		counterFilter := filter
		counterFilter.status = ""
		for _, counter := range []struct {
			status string
			dest   *int
		}{
			{models.TagStatusActive, &activeCount},
			{models.TagStatusInactive, &inactiveCount},
		} {
			counter := counter
			g.Go(func() error {
				var a qargs
				where := counterFilter.where(&a) + scopeClause(&a)
				where += " AND status = " + a.bind(counter.status)
				return db.Get(counter.dest, "SELECT COUNT(*) FROM bin_tags WHERE "+where, a...)
			})
		}

		if err := g.Wait(); err != nil {
			log.Printf("❌ Failed to list bin tags: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch bin tags")
			return
		}

		data := make([]models.BinTagResponse, len(tagRows))
		for i, tag := range tagRows {
			data[i] = tag.ToBinTagResponse(nil)
		}

		utils.Success(w, map[string]interface{}{
			"page":          page.Page,
			"limit":         page.Limit,
			"totalRecords":  total,
			"totalPages":    page.TotalPages(total),
			"activeCount":   activeCount,
			"inactiveCount": inactiveCount,
			"data":          data,
		})
	}
}

// CreateBinTag creates a standalone tag with a generated QR artifact.
func CreateBinTag(db *sqlx.DB, qr *services.QRService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requestCaller(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req models.CreateBinTagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		unitNumber := strings.ToUpper(strings.TrimSpace(req.UnitNumber))
		if unitNumber == "" && len(req.Units) > 0 {
			unitNumber = strings.ToUpper(strings.TrimSpace(req.Units[0]))
		}

		if req.PropertyID == "" || unitNumber == "" || strings.TrimSpace(req.Barcode) == "" {
			utils.RespondError(w, http.StatusBadRequest, "Property, unit number, and barcode are required")
			return
		}

		tagType, err := tags.NormalizeType(req.TagType)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		var property models.Property
		err = db.Get(&property, `
			SELECT * FROM properties
			WHERE id = $1 AND company_id = $2 AND is_deleted = FALSE
		`, req.PropertyID, caller.CompanyID)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Property not found")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		var duplicates int
		err = db.Get(&duplicates, `
			SELECT COUNT(*) FROM bin_tags WHERE company_id = $1 AND barcode = $2
		`, caller.CompanyID, req.Barcode)
		if err == nil && duplicates > 0 {
			utils.RespondError(w, http.StatusConflict, "A tag with this barcode already exists")
			return
		}

		var buildingName *string
		if req.BuildingID != nil {
			var building models.Building
			err := db.Get(&building, `
				SELECT * FROM buildings WHERE id = $1 AND property_id = $2
			`, *req.BuildingID, req.PropertyID)
			if err != nil {
				utils.RespondError(w, http.StatusBadRequest, "Unknown building for this property")
				return
			}
			buildingName = &building.Name
		}

		qrURL, err := qr.Generate(r.Context(), caller.CompanyID, req.Barcode)
		if err != nil {
			log.Printf("❌ QR generation failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to generate QR image")
			return
		}

		now := time.Now().Unix()
		tag := models.BinTag{
			ID:              uuid.New().String(),
			CompanyID:       caller.CompanyID,
			PropertyID:      property.ID,
			PropertyName:    property.Name,
			PropertyAddress: property.Address,
			BuildingID:      req.BuildingID,
			BuildingName:    buildingName,
			UnitNumber:      unitNumber,
			Barcode:         req.Barcode,
			QRImageURL:      qrURL,
			TagType:         tagType,
			Status:          models.TagStatusActive,
			CreatedBy:       &caller.UserID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		_, err = db.Exec(`
			INSERT INTO bin_tags (id, company_id, property_id, property_name, property_address,
				building_id, building_name, unit_number, barcode, qr_image_url,
				tag_type, status, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		`, tag.ID, tag.CompanyID, tag.PropertyID, tag.PropertyName, tag.PropertyAddress,
			tag.BuildingID, tag.BuildingName, tag.UnitNumber, tag.Barcode, tag.QRImageURL,
			tag.TagType, tag.Status, caller.UserID, now)
		if err != nil {
			// Unique constraint races still land here.
			if strings.Contains(err.Error(), "duplicate key") {
				utils.RespondError(w, http.StatusConflict, "A tag with this barcode already exists")
				return
			}
			log.Printf("❌ Failed to create bin tag: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create bin tag")
			return
		}

		units := req.Units
		for _, unit := range units {
			unit = strings.ToUpper(strings.TrimSpace(unit))
			if unit == "" {
				continue
			}
			if _, err := db.Exec(`
				INSERT INTO bin_tag_units (bin_tag_id, unit_number) VALUES ($1, $2)
			`, tag.ID, unit); err != nil {
				utils.RespondError(w, http.StatusInternalServerError, "Failed to record unit entries")
				return
			}
		}

		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"data":    tag.ToBinTagResponse(units),
		})
	}
}

// UpdateBinTag updates the restricted mutable field set of a tag.
func UpdateBinTag(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requestCaller(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			utils.RespondError(w, http.StatusBadRequest, "Bad Request")
			return
		}

		var req models.UpdateBinTagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var existing models.BinTag
		err := db.Get(&existing, `
			SELECT * FROM bin_tags WHERE id = $1 AND company_id = $2 AND is_deleted = FALSE
		`, id, caller.CompanyID)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Bin tag not found")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		var a qargs
		var sets []string

		if req.TagType != nil {
			normalized, err := tags.NormalizeType(*req.TagType)
			if err != nil {
				utils.RespondError(w, http.StatusBadRequest, err.Error())
				return
			}
			sets = append(sets, "tag_type = "+a.bind(normalized))
		}
		if req.Status != nil {
			status := strings.ToLower(*req.Status)
			if status != models.TagStatusActive && status != models.TagStatusInactive {
				utils.RespondError(w, http.StatusBadRequest, "Status must be 'active' or 'inactive'")
				return
			}
			sets = append(sets, "status = "+a.bind(status))
		}

		unitNumber := ""
		if req.UnitNumber != nil {
			unitNumber = strings.ToUpper(strings.TrimSpace(*req.UnitNumber))
		}
		// A units list mirrors its first entry onto the top-level unit
		// number for older clients.
		if len(req.Units) > 0 {
			unitNumber = strings.ToUpper(strings.TrimSpace(req.Units[0]))
		}
		if unitNumber != "" {
			sets = append(sets, "unit_number = "+a.bind(unitNumber))
		}

		if len(sets) == 0 {
			utils.RespondError(w, http.StatusBadRequest, "Nothing to update")
			return
		}

		sets = append(sets, "updated_at = "+a.bind(time.Now().Unix()))
		query := "UPDATE bin_tags SET " + strings.Join(sets, ", ") +
			" WHERE id = " + a.bind(id)

		if _, err := db.Exec(query, a...); err != nil {
			log.Printf("❌ Failed to update bin tag: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update bin tag")
			return
		}

		if len(req.Units) > 0 {
			if _, err := db.Exec(`DELETE FROM bin_tag_units WHERE bin_tag_id = $1`, id); err != nil {
				utils.RespondError(w, http.StatusInternalServerError, "Failed to update unit entries")
				return
			}
			for _, unit := range req.Units {
				unit = strings.ToUpper(strings.TrimSpace(unit))
				if unit == "" {
					continue
				}
				if _, err := db.Exec(`
					INSERT INTO bin_tag_units (bin_tag_id, unit_number) VALUES ($1, $2)
				`, id, unit); err != nil {
					utils.RespondError(w, http.StatusInternalServerError, "Failed to update unit entries")
					return
				}
			}
		}

		var updated models.BinTag
		if err := db.Get(&updated, "SELECT * FROM bin_tags WHERE id = $1", id); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch updated tag")
			return
		}

		utils.Success(w, map[string]interface{}{
			"success": true,
			"data":    updated.ToBinTagResponse(req.Units),
		})
	}
}

type tagStatusRequest struct {
	Status *string `json:"status,omitempty"`
}

// SetBinTagStatus sets an explicit status or, absent one, flips the
// current value.
func SetBinTagStatus(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requestCaller(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")

		var req tagStatusRequest
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&req)
		}

		var existing models.BinTag
		err := db.Get(&existing, `
			SELECT * FROM bin_tags WHERE id = $1 AND company_id = $2 AND is_deleted = FALSE
		`, id, caller.CompanyID)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Bin tag not found")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		newStatus := models.TagStatusActive
		if existing.Status == models.TagStatusActive {
			newStatus = models.TagStatusInactive
		}
		if req.Status != nil {
			explicit := strings.ToLower(*req.Status)
			if explicit != models.TagStatusActive && explicit != models.TagStatusInactive {
				utils.RespondError(w, http.StatusBadRequest, "Status must be 'active' or 'inactive'")
				return
			}
			newStatus = explicit
		}

		_, err = db.Exec(`
			UPDATE bin_tags SET status = $1, updated_at = $2 WHERE id = $3
		`, newStatus, time.Now().Unix(), id)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update status")
			return
		}

		utils.Success(w, map[string]interface{}{
			"success": true,
			"status":  newStatus,
		})
	}
}

// DeleteBinTag soft-deletes a single tag.
func DeleteBinTag(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requestCaller(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")

		result, err := db.Exec(`
			UPDATE bin_tags SET is_deleted = TRUE, updated_at = $1
			WHERE id = $2 AND company_id = $3 AND is_deleted = FALSE
		`, time.Now().Unix(), id, caller.CompanyID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete bin tag")
			return
		}

		rows, err := result.RowsAffected()
		if err != nil || rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Bin tag not found")
			return
		}

		utils.Success(w, map[string]interface{}{"success": true})
	}
}

// BulkDeleteBinTags soft-deletes by explicit id list or, with
// selectAll=true, by re-deriving the listing filter. One UPDATE statement
// covers the whole batch; matched and modified are reported separately
// because an already-deleted tag matches without being modified.
func BulkDeleteBinTags(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		var req models.BulkDeleteBinTagsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if !req.SelectAll && len(req.IDs) == 0 {
			utils.RespondError(w, http.StatusBadRequest, "Provide ids or selectAll=true")
			return
		}
		if !checkScopedProperty(scope, req.PropertyID, w) {
			return
		}

		var matched, modified int64

		if req.SelectAll {
			tagType := ""
			if req.TagType != "" {
				normalized, err := tags.NormalizeType(req.TagType)
				if err != nil {
					utils.RespondError(w, http.StatusBadRequest, err.Error())
					return
				}
				tagType = normalized
			}

			filter := tagFilter{
				companyID:  caller.CompanyID,
				propertyID: req.PropertyID,
				tagType:    tagType,
				status:     strings.ToLower(req.Status),
				search:     strings.TrimSpace(req.Search),
			}

			var a qargs
			where := filter.where(&a)
			if !scope.Unrestricted {
				where += " AND property_id = ANY(" + a.bind(pq.Array(scope.PropertyIDs)) + ")"
			}

			var count int
			if err := db.Get(&count, "SELECT COUNT(*) FROM bin_tags WHERE "+where, a...); err != nil {
				utils.RespondError(w, http.StatusInternalServerError, "Failed to count matching tags")
				return
			}
			matched = int64(count)

			a = append(a, time.Now().Unix())
			query := fmt.Sprintf(
				"UPDATE bin_tags SET is_deleted = TRUE, updated_at = $%d WHERE %s",
				len(a), where)
			result, err := db.Exec(query, a...)
			if err != nil {
				utils.RespondError(w, http.StatusInternalServerError, "Failed to delete bin tags")
				return
			}
			modified, _ = result.RowsAffected()
		} else {
			var count int
			err := db.Get(&count, `
				SELECT COUNT(*) FROM bin_tags WHERE company_id = $1 AND id = ANY($2)
			`, caller.CompanyID, pq.Array(req.IDs))
			if err != nil {
				utils.RespondError(w, http.StatusInternalServerError, "Failed to count matching tags")
				return
			}
			matched = int64(count)

			result, err := db.Exec(`
				UPDATE bin_tags SET is_deleted = TRUE, updated_at = $1
				WHERE company_id = $2 AND id = ANY($3) AND is_deleted = FALSE
			`, time.Now().Unix(), caller.CompanyID, pq.Array(req.IDs))
			if err != nil {
				utils.RespondError(w, http.StatusInternalServerError, "Failed to delete bin tags")
				return
			}
			modified, _ = result.RowsAffected()
		}

		log.Printf("🗑️  Bulk delete: matched=%d modified=%d", matched, modified)

		utils.Success(w, map[string]interface{}{
			"success":  true,
			"matched":  matched,
			"modified": modified,
		})
	}
}

type scanTagRequest struct {
	Barcode string `json:"barcode"`
}

// ScanBinTag is the simplified mobile scan path directly on the tag:
// counter, timestamp and actor update, no scan log row.
func ScanBinTag(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requestCaller(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req scanTagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Barcode) == "" {
			utils.RespondError(w, http.StatusBadRequest, "Barcode is required")
			return
		}

		var tag models.BinTag
		err := db.Get(&tag, `
			SELECT * FROM bin_tags
			WHERE barcode = $1 AND company_id = $2 AND status = 'active' AND is_deleted = FALSE
		`, req.Barcode, caller.CompanyID)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Invalid or inactive QR code")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		now := time.Now().Unix()
		// Atomic increment at the store; no read-modify-write.
		_, err = db.Exec(`
			UPDATE bin_tags
			SET scan_count = scan_count + 1, last_scanned_at = $1, last_scanned_by = $2, updated_at = $1
			WHERE id = $3
		`, now, caller.UserID, tag.ID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to record scan")
			return
		}

		tag.ScanCount++
		tag.LastScannedAt = &now
		tag.LastScannedBy = &caller.UserID

		utils.Success(w, map[string]interface{}{
			"message": "Scan recorded",
			"data":    tag.ToBinTagResponse(nil),
		})
	}
}
