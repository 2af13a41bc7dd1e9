package handlers

import (
	"encoding/json"
	"fmt"
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

// UnitTagNumber derives the auto-generated unit number for the unit at the
// given building/unit position (both zero-based).
func UnitTagNumber(buildingIdx, unitIdx int) string {
	return fmt.Sprintf("B%d-U%d", buildingIdx+1, unitIdx+1)
}

// UnitTagBarcode derives the auto-generated barcode for a unit tag from the
// property id's last four characters and the unit's position.
func UnitTagBarcode(propertyID string, buildingIdx, unitIdx int) string {
	last4 := propertyID
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	return fmt.Sprintf("BIN-%s-%d-%d", last4, buildingIdx+1, unitIdx+1)
}

// CreateProperty creates a property with its declared buildings, and
// auto-creates one unit tag per declared unit in a single batch insert.
func CreateProperty(db *sqlx.DB, qr *services.QRService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requestCaller(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req models.CreatePropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Address) == "" {
			utils.RespondError(w, http.StatusBadRequest, "Name and address are required")
			return
		}

		var nameCount int
		err := db.Get(&nameCount, `
			SELECT COUNT(*) FROM properties
			WHERE company_id = $1 AND name = $2 AND is_deleted = FALSE
		`, caller.CompanyID, req.Name)
		if err == nil && nameCount > 0 {
			utils.RespondError(w, http.StatusConflict, "A property with this name already exists")
			return
		}

		now := time.Now().Unix()
		propertyID := uuid.New().String()

		_, err = db.Exec(`
			INSERT INTO properties (id, company_id, name, address, property_manager_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
		`, propertyID, caller.CompanyID, req.Name, req.Address, req.PropertyManagerID, now)
		if err != nil {
			log.Printf("❌ Failed to create property: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create property")
			return
		}

		type newTag struct {
			id           string
			buildingID   string
			buildingName string
			unitNumber   string
			barcode      string
			qrURL        string
			unitLabel    string
		}
		var tags []newTag

		for bi, building := range req.Buildings {
			buildingID := uuid.New().String()
			_, err := db.Exec(`
				INSERT INTO buildings (id, property_id, name, sort_order, address, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, buildingID, propertyID, building.Name, bi, building.Address, now)
			if err != nil {
				log.Printf("❌ Failed to create building: %v", err)
				utils.RespondError(w, http.StatusInternalServerError, "Failed to create buildings")
				return
			}

			for ui, unitLabel := range building.Units {
				barcode := UnitTagBarcode(propertyID, bi, ui)
				qrURL, err := qr.Generate(r.Context(), caller.CompanyID, barcode)
				if err != nil {
					log.Printf("❌ Failed to generate QR for %s: %v", barcode, err)
					utils.RespondError(w, http.StatusInternalServerError, "Failed to generate QR images")
					return
				}

				tags = append(tags, newTag{
					id:           uuid.New().String(),
					buildingID:   buildingID,
					buildingName: building.Name,
					unitNumber:   UnitTagNumber(bi, ui),
					barcode:      barcode,
					qrURL:        qrURL,
					unitLabel:    strings.ToUpper(strings.TrimSpace(unitLabel)),
				})
			}
		}

		// One multi-row insert for the whole tag batch.
		if len(tags) > 0 {
			var values []string
			var tagArgs []interface{}
			n := 1
			for _, tag := range tags {
				values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
					n, n+1, n+2, n+3, n+4, n+5, n+6, n+7, n+8, n+9, n+10, n+11, n+12, n+13))
				tagArgs = append(tagArgs,
					tag.id, caller.CompanyID, propertyID, req.Name, req.Address,
					tag.buildingID, tag.buildingName, tag.unitNumber, tag.barcode,
					tag.qrURL, models.TagTypeUnit, models.TagStatusActive, caller.UserID, now)
				n += 14
			}

			query := `
				INSERT INTO bin_tags (id, company_id, property_id, property_name, property_address,
					building_id, building_name, unit_number, barcode, qr_image_url,
					tag_type, status, created_by, created_at)
				VALUES ` + strings.Join(values, ", ")

			if _, err := db.Exec(query, tagArgs...); err != nil {
				log.Printf("❌ Failed to batch-create bin tags: %v", err)
				utils.RespondError(w, http.StatusInternalServerError, "Failed to create bin tags")
				return
			}

			for _, tag := range tags {
				if tag.unitLabel == "" {
					continue
				}
				_, err := db.Exec(`
					INSERT INTO bin_tag_units (bin_tag_id, unit_number) VALUES ($1, $2)
				`, tag.id, tag.unitLabel)
				if err != nil {
					log.Printf("❌ Failed to record unit entry: %v", err)
					utils.RespondError(w, http.StatusInternalServerError, "Failed to record unit entries")
					return
				}
			}
		}

		log.Printf("✅ Property created: %s (%d buildings, %d tags)", req.Name, len(req.Buildings), len(tags))

		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
			"success":     true,
			"property_id": propertyID,
			"tagsCreated": len(tags),
		})
	}
}

// GetProperties lists properties visible to the caller's scope.
func GetProperties(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		page := utils.ParsePagination(r)

		if scope.Empty() {
			utils.Success(w, utils.NewPagedResponse(page, 0, []models.Property{}))
			return
		}

		where := "company_id = $1 AND is_deleted = FALSE"
		queryArgs := []interface{}{caller.CompanyID}
		if !scope.Unrestricted {
			where += " AND id = ANY($2)"
			queryArgs = append(queryArgs, pq.Array(scope.PropertyIDs))
		}

		var total int
		if err := db.Get(&total, "SELECT COUNT(*) FROM properties WHERE "+where, queryArgs...); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to count properties")
			return
		}

		queryArgs = append(queryArgs, page.Limit, page.Offset())
		query := fmt.Sprintf(`
			SELECT * FROM properties WHERE %s
			ORDER BY name ASC
			LIMIT $%d OFFSET $%d
		`, where, len(queryArgs)-1, len(queryArgs))

		properties := []models.Property{}
		if err := db.Select(&properties, query, queryArgs...); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch properties")
			return
		}

		utils.Success(w, utils.NewPagedResponse(page, total, properties))
	}
}
