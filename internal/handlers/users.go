package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"bintrack-backend/internal/models"
	"bintrack-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Phone       string   `json:"phone,omitempty"`
	PropertyIDs []string `json:"property_ids,omitempty"`
}

type CreateUserResponse struct {
	Success bool                 `json:"success"`
	User    *models.UserResponse `json:"user,omitempty"`
	Message string               `json:"message,omitempty"`
}

// CreateUser creates a manager or employee inside the caller's company,
// with optional property assignments. Requires admin authentication.
func CreateUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requestCaller(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Email == "" || req.Password == "" || req.Name == "" || req.Role == "" {
			utils.RespondError(w, http.StatusBadRequest, "Email, password, name, and role are required")
			return
		}

		validRoles := map[string]bool{
			models.RoleAdmin:           true,
			models.RolePropertyManager: true,
			models.RoleEmployee:        true,
		}
		if !validRoles[req.Role] {
			utils.RespondError(w, http.StatusBadRequest, "Role must be 'admin', 'property_manager', or 'employee'")
			return
		}

		var existingID string
		err := db.Get(&existingID, "SELECT id FROM users WHERE email = $1", req.Email)
		if err == nil {
			utils.RespondError(w, http.StatusConflict, "User with this email already exists")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		// Assigned properties must belong to the caller's company.
		for _, propertyID := range req.PropertyIDs {
			var count int
			err := db.Get(&count, `
				SELECT COUNT(*) FROM properties
				WHERE id = $1 AND company_id = $2 AND is_deleted = FALSE
			`, propertyID, caller.CompanyID)
			if err != nil || count == 0 {
				utils.RespondError(w, http.StatusBadRequest, "Unknown property in assignment list")
				return
			}
		}

		now := time.Now().Unix()
		user := models.User{
			ID:        uuid.New().String(),
			CompanyID: &caller.CompanyID,
			Email:     req.Email,
			Name:      req.Name,
			Role:      req.Role,
			CreatedAt: now,
			UpdatedAt: now,
		}

		var phone *string
		if req.Phone != "" {
			phone = &req.Phone
		}

		_, err = db.Exec(`
			INSERT INTO users (id, company_id, email, password, name, role, phone, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		`, user.ID, caller.CompanyID, req.Email, string(hashedPassword), req.Name, req.Role, phone, now)
		if err != nil {
			log.Printf("❌ Failed to create user: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		for _, propertyID := range req.PropertyIDs {
			_, err := db.Exec(`
				INSERT INTO user_properties (user_id, property_id) VALUES ($1, $2)
			`, user.ID, propertyID)
			if err != nil {
				log.Printf("❌ Failed to assign property %s: %v", propertyID, err)
				utils.RespondError(w, http.StatusInternalServerError, "Failed to assign properties")
				return
			}
		}

		log.Printf("✅ User created: %s (%s)", user.Email, user.Role)

		userResp := user.ToUserResponse()
		utils.RespondJSON(w, http.StatusCreated, CreateUserResponse{
			Success: true,
			User:    &userResp,
		})
	}
}
