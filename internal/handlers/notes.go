package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"bintrack-backend/internal/models"
	"bintrack-backend/internal/services"
	"bintrack-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CreateViolation records a reported violation against a property unit.
func CreateViolation(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		var req struct {
			PropertyID  string `json:"property_id"`
			UnitNumber  string `json:"unit_number"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PropertyID == "" {
			utils.RespondError(w, http.StatusBadRequest, "property_id is required")
			return
		}
		if !checkScopedProperty(scope, req.PropertyID, w) {
			return
		}

		now := time.Now().Unix()
		violation := models.Violation{
			ID:          uuid.New().String(),
			CompanyID:   caller.CompanyID,
			PropertyID:  req.PropertyID,
			UnitNumber:  strings.ToUpper(strings.TrimSpace(req.UnitNumber)),
			Description: req.Description,
			Status:      "open",
			CreatedBy:   caller.UserID,
			CreatedAt:   now,
		}
		_, err := db.Exec(`
			INSERT INTO violations (id, company_id, property_id, unit_number, description, status, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, violation.ID, violation.CompanyID, violation.PropertyID, violation.UnitNumber,
			violation.Description, violation.Status, violation.CreatedBy, violation.CreatedAt)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create violation")
			return
		}

		utils.RespondJSON(w, http.StatusCreated, violation)
	}
}

// CreateServiceNote records a free-form note against a property unit.
func CreateServiceNote(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		var req struct {
			PropertyID string `json:"property_id"`
			UnitNumber string `json:"unit_number"`
			Subject    string `json:"subject"`
			Note       string `json:"note"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PropertyID == "" {
			utils.RespondError(w, http.StatusBadRequest, "property_id is required")
			return
		}
		if !checkScopedProperty(scope, req.PropertyID, w) {
			return
		}

		note := models.ServiceNote{
			ID:         uuid.New().String(),
			CompanyID:  caller.CompanyID,
			PropertyID: req.PropertyID,
			UnitNumber: strings.ToUpper(strings.TrimSpace(req.UnitNumber)),
			Subject:    req.Subject,
			Note:       req.Note,
			CreatedBy:  caller.UserID,
			CreatedAt:  time.Now().Unix(),
		}
		_, err := db.Exec(`
			INSERT INTO service_notes (id, company_id, property_id, unit_number, subject, note, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, note.ID, note.CompanyID, note.PropertyID, note.UnitNumber, note.Subject, note.Note,
			note.CreatedBy, note.CreatedAt)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create service note")
			return
		}

		utils.RespondJSON(w, http.StatusCreated, note)
	}
}

// CreateSchedule records a scheduled pickup/service for a property.
func CreateSchedule(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		var req struct {
			PropertyID   string `json:"property_id"`
			Title        string `json:"title"`
			ScheduledFor int64  `json:"scheduled_for"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PropertyID == "" {
			utils.RespondError(w, http.StatusBadRequest, "property_id is required")
			return
		}
		if !checkScopedProperty(scope, req.PropertyID, w) {
			return
		}
		if req.ScheduledFor == 0 {
			utils.RespondError(w, http.StatusBadRequest, "scheduled_for is required")
			return
		}

		schedule := models.Schedule{
			ID:           uuid.New().String(),
			CompanyID:    caller.CompanyID,
			PropertyID:   req.PropertyID,
			Title:        req.Title,
			Status:       models.ScheduleStatusScheduled,
			ScheduledFor: req.ScheduledFor,
			CreatedAt:    time.Now().Unix(),
		}
		_, err := db.Exec(`
			INSERT INTO schedules (id, company_id, property_id, title, status, scheduled_for, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, schedule.ID, schedule.CompanyID, schedule.PropertyID, schedule.Title, schedule.Status,
			schedule.ScheduledFor, schedule.CreatedAt)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create schedule")
			return
		}

		utils.RespondJSON(w, http.StatusCreated, schedule)
	}
}

// CreateTask creates a task, optionally assigned to an employee. Assignment
// triggers a best-effort push notification to the assignee's devices.
func CreateTask(db *sqlx.DB, alerts *services.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		var req struct {
			PropertyID  string  `json:"property_id"`
			Title       string  `json:"title"`
			Description string  `json:"description"`
			AssignedTo  *string `json:"assigned_to"`
			DueDate     *int64  `json:"due_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PropertyID == "" || req.Title == "" {
			utils.RespondError(w, http.StatusBadRequest, "property_id and title are required")
			return
		}
		if !checkScopedProperty(scope, req.PropertyID, w) {
			return
		}

		if req.AssignedTo != nil {
			var count int
			err := db.Get(&count, `SELECT COUNT(*) FROM users WHERE id = $1 AND company_id = $2`,
				*req.AssignedTo, caller.CompanyID)
			if err != nil || count == 0 {
				utils.RespondError(w, http.StatusBadRequest, "Assignee not found")
				return
			}
		}

		now := time.Now().Unix()
		task := models.Task{
			ID:          uuid.New().String(),
			CompanyID:   caller.CompanyID,
			PropertyID:  req.PropertyID,
			Title:       req.Title,
			Description: req.Description,
			AssignedTo:  req.AssignedTo,
			Status:      models.TaskStatusPending,
			DueDate:     req.DueDate,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		_, err := db.Exec(`
			INSERT INTO tasks (id, company_id, property_id, title, description, assigned_to, status, due_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, task.ID, task.CompanyID, task.PropertyID, task.Title, task.Description, task.AssignedTo,
			task.Status, task.DueDate, task.CreatedAt, task.UpdatedAt)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create task")
			return
		}

		if alerts != nil && task.AssignedTo != nil {
			go notifyTaskAssignee(db, alerts, *task.AssignedTo, task.ID, task.Title)
		}

		utils.RespondJSON(w, http.StatusCreated, task)
	}
}

// notifyTaskAssignee pushes a task-assigned notification to every registered
// device of the assignee. Failures are logged, never surfaced.
func notifyTaskAssignee(db *sqlx.DB, alerts *services.AlertService, userID, taskID, title string) {
	var tokens []string
	if err := db.Select(&tokens, `SELECT token FROM fcm_tokens WHERE user_id = $1`, userID); err != nil {
		log.Printf("⚠️  Failed to load FCM tokens for task alert: %v", err)
		return
	}
	for _, token := range tokens {
		if err := alerts.SendTaskAssignedNotification(token, taskID, title); err != nil {
			log.Printf("⚠️  Failed to send task alert: %v", err)
		}
	}
}

// CreateTaskLog appends a status transition to a task and mirrors the new
// status onto the task row.
func CreateTaskLog(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, scope, ok := resolveScope(db, w, r)
		if !ok {
			return
		}

		taskID := chi.URLParam(r, "id")

		var req struct {
			Status string `json:"status"`
			Note   string `json:"note"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		switch req.Status {
		case models.TaskStatusPending, models.TaskStatusInProgress, models.TaskStatusCompleted:
		default:
			utils.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}

		var task models.Task
		err := db.Get(&task, `SELECT * FROM tasks WHERE id = $1 AND company_id = $2`, taskID, caller.CompanyID)
		if err != nil {
			utils.RespondError(w, http.StatusNotFound, "Task not found")
			return
		}
		if !checkScopedProperty(scope, task.PropertyID, w) {
			return
		}

		now := time.Now().Unix()
		taskLog := models.TaskLog{
			ID:       uuid.New().String(),
			TaskID:   task.ID,
			Status:   req.Status,
			Note:     req.Note,
			LoggedBy: caller.UserID,
			LoggedAt: now,
		}
		_, err = db.Exec(`
			INSERT INTO task_logs (id, task_id, status, note, logged_by, logged_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, taskLog.ID, taskLog.TaskID, taskLog.Status, taskLog.Note, taskLog.LoggedBy, taskLog.LoggedAt)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create task log")
			return
		}

		if _, err := db.Exec(`UPDATE tasks SET status = $1, updated_at = $2 WHERE id = $3`,
			req.Status, now, task.ID); err != nil {
			log.Printf("⚠️  Task %s status not mirrored from log: %v", task.ID, err)
		}

		utils.RespondJSON(w, http.StatusCreated, taskLog)
	}
}
