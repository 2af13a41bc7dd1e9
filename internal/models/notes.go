package models

// Thin operational entities. They exist mainly to feed the dashboard
// counters and their own listing endpoints.

type Violation struct {
	ID          string `json:"id" db:"id"`
	CompanyID   string `json:"company_id" db:"company_id"`
	PropertyID  string `json:"property_id" db:"property_id"`
	UnitNumber  string `json:"unit_number" db:"unit_number"`
	Description string `json:"description" db:"description"`
	Status      string `json:"status" db:"status"`
	CreatedBy   string `json:"created_by" db:"created_by"`
	CreatedAt   int64  `json:"created_at" db:"created_at"`
}

type ServiceNote struct {
	ID         string `json:"id" db:"id"`
	CompanyID  string `json:"company_id" db:"company_id"`
	PropertyID string `json:"property_id" db:"property_id"`
	UnitNumber string `json:"unit_number" db:"unit_number"`
	Subject    string `json:"subject" db:"subject"`
	Note       string `json:"note" db:"note"`
	CreatedBy  string `json:"created_by" db:"created_by"`
	CreatedAt  int64  `json:"created_at" db:"created_at"`
}

// Schedule status values.
const (
	ScheduleStatusScheduled = "scheduled"
	ScheduleStatusCompleted = "completed"
	ScheduleStatusCancelled = "cancelled"
)

type Schedule struct {
	ID           string `json:"id" db:"id"`
	CompanyID    string `json:"company_id" db:"company_id"`
	PropertyID   string `json:"property_id" db:"property_id"`
	Title        string `json:"title" db:"title"`
	Status       string `json:"status" db:"status"`
	ScheduledFor int64  `json:"scheduled_for" db:"scheduled_for"`
	CreatedAt    int64  `json:"created_at" db:"created_at"`
}
