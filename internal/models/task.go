package models

// Task status values (mirrored into task_logs on every transition).
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

type Task struct {
	ID          string  `json:"id" db:"id"`
	CompanyID   string  `json:"company_id" db:"company_id"`
	PropertyID  string  `json:"property_id" db:"property_id"`
	Title       string  `json:"title" db:"title"`
	Description string  `json:"description" db:"description"`
	AssignedTo  *string `json:"assigned_to,omitempty" db:"assigned_to"`
	Status      string  `json:"status" db:"status"`
	DueDate     *int64  `json:"due_date,omitempty" db:"due_date"`
	CreatedAt   int64   `json:"created_at" db:"created_at"`
	UpdatedAt   int64   `json:"updated_at" db:"updated_at"`
}

type TaskLog struct {
	ID       string `json:"id" db:"id"`
	TaskID   string `json:"task_id" db:"task_id"`
	Status   string `json:"status" db:"status"`
	Note     string `json:"note" db:"note"`
	LoggedBy string `json:"logged_by" db:"logged_by"`
	LoggedAt int64  `json:"logged_at" db:"logged_at"`
}
