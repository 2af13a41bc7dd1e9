package models

type Property struct {
	ID                string  `json:"id" db:"id"`
	CompanyID         string  `json:"company_id" db:"company_id"`
	Name              string  `json:"name" db:"name"`
	Address           string  `json:"address" db:"address"`
	PropertyManagerID *string `json:"property_manager_id,omitempty" db:"property_manager_id"`
	IsDeleted         bool    `json:"is_deleted" db:"is_deleted"`
	CreatedAt         int64   `json:"created_at" db:"created_at"`
	UpdatedAt         int64   `json:"updated_at" db:"updated_at"`
}

type Building struct {
	ID         string `json:"id" db:"id"`
	PropertyID string `json:"property_id" db:"property_id"`
	Name       string `json:"name" db:"name"`
	SortOrder  int    `json:"sort_order" db:"sort_order"`
	Address    string `json:"address" db:"address"`
	CreatedAt  int64  `json:"created_at" db:"created_at"`
}

// CreatePropertyRequest declares buildings and per-building unit counts up
// front; the registry auto-creates one unit tag per declared unit.
type CreatePropertyRequest struct {
	Name              string                  `json:"name"`
	Address           string                  `json:"address"`
	PropertyManagerID *string                 `json:"property_manager_id,omitempty"`
	Buildings         []CreateBuildingRequest `json:"buildings,omitempty"`
}

type CreateBuildingRequest struct {
	Name    string   `json:"name"`
	Address string   `json:"address,omitempty"`
	Units   []string `json:"units,omitempty"`
}
