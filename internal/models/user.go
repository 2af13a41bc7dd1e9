package models

// User roles. Every request reaching the core carries exactly one of these.
const (
	RoleSuperAdmin      = "super_admin"
	RoleAdmin           = "admin"
	RolePropertyManager = "property_manager"
	RoleEmployee        = "employee"
)

type User struct {
	ID        string  `json:"id" db:"id"`
	CompanyID *string `json:"company_id,omitempty" db:"company_id"`
	Email     string  `json:"email" db:"email"`
	Password  string  `json:"-" db:"password"` // Never return password in JSON
	Name      string  `json:"name" db:"name"`
	Role      string  `json:"role" db:"role"`
	Phone     *string `json:"phone,omitempty" db:"phone"`
	// Legacy single-property assignment, superseded by user_properties rows.
	PropertyID *string `json:"property_id,omitempty" db:"property_id"`
	IsDeleted  bool    `json:"is_deleted" db:"is_deleted"`
	CreatedAt  int64   `json:"created_at" db:"created_at"`
	UpdatedAt  int64   `json:"updated_at" db:"updated_at"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	CompanyID *string `json:"company_id,omitempty"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	CreatedAt int64   `json:"created_at"`
}

func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
