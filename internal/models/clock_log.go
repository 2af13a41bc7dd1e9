package models

import "time"

// EmployeeClockLog is a straight clock-in/out record for payroll reporting.
type EmployeeClockLog struct {
	ID         string `json:"id" db:"id"`
	CompanyID  string `json:"company_id" db:"company_id"`
	EmployeeID string `json:"employee_id" db:"employee_id"`
	ClockIn    int64  `json:"clock_in" db:"clock_in"`
	ClockOut   *int64 `json:"clock_out,omitempty" db:"clock_out"`
	CreatedAt  int64  `json:"created_at" db:"created_at"`
}

// PropertyCheckLog records an employee arriving at (and later leaving) a
// property, driven by scanning the property's barcode.
type PropertyCheckLog struct {
	ID         string `json:"id" db:"id"`
	CompanyID  string `json:"company_id" db:"company_id"`
	PropertyID string `json:"property_id" db:"property_id"`
	EmployeeID string `json:"employee_id" db:"employee_id"`
	Barcode    string `json:"barcode" db:"barcode"`
	CheckIn    int64  `json:"check_in" db:"check_in"`
	CheckOut   *int64 `json:"check_out,omitempty" db:"check_out"`
	CreatedAt  int64  `json:"created_at" db:"created_at"`
}

type PropertyCheckLogResponse struct {
	ID          string  `json:"id"`
	PropertyID  string  `json:"property_id"`
	EmployeeID  string  `json:"employee_id"`
	Barcode     string  `json:"barcode"`
	CheckInIso  string  `json:"checkInIso"`
	CheckOutIso *string `json:"checkOutIso,omitempty"`
}

func (pcl *PropertyCheckLog) ToPropertyCheckLogResponse() PropertyCheckLogResponse {
	resp := PropertyCheckLogResponse{
		ID:         pcl.ID,
		PropertyID: pcl.PropertyID,
		EmployeeID: pcl.EmployeeID,
		Barcode:    pcl.Barcode,
		CheckInIso: time.Unix(pcl.CheckIn, 0).UTC().Format(time.RFC3339),
	}

	if pcl.CheckOut != nil {
		iso := time.Unix(*pcl.CheckOut, 0).UTC().Format(time.RFC3339)
		resp.CheckOutIso = &iso
	}

	return resp
}
