package models

import "time"

// RecycleReport status values. These are display strings and must stay
// exactly as the reporting clients expect them.
const (
	RecycleStatusViolation       = "Violation Reported"
	RecycleStatusRouteCheckpoint = "Route Check Point"
)

// RecycleReport is a derived row created once per scan, classified by the
// scanned tag's type.
type RecycleReport struct {
	ID              string `json:"id" db:"id"`
	CompanyID       string `json:"company_id" db:"company_id"`
	PropertyID      string `json:"property_id" db:"property_id"`
	PropertyAddress string `json:"property_address" db:"property_address"`
	ScanDate        int64  `json:"scan_date" db:"scan_date"` // Unix timestamp
	Recycle         bool   `json:"recycle" db:"recycle"`
	Contaminated    bool   `json:"contaminated" db:"contaminated"`
	Status          string `json:"status" db:"status"`
	ScannedBy       string `json:"scanned_by" db:"scanned_by"`
	CreatedAt       int64  `json:"created_at" db:"created_at"`
}

type RecycleReportResponse struct {
	ID              string `json:"id"`
	PropertyID      string `json:"property_id"`
	PropertyAddress string `json:"property_address"`
	ScanDateIso     string `json:"scanDateIso"`
	Recycle         bool   `json:"recycle"`
	Contaminated    bool   `json:"contaminated"`
	Status          string `json:"status"`
	ScannedBy       string `json:"scanned_by"`
}

func (rr *RecycleReport) ToRecycleReportResponse() RecycleReportResponse {
	return RecycleReportResponse{
		ID:              rr.ID,
		PropertyID:      rr.PropertyID,
		PropertyAddress: rr.PropertyAddress,
		ScanDateIso:     time.Unix(rr.ScanDate, 0).UTC().Format(time.RFC3339),
		Recycle:         rr.Recycle,
		Contaminated:    rr.Contaminated,
		Status:          rr.Status,
		ScannedBy:       rr.ScannedBy,
	}
}
