package models

import "time"

// QrScanLog is one scan of a BinTag's QR code. The property/unit/barcode
// columns are snapshots taken at scan time.
type QrScanLog struct {
	ID             string   `json:"id" db:"id"`
	CompanyID      string   `json:"company_id" db:"company_id"`
	BinTagID       string   `json:"bin_tag_id" db:"bin_tag_id"`
	ScannedBy      string   `json:"scanned_by" db:"scanned_by"`
	ScannedByName  string   `json:"scanned_by_name" db:"scanned_by_name"`
	ScannedByEmail string   `json:"scanned_by_email" db:"scanned_by_email"`
	PropertyName   string   `json:"property_name" db:"property_name"`
	UnitNumber     string   `json:"unit_number" db:"unit_number"`
	Barcode        string   `json:"barcode" db:"barcode"`
	Latitude       *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude      *float64 `json:"longitude,omitempty" db:"longitude"`
	ScannedAt      int64    `json:"scanned_at" db:"scanned_at"` // Unix timestamp
	CreatedAt      int64    `json:"created_at" db:"created_at"`
}

type QrScanLogResponse struct {
	ID            string   `json:"id"`
	BinTagID      string   `json:"bin_tag_id"`
	ScannedBy     string   `json:"scanned_by"`
	ScannedByName string   `json:"scanned_by_name"`
	PropertyName  string   `json:"property_name"`
	UnitNumber    string   `json:"unit_number"`
	Barcode       string   `json:"barcode"`
	TagType       string   `json:"tag_type,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	ScannedAtIso  string   `json:"scannedAtIso"`
}

func (l *QrScanLog) ToQrScanLogResponse(tagType string) QrScanLogResponse {
	return QrScanLogResponse{
		ID:            l.ID,
		BinTagID:      l.BinTagID,
		ScannedBy:     l.ScannedBy,
		ScannedByName: l.ScannedByName,
		PropertyName:  l.PropertyName,
		UnitNumber:    l.UnitNumber,
		Barcode:       l.Barcode,
		TagType:       tagType,
		Latitude:      l.Latitude,
		Longitude:     l.Longitude,
		ScannedAtIso:  time.Unix(l.ScannedAt, 0).UTC().Format(time.RFC3339),
	}
}

// ScanEvent activity types (legacy structured source).
const (
	ActivityViolationReported = "violation_reported"
	ActivityRouteCheckpoint   = "route_checkpoint"
	ActivityService           = "service"
	ActivityOther             = "other"
)

// ScanEvent event types.
const (
	EventCheckIn  = "check_in"
	EventCheckOut = "check_out"
)

// ScanEvent is the legacy structured scan source, tied to a checkpoint
// rather than a BinTag. Kept for reports over historical data.
type ScanEvent struct {
	ID           string  `json:"id" db:"id"`
	EmployeeID   string  `json:"employee_id" db:"employee_id"`
	PropertyID   string  `json:"property_id" db:"property_id"`
	RouteID      *string `json:"route_id,omitempty" db:"route_id"`
	CheckpointID string  `json:"checkpoint_id" db:"checkpoint_id"`
	ActivityType string  `json:"activity_type" db:"activity_type"`
	Volume       *int    `json:"volume,omitempty" db:"volume"`
	EventType    string  `json:"event_type" db:"event_type"`
	ScannedAt    int64   `json:"scanned_at" db:"scanned_at"`
	CreatedAt    int64   `json:"created_at" db:"created_at"`
}

// Checkpoint is a structured scan point referenced by ScanEvent rows.
type Checkpoint struct {
	ID         string  `json:"id" db:"id"`
	PropertyID string  `json:"property_id" db:"property_id"`
	BuildingID *string `json:"building_id,omitempty" db:"building_id"`
	Name       string  `json:"name" db:"name"`
	CreatedAt  int64   `json:"created_at" db:"created_at"`
}
