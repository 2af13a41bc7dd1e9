package models

import "time"

// Canonical tag types. Input variants are normalized by the tags package.
const (
	TagTypeRouteCheckpoint = "route_checkpoint"
	TagTypeUnit            = "unit"
)

// Tag status values.
const (
	TagStatusActive   = "active"
	TagStatusInactive = "inactive"
)

type BinTag struct {
	ID        string `json:"id" db:"id"`
	CompanyID string `json:"company_id" db:"company_id"`

	PropertyID string `json:"property_id" db:"property_id"`
	// Snapshot of the property's display fields at creation time. Frozen on
	// purpose: later property edits must not rewrite audit history.
	PropertyName    string `json:"property_name" db:"property_name"`
	PropertyAddress string `json:"property_address" db:"property_address"`

	BuildingID   *string `json:"building_id,omitempty" db:"building_id"`
	BuildingName *string `json:"building_name,omitempty" db:"building_name"`

	UnitNumber string `json:"unit_number" db:"unit_number"`
	Barcode    string `json:"barcode" db:"barcode"`
	QRImageURL string `json:"qr_image_url" db:"qr_image_url"`
	TagType    string `json:"tag_type" db:"tag_type"`
	Status     string `json:"status" db:"status"`

	ScanCount     int     `json:"scan_count" db:"scan_count"`
	LastScannedAt *int64  `json:"last_scanned_at,omitempty" db:"last_scanned_at"` // Unix timestamp
	LastScannedBy *string `json:"last_scanned_by,omitempty" db:"last_scanned_by"`

	IsDeleted bool    `json:"is_deleted" db:"is_deleted"`
	CreatedBy *string `json:"created_by,omitempty" db:"created_by"`
	CreatedAt int64   `json:"created_at" db:"created_at"`
	UpdatedAt int64   `json:"updated_at" db:"updated_at"`
}

// BinTagResponse is what we send to the client with ISO timestamps
type BinTagResponse struct {
	ID              string   `json:"id"`
	PropertyID      string   `json:"property_id"`
	PropertyName    string   `json:"property_name"`
	PropertyAddress string   `json:"property_address"`
	BuildingName    *string  `json:"building_name,omitempty"`
	UnitNumber      string   `json:"unit_number"`
	Units           []string `json:"units,omitempty"`
	Barcode         string   `json:"barcode"`
	QRImageURL      string   `json:"qr_image_url"`
	TagType         string   `json:"tag_type"`
	Status          string   `json:"status"`
	ScanCount       int      `json:"scan_count"`
	LastScannedIso  *string  `json:"lastScannedIso,omitempty"`
	LastScannedBy   *string  `json:"last_scanned_by,omitempty"`
	CreatedAt       int64    `json:"created_at"`
}

// ToBinTagResponse converts a BinTag to BinTagResponse
func (t *BinTag) ToBinTagResponse(units []string) BinTagResponse {
	resp := BinTagResponse{
		ID:              t.ID,
		PropertyID:      t.PropertyID,
		PropertyName:    t.PropertyName,
		PropertyAddress: t.PropertyAddress,
		BuildingName:    t.BuildingName,
		UnitNumber:      t.UnitNumber,
		Units:           units,
		Barcode:         t.Barcode,
		QRImageURL:      t.QRImageURL,
		TagType:         t.TagType,
		Status:          t.Status,
		ScanCount:       t.ScanCount,
		LastScannedBy:   t.LastScannedBy,
		CreatedAt:       t.CreatedAt,
	}

	if t.LastScannedAt != nil {
		iso := time.Unix(*t.LastScannedAt, 0).UTC().Format(time.RFC3339)
		resp.LastScannedIso = &iso
	}

	return resp
}

// CreateBinTagRequest is the request body for POST /api/bin-tags
type CreateBinTagRequest struct {
	PropertyID string   `json:"property_id"`
	BuildingID *string  `json:"building_id,omitempty"`
	UnitNumber string   `json:"unit_number"`
	Units      []string `json:"units,omitempty"`
	Barcode    string   `json:"barcode"`
	TagType    string   `json:"tag_type"`
}

// UpdateBinTagRequest is the request body for PATCH /api/bin-tags/:id.
// Only the listed fields may change; snapshots and counters never do.
type UpdateBinTagRequest struct {
	UnitNumber *string  `json:"unit_number,omitempty"`
	Units      []string `json:"units,omitempty"`
	TagType    *string  `json:"tag_type,omitempty"`
	Status     *string  `json:"status,omitempty"`
}

// BulkDeleteBinTagsRequest soft-deletes by explicit ids or, with SelectAll,
// by re-deriving the listing filter.
type BulkDeleteBinTagsRequest struct {
	IDs        []string `json:"ids,omitempty"`
	SelectAll  bool     `json:"selectAll,omitempty"`
	PropertyID string   `json:"property_id,omitempty"`
	Status     string   `json:"status,omitempty"`
	TagType    string   `json:"tag_type,omitempty"`
	Search     string   `json:"search,omitempty"`
}
