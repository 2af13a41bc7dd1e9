package reports

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Report data sources, in fallback order.
const (
	SourceScanEvents = "scan_events"
	SourceQrScanLogs = "qr_scan_logs"
)

// sourceFunc is one scan store queried under the shared filter set.
type sourceFunc func(Filters) ([]ScanRecord, error)

// queryWithFallback runs the primary source and consults the secondary only
// when the primary yields zero rows. A primary error stops the chain.
func queryWithFallback(f Filters, primary, secondary sourceFunc) ([]ScanRecord, string, error) {
	records, err := primary(f)
	if err != nil {
		return nil, "", err
	}
	if len(records) > 0 {
		return records, SourceScanEvents, nil
	}

	records, err = secondary(f)
	if err != nil {
		return nil, "", err
	}
	return records, SourceQrScanLogs, nil
}

// QueryScanRecords runs the dual-source policy: the structured scan_events
// source is queried first, and only when it yields zero rows does the
// qr_scan_logs source run. Both apply the identical filter set. The second
// return value names the source that produced the rows.
func QueryScanRecords(db *sqlx.DB, f Filters) ([]ScanRecord, string, error) {
	return queryWithFallback(f,
		func(f Filters) ([]ScanRecord, error) { return queryScanEvents(db, f) },
		func(f Filters) ([]ScanRecord, error) { return queryScanLogs(db, f) })
}

// args collects positional query arguments and hands out the matching $n
// placeholder.
type args []interface{}

func (a *args) bind(v interface{}) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

func queryScanEvents(db *sqlx.DB, f Filters) ([]ScanRecord, error) {
	if f.Activity == MatchNone {
		return nil, nil
	}
	if f.Scope.Empty() {
		return nil, nil
	}

	var a args
	var where []string

	where = append(where, "p.company_id = "+a.bind(f.CompanyID))

	if !f.Scope.Unrestricted {
		where = append(where, "se.property_id = ANY("+a.bind(pq.Array(f.Scope.PropertyIDs))+")")
	}
	if f.StartTime != nil {
		where = append(where, "se.scanned_at >= "+a.bind(*f.StartTime))
	}
	if f.EndTime != nil {
		where = append(where, "se.scanned_at <= "+a.bind(*f.EndTime))
	}
	if f.PropertyID != "" {
		where = append(where, "se.property_id = "+a.bind(f.PropertyID))
	}
	if f.PropertyName != "" {
		where = append(where, "p.name ILIKE "+a.bind("%"+f.PropertyName+"%"))
	}
	if f.EmployeeID != "" {
		where = append(where, "se.employee_id = "+a.bind(f.EmployeeID))
	}
	if f.EmployeeName != "" {
		where = append(where, "u.name ILIKE "+a.bind("%"+f.EmployeeName+"%"))
	}
	switch f.Activity {
	case MatchRouteCheckpoint:
		where = append(where, "se.activity_type = 'route_checkpoint'")
	case MatchNonRouteCheckpoint:
		where = append(where, "se.activity_type = 'violation_reported'")
	case MatchService:
		where = append(where, "se.activity_type = 'service'")
	}
	if f.Search != "" {
		pattern := a.bind("%" + f.Search + "%")
		where = append(where, "(c.name ILIKE "+pattern+" OR p.name ILIKE "+pattern+" OR u.name ILIKE "+pattern+")")
	}
	if f.ScanBy != "" {
		if looksLikeID(f.ScanBy) {
			where = append(where, "se.employee_id = "+a.bind(f.ScanBy))
		} else {
			where = append(where, "u.name ILIKE "+a.bind("%"+f.ScanBy+"%"))
		}
	}

	query := `
		SELECT se.employee_id AS actor_id,
		       COALESCE(u.name, '') AS actor_name,
		       se.checkpoint_id AS ref_id,
		       c.name AS barcode,
		       se.property_id,
		       COALESCE(p.name, '') AS property_name,
		       se.activity_type AS tag_type,
		       COALESCE(b.name, '') AS unit_number,
		       se.scanned_at
		FROM scan_events se
		JOIN checkpoints c ON c.id = se.checkpoint_id
		LEFT JOIN buildings b ON b.id = c.building_id
		JOIN properties p ON p.id = se.property_id
		LEFT JOIN users u ON u.id = se.employee_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY se.scanned_at DESC
	`

	var rows []struct {
		ActorID      string `db:"actor_id"`
		ActorName    string `db:"actor_name"`
		RefID        string `db:"ref_id"`
		Barcode      string `db:"barcode"`
		PropertyID   string `db:"property_id"`
		PropertyName string `db:"property_name"`
		TagType      string `db:"tag_type"`
		UnitNumber   string `db:"unit_number"`
		ScannedAt    int64  `db:"scanned_at"`
	}
	if err := db.Select(&rows, query, a...); err != nil {
		return nil, fmt.Errorf("failed to query scan events: %w", err)
	}

	records := make([]ScanRecord, len(rows))
	for i, row := range rows {
		records[i] = ScanRecord{
			ActorID:      row.ActorID,
			ActorName:    DisplayName(row.ActorName, "", "", ""),
			RefID:        row.RefID,
			Barcode:      row.Barcode,
			PropertyID:   row.PropertyID,
			PropertyName: row.PropertyName,
			TagType:      row.TagType,
			UnitNumber:   row.UnitNumber,
			ScannedAt:    row.ScannedAt,
		}
	}
	return records, nil
}

func queryScanLogs(db *sqlx.DB, f Filters) ([]ScanRecord, error) {
	// Tag scans carry no service classification, so a service keyword can
	// never match here.
	if f.Activity == MatchNone || f.Activity == MatchService {
		return nil, nil
	}
	if f.Scope.Empty() {
		return nil, nil
	}

	var a args
	var where []string

	where = append(where, "l.company_id = "+a.bind(f.CompanyID))
	where = append(where, "t.is_deleted = FALSE")

	if !f.Scope.Unrestricted {
		where = append(where, "t.property_id = ANY("+a.bind(pq.Array(f.Scope.PropertyIDs))+")")
	}
	if f.StartTime != nil {
		where = append(where, "l.scanned_at >= "+a.bind(*f.StartTime))
	}
	if f.EndTime != nil {
		where = append(where, "l.scanned_at <= "+a.bind(*f.EndTime))
	}
	if f.PropertyID != "" {
		where = append(where, "t.property_id = "+a.bind(f.PropertyID))
	}
	if f.PropertyName != "" {
		where = append(where, "COALESCE(p.name, l.property_name) ILIKE "+a.bind("%"+f.PropertyName+"%"))
	}
	if f.EmployeeID != "" {
		where = append(where, "l.scanned_by = "+a.bind(f.EmployeeID))
	}
	if f.EmployeeName != "" {
		pattern := a.bind("%" + f.EmployeeName + "%")
		where = append(where, "(au.name ILIKE "+pattern+" OR l.scanned_by_name ILIKE "+pattern+")")
	}
	switch f.Activity {
	case MatchRouteCheckpoint:
		where = append(where, "t.tag_type = 'route_checkpoint'")
	case MatchNonRouteCheckpoint:
		where = append(where, "t.tag_type <> 'route_checkpoint'")
	}
	if f.Search != "" {
		pattern := a.bind("%" + f.Search + "%")
		where = append(where, "(l.unit_number ILIKE "+pattern+
			" OR l.barcode ILIKE "+pattern+
			" OR COALESCE(p.name, l.property_name) ILIKE "+pattern+
			" OR au.name ILIKE "+pattern+
			" OR l.scanned_by_name ILIKE "+pattern+")")
	}
	if f.ScanBy != "" {
		if looksLikeID(f.ScanBy) {
			where = append(where, "l.scanned_by = "+a.bind(f.ScanBy))
		} else {
			pattern := a.bind("%" + f.ScanBy + "%")
			where = append(where, "(au.name ILIKE "+pattern+" OR l.scanned_by_name ILIKE "+pattern+")")
		}
	}

	query := `
		SELECT l.scanned_by AS actor_id,
		       COALESCE(eu.name, '') AS employee_name,
		       COALESCE(au.name, '') AS account_name,
		       COALESCE(mu.name, '') AS manager_name,
		       l.scanned_by_name AS snapshot_name,
		       l.bin_tag_id AS ref_id,
		       t.barcode,
		       t.property_id,
		       COALESCE(p.name, l.property_name) AS property_name,
		       t.tag_type,
		       l.unit_number,
		       l.scanned_at
		FROM qr_scan_logs l
		JOIN bin_tags t ON t.id = l.bin_tag_id
		LEFT JOIN properties p ON p.id = t.property_id
		LEFT JOIN users eu ON eu.id = l.scanned_by AND eu.role = 'employee'
		LEFT JOIN users au ON au.id = l.scanned_by
		LEFT JOIN users mu ON mu.id = l.scanned_by AND mu.role = 'property_manager'
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY l.scanned_at DESC
	`

	var rows []struct {
		ActorID      string `db:"actor_id"`
		EmployeeName string `db:"employee_name"`
		AccountName  string `db:"account_name"`
		ManagerName  string `db:"manager_name"`
		SnapshotName string `db:"snapshot_name"`
		RefID        string `db:"ref_id"`
		Barcode      string `db:"barcode"`
		PropertyID   string `db:"property_id"`
		PropertyName string `db:"property_name"`
		TagType      string `db:"tag_type"`
		UnitNumber   string `db:"unit_number"`
		ScannedAt    int64  `db:"scanned_at"`
	}
	if err := db.Select(&rows, query, a...); err != nil {
		return nil, fmt.Errorf("failed to query qr scan logs: %w", err)
	}

	records := make([]ScanRecord, len(rows))
	for i, row := range rows {
		records[i] = ScanRecord{
			ActorID:      row.ActorID,
			ActorName:    DisplayName(row.EmployeeName, row.AccountName, row.ManagerName, row.SnapshotName),
			RefID:        row.RefID,
			Barcode:      row.Barcode,
			PropertyID:   row.PropertyID,
			PropertyName: row.PropertyName,
			TagType:      row.TagType,
			UnitNumber:   row.UnitNumber,
			ScannedAt:    row.ScannedAt,
		}
	}
	return records, nil
}
