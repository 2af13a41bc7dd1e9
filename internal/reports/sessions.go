package reports

import (
	"sort"
	"time"
)

// ScanRecord is one raw scan from either source, flattened to the shape the
// session engine needs. RefID is a checkpoint id for scan_events rows and a
// bin tag id for qr_scan_logs rows.
type ScanRecord struct {
	ActorID      string
	ActorName    string
	RefID        string
	Barcode      string
	PropertyID   string
	PropertyName string
	TagType      string
	UnitNumber   string
	ScannedAt    int64 // Unix timestamp
}

// Session approximates a check-in/check-out pair reconstructed from raw
// scans. A single scan is an unterminated check-in: CheckOut and
// DurationSeconds stay nil until a second scan lands in the same group.
type Session struct {
	ActorID      string
	ActorName    string
	RefID        string
	Barcode      string
	PropertyID   string
	PropertyName string
	Day          string // YYYY-MM-DD, UTC
	FirstScan    int64
	LastScan     int64
	ScanCount    int
	CheckOut     *int64
	Duration     *int64 // seconds, first scan to last scan
}

// DayKey formats a Unix timestamp as the UTC calendar date used for
// session grouping.
func DayKey(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}

// BuildSessions groups raw scans by (actor, checkpoint-or-tag, UTC day) and
// collapses each group to its first and last scan. Input order does not
// matter. Output is sorted newest session first, with the group key as a
// tiebreaker so pagination is stable.
func BuildSessions(records []ScanRecord) []Session {
	type groupKey struct {
		actorID string
		refID   string
		day     string
	}

	groups := make(map[groupKey]*Session)
	for _, rec := range records {
		key := groupKey{actorID: rec.ActorID, refID: rec.RefID, day: DayKey(rec.ScannedAt)}

		sess, ok := groups[key]
		if !ok {
			groups[key] = &Session{
				ActorID:      rec.ActorID,
				ActorName:    rec.ActorName,
				RefID:        rec.RefID,
				Barcode:      rec.Barcode,
				PropertyID:   rec.PropertyID,
				PropertyName: rec.PropertyName,
				Day:          key.day,
				FirstScan:    rec.ScannedAt,
				LastScan:     rec.ScannedAt,
				ScanCount:    1,
			}
			continue
		}

		sess.ScanCount++
		if rec.ScannedAt < sess.FirstScan {
			sess.FirstScan = rec.ScannedAt
		}
		if rec.ScannedAt > sess.LastScan {
			sess.LastScan = rec.ScannedAt
		}
	}

	sessions := make([]Session, 0, len(groups))
	for _, sess := range groups {
		if sess.ScanCount > 1 {
			checkOut := sess.LastScan
			duration := sess.LastScan - sess.FirstScan
			sess.CheckOut = &checkOut
			sess.Duration = &duration
		}
		sessions = append(sessions, *sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].FirstScan != sessions[j].FirstScan {
			return sessions[i].FirstScan > sessions[j].FirstScan
		}
		if sessions[i].ActorID != sessions[j].ActorID {
			return sessions[i].ActorID < sessions[j].ActorID
		}
		return sessions[i].RefID < sessions[j].RefID
	})

	return sessions
}

// DisplayName resolves the reporting name for a scan actor across the four
// identity sources, in priority order: employee profile, user account,
// property-manager account, then the scan-time snapshot.
func DisplayName(employeeName, accountName, managerName, snapshotName string) string {
	for _, name := range []string{employeeName, accountName, managerName, snapshotName} {
		if name != "" {
			return name
		}
	}
	return "Unknown Employee"
}
