package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(day string, hour, minute int) int64 {
	d, err := time.ParseInLocation("2006-01-02", day, time.UTC)
	if err != nil {
		panic(err)
	}
	return d.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute).Unix()
}

func TestBuildSessions_SingleScanHasNoCheckout(t *testing.T) {
	sessions := BuildSessions([]ScanRecord{
		{ActorID: "e1", RefID: "t1", ScannedAt: ts("2026-03-10", 9, 0)},
	})

	require.Len(t, sessions, 1)
	sess := sessions[0]
	assert.Equal(t, 1, sess.ScanCount)
	assert.Equal(t, sess.FirstScan, sess.LastScan)
	assert.Nil(t, sess.CheckOut)
	assert.Nil(t, sess.Duration)
	assert.Equal(t, "2026-03-10", sess.Day)
}

func TestBuildSessions_TwoScansFormACheckInOut(t *testing.T) {
	first := ts("2026-03-10", 9, 0)
	last := ts("2026-03-10", 17, 30)

	sessions := BuildSessions([]ScanRecord{
		{ActorID: "e1", RefID: "t1", ScannedAt: first},
		{ActorID: "e1", RefID: "t1", ScannedAt: last},
	})

	require.Len(t, sessions, 1)
	sess := sessions[0]
	assert.Equal(t, 2, sess.ScanCount)
	assert.Equal(t, first, sess.FirstScan)
	require.NotNil(t, sess.CheckOut)
	assert.Equal(t, last, *sess.CheckOut)
	require.NotNil(t, sess.Duration)
	assert.Equal(t, last-first, *sess.Duration)
}

func TestBuildSessions_OrderIndependent(t *testing.T) {
	first := ts("2026-03-10", 8, 0)
	mid := ts("2026-03-10", 12, 0)
	last := ts("2026-03-10", 18, 0)

	// Intermediate scans only contribute to the count; duration is always
	// last minus first.
	sessions := BuildSessions([]ScanRecord{
		{ActorID: "e1", RefID: "t1", ScannedAt: last},
		{ActorID: "e1", RefID: "t1", ScannedAt: first},
		{ActorID: "e1", RefID: "t1", ScannedAt: mid},
	})

	require.Len(t, sessions, 1)
	sess := sessions[0]
	assert.Equal(t, 3, sess.ScanCount)
	assert.Equal(t, first, sess.FirstScan)
	require.NotNil(t, sess.CheckOut)
	assert.Equal(t, last, *sess.CheckOut)
	require.NotNil(t, sess.Duration)
	assert.Equal(t, last-first, *sess.Duration)
}

func TestBuildSessions_GroupsSplitByActorTagAndDay(t *testing.T) {
	sessions := BuildSessions([]ScanRecord{
		{ActorID: "e1", RefID: "t1", ScannedAt: ts("2026-03-10", 9, 0)},
		{ActorID: "e1", RefID: "t1", ScannedAt: ts("2026-03-11", 9, 0)}, // next day
		{ActorID: "e2", RefID: "t1", ScannedAt: ts("2026-03-10", 9, 0)}, // other actor
		{ActorID: "e1", RefID: "t2", ScannedAt: ts("2026-03-10", 9, 0)}, // other tag
	})

	assert.Len(t, sessions, 4)
	for _, sess := range sessions {
		assert.Equal(t, 1, sess.ScanCount)
		assert.Nil(t, sess.CheckOut)
	}
}

func TestBuildSessions_MidnightBoundarySplitsSessions(t *testing.T) {
	// 23:59 and 00:01 the next day are different calendar days in UTC, so
	// they never merge into one session.
	sessions := BuildSessions([]ScanRecord{
		{ActorID: "e1", RefID: "t1", ScannedAt: ts("2026-03-10", 23, 59)},
		{ActorID: "e1", RefID: "t1", ScannedAt: ts("2026-03-11", 0, 1)},
	})

	assert.Len(t, sessions, 2)
}

func TestBuildSessions_SortedNewestFirst(t *testing.T) {
	sessions := BuildSessions([]ScanRecord{
		{ActorID: "e1", RefID: "t1", ScannedAt: ts("2026-03-09", 9, 0)},
		{ActorID: "e1", RefID: "t1", ScannedAt: ts("2026-03-11", 9, 0)},
		{ActorID: "e1", RefID: "t1", ScannedAt: ts("2026-03-10", 9, 0)},
	})

	require.Len(t, sessions, 3)
	assert.Equal(t, "2026-03-11", sessions[0].Day)
	assert.Equal(t, "2026-03-10", sessions[1].Day)
	assert.Equal(t, "2026-03-09", sessions[2].Day)
}

func TestDisplayName_Precedence(t *testing.T) {
	assert.Equal(t, "Emp", DisplayName("Emp", "Acct", "Mgr", "Snap"))
	assert.Equal(t, "Acct", DisplayName("", "Acct", "Mgr", "Snap"))
	assert.Equal(t, "Mgr", DisplayName("", "", "Mgr", "Snap"))
	assert.Equal(t, "Snap", DisplayName("", "", "", "Snap"))
	assert.Equal(t, "Unknown Employee", DisplayName("", "", "", ""))
}

func TestDayKey_UTC(t *testing.T) {
	assert.Equal(t, "2026-03-10", DayKey(ts("2026-03-10", 0, 0)))
	assert.Equal(t, "2026-03-10", DayKey(ts("2026-03-10", 23, 59)))
}
