package reports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryWithFallback_PrimaryRowsSuppressSecondary(t *testing.T) {
	secondaryRan := false

	records, source, err := queryWithFallback(Filters{},
		func(Filters) ([]ScanRecord, error) {
			return []ScanRecord{{ActorID: "e1"}}, nil
		},
		func(Filters) ([]ScanRecord, error) {
			secondaryRan = true
			return []ScanRecord{{ActorID: "never"}}, nil
		})

	require.NoError(t, err)
	assert.False(t, secondaryRan, "secondary must not run when the primary has rows")
	assert.Equal(t, SourceScanEvents, source)
	require.Len(t, records, 1)
	assert.Equal(t, "e1", records[0].ActorID)
}

func TestQueryWithFallback_EmptyPrimaryFallsBack(t *testing.T) {
	records, source, err := queryWithFallback(Filters{},
		func(Filters) ([]ScanRecord, error) { return nil, nil },
		func(Filters) ([]ScanRecord, error) {
			return []ScanRecord{{ActorID: "e2"}}, nil
		})

	require.NoError(t, err)
	assert.Equal(t, SourceQrScanLogs, source)
	require.Len(t, records, 1)
	assert.Equal(t, "e2", records[0].ActorID)
}

func TestQueryWithFallback_PrimaryErrorStopsTheChain(t *testing.T) {
	boom := errors.New("boom")
	secondaryRan := false

	_, _, err := queryWithFallback(Filters{},
		func(Filters) ([]ScanRecord, error) { return nil, boom },
		func(Filters) ([]ScanRecord, error) {
			secondaryRan = true
			return nil, nil
		})

	assert.ErrorIs(t, err, boom)
	assert.False(t, secondaryRan)
}

func TestQueryScanLogs_ServiceKeywordMatchesNothing(t *testing.T) {
	// The early return fires before any query, so a nil DB is safe.
	records, err := queryScanLogs(nil, Filters{Activity: MatchService})
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = queryScanLogs(nil, Filters{Activity: MatchNone})
	require.NoError(t, err)
	assert.Empty(t, records)
}
