package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bintrack-backend/internal/models"
)

func TestNormalizeType_RouteCheckpointVariants(t *testing.T) {
	variants := []string{
		"Route Checkpoint",
		"route checkpoint",
		"route_checkpoint",
		"ROUTECHECKPOINT",
		"Route-Checkpoint",
		"route checkpoints",
	}

	for _, input := range variants {
		got, err := NormalizeType(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, models.TagTypeRouteCheckpoint, got, "input %q", input)
	}
}

func TestNormalizeType_UnitVariants(t *testing.T) {
	variants := []string{"unit", "Unit", "UNIT", "bin", "Bin"}

	for _, input := range variants {
		got, err := NormalizeType(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, models.TagTypeUnit, got, "input %q", input)
	}
}

func TestNormalizeType_RejectsUnknown(t *testing.T) {
	for _, input := range []string{"", "dumpster", "checkpoint route", "units2", "route"} {
		_, err := NormalizeType(input)
		assert.Error(t, err, "input %q", input)
	}
}
