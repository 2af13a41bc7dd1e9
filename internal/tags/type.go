package tags

import (
	"fmt"
	"strings"

	"bintrack-backend/internal/models"
)

// NormalizeType maps free-form tag type input onto one of the two canonical
// tag types. Matching ignores case, spaces, underscores and hyphens, so
// "Route Checkpoint", "route_checkpoint" and "ROUTECHECKPOINT" all resolve
// the same way. "bin" is a legacy alias for unit tags kept for older mobile
// clients. Anything else is an error.
func NormalizeType(input string) (string, error) {
	key := strings.ToLower(input)
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)

	switch key {
	case "routecheckpoint", "routecheckpoints":
		return models.TagTypeRouteCheckpoint, nil
	case "unit", "bin":
		return models.TagTypeUnit, nil
	default:
		return "", fmt.Errorf("invalid tag type %q", input)
	}
}
