package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListStatusParamExplicitWins(t *testing.T) {
	assert.Equal(t, "inactive", listStatusParam("Inactive", "active", false))
	assert.Equal(t, "active", listStatusParam("active", "", false))
}

func TestListStatusParamSelectShorthand(t *testing.T) {
	assert.Equal(t, "active", listStatusParam("", "active", false))
	assert.Equal(t, "inactive", listStatusParam("", "Inactive", false))
	assert.Equal(t, "", listStatusParam("", "everything", false))
	assert.Equal(t, "", listStatusParam("", "", false))
}

func TestListStatusParamSelectAllSuppresses(t *testing.T) {
	assert.Equal(t, "", listStatusParam("active", "inactive", true))
}

func TestServiceActivityLabels(t *testing.T) {
	assert.Equal(t, "Route Check Point", serviceActivity("route_checkpoint"))
	assert.Equal(t, "Service", serviceActivity("service"))
	assert.Equal(t, "Other", serviceActivity("other"))
	assert.Equal(t, "Violation Reported", serviceActivity("violation_reported"))
	assert.Equal(t, "Violation Reported", serviceActivity("unit"))
	assert.Equal(t, "Violation Reported", serviceActivity(""))
}

func TestIsoUTC(t *testing.T) {
	assert.Equal(t, "1970-01-01T00:00:00Z", isoUTC(0))
	assert.Equal(t, "2024-03-15T12:30:45Z", isoUTC(1710505845))
}
