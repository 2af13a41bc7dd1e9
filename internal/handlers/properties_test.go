package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitTagNumber(t *testing.T) {
	assert.Equal(t, "B1-U1", UnitTagNumber(0, 0))
	assert.Equal(t, "B1-U2", UnitTagNumber(0, 1))
	assert.Equal(t, "B3-U12", UnitTagNumber(2, 11))
}

func TestUnitTagBarcode(t *testing.T) {
	propertyID := "0b2f8c64-9f75-4d1e-8f25-1a2b3c4d5e6f"

	assert.Equal(t, "BIN-5e6f-1-1", UnitTagBarcode(propertyID, 0, 0))
	assert.Equal(t, "BIN-5e6f-1-2", UnitTagBarcode(propertyID, 0, 1))
	assert.Equal(t, "BIN-5e6f-2-1", UnitTagBarcode(propertyID, 1, 0))

	// Short ids are used as-is rather than sliced.
	assert.Equal(t, "BIN-abc-1-1", UnitTagBarcode("abc", 0, 0))
}
