package ticketstore

import (
	"testing"

	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "TKT-000001", FormatNumber("TKT", 1))
	assert.Equal(t, "FDBK-000420", FormatNumber("FDBK", 420))
	assert.Equal(t, "BUG-1234567", FormatNumber("BUG", 1234567))
}

func TestKinds(t *testing.T) {
	prefixes := map[string]bool{}
	collections := map[string]bool{}
	for _, k := range models.TicketKinds {
		ki, ok := Info(k)
		if assert.True(t, ok, "kind %s", k) {
			prefixes[ki.Prefix] = true
			collections[ki.Collection] = true
		}
	}
	assert.Len(t, prefixes, len(models.TicketKinds))
	assert.Len(t, collections, len(models.TicketKinds))

	_, ok := ParseKind("bug")
	assert.True(t, ok)
	_, ok = ParseKind("complaint")
	assert.False(t, ok)
}
