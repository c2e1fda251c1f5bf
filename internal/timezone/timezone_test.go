package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationFallsBack(t *testing.T) {
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Mars/Olympus"))

	assert.Equal(t, "UTC", Location("UTC").String())

	loc := Location("Mars/Olympus")
	require.NotNil(t, loc)
}

func TestToday(t *testing.T) {
	loc := Location("America/Sao_Paulo")

	// 23:30 em São Paulo ainda é o mesmo dia, mesmo já sendo 02:30 UTC do seguinte
	now := time.Date(2024, 3, 25, 23, 30, 0, 0, loc)
	assert.Equal(t, "2024-03-25", Today(now))
	assert.Equal(t, "2024-03-26", Today(now.UTC()))
}
