package orders

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderIDFormat(t *testing.T) {
	before := time.Now().UnixMilli()
	id := NewOrderID()
	after := time.Now().UnixMilli()

	require.True(t, strings.HasPrefix(id, "ORD"))

	digits := id[len("ORD"):]
	require.GreaterOrEqual(t, len(digits), 14)

	// First 13 digits are the millisecond timestamp, the rest is the
	// random suffix.
	millis, err := strconv.ParseInt(digits[:13], 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, millis, before)
	assert.LessOrEqual(t, millis, after)

	suffix, err := strconv.Atoi(digits[13:])
	require.NoError(t, err)
	assert.GreaterOrEqual(t, suffix, 0)
	assert.Less(t, suffix, 1000)
}

func TestDueDate(t *testing.T) {
	now := time.Date(2025, 1, 30, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 2, 2, 12, 0, 0, 0, time.UTC), DueDate(now, 3))
	assert.Equal(t, now, DueDate(now, 0))
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), DueDate(now, 30))
}

func TestCanSubmitWork(t *testing.T) {
	assert.True(t, CanSubmitWork(StatusActive))
	assert.True(t, CanSubmitWork(StatusInRevision))
	assert.False(t, CanSubmitWork(StatusCompleted))
	assert.False(t, CanSubmitWork(StatusCancelled))
	assert.False(t, CanSubmitWork(""))
}
