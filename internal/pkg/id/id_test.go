package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EncodesTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	got, err := Time(New(at))

	require.NoError(t, err)
	assert.True(t, at.Equal(got))
}

func TestNew_SortsByCreation(t *testing.T) {
	earlier := New(time.Unix(1_700_000_000, 0))
	later := New(time.Unix(1_700_000_001, 0))

	assert.Less(t, earlier, later)
	assert.Len(t, later, 26)
}

func TestTime_Invalid(t *testing.T) {
	_, err := Time("not-a-ulid")
	assert.Error(t, err)
}
