package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-01-07 is a Wednesday.
var wednesday10 = time.Date(2026, time.January, 7, 10, 0, 0, 0, time.UTC)

func TestNextOccurrenceSameDayPast(t *testing.T) {
	// A Wednesday 08:00 event projected from Wednesday 10:00: this week's
	// occurrence is already past and is discarded, not rolled forward.
	_, ok, err := NextOccurrence("08:00 - 09:00", 2, 0, wednesday10)
	require.NoError(t, err)
	assert.False(t, ok)

	// The caller iterates weekOffset 1 to reach next week's occurrence.
	occ, ok, err := NextOccurrence("08:00 - 09:00", 2, 1, wednesday10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.January, 14, 8, 0, 0, 0, time.UTC), occ)
}

func TestNextOccurrenceSameDayLater(t *testing.T) {
	occ, ok, err := NextOccurrence("14:00 - 15:00", 2, 0, wednesday10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.January, 7, 14, 0, 0, 0, time.UTC), occ)
}

func TestNextOccurrenceEarlierWeekday(t *testing.T) {
	// Monday from a Wednesday reference wraps to the following Monday even
	// at weekOffset 0; weekOffset 1 lands one further week out.
	occ, ok, err := NextOccurrence("08:00 - 09:00", 0, 0, wednesday10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.January, 12, 8, 0, 0, 0, time.UTC), occ)

	occ, ok, err = NextOccurrence("08:00 - 09:00", 0, 1, wednesday10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.January, 19, 8, 0, 0, 0, time.UTC), occ)
}

func TestNextOccurrenceSundayReference(t *testing.T) {
	// 2026-01-11 is a Sunday; weekday 0 must normalize to 7 so a Monday
	// event lands on the very next day.
	sunday := time.Date(2026, time.January, 11, 9, 0, 0, 0, time.UTC)
	occ, ok, err := NextOccurrence("08:00 - 09:00", 0, 0, sunday)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.January, 12, 8, 0, 0, 0, time.UTC), occ)

	// A Sunday event at an already-past time on the reference Sunday.
	_, ok, err = NextOccurrence("08:00 - 09:00", 6, 0, sunday)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNextOccurrenceExactlyNow(t *testing.T) {
	// Candidate equal to now is not strictly in the future: discarded.
	now := time.Date(2026, time.January, 7, 8, 0, 0, 0, time.UTC)
	_, ok, err := NextOccurrence("08:00 - 09:00", 2, 0, now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNextOccurrenceBadLabel(t *testing.T) {
	_, _, err := NextOccurrence("not a label", 0, 0, wednesday10)
	assert.Error(t, err)

	_, _, err = NextOccurrence("25:00 - 26:00", 0, 0, wednesday10)
	assert.Error(t, err)
}
