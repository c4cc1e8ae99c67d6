package store

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AquaCheese/timetable/internal/model"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, DocumentKey)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, DocumentKey, `{"a":1}`))
	got, err := s.Get(ctx, DocumentKey)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got)

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())
}

func TestLoadDocumentMissing(t *testing.T) {
	doc := LoadDocument(context.Background(), NewMemoryStore(), zerolog.Nop())
	assert.Equal(t, model.DefaultDocument().Config, doc.Config)
	assert.NotNil(t, doc.Timetable)
}

func TestLoadDocumentCorrupt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, DocumentKey, `{not json`))

	// Corrupt documents fall back to defaults and never propagate.
	doc := LoadDocument(ctx, s, zerolog.Nop())
	assert.Equal(t, model.DefaultDocument().Config, doc.Config)
}

func TestDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	doc := model.DefaultDocument()
	doc.Config.Weeks = 2
	doc.CurrentWeek = 1
	doc.Settings.Enabled = true
	doc.Settings.SetCustomTimes([]int{45, 10})
	doc.Customization.CustomTimeSlots = []string{"08:00 - 09:30", "09:30 - 11:00"}
	doc.Timetable.Set(1, 0, 2, model.EventEntry{
		Subject:       "History",
		Location:      "B12",
		Time:          "09:30 - 11:00",
		DayName:       "Monday",
		Notifications: true,
	})

	require.NoError(t, SaveDocument(ctx, s, doc))

	back := LoadDocument(ctx, s, zerolog.Nop())
	assert.Equal(t, doc.Config, back.Config)
	assert.Equal(t, 1, back.CurrentWeek)
	assert.True(t, back.Settings.Enabled)
	assert.Equal(t, []int{45, 10}, back.Settings.CustomTimes)
	assert.Equal(t, doc.Customization.CustomTimeSlots, back.Customization.CustomTimeSlots)

	e, ok := back.Timetable.Entry(1, 0, 2)
	require.True(t, ok)
	assert.Equal(t, "History", e.Subject)
	assert.True(t, e.Notifications)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(t.TempDir() + "/timetable.db")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(ctx, DocumentKey)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, DocumentKey, "v1"))
	require.NoError(t, s.Set(ctx, DocumentKey, "v2"))

	got, err := s.Get(ctx, DocumentKey)
	require.NoError(t, err)
	assert.Equal(t, "v2", got, "set must upsert")

	require.NoError(t, s.Ping(ctx))
}
