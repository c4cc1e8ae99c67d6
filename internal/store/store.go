package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/AquaCheese/timetable/internal/model"
)

// DocumentKey is the single record under which the timetable document is
// persisted.
const DocumentKey = "studentTimetable"

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("key not found")

// Store is a key-value persistence backend. Implementations exist for
// SQLite, Redis and in-memory use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
	Close() error
}

// LoadDocument reads the persisted timetable document. A missing record or
// an unparsable one falls back to defaults; corruption is logged and never
// propagated.
func LoadDocument(ctx context.Context, s Store, logger zerolog.Logger) model.Document {
	raw, err := s.Get(ctx, DocumentKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error().Err(err).Msg("read timetable document")
		}
		return model.DefaultDocument()
	}

	var doc model.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		logger.Error().Err(err).Msg("stored timetable document is corrupt, using defaults")
		return model.DefaultDocument()
	}

	if err := doc.Config.Validate(); err != nil {
		logger.Warn().Err(err).Msg("stored schedule config is invalid, using default grid")
		doc.Config = model.DefaultScheduleConfig()
	}
	if doc.Timetable == nil {
		doc.Timetable = model.NewTimetable(doc.Config)
	}
	return doc
}

// SaveDocument persists the timetable document.
func SaveDocument(ctx context.Context, s Store, doc model.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode timetable document: %w", err)
	}
	if err := s.Set(ctx, DocumentKey, string(data)); err != nil {
		return fmt.Errorf("write timetable document: %w", err)
	}
	return nil
}
