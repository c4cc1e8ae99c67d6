// Package export renders the timetable document into downloadable forms:
// the canonical JSON document and an XLSX workbook with one sheet per week.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/AquaCheese/timetable/internal/model"
)

// FileName returns the conventional export file name for the given day,
// e.g. "timetable-2026-08-29.json".
func FileName(now time.Time) string {
	return fmt.Sprintf("timetable-%s.json", now.Format("2006-01-02"))
}

// WriteJSON writes the document as indented JSON with an ISO-8601
// exportDate stamped in. The stored document itself is never mutated.
func WriteJSON(w io.Writer, doc model.Document, now time.Time) error {
	doc.ExportDate = now.UTC().Format(time.RFC3339)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export document: %w", err)
	}
	return nil
}
