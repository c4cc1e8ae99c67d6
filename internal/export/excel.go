package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/AquaCheese/timetable/internal/model"
	"github.com/AquaCheese/timetable/internal/slots"
)

// WriteXLSX writes the timetable as a workbook: one sheet per week, a time
// column followed by one column per day. Filled cells carry the subject
// with location and instructor on extra lines.
func WriteXLSX(w io.Writer, doc model.Document) error {
	labels := doc.Customization.CustomTimeSlots
	if len(labels) == 0 {
		start, err := slots.ParseClock(doc.Config.StartTime)
		if err != nil {
			return fmt.Errorf("xlsx export: %w", err)
		}
		end, err := slots.ParseClock(doc.Config.EndTime)
		if err != nil {
			return fmt.Errorf("xlsx export: %w", err)
		}
		labels = slots.Labels(start, end, doc.Config.SlotDuration)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx export: header style: %w", err)
	}

	for week := 0; week < doc.Config.Weeks; week++ {
		sheet := fmt.Sprintf("Week %d", week+1)
		if week == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("xlsx export: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("xlsx export: create sheet %s: %w", sheet, err)
		}

		header := []interface{}{"Time"}
		for day := 0; day < doc.Config.Days; day++ {
			header = append(header, model.DayNames[day])
		}
		if err := writeRow(f, sheet, 1, header); err != nil {
			return err
		}
		endCell, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(sheet, "A1", endCell, headerStyle)

		for slot, label := range labels {
			row := []interface{}{label}
			for day := 0; day < doc.Config.Days; day++ {
				entry, ok := doc.Timetable.Entry(week, day, slot)
				if !ok {
					row = append(row, "")
					continue
				}
				row = append(row, cellText(entry))
			}
			if err := writeRow(f, sheet, slot+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx export: write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("xlsx export: cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("xlsx export: set cell %s: %w", cell, err)
		}
	}
	return nil
}

func cellText(e model.EventEntry) string {
	text := e.Subject
	if e.Location != "" {
		text += "\n" + e.Location
	}
	if e.Instructor != "" {
		text += "\n" + e.Instructor
	}
	return text
}
