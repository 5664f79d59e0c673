package scorecard

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportLine is one player's card in one event.
type ExportLine struct {
	EventDate  time.Time
	EventName  string
	PlayerName string
	// Strokes and Putts are indexed by hole number minus one; nil means not entered.
	Strokes [MaxHoles]*int
	Putts   [MaxHoles]*int
}

// Gross sums the entered strokes.
func (l ExportLine) Gross() int {
	total := 0
	for _, s := range l.Strokes {
		if s != nil {
			total += *s
		}
	}
	return total
}

// TotalPutts sums the entered putts.
func (l ExportLine) TotalPutts() int {
	total := 0
	for _, p := range l.Putts {
		if p != nil {
			total += *p
		}
	}
	return total
}

const exportSheet = "Scores"

func exportHeader() []string {
	header := []string{"Date", "Event", "Player"}
	for h := 1; h <= MaxHoles; h++ {
		header = append(header, "H"+strconv.Itoa(h))
	}
	return append(header, "Gross", "Putts")
}

func exportRecord(l ExportLine) []string {
	rec := []string{l.EventDate.Format("2006-01-02"), l.EventName, l.PlayerName}
	for _, s := range l.Strokes {
		if s == nil {
			rec = append(rec, "")
			continue
		}
		rec = append(rec, strconv.Itoa(*s))
	}
	return append(rec, strconv.Itoa(l.Gross()), strconv.Itoa(l.TotalPutts()))
}

// WriteCSV renders lines as CSV with a UTF-8 BOM so spreadsheet apps detect the encoding.
func WriteCSV(lines []ExportLine) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader()); err != nil {
		return nil, err
	}
	for _, l := range lines {
		if err := w.Write(exportRecord(l)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteXLSX renders lines as a single-sheet workbook with numeric hole cells.
func WriteXLSX(lines []ExportLine) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := exportHeader()
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, l := range lines {
		row := i + 2
		values := []any{l.EventDate.Format("2006-01-02"), l.EventName, l.PlayerName}
		for _, s := range l.Strokes {
			if s == nil {
				values = append(values, nil)
				continue
			}
			values = append(values, *s)
		}
		values = append(values, l.Gross(), l.TotalPutts())

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
