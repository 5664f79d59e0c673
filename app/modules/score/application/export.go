package scoreservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/application/scorecard"
	scoredb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/infrastructure/repositories"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportScores renders stored scores for one event or a date range.
func (s *ScoreService) ExportScores(ctx context.Context, req ExportRequest) (*ExportFile, error) {
	subject := "range"
	if req.EventID != nil {
		subject = req.EventID.String()
	}
	return withTelemetry(s, ctx, "ExportScores", subject, func(ctx context.Context) (*ExportFile, error) {
		if req.Format == "" {
			req.Format = ExportCSV
		}
		if req.Format != ExportCSV && req.Format != ExportXLSX {
			return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidExport, req.Format)
		}
		if req.EventID == nil {
			if req.From.IsZero() || req.To.IsZero() || req.To.Before(req.From) {
				return nil, fmt.Errorf("%w: need event_id or a start_date/end_date range", ErrInvalidExport)
			}
		}

		rows, err := s.repo.ListExportRows(ctx, s.idb(), scoredb.ExportFilter{
			EventID: req.EventID,
			From:    req.From,
			To:      req.To,
		})
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, ErrNoScores
		}

		lines := groupLines(rows)
		file := &ExportFile{Filename: exportFilename(req, rows)}
		switch req.Format {
		case ExportXLSX:
			file.ContentType = contentTypeXLSX
			file.Data, err = scorecard.WriteXLSX(lines)
		default:
			file.ContentType = contentTypeCSV
			file.Data, err = scorecard.WriteCSV(lines)
		}
		if err != nil {
			return nil, err
		}
		return file, nil
	})
}

// groupLines folds per-hole rows into one line per event and player,
// preserving the repository's order.
func groupLines(rows []scoredb.ExportRow) []scorecard.ExportLine {
	type key struct{ event, player uuid.UUID }
	index := make(map[key]int)
	var lines []scorecard.ExportLine

	for _, r := range rows {
		k := key{r.EventID, r.PlayerID}
		i, ok := index[k]
		if !ok {
			i = len(lines)
			index[k] = i
			lines = append(lines, scorecard.ExportLine{
				EventDate:  r.EventDate,
				EventName:  r.EventName,
				PlayerName: r.PlayerName,
			})
		}
		if r.HoleNumber < 1 || r.HoleNumber > scorecard.MaxHoles {
			continue
		}
		strokes, putts := r.Strokes, r.Putts
		lines[i].Strokes[r.HoleNumber-1] = &strokes
		lines[i].Putts[r.HoleNumber-1] = &putts
	}
	return lines
}

func exportFilename(req ExportRequest, rows []scoredb.ExportRow) string {
	ext := string(req.Format)
	if req.EventID != nil {
		name := strings.Map(func(r rune) rune {
			if r == '/' || r == '\\' || r == '"' {
				return '_'
			}
			return r
		}, rows[0].EventName)
		return fmt.Sprintf("%s_%s.%s", rows[0].EventDate.Format("20060102"), name, ext)
	}
	return fmt.Sprintf("scores_%s_%s.%s", req.From.Format("20060102"), req.To.Format("20060102"), ext)
}
