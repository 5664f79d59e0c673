// Package scorecard reads uploaded scorecards and writes score exports in
// CSV and XLSX form.
package scorecard

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxHoles is the number of holes on a scorecard.
const MaxHoles = 18

// PlayerRow is one player's line on a scorecard. Holes maps hole number to strokes;
// blank cells are absent.
type PlayerRow struct {
	PlayerName string
	Holes      map[int]int
	Line       int
}

// Scorecard is a parsed upload.
type Scorecard struct {
	// Pars is set when the file carried a par row.
	Pars    map[int]int
	Players []PlayerRow
}

// Parser defines the interface for scorecard parsers.
type Parser interface {
	Parse(data []byte) (*Scorecard, error)
}

// Factory creates the appropriate parser based on file extension.
type Factory struct{}

// NewFactory creates a new parser factory.
func NewFactory() *Factory {
	return &Factory{}
}

// GetParser returns the appropriate parser for the given filename.
func (f *Factory) GetParser(filename string) (Parser, error) {
	ext := strings.ToLower(getFileExtension(filename))

	switch ext {
	case ".csv", ".tsv", ".txt":
		return NewCSVParser(), nil
	case ".xlsx":
		return NewXLSXParser(), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %q", ext)
	}
}

func getFileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx == -1 {
		return ""
	}
	return filename[idx:]
}

// parseRows is the format-independent core shared by the CSV and XLSX parsers.
func parseRows(rows [][]string) (*Scorecard, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("scorecard is empty")
	}

	headerIdx := detectHeaderRow(rows)
	if headerIdx < 0 {
		return nil, fmt.Errorf("no header row found; expected a player column and hole columns")
	}
	header := rows[headerIdx]

	nameCol := findColumn(header, []string{"player", "playername", "name", "player_name"})
	if nameCol < 0 {
		return nil, fmt.Errorf("no player name column in header")
	}
	holeCols := findHoleColumns(header)
	if len(holeCols) == 0 {
		return nil, fmt.Errorf("no hole columns in header")
	}

	card := &Scorecard{}
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if nameCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}

		holes, err := readHoles(row, holeCols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		if isPARRow(name) {
			card.Pars = holes
			continue
		}
		card.Players = append(card.Players, PlayerRow{PlayerName: name, Holes: holes, Line: i + 1})
	}

	if len(card.Players) == 0 {
		return nil, fmt.Errorf("no player score rows found")
	}
	return card, nil
}

func readHoles(row []string, holeCols map[int]int) (map[int]int, error) {
	holes := make(map[int]int, len(holeCols))
	for col, hole := range holeCols {
		if col >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[col])
		if val == "" || val == "-" {
			continue
		}
		strokes, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("hole %d: non-numeric value %q", hole, val)
		}
		if strokes < 0 {
			return nil, fmt.Errorf("hole %d: negative value %d", hole, strokes)
		}
		holes[hole] = strokes
	}
	return holes, nil
}

// findColumn searches for a column by multiple possible names (case-insensitive).
// Spaces, underscores, and hyphens are ignored.
func findColumn(header []string, possibleNames []string) int {
	for i, col := range header {
		colNorm := normalize(col)
		for _, name := range possibleNames {
			if colNorm == normalize(name) {
				return i
			}
		}
	}
	return -1
}

// findHoleColumns maps column index to hole number for headers like
// "hole1", "hole_1", "Hole 1", "h1", "H1", or just "1".
func findHoleColumns(header []string) map[int]int {
	cols := make(map[int]int)
	for i, col := range header {
		norm := normalize(col)
		switch {
		case strings.HasPrefix(norm, "hole"):
			norm = strings.TrimPrefix(norm, "hole")
		case strings.HasPrefix(norm, "h"):
			norm = strings.TrimPrefix(norm, "h")
		}
		n, err := strconv.Atoi(norm)
		if err != nil || n < 1 || n > MaxHoles {
			continue
		}
		cols[i] = n
	}
	return cols
}

// isPARRow checks if a row label represents par values.
func isPARRow(cellValue string) bool {
	normalized := strings.ToUpper(strings.TrimSpace(cellValue))
	return normalized == "PAR" || normalized == "PARS"
}

// detectHeaderRow scans the first 5 rows for the one with the most recognised
// column names. Returns -1 when none has at least two.
func detectHeaderRow(rows [][]string) int {
	maxRows := 5
	if len(rows) < maxRows {
		maxRows = len(rows)
	}

	bestScore := 0
	bestRow := -1
	for rowIdx := 0; rowIdx < maxRows; rowIdx++ {
		score := 0
		for _, cell := range rows[rowIdx] {
			norm := normalize(cell)
			if norm == "player" || norm == "playername" || norm == "name" {
				score++
				continue
			}
			if len(findHoleColumns([]string{cell})) == 1 {
				score++
			}
		}
		if score >= 2 && score > bestScore {
			bestScore = score
			bestRow = rowIdx
		}
	}
	return bestRow
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}
