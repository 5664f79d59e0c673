package scorecard

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFactory_GetParser(t *testing.T) {
	f := NewFactory()

	p, err := f.GetParser("round.CSV")
	require.NoError(t, err)
	assert.IsType(t, &CSVParser{}, p)

	p, err = f.GetParser("round.xlsx")
	require.NoError(t, err)
	assert.IsType(t, &XLSXParser{}, p)

	_, err = f.GetParser("round.pdf")
	assert.Error(t, err)
}

func TestCSVParser_Parse(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantErr   bool
		wantNames []string
		check     func(t *testing.T, card *Scorecard)
	}{
		{
			name: "header par and players",
			data: "Player,1,2,3\nPar,4,3,5\nAlice,5,3,6\nBob,4,,5\n",
			wantNames: []string{"Alice", "Bob"},
			check: func(t *testing.T, card *Scorecard) {
				assert.Equal(t, map[int]int{1: 4, 2: 3, 3: 5}, card.Pars)
				assert.Equal(t, map[int]int{1: 5, 2: 3, 3: 6}, card.Players[0].Holes)
				assert.Equal(t, map[int]int{1: 4, 3: 5}, card.Players[1].Holes, "blank cells are skipped")
			},
		},
		{
			name:      "tab separated with BOM and hole prefixes",
			data:      "\xEF\xBB\xBFName\tHole 1\tH2\r\nCarol\t3\t4\r\n",
			wantNames: []string{"Carol"},
		},
		{
			name:      "title line above header",
			data:      "Monthly Cup April\nPlayer,hole_1,hole_2\nDan,7,6\n",
			wantNames: []string{"Dan"},
		},
		{
			name:    "negative strokes",
			data:    "Player,1,2\nAlice,-1,3\n",
			wantErr: true,
		},
		{
			name:    "no header",
			data:    "Alice,Bob\nCarol,Dan\n",
			wantErr: true,
		},
		{
			name:    "empty",
			data:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card, err := NewCSVParser().Parse([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			names := make([]string, len(card.Players))
			for i, p := range card.Players {
				names[i] = p.PlayerName
			}
			assert.Equal(t, tt.wantNames, names)
			if tt.check != nil {
				tt.check(t, card)
			}
		})
	}
}

func TestXLSXParser_Parse(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Player", "1", "2"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Alice", 4, 5}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	card, err := NewXLSXParser().Parse(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, card.Players, 1)
	assert.Equal(t, map[int]int{1: 4, 2: 5}, card.Players[0].Holes)

	_, err = NewXLSXParser().Parse([]byte("Player,1\nAlice,4\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Hint")
}

func exportFixture() []ExportLine {
	four, three := 4, 3
	line := ExportLine{
		EventDate:  time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC),
		EventName:  "April Cup",
		PlayerName: "Alice",
	}
	line.Strokes[0] = &four
	line.Strokes[17] = &three
	line.Putts[0] = &three
	return []ExportLine{line}
}

func TestWriteCSV_RoundTripsThroughParser(t *testing.T) {
	data, err := WriteCSV(exportFixture())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	card, err := NewCSVParser().Parse(data)
	require.NoError(t, err)
	require.Len(t, card.Players, 1)
	assert.Equal(t, map[int]int{1: 4, 18: 3}, card.Players[0].Holes)
}

func TestWriteXLSX(t *testing.T) {
	data, err := WriteXLSX(exportFixture())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Player", rows[0][2])
	assert.Equal(t, "Alice", rows[1][2])
	assert.Equal(t, "4", rows[1][3])
	assert.Equal(t, "7", rows[1][len(rows[0])-2], "gross")
	assert.Equal(t, "3", rows[1][len(rows[0])-1], "putts")
}
