package leaderboardservice

import (
	"bytes"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// GenerateHandicapChart produces a PNG step chart of a player's handicap over the season.
// The first point is the handicap before the earliest recorded change.
func GenerateHandicapChart(history []HandicapHistoryView, palette ChartPalette) ([]byte, error) {
	if len(history) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	xValues := make([]time.Time, 0, len(history)+1)
	yValues := make([]float64, 0, len(history)+1)

	start := history[0].CreatedAt.Add(-24 * time.Hour)
	xValues = append(xValues, start)
	yValues = append(yValues, history[0].HandicapBefore.InexactFloat64())

	for _, entry := range history {
		xValues = append(xValues, entry.CreatedAt)
		yValues = append(yValues, entry.HandicapAfter.InexactFloat64())
	}

	yRange := &chart.ContinuousRange{Descending: true}
	if flat(yValues) {
		// go-chart refuses a zero-height y range.
		yRange.Min = yValues[0] - 1
		yRange.Max = yValues[0] + 1
	}

	mainSeries := chart.TimeSeries{
		Name:    "Handicap",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex(trimHash(palette.PrimaryLine)),
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    drawing.ColorFromHex(trimHash(palette.AccentLine)),
		},
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: drawing.ColorFromHex(trimHash(palette.Background)),
		},
		Canvas: chart.Style{
			FillColor: drawing.ColorFromHex(trimHash(palette.Background)),
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
			Style: chart.Style{
				FontColor: drawing.ColorFromHex(trimHash(palette.TextColor)),
			},
		},
		YAxis: chart.YAxis{
			Name: "Handicap",
			Style: chart.Style{
				FontColor: drawing.ColorFromHex(trimHash(palette.TextColor)),
			},
			// Lower handicap is better; keep it at the top.
			Range: yRange,
		},
		Series: []chart.Series{mainSeries},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No handicap changes yet"
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: drawing.ColorFromHex(trimHash(palette.Background)),
		},
		Canvas: chart.Style{
			FillColor: drawing.ColorFromHex(trimHash(palette.Background)),
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(drawing.ColorFromHex(trimHash(palette.TextColor)))
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func flat(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

func trimHash(hex string) string {
	if len(hex) > 0 && hex[0] == '#' {
		return hex[1:]
	}
	return hex
}
