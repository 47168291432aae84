// Package render draws the aggregated equity view as a PNG chart. The
// rendered bytes live inside one snapshot and are replaced whole with it.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData reports that the series has no timeline to draw.
var ErrNoData = errors.New("render: no equity data")

// Options sizes the rendered chart.
type Options struct {
	Width  int
	Height int
}

var seriesPalette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorOrange,
	chart.ColorCyan,
	chart.ColorRed,
	chart.ColorYellow,
}

// EquityPNG renders the total curve plus one series per system.
func EquityPNG(timeline []time.Time, perSystem map[string][]float64, total []float64, opts Options) ([]byte, error) {
	if len(timeline) == 0 {
		return nil, ErrNoData
	}
	if opts.Width <= 0 {
		opts.Width = 1024
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}

	series := []chart.Series{timeSeries("Total", timeline, total, chart.Style{
		StrokeColor: chart.ColorAlternateBlue,
		StrokeWidth: 2.5,
		FillColor:   chart.ColorAlternateBlue.WithAlpha(60),
	})}

	// Stable system order so repeated renders look identical.
	names := make([]string, 0, len(perSystem))
	for name := range perSystem {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		col := seriesPalette[i%len(seriesPalette)]
		series = append(series, timeSeries(name, timeline, perSystem[name], chart.Style{
			StrokeColor: col,
			StrokeWidth: 1.5,
		}))
	}

	graph := chart.Chart{
		Width:  opts.Width,
		Height: opts.Height,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeValueFormatterWithFormat("01-02 15:04")},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// timeSeries widens a single observation into a flat two-point segment;
// go-chart refuses series with fewer than two values.
func timeSeries(name string, timeline []time.Time, values []float64, style chart.Style) chart.TimeSeries {
	if len(timeline) == 1 {
		t2 := timeline[0].Add(time.Minute)
		return chart.TimeSeries{
			Name:    name,
			XValues: []time.Time{timeline[0], t2},
			YValues: []float64{values[0], values[0]},
			Style:   style,
		}
	}
	return chart.TimeSeries{Name: name, XValues: timeline, YValues: values, Style: style}
}
