package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-theremin/analysis"
	fitcommon "github.com/cwbudde/algo-theremin/internal/fitcommon"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const chartHop = 1024

// writeCharts renders an HTML page with the RMS envelope and the dominant
// pitch track of the signal, one point per hop.
func writeCharts(path string, samples []int16, sampleRate int) error {
	x := fitcommon.Int16ToFloat64(samples)

	env := analysis.Envelope(x, chartHop, chartHop)
	pitch, err := analysis.PitchTrack(x, sampleRate, 4096, chartHop)
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.AddCharts(
		newLine("RMS Envelope", sampleRate, env),
		newLine("Dominant Pitch (Hz)", sampleRate, pitch),
	)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}

func newLine(title string, sampleRate int, data []float64) *charts.Line {
	items := make([]opts.LineData, len(data))
	xLabels := make([]string, len(data))
	for i, v := range data {
		items[i] = opts.LineData{Value: v}
		xLabels[i] = fmt.Sprintf("%.2f", float64(i*chartHop)/float64(sampleRate))
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "seconds",
		}),
	)
	line.SetXAxis(xLabels).
		AddSeries("Data", items).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: false}))
	return line
}
