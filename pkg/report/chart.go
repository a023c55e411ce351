package report

import (
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/cryptoexperts/vraps-go/internal/enum"
)

// WriteHistogramChart renders a histogram as a PNG bar chart (SPEC_FULL.md
// §8 "--chart-out"), one bar per coefficient c[i]. This is the same
// "tool prints a report, optionally as a chart" shape the teacher's
// cmd/bench reaches for go-chart/v2 to implement for its HTML report
// format — here applied to the leakage polynomial's coefficients instead
// of benchmark timings.
func WriteHistogramChart(path string, title string, h enum.Histogram) error {
	bars := make([]chart.Value, len(h))
	for i, c := range h {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("c[%d]", i),
			Value: float64(c),
		}
	}

	graph := chart.BarChart{
		Title:  title,
		Width:  640,
		Height: 480,
		Bars:   bars,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file %s: %w", path, err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render histogram chart: %w", err)
	}
	return nil
}
