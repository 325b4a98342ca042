// Package chart renders an SGPA trend as a PNG line chart.
package chart

import (
	"io"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"gpatracker/internal/service"
)

const (
	Width  = 960
	Height = 540

	title      = "SGPA Growth / Downfall Trend"
	emptyTitle = "No data yet - submit marks to see the trend"
)

// RenderTrend draws trend to w. Only present points are plotted, joined in
// slot order, each annotated with its value to one decimal. An empty trend
// produces a placeholder image.
func RenderTrend(w io.Writer, trend service.Trend) error {
	graph := chart.Chart{
		Width:  Width,
		Height: Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 30, Bottom: 20},
		},
	}

	if trend.Empty() {
		graph.Title = emptyTitle
		graph.XAxis = chart.XAxis{Style: chart.Style{Hidden: true}}
		graph.YAxis = chart.YAxis{Style: chart.Style{Hidden: true}}
		graph.Series = []chart.Series{placeholderSeries()}
		return errors.Wrap(graph.Render(chart.PNG, w), "render empty trend")
	}

	ticks := make([]chart.Tick, 0, len(trend.Points))
	for _, p := range trend.Points {
		ticks = append(ticks, chart.Tick{Value: float64(p.Index), Label: p.Label})
	}

	plotted := trend.Plotted()
	xs := make([]float64, 0, len(plotted))
	ys := make([]float64, 0, len(plotted))
	annotations := make([]chart.Value2, 0, len(plotted))
	for _, p := range plotted {
		xs = append(xs, float64(p.Index))
		ys = append(ys, p.SGPA)
		annotations = append(annotations, chart.Value2{XValue: float64(p.Index), YValue: p.SGPA, Label: p.Annotation()})
	}

	graph.Title = title
	graph.XAxis = chart.XAxis{
		Name:           "Semester (Year-Sem)",
		Ticks:          ticks,
		Range:          &chart.ContinuousRange{Min: -0.5, Max: float64(len(trend.Points)) - 0.5},
		GridMajorStyle: gridStyle(),
	}
	graph.YAxis = chart.YAxis{
		Name:           "SGPA",
		Range:          &chart.ContinuousRange{Min: 0, Max: 10},
		GridMajorStyle: gridStyle(),
	}
	graph.Series = []chart.Series{
		chart.ContinuousSeries{
			Name:    "SGPA",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: 2,
				StrokeColor: chart.ColorBlue,
				DotWidth:    5,
				DotColor:    chart.ColorBlue,
			},
		},
		chart.AnnotationSeries{Annotations: annotations},
	}

	return errors.Wrap(graph.Render(chart.PNG, w), "render trend")
}

func gridStyle() chart.Style {
	return chart.Style{
		StrokeColor:     drawing.ColorFromHex("cccccc"),
		StrokeWidth:     1,
		StrokeDashArray: []float64{4, 4},
	}
}

// placeholderSeries is an invisible series; the renderer refuses charts
// without a visible series.
func placeholderSeries() chart.Series {
	return chart.ContinuousSeries{
		XValues: []float64{0, 1},
		YValues: []float64{0, 1},
		Style: chart.Style{
			StrokeColor: drawing.ColorTransparent,
			StrokeWidth: 1,
		},
	}
}
