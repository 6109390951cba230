// Package report builds the HTML diagnostics page: a coverage-ratio
// scatter over calibrated tensors and a theoretical-vs-measured error
// line chart with a mark-line at the claimed bound, via go-echarts.
package report

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// CoveragePoint is one tensor's calibration coverage ratio.
type CoveragePoint struct {
	TensorName string
	Coverage   float64
}

// LayerErrorPoint pairs one layer's theoretical error bound with its
// measured maximum deviation.
type LayerErrorPoint struct {
	LayerName   string
	Theoretical float64
	Measured    float64
}

// Build renders the diagnostics page to w.
func Build(w io.Writer, coverage []CoveragePoint, layerErrors []LayerErrorPoint, totalBound float64) error {
	page := components.NewPage().SetPageTitle("Certifiable-Quant Diagnostics")
	page.AddCharts(coverageScatter(coverage), errorLine(layerErrors, totalBound))
	return page.Render(w)
}

func coverageScatter(points []CoveragePoint) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Tensor Coverage Ratios"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Tensor", Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Coverage", Type: "value"}),
	)

	names := make([]string, len(points))
	data := make([]opts.ScatterData, len(points))
	for i, p := range points {
		names[i] = p.TensorName
		data[i] = opts.ScatterData{Value: p.Coverage}
	}
	sc.SetXAxis(names).AddSeries("coverage", data,
		charts.WithScatterChartOpts(opts.ScatterChart{Symbol: "circle", SymbolSize: 8}),
	)
	return sc
}

func errorLine(points []LayerErrorPoint, totalBound float64) *charts.Line {
	ln := charts.NewLine()
	ln.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Theoretical vs. Measured Error"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Layer", Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "L-infinity error", Type: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	names := make([]string, len(points))
	theoretical := make([]opts.LineData, len(points))
	measured := make([]opts.LineData, len(points))
	for i, p := range points {
		names[i] = p.LayerName
		theoretical[i] = opts.LineData{Value: p.Theoretical}
		measured[i] = opts.LineData{Value: p.Measured}
	}

	ln.SetXAxis(names).
		AddSeries("theoretical bound", theoretical).
		AddSeries("measured", measured,
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
				Name:  "total bound",
				YAxis: totalBound,
			}),
			charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
				Label:     &opts.Label{Show: opts.Bool(true)},
				LineStyle: &opts.LineStyle{Type: "dashed", Width: 1},
			}),
		)
	return ln
}
