package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"holidaze-server/availability"
)

// PlotOccupancy renders a stacked bar chart of free vs taken days per month as HTML.
func PlotOccupancy(w io.Writer, venueName string, occupancy []availability.MonthOccupancy) error {
	labels := make([]string, 0, len(occupancy))
	free := make([]opts.BarData, 0, len(occupancy))
	taken := make([]opts.BarData, 0, len(occupancy))
	for _, m := range occupancy {
		labels = append(labels, m.Label)
		free = append(free, opts.BarData{Value: m.Free})
		taken = append(taken, opts.BarData{Value: m.Taken})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Occupancy",
			Width:     "800px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    venueName,
			Subtitle: "Free and booked days per month",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	bar.SetXAxis(labels).
		AddSeries("Free", free, charts.WithBarChartOpts(opts.BarChart{Stack: "days"})).
		AddSeries("Taken", taken, charts.WithBarChartOpts(opts.BarChart{Stack: "days"}))

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render occupancy chart: %w", err)
	}
	return nil
}
