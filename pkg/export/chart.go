package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/fleetplan/core/model"
)

// WriteChart renders an HTML page with the yearly purchases, sales and fleet
// size, overlaid with the emissions and the carbon limit.
func WriteChart(w io.Writer, title string, years []model.YearSummary) error {
	if len(years) == 0 {
		return fmt.Errorf("no yearly summary to chart")
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "units per year"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Year"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Vehicles"}),
	)

	xAxis := make([]string, 0, len(years))
	var bought, sold, fleet []opts.BarData
	var emissions, limit []opts.LineData
	for _, y := range years {
		xAxis = append(xAxis, strconv.Itoa(y.Year))
		bought = append(bought, opts.BarData{Value: y.Bought})
		sold = append(sold, opts.BarData{Value: y.Sold})
		fleet = append(fleet, opts.BarData{Value: y.Fleet})
		emissions = append(emissions, opts.LineData{Value: y.EmissionsKg / 1000})
		limit = append(limit, opts.LineData{Value: y.CarbonLimit / 1000})
	}
	bar.SetXAxis(xAxis).
		AddSeries("Bought", bought).
		AddSeries("Sold", sold).
		AddSeries("Fleet", fleet)

	line := charts.NewLine()
	line.SetXAxis(xAxis).
		AddSeries("Emissions (t)", emissions).
		AddSeries("Carbon limit (t)", limit)
	bar.Overlap(line)

	return bar.Render(w)
}

// WriteChartFile renders the chart into path.
func WriteChartFile(path, title string, years []model.YearSummary) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteChart(f, title, years)
}
