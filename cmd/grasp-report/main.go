// grasp-report renders an HTML report of recorded grasp events: one
// bar chart of committed grasps per selection mode and one scatter of
// commit distances. Point it at a database produced by graspsim.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	storage "github.com/helix-robotics/graspcore/internal/storage/sqlite"
	"github.com/helix-robotics/graspcore/internal/units"
	"github.com/helix-robotics/graspcore/internal/version"
)

func main() {
	dbPath := flag.String("db", "grasp_events.db", "Path to the SQLite event database")
	outPath := flag.String("out", "grasp_report.html", "Output HTML file")
	distUnits := flag.String("units", units.M, "Distance units for the report: "+units.GetValidUnitsString())
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if !units.IsValid(*distUnits) {
		log.Fatalf("invalid units %q, expected one of: %s", *distUnits, units.GetValidUnitsString())
	}

	db, err := storage.Open(*dbPath)
	if err != nil {
		log.Fatalf("opening event database: %v", err)
	}
	defer db.Close()
	store := storage.NewEventStore(db.DB)

	summary, err := store.SummarizeByMode()
	if err != nil {
		log.Fatalf("summarizing events: %v", err)
	}
	if len(summary) == 0 {
		fmt.Fprintln(os.Stderr, "no grasp events recorded; run graspsim first")
		os.Exit(1)
	}

	page := components.NewPage()
	page.AddCharts(graspCountChart(summary), distanceChart(store, summary, *distUnits))

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("creating report file: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("rendering report: %v", err)
	}
	fmt.Printf("wrote %s (%d modes)\n", *outPath, len(summary))
}

func graspCountChart(summary []*storage.ModeSummary) *charts.Bar {
	modes := make([]string, 0, len(summary))
	counts := make([]opts.BarData, 0, len(summary))
	for _, m := range summary {
		modes = append(modes, m.Mode)
		counts = append(counts, opts.BarData{Value: m.Grasps})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Committed Grasps", Subtitle: "per selection mode"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(modes).AddSeries("grasps", counts,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	return bar
}

func distanceChart(store *storage.EventStore, summary []*storage.ModeSummary, distUnits string) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Commit Distances", Subtitle: "end-effector to target at decision time (" + distUnits + ")"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "grasp #", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "distance (" + distUnits + ")", NameLocation: "middle", NameGap: 30}),
	)

	for _, m := range summary {
		dists, err := store.GraspDistances(m.Mode)
		if err != nil {
			log.Fatalf("loading distances for %s: %v", m.Mode, err)
		}
		data := make([]opts.ScatterData, 0, len(dists))
		for i, d := range dists {
			data = append(data, opts.ScatterData{Value: []interface{}{i + 1, units.ConvertDistance(d, distUnits)}})
		}
		scatter.AddSeries(m.Mode, data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	}
	return scatter
}
