package analysis

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderReport writes an HTML page with the evaluation reward and the network
// depth of every phase, indexed by the total steps trained.
func RenderReport(w io.Writer, title string, h *PhaseHistory) error {
	data := h.dataSet()

	steps := make([]string, len(data.Timesteps))
	for i, t := range data.Timesteps {
		steps[i] = fmt.Sprintf("%d", t)
	}
	rewards := make([]opts.LineData, len(data.Rewards))
	for i, r := range data.Rewards {
		rewards[i] = opts.LineData{Value: r}
	}
	depths := make([]opts.LineData, len(data.Depths))
	for i, d := range data.Depths {
		depths[i] = opts.LineData{Value: d}
	}

	reward := charts.NewLine()
	reward.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "evaluation reward per phase",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "steps"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "reward"}),
	)
	reward.SetXAxis(steps).AddSeries("reward", rewards)

	depth := charts.NewLine()
	depth.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "hidden layers after each phase",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "steps"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "layers"}),
	)
	depth.SetXAxis(steps).AddSeries("depth", depths)

	page := components.NewPage()
	page.AddCharts(reward, depth)
	return page.Render(w)
}

// SaveReport renders the report to an HTML file at path.
func SaveReport(path, title string, h *PhaseHistory) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return RenderReport(f, title, h)
}
