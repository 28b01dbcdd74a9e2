// Package chart exports recorded trajectories as interactive HTML charts.
package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	"github.com/mitchelldurbincs/friendseek/internal/sim/events/subscribers"
)

// ErrEmptyTrajectory is returned when there is nothing to plot
var ErrEmptyTrajectory = errors.New("trajectory has no recorded positions")

// DistanceChart builds a line chart with one series per agent: the
// Manhattan distance to the friend at every step
func DistanceChart(t subscribers.Trajectory) (*charts.Line, error) {
	if len(t.Positions) == 0 || t.NumAgents() == 0 {
		return nil, ErrEmptyTrajectory
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Distance to friend",
			Subtitle: fmt.Sprintf("episode %s, friend at %s", t.EpisodeID, t.Target.OneIndexed()),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "step"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "distance"}),
	)

	steps := make([]string, 0, len(t.Positions))
	for i := range t.Positions {
		steps = append(steps, fmt.Sprintf("%d", i))
	}
	line = line.SetXAxis(steps)

	for agent := 0; agent < t.NumAgents(); agent++ {
		distances := t.Distances(agent)
		items := make([]opts.LineData, 0, len(distances))
		for _, d := range distances {
			items = append(items, opts.LineData{Value: d})
		}
		line.AddSeries(fmt.Sprintf("Agent %d", agent+1), items)
	}

	return line, nil
}

// WriteDistanceChart renders the distance chart as an HTML page to w
func WriteDistanceChart(w io.Writer, t subscribers.Trajectory) error {
	line, err := DistanceChart(t)
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.AddCharts(line)
	if err := page.Render(w); err != nil {
		return errors.Wrap(err, "render distance chart")
	}
	return nil
}

// SaveDistanceChart writes the distance chart to path, creating the parent
// directory if needed
func SaveDistanceChart(path string, t subscribers.Trajectory) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create chart directory %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create chart file %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close chart file %s", path)
		}
	}()

	return WriteDistanceChart(f, t)
}
