/*
NAME
  sink.go

DESCRIPTION
  sink.go implements the HTML/debug trace sink of spec.md §1: write-only
  logging of intermediate tracking values, rendered as a small per-
  controller HTML page with a PNG plot of q1/q2 history and a summary line
  giving frame count, mean fps and tracked fraction.
  gonum.org/v1/plot is carried in the teacher module's go.mod but never
  imported by its source; this is where that dependency earns its keep.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tracehtml renders per-controller tracking history as an HTML
// debug page, for offline inspection of a tracking session.
package tracehtml

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ausocean/utils/logging"
)

const pkg = "tracehtml: "

// Sample is one frame's worth of trace data for a single controller.
type Sample struct {
	FrameIndex  int
	Q1, Q2, Q3  float64
	FPS         float64
	IsTracked   bool
}

// Sink accumulates Samples per controller and renders them to disk on
// Flush. It is write-only: nothing reads the accumulated history back
// into the tracker.
type Sink struct {
	dir     string
	log     logging.Logger
	history map[string][]Sample
}

// New returns a Sink that writes under dir, creating it if absent.
func New(dir string, log logging.Logger) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%smkdir: %w", pkg, err)
	}
	return &Sink{dir: dir, log: log, history: make(map[string][]Sample)}, nil
}

// Record appends a sample for the given controller id.
func (s *Sink) Record(id string, sample Sample) {
	s.history[id] = append(s.history[id], sample)
}

// Flush renders one HTML page plus one quality-history PNG per controller
// that has recorded samples, overwriting any existing files. Render
// failures are logged and skipped rather than returned, since the trace
// sink is diagnostic and must not interrupt tracking.
func (s *Sink) Flush() {
	for id, samples := range s.history {
		if len(samples) == 0 {
			continue
		}
		pngName := id + ".png"
		if err := s.renderPlot(filepath.Join(s.dir, pngName), samples); err != nil {
			s.log.Warning(pkg+"render plot failed", "controller", id, "error", err)
			continue
		}
		if err := s.renderHTML(id, pngName, samples); err != nil {
			s.log.Warning(pkg+"render html failed", "controller", id, "error", err)
		}
	}
}

func (s *Sink) renderPlot(path string, samples []Sample) error {
	p := plot.New()
	p.Title.Text = "quality scores"
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "score"

	q1pts := make(plotter.XYs, len(samples))
	q2pts := make(plotter.XYs, len(samples))
	for i, smp := range samples {
		q1pts[i] = plotter.XY{X: float64(smp.FrameIndex), Y: smp.Q1}
		q2pts[i] = plotter.XY{X: float64(smp.FrameIndex), Y: smp.Q2}
	}
	q1line, err := plotter.NewLine(q1pts)
	if err != nil {
		return fmt.Errorf("%sq1 line: %w", pkg, err)
	}
	q2line, err := plotter.NewLine(q2pts)
	if err != nil {
		return fmt.Errorf("%sq2 line: %w", pkg, err)
	}
	p.Add(q1line, q2line)
	p.Legend.Add("q1", q1line)
	p.Legend.Add("q2", q2line)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

const pageTmpl = `<!DOCTYPE html>
<html><head><title>{{.ID}} trace</title></head>
<body>
<h1>{{.ID}}</h1>
<p>frames: {{.Count}}, mean fps: {{printf "%.1f" .MeanFPS}}, tracked fraction: {{printf "%.2f" .TrackedFrac}}</p>
<img src="{{.PNG}}" alt="quality history">
</body></html>
`

var page = template.Must(template.New("trace").Parse(pageTmpl))

func (s *Sink) renderHTML(id, pngName string, samples []Sample) error {
	fps := make([]float64, len(samples))
	tracked := 0
	for i, smp := range samples {
		fps[i] = smp.FPS
		if smp.IsTracked {
			tracked++
		}
	}

	f, err := os.Create(filepath.Join(s.dir, id+".html"))
	if err != nil {
		return fmt.Errorf("%screate html: %w", pkg, err)
	}
	defer f.Close()

	data := struct {
		ID          string
		Count       int
		MeanFPS     float64
		TrackedFrac float64
		PNG         string
	}{
		ID:          id,
		Count:       len(samples),
		MeanFPS:     stat.Mean(fps, nil),
		TrackedFrac: float64(tracked) / float64(len(samples)),
		PNG:         pngName,
	}
	return page.Execute(f, data)
}
