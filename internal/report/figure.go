package report

import (
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"knockoffbench/internal/errors"
	"knockoffbench/internal/study"
)

// SaveFigure renders the 2x2 comparison figure and writes it as a PNG:
// power and empirical FDR against the target-FDR grid on top, bar
// comparisons between the two methods at one target level below.
func SaveFigure(path string, lasso *study.LassoOutcome, ko *study.KnockoffOutcome, level float64) error {
	agg, ok := ko.At(level)
	if !ok {
		return errors.PlotError("no knockoff aggregate at the requested target level", nil)
	}

	powerPanel, err := curvePanel("Knockoffs: Power vs Target FDR", "Power", ko, func(i int) float64 {
		return ko.Aggregates[i].Power
	}, false)
	if err != nil {
		return errors.PlotError("power panel", err)
	}

	fdrPanel, err := curvePanel("Knockoffs: FDR Control", "Empirical FDR", ko, func(i int) float64 {
		return ko.Aggregates[i].EmpiricalFDR
	}, true)
	if err != nil {
		return errors.PlotError("FDR panel", err)
	}

	powerBars, err := barPanel("Power Comparison (Target FDR=0.10)", "Power",
		lasso.Metrics.Power, agg.Power, 1)
	if err != nil {
		return errors.PlotError("power bars", err)
	}

	maxFDR := lasso.Metrics.FDP
	if agg.EmpiricalFDR > maxFDR {
		maxFDR = agg.EmpiricalFDR
	}
	fdrBars, err := barPanel("FDR Comparison (Target FDR=0.10)", "False Discovery Rate",
		lasso.Metrics.FDP, agg.EmpiricalFDR, maxFDR*1.2)
	if err != nil {
		return errors.PlotError("FDR bars", err)
	}

	return writeTiled(path, [][]*plot.Plot{
		{powerPanel, fdrPanel},
		{powerBars, fdrBars},
	})
}

// curvePanel draws one metric against the target-FDR grid, optionally
// with a dashed y=x reference line.
func curvePanel(title, yLabel string, ko *study.KnockoffOutcome, value func(int) float64, identity bool) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Target FDR"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(ko.Levels))
	for i, q := range ko.Levels {
		xys[i] = plotter.XY{X: q, Y: value(i)}
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, err
	}
	line.Width = vg.Points(2)
	line.Color = color.RGBA{R: 20, G: 80, B: 200, A: 255}
	points.GlyphStyle.Radius = vg.Points(3)
	points.GlyphStyle.Color = line.Color
	p.Add(line, points)

	if identity {
		ref := make(plotter.XYs, len(ko.Levels))
		for i, q := range ko.Levels {
			ref[i] = plotter.XY{X: q, Y: q}
		}
		ideal, err := plotter.NewLine(ref)
		if err != nil {
			return nil, err
		}
		ideal.Color = color.RGBA{R: 200, G: 30, B: 30, A: 180}
		ideal.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(ideal)
		p.Legend.Add("ideal (y=x)", ideal)
	}
	return p, nil
}

// barPanel draws the Lasso vs Knockoffs bar comparison for one metric.
func barPanel(title, yLabel string, lassoValue, koValue, yMax float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	p.Y.Min = 0
	if yMax > 0 {
		p.Y.Max = yMax
	}

	lassoBar, err := plotter.NewBarChart(plotter.Values{lassoValue}, vg.Points(40))
	if err != nil {
		return nil, err
	}
	lassoBar.Color = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	lassoBar.Offset = -vg.Points(25)

	koBar, err := plotter.NewBarChart(plotter.Values{koValue}, vg.Points(40))
	if err != nil {
		return nil, err
	}
	koBar.Color = color.RGBA{R: 20, G: 80, B: 200, A: 255}
	koBar.Offset = vg.Points(25)

	p.Add(lassoBar, koBar)
	p.Legend.Add("Lasso", lassoBar)
	p.Legend.Add("Knockoffs", koBar)
	p.Legend.Top = true
	p.NominalX("")
	return p, nil
}

// writeTiled lays the panels out on a 2x2 canvas and writes the PNG.
func writeTiled(path string, plots [][]*plot.Plot) error {
	img := vgimg.New(12*vg.Inch, 9*vg.Inch)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows: len(plots),
		Cols: len(plots[0]),
		PadX: vg.Points(12),
		PadY: vg.Points(12),
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			plots[i][j].Draw(canvases[i][j])
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.PlotError("create figure file", err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return errors.PlotError("write figure", err)
	}
	return nil
}
