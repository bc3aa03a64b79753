package journal

import (
	"errors"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WriteEquityPNG draws an equity curve to path. Points with dates are plotted
// against time; an undated curve is plotted against step number. The
// starting capital is drawn as a dashed reference line.
func WriteEquityPNG(path, title string, points []EquityPoint) error {
	if len(points) == 0 {
		return errors.New("empty equity curve")
	}

	dated := true
	for _, p := range points {
		if p.Date.IsZero() {
			dated = false
			break
		}
	}

	pts := make(plotter.XYs, len(points))
	for i, p := range points {
		if dated {
			pts[i].X = float64(p.Date.Unix())
		} else {
			pts[i].X = float64(p.Seq)
		}
		pts[i].Y = p.Value
	}

	pl := plot.New()
	pl.Title.Text = title
	pl.Y.Label.Text = "Equity"
	if dated {
		pl.X.Label.Text = "Date"
		pl.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	} else {
		pl.X.Label.Text = "Step"
	}

	pl.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{R: 0, G: 128, B: 255, A: 255}
	line.Width = vg.Points(1.5)

	base, err := plotter.NewLine(plotter.XYs{
		{X: pts[0].X, Y: pts[0].Y},
		{X: pts[len(pts)-1].X, Y: pts[0].Y},
	})
	if err != nil {
		return err
	}
	base.Color = color.RGBA{R: 128, G: 128, B: 128, A: 160}
	base.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}

	pl.Add(line, base)

	return pl.Save(8*vg.Inch, 4*vg.Inch, path)
}
