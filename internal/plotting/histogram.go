// Package plotting renders histograms of sample values to image files.
package plotting

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	orionerrors "github.com/orionlab/orion/internal/errors"
)

// Range bounds the values binned into one histogram layer.
type Range struct {
	Min, Max float64
}

// Layer is one histogram drawn into a shared plot. A step layer renders an
// unfilled outline; otherwise the bars are filled with a translucent color
// from the default palette.
type Layer struct {
	Label  string
	Values []float64
	Bins   int
	Step   bool
	Range  *Range
}

// Options controls the shared plot canvas.
type Options struct {
	XLabel       string
	YLabel       string
	WidthInches  float64
	HeightInches float64
}

// SaveHistogram renders the layers into one plot and writes it to path.
// The image format follows the path extension.
func SaveHistogram(path string, layers []Layer, opts Options) error {
	if len(layers) == 0 {
		return orionerrors.NewInvalidInputError("SaveHistogram", "no histogram layers given")
	}

	p := plot.New()
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel

	for i, layer := range layers {
		values := finiteValues(layer.Values, layer.Range)
		if len(values) == 0 {
			return orionerrors.NewInvalidInputError("SaveHistogram", "no finite values for layer "+layer.Label)
		}

		h, err := plotter.NewHist(plotter.Values(values), layer.Bins)
		if err != nil {
			return orionerrors.NewInternalError("SaveHistogram", err)
		}

		if layer.Step {
			h.FillColor = nil
			h.LineStyle.Color = color.Black
			h.LineStyle.Width = vg.Points(1.5)
		} else {
			h.FillColor = translucent(plotutil.Color(i))
			h.LineStyle.Color = plotutil.Color(i)
		}
		p.Add(h)

		legendProxy := &plotter.Line{LineStyle: h.LineStyle}
		p.Legend.Add(layer.Label, legendProxy)
	}

	w := vg.Length(opts.WidthInches) * vg.Inch
	ht := vg.Length(opts.HeightInches) * vg.Inch
	if err := p.Save(w, ht, path); err != nil {
		return orionerrors.NewInternalError("SaveHistogram", err)
	}
	return nil
}

// finiteValues drops NaN and infinite entries, and entries outside the
// optional range.
func finiteValues(values []float64, r *Range) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if r != nil && (v < r.Min || v > r.Max) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// translucent lightens a palette color for filled overlays.
func translucent(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: 0x99,
	}
}
