package render

import (
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/turtacn/qsim/pkg/errors"
)

const (
	plotMarginLeft   = 70
	plotMarginRight  = 20
	plotMarginTop    = 40
	plotMarginBottom = 50
	plotTicks        = 5
)

// axis maps a data interval onto a pixel interval.
type axis struct {
	min, max   float64
	pxLo, pxHi int
}

func newAxis(values []float64, pxLo, pxHi int) axis {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if hi == lo {
		lo, hi = lo-0.5, hi+0.5
	}
	return axis{min: lo, max: hi, pxLo: pxLo, pxHi: pxHi}
}

func (a axis) pixel(v float64) int {
	frac := (v - a.min) / (a.max - a.min)
	return int(math.Round(float64(a.pxLo) + frac*float64(a.pxHi-a.pxLo)))
}

func (a axis) tick(i int) float64 {
	return a.min + (a.max-a.min)*float64(i)/float64(plotTicks-1)
}

// EnergyPlot draws energies over distances as a line chart.  The two slices
// must be non-empty, of equal length and finite.
func (r *Renderer) EnergyPlot(title string, distances, energies []float64) (string, error) {
	if len(distances) == 0 || len(distances) != len(energies) {
		return "", errors.Newf(errors.ErrCodeRenderFailed,
			"energy plot needs matching series, got %d distances and %d energies", len(distances), len(energies))
	}
	for i := range distances {
		if !finite(distances[i]) || !finite(energies[i]) {
			return "", errors.New(errors.ErrCodeRenderFailed, "energy plot series contains a non-finite value")
		}
	}

	w, h := r.plotW, r.plotH
	left, right := plotMarginLeft, w-plotMarginRight
	top, bottom := plotMarginTop, h-plotMarginBottom
	xs := newAxis(distances, left, right)
	ys := newAxis(energies, bottom, top)

	return draw(w, h, func(canvas *svg.SVG) {
		canvas.Rect(0, 0, w, h, "fill:white")
		canvas.Text(w/2, 24, "Potential Energy Surface: "+title,
			"text-anchor:middle;font-family:Arial,sans-serif;font-size:15px;font-weight:bold;fill:#333")

		canvas.Gstyle("stroke:#eee;stroke-width:1")
		for i := 0; i < plotTicks; i++ {
			y := ys.pixel(ys.tick(i))
			canvas.Line(left, y, right, y)
		}
		canvas.Gend()

		canvas.Gstyle("font-family:Arial,sans-serif;font-size:11px;fill:#555")
		for i := 0; i < plotTicks; i++ {
			xv, yv := xs.tick(i), ys.tick(i)
			canvas.Text(xs.pixel(xv), bottom+18, fmt.Sprintf("%.2f", xv), "text-anchor:middle")
			canvas.Text(left-8, ys.pixel(yv)+4, fmt.Sprintf("%.3f", yv), "text-anchor:end")
		}
		canvas.Gend()

		canvas.Line(left, bottom, right, bottom, "stroke:#333;stroke-width:1.5")
		canvas.Line(left, top, left, bottom, "stroke:#333;stroke-width:1.5")
		canvas.Text((left+right)/2, h-10, "Bond Distance (Å)", "text-anchor:middle;font-family:Arial,sans-serif;font-size:12px")
		canvas.Text(16, (top+bottom)/2, "Energy (Hartree)",
			"text-anchor:middle;font-family:Arial,sans-serif;font-size:12px;writing-mode:tb")

		px := make([]int, len(distances))
		py := make([]int, len(energies))
		for i := range distances {
			px[i], py[i] = xs.pixel(distances[i]), ys.pixel(energies[i])
		}
		canvas.Polyline(px, py, "fill:none;stroke:#1f77b4;stroke-width:2")
		for i := range px {
			canvas.Circle(px[i], py[i], 3, "fill:#1f77b4")
		}
	}), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

//Personal.AI order the ending
