package render

import (
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/turtacn/qsim/internal/domain/molecule"
)

// bondCutoff is the distance in Ångström under which two atoms are joined.
const bondCutoff = 3.0

const (
	imagePadding = 60
	defaultColor = "#FF1493"
	defaultRad   = 14
)

var elementColors = map[string]string{
	"H":  "#FFFFFF",
	"C":  "#000000",
	"N":  "#0000FF",
	"O":  "#FF0000",
	"F":  "#00FF00",
	"P":  "#FFA500",
	"S":  "#FFFF00",
	"Cl": "#00FFFF",
	"Li": "#CC80FF",
	"Be": "#C2FF00",
	"B":  "#FFB5B5",
}

var elementRadii = map[string]int{
	"H":  12,
	"C":  16,
	"N":  14,
	"O":  13,
	"F":  12,
	"P":  18,
	"S":  15,
	"Cl": 16,
	"Li": 18,
	"Be": 14,
	"B":  15,
}

func colorOf(element string) string {
	if c, ok := elementColors[element]; ok {
		return c
	}
	return defaultColor
}

func radiusOf(element string) int {
	if r, ok := elementRadii[element]; ok {
		return r
	}
	return defaultRad
}

func distance(a, b molecule.Atom) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// projection maps atom x/y onto canvas pixels, centred, y pointing up.
type projection struct {
	cx, cy     float64
	midX, midY float64
	scale      float64
}

func newProjection(atoms []molecule.Atom, size int) projection {
	minX, maxX := atoms[0].X, atoms[0].X
	minY, maxY := atoms[0].Y, atoms[0].Y
	for _, a := range atoms[1:] {
		minX, maxX = math.Min(minX, a.X), math.Max(maxX, a.X)
		minY, maxY = math.Min(minY, a.Y), math.Max(maxY, a.Y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 2
	}
	if rangeY == 0 {
		rangeY = 2
	}
	usable := float64(size - 2*imagePadding)
	return projection{
		cx:    float64(size) / 2,
		cy:    float64(size) / 2,
		midX:  (minX + maxX) / 2,
		midY:  (minY + maxY) / 2,
		scale: math.Min(usable/rangeX, usable/rangeY) * 1.2,
	}
}

func (p projection) point(a molecule.Atom) (int, int) {
	x := p.cx + (a.X-p.midX)*p.scale
	y := p.cy - (a.Y-p.midY)*p.scale
	return int(math.Round(x)), int(math.Round(y))
}

// MoleculeImage draws m as a ball-and-stick SVG.  The z coordinate only
// affects bonding.
func (r *Renderer) MoleculeImage(m *molecule.Molecule) (string, error) {
	size := r.imageSize
	return draw(size, size, func(canvas *svg.SVG) {
		canvas.Rect(0, 0, size, size, "fill:white;stroke:#ddd")
		if m.AtomCount() == 0 {
			canvas.Text(size/2, size/2, "No atoms", "text-anchor:middle;font-size:16px;fill:#666")
			return
		}

		atoms := m.Atoms
		proj := newProjection(atoms, size)

		canvas.Gstyle("stroke:#333;stroke-width:2;opacity:0.8")
		for i := range atoms {
			for j := i + 1; j < len(atoms); j++ {
				if distance(atoms[i], atoms[j]) < bondCutoff {
					x1, y1 := proj.point(atoms[i])
					x2, y2 := proj.point(atoms[j])
					canvas.Line(x1, y1, x2, y2)
				}
			}
		}
		canvas.Gend()

		for _, a := range atoms {
			x, y := proj.point(a)
			color := colorOf(a.Element)
			canvas.Circle(x, y, radiusOf(a.Element), fmt.Sprintf("fill:%s;stroke:#333;stroke-width:1.5", color))
			label := "#FFF"
			if a.Element == "H" || color == "#FFFFFF" {
				label = "#000"
			}
			canvas.Text(x, y+4, a.Element,
				fmt.Sprintf("text-anchor:middle;font-family:Arial,sans-serif;font-size:12px;font-weight:bold;fill:%s", label))
		}

		canvas.Text(20, 30, fmt.Sprintf("%s (%d atoms)", m.Name(), m.AtomCount()),
			"font-family:Arial,sans-serif;font-size:14px;font-weight:bold;fill:#333")
	}), nil
}

//Personal.AI order the ending
