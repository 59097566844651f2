package render

import (
	"encoding/base64"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/qsim/internal/domain/molecule"
	"github.com/turtacn/qsim/pkg/errors"
)

func decode(t *testing.T, b64 string) string {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	return string(raw)
}

func water() *molecule.Molecule {
	return &molecule.Molecule{Atoms: []molecule.Atom{
		{Element: "H", X: 0.757, Y: 0.586},
		{Element: "O"},
		{Element: "H", X: -0.757, Y: 0.586},
	}}
}

func TestMoleculeImage_Water(t *testing.T) {
	out, err := NewRenderer().MoleculeImage(water())
	require.NoError(t, err)

	doc := decode(t, out)
	assert.Contains(t, doc, `<svg width="400" height="400"`)
	assert.Contains(t, doc, "HOH (3 atoms)")
	assert.Equal(t, 3, strings.Count(doc, "<line"), "every pair is within bonding distance")
	assert.Equal(t, 3, strings.Count(doc, "<circle"))
	assert.Contains(t, doc, "fill:#FF0000", "oxygen is red")
	assert.Contains(t, doc, `r="13"`, "oxygen radius")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(doc), "</svg>"))
}

func TestMoleculeImage_NoBondBeyondCutoff(t *testing.T) {
	m := &molecule.Molecule{Atoms: []molecule.Atom{
		{Element: "Na"},
		{Element: "Cl", X: 3.5},
	}}
	out, err := NewRenderer(WithImageSize(200)).MoleculeImage(m)
	require.NoError(t, err)

	doc := decode(t, out)
	assert.Contains(t, doc, `<svg width="200" height="200"`)
	assert.Zero(t, strings.Count(doc, "<line"))
	assert.Contains(t, doc, "fill:"+defaultColor, "sodium uses the fallback color")
	assert.Contains(t, doc, "NaCl (2 atoms)")
}

func TestMoleculeImage_SingleAtomAndEmpty(t *testing.T) {
	r := NewRenderer()

	out, err := r.MoleculeImage(&molecule.Molecule{Atoms: []molecule.Atom{{Element: "He", X: 1, Y: 1}}})
	require.NoError(t, err)
	doc := decode(t, out)
	assert.Contains(t, doc, `cx="200" cy="200"`, "a lone atom is centred")

	out, err = r.MoleculeImage(&molecule.Molecule{})
	require.NoError(t, err)
	assert.Contains(t, decode(t, out), "No atoms")
}

func TestEnergyPlot(t *testing.T) {
	d := []float64{0.5, 0.74, 1.0, 1.5}
	e := []float64{-1.05, -1.137, -1.10, -0.98}

	out, err := NewRenderer().EnergyPlot("HH", d, e)
	require.NoError(t, err)

	doc := decode(t, out)
	assert.Contains(t, doc, `<svg width="600" height="400"`)
	assert.Contains(t, doc, "Potential Energy Surface: HH")
	assert.Contains(t, doc, "<polyline")
	assert.Equal(t, len(d), strings.Count(doc, "<circle"))
	assert.Contains(t, doc, "0.50")
	assert.Contains(t, doc, "1.50")
}

func TestEnergyPlot_FlatSeries(t *testing.T) {
	out, err := NewRenderer(WithPlotSize(300, 200)).EnergyPlot("X", []float64{1}, []float64{-2})
	require.NoError(t, err)
	assert.Contains(t, decode(t, out), `<svg width="300" height="200"`)
}

func TestEnergyPlot_Rejects(t *testing.T) {
	r := NewRenderer()

	_, err := r.EnergyPlot("x", nil, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRenderFailed))

	_, err = r.EnergyPlot("x", []float64{1, 2}, []float64{1})
	assert.True(t, errors.IsCode(err, errors.ErrCodeRenderFailed))

	_, err = r.EnergyPlot("x", []float64{1, 2}, []float64{1, math.NaN()})
	assert.True(t, errors.IsCode(err, errors.ErrCodeRenderFailed))
}

func TestAxis(t *testing.T) {
	a := newAxis([]float64{2, 4, 3}, 100, 300)
	assert.Equal(t, 100, a.pixel(2))
	assert.Equal(t, 300, a.pixel(4))
	assert.Equal(t, 200, a.pixel(3))
	assert.InDelta(t, 2.0, a.tick(0), 1e-12)
	assert.InDelta(t, 4.0, a.tick(plotTicks-1), 1e-12)

	inverted := newAxis([]float64{0, 1}, 350, 40)
	assert.Equal(t, 350, inverted.pixel(0))
	assert.Equal(t, 40, inverted.pixel(1))
}

//Personal.AI order the ending
