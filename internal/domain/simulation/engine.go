// Package simulation implements the mocked quantum-chemistry calculation.
// Numbers are random within fixed envelopes; nothing here is physically
// meaningful.  The engine has no knowledge of caching or rendering.
package simulation

import (
	"fmt"
	"math"

	"github.com/turtacn/qsim/internal/domain/molecule"
)

// AnsatzUCCSD is the only ansatz the engine reports.
const AnsatzUCCSD = "UCCSD"

// curve is a hand-authored dissociation curve with a noise amplitude applied
// per point as (r-0.5)*noise.
type curve struct {
	distances []float64
	energies  []float64
	noise     float64
}

// knownCurves is keyed by molecule name (element symbols in input order) and
// only applies to diatomics.
var knownCurves = map[string]curve{
	"HH": {
		distances: []float64{0.5, 0.6, 0.7, 0.74, 0.8, 0.9, 1.0, 1.2, 1.5, 1.75, 2.0, 2.5},
		energies:  []float64{-1.05, -1.10, -1.125, -1.137, -1.13, -1.12, -1.10, -1.05, -0.98, -0.95, -0.93, -0.90},
		noise:     0.01,
	},
	"HLi": {
		distances: []float64{1.0, 1.2, 1.4, 1.59, 1.8, 2.0, 2.2, 2.5, 3.0},
		energies:  []float64{-7.8, -7.85, -7.87, -7.882, -7.875, -7.86, -7.84, -7.80, -7.75},
		noise:     0.005,
	},
}

// genericCurvePoints is the length of the synthetic curve used for any
// molecule without a hand-authored one.
const genericCurvePoints = 10

// Engine produces mocked simulation results.  It is safe for concurrent use
// when its RandomSource is.
type Engine struct {
	rnd RandomSource
}

// NewEngine returns an Engine drawing from rnd.  A nil rnd gets a
// clock-seeded locked source.
func NewEngine(rnd RandomSource) *Engine {
	if rnd == nil {
		rnd = NewLockedSource(0)
	}
	return &Engine{rnd: rnd}
}

// Simulate computes a result for m.  The molecule is expected to be
// validated; an empty molecule still yields a result named "Unknown".
func (e *Engine) Simulate(m *molecule.Molecule) (*Result, error) {
	if e == nil || e.rnd == nil {
		return nil, fmt.Errorf("simulation engine not initialised")
	}

	n := m.AtomCount()
	nf := float64(n)
	name := m.Name()

	res := &Result{
		MoleculeName: name,
		QubitCount:   2*n + e.rnd.Intn(4),
		AnsatzType:   AnsatzUCCSD,
		ExactEnergy:  -1.137 * nf * (0.85 + 0.3*e.rnd.Float64()),
	}
	res.VQEEnergy = -1.136*nf*(0.85+0.3*e.rnd.Float64()) - 0.01*e.rnd.Float64()

	if c, ok := knownCurves[name]; ok && n == 2 {
		res.Distances = append([]float64(nil), c.distances...)
		res.EnergyValues = make([]float64, len(c.energies))
		for i, v := range c.energies {
			res.EnergyValues[i] = v + (e.rnd.Float64()-0.5)*c.noise
		}
	} else {
		res.Distances = make([]float64, genericCurvePoints)
		res.EnergyValues = make([]float64, genericCurvePoints)
		for i := 0; i < genericCurvePoints; i++ {
			d := float64(i - 4)
			res.Distances[i] = 0.8 + 0.2*float64(i)
			res.EnergyValues[i] = -nf*(1+math.Exp(-d*d/2)) + 0.01*e.rnd.Float64()
		}
	}

	res.DipoleMoment = &DipoleMoment{
		X:     (e.rnd.Float64() - 0.5) * 2,
		Y:     (e.rnd.Float64() - 0.5) * 2,
		Z:     (e.rnd.Float64() - 0.5) * 2,
		Total: 3 * e.rnd.Float64(),
	}

	res.OrbitalEnergies = make([]float64, n)
	for i := range res.OrbitalEnergies {
		res.OrbitalEnergies[i] = -10 * e.rnd.Float64()
	}
	return res, nil
}

//Personal.AI order the ending
