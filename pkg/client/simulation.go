package client

import (
	"context"
	"fmt"
	"time"
)

// Result sources reported by Simulate.
const (
	SourceCache       = "cache"
	SourceCalculation = "calculation"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Atom is one atom position in Ångström.
type Atom struct {
	Element string  `json:"element"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

// Molecule is the Simulate request body.
type Molecule struct {
	Atoms  []Atom `json:"atoms"`
	Charge int    `json:"charge"`
	Spin   int    `json:"spin"`
}

// DipoleMoment is the dipole vector in Debye.
type DipoleMoment struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Total float64 `json:"total"`
}

// SimulationResult is the Simulate response.  MoleculeImage, EnergyPlot,
// Elements and Suggestion are only present on fresh calculations.
type SimulationResult struct {
	Status          string        `json:"status"`
	Source          string        `json:"source"`
	CachedAt        *time.Time    `json:"cached_at,omitempty"`
	MoleculeName    string        `json:"molecule_name"`
	QubitCount      int           `json:"qubit_count"`
	AnsatzType      string        `json:"ansatz_type"`
	ExactEnergy     float64       `json:"exact_energy"`
	VQEEnergy       float64       `json:"vqe_energy"`
	Distances       []float64     `json:"distances,omitempty"`
	EnergyValues    []float64     `json:"energy_values,omitempty"`
	DipoleMoment    *DipoleMoment `json:"dipole_moment,omitempty"`
	OrbitalEnergies []float64     `json:"orbital_energies,omitempty"`
	MoleculeImage   string        `json:"molecule_image,omitempty"`
	EnergyPlot      string        `json:"energy_plot,omitempty"`
	Elements        []string      `json:"elements,omitempty"`
	Suggestion      string        `json:"suggestion,omitempty"`
}

// FromCache reports whether the result was served by the result cache.
func (r *SimulationResult) FromCache() bool {
	return r != nil && r.Source == SourceCache
}

// ---------------------------------------------------------------------------
// Calls
// ---------------------------------------------------------------------------

// Simulate submits a molecule to POST /api/simulate.
func (c *Client) Simulate(ctx context.Context, m *Molecule) (*SimulationResult, error) {
	if m == nil || len(m.Atoms) == 0 {
		return nil, fmt.Errorf("%w: molecule must have at least one atom", ErrInvalidArgument)
	}
	var out SimulationResult
	if err := c.post(ctx, "/api/simulate", m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
