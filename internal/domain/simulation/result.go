package simulation

// DipoleMoment is the mocked dipole vector in Debye.
type DipoleMoment struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Total float64 `json:"total"`
}

// Result is the payload of one simulation.  It is what the result cache
// stores; the transport adds status, source and cached_at around it.
//
// Distances and EnergyValues are either both absent or of equal length.
type Result struct {
	MoleculeName    string        `json:"molecule_name"`
	QubitCount      int           `json:"qubit_count"`
	AnsatzType      string        `json:"ansatz_type"`
	ExactEnergy     float64       `json:"exact_energy"`
	VQEEnergy       float64       `json:"vqe_energy"`
	Distances       []float64     `json:"distances,omitempty"`
	EnergyValues    []float64     `json:"energy_values,omitempty"`
	DipoleMoment    *DipoleMoment `json:"dipole_moment,omitempty"`
	OrbitalEnergies []float64     `json:"orbital_energies,omitempty"`

	// Set by the simulation service on fresh computations.
	MoleculeImage string   `json:"molecule_image,omitempty"`
	EnergyPlot    string   `json:"energy_plot,omitempty"`
	Elements      []string `json:"elements,omitempty"`
	Suggestion    string   `json:"suggestion,omitempty"`
}

// HasCurve reports whether the result carries a non-empty, well-formed
// energy curve.
func (r *Result) HasCurve() bool {
	return r != nil && len(r.Distances) > 0 && len(r.Distances) == len(r.EnergyValues)
}

//Personal.AI order the ending
