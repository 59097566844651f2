// Package molecule holds the atom/molecule input model shared by the
// simulation pipeline: the value types callers submit, their validation, and
// the canonical fingerprint that keys cached simulation results.
package molecule

import (
	"strings"
)

// UnknownName is reported for a molecule that has no atoms.
const UnknownName = "Unknown"

// ─────────────────────────────────────────────────────────────────────────────
// Element set
// ─────────────────────────────────────────────────────────────────────────────

// Elements lists the accepted element symbols, hydrogen through calcium.
var Elements = []string{
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
}

var elementSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Elements))
	for _, e := range Elements {
		m[e] = struct{}{}
	}
	return m
}()

// IsValidElement reports whether symbol is in the accepted element set.
// Matching is case-sensitive: "h" and "HE" are rejected.
func IsValidElement(symbol string) bool {
	_, ok := elementSet[symbol]
	return ok
}

// ─────────────────────────────────────────────────────────────────────────────
// Value types
// ─────────────────────────────────────────────────────────────────────────────

// Atom is one atom position in Ångström.
type Atom struct {
	Element string  `json:"element"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

// Molecule is a simulation request: an ordered atom list plus total charge and
// spin multiplicity.  Atom order is significant for naming and rendering but
// not for the fingerprint.
type Molecule struct {
	Atoms  []Atom `json:"atoms"`
	Charge int    `json:"charge"`
	Spin   int    `json:"spin"`
}

// AtomCount returns the number of atoms.
func (m *Molecule) AtomCount() int {
	if m == nil {
		return 0
	}
	return len(m.Atoms)
}

// ElementSymbols returns the element symbols in input order.
func (m *Molecule) ElementSymbols() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.Atoms))
	for i, a := range m.Atoms {
		out[i] = a.Element
	}
	return out
}

// Name concatenates the element symbols in input order ("HOH" for water
// given as H, O, H).  An empty molecule is named UnknownName.
func (m *Molecule) Name() string {
	if m.AtomCount() == 0 {
		return UnknownName
	}
	return strings.Join(m.ElementSymbols(), "")
}

//Personal.AI order the ending
