package molecule

import (
	"sort"
	"strconv"
	"strings"
)

// fingerprintPrecision is the number of decimals kept per coordinate.
// Positions closer than 1e-4 Å therefore share a fingerprint.
const fingerprintPrecision = 4

// DeriveKey derives the cache key (fingerprint) of a molecule.
//
// Atoms are stable-sorted by element symbol (byte-wise), rendered as
// "<element><x><y>_<z>" with four decimals each, joined with ";" and followed
// by "|<charge>|<spin>".  The key is independent of atom order only up to the
// relative order of same-element atoms, which is preserved by the stable sort.
//
// The layout is kept byte-for-byte compatible with entries already stored by
// earlier deployments, including the missing separator between x and y.
func DeriveKey(m *Molecule) string {
	if m == nil {
		return "|0|0"
	}
	atoms := make([]Atom, len(m.Atoms))
	copy(atoms, m.Atoms)
	sort.SliceStable(atoms, func(i, j int) bool {
		return atoms[i].Element < atoms[j].Element
	})

	var sb strings.Builder
	for i, a := range atoms {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(a.Element)
		sb.WriteString(formatCoord(a.X))
		sb.WriteString(formatCoord(a.Y))
		sb.WriteByte('_')
		sb.WriteString(formatCoord(a.Z))
	}
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(m.Charge))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(m.Spin))
	return sb.String()
}

// formatCoord renders v with fixed precision.  Negative zero is written as
// "0.0000"; small negative values keep their sign ("-0.0000").
func formatCoord(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', fingerprintPrecision, 64)
}

//Personal.AI order the ending
