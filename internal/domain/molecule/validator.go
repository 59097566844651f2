package molecule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/turtacn/qsim/pkg/errors"
)

// Messages returned to callers for rejected input.
const (
	MsgAtomsRequired   = "Invalid molecule input. Atoms array is required."
	MsgAtomStructure   = "Invalid atom structure. Each atom must have element, x, y, z."
	MsgChargeSpinType  = "Charge and spin must be numbers."
	MsgChargeSpinWhole = "Charge and spin must be integers."
)

// ─────────────────────────────────────────────────────────────────────────────
// Validation of constructed values
// ─────────────────────────────────────────────────────────────────────────────

// Validate checks a Molecule built in code (CLI flags, tests, SDK callers).
// JSON input goes through DecodeMolecule, which applies the same rules plus
// type checks.
func Validate(m *Molecule) error {
	if m == nil || len(m.Atoms) == 0 {
		return errors.New(errors.ErrCodeEmptyAtomList, MsgAtomsRequired)
	}
	for i := range m.Atoms {
		if err := validateAtom(&m.Atoms[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateAtom(a *Atom) error {
	if !IsValidElement(a.Element) {
		return errors.Newf(errors.ErrCodeInvalidElement, "Invalid element symbol: %s", a.Element)
	}
	for _, v := range [3]float64{a.X, a.Y, a.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Newf(errors.ErrCodeInvalidCoordinate, "Invalid coordinates for atom %s", a.Element)
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Decoding from JSON
// ─────────────────────────────────────────────────────────────────────────────

// DecodeMolecule parses a request body into a validated Molecule.
//
// Decoding is field-by-field from raw JSON so that a string coordinate or a
// fractional spin is reported with its own error code instead of a generic
// decode failure.  Absent or null charge and spin default to 0.
func DecodeMolecule(body []byte) (*Molecule, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		if isJSONValue(body) {
			// Valid JSON but not an object: same answer as a missing atom list.
			return nil, errors.New(errors.ErrCodeEmptyAtomList, MsgAtomsRequired)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInvalidMoleculeBody, "invalid molecule input").WithDetail(err.Error())
	}

	var rawAtoms []json.RawMessage
	if raw, ok := fields["atoms"]; !ok || json.Unmarshal(raw, &rawAtoms) != nil || len(rawAtoms) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyAtomList, MsgAtomsRequired)
	}

	m := &Molecule{Atoms: make([]Atom, 0, len(rawAtoms))}
	for _, raw := range rawAtoms {
		a, err := decodeAtom(raw)
		if err != nil {
			return nil, err
		}
		m.Atoms = append(m.Atoms, a)
	}

	var err error
	if m.Charge, err = decodeInteger(fields["charge"]); err != nil {
		return nil, err
	}
	if m.Spin, err = decodeInteger(fields["spin"]); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeAtom(raw json.RawMessage) (Atom, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Atom{}, errors.New(errors.ErrCodeInvalidCoordinate, MsgAtomStructure)
	}

	var a Atom
	elem, ok := fields["element"]
	if !ok || json.Unmarshal(elem, &a.Element) != nil || a.Element == "" {
		return Atom{}, errors.Newf(errors.ErrCodeInvalidElement, "Invalid element symbol: %s", bytes.TrimSpace(elem))
	}
	if !IsValidElement(a.Element) {
		return Atom{}, errors.Newf(errors.ErrCodeInvalidElement, "Invalid element symbol: %s", a.Element)
	}

	coords := [3]*float64{&a.X, &a.Y, &a.Z}
	for i, name := range [3]string{"x", "y", "z"} {
		v, ok := parseNumber(fields[name])
		if !ok {
			return Atom{}, errors.New(errors.ErrCodeInvalidCoordinate, MsgAtomStructure).
				WithDetail(fmt.Sprintf("atom %s: %s is not a number", a.Element, name))
		}
		*coords[i] = v
	}
	if err := validateAtom(&a); err != nil {
		return Atom{}, err
	}
	return a, nil
}

// decodeInteger reads an optional integral JSON number.  Absent and null mean 0.
func decodeInteger(raw json.RawMessage) (int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, nil
	}
	v, ok := parseNumber(trimmed)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidChargeOrSpin, MsgChargeSpinType)
	}
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, errors.New(errors.ErrCodeInvalidChargeOrSpin, MsgChargeSpinWhole).
			WithDetail(string(trimmed))
	}
	return int(v), nil
}

// parseNumber accepts a bare JSON number literal only; quoted numbers,
// booleans and null are rejected.
func parseNumber(raw json.RawMessage) (float64, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, false
	}
	if c := trimmed[0]; c != '-' && (c < '0' || c > '9') {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isJSONValue(body []byte) bool {
	var v interface{}
	return json.Unmarshal(body, &v) == nil
}

//Personal.AI order the ending
