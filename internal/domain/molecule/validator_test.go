package molecule

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/qsim/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mol  *Molecule
		code errors.ErrorCode
	}{
		{"nil", nil, errors.ErrCodeEmptyAtomList},
		{"empty", &Molecule{}, errors.ErrCodeEmptyAtomList},
		{"bad element", &Molecule{Atoms: []Atom{{Element: "Xx"}}}, errors.ErrCodeInvalidElement},
		{"lower case", &Molecule{Atoms: []Atom{{Element: "h"}}}, errors.ErrCodeInvalidElement},
		{"nan", &Molecule{Atoms: []Atom{{Element: "H", X: math.NaN()}}}, errors.ErrCodeInvalidCoordinate},
		{"inf", &Molecule{Atoms: []Atom{{Element: "H", Z: math.Inf(-1)}}}, errors.ErrCodeInvalidCoordinate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.mol)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), err.Error())
			assert.True(t, errors.IsClientError(errors.GetCode(err)))
		})
	}

	assert.NoError(t, Validate(water()))
}

func TestValidate_ElementMessage(t *testing.T) {
	err := Validate(&Molecule{Atoms: []Atom{{Element: "H"}, {Element: "Xx"}}})
	var ae *errors.AppError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "Invalid element symbol: Xx", ae.Message)
}

func TestDecodeMolecule_Valid(t *testing.T) {
	body := `{"atoms":[{"element":"H","x":0,"y":0,"z":0},{"element":"H","x":0,"y":0,"z":0.74}],"charge":0,"spin":0}`
	m, err := DecodeMolecule([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, 2, m.AtomCount())
	assert.Equal(t, 0.74, m.Atoms[1].Z)
	assert.Equal(t, "HH", m.Name())
}

func TestDecodeMolecule_DefaultsChargeAndSpin(t *testing.T) {
	m, err := DecodeMolecule([]byte(`{"atoms":[{"element":"Li","x":0,"y":0,"z":0}]}`))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Charge)
	assert.Equal(t, 0, m.Spin)

	m, err = DecodeMolecule([]byte(`{"atoms":[{"element":"Li","x":0,"y":0,"z":0}],"charge":null,"spin":2}`))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Charge)
	assert.Equal(t, 2, m.Spin)
}

func TestDecodeMolecule_Rejections(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.ErrorCode
	}{
		{"malformed", `{"atoms":`, errors.ErrCodeInvalidMoleculeBody},
		{"array body", `[1,2]`, errors.ErrCodeEmptyAtomList},
		{"null body", `null`, errors.ErrCodeEmptyAtomList},
		{"no atoms", `{}`, errors.ErrCodeEmptyAtomList},
		{"atoms not array", `{"atoms":{"element":"H"}}`, errors.ErrCodeEmptyAtomList},
		{"empty atoms", `{"atoms":[]}`, errors.ErrCodeEmptyAtomList},
		{"atom not object", `{"atoms":[5]}`, errors.ErrCodeInvalidCoordinate},
		{"missing element", `{"atoms":[{"x":0,"y":0,"z":0}]}`, errors.ErrCodeInvalidElement},
		{"numeric element", `{"atoms":[{"element":1,"x":0,"y":0,"z":0}]}`, errors.ErrCodeInvalidElement},
		{"unknown element", `{"atoms":[{"element":"Xx","x":0,"y":0,"z":0}]}`, errors.ErrCodeInvalidElement},
		{"missing z", `{"atoms":[{"element":"H","x":0,"y":0}]}`, errors.ErrCodeInvalidCoordinate},
		{"string x", `{"atoms":[{"element":"H","x":"0","y":0,"z":0}]}`, errors.ErrCodeInvalidCoordinate},
		{"null y", `{"atoms":[{"element":"H","x":0,"y":null,"z":0}]}`, errors.ErrCodeInvalidCoordinate},
		{"string charge", `{"atoms":[{"element":"H","x":0,"y":0,"z":0}],"charge":"0"}`, errors.ErrCodeInvalidChargeOrSpin},
		{"bool spin", `{"atoms":[{"element":"H","x":0,"y":0,"z":0}],"spin":true}`, errors.ErrCodeInvalidChargeOrSpin},
		{"fractional spin", `{"atoms":[{"element":"H","x":0,"y":0,"z":0}],"spin":0.5}`, errors.ErrCodeInvalidChargeOrSpin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := DecodeMolecule([]byte(tt.body))
			assert.Nil(t, m)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), err.Error())
			assert.Equal(t, 400, errors.HTTPStatusForCode(errors.GetCode(err)))
		})
	}
}

func TestDecodeMolecule_EmptyAtomsMessage(t *testing.T) {
	_, err := DecodeMolecule([]byte(`{"atoms":[]}`))
	var ae *errors.AppError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "Invalid molecule input. Atoms array is required.", ae.Message)
}

func TestDecodeMolecule_WholeNumberFloatAccepted(t *testing.T) {
	m, err := DecodeMolecule([]byte(`{"atoms":[{"element":"H","x":0,"y":0,"z":0}],"charge":1.0,"spin":-2}`))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Charge)
	assert.Equal(t, -2, m.Spin)
}

//Personal.AI order the ending
