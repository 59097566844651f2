package prediction

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/turtacn/qsim/pkg/errors"
)

// Feature names read by the engine.  Any other key is accepted and echoed.
const (
	FeatureMolecularComplexity = "molecular_complexity"
	FeatureNumQubits           = "num_qubits"
	FeatureNumAtoms            = "num_atoms"
	FeatureNumElectrons        = "num_electrons"
	FeatureBasisSetSize        = "basis_set_size"
)

// MsgFeaturesRequired is returned when the features field is not an object.
const MsgFeaturesRequired = "Invalid input: features object is required."

// Features maps a feature name to a number or string.  Values are kept as
// decoded (json.Number for numbers) so the response echoes them verbatim.
type Features map[string]interface{}

// DecodeFeatures extracts the "features" object from a request body.  Anything
// other than a JSON object under that key fails with ErrCodeInvalidFeatures.
func DecodeFeatures(body []byte) (Features, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil || envelope == nil {
		return nil, errors.New(errors.ErrCodeInvalidFeatures, MsgFeaturesRequired)
	}
	raw := bytes.TrimSpace(envelope["features"])
	if len(raw) == 0 || raw[0] != '{' {
		return nil, errors.New(errors.ErrCodeInvalidFeatures, MsgFeaturesRequired)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var f Features
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidFeatures, MsgFeaturesRequired)
	}
	return f, nil
}

// Number coerces a feature value to a float64 the permissive way: numbers pass
// through, numeric strings are parsed, true is 1, a one-element array reads as
// its element, and everything else (including absent keys, NaN and zero)
// yields def.
func (f Features) Number(key string, def float64) float64 {
	v, ok := f[key]
	if !ok {
		return def
	}
	n := coerce(v)
	if n == 0 || math.IsNaN(n) {
		return def
	}
	return n
}

func coerce(v interface{}) float64 {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return math.NaN()
		}
		return n
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	case bool:
		if t {
			return 1
		}
		return 0
	case []interface{}:
		// Arrays coerce through their string form: [] and [null] are 0,
		// [5] and ["5"] are 5, a boolean element or several elements are NaN.
		switch len(t) {
		case 0:
			return 0
		case 1:
			switch e := t[0].(type) {
			case nil:
				return 0
			case bool:
				return math.NaN()
			default:
				return coerce(e)
			}
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

//Personal.AI order the ending
