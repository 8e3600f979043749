package batch

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/dpup/shapetools/internal/lib/geo"
)

// ErrUndefined is returned by a ParameterSource that has no value for a
// parameter. Optional parameters then fall back to their defaults.
var ErrUndefined = errors.New("parameter not defined")

// ParameterSource resolves a shape parameter for one feature.
type ParameterSource interface {
	Evaluate(paramID string, f Feature) (float64, error)
}

// Declarer is implemented by sources that know up front which parameters
// they can answer, so a job can reject unknown names before any feature is
// read.
type Declarer interface {
	Declared() []string
}

// Constant answers every feature with the same values.
type Constant map[string]float64

func (c Constant) Evaluate(paramID string, _ Feature) (float64, error) {
	v, ok := c[paramID]
	if !ok {
		return 0, errors.Wrapf(ErrUndefined, "%s", paramID)
	}
	return v, nil
}

func (c Constant) Declared() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Fields reads parameters from feature properties. Columns maps a parameter
// to the property holding it. A property that is absent or null falls back to
// Defaults; a property that is present but not a number is an invalid
// parameter for that feature.
type Fields struct {
	Columns  map[string]string
	Defaults Constant
}

func (s Fields) Evaluate(paramID string, f Feature) (float64, error) {
	if col, ok := s.Columns[paramID]; ok {
		if raw, present := f.Properties[col]; present && raw != nil {
			v, err := toFloat(raw)
			if err != nil {
				return 0, errors.Wrapf(err, "property %q", col)
			}
			return v, nil
		}
	}
	return s.Defaults.Evaluate(paramID, f)
}

func (s Fields) Declared() []string {
	seen := map[string]bool{}
	for n := range s.Columns {
		seen[n] = true
	}
	for n := range s.Defaults {
		seen[n] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseColumns reads "param=property" pairs.
func ParseColumns(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" || v == "" {
			return nil, geo.Invalidf("field mapping %q is not param=property", p)
		}
		out[k] = v
	}
	return out, nil
}

func toFloat(raw interface{}) (float64, error) {
	var v float64
	switch x := raw.(type) {
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int64:
		v = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, geo.Invalidf("%q is not a valid number", x.String())
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, geo.Invalidf("%q is not a valid number", x)
		}
		v = f
	default:
		return 0, geo.Invalidf("%T is not a number", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, geo.Invalidf("%v is not a finite number", v)
	}
	return v, nil
}
