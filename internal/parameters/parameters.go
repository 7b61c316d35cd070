// Package parameters handles generic configuration Params, a map[string]string parsed from a configuration string
// like "expectimax,depth=3,eval=better".
package parameters

import (
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/exp/constraints"
)

// ErrInvalid is the cause of every configuration error: unparsable or out-of-range values, unknown keys.
var ErrInvalid = errors.New("invalid configuration")

// Params represent generic configuration parameters.
type Params map[string]string

// NewFromConfigString create params from user's configuration string: a comma-separated list of "key=value" or
// simply "key" (for boolean flags or module names). Spaces around keys and values are ignored.
//
// See GetParamOr and PopParamOr to parse values from this map.
func NewFromConfigString(config string) Params {
	params := make(Params)
	for _, part := range strings.Split(config, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=") // Only the first '=' separates key and value.
		params[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return params
}

// Value is the set of types that can be parsed from Params.
type Value interface {
	bool | string | constraints.Integer | constraints.Float
}

// PopParamOr is like GetParamOr, but it also deletes from the params map the retrieved parameter.
func PopParamOr[T Value](params Params, key string, defaultValue T) (T, error) {
	value, err := GetParamOr(params, key, defaultValue)
	if err != nil {
		return value, err
	}
	delete(params, key)
	return value, nil
}

// GetParamOr attempts to parse a parameter to the given type if the key is present, or returns the defaultValue
// if not.
//
// For bool types, a key without a value is interpreted as true.
func GetParamOr[T Value](params Params, key string, defaultValue T) (T, error) {
	value, exists := params[key]
	if !exists {
		return defaultValue, nil
	}
	var parsed any
	var err error
	switch any(defaultValue).(type) {
	case string:
		parsed = value
	case bool:
		switch strings.ToLower(value) {
		case "", "true", "1":
			parsed = true
		case "false", "0":
			parsed = false
		default:
			err = errors.New("not a bool")
		}
	case int:
		parsed, err = strconv.Atoi(value)
	case int64:
		parsed, err = strconv.ParseInt(value, 10, 64)
	case float32:
		var f float64
		f, err = strconv.ParseFloat(value, 32)
		parsed = float32(f)
	case float64:
		parsed, err = strconv.ParseFloat(value, 64)
	default:
		return defaultValue, errors.Wrapf(ErrInvalid, "configuration %s=%q: parsing of type %T not supported",
			key, value, defaultValue)
	}
	if err != nil {
		return defaultValue, errors.Wrapf(ErrInvalid, "configuration %s=%q can't be parsed as %T: %v",
			key, value, defaultValue, err)
	}
	return parsed.(T), nil
}

// PopOneOf finds and removes from params the one key that is in names. It is used to select a module by name.
// It returns an error if none or more than one of the names are present.
func PopOneOf(params Params, names []string) (string, error) {
	found := lo.Filter(names, func(name string, _ int) bool {
		_, ok := params[name]
		return ok
	})
	switch len(found) {
	case 0:
		return "", errors.Wrapf(ErrInvalid, "none of %q configured", names)
	case 1:
		delete(params, found[0])
		return found[0], nil
	}
	return "", errors.Wrapf(ErrInvalid, "only one of %q can be configured, got %q", names, found)
}

// CheckAllConsumed returns an error listing the keys still in params, if any.
func CheckAllConsumed(params Params) error {
	if len(params) == 0 {
		return nil
	}
	keys := lo.Keys(params)
	slices.Sort(keys)
	return errors.Wrapf(ErrInvalid, "unknown parameters \"%s\" passed", strings.Join(keys, "\", \""))
}
