// Package caster implements the cast function from a raw Go value to
// one of the FinalType targets, in three error-handling modes (strict,
// safe, defaulted) exactly as spec.md §4.4 "Caster" describes.
package caster

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/morpherhq/morpher/internal/values"
)

// Mode selects how a cast failure is handled.
type Mode int

const (
	// Strict propagates the cast error.
	Strict Mode = iota
	// Safe converts a cast failure into a nil payload (Null).
	Safe
	// Defaulted converts a cast failure into the supplied default, or
	// the type's zero default if none was supplied.
	Defaulted
)

// CastError wraps a failed strict cast with the target type and the
// offending value for diagnostics.
type CastError struct {
	Target values.FinalType
	Value  any
	Err    error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("caster: cannot cast %v (%T) to %s: %v", e.Value, e.Value, e.Target, e.Err)
}

func (e *CastError) Unwrap() error { return e.Err }

var zeroDefaults = map[values.FinalType]any{
	values.FinalString:     "",
	values.FinalInteger:    int64(0),
	values.FinalDecimal:    0.0,
	values.FinalFloat:      0.0,
	values.FinalTimestamp:  nil,
	values.FinalUnixtime:   int64(0),
	values.FinalUnixtimeMs: int64(0),
	values.FinalBool:       nil,
	values.FinalJSON:       "{}",
	values.FinalDate:       nil,
}

// Cast converts value to target under mode. A nil value (a Null
// register) is always the identity — per spec.md §4.4, "A Null-valued
// input propagates unchanged through casts".
func Cast(target values.FinalType, value any, mode Mode, defaultValue any) (any, error) {
	if value == nil {
		return nil, nil
	}

	v, err := convert(target, value)
	if err == nil {
		return v, nil
	}

	switch mode {
	case Strict:
		return nil, &CastError{Target: target, Value: value, Err: err}
	case Safe:
		return nil, nil
	case Defaulted:
		if defaultValue != nil {
			return defaultValue, nil
		}
		return zeroDefaults[target], nil
	default:
		return nil, &CastError{Target: target, Value: value, Err: fmt.Errorf("unknown cast mode %d", mode)}
	}
}

func convert(target values.FinalType, value any) (any, error) {
	switch target {
	case values.FinalString:
		return toString(value), nil
	case values.FinalInteger:
		return toInteger(value)
	case values.FinalDecimal, values.FinalFloat:
		return toFloat(value)
	case values.FinalTimestamp:
		return toTimestamp(value)
	case values.FinalUnixtime:
		return toUnixtime(value, time.Second)
	case values.FinalUnixtimeMs:
		return toUnixtime(value, time.Millisecond)
	case values.FinalBool:
		return toBool(value)
	case values.FinalJSON:
		return toJSON(value)
	case values.FinalDate:
		return toDate(value)
	default:
		return nil, fmt.Errorf("unknown final type %v", target)
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func toInteger(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to integer", value)
	}
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to float", value)
	}
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int64:
		if v == 1 {
			return true, nil
		}
		if v == 0 {
			return false, nil
		}
	case int:
		if v == 1 {
			return true, nil
		}
		if v == 0 {
			return false, nil
		}
	case float64:
		if v == 1 {
			return true, nil
		}
		if v == 0 {
			return false, nil
		}
	case string:
		switch v {
		case "true", "TRUE":
			return true, nil
		case "false", "FALSE":
			return false, nil
		}
	}
	return false, fmt.Errorf("value %v is not boolean-like", value)
}

func toJSON(value any) (string, error) {
	if f, ok := value.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return "", fmt.Errorf("cannot encode non-finite float %v as JSON", f)
	}
	b, err := json.Marshal(unwrapValueTree(value))
	if err != nil {
		return "", err
	}
	// encoding/json already leaves non-ASCII runes unescaped by
	// default, matching Python's json.dumps(ensure_ascii=False).
	return string(b), nil
}

// unwrapValueTree recursively replaces *values.Value nodes (as found
// in a List payload after Flatten/Apply) with their raw payload,
// so json.Marshal sees plain Go values.
func unwrapValueTree(v any) any {
	switch x := v.(type) {
	case *values.Value:
		return unwrapValueTree(x.Payload)
	case []*values.Value:
		out := make([]any, len(x))
		for i, it := range x {
			out[i] = unwrapValueTree(it)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, it := range x {
			out[i] = unwrapValueTree(it)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, it := range x {
			out[k] = unwrapValueTree(it)
		}
		return out
	default:
		return v
	}
}

func parseInstant(value any) (time.Time, error) {
	switch v := value.(type) {
	case string:
		return dateparse.ParseAny(v)
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case int:
		return time.Unix(int64(v), 0).UTC(), nil
	case float64:
		return time.Unix(int64(v), 0).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("cannot parse %T as a timestamp", value)
	}
}

func toTimestamp(value any) (string, error) {
	t, err := parseInstant(value)
	if err != nil {
		return "", err
	}
	// ISO-8601 without a timezone offset, matching arrow's
	// isoformat()[:-6] (which strips "+00:00").
	return t.UTC().Format("2006-01-02T15:04:05.999999"), nil
}

func toUnixtime(value any, unit time.Duration) (int64, error) {
	t, err := parseInstant(value)
	if err != nil {
		return 0, err
	}
	switch unit {
	case time.Millisecond:
		return t.UnixMilli(), nil
	default:
		return t.Unix(), nil
	}
}

func toDate(value any) (string, error) {
	t, err := parseInstant(value)
	if err != nil {
		return "", err
	}
	return t.UTC().Format("2006-01-02"), nil
}
