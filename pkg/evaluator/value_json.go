package evaluator

import (
	"encoding/json"
	"math"
)

// ValueToJSON marshals a Value to JSON bytes. Floats are written in their
// print form, as a number when finite and as a string otherwise.
func ValueToJSON(v Value) ([]byte, error) {
	return json.Marshal(valueToRaw(v))
}

// EnvToJSON marshals the bindings of env's own scope as a JSON object with
// sorted keys.
func EnvToJSON(env *Env) ([]byte, error) {
	raw := make(map[string]any, len(env.bindings))
	for name, v := range env.bindings {
		raw[name] = valueToRaw(v)
	}
	return json.Marshal(raw)
}

func valueToRaw(v Value) any {
	switch val := v.(type) {
	case Int:
		return int64(val)

	case Float:
		f := float64(val)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return FormatFloat(f)
		}
		// print form keeps whole floats distinct from ints: 2.0, not 2
		return json.Number(FormatFloat(f))

	case *Array:
		items := make([]any, len(val.Items))
		for i, item := range val.Items {
			items[i] = valueToRaw(item)
		}
		return items
	}

	return nil
}
