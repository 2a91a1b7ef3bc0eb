package stdlib

import (
	"math"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/diagnostics"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/evaluator"
)

// RegisterDefaults adds all built-in natives.
func RegisterDefaults(r *Registry) {
	// Arrays
	r.Register(Fn{Name: "len", Arity: 1, Execute: nativeLen})

	// Conversions
	r.Register(Fn{Name: "int", Arity: 1, Execute: nativeInt})
	r.Register(Fn{Name: "float", Arity: 1, Execute: nativeFloat})

	// Math
	r.Register(Fn{Name: "abs", Arity: 1, Execute: nativeAbs})
	r.Register(Fn{Name: "sqrt", Arity: 1, Execute: nativeSqrt})
	r.Register(Fn{Name: "min", Arity: 2, Execute: nativeMin})
	r.Register(Fn{Name: "max", Arity: 2, Execute: nativeMax})
}

func typeError(fn string, v evaluator.Value) error {
	return evaluator.Errorf(diagnostics.EType, "%s: expected a number, got %s", fn, evaluator.TypeName(v))
}

// len(a) → number of elements of array a
func nativeLen(args []evaluator.Value) (evaluator.Value, error) {
	arr, ok := args[0].(*evaluator.Array)
	if !ok {
		return nil, evaluator.Errorf(diagnostics.EType, "len: expected an array, got %s", evaluator.TypeName(args[0]))
	}
	return evaluator.Int(len(arr.Items)), nil
}

// int(x) → x truncated toward zero
func nativeInt(args []evaluator.Value) (evaluator.Value, error) {
	switch v := args[0].(type) {
	case evaluator.Int:
		return v, nil
	case evaluator.Float:
		f := math.Trunc(float64(v))
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, evaluator.Errorf(diagnostics.EType, "int: %s is not representable as an int", evaluator.FormatFloat(float64(v)))
		}
		return evaluator.Int(int64(f)), nil
	}
	return nil, typeError("int", args[0])
}

// float(x) → x as a float
func nativeFloat(args []evaluator.Value) (evaluator.Value, error) {
	f, ok := evaluator.ToFloat(args[0])
	if !ok {
		return nil, typeError("float", args[0])
	}
	return evaluator.Float(f), nil
}
