package stdlib

import (
	"math"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/diagnostics"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/evaluator"
)

// abs(x) → |x|, keeping the int/float kind of x
func nativeAbs(args []evaluator.Value) (evaluator.Value, error) {
	switch v := args[0].(type) {
	case evaluator.Int:
		if v == math.MinInt64 {
			return nil, evaluator.Errorf(diagnostics.EType, "abs: %d has no int64 absolute value", int64(v))
		}
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case evaluator.Float:
		return evaluator.Float(math.Abs(float64(v))), nil
	}
	return nil, typeError("abs", args[0])
}

// sqrt(x) → float square root
func nativeSqrt(args []evaluator.Value) (evaluator.Value, error) {
	f, ok := evaluator.ToFloat(args[0])
	if !ok {
		return nil, typeError("sqrt", args[0])
	}
	if f < 0 {
		return nil, evaluator.Errorf(diagnostics.EType, "sqrt: negative argument %s", evaluator.FormatValue(args[0]))
	}
	return evaluator.Float(math.Sqrt(f)), nil
}

// min(x, y) → smaller operand; int when both are ints
func nativeMin(args []evaluator.Value) (evaluator.Value, error) {
	return pick("min", args, false)
}

// max(x, y) → larger operand; int when both are ints
func nativeMax(args []evaluator.Value) (evaluator.Value, error) {
	return pick("max", args, true)
}

func pick(name string, args []evaluator.Value, larger bool) (evaluator.Value, error) {
	x, y := args[0], args[1]
	if xi, ok := x.(evaluator.Int); ok {
		if yi, ok := y.(evaluator.Int); ok {
			if (xi < yi) == larger {
				return yi, nil
			}
			return xi, nil
		}
	}
	xf, ok := evaluator.ToFloat(x)
	if !ok {
		return nil, typeError(name, x)
	}
	yf, ok := evaluator.ToFloat(y)
	if !ok {
		return nil, typeError(name, y)
	}
	if (xf < yf) == larger {
		return evaluator.Float(yf), nil
	}
	return evaluator.Float(xf), nil
}
