package evaluator

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/ast"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/diagnostics"
)

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceRunStart       TraceEventType = "run_start"
	TraceRunEnd         TraceEventType = "run_end"
	TraceStmtStart      TraceEventType = "stmt_start"
	TraceStmtEnd        TraceEventType = "stmt_end"
	TraceFnCallStart    TraceEventType = "fn_call_start"
	TraceFnCallEnd      TraceEventType = "fn_call_end"
	TraceBudgetExceeded TraceEventType = "budget_exceeded"
)

// TraceEvent represents a single trace event emitted during execution.
type TraceEvent struct {
	Timestamp string            `json:"ts"`
	RunID     string            `json:"runId"`
	Event     TraceEventType    `json:"event"`
	Span      *ast.Span         `json:"span,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
}

// NativeFn is a Go-implemented function callable from programs.
type NativeFn struct {
	Name    string
	Arity   int
	Execute func(args []Value) (Value, error)
}

// ExecOptions configures program execution.
type ExecOptions struct {
	// Env is the initial environment. A fresh one is created when nil.
	Env *Env
	// Stdout receives print output. Defaults to os.Stdout.
	Stdout  io.Writer
	Natives map[string]*NativeFn
	Trace   func(event TraceEvent)
	RunID   string
	// MaxSteps bounds the number of executed statements; 0 means unlimited.
	MaxSteps int64
	// MaxDepth bounds nested calls; 0 means DefaultMaxDepth.
	MaxDepth int
	Logger   log.Logger
}

// ExecResult holds the result of a program execution.
type ExecResult struct {
	// Value is the operand of a top-level returnVal, or None.
	Value Value
	Env   *Env
	Steps int64
}

// RuntimeError represents an error raised while executing a program.
type RuntimeError struct {
	Code    string
	Message string
	Span    *ast.Span
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Diagnostic converts the error to a diagnostic.
func (e *RuntimeError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(e.Code, e.Message, e.Span, "")
}

// Errorf builds a RuntimeError without a span. The evaluator attaches the
// span of the call site when a native returns one.
func Errorf(code, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func runtimeErr(code string, span ast.Span, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...), Span: &span}
}

type evaluator struct {
	ctx     context.Context
	opts    ExecOptions
	global  *Env
	out     io.Writer
	tracker BudgetTracker
	log     log.Logger
}

func (ev *evaluator) emit(event TraceEventType, span *ast.Span) {
	ev.emitWithData(event, span, nil)
}

func (ev *evaluator) emitWithData(event TraceEventType, span *ast.Span, data map[string]string) {
	if ev.opts.Trace != nil {
		ev.opts.Trace(TraceEvent{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			RunID:     ev.opts.RunID,
			Event:     event,
			Span:      span,
			Data:      data,
		})
	}
}

// Execute runs program and returns its result. On a runtime error the result
// is still returned so callers can inspect the partial environment.
func Execute(ctx context.Context, program *ast.Program, opts ExecOptions) (*ExecResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	env := opts.Env
	if env == nil {
		env = NewEnv(nil)
	}
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New("pkg", "evaluator")
	}
	ev := &evaluator{
		ctx:    ctx,
		opts:   opts,
		global: env.Global(),
		out:    out,
		log:    logger,
	}

	start := time.Now()
	span := program.Span
	ev.emit(TraceRunStart, &span)
	ev.log.Debug("Run started", "run", opts.RunID, "file", span.File)

	ret, _, err := ev.execBody(program.Body, env)
	result := &ExecResult{Value: None{}, Env: env, Steps: ev.tracker.Steps}
	if ret != nil {
		result.Value = ret
	}

	ev.emit(TraceRunEnd, &span)
	if err != nil {
		ev.log.Debug("Run failed", "run", opts.RunID, "steps", ev.tracker.Steps, "err", err, "elapsed", time.Since(start))
		return result, err
	}
	ev.log.Debug("Run finished", "run", opts.RunID, "steps", ev.tracker.Steps, "elapsed", time.Since(start))
	return result, nil
}

// execBody runs the statements of b in env. returned is true once a
// returnVal has executed; ret is its value.
func (ev *evaluator) execBody(b *ast.Body, env *Env) (ret Value, returned bool, err error) {
	for _, stmt := range b.List.Statements {
		if err := ev.step(); err != nil {
			if re, ok := err.(*RuntimeError); ok && re.Span == nil {
				span := stmt.NodeSpan()
				re.Span = &span
			}
			return nil, false, err
		}

		span := stmt.NodeSpan()
		ev.emit(TraceStmtStart, &span)
		ret, returned, err = ev.execStmt(stmt, env)
		ev.emit(TraceStmtEnd, &span)
		if err != nil || returned {
			return ret, returned, err
		}
	}
	return nil, false, nil
}

func (ev *evaluator) execStmt(stmt ast.Stmt, env *Env) (Value, bool, error) {
	switch s := stmt.(type) {
	case *ast.Assignment:
		return nil, false, ev.execAssignment(s, env)

	case *ast.If:
		cond, err := ev.evalCond(s.Cond, env)
		if err != nil {
			return nil, false, err
		}
		if cond {
			return ev.execBody(s.Then, env)
		}
		if s.Else != nil {
			return ev.execBody(s.Else, env)
		}
		return nil, false, nil

	case *ast.While:
		for {
			cond, err := ev.evalCond(s.Cond, env)
			if err != nil {
				return nil, false, err
			}
			if !cond {
				return nil, false, nil
			}
			ret, returned, err := ev.execBody(s.Body, env)
			if err != nil || returned {
				return ret, returned, err
			}
		}

	case *ast.Print:
		val, err := ev.evalE(s.Value, env)
		if err != nil {
			return nil, false, err
		}
		if _, err := fmt.Fprintln(ev.out, FormatValue(val)); err != nil {
			return nil, false, runtimeErr(diagnostics.EIO, s.Span, "print: %v", err)
		}
		return nil, false, nil

	case *ast.Return:
		if s.Value == nil {
			return None{}, true, nil
		}
		val, err := ev.evalE(s.Value, env)
		if err != nil {
			return nil, false, err
		}
		return val, true, nil

	case *ast.FunCallStmt:
		_, err := ev.call(s.Call, env)
		return nil, false, err

	case *ast.FunDef:
		if _, ok := ev.opts.Natives[s.Name]; ok {
			return nil, false, runtimeErr(diagnostics.EFnDup, s.Span, "function '%s' would shadow a native function", s.Name)
		}
		env.DefineFunc(s)
		return nil, false, nil
	}

	return nil, false, runtimeErr(diagnostics.EType, stmt.NodeSpan(), "unsupported statement %s", stmt.Kind())
}

func (ev *evaluator) execAssignment(s *ast.Assignment, env *Env) error {
	if s.Index == nil {
		val, err := ev.evalE(s.Value, env)
		if err != nil {
			return err
		}
		env.Set(s.Name, val)
		return nil
	}

	arr, err := ev.lookupArray(s.Name, s.Span, env)
	if err != nil {
		return err
	}
	idx, err := ev.evalIndexIn(s.Index, env, len(arr.Items))
	if err != nil {
		return err
	}
	val, err := ev.evalE(s.Value, env)
	if err != nil {
		return err
	}
	if _, ok := val.(*Array); ok {
		return runtimeErr(diagnostics.EType, s.Span, "cannot store an array in an element of '%s'", s.Name)
	}
	arr.Items[idx] = val
	return nil
}

// --- Conditions ---

func (ev *evaluator) evalCond(expr ast.Expr, env *Env) (bool, error) {
	switch e := expr.(type) {
	case *ast.Logical:
		left, err := ev.evalCond(e.Left, env)
		if err != nil {
			return false, err
		}
		if e.Op == ast.OpOr && left {
			return true, nil
		}
		if e.Op == ast.OpAnd && !left {
			return false, nil
		}
		return ev.evalCond(e.Right, env)

	case *ast.Not:
		v, err := ev.evalCond(e.Operand, env)
		return !v, err

	case *ast.BoolPrimary:
		v, err := ev.evalBoolPrimary(e, env)
		if err != nil {
			return false, err
		}
		return v == 1, nil
	}
	return false, runtimeErr(diagnostics.EType, expr.NodeSpan(), "unsupported condition %s", expr.Kind())
}

// evalBoolPrimary yields Int 1 or 0.
func (ev *evaluator) evalBoolPrimary(e *ast.BoolPrimary, env *Env) (Int, error) {
	left, err := ev.evalE(e.Left, env)
	if err != nil {
		return 0, err
	}
	if e.Op == "" {
		t, ok := Truthy(left)
		if !ok {
			return 0, runtimeErr(diagnostics.EType, e.Span, "condition must be a number, got %s", TypeName(left))
		}
		return boolInt(t), nil
	}

	right, err := ev.evalE(e.Right, env)
	if err != nil {
		return 0, err
	}
	return compare(e.Op, left, right, e.Span)
}

func boolInt(b bool) Int {
	if b {
		return 1
	}
	return 0
}

func compare(op ast.CompOp, left, right Value, span ast.Span) (Int, error) {
	if li, ok := left.(Int); ok {
		if ri, ok := right.(Int); ok {
			return boolInt(cmpOrdered(op, li, ri)), nil
		}
	}
	lf, lok := ToFloat(left)
	rf, rok := ToFloat(right)
	if !lok || !rok {
		return 0, runtimeErr(diagnostics.EType, span, "cannot compare %s %s %s", TypeName(left), op, TypeName(right))
	}
	return boolInt(cmpOrdered(op, lf, rf)), nil
}

func cmpOrdered[T Int | float64](op ast.CompOp, a, b T) bool {
	switch op {
	case ast.OpLt:
		return a < b
	case ast.OpLe:
		return a <= b
	case ast.OpGt:
		return a > b
	case ast.OpGe:
		return a >= b
	case ast.OpEq:
		return a == b
	case ast.OpNeq:
		return a != b
	}
	return false
}

// --- Arithmetic ---

func (ev *evaluator) evalE(e *ast.E, env *Env) (Value, error) {
	acc, err := ev.evalTerm(e.Terms[0], env)
	if err != nil {
		return nil, err
	}
	for i, op := range e.Ops {
		rhs, err := ev.evalTerm(e.Terms[i+1], env)
		if err != nil {
			return nil, err
		}
		if acc, err = arith(op, acc, rhs, e.Span); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (ev *evaluator) evalTerm(t *ast.Term, env *Env) (Value, error) {
	acc, err := ev.evalPrimary(t.Factors[0], env)
	if err != nil {
		return nil, err
	}
	for i, op := range t.Ops {
		rhs, err := ev.evalPrimary(t.Factors[i+1], env)
		if err != nil {
			return nil, err
		}
		if acc, err = arith(op, acc, rhs, t.Span); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func arith(op ast.ArithOp, left, right Value, span ast.Span) (Value, error) {
	if li, ok := left.(Int); ok {
		if ri, ok := right.(Int); ok {
			switch op {
			case ast.OpAdd:
				return li + ri, nil
			case ast.OpSub:
				return li - ri, nil
			case ast.OpMul:
				return li * ri, nil
			case ast.OpDiv:
				if ri == 0 {
					return nil, runtimeErr(diagnostics.EDivZero, span, "division by zero")
				}
				return li / ri, nil
			}
		}
	}

	lf, lok := ToFloat(left)
	rf, rok := ToFloat(right)
	if !lok || !rok {
		return nil, runtimeErr(diagnostics.EType, span, "operator %s expects numbers, got %s and %s", op, TypeName(left), TypeName(right))
	}
	switch op {
	case ast.OpAdd:
		return Float(lf + rf), nil
	case ast.OpSub:
		return Float(lf - rf), nil
	case ast.OpMul:
		return Float(lf * rf), nil
	case ast.OpDiv:
		if rf == 0 {
			return nil, runtimeErr(diagnostics.EDivZero, span, "division by zero")
		}
		return Float(lf / rf), nil
	}
	return nil, runtimeErr(diagnostics.EType, span, "unknown operator %s", op)
}

// --- Primaries ---

func (ev *evaluator) evalPrimary(p ast.Primary, env *Env) (Value, error) {
	switch e := p.(type) {
	case *ast.IntLiteral:
		return Int(e.Value), nil

	case *ast.FloatLiteral:
		return Float(e.Value), nil

	case *ast.Identifier:
		val, ok := env.Get(e.Name)
		if !ok {
			return nil, runtimeErr(diagnostics.EUnbound, e.Span, "undefined identifier '%s'", e.Name)
		}
		return val, nil

	case *ast.Paren:
		return ev.evalE(e.Inner, env)

	case *ast.ArrayAccess:
		arr, err := ev.lookupArray(e.Name, e.Span, env)
		if err != nil {
			return nil, err
		}
		idx, err := ev.evalIndexIn(e.Index, env, len(arr.Items))
		if err != nil {
			return nil, err
		}
		return arr.Items[idx], nil

	case *ast.FunCall:
		val, err := ev.call(e, env)
		if err != nil {
			return nil, err
		}
		if _, none := val.(None); none {
			return nil, runtimeErr(diagnostics.ENoValue, e.Span, "function '%s' returned no value", e.Name)
		}
		return val, nil

	case *ast.NewArray:
		return ev.evalNewArray(e, env)
	}

	return nil, runtimeErr(diagnostics.EType, p.NodeSpan(), "unsupported expression %s", p.Kind())
}

func (ev *evaluator) lookupArray(name string, span ast.Span, env *Env) (*Array, error) {
	val, ok := env.Get(name)
	if !ok {
		return nil, runtimeErr(diagnostics.EUnbound, span, "undefined identifier '%s'", name)
	}
	arr, ok := val.(*Array)
	if !ok {
		return nil, runtimeErr(diagnostics.EType, span, "'%s' is %s, not an array", name, TypeName(val))
	}
	return arr, nil
}

func (ev *evaluator) evalIndexIn(e *ast.E, env *Env, n int) (int, error) {
	val, err := ev.evalE(e, env)
	if err != nil {
		return 0, err
	}
	i, ok := val.(Int)
	if !ok {
		return 0, runtimeErr(diagnostics.EType, e.Span, "array index must be an int, got %s", TypeName(val))
	}
	if i < 0 || int64(i) >= int64(n) {
		return 0, runtimeErr(diagnostics.EIndex, e.Span, "index %d out of range [0, %d)", int64(i), n)
	}
	return int(i), nil
}

func (ev *evaluator) evalNewArray(e *ast.NewArray, env *Env) (Value, error) {
	if e.ElemType != "int" && e.ElemType != "float" {
		return nil, runtimeErr(diagnostics.EType, e.Span, "unknown element type '%s'", e.ElemType)
	}
	val, err := ev.evalE(e.Size, env)
	if err != nil {
		return nil, err
	}
	n, ok := val.(Int)
	if !ok {
		return nil, runtimeErr(diagnostics.EType, e.Size.Span, "array size must be an int, got %s", TypeName(val))
	}
	if n < 0 {
		return nil, runtimeErr(diagnostics.EIndex, e.Size.Span, "negative array size %d", int64(n))
	}
	if n > MaxArrayLen {
		return nil, runtimeErr(diagnostics.EBudget, e.Size.Span, "array size %d exceeds limit %d", int64(n), MaxArrayLen)
	}
	return NewArray(e.ElemType, int(n)), nil
}

// --- Calls ---

// call invokes a user function or native. The result is None when a user
// function finishes without returning a value.
func (ev *evaluator) call(e *ast.FunCall, env *Env) (Value, error) {
	args := make([]Value, len(e.Args))
	for i, arg := range e.Args {
		v, err := ev.evalE(arg, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if def, ok := env.LookupFunc(e.Name); ok {
		return ev.callUser(def, e, args)
	}

	if fn, ok := ev.opts.Natives[e.Name]; ok {
		if len(args) != fn.Arity {
			return nil, runtimeErr(diagnostics.EArity, e.Span, "function '%s' expects %d argument(s), got %d", e.Name, fn.Arity, len(args))
		}
		span := e.Span
		ev.emitWithData(TraceFnCallStart, &span, map[string]string{"fn": e.Name, "kind": "native"})
		result, err := fn.Execute(args)
		ev.emitWithData(TraceFnCallEnd, &span, map[string]string{"fn": e.Name, "kind": "native"})
		if err != nil {
			re, ok := err.(*RuntimeError)
			if !ok {
				re = &RuntimeError{Code: diagnostics.EType, Message: err.Error()}
			}
			if re.Span == nil {
				re.Span = &span
			}
			return nil, re
		}
		return result, nil
	}

	return nil, runtimeErr(diagnostics.EUnknownFn, e.Span, "unknown function '%s'", e.Name)
}

func (ev *evaluator) callUser(def *ast.FunDef, e *ast.FunCall, args []Value) (Value, error) {
	if len(args) != len(def.Params) {
		return nil, runtimeErr(diagnostics.EArity, e.Span, "function '%s' expects %d argument(s), got %d", def.Name, len(def.Params), len(args))
	}
	if err := ev.enterCall(); err != nil {
		re := err.(*RuntimeError)
		span := e.Span
		re.Span = &span
		return nil, re
	}
	defer ev.leaveCall()

	frame := ev.global.Child()
	for i, param := range def.Params {
		frame.Set(param, args[i])
	}

	span := e.Span
	ev.emitWithData(TraceFnCallStart, &span, map[string]string{"fn": def.Name})
	ev.log.Trace("Calling function", "fn", def.Name, "args", len(args), "depth", ev.tracker.Depth)

	ret, returned, err := ev.execBody(def.Body, frame)
	ev.emitWithData(TraceFnCallEnd, &span, map[string]string{"fn": def.Name})
	if err != nil {
		return nil, err
	}
	if !returned || ret == nil {
		return None{}, nil
	}
	return ret, nil
}
