// Package runtime provides the top-level lpi runtime orchestrator.
package runtime

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/ast"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/diagnostics"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/evaluator"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/formatter"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/parser"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/stdlib"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/validator"
)

// DefaultCacheSize is the number of parsed programs kept by a Runtime.
const DefaultCacheSize = 64

// Result holds the outcome of a program execution.
type Result struct {
	Value evaluator.Value
	Env   *evaluator.Env
	Steps int64
	RunID string
}

// Runtime wires together all lpi components for program execution.
// A Runtime may be shared between goroutines as long as each run uses its
// own environment.
type Runtime struct {
	natives   *stdlib.Registry
	runID     string
	trace     func(event evaluator.TraceEvent)
	stdout    io.Writer
	maxSteps  int64
	maxDepth  int
	cacheSize int
	logger    log.Logger

	cache *lru.ARCCache // cacheKey → *ast.Program
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithNatives sets the native function registry.
func WithNatives(r *stdlib.Registry) Option {
	return func(rt *Runtime) {
		rt.natives = r
	}
}

// WithRunID fixes the run ID for trace events. Without it every run gets a
// fresh random ID.
func WithRunID(id string) Option {
	return func(rt *Runtime) {
		rt.runID = id
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(rt *Runtime) {
		rt.trace = fn
	}
}

// WithStdout redirects print output.
func WithStdout(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.stdout = w
	}
}

// WithMaxSteps bounds the number of statements a run may execute.
func WithMaxSteps(n int64) Option {
	return func(rt *Runtime) {
		rt.maxSteps = n
	}
}

// WithMaxDepth bounds the call depth of a run.
func WithMaxDepth(n int) Option {
	return func(rt *Runtime) {
		rt.maxDepth = n
	}
}

// WithCacheSize sets how many parsed programs are kept. Zero disables the
// parse cache.
func WithCacheSize(n int) Option {
	return func(rt *Runtime) {
		rt.cacheSize = n
	}
}

// WithLogger sets the logger used by the runtime and the evaluator.
func WithLogger(l log.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = l
	}
}

// New creates a new Runtime with the given options.
// By default the standard natives are registered and a parse cache of
// DefaultCacheSize entries is used.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		natives:   stdlib.Default(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.logger == nil {
		rt.logger = log.New("pkg", "runtime")
	}
	if rt.cacheSize > 0 {
		rt.cache, _ = lru.NewARC(rt.cacheSize)
	}
	return rt
}

func cacheKey(source, filename string) string {
	return filename + "\x00" + source
}

// Parse parses source, consulting the parse cache first. Programs are never
// mutated by evaluation, so a cached tree may be executed any number of times.
func (rt *Runtime) Parse(source, filename string) (*ast.Program, error) {
	key := cacheKey(source, filename)
	if rt.cache != nil {
		if p, ok := rt.cache.Get(key); ok {
			rt.logger.Trace("Parse cache hit", "file", filename)
			return p.(*ast.Program), nil
		}
		rt.logger.Trace("Parse cache miss", "file", filename)
	}
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return nil, &DiagnosticError{Diagnostics: diags}
	}
	if rt.cache != nil {
		rt.cache.Add(key, program)
	}
	return program, nil
}

// Run parses and executes a program in a fresh environment. Unknown functions
// and arity mismatches surface as runtime errors when the call executes.
func (rt *Runtime) Run(ctx context.Context, source, filename string) (*Result, error) {
	return rt.RunIn(ctx, nil, source, filename)
}

// RunIn is like Run but executes in env, so that variables and functions from
// earlier runs stay visible. A nil env behaves like Run.
//
// On a runtime error the partial result is returned together with the error.
func (rt *Runtime) RunIn(ctx context.Context, env *evaluator.Env, source, filename string) (*Result, error) {
	program, err := rt.Parse(source, filename)
	if err != nil {
		return nil, err
	}

	if vDiags := validator.ValidateStructure(program); len(vDiags) > 0 {
		return nil, &DiagnosticError{Diagnostics: vDiags}
	}

	opts := rt.buildExecOptions(env)
	result, err := evaluator.Execute(ctx, program, opts)
	res := &Result{RunID: opts.RunID}
	if result != nil {
		res.Value = result.Value
		res.Env = result.Env
		res.Steps = result.Steps
	}
	return res, err
}

// Check parses and validates a program without executing it.
func (rt *Runtime) Check(source, filename string) []diagnostics.Diagnostic {
	program, err := rt.Parse(source, filename)
	if err != nil {
		return err.(*DiagnosticError).Diagnostics
	}
	return validator.Validate(program, rt.natives.Arities())
}

// Format parses and formats a program.
func (rt *Runtime) Format(source, filename string) (string, error) {
	program, err := rt.Parse(source, filename)
	if err != nil {
		return "", err
	}
	return formatter.Format(program), nil
}

// buildExecOptions constructs evaluator options from the runtime's configuration.
func (rt *Runtime) buildExecOptions(env *evaluator.Env) evaluator.ExecOptions {
	runID := rt.runID
	if runID == "" {
		runID = uuid.New().String()
	}
	return evaluator.ExecOptions{
		Env:      env,
		Stdout:   rt.stdout,
		Natives:  rt.natives.Natives(),
		Trace:    rt.trace,
		RunID:    runID,
		MaxSteps: rt.maxSteps,
		MaxDepth: rt.maxDepth,
		Logger:   rt.logger.New("run", runID),
	}
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}
