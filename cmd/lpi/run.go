package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v1"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/diagnostics"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/evaluator"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/runtime"
)

var (
	jsonFlag = cli.BoolFlag{
		Name:  "json",
		Usage: "Print the final value and environment as JSON after the program output",
	}
	envFlag = cli.BoolFlag{
		Name:  "env",
		Usage: "Print the final global environment as a table",
	}
	traceFileFlag = cli.StringFlag{
		Name:  "trace",
		Usage: "Append trace events to `FILE` as JSON lines",
	}

	runCommand = cli.Command{
		Action:    run,
		Name:      "run",
		Usage:     "Execute programs",
		ArgsUsage: "<file> [file...]",
		Flags:     []cli.Flag{jsonFlag, envFlag, traceFileFlag, prettyFlag},
		Category:  "EXECUTION COMMANDS",
		Description: `
Each program runs in its own environment. Several programs run concurrently
(see Run.Parallel in the config); their output is printed in argument order.
The exit code is the most severe one among the runs.`,
	}
)

// runSettings are the per-invocation options shared by every program.
type runSettings struct {
	cfg    lpiConfig
	pretty bool
	json   bool
	env    bool
	trace  func(evaluator.TraceEvent)
}

func run(ctx *cli.Context) error {
	cfg := configOf(ctx)
	if ctx.NArg() == 0 {
		return usage(ctx)
	}
	set := runSettings{
		cfg:    cfg,
		pretty: pretty(ctx, cfg),
		json:   ctx.Bool(jsonFlag.Name),
		env:    ctx.Bool(envFlag.Name),
	}
	if path := ctx.String(traceFileFlag.Name); path != "" {
		tw, err := newTraceWriter(path)
		if err != nil {
			return cli.NewExitError(err.Error(), exitUsage)
		}
		defer tw.Close()
		set.trace = tw.Write
	}

	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	files := []string(ctx.Args())
	if len(files) == 1 {
		return exit(runFile(sigctx, set, files[0], stdout(ctx), stderr(ctx)))
	}
	return exit(runFiles(sigctx, set, files, stdout(ctx), stderr(ctx)))
}

type runOutput struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
	code   int
}

// runFiles executes files concurrently, at most cfg.Run.Parallel at a time,
// and copies each program's buffered output to w and ew in argument order.
func runFiles(ctx context.Context, set runSettings, files []string, w, ew io.Writer) int {
	outputs := make([]runOutput, len(files))
	sem := make(chan struct{}, set.cfg.Run.Parallel)

	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			out := &outputs[i]
			out.code = runFile(gctx, set, file, &out.stdout, &out.stderr)
			return nil
		})
	}
	waitErr := g.Wait()

	code := exitOK
	for i := range outputs {
		w.Write(outputs[i].stdout.Bytes())
		ew.Write(outputs[i].stderr.Bytes())
		code = maxCode(code, outputs[i].code)
	}
	if waitErr != nil {
		fmt.Fprintln(ew, waitErr)
		code = maxCode(code, exitRuntime)
	}
	return code
}

// runFile executes a single program with a fresh environment and returns
// its exit code.
func runFile(ctx context.Context, set runSettings, file string, w, ew io.Writer) int {
	source, filename, err := readSource(file)
	if err != nil {
		ioFailure(ew, err, set.pretty)
		return exitUsage
	}

	opts := []runtime.Option{runtime.WithStdout(w)}
	if set.trace != nil {
		opts = append(opts, runtime.WithTrace(set.trace))
	}
	rt := runtimeFor(set.cfg, opts...)

	res, err := rt.Run(ctx, source, filename)
	code := exitOK
	if err != nil {
		var diags []diagnostics.Diagnostic
		switch e := err.(type) {
		case *runtime.DiagnosticError:
			diags, code = e.Diagnostics, exitProgram
		case *evaluator.RuntimeError:
			diags, code = []diagnostics.Diagnostic{e.Diagnostic()}, exitRuntime
		default:
			diags, code = []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EIO, err.Error(), nil, "")}, exitRuntime
		}
		printDiags(ew, diags, set.pretty)
	}
	if res == nil {
		return code
	}
	log.Debug("Program finished", "file", filename, "run", res.RunID, "steps", res.Steps, "code", code)

	if set.json {
		if err := writeResultJSON(w, res); err != nil {
			fmt.Fprintln(ew, err)
			return maxCode(code, exitRuntime)
		}
	}
	if set.env {
		writeEnvTable(w, res.Env)
	}
	return code
}

func writeResultJSON(w io.Writer, res *runtime.Result) error {
	value, err := evaluator.ValueToJSON(res.Value)
	if err != nil {
		return errors.Wrap(err, "encoding result value")
	}
	env, err := evaluator.EnvToJSON(res.Env)
	if err != nil {
		return errors.Wrap(err, "encoding environment")
	}
	out, err := json.Marshal(struct {
		Value json.RawMessage `json:"value"`
		Env   json.RawMessage `json:"env"`
		Steps int64           `json:"steps"`
	}{value, env, res.Steps})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func writeEnvTable(w io.Writer, env *evaluator.Env) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Type", "Value"})
	table.SetAutoFormatHeaders(false)
	snapshot := env.Global().Snapshot()
	for _, name := range env.Global().Names() {
		v := snapshot[name]
		table.Append([]string{name, evaluator.TypeName(v), evaluator.FormatValue(v)})
	}
	table.Render()
}

// traceWriter serializes trace events from concurrent runs into a JSON
// lines file.
type traceWriter struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

func newTraceWriter(path string) (*traceWriter, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening trace file %s", path)
	}
	return &traceWriter{f: f, enc: json.NewEncoder(f)}, nil
}

func (t *traceWriter) Write(ev evaluator.TraceEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.enc.Encode(ev); err != nil {
		log.Warn("Failed to write trace event", "err", err)
	}
}

func (t *traceWriter) Close() error {
	return t.f.Close()
}
