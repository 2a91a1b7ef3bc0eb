// Command lpi is the lexer, parser and interpreter CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/diagnostics"
)

// Exit codes.
const (
	exitOK      = 0
	exitUsage   = 1 // bad arguments, unreadable files, bad config
	exitProgram = 2 // lexical, syntax or validation errors
	exitRuntime = 4
)

var (
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: int(log.LvlInfo),
	}
	maxStepsFlag = cli.Int64Flag{
		Name:  "max-steps",
		Usage: "Abort a run after this many statements (0 = unlimited)",
	}
	maxDepthFlag = cli.IntFlag{
		Name:  "max-depth",
		Usage: "Maximum nesting of function calls",
	}
	noColorFlag = cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured diagnostics",
	}
	prettyFlag = cli.BoolFlag{
		Name:  "pretty",
		Usage: "Print human-readable diagnostics instead of JSON",
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "lpi"
	app.Usage = "scan, parse and interpret lpi programs"
	app.Version = "0.3.0"
	app.Flags = []cli.Flag{
		configFileFlag,
		verbosityFlag,
		maxStepsFlag,
		maxDepthFlag,
		noColorFlag,
	}
	app.Commands = []cli.Command{
		tokensCommand,
		treeCommand,
		runCommand,
		checkCommand,
		fmtCommand,
		replCommand,
		traceCommand,
		dumpConfigCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
	app.Before = setup
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}

// setup loads the configuration and installs the log handler before any
// command runs.
func setup(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	if ctx.App.Metadata == nil {
		ctx.App.Metadata = make(map[string]interface{})
	}
	ctx.App.Metadata["config"] = cfg

	usecolor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	if !cfg.Output.Color {
		usecolor = false
	}
	color.NoColor = !usecolor

	output := io.Writer(os.Stderr)
	if usecolor {
		output = colorable.NewColorableStderr()
	}
	log.Root().SetHandler(log.LvlFilterHandler(log.Lvl(cfg.Output.Verbosity), log.StreamHandler(output, log.TerminalFormat(usecolor))))
	log.Debug("Configuration loaded", "file", ctx.GlobalString(configFileFlag.Name), "maxSteps", cfg.Run.MaxSteps, "parallel", cfg.Run.Parallel)
	return nil
}

// configOf returns the configuration loaded by setup.
func configOf(ctx *cli.Context) lpiConfig {
	if cfg, ok := ctx.App.Metadata["config"].(lpiConfig); ok {
		return cfg
	}
	return defaultConfig()
}

// exit returns an error that makes the cli package terminate the process
// with code. Diagnostics have already been printed.
func exit(code int) error {
	if code == exitOK {
		return nil
	}
	return cli.NewExitError("", code)
}

var errHeader = color.New(color.FgRed, color.Bold).SprintfFunc()

// printDiags writes diags to w, as JSON or as coloured human-readable text.
func printDiags(w io.Writer, diags []diagnostics.Diagnostic, pretty bool) {
	if !pretty {
		fmt.Fprintln(w, diagnostics.FormatDiagnostics(diags, false))
		return
	}
	for i, d := range diags {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %s\n  --> %s\n", errHeader("error[%s]", d.Code), d.Message, d.Location())
		if d.Hint != "" {
			fmt.Fprintf(w, "  hint: %s\n", d.Hint)
		}
	}
}

// readSource reads a program file, or standard input for "-".
func readSource(file string) (source, filename string, err error) {
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", errors.Wrap(err, "reading stdin")
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", "", errors.Wrapf(err, "cannot read file %s", file)
	}
	return string(data), file, nil
}

// ioFailure reports an unreadable input as an E_IO diagnostic.
func ioFailure(w io.Writer, err error, pretty bool) error {
	diag := diagnostics.MakeDiag(diagnostics.EIO, err.Error(), nil, "")
	printDiags(w, []diagnostics.Diagnostic{diag}, pretty)
	return exit(exitUsage)
}
