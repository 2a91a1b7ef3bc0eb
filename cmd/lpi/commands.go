package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/ast"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/diagnostics"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/lexer"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/runtime"
)

var (
	tableFlag = cli.BoolFlag{
		Name:  "table",
		Usage: "Print tokens as a table with source positions",
	}
	goFlag = cli.BoolFlag{
		Name:  "go",
		Usage: "Dump the Go structure of the tree instead of the indented outline",
	}
	writeFlag = cli.BoolFlag{
		Name:  "write, w",
		Usage: "Write the result back to the source file",
	}

	tokensCommand = cli.Command{
		Action:    tokens,
		Name:      "tokens",
		Usage:     "Print the token listing of a program",
		ArgsUsage: "<file>",
		Flags:     []cli.Flag{tableFlag, prettyFlag},
		Category:  "FRONT END COMMANDS",
		Description: `
Scans the program and prints one line per token. Rejected input is listed as
"<text> : Lexical Error, invalid token" and scanning continues after it.`,
	}
	treeCommand = cli.Command{
		Action:    tree,
		Name:      "tree",
		Usage:     "Print the parse tree of a program",
		ArgsUsage: "<file>",
		Flags:     []cli.Flag{goFlag, prettyFlag},
		Category:  "FRONT END COMMANDS",
	}
	checkCommand = cli.Command{
		Action:    check,
		Name:      "check",
		Usage:     "Parse and validate programs without running them",
		ArgsUsage: "<file> [file...]",
		Flags:     []cli.Flag{prettyFlag},
		Category:  "FRONT END COMMANDS",
	}
	fmtCommand = cli.Command{
		Action:    format,
		Name:      "fmt",
		Usage:     "Print a program in canonical form",
		ArgsUsage: "<file>",
		Flags:     []cli.Flag{writeFlag, prettyFlag},
		Category:  "FRONT END COMMANDS",
	}
)

func stdout(ctx *cli.Context) io.Writer {
	if ctx.App.Writer != nil {
		return ctx.App.Writer
	}
	return os.Stdout
}

func stderr(ctx *cli.Context) io.Writer {
	if ctx.App.ErrWriter != nil {
		return ctx.App.ErrWriter
	}
	return os.Stderr
}

func usage(ctx *cli.Context) error {
	return cli.NewExitError(fmt.Sprintf("usage: %s %s %s", ctx.App.Name, ctx.Command.Name, ctx.Command.ArgsUsage), exitUsage)
}

func tokens(ctx *cli.Context) error {
	pr := pretty(ctx, configOf(ctx))
	if ctx.NArg() != 1 {
		return usage(ctx)
	}
	source, filename, err := readSource(ctx.Args().First())
	if err != nil {
		return ioFailure(stderr(ctx), err, pr)
	}

	entries := lexer.ScanAll(source, filename)
	if ctx.Bool(tableFlag.Name) {
		err = writeTokenTable(stdout(ctx), entries)
	} else {
		err = lexer.WriteTokens(stdout(ctx), entries)
	}
	if err != nil {
		return err
	}

	var diags []diagnostics.Diagnostic
	for _, e := range entries {
		if e.Err != nil {
			diags = append(diags, e.Err.Diag)
		}
	}
	log.Debug("Scanned program", "file", filename, "entries", len(entries), "errors", len(diags))
	if len(diags) > 0 {
		printDiags(stderr(ctx), diags, pr)
		return exit(exitProgram)
	}
	return nil
}

func writeTokenTable(w io.Writer, entries []lexer.Entry) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Line", "Col", "Lexeme", "Category"})
	table.SetAutoFormatHeaders(false)
	for _, e := range entries {
		if e.Err != nil {
			span := e.Err.Diag.Span
			table.Append([]string{strconv.Itoa(span.StartLine), strconv.Itoa(span.StartCol), e.Err.Text, "Lexical Error"})
			continue
		}
		span := e.Token.Span
		table.Append([]string{strconv.Itoa(span.StartLine), strconv.Itoa(span.StartCol), e.Token.Text, e.Token.Category.String()})
	}
	table.Render()
	return nil
}

// parseFile reads and parses file, printing diagnostics on failure. A nil
// program comes with the error to return from the command.
func parseFile(ctx *cli.Context, rt *runtime.Runtime, file string, pr bool) (*ast.Program, error) {
	source, filename, err := readSource(file)
	if err != nil {
		return nil, ioFailure(stderr(ctx), err, pr)
	}
	program, err := rt.Parse(source, filename)
	if err != nil {
		return nil, reportDiagError(ctx, err, pr)
	}
	return program, nil
}

// reportDiagError prints the diagnostics carried by err.
func reportDiagError(ctx *cli.Context, err error, pr bool) error {
	if derr, ok := err.(*runtime.DiagnosticError); ok {
		printDiags(stderr(ctx), derr.Diagnostics, pr)
		return exit(exitProgram)
	}
	return err
}

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func tree(ctx *cli.Context) error {
	cfg := configOf(ctx)
	pr := pretty(ctx, cfg)
	if ctx.NArg() != 1 {
		return usage(ctx)
	}
	program, err := parseFile(ctx, runtimeFor(cfg), ctx.Args().First(), pr)
	if program == nil {
		return err
	}
	if ctx.Bool(goFlag.Name) {
		spewConfig.Fdump(stdout(ctx), program)
		return nil
	}
	return ast.Render(stdout(ctx), program, "")
}

func check(ctx *cli.Context) error {
	cfg := configOf(ctx)
	pr := pretty(ctx, cfg)
	if ctx.NArg() == 0 {
		return usage(ctx)
	}
	rt := runtimeFor(cfg)

	code := exitOK
	for _, file := range ctx.Args() {
		source, filename, err := readSource(file)
		if err != nil {
			ioFailure(stderr(ctx), err, pr)
			code = maxCode(code, exitUsage)
			continue
		}
		if diags := rt.Check(source, filename); len(diags) > 0 {
			printDiags(stderr(ctx), diags, pr)
			code = maxCode(code, exitProgram)
		}
	}
	if code != exitOK {
		return exit(code)
	}

	if pr {
		fmt.Fprintln(stdout(ctx), "No errors found.")
	} else {
		fmt.Fprintln(stdout(ctx), "[]")
	}
	return nil
}

func format(ctx *cli.Context) error {
	cfg := configOf(ctx)
	pr := pretty(ctx, cfg)
	if ctx.NArg() != 1 {
		return usage(ctx)
	}
	file := ctx.Args().First()
	source, filename, err := readSource(file)
	if err != nil {
		return ioFailure(stderr(ctx), err, pr)
	}
	formatted, err := runtimeFor(cfg).Format(source, filename)
	if err != nil {
		return reportDiagError(ctx, err, pr)
	}

	if !ctx.Bool("write") {
		_, err = io.WriteString(stdout(ctx), formatted)
		return err
	}
	if file == "-" {
		return cli.NewExitError("fmt: cannot write back to stdin", exitUsage)
	}
	if formatted == source {
		return nil
	}
	if err := os.WriteFile(file, []byte(formatted), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", file)
	}
	log.Info("Formatted program", "file", file)
	return nil
}

// maxCode orders exit codes by severity.
func maxCode(a, b int) int {
	if b > a {
		return b
	}
	return a
}
