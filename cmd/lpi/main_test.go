package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/diagnostics"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/lexer"
)

func writeProgram(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))
	return path
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	file := writeProgram(t, dir, "ok.lpi", "x = 2 + 3 * 4; print x;")

	var out, errOut bytes.Buffer
	code := runFile(context.Background(), runSettings{cfg: defaultConfig()}, file, &out, &errOut)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "14\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestRunFileExitCodes(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		source string
		code   int
		diag   string
	}{
		{"syntax", "x = ;", exitProgram, diagnostics.EParse},
		{"lexical", "x = 1 @ 2;", exitProgram, diagnostics.ELex},
		{"runtime", "print 1 / 0;", exitRuntime, diagnostics.EDivZero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := writeProgram(t, dir, tt.name+".lpi", tt.source)
			var out, errOut bytes.Buffer
			code := runFile(context.Background(), runSettings{cfg: defaultConfig()}, file, &out, &errOut)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, errOut.String(), tt.diag)
		})
	}

	var errOut bytes.Buffer
	code := runFile(context.Background(), runSettings{cfg: defaultConfig()}, filepath.Join(dir, "missing.lpi"), &bytes.Buffer{}, &errOut)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut.String(), diagnostics.EIO)
}

func TestRunFilesKeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i, src := range []string{
		"i = 0; while (i < 200) { i = i + 1; } print 1;",
		"print 2;",
		"print 1 / 0;",
		"print 4;",
	} {
		files = append(files, writeProgram(t, dir, "p"+string(rune('a'+i))+".lpi", src))
	}

	cfg := defaultConfig()
	cfg.Run.Parallel = 2
	var out, errOut bytes.Buffer
	code := runFiles(context.Background(), runSettings{cfg: cfg}, files, &out, &errOut)

	assert.Equal(t, exitRuntime, code)
	assert.Equal(t, "1\n2\n4\n", out.String())
	assert.Contains(t, errOut.String(), diagnostics.EDivZero)
}

func TestRunFileJSON(t *testing.T) {
	file := writeProgram(t, t.TempDir(), "j.lpi", "a = new int[2]; a[1] = 3; x = 1.5; returnVal a[1];")

	var out bytes.Buffer
	code := runFile(context.Background(), runSettings{cfg: defaultConfig(), json: true}, file, &out, &bytes.Buffer{})
	require.Equal(t, exitOK, code)

	var got struct {
		Value int                    `json:"value"`
		Env   map[string]interface{} `json:"env"`
		Steps int                    `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 3, got.Value)
	assert.Equal(t, []interface{}{0.0, 3.0}, got.Env["a"])
	assert.Equal(t, 1.5, got.Env["x"])
	assert.Equal(t, 4, got.Steps)
}

func TestRunFileEnvTable(t *testing.T) {
	file := writeProgram(t, t.TempDir(), "e.lpi", "count = 3; ratio = 0.5;")
	var out bytes.Buffer
	code := runFile(context.Background(), runSettings{cfg: defaultConfig(), env: true}, file, &out, &bytes.Buffer{})
	require.Equal(t, exitOK, code)
	assert.Contains(t, out.String(), "count")
	assert.Contains(t, out.String(), "ratio")
	assert.Contains(t, out.String(), "0.5")
	assert.True(t, strings.Index(out.String(), "count") < strings.Index(out.String(), "ratio"))
}

func TestTraceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	file := writeProgram(t, dir, "t.lpi", "sq(n) { returnVal n * n; } print sq(3); print abs(0 - 1);")
	tracePath := filepath.Join(dir, "trace.jsonl")

	tw, err := newTraceWriter(tracePath)
	require.NoError(t, err)
	code := runFile(context.Background(), runSettings{cfg: defaultConfig(), trace: tw.Write}, file, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, tw.Close())
	require.Equal(t, exitOK, code)

	f, err := os.Open(tracePath)
	require.NoError(t, err)
	defer f.Close()
	summary, err := computeTraceSummary(f)
	require.NoError(t, err)

	assert.Len(t, summary.RunIDs, 1)
	assert.Equal(t, 4, summary.Statements)
	assert.Equal(t, 1, summary.Calls)
	assert.Equal(t, 1, summary.NativeCalls)
	assert.Equal(t, map[string]int{"sq": 1, "abs": 1}, summary.CallsByName)
	assert.NotEmpty(t, summary.StartTime)
	assert.NotEmpty(t, summary.EndTime)

	var text bytes.Buffer
	printTraceSummaryText(&text, summary)
	assert.Contains(t, text.String(), "Calls: 1 user, 1 native")
	assert.Contains(t, text.String(), "  abs: 1\n  sq: 1\n")
}

func TestComputeTraceSummarySkipsGarbage(t *testing.T) {
	input := `{"event":"run_start","runId":"r1","ts":"2024-01-01T00:00:00Z"}
not json

{"event":"budget_exceeded","runId":"r1","ts":"2024-01-01T00:00:00.5Z"}
{"event":"run_end","runId":"r1","ts":"2024-01-01T00:00:01Z"}
`
	summary, err := computeTraceSummary(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalEvents)
	assert.Equal(t, 1, summary.BudgetExceeded)
	assert.Equal(t, []string{"r1"}, summary.RunIDs)
	assert.Equal(t, 1000.0, summary.DurationMs)
}

func TestComplete(t *testing.T) {
	assert.True(t, complete("x = 1;\n"))
	assert.False(t, complete("while (x < 3) {\n"))
	assert.False(t, complete("f(a,\n"))
	assert.True(t, complete("while (x < 3) {\n  x = x + 1;\n}\n"))
}

func TestSessionPersists(t *testing.T) {
	color.NoColor = true
	var out, errOut bytes.Buffer
	sess := newSession(defaultConfig(), &out, &errOut)
	ctx := context.Background()

	sess.eval(ctx, "inc(n) { returnVal n + 1; }\n")
	sess.eval(ctx, "x = inc(1);\n")
	sess.eval(ctx, "print inc(x);\n")
	sess.eval(ctx, "print y;\n")
	sess.eval(ctx, "print x;\n")

	assert.Equal(t, "3\n2\n", out.String())
	assert.Contains(t, errOut.String(), "error[E_UNBOUND]: undefined identifier 'y'")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	good := writeProgram(t, dir, "good.toml", "[Run]\nMaxSteps = 500\nParallel = 8\n\n[Output]\nPretty = true\n")
	cfg := defaultConfig()
	require.NoError(t, loadConfig(good, &cfg))
	assert.Equal(t, int64(500), cfg.Run.MaxSteps)
	assert.Equal(t, 8, cfg.Run.Parallel)
	assert.True(t, cfg.Output.Pretty)
	assert.True(t, cfg.Output.Color, "unset keys keep their defaults")

	bad := writeProgram(t, dir, "bad.toml", "[Run]\nMaxStep = 1\n")
	err := loadConfig(bad, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MaxStep")
}

func TestDumpedConfigLoadsBack(t *testing.T) {
	cfg := defaultConfig()
	cfg.Run.MaxSteps = 42
	out, err := tomlSettings.Marshal(&cfg)
	require.NoError(t, err)

	path := writeProgram(t, t.TempDir(), "dump.toml", string(out))
	loaded := lpiConfig{}
	require.NoError(t, loadConfig(path, &loaded))
	assert.Equal(t, cfg, loaded)
}

func TestPrintDiags(t *testing.T) {
	color.NoColor = true
	diags := lexer.ScanAll("x = @;", "d.lpi")
	require.Equal(t, 1, lexer.CountErrors(diags))

	var d diagnostics.Diagnostic
	for _, e := range diags {
		if e.Err != nil {
			d = e.Err.Diag
		}
	}
	d.Hint = "remove it"

	var pretty bytes.Buffer
	printDiags(&pretty, []diagnostics.Diagnostic{d}, true)
	assert.Equal(t, diagnostics.FormatDiagnostic(d, true)+"\n", pretty.String())

	var plain bytes.Buffer
	printDiags(&plain, []diagnostics.Diagnostic{d}, false)
	assert.Equal(t, diagnostics.FormatDiagnostics([]diagnostics.Diagnostic{d}, false)+"\n", plain.String())
}

func TestWriteTokenTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTokenTable(&buf, lexer.ScanAll("x <= 1\n@", "t.lpi")))
	out := buf.String()
	for _, want := range []string{"Line", "Category", "Le", "Lexical Error"} {
		assert.Contains(t, out, want)
	}
}
