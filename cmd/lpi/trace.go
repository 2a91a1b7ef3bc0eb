package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/evaluator"
)

var (
	textFlag = cli.BoolFlag{
		Name:  "text",
		Usage: "Print the summary as text instead of JSON",
	}

	traceCommand = cli.Command{
		Action:    traceSummary,
		Name:      "trace",
		Usage:     "Summarize a trace file written by run --trace",
		ArgsUsage: "<file.jsonl>",
		Flags:     []cli.Flag{textFlag},
		Category:  "EXECUTION COMMANDS",
	}
)

// TraceSummary aggregates the events of one trace file.
type TraceSummary struct {
	RunIDs         []string       `json:"runIds"`
	TotalEvents    int            `json:"totalEvents"`
	Statements     int            `json:"statements"`
	Calls          int            `json:"calls"`
	CallsByName    map[string]int `json:"callsByName"`
	NativeCalls    int            `json:"nativeCalls"`
	BudgetExceeded int            `json:"budgetExceeded"`
	StartTime      string         `json:"startTime,omitempty"`
	EndTime        string         `json:"endTime,omitempty"`
	DurationMs     float64        `json:"durationMs"`
}

func traceSummary(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return usage(ctx)
	}
	f, err := os.Open(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(errors.Wrap(err, "cannot read trace").Error(), exitUsage)
	}
	defer f.Close()

	summary, err := computeTraceSummary(f)
	if err != nil {
		return cli.NewExitError(err.Error(), exitUsage)
	}
	if ctx.Bool(textFlag.Name) {
		printTraceSummaryText(stdout(ctx), summary)
		return nil
	}
	b, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout(ctx), string(b))
	return nil
}

func computeTraceSummary(r io.Reader) (*TraceSummary, error) {
	summary := &TraceSummary{
		CallsByName: make(map[string]int),
	}
	seen := make(map[string]bool)
	var start, end time.Time

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event evaluator.TraceEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue // skip invalid lines
		}

		summary.TotalEvents++
		if event.RunID != "" && !seen[event.RunID] {
			seen[event.RunID] = true
			summary.RunIDs = append(summary.RunIDs, event.RunID)
		}

		switch event.Event {
		case evaluator.TraceRunStart:
			if ts, err := time.Parse(time.RFC3339Nano, event.Timestamp); err == nil && (start.IsZero() || ts.Before(start)) {
				start = ts
				summary.StartTime = event.Timestamp
			}
		case evaluator.TraceRunEnd:
			if ts, err := time.Parse(time.RFC3339Nano, event.Timestamp); err == nil && ts.After(end) {
				end = ts
				summary.EndTime = event.Timestamp
			}
		case evaluator.TraceStmtStart:
			summary.Statements++
		case evaluator.TraceFnCallStart:
			if event.Data["kind"] == "native" {
				summary.NativeCalls++
			} else {
				summary.Calls++
			}
			if name := event.Data["fn"]; name != "" {
				summary.CallsByName[name]++
			}
		case evaluator.TraceBudgetExceeded:
			summary.BudgetExceeded++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading trace")
	}

	if !start.IsZero() && !end.IsZero() {
		summary.DurationMs = float64(end.Sub(start).Microseconds()) / 1000
	}
	return summary, nil
}

func printTraceSummaryText(w io.Writer, s *TraceSummary) {
	fmt.Fprintf(w, "Runs: %s\n", strings.Join(s.RunIDs, ", "))
	fmt.Fprintf(w, "Events: %d\n", s.TotalEvents)
	fmt.Fprintf(w, "Statements: %d\n", s.Statements)
	fmt.Fprintf(w, "Calls: %d user, %d native\n", s.Calls, s.NativeCalls)

	names := make([]string, 0, len(s.CallsByName))
	for name := range s.CallsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %d\n", name, s.CallsByName[name])
	}
	if s.BudgetExceeded > 0 {
		fmt.Fprintf(w, "Budget exceeded: %d\n", s.BudgetExceeded)
	}
	if s.DurationMs > 0 {
		fmt.Fprintf(w, "Duration: %.3fms\n", s.DurationMs)
	}
}
