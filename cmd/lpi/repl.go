package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/peterh/liner"
	"gopkg.in/urfave/cli.v1"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/diagnostics"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/evaluator"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/runtime"
)

const (
	prompt      = "> "
	contPrompt  = ". "
	historyFile = ".lpi_history"
)

var replCommand = cli.Command{
	Action:   repl,
	Name:     "repl",
	Usage:    "Start an interactive session",
	Category: "EXECUTION COMMANDS",
	Description: `
Statements typed at the prompt run in one persistent environment, so variables
and functions stay defined between inputs. Input continues on the next line
until every brace is closed. ":env" lists the globals, ":quit" leaves.`,
}

// session is the evaluation state behind the prompt.
type session struct {
	rt  *runtime.Runtime
	env *evaluator.Env
	out io.Writer
	err io.Writer
}

func newSession(cfg lpiConfig, out, errw io.Writer) *session {
	// Every input is new source text, so parse caching buys nothing.
	cfg.Run.CacheSize = 0
	return &session{
		rt:  runtimeFor(cfg, runtime.WithStdout(out), runtime.WithLogger(log.New("pkg", "repl"))),
		env: evaluator.NewEnv(nil),
		out: out,
		err: errw,
	}
}

// eval runs one complete input. Errors are reported and leave the
// environment as the statements before the failure left it.
func (s *session) eval(ctx context.Context, input string) {
	switch strings.TrimSpace(input) {
	case "":
		return
	case ":env":
		writeEnvTable(s.out, s.env)
		return
	}
	_, err := s.rt.RunIn(ctx, s.env, input, "<repl>")
	switch e := err.(type) {
	case nil:
	case *runtime.DiagnosticError:
		printDiags(s.err, e.Diagnostics, true)
	case *evaluator.RuntimeError:
		printDiags(s.err, []diagnostics.Diagnostic{e.Diagnostic()}, true)
	default:
		fmt.Fprintln(s.err, err)
	}
}

// complete reports whether input has no unclosed braces, brackets or
// parentheses and can be evaluated.
func complete(input string) bool {
	depth := 0
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		}
	}
	return depth <= 0
}

func repl(ctx *cli.Context) error {
	sess := newSession(configOf(ctx), stdout(ctx), stderr(ctx))

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	history := filepath.Join(os.TempDir(), historyFile)
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, historyFile)
	}
	if f, err := os.Open(history); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(history); err == nil {
			line.WriteHistory(f)
			f.Close()
		} else {
			log.Warn("Failed to save history", "file", history, "err", err)
		}
	}()

	fmt.Fprintf(stdout(ctx), "lpi %s, type :quit to leave\n", ctx.App.Version)
	var buf strings.Builder
	for {
		p := prompt
		if buf.Len() > 0 {
			p = contPrompt
		}
		input, err := line.Prompt(p)
		if err == liner.ErrPromptAborted {
			buf.Reset()
			continue
		}
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(stdout(ctx))
				return nil
			}
			return err
		}
		if strings.TrimSpace(input) == ":quit" {
			return nil
		}
		line.AppendHistory(input)

		buf.WriteString(input)
		buf.WriteByte('\n')
		if !complete(buf.String()) {
			continue
		}
		sess.eval(context.Background(), buf.String())
		buf.Reset()
	}
}
