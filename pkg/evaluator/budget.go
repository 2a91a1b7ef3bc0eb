package evaluator

import (
	"fmt"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/diagnostics"
)

// DefaultMaxDepth bounds nested user function calls when ExecOptions.MaxDepth is 0.
const DefaultMaxDepth = 10000

// MaxArrayLen is the largest length accepted by new.
const MaxArrayLen = 1 << 24

// BudgetTracker tracks resource consumption during execution.
type BudgetTracker struct {
	Steps int64
	Depth int
}

func (ev *evaluator) step() error {
	if err := ev.ctx.Err(); err != nil {
		return &RuntimeError{
			Code:    diagnostics.ECanceled,
			Message: fmt.Sprintf("execution canceled: %v", err),
		}
	}
	ev.tracker.Steps++
	if max := ev.opts.MaxSteps; max > 0 && ev.tracker.Steps > max {
		ev.emit(TraceBudgetExceeded, nil)
		return &RuntimeError{
			Code:    diagnostics.EBudget,
			Message: fmt.Sprintf("step budget exceeded (max %d)", max),
		}
	}
	return nil
}

func (ev *evaluator) enterCall() error {
	max := ev.opts.MaxDepth
	if max <= 0 {
		max = DefaultMaxDepth
	}
	if ev.tracker.Depth >= max {
		ev.emit(TraceBudgetExceeded, nil)
		return &RuntimeError{
			Code:    diagnostics.EBudget,
			Message: fmt.Sprintf("call depth exceeded (max %d)", max),
		}
	}
	ev.tracker.Depth++
	return nil
}

func (ev *evaluator) leaveCall() {
	ev.tracker.Depth--
}
