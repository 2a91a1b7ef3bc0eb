// Package validator implements static checks of lpi programs.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/ast"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/diagnostics"
)

var elementTypes = map[string]bool{
	"int":   true,
	"float": true,
}

type validator struct {
	diags   []diagnostics.Diagnostic
	natives map[string]int
	defs    map[string][]int // user function name → arities of its definitions
	calls   bool             // resolve calls and check definitions against each other
}

// Validate checks program without executing it. natives maps each native
// function name to its arity.
func Validate(program *ast.Program, natives map[string]int) []diagnostics.Diagnostic {
	v := &validator{
		natives: natives,
		defs:    make(map[string][]int),
		calls:   true,
	}
	v.collectDefs(program)
	ast.Inspect(program, v.visit)
	return v.diags
}

// ValidateStructure reports only the faults evaluation never detects on its
// own: duplicate parameters and unknown element types. Calls are left for the
// evaluator to resolve as they execute.
func ValidateStructure(program *ast.Program) []diagnostics.Diagnostic {
	v := &validator{}
	ast.Inspect(program, v.visit)
	return v.diags
}

func (v *validator) addDiag(code, msg string, span ast.Span, hint string) {
	v.diags = append(v.diags, diagnostics.MakeDiag(code, msg, &span, hint))
}

// collectDefs records every function definition so that calls may precede
// the definition textually, and reports duplicate top-level definitions.
func (v *validator) collectDefs(program *ast.Program) {
	ast.Inspect(program, func(n ast.Node) bool {
		if def, ok := n.(*ast.FunDef); ok {
			v.defs[def.Name] = append(v.defs[def.Name], len(def.Params))
		}
		return true
	})

	seen := make(map[string]bool)
	for _, stmt := range program.Body.List.Statements {
		def, ok := stmt.(*ast.FunDef)
		if !ok {
			continue
		}
		if seen[def.Name] {
			v.addDiag(diagnostics.EFnDup, fmt.Sprintf("duplicate definition of function '%s'", def.Name), def.Span, "")
		}
		seen[def.Name] = true
	}
}

func (v *validator) visit(n ast.Node) bool {
	switch node := n.(type) {
	case *ast.FunDef:
		v.validateFunDef(node)
	case *ast.FunCall:
		if v.calls {
			v.validateCall(node)
		}
	case *ast.NewArray:
		if !elementTypes[node.ElemType] {
			v.addDiag(diagnostics.EType, fmt.Sprintf("unknown element type '%s'", node.ElemType), node.Span, "use int or float")
		}
	}
	return true
}

func (v *validator) validateFunDef(def *ast.FunDef) {
	if _, ok := v.natives[def.Name]; ok && v.calls {
		v.addDiag(diagnostics.EFnDup, fmt.Sprintf("function '%s' would shadow a native function", def.Name), def.Span, "")
	}
	seen := make(map[string]bool, len(def.Params))
	for _, p := range def.Params {
		if seen[p] {
			v.addDiag(diagnostics.EDupParam, fmt.Sprintf("duplicate parameter '%s' in function '%s'", p, def.Name), def.Span, "")
		}
		seen[p] = true
	}
}

func (v *validator) validateCall(call *ast.FunCall) {
	n := len(call.Args)
	if arities, ok := v.defs[call.Name]; ok {
		for _, a := range arities {
			if a == n {
				return
			}
		}
		v.addDiag(diagnostics.EArity, fmt.Sprintf("function '%s' expects %s argument(s), got %d", call.Name, joinArities(arities), n), call.Span, "")
		return
	}
	if arity, ok := v.natives[call.Name]; ok {
		if arity != n {
			v.addDiag(diagnostics.EArity, fmt.Sprintf("function '%s' expects %d argument(s), got %d", call.Name, arity, n), call.Span, "")
		}
		return
	}
	v.addDiag(diagnostics.EUnknownFn, fmt.Sprintf("unknown function '%s'", call.Name), call.Span, v.suggest(call.Name))
}

func joinArities(arities []int) string {
	uniq := make(map[int]bool)
	var parts []string
	for _, a := range arities {
		if !uniq[a] {
			uniq[a] = true
			parts = append(parts, fmt.Sprint(a))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, " or ")
}

// suggest returns a hint naming a known function that differs from name only
// in letter case.
func (v *validator) suggest(name string) string {
	var known []string
	for n := range v.defs {
		known = append(known, n)
	}
	for n := range v.natives {
		known = append(known, n)
	}
	sort.Strings(known)
	for _, k := range known {
		if strings.EqualFold(k, name) {
			return fmt.Sprintf("did you mean '%s'?", k)
		}
	}
	return ""
}
