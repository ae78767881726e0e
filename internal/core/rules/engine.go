// Package rules evaluates configurable business rules against documents.
// Rules are CEL expressions compiled once and evaluated per document,
// so deployments can tighten validation without a code change.
package rules

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"ironstock/internal/core/apperror"
)

// Rule is a compiled business rule. Expression must evaluate to bool;
// a false result rejects the document with Message.
type Rule struct {
	Name       string
	Expression string
	Message    string

	program cel.Program
}

// Engine compiles and evaluates rules against a document snapshot.
// The snapshot is exposed to expressions as the `doc` variable
// (a map of field name to value).
type Engine struct {
	env   *cel.Env
	rules []*Rule
}

// NewEngine creates an engine with the document evaluation environment.
func NewEngine() (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("doc", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("create rule environment: %w", err)
	}
	return &Engine{env: env}, nil
}

// AddRule compiles and registers a rule. Compilation errors are returned
// immediately so misconfigured rules fail at startup, not at evaluation.
func (e *Engine) AddRule(name, expression, message string) error {
	ast, iss := e.env.Compile(expression)
	if iss != nil && iss.Err() != nil {
		return fmt.Errorf("compile rule %q: %w", name, iss.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return fmt.Errorf("rule %q must evaluate to bool, got %s", name, ast.OutputType())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return fmt.Errorf("build rule %q: %w", name, err)
	}

	e.rules = append(e.rules, &Rule{
		Name:       name,
		Expression: expression,
		Message:    message,
		program:    prg,
	})
	return nil
}

// Evaluate runs all registered rules against the document snapshot.
// Returns the first violation as a validation error.
func (e *Engine) Evaluate(ctx context.Context, doc map[string]any) error {
	for _, r := range e.rules {
		out, _, err := r.program.ContextEval(ctx, map[string]any{"doc": doc})
		if err != nil {
			return apperror.NewInternal(fmt.Errorf("evaluate rule %q: %w", r.Name, err))
		}

		ok, isBool := out.Value().(bool)
		if !isBool {
			return apperror.NewInternal(fmt.Errorf("rule %q returned non-bool result", r.Name))
		}
		if !ok {
			return apperror.NewValidation(r.Message).
				WithDetail("rule", r.Name)
		}
	}
	return nil
}

// Len returns the number of registered rules.
func (e *Engine) Len() int {
	return len(e.rules)
}
