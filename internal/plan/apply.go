package plan

import (
	"context"
	"fmt"

	"github.com/hlop3z/schemakit/pkg/schema"
)

// StepError reports the step that failed. The cause is returned unchanged
// by Unwrap, so driver errors stay inspectable.
type StepError struct {
	Plan  string // file path, empty for parsed plans
	Index int    // 1-based
	Op    string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Location(), e.Err)
}

// Location names the failing step, prefixed by the plan file when known.
func (e *StepError) Location() string {
	loc := fmt.Sprintf("step %d (%s)", e.Index, e.Op)
	if e.Plan != "" {
		loc = e.Plan + ": " + loc
	}
	return loc
}

func (e *StepError) Unwrap() error { return e.Err }

// Statements builds every step's statement.
func (p *Plan) Statements() ([]schema.Statement, error) {
	stmts := make([]schema.Statement, 0, len(p.Steps))
	for i, step := range p.Steps {
		stmt, err := step.Statement()
		if err != nil {
			return nil, &StepError{Plan: p.Path, Index: i + 1, Op: step.Op(), Err: err}
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// Apply runs the steps in order and stops at the first error. Steps that
// already ran are not undone. progress, when non-nil, is called after each
// successful step.
func (p *Plan) Apply(ctx context.Context, a schema.Applier, progress func(i int, step Step)) error {
	stmts, err := p.Statements()
	if err != nil {
		return err
	}
	for i, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.Apply(ctx, stmt); err != nil {
			return &StepError{Plan: p.Path, Index: i + 1, Op: p.Steps[i].Op(), Err: err}
		}
		if progress != nil {
			progress(i+1, p.Steps[i])
		}
	}
	return nil
}

// SQL renders the plan for dialect without a connection.
func (p *Plan) SQL(dialect string) ([]string, error) {
	var out []string
	for i, step := range p.Steps {
		stmt, err := step.Statement()
		if err == nil {
			var sqls []string
			sqls, err = schema.Render(dialect, stmt)
			out = append(out, sqls...)
		}
		if err != nil {
			return nil, &StepError{Plan: p.Path, Index: i + 1, Op: step.Op(), Err: err}
		}
	}
	return out, nil
}
