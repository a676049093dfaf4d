package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/cli"
	"github.com/hlop3z/schemakit/internal/plan"
	"github.com/hlop3z/schemakit/pkg/schema"
)

// applyCmd runs a plan against the configured database.
func applyCmd(g *globalFlags) *cobra.Command {
	var (
		metricsFile string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "apply <plan>",
		Short: "Apply a plan file step by step",
		Long: `Apply runs every step of a YAML or TOML plan in order and stops at the
first failure. Steps that already ran are not undone.

Dropping a table that has rows, or a column that holds values, is refused
unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan.Load(args[0])
			if err != nil {
				return err
			}

			var reg *prometheus.Registry
			if metricsFile != "" {
				reg = prometheus.NewRegistry()
			}
			m, err := openManager(cmd, g, registerer(reg))
			if err != nil {
				return err
			}
			defer m.Close()

			if !force {
				if err := checkDataLoss(cmd, m, p); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			total := len(p.Steps)
			err = p.Apply(cmd.Context(), m, func(i int, step plan.Step) {
				fmt.Fprint(out, cli.StepLine(i, total, true, describe(step)))
			})

			// written even on failure so the error counter is visible
			if reg != nil {
				if werr := prometheus.WriteToTextfile(metricsFile, reg); werr != nil && err == nil {
					err = werr
				}
			}
			if err != nil {
				var se *plan.StepError
				if errors.As(err, &se) {
					fmt.Fprint(out, cli.StepLine(se.Index, total, false, describe(p.Steps[se.Index-1])))
				}
				return err
			}

			fmt.Fprint(out, cli.FormatSuccess(fmt.Sprintf("applied %s from %s (%s)",
				cli.FormatCount(total, "step", "steps"), p.Name, m.Dialect())))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Apply even when a step drops stored data")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file (textfile collector format)")
	return cmd
}

// checkDataLoss refuses plans whose drops would discard data already in
// the database. Targets created by earlier steps of the same plan are empty
// and never reported.
func checkDataLoss(cmd *cobra.Command, m *schema.Manager, p *plan.Plan) error {
	stmts, err := p.Statements()
	if err != nil {
		return err
	}
	losses, err := m.DataLoss(cmd.Context(), stmts...)
	if err != nil || len(losses) == 0 {
		return err
	}

	e := alerr.New(alerr.ErrDataLoss, "plan would drop stored data").With("file", p.Path)
	for _, l := range losses {
		e.WithNote(l.String())
	}
	return e.WithHelp("back up the data, then rerun with --force")
}

// registerer avoids handing a typed nil to the manager.
func registerer(reg *prometheus.Registry) prometheus.Registerer {
	if reg == nil {
		return nil
	}
	return reg
}

// describe renders a one-line summary of a step: its op and the object it
// touches.
func describe(step plan.Step) string {
	parts := []string{step.Op()}
	switch s := step.(type) {
	case *plan.CreateTableStep:
		parts = append(parts, s.Table)
	case *plan.DropTableStep:
		parts = append(parts, s.Table)
	case *plan.AddColumnStep:
		parts = append(parts, s.Table+"."+s.Column.Name)
	case *plan.RemoveColumnStep:
		parts = append(parts, s.Table+"."+s.Column)
	case *plan.RenameColumnStep:
		parts = append(parts, s.Table+"."+s.From, "->", s.To)
	case *plan.AddIndexStep:
		parts = append(parts, s.Table, s.Name)
	case *plan.RemoveIndexStep:
		parts = append(parts, s.Table, s.Name)
	case *plan.AddForeignKeyStep:
		parts = append(parts, s.Table, "->", s.References)
	case *plan.RemoveForeignKeyStep:
		parts = append(parts, s.Table, s.Name)
	case *plan.RenameTableStep:
		parts = append(parts, s.From, "->", s.To)
	case *plan.CreateEnumStep:
		parts = append(parts, s.Name)
	case *plan.DropEnumStep:
		parts = append(parts, s.Name)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
