package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlop3z/schemakit/internal/cli"
	"github.com/hlop3z/schemakit/internal/plan"
)

// sqlCmd renders a plan without connecting.
func sqlCmd(g *globalFlags) *cobra.Command {
	var withComments bool

	cmd := &cobra.Command{
		Use:   "sql <plan>",
		Short: "Print the SQL a plan would run",
		Long: `Render every step of a plan for the configured dialect (or the one the
database URL selects) without opening a connection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g, getenv)
			if err != nil {
				return err
			}
			p, err := plan.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			dialect := cfg.dialectName()
			if !withComments {
				sqls, err := p.SQL(dialect)
				if err != nil {
					return err
				}
				for _, s := range sqls {
					fmt.Fprintln(out, s+";")
				}
				return nil
			}

			// per step, so each block can be labelled
			for i, step := range p.Steps {
				one := &plan.Plan{Name: p.Name, Path: p.Path, Steps: []plan.Step{step}}
				sqls, err := one.SQL(dialect)
				if err != nil {
					if se, ok := err.(*plan.StepError); ok {
						se.Index = i + 1
					}
					return err
				}
				fmt.Fprintln(out, cli.Dim(fmt.Sprintf("-- %d: %s", i+1, describe(step))))
				for _, s := range sqls {
					fmt.Fprintln(out, cli.SQL(s+";"))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withComments, "comments", false, "Label each step with a SQL comment")
	return cmd
}
