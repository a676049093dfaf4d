package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hlop3z/schemakit/pkg/schema"
)

// enumExistsCmd reports whether a native enumerated type exists.
func enumExistsCmd(g *globalFlags) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "enum-exists <name>",
		Short: "Check whether a native enum type exists",
		Long: `Prints true or false. Only Postgres has named enum types; SQLite and
MySQL always report false. With --quiet nothing is printed and a missing type
exits with status 2.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openManager(cmd, g, nil)
			if err != nil {
				return err
			}
			defer m.Close()

			exists, err := schema.EnumTypeExists(cmd.Context(), m, args[0])
			if err != nil {
				return err
			}
			if quiet {
				if !exists {
					return errEnumMissing
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatBool(exists))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print nothing; exit 2 when the type is missing")
	return cmd
}
