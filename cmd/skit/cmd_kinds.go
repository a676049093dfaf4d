package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlop3z/schemakit/pkg/schema"
)

// kindsCmd lists the column kinds plan files accept.
func kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List column kinds accepted in plan files",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, k := range schema.Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
		},
	}
}
