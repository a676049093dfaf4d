// Package main provides skit, a command-line front end for schemakit.
// skit applies declarative plan files of DDL steps to Postgres, SQLite or
// MySQL, renders them as SQL without a connection and inspects the catalog.
//
// Usage:
//
//	skit apply plans/0001_users.yaml     # Run every step in order
//	skit sql plans/0001_users.yaml       # Print the SQL, no connection
//	skit inspect [table]                 # List tables or describe one
//	skit enum-exists <name>              # Check for a native enum type
//	skit kinds                           # List column kinds
//	skit version
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hlop3z/schemakit/internal/cli"
)

// version is set via ldflags during build: -ldflags="-X main.version=v1.0.0"
var version = "dev"

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	databaseURL string
	configFile  string
	dialect     string
	driver      string
	logLevel    string
	noColor     bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "skit",
		Short:         "Apply and render portable DDL plans",
		Long:          `skit applies YAML or TOML plans of DDL steps (create table, add column, add index, ...) to Postgres, SQLite or MySQL.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.noColor {
				cli.SetDefault(&cli.Config{Mode: cli.ModePlain, Writer: cmd.OutOrStdout()})
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&g.databaseURL, "database-url", "d", "", "Database connection URL")
	pf.StringVarP(&g.configFile, "config", "c", "", "Path to config file (default: skit.yaml or skit.toml)")
	pf.StringVar(&g.dialect, "dialect", "", "Dialect: postgres, sqlite or mysql (default: detected from the URL)")
	pf.StringVar(&g.driver, "driver", "", "Postgres driver: postgres (lib/pq) or pgx")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		applyCmd(g),
		sqlCmd(g),
		inspectCmd(g),
		enumExistsCmd(g),
		kindsCmd(),
		versionCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the skit version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "skit %s\n", version)
		},
	}
}
