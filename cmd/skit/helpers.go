package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hlop3z/schemakit/pkg/schema"
)

// openManager loads the configuration and connects. reg may be nil.
func openManager(cmd *cobra.Command, g *globalFlags, reg prometheus.Registerer) (*schema.Manager, error) {
	cfg, err := loadConfig(g, getenv)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.managerOptions(logger)
	if err != nil {
		return nil, err
	}
	if reg != nil {
		opts = append(opts, schema.WithRegisterer(reg))
	}
	return schema.New(opts...)
}
