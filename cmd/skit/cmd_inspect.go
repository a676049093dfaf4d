package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/cli"
	"github.com/hlop3z/schemakit/pkg/schema"
)

// inspectCmd lists tables or describes one.
func inspectCmd(g *globalFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect [table]",
		Short: "List tables or describe one table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openManager(cmd, g, nil)
			if err != nil {
				return err
			}
			defer m.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				tables, err := m.Tables(ctx)
				if err != nil {
					return err
				}
				if jsonOutput {
					if tables == nil {
						tables = []string{}
					}
					return writeJSON(cmd, map[string]any{"dialect": m.Dialect(), "tables": tables})
				}
				for _, t := range tables {
					fmt.Fprintln(out, t)
				}
				return nil
			}

			info, err := m.Table(ctx, args[0])
			if err != nil {
				return err
			}
			if info == nil {
				return alerr.New(alerr.ErrSchemaInvalid, "table does not exist").WithTable(args[0])
			}
			if jsonOutput {
				return writeJSON(cmd, tableJSON(info))
			}
			fmt.Fprint(out, describeTable(info))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func describeTable(info *schema.TableInfo) string {
	var b strings.Builder

	b.WriteString(cli.Header(info.Name))
	b.WriteString("\n\n")

	cols := cli.NewTable("COLUMN", "TYPE", "KIND", "NULL", "DEFAULT", "KEY")
	for _, c := range info.Columns {
		key := ""
		switch {
		case c.PrimaryKey:
			key = "PK"
		case c.Unique:
			key = "UNIQUE"
		}
		def := ""
		if c.Default.Valid {
			def = c.Default.String
		}
		cols.AddRow(c.Name, c.DataType, c.Kind, yesNo(c.Nullable), def, key)
	}
	b.WriteString(cols.String())

	if len(info.Indexes) > 0 {
		b.WriteString("\n")
		idx := cli.NewTable("INDEX", "COLUMNS", "UNIQUE")
		for _, ix := range info.Indexes {
			idx.AddRow(ix.Name, strings.Join(ix.Columns, ", "), yesNo(ix.Unique))
		}
		b.WriteString(idx.String())
	}

	if len(info.ForeignKeys) > 0 {
		b.WriteString("\n")
		fks := cli.NewTable("FOREIGN KEY", "COLUMNS", "REFERENCES", "ON DELETE")
		for _, fk := range info.ForeignKeys {
			ref := fk.RefTable + "(" + strings.Join(fk.RefColumns, ", ") + ")"
			fks.AddRow(fk.Name, strings.Join(fk.Columns, ", "), ref, fk.OnDelete)
		}
		b.WriteString(fks.String())
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

type columnJSON struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Kind       string  `json:"kind,omitempty"`
	Nullable   bool    `json:"nullable"`
	Default    *string `json:"default"`
	PrimaryKey bool    `json:"primary_key,omitempty"`
	Unique     bool    `json:"unique,omitempty"`
}

type indexJSON struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique"`
}

type foreignKeyJSON struct {
	Name       string   `json:"name"`
	Columns    []string `json:"columns"`
	References string   `json:"references"`
	RefColumns []string `json:"ref_columns"`
	OnDelete   string   `json:"on_delete,omitempty"`
	OnUpdate   string   `json:"on_update,omitempty"`
}

func tableJSON(info *schema.TableInfo) map[string]any {
	cols := make([]columnJSON, 0, len(info.Columns))
	for _, c := range info.Columns {
		cj := columnJSON{
			Name:       c.Name,
			Type:       c.DataType,
			Kind:       c.Kind,
			Nullable:   c.Nullable,
			PrimaryKey: c.PrimaryKey,
			Unique:     c.Unique,
		}
		if c.Default.Valid {
			d := c.Default.String
			cj.Default = &d
		}
		cols = append(cols, cj)
	}
	idxs := make([]indexJSON, 0, len(info.Indexes))
	for _, ix := range info.Indexes {
		idxs = append(idxs, indexJSON{Name: ix.Name, Columns: ix.Columns, Unique: ix.Unique})
	}
	fks := make([]foreignKeyJSON, 0, len(info.ForeignKeys))
	for _, fk := range info.ForeignKeys {
		fks = append(fks, foreignKeyJSON{
			Name:       fk.Name,
			Columns:    fk.Columns,
			References: fk.RefTable,
			RefColumns: fk.RefColumns,
			OnDelete:   fk.OnDelete,
			OnUpdate:   fk.OnUpdate,
		})
	}
	return map[string]any{
		"name":         info.Name,
		"columns":      cols,
		"indexes":      idxs,
		"foreign_keys": fks,
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
