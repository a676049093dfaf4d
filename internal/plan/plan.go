// Package plan loads declarative migration plans: ordered lists of DDL steps
// written in YAML or TOML. Each step mirrors one schema shorthand call.
//
//	name: users
//	steps:
//	  - op: create_table
//	    table: users
//	    columns:
//	      - {name: id, type: pk_auto}
//	      - {name: email, type: string, length: 255, unique: true}
package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/hlop3z/schemakit/internal/alerr"
)

// Format is a plan file encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Plan is a named, ordered list of steps.
type Plan struct {
	Name  string
	Path  string
	Steps []Step
}

// rawPlan is the on-disk shape. Steps stay generic until their op is known.
type rawPlan struct {
	Name  string           `yaml:"name" toml:"name"`
	Steps []map[string]any `yaml:"steps" toml:"steps"`
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", alerr.New(alerr.ErrPlanInvalid, "unsupported plan file extension").
			With("file", path).
			WithHelp("use .yaml, .yml or .toml")
	}
}

// Load reads and decodes the plan at path.
func Load(path string) (*Plan, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, alerr.Wrap(alerr.ErrPlanNotFound, err, "plan file not found").With("file", path)
	}
	if err != nil {
		return nil, err
	}
	p, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	p.Path = path
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// Parse decodes a plan from data.
func Parse(data []byte, format Format) (*Plan, error) {
	var raw rawPlan
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil {
			return nil, alerr.Wrap(alerr.ErrPlanInvalid, err, "invalid YAML plan")
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &raw)
		if err != nil {
			return nil, alerr.Wrap(alerr.ErrPlanInvalid, err, "invalid TOML plan")
		}
		// Keys under steps are checked per step by decodeStep.
		for _, key := range md.Undecoded() {
			if len(key) > 0 && key[0] == "steps" {
				continue
			}
			return nil, alerr.New(alerr.ErrPlanInvalid, "unknown key in TOML plan").
				With("key", key.String())
		}
	default:
		return nil, alerr.New(alerr.ErrPlanInvalid, fmt.Sprintf("unknown plan format %q", format))
	}

	if len(raw.Steps) == 0 {
		return nil, alerr.New(alerr.ErrPlanInvalid, "plan has no steps")
	}

	p := &Plan{Name: raw.Name, Steps: make([]Step, 0, len(raw.Steps))}
	for i, m := range raw.Steps {
		step, err := decodeStep(m)
		if err != nil {
			return nil, stepError(i, m, err)
		}
		p.Steps = append(p.Steps, step)
	}
	return p, nil
}

func stepError(i int, m map[string]any, err error) error {
	e, ok := err.(*alerr.Error)
	if !ok {
		e = alerr.Wrap(alerr.ErrPlanInvalid, err, "invalid plan step")
	}
	e = e.With("step", i+1)
	if op, ok := m["op"].(string); ok {
		e = e.With("op", op)
	}
	return e
}
