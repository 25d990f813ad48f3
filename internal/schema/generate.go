// Package schema generates JSON Schema from the claude-hooks config types.
package schema

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"

	"github.com/smykla-skalski/claude-hooks/pkg/config"
)

const (
	schemaURI   = "https://json-schema.org/draft/2020-12/schema"
	schemaID    = "https://github.com/smykla-skalski/claude-hooks/" + FileName
	title       = "claude-hooks configuration"
	description = "Project settings for claude-hooks, read from .claude/hooks.toml " +
		"and overridden by CLAUDE_HOOKS_* environment variables."

	// FileName is the schema file written next to the project config.
	FileName = "hooks.schema.json"
)

// SchemaDirective returns the Taplo directive pointing TOML tooling at the
// schema file.
func SchemaDirective() string {
	return "#:schema ./" + FileName
}

// Generate produces the hooks config schema. Sections are inlined at the
// top level; shared types such as Duration stay under $defs.
func Generate() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	s := r.Reflect(&config.Config{})
	s.Version = schemaURI
	s.ID = jsonschema.ID(schemaID)
	s.Title = title
	s.Description = description

	return s
}

// GenerateJSON produces a JSON Schema as bytes.
// When indent is true, the output is pretty-printed.
func GenerateJSON(indent bool) ([]byte, error) {
	s := Generate()

	var (
		data []byte
		err  error
	)

	if indent {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = json.Marshal(s)
	}

	if err != nil {
		return nil, errors.Wrap(err, "marshaling schema to JSON")
	}

	return append(data, '\n'), nil
}
