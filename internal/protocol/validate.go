package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const schemaBase = "https://havenvoy.game/schemas/"

// Schema names accepted by Validate.
const (
	SchemaHello = "hello"
	SchemaAct   = "act"
	SchemaState = "state"
)

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func loadSchemas() {
	c := jsonschema.NewCompiler()
	names := []string{SchemaHello, SchemaAct, SchemaState}
	for _, n := range names {
		b, err := schemaFS.ReadFile("schemas/" + n + ".schema.json")
		if err != nil {
			schemasErr = err
			return
		}
		if err := c.AddResource(schemaBase+n+".schema.json", bytes.NewReader(b)); err != nil {
			schemasErr = fmt.Errorf("schema %s: %w", n, err)
			return
		}
	}
	schemas = map[string]*jsonschema.Schema{}
	for _, n := range names {
		s, err := c.Compile(schemaBase + n + ".schema.json")
		if err != nil {
			schemasErr = fmt.Errorf("compile %s: %w", n, err)
			return
		}
		schemas[n] = s
	}
}

// Validate checks raw JSON against one of the embedded message schemas.
func Validate(name string, raw []byte) error {
	schemasOnce.Do(loadSchemas)
	if schemasErr != nil {
		return schemasErr
	}
	s, ok := schemas[name]
	if !ok {
		return fmt.Errorf("no schema %q", name)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return s.Validate(v)
}

// ValidateAct checks an ACT message before it is decoded and dispatched.
func ValidateAct(raw []byte) error { return Validate(SchemaAct, raw) }
