package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"

	santhosh "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/macropower/flip/pkg/yaml"
)

//go:generate go run ../../internal/schemagen -root ../.. -o config.v1beta1.json

// SchemaURL identifies the configuration schema.
const SchemaURL = "https://flip.jacobcolvin.com/" + schemaFile

// DefaultValidator returns the validator for the generated schema.
var DefaultValidator = sync.OnceValues(func() (*yaml.Validator, error) {
	b, err := SchemaJSON()
	if err != nil {
		return nil, err
	}

	doc, err := santhosh.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}

	return yaml.NewValidator(SchemaURL, doc)
})

// NewReflector returns the [jsonschema.Reflector] that generates the
// configuration schema.
func NewReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		FieldNameTag:   "json",
		ExpandedStruct: true,
	}
}

// Schema generates the schema for [Config] with r.
func Schema(r *jsonschema.Reflector) *jsonschema.Schema {
	s := r.Reflect(&Config{})
	s.ID = jsonschema.ID(SchemaURL)
	s.Title = "flip configuration"

	return s
}

// SchemaJSON returns the indented JSON encoding of the schema.
func SchemaJSON() ([]byte, error) {
	b, err := json.MarshalIndent(Schema(NewReflector()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(b, '\n'), nil
}
