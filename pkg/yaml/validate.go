package yaml

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var defaultPrinter = message.NewPrinter(language.English)

// Validator validates data against a JSON schema.
// Uses [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schema, registered under url, into a [Validator].
// The schema must be a decoded JSON value.
func NewValidator(url string, schema any) (*Validator, error) {
	compiler := jsonschema.NewCompiler()

	err := compiler.AddResource(url, schema)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	jss, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: jss}, nil
}

// Validate validates data, which must be a decoded JSON value (maps,
// slices and scalars). Failures are returned as an [Error] whose path
// points at the most specific failing node.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	leaf := mostSpecific(validationErr)

	return NewError(
		errors.New(leaf.ErrorKind.LocalizedString(defaultPrinter)),
		WithPath(pathFromLocation(leaf.InstanceLocation)),
	)
}

// mostSpecific returns the cause with the longest instance location.
func mostSpecific(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	best := err

	for _, cause := range err.Causes {
		candidate := mostSpecific(cause)
		if len(candidate.InstanceLocation) > len(best.InstanceLocation) {
			best = candidate
		}
	}

	return best
}

func pathFromLocation(location []string) *yaml.Path {
	current := NewPathBuilder().Root()

	for _, part := range location {
		if index, err := strconv.ParseUint(part, 10, 0); err == nil {
			current = current.Index(uint(index))
		} else {
			current = current.Child(part)
		}
	}

	return current.Build()
}
