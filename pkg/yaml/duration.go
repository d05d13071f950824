package yaml

import (
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
)

// Duration is a [time.Duration] written as a Go duration string, e.g.
// "500ms".
type Duration time.Duration

// Std returns d as a [time.Duration].
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalYAML implements [github.com/goccy/go-yaml.InterfaceMarshaler].
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalYAML implements [github.com/goccy/go-yaml.InterfaceUnmarshaler].
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string

	err := unmarshal(&s)
	if err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}

	*d = Duration(parsed)

	return nil
}

// JSONSchema implements [jsonschema.JSONSchemer].
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Pattern:     `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
		Description: "A duration string, e.g. 500ms or 1.5s.",
	}
}
