package config

import (
	"fmt"
	"os"

	"github.com/macropower/flip/pkg/yaml"
)

const errorSourceLines = 4

// Validator validates decoded configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

// Loader validates and decodes configuration data.
type Loader struct {
	validator Validator
	data      []byte
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*Loader)

// WithValidator replaces the schema validator.
func WithValidator(v Validator) LoaderOpt {
	return func(l *Loader) {
		l.validator = v
	}
}

// NewLoaderFromBytes creates a [Loader] for data.
func NewLoaderFromBytes(data []byte, opts ...LoaderOpt) *Loader {
	l := &Loader{data: data}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// NewLoaderFromFile creates a [Loader] for the file at path.
func NewLoaderFromFile(path string, opts ...LoaderOpt) (*Loader, error) {
	data, err := readConfig(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return NewLoaderFromBytes(data, opts...), nil
}

// Validate validates the data against the schema without loading it into a
// [Config].
func (l *Loader) Validate() error {
	v := l.validator
	if v == nil {
		dv, err := DefaultValidator()
		if err != nil {
			return fmt.Errorf("create validator: %w", err)
		}

		v = dv
	}

	var anyConfig any

	err := yaml.Unmarshal(l.data, &anyConfig)
	if err != nil {
		return l.wrap(err)
	}

	err = v.Validate(anyConfig)
	if err != nil {
		return l.wrap(err)
	}

	return nil
}

// Load validates and decodes the data into a [Config] with defaults set.
func (l *Loader) Load() (*Config, error) {
	err := l.Validate()
	if err != nil {
		return nil, err
	}

	c := &Config{}

	err = yaml.Unmarshal(l.data, c)
	if err != nil {
		return nil, l.wrap(err)
	}

	c.EnsureDefaults()

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (l *Loader) wrap(err error) error {
	return yaml.Wrap(err, yaml.WithSource(l.data), yaml.WithSourceLines(errorSourceLines))
}

func readConfig(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	if pathInfo.IsDir() {
		return nil, fmt.Errorf("%s: path is a directory", path)
	}

	if !pathInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: unknown file state", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: The config path is user-provided.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}
