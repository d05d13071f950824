package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/flip/pkg/ui"
	"github.com/macropower/flip/pkg/yaml"
)

const (
	APIVersion = "flip.jacobcolvin.com/v1beta1"
	Kind       = "Configuration"

	schemaFile = "config.v1beta1.json"
)

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	ValidAPIVersions = []string{APIVersion}
	ValidKinds       = []string{Kind}

	ErrInvalidConfig = errors.New("invalid config")
)

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Gesture configures swipe recognition.
	Gesture *GestureConfig `json:"gesture,omitempty" jsonschema:"title=Gesture"`
	// Book configures how documents are split into pages.
	Book *BookConfig `json:"book,omitempty" jsonschema:"title=Book"`
	// UI configures the terminal interface.
	UI *ui.Config `json:"ui,omitempty" jsonschema:"title=UI"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

func NewConfig() *Config {
	c := &Config{
		APIVersion: APIVersion,
		Kind:       Kind,
	}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.Gesture == nil {
		c.Gesture = &GestureConfig{}
	}

	c.Gesture.EnsureDefaults()

	if c.Book == nil {
		c.Book = &BookConfig{}
	}

	c.Book.EnsureDefaults()

	if c.UI == nil {
		c.UI = &ui.Config{}
	}

	c.UI.EnsureDefaults()
}

// Validate runs the checks that the schema cannot express.
func (c *Config) Validate() error {
	return errors.Join(
		c.Gesture.Validate(),
		c.Book.Validate(),
		c.UI.KeyBinds.Validate(),
	)
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	apiVersion, ok := jss.Properties.Get("apiVersion")
	if !ok {
		panic("apiVersion property not found in schema")
	}

	for _, version := range ValidAPIVersions {
		apiVersion.OneOf = append(apiVersion.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: version,
			Title: "API Version",
		})
	}

	_, _ = jss.Properties.Set("apiVersion", apiVersion)

	kind, ok := jss.Properties.Get("kind")
	if !ok {
		panic("kind property not found in schema")
	}

	for _, kindValue := range ValidKinds {
		kind.OneOf = append(kind.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: kindValue,
			Title: "Kind",
		})
	}

	_, _ = jss.Properties.Set("kind", kind)
}

func (c *Config) MarshalYAML() ([]byte, error) {
	b := &bytes.Buffer{}

	enc := yaml.NewEncoder(b)

	err := enc.Encode(*c)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b.Bytes(), nil
}

// Write writes c to path, unless a file already exists there.
func (c Config) Write(path string) error {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.Mode().IsRegular() {
			return nil // Config already exists.
		}

		if pathInfo.IsDir() {
			return fmt.Errorf("%s: path is a directory", path)
		}

		return fmt.Errorf("%s: unknown file state", path)
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = os.WriteFile(path, b, 0o600)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// WriteDefaultConfig writes the default config.yaml and its JSON schema to
// the directory of path. An existing config is kept, unless force is set,
// in which case it is moved to a backup first.
func WriteDefaultConfig(path string, force bool) error {
	configExists := false

	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		switch {
		case err == nil && pathInfo.Mode().IsRegular():
			configExists = true
		case pathInfo.IsDir():
			return fmt.Errorf("%s: path is a directory", path)
		default:
			return fmt.Errorf("%s: unknown file state", path)
		}
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if configExists && force {
		backupFile := fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano())
		backupPath := filepath.Join(filepath.Dir(path), backupFile)
		slog.Info("backing up existing config file",
			slog.String("path", backupPath),
		)

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("rename existing config file to backup: %w", err)
		}

		configExists = false
	}

	if configExists {
		slog.Debug("configuration file already exists, skipping write",
			slog.String("path", path),
		)
	} else {
		slog.Info("write default configuration",
			slog.String("path", path),
		)

		err = os.WriteFile(path, defaultConfigYAML, 0o600)
		if err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}

	schemaJSON, err := SchemaJSON()
	if err != nil {
		return err
	}

	schemaPath := filepath.Join(filepath.Dir(path), schemaFile)
	slog.Debug("write JSON schema",
		slog.String("path", schemaPath),
	)

	err = os.WriteFile(schemaPath, schemaJSON, 0o600)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}

// GetPath returns the default config path, $XDG_CONFIG_HOME/flip/config.yaml.
func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "flip", "config.yaml")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "flip", "config.yaml")
	}

	tmpConfig := filepath.Join(os.TempDir(), "flip", "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmpConfig),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpConfig
}
