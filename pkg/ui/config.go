package ui

import (
	"fmt"

	"github.com/macropower/flip/pkg/keys"
)

const (
	DefaultTheme        = "auto"
	DefaultGlamourStyle = "auto"
	DefaultMaxWidth     = 100
)

// Config contains TUI-specific configuration.
type Config struct {
	// KeyBinds configures the keys used in the TUI.
	KeyBinds *KeyBinds `json:"keyBinds,omitempty" jsonschema:"title=Key Binds"`
	// Markdown enables rendering pages as markdown.
	Markdown *bool `json:"markdown,omitempty" jsonschema:"title=Markdown"`
	// Mouse enables mouse drags as swipes and wheel scrolling.
	Mouse *bool `json:"mouse,omitempty" jsonschema:"title=Mouse"`
	// Theme is a chroma style name, or one of "auto", "dark" or "light".
	Theme string `json:"theme,omitempty" jsonschema:"title=Theme"`
	// GlamourStyle is a glamour style name or a path to a JSON style file.
	GlamourStyle string `json:"glamourStyle,omitempty" jsonschema:"title=Glamour Style"`
	// MaxWidth limits the width pages are wrapped to. Zero disables the limit.
	MaxWidth int `json:"maxWidth,omitempty" jsonschema:"title=Max Width,minimum=0"`
}

// NewConfig returns a [Config] with all defaults set.
func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.KeyBinds == nil {
		c.KeyBinds = &KeyBinds{}
	}

	c.KeyBinds.EnsureDefaults()

	if c.Markdown == nil {
		c.Markdown = new(bool)
		*c.Markdown = true
	}

	if c.Mouse == nil {
		c.Mouse = new(bool)
		*c.Mouse = true
	}

	if c.Theme == "" {
		c.Theme = DefaultTheme
	}

	if c.GlamourStyle == "" {
		c.GlamourStyle = DefaultGlamourStyle
	}

	if c.MaxWidth == 0 {
		c.MaxWidth = DefaultMaxWidth
	}
}

// KeyBinds binds TUI actions to keys. Next and Prev turn pages; "right" and
// "down" count as ArrowRight and ArrowDown, "left" and "up" as ArrowLeft and
// ArrowUp.
type KeyBinds struct {
	Quit    *keys.KeyBind `json:"quit,omitempty"`
	Suspend *keys.KeyBind `json:"suspend,omitempty"`
	Help    *keys.KeyBind `json:"help,omitempty"`
	Copy    *keys.KeyBind `json:"copy,omitempty"`
	Reload  *keys.KeyBind `json:"reload,omitempty"`
	Next    *keys.KeyBind `json:"next,omitempty"`
	Prev    *keys.KeyBind `json:"prev,omitempty"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.Quit, keys.NewBind("quit", keys.New("q")))
	// Always ensure that ctrl+c is bound to quit.
	kb.Quit.AddKey(keys.New("ctrl+c", keys.WithAlias("⌃c"), keys.Hidden()))

	keys.SetDefaultBind(&kb.Suspend,
		keys.NewBind("suspend",
			keys.New("ctrl+z", keys.WithAlias("⌃z"), keys.Hidden()),
		))
	keys.SetDefaultBind(&kb.Help,
		keys.NewBind("toggle help",
			keys.New("?"),
		))
	keys.SetDefaultBind(&kb.Copy,
		keys.NewBind("copy page",
			keys.New("c"),
		))
	keys.SetDefaultBind(&kb.Reload,
		keys.NewBind("reload book",
			keys.New("r"),
		))
	keys.SetDefaultBind(&kb.Next,
		keys.NewBind("next page",
			keys.New("right", keys.WithAlias("→")),
			keys.New("down", keys.WithAlias("↓")),
		))
	keys.SetDefaultBind(&kb.Prev,
		keys.NewBind("previous page",
			keys.New("left", keys.WithAlias("←")),
			keys.New("up", keys.WithAlias("↑")),
		))
}

// Validate reports key codes bound to more than one action.
func (kb *KeyBinds) Validate() error {
	err := keys.ValidateBinds(kb.all()...)
	if err != nil {
		return fmt.Errorf("validate key binds: %w", err)
	}

	return nil
}

func (kb *KeyBinds) all() []*keys.KeyBind {
	return []*keys.KeyBind{kb.Quit, kb.Suspend, kb.Help, kb.Copy, kb.Reload, kb.Next, kb.Prev}
}
