// Package keys defines configurable key bindings.
package keys

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateKey is returned when one key code is bound more than once.
var ErrDuplicateKey = errors.New("duplicate key binding")

// Key is a keyboard key, named the way Bubble Tea names key messages.
type Key struct {
	// Code is the key code, e.g. "right" or "ctrl+c".
	Code string `json:"code" jsonschema:"title=Code"`
	// Alias replaces the code in help output.
	Alias string `json:"alias,omitempty" jsonschema:"title=Alias"`
	// Hidden keys work but are left out of help output.
	Hidden bool `json:"hidden,omitempty" jsonschema:"title=Hidden"`
}

// KeyOpt configures a [Key].
type KeyOpt func(k *Key)

// New creates a new [Key].
func New(code string, opts ...KeyOpt) Key {
	k := Key{Code: code}
	for _, opt := range opts {
		opt(&k)
	}

	return k
}

// WithAlias sets the display name of the key.
func WithAlias(alias string) KeyOpt {
	return func(k *Key) {
		k.Alias = alias
	}
}

// Hidden hides the key from help output.
func Hidden() KeyOpt {
	return func(k *Key) {
		k.Hidden = true
	}
}

func (k Key) String() string {
	if k.Alias != "" {
		return k.Alias
	}

	return k.Code
}

// KeyBind binds one action to one or more keys.
type KeyBind struct {
	// Description is shown in help output.
	Description string `json:"description" jsonschema:"title=Description"`
	// Keys trigger the action.
	Keys []Key `json:"keys" jsonschema:"title=Keys"`
}

// NewBind creates a new [KeyBind].
func NewBind(description string, keys ...Key) KeyBind {
	return KeyBind{Description: description, Keys: keys}
}

// String joins the visible keys with "/".
func (kb *KeyBind) String() string {
	visible := make([]string, 0, len(kb.Keys))
	for _, k := range kb.Keys {
		if !k.Hidden {
			visible = append(visible, k.String())
		}
	}

	return strings.Join(visible, "/")
}

// Match reports whether code is bound.
func (kb *KeyBind) Match(code string) bool {
	if kb == nil {
		return false
	}

	for _, k := range kb.Keys {
		if k.Code == code {
			return true
		}
	}

	return false
}

// AddKey binds key, unless its code is already bound.
func (kb *KeyBind) AddKey(key Key) {
	if kb == nil || kb.Match(key.Code) {
		return
	}

	kb.Keys = append(kb.Keys, key)
}

// ValidateBinds returns an error for every key code bound more than once
// across all binds. Nil binds are skipped.
func ValidateBinds(kbs ...*KeyBind) error {
	var errs []error

	owner := make(map[string]string)
	for _, kb := range kbs {
		if kb == nil {
			continue
		}

		for _, key := range kb.Keys {
			if prev, ok := owner[key.Code]; ok {
				errs = append(errs, fmt.Errorf("%w: %q used by %q and %q",
					ErrDuplicateKey, key.Code, prev, kb.Description))

				continue
			}

			owner[key.Code] = kb.Description
		}
	}

	return errors.Join(errs...)
}

// SetDefaultBind fills *kb from def. A nil bind is replaced by a copy of
// def, and an existing bind keeps any keys and description it already has.
func SetDefaultBind(kb **KeyBind, def KeyBind) {
	if *kb == nil {
		*kb = &KeyBind{
			Description: def.Description,
			Keys:        append([]Key(nil), def.Keys...),
		}

		return
	}

	if len((*kb).Keys) == 0 {
		(*kb).Keys = append([]Key(nil), def.Keys...)
	}

	if (*kb).Description == "" {
		(*kb).Description = def.Description
	}
}
