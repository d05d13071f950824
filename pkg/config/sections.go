package config

import (
	"fmt"
	"time"

	"github.com/macropower/flip/pkg/book"
	"github.com/macropower/flip/pkg/expr"
	"github.com/macropower/flip/pkg/gesture"
	"github.com/macropower/flip/pkg/ui"
	"github.com/macropower/flip/pkg/yaml"
)

// GestureConfig configures swipe recognition.
type GestureConfig struct {
	// MaxSwipeTime is the longest a swipe may take.
	MaxSwipeTime *yaml.Duration `json:"maxSwipeTime,omitempty" jsonschema:"title=Max Swipe Time"`
	// MinSwipeDistance is the horizontal travel a swipe needs, in touch units.
	MinSwipeDistance float64 `json:"minSwipeDistance,omitempty" jsonschema:"title=Min Swipe Distance,minimum=0"`
	// CellWidth is the width of a terminal cell in touch units.
	CellWidth float64 `json:"cellWidth,omitempty" jsonschema:"title=Cell Width,minimum=0"`
	// CellHeight is the height of a terminal cell in touch units.
	CellHeight float64 `json:"cellHeight,omitempty" jsonschema:"title=Cell Height,minimum=0"`
}

func (g *GestureConfig) EnsureDefaults() {
	if g.MinSwipeDistance == 0 {
		g.MinSwipeDistance = gesture.DefaultMinSwipeDistance
	}

	if g.MaxSwipeTime == nil {
		d := yaml.Duration(gesture.DefaultMaxSwipeTime)
		g.MaxSwipeTime = &d
	}

	if g.CellWidth == 0 {
		g.CellWidth = ui.DefaultCellWidth
	}

	if g.CellHeight == 0 {
		g.CellHeight = ui.DefaultCellHeight
	}
}

// Thresholds returns the swipe thresholds.
func (g *GestureConfig) Thresholds() gesture.Thresholds {
	th := gesture.DefaultThresholds()
	if g.MinSwipeDistance > 0 {
		th.MinSwipeDistance = g.MinSwipeDistance
	}

	if g.MaxSwipeTime != nil && g.MaxSwipeTime.Std() > 0 {
		th.MaxSwipeTime = g.MaxSwipeTime.Std()
	}

	return th
}

func (g *GestureConfig) Validate() error {
	if g.MaxSwipeTime != nil && g.MaxSwipeTime.Std() < time.Millisecond {
		return fmt.Errorf("%w: maxSwipeTime must be at least 1ms", ErrInvalidConfig)
	}

	return nil
}

// BookConfig configures how documents are split into pages.
type BookConfig struct {
	// Separator is the line that ends a page.
	Separator string `json:"separator,omitempty" jsonschema:"title=Separator"`
	// Where is a CEL expression selecting the pages to show, e.g.
	// "page.words > 10".
	Where string `json:"where,omitempty" jsonschema:"title=Where"`
}

func (b *BookConfig) EnsureDefaults() {
	if b.Separator == "" {
		b.Separator = book.DefaultSeparator
	}
}

// Validate compiles Where.
func (b *BookConfig) Validate() error {
	if b.Where == "" {
		return nil
	}

	env, err := expr.NewEnvironment()
	if err != nil {
		return fmt.Errorf("create environment: %w", err)
	}

	_, err = env.Compile(b.Where)
	if err != nil {
		return fmt.Errorf("%w: where: %w", ErrInvalidConfig, err)
	}

	return nil
}

// Options returns the [book.Opt] values for b.
func (b *BookConfig) Options() []book.Opt {
	opts := []book.Opt{book.WithSeparator(b.Separator)}
	if b.Where != "" {
		opts = append(opts, book.WithWhere(b.Where))
	}

	return opts
}
