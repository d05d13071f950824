package ui

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	glamouransi "github.com/charmbracelet/glamour/ansi"
)

// pageRenderer renders page bodies for the viewport.
type pageRenderer struct {
	tr       *glamour.TermRenderer
	width    int
	markdown bool
}

func newPageRenderer(style string, width int, markdown bool) (*pageRenderer, error) {
	pr := &pageRenderer{width: max(0, width), markdown: markdown}
	if !markdown {
		return pr, nil
	}

	sc, err := glamourStyle(style)
	if err != nil {
		return nil, err
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStyles(sc),
		glamour.WithWordWrap(pr.width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return nil, fmt.Errorf("create glamour renderer: %w", err)
	}

	pr.tr = tr

	return pr, nil
}

func (pr *pageRenderer) render(body string) (string, error) {
	if !pr.markdown {
		if pr.width <= 0 {
			return body, nil
		}

		return wordwrap.String(body, pr.width), nil
	}

	out, err := pr.tr.Render(body)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return strings.Trim(out, "\n"), nil
}

// glamourStyle returns the glamour style for a style name or JSON file.
func glamourStyle(style string) (glamouransi.StyleConfig, error) {
	if style == styles.AutoStyle {
		return getDefaultStyle(style)
	}

	return withStylePath(style)
}

func withStylesFromJSONFile(filename string) (glamouransi.StyleConfig, error) {
	var styleConfig glamouransi.StyleConfig

	jsonBytes, err := os.ReadFile(filename) //nolint:gosec // G304: Style files are user-provided.
	if err != nil {
		return styleConfig, fmt.Errorf("read glamour style: %w", err)
	}

	err = json.Unmarshal(jsonBytes, &styleConfig)
	if err != nil {
		return styleConfig, fmt.Errorf("parse glamour style: %w", err)
	}

	return styleConfig, nil
}

func getDefaultStyle(style string) (glamouransi.StyleConfig, error) {
	if style == styles.AutoStyle {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return styles.NoTTYStyleConfig, nil
		}

		if termenv.HasDarkBackground() {
			return styles.DarkStyleConfig, nil
		}

		return styles.LightStyleConfig, nil
	}

	ds, ok := styles.DefaultStyles[style]
	if !ok {
		return glamouransi.StyleConfig{}, fmt.Errorf("%s: style not found", style)
	}

	return *ds, nil
}

func withStylePath(stylePath string) (glamouransi.StyleConfig, error) {
	ds, err := getDefaultStyle(stylePath)
	if err != nil {
		return withStylesFromJSONFile(stylePath)
	}

	return ds, nil
}
