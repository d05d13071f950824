// Package theme derives lipgloss styles from chroma styles.
package theme

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Icons.
const (
	Ellipsis   = "…"
	ArrowLeft  = "‹"
	ArrowRight = "›"
	Dot        = "•"
)

var (
	ErrInvalidName    = errors.New("invalid theme name")
	ErrRegisterStyles = errors.New("register styles")
)

var Default = New("github")

type Theme struct {
	ErrorTitleStyle           lipgloss.Style
	GenericTextStyle          lipgloss.Style
	HelpStyle                 lipgloss.Style
	IndicatorStyle            lipgloss.Style
	LogoStyle                 lipgloss.Style
	PaginationActiveStyle     lipgloss.Style
	PaginationStyle           lipgloss.Style
	StatusBarErrorStyle       lipgloss.Style
	StatusBarErrorHelpStyle   lipgloss.Style
	StatusBarHelpStyle        lipgloss.Style
	StatusBarMessageHelpStyle lipgloss.Style
	StatusBarMessagePosStyle  lipgloss.Style
	StatusBarMessageStyle     lipgloss.Style
	StatusBarPosStyle         lipgloss.Style
	StatusBarStyle            lipgloss.Style
	SubtleStyle               lipgloss.Style
	TitleStyle                lipgloss.Style

	ChromaStyle *chroma.Style
	Ellipsis    string
}

func New(theme string) *Theme {
	style := newChromaStyle(theme)

	var (
		genericStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.Background))

		logoStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromTokenBg(chroma.Background)).
				Background(style.lipglossFromToken(chroma.NameTag)).
				Bold(true)

		titleStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.NameTag)).
				Bold(true)

		indicatorStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.NameTag)).
				Bold(true)

		helpStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromTokenWithFactor(chroma.Background, 0.2)).
				Background(style.lipglossFromTokenBgWithFactor(chroma.Background, 0.2))

		statusBarStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.Background)).
				Background(style.lipglossFromTokenBgWithFactor(chroma.Background, 0.1))

		statusBarPosStyle = lipgloss.NewStyle().
					Foreground(style.lipglossFromToken(chroma.Background)).
					Background(style.lipglossFromTokenBgWithFactor(chroma.Background, 0.15))

		statusBarHelpStyle = helpStyle

		statusBarMessageStyle = lipgloss.NewStyle().
					Foreground(style.lipglossFromTokenBg(chroma.Background)).
					Background(style.lipglossFromTokenWithFactor(chroma.NameTag, 0.15))

		statusBarMessagePosStyle = lipgloss.NewStyle().
						Foreground(style.lipglossFromTokenBg(chroma.Background)).
						Background(style.lipglossFromTokenWithFactor(chroma.NameTag, 0.1))

		statusBarMessageHelpStyle = genericStyle.
						Foreground(style.lipglossFromTokenBg(chroma.Background)).
						Background(style.lipglossFromToken(chroma.NameTag))

		statusBarErrorStyle = lipgloss.NewStyle().
					Foreground(style.lipglossFromTokenBg(chroma.Background)).
					Background(style.lipglossFromToken(chroma.GenericDeleted))

		statusBarErrorHelpStyle = lipgloss.NewStyle().
					Foreground(style.lipglossFromTokenBg(chroma.Background)).
					Background(style.lipglossFromTokenWithFactor(chroma.GenericDeleted, 0.2))

		errorTitleStyle = genericStyle.
				Background(style.lipglossFromToken(chroma.GenericDeleted))

		subtleStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.Comment))

		paginationActiveStyle = lipgloss.NewStyle().
					Foreground(style.lipglossFromToken(chroma.NameTag))

		paginationStyle = subtleStyle
	)

	return &Theme{
		ErrorTitleStyle:           errorTitleStyle,
		GenericTextStyle:          genericStyle,
		HelpStyle:                 helpStyle,
		IndicatorStyle:            indicatorStyle,
		LogoStyle:                 logoStyle,
		PaginationActiveStyle:     paginationActiveStyle,
		PaginationStyle:           paginationStyle,
		StatusBarErrorStyle:       statusBarErrorStyle,
		StatusBarErrorHelpStyle:   statusBarErrorHelpStyle,
		StatusBarHelpStyle:        statusBarHelpStyle,
		StatusBarMessageHelpStyle: statusBarMessageHelpStyle,
		StatusBarMessagePosStyle:  statusBarMessagePosStyle,
		StatusBarMessageStyle:     statusBarMessageStyle,
		StatusBarPosStyle:         statusBarPosStyle,
		StatusBarStyle:            statusBarStyle,
		SubtleStyle:               subtleStyle,
		TitleStyle:                titleStyle,

		ChromaStyle: style.style,
		Ellipsis:    Ellipsis,
	}
}

// Register adds a chroma style under name, making it available to [New].
func Register(name string, entries chroma.StyleEntries) error {
	if name == "" {
		return ErrInvalidName
	}

	customTheme, err := chroma.NewStyle(name, entries)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegisterStyles, err)
	}

	styles.Register(customTheme)

	return nil
}

type chromaStyle struct {
	style *chroma.Style
}

func newChromaStyle(theme string) chromaStyle {
	s := styles.Get(getStyle(theme))
	if s == nil {
		s = styles.Fallback
	}

	return chromaStyle{
		style: s,
	}
}

func (cs chromaStyle) lipglossFromToken(c chroma.TokenType) lipgloss.Color {
	s := cs.style.Get(c)

	return lipgloss.Color(s.Colour.String()) //nolint:misspell // Chroma naming.
}

func (cs chromaStyle) lipglossFromTokenBg(c chroma.TokenType) lipgloss.Color {
	s := cs.style.Get(c)

	return lipgloss.Color(s.Background.String())
}

func (cs chromaStyle) lipglossFromTokenWithFactor(c chroma.TokenType, factor float64) lipgloss.Color {
	s := cs.style.Get(c)

	sc := s.Colour.BrightenOrDarken(factor) //nolint:misspell // Chroma naming.

	return lipgloss.Color(sc.String())
}

func (cs chromaStyle) lipglossFromTokenBgWithFactor(c chroma.TokenType, factor float64) lipgloss.Color {
	s := cs.style.Get(c)

	sc := s.Background.BrightenOrDarken(factor)

	return lipgloss.Color(sc.String())
}

func getStyle(style string) string {
	switch style {
	case "dark":
		return "github-dark"
	case "light":
		return "github"
	case "auto", "":
		return getDefaultStyle()
	default:
		return style
	}
}

func getDefaultStyle() string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return "" // Fallback.
	}

	if termenv.HasDarkBackground() {
		return "github-dark"
	}

	return "github"
}
