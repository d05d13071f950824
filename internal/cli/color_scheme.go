package cli

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/exp/charmtone"

	"github.com/macropower/flip/pkg/config"
	"github.com/macropower/flip/pkg/ui/theme"
)

// ColorSchemeFunc colors help and errors with the theme from the default
// config, or the default theme if the config cannot be loaded.
func ColorSchemeFunc(c lipgloss.LightDarkFunc) fang.ColorScheme {
	cl, err := config.NewLoaderFromFile(config.GetPath())
	if err != nil {
		return ThemeColorScheme(theme.Default, c)
	}

	cfg, err := cl.Load()
	if err != nil {
		return ThemeColorScheme(theme.Default, c)
	}

	return ThemeColorScheme(theme.New(cfg.UI.Theme), c)
}

func ThemeColorScheme(t *theme.Theme, c lipgloss.LightDarkFunc) fang.ColorScheme {
	return fang.ColorScheme{
		Base:           t.GenericTextStyle.GetForeground(),
		Title:          t.LogoStyle.GetBackground(),
		Codeblock:      c(charmtone.Salt, lipgloss.Color("#2F2E36")),
		Program:        t.TitleStyle.GetForeground(),
		Command:        t.PaginationActiveStyle.GetForeground(),
		DimmedArgument: t.SubtleStyle.GetForeground(),
		Comment:        t.SubtleStyle.GetForeground(),
		Flag:           t.PaginationActiveStyle.GetForeground(),
		Argument:       t.GenericTextStyle.GetForeground(),
		Description:    t.GenericTextStyle.GetForeground(),
		FlagDefault:    t.PaginationStyle.GetForeground(),
		QuotedString:   t.IndicatorStyle.GetForeground(),
		ErrorHeader: [2]color.Color{
			t.ErrorTitleStyle.GetForeground(),
			t.ErrorTitleStyle.GetBackground(),
		},
	}
}
