package chart

import (
	"fmt"
	"maps"
	"slices"
)

// Theme is a named series palette.
type Theme struct {
	Name        string
	Description string
	Palette     []string
}

// DefaultTheme is used when an unknown theme name is requested.
const DefaultTheme = "macarons"

// Themes contains all built-in themes.
var Themes = map[string]Theme{
	"macarons": MacaronsTheme,
	"default":  ClassicTheme,
	"vintage":  VintageTheme,
}

// MacaronsTheme is the soft pastel palette.
var MacaronsTheme = Theme{
	Name:        "macarons",
	Description: "Pastel palette with teal and lavender leads",
	Palette: []string{
		"#2ec7c9", "#b6a2de", "#5ab1ef", "#ffb980", "#d87a80",
		"#8d98b3", "#e5cf0d", "#97b552", "#95706d", "#dc69aa",
		"#07a2a4", "#9a7fd1", "#588dd5", "#f5994e", "#c05050",
		"#59678c", "#c9ab00", "#7eb00a", "#6f5553", "#c14089",
	},
}

// ClassicTheme is the engine's stock palette.
var ClassicTheme = Theme{
	Name:        "default",
	Description: "Stock palette",
	Palette: []string{
		"#c23531", "#2f4554", "#61a0a8", "#d48265", "#91c7ae",
		"#749f83", "#ca8622", "#bda29a", "#6e7074", "#546570",
		"#c4ccd3",
	},
}

// VintageTheme is a muted warm palette.
var VintageTheme = Theme{
	Name:        "vintage",
	Description: "Muted warm palette",
	Palette: []string{
		"#d87c7c", "#919e8b", "#d7ab82", "#6e7074", "#61a0a8",
		"#efa18d", "#787464", "#cc7e63", "#724e58", "#4b565b",
	},
}

// LookupTheme returns the theme registered under name.
func LookupTheme(name string) (Theme, error) {
	theme, ok := Themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme: %s (available: %v)", name, ThemeNames())
	}
	return theme, nil
}

// ThemeNames returns the built-in theme names, sorted.
func ThemeNames() []string {
	return slices.Sorted(maps.Keys(Themes))
}
