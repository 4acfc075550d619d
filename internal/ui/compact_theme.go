package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CompactTheme tightens paddings and text so the whole form and a useful
// log area fit the default window
type CompactTheme struct{}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{}
}

var compactSizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNamePadding:         3,
	theme.SizeNameInnerPadding:    6,
	theme.SizeNameLineSpacing:     2,
	theme.SizeNameScrollBar:       10,
	theme.SizeNameScrollBarSmall:  3,
	theme.SizeNameText:            13,
	theme.SizeNameHeadingText:     16,
	theme.SizeNameSubHeadingText:  13,
	theme.SizeNameCaptionText:     10,
	theme.SizeNameInputRadius:     3,
	theme.SizeNameSelectionRadius: 2,
}

// Color keeps status colors readable on both variants
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return color.RGBA{R: 46, G: 160, B: 67, A: 255}
	case theme.ColorNameError:
		return color.RGBA{R: 183, G: 28, B: 28, A: 255}
	case theme.ColorNameWarning:
		return color.RGBA{R: 255, G: 160, B: 0, A: 255}
	case theme.ColorNamePrimary:
		return color.RGBA{R: 25, G: 118, B: 210, A: 255}
	}
	return theme.DefaultTheme().Color(name, variant)
}

// Font returns the default fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns the default icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns the compact size for name, or the default one
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	if size, ok := compactSizes[name]; ok {
		return size
	}
	return theme.DefaultTheme().Size(name)
}
