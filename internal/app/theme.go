package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ViewerTheme forces the dark variant and accents suited to radiology
// reading-room lighting.
type ViewerTheme struct{}

var _ fyne.Theme = (*ViewerTheme)(nil)

func (t *ViewerTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return color.NRGBA{R: 0x2B, G: 0x2B, B: 0x2B, A: 0xFF}
	case theme.ColorNameInputBackground:
		return color.NRGBA{R: 0x1E, G: 0x1E, B: 0x1E, A: 0xFF}
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x4A, G: 0x9E, B: 0xFF, A: 0xFF} // Blue accent
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFF, G: 0xFF, B: 0x00, A: 0x60} // Crosshair yellow
	default:
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}
}

func (t *ViewerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ViewerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ViewerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 14
	default:
		return theme.DefaultTheme().Size(name)
	}
}
