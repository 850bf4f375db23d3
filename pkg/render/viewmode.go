package render

import (
	"fmt"
	"strings"
)

// ViewMode is a simulated device class for the preview.
type ViewMode string

const (
	ViewDesktop ViewMode = "desktop"
	ViewTablet  ViewMode = "tablet"
	ViewMobile  ViewMode = "mobile"
)

// pixelsPerColumn approximates a terminal cell width in CSS pixels.
const pixelsPerColumn = 8

// ViewModes lists the modes in cycling order.
var ViewModes = []ViewMode{ViewDesktop, ViewTablet, ViewMobile}

// Dimensions are the pixel size of a simulated viewport. Fluid means the
// preview fills whatever space it is given.
type Dimensions struct {
	Width  int
	Height int
	Fluid  bool
}

// CSSWidth returns the width as a CSS length.
func (d Dimensions) CSSWidth() string {
	if d.Fluid {
		return "100%"
	}
	return fmt.Sprintf("%dpx", d.Width)
}

// CSSHeight returns the height as a CSS length.
func (d Dimensions) CSSHeight() string {
	if d.Fluid {
		return "100%"
	}
	return fmt.Sprintf("%dpx", d.Height)
}

// ParseViewMode parses a view mode name. An empty string is desktop.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ViewDesktop:
		return ViewDesktop, nil
	case ViewTablet:
		return ViewTablet, nil
	case ViewMobile:
		return ViewMobile, nil
	}
	return "", fmt.Errorf("unknown view mode %q (expected desktop, tablet or mobile)", s)
}

// Dimensions returns the simulated viewport size.
func (v ViewMode) Dimensions() Dimensions {
	switch v {
	case ViewTablet:
		return Dimensions{Width: 768, Height: 1024}
	case ViewMobile:
		return Dimensions{Width: 375, Height: 667}
	default:
		return Dimensions{Fluid: true}
	}
}

// Next returns the following mode, wrapping around.
func (v ViewMode) Next() ViewMode {
	for i, m := range ViewModes {
		if m == v {
			return ViewModes[(i+1)%len(ViewModes)]
		}
	}
	return ViewDesktop
}

// Columns converts the viewport width to terminal columns, never exceeding
// the available terminal width.
func (v ViewMode) Columns(termWidth int) int {
	d := v.Dimensions()
	if d.Fluid {
		return termWidth
	}
	return min(d.Width/pixelsPerColumn, termWidth)
}

// Label returns the display name of the mode.
func (v ViewMode) Label() string {
	switch v {
	case ViewTablet:
		return "📱 Tablet"
	case ViewMobile:
		return "📱 Mobile"
	default:
		return "💻 Desktop"
	}
}
