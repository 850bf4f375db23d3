package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"web-cloner-go/pkg/render"
)

func TestViewModeDimensions(t *testing.T) {
	tests := map[string]struct {
		mode      render.ViewMode
		expDims   render.Dimensions
		expWidth  string
		expHeight string
		expNext   render.ViewMode
		expCols   int
	}{
		"desktop is fluid": {
			mode:      render.ViewDesktop,
			expDims:   render.Dimensions{Fluid: true},
			expWidth:  "100%",
			expHeight: "100%",
			expNext:   render.ViewTablet,
			expCols:   120,
		},
		"tablet": {
			mode:      render.ViewTablet,
			expDims:   render.Dimensions{Width: 768, Height: 1024},
			expWidth:  "768px",
			expHeight: "1024px",
			expNext:   render.ViewMobile,
			expCols:   96,
		},
		"mobile": {
			mode:      render.ViewMobile,
			expDims:   render.Dimensions{Width: 375, Height: 667},
			expWidth:  "375px",
			expHeight: "667px",
			expNext:   render.ViewDesktop,
			expCols:   46,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			dims := test.mode.Dimensions()
			assert.Equal(test.expDims, dims)
			assert.Equal(test.expWidth, dims.CSSWidth())
			assert.Equal(test.expHeight, dims.CSSHeight())
			assert.Equal(test.expNext, test.mode.Next())
			assert.Equal(test.expCols, test.mode.Columns(120))
		})
	}
}

func TestViewModeColumnsCappedByTerminal(t *testing.T) {
	assert.Equal(t, 60, render.ViewTablet.Columns(60))
}

func TestParseViewMode(t *testing.T) {
	tests := map[string]struct {
		in     string
		exp    render.ViewMode
		expErr bool
	}{
		"empty defaults to desktop": {in: "", exp: render.ViewDesktop},
		"mixed case":                {in: "Mobile", exp: render.ViewMobile},
		"tablet":                    {in: "tablet", exp: render.ViewTablet},
		"unknown":                   {in: "watch", expErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := render.ParseViewMode(test.in)
			if test.expErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.exp, got)
		})
	}
}
