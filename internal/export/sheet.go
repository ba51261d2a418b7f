// Package export renders cavity layouts to PDF layout sheets, QR cavity tags,
// SVG previews, DXF tooling drawings and CSV/XLSX comparison tables.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/thermolayout/internal/model"
)

// LayoutSheet bundles everything a renderer needs for one laid-out part.
type LayoutSheet struct {
	Title       string
	Part        model.PartFootprint
	Settings    model.JobSettings
	Layout      model.LayoutResult
	Orientation string // "normal" or "rotated"
	Economics   model.Economics
}

// partColor represents an RGB color for a cavity.
type partColor struct {
	R, G, B int
}

// defaultCavityColor is used when the material has no usable color.
var defaultCavityColor = partColor{R: 76, G: 175, B: 80}

// cavityColor returns the fill color for the sheet's material.
func (s LayoutSheet) cavityColor() partColor {
	mat, err := model.FindMaterial(s.Settings.Material)
	if err != nil {
		return defaultCavityColor
	}
	c, ok := parseHexColor(mat.Color)
	if !ok {
		return defaultCavityColor
	}
	return c
}

// sheetWidth is the full material width: web plus both chain strips.
func (s LayoutSheet) sheetWidth() float64 {
	return s.Layout.WebWidth + 2*s.Settings.ChainWidth
}

func (s LayoutSheet) gridLabel() string {
	return fmt.Sprintf("%d x %d", s.Layout.Across, s.Layout.Down)
}

func parseHexColor(hex string) (partColor, bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return partColor{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return partColor{}, false
	}
	return partColor{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, true
}
