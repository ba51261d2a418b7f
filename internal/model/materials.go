package model

import (
	"fmt"
	"strings"
)

// Material is a thermoformable sheet resin.
type Material struct {
	Name       string  `json:"name"`
	Density    float64 `json:"density"`      // g/cc
	PricePerLb float64 `json:"price_per_lb"` // Default $/lb
	Color      string  `json:"color"`        // Hex fill used by renderers
}

// DensityLbIn3 converts the density to lb/in³.
func (m Material) DensityLbIn3() float64 {
	return m.Density * GccToLbIn3
}

// GccToLbIn3 converts g/cc to lb/in³.
const GccToLbIn3 = 0.0361273

// Materials is the built-in resin catalogue.
var Materials = []Material{
	{Name: "rPET", Density: 1.38, PricePerLb: 0.55, Color: "#4EA8DE"},
	{Name: "PET (Virgin)", Density: 1.38, PricePerLb: 0.65, Color: "#48BFE3"},
	{Name: "PETG", Density: 1.27, PricePerLb: 0.95, Color: "#56CFE1"},
	{Name: "HIPS", Density: 1.05, PricePerLb: 0.85, Color: "#64DFDF"},
	{Name: "PP", Density: 0.91, PricePerLb: 0.70, Color: "#72EFDD"},
	{Name: "PVC", Density: 1.40, PricePerLb: 0.55, Color: "#80FFDB"},
	{Name: "ABS", Density: 1.05, PricePerLb: 1.05, Color: "#5E60CE"},
	{Name: "Polycarbonate", Density: 1.20, PricePerLb: 1.75, Color: "#7400B8"},
	{Name: "PLA", Density: 1.24, PricePerLb: 0.95, Color: "#6930C3"},
	{Name: "Polystyrene (GPPS)", Density: 1.05, PricePerLb: 0.80, Color: "#5390D9"},
}

// MoldWidths lists the standard web widths (in).
var MoldWidths = []float64{18, 20, 22, 24, 26, 28, 30}

// CommonGauges lists common sheet thicknesses (in).
var CommonGauges = []float64{0.010, 0.012, 0.015, 0.018, 0.020, 0.024, 0.030, 0.033, 0.040, 0.048, 0.060, 0.080, 0.100, 0.120}

// FindMaterial looks up a catalogue material by case-insensitive name.
func FindMaterial(name string) (Material, error) {
	for _, m := range Materials {
		if strings.EqualFold(m.Name, strings.TrimSpace(name)) {
			return m, nil
		}
	}
	return Material{}, fmt.Errorf("%w: unknown material %q", ErrInvalidInput, name)
}

// MaterialNames returns the catalogue names in order.
func MaterialNames() []string {
	names := make([]string, 0, len(Materials))
	for _, m := range Materials {
		names = append(names, m.Name)
	}
	return names
}
