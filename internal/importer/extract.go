package importer

import (
	"fmt"
	"math"
	"os"

	"github.com/piwi3910/thermolayout/internal/model"
)

// Extraction is the Geometry Extractor's result for one drawing.
type Extraction struct {
	Footprint   model.PartFootprint
	Grid        *model.CavityGrid // nil unless a multi-cavity pattern was detected
	Cavities    []model.CavityBox
	Strategy    string // Layer selection strategy that won
	EntityCount int    // Entities in the selection
	ArcCount    int    // Arcs with a radius in the selection
	SourceUnits string // "in" or "mm"
}

// Extract decodes drawing text and resolves the part footprint. A repeating
// cavity pattern takes precedence over the overall extent. It returns
// model.ErrNoGeometry when the drawing has no usable entities.
func Extract(text string) (Extraction, error) {
	entities := DecodeEntities(text)
	if len(entities) == 0 {
		return Extraction{}, fmt.Errorf("%w: drawing has no entities section or no supported entities", model.ErrNoGeometry)
	}

	sel := SelectLayers(entities)
	ext := Extraction{
		Strategy:    sel.Strategy,
		EntityCount: len(sel.Entities),
		ArcCount:    len(collectArcs(sel.Entities)),
	}

	if det, ok := DetectCavities(sel.Entities); ok {
		grid := det.Grid
		ext.Footprint = det.Footprint
		ext.Grid = &grid
		ext.Cavities = det.Cavities
		ext.SourceUnits = det.SourceUnits
		return ext, nil
	}

	fp, units, err := BoundingBoxFootprint(sel.Entities)
	if err != nil {
		return Extraction{}, err
	}
	ext.Footprint = fp
	ext.SourceUnits = units
	return ext, nil
}

// ExtractFile reads a drawing from disk and runs Extract on it.
func ExtractFile(path string) (Extraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Extraction{}, fmt.Errorf("failed to read drawing: %w", err)
	}
	return Extract(string(data))
}

// BoundingBoxFootprint sizes the part from the combined extent of the entities.
// The X extent becomes the part length (index direction) and the Y extent the
// width. The corner radius is the smallest arc radius, or 0 without arcs.
func BoundingBoxFootprint(entities []model.Entity) (model.PartFootprint, string, error) {
	bb := model.Extent(entities)
	if !bb.Valid() {
		return model.PartFootprint{}, "", fmt.Errorf("%w: no finite coordinates", model.ErrNoGeometry)
	}

	w, h := bb.Width(), bb.Height()
	if w <= 0 || h <= 0 {
		return model.PartFootprint{}, "", fmt.Errorf("%w: degenerate extent %gx%g", model.ErrNoGeometry, w, h)
	}

	corner := math.Inf(1)
	for _, a := range collectArcs(entities) {
		corner = math.Min(corner, round4(a.Radius))
	}
	if math.IsInf(corner, 1) {
		corner = 0
	}

	scale, units := unitScale(w, h)
	return model.PartFootprint{
		Width:        round4(h * scale),
		Length:       round4(w * scale),
		CornerRadius: round4(corner * scale),
		Units:        "in",
	}, units, nil
}
