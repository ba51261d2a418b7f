package importer

import (
	"math"
	"sort"

	"github.com/piwi3910/thermolayout/internal/model"
)

const (
	// cornerTolerance is how far an arc radius may stray from the dominant radius.
	cornerTolerance = 0.001
	// arcsPerCavity is the number of corner arcs of one rounded-rectangle cavity.
	arcsPerCavity = 4
	// centerQuantum merges cavity centers closer than this when counting rows/columns.
	centerQuantum = 0.1
	// metricThreshold: any cavity dimension above this is taken as millimeters.
	metricThreshold = 100.0
	mmPerInch       = 25.4
)

// Detection is a multi-cavity mold layout inferred from corner arcs.
// Grid.Across counts distinct cavity center X values (drawing columns) and
// Grid.Down counts distinct Y values (drawing rows).
type Detection struct {
	Footprint   model.PartFootprint
	Grid        model.CavityGrid
	Cavities    []model.CavityBox
	SourceUnits string // "in" or "mm"
}

// DetectCavities looks for repeated rounded-rectangle cavities. It assumes every
// cavity contributes exactly four corner arcs of one shared radius, consecutive
// in source order. It reports false when the qualifying arc count is not a
// positive multiple of four; callers then fall back to BoundingBoxFootprint.
func DetectCavities(entities []model.Entity) (Detection, bool) {
	arcs := collectArcs(entities)
	if len(arcs) < arcsPerCavity {
		return Detection{}, false
	}

	radius := dominantRadius(arcs)
	corners := arcsWithRadius(arcs, radius, cornerTolerance)
	if len(corners) < arcsPerCavity || len(corners)%arcsPerCavity != 0 {
		return Detection{}, false
	}

	boxes := cavityBoxes(corners, radius)
	grid := gridFromCenters(boxes)

	scale, units := unitScale(boxes[0].Width, boxes[0].Height)
	if scale != 1 {
		for i := range boxes {
			boxes[i] = model.CavityBox{
				CenterX: boxes[i].CenterX * scale,
				CenterY: boxes[i].CenterY * scale,
				Width:   boxes[i].Width * scale,
				Height:  boxes[i].Height * scale,
			}
		}
		grid.CtcHorizontal *= scale
		grid.CtcVertical *= scale
	}
	grid.CtcHorizontal = round4(grid.CtcHorizontal)
	grid.CtcVertical = round4(grid.CtcVertical)

	first := boxes[0]
	return Detection{
		Footprint: model.PartFootprint{
			Width:        round4(first.Height),
			Length:       round4(first.Width),
			CornerRadius: round4(radius * scale),
			Units:        "in",
		},
		Grid:        grid,
		Cavities:    boxes,
		SourceUnits: units,
	}, true
}

// collectArcs returns the arcs with a positive radius and a finite center, in source order.
func collectArcs(entities []model.Entity) []model.Arc {
	var arcs []model.Arc
	for _, e := range entities {
		a, ok := e.(model.Arc)
		if !ok || !a.HasRadius() {
			continue
		}
		if math.IsNaN(a.Center.X) || math.IsNaN(a.Center.Y) {
			continue
		}
		arcs = append(arcs, a)
	}
	return arcs
}

// dominantRadius returns the most frequent radius rounded to four decimals.
// Ties go to the radius seen first.
func dominantRadius(arcs []model.Arc) float64 {
	counts := make(map[float64]int)
	var order []float64
	for _, a := range arcs {
		r := round4(a.Radius)
		if counts[r] == 0 {
			order = append(order, r)
		}
		counts[r]++
	}

	best, bestCount := 0.0, 0
	for _, r := range order {
		if counts[r] > bestCount {
			best, bestCount = r, counts[r]
		}
	}
	return best
}

func arcsWithRadius(arcs []model.Arc, radius, tol float64) []model.Arc {
	var out []model.Arc
	for _, a := range arcs {
		if math.Abs(a.Radius-radius) <= tol {
			out = append(out, a)
		}
	}
	return out
}

// cavityBoxes partitions corner arcs into consecutive groups of four and boxes
// each group by its arc centers grown by the corner radius.
func cavityBoxes(corners []model.Arc, radius float64) []model.CavityBox {
	boxes := make([]model.CavityBox, 0, len(corners)/arcsPerCavity)
	for i := 0; i+arcsPerCavity <= len(corners); i += arcsPerCavity {
		bb := model.EmptyBoundingBox()
		for _, a := range corners[i : i+arcsPerCavity] {
			bb.Extend(a.Center.X, a.Center.Y)
		}
		minX, maxX := bb.MinX-radius, bb.MaxX+radius
		minY, maxY := bb.MinY-radius, bb.MaxY+radius
		boxes = append(boxes, model.CavityBox{
			CenterX: (minX + maxX) / 2,
			CenterY: (minY + maxY) / 2,
			Width:   maxX - minX,
			Height:  maxY - minY,
		})
	}
	return boxes
}

// gridFromCenters counts distinct quantized center coordinates per axis and
// measures the pitch between the first two.
func gridFromCenters(boxes []model.CavityBox) model.CavityGrid {
	xs := make([]float64, len(boxes))
	ys := make([]float64, len(boxes))
	for i, b := range boxes {
		xs[i] = b.CenterX
		ys[i] = b.CenterY
	}
	ux := distinctQuantized(xs, centerQuantum)
	uy := distinctQuantized(ys, centerQuantum)

	grid := model.CavityGrid{Across: len(ux), Down: len(uy)}
	if len(ux) > 1 {
		grid.CtcHorizontal = ux[1] - ux[0]
	}
	if len(uy) > 1 {
		grid.CtcVertical = uy[1] - uy[0]
	}
	return grid
}

// distinctQuantized snaps values to multiples of q and returns the sorted unique set.
func distinctQuantized(values []float64, q float64) []float64 {
	seen := make(map[float64]bool)
	var out []float64
	for _, v := range values {
		s := math.Round(v/q) * q
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Float64s(out)
	return out
}

// unitScale returns the factor that converts a drawing to inches.
func unitScale(width, height float64) (float64, string) {
	if width > metricThreshold || height > metricThreshold {
		return 1 / mmPerInch, "mm"
	}
	return 1, "in"
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
