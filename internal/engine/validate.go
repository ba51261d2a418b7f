package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/thermolayout/internal/model"
)

// ViolationKind classifies a layout defect found by CheckLayout.
type ViolationKind string

const (
	ViolationOutsideWeb   ViolationKind = "outside-web"
	ViolationOutsideIndex ViolationKind = "outside-index"
	ViolationOverlap      ViolationKind = "overlap"
	ViolationTightGap     ViolationKind = "tight-gap"
	ViolationCount        ViolationKind = "count"
)

// Violation is one defect in a layout. Row and Col refer to the first cavity
// involved, or are -1 for layout-wide problems.
type Violation struct {
	Kind     ViolationKind
	Row, Col int
	Detail   string
}

type cavityRect struct {
	row, col               int
	minX, maxX, minY, maxY float64
}

// CheckLayout verifies a layout independently of how it was built: every
// cavity lies on the web and within the used index (and within maxIndex when
// positive), no two cavities overlap, neighbours keep at least the reported
// spacing and the counts agree with the positions.
func CheckLayout(r model.LayoutResult, maxIndex float64) []Violation {
	var violations []Violation
	add := func(kind ViolationKind, row, col int, format string, args ...any) {
		violations = append(violations, Violation{Kind: kind, Row: row, Col: col, Detail: fmt.Sprintf(format, args...)})
	}

	if len(r.Positions) != r.CavityCount {
		add(ViolationCount, -1, -1, "%d positions for %d cavities", len(r.Positions), r.CavityCount)
	}
	if r.CavityCount > r.Across*r.Down {
		add(ViolationCount, -1, -1, "%d cavities exceed a %dx%d grid", r.CavityCount, r.Across, r.Down)
	}
	if maxIndex > 0 && r.UsedIndexLength > maxIndex+FitTolerance {
		add(ViolationOutsideIndex, -1, -1, "used index %.4f exceeds maximum %.4f", r.UsedIndexLength, maxIndex)
	}

	rects := make([]cavityRect, len(r.Positions))
	for i, p := range r.Positions {
		c := cavityRect{
			row:  p.Row,
			col:  p.Col,
			minX: p.CenterX - r.PartWidth/2,
			maxX: p.CenterX + r.PartWidth/2,
			minY: p.CenterY - r.PartLength/2,
			maxY: p.CenterY + r.PartLength/2,
		}
		rects[i] = c

		if c.minX < -FitTolerance || c.maxX > r.WebWidth+FitTolerance {
			add(ViolationOutsideWeb, c.row, c.col, "cavity spans x %.4f..%.4f on a %.4f web", c.minX, c.maxX, r.WebWidth)
		}
		if c.minY < -FitTolerance || c.maxY > r.UsedIndexLength+FitTolerance {
			add(ViolationOutsideIndex, c.row, c.col, "cavity spans y %.4f..%.4f in a %.4f index", c.minY, c.maxY, r.UsedIndexLength)
		}
	}

	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			a, b := rects[i], rects[j]
			gapX := math.Max(b.minX-a.maxX, a.minX-b.maxX)
			gapY := math.Max(b.minY-a.maxY, a.minY-b.maxY)
			switch {
			case gapX < -FitTolerance && gapY < -FitTolerance:
				add(ViolationOverlap, a.row, a.col, "overlaps cavity r%d c%d", b.row+1, b.col+1)
			case a.row == b.row && b.col == a.col+1 && gapX < r.SpacingHorizontal-FitTolerance:
				add(ViolationTightGap, a.row, a.col, "horizontal gap %.4f below %.4f", gapX, r.SpacingHorizontal)
			case a.col == b.col && b.row == a.row+1 && gapY < r.SpacingVertical-FitTolerance:
				add(ViolationTightGap, a.row, a.col, "vertical gap %.4f below %.4f", gapY, r.SpacingVertical)
			}
		}
	}
	return violations
}

// FormatViolations produces human-readable warning messages.
func FormatViolations(violations []Violation) []string {
	var out []string
	for _, v := range violations {
		if v.Row < 0 {
			out = append(out, fmt.Sprintf("%s: %s", v.Kind, v.Detail))
			continue
		}
		out = append(out, fmt.Sprintf("%s: cavity r%d c%d %s", v.Kind, v.Row+1, v.Col+1, v.Detail))
	}
	return out
}
