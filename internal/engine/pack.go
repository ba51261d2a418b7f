// Package engine lays identical rectangular cavities out on a fixed-width web
// within a bounded index length. Pack computes one grid, Orient compares the
// part as given against its 90° rotation, and CompareScenarios / Sweep run
// many parameter sets side by side.
package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/thermolayout/internal/model"
)

// FitTolerance absorbs floating point error in the fit inequalities.
const FitTolerance = 0.001

// MaxCavities bounds the number of cavities one layout may place, along
// either axis and in total.
const MaxCavities = 100_000

// Pack computes the cavity grid for one orientation of the part.
//
// The web axis always keeps an internal gap of MinSpacing and centers the
// block, so both outer margins are at least MinSpacing. On the index axis the
// row count is first maximized at the minimum gap, then the policy decides
// where the leftover length goes. A part that does not fit returns a
// zero-cavity result, not an error. Invalid dimensions return
// model.ErrInvalidInput and a center-to-center pitch that does not exceed the
// part length returns model.ErrInvalidSpacing. A grid of more than MaxCavities
// cavities returns model.ErrInvalidInput.
func Pack(in model.PackInput) (model.LayoutResult, error) {
	if err := validate(in); err != nil {
		return model.LayoutResult{}, err
	}

	pw, pl, s := in.PartWidth, in.PartLength, in.MinSpacing

	across, err := maxCount(pw, s, in.WebWidth)
	if err != nil {
		return model.LayoutResult{}, fmt.Errorf("web width: %w", err)
	}
	down, err := maxCount(pl, s, in.MaxIndexLength)
	if err != nil {
		return model.LayoutResult{}, fmt.Errorf("index length: %w", err)
	}

	rowGap := s
	if in.Policy.Kind == model.FixedCenterToCenter {
		rowGap = in.Policy.Pitch - pl
		for down > 0 && blockLength(down, pl, rowGap)+2*s > in.MaxIndexLength+FitTolerance {
			down--
		}
	}

	if across == 0 || down == 0 {
		return noFit(in), nil
	}

	maxCavities := across * down
	rows, count := down, maxCavities
	if in.QuantityCap > 0 && in.QuantityCap < maxCavities {
		count = in.QuantityCap
		rows = (count + across - 1) / across
	}
	if count > MaxCavities {
		return model.LayoutResult{}, fmt.Errorf("%w: %d cavities exceed the limit of %d",
			model.ErrInvalidInput, count, MaxCavities)
	}

	frame := frameLength(blockLength(rows, pl, rowGap)+2*s, in.MaxIndexLength, in.IndexStep)
	v := distribute(in.Policy.Kind, rows, pl, s, rowGap, frame)

	blockWidth := blockLength(across, pw, s)
	margin := (in.WebWidth - blockWidth) / 2

	res := model.LayoutResult{
		PartWidth:         pw,
		PartLength:        pl,
		WebWidth:          in.WebWidth,
		Across:            across,
		Down:              rows,
		CavityCount:       count,
		MaxCavityCount:    maxCavities,
		UsedIndexLength:   v.used,
		SpacingHorizontal: s,
		SpacingVertical:   v.gap,
		MarginLeft:        margin,
		MarginRight:       margin,
		MarginTop:         v.top,
		MarginBottom:      v.bottom,
	}
	res.Positions = positions(res)
	return res, nil
}

func validate(in model.PackInput) error {
	positive := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", model.ErrInvalidInput, name, v)
		}
		return nil
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"part width", in.PartWidth},
		{"part length", in.PartLength},
		{"web width", in.WebWidth},
		{"max index length", in.MaxIndexLength},
	} {
		if err := positive(f.name, f.v); err != nil {
			return err
		}
	}
	if math.IsNaN(in.MinSpacing) || math.IsInf(in.MinSpacing, 0) || in.MinSpacing < 0 {
		return fmt.Errorf("%w: min spacing must be non-negative, got %g", model.ErrInvalidInput, in.MinSpacing)
	}
	if in.QuantityCap < 0 {
		return fmt.Errorf("%w: quantity cap must not be negative, got %d", model.ErrInvalidInput, in.QuantityCap)
	}
	if math.IsNaN(in.IndexStep) || math.IsInf(in.IndexStep, 0) || in.IndexStep < 0 {
		return fmt.Errorf("%w: index step must be finite and non-negative, got %g", model.ErrInvalidInput, in.IndexStep)
	}
	if in.Policy.Kind == model.FixedCenterToCenter && !(in.Policy.Pitch > in.PartLength) {
		return fmt.Errorf("%w: center-to-center %g must exceed part length %g",
			model.ErrInvalidSpacing, in.Policy.Pitch, in.PartLength)
	}
	return nil
}

// maxCount returns the largest n with n*size + (n-1)*gap + 2*gap <= span.
// The closed form is off by at most one either way from rounding, so each
// correction runs a bounded number of steps.
func maxCount(size, gap, span float64) (int, error) {
	est := math.Floor((span - gap) / (size + gap))
	if est > MaxCavities {
		return 0, fmt.Errorf("%w: %g cavities along one axis exceed the limit of %d",
			model.ErrInvalidInput, est, MaxCavities)
	}
	n := max(int(est), 0)
	for i := 0; i < 2 && n < MaxCavities && fits(n+1, size, gap, span); i++ {
		n++
	}
	for i := 0; i < 2 && n > 0 && !fits(n, size, gap, span); i++ {
		n--
	}
	return n, nil
}

func fits(n int, size, gap, span float64) bool {
	return blockLength(n, size, gap)+2*gap <= span+FitTolerance
}

// blockLength is the extent of n parts separated by n-1 gaps.
func blockLength(n int, size, gap float64) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n)*size + float64(n-1)*gap
}

// frameLength is the index length the policy distributes space over. With a
// step, the minimal length is rounded up to it (never past the maximum).
func frameLength(minimal, maxIndex, step float64) float64 {
	if step <= 0 {
		return maxIndex
	}
	return math.Min(maxIndex, math.Ceil(minimal/step-1e-9)*step)
}

type vertical struct {
	gap, top, bottom, used float64
}

func distribute(kind model.PolicyKind, rows int, pl, s, pitchGap, frame float64) vertical {
	switch kind {
	case model.EdgeLocked:
		block := blockLength(rows, pl, s)
		m := (frame - block) / 2
		return vertical{gap: s, top: m, bottom: m, used: frame}

	case model.FixedCenterToCenter:
		block := blockLength(rows, pl, pitchGap)
		m := (frame - block) / 2
		return vertical{gap: pitchGap, top: m, bottom: m, used: frame}

	default:
		if rows == 1 {
			return vertical{gap: s, top: s, bottom: s, used: pl + 2*s}
		}
		gap := math.Max(s, (frame-2*s-float64(rows)*pl)/float64(rows-1))
		return vertical{gap: gap, top: s, bottom: s, used: 2*s + blockLength(rows, pl, gap)}
	}
}

// positions lays cavities out row-major; a capped final row is left-packed.
func positions(r model.LayoutResult) []model.Position {
	out := make([]model.Position, 0, r.CavityCount)
	for row := 0; row < r.Down; row++ {
		for col := 0; col < r.Across && len(out) < r.CavityCount; col++ {
			out = append(out, model.Position{
				Row:     row,
				Col:     col,
				CenterX: r.MarginLeft + r.PartWidth/2 + float64(col)*(r.PartWidth+r.SpacingHorizontal),
				CenterY: r.MarginTop + r.PartLength/2 + float64(row)*(r.PartLength+r.SpacingVertical),
			})
		}
	}
	return out
}

func noFit(in model.PackInput) model.LayoutResult {
	return model.LayoutResult{
		PartWidth:  in.PartWidth,
		PartLength: in.PartLength,
		WebWidth:   in.WebWidth,
		Positions:  []model.Position{},
	}
}
