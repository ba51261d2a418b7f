package engine

import (
	"fmt"
	"strings"

	"github.com/piwi3910/thermolayout/internal/model"
)

// Choice names one of the two orientations.
type Choice string

const (
	ChoiceNormal  Choice = "normal"
	ChoiceRotated Choice = "rotated"
)

// Orientation holds the layouts for the part as given and rotated 90°.
// An orientation that cannot be packed keeps its error and a zero layout.
type Orientation struct {
	Normal     model.LayoutResult
	Rotated    model.LayoutResult
	NormalErr  error
	RotatedErr error
	Choice     Choice
}

// Best returns the automatically chosen layout.
func (o Orientation) Best() model.LayoutResult {
	if o.Choice == ChoiceRotated {
		return o.Rotated
	}
	return o.Normal
}

// Select returns the layout for "best", "normal" or "rotated". An explicit
// choice overrides the automatic one but fails if that orientation errored.
func (o Orientation) Select(name string) (model.LayoutResult, Choice, error) {
	switch Choice(strings.ToLower(strings.TrimSpace(name))) {
	case "", "best", "auto":
		return o.Best(), o.Choice, nil
	case ChoiceNormal:
		if o.NormalErr != nil {
			return model.LayoutResult{}, ChoiceNormal, o.NormalErr
		}
		return o.Normal, ChoiceNormal, nil
	case ChoiceRotated:
		if o.RotatedErr != nil {
			return model.LayoutResult{}, ChoiceRotated, o.RotatedErr
		}
		return o.Rotated, ChoiceRotated, nil
	default:
		return model.LayoutResult{}, "", fmt.Errorf("%w: unknown orientation %q", model.ErrInvalidInput, name)
	}
}

// Orient packs the part unrotated and rotated under identical parameters and
// picks the higher cavity count, then the higher utilization, then the
// unrotated layout. It fails only when neither orientation can be packed.
func Orient(in model.PackInput) (Orientation, error) {
	var o Orientation
	o.Normal, o.NormalErr = Pack(in)
	o.Rotated, o.RotatedErr = Pack(in.Rotated())

	switch {
	case o.NormalErr != nil && o.RotatedErr != nil:
		return o, o.NormalErr
	case o.NormalErr != nil:
		o.Choice = ChoiceRotated
	case o.RotatedErr != nil:
		o.Choice = ChoiceNormal
	case better(o.Rotated, o.Normal):
		o.Choice = ChoiceRotated
	default:
		o.Choice = ChoiceNormal
	}
	return o, nil
}

// better reports whether a strictly beats b.
func better(a, b model.LayoutResult) bool {
	if a.CavityCount != b.CavityCount {
		return a.CavityCount > b.CavityCount
	}
	return a.Utilization() > b.Utilization()+1e-12
}
