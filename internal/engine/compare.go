package engine

import (
	"context"
	"fmt"
	"runtime"

	"github.com/piwi3910/thermolayout/internal/model"
	"golang.org/x/sync/errgroup"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.JobSettings
}

// ComparisonResult holds the chosen layout and its economics for a single
// scenario. Err is set when the scenario could not be laid out.
type ComparisonResult struct {
	Scenario    ComparisonScenario
	Orientation Choice
	Layout      model.LayoutResult
	Economics   model.Economics
	Err         error
}

// Evaluate lays out the part under one set of settings, honouring the
// settings' orientation override, and prices the result.
func Evaluate(part model.PartFootprint, settings model.JobSettings) (model.LayoutResult, Choice, model.Economics, error) {
	o, err := Orient(settings.PackInput(part))
	if err != nil {
		return model.LayoutResult{}, "", model.Economics{}, err
	}
	layout, choice, err := o.Select(settings.Orientation)
	if err != nil {
		return model.LayoutResult{}, "", model.Economics{}, err
	}
	econ, err := model.Estimate(layout, settings)
	if err != nil {
		return model.LayoutResult{}, "", model.Economics{}, err
	}
	return layout, choice, econ, nil
}

// CompareScenarios runs every scenario for the part and returns the results
// in scenario order. A failing scenario keeps its error and does not stop the
// others.
func CompareScenarios(scenarios []ComparisonScenario, part model.PartFootprint) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		layout, choice, econ, err := Evaluate(part, scenario.Settings)
		results = append(results, ComparisonResult{
			Scenario:    scenario,
			Orientation: choice,
			Layout:      layout,
			Economics:   econ,
			Err:         err,
		})
	}

	return results
}

// BuildDefaultScenarios generates what-if alternatives around the base
// settings: the other spacing policies, both forced orientations, the next
// standard mold width and whole-inch index rounding.
func BuildDefaultScenarios(base model.JobSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: base},
	}

	for _, kind := range []model.PolicyKind{model.GapLocked, model.EdgeLocked} {
		if base.Policy.Kind == kind {
			continue
		}
		alt := base
		alt.Policy = model.SpacingPolicy{Kind: kind}
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Policy %s", kind),
			Settings: alt,
		})
	}

	for _, choice := range []Choice{ChoiceNormal, ChoiceRotated} {
		if base.Orientation == string(choice) {
			continue
		}
		alt := base
		alt.Orientation = string(choice)
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Force %s", choice),
			Settings: alt,
		})
	}

	for _, w := range model.MoldWidths {
		if w > base.WebWidth {
			alt := base
			alt.WebWidth = w
			scenarios = append(scenarios, ComparisonScenario{
				Name:     fmt.Sprintf("Web %.0f\"", w),
				Settings: alt,
			})
			break
		}
	}

	if base.IndexStep <= 0 {
		alt := base
		alt.IndexStep = 1
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Index rounded to 1\"",
			Settings: alt,
		})
	}

	return scenarios
}

// SweepPoint is one cell of a web width × index length sweep.
type SweepPoint struct {
	WebWidth       float64
	MaxIndexLength float64
	Orientation    Choice
	Layout         model.LayoutResult
	Economics      model.Economics
}

// Sweep evaluates the part for every combination of web width and maximum
// index length in parallel. Points are returned web-major in input order.
// Workers <= 0 uses GOMAXPROCS. The first failure cancels the rest.
func Sweep(ctx context.Context, part model.PartFootprint, base model.JobSettings, webWidths, indexLengths []float64, workers int) ([]SweepPoint, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	points := make([]SweepPoint, len(webWidths)*len(indexLengths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, web := range webWidths {
		for j, index := range indexLengths {
			slot := i*len(indexLengths) + j
			settings := base
			settings.WebWidth = web
			settings.MaxIndexLength = index

			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				layout, choice, econ, err := Evaluate(part, settings)
				if err != nil {
					return fmt.Errorf("failed to evaluate web %g index %g: %w", web, index, err)
				}
				points[slot] = SweepPoint{
					WebWidth:       web,
					MaxIndexLength: index,
					Orientation:    choice,
					Layout:         layout,
					Economics:      econ,
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// BestPoint returns the sweep point with the most cavities, breaking ties by
// utilization. It reports false for an empty sweep.
func BestPoint(points []SweepPoint) (SweepPoint, bool) {
	if len(points) == 0 {
		return SweepPoint{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if better(p.Layout, best.Layout) {
			best = p
		}
	}
	return best, true
}
