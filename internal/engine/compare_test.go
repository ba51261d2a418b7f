package engine

import (
	"context"
	"testing"

	"github.com/piwi3910/thermolayout/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPart() model.PartFootprint {
	return model.PartFootprint{Width: 3, Length: 4, Units: "in"}
}

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(model.DefaultSettings())

	var names []string
	for _, s := range scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"Current Settings",
		"Policy edge-locked",
		"Force normal",
		"Force rotated",
		"Web 26\"",
		"Index rounded to 1\"",
	}, names)

	assert.Equal(t, model.EdgeLocked, scenarios[1].Settings.Policy.Kind)
	assert.Equal(t, 26.0, scenarios[4].Settings.WebWidth)
	assert.Equal(t, 1.0, scenarios[5].Settings.IndexStep)
}

func TestBuildDefaultScenarios_WidestMoldHasNoWiderAlternative(t *testing.T) {
	base := model.DefaultSettings()
	base.WebWidth = 30
	base.Policy = model.SpacingPolicy{Kind: model.EdgeLocked}
	base.Orientation = "rotated"
	base.IndexStep = 1

	var names []string
	for _, s := range BuildDefaultScenarios(base) {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Current Settings", "Policy gap-locked", "Force normal"}, names)
}

func TestCompareScenarios(t *testing.T) {
	results := CompareScenarios(BuildDefaultScenarios(model.DefaultSettings()), testPart())
	require.Len(t, results, 6)

	current := results[0]
	require.NoError(t, current.Err)
	assert.Equal(t, 35, current.Layout.CavityCount)
	assert.Equal(t, ChoiceNormal, current.Orientation)
	assert.Greater(t, current.Economics.SheetCost, 0.0)

	rotated := results[3]
	require.NoError(t, rotated.Err)
	assert.Equal(t, ChoiceRotated, rotated.Orientation)
	assert.Equal(t, 32, rotated.Layout.CavityCount)

	wider := results[4]
	assert.GreaterOrEqual(t, wider.Layout.CavityCount, current.Layout.CavityCount)
}

func TestCompareScenarios_ErrorDoesNotStopOthers(t *testing.T) {
	bad := model.DefaultSettings()
	bad.Material = "Unobtainium"
	scenarios := []ComparisonScenario{
		{Name: "bad", Settings: bad},
		{Name: "good", Settings: model.DefaultSettings()},
	}

	results := CompareScenarios(scenarios, testPart())
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, model.ErrInvalidInput)
	assert.NoError(t, results[1].Err)
}

// ─── Sweep Tests ───────────────────────────────────────────

func TestSweep_OrderAndCounts(t *testing.T) {
	webs := []float64{18, 24}
	indexes := []float64{30, 36}

	points, err := Sweep(context.Background(), testPart(), model.DefaultSettings(), webs, indexes, 3)
	require.NoError(t, err)
	require.Len(t, points, 4)

	want := []struct {
		web, index float64
		count      int
		choice     Choice
	}{
		{18, 30, 21, ChoiceRotated},
		{18, 36, 28, ChoiceNormal},
		{24, 30, 28, ChoiceRotated},
		{24, 36, 35, ChoiceNormal},
	}
	for i, w := range want {
		assert.Equal(t, w.web, points[i].WebWidth)
		assert.Equal(t, w.index, points[i].MaxIndexLength)
		assert.Equal(t, w.count, points[i].Layout.CavityCount, "web %g index %g", w.web, w.index)
		assert.Equal(t, w.choice, points[i].Orientation, "web %g index %g", w.web, w.index)
	}

	best, ok := BestPoint(points)
	require.True(t, ok)
	assert.Equal(t, 24.0, best.WebWidth)
	assert.Equal(t, 36.0, best.MaxIndexLength)
}

func TestSweep_MatchesSequentialEvaluation(t *testing.T) {
	webs := []float64{18, 20, 22, 24, 26, 28, 30}
	indexes := []float64{12, 18, 24, 30, 36}
	settings := model.DefaultSettings()

	points, err := Sweep(context.Background(), testPart(), settings, webs, indexes, 0)
	require.NoError(t, err)

	for _, p := range points {
		s := settings
		s.WebWidth = p.WebWidth
		s.MaxIndexLength = p.MaxIndexLength
		layout, _, _, err := Evaluate(testPart(), s)
		require.NoError(t, err)
		assert.Equal(t, layout, p.Layout)
	}
}

func TestSweep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep(ctx, testPart(), model.DefaultSettings(), []float64{24}, []float64{36}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweep_PropagatesErrors(t *testing.T) {
	settings := model.DefaultSettings()
	settings.Material = "Unobtainium"

	_, err := Sweep(context.Background(), testPart(), settings, []float64{24}, []float64{30, 36}, 2)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestBestPoint_Empty(t *testing.T) {
	_, ok := BestPoint(nil)
	assert.False(t, ok)
}
