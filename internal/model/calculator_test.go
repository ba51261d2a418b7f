package model

import (
	"errors"
	"math"
	"testing"
)

func scenarioALayout() LayoutResult {
	return LayoutResult{
		PartWidth: 3, PartLength: 4, WebWidth: 24,
		Across: 5, Down: 7, CavityCount: 35, UsedIndexLength: 36,
	}
}

func TestEstimate_Weights(t *testing.T) {
	s := DefaultSettings() // rPET, 0.033 in, 0.75 in chains
	econ, err := Estimate(scenarioALayout(), s)
	if err != nil {
		t.Fatalf("Estimate returned error: %v", err)
	}

	density := 1.38 * GccToLbIn3
	wantSheet := 25.5 * 36 * 0.033 * density
	wantParts := 420 * 0.033 * density

	if econ.SheetArea != 918 {
		t.Errorf("SheetArea = %v, want 918", econ.SheetArea)
	}
	if math.Abs(econ.SheetWeight-wantSheet) > 1e-9 {
		t.Errorf("SheetWeight = %v, want %v", econ.SheetWeight, wantSheet)
	}
	if math.Abs(econ.PartsWeight-wantParts) > 1e-9 {
		t.Errorf("PartsWeight = %v, want %v", econ.PartsWeight, wantParts)
	}
	if math.Abs(econ.ScrapWeight-(wantSheet-wantParts)) > 1e-9 {
		t.Errorf("ScrapWeight = %v", econ.ScrapWeight)
	}
	if math.Abs(econ.Utilization-420.0/864.0*100) > 1e-9 {
		t.Errorf("Utilization = %v", econ.Utilization)
	}
}

func TestEstimate_CatalogueAndOverridePrice(t *testing.T) {
	s := DefaultSettings()
	econ, err := Estimate(scenarioALayout(), s)
	if err != nil {
		t.Fatalf("Estimate returned error: %v", err)
	}
	if econ.CostPerLb != 0.55 {
		t.Errorf("expected catalogue price 0.55, got %v", econ.CostPerLb)
	}
	if math.Abs(econ.CostPerPart-econ.SheetCost/35) > 1e-12 {
		t.Errorf("CostPerPart = %v", econ.CostPerPart)
	}

	s.CostPerLb = 1.10
	econ2, err := Estimate(scenarioALayout(), s)
	if err != nil {
		t.Fatalf("Estimate returned error: %v", err)
	}
	if math.Abs(econ2.SheetCost-2*econ.SheetCost) > 1e-9 {
		t.Errorf("doubling price should double cost: %v vs %v", econ2.SheetCost, econ.SheetCost)
	}
}

func TestEstimate_NoFitHasNoCostPerPart(t *testing.T) {
	econ, err := Estimate(LayoutResult{WebWidth: 24}, DefaultSettings())
	if err != nil {
		t.Fatalf("Estimate returned error: %v", err)
	}
	if econ.CostPerPart != 0 || econ.SheetWeight != 0 {
		t.Errorf("unexpected economics for a no-fit: %+v", econ)
	}
}

func TestEstimate_UnknownMaterial(t *testing.T) {
	s := DefaultSettings()
	s.Material = "unobtainium"
	if _, err := Estimate(scenarioALayout(), s); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
