package model

// Economics holds the material and cost figures for one index of a layout.
type Economics struct {
	FormingArea float64 `json:"forming_area"` // Web × used index (sq in)
	SheetArea   float64 `json:"sheet_area"`   // (Web + both chains) × used index (sq in)
	PartsArea   float64 `json:"parts_area"`   // sq in
	ScrapArea   float64 `json:"scrap_area"`   // Forming area not covered by cavities (sq in)
	Utilization float64 `json:"utilization"`  // Percent of forming area used by parts

	SheetWeight float64 `json:"sheet_weight"` // lb per index
	PartsWeight float64 `json:"parts_weight"` // lb per index
	ScrapWeight float64 `json:"scrap_weight"` // lb per index, chains included

	CostPerLb   float64 `json:"cost_per_lb"`
	SheetCost   float64 `json:"sheet_cost"`
	ScrapCost   float64 `json:"scrap_cost"`
	CostPerPart float64 `json:"cost_per_part"`
}

// Estimate computes weights and costs for a layout under the given settings.
// The chain strips are part of the sheet weight but not of the forming area.
// A zero CostPerLb in settings falls back to the material's catalogue price.
func Estimate(layout LayoutResult, settings JobSettings) (Economics, error) {
	mat, err := FindMaterial(settings.Material)
	if err != nil {
		return Economics{}, err
	}

	formingArea := layout.FormingArea()
	sheetArea := (layout.WebWidth + 2*settings.ChainWidth) * layout.UsedIndexLength
	partsArea := layout.PartsArea()

	density := mat.DensityLbIn3()
	sheetWeight := sheetArea * settings.Gauge * density
	partsWeight := partsArea * settings.Gauge * density

	costPerLb := settings.CostPerLb
	if costPerLb <= 0 {
		costPerLb = mat.PricePerLb
	}

	econ := Economics{
		FormingArea: formingArea,
		SheetArea:   sheetArea,
		PartsArea:   partsArea,
		ScrapArea:   layout.ScrapArea(),
		Utilization: layout.Utilization() * 100.0,
		SheetWeight: sheetWeight,
		PartsWeight: partsWeight,
		ScrapWeight: sheetWeight - partsWeight,
		CostPerLb:   costPerLb,
		SheetCost:   sheetWeight * costPerLb,
		ScrapCost:   (sheetWeight - partsWeight) * costPerLb,
	}
	if layout.CavityCount > 0 {
		econ.CostPerPart = econ.SheetCost / float64(layout.CavityCount)
	}
	return econ, nil
}
