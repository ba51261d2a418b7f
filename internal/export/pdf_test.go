package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/thermolayout/internal/engine"
	"github.com/piwi3910/thermolayout/internal/model"
)

// buildTestSheet lays out a 3 x 4 in part with a 0.25 in corner radius on the
// default 24 x 36 in machine.
func buildTestSheet(t *testing.T) LayoutSheet {
	t.Helper()
	part := model.PartFootprint{Width: 3, Length: 4, CornerRadius: 0.25, Units: "in"}
	settings := model.DefaultSettings()

	layout, choice, econ, err := engine.Evaluate(part, settings)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	return LayoutSheet{
		Title:       "Clamshell",
		Part:        part,
		Settings:    settings,
		Layout:      layout,
		Orientation: string(choice),
		Economics:   econ,
	}
}

// buildNoFitSheet returns a sheet whose part is wider than the web.
func buildNoFitSheet(t *testing.T) LayoutSheet {
	t.Helper()
	part := model.PartFootprint{Width: 30, Length: 40, Units: "in"}
	settings := model.DefaultSettings()
	settings.Orientation = "normal"

	layout, err := engine.Pack(settings.PackInput(part))
	if err != nil {
		t.Fatalf("Pack returned error: %v", err)
	}
	if !layout.NoFit() {
		t.Fatalf("expected no fit, got %d cavities", layout.CavityCount)
	}
	return LayoutSheet{Title: "Oversize", Part: part, Settings: settings, Layout: layout, Orientation: "normal"}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test_output.pdf")

	sheet := buildTestSheet(t)
	second := sheet
	second.Title = "Clamshell (edge-locked)"
	second.Settings.Policy = model.SpacingPolicy{Kind: model.EdgeLocked}

	err := ExportPDF(path, []LayoutSheet{sheet, second})
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
	// Two layout pages, each with a QR image, plus the summary
	if info.Size() < 1000 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_EmptyList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	err := ExportPDF(path, nil)
	if err == nil {
		t.Fatal("expected error for empty sheet list, got nil")
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("no file should be written for an empty sheet list")
	}
}

func TestExportPDF_NoFitPage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nofit.pdf")

	err := ExportPDF(path, []LayoutSheet{buildTestSheet(t), buildNoFitSheet(t)})
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestExportPDF_SquareCorners(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "square.pdf")

	sheet := buildTestSheet(t)
	sheet.Part.CornerRadius = 0
	sheet.Settings.ChainWidth = 0

	if err := ExportPDF(path, []LayoutSheet{sheet}); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
}

func TestExportPDF_ManySheets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many.pdf")

	// More rows than fit on one summary page
	base := buildTestSheet(t)
	sheets := make([]LayoutSheet, 40)
	for i := range sheets {
		sheets[i] = base
	}

	if err := ExportPDF(path, sheets); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{50, 50, 8},
		{15, 25, 7},
		{10, 15, 5},
	}
	for _, tt := range tests {
		got := labelFontSize(tt.w, tt.h)
		if got != tt.want {
			t.Errorf("labelFontSize(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	c, ok := parseHexColor("#4CAF50")
	if !ok {
		t.Fatal("expected #4CAF50 to parse")
	}
	if c != (partColor{R: 76, G: 175, B: 80}) {
		t.Errorf("parseHexColor = %+v, want {76 175 80}", c)
	}

	for _, bad := range []string{"", "#fff", "zzzzzz", "#1234567"} {
		if _, ok := parseHexColor(bad); ok {
			t.Errorf("parseHexColor(%q) should fail", bad)
		}
	}
}

func TestCavityColor_UnknownMaterialFallsBack(t *testing.T) {
	sheet := buildTestSheet(t)
	sheet.Settings.Material = "unobtainium"
	if got := sheet.cavityColor(); got != defaultCavityColor {
		t.Errorf("cavityColor() = %+v, want default", got)
	}
}
