package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Label,Width,Length,Qty\nTray,3,4,10\nLid,5,6,8\n")
	got := DetectCSVDelimiter(data)
	if got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Label;Width;Length;Qty\nTray;3;4;10\nLid;5;6;8\n")
	got := DetectCSVDelimiter(data)
	if got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Label\tWidth\tLength\tQty\nTray\t3\t4\t10\n")
	got := DetectCSVDelimiter(data)
	if got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("Label|Width|Length|Qty\nTray|3|4|10\nLid|5|6|8\n")
	got := DetectCSVDelimiter(data)
	if got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Label", "Width", "Length", "Draw Depth", "Quantity"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.Label != 0 || mapping.Width != 1 || mapping.Length != 2 {
		t.Errorf("unexpected label/width/length mapping: %+v", mapping)
	}
	if mapping.DrawDepth != 3 {
		t.Errorf("expected DrawDepth at 3, got %d", mapping.DrawDepth)
	}
	if mapping.Quantity != 4 {
		t.Errorf("expected Quantity at 4, got %d", mapping.Quantity)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	row := []string{"QTY", "Z-Height", "LEN", "W", "SKU"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.Quantity != 0 {
		t.Errorf("expected Quantity at 0, got %d", mapping.Quantity)
	}
	if mapping.DrawDepth != 1 {
		t.Errorf("expected DrawDepth at 1, got %d", mapping.DrawDepth)
	}
	if mapping.Length != 2 {
		t.Errorf("expected Length at 2, got %d", mapping.Length)
	}
	if mapping.Width != 3 {
		t.Errorf("expected Width at 3, got %d", mapping.Width)
	}
	if mapping.Label != 4 {
		t.Errorf("expected Label at 4, got %d", mapping.Label)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	row := []string{"Tray", "3", "4", "1", "10"}
	mapping, isHeader := DetectColumns(row)

	if isHeader {
		t.Error("expected no header")
	}
	if mapping.Width != 1 || mapping.Length != 2 || mapping.DrawDepth != 3 || mapping.Quantity != 4 {
		t.Errorf("unexpected positional mapping: %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Label,Width,Length,Depth,Qty\nTray,3,4,1.5,12\nLid,5.25,6,0.5,\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(result.Parts))
	}

	tray := result.Parts[0]
	if tray.Label != "Tray" {
		t.Errorf("expected label 'Tray', got '%s'", tray.Label)
	}
	if tray.Width != 3 || tray.Length != 4 {
		t.Errorf("expected 3x4, got %gx%g", tray.Width, tray.Length)
	}
	if tray.DrawDepth != 1.5 {
		t.Errorf("expected draw depth 1.5, got %g", tray.DrawDepth)
	}
	if tray.Quantity != 12 {
		t.Errorf("expected quantity 12, got %d", tray.Quantity)
	}
	if tray.ID == "" {
		t.Error("expected part ID to be set")
	}

	lid := result.Parts[1]
	if lid.Width != 5.25 {
		t.Errorf("expected width 5.25, got %g", lid.Width)
	}
	if lid.Quantity != 0 {
		t.Errorf("expected empty quantity to mean no cap, got %d", lid.Quantity)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "Tray,3,4\nLid,5,6\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d (errors: %v)", len(result.Parts), result.Errors)
	}
	if result.Parts[1].Length != 6 {
		t.Errorf("expected length 6, got %g", result.Parts[1].Length)
	}
}

func TestImportCSVFromReader_UnrecognizedHeaderSkipped(t *testing.T) {
	data := "Item Name,Across,Along\nTray,3,4\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d (errors: %v)", len(result.Parts), result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning about the skipped header")
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestImportCSVFromReader_InvalidWidth(t *testing.T) {
	data := "Label,Width,Length\nTray,abc,4\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Parts) != 0 {
		t.Errorf("expected 0 parts, got %d", len(result.Parts))
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Invalid width") {
		t.Errorf("expected invalid width error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_NegativeValues(t *testing.T) {
	data := "Label,Width,Length\nTray,-3,4\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Parts) != 0 {
		t.Errorf("expected 0 parts for negative width, got %d", len(result.Parts))
	}
	if len(result.Errors) == 0 {
		t.Error("expected error for negative width")
	}
}

func TestImportCSVFromReader_InvalidOptionalColumns(t *testing.T) {
	data := "Label,Width,Length,Depth,Qty\nTray,3,4,deep,many\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Parts) != 1 {
		t.Fatalf("expected invalid optional values to keep the part, got %d parts", len(result.Parts))
	}
	if result.Parts[0].DrawDepth != 0 || result.Parts[0].Quantity != 0 {
		t.Errorf("expected defaults, got depth %g qty %d", result.Parts[0].DrawDepth, result.Parts[0].Quantity)
	}
	joined := strings.Join(result.Warnings, "\n")
	if !strings.Contains(joined, "draw depth") || !strings.Contains(joined, "quantity") {
		t.Errorf("expected warnings for depth and quantity, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "Label,Width,Length\nTray,3,4\nBad,,4\nLid,5,6\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Parts) != 2 {
		t.Errorf("expected 2 valid parts, got %d", len(result.Parts))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d: %v", len(result.Errors), result.Errors)
	}
}

func TestImportCSVFromReader_EmptyRowsAndLabel(t *testing.T) {
	data := "Label,Width,Length\n,3,4\n\n,,\nLid,5,6\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d (errors: %v)", len(result.Parts), result.Errors)
	}
	if result.Parts[0].Label != "Part 1" {
		t.Errorf("expected generated label 'Part 1', got '%s'", result.Parts[0].Label)
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	data := "Label,Width,Qty\nTray,3,10\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "Length") {
		t.Errorf("expected missing Length column error, got %v", result.Errors)
	}
}

func TestImportCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.csv")
	content := "Label;Width;Length\nTray;3;4\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)
	if len(result.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d (errors: %v)", len(result.Parts), result.Errors)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "semicolon") {
		t.Errorf("expected semicolon warning first, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/parts.csv")
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	result := ImportCSV(path)
	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "parts.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Label", "Width", "Length", "Z Height", "Quantity"},
		{"Tray", 3, 4, 1, 20},
		{"Lid", 5.5, 6, 0.75, 10},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(result.Parts))
	}
	if result.Parts[1].Width != 5.5 {
		t.Errorf("expected width 5.5, got %g", result.Parts[1].Width)
	}
	if result.Parts[1].DrawDepth != 0.75 {
		t.Errorf("expected draw depth 0.75, got %g", result.Parts[1].DrawDepth)
	}
	if result.Parts[0].Quantity != 20 {
		t.Errorf("expected quantity 20, got %d", result.Parts[0].Quantity)
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Tray", 3, 4},
		{"Lid", 5, 6},
	})

	result := ImportExcel(path)

	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d (errors: %v)", len(result.Parts), result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/parts.xlsx")
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportPartList_DispatchesOnExtension(t *testing.T) {
	xlsx := createTestExcel(t, [][]interface{}{{"Tray", 3, 4}})
	if got := ImportPartList(xlsx); len(got.Parts) != 1 {
		t.Errorf("expected 1 part from xlsx, got %d (errors: %v)", len(got.Parts), got.Errors)
	}

	csvPath := filepath.Join(t.TempDir(), "parts.CSV")
	if err := os.WriteFile(csvPath, []byte("Tray,3,4\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if got := ImportPartList(csvPath); len(got.Parts) != 1 {
		t.Errorf("expected 1 part from csv, got %d (errors: %v)", len(got.Parts), got.Errors)
	}
}
