package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/piwi3910/thermolayout/internal/engine"
	"github.com/xuri/excelize/v2"
)

var positionHeader = []string{"Cavity", "Row", "Col", "Center X (in)", "Center Y (in)", "Width (in)", "Length (in)"}

var comparisonHeader = []string{
	"Scenario", "Web (in)", "Max Index (in)", "Policy", "Orientation",
	"Across", "Down", "Cavities", "Used Index (in)", "Utilization (%)",
	"Sheet Weight (lb)", "Scrap Weight (lb)", "Cost/Part ($)", "Error",
}

var sweepHeader = []string{
	"Web (in)", "Max Index (in)", "Orientation", "Across", "Down", "Cavities",
	"Used Index (in)", "Utilization (%)", "Sheet Cost ($)", "Cost/Part ($)",
}

func fmtFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// PositionRows returns one row per cavity, header first.
func PositionRows(sheet LayoutSheet) [][]string {
	lay := sheet.Layout
	rows := [][]string{positionHeader}
	for _, p := range lay.Positions {
		rows = append(rows, []string{
			fmt.Sprintf("%d-%d", p.Row+1, p.Col+1),
			strconv.Itoa(p.Row + 1),
			strconv.Itoa(p.Col + 1),
			fmtFloat(p.CenterX, 4),
			fmtFloat(p.CenterY, 4),
			fmtFloat(lay.PartWidth, 4),
			fmtFloat(lay.PartLength, 4),
		})
	}
	return rows
}

// ComparisonRows returns one row per scenario result, header first.
func ComparisonRows(results []engine.ComparisonResult) [][]string {
	rows := [][]string{comparisonHeader}
	for _, r := range results {
		s := r.Scenario.Settings
		row := []string{
			r.Scenario.Name,
			fmtFloat(s.WebWidth, 2),
			fmtFloat(s.MaxIndexLength, 2),
			s.Policy.String(),
		}
		if r.Err != nil {
			row = append(row, "", "", "", "", "", "", "", "", "", r.Err.Error())
			rows = append(rows, row)
			continue
		}
		row = append(row,
			string(r.Orientation),
			strconv.Itoa(r.Layout.Across),
			strconv.Itoa(r.Layout.Down),
			strconv.Itoa(r.Layout.CavityCount),
			fmtFloat(r.Layout.UsedIndexLength, 3),
			fmtFloat(r.Economics.Utilization, 1),
			fmtFloat(r.Economics.SheetWeight, 3),
			fmtFloat(r.Economics.ScrapWeight, 3),
			fmtFloat(r.Economics.CostPerPart, 4),
			"",
		)
		rows = append(rows, row)
	}
	return rows
}

// SweepRows returns one row per sweep point, header first.
func SweepRows(points []engine.SweepPoint) [][]string {
	rows := [][]string{sweepHeader}
	for _, p := range points {
		rows = append(rows, []string{
			fmtFloat(p.WebWidth, 2),
			fmtFloat(p.MaxIndexLength, 2),
			string(p.Orientation),
			strconv.Itoa(p.Layout.Across),
			strconv.Itoa(p.Layout.Down),
			strconv.Itoa(p.Layout.CavityCount),
			fmtFloat(p.Layout.UsedIndexLength, 3),
			fmtFloat(p.Economics.Utilization, 1),
			fmtFloat(p.Economics.SheetCost, 4),
			fmtFloat(p.Economics.CostPerPart, 4),
		})
	}
	return rows
}

// ExportCSV writes rows to a comma-separated file.
func ExportCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return f.Close()
}

// ReportSheet is one named worksheet of an XLSX report.
type ReportSheet struct {
	Name string
	Rows [][]string
}

// ExportXLSX writes each report sheet to its own worksheet with a bold header
// row. Cells that parse as numbers are stored as numbers.
func ExportXLSX(path string, sheets []ReportSheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", sheet.Name, err)
		}

		for r, row := range sheet.Rows {
			cells := make([]interface{}, len(row))
			for c, v := range row {
				cells[c] = v
				if r > 0 {
					if n, err := strconv.ParseFloat(v, 64); err == nil {
						cells[c] = n
					}
				}
			}
			cellRef, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return fmt.Errorf("failed to create cell reference: %w", err)
			}
			if err := f.SetSheetRow(sheet.Name, cellRef, &cells); err != nil {
				return fmt.Errorf("failed to write row %d of %q: %w", r+1, sheet.Name, err)
			}
		}

		if len(sheet.Rows) > 0 && len(sheet.Rows[0]) > 0 {
			last, err := excelize.CoordinatesToCellName(len(sheet.Rows[0]), 1)
			if err != nil {
				return fmt.Errorf("failed to create cell reference: %w", err)
			}
			if err := f.SetCellStyle(sheet.Name, "A1", last, bold); err != nil {
				return fmt.Errorf("failed to style header: %w", err)
			}
			lastCol, _ := excelize.ColumnNumberToName(len(sheet.Rows[0]))
			if err := f.SetColWidth(sheet.Name, "A", lastCol, 16); err != nil {
				return fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save XLSX: %w", err)
	}
	return nil
}
