// Package importer extracts part geometry from drawing files and imports
// batch part lists from CSV and Excel. Drawing extraction decodes the
// group-code text format, picks the cut layers, and either detects a
// repeating cavity pattern or falls back to the overall extent.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/thermolayout/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Parts    []model.Part
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label     int
	Width     int
	Length    int
	DrawDepth int
	Quantity  int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":     {"label", "name", "part", "part name", "description", "desc", "item", "sku"},
	"width":     {"width", "w", "y"},
	"length":    {"length", "len", "l", "x"},
	"drawdepth": {"draw depth", "depth", "z", "z-height", "zheight", "z height", "draw"},
	"quantity":  {"quantity", "qty", "count", "cavities", "cap", "pcs"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Matching is case-insensitive against known aliases for each role.
// Without a recognizable header the positional mapping
// Label, Width, Length, DrawDepth, Quantity is returned with false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Width: -1, Length: -1, DrawDepth: -1, Quantity: -1}
	slots := map[string]*int{
		"label":     &mapping.Label,
		"width":     &mapping.Width,
		"length":    &mapping.Length,
		"drawdepth": &mapping.DrawDepth,
		"quantity":  &mapping.Quantity,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if slot := slots[role]; *slot == -1 {
						*slot = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Label: 0, Width: 1, Length: 2, DrawDepth: 3, Quantity: 4}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a Part from a row using the given column mapping.
// Returns the part, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, partCount int) (model.Part, string, string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Part %d", partCount+1)
	}

	width, errMsg := parseRequired(row, mapping.Width, "width", rowLabel)
	if errMsg != "" {
		return model.Part{}, errMsg, ""
	}
	length, errMsg := parseRequired(row, mapping.Length, "length", rowLabel)
	if errMsg != "" {
		return model.Part{}, errMsg, ""
	}
	if width <= 0 || length <= 0 {
		return model.Part{}, fmt.Sprintf("%s: Width and length must be positive", rowLabel), ""
	}

	part := model.NewPart(label, width, length)

	var warnings []string
	if s := getCell(row, mapping.DrawDepth); s != "" {
		d, err := strconv.ParseFloat(s, 64)
		if err != nil || d < 0 {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid draw depth '%s', using job default", rowLabel, s))
		} else {
			part.DrawDepth = d
		}
	}
	if s := getCell(row, mapping.Quantity); s != "" {
		q, err := strconv.Atoi(s)
		if err != nil || q < 0 {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid quantity '%s', packing as many as fit", rowLabel, s))
		} else {
			part.Quantity = q
		}
	}

	return part, "", strings.Join(warnings, "; ")
}

func parseRequired(row []string, idx int, name, rowLabel string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	return v, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports a part list from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	res := ImportCSVFromReader(bytes.NewReader(data), delimiter)
	res.Warnings = append(warnings, res.Warnings...)
	return res
}

// ImportCSVFromReader imports a part list from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line")
}

// ImportExcel imports a part list from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row")
}

// ImportPartList dispatches on the file extension (.xlsx/.xlsm → Excel, otherwise CSV).
func ImportPartList(path string) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string) ImportResult {
	result := ImportResult{}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			// Unrecognized header: skip it but keep positional mapping
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		part, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Parts))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Parts = append(result.Parts, part)
	}

	return result
}
