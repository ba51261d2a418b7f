package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	sidebarWidth = 85.0
	drawAreaTop  = marginTop + headerHeight + 8.0
	summaryQR    = 30.0
)

// sheetSummary is the JSON encoded into the layout sheet's QR code.
type sheetSummary struct {
	Title       string  `json:"title"`
	Width       float64 `json:"part_width"`
	Length      float64 `json:"part_length"`
	Across      int     `json:"across"`
	Down        int     `json:"down"`
	Cavities    int     `json:"cavities"`
	Index       float64 `json:"index"`
	Web         float64 `json:"web"`
	Policy      string  `json:"policy"`
	Orientation string  `json:"orientation"`
}

// ExportPDF generates a PDF document with one layout page per sheet, followed
// by a summary page comparing all of them.
func ExportPDF(path string, sheets []LayoutSheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no layouts to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, sheet := range sheets {
		pdf.AddPage()
		if err := renderLayoutPage(pdf, sheet, i+1); err != nil {
			return err
		}
	}

	pdf.AddPage()
	renderSummaryPage(pdf, sheets)

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws one layout on the current page: the sheet with its
// chain strips and cavities on the left, figures and a QR summary on the right.
func renderLayoutPage(pdf *fpdf.Fpdf, sheet LayoutSheet, pageNum int) error {
	lay := sheet.Layout

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Layout %d: %s (%.3f x %.3f in)", pageNum, sheet.Title, sheet.Part.Width, sheet.Part.Length)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Cavities: %d (%s) | Index: %.3f in | Utilization: %.1f%% | Policy: %s | Orientation: %s",
		lay.CavityCount, sheet.gridLabel(), lay.UsedIndexLength, lay.Utilization()*100, sheet.Settings.Policy, sheet.Orientation)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	if lay.NoFit() {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, drawAreaTop)
		pdf.CellFormat(200, 8, "Part does not fit the web and index limits", "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		return nil
	}

	drawWidth := pageWidth - marginLeft - marginRight - sidebarWidth
	drawHeight := pageHeight - drawAreaTop - marginBottom - 8

	sheetW := sheet.sheetWidth()
	scale := math.Min(drawWidth/sheetW, drawHeight/lay.UsedIndexLength)
	canvasW := sheetW * scale
	canvasH := lay.UsedIndexLength * scale
	offsetX := marginLeft + 8 + (drawWidth-8-canvasW)/2
	offsetY := drawAreaTop

	// Chain strips, hatched
	chainW := sheet.Settings.ChainWidth * scale
	if chainW > 0 {
		pdf.SetFillColor(220, 220, 220)
		pdf.SetDrawColor(120, 120, 120)
		pdf.SetLineWidth(0.3)
		for _, x := range []float64{offsetX, offsetX + canvasW - chainW} {
			pdf.Rect(x, offsetY, chainW, canvasH, "FD")
			drawHatchPattern(pdf, x, offsetY, chainW, canvasH)
		}
	}

	// Forming area
	webX := offsetX + chainW
	pdf.SetFillColor(245, 240, 225)
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.5)
	pdf.Rect(webX, offsetY, lay.WebWidth*scale, canvasH, "FD")

	col := sheet.cavityColor()
	pw := lay.PartWidth * scale
	pl := lay.PartLength * scale
	radius := math.Min(sheet.Part.CornerRadius*scale, math.Min(pw, pl)/2)
	for _, p := range lay.Positions {
		px := webX + (p.CenterX-lay.PartWidth/2)*scale
		py := offsetY + (p.CenterY-lay.PartLength/2)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		if radius > 0.2 {
			pdf.RoundedRect(px, py, pw, pl, radius, "1234", "FD")
		} else {
			pdf.Rect(px, py, pw, pl, "FD")
		}

		if pw > 8 && pl > 5 {
			id := fmt.Sprintf("%d-%d", p.Row+1, p.Col+1)
			pdf.SetFont("Helvetica", "", labelFontSize(pw, pl))
			pdf.SetTextColor(0, 0, 0)
			idW := pdf.GetStringWidth(id)
			pdf.SetXY(px+(pw-idW)/2, py+pl/2-2)
			pdf.CellFormat(idW, 4, id, "", 0, "C", false, 0, "")
		}
	}

	drawDimensionAnnotations(pdf, sheetW, lay.UsedIndexLength, offsetX, offsetY, canvasW, canvasH)

	return drawSidebar(pdf, sheet, pageNum, pageWidth-marginRight-sidebarWidth+5, drawAreaTop)
}

// drawSidebar lists spacing, margins and economics, then the QR summary.
func drawSidebar(pdf *fpdf.Fpdf, sheet LayoutSheet, pageNum int, x, y float64) error {
	lay := sheet.Layout
	econ := sheet.Economics
	ctcH, ctcV := lay.Ctc()

	items := []struct {
		label string
		value string
	}{
		{"Web / Sheet", fmt.Sprintf("%.2f / %.2f in", lay.WebWidth, sheet.sheetWidth())},
		{"Max index", fmt.Sprintf("%.2f in", sheet.Settings.MaxIndexLength)},
		{"Draw depth", fmt.Sprintf("%.3f in", sheet.Settings.DrawDepth)},
		{"Gap H / V", fmt.Sprintf("%.3f / %.3f in", lay.SpacingHorizontal, lay.SpacingVertical)},
		{"C/C H / V", fmt.Sprintf("%.3f / %.3f in", ctcH, ctcV)},
		{"Margins L / R", fmt.Sprintf("%.3f / %.3f in", lay.MarginLeft, lay.MarginRight)},
		{"Margins T / B", fmt.Sprintf("%.3f / %.3f in", lay.MarginTop, lay.MarginBottom)},
		{"Material", fmt.Sprintf("%s %.3f in", sheet.Settings.Material, sheet.Settings.Gauge)},
		{"Sheet weight", fmt.Sprintf("%.3f lb", econ.SheetWeight)},
		{"Scrap weight", fmt.Sprintf("%.3f lb", econ.ScrapWeight)},
		{"Sheet cost", fmt.Sprintf("$%.2f", econ.SheetCost)},
		{"Cost / part", fmt.Sprintf("$%.4f", econ.CostPerPart)},
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(x, y)
	pdf.CellFormat(sidebarWidth-5, 6, "Layout Details", "", 0, "L", false, 0, "")
	y += 8

	for _, item := range items {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(x, y)
		pdf.CellFormat(32, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(sidebarWidth-37, 5, item.value, "", 0, "L", false, 0, "")
		y += 5.5
	}

	summary := sheetSummary{
		Title:       sheet.Title,
		Width:       lay.PartWidth,
		Length:      lay.PartLength,
		Across:      lay.Across,
		Down:        lay.Down,
		Cavities:    lay.CavityCount,
		Index:       round3(lay.UsedIndexLength),
		Web:         lay.WebWidth,
		Policy:      sheet.Settings.Policy.String(),
		Orientation: sheet.Orientation,
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal layout summary: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("summary_%d", pageNum)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(imgName, x, y+4, summaryQR, summaryQR, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark the chain strips.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.15)

	spacing := 3.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations labels the sheet width below and the index length to the left.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, width, index, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.2f in", width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	indexLabel := fmt.Sprintf("%.2f in", index)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	iLabelW := pdf.GetStringWidth(indexLabel)
	pdf.SetXY(offsetX-3-iLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(iLabelW, 4, indexLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws a table comparing all layouts in the document.
func renderSummaryPage(pdf *fpdf.Fpdf, sheets []LayoutSheet) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Layout Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	totalCavities := 0
	totalCost := 0.0
	for _, s := range sheets {
		totalCavities += s.Layout.CavityCount
		totalCost += s.Economics.SheetCost
	}

	summaryItems := []struct {
		label string
		value string
	}{
		{"Layouts", fmt.Sprintf("%d", len(sheets))},
		{"Total cavities", fmt.Sprintf("%d", totalCavities)},
		{"Sheet cost per index (all)", fmt.Sprintf("$%.2f", totalCost)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	colWidths := []float64{55, 35, 25, 22, 22, 28, 25, 25, 30}
	headers := []string{"Part", "Size (in)", "Orient.", "Grid", "Cavities", "Index (in)", "Util.", "Sheet $", "$ / part"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, s := range sheets {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		xPos = marginLeft
		rowData := []string{
			s.Title,
			fmt.Sprintf("%.3f x %.3f", s.Part.Width, s.Part.Length),
			s.Orientation,
			s.gridLabel(),
			fmt.Sprintf("%d", s.Layout.CavityCount),
			fmt.Sprintf("%.3f", s.Layout.UsedIndexLength),
			fmt.Sprintf("%.1f%%", s.Layout.Utilization()*100),
			fmt.Sprintf("%.2f", s.Economics.SheetCost),
			fmt.Sprintf("%.4f", s.Economics.CostPerPart),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by thermolayout - thermoform cavity layout", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 20:
		return 8
	case minDim > 10:
		return 7
	default:
		return 5
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
