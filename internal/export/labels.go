package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// TagInfo holds the data encoded into each cavity tag's QR code. Tooling shops
// stamp the tag next to the cavity so formed parts can be traced back to it.
type TagInfo struct {
	Job     string  `json:"job"`
	Cavity  string  `json:"cavity"` // "row-col", 1-based
	Row     int     `json:"row"`
	Col     int     `json:"col"`
	Width   float64 `json:"width_in"`
	Length  float64 `json:"length_in"`
	CenterX float64 `json:"x_in"`
	CenterY float64 `json:"y_in"`
	Rotated bool    `json:"rotated"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportCavityTags generates a PDF of QR-coded tags, one per cavity, laid out
// on a standard label sheet (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportCavityTags(path string, sheet LayoutSheet) error {
	tags := CollectTagInfos(sheet)
	if len(tags) == 0 {
		return fmt.Errorf("no cavities to generate tags for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, tag := range tags {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderTag(pdf, x, y, i, tag); err != nil {
			return fmt.Errorf("failed to render tag for cavity %s: %w", tag.Cavity, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderTag draws a single tag at the given position.
func renderTag(pdf *fpdf.Fpdf, x, y float64, index int, info TagInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal tag info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_tag_%d", index)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 5, "Cavity "+info.Cavity, "", 1, "L", false, 0, "")

	// Job name, truncated to fit
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+6)
	job := info.Job
	if pdf.GetStringWidth(job) > textW {
		for len(job) > 0 && pdf.GetStringWidth(job+"...") > textW {
			job = job[:len(job)-1]
		}
		job += "..."
	}
	pdf.CellFormat(textW, 3.5, job, "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+10)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%.3f x %.3f in", info.Width, info.Length), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+14)
	pdf.CellFormat(textW, 3, fmt.Sprintf("@ (%.3f, %.3f)", info.CenterX, info.CenterY), "", 1, "L", false, 0, "")

	if info.Rotated {
		pdf.SetXY(textX, y+labelPadding+17.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Rotated 90\xb0", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectTagInfos extracts one tag per cavity position, in layout order.
func CollectTagInfos(sheet LayoutSheet) []TagInfo {
	lay := sheet.Layout
	var tags []TagInfo
	for _, p := range lay.Positions {
		tags = append(tags, TagInfo{
			Job:     sheet.Title,
			Cavity:  fmt.Sprintf("%d-%d", p.Row+1, p.Col+1),
			Row:     p.Row + 1,
			Col:     p.Col + 1,
			Width:   lay.PartWidth,
			Length:  lay.PartLength,
			CenterX: round3(p.CenterX),
			CenterY: round3(p.CenterY),
			Rotated: sheet.Orientation == "rotated",
		})
	}
	return tags
}
