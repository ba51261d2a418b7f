package export

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"
)

const (
	svgPixelsPerInch = 20.0
	svgPad           = 40
)

// RenderSVG writes a scaled top view of the layout: sheet with chain strips,
// the forming area and every cavity, with the sheet width and index length
// annotated. Coordinates are whole pixels at 20 px per inch.
func RenderSVG(w io.Writer, sheet LayoutSheet) error {
	lay := sheet.Layout
	px := func(in float64) int { return int(math.Round(in * svgPixelsPerInch)) }

	sheetW := px(sheet.sheetWidth())
	indexH := px(lay.UsedIndexLength)
	if lay.NoFit() {
		indexH = px(sheet.Settings.MaxIndexLength)
	}
	width := sheetW + 2*svgPad
	height := indexH + 2*svgPad + 30

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Title(sheet.Title)
	canvas.Rect(0, 0, width, height, "fill:white")

	canvas.Text(svgPad, 22, fmt.Sprintf("%s: %d cavities (%s), %.1f%% utilization",
		sheet.Title, lay.CavityCount, sheet.gridLabel(), lay.Utilization()*100),
		"font-family:sans-serif;font-size:13px;font-weight:bold;fill:#222")

	x0, y0 := svgPad, svgPad
	chain := px(sheet.Settings.ChainWidth)
	if chain > 0 {
		style := "fill:#ddd;stroke:#888;stroke-width:0.5"
		canvas.Rect(x0, y0, chain, indexH, style)
		canvas.Rect(x0+sheetW-chain, y0, chain, indexH, style)
	}
	canvas.Rect(x0+chain, y0, px(lay.WebWidth), indexH, "fill:#f5f0e1;stroke:#333;stroke-width:1")

	if lay.NoFit() {
		canvas.Text(x0+sheetW/2, y0+indexH/2, "no fit", "text-anchor:middle;font-family:sans-serif;font-size:14px;fill:#c00")
	}

	col := sheet.cavityColor()
	fill := fmt.Sprintf("fill:rgb(%d,%d,%d);stroke:#1e1e1e;stroke-width:0.75", col.R, col.G, col.B)
	pw, pl := px(lay.PartWidth), px(lay.PartLength)
	r := px(math.Min(sheet.Part.CornerRadius, math.Min(lay.PartWidth, lay.PartLength)/2))
	for _, p := range lay.Positions {
		cx := x0 + chain + px(p.CenterX-lay.PartWidth/2)
		cy := y0 + px(p.CenterY-lay.PartLength/2)
		if r > 0 {
			canvas.Roundrect(cx, cy, pw, pl, r, r, fill)
		} else {
			canvas.Rect(cx, cy, pw, pl, fill)
		}
		if pw >= 30 && pl >= 16 {
			canvas.Text(cx+pw/2, cy+pl/2+4, fmt.Sprintf("%d-%d", p.Row+1, p.Col+1),
				"text-anchor:middle;font-family:sans-serif;font-size:10px;fill:#111")
		}
	}

	// Sheet width below, index length on the left
	dimStyle := "stroke:#333;stroke-width:0.5"
	textStyle := "text-anchor:middle;font-family:sans-serif;font-size:11px;fill:#333"
	by := y0 + indexH + 12
	canvas.Line(x0, by, x0+sheetW, by, dimStyle)
	canvas.Line(x0, by-3, x0, by+3, dimStyle)
	canvas.Line(x0+sheetW, by-3, x0+sheetW, by+3, dimStyle)
	canvas.Text(x0+sheetW/2, by+14, fmt.Sprintf("%.2f in", sheet.sheetWidth()), textStyle)

	lx := x0 - 12
	canvas.Line(lx, y0, lx, y0+indexH, dimStyle)
	canvas.Line(lx-3, y0, lx+3, y0, dimStyle)
	canvas.Line(lx-3, y0+indexH, lx+3, y0+indexH, dimStyle)
	canvas.Gtransform(fmt.Sprintf("rotate(-90 %d %d)", lx-6, y0+indexH/2))
	canvas.Text(lx-6, y0+indexH/2, fmt.Sprintf("%.2f in", lay.UsedIndexLength), textStyle)
	canvas.Gend()

	canvas.End()
	return nil
}

// ExportSVG renders the layout to an SVG file.
func ExportSVG(path string, sheet LayoutSheet) error {
	var buf bytes.Buffer
	if err := RenderSVG(&buf, sheet); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}
	return nil
}

// RenderSparkline draws values as a polyline trend scaled into width x height
// pixels, with the last point highlighted. A flat series is drawn along the
// bottom edge.
func RenderSparkline(w io.Writer, values []float64, width, height int) error {
	if len(values) < 2 {
		return fmt.Errorf("sparkline needs at least 2 values, got %d", len(values))
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	const pad = 3
	xs := make([]int, len(values))
	ys := make([]int, len(values))
	for i, v := range values {
		xs[i] = pad + int(math.Round(float64(i)/float64(len(values)-1)*float64(width)))
		ys[i] = pad + int(math.Round(float64(height)-(v-lo)/span*float64(height)))
	}

	canvas := svg.New(w)
	canvas.Start(width+2*pad, height+2*pad)
	canvas.Polyline(xs, ys, "fill:none;stroke:#4EA8DE;stroke-width:1.5;stroke-linejoin:round")
	for i := range xs {
		r, fill := 1, "#1e293b"
		if i == len(xs)-1 {
			r, fill = 2, "#4EA8DE"
		}
		canvas.Circle(xs[i], ys[i], r, "fill:"+fill+";stroke:#4EA8DE;stroke-width:0.5")
	}
	canvas.End()
	return nil
}
