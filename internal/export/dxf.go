package export

import (
	"fmt"
	"math"

	"github.com/piwi3910/thermolayout/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// Layer names written to tooling drawings.
const (
	LayerDieCut = "DIE-CUT"
	LayerPlate  = "PLATE"
	LayerChain  = "CHAIN"
)

// ExportDXF writes the layout as a tooling drawing. Drawing X runs along the
// index and Y across the web, so cavity outlines are PartLength wide and
// PartWidth tall. Each cavity is drawn as four corner arcs followed by its
// four edges on the DIE-CUT layer; the forming area goes on PLATE and the
// chain strip edges on CHAIN.
func ExportDXF(path string, sheet LayoutSheet) error {
	lay := sheet.Layout
	if lay.NoFit() {
		return fmt.Errorf("no cavities to draw")
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerPlate, color.White},
		{LayerChain, color.Blue},
		{LayerDieCut, color.Red},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	if err := d.ChangeLayer(LayerPlate); err != nil {
		return fmt.Errorf("failed to select layer: %w", err)
	}
	if err := drawOutline(d, rectOutline(lay.UsedIndexLength, lay.WebWidth).Translate(lay.UsedIndexLength/2, lay.WebWidth/2)); err != nil {
		return err
	}

	if chain := sheet.Settings.ChainWidth; chain > 0 {
		if err := d.ChangeLayer(LayerChain); err != nil {
			return fmt.Errorf("failed to select layer: %w", err)
		}
		for _, y := range []float64{-chain, lay.WebWidth + chain} {
			if _, err := d.Line(0, y, 0, lay.UsedIndexLength, y, 0); err != nil {
				return fmt.Errorf("failed to draw chain edge: %w", err)
			}
		}
	}

	if err := d.ChangeLayer(LayerDieCut); err != nil {
		return fmt.Errorf("failed to select layer: %w", err)
	}
	hx, hy := lay.PartLength/2, lay.PartWidth/2
	r := math.Min(sheet.Part.CornerRadius, math.Min(hx, hy))
	for _, p := range lay.Positions {
		if err := drawCavity(d, p.CenterY, p.CenterX, hx, hy, r); err != nil {
			return fmt.Errorf("failed to draw cavity %d-%d: %w", p.Row+1, p.Col+1, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF: %w", err)
	}
	return nil
}

// drawCavity draws a rounded rectangle centered on (cx, cy) with half sizes
// hx, hy. A non-positive radius draws square corners.
func drawCavity(d *drawing.Drawing, cx, cy, hx, hy, r float64) error {
	if r <= 0 {
		return drawOutline(d, rectOutline(2*hx, 2*hy).Translate(cx, cy))
	}
	dx, dy := hx-r, hy-r
	corners := []struct {
		x, y, start float64
	}{
		{cx + dx, cy + dy, 0},
		{cx - dx, cy + dy, 90},
		{cx - dx, cy - dy, 180},
		{cx + dx, cy - dy, 270},
	}
	for _, c := range corners {
		if _, err := d.Arc(c.x, c.y, 0, r, c.start, c.start+90); err != nil {
			return err
		}
	}
	edges := [][4]float64{
		{cx - dx, cy - hy, cx + dx, cy - hy},
		{cx + hx, cy - dy, cx + hx, cy + dy},
		{cx + dx, cy + hy, cx - dx, cy + hy},
		{cx - hx, cy + dy, cx - hx, cy - dy},
	}
	for _, e := range edges {
		if _, err := d.Line(e[0], e[1], 0, e[2], e[3], 0); err != nil {
			return err
		}
	}
	return nil
}

// rectOutline is a w x h rectangle centered on the origin, counter-clockwise
// from the lower left corner.
func rectOutline(w, h float64) model.Outline {
	return model.Outline{{X: -w / 2, Y: -h / 2}, {X: w / 2, Y: -h / 2}, {X: w / 2, Y: h / 2}, {X: -w / 2, Y: h / 2}}
}

// drawOutline draws the closed outline as one line per edge.
func drawOutline(d *drawing.Drawing, o model.Outline) error {
	for i := range o {
		a, b := o[i], o[(i+1)%len(o)]
		if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
			return fmt.Errorf("failed to draw line: %w", err)
		}
	}
	return nil
}
