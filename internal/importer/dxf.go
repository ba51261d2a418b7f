package importer

import (
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/thermolayout/internal/model"
)

// Group codes interpreted by the decoder.
const (
	codeEntityType = 0
	codeLayer      = 8
	codeX1         = 10
	codeX2         = 11
	codeY1         = 20
	codeY2         = 21
	codeRadius     = 40
	codeStartAngle = 50
	codeEndAngle   = 51
	codeFlags      = 70
)

// DecodeEntities turns drawing text (alternating group-code / value lines)
// into typed entities. Only LINE, ARC, CIRCLE and LWPOLYLINE blocks inside the
// ENTITIES section are decoded; everything else is skipped. Lines that are not
// integer group codes are skipped one at a time so a malformed pair cannot
// derail the rest of the scan. A drawing without an ENTITIES section yields nil.
func DecodeEntities(text string) []model.Entity {
	lines := splitLines(text)

	i := 0
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == "ENTITIES" {
			i++
			break
		}
		i++
	}

	var entities []model.Entity
	for i < len(lines) {
		code := strings.TrimSpace(lines[i])
		val := valueAt(lines, i+1)
		if code == "0" && val == "ENDSEC" {
			break
		}
		kind, ok := entityKinds[val]
		if code != "0" || !ok {
			i++
			continue
		}

		b := newEntityBuilder(kind)
		i += 2
		for i < len(lines) {
			c, err := strconv.Atoi(strings.TrimSpace(lines[i]))
			if err != nil {
				i++
				continue
			}
			if c == codeEntityType {
				break
			}
			b.apply(c, valueAt(lines, i+1))
			i += 2
		}
		entities = append(entities, b.build())
	}
	return entities
}

var entityKinds = map[string]model.EntityKind{
	"LINE":       model.KindLine,
	"ARC":        model.KindArc,
	"CIRCLE":     model.KindCircle,
	"LWPOLYLINE": model.KindPolyline,
}

// entityBuilder accumulates group codes for one entity. Absent or unparseable
// numbers stay NaN.
type entityBuilder struct {
	kind   model.EntityKind
	layer  string
	x1, y1 float64
	x2, y2 float64
	radius float64
	start  float64
	end    float64
	points []model.Point2D
	flags  int
}

func newEntityBuilder(kind model.EntityKind) *entityBuilder {
	nan := math.NaN()
	return &entityBuilder{
		kind:   kind,
		x1:     nan,
		y1:     nan,
		x2:     nan,
		y2:     nan,
		radius: nan,
		start:  nan,
		end:    nan,
	}
}

func (b *entityBuilder) apply(code int, val string) {
	switch code {
	case codeLayer:
		b.layer = val
	case codeX1:
		b.x1 = parseNumber(val)
		if b.kind == model.KindPolyline {
			b.points = append(b.points, model.Point2D{X: b.x1, Y: math.NaN()})
		}
	case codeY1:
		b.y1 = parseNumber(val)
		if b.kind == model.KindPolyline && len(b.points) > 0 {
			b.points[len(b.points)-1].Y = b.y1
		}
	case codeX2:
		b.x2 = parseNumber(val)
	case codeY2:
		b.y2 = parseNumber(val)
	case codeRadius:
		b.radius = parseNumber(val)
	case codeStartAngle:
		b.start = parseNumber(val)
	case codeEndAngle:
		b.end = parseNumber(val)
	case codeFlags:
		if n, err := strconv.Atoi(val); err == nil {
			b.flags = n
		}
	}
}

func (b *entityBuilder) build() model.Entity {
	switch b.kind {
	case model.KindArc:
		return model.Arc{
			Layer:      b.layer,
			Center:     model.Point2D{X: b.x1, Y: b.y1},
			Radius:     b.radius,
			StartAngle: b.start,
			EndAngle:   b.end,
		}
	case model.KindCircle:
		return model.Circle{
			Layer:  b.layer,
			Center: model.Point2D{X: b.x1, Y: b.y1},
			Radius: b.radius,
		}
	case model.KindPolyline:
		pts := make(model.Outline, 0, len(b.points))
		for _, p := range b.points {
			if math.IsNaN(p.X) && math.IsNaN(p.Y) {
				continue
			}
			pts = append(pts, p)
		}
		return model.Polyline{Layer: b.layer, Points: pts, Closed: b.flags&1 == 1}
	default:
		return model.Line{
			Layer: b.layer,
			Start: model.Point2D{X: b.x1, Y: b.y1},
			End:   model.Point2D{X: b.x2, Y: b.y2},
		}
	}
}

// parseNumber returns NaN for anything that is not a finite number.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

func valueAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[i])
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
