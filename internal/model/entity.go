package model

import "math"

// EntityKind tags the geometric variant of an Entity.
type EntityKind int

const (
	KindLine EntityKind = iota
	KindArc
	KindCircle
	KindPolyline
)

func (k EntityKind) String() string {
	switch k {
	case KindArc:
		return "ARC"
	case KindCircle:
		return "CIRCLE"
	case KindPolyline:
		return "LWPOLYLINE"
	default:
		return "LINE"
	}
}

// Entity is one decoded drawing primitive. Coordinates that were missing or
// unparseable in the source are NaN and never contribute to an extent.
type Entity interface {
	Kind() EntityKind
	LayerName() string
	// Extend grows bb by the entity's geometric extent.
	Extend(bb *BoundingBox)
}

// Line is a straight segment.
type Line struct {
	Layer string
	Start Point2D
	End   Point2D
}

func (l Line) Kind() EntityKind  { return KindLine }
func (l Line) LayerName() string { return l.Layer }

func (l Line) Extend(bb *BoundingBox) {
	bb.Extend(l.Start.X, l.Start.Y)
	bb.Extend(l.End.X, l.End.Y)
}

// Arc is a circular arc; angles are in degrees, counter-clockwise.
type Arc struct {
	Layer      string
	Center     Point2D
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

func (a Arc) Kind() EntityKind  { return KindArc }
func (a Arc) LayerName() string { return a.Layer }

// HasRadius reports whether the arc carries a usable positive radius.
func (a Arc) HasRadius() bool {
	return isFinite(a.Radius) && a.Radius > 0
}

// Extend uses center ± radius, the full circle, matching how cavity corners are boxed.
func (a Arc) Extend(bb *BoundingBox) {
	if !a.HasRadius() {
		return
	}
	extendCircle(bb, a.Center, a.Radius)
}

// Circle is a full circle.
type Circle struct {
	Layer  string
	Center Point2D
	Radius float64
}

func (c Circle) Kind() EntityKind  { return KindCircle }
func (c Circle) LayerName() string { return c.Layer }

func (c Circle) Extend(bb *BoundingBox) {
	if !isFinite(c.Radius) || c.Radius <= 0 {
		return
	}
	extendCircle(bb, c.Center, c.Radius)
}

// Polyline is a lightweight polyline as an ordered vertex list.
type Polyline struct {
	Layer  string
	Points Outline
	Closed bool
}

func (p Polyline) Kind() EntityKind  { return KindPolyline }
func (p Polyline) LayerName() string { return p.Layer }

func (p Polyline) Extend(bb *BoundingBox) {
	bb.Union(p.Points.BoundingBox())
}

func extendCircle(bb *BoundingBox, c Point2D, r float64) {
	if isFinite(c.X) {
		bb.ExtendX(c.X - r)
		bb.ExtendX(c.X + r)
	}
	if isFinite(c.Y) {
		bb.ExtendY(c.Y - r)
		bb.ExtendY(c.Y + r)
	}
}

// BoundingBox is an axis-aligned extent. An empty box has +Inf minima and -Inf maxima.
type BoundingBox struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

func EmptyBoundingBox() BoundingBox {
	return BoundingBox{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
}

// Extend grows the box to include (x, y). Each axis is handled independently,
// so a point with one missing coordinate still contributes the other.
func (b *BoundingBox) Extend(x, y float64) {
	b.ExtendX(x)
	b.ExtendY(y)
}

func (b *BoundingBox) ExtendX(x float64) {
	if !isFinite(x) {
		return
	}
	b.MinX = math.Min(b.MinX, x)
	b.MaxX = math.Max(b.MaxX, x)
}

func (b *BoundingBox) ExtendY(y float64) {
	if !isFinite(y) {
		return
	}
	b.MinY = math.Min(b.MinY, y)
	b.MaxY = math.Max(b.MaxY, y)
}

// Union grows the box to include o. Empty axes of o contribute nothing.
func (b *BoundingBox) Union(o BoundingBox) {
	b.ExtendX(o.MinX)
	b.ExtendX(o.MaxX)
	b.ExtendY(o.MinY)
	b.ExtendY(o.MaxY)
}

// Valid reports whether both axes received at least one finite coordinate.
func (b BoundingBox) Valid() bool {
	return isFinite(b.MinX) && isFinite(b.MaxX) && isFinite(b.MinY) && isFinite(b.MaxY)
}

func (b BoundingBox) Width() float64  { return b.MaxX - b.MinX }
func (b BoundingBox) Height() float64 { return b.MaxY - b.MinY }

// Extent computes the combined bounding box of the entities.
func Extent(ents []Entity) BoundingBox {
	bb := EmptyBoundingBox()
	for _, e := range ents {
		e.Extend(&bb)
	}
	return bb
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
