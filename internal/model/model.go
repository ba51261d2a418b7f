package model

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Point2D represents a 2D coordinate in drawing units (inches after extraction).
type Point2D struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Outline is an ordered sequence of 2D points.
type Outline []Point2D

// BoundingBox returns the extent of the outline. Non-finite coordinates are ignored.
func (o Outline) BoundingBox() BoundingBox {
	bb := EmptyBoundingBox()
	for _, p := range o {
		bb.Extend(p.X, p.Y)
	}
	return bb
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// PartFootprint is the resolved part size fed to the packing engine.
// Width runs across the web, Length runs along the index.
type PartFootprint struct {
	Width        float64 `json:"width" toml:"width"`
	Length       float64 `json:"length" toml:"length"`
	CornerRadius float64 `json:"corner_radius" toml:"corner_radius"`
	Units        string  `json:"units" toml:"units"`
}

// Validate reports ErrInvalidInput when either dimension is not positive.
func (f PartFootprint) Validate() error {
	if !(f.Width > 0) || !(f.Length > 0) {
		return fmt.Errorf("%w: part footprint %gx%g must be positive", ErrInvalidInput, f.Width, f.Length)
	}
	return nil
}

// Area returns Width*Length.
func (f PartFootprint) Area() float64 {
	return f.Width * f.Length
}

// CavityGrid is the repeating layout measured from a multi-cavity drawing.
type CavityGrid struct {
	Across        int     `json:"across" toml:"across"`
	Down          int     `json:"down" toml:"down"`
	CtcHorizontal float64 `json:"ctc_horizontal" toml:"ctc_horizontal"`
	CtcVertical   float64 `json:"ctc_vertical" toml:"ctc_vertical"`
}

// CavityBox is one inferred cavity footprint in drawing coordinates.
type CavityBox struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// PolicyKind selects how leftover index-direction space is distributed.
type PolicyKind int

const (
	GapLocked           PolicyKind = iota // Margins fixed at min spacing, surplus widens row gaps
	EdgeLocked                            // Row gap fixed at min spacing, surplus widens margins
	FixedCenterToCenter                   // Row pitch fixed by the caller, margins absorb the rest
)

func (k PolicyKind) String() string {
	switch k {
	case EdgeLocked:
		return "edge-locked"
	case FixedCenterToCenter:
		return "center-to-center"
	default:
		return "gap-locked"
	}
}

// MarshalText encodes the kind by name so job files stay readable.
func (k PolicyKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (k *PolicyKind) UnmarshalText(text []byte) error {
	p, err := ParsePolicy(string(text), 0)
	if err != nil {
		return err
	}
	*k = p.Kind
	return nil
}

// SpacingPolicy is the vertical (index) spacing policy. Pitch is only used by
// FixedCenterToCenter and is the row center-to-center distance.
type SpacingPolicy struct {
	Kind  PolicyKind `json:"kind" toml:"kind"`
	Pitch float64    `json:"pitch,omitempty" toml:"pitch,omitempty"`
}

// CenterToCenter returns a FixedCenterToCenter policy with the given pitch.
func CenterToCenter(pitch float64) SpacingPolicy {
	return SpacingPolicy{Kind: FixedCenterToCenter, Pitch: pitch}
}

func (p SpacingPolicy) String() string {
	if p.Kind == FixedCenterToCenter {
		return fmt.Sprintf("%s(%g)", p.Kind, p.Pitch)
	}
	return p.Kind.String()
}

// ParsePolicy parses "gap-locked", "edge-locked" or "ctc" / "center-to-center".
// The pitch argument is attached to center-to-center policies.
func ParsePolicy(name string, pitch float64) (SpacingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gap", "gap-locked", "gaplocked":
		return SpacingPolicy{Kind: GapLocked}, nil
	case "edge", "edge-locked", "edgelocked":
		return SpacingPolicy{Kind: EdgeLocked}, nil
	case "ctc", "c/c", "center-to-center", "centertocenter":
		return CenterToCenter(pitch), nil
	default:
		return SpacingPolicy{}, fmt.Errorf("%w: unknown spacing policy %q", ErrInvalidInput, name)
	}
}

// PackInput is the complete, immutable input of one packing run.
type PackInput struct {
	PartWidth      float64       `json:"part_width"`
	PartLength     float64       `json:"part_length"`
	MinSpacing     float64       `json:"min_spacing"`
	WebWidth       float64       `json:"web_width"`
	MaxIndexLength float64       `json:"max_index_length"`
	QuantityCap    int           `json:"quantity_cap,omitempty"` // 0 = no cap
	Policy         SpacingPolicy `json:"policy"`
	IndexStep      float64       `json:"index_step,omitempty"` // Round the used index up to this step; 0 = use the full max index
}

// Rotated returns a copy with part width and length swapped (90° rotation).
func (in PackInput) Rotated() PackInput {
	in.PartWidth, in.PartLength = in.PartLength, in.PartWidth
	return in
}

// Position is one cavity center relative to the web's left edge and the
// start of the index.
type Position struct {
	Row     int     `json:"row"`
	Col     int     `json:"col"`
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
}

// LayoutResult is the outcome of one packing run. It is never mutated after
// the engine builds it.
type LayoutResult struct {
	PartWidth  float64 `json:"part_width"`
	PartLength float64 `json:"part_length"`
	WebWidth   float64 `json:"web_width"`

	Across          int     `json:"across"`
	Down            int     `json:"down"`
	CavityCount     int     `json:"cavity_count"`
	MaxCavityCount  int     `json:"max_cavity_count"`
	UsedIndexLength float64 `json:"used_index_length"`

	SpacingHorizontal float64 `json:"spacing_horizontal"`
	SpacingVertical   float64 `json:"spacing_vertical"`
	MarginLeft        float64 `json:"margin_left"`
	MarginRight       float64 `json:"margin_right"`
	MarginTop         float64 `json:"margin_top"`
	MarginBottom      float64 `json:"margin_bottom"`

	Positions []Position `json:"positions"`
}

// NoFit reports whether the part does not fit at all.
func (r LayoutResult) NoFit() bool {
	return r.CavityCount == 0
}

// FormingArea returns web width times used index length.
func (r LayoutResult) FormingArea() float64 {
	return r.WebWidth * r.UsedIndexLength
}

// PartsArea returns the total area covered by cavities.
func (r LayoutResult) PartsArea() float64 {
	return float64(r.CavityCount) * r.PartWidth * r.PartLength
}

// ScrapArea returns the forming area not covered by cavities.
func (r LayoutResult) ScrapArea() float64 {
	return math.Max(0, r.FormingArea()-r.PartsArea())
}

// Utilization returns PartsArea / FormingArea as a fraction in [0, 1].
func (r LayoutResult) Utilization() float64 {
	fa := r.FormingArea()
	if fa <= 0 {
		return 0
	}
	return r.PartsArea() / fa
}

// Ctc returns the horizontal and vertical center-to-center distances.
func (r LayoutResult) Ctc() (horizontal, vertical float64) {
	if r.NoFit() {
		return 0, 0
	}
	return r.PartWidth + r.SpacingHorizontal, r.PartLength + r.SpacingVertical
}

// JobSettings holds machine and material configuration for a layout job.
type JobSettings struct {
	WebWidth       float64       `json:"web_width" toml:"web_width"`               // Usable web width (in), chain excluded
	MaxIndexLength float64       `json:"max_index_length" toml:"max_index_length"` // Max index length (in)
	ChainWidth     float64       `json:"chain_width" toml:"chain_width"`           // Chain strip per side (in)
	DrawDepth      float64       `json:"draw_depth" toml:"draw_depth"`             // Z-height (in); sets min spacing
	QuantityCap    int           `json:"quantity_cap" toml:"quantity_cap"`
	Policy         SpacingPolicy `json:"policy" toml:"policy"`
	IndexStep      float64       `json:"index_step" toml:"index_step"`

	Material    string  `json:"material" toml:"material"`
	Gauge       float64 `json:"gauge" toml:"gauge"`               // Sheet thickness (in)
	CostPerLb   float64 `json:"cost_per_lb" toml:"cost_per_lb"`   // 0 = use catalogue price
	Orientation string  `json:"orientation" toml:"orientation"` // "best", "normal" or "rotated"
}

// MinSpacing returns the minimum cavity spacing derived from the draw depth.
func (s JobSettings) MinSpacing() float64 {
	return math.Max(0, s.DrawDepth)
}

// PackInput builds the engine input for the given footprint.
func (s JobSettings) PackInput(f PartFootprint) PackInput {
	return PackInput{
		PartWidth:      f.Width,
		PartLength:     f.Length,
		MinSpacing:     s.MinSpacing(),
		WebWidth:       s.WebWidth,
		MaxIndexLength: s.MaxIndexLength,
		QuantityCap:    s.QuantityCap,
		Policy:         s.Policy,
		IndexStep:      s.IndexStep,
	}
}

// Standard machine constants (inches).
const (
	DefaultMaxIndex   = 36.0
	DefaultChainWidth = 0.75
	DefaultWebWidth   = 24.0
)

func DefaultSettings() JobSettings {
	return JobSettings{
		WebWidth:       DefaultWebWidth,
		MaxIndexLength: DefaultMaxIndex,
		ChainWidth:     DefaultChainWidth,
		DrawDepth:      1.0,
		Policy:         SpacingPolicy{Kind: GapLocked},
		Material:       Materials[0].Name,
		Gauge:          0.033,
		Orientation:    "best",
	}
}

// Job ties a part footprint to its settings for save/load.
type Job struct {
	ID        string        `json:"id" toml:"id"`
	Name      string        `json:"name" toml:"name"`
	CreatedAt string        `json:"created_at" toml:"created_at"`
	Source    string        `json:"source,omitempty" toml:"source,omitempty"` // Drawing file the part came from
	Part      PartFootprint `json:"part" toml:"part"`
	Grid      *CavityGrid   `json:"grid,omitempty" toml:"grid,omitempty"`
	Settings  JobSettings   `json:"settings" toml:"settings"`
}

func NewJob(name string, part PartFootprint) Job {
	return Job{
		ID:        uuid.New().String()[:8],
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Part:      part,
		Settings:  DefaultSettings(),
	}
}

// Part is one line of a batch part list.
type Part struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Width     float64 `json:"width"`      // in, across the web
	Length    float64 `json:"length"`     // in, along the index
	DrawDepth float64 `json:"draw_depth"` // in; 0 = use the job default
	Quantity  int     `json:"quantity"`   // Cavity cap; 0 = as many as fit
}

func NewPart(label string, w, l float64) Part {
	return Part{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Width:  w,
		Length: l,
	}
}

// Footprint returns the part as a footprint in inches.
func (p Part) Footprint() PartFootprint {
	return PartFootprint{Width: p.Width, Length: p.Length, Units: "in"}
}
