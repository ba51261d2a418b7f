package model

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestPartFootprint_Validate(t *testing.T) {
	tests := []struct {
		name string
		fp   PartFootprint
		ok   bool
	}{
		{"positive", PartFootprint{Width: 3, Length: 4}, true},
		{"zero width", PartFootprint{Width: 0, Length: 4}, false},
		{"negative length", PartFootprint{Width: 3, Length: -1}, false},
		{"NaN", PartFootprint{Width: math.NaN(), Length: 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fp.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want PolicyKind
	}{
		{"", GapLocked},
		{"gap-locked", GapLocked},
		{" Edge ", EdgeLocked},
		{"edge-locked", EdgeLocked},
		{"ctc", FixedCenterToCenter},
		{"Center-To-Center", FixedCenterToCenter},
	}
	for _, tt := range tests {
		p, err := ParsePolicy(tt.in, 5)
		if err != nil {
			t.Errorf("ParsePolicy(%q) error: %v", tt.in, err)
			continue
		}
		if p.Kind != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", tt.in, p.Kind, tt.want)
		}
		if p.Kind == FixedCenterToCenter && p.Pitch != 5 {
			t.Errorf("ParsePolicy(%q) pitch = %v, want 5", tt.in, p.Pitch)
		}
	}

	if _, err := ParsePolicy("diagonal", 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown policy, got %v", err)
	}
}

func TestSpacingPolicy_String(t *testing.T) {
	if got := CenterToCenter(5.5).String(); got != "center-to-center(5.5)" {
		t.Errorf("got %q", got)
	}
	if got := (SpacingPolicy{Kind: EdgeLocked}).String(); got != "edge-locked" {
		t.Errorf("got %q", got)
	}
}

func TestPolicyKind_TextEncoding(t *testing.T) {
	s := DefaultSettings()
	s.Policy = CenterToCenter(6)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var back JobSettings
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back.Policy != s.Policy {
		t.Errorf("policy = %+v, want %+v", back.Policy, s.Policy)
	}

	var fromTOML struct {
		Policy SpacingPolicy `toml:"policy"`
	}
	if _, err := toml.Decode("[policy]\nkind = \"edge-locked\"\n", &fromTOML); err != nil {
		t.Fatalf("toml decode failed: %v", err)
	}
	if fromTOML.Policy.Kind != EdgeLocked {
		t.Errorf("toml policy kind = %v, want edge-locked", fromTOML.Policy.Kind)
	}
}

func TestPackInput_Rotated(t *testing.T) {
	in := DefaultSettings().PackInput(PartFootprint{Width: 3, Length: 4})
	r := in.Rotated()
	if r.PartWidth != 4 || r.PartLength != 3 {
		t.Errorf("rotated = %vx%v, want 4x3", r.PartWidth, r.PartLength)
	}
	if in.PartWidth != 3 {
		t.Error("Rotated must not modify the receiver")
	}
}

func TestJobSettings_PackInput(t *testing.T) {
	s := DefaultSettings()
	s.DrawDepth = 0.75
	s.QuantityCap = 12
	s.IndexStep = 0.5

	in := s.PackInput(PartFootprint{Width: 3, Length: 4})
	if in.MinSpacing != 0.75 || in.QuantityCap != 12 || in.IndexStep != 0.5 {
		t.Errorf("unexpected pack input %+v", in)
	}
	if in.WebWidth != DefaultWebWidth || in.MaxIndexLength != DefaultMaxIndex {
		t.Errorf("unexpected envelope %+v", in)
	}

	s.DrawDepth = -1
	if got := s.MinSpacing(); got != 0 {
		t.Errorf("negative draw depth should clamp to 0, got %v", got)
	}
}

func TestLayoutResult_Areas(t *testing.T) {
	r := LayoutResult{
		PartWidth: 3, PartLength: 4, WebWidth: 24,
		CavityCount: 35, UsedIndexLength: 36,
	}
	if got := r.FormingArea(); got != 864 {
		t.Errorf("FormingArea = %v, want 864", got)
	}
	if got := r.PartsArea(); got != 420 {
		t.Errorf("PartsArea = %v, want 420", got)
	}
	if got := r.ScrapArea(); got != 444 {
		t.Errorf("ScrapArea = %v, want 444", got)
	}
	if got := r.Utilization(); math.Abs(got-420.0/864.0) > 1e-12 {
		t.Errorf("Utilization = %v", got)
	}

	empty := LayoutResult{}
	if empty.Utilization() != 0 || !empty.NoFit() {
		t.Error("empty layout should be a no-fit with zero utilization")
	}
	if h, v := empty.Ctc(); h != 0 || v != 0 {
		t.Errorf("no-fit Ctc = %v, %v", h, v)
	}
}

func TestNewJob(t *testing.T) {
	j := NewJob("Clamshell", PartFootprint{Width: 3, Length: 4})
	if len(j.ID) != 8 {
		t.Errorf("expected 8-character ID, got %q", j.ID)
	}
	if j.CreatedAt == "" {
		t.Error("expected CreatedAt to be set")
	}
	if j.Settings != DefaultSettings() {
		t.Error("expected default settings")
	}
}

func TestPart_Footprint(t *testing.T) {
	p := NewPart("Lid", 5.5, 7.25)
	fp := p.Footprint()
	if fp.Width != 5.5 || fp.Length != 7.25 || fp.Units != "in" {
		t.Errorf("unexpected footprint %+v", fp)
	}
}

func TestOutline_BoundingBoxAndTranslate(t *testing.T) {
	o := Outline{{X: 1, Y: 2}, {X: 4, Y: -1}, {X: math.NaN(), Y: 6}}
	bb := o.BoundingBox()
	if bb.MinX != 1 || bb.MaxX != 4 || bb.MinY != -1 || bb.MaxY != 6 {
		t.Errorf("unexpected box %+v", bb)
	}

	moved := o.Translate(1, 1)
	if moved[0] != (Point2D{X: 2, Y: 3}) {
		t.Errorf("unexpected translated point %+v", moved[0])
	}
}

func TestFindMaterial(t *testing.T) {
	m, err := FindMaterial(" petg ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "PETG" {
		t.Errorf("got %s", m.Name)
	}
	if _, err := FindMaterial("unobtainium"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
