package model

import (
	"testing"
)

func TestNewMachineProfile(t *testing.T) {
	m := NewMachineProfile("Inline 24x36", 24, 36, 0.75)
	if m.ID == "" {
		t.Error("expected non-empty ID")
	}
	if m.WebWidth != 24 || m.MaxIndexLength != 36 || m.ChainWidth != 0.75 {
		t.Errorf("unexpected envelope %+v", m)
	}
}

func TestMachineProfile_ApplyToSettings(t *testing.T) {
	m := NewMachineProfile("Wide", 30, 40, 1)
	m.IndexStep = 0.5

	s := DefaultSettings()
	s.Material = "PETG"
	m.ApplyToSettings(&s)

	if s.WebWidth != 30 || s.MaxIndexLength != 40 || s.ChainWidth != 1 || s.IndexStep != 0.5 {
		t.Errorf("machine not applied: %+v", s)
	}
	if s.Material != "PETG" {
		t.Errorf("material should be untouched, got %s", s.Material)
	}
}

func TestSheetStock_ApplyToSettings(t *testing.T) {
	st := NewSheetStock("HIPS 0.040", "HIPS", 0.040, 0.92)

	s := DefaultSettings()
	st.ApplyToSettings(&s)

	if s.Material != "HIPS" || s.Gauge != 0.040 || s.CostPerLb != 0.92 {
		t.Errorf("stock not applied: %+v", s)
	}
	if s.WebWidth != DefaultWebWidth {
		t.Errorf("web width should be untouched, got %.2f", s.WebWidth)
	}
}

func TestDefaultInventory_MaterialsExist(t *testing.T) {
	inv := DefaultInventory()
	if len(inv.Machines) == 0 || len(inv.Sheets) == 0 {
		t.Fatal("expected default machines and sheets")
	}
	for _, s := range inv.Sheets {
		if _, err := FindMaterial(s.Material); err != nil {
			t.Errorf("sheet %q uses unknown material: %v", s.Name, err)
		}
	}
}

func TestInventory_Lookups(t *testing.T) {
	inv := DefaultInventory()

	m := inv.FindMachineByName("Inline 30x40")
	if m == nil {
		t.Fatal("expected to find machine by name")
	}
	if got := inv.FindMachineByID(m.ID); got == nil || got.Name != m.Name {
		t.Errorf("FindMachineByID(%s) = %v", m.ID, got)
	}
	if inv.FindMachineByName("nope") != nil {
		t.Error("expected nil for unknown machine")
	}

	s := inv.FindSheetByName("PETG 0.030")
	if s == nil {
		t.Fatal("expected to find sheet by name")
	}
	if got := inv.FindSheetByID(s.ID); got == nil || got.Material != "PETG" {
		t.Errorf("FindSheetByID(%s) = %v", s.ID, got)
	}
	if inv.FindSheetByID("missing") != nil {
		t.Error("expected nil for unknown sheet ID")
	}

	if names := inv.MachineNames(); len(names) != len(inv.Machines) || names[0] != "Inline 24x36" {
		t.Errorf("unexpected machine names %v", names)
	}
	if names := inv.SheetNames(); len(names) != len(inv.Sheets) {
		t.Errorf("unexpected sheet names %v", names)
	}
}

func TestInventory_PointerEditsInPlace(t *testing.T) {
	inv := DefaultInventory()
	inv.FindMachineByName("Inline 24x36").IndexStep = 1
	if inv.Machines[0].IndexStep != 1 {
		t.Error("expected edit through pointer to update the inventory")
	}
}
