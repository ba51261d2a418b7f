package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/thermolayout/internal/model"
)

func TestDefaultInventoryPath(t *testing.T) {
	path := DefaultInventoryPath()
	if filepath.Base(path) != "inventory.json" {
		t.Errorf("expected filename inventory.json, got %s", filepath.Base(path))
	}
	if dir := filepath.Base(filepath.Dir(path)); dir != ".thermolayout" {
		t.Errorf("expected parent dir .thermolayout, got %s", dir)
	}
}

func TestSaveAndLoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_inventory.json")

	inv := model.Inventory{
		Machines: []model.MachineProfile{model.NewMachineProfile("Test Former", 26, 32, 1)},
		Sheets:   []model.SheetStock{model.NewSheetStock("Test PETG", "PETG", 0.03, 1.2)},
	}

	if err := SaveInventory(path, inv); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}

	loaded, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(loaded.Machines) != 1 || loaded.Machines[0].Name != "Test Former" {
		t.Errorf("unexpected machines %+v", loaded.Machines)
	}
	if len(loaded.Sheets) != 1 || loaded.Sheets[0].CostPerLb != 1.2 {
		t.Errorf("unexpected sheets %+v", loaded.Sheets)
	}
}

func TestLoadInventoryCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "inventory.json")

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(inv.Machines) != len(model.DefaultInventory().Machines) {
		t.Errorf("expected default machines, got %d", len(inv.Machines))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default inventory should be saved: %v", err)
	}
}

func TestLoadInventoryInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := os.WriteFile(path, []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadInventory(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportInventory(t *testing.T) {
	dir := t.TempDir()
	existing := model.DefaultInventory()

	extra := model.Inventory{
		Machines: []model.MachineProfile{existing.Machines[0], model.NewMachineProfile("Rotary", 20, 20, 0.5)},
		Sheets:   []model.SheetStock{model.NewSheetStock("PP 0.040", "PP", 0.04, 0)},
	}
	path := filepath.Join(dir, "extra.json")
	if err := SaveInventory(path, extra); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}

	merged, err := ImportInventory(path, existing)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}
	if len(merged.Machines) != len(existing.Machines)+1 {
		t.Errorf("expected one new machine, got %d machines", len(merged.Machines))
	}
	if len(merged.Sheets) != len(existing.Sheets)+1 {
		t.Errorf("expected one new sheet, got %d sheets", len(merged.Sheets))
	}
	if merged.FindMachineByName("Rotary") == nil {
		t.Error("imported machine missing")
	}
}

func TestImportInventoryMissingFile(t *testing.T) {
	existing := model.DefaultInventory()
	got, err := ImportInventory(filepath.Join(t.TempDir(), "nope.json"), existing)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if len(got.Machines) != len(existing.Machines) {
		t.Error("existing inventory should be returned unchanged")
	}
}
