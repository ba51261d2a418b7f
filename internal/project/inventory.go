package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/thermolayout/internal/model"
)

// DefaultInventoryPath returns the default file path for the inventory file.
// This is located at ~/.thermolayout/inventory.json.
func DefaultInventoryPath() string {
	return filepath.Join(DefaultConfigDir(), "inventory.json")
}

// SaveInventory writes the inventory to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveInventory(path string, inv model.Inventory) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create inventory directory: %w", err)
	}
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadInventory reads the inventory from the specified JSON file.
// If the file does not exist, it returns the default inventory and saves it.
func LoadInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			inv := model.DefaultInventory()
			if saveErr := SaveInventory(path, inv); saveErr != nil {
				return inv, saveErr
			}
			return inv, nil
		}
		return model.Inventory{}, err
	}
	var inv model.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, fmt.Errorf("failed to parse inventory %s: %w", path, err)
	}
	return inv, nil
}

// ImportInventory imports an inventory from a user-specified JSON file,
// merging it with the existing inventory. Duplicate IDs are skipped.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Inventory
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, fmt.Errorf("failed to parse inventory %s: %w", path, err)
	}
	return MergeInventory(existing, imported), nil
}

// MergeInventory appends the machines and sheets of imported whose IDs are
// not already present in existing.
func MergeInventory(existing, imported model.Inventory) model.Inventory {
	machineIDs := make(map[string]bool, len(existing.Machines))
	for _, m := range existing.Machines {
		machineIDs[m.ID] = true
	}
	sheetIDs := make(map[string]bool, len(existing.Sheets))
	for _, s := range existing.Sheets {
		sheetIDs[s.ID] = true
	}

	for _, m := range imported.Machines {
		if !machineIDs[m.ID] {
			existing.Machines = append(existing.Machines, m)
			machineIDs[m.ID] = true
		}
	}
	for _, s := range imported.Sheets {
		if !sheetIDs[s.ID] {
			existing.Sheets = append(existing.Sheets, s)
			sheetIDs[s.ID] = true
		}
	}
	return existing
}
