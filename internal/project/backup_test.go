package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/thermolayout/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultDrawDepth = 1.5
	cfg.DefaultMaterial = "PETG"
	inv := model.DefaultInventory()

	if err := ExportAllData(path, cfg, inv); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.DefaultDrawDepth != 1.5 {
		t.Errorf("expected DefaultDrawDepth=1.5, got %f", backup.Config.DefaultDrawDepth)
	}
	if backup.Config.DefaultMaterial != "PETG" {
		t.Errorf("expected PETG, got %s", backup.Config.DefaultMaterial)
	}
	if len(backup.Inventory.Machines) != len(inv.Machines) {
		t.Errorf("expected %d machines, got %d", len(inv.Machines), len(backup.Inventory.Machines))
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noversion.json")
	data := []byte(`{"config":{"default_material":"PP"}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestExportAllDataCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deep", "nested", "backup.json")

	if err := ExportAllData(path, model.DefaultAppConfig(), model.Inventory{}); err != nil {
		t.Fatalf("ExportAllData should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("backup file was not created")
	}
}

func TestImportAllDataNilRecentJobs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")
	data := []byte(`{"version":"1.0.0","created_at":"2025-01-01T00:00:00Z","config":{"recent_jobs":null}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Config.RecentJobs == nil {
		t.Error("RecentJobs should not be nil after import")
	}
}
