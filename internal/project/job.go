package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/piwi3910/thermolayout/internal/model"
)

// jobFormat picks the encoding from the file extension: .toml is TOML,
// anything else is JSON.
func jobFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "json"
}

// SaveJob writes a job to path as JSON or TOML depending on the extension.
func SaveJob(path string, job model.Job) error {
	var data []byte
	switch jobFormat(path) {
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(job); err != nil {
			return fmt.Errorf("failed to encode job: %w", err)
		}
		data = buf.Bytes()
	default:
		var err error
		data, err = json.MarshalIndent(job, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode job: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create job directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write job: %w", err)
	}
	return nil
}

// LoadJob reads a job saved by SaveJob. Settings missing from the file keep
// their defaults, and the part footprint must be valid.
func LoadJob(path string) (model.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Job{}, fmt.Errorf("failed to read job: %w", err)
	}

	job := model.Job{Settings: model.DefaultSettings()}
	switch jobFormat(path) {
	case "toml":
		err = toml.Unmarshal(data, &job)
	default:
		err = json.Unmarshal(data, &job)
	}
	if err != nil {
		return model.Job{}, fmt.Errorf("failed to parse job %s: %w", path, err)
	}

	if err := job.Part.Validate(); err != nil {
		return model.Job{}, fmt.Errorf("job %s: %w", path, err)
	}
	if job.Part.Units == "" {
		job.Part.Units = "in"
	}
	return job, nil
}
