package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/piwi3910/thermolayout/internal/importer"
	"github.com/piwi3910/thermolayout/internal/model"
	"github.com/piwi3910/thermolayout/internal/project"
)

// partSource is a part resolved from a drawing, a job file or flags.
type partSource struct {
	Name     string
	Source   string
	Part     model.PartFootprint
	Grid     *model.CavityGrid
	Settings *model.JobSettings // set when loaded from a job file
}

func isDrawing(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".dxf")
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// resolvePart reads the part from the optional file argument: a DXF drawing
// is extracted, anything else is loaded as a job. Without a file the part
// comes from --width/--length.
func resolvePart(ctx context.Context, args []string, pf *partFlags) (partSource, error) {
	logger := loggerFromContext(ctx)

	if len(args) == 0 {
		fp, err := pf.footprint()
		if err != nil {
			return partSource{}, err
		}
		return partSource{Name: "part", Part: fp}, nil
	}

	path := args[0]
	if isDrawing(path) {
		ext, err := importer.ExtractFile(path)
		if err != nil {
			return partSource{}, err
		}
		logger.Debug("drawing extracted", "strategy", ext.Strategy, "entities", ext.EntityCount, "arcs", ext.ArcCount, "units", ext.SourceUnits)
		if ext.Grid != nil {
			logger.Infof("detected %dx%d cavity grid in %s", ext.Grid.Across, ext.Grid.Down, filepath.Base(path))
		}
		return partSource{Name: baseName(path), Source: path, Part: ext.Footprint, Grid: ext.Grid}, nil
	}

	job, err := project.LoadJob(path)
	if err != nil {
		return partSource{}, err
	}
	logger.Debug("job loaded", "path", path, "id", job.ID)
	name := job.Name
	if name == "" {
		name = baseName(path)
	}
	settings := job.Settings
	return partSource{Name: name, Source: job.Source, Part: job.Part, Grid: job.Grid, Settings: &settings}, nil
}
