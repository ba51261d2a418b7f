package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/thermolayout/internal/importer"
	"github.com/piwi3910/thermolayout/internal/model"
	"github.com/piwi3910/thermolayout/internal/project"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		asJSON  bool
		saveJob string
	)

	cmd := &cobra.Command{
		Use:   "extract drawing.dxf",
		Short: "Extract the part footprint from a DXF drawing",
		Long: `Read a DXF drawing, pick its cut layers and size the part either from a
repeating cavity pattern or from the overall extent. Millimeter drawings are
converted to inches.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ext, err := importer.ExtractFile(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(ext); err != nil {
					return fmt.Errorf("failed to encode extraction: %w", err)
				}
			} else {
				printTitle(out, path)
				fp := ext.Footprint
				printKeyValue(out, "Footprint", fmt.Sprintf("%s x %s in", number("%.3f", fp.Width), number("%.3f", fp.Length)))
				printKeyValue(out, "Corner radius", fmt.Sprintf("%.3f in", fp.CornerRadius))
				printKeyValue(out, "Drawing units", ext.SourceUnits)
				printKeyValue(out, "Layer strategy", ext.Strategy)
				printKeyValue(out, "Entities", ext.EntityCount)
				printKeyValue(out, "Arcs", ext.ArcCount)
				if g := ext.Grid; g != nil {
					printKeyValue(out, "Cavity grid", fmt.Sprintf("%d across x %d down", g.Across, g.Down))
					printKeyValue(out, "Center to center", fmt.Sprintf("%.3f across, %.3f down", g.CtcHorizontal, g.CtcVertical))
				} else {
					printInfo(out, "no cavity pattern found; footprint is the drawing extent")
				}
			}

			if saveJob != "" {
				job := model.NewJob(baseName(path), ext.Footprint)
				job.Source = path
				job.Grid = ext.Grid
				job.Settings = a.baseSettings()
				if err := project.SaveJob(saveJob, job); err != nil {
					return err
				}
				a.config.AddRecentJob(saveJob, recentJobLimit)
				if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
					loggerFromContext(cmd.Context()).Warn("could not record recent job", "err", err)
				}
				if !asJSON {
					printFile(out, "job", saveJob)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the extraction as JSON")
	cmd.Flags().StringVar(&saveJob, "save-job", "", "save the footprint as a job (.json or .toml)")
	return cmd
}
