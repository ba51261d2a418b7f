package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/thermolayout/internal/engine"
	"github.com/piwi3910/thermolayout/internal/export"
	"github.com/piwi3910/thermolayout/internal/model"
	"github.com/piwi3910/thermolayout/internal/project"
)

const recentJobLimit = 10

type layoutOptions struct {
	part     partFlags
	settings settingsFlags
	name     string

	json    bool
	svg     string
	pdf     string
	dxf     string
	tags    string
	csv     string
	saveJob string
}

// layoutReport is the --json output of the layout command.
type layoutReport struct {
	Name        string              `json:"name"`
	Part        model.PartFootprint `json:"part"`
	Settings    model.JobSettings   `json:"settings"`
	Orientation engine.Choice       `json:"orientation"`
	Layout      model.LayoutResult  `json:"layout"`
	Economics   model.Economics     `json:"economics"`
	Violations  []string            `json:"violations,omitempty"`
}

func newLayoutCmd(a *app) *cobra.Command {
	opts := &layoutOptions{}

	cmd := &cobra.Command{
		Use:   "layout [drawing.dxf | job.json | job.toml]",
		Short: "Lay out cavities for one part on the forming area",
		Long: `Lay out as many cavities of the part as fit on the machine's web and index,
choosing the better orientation, then price the sheet per index.

The part comes from a DXF drawing, a saved job or --width/--length.`,
		Example: `  thermolayout layout --width 3 --length 4 --radius 0.25
  thermolayout layout tray.dxf --machine "Inline 30x40" --stock "rPET 0.020" --pdf tray.pdf
  thermolayout layout tray.toml --pitch 5.5 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, a, opts, args)
		},
	}

	opts.part.register(cmd.Flags())
	opts.settings.register(cmd.Flags())
	cmd.Flags().StringVar(&opts.name, "name", "", "job name used in titles and tags")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the layout as JSON")
	cmd.Flags().StringVar(&opts.svg, "svg", "", "write an SVG preview")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "write a PDF layout sheet")
	cmd.Flags().StringVar(&opts.dxf, "dxf", "", "write a DXF tooling drawing")
	cmd.Flags().StringVar(&opts.tags, "tags", "", "write a PDF of QR cavity tags")
	cmd.Flags().StringVar(&opts.csv, "csv", "", "write cavity positions as CSV")
	cmd.Flags().StringVar(&opts.saveJob, "save-job", "", "save the part and settings as a job (.json or .toml)")
	return cmd
}

func runLayout(cmd *cobra.Command, a *app, opts *layoutOptions, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	src, err := resolvePart(ctx, args, &opts.part)
	if err != nil {
		return err
	}
	if opts.name != "" {
		src.Name = opts.name
	}

	settings := a.baseSettings()
	if src.Settings != nil {
		settings = *src.Settings
	}
	if err := opts.settings.apply(cmd, a, &settings); err != nil {
		return err
	}
	logger.Debug("settings resolved", "web", settings.WebWidth, "index", settings.MaxIndexLength, "policy", settings.Policy.String(), "material", settings.Material)

	layout, choice, econ, err := engine.Evaluate(src.Part, settings)
	if err != nil {
		return fmt.Errorf("failed to lay out %s: %w", src.Name, err)
	}

	violations := engine.FormatViolations(engine.CheckLayout(layout, settings.MaxIndexLength))
	for _, v := range violations {
		logger.Warn("layout check", "problem", v)
	}

	sheet := export.LayoutSheet{
		Title:       src.Name,
		Part:        src.Part,
		Settings:    settings,
		Layout:      layout,
		Orientation: string(choice),
		Economics:   econ,
	}

	out := cmd.OutOrStdout()
	if opts.json {
		report := layoutReport{
			Name:        src.Name,
			Part:        src.Part,
			Settings:    settings,
			Orientation: choice,
			Layout:      layout,
			Economics:   econ,
			Violations:  violations,
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode layout: %w", err)
		}
	} else {
		printLayout(out, sheet)
	}

	if err := writeLayoutOutputs(cmd, opts, sheet); err != nil {
		return err
	}

	if opts.saveJob != "" {
		job := model.NewJob(src.Name, src.Part)
		job.Source = src.Source
		job.Grid = src.Grid
		job.Settings = settings
		if err := project.SaveJob(opts.saveJob, job); err != nil {
			return err
		}
		a.config.AddRecentJob(opts.saveJob, recentJobLimit)
		if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
			logger.Warn("could not record recent job", "err", err)
		}
		if !opts.json {
			printFile(out, "job", opts.saveJob)
		}
	}
	return nil
}

// writeLayoutOutputs writes every requested file. Files are announced on
// stdout unless --json owns it.
func writeLayoutOutputs(cmd *cobra.Command, opts *layoutOptions, sheet export.LayoutSheet) error {
	out := cmd.OutOrStdout()
	if opts.json {
		out = io.Discard
	}

	outputs := []struct {
		kind  string
		path  string
		write func(string) error
	}{
		{"svg", opts.svg, func(p string) error { return export.ExportSVG(p, sheet) }},
		{"pdf", opts.pdf, func(p string) error { return export.ExportPDF(p, []export.LayoutSheet{sheet}) }},
		{"dxf", opts.dxf, func(p string) error { return export.ExportDXF(p, sheet) }},
		{"tags", opts.tags, func(p string) error { return export.ExportCavityTags(p, sheet) }},
		{"csv", opts.csv, func(p string) error { return export.ExportCSV(p, export.PositionRows(sheet)) }},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := o.write(o.path); err != nil {
			return fmt.Errorf("failed to write %s: %w", o.kind, err)
		}
		printFile(out, o.kind, o.path)
	}
	return nil
}

func printLayout(w io.Writer, sheet export.LayoutSheet) {
	lay, econ, s := sheet.Layout, sheet.Economics, sheet.Settings

	printTitle(w, sheet.Title)
	printKeyValue(w, "Part", fmt.Sprintf("%.3f x %.3f in, r %.3f", sheet.Part.Width, sheet.Part.Length, sheet.Part.CornerRadius))
	printKeyValue(w, "Machine", fmt.Sprintf("%.2f in web x %.2f in index, %.2f in chain", s.WebWidth, s.MaxIndexLength, s.ChainWidth))
	printKeyValue(w, "Spacing", fmt.Sprintf("%s, min %.3f in", s.Policy, s.MinSpacing()))

	if lay.NoFit() {
		printWarning(w, "part does not fit on the forming area")
		return
	}

	printKeyValue(w, "Orientation", sheet.Orientation)
	printKeyValue(w, "Cavities", fmt.Sprintf("%s (%d across x %d down)", number("%d", lay.CavityCount), lay.Across, lay.Down))
	if lay.CavityCount < lay.MaxCavityCount {
		printKeyValue(w, "Capped from", lay.MaxCavityCount)
	}
	h, v := lay.Ctc()
	printKeyValue(w, "Center to center", fmt.Sprintf("%.3f across, %.3f down", h, v))
	printKeyValue(w, "Used index", fmt.Sprintf("%.3f in", lay.UsedIndexLength))
	printKeyValue(w, "Spacing", fmt.Sprintf("%.3f across, %.3f down", lay.SpacingHorizontal, lay.SpacingVertical))
	printKeyValue(w, "Utilization", number("%.1f%%", econ.Utilization))
	printKeyValue(w, "Sheet weight", fmt.Sprintf("%.3f lb per index", econ.SheetWeight))
	printKeyValue(w, "Scrap weight", fmt.Sprintf("%.3f lb per index", econ.ScrapWeight))
	printKeyValue(w, "Sheet cost", fmt.Sprintf("$%.4f per index", econ.SheetCost))
	printKeyValue(w, "Cost per part", number("$%.4f", econ.CostPerPart))
	if strings.TrimSpace(s.Material) != "" {
		printKeyValue(w, "Material", fmt.Sprintf("%s %.3f in at $%.3f/lb", s.Material, s.Gauge, econ.CostPerLb))
	}
}
