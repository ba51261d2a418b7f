package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/piwi3910/thermolayout/internal/engine"
	"github.com/piwi3910/thermolayout/internal/export"
)

type compareOptions struct {
	part        partFlags
	settings    settingsFlags
	allMachines bool

	webs    []float64
	indexes []float64
	workers int

	csv  string
	xlsx string
}

func newCompareCmd(a *app) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare [drawing.dxf | job.json | job.toml]",
		Short: "Compare what-if scenarios and sweep machine sizes",
		Long: `Run the part through alternative spacing policies, forced orientations, the
next standard mold width and rounded index lengths, side by side.

With --webs and/or --indexes, also evaluate every web width and index length
combination in parallel and report the best one.`,
		Example: `  thermolayout compare --width 3 --length 4 --all-machines
  thermolayout compare tray.dxf --webs 24,30,36 --indexes 30,36,40 --xlsx tray.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, a, opts, args)
		},
	}

	opts.part.register(cmd.Flags())
	opts.settings.register(cmd.Flags())
	cmd.Flags().BoolVar(&opts.allMachines, "all-machines", false, "add a scenario for every machine in the inventory")
	cmd.Flags().Float64SliceVar(&opts.webs, "webs", nil, "web widths to sweep (in)")
	cmd.Flags().Float64SliceVar(&opts.indexes, "indexes", nil, "maximum index lengths to sweep (in)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel sweep workers (0 = one per CPU)")
	cmd.Flags().StringVar(&opts.csv, "csv", "", "write the scenario table as CSV")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "write scenarios and sweep as an XLSX workbook")
	return cmd
}

func runCompare(cmd *cobra.Command, a *app, opts *compareOptions, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	src, err := resolvePart(ctx, args, &opts.part)
	if err != nil {
		return err
	}
	base := a.baseSettings()
	if src.Settings != nil {
		base = *src.Settings
	}
	if err := opts.settings.apply(cmd, a, &base); err != nil {
		return err
	}

	scenarios := engine.BuildDefaultScenarios(base)
	if opts.allMachines {
		inv, err := a.loadInventory()
		if err != nil {
			return fmt.Errorf("failed to load inventory: %w", err)
		}
		for _, m := range inv.Machines {
			s := base
			m.ApplyToSettings(&s)
			scenarios = append(scenarios, engine.ComparisonScenario{Name: m.Name, Settings: s})
		}
	}

	results := engine.CompareScenarios(scenarios, src.Part)
	for _, r := range results {
		if r.Err != nil {
			logger.Warn("scenario failed", "scenario", r.Scenario.Name, "err", r.Err)
		}
	}
	printTitle(out, fmt.Sprintf("%s: %.3f x %.3f in", src.Name, src.Part.Width, src.Part.Length))
	fmt.Fprintln(out, comparisonTable(results))

	var points []engine.SweepPoint
	if len(opts.webs) > 0 || len(opts.indexes) > 0 {
		webs, indexes := opts.webs, opts.indexes
		if len(webs) == 0 {
			webs = []float64{base.WebWidth}
		}
		if len(indexes) == 0 {
			indexes = []float64{base.MaxIndexLength}
		}

		prog := newProgress(logger)
		points, err = engine.Sweep(ctx, src.Part, base, webs, indexes, opts.workers)
		if err != nil {
			return fmt.Errorf("sweep failed: %w", err)
		}
		prog.done(fmt.Sprintf("swept %d machine sizes", len(points)))

		if best, ok := engine.BestPoint(points); ok && !best.Layout.NoFit() {
			printSuccess(out, "best size %.2f x %.2f in: %s cavities, %.1f%% utilization, $%.4f per part",
				best.WebWidth, best.MaxIndexLength, number("%d", best.Layout.CavityCount),
				best.Economics.Utilization, best.Economics.CostPerPart)
		} else {
			printWarning(out, "part fits none of the swept sizes")
		}
	}

	if opts.csv != "" {
		if err := export.ExportCSV(opts.csv, export.ComparisonRows(results)); err != nil {
			return err
		}
		printFile(out, "csv", opts.csv)
	}
	if opts.xlsx != "" {
		sheets := []export.ReportSheet{{Name: "Scenarios", Rows: export.ComparisonRows(results)}}
		if len(points) > 0 {
			sheets = append(sheets, export.ReportSheet{Name: "Sweep", Rows: export.SweepRows(points)})
		}
		if err := export.ExportXLSX(opts.xlsx, sheets); err != nil {
			return err
		}
		printFile(out, "xlsx", opts.xlsx)
	}
	return nil
}

// comparisonTable renders the scenario results; the scenario with the most
// cavities is highlighted.
func comparisonTable(results []engine.ComparisonResult) *table.Table {
	best := -1
	for i, r := range results {
		if r.Err != nil || r.Layout.NoFit() {
			continue
		}
		if best < 0 || r.Layout.CavityCount > results[best].Layout.CavityCount {
			best = i
		}
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		s := r.Scenario.Settings
		row := []string{
			r.Scenario.Name,
			fmt.Sprintf("%.1f x %.1f", s.WebWidth, s.MaxIndexLength),
			s.Policy.String(),
		}
		if r.Err != nil {
			row = append(row, "-", "-", "-", "-", "-")
			rows = append(rows, row)
			continue
		}
		row = append(row,
			string(r.Orientation),
			fmt.Sprintf("%dx%d", r.Layout.Across, r.Layout.Down),
			strconv.Itoa(r.Layout.CavityCount),
			fmt.Sprintf("%.1f%%", r.Economics.Utilization),
			fmt.Sprintf("$%.4f", r.Economics.CostPerPart),
		)
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Scenario", "Machine (in)", "Policy", "Orientation", "Grid", "Cavities", "Utilization", "Cost/part").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if row >= 0 && row < len(results) && results[row].Err != nil {
				return cell.Foreground(colorRed)
			}
			if row == best {
				return cell.Foreground(colorGreen)
			}
			return cell
		})
}
