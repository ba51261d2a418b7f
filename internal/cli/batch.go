package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/thermolayout/internal/engine"
	"github.com/piwi3910/thermolayout/internal/export"
	"github.com/piwi3910/thermolayout/internal/importer"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		settings settingsFlags
		pdfPath  string
		xlsxPath string
		csvPath  string
	)

	cmd := &cobra.Command{
		Use:   "batch parts.csv|parts.xlsx",
		Short: "Lay out every part of a CSV or Excel part list",
		Long: `Import a part list (label, width, length and optional draw depth and
quantity columns), lay out each part on the same machine and report them side
by side. A part's draw depth and quantity override the job settings.`,
		Example: `  thermolayout batch parts.csv --machine "Inline 30x40" --pdf layouts.pdf`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			out := cmd.OutOrStdout()

			base := a.baseSettings()
			if err := settings.apply(cmd, a, &base); err != nil {
				return err
			}

			imported := importer.ImportPartList(args[0])
			for _, w := range imported.Warnings {
				logger.Debug(w)
			}
			for _, e := range imported.Errors {
				logger.Warn(e)
			}
			if len(imported.Parts) == 0 {
				return fmt.Errorf("no parts imported from %s", args[0])
			}

			prog := newProgress(logger)
			results := make([]engine.ComparisonResult, 0, len(imported.Parts))
			var sheets []export.LayoutSheet
			for _, p := range imported.Parts {
				s := base
				if p.DrawDepth > 0 {
					s.DrawDepth = p.DrawDepth
				}
				if p.Quantity > 0 {
					s.QuantityCap = p.Quantity
				}

				res := engine.ComparisonResult{Scenario: engine.ComparisonScenario{Name: p.Label, Settings: s}}
				part := p.Footprint()
				res.Layout, res.Orientation, res.Economics, res.Err = engine.Evaluate(part, s)
				results = append(results, res)
				if res.Err != nil {
					logger.Warn("part skipped", "part", p.Label, "err", res.Err)
					continue
				}
				sheets = append(sheets, export.LayoutSheet{
					Title:       p.Label,
					Part:        part,
					Settings:    s,
					Layout:      res.Layout,
					Orientation: string(res.Orientation),
					Economics:   res.Economics,
				})
			}
			prog.done(fmt.Sprintf("laid out %d parts", len(sheets)))

			fmt.Fprintln(out, comparisonTable(results))

			if pdfPath != "" {
				if err := export.ExportPDF(pdfPath, sheets); err != nil {
					return err
				}
				printFile(out, "pdf", pdfPath)
			}
			if csvPath != "" {
				if err := export.ExportCSV(csvPath, export.ComparisonRows(results)); err != nil {
					return err
				}
				printFile(out, "csv", csvPath)
			}
			if xlsxPath != "" {
				if err := export.ExportXLSX(xlsxPath, []export.ReportSheet{{Name: "Parts", Rows: export.ComparisonRows(results)}}); err != nil {
					return err
				}
				printFile(out, "xlsx", xlsxPath)
			}
			return nil
		},
	}

	settings.register(cmd.Flags())
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write one PDF layout page per part plus a summary")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the part table as CSV")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the part table as XLSX")
	return cmd
}
