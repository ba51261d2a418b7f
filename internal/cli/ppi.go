package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/thermolayout/internal/export"
	"github.com/piwi3910/thermolayout/internal/httputil"
	"github.com/piwi3910/thermolayout/internal/market"
	"github.com/piwi3910/thermolayout/internal/project"
)

const apiKeyEnv = "FRED_API_KEY"

func newPPICmd(a *app) *cobra.Command {
	var (
		refresh bool
		asJSON  bool
		apiKey  string
		svgPath string
	)

	cmd := &cobra.Command{
		Use:   "ppi",
		Short: "Show the plastics and resins producer price index",
		Long: `Show the last 13 months of the plastics material and resin producer price
index from FRED, with month-over-month and year-over-year change.

Responses are cached. Without an API key, or when FRED cannot be reached, a
cached or built-in series is shown instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			out := cmd.OutOrStdout()

			if apiKey == "" {
				apiKey = a.config.FredAPIKey
			}
			if apiKey == "" {
				apiKey = os.Getenv(apiKeyEnv)
			}

			cacheDir := a.config.CacheDir
			if cacheDir == "" {
				cacheDir = project.DefaultCacheDir()
			}
			cache, err := httputil.NewCache(cacheDir, time.Duration(a.config.CacheTTLHours)*time.Hour)
			if err != nil {
				return err
			}

			series := market.NewClient(apiKey, cache).PPI(ctx, refresh)
			if series.Err != nil {
				logger.Warn("live index unavailable", "source", series.Source, "err", series.Err)
			} else {
				logger.Debug("index loaded", "source", series.Source, "observations", len(series.Observations))
			}
			if series.CacheErr != nil {
				logger.Debug("could not cache index", "err", series.CacheErr)
			}

			sum, err := series.Summarize()
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(struct {
					market.Series
					Summary market.Summary `json:"summary"`
				}{series, sum}); err != nil {
					return fmt.Errorf("failed to encode index: %w", err)
				}
			} else {
				printSeries(out, series, sum)
			}

			if svgPath != "" {
				var buf bytes.Buffer
				if err := export.RenderSparkline(&buf, series.Values(), 240, 48); err != nil {
					return err
				}
				if err := os.WriteFile(svgPath, buf.Bytes(), 0644); err != nil {
					return fmt.Errorf("failed to write sparkline: %w", err)
				}
				if !asJSON {
					printFile(out, "svg", svgPath)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore a fresh cache entry and fetch again")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the series and summary as JSON")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "FRED API key (default from config or $"+apiKeyEnv+")")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write a sparkline of the series")
	return cmd
}

func sourceLabel(source string) string {
	switch source {
	case market.SourceLive:
		return styleSuccess.Render("LIVE")
	case market.SourceCache:
		return styleSuccess.Render("CACHED")
	default:
		return styleWarning.Render("CACHED") + styleDim.Render(" ("+source+")")
	}
}

func signed(v float64, format string) string {
	s := fmt.Sprintf(format, v)
	if v > 0 {
		s = "+" + s
	}
	return s
}

func printSeries(w io.Writer, series market.Series, sum market.Summary) {
	printTitle(w, "Plastics & resins PPI ("+series.ID+")")
	printKeyValue(w, "Source", sourceLabel(series.Source))
	printKeyValue(w, "Latest", fmt.Sprintf("%s (%s)", number("%.2f", sum.Latest.Value), sum.Latest.Label()))
	printKeyValue(w, "Month over month", fmt.Sprintf("%s (%s)", signed(sum.MoMChange, "%.2f"), signed(sum.MoMPct, "%.1f%%")))
	printKeyValue(w, "Year over year", fmt.Sprintf("%s (%s) since %s", signed(sum.YoYChange, "%.2f"), signed(sum.YoYPct, "%.1f%%"), sum.YearAgo.Label()))
	printKeyValue(w, "Range", fmt.Sprintf("%.2f to %.2f", sum.Min, sum.Max))

	labels := make([]string, 0, len(series.Observations))
	for _, o := range series.Observations {
		labels = append(labels, fmt.Sprintf("%s %.1f", o.Date.Format("Jan 06"), o.Value))
	}
	printInfo(w, strings.Join(labels, styleDim.Render(" · ")))
}
