// Package cli implements the thermolayout command line: laying out a part on
// a machine, extracting footprints from drawings, comparing machine scenarios,
// batch layout sheets, the resin price index and configuration management.
package cli

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/thermolayout/internal/model"
	"github.com/piwi3910/thermolayout/internal/project"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the build information shown by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// app carries state shared by every command once the root has loaded it.
type app struct {
	configPath    string
	inventoryPath string
	verbose       bool

	config    model.AppConfig
	inventory *model.Inventory
}

// loadInventory reads the machine and sheet inventory on first use.
func (a *app) loadInventory() (model.Inventory, error) {
	if a.inventory != nil {
		return *a.inventory, nil
	}
	inv, err := project.LoadInventory(a.inventoryPath)
	if err != nil {
		return model.Inventory{}, err
	}
	a.inventory = &inv
	return inv, nil
}

// baseSettings returns the built-in defaults overlaid with the config file.
func (a *app) baseSettings() model.JobSettings {
	s := model.DefaultSettings()
	a.config.ApplyToSettings(&s)
	return s
}

// Execute runs the CLI with the given context.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "thermolayout",
		Short:         "Thermoform cavity layout and tooling calculator",
		Long:          `thermolayout packs thermoformed part cavities onto an inline machine's forming area, prices the sheet per index and extracts part footprints from DXF drawings.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if a.verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(withLogger(cmd.Context(), logger))

			if a.configPath == "" {
				a.configPath = project.DefaultConfigPath()
			}
			if a.inventoryPath == "" {
				a.inventoryPath = project.DefaultInventoryPath()
			}
			cfg, err := project.LoadAppConfig(a.configPath)
			if err != nil {
				return err
			}
			a.config = cfg
			logger.Debug("config loaded", "path", a.configPath)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("thermolayout %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.thermolayout/config.json)")
	root.PersistentFlags().StringVar(&a.inventoryPath, "inventory", "", "machine and sheet inventory file (default ~/.thermolayout/inventory.json)")

	root.AddCommand(newLayoutCmd(a))
	root.AddCommand(newExtractCmd(a))
	root.AddCommand(newCompareCmd(a))
	root.AddCommand(newBatchCmd(a))
	root.AddCommand(newPPICmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newInventoryCmd(a))

	return root
}
