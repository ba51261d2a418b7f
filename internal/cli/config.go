package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/thermolayout/internal/model"
	"github.com/piwi3910/thermolayout/internal/project"
)

// configSetters maps `config set` keys to the AppConfig field they change.
var configSetters = map[string]func(c *model.AppConfig, v string) error{
	"web":   floatSetter(func(c *model.AppConfig) *float64 { return &c.DefaultWebWidth }),
	"index": floatSetter(func(c *model.AppConfig) *float64 { return &c.DefaultMaxIndex }),
	"chain": floatSetter(func(c *model.AppConfig) *float64 { return &c.DefaultChainWidth }),
	"depth": floatSetter(func(c *model.AppConfig) *float64 { return &c.DefaultDrawDepth }),
	"step":  floatSetter(func(c *model.AppConfig) *float64 { return &c.DefaultIndexStep }),
	"gauge": floatSetter(func(c *model.AppConfig) *float64 { return &c.DefaultGauge }),
	"policy": func(c *model.AppConfig, v string) error {
		p, err := model.ParsePolicy(v, 0)
		if err != nil {
			return err
		}
		if p.Kind == model.FixedCenterToCenter {
			return fmt.Errorf("center-to-center needs a pitch per job; use --pitch instead")
		}
		c.DefaultPolicy = p.Kind.String()
		return nil
	},
	"material": func(c *model.AppConfig, v string) error {
		m, err := model.FindMaterial(v)
		if err != nil {
			return err
		}
		c.DefaultMaterial = m.Name
		return nil
	},
	"orientation": func(c *model.AppConfig, v string) error {
		switch v {
		case "best", "normal", "rotated":
			c.DefaultOrientation = v
			return nil
		}
		return fmt.Errorf("orientation must be best, normal or rotated, got %q", v)
	},
	"fred-api-key": func(c *model.AppConfig, v string) error {
		c.FredAPIKey = v
		return nil
	},
	"cache-dir": func(c *model.AppConfig, v string) error {
		c.CacheDir = v
		return nil
	},
	"cache-ttl-hours": func(c *model.AppConfig, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("cache-ttl-hours must be a non-negative integer, got %q", v)
		}
		c.CacheTTLHours = n
		return nil
	},
}

func floatSetter(field func(c *model.AppConfig) *float64) func(c *model.AppConfig, v string) error {
	return func(c *model.AppConfig, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("expected a non-negative number, got %q", v)
		}
		*field(c) = f
		return nil
	}
}

func configKeys() []string {
	keys := make([]string, 0, len(configSetters))
	for k := range configSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change default settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(a.config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config and inventory file paths",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printFile(cmd.OutOrStdout(), "config", a.configPath)
			printFile(cmd.OutOrStdout(), "inventory", a.inventoryPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a config file with the built-in defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.config = model.DefaultAppConfig()
			if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "wrote defaults to %s", a.configPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set key value",
		Short: "Change one default setting",
		Long:  "Change one default setting. Keys: " + strings.Join(configKeys(), ", ") + ".",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			set, ok := configSetters[key]
			if !ok {
				return fmt.Errorf("unknown key %q (have: %s)", key, strings.Join(configKeys(), ", "))
			}
			if err := set(&a.config, value); err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "%s = %s", key, value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export backup.json",
		Short: "Back up the configuration and inventory to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.loadInventory()
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], a.config, inv); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "backup written")
			printFile(cmd.OutOrStdout(), "backup", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import backup.json",
		Short: "Restore the configuration and inventory from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(a.configPath, data.Config); err != nil {
				return err
			}
			if err := project.SaveInventory(a.inventoryPath, data.Inventory); err != nil {
				return err
			}
			a.config, a.inventory = data.Config, &data.Inventory
			printSuccess(cmd.OutOrStdout(), "restored backup from %s (version %s, %s)", args[0], data.Version, data.CreatedAt)
			return nil
		},
	})

	return cmd
}

func newInventoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "List and import machine profiles and sheet stock",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List machine profiles and sheet stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.loadInventory()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printTitle(out, "Machines")
			for _, m := range inv.Machines {
				printKeyValue(out, m.Name, fmt.Sprintf("%.2f web x %.2f index, %.2f chain  %s", m.WebWidth, m.MaxIndexLength, m.ChainWidth, styleDim.Render(m.ID)))
			}
			printTitle(out, "Sheet stock")
			for _, s := range inv.Sheets {
				cost := "catalogue price"
				if s.CostPerLb > 0 {
					cost = fmt.Sprintf("$%.3f/lb", s.CostPerLb)
				}
				printKeyValue(out, s.Name, fmt.Sprintf("%s %.3f in, %s  %s", s.Material, s.Gauge, cost, styleDim.Render(s.ID)))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import inventory.json",
		Short: "Merge machines and sheet stock from another inventory file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			existing, err := a.loadInventory()
			if err != nil {
				return err
			}
			merged, err := project.ImportInventory(args[0], existing)
			if err != nil {
				return fmt.Errorf("failed to import inventory: %w", err)
			}
			if err := project.SaveInventory(a.inventoryPath, merged); err != nil {
				return err
			}
			a.inventory = &merged
			printSuccess(cmd.OutOrStdout(), "%d machines, %d sheet stocks", len(merged.Machines), len(merged.Sheets))
			return nil
		},
	})

	return cmd
}
