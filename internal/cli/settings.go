package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/piwi3910/thermolayout/internal/model"
)

// settingsFlags are the machine, spacing and material overrides shared by
// the commands that lay out parts.
type settingsFlags struct {
	machine string
	stock   string

	web         float64
	index       float64
	chain       float64
	depth       float64
	policy      string
	pitch       float64
	cap         int
	step        float64
	material    string
	gauge       float64
	cost        float64
	orientation string
}

func (f *settingsFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.machine, "machine", "", "machine profile from the inventory (name or ID)")
	fs.StringVar(&f.stock, "stock", "", "sheet stock from the inventory (name or ID)")
	fs.Float64Var(&f.web, "web", 0, "usable web width (in)")
	fs.Float64Var(&f.index, "index", 0, "maximum index length (in)")
	fs.Float64Var(&f.chain, "chain", 0, "chain strip width per side (in)")
	fs.Float64Var(&f.depth, "depth", 0, "draw depth (in); sets the minimum spacing")
	fs.StringVar(&f.policy, "policy", "", "spacing policy: gap-locked, edge-locked or ctc")
	fs.Float64Var(&f.pitch, "pitch", 0, "center-to-center pitch along the index (in); implies --policy ctc")
	fs.IntVar(&f.cap, "cap", 0, "maximum cavity count (0 = as many as fit)")
	fs.Float64Var(&f.step, "step", 0, "index length increment (in)")
	fs.StringVar(&f.material, "material", "", fmt.Sprintf("sheet material (%s)", strings.Join(model.MaterialNames(), ", ")))
	fs.Float64Var(&f.gauge, "gauge", 0, "sheet gauge (in)")
	fs.Float64Var(&f.cost, "cost", 0, "resin cost per lb (0 = catalogue price)")
	fs.StringVar(&f.orientation, "orientation", "", "best, normal or rotated")
}

// apply resolves the final settings: inventory presets first, then every
// flag the user set explicitly. Unset flags keep the base values.
func (f *settingsFlags) apply(cmd *cobra.Command, a *app, s *model.JobSettings) error {
	if f.machine != "" || f.stock != "" {
		inv, err := a.loadInventory()
		if err != nil {
			return fmt.Errorf("failed to load inventory: %w", err)
		}
		if f.machine != "" {
			m := inv.FindMachineByName(f.machine)
			if m == nil {
				m = inv.FindMachineByID(f.machine)
			}
			if m == nil {
				return fmt.Errorf("unknown machine %q (have: %s)", f.machine, strings.Join(inv.MachineNames(), ", "))
			}
			m.ApplyToSettings(s)
		}
		if f.stock != "" {
			st := inv.FindSheetByName(f.stock)
			if st == nil {
				st = inv.FindSheetByID(f.stock)
			}
			if st == nil {
				return fmt.Errorf("unknown sheet stock %q (have: %s)", f.stock, strings.Join(inv.SheetNames(), ", "))
			}
			st.ApplyToSettings(s)
		}
	}

	changed := cmd.Flags().Changed
	if changed("web") {
		s.WebWidth = f.web
	}
	if changed("index") {
		s.MaxIndexLength = f.index
	}
	if changed("chain") {
		s.ChainWidth = f.chain
	}
	if changed("depth") {
		s.DrawDepth = f.depth
	}
	if changed("cap") {
		s.QuantityCap = f.cap
	}
	if changed("step") {
		s.IndexStep = f.step
	}
	if changed("material") {
		if _, err := model.FindMaterial(f.material); err != nil {
			return err
		}
		s.Material = f.material
	}
	if changed("gauge") {
		s.Gauge = f.gauge
	}
	if changed("cost") {
		s.CostPerLb = f.cost
	}
	if changed("orientation") {
		s.Orientation = f.orientation
	}

	switch {
	case changed("policy"):
		p, err := model.ParsePolicy(f.policy, f.pitch)
		if err != nil {
			return err
		}
		s.Policy = p
	case changed("pitch"):
		s.Policy = model.CenterToCenter(f.pitch)
	}
	return nil
}

// partFlags size a part directly on the command line.
type partFlags struct {
	width  float64
	length float64
	radius float64
}

func (f *partFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.width, "width", 0, "part width across the web (in)")
	fs.Float64Var(&f.length, "length", 0, "part length along the index (in)")
	fs.Float64Var(&f.radius, "radius", 0, "part corner radius (in)")
}

func (f *partFlags) footprint() (model.PartFootprint, error) {
	fp := model.PartFootprint{Width: f.width, Length: f.length, CornerRadius: f.radius, Units: "in"}
	if err := fp.Validate(); err != nil {
		return model.PartFootprint{}, fmt.Errorf("%w (use --width and --length, or pass a DXF or job file)", err)
	}
	return fp, nil
}
