package model

import "github.com/google/uuid"

// MachineProfile describes one thermoformer's forming envelope.
type MachineProfile struct {
	ID             string  `json:"id" toml:"id"`
	Name           string  `json:"name" toml:"name"`
	WebWidth       float64 `json:"web_width" toml:"web_width"`
	MaxIndexLength float64 `json:"max_index_length" toml:"max_index_length"`
	ChainWidth     float64 `json:"chain_width" toml:"chain_width"`
	IndexStep      float64 `json:"index_step" toml:"index_step"`
}

// NewMachineProfile creates a new MachineProfile with a generated ID.
func NewMachineProfile(name string, web, maxIndex, chain float64) MachineProfile {
	return MachineProfile{
		ID:             uuid.New().String()[:8],
		Name:           name,
		WebWidth:       web,
		MaxIndexLength: maxIndex,
		ChainWidth:     chain,
	}
}

// ApplyToSettings copies the machine envelope into the given JobSettings.
func (m MachineProfile) ApplyToSettings(s *JobSettings) {
	s.WebWidth = m.WebWidth
	s.MaxIndexLength = m.MaxIndexLength
	s.ChainWidth = m.ChainWidth
	s.IndexStep = m.IndexStep
}

// SheetStock is a roll of sheet on hand: resin, gauge and what it cost.
type SheetStock struct {
	ID        string  `json:"id" toml:"id"`
	Name      string  `json:"name" toml:"name"`
	Material  string  `json:"material" toml:"material"`
	Gauge     float64 `json:"gauge" toml:"gauge"`
	CostPerLb float64 `json:"cost_per_lb" toml:"cost_per_lb"` // 0 = catalogue price
}

// NewSheetStock creates a new SheetStock with a generated ID.
func NewSheetStock(name, material string, gauge, costPerLb float64) SheetStock {
	return SheetStock{
		ID:        uuid.New().String()[:8],
		Name:      name,
		Material:  material,
		Gauge:     gauge,
		CostPerLb: costPerLb,
	}
}

// ApplyToSettings copies the stock's material, gauge and price into the given JobSettings.
func (st SheetStock) ApplyToSettings(s *JobSettings) {
	s.Material = st.Material
	s.Gauge = st.Gauge
	s.CostPerLb = st.CostPerLb
}

// Inventory holds the user's saved machines and sheet stock.
type Inventory struct {
	Machines []MachineProfile `json:"machines"`
	Sheets   []SheetStock     `json:"sheets"`
}

// DefaultInventory returns an inventory populated with common defaults.
func DefaultInventory() Inventory {
	return Inventory{
		Machines: []MachineProfile{
			NewMachineProfile("Inline 24x36", 24, 36, DefaultChainWidth),
			NewMachineProfile("Inline 30x40", 30, 40, DefaultChainWidth),
			NewMachineProfile("Narrow web 18x24", 18, 24, 0.5),
		},
		Sheets: []SheetStock{
			NewSheetStock("rPET 0.020", "rPET", 0.020, 0),
			NewSheetStock("rPET 0.033", "rPET", 0.033, 0),
			NewSheetStock("PETG 0.030", "PETG", 0.030, 0),
			NewSheetStock("HIPS 0.040", "HIPS", 0.040, 0),
			NewSheetStock("PP 0.025", "PP", 0.025, 0),
		},
	}
}

// FindMachineByID returns a pointer to the machine with the given ID, or nil.
func (inv *Inventory) FindMachineByID(id string) *MachineProfile {
	for i := range inv.Machines {
		if inv.Machines[i].ID == id {
			return &inv.Machines[i]
		}
	}
	return nil
}

// FindMachineByName returns a pointer to the first machine with the given name, or nil.
func (inv *Inventory) FindMachineByName(name string) *MachineProfile {
	for i := range inv.Machines {
		if inv.Machines[i].Name == name {
			return &inv.Machines[i]
		}
	}
	return nil
}

// FindSheetByID returns a pointer to the sheet stock with the given ID, or nil.
func (inv *Inventory) FindSheetByID(id string) *SheetStock {
	for i := range inv.Sheets {
		if inv.Sheets[i].ID == id {
			return &inv.Sheets[i]
		}
	}
	return nil
}

// FindSheetByName returns a pointer to the first sheet stock with the given name, or nil.
func (inv *Inventory) FindSheetByName(name string) *SheetStock {
	for i := range inv.Sheets {
		if inv.Sheets[i].Name == name {
			return &inv.Sheets[i]
		}
	}
	return nil
}

// MachineNames returns the machine names in order.
func (inv *Inventory) MachineNames() []string {
	names := make([]string, len(inv.Machines))
	for i, m := range inv.Machines {
		names[i] = m.Name
	}
	return names
}

// SheetNames returns the sheet stock names in order.
func (inv *Inventory) SheetNames() []string {
	names := make([]string, len(inv.Sheets))
	for i, s := range inv.Sheets {
		names[i] = s.Name
	}
	return names
}
