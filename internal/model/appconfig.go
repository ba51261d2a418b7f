package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default machine settings applied to new jobs
	DefaultWebWidth    float64 `json:"default_web_width"`
	DefaultMaxIndex    float64 `json:"default_max_index"`
	DefaultChainWidth  float64 `json:"default_chain_width"`
	DefaultDrawDepth   float64 `json:"default_draw_depth"`
	DefaultPolicy      string  `json:"default_policy"` // "gap-locked", "edge-locked"
	DefaultIndexStep   float64 `json:"default_index_step"`
	DefaultMaterial    string  `json:"default_material"`
	DefaultGauge       float64 `json:"default_gauge"`
	DefaultOrientation string  `json:"default_orientation"`

	// Economic index feed
	FredAPIKey    string `json:"fred_api_key"`
	CacheDir      string `json:"cache_dir"`       // "" = ~/.cache/thermolayout
	CacheTTLHours int    `json:"cache_ttl_hours"` // 0 = never expire

	RecentJobs []string `json:"recent_jobs"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultWebWidth:    defaults.WebWidth,
		DefaultMaxIndex:    defaults.MaxIndexLength,
		DefaultChainWidth:  defaults.ChainWidth,
		DefaultDrawDepth:   defaults.DrawDepth,
		DefaultPolicy:      defaults.Policy.Kind.String(),
		DefaultIndexStep:   defaults.IndexStep,
		DefaultMaterial:    defaults.Material,
		DefaultGauge:       defaults.Gauge,
		DefaultOrientation: defaults.Orientation,
		CacheTTLHours:      24,
		RecentJobs:         []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a JobSettings struct.
// Unparseable policy names leave the existing policy untouched.
func (c AppConfig) ApplyToSettings(s *JobSettings) {
	s.WebWidth = c.DefaultWebWidth
	s.MaxIndexLength = c.DefaultMaxIndex
	s.ChainWidth = c.DefaultChainWidth
	s.DrawDepth = c.DefaultDrawDepth
	s.IndexStep = c.DefaultIndexStep
	s.Material = c.DefaultMaterial
	s.Gauge = c.DefaultGauge
	s.Orientation = c.DefaultOrientation
	if p, err := ParsePolicy(c.DefaultPolicy, 0); err == nil && p.Kind != FixedCenterToCenter {
		s.Policy = p
	}
}

// AddRecentJob moves path to the front of the recent list, keeping at most limit entries.
func (c *AppConfig) AddRecentJob(path string, limit int) {
	out := []string{path}
	for _, p := range c.RecentJobs {
		if p != path {
			out = append(out, p)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	c.RecentJobs = out
}
