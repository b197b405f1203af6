package config

import "sort"

// Presets are named grid geometries. Fields left zero keep the current value.
var Presets = map[string]*Config{
	"classic": {Rows: 15, Cols: 20, CellSize: 20, TextSize: "medium"},
	"wide":    {Rows: 15, Cols: 40, CellSize: 16, TextSize: "medium"},
	"tiny":    {Rows: 8, Cols: 12, CellSize: 24, TextSize: "small"},
	"banner":  {Rows: 24, Cols: 64, CellSize: 10, TextSize: "large"},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply copies the non-zero preset fields into c.
func (c *Config) Apply(p *Config) {
	if p.Rows > 0 {
		c.Rows = p.Rows
	}
	if p.Cols > 0 {
		c.Cols = p.Cols
	}
	if p.CellSize > 0 {
		c.CellSize = p.CellSize
	}
	if p.TextSize != "" {
		c.TextSize = p.TextSize
	}
}
