package config

import "sort"

var Presets = map[string]func(*Options){
	"default": func(*Options) {},
	// periodic shows boundary copies for crystals and a larger framing margin.
	"periodic": func(o *Options) {
		o.ShowCopies = true
		o.AllowRepeat = true
		o.FitMargin = 1.0
	},
	"publication": func(o *Options) {
		o.ShowParam = false
		o.ShowLegend = false
		o.ShowShadows = true
		o.ShowCopies = true
		o.FitMargin = 0.2
	},
	"minimal": func(o *Options) {
		o.ShowParam = false
		o.ShowCell = false
		o.ShowLegend = false
		o.ShowBonds = false
		o.AllowRepeat = false
	},
}

// GetPreset returns a fresh copy of the default options with the named
// preset applied, or nil for an unknown name.
func GetPreset(name string) *Options {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	opts := DefaultOptions()
	apply(opts)
	return opts
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
