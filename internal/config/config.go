package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRadiusScale = 1.0
	DefaultBondScale   = 1.0
	DefaultZoomLevel   = 1.0
	DefaultFitMargin   = 0.5
	DefaultZoomSpeed   = 2.5
	DefaultRotateSpeed = 2.5
	DefaultPanSpeed    = 10.0
)

var (
	// ErrInvalidOption indicates a value outside its accepted range.
	ErrInvalidOption = errors.New("config: invalid option")

	// ErrUnknownViewCenter indicates a view_center that is neither COP, COC
	// nor a 3-vector.
	ErrUnknownViewCenter = errors.New(`config: view_center must be "COP", "COC" or [x, y, z]`)
)

// Options enumerates every recognized viewer setting. Unknown keys in a
// YAML file are rejected by Load.
type Options struct {
	RadiusScale float64 `yaml:"radius_scale"`
	BondScale   float64 `yaml:"bond_scale"`
	Wrap        bool    `yaml:"wrap"`
	ShowCopies  bool    `yaml:"show_copies"`
	AllowRepeat bool    `yaml:"allow_repeat"`

	ViewCenter  ViewCenter `yaml:"view_center"`
	ZoomLevel   float64    `yaml:"zoom_level"`
	Translation [3]float64 `yaml:"translation,flow"`
	FitMargin   float64    `yaml:"fit_margin"`
	AutoFit     bool       `yaml:"auto_fit"`
	AutoResize  bool       `yaml:"auto_resize"`

	ShowParam     bool `yaml:"show_param"`
	ShowCell      bool `yaml:"show_cell"`
	ShowLegend    bool `yaml:"show_legend"`
	ShowBonds     bool `yaml:"show_bonds"`
	ShowShadows   bool `yaml:"show_shadows"`
	ShowTags      bool `yaml:"show_tags"`
	ShowVacancies bool `yaml:"show_vacancies"`

	EnableZoom   bool    `yaml:"enable_zoom"`
	EnableRotate bool    `yaml:"enable_rotate"`
	EnablePan    bool    `yaml:"enable_pan"`
	ZoomSpeed    float64 `yaml:"zoom_speed"`
	RotateSpeed  float64 `yaml:"rotate_speed"`
	PanSpeed     float64 `yaml:"pan_speed"`
}

func DefaultOptions() *Options {
	return &Options{
		RadiusScale: DefaultRadiusScale,
		BondScale:   DefaultBondScale,
		Wrap:        true,
		AllowRepeat: true,

		ViewCenter: CenterOfPositions(),
		ZoomLevel:  DefaultZoomLevel,
		FitMargin:  DefaultFitMargin,
		AutoFit:    true,
		AutoResize: true,

		ShowParam:  true,
		ShowCell:   true,
		ShowLegend: true,
		ShowBonds:  true,

		EnableZoom:   true,
		EnableRotate: true,
		EnablePan:    true,
		ZoomSpeed:    DefaultZoomSpeed,
		RotateSpeed:  DefaultRotateSpeed,
		PanSpeed:     DefaultPanSpeed,
	}
}

// Clone returns an independent copy.
func (o *Options) Clone() *Options {
	c := *o
	return &c
}

// Validate checks numeric ranges.
func (o *Options) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"radius_scale", o.RadiusScale},
		{"bond_scale", o.BondScale},
		{"zoom_level", o.ZoomLevel},
	}
	for _, p := range positive {
		if !(p.value > 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidOption, p.name, p.value)
		}
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"fit_margin", o.FitMargin},
		{"zoom_speed", o.ZoomSpeed},
		{"rotate_speed", o.RotateSpeed},
		{"pan_speed", o.PanSpeed},
	}
	for _, p := range nonNegative {
		if !(p.value >= 0) {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidOption, p.name, p.value)
		}
	}
	return o.ViewCenter.validate()
}

// Load reads options from a YAML file. Keys absent from the file keep their
// default values.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML options on top of the defaults.
func Parse(data []byte) (*Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func Save(path string, opts *Options) error {
	data, err := yaml.Marshal(opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
