package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.RadiusScale != 1 || opts.BondScale != 1 {
		t.Errorf("expected unit scales, got %v %v", opts.RadiusScale, opts.BondScale)
	}
	if !opts.Wrap || !opts.AllowRepeat || opts.ShowCopies {
		t.Error("unexpected replication defaults")
	}
	if opts.ViewCenter.Mode != COP {
		t.Errorf("expected COP view center, got %s", opts.ViewCenter)
	}
	if opts.FitMargin != 0.5 {
		t.Errorf("expected fit margin 0.5, got %v", opts.FitMargin)
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestParse(t *testing.T) {
	opts, err := Parse([]byte(`
radius_scale: 0.8
show_copies: true
view_center: COC
translation: [1, 0, -2]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.RadiusScale != 0.8 {
		t.Errorf("expected radius scale 0.8, got %v", opts.RadiusScale)
	}
	if !opts.ShowCopies {
		t.Error("expected show_copies")
	}
	if opts.ViewCenter.Mode != COC {
		t.Errorf("expected COC, got %s", opts.ViewCenter)
	}
	if opts.Translation != [3]float64{1, 0, -2} {
		t.Errorf("unexpected translation %v", opts.Translation)
	}
	if opts.BondScale != 1 || !opts.ShowBonds {
		t.Error("keys absent from the file should keep defaults")
	}
}

func TestParseEmpty(t *testing.T) {
	opts, err := Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *opts != *DefaultOptions() {
		t.Error("empty document should yield defaults")
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("radius_scale: 1\ncamera_fov: 45\n"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestParseViewCenter(t *testing.T) {
	tests := []struct {
		doc  string
		want ViewCenter
		err  error
	}{
		{"view_center: COP", CenterOfPositions(), nil},
		{"view_center: COC", CenterOfCell(), nil},
		{"view_center: [1.5, 0, 2]", CenterAt(1.5, 0, 2), nil},
		{"view_center: middle", ViewCenter{}, ErrUnknownViewCenter},
		{"view_center: [1, 2]", ViewCenter{}, ErrUnknownViewCenter},
		{"view_center: {x: 1}", ViewCenter{}, ErrUnknownViewCenter},
	}

	for _, tt := range tests {
		opts, err := Parse([]byte(tt.doc))
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("%q: expected %v, got %v", tt.doc, tt.err, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.doc, err)
			continue
		}
		if opts.ViewCenter != tt.want {
			t.Errorf("%q: got %s, want %s", tt.doc, opts.ViewCenter, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero radius", func(o *Options) { o.RadiusScale = 0 }},
		{"negative bond scale", func(o *Options) { o.BondScale = -1 }},
		{"zero zoom", func(o *Options) { o.ZoomLevel = 0 }},
		{"negative margin", func(o *Options) { o.FitMargin = -0.1 }},
		{"negative pan speed", func(o *Options) { o.PanSpeed = -2 }},
	}

	for _, tt := range tests {
		opts := DefaultOptions()
		tt.mutate(opts)
		if err := opts.Validate(); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("%s: expected ErrInvalidOption, got %v", tt.name, err)
		}
	}

	opts := DefaultOptions()
	opts.ViewCenter = ViewCenter{Mode: "XYZ"}
	if err := opts.Validate(); !errors.Is(err, ErrUnknownViewCenter) {
		t.Errorf("expected ErrUnknownViewCenter, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")

	opts := DefaultOptions()
	opts.ViewCenter = CenterAt(1, -2.5, 3)
	opts.ShowTags = true
	opts.ZoomLevel = 1.5
	if err := Save(path, opts); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *loaded != *opts {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, opts)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestClone(t *testing.T) {
	opts := DefaultOptions()
	c := opts.Clone()
	c.RadiusScale = 3
	c.Translation[0] = 4
	if opts.RadiusScale != 1 || opts.Translation[0] != 0 {
		t.Error("clone shares state with the original")
	}
}

func TestGetPreset(t *testing.T) {
	opts := GetPreset("minimal")
	if opts == nil {
		t.Fatal("expected preset, got nil")
	}
	if opts.ShowCell || opts.ShowBonds {
		t.Error("minimal preset should hide cell and bonds")
	}
	if opts.RadiusScale != 1 {
		t.Error("preset should start from defaults")
	}

	again := GetPreset("minimal")
	again.ShowCell = true
	if GetPreset("minimal").ShowCell {
		t.Error("presets must not share state")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
