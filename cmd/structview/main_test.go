package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPresets(t *testing.T) {
	out, err := run(t, "presets")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"default", "periodic", "minimal", "paper"} {
		if !strings.Contains(out, want) {
			t.Errorf("presets output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoText(t *testing.T) {
	out, err := run(t, "info", "../../testdata/nacl.json")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"formula: Cl4Na4", "lattice: 3D", "bonds: 12 (auto)", "Na", "bond lengths"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoJSON(t *testing.T) {
	out, err := run(t, "info", "--format", "json", "../../testdata/water.json")
	if err != nil {
		t.Fatal(err)
	}
	var r struct {
		Formula  string `json:"formula"`
		BondMode string `json:"bond_mode"`
		Bonds    struct {
			Count int `json:"count"`
		} `json:"bonds"`
	}
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("bad json: %v\n%s", err, out)
	}
	if r.Formula != "H2O" || r.BondMode != "explicit" || r.Bonds.Count != 2 {
		t.Errorf("unexpected report %+v", r)
	}
}

func TestInfoOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphene.yaml")
	if _, err := run(t, "info", "--format", "yaml", "-o", path, "../../testdata/graphene.yaml"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "dimensionality: 2D") {
		t.Errorf("unexpected report:\n%s", data)
	}
	if _, err := run(t, "info", "-o", path, "../../testdata/graphene.yaml"); err == nil {
		t.Error("expected error for text output to a file")
	}
}

func TestRenderPlain(t *testing.T) {
	out, err := run(t, "render", "--plain", "--cols", "40", "--rows", "20", "../../testdata/graphene.yaml")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 20 {
		t.Errorf("expected 20 rows, got %d", len(lines))
	}
	if strings.Trim(out, "⠀\n") == "" {
		t.Error("nothing was drawn")
	}
}

func TestRenderFiles(t *testing.T) {
	dir := t.TempDir()
	gifPath := filepath.Join(dir, "salt.gif")
	svgPath := filepath.Join(dir, "salt.svg")
	_, err := run(t, "render", "--plain", "--cols", "30", "--rows", "15",
		"--gif", gifPath, "--frames", "3", "--svg", svgPath, "--copies",
		"../../testdata/nacl.json")
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{gifPath, svgPath} {
		if st, err := os.Stat(p); err != nil || st.Size() == 0 {
			t.Errorf("%s not written: %v", p, err)
		}
	}
}

func TestOptionErrors(t *testing.T) {
	if _, err := run(t, "--preset", "nope", "info", "../../testdata/nacl.json"); err == nil {
		t.Error("expected unknown preset error")
	}
	if _, err := run(t, "info", "../../testdata/missing.json"); err == nil {
		t.Error("expected missing file error")
	}

	cfg := filepath.Join(t.TempDir(), "opts.yaml")
	if err := os.WriteFile(cfg, []byte("radius_scale: -2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "--config", cfg, "info", "../../testdata/nacl.json"); err == nil {
		t.Error("expected invalid config error")
	}
}
