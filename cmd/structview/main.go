package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/structview/internal/camera"
	"github.com/san-kum/structview/internal/config"
	"github.com/san-kum/structview/internal/export"
	"github.com/san-kum/structview/internal/logging"
	"github.com/san-kum/structview/internal/scene"
	"github.com/san-kum/structview/internal/viewer"
	"github.com/san-kum/structview/internal/viz"
	"github.com/spf13/cobra"
)

// flags shared by every command
type flags struct {
	configFile string
	preset     string
	theme      string
	copies     bool
	verbose    bool

	cols, rows int
	plain      bool
	gifPath    string
	frames     int
	svgPath    string
	format     string
	outPath    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "structview [source]",
		Short: "atomic structure viewer for the terminal",
		Args:  cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if f.verbose {
				logging.SetLogger(logging.NewText(cmd.ErrOrStderr(), slog.LevelDebug))
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) > 0 {
				source = args[0]
			}
			return runView(cmd, f, source)
		},
	}
	rootCmd.PersistentFlags().StringVar(&f.configFile, "config", "", "options file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&f.preset, "preset", "", "use preset options")
	rootCmd.PersistentFlags().StringVar(&f.theme, "theme", "cyberpunk", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	rootCmd.PersistentFlags().BoolVar(&f.copies, "copies", false, "show periodic boundary copies")
	rootCmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log to stderr")

	viewCmd := &cobra.Command{
		Use:   "view [source]",
		Short: "open a structure in the interactive viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, f, args[0])
		},
	}

	renderCmd := &cobra.Command{
		Use:   "render [source]",
		Short: "draw a structure once and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, f, args[0])
		},
	}
	renderCmd.Flags().IntVar(&f.cols, "cols", 80, "canvas width in characters")
	renderCmd.Flags().IntVar(&f.rows, "rows", 40, "canvas height in characters")
	renderCmd.Flags().BoolVar(&f.plain, "plain", false, "print without colors")
	renderCmd.Flags().StringVar(&f.gifPath, "gif", "", "write a turntable animation to this path")
	renderCmd.Flags().IntVar(&f.frames, "frames", 36, "frames per turntable turn")
	renderCmd.Flags().StringVar(&f.svgPath, "svg", "", "write the frame as svg to this path")

	infoCmd := &cobra.Command{
		Use:   "info [source]",
		Short: "summarize a structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, f, args[0])
		},
	}
	infoCmd.Flags().StringVar(&f.format, "format", "text", "output format: text, json or yaml")
	infoCmd.Flags().StringVarP(&f.outPath, "output", "o", "", "write the json or yaml report to this path")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available option presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "presets:")
			for _, p := range config.ListPresets() {
				fmt.Fprintf(out, "  %s\n", p)
			}
			fmt.Fprintln(out, "themes:")
			for _, t := range viz.ThemeNames() {
				fmt.Fprintf(out, "  %s\n", t)
			}
		},
	}

	rootCmd.AddCommand(viewCmd, renderCmd, infoCmd, presetsCmd)
	return rootCmd
}

// options resolves the viewer options: defaults, then the preset, then the
// config file, then explicit flags.
func (f *flags) options(cmd *cobra.Command) (*config.Options, error) {
	opts := config.DefaultOptions()
	if f.preset != "" {
		opts = config.GetPreset(f.preset)
		if opts == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets())
		}
	}
	if f.configFile != "" {
		cfg, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		opts = cfg
	}
	if cmd.Flags().Changed("copies") {
		opts.ShowCopies = f.copies
	}
	return opts, opts.Validate()
}

func (f *flags) load(cmd *cobra.Command, source string, width, height int) (*viewer.Viewer, error) {
	opts, err := f.options(cmd)
	if err != nil {
		return nil, err
	}
	v := viewer.New(width, height, opts)
	res := viewer.NewDriver(v).Open(cmd.Context(), source)
	if !res.OK {
		return nil, res.Err
	}
	return v, nil
}

func runView(cmd *cobra.Command, f *flags, source string) error {
	opts, err := f.options(cmd)
	if err != nil {
		return err
	}
	return viz.Run(viewer.New(1, 1, opts), source, viz.GetTheme(f.theme))
}

func runRender(cmd *cobra.Command, f *flags, source string) error {
	canvas := viz.NewCanvas(f.cols, f.rows)
	v, err := f.load(cmd, source, f.cols*2, f.rows*4)
	if err != nil {
		return err
	}
	th := viz.GetTheme(f.theme)
	out := cmd.OutOrStdout()

	viz.Draw(canvas, v, th)
	if f.plain {
		fmt.Fprint(out, canvas.String())
	} else {
		fmt.Fprint(out, canvas.Render(th))
	}

	if f.svgPath != "" {
		if err := export.WriteSVG(f.svgPath, canvas, th, 4); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", f.svgPath)
	}
	if f.gifPath != "" {
		frames := viz.Turntable(v, f.cols, f.rows, f.frames, th)
		if err := viz.SaveGIF(f.gifPath, frames); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d frames)\n", f.gifPath, len(frames))
	}
	return nil
}

func runInfo(cmd *cobra.Command, f *flags, source string) error {
	v, err := f.load(cmd, source, 800, 600)
	if err != nil {
		return err
	}
	var r *export.Report
	v.Render(func(sc *scene.Scene, _ *camera.Ortho) { r = export.NewReport(sc) })

	out := cmd.OutOrStdout()
	if f.outPath != "" {
		if f.format == "text" {
			return fmt.Errorf("--output needs --format json or yaml")
		}
		return export.WriteReport(f.outPath, r, f.format)
	}
	if f.format != "text" {
		return export.Encode(out, r, f.format)
	}
	return printReport(out, r)
}

func printReport(out io.Writer, r *export.Report) error {
	fmt.Fprintf(out, "formula: %s\n", r.Formula)
	fmt.Fprintf(out, "lattice: %s %v\n", r.Dimensionality, r.PBC)
	fmt.Fprintf(out, "atoms: %d (%d drawn)\n", r.Atoms, r.Rendered)
	if r.Cell != nil {
		l, a := r.Cell.Lengths, r.Cell.Angles
		fmt.Fprintf(out, "cell: a=%.3f b=%.3f c=%.3f  α=%.2f β=%.2f γ=%.2f\n", l[0], l[1], l[2], a[0], a[1], a[2])
	}
	fmt.Fprintf(out, "bonds: %d (%s)\n", r.Bonds.Count, r.BondMode)
	if len(r.BondLengths) > 0 {
		fmt.Fprintf(out, "profile: %s\n", viz.SparklineChart(r.BondLengths, 40))
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tZ\tCOUNT\tCOLOR")
	for _, s := range r.Species {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", s.Symbol, s.Number, s.Count, s.Color)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(r.BondLengths) > 1 {
		graph := asciigraph.Plot(r.BondLengths,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Precision(3),
			asciigraph.Caption(fmt.Sprintf("bond lengths (Å) min %.3f max %.3f mean %.3f", r.Bonds.Min, r.Bonds.Max, r.Bonds.Mean)),
		)
		fmt.Fprintln(out)
		fmt.Fprintln(out, graph)
	}
	return nil
}
