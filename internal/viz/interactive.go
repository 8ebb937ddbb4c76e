package viz

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/san-kum/structview/internal/config"
	"github.com/san-kum/structview/internal/logging"
	"github.com/san-kum/structview/internal/structure"
	"github.com/san-kum/structview/internal/viewer"
)

const (
	tickRate      = time.Second / 30
	recordingPath = "structview.gif"
)

type TickMsg time.Time

// loadedMsg carries the outcome of a background fetch.
type loadedMsg struct {
	seq  uint64
	desc *structure.Descriptor
	err  error
}

// App is the interactive terminal viewer.
type App struct {
	viewer *viewer.Viewer
	driver *viewer.Driver
	source string
	theme  Theme

	width, height int
	canvas        *Canvas
	view          string
	snap          Snapshot

	message   string
	failed    bool
	loading   bool
	tick      int
	showHelp  bool
	recording bool
	frames    []*image.Paletted
}

// NewApp creates a viewer app for source. An empty source starts with an
// empty canvas.
func NewApp(v *viewer.Viewer, source string, th Theme) App {
	return App{
		viewer:  v,
		driver:  viewer.NewDriver(v),
		source:  source,
		theme:   th,
		width:   80,
		height:  24,
		canvas:  NewCanvas(80-PanelWidth-6, 23),
		loading: source != "",
	}
}

// SetFetch replaces how sources are resolved.
func (m *App) SetFetch(f viewer.FetchFunc) {
	m.driver.Fetch = f
}

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m App) Init() tea.Cmd {
	if m.source == "" {
		return tick()
	}
	return tea.Batch(tick(), m.load())
}

func (m *App) load() tea.Cmd {
	m.loading = true
	seq := m.viewer.Begin()
	fetch, source := m.driver.Fetch, m.source
	return func() tea.Msg {
		d, err := fetch(context.Background(), source)
		return loadedMsg{seq: seq, desc: d, err: err}
	}
}

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case loadedMsg:
		res, stale := m.viewer.Complete(msg.seq, msg.desc, msg.err)
		if stale {
			return m, nil
		}
		m.loading = false
		m.setResult(res.Message, res.Err)
		m.driver.Invalidate()
		return m, nil
	case TickMsg:
		m.tick++
		m.driver.Tick(func() { m.redraw() })
		return m, tick()
	}
	return m, nil
}

func (m *App) resize(w, h int) {
	m.width, m.height = w, h
	cols := max(w-PanelWidth-6, 10)
	rows := max(h-1, 5)
	m.canvas = NewCanvas(cols, rows)
	m.viewer.Resize(m.canvas.Pixels())
	m.driver.Invalidate()
}

func (m *App) redraw() {
	snap, _ := Draw(m.canvas, m.viewer, m.theme)
	m.snap = snap
	m.view = m.canvas.Render(m.theme)
	if m.recording {
		m.frames = append(m.frames, m.canvas.Image(m.theme, frameCellW, frameCellH))
	}
}

func (m *App) setResult(msg string, err error) {
	m.message, m.failed = msg, err != nil
}

func (m App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if m.showHelp && msg.String() != "ctrl+c" {
		m.showHelp = false
		return m, nil
	}

	changed := false
	switch msg.String() {
	case "q", "ctrl+c":
		if m.recording {
			m.stopRecording()
		}
		return m, tea.Quit
	case "left", "h":
		changed = m.viewer.Rotate(-1, 0)
	case "right", "l":
		changed = m.viewer.Rotate(1, 0)
	case "up", "k":
		changed = m.viewer.Rotate(0, -1)
	case "down", "j":
		changed = m.viewer.Rotate(0, 1)
	case "shift+left", "H":
		changed = m.viewer.Pan(-1, 0)
	case "shift+right", "L":
		changed = m.viewer.Pan(1, 0)
	case "shift+up", "K":
		changed = m.viewer.Pan(0, 1)
	case "shift+down", "J":
		changed = m.viewer.Pan(0, -1)
	case "+", "=":
		changed = m.viewer.Zoom(1)
	case "-", "_":
		changed = m.viewer.Zoom(-1)
	case "f":
		m.report(m.viewer.Fit())
		changed = true
	case "r":
		m.report(m.viewer.ResetView())
		changed = true
	case "ctrl+r":
		if m.source != "" {
			cmd := m.load()
			return m, cmd
		}
	case "b":
		changed = m.toggle(func(o *config.Options) { o.ShowBonds = !o.ShowBonds })
	case "c":
		changed = m.toggle(func(o *config.Options) { o.ShowCell = !o.ShowCell })
	case "p":
		changed = m.toggle(func(o *config.Options) { o.ShowParam = !o.ShowParam })
	case "e":
		changed = m.toggle(func(o *config.Options) { o.ShowLegend = !o.ShowLegend })
	case "a":
		changed = m.toggle(func(o *config.Options) { o.ShowTags = !o.ShowTags })
	case "v":
		changed = m.toggle(func(o *config.Options) { o.ShowVacancies = !o.ShowVacancies })
	case "s":
		changed = m.toggle(func(o *config.Options) { o.ShowShadows = !o.ShowShadows })
	case "o":
		changed = m.toggle(func(o *config.Options) { o.ShowCopies = !o.ShowCopies })
	case "w":
		changed = m.toggle(func(o *config.Options) { o.Wrap = !o.Wrap })
	case "t":
		m.theme = NextTheme(m.theme)
		changed = true
	case "g":
		if m.recording {
			m.stopRecording()
		} else {
			m.recording, m.frames = true, nil
		}
		changed = true
	case "?":
		m.showHelp = true
	}
	if changed {
		m.driver.Invalidate()
	}
	return m, nil
}

func (m *App) toggle(fn func(*config.Options)) bool {
	if err := m.viewer.Update(fn); err != nil {
		m.setResult(err.Error(), err)
		return false
	}
	return true
}

func (m *App) report(err error) {
	if err != nil {
		m.setResult(err.Error(), err)
	}
}

func (m *App) stopRecording() {
	m.recording = false
	if len(m.frames) == 0 {
		return
	}
	if err := SaveGIF(recordingPath, m.frames); err != nil {
		m.setResult(err.Error(), err)
	} else {
		logging.Logger().Info("recording saved", "path", recordingPath, "frames", len(m.frames))
		m.setResult("saved "+recordingPath, nil)
	}
	m.frames = nil
}

func (m App) View() string {
	title := m.source
	if title == "" {
		title = "structview"
	}
	panel := Panel(PanelInfo{
		Title:     title,
		Message:   m.message,
		Failed:    m.failed,
		Loading:   m.loading,
		Recording: m.recording,
		Frames:    len(m.frames),
		Tick:      m.tick,
		State:     m.viewer.State(),
		Snapshot:  m.snap,
	}, m.theme)
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.view), panel)
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

var helpText = BoxWithTitle("KEYBOARD SHORTCUTS", strings.Join([]string{
	"←→↑↓ / hjkl   rotate",
	"shift+arrows  pan",
	"+ / -         zoom",
	"f             fit to canvas",
	"r             reset view",
	"ctrl+r        reload source",
	"b c p         bonds, cell, params",
	"e a v         legend, tags, vacancies",
	"s o w         shadows, copies, wrap",
	"t             cycle themes",
	"g             toggle gif recording",
	"q             quit",
}, "\n"), 40)

// ErrNoSurface is returned when there is no terminal to draw on.
var ErrNoSurface = errors.New("viz: no terminal render surface")

// Run starts the interactive viewer on the alternate screen of stdout.
func Run(v *viewer.Viewer, source string, th Theme) error {
	return RunOn(os.Stdout, v, source, th)
}

// RunOn starts the interactive viewer on out. A missing terminal is logged
// once at Warn and reported as ErrNoSurface.
func RunOn(out *os.File, v *viewer.Viewer, source string, th Theme) error {
	if out == nil || !isatty.IsTerminal(out.Fd()) && !isatty.IsCygwinTerminal(out.Fd()) {
		return noSurface(nil)
	}
	p := tea.NewProgram(NewApp(v, source, th), tea.WithAltScreen(), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return noSurface(err)
	}
	return nil
}

func noSurface(cause error) error {
	logging.Logger().Warn("render surface unavailable", "err", cause)
	if cause == nil {
		return ErrNoSurface
	}
	return fmt.Errorf("%w: %v", ErrNoSurface, cause)
}
