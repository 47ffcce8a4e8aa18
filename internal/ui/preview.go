package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/wallhub/internal/emulator"
	"github.com/bnema/wallhub/internal/wallpaper"
)

// DefaultPreviewScreens is the number of home screens faked when paging without
// a paging emulator
const DefaultPreviewScreens = 5

// PreviewOptions configures a PreviewModel
type PreviewOptions struct {
	FPS     int
	Screens int              // home screens faked by the arrow keys
	Now     func() time.Time // clock used for tap timing, time.Now when nil
	MaxLogs int
}

type tickMsg time.Time

// PreviewModel drives a simulated wallpaper hub from a terminal: the window is
// the render surface, mouse clicks are taps and arrow keys page between home
// screens like a launcher would
type PreviewModel struct {
	hub     *wallpaper.Hub
	surface *TerminalSurface
	opts    PreviewOptions

	viewport viewport.Model
	ready    bool

	windowWidth  int
	windowHeight int

	lastTick time.Time
	taps     int

	logs      []string
	logsDirty bool

	unsubscribe []func()
}

// NewPreviewModel creates a preview for hub, which must have been created with
// surface
func NewPreviewModel(hub *wallpaper.Hub, surface *TerminalSurface, opts PreviewOptions) *PreviewModel {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Screens < 1 {
		opts.Screens = DefaultPreviewScreens
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxLogs <= 0 {
		opts.MaxLogs = 500
	}

	m := &PreviewModel{
		hub:     hub,
		surface: surface,
		opts:    opts,
	}
	m.subscribe()
	return m
}

func (m *PreviewModel) subscribe() {
	h := m.hub
	m.unsubscribe = []func(){
		h.OnVisibilityChanged(func(visible bool) {
			m.addLog("visibility", fmt.Sprintf("visible=%v", visible))
		}),
		h.OnPreviewChanged(func(preview bool) {
			m.addLog("preview", fmt.Sprintf("preview=%v", preview))
		}),
		h.OnDesiredSizeChanged(func(size wallpaper.Size) {
			m.addLog("size", fmt.Sprintf("%dx%d", size.Width, size.Height))
		}),
		h.OnOffsetsChanged(func(state wallpaper.OffsetState) {
			m.addLog("offsets", fmt.Sprintf("offset=(%.3f, %.3f) step=(%.3f, %.3f) pixel=(%d, %d)",
				state.Offset.X, state.Offset.Y,
				state.OffsetStep.X, state.OffsetStep.Y,
				state.PixelOffset.X, state.PixelOffset.Y))
		}),
		h.OnMultiTapDetected(func(pos wallpaper.Vector2) {
			m.taps++
			m.addLog("multitap", fmt.Sprintf("at (%.0f, %.0f)", pos.X, pos.Y))
		}),
		h.OnPreferenceChanged(func(key string) {
			m.addLog("preference", key)
		}),
		h.OnPreferencesActivityTriggered(func() {
			m.addLog("preferences", "activity triggered")
		}),
		h.OnCustomEvent(func(ev wallpaper.CustomEvent) {
			m.addLog("custom", ev.Name+" "+ev.Data)
		}),
	}
}

// Close removes the model's hub subscriptions
func (m *PreviewModel) Close() {
	for _, unsubscribe := range m.unsubscribe {
		unsubscribe()
	}
	m.unsubscribe = nil
}

// MultiTaps returns the number of multi-taps detected so far
func (m *PreviewModel) MultiTaps() int {
	return m.taps
}

// Logs returns the event log lines, oldest first
func (m *PreviewModel) Logs() []string {
	return append([]string(nil), m.logs...)
}

func (m *PreviewModel) interval() time.Duration {
	return time.Second / time.Duration(m.opts.FPS)
}

func (m *PreviewModel) tick() tea.Cmd {
	return tea.Tick(m.interval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model
func (m *PreviewModel) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model
func (m *PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tickMsg:
		now := time.Time(msg)
		dt := m.interval()
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick)
		}
		m.lastTick = now
		m.hub.Tick(dt)
		cmds = append(cmds, m.tick())

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.hub.DetectMultiTap(m.surface.CellCenter(msg.X, msg.Y), m.opts.Now())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "v":
			m.hub.SetVisibility(!m.hub.IsVisible())
		case "p":
			m.hub.SetPreviewMode(!m.hub.IsPreview())
		case "left", "h":
			m.page(-1)
		case "right", "l":
			m.page(1)
		case "g":
			m.viewport.GotoTop()
		case "G":
			m.viewport.GotoBottom()
		}
	}

	if m.logsDirty && m.ready {
		m.viewport.SetContent(m.renderLogs())
		m.viewport.GotoBottom()
		m.logsDirty = false
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// page moves one home screen left or right. A paging emulator is driven directly;
// otherwise the model reports offsets the way a launcher would.
func (m *PreviewModel) page(dir int) {
	if p, ok := m.hub.Emulator().(*emulator.Paging); ok {
		if dir < 0 {
			p.Previous()
		} else {
			p.Next()
		}
		return
	}

	var step float64
	if m.opts.Screens > 1 {
		step = 1 / float64(m.opts.Screens-1)
	}

	current := m.hub.Offset()
	x := math.Max(0, math.Min(1, current.Offset.X+float64(dir)*step))
	width := float64(m.surface.Size().Width)

	m.hub.SetOffset(
		wallpaper.Vector2{X: x, Y: current.Offset.Y},
		wallpaper.Vector2{X: step},
		wallpaper.Point{X: -int(math.Round(x * width))},
	)
}

func (m *PreviewModel) resize(width, height int) {
	m.windowWidth = width
	m.windowHeight = height
	m.surface.Resize(width, height)

	logHeight := max(1, height-m.chromeHeight())
	if !m.ready {
		m.viewport = viewport.New(width, logHeight)
		m.ready = true
		m.logsDirty = true
		return
	}

	m.viewport.Width = width
	m.viewport.Height = logHeight
}

// chromeHeight is the number of lines around the log viewport
func (m *PreviewModel) chromeHeight() int {
	return lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderState()) + 1
}

func (m *PreviewModel) addLog(kind, message string) {
	stamp := m.opts.Now().Format("15:04:05.000")
	line := fmt.Sprintf("  %s %s %s",
		SubtleStyle.Render(stamp),
		InfoStyle.Render(fmt.Sprintf("%-11s", kind)),
		TextStyle.Render(message))

	m.logs = append(m.logs, line)
	if len(m.logs) > m.opts.MaxLogs {
		m.logs = m.logs[len(m.logs)-m.opts.MaxLogs:]
	}
	m.logsDirty = true
}

// View implements tea.Model
func (m *PreviewModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderState())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m *PreviewModel) renderHeader() string {
	return TitleBarStyle.Width(m.windowWidth).Render("WALLHUB PREVIEW")
}

func (m *PreviewModel) renderState() string {
	h := m.hub
	state := h.Offset()
	surface := m.surface.Size()
	desired := h.DesiredSize()
	taps := h.Taps()

	emulatorName := "none"
	if e := h.Emulator(); e != nil {
		emulatorName = strings.ToLower(strings.TrimPrefix(fmt.Sprintf("%T", e), "*emulator."))
	}

	rows := []string{
		FormatFlag(h.IsVisible(), "visible") + "   " + FormatFlag(h.IsPreview(), "preview"),
		FormatField("surface", fmt.Sprintf("%dx%d px", surface.Width, surface.Height)),
		FormatField("desired size", fmt.Sprintf("%dx%d px", desired.Width, desired.Height)),
		FormatField("offset", fmt.Sprintf("%.3f, %.3f  step %.3f, %.3f  pixel %d, %d",
			state.Offset.X, state.Offset.Y, state.OffsetStep.X, state.OffsetStep.Y,
			state.PixelOffset.X, state.PixelOffset.Y)),
		FormatField("home screen", FormatHomeScreens(state.HomeScreenCount(), state.CurrentHomeScreen())),
		FormatField("emulator", emulatorName),
		FormatField("taps", fmt.Sprintf("%d within %s, radius %.0f%%  %s %d detected",
			taps.NumberOfTaps(), taps.MaxTimeBetweenTaps(), taps.TapZoneRadiusRelative()*100,
			IconTap, m.taps)),
	}

	return PanelStyle.Render(strings.Join(rows, "\n"))
}

func (m *PreviewModel) renderStatusBar() string {
	controls := []string{
		FormatControl("[q]", "quit"),
		FormatControl("[v]", "visibility"),
		FormatControl("[p]", "preview"),
		FormatControl("[←/→]", "page"),
		FormatControl("[click]", "tap"),
		FormatControl("[g/G]", "top/bottom"),
	}

	return StatusBarStyle.Width(m.windowWidth).Render(strings.Join(controls, " │ "))
}

func (m *PreviewModel) renderLogs() string {
	if len(m.logs) == 0 {
		return lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Italic(true).
			Render("  Waiting for events...")
	}
	return strings.Join(m.logs, "\n")
}
