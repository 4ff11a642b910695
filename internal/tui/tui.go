// Package tui provides a Bubble Tea terminal user interface for ytdl-playlist.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/ytdl-playlist/internal/config"
	ioutils "github.com/handiism/ytdl-playlist/internal/io"
	"github.com/handiism/ytdl-playlist/internal/model"
	"github.com/handiism/ytdl-playlist/internal/resolve"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogs is how many progress lines stay on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateResolving
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   resolve.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	items     []*model.Item
	saved     string
	err       error

	// Resolve context
	ctx    context.Context
	cancel context.CancelFunc

	// Resolve manager reference and its event stream
	manager *resolve.Manager
	events  chan resolve.ProgressEvent

	// Entry progress
	processed int32
	total     int32

	// Options (toggled while the URL field is not focused)
	subtitles bool
	verbose   bool
	skipProbe bool

	width  int
	height int
}

// NewModel creates a new TUI model using settings as the baseline
// configuration. A nil settings value uses the defaults.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "https://www.youtube.com/watch?v=..."
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		subtitles: settings.Subtitles,
		skipProbe: settings.SkipProbe,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent for every event reported by the manager.
	ProgressMsg struct {
		Event resolve.ProgressEvent

		source chan resolve.ProgressEvent
	}

	// ResolveDoneMsg is sent when resolution finishes.
	ResolveDoneMsg struct {
		Items []*model.Item
		Err   error
	}

	// SavedMsg is sent after the playlist was written to disk.
	SavedMsg struct {
		Path string
		Err  error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateResolving {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "tab":
			if m.state == StateInput {
				if m.textInput.Focused() {
					m.textInput.Blur()
				} else {
					cmds = append(cmds, m.textInput.Focus())
				}
				return m, tea.Batch(cmds...)
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.startResolve()
				return m, tea.Batch(m.resolveURL(), m.waitForEvent(), m.tickProgress(), m.spinner.Tick)
			}

		case "s":
			if m.state == StateInput && !m.textInput.Focused() {
				m.subtitles = !m.subtitles
			}

		case "v":
			if m.state == StateInput && !m.textInput.Focused() {
				m.verbose = !m.verbose
			}

		case "p":
			if m.state == StateInput && !m.textInput.Focused() {
				m.skipProbe = !m.skipProbe
			}

		case "w":
			if m.state == StateComplete && len(m.items) > 0 {
				return m, m.savePlaylist()
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new URL
				m.state = StateInput
				m.logs = nil
				m.items = nil
				m.saved = ""
				m.err = nil
				m.processed = 0
				m.total = 0
				m.manager = nil
				m.events = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				cmds = append(cmds, m.textInput.Focus())
				return m, tea.Batch(cmds...)
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.source != m.events {
			// Event from a run that was reset.
			break
		}
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level != resolve.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			if len(m.logs) > maxLogs {
				m.logs = m.logs[len(m.logs)-maxLogs:]
			}
		}
		cmds = append(cmds, m.waitForEvent())

	case ResolveDoneMsg:
		if m.state != StateResolving {
			// Result of a run that was cancelled or reset.
			break
		}
		if m.manager != nil {
			m.processed, m.total = m.manager.GetProgress()
		}
		if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.items = msg.Items
			m.state = StateComplete
		}

	case SavedMsg:
		if msg.Err != nil {
			m.logs = append(m.logs, LogEntry{Message: fmt.Sprintf("Error saving playlist: %v", msg.Err), Level: resolve.LevelError})
		} else {
			m.saved = msg.Path
		}

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateResolving {
			m.processed, m.total = m.manager.GetProgress()

			var percent float64
			if m.total > 0 {
				percent = float64(m.processed) / float64(m.total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput && m.textInput.Focused() {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// startResolve switches to the resolving state and creates the manager
// with the toggled options applied.
func (m *Model) startResolve() {
	settings := *m.settings
	settings.Subtitles = m.subtitles
	settings.SkipProbe = m.skipProbe

	events := make(chan resolve.ProgressEvent, 64)
	m.events = events
	m.manager = resolve.NewManager(&settings, func(event resolve.ProgressEvent) {
		// Never block the resolver on a slow UI.
		select {
		case events <- event:
		default:
		}
	})
	m.state = StateResolving
}

// waitForEvent returns a command delivering the next progress event.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event, source: events}
	}
}

// resolveURL runs the manager in the background.
func (m Model) resolveURL() tea.Cmd {
	ctx, manager, events := m.ctx, m.manager, m.events
	url := strings.TrimSpace(m.textInput.Value())
	return func() tea.Msg {
		items, err := manager.Resolve(ctx, url)
		close(events)
		return ResolveDoneMsg{Items: items, Err: err}
	}
}

// savePlaylist writes the resolved items next to the working directory,
// named after the first item.
func (m Model) savePlaylist() tea.Cmd {
	ctx, manager, items := m.ctx, m.manager, m.items
	name := ioutils.SanitizeFileName(items[0].DisplayName())
	if name == "" {
		name = "playlist"
	}
	path := filepath.Join(".", name+m.settings.ToPlaylistFormat().Extension())
	return func() tea.Msg {
		return SavedMsg{Path: path, Err: manager.WritePlaylist(ctx, path, items)}
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("▶ ytdl-playlist"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Turn video pages into playable playlists"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateResolving:
		b.WriteString(m.viewResolving())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter video or playlist URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Download %s subtitles (s)\n", checkbox(m.subtitles), m.settings.SubtitleLanguage))
	b.WriteString(fmt.Sprintf("  %s Skip page probe (p)\n", checkbox(m.skipProbe)))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (v)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Extractors: %s", strings.Join(m.settings.ExtractorTools, ", "))))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewResolving() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Resolving..."))
	b.WriteString("\n\n")

	if m.total > 0 {
		b.WriteString(m.progress.ViewAs(float64(m.processed) / float64(m.total)))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("Entries: %d/%d", m.processed, m.total)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	b.WriteString(boxStyle.Render(fmt.Sprintf(
		"✓ Resolved %d item(s) from %d entries",
		len(m.items),
		m.total,
	)))
	b.WriteString("\n\n")

	for _, item := range m.items {
		duration := ""
		if secs := item.DurationSeconds(); secs >= 0 {
			duration = fmt.Sprintf(" (%s)", time.Duration(secs)*time.Second)
		}
		b.WriteString(itemStyle.Render(fmt.Sprintf("  ♪ %s%s", item.DisplayName(), duration)))
		b.WriteString("\n")
		for _, opt := range item.Options {
			b.WriteString(dimStyle.Render("      " + opt))
			b.WriteString("\n")
		}
	}

	if m.saved != "" {
		b.WriteString("\n")
		b.WriteString(successStyle.Render("Saved playlist: " + m.saved))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case resolve.LevelError:
			style = errorStyle
			prefix = "✗"
		case resolve.LevelWarning:
			style = warningStyle
			prefix = "!"
		case resolve.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case resolve.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		if m.textInput.Focused() {
			return "enter: resolve • tab: options • esc: quit"
		}
		return "enter: resolve • tab: edit URL • s: subtitles • p: skip probe • v: verbose • esc: quit"
	case StateResolving:
		return "esc: cancel"
	case StateComplete:
		return "w: write playlist • r: new URL • q: quit"
	case StateError:
		return "r: new URL • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
