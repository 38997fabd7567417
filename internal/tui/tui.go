// Package tui is a terminal front end for a running session
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/memory-beacon/internal/game"
)

const (
	refreshInterval = 250 * time.Millisecond
	commandTimeout  = 5 * time.Second
	shownNotices    = 6
)

type model struct {
	runner        *game.Runner
	textInput     textinput.Model
	viewport      viewport.Model
	status        game.Status
	notifications []string
	gameLog       string
	width         int
	height        int
	err           error
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

// NewModel creates the terminal model over runner
func NewModel(runner *game.Runner) model {
	ti := textinput.New()
	ti.Placeholder = "Type 'new' to begin, or 'help'..."
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 40

	return model{
		runner:    runner,
		textInput: ti,
		viewport:  viewport.New(80, 20),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refresh(), tick())
}

// outcomeMsg is the result of a command plus the state it left behind
type outcomeMsg struct {
	text          string
	status        game.Status
	notifications []string
	err           error
}

// refreshMsg carries the latest state between commands
type refreshMsg struct {
	status        game.Status
	notifications []string
}

type tickMsg time.Time

type errMsg struct {
	err error
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			line := strings.TrimSpace(m.textInput.Value())
			if line == "" {
				return m, nil
			}
			m.textInput.Reset()
			m.appendLog(userStyle.Width(m.logWidth()).Render("> " + line))

			act, err := parseCommand(line)
			if err == errQuit {
				return m, tea.Quit
			}
			if err != nil {
				m.appendLog(errorStyle.Render(err.Error()))
				return m, nil
			}
			return m, m.execute(act)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = max(msg.Height-6, 1)
		m.viewport.SetContent(m.gameLog)

	case outcomeMsg:
		if msg.err != nil {
			m.appendLog(errorStyle.Render(errorText(msg.err)))
		} else if msg.text != "" {
			m.appendLog(gameStyle.Width(m.logWidth()).Render(msg.text))
		}
		m.status, m.notifications = msg.status, msg.notifications
		return m, nil

	case refreshMsg:
		m.status, m.notifications = msg.status, msg.notifications
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), tick())

	case errMsg:
		m.err = msg.err
		return m, tea.Quit
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *model) appendLog(text string) {
	if m.gameLog != "" {
		m.gameLog += "\n\n"
	}
	m.gameLog += text
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) logWidth() int {
	if m.width == 0 {
		return 80
	}
	return int(float64(m.width) * 0.70)
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.err)
	}

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		m.renderState(),
	)
	help := helpStyle.Render("Commands: " + helpText)

	return "\n" + lipgloss.JoinVertical(lipgloss.Left,
		mainView,
		"\n"+m.textInput.View(),
		"\n"+help,
	) + "\n"
}

func (m model) renderState() string {
	st := m.status
	var b strings.Builder

	b.WriteString(titleStyle.Render("SCENE") + "\n")
	if !st.Started {
		b.WriteString("(no game)\n\n")
	} else {
		fmt.Fprintf(&b, "%s\n(%.1f, %.1f)\n\n", st.Scene, st.Player.Position.X, st.Player.Position.Z)
	}

	b.WriteString(titleStyle.Render("SANITY") + "\n")
	b.WriteString(sanityBar(st.Sanity, st.Intensity, 20) + "\n\n")

	if st.Target != "" {
		b.WriteString(titleStyle.Render("NEARBY") + "\n")
		b.WriteString(st.Hint + "\n\n")
	}
	if st.Device != "" || st.ActivePuzzle != "" {
		b.WriteString(titleStyle.Render("PUZZLE") + "\n")
		b.WriteString(currentID(st) + "\n\n")
	}

	fmt.Fprintf(&b, "%s\n%d/%d photos, %d/%d puzzles\n\n",
		titleStyle.Render("PROGRESS"), st.PhotosFound, st.TotalPhotos, st.PuzzlesSolved, st.PuzzleCount)

	b.WriteString(titleStyle.Render("INVENTORY") + "\n")
	if len(st.Inventory) == 0 {
		b.WriteString("(empty)\n")
	}
	for _, item := range st.Inventory {
		fmt.Fprintf(&b, "%d. %s", item.Slot+1, item.Name)
		if item.Quantity > 1 {
			fmt.Fprintf(&b, " x%d", item.Quantity)
		}
		b.WriteByte('\n')
	}

	if len(m.notifications) > 0 {
		b.WriteString("\n" + titleStyle.Render("LOG") + "\n")
		notices := m.notifications
		if len(notices) > shownNotices {
			notices = notices[len(notices)-shownNotices:]
		}
		b.WriteString(strings.Join(notices, "\n"))
	}

	width := max(m.width-m.logWidth()-4, 20)
	return stateStyle.Width(width).Height(m.viewport.Height).Render(b.String())
}

func currentID(st game.Status) string {
	if st.Device != "" {
		return st.Device
	}
	return st.ActivePuzzle
}

// sanityBar draws sanity as a bar that reddens with the distortion intensity
func sanityBar(sanity, intensity float64, width int) string {
	filled := int(sanity / game.MaxSanity * float64(width))
	filled = min(max(filled, 0), width)
	color := "#5FD75F"
	switch {
	case intensity >= 0.7:
		color = "#FF5F5F"
	case intensity >= 0.3:
		color = "#FFAF5F"
	}
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("#", filled))
	return fmt.Sprintf("%s%s %.0f", bar, strings.Repeat(".", width-filled), sanity)
}

func (m model) execute(act action) tea.Cmd {
	runner := m.runner
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		value, err := runner.Do(ctx, func(s *game.Session) (any, error) {
			text, err := act(s)
			return outcomeMsg{text: text, err: err, status: s.Status(), notifications: s.Notifications()}, nil
		})
		if err != nil {
			return errMsg{err}
		}
		return value.(outcomeMsg)
	}
}

func (m model) refresh() tea.Cmd {
	runner := m.runner
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		value, err := runner.Do(ctx, func(s *game.Session) (any, error) {
			return refreshMsg{status: s.Status(), notifications: s.Notifications()}, nil
		})
		if err != nil {
			return errMsg{err}
		}
		return value.(refreshMsg)
	}
}

// Run starts the terminal UI and blocks until the player quits
func Run(runner *game.Runner) error {
	p := tea.NewProgram(NewModel(runner), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
