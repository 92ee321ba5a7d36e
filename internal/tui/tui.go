package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chojs23/mersge/internal/cli"
	"github.com/chojs23/mersge/internal/engine"
	"github.com/chojs23/mersge/internal/markers"
)

const toastDuration = 2 * time.Second

var (
	titleStyle        lipgloss.Style
	paneStyle         lipgloss.Style
	selectedPaneStyle lipgloss.Style
	headerStyle       lipgloss.Style
	footerStyle       lipgloss.Style
	lineNumberStyle   lipgloss.Style

	addedLineStyle      lipgloss.Style
	modifiedLineStyle   lipgloss.Style
	removedLineStyle    lipgloss.Style
	conflictedLineStyle lipgloss.Style
	resolvedLineStyle   lipgloss.Style

	resultResolvedPaneStyle   lipgloss.Style
	resultUnresolvedPaneStyle lipgloss.Style
	statusResolvedStyle       lipgloss.Style
	statusUnresolvedStyle     lipgloss.Style

	toastStyle     lipgloss.Style
	toastLineStyle lipgloss.Style

	dimForeground lipgloss.Color
)

var ErrBackToSelector = fmt.Errorf("back to selector")

type model struct {
	opts    cli.Options
	session *engine.Session

	viewportLocal    viewport.Model
	viewportResult   viewport.Model
	viewportIncoming viewport.Model

	pendingScroll bool
	ready         bool
	width         int
	height        int
	quitting      bool
	toastMessage  string
	toastSeq      int
	err           error
}

// Run starts the TUI for interactive conflict resolution of one file.
func Run(ctx context.Context, opts cli.Options) error {
	if err := ensureThemeLoaded(); err != nil {
		return err
	}

	data, err := os.ReadFile(opts.Path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	doc := markers.Parse(data)
	session := engine.NewSession(doc)

	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "mersge: %s: %d conflict(s)\n", opts.Path, len(doc.Conflicts))
	}

	m := model{
		opts:          opts,
		session:       session,
		pendingScroll: true,
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if m, ok := finalModel.(model); ok {
		return m.err
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

type toastExpiredMsg struct {
	id int
}

func (m *model) showToast(message string) tea.Cmd {
	m.toastMessage = message
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: seq}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case toastExpiredMsg:
		if msg.id == m.toastSeq {
			m.toastMessage = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			m.err = ErrBackToSelector
			m.quitting = true
			return m, tea.Quit

		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			m.session.MoveUp()
			m.pendingScroll = true
			m.updateViewports()

		case "down", "j":
			m.session.MoveDown()
			m.pendingScroll = true
			m.updateViewports()

		case "l":
			m.session.AcceptLocal()
			m.updateViewports()

		case "r":
			m.session.AcceptIncoming()
			m.updateViewports()

		case "w":
			if err := engine.WriteResolved(m.opts.Path, m.session.Document(), m.opts.Backup); err != nil {
				m.err = fmt.Errorf("failed to write resolved: %w", err)
				m.quitting = true
				return m, tea.Quit
			}
			message := "Saved"
			if unresolved := m.session.UnresolvedCount(); unresolved > 0 {
				message = fmt.Sprintf("Saved (%d unresolved)", unresolved)
			}
			return m, m.showToast(message)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 3
		contentHeight := m.height - headerHeight - footerHeight - 6 // borders + padding
		paneWidth := (m.width - 12) / 3                             // 3 panes with borders

		if !m.ready {
			m.viewportLocal = viewport.New(paneWidth, contentHeight)
			m.viewportResult = viewport.New(paneWidth, contentHeight)
			m.viewportIncoming = viewport.New(paneWidth, contentHeight)
			m.ready = true
		} else {
			m.viewportLocal.Width = paneWidth
			m.viewportLocal.Height = contentHeight
			m.viewportResult.Width = paneWidth
			m.viewportResult.Height = contentHeight
			m.viewportIncoming.Width = paneWidth
			m.viewportIncoming.Height = contentHeight
		}
		m.updateViewports()
	}

	m.viewportLocal, cmd = m.viewportLocal.Update(msg)
	cmds = append(cmds, cmd)
	m.viewportResult, cmd = m.viewportResult.Update(msg)
	cmds = append(cmds, cmd)
	m.viewportIncoming, cmd = m.viewportIncoming.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	if m.quitting {
		if m.err != nil {
			if errors.Is(m.err, ErrBackToSelector) {
				// Also shown when a single file was opened directly, so
				// the wording stays mode-neutral.
				return "\n  Closed.\n"
			}
			return fmt.Sprintf("\n  Error: %v\n", m.err)
		}
		return "\n  Done.\n"
	}

	header := headerStyle.Render(fmt.Sprintf("%s - %s", m.opts.Path, m.conflictStatus()))

	view, hasConflict := m.session.Current()

	localStyle := paneStyle
	incomingStyle := paneStyle
	if hasConflict {
		switch view.Resolution {
		case markers.ResolutionLocal:
			localStyle = selectedPaneStyle
		case markers.ResolutionIncoming:
			incomingStyle = selectedPaneStyle
		}
	}

	localPane := localStyle.Render(
		titleStyle.Render("LOCAL") + "\n" +
			m.viewportLocal.View(),
	)

	resultStyle := resultUnresolvedPaneStyle
	if m.session.Resolved() {
		resultStyle = resultResolvedPaneStyle
	}
	resultPane := resultStyle.Render(
		titleStyle.Render("RESULT "+m.resolutionStatus(view, hasConflict)) + "\n" +
			m.viewportResult.View(),
	)

	incomingPane := incomingStyle.Render(
		titleStyle.Render("INCOMING") + "\n" +
			m.viewportIncoming.View(),
	)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, localPane, resultPane, incomingPane)

	footerText := footerStyle.Width(m.width).Render(
		"up/down: move | l: accept local | r: accept incoming | w: write | q: quit",
	)
	footer := lipgloss.JoinVertical(lipgloss.Left, footerText, m.renderToastLine())

	return lipgloss.JoinVertical(lipgloss.Left, header, panes, footer)
}

func (m model) conflictStatus() string {
	view, ok := m.session.Current()
	if !ok {
		return "No conflicts"
	}
	status := fmt.Sprintf("Conflict %d/%d", view.Position+1, view.Total)
	if unresolved := m.session.UnresolvedCount(); unresolved > 0 {
		status += fmt.Sprintf(" | %d unresolved", unresolved)
	}
	return status
}

func (m model) resolutionStatus(view engine.ConflictView, hasConflict bool) string {
	if !hasConflict {
		return statusResolvedStyle.Render("(clean)")
	}
	switch view.Resolution {
	case markers.ResolutionLocal:
		return statusResolvedStyle.Render("(local)")
	case markers.ResolutionIncoming:
		return statusResolvedStyle.Render("(incoming)")
	default:
		return statusUnresolvedStyle.Render("(unresolved)")
	}
}

func (m model) renderToastLine() string {
	content := ""
	if m.toastMessage != "" {
		content = toastStyle.Render(m.toastMessage)
	}
	return toastLineStyle.Width(m.width).Render(content)
}

func (m *model) updateViewports() {
	doc := m.session.Document()
	active := m.session.ActiveIndex()

	localLines, localStart := buildPaneLines(doc, paneLocal, active)
	m.viewportLocal.SetContent(renderLines(localLines))
	if m.pendingScroll {
		ensureVisible(&m.viewportLocal, localStart, len(localLines))
	}

	incomingLines, incomingStart := buildPaneLines(doc, paneIncoming, active)
	m.viewportIncoming.SetContent(renderLines(incomingLines))
	if m.pendingScroll {
		ensureVisible(&m.viewportIncoming, incomingStart, len(incomingLines))
	}

	resultLines, resultStart := buildResultLines(doc, active)
	m.viewportResult.SetContent(renderLines(resultLines))
	if m.pendingScroll {
		ensureVisible(&m.viewportResult, resultStart, len(resultLines))
		m.pendingScroll = false
	}
}

func ensureVisible(viewportModel *viewport.Model, start int, total int) {
	if viewportModel.Height <= 0 {
		return
	}
	if total <= 0 {
		viewportModel.YOffset = 0
		return
	}

	maxOffset := total - viewportModel.Height
	if maxOffset < 0 {
		maxOffset = 0
	}

	margin := 2
	target := start - margin
	if target < 0 {
		target = 0
	}
	if target > maxOffset {
		target = maxOffset
	}
	viewportModel.YOffset = target
}
