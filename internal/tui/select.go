package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FileCandidate is one conflicted file offered by the picker. Pending is
// the number of conflict regions still present in the working-tree copy,
// zero for a file whose markers are already gone.
type FileCandidate struct {
	Path    string
	Pending int
}

// ErrSelectorQuit reports that the user left the picker without choosing.
var ErrSelectorQuit = errors.New("no file chosen")

var (
	pickerCleanStyle   lipgloss.Style
	pickerPendingStyle lipgloss.Style
)

type candidateItem struct {
	candidate FileCandidate
}

func (c candidateItem) Title() string       { return c.candidate.Path }
func (c candidateItem) Description() string { return "" }
func (c candidateItem) FilterValue() string { return c.candidate.Path }

// badge summarizes the file's remaining work next to its path.
func (c candidateItem) badge() string {
	switch c.candidate.Pending {
	case 0:
		return "clean"
	case 1:
		return "1 conflict"
	default:
		return fmt.Sprintf("%d conflicts", c.candidate.Pending)
	}
}

type candidateDelegate struct{}

func (candidateDelegate) Height() int                         { return 1 }
func (candidateDelegate) Spacing() int                        { return 0 }
func (candidateDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (candidateDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(candidateItem)
	if !ok {
		return
	}

	marker := "  "
	if index == m.Index() {
		marker = "> "
	}

	badgeStyle := pickerPendingStyle
	if entry.candidate.Pending == 0 {
		badgeStyle = pickerCleanStyle
	}

	fmt.Fprintf(w, "%s%s  %s", marker, entry.candidate.Path, badgeStyle.Render(entry.badge()))
}

type pickerModel struct {
	files   list.Model
	choice  string
	quitErr error
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitErr = ErrSelectorQuit
			return m, tea.Quit
		case "enter":
			if entry, ok := m.files.SelectedItem().(candidateItem); ok {
				m.choice = entry.candidate.Path
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		height := msg.Height - 2
		if height < 3 {
			height = 3
		}
		m.files.SetSize(msg.Width, height)
	}

	var cmd tea.Cmd
	m.files, cmd = m.files.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	return m.files.View() + "\nenter: open  up/down: move  q: cancel"
}

// SelectFile shows the conflicted-file picker and returns the chosen path.
// Leaving without a choice yields ErrSelectorQuit.
func SelectFile(ctx context.Context, candidates []FileCandidate) (string, error) {
	if err := ensureThemeLoaded(); err != nil {
		return "", err
	}

	items := make([]list.Item, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, candidateItem{candidate: candidate})
	}

	picker := pickerModel{files: list.New(items, candidateDelegate{}, 0, 0)}
	picker.files.Title = "Conflicted files"
	picker.files.SetShowHelp(false)
	picker.files.SetShowStatusBar(false)
	picker.files.SetShowPagination(false)
	picker.files.SetFilteringEnabled(false)

	final, err := tea.NewProgram(picker, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", fmt.Errorf("file picker: %w", err)
	}

	done, ok := final.(pickerModel)
	if !ok {
		return "", errors.New("file picker returned unexpected model")
	}
	if done.quitErr != nil {
		return "", done.quitErr
	}
	if done.choice == "" {
		return "", ErrSelectorQuit
	}
	return done.choice, nil
}
