package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const themeConfigFileName = "themes.json"

type ThemeConfig struct {
	Default string           `json:"default"`
	Themes  map[string]Theme `json:"themes"`
}

// Theme holds every color the resolver view uses. Empty fields fall back
// to the built-in default so a config may override only a few colors.
type Theme struct {
	Name string `json:"-"`

	TitleFg            string `json:"title_fg"`
	PaneBorder         string `json:"pane_border"`
	SelectedPaneBorder string `json:"selected_pane_border"`
	HeaderBg           string `json:"header_bg"`
	HeaderFg           string `json:"header_fg"`
	FooterBg           string `json:"footer_bg"`
	FooterFg           string `json:"footer_fg"`
	LineNumberFg       string `json:"line_number"`

	AddedBg      string `json:"added_bg"`
	AddedFg      string `json:"added_fg"`
	ModifiedBg   string `json:"modified_bg"`
	ModifiedFg   string `json:"modified_fg"`
	RemovedBg    string `json:"removed_bg"`
	RemovedFg    string `json:"removed_fg"`
	ConflictedBg string `json:"conflicted_bg"`
	ConflictedFg string `json:"conflicted_fg"`
	ResolvedFg   string `json:"resolved_fg"`

	ResultResolvedBorder   string `json:"result_resolved_border"`
	ResultUnresolvedBorder string `json:"result_unresolved_border"`
	StatusResolvedFg       string `json:"status_resolved_fg"`
	StatusUnresolvedFg     string `json:"status_unresolved_fg"`

	ToastBg string `json:"toast_bg"`
	ToastFg string `json:"toast_fg"`

	SelectorResolvedFg   string `json:"selector_resolved_fg"`
	SelectorUnresolvedFg string `json:"selector_unresolved_fg"`

	DimFg string `json:"dim_fg"`
}

var (
	themeOnce sync.Once
	themeErr  error
)

func init() {
	applyTheme(defaultTheme())
}

func ensureThemeLoaded() error {
	themeOnce.Do(func() {
		theme, err := loadThemeFromConfig()
		if err != nil {
			themeErr = err
			return
		}
		applyTheme(theme)
	})
	return themeErr
}

func loadThemeFromConfig() (Theme, error) {
	fallback := defaultTheme()
	configPath, err := themeConfigPath()
	if err != nil {
		return fallback, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fallback, nil
		}
		return Theme{}, fmt.Errorf("read theme config: %w", err)
	}

	var cfg ThemeConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Theme{}, fmt.Errorf("parse theme config: %w", err)
	}

	themeName := strings.TrimSpace(cfg.Default)
	if themeName == "" {
		themeName = "default"
	}

	theme, ok := cfg.Themes[themeName]
	if !ok {
		return Theme{}, fmt.Errorf("theme %q not found in %s", themeName, configPath)
	}
	theme.Name = themeName
	return mergeTheme(fallback, theme), nil
}

func themeConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "mersge", themeConfigFileName), nil
}

func defaultTheme() Theme {
	return Theme{
		Name:               "default",
		TitleFg:            "170",
		PaneBorder:         "255",
		SelectedPaneBorder: "33",
		HeaderBg:           "62",
		HeaderFg:           "230",
		FooterBg:           "236",
		FooterFg:           "243",
		LineNumberFg:       "241",

		AddedBg:      "28",
		AddedFg:      "231",
		ModifiedBg:   "24",
		ModifiedFg:   "231",
		RemovedBg:    "237",
		RemovedFg:    "250",
		ConflictedBg: "131",
		ConflictedFg: "231",
		ResolvedFg:   "42",

		ResultResolvedBorder:   "42",
		ResultUnresolvedBorder: "196",
		StatusResolvedFg:       "42",
		StatusUnresolvedFg:     "196",

		ToastBg: "22",
		ToastFg: "230",

		SelectorResolvedFg:   "42",
		SelectorUnresolvedFg: "196",

		DimFg: "244",
	}
}

func mergeTheme(base, over Theme) Theme {
	merged := base
	merged.Name = over.Name

	pick := func(dst *string, value string) {
		if strings.TrimSpace(value) != "" {
			*dst = value
		}
	}

	pick(&merged.TitleFg, over.TitleFg)
	pick(&merged.PaneBorder, over.PaneBorder)
	pick(&merged.SelectedPaneBorder, over.SelectedPaneBorder)
	pick(&merged.HeaderBg, over.HeaderBg)
	pick(&merged.HeaderFg, over.HeaderFg)
	pick(&merged.FooterBg, over.FooterBg)
	pick(&merged.FooterFg, over.FooterFg)
	pick(&merged.LineNumberFg, over.LineNumberFg)
	pick(&merged.AddedBg, over.AddedBg)
	pick(&merged.AddedFg, over.AddedFg)
	pick(&merged.ModifiedBg, over.ModifiedBg)
	pick(&merged.ModifiedFg, over.ModifiedFg)
	pick(&merged.RemovedBg, over.RemovedBg)
	pick(&merged.RemovedFg, over.RemovedFg)
	pick(&merged.ConflictedBg, over.ConflictedBg)
	pick(&merged.ConflictedFg, over.ConflictedFg)
	pick(&merged.ResolvedFg, over.ResolvedFg)
	pick(&merged.ResultResolvedBorder, over.ResultResolvedBorder)
	pick(&merged.ResultUnresolvedBorder, over.ResultUnresolvedBorder)
	pick(&merged.StatusResolvedFg, over.StatusResolvedFg)
	pick(&merged.StatusUnresolvedFg, over.StatusUnresolvedFg)
	pick(&merged.ToastBg, over.ToastBg)
	pick(&merged.ToastFg, over.ToastFg)
	pick(&merged.SelectorResolvedFg, over.SelectorResolvedFg)
	pick(&merged.SelectorUnresolvedFg, over.SelectorUnresolvedFg)
	pick(&merged.DimFg, over.DimFg)

	return merged
}

func applyTheme(theme Theme) {
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.TitleFg)).
		Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.PaneBorder)).
		Padding(0, 1)

	selectedPaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.SelectedPaneBorder)).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Background(lipgloss.Color(theme.HeaderBg)).
		Foreground(lipgloss.Color(theme.HeaderFg)).
		Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(theme.FooterBg)).
		Foreground(lipgloss.Color(theme.FooterFg)).
		Padding(0, 2)

	lineNumberStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.LineNumberFg))

	addedLineStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(theme.AddedBg)).
		Foreground(lipgloss.Color(theme.AddedFg))

	modifiedLineStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(theme.ModifiedBg)).
		Foreground(lipgloss.Color(theme.ModifiedFg))

	removedLineStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(theme.RemovedBg)).
		Foreground(lipgloss.Color(theme.RemovedFg))

	conflictedLineStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(theme.ConflictedBg)).
		Foreground(lipgloss.Color(theme.ConflictedFg))

	resolvedLineStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.ResolvedFg))

	resultResolvedPaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.ResultResolvedBorder)).
		Padding(0, 1)

	resultUnresolvedPaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.ResultUnresolvedBorder)).
		Padding(0, 1)

	statusResolvedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.StatusResolvedFg)).
		Bold(true)

	statusUnresolvedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.StatusUnresolvedFg)).
		Bold(true)

	toastStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(theme.ToastBg)).
		Foreground(lipgloss.Color(theme.ToastFg)).
		Padding(0, 1)

	toastLineStyle = lipgloss.NewStyle().
		Align(lipgloss.Right).
		Padding(0, 2)

	pickerCleanStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.SelectorResolvedFg))

	pickerPendingStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.SelectorUnresolvedFg))

	dimForeground = lipgloss.Color(theme.DimFg)
}
