package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"picren/internal/domain"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseScanning Phase = iota
	PhasePreview
	PhaseConfirm
	PhaseExecuting
	PhaseDone
	PhaseError
)

// Messages for the TUI
type (
	PlanReadyMsg struct {
		Plan *domain.RenamePlan
	}
	ScanProgressMsg struct {
		Current int
		Total   int
	}
	ExecProgressMsg struct {
		Current int
		Total   int
		File    string
	}
	ExecDoneMsg struct{}
	ConfirmMsg  struct{ Confirmed bool }
	ErrorMsg    struct{ Err error }
	tickMsg     time.Time
)

// ExecuteFunc starts the rename run in a goroutine and feeds progress and
// done messages back to the program.
type ExecuteFunc func(plan *domain.RenamePlan) tea.Cmd

// Config for the TUI
type Config struct {
	Dir     string
	Pattern string
	DryRun  bool
	Verbose bool
	Execute ExecuteFunc
}

// Model is the main TUI model
type Model struct {
	config           Config
	Phase            Phase
	Plan             *domain.RenamePlan
	spinner          spinner.Model
	progress         progress.Model
	scanCurrent      int
	scanTotal        int
	execCurrent      int
	execTotal        int
	currentFile      string
	confirmSelection bool // true = yes, false = no
	Err              error
	Quitting         bool
	width            int
	height           int
}

// NewModel creates a new TUI model
func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:           cfg,
		Phase:            PhaseScanning,
		spinner:          s,
		progress:         p,
		confirmSelection: false, // default to No
		width:            80,
		height:           24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.Phase == PhaseExecuting {
				// A run in flight keeps its plan; quitting mid-batch is
				// handled by context cancellation in the command layer.
				return m, nil
			}
			m.Quitting = true
			return m, tea.Quit
		case "left", "h", "y", "Y":
			if m.Phase == PhaseConfirm {
				m.confirmSelection = true
			}
		case "right", "l", "n", "N":
			if m.Phase == PhaseConfirm {
				m.confirmSelection = false
			}
		case "enter":
			if m.Phase == PhaseConfirm {
				return m, func() tea.Msg {
					return ConfirmMsg{Confirmed: m.confirmSelection}
				}
			}
			if m.Phase == PhaseDone || m.Phase == PhaseError {
				return m, tea.Quit
			}
		}

	case ScanProgressMsg:
		m.scanCurrent = msg.Current
		m.scanTotal = msg.Total
		return m, nil

	case PlanReadyMsg:
		// Plans arriving while a run is active are dropped so the counter
		// and conflict set of the running batch stay stable.
		if m.Phase == PhaseExecuting {
			return m, nil
		}
		m.Plan = msg.Plan
		if m.config.DryRun {
			m.Phase = PhaseDone
		} else if len(m.Plan.Entries) == 0 {
			m.Phase = PhaseDone
		} else {
			m.Phase = PhaseConfirm
		}
		return m, nil

	case ConfirmMsg:
		if !msg.Confirmed {
			m.Quitting = true
			return m, tea.Quit
		}
		m.Phase = PhaseExecuting
		if m.config.Execute != nil {
			return m, tea.Batch(tickCmd(), m.config.Execute(m.Plan))
		}
		return m, nil

	case ExecProgressMsg:
		m.execCurrent = msg.Current
		m.execTotal = msg.Total
		m.currentFile = msg.File
		return m, nil

	case ExecDoneMsg:
		m.Phase = PhaseDone
		return m, nil

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.Phase == PhaseScanning || m.Phase == PhaseExecuting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseExecuting {
			var cmds []tea.Cmd
			if m.execTotal > 0 {
				cmds = append(cmds, m.progress.SetPercent(float64(m.execCurrent)/float64(m.execTotal)))
			}
			cmds = append(cmds, tickCmd(), m.spinner.Tick)
			return m, tea.Batch(cmds...)
		}
	}

	return m, nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseScanning:
		b.WriteString(m.renderScanning())
	case PhasePreview:
		b.WriteString(m.renderPreview())
	case PhaseDone:
		if m.config.DryRun {
			b.WriteString(m.renderPreview())
		} else {
			b.WriteString(m.renderCompletion())
		}
	case PhaseConfirm:
		b.WriteString(m.renderPreview())
		b.WriteString("\n")
		b.WriteString(m.renderConfirmPrompt())
	case PhaseExecuting:
		b.WriteString(m.renderExecution())
	case PhaseError:
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("📷 picren")
	subtitle := subtitleStyle.Render("Batch rename for photo collections")

	dimStyle := lipgloss.NewStyle().Foreground(dimTextColor)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		dimStyle.Render(fmt.Sprintf("%s Directory: %s", iconFolder, shortenPath(m.config.Dir))),
		dimStyle.Render(fmt.Sprintf("%s Pattern:   %s", iconArrow, m.config.Pattern)),
	)
}

func (m Model) renderScanning() string {
	if m.scanTotal > 0 {
		percent := float64(m.scanCurrent) / float64(m.scanTotal)
		progressBar := m.progress.ViewAs(percent)

		countStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
		percentStyle := lipgloss.NewStyle().Foreground(dimTextColor)

		return fmt.Sprintf("%s Scanning images...\n\n  %s\n  %s %s",
			m.spinner.View(),
			progressBar,
			countStyle.Render(fmt.Sprintf("%d/%d", m.scanCurrent, m.scanTotal)),
			percentStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
		)
	}
	return fmt.Sprintf("%s Scanning images...", m.spinner.View())
}

func (m Model) renderPreview() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Planned Renames"))
	b.WriteString("\n\n")

	if m.Plan == nil || len(m.Plan.Entries) == 0 {
		dimStyle := lipgloss.NewStyle().Foreground(dimTextColor)
		b.WriteString(dimStyle.Render("  No image files found"))
		b.WriteString("\n")
	} else {
		for _, line := range formatEntryList(m.Plan.Entries, 8) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderSummary())

	if m.config.Verbose && m.Plan != nil && len(m.Plan.Warnings) > 0 {
		b.WriteString("\n\n")
		b.WriteString(warningStyle.Render("Warnings:"))
		b.WriteString("\n")
		for _, w := range m.Plan.Warnings {
			b.WriteString(fmt.Sprintf("  %s %s\n", iconConflict, w))
		}
	}

	return b.String()
}

func (m Model) renderSummary() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Summary"))
	b.WriteString("\n\n")

	counts := m.Plan.Counts()
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Files:"), statValueStyle.Render(fmt.Sprintf("%d", len(m.Plan.Entries)))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Renaming:"), targetNameStyle.Render(fmt.Sprintf("%d", m.Plan.Changed()))))

	if counts.Error > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Conflicts:"), errorStyle.Render(fmt.Sprintf("%s %d", iconConflict, counts.Error))))
	}

	if m.config.DryRun {
		b.WriteString("\n")
		b.WriteString(highlightBoxStyle.Render("🔍 Dry Run - No files were touched"))
	}

	return b.String()
}

func (m Model) renderConfirmPrompt() string {
	prompt := confirmPromptStyle.Render(fmt.Sprintf("Rename %d files?", m.Plan.Changed()))

	var yesBtn, noBtn string
	if m.confirmSelection {
		yesBtn = highlightBoxStyle.
			Background(lipgloss.Color("#2D5A27")).
			Render(" Yes ")
		noBtn = boxStyle.Render(" No ")
	} else {
		yesBtn = boxStyle.Render(" Yes ")
		noBtn = highlightBoxStyle.
			Background(lipgloss.Color("#5A2727")).
			Render(" No ")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, yesBtn, "  ", noBtn)

	return lipgloss.JoinVertical(lipgloss.Left, prompt, "", buttons)
}

func (m Model) renderExecution() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Renaming Files"))
	b.WriteString("\n\n")

	percent := 0.0
	if m.execTotal > 0 {
		percent = float64(m.execCurrent) / float64(m.execTotal)
	}

	b.WriteString(fmt.Sprintf("  %s Renaming...\n\n", m.spinner.View()))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))

	countStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	percentStyle := lipgloss.NewStyle().Foreground(dimTextColor)

	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d files", m.execCurrent, m.execTotal)),
		percentStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))

	if m.currentFile != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s\n",
			iconArrow,
			fileNameStyle.Render(m.currentFile),
		))
	}

	return b.String()
}

func (m Model) renderCompletion() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Rename Complete"))
	b.WriteString("\n\n")

	counts := m.Plan.Counts()

	if counts.Error == 0 {
		b.WriteString(fmt.Sprintf("  %s %s\n\n",
			successStyle.Render(iconSuccess),
			successStyle.Render("All files renamed successfully!"),
		))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s\n\n",
			warningStyle.Render(iconConflict),
			warningStyle.Render("Completed with errors"),
		))
	}

	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Renamed:"), successStyle.Render(fmt.Sprintf("%s %d", iconSuccess, counts.Success))))
	if counts.Error > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("%s %d", iconError, counts.Error))))
	}
	if counts.Skipped > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Skipped:"), dateStyle.Render(fmt.Sprintf("%s %d", iconSkipped, counts.Skipped))))
	}

	if counts.Error > 0 {
		b.WriteString("\n")
		for _, entry := range m.Plan.Entries {
			if entry.Status != domain.StatusError {
				continue
			}
			b.WriteString(fmt.Sprintf("  %s %s: %s\n",
				errorStyle.Render(iconError),
				fileNameStyle.Render(entry.Path),
				conflictStyle.Render(entry.ErrorMessage),
			))
		}
	}

	return b.String()
}

func (m Model) renderError() string {
	icon := errorStyle.Render(iconError)
	msg := errorStyle.Render(fmt.Sprintf("Error: %s", m.Err.Error()))

	return highlightBoxStyle.
		BorderForeground(errorColor).
		Render(fmt.Sprintf("%s %s", icon, msg))
}

func (m Model) renderHelp() string {
	var help string
	switch m.Phase {
	case PhaseScanning:
		help = "Press q to quit"
	case PhasePreview:
		help = "Press q to quit"
	case PhaseConfirm:
		help = "← → or y/n to select • Enter to confirm • q to quit"
	case PhaseExecuting:
		help = "Renaming files... Please wait"
	case PhaseDone:
		help = "Press Enter to exit"
	case PhaseError:
		help = "Press Enter or q to exit"
	}
	return helpStyle.Render(help)
}

// formatEntryList formats planned entries for display, truncating long
// batches to head and tail.
func formatEntryList(entries []domain.PlannedEntry, maxItems int) []string {
	if len(entries) == 0 {
		return []string{}
	}

	lines := make([]string, 0, min(len(entries), maxItems+1))

	if len(entries) > maxItems {
		half := maxItems / 2
		for i := 0; i < half; i++ {
			lines = append(lines, formatEntryLine(entries[i]))
		}
		dimStyle := lipgloss.NewStyle().Foreground(dimTextColor)
		lines = append(lines, dimStyle.Render(fmt.Sprintf("... %d more files ...", len(entries)-maxItems)))
		for i := len(entries) - half; i < len(entries); i++ {
			lines = append(lines, formatEntryLine(entries[i]))
		}
	} else {
		for i := range entries {
			lines = append(lines, formatEntryLine(entries[i]))
		}
	}

	return lines
}

func formatEntryLine(entry domain.PlannedEntry) string {
	source := fileNameStyle.Render(entry.Path)
	target := targetNameStyle.Render(entry.TargetName())
	if entry.Status == domain.StatusError {
		return fmt.Sprintf("%s %s %s %s", conflictStyle.Render(iconConflict), source, iconArrow, conflictStyle.Render(entry.TargetName()))
	}
	return fmt.Sprintf("%s %s %s", source, iconArrow, target)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
