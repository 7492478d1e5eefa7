// Package tui renders scan progress and repository views for the terminal.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/repodeck/internal/scan"
)

const progressBarWidth = 40

// Lipgloss styles
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("46")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)
)

// ScanOutcome carries the terminal result of a scan into the model.
type ScanOutcome struct {
	Result *scan.ScanResult
	Err    error
}

// ScanModel is the BubbleTea model for a live scan.
//
// Progress events arrive on a bounded channel that the producer never blocks
// on, so the model simply drains as fast as it can; the rate limiter keeps
// the current-directory line from flickering on very fast filesystems.
type ScanModel struct {
	root    string
	events  <-chan scan.Progress
	done    <-chan ScanOutcome
	cancel  func()
	limiter *rate.Limiter

	bar        progress.Model
	currentDir string
	scanned    int
	total      int
	outcome    *ScanOutcome
	quitting   bool
}

// NewScanModel creates a model that follows one scan of root. cancel is
// invoked when the user quits mid-scan; it may be nil.
func NewScanModel(root string, events <-chan scan.Progress, done <-chan ScanOutcome, cancel func()) ScanModel {
	bar := progress.New(
		progress.WithGradient("#00ffff", "#ff00ff"),
		progress.WithWidth(progressBarWidth),
	)

	return ScanModel{
		root:    root,
		events:  events,
		done:    done,
		cancel:  cancel,
		limiter: rate.NewLimiter(rate.Every(50*time.Millisecond), 1),
		bar:     bar,
	}
}

// Message types
type progressMsg scan.Progress
type outcomeMsg ScanOutcome

func waitForProgress(events <-chan scan.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-events
		if !ok {
			return nil
		}
		return progressMsg(p)
	}
}

func waitForOutcome(done <-chan ScanOutcome) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg(<-done)
	}
}

// Init starts listening on both channels.
func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(
		waitForProgress(m.events),
		waitForOutcome(m.done),
	)
}

// Update handles messages.
func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			m.quitting = true
			return m, tea.Quit
		}

	case progressMsg:
		m.scanned = msg.Scanned
		m.total = msg.Total
		if m.limiter.Allow() {
			m.currentDir = msg.CurrentDir
		}
		return m, waitForProgress(m.events)

	case outcomeMsg:
		outcome := ScanOutcome(msg)
		m.outcome = &outcome
		return m, tea.Quit
	}

	return m, nil
}

// Outcome returns the scan result once the model has finished, or nil.
func (m ScanModel) Outcome() *ScanOutcome {
	return m.outcome
}

// View renders the progress screen.
func (m ScanModel) View() string {
	if m.quitting {
		return ""
	}

	header := headerStyle.Render(" repodeck scan ")

	var content string
	content += header + "\n\n"
	content += labelStyle.Render("Root: ") + valueStyle.Render(m.root) + "\n"

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.scanned) / float64(m.total)
	}
	content += labelStyle.Render("Progress: ") +
		m.bar.ViewAs(percent) +
		" " + dimStyle.Render(fmt.Sprintf("%d/%d", m.scanned, m.total)) + "\n"

	if m.currentDir != "" {
		content += dimStyle.Render(m.currentDir) + "\n"
	}

	if m.outcome != nil {
		content += "\n" + m.renderOutcome()
	}

	footer := footerKeyStyle.Render("[q]") + footerStyle.Render(" cancel")
	content += "\n" + footer

	return containerStyle.Render(content)
}

func (m ScanModel) renderOutcome() string {
	if m.outcome.Err != nil {
		return errStyle.Render("✗ scan failed: ") + m.outcome.Err.Error()
	}

	res := m.outcome.Result
	line := okStyle.Render("✓ done") + "  " +
		labelStyle.Render("found: ") + valueStyle.Render(fmt.Sprintf("%d", res.Found)) + "  " +
		labelStyle.Render("added: ") + valueStyle.Render(fmt.Sprintf("%d", res.Added))
	if res.Duplicates > 0 {
		line += "  " + warnStyle.Render(fmt.Sprintf("%d duplicates skipped", res.Duplicates))
	}
	return line
}
