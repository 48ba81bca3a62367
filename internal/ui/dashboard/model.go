// Package dashboard renders the interactive resume dashboard.
package dashboard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"resume-insights/internal/api"
	svc "resume-insights/internal/dashboard"
	"resume-insights/internal/poll"
	"resume-insights/internal/session"
	"resume-insights/internal/ui/theme"
)

// Run starts the dashboard UI and blocks until the user quits.
func Run(service *svc.Service, sessions *session.Store) error {
	program := tea.NewProgram(NewModel(service, sessions), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// ─── async messages ──────────────────────────────────────────────────────────

type summaryMsg struct {
	summary api.FeedbackSummary
	ok      bool
	err     error
}

type uploadStartedMsg struct {
	upload api.ResumeUpload
	watch  *poll.Session
	err    error
}

type pollDoneMsg struct {
	outcome poll.Outcome
	result  *api.AnalysisResult
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model owns the summary pane, the upload prompt and the polling indicator.
// All business logic lives in the dashboard service; the model only routes
// messages.
type Model struct {
	service  *svc.Service
	sessions *session.Store

	summary    api.FeedbackSummary
	hasSummary bool
	spin       spinner.Model
	pathInput  textinput.Model
	prompting  bool
	polling    bool
	status     string
	width      int
}

// NewModel constructs the root model.
func NewModel(service *svc.Service, sessions *session.Store) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	input := textinput.New()
	input.Placeholder = "path/to/resume.pdf"
	input.CharLimit = 512

	return Model{
		service:   service,
		sessions:  sessions,
		spin:      sp,
		pathInput: input,
		status:    "loading summary...",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.spin.Tick)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.service.CancelPolling()
			return m, tea.Quit
		case "r":
			m.status = "refreshing..."
			return m, m.refreshCmd()
		case "u":
			m.prompting = true
			m.pathInput.SetValue("")
			return m, m.pathInput.Focus()
		}
		return m, nil

	case summaryMsg:
		if msg.err != nil {
			m.status = "summary failed: " + msg.err.Error()
			return m, nil
		}
		m.summary = msg.summary
		m.hasSummary = msg.ok
		if !m.polling {
			m.status = "ready"
		}
		return m, nil

	case uploadStartedMsg:
		if msg.err != nil {
			m.polling = false
			m.status = "upload failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("analyzing %s...", msg.upload.Filename)
		return m, waitCmd(msg.watch)

	case pollDoneMsg:
		m.polling = false
		if msg.outcome == poll.Completed {
			m.status = "analysis completed"
		} else {
			m.status = "analysis not ready yet, press r to retry later"
		}
		return m, m.refreshCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		path := strings.TrimSpace(m.pathInput.Value())
		m.prompting = false
		m.pathInput.Blur()
		if path == "" {
			m.status = "upload cancelled"
			return m, nil
		}
		m.polling = true
		m.status = "uploading..."
		return m, m.uploadCmd(path)
	case "esc":
		m.prompting = false
		m.pathInput.Blur()
		m.status = "upload cancelled"
		return m, nil
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) refreshCmd() tea.Cmd {
	service := m.service
	return func() tea.Msg {
		err := service.RefreshSummary(context.Background())
		summary, ok := service.Summary()
		return summaryMsg{summary: summary, ok: ok, err: err}
	}
}

func (m Model) uploadCmd(path string) tea.Cmd {
	service := m.service
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return uploadStartedMsg{err: err}
		}
		upload, watch, err := service.UploadAndAnalyze(context.Background(), filepath.Base(path), data)
		if err != nil {
			return uploadStartedMsg{err: err}
		}
		return uploadStartedMsg{upload: upload, watch: watch}
	}
}

func waitCmd(watch *poll.Session) tea.Cmd {
	return func() tea.Msg {
		outcome := watch.Wait()
		return pollDoneMsg{outcome: outcome, result: watch.Result()}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var b strings.Builder

	name := "resume dashboard"
	if cred, ok := m.sessions.Current(); ok {
		name = cred.User.FullName
	}
	b.WriteString(theme.Title.Render(name))
	b.WriteString("\n\n")

	b.WriteString(m.summaryPane())
	b.WriteString("\n")
	b.WriteString(m.analysisPane())
	b.WriteString("\n")

	if m.prompting {
		b.WriteString(theme.Pane.Render("Upload resume\n" + m.pathInput.View()))
		b.WriteString("\n")
	}

	status := m.status
	if m.polling {
		status = m.spin.View() + " " + status
	}
	b.WriteString(theme.Muted.Render(status))
	b.WriteString("\n")
	b.WriteString(theme.Muted.Render("r refresh  •  u upload  •  q quit"))

	return theme.App.Render(b.String())
}

func (m Model) summaryPane() string {
	if !m.hasSummary {
		return theme.Pane.Render(theme.Muted.Render("No feedback yet. Press u to upload a resume."))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Resumes uploaded: %d\n", m.summary.TotalResumes)
	fmt.Fprintf(&b, "Trend: %s\n", m.summary.ImprovementTrend)
	if m.summary.AvgScore != nil {
		fmt.Fprintf(&b, "Average score: %.1f", *m.summary.AvgScore)
	} else {
		b.WriteString("Average score: n/a")
	}
	return theme.Pane.Render(b.String())
}

func (m Model) analysisPane() string {
	latest := m.service.LatestAnalysis()
	if latest == nil {
		return theme.Pane.Render(theme.Muted.Render("No analysis yet."))
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Latest analysis"))
	b.WriteString("\n")
	if latest.OverallScore != nil {
		score := *latest.OverallScore
		b.WriteString(theme.ScoreStyle(score).Render(fmt.Sprintf(" %.0f/100 ", score)))
	} else {
		b.WriteString(theme.Muted.Render("score unavailable"))
	}
	b.WriteString("\n")
	writeList(&b, "Strengths", latest.Strengths, theme.Good)
	writeList(&b, "Weaknesses", latest.Weaknesses, theme.Bad)
	writeList(&b, "Recommendations", latest.Recommendations, theme.Hot)
	return theme.Pane.Render(strings.TrimRight(b.String(), "\n"))
}

func writeList(b *strings.Builder, title string, items []string, style lipgloss.Style) {
	if len(items) == 0 {
		return
	}
	b.WriteString(style.Render(title))
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString("  • " + item + "\n")
	}
}
