package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pdfwatermark/pkg/observability"
	"github.com/matzehuels/pdfwatermark/pkg/pipeline"
)

// Progress view styles
var (
	barDoneStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	barPendingStyle = lipgloss.NewStyle().Foreground(colorDim)
	runningStyle    = lipgloss.NewStyle().Foreground(colorWhite)
)

const (
	barWidth    = 32
	maxRunning  = 6
	tickEvery   = 100 * time.Millisecond
	spinnerRate = 80 * time.Millisecond
)

// =============================================================================
// Messages
// =============================================================================

type taskStartMsg struct {
	input string
}

type taskDoneMsg struct {
	input string
	pages int
	err   error
}

type batchDoneMsg struct{}

type tickMsg time.Time

// =============================================================================
// ProgressModel - Live batch progress
// =============================================================================

// ProgressModel is the bubbletea model for the live progress view.
type ProgressModel struct {
	Total     int
	Succeeded int
	Failed    int
	Pages     int
	// Running lists the files being processed, oldest first.
	Running  []string
	Finished bool

	start   time.Time
	elapsed time.Duration
}

// NewProgressModel creates a progress model for total files.
func NewProgressModel(total int) ProgressModel {
	return ProgressModel{Total: total, start: time.Now()}
}

func (m ProgressModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskStartMsg:
		m.Running = append(m.Running, msg.input)
	case taskDoneMsg:
		m.Running = remove(m.Running, msg.input)
		if msg.err != nil {
			m.Failed++
		} else {
			m.Succeeded++
			m.Pages += msg.pages
		}
	case batchDoneMsg:
		m.Finished = true
		m.Running = nil
		m.elapsed = time.Since(m.start)
		return m, tea.Quit
	case tickMsg:
		m.elapsed = time.Since(m.start)
		if !m.Finished {
			return m, tick()
		}
	}
	return m, nil
}

// Done is the number of files with a result.
func (m ProgressModel) Done() int {
	return m.Succeeded + m.Failed
}

func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Watermarking"))
	b.WriteString("  ")
	b.WriteString(m.bar())
	b.WriteString(" ")
	b.WriteString(StyleNumber.Render(fmt.Sprintf("%d/%d", m.Done(), m.Total)))
	b.WriteString(StyleDim.Render(fmt.Sprintf(" · %d pages · %s", m.Pages, m.elapsed.Round(time.Second/10))))
	if m.Failed > 0 {
		b.WriteString(StyleError.Render(fmt.Sprintf(" · %d failed", m.Failed)))
	}
	b.WriteString("\n")

	frame := spinnerFrames[int(m.elapsed/spinnerRate)%len(spinnerFrames)]
	for i, input := range m.Running {
		if i == maxRunning {
			b.WriteString(StyleDim.Render(fmt.Sprintf("  … %d more", len(m.Running)-maxRunning)))
			b.WriteString("\n")
			break
		}
		b.WriteString("  " + styleIconSpinner.Render(frame) + " " + runningStyle.Render(filepath.Base(input)))
		b.WriteString(StyleDim.Render("  " + filepath.Dir(input)))
		b.WriteString("\n")
	}
	return b.String()
}

// bar renders the completion bar.
func (m ProgressModel) bar() string {
	filled := barWidth
	if m.Total > 0 {
		filled = barWidth * m.Done() / m.Total
	}
	return barDoneStyle.Render(strings.Repeat("█", filled)) +
		barPendingStyle.Render(strings.Repeat("░", barWidth-filled))
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func remove(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// =============================================================================
// Hooks - Feed the model from the batch runner
// =============================================================================

// progressHooks forwards task events to a running bubbletea program.
type progressHooks struct {
	send func(tea.Msg)
}

func (h progressHooks) OnTaskStart(_ context.Context, input string) {
	h.send(taskStartMsg{input: input})
}

func (h progressHooks) OnTaskComplete(_ context.Context, input, _ string, pages int, _ time.Duration, err error) {
	h.send(taskDoneMsg{input: input, pages: pages, err: err})
}

// runWithProgress runs the batch while a bubbletea program draws its
// progress on the error stream. Keyboard input is left alone; interrupts
// reach the batch through ctx.
func (c *CLI) runWithProgress(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) ([]pipeline.Outcome, error) {
	p := tea.NewProgram(NewProgressModel(len(opts.Tasks)),
		tea.WithOutput(c.Err),
		tea.WithInput(nil),
	)

	observability.SetTaskHooks(progressHooks{send: p.Send})
	defer observability.Reset()

	var (
		outcomes []pipeline.Outcome
		runErr   error
		wg       sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		outcomes, runErr = runner.Run(ctx, opts)
		p.Send(batchDoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		c.Logger.Debug("progress view stopped", "err", err)
	}
	wg.Wait()
	return outcomes, runErr
}
