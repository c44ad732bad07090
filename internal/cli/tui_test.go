package cli

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func update(t *testing.T, m ProgressModel, msgs ...tea.Msg) (ProgressModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(ProgressModel)
	}
	return m, cmd
}

func TestProgressModelCounts(t *testing.T) {
	m, _ := update(t, NewProgressModel(4),
		taskStartMsg{input: "in/a.pdf"},
		taskStartMsg{input: "in/b.pdf"},
		taskDoneMsg{input: "in/a.pdf", pages: 3},
		taskStartMsg{input: "in/c.pdf"},
		taskDoneMsg{input: "in/c.pdf", err: stderrors.New("broken")},
	)

	if m.Succeeded != 1 || m.Failed != 1 || m.Pages != 3 || m.Done() != 2 {
		t.Errorf("model = %+v", m)
	}
	if len(m.Running) != 1 || m.Running[0] != "in/b.pdf" {
		t.Errorf("Running = %v, want [in/b.pdf]", m.Running)
	}

	view := m.View()
	for _, want := range []string{"2/4", "3 pages", "1 failed", "b.pdf"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestProgressModelQuitsWhenBatchDone(t *testing.T) {
	m, cmd := update(t, NewProgressModel(1),
		taskStartMsg{input: "a.pdf"},
		taskDoneMsg{input: "a.pdf", pages: 1},
		batchDoneMsg{},
	)
	if !m.Finished || len(m.Running) != 0 {
		t.Errorf("model = %+v, want finished", m)
	}
	if cmd == nil {
		t.Fatal("batchDoneMsg should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("batchDoneMsg should quit the program")
	}
}

func TestProgressModelBar(t *testing.T) {
	tests := []struct {
		total, done int
		filled      int
	}{
		{4, 0, 0},
		{4, 2, barWidth / 2},
		{4, 4, barWidth},
		{0, 0, barWidth},
	}
	for _, tt := range tests {
		m := ProgressModel{Total: tt.total, Succeeded: tt.done}
		if got := strings.Count(m.bar(), "█"); got != tt.filled {
			t.Errorf("bar(%d/%d) filled = %d, want %d", tt.done, tt.total, got, tt.filled)
		}
	}
}

func TestProgressModelLimitsRunningList(t *testing.T) {
	m := NewProgressModel(10)
	for _, name := range []string{"1", "2", "3", "4", "5", "6", "7", "8"} {
		m, _ = update(t, m, taskStartMsg{input: name + ".pdf"})
	}
	if !strings.Contains(m.View(), "… 2 more") {
		t.Errorf("View() should collapse the running list:\n%s", m.View())
	}
}

func TestProgressHooksForwardEvents(t *testing.T) {
	var got []tea.Msg
	h := progressHooks{send: func(msg tea.Msg) { got = append(got, msg) }}

	h.OnTaskStart(context.Background(), "a.pdf")
	h.OnTaskComplete(context.Background(), "a.pdf", "out/a.pdf", 2, 0, nil)

	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	if got[0] != (taskStartMsg{input: "a.pdf"}) {
		t.Errorf("start message = %#v", got[0])
	}
	if done, ok := got[1].(taskDoneMsg); !ok || done.pages != 2 || done.err != nil {
		t.Errorf("done message = %#v", got[1])
	}
}
