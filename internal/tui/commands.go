package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"jessica/internal/api"
	"jessica/internal/session"
)

type chatDoneMsg struct {
	seq  uint64
	resp *api.ChatResponse
	err  error
}

type transcribeDoneMsg struct {
	text string
	err  error
}

type statusDoneMsg struct {
	snapshot *api.StatusResponse
	err      error
}

// statusTickMsg re-arms the status poll loop. gen ties the tick to the
// activation of the Status tab that started it; a stale gen re-arms
// nothing, which is how leaving the tab cancels the loop.
type statusTickMsg struct {
	gen int
}

type memoriesDoneMsg struct {
	mode    memoryMode
	query   string
	records []api.MemoryRecord
	err     error
}

func (m model) sendChatCmd(req session.Request) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		resp, err := client.SendMessage(context.Background(), req.Content, req.Provider)
		return chatDoneMsg{seq: req.Seq, resp: resp, err: err}
	}
}

func (m model) transcribeCmd(path string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		text, err := client.Transcribe(context.Background(), path)
		return transcribeDoneMsg{text: text, err: err}
	}
}

func (m model) fetchStatusCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		snapshot, err := client.Status(context.Background())
		return statusDoneMsg{snapshot: snapshot, err: err}
	}
}

func statusTick(interval time.Duration, gen int) tea.Cmd {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return statusTickMsg{gen: gen}
	})
}

func (m model) loadMemoriesCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		records, err := client.AllMemories(context.Background())
		return memoriesDoneMsg{mode: memoryAll, records: records, err: err}
	}
}

func (m model) searchMemoriesCmd(query string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		records, err := client.SearchMemories(context.Background(), query)
		return memoriesDoneMsg{mode: memorySearch, query: query, records: records, err: err}
	}
}
