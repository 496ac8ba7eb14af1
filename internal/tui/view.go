package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"jessica/internal/api"
	"jessica/internal/session"
)

type serviceInfo struct {
	name        string
	description string
	port        int
	flag        func(api.StatusResponse) bool
}

var services = []serviceInfo{
	{"Ollama (Dolphin)", "Local LLM for standard tasks", 11434, func(s api.StatusResponse) bool { return s.LocalOllama }},
	{"Memory Server", "ChromaDB vector storage", 5001, func(s api.StatusResponse) bool { return s.LocalMemory }},
	{"Claude API", "Complex reasoning tasks", 0, func(s api.StatusResponse) bool { return s.ClaudeAPI }},
	{"Grok API", "Research and real-time info", 0, func(s api.StatusResponse) bool { return s.GrokAPI }},
	{"Gemini API", "Quick lookups and documents", 0, func(s api.StatusResponse) bool { return s.GeminiAPI }},
	{"Mem0 API", "Cloud memory sync", 0, func(s api.StatusResponse) bool { return s.Mem0API }},
}

func onlineCount(s api.StatusResponse) int {
	count := 0
	for _, svc := range services {
		if svc.flag(s) {
			count++
		}
	}
	return count
}

func (m model) View() string {
	header := m.renderHeader()
	var content string
	switch m.activeTab {
	case tabChat:
		content = m.renderChatView()
	case tabStatus:
		content = m.renderStatusView()
	case tabMemory:
		content = m.renderMemoryView()
	}
	footer := m.renderFooter()
	return m.theme.root.Render(lipgloss.JoinVertical(lipgloss.Left, header, content, footer))
}

func (m model) renderHeader() string {
	tabs := []string{"Chat", "Status", "Memory"}
	rendered := make([]string, 0, len(tabs))
	for i, label := range tabs {
		if tabID(i) == m.activeTab {
			rendered = append(rendered, m.theme.tabActive.Render(label))
		} else {
			rendered = append(rendered, m.theme.tabInactive.Render(label))
		}
	}
	title := m.theme.panelTitle.Render("Jessica")
	return m.theme.header.Render(title + "  " + strings.Join(rendered, " "))
}

func (m model) renderFooter() string {
	var help string
	switch m.activeTab {
	case tabChat:
		help = "enter send · shift+enter newline · ctrl+p model · /help"
	case tabStatus:
		help = "r refresh · polls every " + m.cfg.PollInterval.String()
	case tabMemory:
		help = "enter search · esc clear · pgup/pgdn scroll"
	}
	line := help + " · tab switch · ctrl+c quit"
	if strings.TrimSpace(m.statusLine) != "" {
		line += "  |  " + m.theme.status.Render(compactSingleLine(m.statusLine, 60))
	}
	return m.theme.footer.Render(truncate(line, maxInt(20, m.width-4)))
}

// --- chat tab ---

func (m model) renderChatView() string {
	parts := []string{m.theme.panel.Render(m.chatlog.View())}

	if m.sess.Err() != "" {
		parts = append(parts, m.theme.errorBanner.Render(wrapText(m.sess.Err(), maxInt(20, m.width-6))))
	}
	if m.audioErr != "" {
		parts = append(parts, m.theme.errorBanner.Render(wrapText(m.audioErr, maxInt(20, m.width-6))))
	}
	parts = append(parts, m.renderProviderPicker(), m.theme.inputPanel.Render(m.input.View()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) renderProviderPicker() string {
	selected := m.sess.Provider()
	rendered := make([]string, 0, len(providerChoices))
	for _, choice := range providerChoices {
		label := providerLabel(choice)
		if choice == selected {
			rendered = append(rendered, m.theme.pickActive.Render(label))
		} else {
			rendered = append(rendered, m.theme.pickIdle.Render(label))
		}
	}
	busy := ""
	if m.transcribing {
		busy = "  " + m.spinner.View() + " transcribing"
	}
	return m.theme.helpText.Render("Model: ") + strings.Join(rendered, " ") + busy
}

// renderChatPane rebuilds the scrollback viewport. follow forces the view
// to the newest entry, which is what every completed turn wants; otherwise
// the user's scroll position is preserved unless they were already at the
// bottom.
func (m *model) renderChatPane(follow bool) {
	atBottom := m.chatlog.AtBottom()
	m.chatlog.SetContent(m.renderMessages())
	if follow || atBottom {
		m.chatlog.GotoBottom()
	}
}

func (m model) renderMessages() string {
	messages := m.sess.Messages()
	width := maxInt(24, m.chatlog.Width-2)
	if len(messages) == 0 {
		return m.theme.jessLabel.Render("There's my Marine!") + "\n" +
			m.theme.helpText.Render("What chaos are we conquering today?")
	}
	var b strings.Builder
	for _, msg := range messages {
		label := m.theme.userLabel.Render("You")
		if msg.Role == session.RoleAssistant {
			label = m.theme.jessLabel.Render("Jessica")
		}
		b.WriteString(label)
		b.WriteString(m.theme.helpText.Render("  " + msg.Timestamp.Format("15:04:05")))
		b.WriteString("\n")
		b.WriteString(wrapText(msg.Content, width))
		b.WriteString("\n")
		if msg.Routing != nil {
			b.WriteString(m.renderRouting(*msg.Routing, width))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if m.sess.Loading() {
		b.WriteString(m.spinner.View())
		b.WriteString(m.theme.helpText.Render(" Jessica is thinking..."))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m model) renderRouting(routing api.Routing, width int) string {
	style, ok := m.theme.provider[routing.Provider]
	if !ok {
		style = m.theme.routing
	}
	line := style.Render(providerLabel(routing.Provider))
	if routing.Tier != "" {
		line += m.theme.routing.Render(" [" + routing.Tier + "]")
	}
	if routing.Reason != "" {
		line += m.theme.routing.Render(" • " + compactSingleLine(routing.Reason, width))
	}
	return line
}

// --- status tab ---

func (m model) renderStatusView() string {
	width := maxInt(24, m.width-8)
	var b strings.Builder
	b.WriteString(m.theme.panelTitle.Render("System Status"))
	b.WriteString("\n")
	if m.snapshot != nil {
		b.WriteString(fmt.Sprintf("%d of %d services online", onlineCount(*m.snapshot), len(services)))
	} else {
		b.WriteString(m.theme.checking.Render("Checking..."))
	}
	if !m.lastChecked.IsZero() {
		b.WriteString(m.theme.helpText.Render("  ·  last checked " + m.lastChecked.Format("15:04:05")))
	}
	b.WriteString("\n\n")

	if m.statusErr != "" {
		b.WriteString(m.theme.errorBanner.Render("Connection Error"))
		b.WriteString("\n")
		b.WriteString(wrapText(m.statusErr, width))
		b.WriteString("\n")
		b.WriteString(m.theme.helpText.Render("Make sure the backend is running at " + m.cfg.BaseURL))
		b.WriteString("\n\n")
	}

	for _, svc := range services {
		dot := m.theme.checking.Render("●")
		state := m.theme.checking.Render("Checking...")
		if m.snapshot != nil {
			if svc.flag(*m.snapshot) {
				dot = m.theme.online.Render("●")
				state = m.theme.online.Render("Online")
			} else {
				dot = m.theme.offline.Render("●")
				state = m.theme.offline.Render("Offline")
			}
		}
		detail := svc.description
		if svc.port != 0 {
			detail += fmt.Sprintf(" (port %d)", svc.port)
		}
		b.WriteString(fmt.Sprintf("%s %-18s %s\n", dot, svc.name, state))
		b.WriteString("   " + m.theme.helpText.Render(truncate(detail, width)) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.panelTitle.Render("Routing"))
	b.WriteString("\n")
	b.WriteString(m.theme.helpText.Render(wrapText(
		"Local handles standard tasks, Claude complex reasoning, Grok research and current events, Gemini quick lookups.",
		width)))
	return m.theme.panel.Render(b.String())
}

// --- memory tab ---

func (m model) renderMemoryView() string {
	var parts []string
	parts = append(parts, m.theme.inputPanel.Render(m.search.View()))
	if m.memoryErr != "" {
		parts = append(parts, m.theme.errorBanner.Render(wrapText(m.memoryErr, maxInt(20, m.width-6))))
	}
	var countLine string
	switch {
	case m.memoryLoading:
		countLine = m.spinner.View() + " loading memories..."
	case m.mmode == memorySearch:
		countLine = fmt.Sprintf("Found %d memories matching %q", len(m.memories), m.memoryQuery)
	default:
		countLine = fmt.Sprintf("%d total memories", len(m.memories))
	}
	parts = append(parts, m.theme.helpText.Render(countLine))
	parts = append(parts, m.theme.panel.Render(m.memlog.View()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *model) renderPanes() {
	m.memlog.SetContent(m.renderMemoryRecords())
	m.memlog.GotoTop()
}

func (m model) renderMemoryRecords() string {
	width := maxInt(24, m.memlog.Width-2)
	if len(m.memories) == 0 {
		if m.mmode == memorySearch {
			return "No memories found. Try a different search term."
		}
		return "No memories found."
	}
	var b strings.Builder
	for _, record := range m.memories {
		b.WriteString(wrapText(record.Memory, width))
		b.WriteString("\n")
		if record.Score != nil {
			b.WriteString(m.theme.helpText.Render(fmt.Sprintf("Relevance: %.1f%%", *record.Score*100)))
			b.WriteString("\n")
		}
		if len(record.Metadata) > 0 {
			keys := make([]string, 0, len(record.Metadata))
			for key := range record.Metadata {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			chips := make([]string, 0, len(keys))
			for _, key := range keys {
				chips = append(chips, m.theme.chip.Render(fmt.Sprintf("%s: %v", key, record.Metadata[key])))
			}
			b.WriteString(strings.Join(chips, " "))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *model) resize() {
	w := maxInt(40, m.width) - 4
	m.input.SetWidth(maxInt(20, w-2))
	m.search.Width = maxInt(20, w-6)
	m.chatlog.Width = maxInt(20, w)
	m.chatlog.Height = maxInt(5, m.height-14)
	m.memlog.Width = maxInt(20, w)
	m.memlog.Height = maxInt(5, m.height-12)
}
