// Package tui is the Bubble Tea front of the Jessica terminal client:
// three tabs (chat, status, memory) over one event loop. All network
// activity runs as commands; the session controller in internal/session
// decides what a turn may do, this package only wires its halves to the
// message stream.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"jessica/internal/api"
	"jessica/internal/session"
)

type Config struct {
	BaseURL      string
	PollInterval time.Duration
}

type tabID int

const (
	tabChat tabID = iota
	tabStatus
	tabMemory
)

type memoryMode string

const (
	memoryAll    memoryMode = "all"
	memorySearch memoryMode = "search"
)

var providerChoices = []api.Provider{
	api.ProviderAuto,
	api.ProviderLocal,
	api.ProviderClaude,
	api.ProviderGrok,
	api.ProviderGemini,
}

func nextProvider(p api.Provider) api.Provider {
	for i, choice := range providerChoices {
		if choice == p {
			return providerChoices[(i+1)%len(providerChoices)]
		}
	}
	return api.ProviderAuto
}

func providerLabel(p api.Provider) string {
	switch p {
	case api.ProviderLocal:
		return "Local"
	case api.ProviderClaude:
		return "Claude"
	case api.ProviderGrok:
		return "Grok"
	case api.ProviderGemini:
		return "Gemini"
	default:
		return "Auto"
	}
}

func parseProvider(raw string) (api.Provider, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "auto", "":
		return api.ProviderAuto, true
	case "local":
		return api.ProviderLocal, true
	case "claude":
		return api.ProviderClaude, true
	case "grok":
		return api.ProviderGrok, true
	case "gemini":
		return api.ProviderGemini, true
	default:
		return api.ProviderAuto, false
	}
}

type model struct {
	cfg    Config
	client *api.Client
	logger *zap.Logger
	sess   *session.Controller

	activeTab  tabID
	statusLine string

	// transcription runs independently of the chat turn in flight
	transcribing bool
	audioErr     string

	// status tab
	snapshot    *api.StatusResponse
	statusErr   string
	lastChecked time.Time
	pollGen     int

	// memory tab
	memories      []api.MemoryRecord
	mmode         memoryMode
	memoryQuery   string
	memoryLoading bool
	memoryLoaded  bool
	memoryErr     string

	width  int
	height int

	input   textarea.Model
	search  textinput.Model
	chatlog viewport.Model
	memlog  viewport.Model
	spinner spinner.Model

	theme uiTheme
}

// New builds the program model. logger must be non-nil (use zap.NewNop
// when logging is unwanted).
func New(cfg Config, client *api.Client, logger *zap.Logger) tea.Model {
	return newModel(cfg, client, logger)
}

func newModel(cfg Config, client *api.Client, logger *zap.Logger) model {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}

	input := textarea.New()
	input.Placeholder = "Send a message..."
	input.Prompt = "┃ "
	input.CharLimit = 4000
	input.SetHeight(3)
	input.ShowLineNumbers = false
	// Enter submits; newline stays reachable where the terminal can
	// report the modifier.
	input.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("shift+enter", "alt+enter"))
	input.Focus()

	search := textinput.New()
	search.Placeholder = "Search memories..."
	search.Prompt = "? "
	search.CharLimit = 400

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))

	chatlog := viewport.New(0, 0)
	chatlog.MouseWheelEnabled = true
	memlog := viewport.New(0, 0)
	memlog.MouseWheelEnabled = true

	return model{
		cfg:        cfg,
		client:     client,
		logger:     logger,
		sess:       session.NewController(),
		activeTab:  tabChat,
		statusLine: "ready",
		mmode:      memoryAll,
		input:      input,
		search:     search,
		chatlog:    chatlog,
		memlog:     memlog,
		spinner:    sp,
		theme:      newTheme(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textarea.Blink)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case chatDoneMsg:
		if !m.sess.Resolve(msg.seq, msg.resp, msg.err) {
			m.logger.Warn("discarded stale chat completion", zap.Uint64("seq", msg.seq))
			break
		}
		if msg.err != nil {
			m.logger.Warn("chat turn failed", zap.Error(msg.err))
			m.statusLine = "turn failed"
		} else {
			m.logger.Info("chat turn routed",
				zap.String("provider", string(msg.resp.Routing.Provider)),
				zap.String("reason", msg.resp.Routing.Reason))
			m.statusLine = "routed via " + providerLabel(msg.resp.Routing.Provider)
		}
		m.input.Focus()
		m.renderChatPane(true)
		cmds = append(cmds, textarea.Blink)
	case transcribeDoneMsg:
		m.transcribing = false
		if msg.err != nil {
			m.logger.Warn("transcription failed", zap.Error(msg.err))
			m.audioErr = msg.err.Error()
		} else {
			m.audioErr = ""
			m.input.SetValue(session.MergeTranscription(m.input.Value(), msg.text))
			m.statusLine = "transcription merged"
		}
		m.input.Focus()
		cmds = append(cmds, textarea.Blink)
	case statusDoneMsg:
		if msg.err != nil {
			m.statusErr = msg.err.Error()
		} else {
			m.snapshot = msg.snapshot
			m.lastChecked = time.Now()
			m.statusErr = ""
		}
		m.renderPanes()
	case statusTickMsg:
		if msg.gen != m.pollGen || m.activeTab != tabStatus {
			break
		}
		cmds = append(cmds, m.fetchStatusCmd(), statusTick(m.cfg.PollInterval, msg.gen))
	case memoriesDoneMsg:
		m.memoryLoading = false
		if msg.err != nil {
			m.memoryErr = msg.err.Error()
		} else {
			m.memoryErr = ""
			m.memories = msg.records
			m.mmode = msg.mode
			m.memoryQuery = msg.query
		}
		m.renderPanes()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderChatPane(true)
		m.renderPanes()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	case tea.MouseMsg:
		var cmd tea.Cmd
		switch m.activeTab {
		case tabChat:
			m.chatlog, cmd = m.chatlog.Update(msg)
		case tabMemory:
			m.memlog, cmd = m.memlog.Update(msg)
		}
		cmds = append(cmds, cmd)
	case tea.KeyMsg:
		return m.handleKey(msg, cmds)
	}
	return m, tea.Batch(cmds...)
}

func (m model) handleKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		cmds = append(cmds, m.activateTab((m.activeTab+1)%3))
		return m, tea.Batch(cmds...)
	case "shift+tab":
		cmds = append(cmds, m.activateTab((m.activeTab+2)%3))
		return m, tea.Batch(cmds...)
	}

	switch m.activeTab {
	case tabChat:
		return m.handleChatKey(msg, cmds)
	case tabStatus:
		if msg.String() == "r" {
			cmds = append(cmds, m.fetchStatusCmd())
		}
		return m, tea.Batch(cmds...)
	case tabMemory:
		return m.handleMemoryKey(msg, cmds)
	}
	return m, tea.Batch(cmds...)
}

func (m model) handleChatKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		raw := m.input.Value()
		if trimmed := strings.TrimSpace(raw); strings.HasPrefix(trimmed, "/") {
			m.input.Reset()
			if cmd := m.handleSlash(trimmed); cmd != nil {
				cmds = append(cmds, cmd)
			}
			m.renderChatPane(false)
			return m, tea.Batch(cmds...)
		}
		// The in-flight guard lives inside Submit and runs before the
		// request command is ever created.
		req, ok := m.sess.Submit(raw)
		if !ok {
			return m, tea.Batch(cmds...)
		}
		m.input.Reset()
		m.statusLine = "thinking..."
		m.renderChatPane(true)
		cmds = append(cmds, m.sendChatCmd(req), m.spinner.Tick)
		return m, tea.Batch(cmds...)
	case "ctrl+p":
		m.sess.SelectProvider(nextProvider(m.sess.Provider()))
		m.statusLine = "model: " + providerLabel(m.sess.Provider())
		return m, tea.Batch(cmds...)
	case "pgup":
		m.chatlog.LineUp(8)
		return m, tea.Batch(cmds...)
	case "pgdown":
		m.chatlog.LineDown(8)
		return m, tea.Batch(cmds...)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) handleMemoryKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := strings.TrimSpace(m.search.Value())
		m.memoryErr = ""
		m.memoryLoading = true
		if query == "" {
			// An empty submission falls back to the full listing.
			cmds = append(cmds, m.loadMemoriesCmd())
		} else {
			cmds = append(cmds, m.searchMemoriesCmd(query))
		}
		cmds = append(cmds, m.spinner.Tick)
		m.renderPanes()
		return m, tea.Batch(cmds...)
	case "esc":
		if m.mmode == memorySearch {
			m.search.Reset()
			m.memoryLoading = true
			cmds = append(cmds, m.loadMemoriesCmd(), m.spinner.Tick)
			m.renderPanes()
		}
		return m, tea.Batch(cmds...)
	case "pgup":
		m.memlog.LineUp(8)
		return m, tea.Batch(cmds...)
	case "pgdown":
		m.memlog.LineDown(8)
		return m, tea.Batch(cmds...)
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// activateTab switches views and manages the lifecycles tied to them:
// the status poll loop starts on entry and dies on exit via pollGen, the
// memory listing loads on first entry, and input focus follows the tab.
func (m *model) activateTab(tab tabID) tea.Cmd {
	if tab == m.activeTab {
		return nil
	}
	leavingStatus := m.activeTab == tabStatus
	m.activeTab = tab
	if leavingStatus {
		m.pollGen++
	}

	var cmds []tea.Cmd
	switch tab {
	case tabChat:
		m.search.Blur()
		m.input.Focus()
		cmds = append(cmds, textarea.Blink)
	case tabStatus:
		m.input.Blur()
		m.search.Blur()
		m.pollGen++
		cmds = append(cmds, m.fetchStatusCmd(), statusTick(m.cfg.PollInterval, m.pollGen))
	case tabMemory:
		m.input.Blur()
		m.search.Focus()
		cmds = append(cmds, textinput.Blink)
		if !m.memoryLoaded {
			m.memoryLoaded = true
			m.memoryLoading = true
			cmds = append(cmds, m.loadMemoriesCmd())
		}
	}
	m.renderPanes()
	return tea.Batch(cmds...)
}

func (m *model) handleSlash(raw string) tea.Cmd {
	parts := strings.Fields(raw)
	if len(parts) == 0 {
		return nil
	}
	switch strings.ToLower(parts[0]) {
	case "/help":
		m.statusLine = "/model <auto|local|claude|grok|gemini> · /transcribe <file> · /status · /memory · /quit"
	case "/quit", "/exit":
		return tea.Quit
	case "/model", "/provider":
		if len(parts) < 2 {
			m.statusLine = "model: " + providerLabel(m.sess.Provider())
			return nil
		}
		choice, ok := parseProvider(parts[1])
		if !ok {
			m.statusLine = "usage: /model auto|local|claude|grok|gemini"
			return nil
		}
		m.sess.SelectProvider(choice)
		m.statusLine = "model: " + providerLabel(choice)
	case "/transcribe":
		if len(parts) < 2 {
			m.statusLine = "usage: /transcribe <audio file>"
			return nil
		}
		if m.transcribing {
			m.statusLine = "a transcription is already running"
			return nil
		}
		m.transcribing = true
		m.audioErr = ""
		m.statusLine = "transcribing..."
		return tea.Batch(m.transcribeCmd(strings.Join(parts[1:], " ")), m.spinner.Tick)
	case "/status":
		return m.activateTab(tabStatus)
	case "/memory", "/memories":
		return m.activateTab(tabMemory)
	default:
		m.statusLine = "unknown command: " + parts[0]
	}
	return nil
}
