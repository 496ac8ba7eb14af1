// Package session owns the conversational turn lifecycle: the ordered
// message log, the single-in-flight guard, and the provider override.
// It is deliberately free of any TUI dependency — the event loop calls
// Submit synchronously, runs the chat request however it likes, and feeds
// the outcome back through Resolve.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"jessica/internal/api"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the session log. Routing is set only on
// assistant messages that came from a successful backend call.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Routing   *api.Routing
	Timestamp time.Time
}

// Request is the work handed back by Submit: the payload for exactly one
// chat call, stamped with a sequence number so that a completion from an
// abandoned turn can be told apart from the current one.
type Request struct {
	Seq      uint64
	Content  string
	Provider api.Provider
}

// Controller is the session state machine. It is not safe for concurrent
// use; it is meant to be driven from a single event loop.
type Controller struct {
	log      []Message
	loading  bool
	lastErr  string
	provider api.Provider
	seq      uint64
	pending  uint64
}

func NewController() *Controller {
	return &Controller{}
}

// Submit starts a turn. Blank input and submissions while a turn is in
// flight are no-ops. On success the user message is already appended —
// before any network activity — and the returned Request must be resolved
// exactly once via Resolve.
func (c *Controller) Submit(raw string) (Request, bool) {
	content := strings.TrimSpace(raw)
	if content == "" || c.loading {
		return Request{}, false
	}
	c.append(Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	})
	c.lastErr = ""
	c.loading = true
	c.seq++
	c.pending = c.seq
	return Request{Seq: c.seq, Content: content, Provider: c.provider}, true
}

// Resolve completes the turn with the given sequence number. A completion
// for anything but the pending turn is discarded. On failure the error is
// recorded and no assistant message is appended; the user message stays.
// The loading flag drops on every applied outcome. Reports whether the
// outcome was applied.
func (c *Controller) Resolve(seq uint64, resp *api.ChatResponse, err error) bool {
	if !c.loading || seq != c.pending {
		return false
	}
	c.loading = false
	c.pending = 0
	if err != nil {
		c.lastErr = err.Error()
		return true
	}
	routing := resp.Routing
	c.append(Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   resp.Response,
		Routing:   &routing,
		Timestamp: time.Now(),
	})
	return true
}

// SelectProvider sets the override for subsequent turns. ProviderAuto
// clears it. Never triggers a request by itself.
func (c *Controller) SelectProvider(p api.Provider) {
	c.provider = p
}

func (c *Controller) Provider() api.Provider { return c.provider }

func (c *Controller) Messages() []Message { return c.log }

func (c *Controller) Loading() bool { return c.loading }

// Err is the last turn failure, empty once a new turn is submitted.
func (c *Controller) Err() string { return c.lastErr }

// append keeps log timestamps non-decreasing even if the wall clock
// steps backwards between entries.
func (c *Controller) append(msg Message) {
	if n := len(c.log); n > 0 && msg.Timestamp.Before(c.log[n-1].Timestamp) {
		msg.Timestamp = c.log[n-1].Timestamp
	}
	c.log = append(c.log, msg)
}

// MergeTranscription appends transcribed text to the input buffer,
// inserting a separating space only when the buffer already has content.
// It never submits the turn.
func MergeTranscription(buffer, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return buffer
	}
	if buffer == "" {
		return text
	}
	return buffer + " " + text
}
