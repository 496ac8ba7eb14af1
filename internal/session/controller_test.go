package session

import (
	"errors"
	"testing"

	"jessica/internal/api"
)

func TestSubmitAppendsUserMessageBeforeAnyResolution(t *testing.T) {
	c := NewController()
	req, ok := c.Submit("  status check  ")
	if !ok {
		t.Fatalf("expected submit to start a turn")
	}
	if req.Content != "status check" {
		t.Fatalf("expected trimmed content, got %q", req.Content)
	}
	messages := c.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected exactly one message, got %d", len(messages))
	}
	if messages[0].Role != RoleUser || messages[0].Content != "status check" {
		t.Fatalf("unexpected user message: %+v", messages[0])
	}
	if messages[0].ID == "" {
		t.Fatalf("expected a client-assigned message ID")
	}
	if !c.Loading() {
		t.Fatalf("expected loading while the request is unresolved")
	}
}

func TestSubmitRejectsBlankInput(t *testing.T) {
	c := NewController()
	for _, raw := range []string{"", "   ", "\n\t  "} {
		if _, ok := c.Submit(raw); ok {
			t.Fatalf("expected blank input %q to be a no-op", raw)
		}
	}
	if len(c.Messages()) != 0 {
		t.Fatalf("expected no messages after blank submissions")
	}
	if c.Loading() {
		t.Fatalf("expected no turn in flight")
	}
}

func TestSubmitGuardWhileTurnInFlight(t *testing.T) {
	c := NewController()
	req, ok := c.Submit("first")
	if !ok {
		t.Fatalf("expected first submit to start")
	}
	if _, ok := c.Submit("second"); ok {
		t.Fatalf("expected second submit to be ignored while in flight")
	}
	if got := len(c.Messages()); got != 1 {
		t.Fatalf("expected one user message after the ignored attempt, got %d", got)
	}
	c.Resolve(req.Seq, &api.ChatResponse{Response: "done"}, nil)
	if _, ok := c.Submit("second"); !ok {
		t.Fatalf("expected submission to work again once the turn resolved")
	}
}

func TestResolveSuccessAppendsAssistantWithRouting(t *testing.T) {
	c := NewController()
	req, _ := c.Submit("status check")
	resp := &api.ChatResponse{
		Response: "All systems nominal",
		Routing:  api.Routing{Provider: api.ProviderLocal, Reason: "routine query"},
	}
	if !c.Resolve(req.Seq, resp, nil) {
		t.Fatalf("expected resolve to apply")
	}
	messages := c.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected user + assistant, got %d messages", len(messages))
	}
	assistant := messages[1]
	if assistant.Role != RoleAssistant || assistant.Content != "All systems nominal" {
		t.Fatalf("unexpected assistant message: %+v", assistant)
	}
	if assistant.Routing == nil || assistant.Routing.Provider != api.ProviderLocal || assistant.Routing.Reason != "routine query" {
		t.Fatalf("expected routing metadata on the assistant message, got %+v", assistant.Routing)
	}
	if messages[0].Routing != nil {
		t.Fatalf("user messages must not carry routing metadata")
	}
	if c.Loading() || c.Err() != "" {
		t.Fatalf("expected idle, error-free controller after success")
	}
}

func TestResolveFailureKeepsUserMessageAndSetsError(t *testing.T) {
	c := NewController()
	req, _ := c.Submit("hello?")
	applied := c.Resolve(req.Seq, nil, &api.NetworkError{Err: errors.New("connection refused")})
	if !applied {
		t.Fatalf("expected failure resolution to apply")
	}
	if c.Loading() {
		t.Fatalf("loading must clear on the failure path")
	}
	if c.Err() == "" {
		t.Fatalf("expected a non-empty error description")
	}
	messages := c.Messages()
	if len(messages) != 1 || messages[0].Role != RoleUser {
		t.Fatalf("expected only the user message to remain, got %+v", messages)
	}
}

func TestErrorClearsOnNextSubmission(t *testing.T) {
	c := NewController()
	req, _ := c.Submit("first")
	c.Resolve(req.Seq, nil, errors.New("boom"))
	if c.Err() == "" {
		t.Fatalf("expected error after failed turn")
	}
	if _, ok := c.Submit("second"); !ok {
		t.Fatalf("expected resubmission to start")
	}
	if c.Err() != "" {
		t.Fatalf("expected error cleared on the next submission attempt")
	}
}

func TestStaleResolutionIsDiscarded(t *testing.T) {
	c := NewController()
	req, _ := c.Submit("current")
	if c.Resolve(req.Seq+1, &api.ChatResponse{Response: "from the future"}, nil) {
		t.Fatalf("expected a non-pending sequence to be discarded")
	}
	if !c.Loading() {
		t.Fatalf("discarded completion must not clear the loading flag")
	}
	if len(c.Messages()) != 1 {
		t.Fatalf("discarded completion must not append messages")
	}
	if !c.Resolve(req.Seq, &api.ChatResponse{Response: "the real one"}, nil) {
		t.Fatalf("expected the pending sequence to apply")
	}
	if c.Resolve(req.Seq, &api.ChatResponse{Response: "again"}, nil) {
		t.Fatalf("expected a second resolution of the same turn to be discarded")
	}
}

func TestSelectProviderAppliesOnNextSubmit(t *testing.T) {
	c := NewController()
	c.SelectProvider(api.ProviderClaude)
	req, _ := c.Submit("deep question")
	if req.Provider != api.ProviderClaude {
		t.Fatalf("expected claude override, got %q", req.Provider)
	}
	c.Resolve(req.Seq, &api.ChatResponse{Response: "ok"}, nil)

	c.SelectProvider(api.ProviderAuto)
	req, _ = c.Submit("plain question")
	if req.Provider != api.ProviderAuto {
		t.Fatalf("expected auto routing after clearing the override, got %q", req.Provider)
	}
}

func TestTimestampsNonDecreasing(t *testing.T) {
	c := NewController()
	for i := 0; i < 5; i++ {
		req, _ := c.Submit("turn")
		c.Resolve(req.Seq, &api.ChatResponse{Response: "reply"}, nil)
	}
	messages := c.Messages()
	for i := 1; i < len(messages); i++ {
		if messages[i].Timestamp.Before(messages[i-1].Timestamp) {
			t.Fatalf("timestamps decreased at index %d", i)
		}
	}
}

func TestMergeTranscription(t *testing.T) {
	if got := MergeTranscription("", "hello there"); got != "hello there" {
		t.Fatalf("empty buffer: got %q", got)
	}
	if got := MergeTranscription("draft so far", "and more"); got != "draft so far and more" {
		t.Fatalf("expected separating space, got %q", got)
	}
	if got := MergeTranscription("draft", "   "); got != "draft" {
		t.Fatalf("blank transcription must leave the buffer alone, got %q", got)
	}
}
