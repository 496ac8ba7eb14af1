package api

// Provider identifies a backend routing target. The empty value means
// "auto": the backend picks the tier itself.
type Provider string

const (
	ProviderAuto   Provider = ""
	ProviderLocal  Provider = "local"
	ProviderClaude Provider = "claude"
	ProviderGrok   Provider = "grok"
	ProviderGemini Provider = "gemini"
)

// Routing describes which service handled a turn and why. Tier is the
// backend's internal routing tier and may be empty on older backends.
type Routing struct {
	Provider Provider `json:"provider"`
	Tier     string   `json:"tier,omitempty"`
	Reason   string   `json:"reason"`
}

type ChatResponse struct {
	Response string  `json:"response"`
	Routing  Routing `json:"routing"`
}

// StatusResponse is a point-in-time snapshot of backend service health.
type StatusResponse struct {
	LocalOllama bool `json:"local_ollama"`
	LocalMemory bool `json:"local_memory"`
	ClaudeAPI   bool `json:"claude_api"`
	GrokAPI     bool `json:"grok_api"`
	GeminiAPI   bool `json:"gemini_api"`
	Mem0API     bool `json:"mem0_api"`
}

// MemoryRecord is one entry from the cloud memory store. Score is only
// present on search results.
type MemoryRecord struct {
	Memory   string         `json:"memory"`
	Score    *float64       `json:"score,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type memoryListResponse struct {
	Results []MemoryRecord `json:"results"`
}

type transcriptionResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}
