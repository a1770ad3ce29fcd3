package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Message roles accepted on the chat completions surface.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleFunction  = "function"
	RoleTool      = "tool"
)

// Request defaults applied when optional fields are omitted.
const (
	DefaultModel            = "gpt-4"
	DefaultTemperature      = float32(0.7)
	DefaultTopP             = float32(1.0)
	DefaultResearchDepth    = 3
	DefaultMaxSearchResults = 10
)

// ChatMessage single message in OpenAI wire format
type ChatMessage struct {
	Role         string                   `json:"role"`
	Content      string                   `json:"content"`
	Name         string                   `json:"name,omitempty"`
	FunctionCall map[string]interface{}   `json:"function_call,omitempty"`
	ToolCalls    []map[string]interface{} `json:"tool_calls,omitempty"`
}

// ChatCompletionRequest OpenAI-compatible completion request with research extensions.
// Optional fields are pointers so an omitted value can be defaulted without
// clobbering an explicit zero.
type ChatCompletionRequest struct {
	Messages         []ChatMessage `json:"messages"`
	Model            string        `json:"model,omitempty"`
	Temperature      *float32      `json:"temperature,omitempty"`
	MaxTokens        *int          `json:"max_tokens,omitempty"`
	TopP             *float32      `json:"top_p,omitempty"`
	FrequencyPenalty *float32      `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float32      `json:"presence_penalty,omitempty"`
	Stream           bool          `json:"stream,omitempty"`

	// Research pipeline extensions
	EnableWebSearch    *bool `json:"enable_web_search,omitempty"`
	EnableDeepResearch *bool `json:"enable_deep_research,omitempty"`
	ResearchDepth      *int  `json:"research_depth,omitempty"`
	MaxSearchResults   *int  `json:"max_search_results,omitempty"`
}

// ApplyDefaults fills omitted optional fields with their documented defaults.
func (r *ChatCompletionRequest) ApplyDefaults() {
	if r.Model == "" {
		r.Model = DefaultModel
	}
	if r.Temperature == nil {
		t := DefaultTemperature
		r.Temperature = &t
	}
	if r.TopP == nil {
		p := DefaultTopP
		r.TopP = &p
	}
	if r.EnableWebSearch == nil {
		b := true
		r.EnableWebSearch = &b
	}
	if r.EnableDeepResearch == nil {
		b := true
		r.EnableDeepResearch = &b
	}
	if r.ResearchDepth == nil {
		d := DefaultResearchDepth
		r.ResearchDepth = &d
	}
	if r.MaxSearchResults == nil {
		m := DefaultMaxSearchResults
		r.MaxSearchResults = &m
	}
}

// Validate checks field ranges and message shape before the pipeline runs.
func (r *ChatCompletionRequest) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("messages must contain at least one message")
	}
	if r.UserQuery() == "" {
		return fmt.Errorf("no user message found in request")
	}
	if r.Temperature != nil && (*r.Temperature < 0 || *r.Temperature > 2) {
		return fmt.Errorf("temperature must be between 0.0 and 2.0")
	}
	if r.TopP != nil && (*r.TopP < 0 || *r.TopP > 1) {
		return fmt.Errorf("top_p must be between 0.0 and 1.0")
	}
	if r.FrequencyPenalty != nil && (*r.FrequencyPenalty < -2 || *r.FrequencyPenalty > 2) {
		return fmt.Errorf("frequency_penalty must be between -2.0 and 2.0")
	}
	if r.PresencePenalty != nil && (*r.PresencePenalty < -2 || *r.PresencePenalty > 2) {
		return fmt.Errorf("presence_penalty must be between -2.0 and 2.0")
	}
	if r.ResearchDepth != nil && (*r.ResearchDepth < 1 || *r.ResearchDepth > 5) {
		return fmt.Errorf("research_depth must be between 1 and 5")
	}
	if r.MaxSearchResults != nil && (*r.MaxSearchResults < 1 || *r.MaxSearchResults > 50) {
		return fmt.Errorf("max_search_results must be between 1 and 50")
	}
	return nil
}

// UserQuery returns the content of the most recent user message.
func (r *ChatCompletionRequest) UserQuery() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser && strings.TrimSpace(r.Messages[i].Content) != "" {
			return r.Messages[i].Content
		}
	}
	return ""
}

// Depth returns the resolved research depth.
func (r *ChatCompletionRequest) Depth() int {
	if r.ResearchDepth == nil {
		return DefaultResearchDepth
	}
	return *r.ResearchDepth
}

// MaxResults returns the resolved search result cap.
func (r *ChatCompletionRequest) MaxResults() int {
	if r.MaxSearchResults == nil {
		return DefaultMaxSearchResults
	}
	return *r.MaxSearchResults
}

// WebSearchEnabled reports whether the web-search stage should run.
func (r *ChatCompletionRequest) WebSearchEnabled() bool {
	return r.EnableWebSearch == nil || *r.EnableWebSearch
}

// DeepResearchEnabled reports whether the research stage should run.
func (r *ChatCompletionRequest) DeepResearchEnabled() bool {
	return r.EnableDeepResearch == nil || *r.EnableDeepResearch
}

// ResearchFinding output of one research tool invocation
type ResearchFinding struct {
	Query      string    `json:"query"`
	Findings   string    `json:"findings"`
	Sources    []string  `json:"sources"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
	AgentName  string    `json:"agent_name"`
}

// SearchResult one ranked web search hit
type SearchResult struct {
	Query          string    `json:"query"`
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	Snippet        string    `json:"snippet"`
	RelevanceScore float64   `json:"relevance_score"`
	Timestamp      time.Time `json:"timestamp"`
	SourceType     string    `json:"source_type"`
	AgentName      string    `json:"agent_name"`
}

// SynthesisResult merged output of the synthesis stage
type SynthesisResult struct {
	SynthesizedContent string        `json:"synthesized_content"`
	SourceResults      []interface{} `json:"source_results"`
	Confidence         float64       `json:"confidence"`
	KeyInsights        []string      `json:"key_insights"`
	Recommendations    []string      `json:"recommendations"`
}

// WorkflowState per-request pipeline state. Owned by a single request; never
// shared across requests, so no locking.
type WorkflowState struct {
	CurrentStep      string            `json:"current_step"`
	CompletedSteps   []string          `json:"completed_steps"`
	ResearchResults  []ResearchFinding `json:"research_results"`
	WebSearchResults []SearchResult    `json:"web_search_results"`
	SynthesisResult  *SynthesisResult  `json:"synthesis_result,omitempty"`
	ActiveAgents     []string          `json:"active_agents"`
	TotalTokensUsed  int               `json:"total_tokens_used"`
	ProcessingTime   float64           `json:"processing_time"`
}

// AgentInfo describes one pipeline stage's contribution to a response.
type AgentInfo struct {
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Contribution string   `json:"contribution"`
	Confidence   float64  `json:"confidence"`
	SourcesUsed  []string `json:"sources_used"`
}

// Usage token accounting (estimated, len/4)
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice single completion choice
type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatCompletionResponse OpenAI-compatible completion with research metadata extensions.
type ChatCompletionResponse struct {
	ID                 string                 `json:"id"`
	Object             string                 `json:"object"`
	Created            int64                  `json:"created"`
	Model              string                 `json:"model"`
	Choices            []Choice               `json:"choices"`
	Usage              Usage                  `json:"usage"`
	AgentState         *WorkflowState         `json:"agent_state,omitempty"`
	ContributingAgents []AgentInfo            `json:"contributing_agents"`
	ResearchMetadata   map[string]interface{} `json:"research_metadata"`
}

// WorkflowConfig tunable pipeline parameters, replaceable at runtime via the config endpoint.
type WorkflowConfig struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	EnableResearch   bool    `json:"enable_research"`
	ResearchDepth    int     `json:"research_depth"`
	EnableWebSearch  bool    `json:"enable_web_search"`
	MaxSearchResults int     `json:"max_search_results"`
	SearchEngine     string  `json:"search_engine"`
	SynthesisType    string  `json:"synthesis_type"`
	LLMModel         string  `json:"llm_model"`
	LLMTemperature   float32 `json:"llm_temperature"`
	MaxTokens        int     `json:"max_tokens"`
	MaxExecutionTime int     `json:"max_execution_time"`
	TimeoutPerAgent  int     `json:"timeout_per_agent"`
}

// Validate checks ranges on a runtime config update.
func (c *WorkflowConfig) Validate() error {
	if c.ResearchDepth < 1 || c.ResearchDepth > 5 {
		return fmt.Errorf("research_depth must be between 1 and 5")
	}
	if c.MaxSearchResults < 1 || c.MaxSearchResults > 50 {
		return fmt.Errorf("max_search_results must be between 1 and 50")
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("llm_temperature must be between 0.0 and 2.0")
	}
	if c.MaxExecutionTime <= 0 {
		return fmt.Errorf("max_execution_time must be positive")
	}
	if c.TimeoutPerAgent <= 0 {
		return fmt.Errorf("timeout_per_agent must be positive")
	}
	return nil
}

// Round3 rounds a score to three decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Percent formats a 0..1 score as a percentage with one decimal, e.g. 85.0%.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
