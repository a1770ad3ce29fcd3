package workflow

import (
	"fmt"
	"strings"
	"time"

	"healthfinder-go/pkg/models"
)

// formatFinalResponse appends the research methodology footer to the
// synthesized content. Output is deterministic for a given synthesis result.
func formatFinalResponse(result models.SynthesisResult) string {
	var b strings.Builder

	b.WriteString(result.SynthesizedContent)
	b.WriteString("\n\n---\n\n")
	b.WriteString("**Research Methodology**: This response was generated using a multi-agent research system.\n\n")

	if len(result.KeyInsights) > 0 {
		b.WriteString("**Key Insights**:\n")
		for _, insight := range result.KeyInsights {
			fmt.Fprintf(&b, "• %s\n", insight)
		}
		b.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		b.WriteString("**Recommendations**:\n")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(&b, "• %s\n", rec)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "**Confidence Level**: %s\n", models.Percent(result.Confidence))
	fmt.Fprintf(&b, "**Sources Analyzed**: %d total sources\n", len(result.SourceResults))

	return b.String()
}

// estimateUsage approximates token counts as character length over four.
func estimateUsage(req *models.ChatCompletionRequest, content string) models.Usage {
	contents := make([]string, len(req.Messages))
	for i, msg := range req.Messages {
		contents[i] = msg.Content
	}

	prompt := len(strings.Join(contents, " ")) / 4
	completion := len(content) / 4

	return models.Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

// buildCompletionResponse assembles the OpenAI-compatible success payload.
func buildCompletionResponse(runID string, req *models.ChatCompletionRequest, content string, result models.SynthesisResult, state *models.WorkflowState, agents []models.AgentInfo) *models.ChatCompletionResponse {
	usage := estimateUsage(req, content)
	state.TotalTokensUsed = usage.TotalTokens

	return &models.ChatCompletionResponse{
		ID:      "chatcmpl-" + runID,
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []models.Choice{
			{
				Index:        0,
				Message:      models.ChatMessage{Role: models.RoleAssistant, Content: content},
				FinishReason: "stop",
			},
		},
		Usage:              usage,
		AgentState:         state,
		ContributingAgents: agents,
		ResearchMetadata: map[string]interface{}{
			"synthesis_confidence": result.Confidence,
			"total_sources":        len(result.SourceResults),
			"workflow_id":          runID,
			"processing_time":      state.ProcessingTime,
		},
	}
}

// buildErrorResponse produces the apologetic completion returned when the
// pipeline fails after accepting a request.
func buildErrorResponse(runID string, req *models.ChatCompletionRequest, errMessage string, processingTime float64) *models.ChatCompletionResponse {
	content := fmt.Sprintf("I apologize, but I encountered an error while processing your request: %s", errMessage)

	return &models.ChatCompletionResponse{
		ID:      "chatcmpl-" + runID,
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []models.Choice{
			{
				Index:        0,
				Message:      models.ChatMessage{Role: models.RoleAssistant, Content: content},
				FinishReason: "stop",
			},
		},
		Usage: estimateUsage(req, content),
		AgentState: &models.WorkflowState{
			CurrentStep:      "error",
			CompletedSteps:   []string{},
			ResearchResults:  []models.ResearchFinding{},
			WebSearchResults: []models.SearchResult{},
			ActiveAgents:     []string{},
			ProcessingTime:   processingTime,
		},
		ContributingAgents: []models.AgentInfo{},
		ResearchMetadata: map[string]interface{}{
			"error":           errMessage,
			"workflow_id":     runID,
			"processing_time": processingTime,
		},
	}
}
