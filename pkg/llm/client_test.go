package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthfinder-go/pkg/config"
	"healthfinder-go/pkg/models"
)

type capturedRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Stream      bool    `json:"stream"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func testLLMLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

// completionServer returns a stub chat completion endpoint that records the
// last request and replies with the given content.
func completionServer(t *testing.T, content string, captured *capturedRequest) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			err := json.NewDecoder(r.Body).Decode(captured)
			require.NoError(t, err, "stub server should decode the completion request")
		}

		w.Header().Set("Content-Type", "application/json")
		response := map[string]interface{}{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{
				"prompt_tokens":     12,
				"completion_tokens": 8,
				"total_tokens":      20,
			},
		}
		err := json.NewEncoder(w).Encode(response)
		require.NoError(t, err)
	}))
}

func testClient(serverURL string) *Client {
	cfg := &config.LLMConfig{
		Provider:    "openai",
		APIKey:      "test-key",
		BaseURL:     serverURL,
		Model:       "gpt-4",
		Temperature: 0.7,
		MaxTokens:   2000,
		Timeout:     5,
	}
	return NewClient(cfg, testLLMLogger())
}

func TestChatCompletion(t *testing.T) {
	var captured capturedRequest
	server := completionServer(t, "Here is the answer.", &captured)
	defer server.Close()

	client := testClient(server.URL)
	messages := []models.ChatMessage{
		{Role: models.RoleUser, Content: "What is hypertension?"},
		{Role: models.RoleAssistant, Content: "A condition of elevated blood pressure."},
		{Role: models.RoleUser, Content: "How is it treated?"},
	}

	result, err := client.ChatCompletion(context.Background(), messages, "You are a helpful assistant.")
	require.NoError(t, err)
	assert.Equal(t, "Here is the answer.", result)

	assert.Equal(t, "gpt-4", captured.Model)
	assert.InDelta(t, 0.7, captured.Temperature, 0.001)
	assert.Equal(t, 2000, captured.MaxTokens)
	assert.False(t, captured.Stream, "completions should not be requested as streams")

	require.Len(t, captured.Messages, 4, "system prompt plus three conversation messages")
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "You are a helpful assistant.", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "assistant", captured.Messages[2].Role)
	assert.Equal(t, "user", captured.Messages[3].Role)
	assert.Equal(t, "How is it treated?", captured.Messages[3].Content)
}

func TestChatCompletionWithoutSystemPrompt(t *testing.T) {
	var captured capturedRequest
	server := completionServer(t, "ok", &captured)
	defer server.Close()

	client := testClient(server.URL)
	messages := []models.ChatMessage{
		{Role: models.RoleUser, Content: "Hello"},
	}

	_, err := client.ChatCompletion(context.Background(), messages, "")
	require.NoError(t, err)

	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
}

func TestChatCompletionNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"id":"chatcmpl-test","object":"chat.completion","choices":[],"usage":{"total_tokens":0}}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := testClient(server.URL)
	messages := []models.ChatMessage{{Role: models.RoleUser, Content: "Hello"}}

	_, err := client.ChatCompletion(context.Background(), messages, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response choices returned")
}

func TestChatCompletionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, err := w.Write([]byte(`{"error":{"message":"backend unavailable","type":"server_error"}}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := testClient(server.URL)
	messages := []models.ChatMessage{{Role: models.RoleUser, Content: "Hello"}}

	_, err := client.ChatCompletion(context.Background(), messages, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion API call failed")
}

func TestComposeSynthesis(t *testing.T) {
	var captured capturedRequest
	server := completionServer(t, "  Polished narrative about treatment options.  ", &captured)
	defer server.Close()

	client := testClient(server.URL)
	composed, err := client.ComposeSynthesis(context.Background(), "How is diabetes treated?", "# Draft\n\nInsulin and lifestyle changes.")
	require.NoError(t, err)
	assert.Equal(t, "Polished narrative about treatment options.", composed, "composed output should be trimmed")

	require.Len(t, captured.Messages, 2, "composition sends a system prompt and one user message")
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[0].Content, "health information editor")
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Contains(t, captured.Messages[1].Content, "How is diabetes treated?")
	assert.Contains(t, captured.Messages[1].Content, "Insulin and lifestyle changes.")
}

func TestComposeSynthesisError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.ComposeSynthesis(context.Background(), "query", "draft")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compose synthesis narrative")
}

func TestModelSelection(t *testing.T) {
	logger := testLLMLogger()

	t.Run("openai uses configured model", func(t *testing.T) {
		client := NewClient(&config.LLMConfig{Provider: "openai", Model: "gpt-4"}, logger)
		assert.Equal(t, "gpt-4", client.model())
	})

	t.Run("azure routes by deployment", func(t *testing.T) {
		client := NewClient(&config.LLMConfig{
			Provider:   "azure",
			Endpoint:   "https://example.openai.azure.com",
			Deployment: "gpt-4-deploy",
			Model:      "gpt-4",
		}, logger)
		assert.Equal(t, "gpt-4-deploy", client.model())
	})

	t.Run("azure without deployment falls back to model", func(t *testing.T) {
		client := NewClient(&config.LLMConfig{
			Provider: "azure",
			Endpoint: "https://example.openai.azure.com",
			Model:    "gpt-4",
		}, logger)
		assert.Equal(t, "gpt-4", client.model())
	})
}
