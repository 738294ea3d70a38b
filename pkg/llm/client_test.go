package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/dropscope/pkg/config"
	"github.com/umputun/dropscope/pkg/domain"
)

func newTestServer(t *testing.T, content string, check func(req openai.ChatCompletionRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if check != nil {
			check(req)
		}

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestClient_Complete(t *testing.T) {
	content := `Here is the analysis: {"seo_score":7,"commercial_score":"8","brandability_score":6,` +
		`"competition_score":4,"risk_score":2,"recommended_price":120,"resale_value":900,"roi_percent":650,` +
		`"recommendation":"BUY","reasoning":"short commercial name"} Let me know if you need more.`

	server := newTestServer(t, content, func(req openai.ChatCompletionRequest) {
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.Equal(t, 800, req.MaxTokens)
		if !assert.Len(t, req.Messages, 2) {
			return
		}
		assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
		assert.Equal(t, defaultSystemPrompt, req.Messages[0].Content)
		assert.Contains(t, req.Messages[1].Content, "Domain: shopfast.com")
		assert.Nil(t, req.ResponseFormat)
	})
	defer server.Close()

	client := New(config.LLMConfig{Endpoint: server.URL + "/v1", APIKey: "test-key", Model: "gpt-4o-mini",
		Temperature: 0.3, MaxTokens: 800, Timeout: 5 * time.Second})

	prompt := BuildPrompt(TemplateStandard, domain.Candidate{Name: "shopfast.com", Label: "shopfast", Suffix: "com", Length: 8})
	text, err := client.Complete(context.Background(), prompt)
	require.NoError(t, err)
	assert.Equal(t, content, text)

	// the prose-wrapped answer parses
	res, err := ParseAnalysis(text)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, res.SubScores.SEO, 0.001)
	assert.InDelta(t, 8.0, res.SubScores.Commercial, 0.001)
	assert.Equal(t, domain.RecommendBuy, res.Recommendation)
	assert.InDelta(t, 650.0, res.ROIPercent, 0.001)
}

func TestClient_JSONModeAndCustomPrompt(t *testing.T) {
	server := newTestServer(t, `{"seo_score": 5}`, func(req openai.ChatCompletionRequest) {
		if !assert.NotNil(t, req.ResponseFormat) {
			return
		}
		assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
		assert.Equal(t, "custom system prompt", req.Messages[0].Content)
	})
	defer server.Close()

	client := New(config.LLMConfig{Endpoint: server.URL + "/v1", APIKey: "test-key", Model: "m",
		UseJSONMode: true, SystemPrompt: "custom system prompt"})
	text, err := client.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.JSONEq(t, `{"seo_score": 5}`, text)
}

func TestClient_Errors(t *testing.T) {
	t.Run("service error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
		}))
		defer server.Close()
		client := New(config.LLMConfig{Endpoint: server.URL + "/v1", APIKey: "test-key", Model: "m"})
		_, err := client.Complete(context.Background(), "prompt")
		require.ErrorContains(t, err, "llm request failed")
	})

	t.Run("no choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()
		client := New(config.LLMConfig{Endpoint: server.URL + "/v1", APIKey: "test-key", Model: "m"})
		_, err := client.Complete(context.Background(), "prompt")
		require.EqualError(t, err, "no response from llm")
	})

	t.Run("empty content", func(t *testing.T) {
		server := newTestServer(t, "   ", nil)
		defer server.Close()
		client := New(config.LLMConfig{Endpoint: server.URL + "/v1", APIKey: "test-key", Model: "m"})
		_, err := client.Complete(context.Background(), "prompt")
		require.EqualError(t, err, "empty response from llm")
	})
}
