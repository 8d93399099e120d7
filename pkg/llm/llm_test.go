package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
}

func testClient(url string) *Client {
	return NewClient(Config{APIKey: "test-key", BaseURL: url + "/v1", Model: "test-model", Timeout: 5 * time.Second})
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(Config{})

	assert.False(t, c.Configured())
	assert.Equal(t, DefaultModel, c.Model())

	_, err := c.AnalyzeCreator(context.Background(), AnalyzeRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_AnalyzeCreator(t *testing.T) {
	answer := "```json\n{\"summary\":\"Solid seller\",\"strengths\":[\"Beauty\"],\"opportunities\":[\"Food\"],\"recommendations\":[\"Push serums\"],\"topCategories\":[\"Beauty\"]}\n```"
	srv := completionServer(t, answer, http.StatusOK)
	defer srv.Close()

	out, err := testClient(srv.URL).AnalyzeCreator(context.Background(), AnalyzeRequest{
		Creator: CreatorProfile{ID: "c-1", Name: "Ayu"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Solid seller", out.Summary)
	assert.Equal(t, []string{"Beauty"}, out.TopCategories)
}

func TestClient_MatchProducts(t *testing.T) {
	answer := `Here are the results: {"matches":[{"id":"p-1","score":88,"categoryFit":90,"priceFit":80,"seasonFit":80,"audienceFit":85,"reasoning":"Fits {well}","confidence":80},]} Thanks!`
	srv := completionServer(t, answer, http.StatusOK)
	defer srv.Close()

	out, err := testClient(srv.URL).MatchProducts(context.Background(), ProductMatchRequest{Limit: 5})

	require.NoError(t, err)
	require.Len(t, out.Matches, 1)
	assert.Equal(t, "p-1", out.Matches[0].ID)
	assert.Equal(t, 88.0, out.Matches[0].Score)
	assert.Equal(t, "Fits {well}", out.Matches[0].Reasoning)
}

func TestClient_UpstreamError(t *testing.T) {
	srv := completionServer(t, "", http.StatusInternalServerError)
	defer srv.Close()

	_, err := testClient(srv.URL).MatchCreators(context.Background(), CreatorMatchRequest{Limit: 5})
	assert.Error(t, err)
}

func TestClient_InvalidJSON(t *testing.T) {
	srv := completionServer(t, "I cannot help with that.", http.StatusOK)
	defer srv.Close()

	_, err := testClient(srv.URL).MatchCreators(context.Background(), CreatorMatchRequest{Limit: 5})
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                       `{"a":1}`,
		"```json\n{\"a\":1}\n```":       `{"a":1}`,
		`prefix {"a":{"b":"}"}} suffix`: `{"a":{"b":"}"}}`,
		`{"a":[1,2,],}`:                 `{"a":[1,2]}`,
		`{a: 1}`:                        `{"a": 1}`,
		`no json here`:                  ``,
		`{broken`:                       ``,
	}
	for in, want := range cases {
		assert.Equal(t, want, extractJSON(in), "input %q", in)
	}
}

func TestBuildPrompts(t *testing.T) {
	p, err := BuildMatchProductsPrompt(ProductMatchRequest{
		Creator:  CreatorProfile{ID: "c-1"},
		Products: []ProductProfile{{ID: "p-9", Name: "Serum"}},
		Limit:    7,
	})
	require.NoError(t, err)
	assert.Contains(t, p, `"p-9"`)
	assert.Contains(t, p, "at most 7 products")

	p, err = BuildMatchCreatorsPrompt(CreatorMatchRequest{Product: ProductProfile{ID: "p-1"}, Limit: 3})
	require.NoError(t, err)
	assert.Contains(t, p, "at most 3 creators")

	p, err = BuildAnalyzePrompt(AnalyzeRequest{Creator: CreatorProfile{Name: "Ayu"}})
	require.NoError(t, err)
	assert.Contains(t, p, `"Ayu"`)
}
