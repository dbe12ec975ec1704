package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codelens/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_GenerateText(t *testing.T) {
	var gotReq generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{
					{"text": "Looks "},
					{"text": "good."},
				}}},
			},
		})
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key", "gemini-1.5-flash", WithBaseURL(srv.URL))

	text, err := client.GenerateText(context.Background(), "func sum() int { return 1 + 1 }")
	require.NoError(t, err)
	assert.Equal(t, "Looks good.", text)

	// System instruction rides along with every request.
	require.NotNil(t, gotReq.SystemInstruction)
	assert.NotEmpty(t, gotReq.SystemInstruction.Parts[0].Text)
	require.Len(t, gotReq.Contents, 1)
	assert.Contains(t, gotReq.Contents[0].Parts[0].Text, "func sum")
}

func TestGeminiClient_UpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"},
		})
	}))
	defer srv.Close()

	client := NewGeminiClient("k", "gemini-1.5-flash", WithBaseURL(srv.URL))

	_, err := client.GenerateText(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, "UPSTREAM_ERROR"))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGeminiClient_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	client := NewGeminiClient("k", "gemini-1.5-flash", WithBaseURL(srv.URL))

	_, err := client.GenerateText(context.Background(), "x")
	assert.True(t, models.IsCode(err, "UPSTREAM_ERROR"))
}

func TestGeminiClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewGeminiClient("k", "gemini-1.5-flash",
		WithBaseURL(srv.URL),
		WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))

	_, err := client.GenerateText(context.Background(), "x")
	assert.True(t, models.IsCode(err, "UPSTREAM_ERROR"))
}

func TestGeminiClient_NetworkError(t *testing.T) {
	// Point at a closed server.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewGeminiClient("k", "gemini-1.5-flash", WithBaseURL(srv.URL))

	_, err := client.GenerateText(context.Background(), "x")
	assert.True(t, models.IsCode(err, "UPSTREAM_ERROR"))
}
