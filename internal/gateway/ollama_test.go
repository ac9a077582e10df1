package gateway

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

func TestOllama_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)

		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "codellama", req.Model)
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "def f():\n    return 1\n"},
		})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "codellama")
	code, err := c.Generate(context.Background(), "write f")
	require.NoError(t, err)
	assert.Contains(t, code, "def f()")
}

func TestOllama_ServerErrorIsGenerationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "codellama")
	_, err := c.Generate(context.Background(), "write f")
	require.ErrorIs(t, err, ErrGeneration)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestOllama_EmptyContentIsGenerationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaChatResponse{})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "codellama")
	_, err := c.Generate(context.Background(), "write f")
	require.ErrorIs(t, err, ErrGeneration)
}

func TestOllama_DeadlineSurfacesAsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "codellama")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Generate(ctx, "write f")
	require.ErrorIs(t, err, ErrTimeout)
}

func TestRefactorPrompt(t *testing.T) {
	p := RefactorPrompt("x = 1")
	assert.Contains(t, p, "Refactor the following code")
	assert.Contains(t, p, "x = 1")
}
