package generation

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

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.False(t, req.Stream)
		assert.Contains(t, req.Prompt, "some transcript")

		json.NewEncoder(w).Encode(map[string]string{"response": "generated text"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llama3", 5*time.Second)
	got, err := c.Generate(context.Background(), "prompt with some transcript")
	require.NoError(t, err)
	assert.Equal(t, "generated text", got)
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llama3", 5*time.Second)
	_, err := c.Generate(context.Background(), "prompt")

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Contains(t, backendErr.Error(), "status 500")
}

func TestGenerateTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, "llama3", time.Second)
	_, err := c.Generate(context.Background(), "prompt")

	var backendErr *BackendError
	assert.ErrorAs(t, err, &backendErr)
}

func TestGenerateMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llama3", time.Second)
	_, err := c.Generate(context.Background(), "prompt")

	var backendErr *BackendError
	assert.ErrorAs(t, err, &backendErr)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llama3", time.Second)
	assert.NoError(t, c.Ping(context.Background()))
}

// A wrong base URL answers 404; the probe must not treat that as a
// live backend.
func TestPingNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llama3", time.Second)
	assert.Error(t, c.Ping(context.Background()))
}
