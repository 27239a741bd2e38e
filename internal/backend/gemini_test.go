package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiServer(t *testing.T, status int, body string) (*httptest.Server, *[]string) {
	t.Helper()
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqBody, _ := io.ReadAll(r.Body)
		seen = append(seen, r.URL.Path, string(reqBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestGemini_Generate(t *testing.T) {
	srv, seen := geminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"overall\":81}"}]},"finishReason":"STOP"}]}`)

	g, err := NewGeminiWithBaseURL(context.Background(), "test-key", "", srv.URL)
	require.NoError(t, err)

	text, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"overall":81}`, text)

	require.Len(t, *seen, 2)
	path, body := (*seen)[0], (*seen)[1]
	assert.True(t, strings.HasSuffix(path, "models/"+defaultGeminiModel+":generateContent"), "path = %q", path)
	assert.Contains(t, body, "rate Audrey and Kevin")
	assert.Contains(t, body, `"maxOutputTokens":256`)
}

func TestGemini_CustomModel(t *testing.T) {
	srv, seen := geminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"ok"}]}}]}`)

	g, err := NewGeminiWithBaseURL(context.Background(), "test-key", "gemini-2.5-flash", srv.URL)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Contains(t, (*seen)[0], "gemini-2.5-flash:generateContent")
}

func TestGemini_NoCandidates(t *testing.T) {
	srv, _ := geminiServer(t, http.StatusOK, `{"candidates":[]}`)

	g, err := NewGeminiWithBaseURL(context.Background(), "test-key", "", srv.URL)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), testRequest())
	assert.ErrorIs(t, err, errEmptyCandidates)
}

func TestGemini_ServerError(t *testing.T) {
	srv, _ := geminiServer(t, http.StatusInternalServerError,
		`{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`)

	g, err := NewGeminiWithBaseURL(context.Background(), "test-key", "", srv.URL)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), testRequest())
	assert.Error(t, err)
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	assert.Error(t, err)
}
