package draft

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const draftJSON = `{"title":"Moving the Finish Line","journalContent":"Today I realized...","insights":["a","b","c"],"moodTags":["tired","hopeful","curious"],"transcript":"model echo"}`

func candidate(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}}},
		},
	})
	return string(b)
}

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestFromTranscript(t *testing.T) {
	var got generateRequest
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = io.WriteString(w, candidate(draftJSON))
	})

	g := NewGeminiGenerator(srv.URL, "secret", "test-model", 5*time.Second)
	d, err := g.FromTranscript(context.Background(), "I talked about work.")
	require.NoError(t, err)

	assert.Equal(t, "Moving the Finish Line", d.Title)
	assert.Equal(t, "Today I realized...", d.Content)
	assert.Equal(t, []string{"a", "b", "c"}, d.Insights)
	assert.Equal(t, []string{"tired", "hopeful", "curious"}, d.MoodTags)
	assert.Equal(t, "I talked about work.", d.Transcript)

	require.Len(t, got.Contents, 1)
	require.Len(t, got.Contents[0].Parts, 1)
	assert.Contains(t, got.Contents[0].Parts[0].Text, "I talked about work.")
	assert.Contains(t, got.SystemInstruction.Parts[0].Text, "You are Ember")
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
	assert.ElementsMatch(t, []string{"title", "journalContent", "insights", "moodTags"}, got.GenerationConfig.ResponseSchema.Required)
}

func TestFromAudio(t *testing.T) {
	var got generateRequest
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/"+DefaultModel+":generateContent", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, candidate(draftJSON))
	})

	g := NewGeminiGenerator(srv.URL, "k", "", time.Second)
	d, err := g.FromAudio(context.Background(), []byte{0xde, 0xad}, "audio/webm")
	require.NoError(t, err)
	assert.Equal(t, "model echo", d.Transcript)

	parts := got.Contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "audio/webm", parts[0].InlineData.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0xde, 0xad}), parts[0].InlineData.Data)
	assert.Equal(t, audioPrompt, parts[1].Text)
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	called := false
	srv := newServer(t, func(http.ResponseWriter, *http.Request) { called = true })

	_, err := NewGeminiGenerator(srv.URL, "", "", time.Second).FromTranscript(context.Background(), "hi")
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.False(t, called)
}

func TestGenerate_EmptyInput(t *testing.T) {
	g := NewGeminiGenerator("http://127.0.0.1:0", "k", "", time.Second)

	_, err := g.FromTranscript(context.Background(), "  \n")
	require.Error(t, err)
	_, err = g.FromAudio(context.Background(), nil, "audio/webm")
	require.Error(t, err)
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, "gemini status 400: API key not valid"},
		{"bare status", http.StatusBadGateway, `oops`, "gemini status 502"},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, "no response generated"},
		{"empty text", http.StatusOK, candidate(""), "no response generated"},
		{"not json", http.StatusOK, candidate("Sorry, I can't help"), "decode draft"},
		{"missing title", http.StatusOK, candidate(`{"journalContent":"x"}`), "missing title or content"},
		{"garbage body", http.StatusOK, `<html>`, "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := NewGeminiGenerator(srv.URL, "k", "", time.Second).FromTranscript(context.Background(), "hi")
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseDraft_NilListsBecomeEmpty(t *testing.T) {
	var gr generateResponse
	require.NoError(t, json.Unmarshal([]byte(candidate(`{"title":"t","journalContent":"c"}`)), &gr))

	d, err := parseDraft(&gr)
	require.NoError(t, err)
	assert.NotNil(t, d.Insights)
	assert.NotNil(t, d.MoodTags)
}
