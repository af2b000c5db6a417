package translate

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

func chatBody(content string) []byte {
	b, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
	})
	return b
}

func newTestServer(t *testing.T, status int, content string, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.WriteHeader(status)
		_, _ = w.Write(chatBody(content))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(url string) *Client {
	return NewClient(&Config{APIKey: "secret", APIURL: url, Model: "test-model", Timeout: 5 * time.Second})
}

func TestClientTranslate(t *testing.T) {
	var seen chatRequest
	srv := newTestServer(t, http.StatusOK, `{"zones":["FLOOR 1 > KITCHEN"],"items":[{"id":"a","description":"Blind","zone":"FLOOR 1 > KITCHEN"}]}`, &seen)

	resp, err := testClient(srv.URL).Translate(context.Background(), Request{
		SourceLanguage: "Español",
		TargetLanguage: "Inglés",
		Zones:          []string{"PISO 1 > COCINA"},
		Items:          []ItemText{{ID: "a", Description: "Persiana & riel", Zone: "PISO 1 > COCINA"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"FLOOR 1 > KITCHEN"}, resp.Zones)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Blind", resp.Items[0].Description)

	assert.Equal(t, "test-model", seen.Model)
	require.Len(t, seen.Messages, 2)
	assert.Contains(t, seen.Messages[1].Content, `"zones":["PISO 1 > COCINA"]`)
	assert.Contains(t, seen.Messages[1].Content, "Persiana & riel")
	assert.NotContains(t, seen.Messages[1].Content, `\u003e`)
	assert.Contains(t, seen.Messages[1].Content, "from Español to Inglés")
}

func TestClientStripsCodeFences(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, "Here you go:\n```json\n{\"zones\":[\"A > B\"],\"items\":[]}\n```", nil)

	resp, err := testClient(srv.URL).Translate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A > B"}, resp.Zones)
}

func TestClientErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := newTestServer(t, http.StatusTooManyRequests, "", nil)
		_, err := testClient(srv.URL).Translate(context.Background(), Request{})
		var tErr *Error
		require.ErrorAs(t, err, &tErr)
		assert.Equal(t, "check_status", tErr.Op)
	})

	t.Run("no json", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, "I cannot help with that", nil)
		_, err := testClient(srv.URL).Translate(context.Background(), Request{})
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("missing key", func(t *testing.T) {
		c := NewClient(&Config{APIURL: "http://127.0.0.1:0"})
		_, err := c.Translate(context.Background(), Request{})
		var tErr *Error
		require.ErrorAs(t, err, &tErr)
		assert.Equal(t, "validate_configuration", tErr.Op)
	})
}
