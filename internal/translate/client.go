package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// APIKeyEnv names the environment variable holding the model API key
const APIKeyEnv = "COTIZA_TRANSLATE_API_KEY"

// Error is a failure while talking to the model API
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "translate error: " + e.Op
	}
	return "translate error: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config holds the client settings
type Config struct {
	APIKey  string
	APIURL  string
	Model   string
	Timeout time.Duration
}

// DefaultConfig returns the default client settings. The API key comes
// from the environment.
func DefaultConfig() *Config {
	return &Config{
		APIKey:  os.Getenv(APIKeyEnv),
		APIURL:  "https://openrouter.ai/api/v1/chat/completions",
		Model:   "google/gemini-2.0-flash-001",
		Timeout: 60 * time.Second,
	}
}

// Client is an OpenRouter-compatible chat-completions translator
type Client struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

// NewClient creates a new Client
func NewClient(config *Config) *Client {
	def := DefaultConfig()
	if config == nil {
		config = def
	}
	c := &Client{
		apiKey: config.APIKey,
		apiURL: config.APIURL,
		model:  config.Model,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
	if c.apiURL == "" {
		c.apiURL = def.APIURL
	}
	if c.model == "" {
		c.model = def.Model
	}
	if c.httpClient.Timeout <= 0 {
		c.httpClient.Timeout = def.Timeout
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature"`
}

const systemPrompt = `You are a professional translator for an architecture and interior design company.
Translate quotation data between languages.

RULES:
1. ZONES follow the pattern "LEVEL > AREA" (e.g., "Piso 1 > Cocina"). Translate BOTH parts (e.g., "Floor 1 > Kitchen").
2. ITEMS have "description" and "zone". Translate both.
3. The "zone" of every item must EXACTLY match one of the translated strings in "zones".
4. Keep every item "id" exactly as provided.
5. Answer only with a JSON object {"zones": [string], "items": [{"id", "description", "zone"}]}.`

// Translate sends req to the model and decodes its answer
func (c *Client) Translate(ctx context.Context, req Request) (*Response, error) {
	if c.apiKey == "" {
		return nil, &Error{Op: "validate_configuration", Err: fmt.Errorf("API key is not configured, set %s", APIKeyEnv)}
	}

	// zones keep a literal ">" so they match the pattern in the prompt
	var data bytes.Buffer
	enc := json.NewEncoder(&data)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(req); err != nil {
		return nil, &Error{Op: "marshal_request", Err: err}
	}
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Translate from %s to %s.\nDATA TO TRANSLATE:\n%s", req.SourceLanguage, req.TargetLanguage, bytes.TrimSpace(data.Bytes()))},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, &Error{Op: "marshal_request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Op: "create_request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Op: "send_request", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &Error{Op: "read_response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Op: "check_status", Err: fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))}
	}

	return parseChatResponse(respBody)
}
