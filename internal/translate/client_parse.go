package translate

import (
	"encoding/json"
	"fmt"
	"regexp"
)

var (
	codeFence  = regexp.MustCompile("```(?:json)?\\s*")
	jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)
)

// parseChatResponse extracts the translated content from a
// chat-completions body. The model answer is tried as plain JSON first,
// then with code fences stripped.
func parseChatResponse(body []byte) (*Response, error) {
	var chat struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, &Error{Op: "parse_response_json", Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	if len(chat.Choices) == 0 {
		return nil, &Error{Op: "check_response_choices", Err: fmt.Errorf("%w: no choices in response", ErrInvalidResponse)}
	}

	content := chat.Choices[0].Message.Content
	var out Response
	if err := json.Unmarshal([]byte(content), &out); err == nil {
		return &out, nil
	}

	content = codeFence.ReplaceAllString(content, "")
	match := jsonObject.FindString(content)
	if match == "" {
		return nil, &Error{Op: "extract_json", Err: fmt.Errorf("%w: no JSON object in answer", ErrInvalidResponse)}
	}
	if err := json.Unmarshal([]byte(match), &out); err != nil {
		return nil, &Error{Op: "extract_json", Err: fmt.Errorf("%w: %w", ErrInvalidResponse, err)}
	}
	return &out, nil
}
