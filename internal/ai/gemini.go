package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/oguzhantopcu/tyasistan/internal/types"
)

// geminiTools renders the tool specs as Gemini function declarations.
func geminiTools() []map[string]any {
	decls := make([]map[string]any, 0, len(toolSpecs))
	for _, spec := range toolSpecs {
		decls = append(decls, map[string]any{
			"name":        spec.name,
			"description": spec.description,
			"parameters": map[string]any{
				"type": "object",
				"properties": map[string]any{
					spec.argName: map[string]any{
						"type":        "string",
						"description": spec.argDesc,
					},
				},
				"required": []string{spec.argName},
			},
		})
	}
	return []map[string]any{{"functionDeclarations": decls}}
}

func (c *Client) chatGemini(ctx context.Context, messages []Message) (*Reply, error) {
	var system string
	contents := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = m.Content
			continue
		}
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, map[string]any{
			"role":  role,
			"parts": []map[string]any{{"text": m.Content}},
		})
	}

	payload := map[string]any{
		"contents": contents,
		"tools":    geminiTools(),
		"generationConfig": map[string]any{
			"maxOutputTokens": c.cfg.MaxTokens,
			"temperature":     c.cfg.Temperature,
		},
	}
	if system != "" {
		payload["systemInstruction"] = map[string]any{
			"parts": []map[string]any{{"text": system}},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := c.cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://generativelanguage.googleapis.com"
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", endpoint, c.cfg.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if err := providerError("gemini", resp.StatusCode, respBody); err != nil {
		return nil, err
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text         string `json:"text"`
					FunctionCall *struct {
						Name string            `json:"name"`
						Args map[string]string `json:"args"`
					} `json:"functionCall"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in gemini response")
	}

	reply := &Reply{}
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			reply.Text += part.Text
		}
		if part.FunctionCall != nil && reply.ToolCall == nil {
			reply.ToolCall = &ToolCall{
				Name:      part.FunctionCall.Name,
				Arguments: part.FunctionCall.Args,
			}
			c.logger.Debug("tool call received", "tool", part.FunctionCall.Name)
		}
	}

	return reply, nil
}

// providerError converts a non-2xx provider response into a ProviderError
// carrying the body verbatim, so authentication failures reach the user
// unmodified.
func providerError(provider string, statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	return &types.ProviderError{
		Provider:   provider,
		StatusCode: statusCode,
		Body:       string(body),
	}
}
