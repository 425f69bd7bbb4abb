package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// openAITools renders the tool specs as OpenAI function declarations.
func openAITools() []map[string]any {
	tools := make([]map[string]any, 0, len(toolSpecs))
	for _, spec := range toolSpecs {
		tools = append(tools, map[string]any{
			"type": "function",
			"function": map[string]any{
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
			},
		})
	}
	return tools
}

func (c *Client) chatOpenAI(ctx context.Context, messages []Message) (*Reply, error) {
	payload := map[string]any{
		"model":       c.cfg.Model,
		"messages":    messages,
		"tools":       openAITools(),
		"tool_choice": "auto",
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := c.cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if err := providerError("openai", resp.StatusCode, respBody); err != nil {
		return nil, err
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content   string `json:"content"`
				ToolCalls []struct {
					Function struct {
						Name      string `json:"name"`
						Arguments string `json:"arguments"`
					} `json:"function"`
				} `json:"tool_calls"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode openai response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices in openai response")
	}

	msg := result.Choices[0].Message
	reply := &Reply{Text: msg.Content}

	if len(msg.ToolCalls) > 0 {
		fn := msg.ToolCalls[0].Function
		args := make(map[string]string)
		if err := json.Unmarshal([]byte(fn.Arguments), &args); err != nil {
			return nil, fmt.Errorf("decode tool arguments: %w", err)
		}
		reply.ToolCall = &ToolCall{Name: fn.Name, Arguments: args}
		c.logger.Debug("tool call received", "tool", fn.Name)
	}

	return reply, nil
}
