package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"listing-dupes/models"
)

type toolContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type toolCallResult struct {
	Content []toolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type rpcEnvelope struct {
	Result *toolCallResult `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// MCPResponseSource reads listings out of a saved tools/call response from
// the housing MCP server. Both the bare result and the JSON-RPC envelope are
// accepted.
type MCPResponseSource struct {
	filePath string
}

func NewMCPResponseSource(filePath string) *MCPResponseSource {
	return &MCPResponseSource{filePath: filePath}
}

func (s *MCPResponseSource) Load(ctx context.Context) ([]models.Property, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.filePath, err)
	}
	properties, err := ParseToolResponse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.filePath, err)
	}
	return properties, nil
}

// ParseToolResponse collects properties from every text content item that
// holds a JSON array. Narrative items are skipped.
func ParseToolResponse(data []byte) ([]models.Property, error) {
	var env rpcEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if env.Error != nil {
		return nil, fmt.Errorf("%w: %d %s", ErrToolError, env.Error.Code, env.Error.Message)
	}

	result := env.Result
	if result == nil {
		result = &toolCallResult{}
		if err := json.Unmarshal(data, result); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
	}

	if result.IsError {
		msg := ""
		if len(result.Content) > 0 {
			msg = result.Content[0].Text
		}
		return nil, fmt.Errorf("%w: %s", ErrToolError, msg)
	}

	var properties []models.Property
	for i, c := range result.Content {
		if c.Type != "text" || !strings.HasPrefix(strings.TrimSpace(c.Text), "[") {
			continue
		}
		var batch []models.Property
		if err := json.Unmarshal([]byte(c.Text), &batch); err != nil {
			return nil, fmt.Errorf("content[%d]: %w", i, err)
		}
		properties = append(properties, batch...)
	}
	return properties, nil
}
