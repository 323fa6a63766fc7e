package domain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const toolResult = `{
  "content": [
    {"type": "text", "text": "Found 4 sold properties matching your criteria:"},
    {"type": "text", "text": "[{\"id\":\"prop_2714hipawaiplacehono\",\"address\":\"2714 Hipawai Place\",\"city\":\"Honolulu\",\"price\":1600000},{\"id\":\"prop_2714hipawaiplacehono\",\"address\":\"2714 Hipawai Place\",\"city\":\"Honolulu\",\"price\":1600000}]"},
    {"type": "text", "text": "[{\"id\":\"prop_3122kaloaluikisthono\",\"address\":\"3122 Kaloaluiki St\",\"price\":1850000}]"}
  ]
}`

func TestParseToolResponse(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
	}{
		{name: "bare result", body: toolResult},
		{name: "json-rpc envelope", body: `{"jsonrpc":"2.0","id":3,"result":` + toolResult + `}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			props, err := ParseToolResponse([]byte(tc.body))
			require.NoError(t, err)
			require.Len(t, props, 3)
			require.Equal(t, "prop_2714hipawaiplacehono", props[0].ID)
			require.Equal(t, "Honolulu", props[0].City)
			require.Equal(t, 1600000, props[1].Price)
			require.Equal(t, "3122 Kaloaluiki St", props[2].Address)
		})
	}
}

func TestParseToolResponse_Errors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		body  string
		isErr error
	}{
		{name: "tool error", body: `{"content":[{"type":"text","text":"city parameter is required"}],"isError":true}`, isErr: ErrToolError},
		{name: "rpc error", body: `{"jsonrpc":"2.0","id":1,"error":{"code":-32603,"message":"Tool call failed"}}`, isErr: ErrToolError},
		{name: "not json", body: `Found 243 properties`},
		{name: "broken array", body: `{"content":[{"type":"text","text":"[{\"id\":"}]}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseToolResponse([]byte(tc.body))
			require.Error(t, err)
			if tc.isErr != nil {
				require.ErrorIs(t, err, tc.isErr)
			}
		})
	}
}

func TestMCPResponseSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "response.json")
	require.NoError(t, os.WriteFile(path, []byte(toolResult), 0o644))

	props, err := NewMCPResponseSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, props, 3)
}
