package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `
name: minimal
description: smallest valid scenario
flow:
  - action: fetch_characters
assertions:
  - type: trace_count
    action: fetch_characters
    count: 1
`

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
	assert.Empty(t, s.RunID)
	require.Len(t, s.Flow, 1)
	assert.Nil(t, s.Flow[0].Expect)
}

func TestLoadScenario_File(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "shopping_auto_consume.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "test-run-shopping", s.RunID)
	require.Len(t, s.Remote, 4)
	assert.Equal(t, "GET", s.Remote[2].Method)
	body, ok := s.Remote[2].Body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 10, body["bag_capacity"])
	require.Len(t, s.Assertions, 4)
	assert.Equal(t, "エナジードリンク", s.Assertions[1].Expect["last_auto_consume.consumed_name"])
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario+"assertion: []\n"), 0644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "assertion")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nflow: [{action: reset}]\nassertions: [{type: trace_count, action: x}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nflow: [{action: reset}]\nassertions: [{type: trace_count, action: x}]\n",
			wantErr: "description is required",
		},
		{
			name:    "empty flow",
			yaml:    "name: n\ndescription: d\nassertions: [{type: trace_count, action: x}]\n",
			wantErr: "flow list is required",
		},
		{
			name:    "empty assertions",
			yaml:    "name: n\ndescription: d\nflow: [{action: reset}]\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "unknown action",
			yaml:    "name: n\ndescription: d\nflow: [{action: cook}]\nassertions: [{type: trace_count, action: x}]\n",
			wantErr: `flow[0]: unknown action "cook"`,
		},
		{
			name:    "empty expect",
			yaml:    "name: n\ndescription: d\nflow: [{action: reset, expect: {}}]\nassertions: [{type: trace_count, action: x}]\n",
			wantErr: "flow[0].expect: ok or error_contains is required",
		},
		{
			name:    "remote without method",
			yaml:    "name: n\ndescription: d\nremote: [{path: /api/characters}]\nflow: [{action: reset}]\nassertions: [{type: trace_count, action: x}]\n",
			wantErr: "remote[0]: method is required",
		},
		{
			name:    "remote with relative path",
			yaml:    "name: n\ndescription: d\nremote: [{method: GET, path: api/characters}]\nflow: [{action: reset}]\nassertions: [{type: trace_count, action: x}]\n",
			wantErr: "remote[0]: path must start with /",
		},
		{
			name:    "remote with bad status",
			yaml:    "name: n\ndescription: d\nremote: [{method: GET, path: /x, status: 42}]\nflow: [{action: reset}]\nassertions: [{type: trace_count, action: x}]\n",
			wantErr: "remote[0]: status 42 out of range",
		},
		{
			name:    "unsupported method",
			yaml:    "name: n\ndescription: d\nremote: [{method: DELETE, path: /x}]\nflow: [{action: reset}]\nassertions: [{type: trace_count, action: x}]\n",
			wantErr: `unsupported method "DELETE"`,
		},
		{
			name:    "unknown assertion type",
			yaml:    "name: n\ndescription: d\nflow: [{action: reset}]\nassertions: [{type: final_state}]\n",
			wantErr: `unknown assertion type "final_state"`,
		},
		{
			name:    "trace_order without actions",
			yaml:    "name: n\ndescription: d\nflow: [{action: reset}]\nassertions: [{type: trace_order}]\n",
			wantErr: "actions list is required for trace_order",
		},
		{
			name:    "final_view without expect",
			yaml:    "name: n\ndescription: d\nflow: [{action: reset}]\nassertions: [{type: final_view}]\n",
			wantErr: "expect is required for final_view",
		},
		{
			name:    "request_count negative",
			yaml:    "name: n\ndescription: d\nflow: [{action: reset}]\nassertions: [{type: request_count, method: GET, path: /x, count: -1}]\n",
			wantErr: "count must be non-negative for request_count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
