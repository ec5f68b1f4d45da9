package provider

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexNumberAcceptsNumberAndString(t *testing.T) {
	var issue ResourceIssue
	err := json.Unmarshal([]byte(`{"allocatable": 8, "allocated": "6.5"}`), &issue)
	require.NoError(t, err)

	allocatable, ok := issue.Allocatable.Float()
	require.True(t, ok)
	assert.Equal(t, 8.0, allocatable)

	allocated, ok := issue.Allocated.Float()
	require.True(t, ok)
	assert.Equal(t, 6.5, allocated)
}

func TestFlexNumberNonNumeric(t *testing.T) {
	var issue ResourceIssue
	err := json.Unmarshal([]byte(`{"allocatable": "lots", "allocated": 2}`), &issue)
	require.NoError(t, err)

	_, ok := issue.Allocatable.Float()
	assert.False(t, ok)
	assert.Equal(t, "Unknown", issue.Allocatable.String())
}

func TestUtilization(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"numeric", `{"allocatable": 8, "allocated": 6}`, "75.0%"},
		{"string operands", `{"allocatable": "10", "allocated": "2.5"}`, "25.0%"},
		{"non-numeric allocatable", `{"allocatable": "n/a", "allocated": 2}`, "Unknown"},
		{"missing allocated", `{"allocatable": 8}`, "Unknown"},
		{"zero allocatable", `{"allocatable": 0, "allocated": 2}`, "Unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var issue ResourceIssue
			require.NoError(t, json.Unmarshal([]byte(tc.body), &issue))
			assert.Equal(t, tc.want, issue.Utilization())
		})
	}
}

func TestHostNameFallbackChain(t *testing.T) {
	assert.Equal(t, "h1", ResourceIssue{Host: "h1", Provider: "p1", Node: "n1"}.HostName())
	assert.Equal(t, "p1", ResourceIssue{Provider: "p1", Node: "n1"}.HostName())
	assert.Equal(t, "n1", ResourceIssue{Node: "n1"}.HostName())
	assert.Equal(t, "(unknown host)", ResourceIssue{}.HostName())

	assert.Equal(t, "p1", DownProvider{Provider: "p1"}.HostName())
	assert.Equal(t, "(unknown host)", DownProvider{}.HostName())

	assert.Equal(t, "h1", PartialFailure{Host: "h1"}.HostName())
}

func TestPartialFailureCount(t *testing.T) {
	assert.Equal(t, 3, PartialFailure{Failures: 3}.FailureCount())
	assert.Equal(t, 2, PartialFailure{FailedIPs: []string{"10.0.0.1", "10.0.0.2"}}.FailureCount())
	assert.Equal(t, 0, PartialFailure{}.FailureCount())
}
