package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "default mode with bare flags",
			args:     []string{"public.test.k8s,private.test.k8s", "update", "protocol-only"},
			expected: []string{"public.test.k8s,private.test.k8s", "--update", "--protocol-only"},
		},
		{
			name:     "flags before the networks",
			args:     []string{"deploy-from-file", "cpc-no-fees-deploy", "public.test.k8s"},
			expected: []string{"--deploy-from-file", "--cpc-no-fees-deploy", "public.test.k8s"},
		},
		{
			name:     "migrate mode keeps reset",
			args:     []string{"--migrate", "dev-local,plasma-test-local", "--reset"},
			expected: []string{"migrate", "dev-local,plasma-test-local", "--reset"},
		},
		{
			name:     "migrate mode drops default mode flags",
			args:     []string{"dev-local", "--migrate", "update"},
			expected: []string{"migrate", "dev-local"},
		},
		{
			name:     "generate",
			args:     []string{"--generate"},
			expected: []string{"generate"},
		},
		{
			name:     "read file maps to selection",
			args:     []string{"--readFile"},
			expected: []string{"selection"},
		},
		{
			name:     "subcommand form passes through",
			args:     []string{"diff", "--json"},
			expected: []string{"diff", "--json"},
		},
		{
			name:     "global flags survive in a mode",
			args:     []string{"--extract", "--debug"},
			expected: []string{"extract", "--debug"},
		},
		{
			name:     "empty",
			args:     nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeArgs(tt.args))
		})
	}
}

func TestSplitArgs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitArgs([]string{"a, b", "c,"}))
	assert.Empty(t, splitArgs([]string{" , "}))
}
