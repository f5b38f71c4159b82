package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextInSequence(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		last     string
		expected string
	}{
		{"no previous number", "INV-20261014", "", "INV-20261014-0001"},
		{"increments suffix", "INV-20261014", "INV-20261014-0041", "INV-20261014-0042"},
		{"unparseable suffix falls back", "PUR-20261014", "PUR-20261014-ABCD", "PUR-20261014-0001"},
		{"foreign prefix falls back", "PUR-20261014", "INV-20261014-0009", "PUR-20261014-0001"},
		{"grows past padding", "PRD", "PRD-9999", "PRD-10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextInSequence(tt.prefix, tt.last))
		})
	}
}

func TestParseSequence(t *testing.T) {
	n, ok := ParseSequence("INV-20261014", "INV-20261014-0007")
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = ParseSequence("INV-20261014", "INV-20261014-")
	assert.False(t, ok)

	_, ok = ParseSequence("INV-20261014", "INV-20261014-0000")
	assert.False(t, ok)
}
