package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain ascii", input: "gat", expected: "gat"},
		{name: "spaces collapse to underscore", input: "Núria  F", expected: "Nuria_F"},
		{name: "accents stripped", input: "pingüí", expected: "pingui"},
		{name: "catalan word", input: "caçó", expected: "caco"},
		{name: "slashes removed", input: "a/b\\c", expected: "a_b_c"},
		{name: "dots trimmed at edges", input: "..secret.", expected: "secret"},
		{name: "keeps inner dots and dashes", input: "take-1.wav", expected: "take-1.wav"},
		{name: "empty becomes placeholder", input: "", expected: "_"},
		{name: "only symbols becomes placeholder", input: "///", expected: "_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}
