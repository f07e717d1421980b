package differ

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeHeading(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"DEFINITIONS", true},
		{"1. DEFINITIONS AND TERMS", true},
		{"12. limitation of liability", true},
		{"Data We Collect", true},
		{"Privacy Policy", true},
		{"We collect data about you.", false},
		{"", false},
		{"1.no space", false},
		{"123", false},
		{"This Line Has Far Too Many Title Case Words In It Here", false},
		{"iPhone Terms", false},
		{strings.Repeat("A", 99), true},
		{strings.Repeat("A", 100), false},
		{"1. " + strings.Repeat("x", 116), true},
		{"1. " + strings.Repeat("x", 117), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LooksLikeHeading(tt.text), "%q", tt.text)
	}
}

func TestIsTitle(t *testing.T) {
	assert.True(t, isTitle("Terms Of Service"))
	assert.True(t, isTitle("Section 3: Fees"))
	assert.False(t, isTitle("Terms of Service"))
	assert.False(t, isTitle("TERMS"))
	assert.False(t, isTitle("1234"))
}

func TestWordDelta(t *testing.T) {
	added, removed := WordDelta("a b c c", "a b d d e")
	assert.Equal(t, 2, added)
	assert.Equal(t, 1, removed)
}

func TestGroupOpcodes_SplitsLongEqualRuns(t *testing.T) {
	codes := []opcode{
		{opEqual, 0, 5, 0, 5},
		{opReplace, 5, 6, 5, 6},
		{opEqual, 6, 20, 6, 20},
		{opInsert, 20, 20, 20, 21},
		{opEqual, 20, 22, 21, 23},
	}

	groups := groupOpcodes(codes, 3)

	assert.Len(t, groups, 2)
	assert.Equal(t, opcode{opEqual, 2, 5, 2, 5}, groups[0][0])
	assert.Equal(t, opcode{opEqual, 6, 9, 6, 9}, groups[0][2])
	assert.Equal(t, opcode{opEqual, 17, 20, 17, 20}, groups[1][0])
	assert.Equal(t, opcode{opEqual, 20, 22, 21, 23}, groups[1][2])
}

func TestFormatRange(t *testing.T) {
	assert.Equal(t, "3", formatRange(2, 3))
	assert.Equal(t, "1,3", formatRange(0, 3))
	assert.Equal(t, "0,0", formatRange(0, 0))
}
