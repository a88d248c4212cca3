package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand_Single(t *testing.T) {
	parsed, err := Parse("045A", CategoryHuman, 2025)
	assert.NoError(t, err)

	codes := Expand(parsed)
	assert.Len(t, codes, 1)
	assert.Equal(t, parsed.Code, codes[0])
}

func TestExpand_Range(t *testing.T) {
	parsed, err := Parse("045A-047A", CategoryVeterinary, 2025)
	assert.NoError(t, err)

	codes := Expand(parsed)
	assert.Len(t, codes, 3)
	assert.Equal(t, "SFV25045A", codes[0].String())
	assert.Equal(t, "SFV25046A", codes[1].String())
	assert.Equal(t, "SFV25047A", codes[2].String())

	// Strictly ascending, shared prefix/width/suffix.
	for i := 1; i < len(codes); i++ {
		assert.Equal(t, codes[i-1].Number+1, codes[i].Number)
		assert.Equal(t, codes[0].Prefix, codes[i].Prefix)
		assert.Equal(t, codes[0].NumberWidth, codes[i].NumberWidth)
		assert.Equal(t, codes[0].Suffix, codes[i].Suffix)
	}
}

func TestExpand_RangeLength(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"001-001", 1},
		{"001-002", 2},
		{"010-059", 50},
	}

	for _, tt := range tests {
		parsed, err := Parse(tt.raw, CategoryHuman, 2025)
		assert.NoError(t, err)
		assert.Len(t, Expand(parsed), tt.want, "input %s", tt.raw)
	}
}
