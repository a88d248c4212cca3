package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"galen/internal/core/apperror"
)

func TestParse_SingleCode(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		category Category
		year     int
		want     Code
	}{
		{
			name:     "bare number synthesizes prefix",
			raw:      "045",
			category: CategoryHuman,
			year:     2025,
			want:     Code{Prefix: "SFH25", Number: 45, NumberWidth: 3},
		},
		{
			name:     "bare number veterinary",
			raw:      "045",
			category: CategoryVeterinary,
			year:     2025,
			want:     Code{Prefix: "SFV25", Number: 45, NumberWidth: 3},
		},
		{
			name:     "number with suffix",
			raw:      "045A",
			category: CategoryHuman,
			year:     2025,
			want:     Code{Prefix: "SFH25", Number: 45, NumberWidth: 3, Suffix: "A"},
		},
		{
			name:     "explicit prefix is consumed",
			raw:      "ABC24017",
			category: CategoryHuman,
			year:     2025,
			want:     Code{Prefix: "ABC24", Number: 17, NumberWidth: 3},
		},
		{
			name:     "lowercase and whitespace normalized",
			raw:      "  sfh25045a ",
			category: CategoryHuman,
			year:     2025,
			want:     Code{Prefix: "SFH25", Number: 45, NumberWidth: 3, Suffix: "A"},
		},
		{
			name:     "width follows written digits",
			raw:      "00045",
			category: CategoryHuman,
			year:     2025,
			want:     Code{Prefix: "SFH25", Number: 45, NumberWidth: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw, tt.category, tt.year)
			assert.NoError(t, err)
			assert.False(t, got.IsRange)
			assert.Equal(t, tt.want, got.Code)
		})
	}
}

func TestParse_Range(t *testing.T) {
	got, err := Parse("045A-047A", CategoryVeterinary, 2025)
	assert.NoError(t, err)
	assert.True(t, got.IsRange)
	assert.Equal(t, Code{Prefix: "SFV25", Number: 45, NumberWidth: 3, Suffix: "A"}, got.Range.Start)
	assert.Equal(t, Code{Prefix: "SFV25", Number: 47, NumberWidth: 3, Suffix: "A"}, got.Range.End)
	assert.Equal(t, 3, got.Range.Len())
}

func TestParse_RangeWidth(t *testing.T) {
	// Range width is the max of both sides and the minimum of 3.
	got, err := Parse("7-00012", CategoryHuman, 2025)
	assert.NoError(t, err)
	assert.True(t, got.IsRange)
	assert.Equal(t, 5, got.Range.Start.NumberWidth)
	assert.Equal(t, 5, got.Range.End.NumberWidth)

	got, err = Parse("7-9", CategoryHuman, 2025)
	assert.NoError(t, err)
	assert.Equal(t, 3, got.Range.Start.NumberWidth)
}

func TestParse_RangeWithExplicitPrefix(t *testing.T) {
	got, err := Parse("SFH24100-102", CategoryVeterinary, 2025)
	assert.NoError(t, err)
	assert.True(t, got.IsRange)
	assert.Equal(t, "SFH24", got.Range.Start.Prefix)
	assert.Equal(t, "SFH24", got.Range.End.Prefix)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty after trim", "   "},
		{"letters only", "ABC"},
		{"suffix before digits", "A045"},
		{"two letter suffix", "045AB"},
		{"mismatched range suffixes", "045A-047"},
		{"mismatched range suffix letters", "045A-047B"},
		{"inverted range", "007-005"},
		{"two separators", "045-046-047"},
		{"empty range side", "045-"},
		{"garbage", "SFH25%45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw, CategoryHuman, 2025)
			assert.Error(t, err)
			assert.True(t, apperror.IsMalformedCode(err), "expected malformed-code error, got %v", err)
		})
	}
}

func TestParse_EqualRangeBounds(t *testing.T) {
	// start == end is a valid one-element range.
	got, err := Parse("045-045", CategoryHuman, 2025)
	assert.NoError(t, err)
	assert.True(t, got.IsRange)
	assert.Equal(t, 1, got.Range.Len())
}
