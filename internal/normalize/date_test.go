package normalize

// Test Plan for Date Parsing:
// - ParseDate accepts slashed, dashed, dotted and long-form day-first dates
// - ParseDate normalizes everything to DD/MM/YYYY
// - Segmented date boxes recognized with spaces between groups still parse
// - cleanDate recovers dates with confusable glyphs inside the digit groups
// - Unparseable text comes back raw with the validity flag lowered

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/regscan/regscan/internal/document"
)

func TestParseDate_Formats(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"14/03/2023", "14/03/2023"},
		{"4/3/2023", "04/03/2023"},
		{"14-03-2023", "14/03/2023"},
		{"14.03.2023", "14/03/2023"},
		{"14 March 2023", "14/03/2023"},
		{"4 March 2023", "04/03/2023"},
		{"14 03 2023", "14/03/2023"},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		assert.True(t, ok, "ParseDate(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseDate(%q)", tt.in)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "not a date", "32/01/2023", "14/13/2023"} {
		_, ok := ParseDate(in)
		assert.False(t, ok, "ParseDate(%q)", in)
	}
}

func TestField_DateConfusableRecovery(t *testing.T) {
	v := Field("l4/O3/2O23", document.KindDate)
	assert.True(t, v.Valid)
	assert.Equal(t, "14/03/2023", v.Clean)
}

func TestField_DateUnparseable(t *testing.T) {
	v := Field("sometime  last year", document.KindDate)
	assert.False(t, v.Valid)
	assert.Equal(t, "sometime last year", v.Clean)
}
