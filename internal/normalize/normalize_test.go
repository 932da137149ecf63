package normalize

// Test Plan for Normalization:
// - Collapse folds runs of whitespace and newlines into single spaces
// - Digits corrects confusable glyphs ([Iil!| -> 1, oO -> 0, sS -> 5)
// - looksEmpty treats all-short-token output as recognition debris
// - Field returns blank-but-valid values for the forms' nil markers
// - Name fields drop digits and punctuation, keep letters
// - Amount fields strip currency symbols, separators and decimals
// - Phone fields drop the 852/0852 prefix and keep eight digits
// - Email fields validate shape and pass the address through
// - ID fields reformat into prefix, six digits and check digit in parens
// - Table fields split on wide gaps and newlines and join with semicolons
// - Malformed input never panics, it comes back with Valid false

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/regscan/regscan/internal/document"
)

func TestCollapse(t *testing.T) {
	assert.Equal(t, "ACME TRADING LIMITED", Collapse("  ACME \n TRADING\t LIMITED \n"))
	assert.Equal(t, "", Collapse(" \n\t "))
}

func TestDigits_ConfusableCorrection(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123456", "123456"},
		{"l23456", "123456"},
		{"I2345O", "123450"},
		{"|2345o", "123450"},
		{"S2345s", "523455"},
		{"[2345]", "123451"},
		{"no digits", "0115"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Digits(tt.in), "Digits(%q)", tt.in)
	}
}

func TestLooksEmpty(t *testing.T) {
	assert.True(t, looksEmpty(""))
	assert.True(t, looksEmpty("a b cd -"))
	assert.False(t, looksEmpty("a b ACME"))
}

func TestField_NilMarkersAreValidBlanks(t *testing.T) {
	for _, raw := range []string{"(nil)", "NIL", "N/A", "none", "-"} {
		v := Field(raw, document.KindText)
		assert.True(t, v.Valid, "marker %q", raw)
		assert.Equal(t, "", v.Clean, "marker %q", raw)
		assert.Equal(t, raw, v.Raw, "marker %q", raw)
	}
}

func TestField_EmptyInput(t *testing.T) {
	v := Field("  \n ", document.KindName)
	assert.False(t, v.Valid)
	assert.Equal(t, "", v.Clean)
}

func TestField_Name(t *testing.T) {
	v := Field("CHAN Tai Man 陳大文 123", document.KindName)
	assert.True(t, v.Valid)
	assert.Equal(t, "CHAN Tai Man", v.Clean)

	v = Field("%$ .. !!", document.KindName)
	assert.False(t, v.Valid)
}

func TestField_TextStripsNonLatin(t *testing.T) {
	v := Field("Unit 5, 12/F Harbour Centre 香港", document.KindText)
	assert.True(t, v.Valid)
	assert.Equal(t, "Unit 5, 12/F Harbour Centre", v.Clean)
}

func TestField_Number(t *testing.T) {
	v := Field("o12l456", document.KindNumber)
	assert.True(t, v.Valid)
	assert.Equal(t, "0121456", v.Clean)

	v = Field("xyz", document.KindNumber)
	assert.False(t, v.Valid)
}

func TestField_Amount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HK$1,234,567.00", "1234567"},
		{"HKD 10,000", "10000"},
		{"$500.75", "500"},
		{"1000000", "1000000"},
	}
	for _, tt := range tests {
		v := Field(tt.in, document.KindAmount)
		assert.True(t, v.Valid, "amount %q", tt.in)
		assert.Equal(t, tt.want, v.Clean, "amount %q", tt.in)
	}
}

func TestField_Phone(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{"2345 6789", "23456789", true},
		{"+852 2345 6789", "23456789", true},
		{"0852-2345-6789", "23456789", true},
		{"852 1234", "8521234", false},
		{"23456789 ext 12", "23456789", true},
	}
	for _, tt := range tests {
		v := Field(tt.in, document.KindPhone)
		assert.Equal(t, tt.valid, v.Valid, "phone %q", tt.in)
		assert.Equal(t, tt.want, v.Clean, "phone %q", tt.in)
	}
}

func TestField_Email(t *testing.T) {
	v := Field("info@acme.com.hk", document.KindEmail)
	assert.True(t, v.Valid)
	assert.Equal(t, "info@acme.com.hk", v.Clean)

	v = Field("info acme.com", document.KindEmail)
	assert.False(t, v.Valid)
}

func TestField_HKID(t *testing.T) {
	v := Field("A123456(7)", document.KindID)
	assert.True(t, v.Valid)
	assert.Equal(t, "A123456(7)", v.Clean)

	v = Field("a1234567", document.KindID)
	assert.True(t, v.Valid)
	assert.Equal(t, "A123456(7)", v.Clean)

	v = Field("A12345", document.KindID)
	assert.False(t, v.Valid)
	assert.Equal(t, "A12345", v.Clean)
}

func TestField_Table(t *testing.T) {
	raw := "CHAN Tai Man\n\nWONG Siu Ming   LEE Ka Yan\n(nil)"
	v := Field(raw, document.KindTable)
	assert.True(t, v.Valid)
	assert.Equal(t, "CHAN Tai Man;WONG Siu Ming;LEE Ka Yan", v.Clean)

	v = Field("\n\n  \n", document.KindTable)
	assert.False(t, v.Valid)
}

func TestField_PreservesRaw(t *testing.T) {
	v := Field("HK$1,000", document.KindAmount)
	assert.Equal(t, "HK$1,000", v.Raw)
}
