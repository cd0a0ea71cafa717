package investment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		input    string
		expected Variant
		wantErr  bool
	}{
		{"valuation-cap", VariantValuationCap, false},
		{"VALUATION_CAP", VariantValuationCap, false},
		{" discount ", VariantDiscount, false},
		{"MFN", VariantMFN, false},
		{"note", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVariant(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownVariant)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestVariant_DisplayName(t *testing.T) {
	assert.Equal(t, "Valuation-Cap", VariantValuationCap.DisplayName())
	assert.Equal(t, "Discount", VariantDiscount.DisplayName())
	assert.Equal(t, "MFN", VariantMFN.DisplayName())
}

func TestAllVariants(t *testing.T) {
	variants := AllVariants()
	assert.Len(t, variants, 3)
	for _, v := range variants {
		assert.True(t, v.IsValid())
	}
	assert.False(t, Variant("").IsValid())
}
