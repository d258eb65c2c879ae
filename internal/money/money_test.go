package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹0"},
		{"1300", "₹1,300"},
		{"25050", "₹25,050"},
		{"1300.5", "₹1,300.50"},
		{"1300.05", "₹1,300.05"},
		{"-50", "-₹50"},
		{"-0.001", "₹0"},
		{"1234567.89", "₹1,234,567.89"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatter_Locale(t *testing.T) {
	f, err := NewFormatter("€", "de")
	require.NoError(t, err)
	assert.Equal(t, "de", f.Tag.String())
	assert.Equal(t, "€1.300", f.Format(decimal.NewFromInt(1300)))

	_, err = NewFormatter("₹", "not a locale!")
	assert.Error(t, err)

	f, err = NewFormatter("Rs ", "")
	require.NoError(t, err)
	assert.Equal(t, "Rs 10", f.Format(decimal.NewFromInt(10)))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1300", "1300"},
		{"₹1,300.50", "1300.5"},
		{" Rs. 250 ", "250"},
		{"-₹50", "-50"},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.String(), tt.in)
	}

	for _, bad := range []string{"", "₹", "twelve"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}
