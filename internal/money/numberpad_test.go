package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(n NumberPadNumber, currency Currency, keys ...Key) NumberPadNumber {
	for _, k := range keys {
		n = n.Press(k, currency)
	}
	return n
}

func TestPress_DigitsAndDecimal(t *testing.T) {
	n := press(NumberPadNumber{}, USDollars, Key1, Key2, KeyDecimal, Key3, Key4)
	assert.Equal(t, NumberPadNumber{Major: "12", Minor: "34", HasDecimal: true}, n)

	// Minor digits are capped at the currency's offset.
	n = n.Press(Key5, USDollars)
	assert.Equal(t, "34", n.Minor)
}

func TestPress_DecimalRefusedForWholeUnitCurrency(t *testing.T) {
	n := press(NumberPadNumber{}, Satoshis, Key2, Key1, KeyDecimal, Key5)
	assert.Equal(t, NumberPadNumber{Major: "215"}, n)
}

func TestPress_BackspaceRevertsAcrossBoundary(t *testing.T) {
	n := press(NumberPadNumber{}, USDollars, Key7, KeyDecimal, Key8)

	n = n.Press(KeyBackspace, USDollars)
	assert.Equal(t, NumberPadNumber{Major: "7", HasDecimal: false}, n)

	// A decimal with no minor digits is removed next.
	n = press(NumberPadNumber{}, USDollars, Key7, KeyDecimal)
	n = n.Press(KeyBackspace, USDollars)
	assert.Equal(t, NumberPadNumber{Major: "7"}, n)

	n = n.Press(KeyBackspace, USDollars)
	assert.Equal(t, NumberPadNumber{}, n)

	// Backspace on an empty number is a no-op.
	n = n.Press(KeyBackspace, USDollars)
	assert.Equal(t, NumberPadNumber{}, n)
}

func TestPress_LeadingZerosPreserved(t *testing.T) {
	n := press(NumberPadNumber{}, USDollars, Key0, Key0, Key5)
	assert.Equal(t, "005", n.Major)

	amount, err := n.ToAmount(USDollars)
	require.NoError(t, err)
	assert.Equal(t, int64(500), amount.Amount)
}

func TestParseNumberPadNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		currency Currency
		want     NumberPadNumber
		wantErr  bool
	}{
		{
			name:     "plain integer",
			input:    "21",
			currency: Satoshis,
			want:     NumberPadNumber{Major: "21"},
		},
		{
			name:     "decimal within offset",
			input:    "1.5",
			currency: USDollars,
			want:     NumberPadNumber{Major: "1", Minor: "5", HasDecimal: true},
		},
		{
			name:     "excess minor digits truncated",
			input:    "1.2345",
			currency: USDollars,
			want:     NumberPadNumber{Major: "1", Minor: "23", HasDecimal: true},
		},
		{
			name:     "decimal dropped for whole-unit currency",
			input:    "21.9",
			currency: Satoshis,
			want:     NumberPadNumber{Major: "21"},
		},
		{
			name:     "empty",
			input:    "",
			currency: USDollars,
			want:     NumberPadNumber{},
		},
		{
			name:     "non numeric",
			input:    "12a",
			currency: USDollars,
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNumberPadNumber(tt.input, tt.currency)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToAmount_TruncatesNeverRounds(t *testing.T) {
	n := NumberPadNumber{Major: "1", Minor: "12345", HasDecimal: true}
	amount, err := n.ToAmount(USDollars)
	require.NoError(t, err)
	// "1.12345" in an offset-2 currency is 112 cents, not 113.
	assert.Equal(t, int64(112), amount.Amount)
}

func TestToAmount_PadsShortMinorByScaling(t *testing.T) {
	n := NumberPadNumber{Major: "2", Minor: "5", HasDecimal: true}
	amount, err := n.ToAmount(USDollars)
	require.NoError(t, err)
	assert.Equal(t, int64(250), amount.Amount)
}

func TestAmountRoundTrip(t *testing.T) {
	original := New(12345, USDollars)
	n := FromAmount(original)
	assert.Equal(t, NumberPadNumber{Major: "123", Minor: "45", HasDecimal: true}, n)

	back, err := n.ToAmount(USDollars)
	require.NoError(t, err)
	assert.Equal(t, original, back)
}

func TestFromAmount_WholeUnitCurrencyHasNoMinor(t *testing.T) {
	jpy := NewDisplayCurrency("JPY", 0)
	n := FromAmount(New(4200, jpy))
	assert.Equal(t, NumberPadNumber{Major: "4200"}, n)
}
