package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRateConvert converts through a flat 2000 sats per display unit and
// 100 cents per display unit, enough to observe which fields change.
func fixedRateConvert(t *testing.T) (ConvertFunc, *int) {
	t.Helper()
	calls := 0
	eur := NewDisplayCurrency("EUR", 2)
	return func(a Amount, target Currency) (Amount, error) {
		calls++
		// Normalize through display minor units.
		var displayMinor int64
		switch a.Currency.Code {
		case Satoshis.Code:
			displayMinor = a.Amount / 20 // 2000 sat per EUR = 20 sat per cent
		case USDollars.Code:
			displayMinor = a.Amount
		case eur.Code:
			displayMinor = a.Amount
		}
		switch target.Code {
		case Satoshis.Code:
			return New(displayMinor*20, target), nil
		default:
			return New(displayMinor, target), nil
		}
	}, &calls
}

func TestRecompute_FocusedFieldIsSourceOfTruth(t *testing.T) {
	convert, _ := fixedRateConvert(t)
	eur := NewDisplayCurrency("EUR", 2)
	c := Converter{Convert: convert}

	entry := EntryAmounts{
		Wallet:  New(0, Satoshis),
		Counter: New(0, USDollars),
		Display: New(150, eur), // user typed 1.50 in the display field
	}

	out, err := c.Recompute(FieldDisplay, entry)
	require.NoError(t, err)
	assert.Equal(t, New(150, eur), out.Display, "focused field must pass through untouched")
	assert.Equal(t, int64(3000), out.Wallet.Amount)
	assert.Equal(t, int64(150), out.Counter.Amount)
}

func TestRecompute_ConvertsExactlyTwoFields(t *testing.T) {
	convert, calls := fixedRateConvert(t)
	eur := NewDisplayCurrency("EUR", 2)
	c := Converter{Convert: convert}

	entry := EntryAmounts{
		Wallet:  New(2000, Satoshis),
		Counter: New(0, USDollars),
		Display: New(0, eur),
	}
	_, err := c.Recompute(FieldWallet, entry)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls, "only the two non-focused fields get reconverted")
}

func TestRecompute_UnknownField(t *testing.T) {
	c := Converter{Convert: func(a Amount, target Currency) (Amount, error) { return a, nil }}
	_, err := c.Recompute(Field("price"), EntryAmounts{})
	require.Error(t, err)
}

func TestRecompute_NoConverter(t *testing.T) {
	_, err := Converter{}.Recompute(FieldWallet, EntryAmounts{})
	require.Error(t, err)
}
