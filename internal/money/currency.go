package money

// WalletCurrency identifies which ledger a wallet settles in. Intraledger
// accounts hold either a BTC wallet (denominated in satoshis) or a USD
// wallet (denominated in cents).
type WalletCurrency string

const (
	WalletCurrencyBTC WalletCurrency = "BTC"
	WalletCurrencyUSD WalletCurrency = "USD"
)

// Currency describes how a currency's canonical integer minor-unit amounts
// relate to the major unit a user types and reads.
type Currency struct {
	// Code is the display code, e.g. "USD", "SAT", "JPY".
	Code string

	// MinorUnitOffset is the number of decimal places between the minor
	// and major unit (2 for USD cents, 0 for satoshis).
	MinorUnitOffset int

	// ShowFractionDigits reports whether amounts in this currency are
	// ever presented with a fractional component. A currency with a
	// non-zero offset may still suppress fractions (whole-unit display).
	ShowFractionDigits bool
}

// Satoshis is the bitcoin entry currency. The number pad operates directly
// in satoshis, so there is no fractional component.
var Satoshis = Currency{Code: "SAT", MinorUnitOffset: 0, ShowFractionDigits: false}

// USDollars settles in cents.
var USDollars = Currency{Code: "USD", MinorUnitOffset: 2, ShowFractionDigits: true}

// NewDisplayCurrency builds a currency for an arbitrary fiat display
// currency with the given number of fraction digits.
func NewDisplayCurrency(code string, fractionDigits int) Currency {
	return Currency{
		Code:               code,
		MinorUnitOffset:    fractionDigits,
		ShowFractionDigits: fractionDigits > 0,
	}
}
