// Package rates provides a static price table implementing the amount
// engine's conversion collaborator. Rates are configured as integer
// millisatoshis per minor unit of each currency, so conversion never
// leaves integer arithmetic.
package rates

import (
	"fmt"
	"math"

	"github.com/haljin/sendcore/internal/config"
	"github.com/haljin/sendcore/internal/money"
)

// msatPerSat anchors the satoshi side of every conversion.
const msatPerSat int64 = 1000

// Table converts between satoshis and the configured display currencies.
type Table struct {
	// msat per minor unit, keyed by currency code.
	perUnit    map[string]int64
	currencies map[string]money.Currency
}

// NewTable builds a table from the configured display currencies.
func NewTable(configured []config.DisplayCurrencyConfig) *Table {
	t := &Table{
		perUnit:    map[string]int64{money.Satoshis.Code: msatPerSat},
		currencies: map[string]money.Currency{money.Satoshis.Code: money.Satoshis},
	}
	for _, dc := range configured {
		t.perUnit[dc.Code] = dc.MsatPerUnit
		t.currencies[dc.Code] = money.NewDisplayCurrency(dc.Code, dc.FractionDigits)
	}
	return t
}

// Currency looks up a configured currency by code.
func (t *Table) Currency(code string) (money.Currency, bool) {
	c, ok := t.currencies[code]
	return c, ok
}

// Convert maps an amount into the target currency through the
// millisatoshi bridge, truncating any sub-minor-unit remainder. It
// satisfies money.ConvertFunc.
func (t *Table) Convert(a money.Amount, target money.Currency) (money.Amount, error) {
	fromRate, ok := t.perUnit[a.Currency.Code]
	if !ok {
		return money.Amount{}, fmt.Errorf("no rate for %s", a.Currency.Code)
	}
	toRate, ok := t.perUnit[target.Code]
	if !ok {
		return money.Amount{}, fmt.Errorf("no rate for %s", target.Code)
	}
	// Rates are positive, so the bridge overflows only past this bound.
	if a.Amount > math.MaxInt64/fromRate || a.Amount < math.MinInt64/fromRate {
		return money.Amount{}, fmt.Errorf("amount %d %s overflows conversion", a.Amount, a.Currency.Code)
	}
	msat := a.Amount * fromRate
	return money.New(msat/toRate, target), nil
}
