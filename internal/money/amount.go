package money

import (
	"fmt"
	"strings"
)

// Amount is a quantity of money held as an integer count of the currency's
// minor unit. No floating point is used to represent money at rest.
type Amount struct {
	Amount   int64
	Currency Currency
}

// New creates an amount from a minor-unit count.
func New(minor int64, currency Currency) Amount {
	return Amount{Amount: minor, Currency: currency}
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.Amount == 0
}

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a.Amount > 0
}

// Add adds two amounts of the same currency.
func (a Amount) Add(other Amount) (Amount, error) {
	if a.Currency.Code != other.Currency.Code {
		return Amount{}, fmt.Errorf("cannot add %s to %s", other.Currency.Code, a.Currency.Code)
	}
	return Amount{Amount: a.Amount + other.Amount, Currency: a.Currency}, nil
}

// Sub subtracts an amount of the same currency.
func (a Amount) Sub(other Amount) (Amount, error) {
	if a.Currency.Code != other.Currency.Code {
		return Amount{}, fmt.Errorf("cannot subtract %s from %s", other.Currency.Code, a.Currency.Code)
	}
	return Amount{Amount: a.Amount - other.Amount, Currency: a.Currency}, nil
}

// Cmp compares two amounts of the same currency, returning -1, 0 or 1.
func (a Amount) Cmp(other Amount) (int, error) {
	if a.Currency.Code != other.Currency.Code {
		return 0, fmt.Errorf("cannot compare %s with %s", a.Currency.Code, other.Currency.Code)
	}
	switch {
	case a.Amount < other.Amount:
		return -1, nil
	case a.Amount > other.Amount:
		return 1, nil
	}
	return 0, nil
}

// String renders the amount in major units with the currency's fraction
// digits, e.g. 12345 USD cents -> "123.45 USD".
func (a Amount) String() string {
	offset := a.Currency.MinorUnitOffset
	if offset == 0 {
		return fmt.Sprintf("%d %s", a.Amount, a.Currency.Code)
	}
	div := pow10(offset)
	minor := a.Amount % div
	if minor < 0 {
		minor = -minor
	}
	return fmt.Sprintf("%d.%0*d %s", a.Amount/div, offset, minor, a.Currency.Code)
}

// BoundsReason classifies why an amount fails a min/max check.
type BoundsReason string

const (
	BoundsBelowMinimum BoundsReason = "below_minimum"
	BoundsAboveMaximum BoundsReason = "above_maximum"
)

// BoundsError reports an amount outside an allowed [min, max] window. The
// offending limit is carried for display.
type BoundsError struct {
	Reason BoundsReason
	Limit  Amount
}

func (e *BoundsError) Error() string {
	verb := "below minimum"
	if e.Reason == BoundsAboveMaximum {
		verb = "above maximum"
	}
	return fmt.Sprintf("amount %s %s", verb, strings.TrimSpace(e.Limit.String()))
}

// CheckBounds validates an amount against optional minimum and maximum
// limits. Limits are expressed in the canonical minor-unit space and must
// share the amount's currency; a nil limit means unbounded on that side.
func CheckBounds(a Amount, min, max *Amount) error {
	if min != nil {
		cmp, err := a.Cmp(*min)
		if err != nil {
			return err
		}
		if cmp < 0 {
			return &BoundsError{Reason: BoundsBelowMinimum, Limit: *min}
		}
	}
	if max != nil {
		cmp, err := a.Cmp(*max)
		if err != nil {
			return err
		}
		if cmp > 0 {
			return &BoundsError{Reason: BoundsAboveMaximum, Limit: *max}
		}
	}
	return nil
}

func pow10(n int) int64 {
	out := int64(1)
	for i := 0; i < n; i++ {
		out *= 10
	}
	return out
}
