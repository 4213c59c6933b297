package money

import "fmt"

// Field names one of the three simultaneously displayed amount fields
// during entry: the sending wallet's unit, the receiving unit, and the
// user's display currency.
type Field string

const (
	FieldWallet  Field = "wallet"
	FieldCounter Field = "counter"
	FieldDisplay Field = "display"
)

// ConvertFunc converts an amount into the target currency. Implemented by
// an external price collaborator; the engine never computes rates itself.
type ConvertFunc func(a Amount, target Currency) (Amount, error)

// EntryAmounts holds the three field values shown during amount entry.
type EntryAmounts struct {
	Wallet  Amount
	Counter Amount
	Display Amount
}

// Converter recomputes the non-focused entry fields from the focused one.
type Converter struct {
	Convert ConvertFunc
}

// Recompute takes the focused field as the single source of truth and
// rederives the other two from it. The focused field is passed through
// untouched, so updating the derived fields can never feed back into a
// reconversion of the source within the same cycle.
func (c Converter) Recompute(focused Field, entry EntryAmounts) (EntryAmounts, error) {
	if c.Convert == nil {
		return EntryAmounts{}, fmt.Errorf("no conversion function configured")
	}

	var source Amount
	switch focused {
	case FieldWallet:
		source = entry.Wallet
	case FieldCounter:
		source = entry.Counter
	case FieldDisplay:
		source = entry.Display
	default:
		return EntryAmounts{}, fmt.Errorf("unknown focused field %q", focused)
	}

	out := entry
	if focused != FieldWallet {
		converted, err := c.Convert(source, entry.Wallet.Currency)
		if err != nil {
			return EntryAmounts{}, fmt.Errorf("convert to %s: %w", entry.Wallet.Currency.Code, err)
		}
		out.Wallet = converted
	}
	if focused != FieldCounter {
		converted, err := c.Convert(source, entry.Counter.Currency)
		if err != nil {
			return EntryAmounts{}, fmt.Errorf("convert to %s: %w", entry.Counter.Currency.Code, err)
		}
		out.Counter = converted
	}
	if focused != FieldDisplay {
		converted, err := c.Convert(source, entry.Display.Currency)
		if err != nil {
			return EntryAmounts{}, fmt.Errorf("convert to %s: %w", entry.Display.Currency.Code, err)
		}
		out.Display = converted
	}
	return out, nil
}
