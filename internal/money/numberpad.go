package money

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberPadNumber is the in-progress digit entry accumulated from keypad
// presses. It is decoupled from any currency's precision until converted:
// Major and Minor hold the raw digit strings as typed, including leading
// zeros, which are insignificant for value but preserved for display.
type NumberPadNumber struct {
	Major      string
	Minor      string
	HasDecimal bool
}

// Key is one keypad input.
type Key string

const (
	Key0         Key = "0"
	Key1         Key = "1"
	Key2         Key = "2"
	Key3         Key = "3"
	Key4         Key = "4"
	Key5         Key = "5"
	Key6         Key = "6"
	Key7         Key = "7"
	Key8         Key = "8"
	Key9         Key = "9"
	KeyDecimal   Key = "."
	KeyBackspace Key = "backspace"
)

// Press applies one keypad input and returns the updated number. The
// currency decides whether a decimal point is accepted and how many minor
// digits may accumulate. Inputs that cannot apply are ignored and the
// number is returned unchanged.
func (n NumberPadNumber) Press(k Key, currency Currency) NumberPadNumber {
	switch k {
	case KeyDecimal:
		if !currency.ShowFractionDigits || currency.MinorUnitOffset == 0 {
			return n
		}
		n.HasDecimal = true
		return n

	case KeyBackspace:
		switch {
		case len(n.Minor) > 0:
			n.Minor = n.Minor[:len(n.Minor)-1]
			if n.Minor == "" {
				n.HasDecimal = false
			}
		case n.HasDecimal:
			n.HasDecimal = false
		case len(n.Major) > 0:
			n.Major = n.Major[:len(n.Major)-1]
		}
		return n

	case Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9:
		if n.HasDecimal {
			if len(n.Minor) >= currency.MinorUnitOffset {
				return n
			}
			n.Minor += string(k)
			return n
		}
		n.Major += string(k)
		return n
	}
	return n
}

// ParseNumberPadNumber decomposes a pasted raw numeric string into the
// equivalent keypad state, applying the same rules as individual key
// presses (minor digits capped at the currency's offset, decimal point
// refused for whole-unit currencies).
func ParseNumberPadNumber(s string, currency Currency) (NumberPadNumber, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NumberPadNumber{}, nil
	}
	major, minor, hasDecimal := s, "", false
	if i := strings.IndexByte(s, '.'); i >= 0 {
		major, minor, hasDecimal = s[:i], s[i+1:], true
	}
	if !isDigits(major) || !isDigits(minor) {
		return NumberPadNumber{}, fmt.Errorf("not a numeric value: %q", s)
	}
	out := NumberPadNumber{Major: major}
	if hasDecimal && currency.ShowFractionDigits && currency.MinorUnitOffset > 0 {
		out.HasDecimal = true
		if len(minor) > currency.MinorUnitOffset {
			minor = minor[:currency.MinorUnitOffset]
		}
		out.Minor = minor
	}
	return out, nil
}

// ToAmount converts the keypad state into a canonical minor-unit amount
// for the given currency. Minor digits beyond the currency's offset are
// truncated, never rounded; missing minor digits count as trailing zeros.
func (n NumberPadNumber) ToAmount(currency Currency) (Amount, error) {
	major := int64(0)
	if trimmed := strings.TrimLeft(n.Major, "0"); trimmed != "" {
		v, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return Amount{}, fmt.Errorf("major amount %q: %w", n.Major, err)
		}
		major = v
	} else if !isDigits(n.Major) {
		return Amount{}, fmt.Errorf("major amount %q is not numeric", n.Major)
	}

	offset := currency.MinorUnitOffset
	minorDigits := n.Minor
	if len(minorDigits) > offset {
		minorDigits = minorDigits[:offset]
	}
	minor := int64(0)
	if minorDigits != "" {
		v, err := strconv.ParseInt(minorDigits, 10, 64)
		if err != nil {
			return Amount{}, fmt.Errorf("minor amount %q: %w", n.Minor, err)
		}
		// Fewer typed digits than the offset means trailing zeros.
		minor = v * pow10(offset-len(minorDigits))
	}
	return Amount{Amount: major*pow10(offset) + minor, Currency: currency}, nil
}

// FromAmount splits an existing canonical amount back into keypad state so
// it can be re-edited, e.g. after a currency switch or when loading a
// pre-filled amount. Currencies that never show fractions present no minor
// component.
func FromAmount(a Amount) NumberPadNumber {
	offset := a.Currency.MinorUnitOffset
	if offset == 0 || !a.Currency.ShowFractionDigits {
		div := pow10(offset)
		return NumberPadNumber{Major: strconv.FormatInt(a.Amount/div, 10)}
	}
	div := pow10(offset)
	major := a.Amount / div
	minor := a.Amount % div
	if minor == 0 {
		return NumberPadNumber{Major: strconv.FormatInt(major, 10)}
	}
	return NumberPadNumber{
		Major:      strconv.FormatInt(major, 10),
		Minor:      fmt.Sprintf("%0*d", offset, minor),
		HasDecimal: true,
	}
}

// String renders the keypad state the way the entry field shows it.
func (n NumberPadNumber) String() string {
	major := n.Major
	if major == "" {
		major = "0"
	}
	if !n.HasDecimal {
		return major
	}
	return major + "." + n.Minor
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
