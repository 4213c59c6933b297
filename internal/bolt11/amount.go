package bolt11

import (
	"fmt"
	"strconv"
	"strings"
)

// MilliSatPerBitcoin is the number of millisatoshis in one bitcoin.
const MilliSatPerBitcoin uint64 = 100_000_000_000

// Multiplier values from the BOLT11 human-readable part, expressed as the
// number of millisatoshis per encoded unit. The pico multiplier is the odd
// one out: one pico-bitcoin is a tenth of a millisatoshi, so pico amounts
// must be a multiple of ten.
var multiplierMsat = map[byte]uint64{
	'm': 100_000_000, // milli-bitcoin
	'u': 100_000,     // micro-bitcoin
	'n': 100,         // nano-bitcoin
}

// ParseHRPAmount decodes the optional amount portion of an invoice
// human-readable part into an exact millisatoshi value.
func ParseHRPAmount(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	digits := s
	var mult byte
	if last := s[len(s)-1]; last < '0' || last > '9' {
		mult = last
		digits = s[:len(s)-1]
	}
	if digits == "" {
		return 0, fmt.Errorf("amount %q has no digits", s)
	}
	if len(digits) > 1 && digits[0] == '0' {
		return 0, fmt.Errorf("amount %q has leading zeros", s)
	}
	num, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}

	switch {
	case mult == 0:
		if num > maxUint64/MilliSatPerBitcoin {
			return 0, fmt.Errorf("amount %q overflows", s)
		}
		return num * MilliSatPerBitcoin, nil
	case mult == 'p':
		if num%10 != 0 {
			return 0, fmt.Errorf("pico amount %q is not a multiple of 10", s)
		}
		return num / 10, nil
	default:
		msatPerUnit, ok := multiplierMsat[mult]
		if !ok {
			return 0, fmt.Errorf("unknown amount multiplier %q", string(mult))
		}
		if num > maxUint64/msatPerUnit {
			return 0, fmt.Errorf("amount %q overflows", s)
		}
		return num * msatPerUnit, nil
	}
}

// FormatHRPAmount encodes a millisatoshi value back into the shortest
// human-readable amount string, choosing the largest multiplier that
// represents the value exactly. ParseHRPAmount(FormatHRPAmount(v)) == v
// for every v.
func FormatHRPAmount(msat uint64) string {
	var b strings.Builder
	switch {
	case msat%100 != 0:
		b.WriteString(strconv.FormatUint(msat*10, 10))
		b.WriteByte('p')
	case msat%100_000 != 0:
		b.WriteString(strconv.FormatUint(msat/100, 10))
		b.WriteByte('n')
	case msat%100_000_000 != 0:
		b.WriteString(strconv.FormatUint(msat/100_000, 10))
		b.WriteByte('u')
	case msat%MilliSatPerBitcoin != 0:
		b.WriteString(strconv.FormatUint(msat/100_000_000, 10))
		b.WriteByte('m')
	default:
		b.WriteString(strconv.FormatUint(msat/MilliSatPerBitcoin, 10))
	}
	return b.String()
}

const maxUint64 = ^uint64(0)
