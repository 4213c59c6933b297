// Package bolt11 decodes and encodes BOLT11 lightning payment invoices.
//
// Only the fields the send flow acts on are surfaced: amount, payment
// hash, description, expiry, minimum final CLTV delta and the destination
// node. Unknown tagged fields are skipped, as BOLT11 requires.
package bolt11

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/haljin/sendcore/internal/chain"
)

const (
	// signatureWordCount is the fixed tail of every invoice: a 512-bit
	// signature plus the 8-bit recovery id, in 5-bit groups.
	signatureWordCount = 104

	// timestampWordCount holds the 35-bit creation time.
	timestampWordCount = 7

	// DefaultExpirySeconds applies when the invoice carries no x field.
	DefaultExpirySeconds uint64 = 3600

	// DefaultMinFinalCLTVExpiry applies when the invoice carries no c field.
	DefaultMinFinalCLTVExpiry uint64 = 18
)

// Tagged field types from BOLT11.
const (
	fieldPaymentHash     = 1
	fieldRouteHint       = 3
	fieldFeatures        = 5
	fieldExpiry          = 6
	fieldFallbackAddress = 9
	fieldDescription     = 13
	fieldPaymentSecret   = 16
	fieldDestination     = 19
	fieldDescriptionHash = 23
	fieldMinFinalCLTV    = 24
)

// Invoice is a decoded BOLT11 payment request.
type Invoice struct {
	Network chain.Network

	// MilliSat is nil for amountless invoices.
	MilliSat *uint64

	Timestamp       time.Time
	PaymentHash     *[32]byte
	PaymentSecret   *[32]byte
	Description     string
	DescriptionHash *[32]byte

	// Destination is the payee node, either carried in the n field or
	// recovered from the signature.
	Destination *btcec.PublicKey

	// ExpirySeconds is nil when the invoice relies on the default.
	ExpirySeconds *uint64

	// MinFinalCLTVExpiry is nil when the invoice relies on the default.
	MinFinalCLTVExpiry *uint64
}

// Expiry returns the invoice lifetime.
func (inv *Invoice) Expiry() time.Duration {
	secs := DefaultExpirySeconds
	if inv.ExpirySeconds != nil {
		secs = *inv.ExpirySeconds
	}
	return time.Duration(secs) * time.Second
}

// IsExpired reports whether the invoice has lapsed at the given time.
func (inv *Invoice) IsExpired(now time.Time) bool {
	return inv.Timestamp.Add(inv.Expiry()).Before(now)
}

// SatAmount returns the invoice amount in whole satoshis, truncating any
// sub-satoshi millisatoshi remainder, and false for amountless invoices.
func (inv *Invoice) SatAmount() (int64, bool) {
	if inv.MilliSat == nil {
		return 0, false
	}
	return int64(*inv.MilliSat / 1000), true
}

// Decode parses a bech32-encoded invoice. The network is inferred from the
// human-readable part; callers compare it against their configured network.
func Decode(raw string) (*Invoice, error) {
	hrp, data, err := bech32.DecodeNoLimit(raw)
	if err != nil {
		return nil, fmt.Errorf("bech32 decode: %w", err)
	}
	if !strings.HasPrefix(hrp, "ln") {
		return nil, fmt.Errorf("human-readable part %q does not start with ln", hrp)
	}

	network, amountPart, err := splitHRP(hrp[2:])
	if err != nil {
		return nil, err
	}
	inv := &Invoice{Network: network}
	if amountPart != "" {
		msat, err := ParseHRPAmount(amountPart)
		if err != nil {
			return nil, err
		}
		inv.MilliSat = &msat
	}

	if len(data) < timestampWordCount+signatureWordCount {
		return nil, fmt.Errorf("invoice data too short: %d groups", len(data))
	}

	ts, err := base32ToUint64(data[:timestampWordCount])
	if err != nil {
		return nil, err
	}
	inv.Timestamp = time.Unix(int64(ts), 0).UTC()

	if err := inv.parseTaggedFields(data[timestampWordCount : len(data)-signatureWordCount]); err != nil {
		return nil, err
	}
	if inv.PaymentHash == nil {
		return nil, fmt.Errorf("invoice carries no payment hash")
	}

	if err := inv.resolveDestination(hrp, data); err != nil {
		return nil, err
	}
	return inv, nil
}

// splitHRP separates the network prefix from the optional amount in the
// portion of the human-readable part after "ln". Longest prefix wins so
// that bcrt and tbs are never shadowed by bc and tb.
func splitHRP(s string) (chain.Network, string, error) {
	for _, prefix := range []string{"bcrt", "tbs", "tb", "bc"} {
		if strings.HasPrefix(s, prefix) {
			network, _ := chain.NetworkForInvoiceHRP(prefix)
			return network, s[len(prefix):], nil
		}
	}
	return "", "", fmt.Errorf("unknown invoice network prefix in %q", s)
}

func (inv *Invoice) parseTaggedFields(fields []byte) error {
	for len(fields) > 0 {
		if len(fields) < 3 {
			return fmt.Errorf("truncated tagged field header")
		}
		typ := fields[0]
		dataLen := int(fields[1])<<5 | int(fields[2])
		if len(fields) < 3+dataLen {
			return fmt.Errorf("tagged field %d claims %d groups, %d remain", typ, dataLen, len(fields)-3)
		}
		words := fields[3 : 3+dataLen]
		fields = fields[3+dataLen:]

		switch typ {
		case fieldPaymentHash:
			if inv.PaymentHash != nil {
				continue // first occurrence wins
			}
			hash, err := words32Bytes(words, 52)
			if err != nil {
				return fmt.Errorf("payment hash: %w", err)
			}
			inv.PaymentHash = hash

		case fieldPaymentSecret:
			if inv.PaymentSecret != nil {
				continue
			}
			secret, err := words32Bytes(words, 52)
			if err != nil {
				return fmt.Errorf("payment secret: %w", err)
			}
			inv.PaymentSecret = secret

		case fieldDescription:
			raw, err := bech32.ConvertBits(words, 5, 8, false)
			if err != nil {
				return fmt.Errorf("description: %w", err)
			}
			inv.Description = string(raw)

		case fieldDescriptionHash:
			if inv.DescriptionHash != nil {
				continue
			}
			hash, err := words32Bytes(words, 52)
			if err != nil {
				return fmt.Errorf("description hash: %w", err)
			}
			inv.DescriptionHash = hash

		case fieldDestination:
			if inv.Destination != nil || len(words) != 53 {
				continue
			}
			raw, err := bech32.ConvertBits(words, 5, 8, false)
			if err != nil {
				return fmt.Errorf("destination: %w", err)
			}
			pub, err := btcec.ParsePubKey(raw)
			if err != nil {
				return fmt.Errorf("destination: %w", err)
			}
			inv.Destination = pub

		case fieldExpiry:
			secs, err := base32ToUint64(words)
			if err != nil {
				return fmt.Errorf("expiry: %w", err)
			}
			inv.ExpirySeconds = &secs

		case fieldMinFinalCLTV:
			delta, err := base32ToUint64(words)
			if err != nil {
				return fmt.Errorf("min final cltv: %w", err)
			}
			inv.MinFinalCLTVExpiry = &delta

		case fieldRouteHint, fieldFeatures, fieldFallbackAddress:
			// Recognized but not acted on by the send flow.
		default:
			// Readers must skip unknown tagged fields.
		}
	}
	return nil
}

// resolveDestination recovers the payee node key from the trailing
// signature, or checks it against an explicit n field when one is present.
func (inv *Invoice) resolveDestination(hrp string, data []byte) error {
	sigWords := data[len(data)-signatureWordCount:]
	sigBytes, err := bech32.ConvertBits(sigWords, 5, 8, false)
	if err != nil {
		return fmt.Errorf("signature: %w", err)
	}
	if len(sigBytes) != 65 {
		return fmt.Errorf("signature is %d bytes, want 65", len(sigBytes))
	}
	recoveryID := sigBytes[64]
	if recoveryID > 3 {
		return fmt.Errorf("invalid signature recovery id %d", recoveryID)
	}

	signed, err := bech32.ConvertBits(data[:len(data)-signatureWordCount], 5, 8, true)
	if err != nil {
		return fmt.Errorf("signed data: %w", err)
	}
	hash := sha256.Sum256(append([]byte(hrp), signed...))

	// RecoverCompact wants the header byte first: 27 for a recoverable
	// signature, +4 for a compressed public key, plus the recovery id.
	compact := make([]byte, 65)
	compact[0] = 27 + 4 + recoveryID
	copy(compact[1:], sigBytes[:64])
	recovered, _, err := ecdsa.RecoverCompact(compact, hash[:])
	if err != nil {
		return fmt.Errorf("recover payee key: %w", err)
	}

	if inv.Destination != nil {
		if !inv.Destination.IsEqual(recovered) {
			return fmt.Errorf("signature does not match destination node")
		}
		return nil
	}
	inv.Destination = recovered
	return nil
}

// words32Bytes converts a fixed-size tagged field into its 32-byte value.
func words32Bytes(words []byte, wantWords int) (*[32]byte, error) {
	if len(words) != wantWords {
		return nil, fmt.Errorf("field is %d groups, want %d", len(words), wantWords)
	}
	raw, err := bech32.ConvertBits(words, 5, 8, false)
	if err != nil {
		return nil, err
	}
	var out [32]byte
	copy(out[:], raw)
	return &out, nil
}

// base32ToUint64 interprets 5-bit groups as a big-endian integer.
func base32ToUint64(words []byte) (uint64, error) {
	if len(words) > 13 {
		return 0, fmt.Errorf("integer field of %d groups overflows uint64", len(words))
	}
	var out uint64
	for _, w := range words {
		out = out<<5 | uint64(w)
	}
	return out, nil
}
