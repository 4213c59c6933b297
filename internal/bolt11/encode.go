package bolt11

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Encode serializes the invoice and signs it with the payee key. The
// destination recorded in the invoice, if any, must correspond to priv.
func Encode(inv *Invoice, priv *secp256k1.PrivateKey) (string, error) {
	if inv.PaymentHash == nil {
		return "", fmt.Errorf("invoice needs a payment hash")
	}
	if priv == nil {
		return "", fmt.Errorf("invoice needs a signing key")
	}

	hrp := "ln" + inv.Network.InvoiceHRP()
	if inv.MilliSat != nil {
		hrp += FormatHRPAmount(*inv.MilliSat)
	}

	data := uint64ToBase32(uint64(inv.Timestamp.Unix()), timestampWordCount)

	var err error
	if data, err = appendBytesField(data, fieldPaymentHash, inv.PaymentHash[:]); err != nil {
		return "", err
	}
	if inv.DescriptionHash != nil {
		if data, err = appendBytesField(data, fieldDescriptionHash, inv.DescriptionHash[:]); err != nil {
			return "", err
		}
	} else {
		if data, err = appendBytesField(data, fieldDescription, []byte(inv.Description)); err != nil {
			return "", err
		}
	}
	if inv.PaymentSecret != nil {
		if data, err = appendBytesField(data, fieldPaymentSecret, inv.PaymentSecret[:]); err != nil {
			return "", err
		}
	}
	if inv.Destination != nil {
		if data, err = appendBytesField(data, fieldDestination, inv.Destination.SerializeCompressed()); err != nil {
			return "", err
		}
	}
	if inv.ExpirySeconds != nil {
		data = appendIntField(data, fieldExpiry, *inv.ExpirySeconds)
	}
	if inv.MinFinalCLTVExpiry != nil {
		data = appendIntField(data, fieldMinFinalCLTV, *inv.MinFinalCLTVExpiry)
	}

	signed, err := bech32.ConvertBits(data, 5, 8, true)
	if err != nil {
		return "", fmt.Errorf("signed data: %w", err)
	}
	hash := sha256.Sum256(append([]byte(hrp), signed...))
	compact := ecdsa.SignCompact(priv, hash[:], true)

	// Rearrange header-first compact form into r || s || recovery id.
	sigBytes := make([]byte, 65)
	copy(sigBytes, compact[1:])
	sigBytes[64] = compact[0] - 27 - 4

	sigWords, err := bech32.ConvertBits(sigBytes, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("signature: %w", err)
	}
	data = append(data, sigWords...)

	out, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", fmt.Errorf("bech32 encode: %w", err)
	}
	return out, nil
}

func appendBytesField(data []byte, typ byte, value []byte) ([]byte, error) {
	words, err := bech32.ConvertBits(value, 8, 5, true)
	if err != nil {
		return nil, fmt.Errorf("field %d: %w", typ, err)
	}
	data = append(data, typ, byte(len(words)>>5), byte(len(words)&31))
	return append(data, words...), nil
}

func appendIntField(data []byte, typ byte, value uint64) []byte {
	words := uint64ToBase32(value, 0)
	data = append(data, typ, byte(len(words)>>5), byte(len(words)&31))
	return append(data, words...)
}

// uint64ToBase32 produces big-endian 5-bit groups. A non-zero width pads
// to exactly that many groups; zero width yields the minimal encoding.
func uint64ToBase32(v uint64, width int) []byte {
	var words []byte
	for v > 0 {
		words = append([]byte{byte(v & 31)}, words...)
		v >>= 5
	}
	if width == 0 && len(words) == 0 {
		return []byte{0}
	}
	for len(words) < width {
		words = append([]byte{0}, words...)
	}
	return words
}
