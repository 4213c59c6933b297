// Package lnurl handles the LNURL bech32 encoding and the lightning
// address convention (user@domain resolving to pay parameters via a
// well-known HTTPS endpoint).
package lnurl

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Tag distinguishes the LNURL sub-protocols the wallet understands.
type Tag string

const (
	TagPayRequest      Tag = "payRequest"
	TagWithdrawRequest Tag = "withdrawRequest"
)

// PayParams are the parameters returned by an LNURL service. Sendable
// bounds arrive in millisatoshis per LUD-06.
type PayParams struct {
	Callback       string `json:"callback"`
	MinSendable    int64  `json:"minSendable"`
	MaxSendable    int64  `json:"maxSendable"`
	Metadata       string `json:"metadata"`
	CommentAllowed int    `json:"commentAllowed"`
	Tag            Tag    `json:"tag"`
}

// FixedAmount reports whether the service accepts exactly one amount.
func (p *PayParams) FixedAmount() bool {
	return p.MinSendable == p.MaxSendable
}

// MinSendableSat returns the lower sendable bound in whole satoshis,
// rounded up so the bound is never understated.
func (p *PayParams) MinSendableSat() int64 {
	return (p.MinSendable + 999) / 1000
}

// MaxSendableSat returns the upper sendable bound in whole satoshis.
func (p *PayParams) MaxSendableSat() int64 {
	return p.MaxSendable / 1000
}

var lightningAddressRe = regexp.MustCompile(`^[a-z0-9\-_.+]+@[a-z0-9\-.]+\.[a-z]{2,}$`)

// IsLightningAddress reports whether s has the user@domain shape.
// Addresses are matched case-insensitively.
func IsLightningAddress(s string) bool {
	return lightningAddressRe.MatchString(strings.ToLower(s))
}

// SplitLightningAddress breaks a lightning address into its user and
// domain parts, both lowercased.
func SplitLightningAddress(s string) (user, domain string, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !lightningAddressRe.MatchString(s) {
		return "", "", fmt.Errorf("not a lightning address: %q", s)
	}
	i := strings.LastIndexByte(s, '@')
	return s[:i], s[i+1:], nil
}

// AddressToURL derives the LUD-16 well-known endpoint for a lightning
// address.
func AddressToURL(user, domain string) string {
	return fmt.Sprintf("https://%s/.well-known/lnurlp/%s", domain, url.PathEscape(user))
}

// IsBech32 reports whether s looks like an lnurl1... encoded payload.
func IsBech32(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "lnurl1")
}

// DecodeBech32 unwraps an lnurl1 bech32 payload into the embedded URL.
func DecodeBech32(s string) (string, error) {
	hrp, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return "", fmt.Errorf("bech32 decode: %w", err)
	}
	if hrp != "lnurl" {
		return "", fmt.Errorf("human-readable part %q is not lnurl", hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", fmt.Errorf("convert bits: %w", err)
	}
	decoded, err := url.Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("embedded url: %w", err)
	}
	if decoded.Scheme != "https" && decoded.Scheme != "http" {
		return "", fmt.Errorf("embedded url has scheme %q", decoded.Scheme)
	}
	return decoded.String(), nil
}

// EncodeBech32 wraps a URL into the lnurl1 form. Used by tests and tooling.
func EncodeBech32(rawURL string) (string, error) {
	words, err := bech32.ConvertBits([]byte(rawURL), 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("convert bits: %w", err)
	}
	out, err := bech32.Encode("lnurl", words)
	if err != nil {
		return "", fmt.Errorf("bech32 encode: %w", err)
	}
	return out, nil
}
