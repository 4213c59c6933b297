package bolt11

import (
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haljin/sendcore/internal/chain"
)

func testKey(t *testing.T) *secp256k1.PrivateKey {
	t.Helper()
	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return secp256k1.PrivKeyFromBytes(seed[:])
}

func testInvoice(msat *uint64) *Invoice {
	hash := [32]byte{0xde, 0xad, 0xbe, 0xef, 0x01}
	return &Invoice{
		Network:     chain.Mainnet,
		MilliSat:    msat,
		Timestamp:   time.Unix(1700000000, 0).UTC(),
		PaymentHash: &hash,
		Description: "coffee",
	}
}

func TestParseHRPAmount(t *testing.T) {
	tests := []struct {
		input    string
		wantMsat uint64
		wantErr  bool
	}{
		{input: "1", wantMsat: 100_000_000_000},           // 1 BTC
		{input: "25m", wantMsat: 2_500_000_000},           // 25 mBTC
		{input: "2500u", wantMsat: 250_000_000},           // 2500 uBTC
		{input: "100n", wantMsat: 10_000},                 // 100 nBTC
		{input: "10p", wantMsat: 1},                       // 1 msat
		{input: "", wantErr: true},
		{input: "m", wantErr: true},
		{input: "01m", wantErr: true},                     // leading zero
		{input: "5p", wantErr: true},                      // sub-msat precision
		{input: "9x", wantErr: true},                      // unknown multiplier
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHRPAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMsat, got)
		})
	}
}

func TestFormatHRPAmountRoundTrip(t *testing.T) {
	for _, msat := range []uint64{1, 10, 999, 1000, 10_000, 123_456_789, 100_000, 100_000_000, 100_000_000_000, 2_500_000_000} {
		encoded := FormatHRPAmount(msat)
		decoded, err := ParseHRPAmount(encoded)
		require.NoError(t, err, "amount %d encoded as %q", msat, encoded)
		assert.Equal(t, msat, decoded, "amount %d encoded as %q", msat, encoded)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	priv := testKey(t)
	msat := uint64(250_000_000)
	expiry := uint64(600)

	inv := testInvoice(&msat)
	inv.ExpirySeconds = &expiry
	secret := [32]byte{0x42}
	inv.PaymentSecret = &secret
	inv.Destination = priv.PubKey()

	encoded, err := Encode(inv, priv)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, chain.Mainnet, decoded.Network)
	require.NotNil(t, decoded.MilliSat)
	assert.Equal(t, msat, *decoded.MilliSat, "millisatoshi amount must survive the round trip exactly")
	assert.Equal(t, inv.Timestamp, decoded.Timestamp)
	assert.Equal(t, *inv.PaymentHash, *decoded.PaymentHash)
	assert.Equal(t, secret, *decoded.PaymentSecret)
	assert.Equal(t, "coffee", decoded.Description)
	assert.Equal(t, expiry, *decoded.ExpirySeconds)
	assert.True(t, priv.PubKey().IsEqual(decoded.Destination))
}

func TestDecodeRecoversDestinationFromSignature(t *testing.T) {
	priv := testKey(t)
	inv := testInvoice(nil)

	encoded, err := Encode(inv, priv)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Nil(t, decoded.MilliSat)
	require.NotNil(t, decoded.Destination)
	assert.True(t, priv.PubKey().IsEqual(decoded.Destination))
}

func TestDecodeNetworkPrefixes(t *testing.T) {
	priv := testKey(t)
	for _, network := range chain.All {
		inv := testInvoice(nil)
		inv.Network = network

		encoded, err := Encode(inv, priv)
		require.NoError(t, err)

		decoded, err := Decode(encoded)
		require.NoError(t, err, "network %s", network)
		assert.Equal(t, network, decoded.Network)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, input := range []string{
		"",
		"notaninvoice",
		"lnbc1qqqqqq",                 // far too short
		"bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", // an address, not an invoice
	} {
		_, err := Decode(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestExpiryDefaults(t *testing.T) {
	inv := &Invoice{Timestamp: time.Unix(1700000000, 0)}
	assert.Equal(t, time.Hour, inv.Expiry())
	assert.True(t, inv.IsExpired(time.Unix(1700003601, 0)))
	assert.False(t, inv.IsExpired(time.Unix(1700003599, 0)))
}

func TestSatAmountTruncatesMsat(t *testing.T) {
	msat := uint64(1999)
	inv := &Invoice{MilliSat: &msat}
	sats, ok := inv.SatAmount()
	require.True(t, ok)
	assert.Equal(t, int64(1), sats)

	_, ok = (&Invoice{}).SatAmount()
	assert.False(t, ok)
}
