package lnurl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLightningAddressDetection(t *testing.T) {
	assert.True(t, IsLightningAddress("satoshi@blink.sv"))
	assert.True(t, IsLightningAddress("Satoshi@Blink.SV"))
	assert.False(t, IsLightningAddress("satoshi"))
	assert.False(t, IsLightningAddress("satoshi@"))
	assert.False(t, IsLightningAddress("@blink.sv"))
	assert.False(t, IsLightningAddress("satoshi@localhost"))
}

func TestSplitLightningAddress(t *testing.T) {
	user, domain, err := SplitLightningAddress(" Satoshi@Blink.sv ")
	require.NoError(t, err)
	assert.Equal(t, "satoshi", user)
	assert.Equal(t, "blink.sv", domain)

	_, _, err = SplitLightningAddress("nonsense")
	require.Error(t, err)
}

func TestAddressToURL(t *testing.T) {
	assert.Equal(t, "https://blink.sv/.well-known/lnurlp/satoshi", AddressToURL("satoshi", "blink.sv"))
}

func TestBech32RoundTrip(t *testing.T) {
	original := "https://service.example/api?q=abc123"
	encoded, err := EncodeBech32(original)
	require.NoError(t, err)
	assert.True(t, IsBech32(encoded))

	decoded, err := DecodeBech32(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeBech32_RejectsNonLnurl(t *testing.T) {
	_, err := DecodeBech32("lnbc1pvjluez")
	require.Error(t, err)
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"callback": "https://service.example/cb",
			"minSendable": 1000000,
			"maxSendable": 1000000000,
			"metadata": "[[\"text/plain\",\"pay satoshi\"]]",
			"tag": "payRequest"
		}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	params, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, TagPayRequest, params.Tag)
	assert.Equal(t, int64(1000), params.MinSendableSat())
	assert.Equal(t, int64(1000000), params.MaxSendableSat())
	assert.False(t, params.FixedAmount())
}

func TestHTTPFetcher_WithdrawRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"tag": "withdrawRequest",
			"callback": "https://service.example/withdraw",
			"k1": "0123456789abcdef",
			"defaultDescription": "withdrawal",
			"minWithdrawable": 1000,
			"maxWithdrawable": 2000000
		}`))
	}))
	defer srv.Close()

	params, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, TagWithdrawRequest, params.Tag)
	assert.Equal(t, int64(1), params.MinSendableSat())
	assert.Equal(t, int64(2000), params.MaxSendableSat())
}

func TestHTTPFetcher_WithdrawAllowsZeroMinimum(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"tag": "withdrawRequest",
			"callback": "https://service.example/withdraw",
			"minWithdrawable": 0,
			"maxWithdrawable": 5000
		}`))
	}))
	defer srv.Close()

	params, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int64(0), params.MinSendableSat())
}

func TestHTTPFetcher_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ERROR", "reason": "no such user"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL)
	require.ErrorContains(t, err, "no such user")
}

func TestHTTPFetcher_BadBounds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"callback": "https://x/cb", "minSendable": 5000, "maxSendable": 1000, "tag": "payRequest"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestMinSendableSatRoundsUp(t *testing.T) {
	p := &PayParams{MinSendable: 1001, MaxSendable: 2000}
	assert.Equal(t, int64(2), p.MinSendableSat())
	assert.Equal(t, int64(2), p.MaxSendableSat())
}
