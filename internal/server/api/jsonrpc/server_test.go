package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haljin/sendcore/internal/chain"
	"github.com/haljin/sendcore/internal/config"
	"github.com/haljin/sendcore/internal/destination"
	"github.com/haljin/sendcore/internal/lnurl"
	"github.com/haljin/sendcore/internal/money"
	"github.com/haljin/sendcore/internal/rates"
)

type stubAccounts struct{}

func (stubAccounts) DefaultWallet(_ context.Context, username string, _ money.WalletCurrency) (*destination.Wallet, error) {
	if username == "alice" {
		return &destination.Wallet{ID: "wallet-alice", Currency: money.WalletCurrencyBTC}, nil
	}
	return nil, destination.ErrWalletNotFound
}

type stubFetcher struct{}

func (stubFetcher) Fetch(context.Context, string) (*lnurl.PayParams, error) {
	return &lnurl.PayParams{
		Callback:    "https://blink.sv/cb",
		MinSendable: 1_000_000,
		MaxSendable: 2_000_000,
		Tag:         lnurl.TagPayRequest,
	}, nil
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	resolver, err := destination.NewResolver(destination.Config{
		Network:      chain.Mainnet,
		LnurlDomains: []string{"blink.sv"},
		Accounts:     stubAccounts{},
		Lnurl:        stubFetcher{},
	}, nil)
	require.NoError(t, err)

	table := rates.NewTable([]config.DisplayCurrencyConfig{
		{Code: "USD", FractionDigits: 2, MsatPerUnit: 20_000},
	})
	handler := NewHandler(chain.Mainnet, []string{"blink.sv"}, resolver, table, nil)
	srv := httptest.NewServer(NewServer(handler, nil))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method string, params any) map[string]any {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      1,
	})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestDestinationParseRPC(t *testing.T) {
	srv := testServer(t)

	out := call(t, srv, "destination_parse", map[string]any{
		"input": "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
	})
	result, ok := out["result"].(map[string]any)
	require.True(t, ok, "response: %v", out)
	assert.Equal(t, true, result["valid"])
	assert.Equal(t, "onchain", result["payment_type"])
	assert.Equal(t, "send", result["direction"])
}

func TestDestinationParseRPC_Invalid(t *testing.T) {
	srv := testServer(t)

	out := call(t, srv, "destination_parse", map[string]any{"input": "!!"})
	result := out["result"].(map[string]any)
	assert.Equal(t, false, result["valid"])
	assert.Equal(t, "unparseable", result["reason"])
}

func TestDestinationParseRPC_Lnurl(t *testing.T) {
	srv := testServer(t)

	out := call(t, srv, "destination_parse", map[string]any{"input": "satoshi@blink.sv"})
	result := out["result"].(map[string]any)
	require.Equal(t, true, result["valid"])
	lnurlOut := result["lnurl"].(map[string]any)
	assert.Equal(t, float64(1000), lnurlOut["min_sendable_sat"])
	assert.Equal(t, float64(2000), lnurlOut["max_sendable_sat"])
}

func TestAmountConvertRPC(t *testing.T) {
	srv := testServer(t)

	out := call(t, srv, "amount_convert", map[string]any{
		"amount":   2000,
		"currency": "SAT",
		"target":   "USD",
	})
	result, ok := out["result"].(map[string]any)
	require.True(t, ok, "response: %v", out)
	assert.Equal(t, float64(100), result["amount"])
	assert.Equal(t, "USD", result["currency"])
}

func TestUnknownMethodRPC(t *testing.T) {
	srv := testServer(t)

	out := call(t, srv, "made_up_method", nil)
	_, hasError := out["error"]
	assert.True(t, hasError)
}

func TestServerInfoRPC(t *testing.T) {
	srv := testServer(t)

	out := call(t, srv, "server_info", nil)
	result := out["result"].(map[string]any)
	assert.Equal(t, "mainnet", result["network"])
}
