package lnurl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher retrieves pay parameters from an LNURL service endpoint.
// Implementations own their timeout and must fail rather than hang.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*PayParams, error)
}

// DefaultFetchTimeout bounds a single metadata fetch.
const DefaultFetchTimeout = 10 * time.Second

// maxResponseBytes caps how much of a service response is read.
const maxResponseBytes = 1 << 20

// HTTPFetcher is the production Fetcher over plain HTTPS.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher builds a fetcher with the default timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: DefaultFetchTimeout}}
}

// Fetch performs the metadata request and decodes the response. LNURL
// services report application errors in-band with status "ERROR".
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*PayParams, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service returned status %d", resp.StatusCode)
	}

	var envelope struct {
		PayParams
		MinWithdrawable int64  `json:"minWithdrawable"`
		MaxWithdrawable int64  `json:"maxWithdrawable"`
		Status          string `json:"status"`
		Reason          string `json:"reason"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if envelope.Status == "ERROR" {
		return nil, fmt.Errorf("service error: %s", envelope.Reason)
	}

	params := envelope.PayParams
	// Withdraw services carry their bounds in the withdrawable fields.
	if params.Tag == TagWithdrawRequest {
		params.MinSendable = envelope.MinWithdrawable
		params.MaxSendable = envelope.MaxWithdrawable
	}
	if err := validateParams(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

func validateParams(p *PayParams) error {
	switch p.Tag {
	case TagPayRequest, TagWithdrawRequest:
	default:
		return fmt.Errorf("unsupported lnurl tag %q", p.Tag)
	}
	if p.Callback == "" {
		return fmt.Errorf("missing callback url")
	}
	// A withdraw service may legitimately offer a zero lower bound.
	minAllowed := int64(1)
	if p.Tag == TagWithdrawRequest {
		minAllowed = 0
	}
	if p.MinSendable < minAllowed || p.MaxSendable < p.MinSendable || p.MaxSendable < 1 {
		return fmt.Errorf("invalid sendable bounds [%d, %d]", p.MinSendable, p.MaxSendable)
	}
	return nil
}
