package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/haljin/sendcore/internal/chain"
	"github.com/haljin/sendcore/internal/destination"
	"github.com/haljin/sendcore/internal/money"
	"github.com/haljin/sendcore/internal/rates"
)

// Version is stamped by the build; the default marks a source build.
var Version = "0.1.0-dev"

// Handler dispatches sendcore JSON-RPC methods.
type Handler struct {
	methods map[string]func(ctx context.Context, params json.RawMessage) (any, error)

	network      chain.Network
	lnurlDomains []string
	resolver     *destination.Resolver
	rates        *rates.Table
	log          *zap.Logger
}

// NewHandler wires the RPC surface to the resolver and rate table.
func NewHandler(network chain.Network, lnurlDomains []string, resolver *destination.Resolver, table *rates.Table, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{
		network:      network,
		lnurlDomains: lnurlDomains,
		resolver:     resolver,
		rates:        table,
		log:          log,
	}
	h.methods = map[string]func(ctx context.Context, params json.RawMessage) (any, error){
		"destination_parse": h.handleDestinationParse,
		"amount_convert":    h.handleAmountConvert,
		"server_info":       h.handleServerInfo,
	}
	return h
}

// Handle dispatches a method to its handler.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	fn, exists := h.methods[method]
	if !exists {
		return nil, fmt.Errorf("method %s not found", method)
	}
	return fn(ctx, params)
}

type destinationParseParams struct {
	Input string `json:"input"`
}

// destinationResult is the wire shape of a resolved destination.
type destinationResult struct {
	Valid       bool   `json:"valid"`
	PaymentType string `json:"payment_type,omitempty"`
	Direction   string `json:"direction"`

	Reason string `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`

	Address   string `json:"address,omitempty"`
	AmountSat *int64 `json:"amount_sat,omitempty"`

	Invoice *invoiceResult `json:"invoice,omitempty"`
	Lnurl   *lnurlResult   `json:"lnurl,omitempty"`

	Handle         string `json:"handle,omitempty"`
	WalletID       string `json:"wallet_id,omitempty"`
	WalletCurrency string `json:"wallet_currency,omitempty"`
}

type invoiceResult struct {
	MilliSat      *uint64 `json:"millisat,omitempty"`
	PaymentHash   string  `json:"payment_hash"`
	Description   string  `json:"description,omitempty"`
	ExpirySeconds uint64  `json:"expiry_seconds"`
	Destination   string  `json:"destination,omitempty"`
}

type lnurlResult struct {
	URL            string `json:"url"`
	MinSendableSat int64  `json:"min_sendable_sat"`
	MaxSendableSat int64  `json:"max_sendable_sat"`
	FixedAmount    bool   `json:"fixed_amount"`
	CommentAllowed int    `json:"comment_allowed,omitempty"`
}

func (h *Handler) handleDestinationParse(ctx context.Context, raw json.RawMessage) (any, error) {
	var params destinationParseParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	dest := h.resolver.Parse(ctx, params.Input)
	out := destinationResult{
		Valid:       true,
		PaymentType: string(dest.PaymentType()),
		Direction:   string(dest.Direction()),
	}

	switch d := dest.(type) {
	case destination.Invalid:
		out.Valid = false
		out.Reason = string(d.Reason)
		out.Detail = d.Detail

	case destination.OnchainAddress:
		out.Address = d.Address
		out.AmountSat = d.AmountSat

	case destination.LightningInvoice:
		inv := &invoiceResult{
			MilliSat:      d.Invoice.MilliSat,
			PaymentHash:   fmt.Sprintf("%x", d.Invoice.PaymentHash[:]),
			Description:   d.Invoice.Description,
			ExpirySeconds: uint64(d.Invoice.Expiry().Seconds()),
		}
		if d.Invoice.Destination != nil {
			inv.Destination = fmt.Sprintf("%x", d.Invoice.Destination.SerializeCompressed())
		}
		out.Invoice = inv

	case destination.LnurlPayable:
		out.Lnurl = &lnurlResult{
			URL:            d.URL,
			MinSendableSat: d.Params.MinSendableSat(),
			MaxSendableSat: d.Params.MaxSendableSat(),
			FixedAmount:    d.Params.FixedAmount(),
			CommentAllowed: d.Params.CommentAllowed,
		}

	case destination.IntraledgerRecipient:
		out.Handle = d.Handle
		out.WalletID = d.WalletID
		out.WalletCurrency = string(d.WalletCurrency)
	}
	return out, nil
}

type amountConvertParams struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Target   string `json:"target"`
}

type amountConvertResult struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Display  string `json:"display"`
}

func (h *Handler) handleAmountConvert(_ context.Context, raw json.RawMessage) (any, error) {
	var params amountConvertParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	from, ok := h.rates.Currency(params.Currency)
	if !ok {
		return nil, fmt.Errorf("unknown currency %s", params.Currency)
	}
	target, ok := h.rates.Currency(params.Target)
	if !ok {
		return nil, fmt.Errorf("unknown currency %s", params.Target)
	}

	converted, err := h.rates.Convert(money.New(params.Amount, from), target)
	if err != nil {
		return nil, err
	}
	return amountConvertResult{
		Amount:   converted.Amount,
		Currency: converted.Currency.Code,
		Display:  converted.String(),
	}, nil
}

type serverInfoResult struct {
	Network      string   `json:"network"`
	LnurlDomains []string `json:"lnurl_domains"`
	Version      string   `json:"version"`
}

func (h *Handler) handleServerInfo(context.Context, json.RawMessage) (any, error) {
	return serverInfoResult{
		Network:      h.network.String(),
		LnurlDomains: h.lnurlDomains,
		Version:      Version,
	}, nil
}
