// Package destination turns arbitrary user-supplied text into a validated
// payment destination. Classification runs through an ordered route table
// so the precedence between invoices, on-chain addresses, LNURL payloads
// and intraledger handles is explicit and testable.
package destination

import (
	"github.com/haljin/sendcore/internal/bolt11"
	"github.com/haljin/sendcore/internal/chain"
	"github.com/haljin/sendcore/internal/lnurl"
	"github.com/haljin/sendcore/internal/money"
)

// PaymentType tags which rail a destination settles over.
type PaymentType string

const (
	PaymentTypeOnchain     PaymentType = "onchain"
	PaymentTypeLightning   PaymentType = "lightning"
	PaymentTypeLnurl       PaymentType = "lnurl"
	PaymentTypeIntraledger PaymentType = "intraledger"
)

// Direction says whether acting on the destination sends or receives
// funds. LNURL-withdraw flips it to receive.
type Direction string

const (
	DirectionSend    Direction = "send"
	DirectionReceive Direction = "receive"
)

// InvalidReason classifies why input could not become a destination.
type InvalidReason string

const (
	ReasonUnparseable  InvalidReason = "unparseable"
	ReasonWrongNetwork InvalidReason = "wrong_network"
	ReasonSelfPayment  InvalidReason = "self_payment"
	ReasonLookupFailed InvalidReason = "lookup_failed"
)

// Destination is one variant of the resolution result. Values are
// immutable once constructed; re-parsing produces a new value.
type Destination interface {
	PaymentType() PaymentType
	Direction() Direction
}

// OnchainAddress is a network-validated bitcoin address, possibly carrying
// a BIP21 requested amount.
type OnchainAddress struct {
	Address   string
	Network   chain.Network
	AmountSat *int64
}

func (OnchainAddress) PaymentType() PaymentType { return PaymentTypeOnchain }
func (OnchainAddress) Direction() Direction     { return DirectionSend }

// LightningInvoice is a decoded BOLT11 payment request.
type LightningInvoice struct {
	Raw     string
	Invoice *bolt11.Invoice
}

func (LightningInvoice) PaymentType() PaymentType { return PaymentTypeLightning }
func (LightningInvoice) Direction() Direction     { return DirectionSend }

// LnurlPayable carries resolved LNURL parameters.
type LnurlPayable struct {
	Raw    string
	URL    string
	Params *lnurl.PayParams
}

func (LnurlPayable) PaymentType() PaymentType { return PaymentTypeLnurl }

func (d LnurlPayable) Direction() Direction {
	if d.Params != nil && d.Params.Tag == lnurl.TagWithdrawRequest {
		return DirectionReceive
	}
	return DirectionSend
}

// IntraledgerRecipient is a recognized internal handle with its resolved
// default wallet.
type IntraledgerRecipient struct {
	Handle         string
	WalletID       string
	WalletCurrency money.WalletCurrency
}

func (IntraledgerRecipient) PaymentType() PaymentType { return PaymentTypeIntraledger }
func (IntraledgerRecipient) Direction() Direction     { return DirectionSend }

// Invalid is the terminal variant for input that resolves to nothing
// actionable. Detail is a short operator-facing note, not a user message.
type Invalid struct {
	Reason InvalidReason
	Detail string
}

func (Invalid) PaymentType() PaymentType { return "" }
func (Invalid) Direction() Direction     { return DirectionSend }

func invalid(reason InvalidReason, detail string) Invalid {
	return Invalid{Reason: reason, Detail: detail}
}
