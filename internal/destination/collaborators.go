package destination

import (
	"context"
	"errors"

	"github.com/haljin/sendcore/internal/lnurl"
	"github.com/haljin/sendcore/internal/money"
)

//go:generate mockgen -source=collaborators.go -destination=collaborators_mock.go -package=destination

// ErrWalletNotFound is returned by AccountLookup when no account owns the
// requested username.
var ErrWalletNotFound = errors.New("wallet not found")

// Wallet is the result of a username lookup.
type Wallet struct {
	ID       string
	Currency money.WalletCurrency
}

// AccountLookup resolves a username to that user's default wallet for the
// currency being sent. Implementations own their timeout and must return
// an error rather than hang.
type AccountLookup interface {
	DefaultWallet(ctx context.Context, username string, currency money.WalletCurrency) (*Wallet, error)
}

// LnurlFetcher retrieves LNURL pay parameters. Satisfied by
// *lnurl.HTTPFetcher.
type LnurlFetcher interface {
	Fetch(ctx context.Context, url string) (*lnurl.PayParams, error)
}
