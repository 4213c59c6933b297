package destination

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/haljin/sendcore/internal/bolt11"
	"github.com/haljin/sendcore/internal/chain"
	"github.com/haljin/sendcore/internal/lnurl"
	"github.com/haljin/sendcore/internal/money"
)

// Config wires a Resolver to its network context and collaborators.
type Config struct {
	Network chain.Network

	// MyWalletIDs are the caller's own wallets, used to refuse
	// self-payment.
	MyWalletIDs []string

	// LnurlDomains are domains whose user@domain handles resolve over
	// LNURL rather than intraledger.
	LnurlDomains []string

	// IntraledgerDomains are the operator's own domains; user@domain
	// handles on them are treated as bare usernames.
	IntraledgerDomains []string

	// SendCurrency is the wallet currency a username lookup resolves
	// default wallets for. Empty means BTC.
	SendCurrency money.WalletCurrency

	Accounts AccountLookup
	Lnurl    LnurlFetcher

	// CacheSize bounds the memoization cache. Zero picks a default.
	CacheSize int
}

const defaultCacheSize = 128

var (
	invoiceRe  = regexp.MustCompile(`^ln(bcrt|tbs|tb|bc)[a-z0-9]+$`)
	usernameRe = regexp.MustCompile(`^[a-z0-9_]{3,50}$`)
)

// Resolver classifies raw input into destinations. It is a pure function
// of its inputs plus the injected collaborators and is safe for
// concurrent use: repeated resolutions of the same input are collapsed
// through singleflight and memoized in an LRU cache.
type Resolver struct {
	cfg          Config
	myWallets    map[string]struct{}
	lnurlDomains map[string]struct{}
	intraDomains map[string]struct{}
	routes       []route
	cache        *lru.Cache[string, Destination]
	group        singleflight.Group
	log          *zap.Logger
	now          func() time.Time
}

// route is one (predicate, parser) pair. Routes are evaluated in order
// and the first matching predicate settles classification; its parser
// alone decides validity.
type route struct {
	name  string
	match func(payload string) bool
	parse func(ctx context.Context, payload string) Destination
}

// NewResolver builds a resolver for the configured network.
func NewResolver(cfg Config, log *zap.Logger) (*Resolver, error) {
	if log == nil {
		log = zap.NewNop()
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	if cfg.SendCurrency == "" {
		cfg.SendCurrency = money.WalletCurrencyBTC
	}
	cache, err := lru.New[string, Destination](size)
	if err != nil {
		return nil, fmt.Errorf("resolution cache: %w", err)
	}

	r := &Resolver{
		cfg:          cfg,
		myWallets:    toSet(cfg.MyWalletIDs, false),
		lnurlDomains: toSet(cfg.LnurlDomains, true),
		intraDomains: toSet(cfg.IntraledgerDomains, true),
		cache:        cache,
		log:          log,
		now:          time.Now,
	}
	r.routes = []route{
		{name: "bolt11", match: r.matchInvoice, parse: r.parseInvoice},
		{name: "onchain", match: r.matchOnchain, parse: r.parseOnchain},
		{name: "lnurl", match: r.matchLnurl, parse: r.parseLnurl},
		{name: "intraledger", match: r.matchIntraledger, parse: r.parseIntraledger},
	}
	return r, nil
}

// Parse resolves raw user input. It never returns an error: every failure
// path terminates in an Invalid value carrying its reason. Empty input
// fails fast without touching any collaborator.
func (r *Resolver) Parse(ctx context.Context, raw string) Destination {
	payload, lightningParam, amountSat := normalize(raw)
	if payload == "" && lightningParam == "" {
		return invalid(ReasonUnparseable, "empty input")
	}

	key := strings.TrimSpace(raw)
	if cached, ok := r.cache.Get(key); ok {
		// A memoized invoice can lapse while cached; expired entries
		// are evicted and the input re-resolved.
		if ln, isInvoice := cached.(LightningInvoice); !isInvoice || !ln.Invoice.IsExpired(r.now()) {
			return cached
		}
		r.cache.Remove(key)
	}

	result, _, _ := r.group.Do(key, func() (any, error) {
		dest := r.resolve(ctx, payload, lightningParam, amountSat)
		// Transient lookup failures are not memoized so a retry can
		// reach the network again.
		if inv, ok := dest.(Invalid); !ok || inv.Reason != ReasonLookupFailed {
			r.cache.Add(key, dest)
		}
		return dest, nil
	})
	return result.(Destination)
}

// resolve runs the route table. A BIP21 lightning parameter, when present
// and usable on this network, wins over the accompanying address.
func (r *Resolver) resolve(ctx context.Context, payload, lightningParam string, amountSat *int64) Destination {
	if lightningParam != "" && r.matchInvoice(lightningParam) {
		if dest := r.parseInvoice(ctx, lightningParam); !isInvalid(dest) {
			return dest
		}
	}
	for _, rt := range r.routes {
		if rt.match(payload) {
			dest := rt.parse(ctx, payload)
			if onchain, ok := dest.(OnchainAddress); ok && amountSat != nil {
				onchain.AmountSat = amountSat
				dest = onchain
			}
			r.log.Debug("destination classified",
				zap.String("route", rt.name),
				zap.String("type", string(dest.PaymentType())))
			return dest
		}
	}
	return invalid(ReasonUnparseable, "input matches no known destination format")
}

// normalize trims the input and strips the bitcoin:/lightning: URI
// schemes. For a BIP21 URI the embedded lightning parameter and requested
// amount are surfaced separately.
func normalize(raw string) (payload, lightningParam string, amountSat *int64) {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)

	switch {
	case strings.HasPrefix(lower, "lightning:"):
		return strings.TrimSpace(s[len("lightning:"):]), "", nil
	case strings.HasPrefix(lower, "bitcoin:"):
		body := s[len("bitcoin:"):]
		body = strings.TrimPrefix(body, "//")
		address, query, _ := strings.Cut(body, "?")
		for _, pair := range strings.Split(query, "&") {
			k, v, _ := strings.Cut(pair, "=")
			switch {
			case strings.EqualFold(k, "lightning"):
				lightningParam = v
			case strings.EqualFold(k, "amount"):
				if sats, err := btcDecimalToSat(v); err == nil {
					amountSat = &sats
				}
			}
		}
		return strings.TrimSpace(address), lightningParam, amountSat
	}
	return s, "", nil
}

// btcDecimalToSat converts a BIP21 decimal bitcoin amount into satoshis
// using string arithmetic so no floating point touches the value. Digits
// beyond eight decimal places are truncated.
func btcDecimalToSat(s string) (int64, error) {
	s = strings.TrimSpace(s)
	// Only an unsigned decimal is a BIP21 amount; a sign or exponent
	// must not slip through ParseInt with its sign applied partially.
	for i := 0; i < len(s); i++ {
		if c := s[i]; (c < '0' || c > '9') && c != '.' {
			return 0, fmt.Errorf("amount %q: invalid character %q", s, string(c))
		}
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 8 {
		frac = frac[:8]
	}
	frac += strings.Repeat("0", 8-len(frac))

	wholeSat, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}
	fracSat, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}
	return wholeSat*100_000_000 + fracSat, nil
}

// --- bolt11 route ---

func (r *Resolver) matchInvoice(payload string) bool {
	return invoiceRe.MatchString(strings.ToLower(payload))
}

func (r *Resolver) parseInvoice(_ context.Context, payload string) Destination {
	inv, err := bolt11.Decode(payload)
	if err != nil {
		return invalid(ReasonUnparseable, fmt.Sprintf("invoice: %v", err))
	}
	if inv.Network != r.cfg.Network {
		return invalid(ReasonWrongNetwork,
			fmt.Sprintf("invoice is for %s, wallet is on %s", inv.Network, r.cfg.Network))
	}
	if inv.IsExpired(r.now()) {
		return invalid(ReasonUnparseable, "invoice expired")
	}
	return LightningInvoice{Raw: payload, Invoice: inv}
}

// --- onchain route ---

func (r *Resolver) matchOnchain(payload string) bool {
	for _, network := range chain.All {
		if _, err := btcutil.DecodeAddress(payload, network.Params()); err == nil {
			return true
		}
	}
	return false
}

func (r *Resolver) parseOnchain(_ context.Context, payload string) Destination {
	if _, err := btcutil.DecodeAddress(payload, r.cfg.Network.Params()); err == nil {
		return OnchainAddress{Address: payload, Network: r.cfg.Network}
	}
	return invalid(ReasonWrongNetwork,
		fmt.Sprintf("address is not valid on %s", r.cfg.Network))
}

// --- lnurl route ---

func (r *Resolver) matchLnurl(payload string) bool {
	if lnurl.IsBech32(payload) {
		return true
	}
	if !lnurl.IsLightningAddress(payload) {
		return false
	}
	_, domain, err := lnurl.SplitLightningAddress(payload)
	if err != nil {
		return false
	}
	if _, own := r.intraDomains[domain]; own {
		return false // handled by the intraledger route
	}
	_, ok := r.lnurlDomains[domain]
	return ok
}

func (r *Resolver) parseLnurl(ctx context.Context, payload string) Destination {
	var endpoint string
	if lnurl.IsBech32(payload) {
		decoded, err := lnurl.DecodeBech32(payload)
		if err != nil {
			return invalid(ReasonUnparseable, fmt.Sprintf("lnurl: %v", err))
		}
		endpoint = decoded
	} else {
		user, domain, err := lnurl.SplitLightningAddress(payload)
		if err != nil {
			return invalid(ReasonUnparseable, fmt.Sprintf("lightning address: %v", err))
		}
		endpoint = lnurl.AddressToURL(user, domain)
	}

	params, err := r.cfg.Lnurl.Fetch(ctx, endpoint)
	if err != nil {
		r.log.Debug("lnurl fetch failed", zap.String("url", endpoint), zap.Error(err))
		return invalid(ReasonLookupFailed, fmt.Sprintf("lnurl fetch: %v", err))
	}
	return LnurlPayable{Raw: payload, URL: endpoint, Params: params}
}

// --- intraledger route ---

func (r *Resolver) matchIntraledger(payload string) bool {
	handle := strings.ToLower(payload)
	if user, domain, err := lnurl.SplitLightningAddress(handle); err == nil {
		if _, own := r.intraDomains[domain]; !own {
			return false
		}
		handle = user
	}
	return usernameRe.MatchString(handle)
}

func (r *Resolver) parseIntraledger(ctx context.Context, payload string) Destination {
	// Usernames are matched case-insensitively.
	handle := strings.ToLower(payload)
	if user, _, err := lnurl.SplitLightningAddress(handle); err == nil {
		handle = user
	}

	wallet, err := r.cfg.Accounts.DefaultWallet(ctx, handle, r.cfg.SendCurrency)
	switch {
	case err == nil:
	case isNotFound(err):
		return invalid(ReasonUnparseable, fmt.Sprintf("no account named %q", handle))
	default:
		r.log.Debug("username lookup failed", zap.String("username", handle), zap.Error(err))
		return invalid(ReasonLookupFailed, fmt.Sprintf("username lookup: %v", err))
	}

	if _, mine := r.myWallets[wallet.ID]; mine {
		return invalid(ReasonSelfPayment, "destination is the caller's own wallet")
	}
	return IntraledgerRecipient{
		Handle:         handle,
		WalletID:       wallet.ID,
		WalletCurrency: wallet.Currency,
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrWalletNotFound)
}

func isInvalid(d Destination) bool {
	_, ok := d.(Invalid)
	return ok
}

func toSet(values []string, fold bool) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if fold {
			v = strings.ToLower(v)
		}
		out[v] = struct{}{}
	}
	return out
}
