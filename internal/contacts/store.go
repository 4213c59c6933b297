// Package contacts persists the user's known recipients. The send flow
// consults it to decide whether an intraledger recipient still needs an
// explicit confirmation.
package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/haljin/sendcore/internal/destination"
	"github.com/haljin/sendcore/internal/money"
)

// ErrStoreClosed is returned after Close.
var ErrStoreClosed = errors.New("contacts store is closed")

// Contact is one known recipient. Handle is the canonical lowercase
// username; Alias is the user's optional display name for them. WalletID
// and Currency are remembered from the last successful resolution so the
// store can double as a local account lookup.
type Contact struct {
	Handle    string
	Alias     string
	WalletID  string
	Currency  money.WalletCurrency
	LastSeen  time.Time
	CreatedAt time.Time
}

// Store is a SQLite-backed contacts repository.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	handle     TEXT PRIMARY KEY,
	alias      TEXT NOT NULL DEFAULT '',
	wallet_id  TEXT NOT NULL DEFAULT '',
	currency   TEXT NOT NULL DEFAULT 'BTC',
	last_seen  INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
`

// Open opens (and if needed creates) the store at path. ":memory:" gives
// an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open contacts db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply contacts schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Upsert records a contact, refreshing last_seen when the handle already
// exists. Handles are stored lowercase.
func (s *Store) Upsert(ctx context.Context, c Contact) error {
	if s.db == nil {
		return ErrStoreClosed
	}
	handle := strings.ToLower(strings.TrimSpace(c.Handle))
	if handle == "" {
		return fmt.Errorf("contact handle cannot be empty")
	}
	currency := c.Currency
	if currency == "" {
		currency = money.WalletCurrencyBTC
	}
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contacts (handle, alias, wallet_id, currency, last_seen, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(handle) DO UPDATE SET
			alias = excluded.alias,
			wallet_id = excluded.wallet_id,
			currency = excluded.currency,
			last_seen = excluded.last_seen`,
		handle, c.Alias, c.WalletID, string(currency), now, now)
	if err != nil {
		return fmt.Errorf("upsert contact %q: %w", handle, err)
	}
	return nil
}

// IsKnown reports whether a handle is already among the contacts.
// Matching is case-insensitive.
func (s *Store) IsKnown(ctx context.Context, handle string) (bool, error) {
	if s.db == nil {
		return false, ErrStoreClosed
	}
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM contacts WHERE handle = ?`,
		strings.ToLower(strings.TrimSpace(handle))).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("look up contact %q: %w", handle, err)
	}
	return true, nil
}

// DefaultWallet implements destination.AccountLookup over the locally
// remembered recipients, so previously resolved handles keep resolving
// when no backend is reachable.
func (s *Store) DefaultWallet(ctx context.Context, username string, _ money.WalletCurrency) (*destination.Wallet, error) {
	if s.db == nil {
		return nil, ErrStoreClosed
	}
	var walletID, currency string
	err := s.db.QueryRowContext(ctx,
		`SELECT wallet_id, currency FROM contacts WHERE handle = ? AND wallet_id != ''`,
		strings.ToLower(strings.TrimSpace(username))).Scan(&walletID, &currency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, destination.ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("look up wallet for %q: %w", username, err)
	}
	return &destination.Wallet{ID: walletID, Currency: money.WalletCurrency(currency)}, nil
}

// List returns all contacts, most recently seen first.
func (s *Store) List(ctx context.Context) ([]Contact, error) {
	if s.db == nil {
		return nil, ErrStoreClosed
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT handle, alias, wallet_id, currency, last_seen, created_at
		FROM contacts
		ORDER BY last_seen DESC, handle ASC`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []Contact
	for rows.Next() {
		var c Contact
		var currency string
		var lastSeen, createdAt int64
		if err := rows.Scan(&c.Handle, &c.Alias, &c.WalletID, &currency, &lastSeen, &createdAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c.Currency = money.WalletCurrency(currency)
		c.LastSeen = time.Unix(lastSeen, 0)
		c.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return out, nil
}
