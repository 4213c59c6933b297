// Package config loads the daemon configuration from defaults, a TOML
// file and SENDCORE_-prefixed environment variables, in that priority
// order.
package config

import (
	"fmt"

	"github.com/haljin/sendcore/internal/chain"
)

// Config is the full daemon configuration.
type Config struct {
	// Network selects which bitcoin network instruments are validated
	// against: mainnet, testnet, signet or regtest.
	Network string `mapstructure:"network"`

	// LnurlDomains is the allowlist of lightning-address domains
	// resolved over LNURL.
	LnurlDomains []string `mapstructure:"lnurl_domains"`

	// IntraledgerDomains are the operator's own domains; handles on
	// them resolve to internal accounts.
	IntraledgerDomains []string `mapstructure:"intraledger_domains"`

	// ContactsDB is the SQLite path for the contacts store.
	ContactsDB string `mapstructure:"contacts_db"`

	// MyWalletIDs are the operator's own wallet IDs; sending to one of
	// them is refused as a self-payment.
	MyWalletIDs []string `mapstructure:"my_wallet_ids"`

	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`

	// DisplayCurrencies configure the fiat currencies offered during
	// amount entry, with a static conversion rate each.
	DisplayCurrencies []DisplayCurrencyConfig `mapstructure:"display_currencies"`
}

// ServerConfig configures the JSON-RPC surface.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DisplayCurrencyConfig is one fiat display currency. MsatPerUnit is the
// number of millisatoshis per smallest unit of the currency (e.g. per US
// cent), keeping conversion in integer arithmetic end to end.
type DisplayCurrencyConfig struct {
	Code           string `mapstructure:"code"`
	FractionDigits int    `mapstructure:"fraction_digits"`
	MsatPerUnit    int64  `mapstructure:"msat_per_unit"`
}

// BitcoinNetwork returns the parsed network.
func (c *Config) BitcoinNetwork() (chain.Network, error) {
	return chain.ParseNetwork(c.Network)
}

// Validate checks the configuration for inconsistencies.
func Validate(c *Config) error {
	if _, err := c.BitcoinNetwork(); err != nil {
		return err
	}
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen cannot be empty")
	}
	if c.ContactsDB == "" {
		return fmt.Errorf("contacts_db cannot be empty")
	}
	seen := map[string]struct{}{}
	for _, dc := range c.DisplayCurrencies {
		if dc.Code == "" {
			return fmt.Errorf("display currency with empty code")
		}
		if _, dup := seen[dc.Code]; dup {
			return fmt.Errorf("display currency %s configured twice", dc.Code)
		}
		seen[dc.Code] = struct{}{}
		if dc.FractionDigits < 0 || dc.FractionDigits > 8 {
			return fmt.Errorf("display currency %s: fraction_digits %d out of range", dc.Code, dc.FractionDigits)
		}
		if dc.MsatPerUnit <= 0 {
			return fmt.Errorf("display currency %s: msat_per_unit must be positive", dc.Code)
		}
	}
	return nil
}
