package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haljin/sendcore/internal/chain"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	network, err := cfg.BitcoinNetwork()
	require.NoError(t, err)
	assert.Equal(t, chain.Mainnet, network)
	assert.Equal(t, "127.0.0.1:5279", cfg.Server.Listen)
	assert.Contains(t, cfg.LnurlDomains, "blink.sv")
}

func TestLoadConfigFromFile(t *testing.T) {
	tempDir := t.TempDir()
	content := `
network = "signet"
lnurl_domains = ["blink.sv"]
intraledger_domains = ["pay.example.com"]
contacts_db = "/tmp/test/contacts.db"

[server]
listen = "127.0.0.1:9000"

[log]
level = "debug"

[[display_currencies]]
code = "EUR"
fraction_digits = 2
msat_per_unit = 18000
`
	path := filepath.Join(tempDir, "sendcore.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	network, err := cfg.BitcoinNetwork()
	require.NoError(t, err)
	assert.Equal(t, chain.Signet, network)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
	assert.Equal(t, []string{"pay.example.com"}, cfg.IntraledgerDomains)
	require.Len(t, cfg.DisplayCurrencies, 1)
	assert.Equal(t, "EUR", cfg.DisplayCurrencies[0].Code)
	assert.Equal(t, int64(18000), cfg.DisplayCurrencies[0].MsatPerUnit)
}

func TestLoadConfigRejectsBadNetwork(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "sendcore.toml")
	require.NoError(t, os.WriteFile(path, []byte(`network = "litecoin"`), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/sendcore.toml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Network:    "mainnet",
			ContactsDB: "x.db",
			Server:     ServerConfig{Listen: "127.0.0.1:1"},
		}
	}

	require.NoError(t, Validate(base()))

	c := base()
	c.Server.Listen = ""
	require.Error(t, Validate(c))

	c = base()
	c.DisplayCurrencies = []DisplayCurrencyConfig{
		{Code: "EUR", FractionDigits: 2, MsatPerUnit: 18000},
		{Code: "EUR", FractionDigits: 2, MsatPerUnit: 18000},
	}
	require.Error(t, Validate(c), "duplicate display currency")

	c = base()
	c.DisplayCurrencies = []DisplayCurrencyConfig{{Code: "JPY", FractionDigits: 0, MsatPerUnit: 0}}
	require.Error(t, Validate(c), "non-positive rate")
}
