package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration in priority order:
// 1. Built-in defaults
// 2. Configuration file (sendcore.toml), when a path is given
// 3. Environment variables (SENDCORE_ prefix)
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("SENDCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("network", "mainnet")
	v.SetDefault("lnurl_domains", []string{"blink.sv", "walletofsatoshi.com", "strike.me"})
	v.SetDefault("intraledger_domains", []string{})
	v.SetDefault("contacts_db", "sendcore.db")
	v.SetDefault("my_wallet_ids", []string{})
	v.SetDefault("server.listen", "127.0.0.1:5279")
	v.SetDefault("log.level", "info")
}
