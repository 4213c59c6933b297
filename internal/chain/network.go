package chain

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network identifies which bitcoin network the wallet is configured against.
// All address and invoice validation is scoped to exactly one network.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Signet  Network = "signet"
	Regtest Network = "regtest"
)

// All lists every supported network, in the order used for cross-network
// probing (e.g. detecting a well-formed address for the wrong network).
var All = []Network{Mainnet, Testnet, Signet, Regtest}

// ParseNetwork converts a configuration string into a Network.
func ParseNetwork(s string) (Network, error) {
	switch Network(s) {
	case Mainnet, Testnet, Signet, Regtest:
		return Network(s), nil
	}
	return "", fmt.Errorf("unknown bitcoin network %q", s)
}

// Params returns the chaincfg parameters used for address validation on
// this network.
func (n Network) Params() *chaincfg.Params {
	switch n {
	case Mainnet:
		return &chaincfg.MainNetParams
	case Testnet:
		return &chaincfg.TestNet3Params
	case Signet:
		return &chaincfg.SigNetParams
	case Regtest:
		return &chaincfg.RegressionNetParams
	default:
		return &chaincfg.MainNetParams
	}
}

// InvoiceHRP returns the BOLT11 human-readable-part currency prefix for
// this network ("ln" excluded).
func (n Network) InvoiceHRP() string {
	switch n {
	case Mainnet:
		return "bc"
	case Testnet:
		return "tb"
	case Signet:
		return "tbs"
	case Regtest:
		return "bcrt"
	default:
		return "bc"
	}
}

// NetworkForInvoiceHRP maps a BOLT11 currency prefix back to its network.
func NetworkForInvoiceHRP(hrp string) (Network, bool) {
	switch hrp {
	case "bc":
		return Mainnet, true
	case "tb":
		return Testnet, true
	case "tbs":
		return Signet, true
	case "bcrt":
		return Regtest, true
	}
	return "", false
}

func (n Network) String() string { return string(n) }
