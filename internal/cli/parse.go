package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haljin/sendcore/internal/config"
	"github.com/haljin/sendcore/internal/contacts"
	"github.com/haljin/sendcore/internal/destination"
	"github.com/haljin/sendcore/internal/lnurl"
	"github.com/haljin/sendcore/internal/logging"
	"github.com/haljin/sendcore/internal/rates"
	"github.com/haljin/sendcore/internal/server/api/jsonrpc"
)

// parseCmd resolves one destination and prints it, using the same
// handler the daemon serves.
var parseCmd = &cobra.Command{
	Use:   "parse <destination>",
	Short: "Resolve a payment destination",
	Long: `Resolve raw payment input (a BOLT11 invoice, on-chain address,
bitcoin: URI, LNURL string, lightning address or username) into a typed
destination and print it as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}

	level := "warn"
	if debug {
		level = "debug"
	}
	log, err := logging.New(level)
	if err != nil {
		return err
	}
	defer log.Sync()

	network, err := cfg.BitcoinNetwork()
	if err != nil {
		return err
	}

	store, err := contacts.Open(cfg.ContactsDB)
	if err != nil {
		return fmt.Errorf("open contacts store: %w", err)
	}
	defer store.Close()

	resolver, err := destination.NewResolver(destination.Config{
		Network:            network,
		MyWalletIDs:        cfg.MyWalletIDs,
		LnurlDomains:       cfg.LnurlDomains,
		IntraledgerDomains: cfg.IntraledgerDomains,
		Accounts:           store,
		Lnurl:              lnurl.NewHTTPFetcher(),
	}, log)
	if err != nil {
		return fmt.Errorf("build resolver: %w", err)
	}

	handler := jsonrpc.NewHandler(network, cfg.LnurlDomains, resolver, rates.NewTable(cfg.DisplayCurrencies), log)

	params, err := json.Marshal(map[string]string{"input": args[0]})
	if err != nil {
		return err
	}
	result, err := handler.Handle(cmd.Context(), "destination_parse", params)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
