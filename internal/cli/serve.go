package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/haljin/sendcore/internal/config"
	"github.com/haljin/sendcore/internal/contacts"
	"github.com/haljin/sendcore/internal/destination"
	"github.com/haljin/sendcore/internal/lnurl"
	"github.com/haljin/sendcore/internal/logging"
	"github.com/haljin/sendcore/internal/rates"
	"github.com/haljin/sendcore/internal/server/api/jsonrpc"
)

// serveCmd represents the serve command (default action)
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sendcore daemon",
	Long: `Start the sendcore daemon, which serves destination resolution and
amount conversion over HTTP JSON-RPC until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Serving is the default action of the bare binary.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	}

	serveCmd.Flags().String("listen", "", "listen address, overriding the configured one")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.Server.Listen = listen
	}

	level := cfg.Log.Level
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
	server := jsonrpc.NewServer(handler, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting sendcored",
		zap.String("network", network.String()),
		zap.String("listen", cfg.Server.Listen))
	return server.ListenAndServe(ctx, cfg.Server.Listen)
}
