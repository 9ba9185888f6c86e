package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/TsigelnikovNikita/mySwap/internal/cpmm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "myswap",
		Short:        "Constant-product ETH/token exchange",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().String("config", "", "config file path")
	addServeFlags(root.Flags())

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE:  runServe,
	}
	addServeFlags(serveCmd.Flags())
	root.AddCommand(serveCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap against the given reserves",
		RunE:  runQuote,
	}
	quoteCmd.Flags().String("base-reserve", "", "base reserve in ether units")
	quoteCmd.Flags().String("token-reserve", "", "token reserve in ether units")
	quoteCmd.Flags().String("amount", "", "input amount in ether units")
	quoteCmd.Flags().String("side", "base", "asset paid in (base, token)")
	quoteCmd.Flags().Uint64("fee-numerator", cpmm.DefaultFee.Numerator, "swap fee numerator")
	quoteCmd.Flags().Uint64("fee-denominator", cpmm.DefaultFee.Denominator, "swap fee denominator")
	root.AddCommand(quoteCmd)

	return root
}

func addServeFlags(fs *pflag.FlagSet) {
	fs.String("port", "8080", "HTTP listen port")
	fs.String("database-url", "", "PostgreSQL URL; in-memory store when empty")
	fs.String("redis-url", "", "Redis URL for the read-through cache")
	fs.Duration("cache-ttl", 30*time.Second, "cache entry lifetime")
	fs.Uint64("fee-numerator", cpmm.DefaultFee.Numerator, "default swap fee numerator for new pools")
	fs.Uint64("fee-denominator", cpmm.DefaultFee.Denominator, "default swap fee denominator for new pools")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "json", "log format (json, text)")
}
