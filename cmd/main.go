package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd runs the server when no subcommand is given
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront catalog, cart and checkout service",
	Long: `Storefront keeps a product catalog, a shopping cart, a session and a user
directory as JSON records in a key-value store and serves them over HTTP.

Configuration is read from .env and the environment (see STORE_BACKEND,
STORE_NAMESPACE, DB_*, REDIS_*, JWT_*).`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
