package main

import (
	"github.com/spf13/cobra"
)

var seedReset bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the seed users and products",
	Long: `Write the seed users and products into the configured store.

Records that already exist are left untouched. With --reset every storefront
record in the namespace is deleted first, so the store starts over from the seed.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "Delete all storefront records before seeding")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if seedReset {
		if err := a.store.Reset(ctx); err != nil {
			return err
		}
	}
	return seedStore(ctx, a.store, &a.cfg.Store, a.log)
}
