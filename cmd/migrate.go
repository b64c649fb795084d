package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"staking/domain/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Creates the account store schema",
	Long: `Creates the accounts table and its indexes on the postgres store. The bolt
store creates its buckets when it is opened.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		defaultDependencyInject()
		defer closeDependencies()

		if config.GetStore() == config.StorePostgres {
			if err := accountRepository.Migrate(cmd.Context()); err != nil {
				return err
			}
		}
		fmt.Printf("✅ %v store is ready\n", config.GetStore())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
