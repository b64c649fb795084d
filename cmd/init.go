package cmd

import (
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <staking-mint>",
	Short: "Initializes the staking program config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mint, err := parseKey("staking mint", args[0])
		if err != nil {
			return err
		}
		unbondingTime, _ := cmd.Flags().GetUint64("unbonding-time")

		defaultDependencyInject()
		defer closeDependencies()

		receipt, err := stakingInteractor.Initialize(cmd.Context(), unbondingTime, mint)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Uint64("unbonding-time", 7*24*60*60, "seconds it takes for stake to unbond")
}
