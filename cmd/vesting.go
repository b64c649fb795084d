package cmd

import (
	"github.com/spf13/cobra"
)

var vestingCmd = &cobra.Command{
	Use:   "vesting",
	Short: "Manages vesting accounts",
}

var vestingCreateCmd = &cobra.Command{
	Use:   "create <custody> <owner>",
	Short: "Locks the balance of a custody token account on a vesting schedule",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		custody, err := parseKey("custody", args[0])
		if err != nil {
			return err
		}
		owner, err := parseKey("owner", args[1])
		if err != nil {
			return err
		}
		keyFlag, _ := cmd.Flags().GetString("key")
		vestingAccount, err := keyOrNew("vesting account", keyFlag)
		if err != nil {
			return err
		}
		cliff, _ := cmd.Flags().GetInt64("cliff")
		duration, _ := cmd.Flags().GetUint64("duration")

		defaultDependencyInject()
		defer closeDependencies()

		receipt, err := vestingInteractor.CreateVestingAccount(cmd.Context(), vestingAccount, custody, owner, cliff, duration)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

var vestingClaimCmd = &cobra.Command{
	Use:   "claim <owner> <vesting-account> <destination>",
	Short: "Claims the unlocked tokens of a vesting account",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := parseKey("owner", args[0])
		if err != nil {
			return err
		}
		vestingAccount, err := parseKey("vesting account", args[1])
		if err != nil {
			return err
		}
		destination, err := parseKey("destination", args[2])
		if err != nil {
			return err
		}

		defaultDependencyInject()
		defer closeDependencies()

		receipt, err := vestingInteractor.ClaimTokens(cmd.Context(), owner, vestingAccount, destination)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

var vestingCloseCmd = &cobra.Command{
	Use:   "close <owner> <vesting-account> <destination>",
	Short: "Closes a fully vested account and sweeps its custody",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := parseKey("owner", args[0])
		if err != nil {
			return err
		}
		vestingAccount, err := parseKey("vesting account", args[1])
		if err != nil {
			return err
		}
		destination, err := parseKey("destination", args[2])
		if err != nil {
			return err
		}

		defaultDependencyInject()
		defer closeDependencies()

		receipt, err := vestingInteractor.CloseVestingAccount(cmd.Context(), owner, vestingAccount, destination)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

var vestingTransferCmd = &cobra.Command{
	Use:   "transfer <owner> <vesting-account> <new-owner>",
	Short: "Hands a vesting account over to a new owner",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := parseKey("owner", args[0])
		if err != nil {
			return err
		}
		vestingAccount, err := parseKey("vesting account", args[1])
		if err != nil {
			return err
		}
		newOwner, err := parseKey("new owner", args[2])
		if err != nil {
			return err
		}

		defaultDependencyInject()
		defer closeDependencies()

		receipt, err := vestingInteractor.TransferOwnership(cmd.Context(), owner, vestingAccount, newOwner)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

var vestingShowCmd = &cobra.Command{
	Use:   "show <vesting-account>",
	Short: "Shows a vesting account and how much of it is unlocked now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKey("vesting account", args[0])
		if err != nil {
			return err
		}

		defaultDependencyInject()
		defer closeDependencies()

		status, err := vestingInteractor.VestingStatus(cmd.Context(), key)
		if err != nil {
			return err
		}
		printVesting(key, status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vestingCmd)
	vestingCmd.AddCommand(vestingCreateCmd, vestingClaimCmd, vestingCloseCmd, vestingTransferCmd, vestingShowCmd)

	vestingCreateCmd.Flags().String("key", "", "vesting account key (default is a new key)")
	vestingCreateCmd.Flags().Int64("cliff", 0, "vesting cliff as a unix timestamp")
	vestingCreateCmd.Flags().Uint64("duration", 0, "vesting duration in seconds after the cliff")
	vestingCreateCmd.MarkFlagRequired("cliff")
}
