package cmd

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"staking/domain"
	"staking/usecase"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manages stake accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create <custody> <owner>",
	Short: "Creates a stake account over a funded custody token account",
	Long: `Creates a stake account over a custody token account owned by the stake
account custody signer. With --cliff and --duration the custody balance is
locked on a vesting schedule.`,
	Args: cobra.ExactArgs(2),
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
		stakeAccount, err := keyOrNew("stake account", keyFlag)
		if err != nil {
			return err
		}

		var vesting *usecase.VestingTerms
		if cmd.Flags().Changed("cliff") || cmd.Flags().Changed("duration") {
			vesting = &usecase.VestingTerms{}
			vesting.CliffDate, _ = cmd.Flags().GetInt64("cliff")
			vesting.VestingDuration, _ = cmd.Flags().GetUint64("duration")
		}

		defaultDependencyInject()
		defer closeDependencies()

		receipt, err := stakingInteractor.CreateStakeAccount(cmd.Context(), stakeAccount, custody, owner, vesting)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

type stakeAction func(interactor *usecase.StakingInteractor, cmd *cobra.Command, owner, stakeAccount, pool solana.PublicKey) (*usecase.Receipt, error)

// poolActionCmd builds the commands that move a stake account through the
// staking lifecycle of a pool.
func poolActionCmd(use, short string, action stakeAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <owner> <stake-account> <pool>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := parseKey("owner", args[0])
			if err != nil {
				return err
			}
			stakeAccount, err := parseKey("stake account", args[1])
			if err != nil {
				return err
			}
			pool, err := parseKey("stake pool", args[2])
			if err != nil {
				return err
			}

			defaultDependencyInject()
			defer closeDependencies()

			receipt, err := action(stakingInteractor, cmd, owner, stakeAccount, pool)
			if err != nil {
				return err
			}
			printReceipt(receipt)
			return nil
		},
	}
}

var accountBondCmd = poolActionCmd("bond", "Bonds the whole custody balance to a pool",
	func(interactor *usecase.StakingInteractor, cmd *cobra.Command, owner, stakeAccount, pool solana.PublicKey) (*usecase.Receipt, error) {
		return interactor.Bond(cmd.Context(), owner, stakeAccount, pool)
	})

var accountUnbondCmd = poolActionCmd("unbond", "Starts unbonding a stake account from its pool",
	func(interactor *usecase.StakingInteractor, cmd *cobra.Command, owner, stakeAccount, pool solana.PublicKey) (*usecase.Receipt, error) {
		return interactor.Unbond(cmd.Context(), owner, stakeAccount, pool)
	})

var accountCompleteUnbondCmd = poolActionCmd("complete-unbond", "Returns unbonded tokens to the stake account custody",
	func(interactor *usecase.StakingInteractor, cmd *cobra.Command, owner, stakeAccount, pool solana.PublicKey) (*usecase.Receipt, error) {
		return interactor.CompleteUnbond(cmd.Context(), owner, stakeAccount, pool)
	})

var accountWithdrawCmd = &cobra.Command{
	Use:   "withdraw <owner> <stake-account> <destination> <amount>",
	Short: "Withdraws unlocked tokens from an unbonded stake account",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := parseKey("owner", args[0])
		if err != nil {
			return err
		}
		stakeAccount, err := parseKey("stake account", args[1])
		if err != nil {
			return err
		}
		destination, err := parseKey("destination", args[2])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[3])
		if err != nil {
			return err
		}

		defaultDependencyInject()
		defer closeDependencies()

		receipt, err := stakingInteractor.Withdraw(cmd.Context(), owner, stakeAccount, destination, amount)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

var accountCloseCmd = &cobra.Command{
	Use:   "close <owner> <stake-account> <destination>",
	Short: "Closes an unbonded stake account and sweeps its custody",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := parseKey("owner", args[0])
		if err != nil {
			return err
		}
		stakeAccount, err := parseKey("stake account", args[1])
		if err != nil {
			return err
		}
		destination, err := parseKey("destination", args[2])
		if err != nil {
			return err
		}

		defaultDependencyInject()
		defer closeDependencies()

		receipt, err := stakingInteractor.CloseStakeAccount(cmd.Context(), owner, stakeAccount, destination)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

var accountShowCmd = &cobra.Command{
	Use:   "show <stake-account>",
	Short: "Shows a stake account and the value of its shares",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKey("stake account", args[0])
		if err != nil {
			return err
		}

		defaultDependencyInject()
		defer closeDependencies()

		ctx := cmd.Context()
		account, err := stakingInteractor.StakeAccount(ctx, key)
		if err != nil {
			return err
		}
		custody, err := tokenInteractor.TokenAccount(ctx, account.CustodyAccount)
		if err != nil {
			return err
		}

		var value *uint64
		if bonded, ok := account.State.(domain.Bonded); ok {
			v, err := stakingInteractor.PoolValue(ctx, bonded.Pool, account.Shares)
			if err != nil {
				return err
			}
			value = &v
		}
		printStakeAccount(key, account, custody.Amount, value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountCreateCmd, accountBondCmd, accountUnbondCmd, accountCompleteUnbondCmd,
		accountWithdrawCmd, accountCloseCmd, accountShowCmd)

	accountCreateCmd.Flags().String("key", "", "stake account key (default is a new key)")
	accountCreateCmd.Flags().Int64("cliff", 0, "vesting cliff as a unix timestamp")
	accountCreateCmd.Flags().Uint64("duration", 0, "vesting duration in seconds after the cliff")
}
