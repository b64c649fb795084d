package cmd

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"staking/domain/derive"
	"staking/usecase"
)

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Manages stake pools",
}

var poolCreateCmd = &cobra.Command{
	Use:   "create <operator> <reward-account>",
	Short: "Creates a stake pool and its custody accounts",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		operator, err := parseKey("operator", args[0])
		if err != nil {
			return err
		}
		reward, err := parseKey("reward account", args[1])
		if err != nil {
			return err
		}
		keyFlag, _ := cmd.Flags().GetString("key")
		pool, err := keyOrNew("stake pool", keyFlag)
		if err != nil {
			return err
		}

		var params usecase.PoolParams
		params.Name, _ = cmd.Flags().GetString("name")
		params.Description, _ = cmd.Flags().GetString("description")
		params.Icon, _ = cmd.Flags().GetString("icon")
		params.Commission, _ = cmd.Flags().GetUint16("commission")

		defaultDependencyInject()
		defer closeDependencies()

		receipt, err := stakingInteractor.CreateStakePool(cmd.Context(), operator, pool, reward, params)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

var poolEditCmd = &cobra.Command{
	Use:   "edit <operator> <pool>",
	Short: "Changes the properties or the operator of a stake pool",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		operator, err := parseKey("operator", args[0])
		if err != nil {
			return err
		}
		pool, err := parseKey("stake pool", args[1])
		if err != nil {
			return err
		}

		var edit usecase.PoolEdit
		flags := cmd.Flags()
		if flags.Changed("name") {
			name, _ := flags.GetString("name")
			edit.Name = &name
		}
		if flags.Changed("description") {
			description, _ := flags.GetString("description")
			edit.Description = &description
		}
		if flags.Changed("icon") {
			icon, _ := flags.GetString("icon")
			edit.Icon = &icon
		}
		if flags.Changed("commission") {
			commission, _ := flags.GetUint16("commission")
			edit.Commission = &commission
		}
		if flags.Changed("new-operator") {
			value, _ := flags.GetString("new-operator")
			newOperator, err := parseKey("new operator", value)
			if err != nil {
				return err
			}
			edit.NewOperator = &newOperator
		}

		defaultDependencyInject()
		defer closeDependencies()

		receipt, err := stakingInteractor.EditStakePool(cmd.Context(), operator, pool, edit)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

var poolDeactivateCmd = &cobra.Command{
	Use:   "deactivate <operator> <pool>",
	Short: "Stops new bonding into a stake pool",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		operator, err := parseKey("operator", args[0])
		if err != nil {
			return err
		}
		pool, err := parseKey("stake pool", args[1])
		if err != nil {
			return err
		}

		defaultDependencyInject()
		defer closeDependencies()

		receipt, err := stakingInteractor.DeactivateStakePool(cmd.Context(), operator, pool)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

var poolSyncCmd = &cobra.Command{
	Use:   "sync [pool]",
	Short: "Distributes the pending rewards of one or all stake pools",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defaultDependencyInject()
		defer closeDependencies()

		if len(args) == 0 {
			synced, err := syncInteractor.SyncAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("✅ synced %v stake pools\n", synced)
			return nil
		}

		pool, err := parseKey("stake pool", args[0])
		if err != nil {
			return err
		}
		receipt, err := stakingInteractor.SyncStakePool(cmd.Context(), pool)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

var poolShowCmd = &cobra.Command{
	Use:   "show [pool]",
	Short: "Shows one or all stake pools",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defaultDependencyInject()
		defer closeDependencies()

		ctx := cmd.Context()
		if len(args) == 1 {
			pool, err := parseKey("stake pool", args[0])
			if err != nil {
				return err
			}
			snapshot, err := stakingInteractor.PoolSnapshot(ctx, pool)
			if err != nil {
				return err
			}
			printPool(snapshot)
			return nil
		}

		pools, err := stakingInteractor.ListStakePools(ctx)
		if err != nil {
			return err
		}
		for _, pool := range pools {
			snapshot, err := stakingInteractor.PoolSnapshot(ctx, pool)
			if err != nil {
				return err
			}
			printPool(snapshot)
		}
		return nil
	},
}

var poolVerifyCmd = &cobra.Command{
	Use:   "verify <pool> <staking> <deactivating> <distribution>",
	Short: "Checks custody accounts against the addresses derived for a pool",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := parseKey("stake pool", args[0])
		if err != nil {
			return err
		}
		var custody derive.PoolCustody
		for i, target := range []*solana.PublicKey{&custody.Staking, &custody.Deactivating, &custody.Distribution} {
			if *target, err = parseKey("custody account", args[i+1]); err != nil {
				return err
			}
		}
		if err := stakingDeriver().VerifyPoolCustody(pool, custody); err != nil {
			return err
		}
		fmt.Printf("✅ custody accounts of %v are derived\n", pool)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(poolCmd)
	poolCmd.AddCommand(poolCreateCmd, poolEditCmd, poolDeactivateCmd, poolSyncCmd, poolShowCmd, poolVerifyCmd)

	poolCreateCmd.Flags().String("key", "", "stake pool key (default is a new key)")
	for _, c := range []*cobra.Command{poolCreateCmd, poolEditCmd} {
		c.Flags().String("name", "", "pool name")
		c.Flags().String("description", "", "pool description")
		c.Flags().String("icon", "", "pool icon url")
		c.Flags().Uint16("commission", 0, "operator commission in basis points")
	}
	poolEditCmd.Flags().String("new-operator", "", "hands the pool over to another operator")
}
