package cmd

import (
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manages the token accounts held by the ledger",
}

var tokenCreateCmd = &cobra.Command{
	Use:   "create <mint> <owner>",
	Short: "Creates an empty token account",
	Long: `Creates an empty token account. The owner is a base58 key, or one of
stake-custody, pool-custody and vesting-custody for accounts held by the
program signers.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mint, err := parseKey("mint", args[0])
		if err != nil {
			return err
		}
		owner, err := parseOwner(args[1])
		if err != nil {
			return err
		}
		keyFlag, _ := cmd.Flags().GetString("key")
		key, err := keyOrNew("token account", keyFlag)
		if err != nil {
			return err
		}

		defaultDependencyInject()
		defer closeDependencies()

		receipt, err := tokenInteractor.CreateTokenAccount(cmd.Context(), key, mint, owner)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

var tokenMintCmd = &cobra.Command{
	Use:   "mint <token-account> <amount>",
	Short: "Credits new tokens to a token account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKey("token account", args[0])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}

		defaultDependencyInject()
		defer closeDependencies()

		receipt, err := tokenInteractor.MintTo(cmd.Context(), key, amount)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

var tokenFreezeCmd = &cobra.Command{
	Use:   "freeze <token-account>",
	Short: "Freezes a token account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKey("token account", args[0])
		if err != nil {
			return err
		}

		defaultDependencyInject()
		defer closeDependencies()

		receipt, err := tokenInteractor.FreezeTokenAccount(cmd.Context(), key)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

var tokenShowCmd = &cobra.Command{
	Use:   "show <token-account>",
	Short: "Shows a token account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKey("token account", args[0])
		if err != nil {
			return err
		}

		defaultDependencyInject()
		defer closeDependencies()

		t, err := tokenInteractor.TokenAccount(cmd.Context(), key)
		if err != nil {
			return err
		}
		printToken(key, t)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenCreateCmd, tokenMintCmd, tokenFreezeCmd, tokenShowCmd)

	tokenCreateCmd.Flags().String("key", "", "token account key (default is a new key)")
}
