package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"staking/domain"
	"staking/domain/config"
	"staking/domain/derive"
	"staking/domain/util"
	"staking/usecase"
)

func parseKey(name, value string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(strings.TrimSpace(value))
	if err != nil {
		return solana.PublicKey{}, errors.Wrapf(err, "invalid %s %q", name, value)
	}
	return key, nil
}

// parseAmount reads a token amount in base units.
func parseAmount(value string) (uint64, error) {
	amount, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid amount %q", value)
	}
	return amount, nil
}

// keyOrNew parses value, or returns a fresh key when value is empty.
func keyOrNew(name, value string) (solana.PublicKey, error) {
	if value == "" {
		key := solana.NewWallet().PublicKey()
		fmt.Printf("🔵 new %v: %v\n", name, key)
		return key, nil
	}
	return parseKey(name, value)
}

// parseOwner resolves the names of the program custody signers, so custody
// token accounts can be created for them.
func parseOwner(value string) (solana.PublicKey, error) {
	switch value {
	case "stake-custody":
		return stakingDeriver().StakeAccountCustodySigner()
	case "pool-custody":
		return stakingDeriver().StakePoolCustodySigner()
	case "vesting-custody":
		return vestingDeriver().VestingCustodySigner()
	}
	return parseKey("owner", value)
}

func stakingDeriver() *derive.Deriver {
	return derive.New(config.GetStakingProgramId())
}

func vestingDeriver() *derive.Deriver {
	return derive.New(config.GetVestingProgramId())
}

func printReceipt(receipt *usecase.Receipt) {
	fmt.Printf("✅ %v committed at %v\n", receipt.Operation, util.DeadlineString(receipt.Time))
	for _, m := range receipt.Movements {
		if m.Kind == domain.MovementClose {
			fmt.Printf("   close    %v -> %v\n", m.From, m.To)
		} else {
			fmt.Printf("   transfer %v  %v -> %v\n", util.TokenString(m.Amount), m.From, m.To)
		}
		if showInstructions {
			printInstruction(m.Instruction())
		}
	}
	if receipt.Rewards != nil {
		fmt.Printf("   rewards  operator %v, stakers %v\n",
			util.TokenString(receipt.Rewards.Operator), util.TokenString(receipt.Rewards.Stakers))
	}
	if len(receipt.Movements) == 0 && receipt.Rewards == nil {
		fmt.Printf("   no tokens moved\n")
	}
}

func printInstruction(instruction solana.Instruction) {
	data, err := instruction.Data()
	if err != nil {
		fmt.Printf("   🔴 encoding instruction - %v\n", err)
		return
	}
	fmt.Printf("     program %v data %x\n", instruction.ProgramID(), data)
	for _, account := range instruction.Accounts() {
		fmt.Printf("     account %v signer=%v writable=%v\n", account.PublicKey, account.IsSigner, account.IsWritable)
	}
}

func printPool(snapshot *usecase.PoolSnapshot) {
	pool := snapshot.Pool
	fmt.Printf("------------- STAKE POOL %v -----------------\n", snapshot.Key)
	fmt.Printf("name:          %v\n", pool.Name)
	fmt.Printf("description:   %v\n", pool.Description)
	fmt.Printf("icon:          %v\n", pool.Icon)
	fmt.Printf("operator:      %v\n", pool.Operator)
	fmt.Printf("state:         %v\n", pool.State)
	fmt.Printf("commission:    %v\n", util.CommissionString(pool.Commission))
	fmt.Printf("reward:        %v\n", pool.RewardAccount)
	fmt.Printf("staking:       %v in %v, %v\n", util.TokenString(snapshot.StakingBalance), snapshot.Custody.Staking, util.SharesString(pool.TotalShares))
	fmt.Printf("deactivating:  %v in %v, %v\n", util.TokenString(snapshot.DeactivatingBalance), snapshot.Custody.Deactivating, util.SharesString(pool.TotalSharesUnbonding))
	fmt.Printf("distribution:  %v in %v\n", util.TokenString(snapshot.DistributionBalance), snapshot.Custody.Distribution)
}

func printStakeAccount(key solana.PublicKey, account *domain.StakeAccount, balance uint64, value *uint64) {
	fmt.Printf("------------- STAKE ACCOUNT %v -----------------\n", key)
	fmt.Printf("owner:    %v\n", account.Owner)
	fmt.Printf("custody:  %v, %v\n", account.CustodyAccount, util.TokenString(balance))
	if size, err := domain.Size(account); err == nil {
		fmt.Printf("size:     %v bytes\n", size)
	}
	if schedule, ok := account.Schedule(); ok {
		fmt.Printf("vesting:  %v from %v over %vs\n",
			util.TokenString(schedule.InitialBalance), util.DeadlineString(schedule.CliffDate), schedule.VestingDuration)
	}

	switch state := account.State.(type) {
	case domain.Bonded:
		fmt.Printf("state:    bonded to %v\n", state.Pool)
		fmt.Printf("shares:   %v\n", util.SharesString(account.Shares))
		if value != nil {
			fmt.Printf("value:    %v\n", util.TokenString(*value))
		}
	case domain.Unbonding:
		fmt.Printf("state:    unbonding from %v\n", state.Pool)
		fmt.Printf("shares:   %v\n", util.SharesString(state.UnbondingShares))
		fmt.Printf("unbonds:  %v\n", util.DeadlineString(state.UnbondingTime))
	default:
		fmt.Printf("state:    unbonded\n")
	}
}

func printVesting(key solana.PublicKey, status *usecase.VestingStatus) {
	account := status.Account
	fmt.Printf("------------- VESTING ACCOUNT %v -----------------\n", key)
	fmt.Printf("owner:      %v\n", account.Owner)
	fmt.Printf("custody:    %v, %v\n", account.TokenAccount, util.TokenString(status.Balance))
	fmt.Printf("amount:     %v\n", util.TokenString(account.Amount))
	fmt.Printf("created:    %v\n", util.DeadlineString(account.CreationDate))
	fmt.Printf("cliff:      %v\n", util.DeadlineString(account.CliffDate))
	fmt.Printf("duration:   %vs\n", account.VestingDuration)
	fmt.Printf("unlocked:   %v\n", util.TokenString(status.Unlocked))
	fmt.Printf("claimable:  %v\n", util.TokenString(status.Claimable))
}

func printToken(key solana.PublicKey, t *domain.TokenAccount) {
	fmt.Printf("------------- TOKEN ACCOUNT %v -----------------\n", key)
	fmt.Printf("mint:     %v\n", t.Mint)
	fmt.Printf("owner:    %v\n", t.Owner)
	fmt.Printf("amount:   %v\n", util.TokenString(t.Amount))
	fmt.Printf("frozen:   %v\n", t.IsFrozen())
}
