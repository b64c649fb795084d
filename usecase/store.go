package usecase

import (
	"context"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"staking/domain"
)

var log = logrus.WithField("pkg", "usecase")

// Store keeps ledger accounts. Get and FindByIndex return nil without an error
// when nothing is stored. Apply writes a changeset atomically and fails with
// domain.ErrorRevisionConflict if any account changed since it was read.
type Store interface {
	Get(ctx context.Context, key solana.PublicKey) (*domain.Account, error)
	FindByIndex(ctx context.Context, kind domain.AccountKind, ref solana.PublicKey) (*domain.Account, error)
	List(ctx context.Context, kind domain.AccountKind) ([]*domain.Account, error)
	Apply(ctx context.Context, changes *domain.Changeset) error
}

// Clock supplies the current unix time in seconds.
type Clock interface {
	Now() int64
}

type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

const (
	OpInitialize          = "initialize"
	OpCreateStakePool     = "create_stake_pool"
	OpEditStakePool       = "edit_stake_pool"
	OpDeactivateStakePool = "deactivate_stake_pool"
	OpCreateStakeAccount  = "create_stake_account"
	OpBond                = "bond"
	OpUnbond              = "unbond"
	OpCompleteUnbond      = "complete_unbond"
	OpWithdraw            = "withdraw"
	OpCloseStakeAccount   = "close_stake_account"
	OpSyncStakePool       = "sync_stake_pool"

	OpCreateVestingAccount = "create_vesting_account"
	OpClaimTokens          = "claim_tokens"
	OpCloseVestingAccount  = "close_vesting_account"
	OpTransferOwnership    = "transfer_ownership"

	OpCreateTokenAccount = "create_token_account"
	OpMintTo             = "mint_to"
	OpFreezeTokenAccount = "freeze_token_account"
)

// Receipt describes a committed operation.
type Receipt struct {
	Operation string
	Time      int64
	Movements []domain.Movement
	// Set by pool syncs only.
	Rewards *domain.RewardSplit
}

// Moved sums the amounts of all transfers in the receipt.
func (r *Receipt) Moved() uint64 {
	var total uint64
	for _, m := range r.Movements {
		if m.Kind == domain.MovementTransfer {
			total += m.Amount
		}
	}
	return total
}

// record is a ledger record that can be read back from account data.
type record interface {
	domain.Record
	bin.BinaryUnmarshaler
}

// get reads and decodes the record at key.
func get(ctx context.Context, store Store, key solana.PublicKey, rec record) (*domain.Account, error) {
	account, err := store.Get(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", key)
	}
	if account == nil {
		return nil, errors.Wrapf(domain.ErrorNotInitialized, "%s %s", rec.Kind(), key)
	}
	if err := account.DecodeInto(rec.Kind(), rec); err != nil {
		return nil, err
	}
	return account, nil
}
