package usecase

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"staking/domain"
	"staking/domain/derive"
)

// PoolSnapshot is a stake pool together with the balances of its custody
// accounts.
type PoolSnapshot struct {
	Key     solana.PublicKey
	Pool    *domain.StakePool
	Custody derive.PoolCustody

	StakingBalance      uint64
	DeactivatingBalance uint64
	DistributionBalance uint64
}

// ShareValue returns the token value of shares of the active sub-pool.
func (snapshot *PoolSnapshot) ShareValue(shares domain.U128) (uint64, error) {
	return domain.AmountForShares(shares, snapshot.Pool.TotalShares, snapshot.StakingBalance)
}

func (interactor *StakingInteractor) Config(ctx context.Context) (*domain.ProgramConfig, error) {
	key, err := interactor.deriver.Config()
	if err != nil {
		return nil, err
	}
	cfg := &domain.ProgramConfig{}
	if _, err := get(ctx, interactor.store, key, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (interactor *StakingInteractor) StakePool(ctx context.Context, key solana.PublicKey) (*domain.StakePool, error) {
	pool := &domain.StakePool{}
	if _, err := get(ctx, interactor.store, key, pool); err != nil {
		return nil, err
	}
	return pool, nil
}

func (interactor *StakingInteractor) StakeAccount(ctx context.Context, key solana.PublicKey) (*domain.StakeAccount, error) {
	account := &domain.StakeAccount{}
	if _, err := get(ctx, interactor.store, key, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (interactor *StakingInteractor) PoolSnapshot(ctx context.Context, key solana.PublicKey) (*PoolSnapshot, error) {
	pool, err := interactor.StakePool(ctx, key)
	if err != nil {
		return nil, err
	}
	custody, err := interactor.deriver.PoolCustody(key)
	if err != nil {
		return nil, err
	}

	snapshot := &PoolSnapshot{Key: key, Pool: pool, Custody: custody}
	balances := []struct {
		key     solana.PublicKey
		balance *uint64
	}{
		{custody.Staking, &snapshot.StakingBalance},
		{custody.Deactivating, &snapshot.DeactivatingBalance},
		{custody.Distribution, &snapshot.DistributionBalance},
	}
	for _, b := range balances {
		t := &domain.TokenAccount{}
		if _, err := get(ctx, interactor.store, b.key, t); err != nil {
			return nil, errors.Wrapf(err, "custody of pool %s", key)
		}
		*b.balance = t.Amount
	}
	return snapshot, nil
}

// PoolValue returns the token value of shares bonded to pool.
func (interactor *StakingInteractor) PoolValue(ctx context.Context, pool solana.PublicKey, shares domain.U128) (uint64, error) {
	snapshot, err := interactor.PoolSnapshot(ctx, pool)
	if err != nil {
		return 0, err
	}
	if shares.IsZero() {
		return 0, nil
	}
	return snapshot.ShareValue(shares)
}

// ListStakePools returns the keys of every stake pool.
func (interactor *StakingInteractor) ListStakePools(ctx context.Context) ([]solana.PublicKey, error) {
	accounts, err := interactor.store.List(ctx, domain.AccountStakePool)
	if err != nil {
		return nil, errors.Wrap(err, "listing stake pools")
	}
	keys := make([]solana.PublicKey, 0, len(accounts))
	for _, account := range accounts {
		keys = append(keys, account.Key)
	}
	return keys, nil
}
