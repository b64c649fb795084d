package usecase

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"staking/domain"
	"staking/domain/derive"
)

type StakingInteractor struct {
	store   Store
	clock   Clock
	deriver *derive.Deriver
}

func NewStakingInteractor(store Store, clock Clock, deriver *derive.Deriver) *StakingInteractor {
	interactor := &StakingInteractor{
		store:   store,
		clock:   clock,
		deriver: deriver,
	}

	return interactor
}

// PoolParams are the operator-chosen properties of a stake pool.
type PoolParams struct {
	Name        string
	Description string
	Icon        string
	Commission  uint16
}

// PoolEdit changes the fields that are set and keeps the others.
type PoolEdit struct {
	Name        *string
	Description *string
	Icon        *string
	Commission  *uint16
	NewOperator *solana.PublicKey
}

// VestingTerms turns a new stake account into a vesting one. The initial
// balance is whatever the custody holds at creation.
type VestingTerms struct {
	CliffDate       int64
	VestingDuration uint64
}

func (interactor *StakingInteractor) session(ctx context.Context, op string) *session {
	return newSession(ctx, interactor.store, interactor.clock, op)
}

func (interactor *StakingInteractor) loadConfig(s *session) (*domain.ProgramConfig, error) {
	key, err := interactor.deriver.Config()
	if err != nil {
		return nil, err
	}
	cfg := &domain.ProgramConfig{}
	if err := s.load(key, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (interactor *StakingInteractor) Initialize(ctx context.Context, unbondingTime uint64, stakingToken solana.PublicKey) (*Receipt, error) {
	s := interactor.session(ctx, OpInitialize)
	return s.run(func() error {
		key, err := interactor.deriver.Config()
		if err != nil {
			return err
		}
		if err := s.absent(key); err != nil {
			return err
		}

		s.put(key, &domain.ProgramConfig{
			UnbondingTime: unbondingTime,
			StakingToken:  stakingToken,
		})
		log.WithFields(logrus.Fields{
			"config":         key,
			"unbonding_time": unbondingTime,
			"staking_token":  stakingToken,
		}).Info("🔵 initializing staking program")
		return nil
	})
}

// CreateStakePool registers pool and provisions its staking, deactivating and
// distribution custody accounts.
func (interactor *StakingInteractor) CreateStakePool(ctx context.Context, operator, pool, rewardAccount solana.PublicKey, params PoolParams) (*Receipt, error) {
	s := interactor.session(ctx, OpCreateStakePool)
	return s.run(func() error {
		cfg, err := interactor.loadConfig(s)
		if err != nil {
			return err
		}
		if err := domain.ValidateCommission(params.Commission); err != nil {
			return err
		}
		if err := s.absent(pool); err != nil {
			return err
		}

		reward, err := s.token(rewardAccount)
		if err != nil {
			return err
		}
		if !reward.Mint.Equals(cfg.StakingToken) {
			return errors.Wrapf(domain.ErrorWrongMint, "reward account %s holds %s", rewardAccount, reward.Mint)
		}

		custody, err := interactor.deriver.PoolCustody(pool)
		if err != nil {
			return err
		}
		signer, err := interactor.deriver.StakePoolCustodySigner()
		if err != nil {
			return err
		}
		for _, key := range []solana.PublicKey{custody.Staking, custody.Deactivating, custody.Distribution} {
			err := s.provision(key, &domain.TokenAccount{
				Mint:  cfg.StakingToken,
				Owner: signer,
				State: domain.TokenAccountInitialized,
			})
			if err != nil {
				return err
			}
		}

		s.put(pool, &domain.StakePool{
			Operator:      operator,
			Name:          params.Name,
			Description:   params.Description,
			Icon:          params.Icon,
			Commission:    params.Commission,
			RewardAccount: rewardAccount,
			State:         domain.StakePoolActive,
		})
		return nil
	})
}

func (interactor *StakingInteractor) EditStakePool(ctx context.Context, operator, pool solana.PublicKey, edit PoolEdit) (*Receipt, error) {
	s := interactor.session(ctx, OpEditStakePool)
	return s.run(func() error {
		p := &domain.StakePool{}
		if err := s.load(pool, p); err != nil {
			return err
		}
		if !p.Operator.Equals(operator) {
			return errors.Wrapf(domain.ErrorInvalidOwner, "%s is not the operator of %s", operator, pool)
		}

		if edit.Name != nil {
			p.Name = *edit.Name
		}
		if edit.Description != nil {
			p.Description = *edit.Description
		}
		if edit.Icon != nil {
			p.Icon = *edit.Icon
		}
		if edit.Commission != nil {
			if err := domain.ValidateCommission(*edit.Commission); err != nil {
				return err
			}
			p.Commission = *edit.Commission
		}
		if edit.NewOperator != nil {
			p.Operator = *edit.NewOperator
		}

		s.put(pool, p)
		return nil
	})
}

// DeactivateStakePool stops new bonding into pool. Unbonding keeps working.
func (interactor *StakingInteractor) DeactivateStakePool(ctx context.Context, operator, pool solana.PublicKey) (*Receipt, error) {
	s := interactor.session(ctx, OpDeactivateStakePool)
	return s.run(func() error {
		p := &domain.StakePool{}
		if err := s.load(pool, p); err != nil {
			return err
		}
		if !p.Operator.Equals(operator) {
			return errors.Wrapf(domain.ErrorInvalidOwner, "%s is not the operator of %s", operator, pool)
		}
		if !p.IsActive() {
			return errors.Wrapf(domain.ErrorStakePoolDeactivated, "%s", pool)
		}

		p.State = domain.StakePoolDeactivated
		s.put(pool, p)
		return nil
	})
}

// CreateStakeAccount registers an unbonded stake account over a funded
// custody token account. vesting is nil for a plain account.
func (interactor *StakingInteractor) CreateStakeAccount(ctx context.Context, stakeAccount, custody, owner solana.PublicKey, vesting *VestingTerms) (*Receipt, error) {
	s := interactor.session(ctx, OpCreateStakeAccount)
	return s.run(func() error {
		cfg, err := interactor.loadConfig(s)
		if err != nil {
			return err
		}
		if err := s.absent(stakeAccount); err != nil {
			return err
		}

		signer, err := interactor.deriver.StakeAccountCustodySigner()
		if err != nil {
			return err
		}
		t, err := s.token(custody)
		if err != nil {
			return err
		}
		if err := validateCustody(custody, t, signer); err != nil {
			return err
		}
		if !t.Mint.Equals(cfg.StakingToken) {
			return errors.Wrapf(domain.ErrorWrongMint, "custody %s holds %s", custody, t.Mint)
		}
		if err := s.unused(domain.AccountStakeAccount, custody); err != nil {
			return err
		}

		var accountType domain.StakeAccountType = domain.Plain{}
		if vesting != nil {
			schedule := domain.Schedule{
				InitialBalance:  t.Amount,
				CliffDate:       vesting.CliffDate,
				VestingDuration: vesting.VestingDuration,
			}
			if _, err := schedule.MaturedAt(); err != nil {
				return errors.Wrap(err, "vesting schedule")
			}
			accountType = domain.Vesting{Schedule: schedule}
		}

		s.put(stakeAccount, domain.NewStakeAccount(owner, custody, accountType))
		return nil
	})
}

// validateCustody checks a token account can be handed to a program signer:
// owned by the signer, no delegate or close authority and not frozen.
func validateCustody(key solana.PublicKey, t *domain.TokenAccount, signer solana.PublicKey) error {
	if !t.Owner.Equals(signer) {
		return errors.Wrapf(domain.ErrorInvalidOwner, "custody %s is owned by %s, not %s", key, t.Owner, signer)
	}
	if t.Delegate != nil || t.CloseAuthority != nil {
		return errors.Wrapf(domain.ErrorTokenAccountHasDelegation, "custody %s", key)
	}
	if t.State != domain.TokenAccountInitialized {
		return errors.Wrapf(domain.ErrorInvalidTokenAccountState, "custody %s", key)
	}
	return nil
}

func (interactor *StakingInteractor) loadOwned(s *session, key, owner solana.PublicKey) (*domain.StakeAccount, error) {
	account := &domain.StakeAccount{}
	if err := s.load(key, account); err != nil {
		return nil, err
	}
	if !account.Owner.Equals(owner) {
		return nil, errors.Wrapf(domain.ErrorInvalidOwner, "%s is not the owner of %s", owner, key)
	}
	return account, nil
}

// Bond deposits the whole custody balance of an unbonded stake account into
// the active sub-pool of pool.
func (interactor *StakingInteractor) Bond(ctx context.Context, owner, stakeAccount, pool solana.PublicKey) (*Receipt, error) {
	s := interactor.session(ctx, OpBond)
	return s.run(func() error {
		account, err := interactor.loadOwned(s, stakeAccount, owner)
		if err != nil {
			return err
		}
		if !account.IsUnbonded() {
			return errors.Wrapf(domain.ErrorNotUnbonded, "%s is %s", stakeAccount, account.State)
		}

		p := &domain.StakePool{}
		if err := s.load(pool, p); err != nil {
			return err
		}
		if !p.IsActive() {
			return errors.Wrapf(domain.ErrorStakePoolDeactivated, "%s", pool)
		}

		custody, err := interactor.deriver.PoolCustody(pool)
		if err != nil {
			return err
		}
		deposit, err := s.token(account.CustodyAccount)
		if err != nil {
			return err
		}
		staking, err := s.token(custody.Staking)
		if err != nil {
			return err
		}

		amount := deposit.Amount
		if amount == 0 {
			return errors.Wrapf(domain.ErrorZeroAmount, "custody %s is empty", account.CustodyAccount)
		}
		// Priced against the staking balance before the deposit arrives.
		shares, err := domain.SharesForDeposit(amount, p.TotalShares, staking.Amount)
		if err != nil {
			return errors.Wrapf(err, "pricing %d into %s", amount, pool)
		}
		if shares.IsZero() {
			return errors.Wrapf(domain.ErrorZeroShares, "%d into %s", amount, pool)
		}
		if p.TotalShares, err = p.TotalShares.Add(shares); err != nil {
			return err
		}

		signer, err := interactor.deriver.StakeAccountCustodySigner()
		if err != nil {
			return err
		}
		if err := s.transfer(amount, account.CustodyAccount, custody.Staking, signer); err != nil {
			return err
		}

		account.Shares = shares
		account.State = domain.Bonded{Pool: pool}
		s.put(stakeAccount, account)
		s.put(pool, p)
		return nil
	})
}

// Unbond redeems the shares of a bonded stake account and parks their value in
// the deactivating sub-pool until the unbonding time has passed.
func (interactor *StakingInteractor) Unbond(ctx context.Context, owner, stakeAccount, pool solana.PublicKey) (*Receipt, error) {
	s := interactor.session(ctx, OpUnbond)
	return s.run(func() error {
		cfg, err := interactor.loadConfig(s)
		if err != nil {
			return err
		}
		account, err := interactor.loadOwned(s, stakeAccount, owner)
		if err != nil {
			return err
		}
		bonded, ok := account.State.(domain.Bonded)
		if !ok {
			return errors.Wrapf(domain.ErrorNotBonded, "%s is %s", stakeAccount, account.State)
		}
		if !bonded.Pool.Equals(pool) {
			return errors.Wrapf(domain.ErrorInvalidPool, "%s is bonded to %s", stakeAccount, bonded.Pool)
		}

		p := &domain.StakePool{}
		if err := s.load(pool, p); err != nil {
			return err
		}
		custody, err := interactor.deriver.PoolCustody(pool)
		if err != nil {
			return err
		}
		staking, err := s.token(custody.Staking)
		if err != nil {
			return err
		}
		deactivating, err := s.token(custody.Deactivating)
		if err != nil {
			return err
		}

		amount, err := domain.AmountForShares(account.Shares, p.TotalShares, staking.Amount)
		if err != nil {
			return errors.Wrapf(err, "redeeming %s from %s", account.Shares, pool)
		}
		if p.TotalShares, err = p.TotalShares.Sub(account.Shares); err != nil {
			return err
		}

		unbondingShares, err := domain.SharesForDeposit(amount, p.TotalSharesUnbonding, deactivating.Amount)
		if err != nil {
			return errors.Wrapf(err, "pricing %d into the deactivating sub-pool of %s", amount, pool)
		}
		if unbondingShares.IsZero() {
			return errors.Wrapf(domain.ErrorZeroShares, "%s shares of %s are worth %d", account.Shares, pool, amount)
		}
		if p.TotalSharesUnbonding, err = p.TotalSharesUnbonding.Add(unbondingShares); err != nil {
			return err
		}

		unbondingTime, err := domain.AddDuration(s.now, cfg.UnbondingTime)
		if err != nil {
			return errors.Wrap(err, "unbonding time")
		}

		signer, err := interactor.deriver.StakePoolCustodySigner()
		if err != nil {
			return err
		}
		if err := s.transfer(amount, custody.Staking, custody.Deactivating, signer); err != nil {
			return err
		}

		account.Shares = domain.U128{}
		account.State = domain.Unbonding{
			Pool:            pool,
			UnbondingTime:   unbondingTime,
			UnbondingShares: unbondingShares,
		}
		s.put(stakeAccount, account)
		s.put(pool, p)
		return nil
	})
}

// CompleteUnbond pays the deactivating shares of an unbonding stake account
// back into its custody once the unbonding time is reached.
func (interactor *StakingInteractor) CompleteUnbond(ctx context.Context, owner, stakeAccount, pool solana.PublicKey) (*Receipt, error) {
	s := interactor.session(ctx, OpCompleteUnbond)
	return s.run(func() error {
		account, err := interactor.loadOwned(s, stakeAccount, owner)
		if err != nil {
			return err
		}
		unbonding, ok := account.State.(domain.Unbonding)
		if !ok {
			return errors.Wrapf(domain.ErrorNotUnbonding, "%s is %s", stakeAccount, account.State)
		}
		if !unbonding.Pool.Equals(pool) {
			return errors.Wrapf(domain.ErrorInvalidPool, "%s is unbonding from %s", stakeAccount, unbonding.Pool)
		}
		if s.now < unbonding.UnbondingTime {
			return errors.Wrapf(domain.ErrorStillUnbonding, "%s unbonds at %d", stakeAccount, unbonding.UnbondingTime)
		}

		p := &domain.StakePool{}
		if err := s.load(pool, p); err != nil {
			return err
		}
		custody, err := interactor.deriver.PoolCustody(pool)
		if err != nil {
			return err
		}
		deactivating, err := s.token(custody.Deactivating)
		if err != nil {
			return err
		}

		amount, err := domain.AmountForShares(unbonding.UnbondingShares, p.TotalSharesUnbonding, deactivating.Amount)
		if err != nil {
			return errors.Wrapf(err, "redeeming %s unbonding shares of %s", unbonding.UnbondingShares, pool)
		}
		if p.TotalSharesUnbonding, err = p.TotalSharesUnbonding.Sub(unbonding.UnbondingShares); err != nil {
			return err
		}

		signer, err := interactor.deriver.StakePoolCustodySigner()
		if err != nil {
			return err
		}
		if err := s.transfer(amount, custody.Deactivating, account.CustodyAccount, signer); err != nil {
			return err
		}

		account.Shares = domain.U128{}
		account.State = domain.Unbonded{}
		s.put(stakeAccount, account)
		s.put(pool, p)
		return nil
	})
}

// Withdraw moves amount out of the custody of an unbonded stake account. A
// vesting account can only release what its schedule has unlocked, and
// nothing before the cliff.
func (interactor *StakingInteractor) Withdraw(ctx context.Context, owner, stakeAccount, destination solana.PublicKey, amount uint64) (*Receipt, error) {
	s := interactor.session(ctx, OpWithdraw)
	return s.run(func() error {
		account, err := interactor.loadOwned(s, stakeAccount, owner)
		if err != nil {
			return err
		}
		if !account.IsUnbonded() {
			return errors.Wrapf(domain.ErrorNotUnbonded, "%s is %s", stakeAccount, account.State)
		}

		custody, err := s.token(account.CustodyAccount)
		if err != nil {
			return err
		}

		if schedule, ok := account.Schedule(); ok {
			if s.now < schedule.CliffDate {
				return nil
			}
			claimable := schedule.Claimable(s.now, custody.Amount)
			if amount > claimable {
				return errors.Wrapf(domain.ErrorExceedsUnlocked, "%d requested, %d unlocked", amount, claimable)
			}
		}

		signer, err := interactor.deriver.StakeAccountCustodySigner()
		if err != nil {
			return err
		}
		return s.transfer(amount, account.CustodyAccount, destination, signer)
	})
}

// CloseStakeAccount empties the custody of an unbonded stake account into
// destination, closes it and removes the stake account.
func (interactor *StakingInteractor) CloseStakeAccount(ctx context.Context, owner, stakeAccount, destination solana.PublicKey) (*Receipt, error) {
	s := interactor.session(ctx, OpCloseStakeAccount)
	return s.run(func() error {
		account, err := interactor.loadOwned(s, stakeAccount, owner)
		if err != nil {
			return err
		}
		if !account.IsUnbonded() {
			return errors.Wrapf(domain.ErrorNotUnbonded, "%s is %s", stakeAccount, account.State)
		}
		if schedule, ok := account.Schedule(); ok {
			matured, err := schedule.IsMatured(s.now)
			if err != nil {
				return err
			}
			if !matured {
				return errors.Wrapf(domain.ErrorNotVested, "%s", stakeAccount)
			}
		}

		custody, err := s.token(account.CustodyAccount)
		if err != nil {
			return err
		}
		signer, err := interactor.deriver.StakeAccountCustodySigner()
		if err != nil {
			return err
		}
		if err := s.transfer(custody.Amount, account.CustodyAccount, destination, signer); err != nil {
			return err
		}
		if err := s.closeToken(account.CustodyAccount, destination, signer); err != nil {
			return err
		}

		s.remove(stakeAccount, domain.AccountStakeAccount)
		return nil
	})
}

// SyncStakePool distributes the distribution balance of pool: the commission
// goes to the reward account and the rest into the staking sub-pool without
// minting shares.
func (interactor *StakingInteractor) SyncStakePool(ctx context.Context, pool solana.PublicKey) (*Receipt, error) {
	s := interactor.session(ctx, OpSyncStakePool)
	return s.run(func() error {
		p := &domain.StakePool{}
		if err := s.load(pool, p); err != nil {
			return err
		}
		custody, err := interactor.deriver.PoolCustody(pool)
		if err != nil {
			return err
		}
		distribution, err := s.token(custody.Distribution)
		if err != nil {
			return err
		}
		if _, err := s.token(p.RewardAccount); err != nil {
			return errors.Wrapf(domain.ErrorInvalidTokenAccount, "reward account %s: %v", p.RewardAccount, err)
		}

		split, err := domain.SplitReward(distribution.Amount, p.Commission)
		if err != nil {
			return err
		}

		signer, err := interactor.deriver.StakePoolCustodySigner()
		if err != nil {
			return err
		}
		if err := s.transfer(split.Stakers, custody.Distribution, custody.Staking, signer); err != nil {
			return err
		}
		if err := s.transfer(split.Operator, custody.Distribution, p.RewardAccount, signer); err != nil {
			return err
		}

		s.rewards = &split
		return nil
	})
}
