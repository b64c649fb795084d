package usecase

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"staking/domain"
	"staking/domain/derive"
)

type VestingInteractor struct {
	store   Store
	clock   Clock
	deriver *derive.Deriver
}

func NewVestingInteractor(store Store, clock Clock, deriver *derive.Deriver) *VestingInteractor {
	interactor := &VestingInteractor{
		store:   store,
		clock:   clock,
		deriver: deriver,
	}

	return interactor
}

// VestingStatus is a vesting account with its custody balance evaluated at
// Time.
type VestingStatus struct {
	Account   *domain.VestingAccount
	Time      int64
	Balance   uint64
	Unlocked  uint64
	Claimable uint64
}

func (interactor *VestingInteractor) session(ctx context.Context, op string) *session {
	return newSession(ctx, interactor.store, interactor.clock, op)
}

func (interactor *VestingInteractor) loadOwned(s *session, key, owner solana.PublicKey) (*domain.VestingAccount, error) {
	account := &domain.VestingAccount{}
	if err := s.load(key, account); err != nil {
		return nil, err
	}
	if !account.Owner.Equals(owner) {
		return nil, errors.Wrapf(domain.ErrorInvalidOwner, "%s is not the owner of %s", owner, key)
	}
	return account, nil
}

// CreateVestingAccount locks the current balance of custody for owner.
func (interactor *VestingInteractor) CreateVestingAccount(ctx context.Context, vestingAccount, custody, owner solana.PublicKey, cliffDate int64, vestingDuration uint64) (*Receipt, error) {
	s := interactor.session(ctx, OpCreateVestingAccount)
	return s.run(func() error {
		if err := s.absent(vestingAccount); err != nil {
			return err
		}

		signer, err := interactor.deriver.VestingCustodySigner()
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
		if err := s.unused(domain.AccountVestingAccount, custody); err != nil {
			return err
		}

		account := &domain.VestingAccount{
			Owner:           owner,
			Amount:          t.Amount,
			TokenAccount:    custody,
			CreationDate:    s.now,
			CliffDate:       cliffDate,
			VestingDuration: vestingDuration,
		}
		if _, err := account.Schedule().MaturedAt(); err != nil {
			return errors.Wrap(err, "vesting schedule")
		}

		s.put(vestingAccount, account)
		return nil
	})
}

// ClaimTokens moves everything unlocked and not yet claimed to destination.
// Before the cliff it moves nothing.
func (interactor *VestingInteractor) ClaimTokens(ctx context.Context, owner, vestingAccount, destination solana.PublicKey) (*Receipt, error) {
	s := interactor.session(ctx, OpClaimTokens)
	return s.run(func() error {
		account, err := interactor.loadOwned(s, vestingAccount, owner)
		if err != nil {
			return err
		}
		if s.now < account.CliffDate {
			return nil
		}

		custody, err := s.token(account.TokenAccount)
		if err != nil {
			return err
		}
		signer, err := interactor.deriver.VestingCustodySigner()
		if err != nil {
			return err
		}

		claimable := account.Schedule().Claimable(s.now, custody.Amount)
		return s.transfer(claimable, account.TokenAccount, destination, signer)
	})
}

// CloseVestingAccount empties and closes the custody of a fully vested account
// and removes the account.
func (interactor *VestingInteractor) CloseVestingAccount(ctx context.Context, owner, vestingAccount, destination solana.PublicKey) (*Receipt, error) {
	s := interactor.session(ctx, OpCloseVestingAccount)
	return s.run(func() error {
		account, err := interactor.loadOwned(s, vestingAccount, owner)
		if err != nil {
			return err
		}
		matured, err := account.Schedule().IsMatured(s.now)
		if err != nil {
			return err
		}
		if !matured {
			return errors.Wrapf(domain.ErrorNotVested, "%s", vestingAccount)
		}

		custody, err := s.token(account.TokenAccount)
		if err != nil {
			return err
		}
		signer, err := interactor.deriver.VestingCustodySigner()
		if err != nil {
			return err
		}
		if err := s.transfer(custody.Amount, account.TokenAccount, destination, signer); err != nil {
			return err
		}
		if err := s.closeToken(account.TokenAccount, destination, signer); err != nil {
			return err
		}

		s.remove(vestingAccount, domain.AccountVestingAccount)
		return nil
	})
}

func (interactor *VestingInteractor) TransferOwnership(ctx context.Context, owner, vestingAccount, newOwner solana.PublicKey) (*Receipt, error) {
	s := interactor.session(ctx, OpTransferOwnership)
	return s.run(func() error {
		account, err := interactor.loadOwned(s, vestingAccount, owner)
		if err != nil {
			return err
		}

		account.Owner = newOwner
		s.put(vestingAccount, account)
		return nil
	})
}

func (interactor *VestingInteractor) VestingAccount(ctx context.Context, key solana.PublicKey) (*domain.VestingAccount, error) {
	account := &domain.VestingAccount{}
	if _, err := get(ctx, interactor.store, key, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (interactor *VestingInteractor) VestingStatus(ctx context.Context, key solana.PublicKey) (*VestingStatus, error) {
	account, err := interactor.VestingAccount(ctx, key)
	if err != nil {
		return nil, err
	}
	custody := &domain.TokenAccount{}
	if _, err := get(ctx, interactor.store, account.TokenAccount, custody); err != nil {
		return nil, errors.Wrapf(err, "custody of %s", key)
	}

	now := interactor.clock.Now()
	schedule := account.Schedule()
	return &VestingStatus{
		Account:   account,
		Time:      now,
		Balance:   custody.Amount,
		Unlocked:  schedule.Unlocked(now),
		Claimable: schedule.Claimable(now, custody.Amount),
	}, nil
}
