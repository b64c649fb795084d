package usecase

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"staking/domain"
)

// TokenInteractor keeps the token accounts the ledger moves tokens between.
// It stands in for the external token ledger when the service runs on its
// own.
type TokenInteractor struct {
	store Store
	clock Clock
}

func NewTokenInteractor(store Store, clock Clock) *TokenInteractor {
	return &TokenInteractor{store: store, clock: clock}
}

func (interactor *TokenInteractor) CreateTokenAccount(ctx context.Context, key, mint, owner solana.PublicKey) (*Receipt, error) {
	s := newSession(ctx, interactor.store, interactor.clock, OpCreateTokenAccount)
	return s.run(func() error {
		return s.provision(key, &domain.TokenAccount{
			Mint:  mint,
			Owner: owner,
			State: domain.TokenAccountInitialized,
		})
	})
}

// MintTo credits amount new tokens to an account.
func (interactor *TokenInteractor) MintTo(ctx context.Context, key solana.PublicKey, amount uint64) (*Receipt, error) {
	s := newSession(ctx, interactor.store, interactor.clock, OpMintTo)
	return s.run(func() error {
		t, err := s.token(key)
		if err != nil {
			return err
		}
		if t.IsFrozen() {
			return errors.Wrapf(domain.ErrorInvalidTokenAccountState, "%s is frozen", key)
		}
		if t.Amount > ^uint64(0)-amount {
			return errors.Wrapf(domain.ErrorOverflow, "minting %d to %s", amount, key)
		}

		t.Amount += amount
		s.touch(key)
		log.WithFields(logrus.Fields{
			"account": key,
			"amount":  amount,
		}).Info("🔵 minted tokens")
		return nil
	})
}

func (interactor *TokenInteractor) FreezeTokenAccount(ctx context.Context, key solana.PublicKey) (*Receipt, error) {
	s := newSession(ctx, interactor.store, interactor.clock, OpFreezeTokenAccount)
	return s.run(func() error {
		t, err := s.token(key)
		if err != nil {
			return err
		}
		t.State = domain.TokenAccountFrozen
		s.touch(key)
		return nil
	})
}

func (interactor *TokenInteractor) TokenAccount(ctx context.Context, key solana.PublicKey) (*domain.TokenAccount, error) {
	t := &domain.TokenAccount{}
	if _, err := get(ctx, interactor.store, key, t); err != nil {
		return nil, err
	}
	return t, nil
}
