package usecase

import (
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staking/domain"
)

func TestTokenInteractor(t *testing.T) {
	l := newTestLedger(t, 0)
	owner := solana.NewWallet().PublicKey()
	key := l.newToken(owner, 0)

	_, err := l.tokens.CreateTokenAccount(l.ctx, key, l.mint, owner)
	assert.ErrorIs(t, err, domain.ErrorAlreadyInitialized)

	_, err = l.tokens.MintTo(l.ctx, key, math.MaxUint64)
	require.NoError(t, err)
	_, err = l.tokens.MintTo(l.ctx, key, 1)
	assert.ErrorIs(t, err, domain.ErrorOverflow)
	assert.Equal(t, uint64(math.MaxUint64), l.balance(key))

	_, err = l.tokens.MintTo(l.ctx, solana.NewWallet().PublicKey(), 1)
	assert.ErrorIs(t, err, domain.ErrorNotInitialized)

	_, err = l.tokens.FreezeTokenAccount(l.ctx, key)
	require.NoError(t, err)
	token, err := l.tokens.TokenAccount(l.ctx, key)
	require.NoError(t, err)
	assert.True(t, token.IsFrozen())
	assert.Equal(t, owner, token.Owner)

	_, err = l.tokens.MintTo(l.ctx, key, 1)
	assert.ErrorIs(t, err, domain.ErrorInvalidTokenAccountState)
}

func TestTokenInteractor_RecordKeysAreNotTokens(t *testing.T) {
	l := newTestLedger(t, 0)

	_, err := l.tokens.TokenAccount(l.ctx, l.pool)
	assert.ErrorIs(t, err, domain.ErrorWrongAccountKind)

	_, err = l.tokens.CreateTokenAccount(l.ctx, l.pool, l.mint, l.operator)
	assert.ErrorIs(t, err, domain.ErrorAlreadyInitialized)
}
