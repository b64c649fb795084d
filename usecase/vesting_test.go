package usecase

import (
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staking/domain"
)

func (l *testLedger) newVestingAccount(owner solana.PublicKey, amount uint64, cliff int64, duration uint64) (solana.PublicKey, solana.PublicKey) {
	l.t.Helper()
	custody := l.newToken(l.vestingSigner(), amount)
	key := solana.NewWallet().PublicKey()
	_, err := l.vesting.CreateVestingAccount(l.ctx, key, custody, owner, cliff, duration)
	require.NoError(l.t, err)
	return key, custody
}

func TestVestingInteractor_Lifecycle(t *testing.T) {
	l := newTestLedger(t, 0)
	owner := solana.NewWallet().PublicKey()
	key, custody := l.newVestingAccount(owner, 1000, 2000, 1000)
	destination := l.newToken(owner, 0)

	account, err := l.vesting.VestingAccount(l.ctx, key)
	require.NoError(t, err)
	assert.Equal(t, &domain.VestingAccount{
		Owner:           owner,
		Amount:          1000,
		TokenAccount:    custody,
		CreationDate:    1000,
		CliffDate:       2000,
		VestingDuration: 1000,
	}, account)

	l.clock.now = 1500
	receipt, err := l.vesting.ClaimTokens(l.ctx, owner, key, destination)
	require.NoError(t, err)
	assert.Empty(t, receipt.Movements)
	assert.Zero(t, l.balance(destination))

	l.clock.now = 2250
	status, err := l.vesting.VestingStatus(l.ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(2250), status.Time)
	assert.Equal(t, uint64(1000), status.Balance)
	assert.Equal(t, uint64(250), status.Unlocked)
	assert.Equal(t, uint64(250), status.Claimable)

	receipt, err = l.vesting.ClaimTokens(l.ctx, owner, key, destination)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), receipt.Moved())
	assert.Equal(t, uint64(750), l.balance(custody))

	receipt, err = l.vesting.ClaimTokens(l.ctx, owner, key, destination)
	require.NoError(t, err)
	assert.Empty(t, receipt.Movements)

	newOwner := solana.NewWallet().PublicKey()
	_, err = l.vesting.TransferOwnership(l.ctx, solana.NewWallet().PublicKey(), key, newOwner)
	assert.ErrorIs(t, err, domain.ErrorInvalidOwner)
	_, err = l.vesting.TransferOwnership(l.ctx, owner, key, newOwner)
	require.NoError(t, err)
	_, err = l.vesting.ClaimTokens(l.ctx, owner, key, destination)
	assert.ErrorIs(t, err, domain.ErrorInvalidOwner)

	l.clock.now = 2999
	_, err = l.vesting.CloseVestingAccount(l.ctx, newOwner, key, destination)
	assert.ErrorIs(t, err, domain.ErrorNotVested)

	l.clock.now = 3000
	receipt, err = l.vesting.CloseVestingAccount(l.ctx, newOwner, key, destination)
	require.NoError(t, err)
	assert.Equal(t, uint64(750), receipt.Moved())
	assert.Equal(t, uint64(1000), l.balance(destination))

	_, err = l.vesting.VestingAccount(l.ctx, key)
	assert.ErrorIs(t, err, domain.ErrorNotInitialized)
	_, err = l.tokens.TokenAccount(l.ctx, custody)
	assert.ErrorIs(t, err, domain.ErrorNotInitialized)
}

func TestVestingInteractor_ExtraTokensAreClaimable(t *testing.T) {
	l := newTestLedger(t, 0)
	owner := solana.NewWallet().PublicKey()
	key, custody := l.newVestingAccount(owner, 1000, 2000, 1000)

	_, err := l.tokens.MintTo(l.ctx, custody, 100)
	require.NoError(t, err)

	l.clock.now = 2250
	status, err := l.vesting.VestingStatus(l.ctx, key)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), status.Unlocked)
	assert.Equal(t, uint64(350), status.Claimable)

	destination := l.newToken(owner, 0)
	_, err = l.vesting.ClaimTokens(l.ctx, owner, key, destination)
	require.NoError(t, err)
	assert.Equal(t, uint64(350), l.balance(destination))
	assert.Equal(t, uint64(750), l.balance(custody))
}

func TestVestingInteractor_CreateValidatesCustody(t *testing.T) {
	l := newTestLedger(t, 0)
	owner := solana.NewWallet().PublicKey()

	_, err := l.vesting.CreateVestingAccount(l.ctx, solana.NewWallet().PublicKey(), l.newToken(l.stakeSigner(), 10), owner, 2000, 1000)
	assert.ErrorIs(t, err, domain.ErrorInvalidOwner)

	key, custody := l.newVestingAccount(owner, 10, 2000, 1000)
	_, err = l.vesting.CreateVestingAccount(l.ctx, solana.NewWallet().PublicKey(), custody, owner, 2000, 1000)
	assert.ErrorIs(t, err, domain.ErrorCustodyInUse)
	_, err = l.vesting.CreateVestingAccount(l.ctx, key, l.newToken(l.vestingSigner(), 10), owner, 2000, 1000)
	assert.ErrorIs(t, err, domain.ErrorAlreadyInitialized)

	_, err = l.vesting.CreateVestingAccount(l.ctx, solana.NewWallet().PublicKey(), l.newToken(l.vestingSigner(), 10), owner, math.MaxInt64, 10)
	assert.ErrorIs(t, err, domain.ErrorOverflow)
}

func TestVestingInteractor_CloseRequiresOwner(t *testing.T) {
	l := newTestLedger(t, 0)
	owner := solana.NewWallet().PublicKey()
	key, _ := l.newVestingAccount(owner, 10, 1000, 0)
	destination := l.newToken(owner, 0)

	_, err := l.vesting.CloseVestingAccount(l.ctx, solana.NewWallet().PublicKey(), key, destination)
	assert.ErrorIs(t, err, domain.ErrorInvalidOwner)

	_, err = l.vesting.CloseVestingAccount(l.ctx, owner, key, destination)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), l.balance(destination))
}
