package usecase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"staking/domain"
	"staking/domain/derive"
	"staking/infrastructure/boltstore"
)

const testUnbondingTime = 100

type fakeClock struct {
	now int64
}

func (c *fakeClock) Now() int64 { return c.now }

// testLedger is an initialized staking program with one active pool.
type testLedger struct {
	t     *testing.T
	ctx   context.Context
	store *boltstore.BoltStore
	clock *fakeClock

	staking *StakingInteractor
	vesting *VestingInteractor
	tokens  *TokenInteractor
	sync    *SyncInteractor

	stakingDeriver *derive.Deriver
	vestingDeriver *derive.Deriver

	mint     solana.PublicKey
	operator solana.PublicKey
	reward   solana.PublicKey
	pool     solana.PublicKey
	custody  derive.PoolCustody
}

func newTestLedger(t *testing.T, commission uint16) *testLedger {
	t.Helper()
	store, err := boltstore.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	l := &testLedger{
		t:              t,
		ctx:            context.Background(),
		store:          store,
		clock:          &fakeClock{now: 1000},
		stakingDeriver: derive.New(solana.NewWallet().PublicKey()),
		vestingDeriver: derive.New(solana.NewWallet().PublicKey()),
		mint:           solana.NewWallet().PublicKey(),
		operator:       solana.NewWallet().PublicKey(),
	}
	l.staking = NewStakingInteractor(store, l.clock, l.stakingDeriver)
	l.vesting = NewVestingInteractor(store, l.clock, l.vestingDeriver)
	l.tokens = NewTokenInteractor(store, l.clock)
	l.sync = NewSyncInteractor(l.staking)

	_, err = l.staking.Initialize(l.ctx, testUnbondingTime, l.mint)
	require.NoError(t, err)

	l.reward = l.newToken(l.operator, 0)
	l.pool = l.newPool(commission)
	l.custody, err = l.stakingDeriver.PoolCustody(l.pool)
	require.NoError(t, err)
	return l
}

func (l *testLedger) newPool(commission uint16) solana.PublicKey {
	l.t.Helper()
	pool := solana.NewWallet().PublicKey()
	_, err := l.staking.CreateStakePool(l.ctx, l.operator, pool, l.reward, PoolParams{
		Name:       "pool",
		Commission: commission,
	})
	require.NoError(l.t, err)
	return pool
}

func (l *testLedger) newMintToken(mint, owner solana.PublicKey, amount uint64) solana.PublicKey {
	l.t.Helper()
	key := solana.NewWallet().PublicKey()
	_, err := l.tokens.CreateTokenAccount(l.ctx, key, mint, owner)
	require.NoError(l.t, err)
	if amount > 0 {
		_, err = l.tokens.MintTo(l.ctx, key, amount)
		require.NoError(l.t, err)
	}
	return key
}

func (l *testLedger) newToken(owner solana.PublicKey, amount uint64) solana.PublicKey {
	l.t.Helper()
	return l.newMintToken(l.mint, owner, amount)
}

func (l *testLedger) stakeSigner() solana.PublicKey {
	l.t.Helper()
	signer, err := l.stakingDeriver.StakeAccountCustodySigner()
	require.NoError(l.t, err)
	return signer
}

func (l *testLedger) vestingSigner() solana.PublicKey {
	l.t.Helper()
	signer, err := l.vestingDeriver.VestingCustodySigner()
	require.NoError(l.t, err)
	return signer
}

// newStakeAccount creates a stake account over a custody funded with amount.
func (l *testLedger) newStakeAccount(owner solana.PublicKey, amount uint64, vesting *VestingTerms) solana.PublicKey {
	l.t.Helper()
	custody := l.newToken(l.stakeSigner(), amount)
	key := solana.NewWallet().PublicKey()
	_, err := l.staking.CreateStakeAccount(l.ctx, key, custody, owner, vesting)
	require.NoError(l.t, err)
	return key
}

func (l *testLedger) bonded(owner solana.PublicKey, amount uint64) solana.PublicKey {
	l.t.Helper()
	key := l.newStakeAccount(owner, amount, nil)
	_, err := l.staking.Bond(l.ctx, owner, key, l.pool)
	require.NoError(l.t, err)
	return key
}

func (l *testLedger) balance(key solana.PublicKey) uint64 {
	l.t.Helper()
	t, err := l.tokens.TokenAccount(l.ctx, key)
	require.NoError(l.t, err)
	return t.Amount
}

func (l *testLedger) stakeAccount(key solana.PublicKey) *domain.StakeAccount {
	l.t.Helper()
	account, err := l.staking.StakeAccount(l.ctx, key)
	require.NoError(l.t, err)
	return account
}

func (l *testLedger) stakePool(key solana.PublicKey) *domain.StakePool {
	l.t.Helper()
	pool, err := l.staking.StakePool(l.ctx, key)
	require.NoError(l.t, err)
	return pool
}

func (l *testLedger) revision(key solana.PublicKey) uint64 {
	l.t.Helper()
	account, err := l.store.Get(l.ctx, key)
	require.NoError(l.t, err)
	require.NotNil(l.t, account)
	return account.Revision
}

// distribute drops amount into the distribution account of the pool and
// syncs it.
func (l *testLedger) distribute(amount uint64) *Receipt {
	l.t.Helper()
	_, err := l.tokens.MintTo(l.ctx, l.custody.Distribution, amount)
	require.NoError(l.t, err)
	receipt, err := l.staking.SyncStakePool(l.ctx, l.pool)
	require.NoError(l.t, err)
	return receipt
}

func (l *testLedger) value(key solana.PublicKey) uint64 {
	l.t.Helper()
	account := l.stakeAccount(key)
	value, err := l.staking.PoolValue(l.ctx, l.pool, account.Shares)
	require.NoError(l.t, err)
	return value
}
