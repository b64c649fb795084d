package usecase

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncInteractor_SyncAll(t *testing.T) {
	l := newTestLedger(t, 500)
	idle := l.newPool(0)
	key := l.bonded(solana.NewWallet().PublicKey(), 1000)

	synced, err := l.sync.SyncAll(l.ctx)
	require.NoError(t, err)
	assert.Zero(t, synced)

	_, err = l.tokens.MintTo(l.ctx, l.custody.Distribution, 200)
	require.NoError(t, err)

	synced, err = l.sync.SyncAll(l.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
	assert.Equal(t, uint64(10), l.balance(l.reward))
	assert.Equal(t, uint64(1190), l.value(key))
	assert.Zero(t, l.balance(l.custody.Distribution))

	snapshot, err := l.staking.PoolSnapshot(l.ctx, idle)
	require.NoError(t, err)
	assert.Zero(t, snapshot.StakingBalance)

	synced, err = l.sync.SyncAll(l.ctx)
	require.NoError(t, err)
	assert.Zero(t, synced)
}

func TestSyncInteractor_CanceledContext(t *testing.T) {
	l := newTestLedger(t, 0)
	ctx, cancel := context.WithCancel(l.ctx)
	cancel()

	_, err := l.sync.SyncAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
