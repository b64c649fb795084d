package derive

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staking/domain"
)

func TestDeriver_Deterministic(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	a := New(programID)
	b := New(programID)

	configA, err := a.Config()
	require.NoError(t, err)
	configB, err := b.Config()
	require.NoError(t, err)
	assert.Equal(t, configA, configB)
	assert.Equal(t, programID, a.ProgramID())

	expected, _, err := solana.FindProgramAddress([][]byte{[]byte(SeedConfig)}, programID)
	require.NoError(t, err)
	assert.Equal(t, expected, configA)
}

func TestDeriver_DistinctSigners(t *testing.T) {
	d := New(solana.NewWallet().PublicKey())

	cfg, err := d.Config()
	require.NoError(t, err)
	stakeSigner, err := d.StakeAccountCustodySigner()
	require.NoError(t, err)
	poolSigner, err := d.StakePoolCustodySigner()
	require.NoError(t, err)
	vestingSigner, err := d.VestingCustodySigner()
	require.NoError(t, err)

	keys := map[solana.PublicKey]bool{cfg: true, stakeSigner: true, poolSigner: true, vestingSigner: true}
	assert.Len(t, keys, 4)

	other, err := New(solana.NewWallet().PublicKey()).StakeAccountCustodySigner()
	require.NoError(t, err)
	assert.NotEqual(t, stakeSigner, other)
}

func TestDeriver_PoolCustody(t *testing.T) {
	d := New(solana.NewWallet().PublicKey())
	pool := solana.NewWallet().PublicKey()

	custody, err := d.PoolCustody(pool)
	require.NoError(t, err)
	assert.NotEqual(t, custody.Staking, custody.Deactivating)
	assert.NotEqual(t, custody.Staking, custody.Distribution)
	assert.NotEqual(t, custody.Deactivating, custody.Distribution)

	again, err := d.PoolCustody(pool)
	require.NoError(t, err)
	assert.Equal(t, custody, again)

	other, err := d.PoolCustody(solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.NotEqual(t, custody.Staking, other.Staking)

	require.NoError(t, d.Verify(custody.Staking, []byte(SeedPoolStaking), pool[:]))
}

func TestDeriver_Verify(t *testing.T) {
	d := New(solana.NewWallet().PublicKey())

	err := d.Verify(solana.NewWallet().PublicKey(), []byte(SeedConfig))
	assert.ErrorIs(t, err, domain.ErrorInvalidDerivation)
	assert.Equal(t, domain.KindIdentityMismatch, domain.KindOf(err))
}

func TestDeriver_VerifyPoolCustody(t *testing.T) {
	d := New(solana.NewWallet().PublicKey())
	pool := solana.NewWallet().PublicKey()
	custody, err := d.PoolCustody(pool)
	require.NoError(t, err)

	require.NoError(t, d.VerifyPoolCustody(pool, custody))

	swapped := custody
	swapped.Staking, swapped.Deactivating = custody.Deactivating, custody.Staking
	assert.ErrorIs(t, d.VerifyPoolCustody(pool, swapped), domain.ErrorInvalidDerivation)

	other, err := d.PoolCustody(solana.NewWallet().PublicKey())
	require.NoError(t, err)
	err = d.VerifyPoolCustody(pool, other)
	assert.ErrorIs(t, err, domain.ErrorInvalidDerivation)
	assert.Contains(t, err.Error(), "staking custody")

	mixed := custody
	mixed.Distribution = other.Distribution
	err = d.VerifyPoolCustody(pool, mixed)
	assert.ErrorIs(t, err, domain.ErrorInvalidDerivation)
	assert.Contains(t, err.Error(), "distribution custody")
}
