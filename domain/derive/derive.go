// Package derive locates program-owned sub-accounts from seeds, so callers
// never need to store their addresses.
package derive

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"staking/domain"
)

const (
	SeedConfig              = "config"
	SeedStakeAccountCustody = "stake_account_custody"
	SeedStakePoolCustody    = "stake_pool_custody"
	SeedPoolStaking         = "pool_staking"
	SeedPoolDeactivating    = "pool_deactivating"
	SeedPoolDistribution    = "pool_distribution"
	SeedVestingCustody      = "custody"
)

// Deriver derives addresses owned by one program.
type Deriver struct {
	programID solana.PublicKey
}

func New(programID solana.PublicKey) *Deriver {
	return &Deriver{programID: programID}
}

func (d *Deriver) ProgramID() solana.PublicKey {
	return d.programID
}

// Address returns the program address for seeds.
func (d *Deriver) Address(seeds ...[]byte) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(seeds, d.programID)
	if err != nil {
		return solana.PublicKey{}, errors.Wrapf(err, "deriving address for %q", seeds)
	}
	return addr, nil
}

// Verify checks that supplied is the address derived from seeds.
func (d *Deriver) Verify(supplied solana.PublicKey, seeds ...[]byte) error {
	expected, err := d.Address(seeds...)
	if err != nil {
		return err
	}
	if !expected.Equals(supplied) {
		return errors.Wrapf(domain.ErrorInvalidDerivation, "%s, expected %s", supplied, expected)
	}
	return nil
}

func (d *Deriver) Config() (solana.PublicKey, error) {
	return d.Address([]byte(SeedConfig))
}

// StakeAccountCustodySigner owns every stake account custody token account.
func (d *Deriver) StakeAccountCustodySigner() (solana.PublicKey, error) {
	return d.Address([]byte(SeedStakeAccountCustody))
}

// StakePoolCustodySigner owns the custody token accounts of every pool.
func (d *Deriver) StakePoolCustodySigner() (solana.PublicKey, error) {
	return d.Address([]byte(SeedStakePoolCustody))
}

// VestingCustodySigner owns every vesting custody token account.
func (d *Deriver) VestingCustodySigner() (solana.PublicKey, error) {
	return d.Address([]byte(SeedVestingCustody))
}

// PoolCustody holds the three token accounts of a stake pool.
type PoolCustody struct {
	Staking      solana.PublicKey
	Deactivating solana.PublicKey
	Distribution solana.PublicKey
}

func (d *Deriver) PoolCustody(pool solana.PublicKey) (PoolCustody, error) {
	var custody PoolCustody
	var err error
	if custody.Staking, err = d.Address([]byte(SeedPoolStaking), pool[:]); err != nil {
		return custody, err
	}
	if custody.Deactivating, err = d.Address([]byte(SeedPoolDeactivating), pool[:]); err != nil {
		return custody, err
	}
	if custody.Distribution, err = d.Address([]byte(SeedPoolDistribution), pool[:]); err != nil {
		return custody, err
	}
	return custody, nil
}

// VerifyPoolCustody checks caller-supplied custody accounts against the ones
// derived for pool.
func (d *Deriver) VerifyPoolCustody(pool solana.PublicKey, supplied PoolCustody) error {
	if err := d.Verify(supplied.Staking, []byte(SeedPoolStaking), pool[:]); err != nil {
		return errors.Wrap(err, "staking custody")
	}
	if err := d.Verify(supplied.Deactivating, []byte(SeedPoolDeactivating), pool[:]); err != nil {
		return errors.Wrap(err, "deactivating custody")
	}
	if err := d.Verify(supplied.Distribution, []byte(SeedPoolDistribution), pool[:]); err != nil {
		return errors.Wrap(err, "distribution custody")
	}
	return nil
}
