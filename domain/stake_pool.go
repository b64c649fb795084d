package domain

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// ProgramConfig is the singular config record of the staking program.
type ProgramConfig struct {
	// Seconds it takes for stake to unbond.
	UnbondingTime uint64
	// Mint of the token that can be staked.
	StakingToken solana.PublicKey
}

func (c *ProgramConfig) Kind() AccountKind { return AccountProgramConfig }

func (c *ProgramConfig) MarshalWithEncoder(encoder *bin.Encoder) error {
	w := &writer{enc: encoder}
	w.u64(c.UnbondingTime)
	w.key(c.StakingToken)
	return w.err
}

func (c *ProgramConfig) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	r := &reader{dec: decoder}
	c.UnbondingTime = r.u64()
	c.StakingToken = r.key()
	return r.err
}

type StakePoolState uint8

const (
	StakePoolActive StakePoolState = iota
	StakePoolDeactivated
)

func (s StakePoolState) String() string {
	if s == StakePoolDeactivated {
		return "deactivated"
	}
	return "active"
}

type StakePool struct {
	Operator solana.PublicKey

	Name        string
	Description string
	Icon        string

	// Commission in bps
	Commission    uint16
	RewardAccount solana.PublicKey

	// Shares of the active (bonded) sub-pool and of the deactivating sub-pool.
	TotalShares          U128
	TotalSharesUnbonding U128

	State StakePoolState
}

func (p *StakePool) Kind() AccountKind { return AccountStakePool }

func (p *StakePool) IsActive() bool {
	return p.State == StakePoolActive
}

func (p *StakePool) MarshalWithEncoder(encoder *bin.Encoder) error {
	w := &writer{enc: encoder}
	w.key(p.Operator)
	w.str(p.Name)
	w.str(p.Description)
	w.str(p.Icon)
	w.u16(p.Commission)
	w.key(p.RewardAccount)
	w.u128(p.TotalShares)
	w.u128(p.TotalSharesUnbonding)
	w.u8(uint8(p.State))
	return w.err
}

func (p *StakePool) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	r := &reader{dec: decoder}
	p.Operator = r.key()
	p.Name = r.str()
	p.Description = r.str()
	p.Icon = r.str()
	p.Commission = r.u16()
	p.RewardAccount = r.key()
	p.TotalShares = r.u128()
	p.TotalSharesUnbonding = r.u128()
	p.State = StakePoolState(r.u8())
	return r.err
}
