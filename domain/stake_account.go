package domain

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// StakeAccountState is the staking lifecycle of a stake account. Exactly one
// of Unbonded, Bonded or Unbonding; the payload of a state is only reachable
// through a type switch on it.
type StakeAccountState interface {
	isStakeAccountState()
	String() string
}

type Unbonded struct{}

type Bonded struct {
	Pool solana.PublicKey
}

type Unbonding struct {
	// Pool the account is leaving
	Pool solana.PublicKey
	// Time when the unbonding will be completed
	UnbondingTime int64
	// Shares of the deactivating sub-pool
	UnbondingShares U128
}

func (Unbonded) isStakeAccountState()  {}
func (Bonded) isStakeAccountState()    {}
func (Unbonding) isStakeAccountState() {}

func (Unbonded) String() string    { return "unbonded" }
func (s Bonded) String() string    { return fmt.Sprintf("bonded(%s)", s.Pool) }
func (s Unbonding) String() string { return fmt.Sprintf("unbonding(%s)", s.Pool) }

// StakeAccountType tells plain token stake accounts from vesting ones.
type StakeAccountType interface {
	isStakeAccountType()
}

type Plain struct{}

type Vesting struct {
	Schedule
}

func (Plain) isStakeAccountType()   {}
func (Vesting) isStakeAccountType() {}

const (
	stateTagBonded uint8 = iota
	stateTagUnbonding
	stateTagUnbonded
)

const (
	typeTagPlain uint8 = iota
	typeTagVesting
)

type StakeAccount struct {
	Owner          solana.PublicKey
	CustodyAccount solana.PublicKey

	Type  StakeAccountType
	State StakeAccountState

	// Shares of the bonded pool's active sub-pool; zero unless Bonded.
	Shares U128
}

// NewStakeAccount returns an unbonded account.
func NewStakeAccount(owner, custody solana.PublicKey, accountType StakeAccountType) *StakeAccount {
	if accountType == nil {
		accountType = Plain{}
	}
	return &StakeAccount{
		Owner:          owner,
		CustodyAccount: custody,
		Type:           accountType,
		State:          Unbonded{},
	}
}

func (a *StakeAccount) Kind() AccountKind { return AccountStakeAccount }

func (a *StakeAccount) IndexRef() solana.PublicKey { return a.CustodyAccount }

// Schedule returns the vesting schedule of a vesting account.
func (a *StakeAccount) Schedule() (Schedule, bool) {
	if v, ok := a.Type.(Vesting); ok {
		return v.Schedule, true
	}
	return Schedule{}, false
}

func (a *StakeAccount) IsUnbonded() bool {
	_, ok := a.State.(Unbonded)
	return ok || a.State == nil
}

func (a *StakeAccount) MarshalWithEncoder(encoder *bin.Encoder) error {
	w := &writer{enc: encoder}
	w.key(a.Owner)
	w.key(a.CustodyAccount)

	switch t := a.Type.(type) {
	case Vesting:
		w.u8(typeTagVesting)
		w.u64(t.InitialBalance)
		w.i64(t.CliffDate)
		w.u64(t.VestingDuration)
	default:
		w.u8(typeTagPlain)
	}

	switch s := a.State.(type) {
	case Bonded:
		w.u8(stateTagBonded)
		w.key(s.Pool)
	case Unbonding:
		w.u8(stateTagUnbonding)
		w.key(s.Pool)
		w.i64(s.UnbondingTime)
		w.u128(s.UnbondingShares)
	default:
		w.u8(stateTagUnbonded)
	}

	w.u128(a.Shares)
	return w.err
}

func (a *StakeAccount) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	r := &reader{dec: decoder}
	a.Owner = r.key()
	a.CustodyAccount = r.key()

	switch tag := r.u8(); tag {
	case typeTagPlain:
		a.Type = Plain{}
	case typeTagVesting:
		a.Type = Vesting{Schedule{
			InitialBalance:  r.u64(),
			CliffDate:       r.i64(),
			VestingDuration: r.u64(),
		}}
	default:
		if r.err == nil {
			r.err = fmt.Errorf("unknown stake account type tag %d", tag)
		}
	}

	switch tag := r.u8(); tag {
	case stateTagBonded:
		a.State = Bonded{Pool: r.key()}
	case stateTagUnbonding:
		a.State = Unbonding{
			Pool:            r.key(),
			UnbondingTime:   r.i64(),
			UnbondingShares: r.u128(),
		}
	case stateTagUnbonded:
		a.State = Unbonded{}
	default:
		if r.err == nil {
			r.err = fmt.Errorf("unknown stake account state tag %d", tag)
		}
	}

	a.Shares = r.u128()
	return r.err
}
