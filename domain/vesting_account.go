package domain

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

type VestingAccount struct {
	Owner solana.PublicKey

	Amount       uint64
	TokenAccount solana.PublicKey

	CreationDate    int64
	CliffDate       int64
	VestingDuration uint64
}

func (v *VestingAccount) Kind() AccountKind { return AccountVestingAccount }

func (v *VestingAccount) IndexRef() solana.PublicKey { return v.TokenAccount }

func (v *VestingAccount) Schedule() Schedule {
	return Schedule{
		InitialBalance:  v.Amount,
		CliffDate:       v.CliffDate,
		VestingDuration: v.VestingDuration,
	}
}

func (v *VestingAccount) MarshalWithEncoder(encoder *bin.Encoder) error {
	w := &writer{enc: encoder}
	w.key(v.Owner)
	w.u64(v.Amount)
	w.key(v.TokenAccount)
	w.i64(v.CreationDate)
	w.i64(v.CliffDate)
	w.u64(v.VestingDuration)
	return w.err
}

func (v *VestingAccount) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	r := &reader{dec: decoder}
	v.Owner = r.key()
	v.Amount = r.u64()
	v.TokenAccount = r.key()
	v.CreationDate = r.i64()
	v.CliffDate = r.i64()
	v.VestingDuration = r.u64()
	return r.err
}
