package domain

import (
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"
)

// U128 is an unsigned 128-bit share quantity. The wrapped value never exceeds
// 128 bits; every operation that could leave that range is checked.
type U128 struct {
	v uint256.Int
}

func NewU128(x uint64) U128 {
	var u U128
	u.v.SetUint64(x)
	return u
}

func u128From(x *uint256.Int) (U128, error) {
	if x.BitLen() > 128 {
		return U128{}, ErrorOverflow
	}
	return U128{v: *x}, nil
}

// Int returns a copy of the value as a 256-bit integer.
func (u U128) Int() *uint256.Int {
	return new(uint256.Int).Set(&u.v)
}

func (u U128) IsZero() bool {
	return u.v.IsZero()
}

func (u U128) Cmp(o U128) int {
	return u.v.Cmp(&o.v)
}

func (u U128) Add(o U128) (U128, error) {
	z, overflow := new(uint256.Int).AddOverflow(&u.v, &o.v)
	if overflow {
		return U128{}, ErrorOverflow
	}
	return u128From(z)
}

func (u U128) Sub(o U128) (U128, error) {
	z, underflow := new(uint256.Int).SubOverflow(&u.v, &o.v)
	if underflow {
		return U128{}, ErrorOverflow
	}
	return U128{v: *z}, nil
}

func (u U128) Big() *big.Int {
	return u.v.ToBig()
}

func (u U128) String() string {
	return u.v.Dec()
}

func (u U128) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint64(u.v[0], bin.LE); err != nil {
		return err
	}
	return encoder.WriteUint64(u.v[1], bin.LE)
}

func (u *U128) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	lo, err := decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	hi, err := decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	u.v = uint256.Int{lo, hi, 0, 0}
	return nil
}
