package domain

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

type TokenAccountState uint8

const (
	TokenAccountUninitialized TokenAccountState = iota
	TokenAccountInitialized
	TokenAccountFrozen
)

// TokenAccount is the token-ledger view of a balance record. The ledger core
// reads it for validation and share conversion, and only changes it through
// movements.
type TokenAccount struct {
	Mint           solana.PublicKey
	Owner          solana.PublicKey
	Amount         uint64
	Delegate       *solana.PublicKey
	CloseAuthority *solana.PublicKey
	State          TokenAccountState
}

func (t *TokenAccount) Kind() AccountKind { return AccountToken }

func (t *TokenAccount) IsFrozen() bool {
	return t.State == TokenAccountFrozen
}

func (t *TokenAccount) MarshalWithEncoder(encoder *bin.Encoder) error {
	w := &writer{enc: encoder}
	w.key(t.Mint)
	w.key(t.Owner)
	w.u64(t.Amount)
	w.optionalKey(t.Delegate)
	w.optionalKey(t.CloseAuthority)
	w.u8(uint8(t.State))
	return w.err
}

func (t *TokenAccount) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	r := &reader{dec: decoder}
	t.Mint = r.key()
	t.Owner = r.key()
	t.Amount = r.u64()
	t.Delegate = r.optionalKey()
	t.CloseAuthority = r.optionalKey()
	t.State = TokenAccountState(r.u8())
	return r.err
}
