package domain

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

type AccountKind string

const (
	AccountProgramConfig  AccountKind = "program_config"
	AccountStakePool      AccountKind = "stake_pool"
	AccountStakeAccount   AccountKind = "stake_account"
	AccountVestingAccount AccountKind = "vesting_account"
	AccountToken          AccountKind = "token_account"
)

// Record is any ledger record that can be persisted as account data.
type Record interface {
	bin.BinaryMarshaler
	Kind() AccountKind
}

// Indexed records reference another account that can hold at most one record
// of their kind, such as a custody token account.
type Indexed interface {
	IndexRef() solana.PublicKey
}

// Account is a persisted record: its address, record type, the revision the
// store last wrote and the record's borsh data.
type Account struct {
	Key      solana.PublicKey
	Kind     AccountKind
	Revision uint64
	Ref      *solana.PublicKey
	Data     []byte
}

// NewAccount encodes rec for key. revision is the revision the record was
// read at, zero for a record that does not exist yet.
func NewAccount(key solana.PublicKey, rec Record, revision uint64) (*Account, error) {
	data, err := Encode(rec)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s %s", rec.Kind(), key)
	}

	account := &Account{
		Key:      key,
		Kind:     rec.Kind(),
		Revision: revision,
		Data:     data,
	}
	if indexed, ok := rec.(Indexed); ok {
		ref := indexed.IndexRef()
		account.Ref = &ref
	}
	return account, nil
}

// DecodeInto checks the account holds a record of kind and decodes it into u.
func (a *Account) DecodeInto(kind AccountKind, u bin.BinaryUnmarshaler) error {
	if a.Kind != kind {
		return errors.Wrapf(ErrorWrongAccountKind, "%s holds a %s, not a %s", a.Key, a.Kind, kind)
	}
	if err := Decode(a.Data, u); err != nil {
		return errors.Wrapf(err, "decoding %s %s", kind, a.Key)
	}
	return nil
}

// MarshalWithEncoder writes the account envelope, used by stores that keep
// accounts as opaque values.
func (a *Account) MarshalWithEncoder(encoder *bin.Encoder) error {
	w := &writer{enc: encoder}
	w.key(a.Key)
	w.str(string(a.Kind))
	w.u64(a.Revision)
	w.optionalKey(a.Ref)
	w.bytes(a.Data)
	return w.err
}

func (a *Account) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	r := &reader{dec: decoder}
	a.Key = r.key()
	a.Kind = AccountKind(r.str())
	a.Revision = r.u64()
	a.Ref = r.optionalKey()
	a.Data = r.bytes()
	return r.err
}

// Changeset is the complete set of writes of one operation. Stores apply it
// atomically: every upsert and delete, or none.
type Changeset struct {
	Upserts   []*Account
	Deletes   []*Account
	Movements []Movement
}

func (c *Changeset) IsEmpty() bool {
	return len(c.Upserts) == 0 && len(c.Deletes) == 0
}

// Put stages rec at key, guarded by the revision it was read at.
func (c *Changeset) Put(key solana.PublicKey, rec Record, revision uint64) error {
	account, err := NewAccount(key, rec, revision)
	if err != nil {
		return err
	}
	c.Upserts = append(c.Upserts, account)
	return nil
}

// Delete stages the removal of key, guarded by the revision it was read at.
func (c *Changeset) Delete(key solana.PublicKey, kind AccountKind, revision uint64) {
	c.Deletes = append(c.Deletes, &Account{Key: key, Kind: kind, Revision: revision})
}
