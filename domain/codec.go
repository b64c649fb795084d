package domain

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const keyLength = 32

// Record data is laid out with borsh: little-endian integers, u32
// length-prefixed strings, 32-byte keys and one-byte tags for optional values
// and enums.

type writer struct {
	enc *bin.Encoder
	err error
}

func (w *writer) u8(v uint8) {
	if w.err == nil {
		w.err = w.enc.WriteUint8(v)
	}
}

func (w *writer) u16(v uint16) {
	if w.err == nil {
		w.err = w.enc.WriteUint16(v, bin.LE)
	}
}

func (w *writer) u32(v uint32) {
	if w.err == nil {
		w.err = w.enc.WriteUint32(v, bin.LE)
	}
}

func (w *writer) u64(v uint64) {
	if w.err == nil {
		w.err = w.enc.WriteUint64(v, bin.LE)
	}
}

func (w *writer) i64(v int64) {
	if w.err == nil {
		w.err = w.enc.WriteInt64(v, bin.LE)
	}
}

func (w *writer) u128(v U128) {
	if w.err == nil {
		w.err = v.MarshalWithEncoder(w.enc)
	}
}

func (w *writer) raw(b []byte) {
	if w.err == nil {
		w.err = w.enc.WriteBytes(b, false)
	}
}

func (w *writer) bytes(b []byte) {
	w.u32(uint32(len(b)))
	w.raw(b)
}

func (w *writer) str(s string) {
	w.bytes([]byte(s))
}

func (w *writer) key(k solana.PublicKey) {
	w.raw(k[:])
}

func (w *writer) optionalKey(k *solana.PublicKey) {
	if k == nil {
		w.u8(0)
		return
	}
	w.u8(1)
	w.key(*k)
}

type reader struct {
	dec *bin.Decoder
	err error
}

func (r *reader) u8() (v uint8) {
	if r.err == nil {
		v, r.err = r.dec.ReadUint8()
	}
	return
}

func (r *reader) u16() (v uint16) {
	if r.err == nil {
		v, r.err = r.dec.ReadUint16(bin.LE)
	}
	return
}

func (r *reader) u32() (v uint32) {
	if r.err == nil {
		v, r.err = r.dec.ReadUint32(bin.LE)
	}
	return
}

func (r *reader) u64() (v uint64) {
	if r.err == nil {
		v, r.err = r.dec.ReadUint64(bin.LE)
	}
	return
}

func (r *reader) i64() (v int64) {
	if r.err == nil {
		v, r.err = r.dec.ReadInt64(bin.LE)
	}
	return
}

func (r *reader) u128() (v U128) {
	if r.err == nil {
		r.err = v.UnmarshalWithDecoder(r.dec)
	}
	return
}

func (r *reader) raw(n int) []byte {
	if r.err != nil {
		return nil
	}
	b, err := r.dec.ReadNBytes(n)
	if err != nil {
		r.err = err
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

func (r *reader) bytes() []byte {
	n := r.u32()
	return r.raw(int(n))
}

func (r *reader) str() string {
	return string(r.bytes())
}

func (r *reader) key() (k solana.PublicKey) {
	copy(k[:], r.raw(keyLength))
	return
}

func (r *reader) optionalKey() *solana.PublicKey {
	if r.u8() == 0 {
		return nil
	}
	k := r.key()
	return &k
}

// Encode returns the borsh layout of a record.
func Encode(m bin.BinaryMarshaler) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := m.MarshalWithEncoder(bin.NewBorshEncoder(buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode fills u from its borsh layout.
func Decode(data []byte, u bin.BinaryUnmarshaler) error {
	return u.UnmarshalWithDecoder(bin.NewBorshDecoder(data))
}

// Size returns the logical size of a record, the figure handed to account
// provisioning.
func Size(m bin.BinaryMarshaler) (int, error) {
	data, err := Encode(m)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}
