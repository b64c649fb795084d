package domain

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
)

type MovementKind uint8

const (
	MovementTransfer MovementKind = iota
	MovementClose
)

// Movement is a token-ledger instruction decided by the ledger core. For a
// close, To receives the closed account's reserve and Amount is zero.
type Movement struct {
	Kind      MovementKind
	Amount    uint64
	From      solana.PublicKey
	To        solana.PublicKey
	Authority solana.PublicKey
}

func Transfer(amount uint64, from, to, authority solana.PublicKey) Movement {
	return Movement{Kind: MovementTransfer, Amount: amount, From: from, To: to, Authority: authority}
}

func Close(account, destination, authority solana.PublicKey) Movement {
	return Movement{Kind: MovementClose, From: account, To: destination, Authority: authority}
}

// Instruction builds the SPL token instruction carrying out the movement.
func (m Movement) Instruction() solana.Instruction {
	if m.Kind == MovementClose {
		return token.NewCloseAccountInstruction(m.From, m.To, m.Authority, nil).Build()
	}
	return token.NewTransferInstruction(m.Amount, m.From, m.To, m.Authority, nil).Build()
}

func (m Movement) String() string {
	if m.Kind == MovementClose {
		return fmt.Sprintf("close %s -> %s", m.From, m.To)
	}
	return fmt.Sprintf("transfer %d %s -> %s", m.Amount, m.From, m.To)
}
