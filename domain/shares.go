package domain

import (
	"github.com/holiman/uint256"
)

// SharesForDeposit returns the shares minted for depositing amount into a
// sub-pool. balance is the sub-pool token balance observed before the deposit
// is transferred in. An empty sub-pool mints one share per token.
func SharesForDeposit(amount uint64, totalShares U128, balance uint64) (U128, error) {
	if totalShares.IsZero() {
		return NewU128(amount), nil
	}
	if balance == 0 {
		return U128{}, ErrorEmptyPool
	}

	shares, overflow := new(uint256.Int).MulDivOverflow(uint256.NewInt(amount), &totalShares.v, uint256.NewInt(balance))
	if overflow {
		return U128{}, ErrorOverflow
	}
	return u128From(shares)
}

// AmountForShares returns the token amount paid out for redeeming shares from
// a sub-pool holding balance tokens against totalShares outstanding.
func AmountForShares(shares U128, totalShares U128, balance uint64) (uint64, error) {
	if totalShares.IsZero() {
		return 0, ErrorEmptyPool
	}
	if shares.Cmp(totalShares) > 0 {
		return 0, ErrorInsufficientFunds
	}

	amount, overflow := new(uint256.Int).MulDivOverflow(&shares.v, uint256.NewInt(balance), &totalShares.v)
	if overflow || !amount.IsUint64() {
		return 0, ErrorOverflow
	}
	return amount.Uint64(), nil
}
