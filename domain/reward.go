package domain

import (
	"github.com/holiman/uint256"
)

// CommissionDenominator is the basis-point scale of a pool commission.
const CommissionDenominator = 10000

// RewardSplit is how a reward sitting in a pool's distribution account is
// divided between the operator and the stakers.
type RewardSplit struct {
	Operator uint64
	Stakers  uint64
}

// SplitReward gives the operator commission basis points of reward, rounded
// down, and leaves the remainder to the stakers.
func SplitReward(reward uint64, commission uint16) (RewardSplit, error) {
	if err := ValidateCommission(commission); err != nil {
		return RewardSplit{}, err
	}

	operator := new(uint256.Int).Mul(uint256.NewInt(reward), uint256.NewInt(uint64(commission)))
	operator.Div(operator, uint256.NewInt(CommissionDenominator))

	split := RewardSplit{Operator: operator.Uint64()}
	split.Stakers = reward - split.Operator
	return split, nil
}

func ValidateCommission(commission uint16) error {
	if commission > CommissionDenominator {
		return ErrorInvalidCommission
	}
	return nil
}
