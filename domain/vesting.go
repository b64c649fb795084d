package domain

import (
	"math"

	"github.com/holiman/uint256"
)

// Schedule is a linear unlock of InitialBalance that starts at CliffDate and
// completes VestingDuration seconds later.
type Schedule struct {
	InitialBalance  uint64
	CliffDate       int64
	VestingDuration uint64
}

// Unlocked returns the amount of initial released at time now.
func Unlocked(now int64, cliffDate int64, vestingDuration uint64, initial uint64) uint64 {
	if now < cliffDate {
		return 0
	}

	// now >= cliffDate, so the difference fits in 64 unsigned bits.
	elapsed := uint64(now) - uint64(cliffDate)
	if elapsed >= vestingDuration {
		return initial
	}

	unlocked := new(uint256.Int).Mul(uint256.NewInt(initial), uint256.NewInt(elapsed))
	unlocked.Div(unlocked, uint256.NewInt(vestingDuration))
	return unlocked.Uint64()
}

func (s Schedule) Unlocked(now int64) uint64 {
	return Unlocked(now, s.CliffDate, s.VestingDuration, s.InitialBalance)
}

// Locked returns the part of the initial balance still held back at now.
func (s Schedule) Locked(now int64) uint64 {
	return s.InitialBalance - s.Unlocked(now)
}

// Claimable returns what can leave a custody account holding balance at now.
// It equals unlocked minus the amount already moved out (initial - balance),
// computed as balance - locked so that tokens above the initial balance are
// never held back.
func (s Schedule) Claimable(now int64, balance uint64) uint64 {
	locked := s.Locked(now)
	if balance <= locked {
		return 0
	}
	return balance - locked
}

// MaturedAt returns cliff + duration, the first instant everything is unlocked.
func (s Schedule) MaturedAt() (int64, error) {
	if s.VestingDuration > math.MaxInt64 {
		return 0, ErrorOverflow
	}
	duration := int64(s.VestingDuration)
	if s.CliffDate > math.MaxInt64-duration {
		return 0, ErrorOverflow
	}
	return s.CliffDate + duration, nil
}

func (s Schedule) IsMatured(now int64) (bool, error) {
	maturedAt, err := s.MaturedAt()
	if err != nil {
		return false, err
	}
	return now >= maturedAt, nil
}

// AddDuration returns t + d, failing instead of wrapping.
func AddDuration(t int64, d uint64) (int64, error) {
	if d > math.MaxInt64 || t > math.MaxInt64-int64(d) {
		return 0, ErrorOverflow
	}
	return t + int64(d), nil
}
