package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlocked(t *testing.T) {
	tests := []struct {
		now      int64
		unlocked uint64
	}{
		{500, 0},
		{1000, 0},
		{1001, 1},
		{1500, 500},
		{1999, 999},
		{2000, 1000},
		{3000, 1000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.unlocked, Unlocked(tt.now, 1000, 1000, 1000), "now=%d", tt.now)
	}
}

func TestUnlocked_LargeBalance(t *testing.T) {
	// initial * elapsed overflows 64 bits; the result must still be exact.
	initial := uint64(math.MaxUint64)
	got := Unlocked(1, 0, 2, initial)
	assert.Equal(t, initial/2, got)
}

func TestUnlocked_ZeroDuration(t *testing.T) {
	assert.Equal(t, uint64(0), Unlocked(99, 100, 0, 50))
	assert.Equal(t, uint64(50), Unlocked(100, 100, 0, 50))
}

func TestSchedule_Claimable(t *testing.T) {
	s := Schedule{InitialBalance: 1000, CliffDate: 1000, VestingDuration: 1000}

	assert.Equal(t, uint64(0), s.Claimable(900, 1000))
	assert.Equal(t, uint64(500), s.Claimable(1500, 1000))

	// 200 already claimed: 300 more is available at the halfway point.
	assert.Equal(t, uint64(300), s.Claimable(1500, 800))

	// Everything above the locked part is free, including tokens that arrived
	// after the schedule was set up.
	assert.Equal(t, uint64(700), s.Claimable(1500, 1200))

	// Balance below the locked part releases nothing.
	assert.Equal(t, uint64(0), s.Claimable(1500, 400))
}

func TestSchedule_Maturity(t *testing.T) {
	s := Schedule{InitialBalance: 1, CliffDate: 1000, VestingDuration: 1000}

	matured, err := s.IsMatured(1999)
	require.NoError(t, err)
	assert.False(t, matured)

	matured, err = s.IsMatured(2000)
	require.NoError(t, err)
	assert.True(t, matured)

	s.CliffDate = math.MaxInt64 - 10
	_, err = s.MaturedAt()
	assert.ErrorIs(t, err, ErrorOverflow)
}

func TestAddDuration(t *testing.T) {
	deadline, err := AddDuration(100, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(150), deadline)

	_, err = AddDuration(math.MaxInt64, 1)
	assert.ErrorIs(t, err, ErrorOverflow)

	_, err = AddDuration(0, math.MaxUint64)
	assert.ErrorIs(t, err, ErrorOverflow)
}
