package vesting_test

import (
	"testing"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestlock/vesting-actors/actors/builtin/vesting"
	"github.com/vestlock/vesting-actors/support/mock"
	tutil "github.com/vestlock/vesting-actors/support/testing"
)

func makeSchedule(total int64, start, cliff, duration, slice abi.ChainEpoch) vesting.VestingSchedule {
	return vesting.VestingSchedule{
		Initialized:   true,
		Name:          "grant",
		Start:         start,
		CliffOffset:   cliff,
		Duration:      duration,
		SliceInterval: slice,
		Total:         abi.NewTokenAmount(total),
		Released:      big.Zero(),
		Revocable:     true,
	}
}

func TestReleasableAt(t *testing.T) {
	t.Run("nothing vests before the start", func(t *testing.T) {
		s := makeSchedule(1000, 50, 0, 100, 10)
		assert.Equal(t, big.Zero(), s.ReleasableAt(0))
		assert.Equal(t, big.Zero(), s.ReleasableAt(49))
	})

	t.Run("nothing vests before the cliff", func(t *testing.T) {
		s := makeSchedule(1000, 0, 30, 100, 10)
		assert.Equal(t, big.Zero(), s.ReleasableAt(29))
		// At the cliff, all slices completed so far vest at once.
		assert.Equal(t, abi.NewTokenAmount(300), s.ReleasableAt(30))
	})

	t.Run("vesting is granular to whole slices", func(t *testing.T) {
		s := makeSchedule(1000, 0, 0, 100, 10)
		assert.Equal(t, big.Zero(), s.ReleasableAt(0))
		assert.Equal(t, big.Zero(), s.ReleasableAt(9))
		assert.Equal(t, abi.NewTokenAmount(100), s.ReleasableAt(10))
		// Partial slices don't count: 25 elapsed rounds down to 20.
		assert.Equal(t, abi.NewTokenAmount(200), s.ReleasableAt(25))
		assert.Equal(t, abi.NewTokenAmount(900), s.ReleasableAt(99))
	})

	t.Run("fully vested at the end epoch regardless of slice alignment", func(t *testing.T) {
		s := makeSchedule(1000, 0, 0, 100, 30)
		// Last whole slice before the end covers 90 epochs.
		assert.Equal(t, abi.NewTokenAmount(900), s.ReleasableAt(99))
		assert.Equal(t, abi.NewTokenAmount(1000), s.ReleasableAt(100))
		assert.Equal(t, abi.NewTokenAmount(1000), s.ReleasableAt(1e6))
	})

	t.Run("cliff in the middle of a slice", func(t *testing.T) {
		s := makeSchedule(1000, 0, 15, 100, 10)
		assert.Equal(t, big.Zero(), s.ReleasableAt(14))
		// The cliff passed mid-slice; only the one whole slice counts.
		assert.Equal(t, abi.NewTokenAmount(100), s.ReleasableAt(15))
		assert.Equal(t, abi.NewTokenAmount(200), s.ReleasableAt(20))
	})

	t.Run("releasable is net of prior releases", func(t *testing.T) {
		s := makeSchedule(1000, 0, 0, 100, 10)
		assert.Equal(t, abi.NewTokenAmount(200), s.ReleasableAt(25))
		s.Released = abi.NewTokenAmount(200)
		releasable := s.ReleasableAt(25)
		assert.True(t, releasable.IsZero())
		assert.Equal(t, abi.NewTokenAmount(300), s.ReleasableAt(55))
		assert.Equal(t, abi.NewTokenAmount(800), s.ReleasableAt(200))
	})

	t.Run("releasable is monotonic in time for a fixed released amount", func(t *testing.T) {
		s := makeSchedule(1000, 20, 10, 130, 7)
		prev := big.Zero()
		for now := abi.ChainEpoch(0); now < 200; now++ {
			cur := s.ReleasableAt(now)
			assert.True(t, cur.GreaterThanEqual(prev), "releasable decreased from %v to %v at %d", prev, cur, now)
			prev = cur
		}
		assert.Equal(t, abi.NewTokenAmount(1000), prev)
	})

	t.Run("revoked and uninitialized schedules release nothing", func(t *testing.T) {
		s := makeSchedule(1000, 0, 0, 100, 10)
		s.Revoked = true
		assert.Equal(t, big.Zero(), s.ReleasableAt(1e6))

		var zero vesting.VestingSchedule
		assert.Equal(t, big.Zero(), zero.ReleasableAt(1e6))
	})
}

func TestComputeScheduleID(t *testing.T) {
	beneficiary := tutil.NewIDAddr(t, 101)
	other := tutil.NewIDAddr(t, 102)

	id0 := vesting.ComputeScheduleID(beneficiary, 0, mock.Blake2b)
	require.Len(t, []byte(id0), vesting.ScheduleIDLength)

	t.Run("deterministic", func(t *testing.T) {
		again := vesting.ComputeScheduleID(beneficiary, 0, mock.Blake2b)
		assert.True(t, id0.Equals(again))
	})

	t.Run("distinct per sequence number", func(t *testing.T) {
		id1 := vesting.ComputeScheduleID(beneficiary, 1, mock.Blake2b)
		assert.False(t, id0.Equals(id1))
	})

	t.Run("distinct per beneficiary", func(t *testing.T) {
		otherID := vesting.ComputeScheduleID(other, 0, mock.Blake2b)
		assert.False(t, id0.Equals(otherID))
	})
}
