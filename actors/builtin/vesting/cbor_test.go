package vesting_test

import (
	"bytes"
	"testing"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestlock/vesting-actors/actors/builtin/vesting"
	"github.com/vestlock/vesting-actors/support/mock"
	tutil "github.com/vestlock/vesting-actors/support/testing"
)

func TestParamsSerialization(t *testing.T) {
	beneficiary := tutil.NewIDAddr(t, 101)
	id := vesting.ComputeScheduleID(beneficiary, 0, mock.Blake2b)

	t.Run("create params round-trip", func(t *testing.T) {
		params := vesting.CreateScheduleParams{
			Beneficiary:   beneficiary,
			Start:         abi.ChainEpoch(10),
			CliffOffset:   abi.ChainEpoch(5),
			Duration:      abi.ChainEpoch(100),
			SliceInterval: abi.ChainEpoch(10),
			Revocable:     true,
			Amount:        abi.NewTokenAmount(1000),
			Name:          "grant",
		}

		buf := bytes.Buffer{}
		require.NoError(t, params.MarshalCBOR(&buf))
		ser := buf.Bytes()
		assert.Equal(t, byte(0x88), ser[0]) // 8-field tuple

		var decoded vesting.CreateScheduleParams
		require.NoError(t, decoded.UnmarshalCBOR(bytes.NewReader(ser)))
		assert.Equal(t, params.Beneficiary, decoded.Beneficiary)
		assert.Equal(t, params.Start, decoded.Start)
		assert.Equal(t, params.CliffOffset, decoded.CliffOffset)
		assert.Equal(t, params.Duration, decoded.Duration)
		assert.Equal(t, params.SliceInterval, decoded.SliceInterval)
		assert.Equal(t, params.Revocable, decoded.Revocable)
		assert.True(t, params.Amount.Equals(decoded.Amount))
		assert.Equal(t, params.Name, decoded.Name)
	})

	t.Run("release event round-trip", func(t *testing.T) {
		event := vesting.TokensReleased{
			ID:          id,
			Beneficiary: beneficiary,
			Name:        "grant",
			Amount:      abi.NewTokenAmount(200),
		}

		buf := bytes.Buffer{}
		require.NoError(t, event.MarshalCBOR(&buf))

		var decoded vesting.TokensReleased
		require.NoError(t, decoded.UnmarshalCBOR(bytes.NewReader(buf.Bytes())))
		assert.True(t, event.ID.Equals(decoded.ID))
		assert.Equal(t, event.Beneficiary, decoded.Beneficiary)
		assert.Equal(t, event.Name, decoded.Name)
		assert.True(t, event.Amount.Equals(decoded.Amount))
	})

	t.Run("schedule id round-trip", func(t *testing.T) {
		buf := bytes.Buffer{}
		require.NoError(t, id.MarshalCBOR(&buf))

		var decoded vesting.ScheduleID
		require.NoError(t, decoded.UnmarshalCBOR(bytes.NewReader(buf.Bytes())))
		assert.True(t, id.Equals(decoded))
	})

	t.Run("schedule id rejects wrong length", func(t *testing.T) {
		truncated := vesting.ScheduleID(id[:16])
		buf := bytes.Buffer{}
		require.NoError(t, truncated.MarshalCBOR(&buf))

		var decoded vesting.ScheduleID
		err := decoded.UnmarshalCBOR(bytes.NewReader(buf.Bytes()))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "wrong length")
	})
}
