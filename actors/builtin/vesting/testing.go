package vesting

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"

	"github.com/vestlock/vesting-actors/actors/builtin"
	"github.com/vestlock/vesting-actors/actors/util/adt"
)

type StateSummary struct {
	ScheduleCount        uint64
	LiveScheduleCount    uint64
	RevokedScheduleCount uint64
	TotalReserved        abi.TokenAmount
	TotalReleased        abi.TokenAmount
}

// Checks internal invariants of vesting state.
func CheckStateInvariants(st *State, store adt.Store, balance abi.TokenAmount) (*StateSummary, *builtin.MessageAccumulator) {
	acc := &builtin.MessageAccumulator{}

	acc.Require(st.ReservedPool.GreaterThanEqual(big.Zero()), "negative reserved pool %v", st.ReservedPool)
	acc.Require(st.ReservedPool.LessThanEqual(balance), "reserved pool %v exceeds balance %v", st.ReservedPool, balance)
	acc.Require(!st.Locked, "re-entrancy lock held at rest")

	summary := &StateSummary{
		TotalReserved: st.ReservedPool,
		TotalReleased: big.Zero(),
	}

	// Walk all schedules, accumulating what the reserved pool ought to be.
	expectedReserved := big.Zero()
	schedules := adt.AsMap(store, st.Schedules)
	var schedule VestingSchedule
	err := schedules.ForEach(&schedule, func(key string) error {
		id := ScheduleID(key)
		acc.Require(len(id) == ScheduleIDLength, "schedule id %v has wrong length %d", id, len(id))

		acc.Require(schedule.Initialized, "schedule %v is not initialized", id)
		acc.Require(schedule.Beneficiary.Protocol() == addr.ID, "schedule %v beneficiary %v is not an ID-address", id, schedule.Beneficiary)
		acc.Require(len(schedule.Name) > 0, "schedule %v has empty name", id)
		acc.Require(len(schedule.Name) <= ScheduleNameMaxLength, "schedule %v name exceeds %d bytes", id, ScheduleNameMaxLength)
		acc.Require(schedule.Start >= 0, "schedule %v has negative start %d", id, schedule.Start)
		acc.Require(schedule.CliffOffset >= 0, "schedule %v has negative cliff offset %d", id, schedule.CliffOffset)
		acc.Require(schedule.Duration > 0, "schedule %v has non-positive duration %d", id, schedule.Duration)
		acc.Require(schedule.SliceInterval >= 1, "schedule %v has slice interval %d below 1", id, schedule.SliceInterval)
		acc.Require(schedule.Total.GreaterThan(big.Zero()), "schedule %v has non-positive total %v", id, schedule.Total)
		acc.Require(schedule.Released.GreaterThanEqual(big.Zero()), "schedule %v has negative released %v", id, schedule.Released)
		acc.Require(schedule.Released.LessThanEqual(schedule.Total), "schedule %v released %v exceeds total %v", id, schedule.Released, schedule.Total)

		summary.ScheduleCount++
		summary.TotalReleased = big.Add(summary.TotalReleased, schedule.Released)
		if schedule.Revoked {
			summary.RevokedScheduleCount++
		} else {
			summary.LiveScheduleCount++
			expectedReserved = big.Add(expectedReserved, schedule.UnreleasedAmount())
		}
		return nil
	})
	acc.Require(err == nil, "error iterating schedules: %v", err)

	acc.Require(st.ScheduleCount == summary.ScheduleCount,
		"schedule counter %d does not match records %d", st.ScheduleCount, summary.ScheduleCount)
	acc.Require(st.ReservedPool.Equals(expectedReserved),
		"reserved pool %v does not match sum of live unreleased amounts %v", st.ReservedPool, expectedReserved)

	checkIndexInvariants(st, store, adt.AsMultimap(store, st.ByBeneficiary), acc, func(id ScheduleID, s *VestingSchedule, key string) {
		acc.Require(adt.AddrKey(s.Beneficiary).Key() == key,
			"beneficiary index entry %v recorded under wrong key", id)
	})
	checkIndexInvariants(st, store, adt.AsMultimap(store, st.ByName), acc, func(id ScheduleID, s *VestingSchedule, key string) {
		acc.Require(s.Name == key, "name index entry %v recorded under name %q, schedule has %q", id, key, s.Name)
	})

	return summary, acc
}

// Checks that every id in an index resolves to a recorded schedule matching the index
// key, and that the index holds exactly one entry per schedule.
func checkIndexInvariants(st *State, store adt.Store, index *adt.Multimap, acc *builtin.MessageAccumulator,
	checkEntry func(id ScheduleID, s *VestingSchedule, key string)) {
	indexed := uint64(0)
	err := index.ForAll(func(key string, arr *adt.Array) error {
		var id ScheduleID
		return arr.ForEach(&id, func(i int64) error {
			indexed++
			schedule, found, err := st.GetSchedule(store, id)
			if err != nil {
				return err
			}
			acc.Require(found, "index entry %v has no schedule record", id)
			if found {
				checkEntry(id, schedule, key)
			}
			return nil
		})
	})
	acc.Require(err == nil, "error iterating index: %v", err)
	acc.Require(indexed == st.ScheduleCount, "index holds %d entries for %d schedules", indexed, st.ScheduleCount)
}
