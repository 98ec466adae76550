package vesting

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	cid "github.com/ipfs/go-cid"
	"golang.org/x/xerrors"

	"github.com/vestlock/vesting-actors/actors/util"
	"github.com/vestlock/vesting-actors/actors/util/adt"
)

// State is the root state object of the vesting actor.
//
// The schedule HAMT is the single owner of schedule records; the two secondary
// indexes are append-only multimaps holding identifiers only, never record data.
// An id, once inserted into an index, is never removed, even on revocation.
type State struct {
	// The admin identity: a single mutable slot, transferable only by the
	// current admin.
	Admin addr.Address

	// Suspends all mutating operations while leaving queries available.
	Paused bool

	// Re-entrancy guard for the token-moving operations. Set before the external
	// transfer of an in-flight operation, cleared after it returns; a nested
	// mutating call observing the flag fails fast.
	Locked bool

	// Sum over all live schedules of (Total - Released). Funds up to this amount
	// are spoken for and may not be withdrawn or committed to new schedules.
	ReservedPool abi.TokenAmount

	// Total number of schedules ever created (revoked ones included).
	ScheduleCount uint64

	// HAMT: ScheduleID -> VestingSchedule.
	Schedules cid.Cid

	// Multimap: beneficiary address -> ordered AMT of ScheduleID.
	ByBeneficiary cid.Cid

	// Multimap: schedule name -> ordered AMT of ScheduleID. Names are not unique.
	ByName cid.Cid
}

// ConstructState initializes empty state for the vesting actor.
func ConstructState(store adt.Store, admin addr.Address) (*State, error) {
	emptySchedules, err := adt.MakeEmptyMap(store)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty schedules map: %w", err)
	}
	emptyByBeneficiary, err := adt.MakeEmptyMultimap(store)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty beneficiary index: %w", err)
	}
	emptyByName, err := adt.MakeEmptyMultimap(store)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty name index: %w", err)
	}

	return &State{
		Admin:         admin,
		Paused:        false,
		Locked:        false,
		ReservedPool:  big.Zero(),
		ScheduleCount: 0,
		Schedules:     emptySchedules.Root(),
		ByBeneficiary: emptyByBeneficiary.Root(),
		ByName:        emptyByName.Root(),
	}, nil
}

//
// Read-only queries.
//

// GetSchedule returns the schedule recorded under an id, if any.
func (st *State) GetSchedule(store adt.Store, id ScheduleID) (*VestingSchedule, bool, error) {
	schedules := adt.AsMap(store, st.Schedules)

	var out VestingSchedule
	found, err := schedules.Get(id, &out)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to load schedule %v: %w", id, err)
	}
	if !found {
		return nil, false, nil
	}
	return &out, true, nil
}

// ScheduleCountForBeneficiary returns the number of schedules ever created for a
// beneficiary. This count is also the sequence number of the beneficiary's next
// schedule id.
func (st *State) ScheduleCountForBeneficiary(store adt.Store, beneficiary addr.Address) (uint64, error) {
	index := adt.AsMultimap(store, st.ByBeneficiary)
	return index.Count(adt.AddrKey(beneficiary))
}

// ScheduleIDForBeneficiaryAt returns the i'th schedule id recorded for a beneficiary,
// in creation order. The second return value is false if the index is out of bounds.
func (st *State) ScheduleIDForBeneficiaryAt(store adt.Store, beneficiary addr.Address, i uint64) (ScheduleID, bool, error) {
	index := adt.AsMultimap(store, st.ByBeneficiary)

	var id ScheduleID
	found, err := index.Get(adt.AddrKey(beneficiary), i, &id)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to load beneficiary index entry %d for %v: %w", i, beneficiary, err)
	}
	return id, found, nil
}

// ScheduleCountForName returns the number of schedules ever created with a name.
func (st *State) ScheduleCountForName(store adt.Store, name string) (uint64, error) {
	index := adt.AsMultimap(store, st.ByName)
	return index.Count(adt.StringKey(name))
}

// ScheduleIDForNameAt returns the i'th schedule id recorded under a name, in creation
// order. The second return value is false if the index is out of bounds.
func (st *State) ScheduleIDForNameAt(store adt.Store, name string, i uint64) (ScheduleID, bool, error) {
	index := adt.AsMultimap(store, st.ByName)

	var id ScheduleID
	found, err := index.Get(adt.StringKey(name), i, &id)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to load name index entry %d for %q: %w", i, name, err)
	}
	return id, found, nil
}

// UnreservedBalance returns the portion of the actor's balance not reserved for live
// schedules, available for new schedules or withdrawal.
func (st *State) UnreservedBalance(balance abi.TokenAmount) abi.TokenAmount {
	unreserved := big.Sub(balance, st.ReservedPool)
	util.AssertMsg(unreserved.GreaterThanEqual(big.Zero()),
		"reserved pool %v exceeds balance %v", st.ReservedPool, balance)
	return unreserved
}

//
// Mutations. These are deliberately unexported: schedule records are mutated only by
// the actor methods, never directly by callers.
//

// putNewSchedule records a schedule under an id that must not already be present,
// appends the id to both indexes, and bumps the schedule counter.
// The duplicate check is defensive: id derivation makes collisions all but impossible.
func (st *State) putNewSchedule(store adt.Store, id ScheduleID, schedule *VestingSchedule) error {
	schedules := adt.AsMap(store, st.Schedules)

	var existing VestingSchedule
	found, err := schedules.Get(id, &existing)
	if err != nil {
		return xerrors.Errorf("failed to check schedule %v: %w", id, err)
	}
	if found {
		return xerrors.Errorf("duplicate schedule id %v", id)
	}

	if err := schedules.Put(id, schedule); err != nil {
		return xerrors.Errorf("failed to put schedule %v: %w", id, err)
	}
	st.Schedules = schedules.Root()

	byBeneficiary := adt.AsMultimap(store, st.ByBeneficiary)
	if err := byBeneficiary.Add(adt.AddrKey(schedule.Beneficiary), id); err != nil {
		return xerrors.Errorf("failed to index schedule %v by beneficiary: %w", id, err)
	}
	st.ByBeneficiary = byBeneficiary.Root()

	byName := adt.AsMultimap(store, st.ByName)
	if err := byName.Add(adt.StringKey(schedule.Name), id); err != nil {
		return xerrors.Errorf("failed to index schedule %v by name: %w", id, err)
	}
	st.ByName = byName.Root()

	st.ScheduleCount++
	return nil
}

// mutateSchedule applies f to the schedule recorded under id and writes it back.
func (st *State) mutateSchedule(store adt.Store, id ScheduleID, f func(*VestingSchedule)) error {
	schedules := adt.AsMap(store, st.Schedules)

	var schedule VestingSchedule
	found, err := schedules.Get(id, &schedule)
	if err != nil {
		return xerrors.Errorf("failed to load schedule %v: %w", id, err)
	}
	if !found {
		return xerrors.Errorf("no schedule %v", id)
	}

	f(&schedule)

	if err := schedules.Put(id, &schedule); err != nil {
		return xerrors.Errorf("failed to store schedule %v: %w", id, err)
	}
	st.Schedules = schedules.Root()
	return nil
}
