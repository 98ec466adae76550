package vesting

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/vestlock/vesting-actors/actors/builtin"
	vmr "github.com/vestlock/vesting-actors/actors/runtime"
	"github.com/vestlock/vesting-actors/actors/util/adt"
)

// Actor-specific exit codes, starting at the first code reserved for actors.
const (
	// A mutating method was invoked while the engine is paused.
	ErrPaused = exitcode.ExitCode(32 + iota)
	// The schedule has been revoked and can release nothing further.
	ErrScheduleRevoked
	// Revocation was requested for a schedule created non-revocable.
	ErrNotRevocable
	// Revocation was requested for a schedule already revoked.
	ErrAlreadyRevoked
	// A release requested more than the currently vested, unreleased amount.
	ErrInsufficientReleasable
	// A guarded operation re-entered the engine while another was mid-transfer.
	ErrReentrantCall
)

type Actor struct{}

func (a Actor) Exports() []interface{} {
	return []interface{}{
		builtin.MethodConstructor: a.Constructor,
		2:                         a.CreateVestingSchedule,
		3:                         a.Release,
		4:                         a.Revoke,
		5:                         a.WithdrawUnreserved,
		6:                         a.SetPauseStatus,
		7:                         a.TransferAdmin,
	}
}

var _ vmr.Invokee = Actor{}

type Runtime = vmr.Runtime

type ConstructorParams struct {
	Admin addr.Address
}

func (a Actor) Constructor(rt Runtime, params *ConstructorParams) *adt.EmptyValue {
	rt.ValidateImmediateCallerIs(builtin.InitActorAddr)

	admin, ok := rt.ResolveAddress(params.Admin)
	if !ok {
		rt.Abortf(exitcode.ErrIllegalArgument, "cannot resolve admin address %v", params.Admin)
	}

	st, err := ConstructState(adt.AsStore(rt), admin)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to construct state")
	rt.State().Create(st)
	return nil
}

type CreateScheduleParams struct {
	Beneficiary   addr.Address
	Start         abi.ChainEpoch
	CliffOffset   abi.ChainEpoch
	Duration      abi.ChainEpoch
	SliceInterval abi.ChainEpoch
	Revocable     bool
	Amount        abi.TokenAmount
	Name          string
}

type CreateScheduleReturn struct {
	ID ScheduleID
}

// CreateVestingSchedule records a new schedule for a beneficiary and reserves its
// total amount out of the actor's unreserved balance. Admin only.
func (a Actor) CreateVestingSchedule(rt Runtime, params *CreateScheduleParams) *CreateScheduleReturn {
	var st State
	rt.State().Readonly(&st)
	rt.ValidateImmediateCallerIs(st.Admin)

	builtin.RequireParam(rt, params.Amount.GreaterThan(big.Zero()), "amount %v must be positive", params.Amount)
	builtin.RequireParam(rt, params.Duration > 0, "duration %d must be positive", params.Duration)
	builtin.RequireParam(rt, params.SliceInterval >= 1, "slice interval %d must be at least 1", params.SliceInterval)
	builtin.RequireParam(rt, params.Start >= 0, "negative start epoch %d", params.Start)
	builtin.RequireParam(rt, params.CliffOffset >= 0, "negative cliff offset %d", params.CliffOffset)
	builtin.RequireParam(rt, len(params.Name) > 0, "empty schedule name")
	builtin.RequireParam(rt, len(params.Name) <= ScheduleNameMaxLength, "schedule name exceeds %d bytes", ScheduleNameMaxLength)

	beneficiary, ok := rt.ResolveAddress(params.Beneficiary)
	if !ok {
		rt.Abortf(exitcode.ErrIllegalArgument, "cannot resolve beneficiary address %v", params.Beneficiary)
	}

	store := adt.AsStore(rt)
	var id ScheduleID
	rt.State().Transaction(&st, func() {
		requireNotPaused(rt, &st)
		requireNotLocked(rt, &st)

		unreserved := st.UnreservedBalance(rt.CurrentBalance())
		if params.Amount.GreaterThan(unreserved) {
			rt.Abortf(exitcode.ErrInsufficientFunds,
				"amount %v exceeds unreserved balance %v", params.Amount, unreserved)
		}

		seq, err := st.ScheduleCountForBeneficiary(store, beneficiary)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to count schedules for %v", beneficiary)

		id = ComputeScheduleID(beneficiary, seq, rt.Syscalls().HashBlake2b)
		schedule := VestingSchedule{
			Initialized:   true,
			Beneficiary:   beneficiary,
			Name:          params.Name,
			Start:         params.Start,
			CliffOffset:   params.CliffOffset,
			Duration:      params.Duration,
			SliceInterval: params.SliceInterval,
			Total:         params.Amount,
			Released:      big.Zero(),
			Revocable:     params.Revocable,
			Revoked:       false,
		}

		err = st.putNewSchedule(store, id, &schedule)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to record schedule %v", id)

		st.ReservedPool = big.Add(st.ReservedPool, params.Amount)
	})

	rt.EmitEvent(&ScheduleCreated{
		ID:            id,
		Beneficiary:   beneficiary,
		Name:          params.Name,
		Start:         params.Start,
		CliffOffset:   params.CliffOffset,
		Duration:      params.Duration,
		SliceInterval: params.SliceInterval,
		Revocable:     params.Revocable,
		Amount:        params.Amount,
	})
	return &CreateScheduleReturn{ID: id}
}

type ReleaseParams struct {
	ID     ScheduleID
	Amount abi.TokenAmount
}

// Release pays out part of a schedule's vested amount to its beneficiary.
// Callable by the beneficiary or the admin.
//
// The schedule and pool bookkeeping are committed before the outbound transfer, so a
// re-entrant call triggered by the transfer observes post-release state, never the
// pre-release one.
func (a Actor) Release(rt Runtime, params *ReleaseParams) *adt.EmptyValue {
	var st State
	rt.State().Readonly(&st)

	store := adt.AsStore(rt)
	schedule, found, err := st.GetSchedule(store, params.ID)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load schedule %v", params.ID)
	if !found {
		rt.Abortf(exitcode.ErrNotFound, "no schedule %v", params.ID)
	}
	rt.ValidateImmediateCallerIs(schedule.Beneficiary, st.Admin)

	builtin.RequireParam(rt, params.Amount.GreaterThan(big.Zero()), "amount %v must be positive", params.Amount)

	rt.State().Transaction(&st, func() {
		requireNotPaused(rt, &st)
		requireNotLocked(rt, &st)

		err := st.mutateSchedule(store, params.ID, func(s *VestingSchedule) {
			if s.Revoked {
				rt.Abortf(ErrScheduleRevoked, "schedule %v is revoked", params.ID)
			}
			releasable := s.ReleasableAt(rt.CurrEpoch())
			if params.Amount.GreaterThan(releasable) {
				rt.Abortf(ErrInsufficientReleasable,
					"amount %v exceeds releasable %v for schedule %v", params.Amount, releasable, params.ID)
			}
			s.Released = big.Add(s.Released, params.Amount)
		})
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to update schedule %v", params.ID)

		st.ReservedPool = big.Sub(st.ReservedPool, params.Amount)
		st.Locked = true
	})

	_, code := rt.Send(schedule.Beneficiary, builtin.MethodSend, nil, params.Amount)
	builtin.RequireSuccess(rt, code, "failed to transfer %v to %v", params.Amount, schedule.Beneficiary)

	rt.State().Transaction(&st, func() {
		st.Locked = false
	})

	rt.EmitEvent(&TokensReleased{
		ID:          params.ID,
		Beneficiary: schedule.Beneficiary,
		Name:        schedule.Name,
		Amount:      params.Amount,
	})
	return nil
}

type RevokeParams struct {
	ID ScheduleID
}

// Revoke terminates a revocable schedule: the currently vested amount is auto-released
// to the beneficiary, the remaining unreleased amount is forfeited back to the
// unreserved pool, and the schedule is marked revoked. Admin only.
//
// Revocation is terminal but not destructive: the record and its index entries remain
// queryable forever.
func (a Actor) Revoke(rt Runtime, params *RevokeParams) *adt.EmptyValue {
	var st State
	rt.State().Readonly(&st)
	rt.ValidateImmediateCallerIs(st.Admin)

	store := adt.AsStore(rt)
	schedule, found, err := st.GetSchedule(store, params.ID)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load schedule %v", params.ID)
	if !found {
		rt.Abortf(exitcode.ErrNotFound, "no schedule %v", params.ID)
	}

	vested := big.Zero()
	unreleased := big.Zero()
	rt.State().Transaction(&st, func() {
		requireNotPaused(rt, &st)
		requireNotLocked(rt, &st)

		err := st.mutateSchedule(store, params.ID, func(s *VestingSchedule) {
			if !s.Revocable {
				rt.Abortf(ErrNotRevocable, "schedule %v is not revocable", params.ID)
			}
			if s.Revoked {
				rt.Abortf(ErrAlreadyRevoked, "schedule %v already revoked", params.ID)
			}
			// Implicit release of everything vested so far, then forfeiture of the rest.
			vested = s.ReleasableAt(rt.CurrEpoch())
			s.Released = big.Add(s.Released, vested)
			unreleased = s.UnreleasedAmount()
			s.Revoked = true
		})
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to update schedule %v", params.ID)

		st.ReservedPool = big.Sub(st.ReservedPool, big.Add(vested, unreleased))
		st.Locked = true
	})

	if vested.GreaterThan(big.Zero()) {
		_, code := rt.Send(schedule.Beneficiary, builtin.MethodSend, nil, vested)
		builtin.RequireSuccess(rt, code, "failed to transfer %v to %v", vested, schedule.Beneficiary)
	}

	rt.State().Transaction(&st, func() {
		st.Locked = false
	})

	rt.EmitEvent(&ScheduleRevoked{
		ID:               params.ID,
		Beneficiary:      schedule.Beneficiary,
		Name:             schedule.Name,
		UnreleasedAmount: unreleased,
	})
	return nil
}

type WithdrawUnreservedParams struct {
	Amount abi.TokenAmount
}

// WithdrawUnreserved transfers part of the actor's balance not reserved for live
// schedules to the admin. Admin only.
func (a Actor) WithdrawUnreserved(rt Runtime, params *WithdrawUnreservedParams) *adt.EmptyValue {
	var st State
	rt.State().Readonly(&st)
	rt.ValidateImmediateCallerIs(st.Admin)

	builtin.RequireParam(rt, params.Amount.GreaterThan(big.Zero()), "amount %v must be positive", params.Amount)
	requireNotPaused(rt, &st)
	requireNotLocked(rt, &st)

	unreserved := st.UnreservedBalance(rt.CurrentBalance())
	if params.Amount.GreaterThan(unreserved) {
		rt.Abortf(exitcode.ErrInsufficientFunds,
			"amount %v exceeds unreserved balance %v", params.Amount, unreserved)
	}

	_, code := rt.Send(st.Admin, builtin.MethodSend, nil, params.Amount)
	builtin.RequireSuccess(rt, code, "failed to transfer %v to %v", params.Amount, st.Admin)

	rt.EmitEvent(&FundsWithdrawn{To: st.Admin, Amount: params.Amount})
	return nil
}

type SetPauseStatusParams struct {
	Paused bool
}

// SetPauseStatus flips the global pause flag. While paused, every mutating operation
// aborts; read-only queries stay available. Admin only, and deliberately not gated on
// the flag itself so the admin can always unpause.
func (a Actor) SetPauseStatus(rt Runtime, params *SetPauseStatusParams) *adt.EmptyValue {
	var st State
	rt.State().Readonly(&st)
	rt.ValidateImmediateCallerIs(st.Admin)

	rt.State().Transaction(&st, func() {
		st.Paused = params.Paused
	})
	return nil
}

type TransferAdminParams struct {
	To addr.Address
}

// TransferAdmin hands the admin slot to a new identity. Admin only.
func (a Actor) TransferAdmin(rt Runtime, params *TransferAdminParams) *adt.EmptyValue {
	var st State
	rt.State().Readonly(&st)
	rt.ValidateImmediateCallerIs(st.Admin)

	newAdmin, ok := rt.ResolveAddress(params.To)
	if !ok {
		rt.Abortf(exitcode.ErrIllegalArgument, "cannot resolve new admin address %v", params.To)
	}

	rt.State().Transaction(&st, func() {
		st.Admin = newAdmin
	})
	return nil
}

func requireNotPaused(rt Runtime, st *State) {
	if st.Paused {
		rt.Abortf(ErrPaused, "engine is paused")
	}
}

func requireNotLocked(rt Runtime, st *State) {
	if st.Locked {
		rt.Abortf(ErrReentrantCall, "re-entrant call while a transfer is in flight")
	}
}
