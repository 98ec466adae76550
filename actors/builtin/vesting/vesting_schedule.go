package vesting

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"io"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	cbg "github.com/whyrusleeping/cbor-gen"
	"golang.org/x/xerrors"

	"github.com/vestlock/vesting-actors/actors/util"
)

// ScheduleID is the opaque 256-bit identifier of a vesting schedule, derived
// deterministically from the beneficiary and a per-beneficiary sequence number.
// It is immutable once assigned and keys the schedule HAMT.
type ScheduleID []byte

// ScheduleIDLength is the length in bytes of a schedule identifier (a blake2b-256 digest).
const ScheduleIDLength = 32

// ComputeScheduleID derives the identifier for the seq'th schedule of a beneficiary.
// The digest preimage is the beneficiary's canonical address bytes followed by the
// uvarint sequence number, so two distinct (beneficiary, seq) pairs cannot collide
// except with negligible probability. The sequence number for a beneficiary is always
// the count of schedules already recorded for it, so the next id is derivable from
// store state alone.
func ComputeScheduleID(beneficiary addr.Address, seq uint64, hash func([]byte) [32]byte) ScheduleID {
	benefBytes := beneficiary.Bytes()
	preimage := make([]byte, 0, len(benefBytes)+binary.MaxVarintLen64)
	preimage = append(preimage, benefBytes...)

	seqBuf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(seqBuf, seq)
	preimage = append(preimage, seqBuf[:n]...)

	digest := hash(preimage)
	return digest[:]
}

// Key adapts a schedule id as a HAMT key.
func (id ScheduleID) Key() string {
	return string(id)
}

func (id ScheduleID) Equals(other ScheduleID) bool {
	return bytes.Equal(id, other)
}

func (id ScheduleID) String() string {
	return hex.EncodeToString(id)
}

// The id serializes as a plain CBOR byte string so it can be stored directly as a
// multimap value.
func (id ScheduleID) MarshalCBOR(w io.Writer) error {
	scratch := make([]byte, 9)
	if err := cbg.WriteMajorTypeHeaderBuf(scratch, w, cbg.MajByteString, uint64(len(id))); err != nil {
		return err
	}
	_, err := w.Write(id)
	return err
}

func (id *ScheduleID) UnmarshalCBOR(r io.Reader) error {
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return err
	}
	if maj != cbg.MajByteString {
		return xerrors.Errorf("expected byte string for schedule id, got major type %d", maj)
	}
	if extra != ScheduleIDLength {
		return xerrors.Errorf("schedule id has wrong length %d", extra)
	}
	buf := make([]byte, extra)
	if _, err := io.ReadFull(br, buf); err != nil {
		return err
	}
	*id = buf
	return nil
}

// VestingSchedule is the sole persistent entity of the engine: a fixed quantity of
// tokens released gradually to a beneficiary, subject to a cliff and a per-slice
// release granularity.
//
// All fields except Released and Revoked are immutable once the schedule is created.
// Released is monotonically non-decreasing and never exceeds Total. Revoked is a
// terminal flag; a revoked schedule is never deleted and remains queryable through
// the indexes.
type VestingSchedule struct {
	// Distinguishes a recorded schedule from the zero value of an absent HAMT entry.
	Initialized bool

	// The recipient of released tokens. Always an ID-address.
	Beneficiary addr.Address

	// Free-form label, not required to be unique, used only for index lookup.
	Name string

	// Epoch at which vesting begins.
	Start abi.ChainEpoch
	// Offset from Start before which nothing is releasable.
	CliffOffset abi.ChainEpoch
	// Total vesting period; the schedule is fully vested at Start+Duration.
	Duration abi.ChainEpoch
	// Granularity of release: tokens vest only at whole multiples of this interval.
	SliceInterval abi.ChainEpoch

	// Total quantity to be released over the schedule's lifetime.
	Total abi.TokenAmount
	// Quantity already released.
	Released abi.TokenAmount

	// Whether the admin may revoke this schedule.
	Revocable bool
	// Set by a successful revocation. Terminal.
	Revoked bool
}

// CliffEpoch returns the epoch before which nothing vests.
func (s *VestingSchedule) CliffEpoch() abi.ChainEpoch {
	return s.Start + s.CliffOffset
}

// EndEpoch returns the epoch at which the schedule is fully vested.
func (s *VestingSchedule) EndEpoch() abi.ChainEpoch {
	return s.Start + s.Duration
}

// UnreleasedAmount returns the quantity not yet released, whether vested or not.
func (s *VestingSchedule) UnreleasedAmount() abi.TokenAmount {
	return big.Sub(s.Total, s.Released)
}

// ReleasableAt computes the quantity that may be released at the given epoch: the
// cumulative vested amount minus what has already been released.
//
// Vesting is not continuous: within the linear regime only whole completed slices
// count, so the elapsed time is rounded down to the last slice boundary before the
// proportional amount is taken. The multiplication is performed before the division
// to minimize precision loss (big.Int arithmetic cannot overflow).
func (s *VestingSchedule) ReleasableAt(now abi.ChainEpoch) abi.TokenAmount {
	if !s.Initialized || s.Revoked {
		return big.Zero()
	}
	if now < s.CliffEpoch() {
		return big.Zero()
	}
	if now >= s.EndEpoch() {
		return s.UnreleasedAmount()
	}

	elapsed := now - s.Start
	vestedEpochs := (elapsed / s.SliceInterval) * s.SliceInterval
	vested := big.Div(
		big.Mul(s.Total, big.NewInt(int64(vestedEpochs))),
		big.NewInt(int64(s.Duration)),
	)

	releasable := big.Sub(vested, s.Released)
	// Released never exceeds the vested amount while a schedule is live, so this
	// cannot go negative under maintained invariants.
	util.AssertMsg(releasable.GreaterThanEqual(big.Zero()),
		"released %v exceeds vested %v for schedule of %v", s.Released, vested, s.Beneficiary)
	return releasable
}
