package vesting

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
)

// Event records appended to the runtime's observable event log for off-process
// monitoring. They carry no state semantics.

type ScheduleCreated struct {
	ID            ScheduleID
	Beneficiary   addr.Address
	Name          string
	Start         abi.ChainEpoch
	CliffOffset   abi.ChainEpoch
	Duration      abi.ChainEpoch
	SliceInterval abi.ChainEpoch
	Revocable     bool
	Amount        abi.TokenAmount
}

type TokensReleased struct {
	ID          ScheduleID
	Beneficiary addr.Address
	Name        string
	Amount      abi.TokenAmount
}

type ScheduleRevoked struct {
	ID               ScheduleID
	Beneficiary      addr.Address
	Name             string
	UnreleasedAmount abi.TokenAmount
}

type FundsWithdrawn struct {
	To     addr.Address
	Amount abi.TokenAmount
}
