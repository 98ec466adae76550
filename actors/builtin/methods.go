package builtin

import (
	"github.com/filecoin-project/go-state-types/abi"
)

const (
	MethodSend        = abi.MethodNum(0)
	MethodConstructor = abi.MethodNum(1)
)

type accMethods struct {
	Constructor   abi.MethodNum
	PubkeyAddress abi.MethodNum
}

var MethodsAccount = accMethods{MethodConstructor, 2}

type vestingMethods struct {
	Constructor           abi.MethodNum
	CreateVestingSchedule abi.MethodNum
	Release               abi.MethodNum
	Revoke                abi.MethodNum
	WithdrawUnreserved    abi.MethodNum
	SetPauseStatus        abi.MethodNum
	TransferAdmin         abi.MethodNum
}

var MethodsVesting = vestingMethods{MethodConstructor, 2, 3, 4, 5, 6, 7}
