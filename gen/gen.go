package main

import (
	account "github.com/vestlock/vesting-actors/actors/builtin/account"
	vesting "github.com/vestlock/vesting-actors/actors/builtin/vesting"

	gen "github.com/whyrusleeping/cbor-gen"
)

func main() {
	if err := gen.WriteTupleEncodersToFile("./actors/builtin/account/cbor_gen.go", "account",
		// actor state
		account.State{},
	); err != nil {
		panic(err)
	}

	if err := gen.WriteTupleEncodersToFile("./actors/builtin/vesting/cbor_gen.go", "vesting",
		// actor state
		vesting.State{},
		vesting.VestingSchedule{},
		// method params
		vesting.ConstructorParams{},
		vesting.CreateScheduleParams{},
		vesting.ReleaseParams{},
		vesting.RevokeParams{},
		vesting.WithdrawUnreservedParams{},
		vesting.SetPauseStatusParams{},
		vesting.TransferAdminParams{},
		// method returns
		vesting.CreateScheduleReturn{},
		// events
		vesting.ScheduleCreated{},
		vesting.TokensReleased{},
		vesting.ScheduleRevoked{},
		vesting.FundsWithdrawn{},
	); err != nil {
		panic(err)
	}
}
