package account_test

import (
	"context"
	"testing"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/stretchr/testify/assert"

	"github.com/vestlock/vesting-actors/actors/builtin"
	"github.com/vestlock/vesting-actors/actors/builtin/account"
	"github.com/vestlock/vesting-actors/support/mock"
	tutil "github.com/vestlock/vesting-actors/support/testing"
)

func TestExports(t *testing.T) {
	mock.CheckActorExports(t, account.Actor{})
}

func TestAccountActor(t *testing.T) {
	actor := account.Actor{}

	receiver := tutil.NewIDAddr(t, 100)
	builder := mock.NewBuilder(context.Background(), receiver).
		WithCaller(builtin.SystemActorAddr, builtin.SystemActorCodeID)

	testCases := []struct {
		desc    string
		addr    addr.Address
		code    exitcode.ExitCode
		payload []byte
	}{
		{
			desc: "happy path construct SECP256K1 address",
			addr: tutil.NewSECP256K1Addr(t, "secpaddress"),
			code: exitcode.Ok,
		},
		{
			desc: "happy path construct BLS address",
			addr: tutil.NewBLSAddr(t, 1),
			code: exitcode.Ok,
		},
		{
			desc: "fail to construct account actor using ID address",
			addr: tutil.NewIDAddr(t, 1),
			code: exitcode.ErrIllegalArgument,
		},
		{
			desc: "fail to construct account actor using Actor address",
			addr: tutil.NewActorAddr(t, "actoraddress"),
			code: exitcode.ErrIllegalArgument,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			rt := builder.Build(t)
			rt.ExpectValidateCallerAddr(builtin.SystemActorAddr)

			if tc.code.IsSuccess() {
				rt.Call(actor.Constructor, &tc.addr)

				var st account.State
				rt.GetState(&st)
				assert.Equal(t, tc.addr, st.Address)

				rt.ExpectValidateCallerAny()
				pubkeyAddress := rt.Call(actor.PubkeyAddress, nil).(*addr.Address)
				assert.Equal(t, tc.addr, *pubkeyAddress)

				_, msgs := account.CheckStateInvariants(&st)
				assert.True(t, msgs.IsEmpty())
			} else {
				rt.ExpectAbort(tc.code, func() {
					rt.Call(actor.Constructor, &tc.addr)
				})
			}
			rt.Verify()
		})
	}
}
