package account

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/vestlock/vesting-actors/actors/builtin"
	vmr "github.com/vestlock/vesting-actors/actors/runtime"
	"github.com/vestlock/vesting-actors/actors/util/adt"
)

// Actor is the account actor: the on-chain stand-in for an external signing party,
// such as the vesting admin or a schedule beneficiary.
type Actor struct{}

func (a Actor) Exports() []interface{} {
	return []interface{}{
		1: a.Constructor,
		2: a.PubkeyAddress,
	}
}

var _ vmr.Invokee = Actor{}

type State struct {
	Address addr.Address
}

// Account actors are created implicitly by sending a message to a pubkey-style address.
// This constructor will be invoked by the system actor, not by the init actor.
func (a Actor) Constructor(rt vmr.Runtime, address *addr.Address) *adt.EmptyValue {
	rt.ValidateImmediateCallerIs(builtin.SystemActorAddr)

	switch address.Protocol() {
	case addr.SECP256K1:
	case addr.BLS:
		break // ok
	default:
		rt.Abortf(exitcode.ErrIllegalArgument, "address must use BLS or SECP protocol, got %v", address.Protocol())
	}
	st := State{Address: *address}
	rt.State().Create(&st)
	return nil
}

// Fetches the pubkey-type address from this actor.
func (a Actor) PubkeyAddress(rt vmr.Runtime, _ *adt.EmptyValue) *addr.Address {
	rt.ValidateImmediateCallerAcceptAny()
	var st State
	rt.State().Readonly(&st)
	return &st.Address
}
