package exported

import (
	cid "github.com/ipfs/go-cid"

	"github.com/vestlock/vesting-actors/actors/builtin"
	"github.com/vestlock/vesting-actors/actors/builtin/account"
	"github.com/vestlock/vesting-actors/actors/builtin/vesting"
	vmr "github.com/vestlock/vesting-actors/actors/runtime"
)

var _ vmr.Invokee = BuiltinActor{}

type BuiltinActor struct {
	actor vmr.Invokee
	code  cid.Cid
}

// Code is the CodeID (cid) of the actor.
func (b BuiltinActor) Code() cid.Cid {
	return b.code
}

// Exports returns a slice of callable actor methods.
func (b BuiltinActor) Exports() []interface{} {
	return b.actor.Exports()
}

// BuiltinActors returns all the actors a VM must register to run the vesting engine.
func BuiltinActors() []BuiltinActor {
	return []BuiltinActor{
		{
			actor: account.Actor{},
			code:  builtin.AccountActorCodeID,
		},
		{
			actor: vesting.Actor{},
			code:  builtin.VestingActorCodeID,
		},
	}
}
