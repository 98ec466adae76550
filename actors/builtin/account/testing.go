package account

import (
	addr "github.com/filecoin-project/go-address"

	"github.com/vestlock/vesting-actors/actors/builtin"
)

type StateSummary struct {
	PubKeyAddr addr.Address
}

// Checks internal invariants of account state.
func CheckStateInvariants(st *State) (*StateSummary, *builtin.MessageAccumulator) {
	acc := &builtin.MessageAccumulator{}
	accountSummary := &StateSummary{
		PubKeyAddr: st.Address,
	}
	acc.Require(st.Address.Protocol() == addr.SECP256K1 || st.Address.Protocol() == addr.BLS,
		"account address %v must be BLS or SECP256K1 protocol", st.Address)
	return accountSummary, acc
}
