package runtime

import (
	"context"
	"io"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"
	cid "github.com/ipfs/go-cid"
)

// Runtime is the VM's internal runtime object exposed to actor code.
// It carries everything the vesting engine needs from its environment: the
// message context, the actor's token balance (the asset ledger), outbound
// transfers, the state handle, and the IPLD store.
type Runtime interface {
	// Information related to the current message being executed.
	Message() Message

	// The current chain epoch number, which acts as a proxy for time within the VM.
	// The genesis block has epoch zero.
	CurrEpoch() abi.ChainEpoch

	// Validates the caller against some predicate.
	// Exported actor methods must invoke exactly one caller validation before returning.
	ValidateImmediateCallerAcceptAny()
	ValidateImmediateCallerIs(addrs ...addr.Address)
	ValidateImmediateCallerType(types ...cid.Cid)

	// The balance of the receiver, including any value received with the current message.
	CurrentBalance() abi.TokenAmount

	// Resolves an address of any protocol to an ID address (via the state tree).
	ResolveAddress(address addr.Address) (addr.Address, bool)

	// Provides a handle for the actor's state object.
	State() StateHandle

	Store() Store

	// Sends a message to another actor, returning the exit code and return value envelope.
	// If the invoked method does not return successfully, its state changes (and those of
	// any messages it sent in turn) will be rolled back.
	Send(toAddr addr.Address, methodNum abi.MethodNum, params CBORMarshaler, value abi.TokenAmount) (SendReturn, exitcode.ExitCode)

	// Halts execution upon an error from which the receiver cannot recover.
	// The caller will receive the exit code and an empty return value.
	// State changes made within the aborted call will be rolled back.
	// This method does not return.
	// The message and args are for diagnostic purposes and do not persist on chain.
	Abortf(errExitCode exitcode.ExitCode, msg string, args ...interface{})

	// Appends a record to the receiver's observable event log.
	// Events are informational for off-chain consumers and carry no state semantics.
	EmitEvent(e CBORMarshaler)

	// Provides the system call interface.
	Syscalls() Syscalls

	// Provides a Go context for use by HAMT, etc.
	// The VM is intended to provide an idealised machine abstraction, so actor code
	// should not use this context directly.
	Context() context.Context
}

// Store defines the storage module exposed to actors.
type Store interface {
	// Retrieves and deserializes an object from the store into `o`. Returns whether successful.
	Get(c cid.Cid, o CBORUnmarshaler) bool
	// Serializes and stores an object, returning its CID.
	Put(x CBORMarshaler) cid.Cid
}

// Message contains information available to the actor about the executing message.
type Message interface {
	// The address of the immediate calling actor. Always an ID-address.
	Caller() addr.Address

	// The address of the actor receiving the message. Always an ID-address.
	Receiver() addr.Address

	// The value attached to the message being processed, implicitly added to
	// CurrentBalance() before method invocation.
	ValueReceived() abi.TokenAmount
}

// Pure functions implemented as primitives by the runtime.
type Syscalls interface {
	// Hashes input data using blake2b with 256 bit output.
	HashBlake2b(data []byte) [32]byte
}

// The return type from a message send from one actor to another. This abstracts over the
// internal representation of the return, in particular whether it has been serialized to
// bytes or just passed through. Production code is expected to de/serialize, but test and
// other code may pass the value straight through.
type SendReturn interface {
	Into(CBORUnmarshaler) error
}

// StateHandle provides mutable, exclusive access to actor state.
type StateHandle interface {
	// Create initializes the state object.
	// This is only valid in a constructor function and when the state has not yet
	// been initialized.
	Create(obj CBORMarshaler)

	// Readonly loads a readonly copy of the state into the argument.
	//
	// Any modification to the state is illegal and will result in an abort.
	Readonly(obj CBORUnmarshaler)

	// Transaction loads a mutable version of the state into the `obj` argument and
	// protects the execution from side effects (including message send).
	//
	// The second argument is a function which allows the caller to mutate the state.
	// If the state is modified after this function returns, execution will abort.
	Transaction(obj CBORer, f func())
}

// These interfaces are intended to match those from whyrusleeping/cbor-gen, such that
// code generated from that system is automatically usable here (but not mandatory).
type CBORMarshaler interface {
	MarshalCBOR(w io.Writer) error
}

type CBORUnmarshaler interface {
	UnmarshalCBOR(r io.Reader) error
}

type CBORer interface {
	CBORMarshaler
	CBORUnmarshaler
}

// Wraps already-serialized bytes as CBOR-marshalable.
type CBORBytes []byte

func (b CBORBytes) MarshalCBOR(w io.Writer) error {
	_, err := w.Write(b)
	return err
}
