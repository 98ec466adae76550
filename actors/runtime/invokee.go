package runtime

// Invokee is satisfied by all actor code types. It is merely a method dispatch table;
// the VM binds method numbers to the returned exports.
type Invokee interface {
	Exports() []interface{}
}
