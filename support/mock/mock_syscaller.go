package mock

import (
	"fmt"

	"github.com/minio/blake2b-simd"

	"github.com/vestlock/vesting-actors/actors/runtime"
)

type HasherFunc func(data []byte) [32]byte

type syscaller struct {
	Hasher HasherFunc
}

var _ runtime.Syscalls = &syscaller{}

// Interface methods
func (s *syscaller) HashBlake2b(data []byte) [32]byte {
	if s.Hasher == nil {
		s.PanicOnUnsetFunc("Hasher")
	}
	return s.Hasher(data)
}

func (s *syscaller) PanicOnUnsetFunc(unsetFuncName string) {
	panic(fmt.Sprintf("no %s set", unsetFuncName))
}

// Hashes input data using blake2b with 256 bit output. The default hasher for new mocks.
func Blake2b(data []byte) [32]byte {
	return blake2b.Sum256(data)
}
