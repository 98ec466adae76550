package exported_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vestlock/vesting-actors/actors/builtin/exported"
	"github.com/vestlock/vesting-actors/support/mock"
)

func TestRegisteredActorExports(t *testing.T) {
	seen := map[string]bool{}
	for _, ba := range exported.BuiltinActors() {
		assert.True(t, ba.Code().Defined())
		assert.False(t, seen[ba.Code().String()], "duplicate actor code %v", ba.Code())
		seen[ba.Code().String()] = true

		mock.CheckActorExports(t, ba)
	}
}
