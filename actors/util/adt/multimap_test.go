package adt_test

import (
	"context"
	"testing"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestlock/vesting-actors/actors/util/adt"
	"github.com/vestlock/vesting-actors/support/mock"
	tutil "github.com/vestlock/vesting-actors/support/testing"
)

func newStore(t *testing.T) adt.Store {
	rt := mock.NewBuilder(context.Background(), tutil.NewIDAddr(t, 100)).Build(t)
	return adt.AsStore(rt)
}

func TestMultimapAddsValues(t *testing.T) {
	store := newStore(t)
	mm, err := adt.MakeEmptyMultimap(store)
	require.NoError(t, err)

	k := adt.StringKey("alpha")

	count, err := mm.Count(k)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	for i := int64(1); i <= 3; i++ {
		v := abi.NewTokenAmount(i * 100)
		require.NoError(t, mm.Add(k, &v))
	}

	count, err = mm.Count(k)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	// Values come back in insertion order.
	var v abi.TokenAmount
	for i := uint64(0); i < 3; i++ {
		found, err := mm.Get(k, i, &v)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, abi.NewTokenAmount(int64(i+1)*100), v)
	}

	found, err := mm.Get(k, 3, &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMultimapKeysAreIndependent(t *testing.T) {
	store := newStore(t)
	mm, err := adt.MakeEmptyMultimap(store)
	require.NoError(t, err)

	a := adt.StringKey("a")
	b := adt.StringKey("b")

	v1 := abi.NewTokenAmount(1)
	v2 := abi.NewTokenAmount(2)
	require.NoError(t, mm.Add(a, &v1))
	require.NoError(t, mm.Add(a, &v2))
	require.NoError(t, mm.Add(b, &v1))

	countA, err := mm.Count(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), countA)

	countB, err := mm.Count(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), countB)

	// Re-loading from the root sees the same contents.
	reloaded := adt.AsMultimap(store, mm.Root())
	var got abi.TokenAmount
	found, err := reloaded.Get(a, 1, &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, v2, got)
}

func TestMultimapIteration(t *testing.T) {
	store := newStore(t)
	mm, err := adt.MakeEmptyMultimap(store)
	require.NoError(t, err)

	k := adt.StringKey("k")
	for i := int64(0); i < 5; i++ {
		v := abi.NewTokenAmount(i)
		require.NoError(t, mm.Add(k, &v))
	}

	next := int64(0)
	var v abi.TokenAmount
	err = mm.ForEach(k, &v, func(i int64) error {
		assert.Equal(t, next, i)
		assert.Equal(t, abi.NewTokenAmount(i), v)
		next++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), next)
}
