package adt

import (
	cid "github.com/ipfs/go-cid"
	errors "github.com/pkg/errors"
	cbg "github.com/whyrusleeping/cbor-gen"

	vmr "github.com/vestlock/vesting-actors/actors/runtime"
)

// Multimap stores multiple values per key in a HAMT of AMTs.
// The order of insertion of values for each key is retained, so it models an
// append-only index from a key to an ordered list of values.
type Multimap struct {
	mp *Map
}

// AsMultimap interprets a store as a HAMT-based map of AMTs with root `r`.
func AsMultimap(s Store, r cid.Cid) *Multimap {
	return &Multimap{AsMap(s, r)}
}

// MakeEmptyMultimap creates a new multimap backed by an empty HAMT and flushes it to
// the store.
func MakeEmptyMultimap(s Store) (*Multimap, error) {
	m, err := MakeEmptyMap(s)
	return &Multimap{m}, err
}

// Root returns the root cid of the underlying HAMT.
func (mm *Multimap) Root() cid.Cid {
	return mm.mp.Root()
}

// Add appends a value for a key.
func (mm *Multimap) Add(key Keyer, value vmr.CBORMarshaler) error {
	// Load the array under key, or initialize a new empty one if not found.
	array, found, err := mm.get(key)
	if err != nil {
		return err
	}
	if !found {
		array, err = MakeEmptyArray(mm.mp.store)
		if err != nil {
			return errors.Wrapf(err, "failed to initialize multimap array value under root %v", mm.mp.root)
		}
	}

	if err = array.Append(value); err != nil {
		return errors.Wrapf(err, "failed to add multimap key %v value %v", key, value)
	}

	// Store the new array root under key.
	newArrayRoot := cbg.CborCid(array.root)
	err = mm.mp.Put(key, &newArrayRoot)
	if err != nil {
		return errors.Wrapf(err, "failed to store multimap values")
	}
	return nil
}

// Count returns the number of values recorded for a key (zero for an absent key).
func (mm *Multimap) Count(key Keyer) (uint64, error) {
	array, found, err := mm.get(key)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return array.Length()
}

// Get deserializes the i'th value for a key into `out`, returning whether the key is
// present and the index within bounds.
func (mm *Multimap) Get(key Keyer, i uint64, out vmr.CBORUnmarshaler) (bool, error) {
	array, found, err := mm.get(key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return array.Get(i, out)
}

// ForEach iterates all entries for a key in the order they were inserted, deserializing
// each value in turn into `out` and then calling a function.
// Iteration halts if the function returns an error.
// If the output parameter is nil, deserialization is skipped.
func (mm *Multimap) ForEach(key Keyer, out vmr.CBORUnmarshaler, fn func(i int64) error) error {
	array, found, err := mm.get(key)
	if err != nil {
		return err
	}
	if found {
		return array.ForEach(out, fn)
	}
	return nil
}

// ForAll iterates all keys in the multimap, passing each key's value array to the
// given function.
func (mm *Multimap) ForAll(fn func(k string, arr *Array) error) error {
	var arrRoot cbg.CborCid
	return mm.mp.ForEach(&arrRoot, func(k string) error {
		arr := AsArray(mm.mp.store, cid.Cid(arrRoot))
		return fn(k, arr)
	})
}

func (mm *Multimap) get(key Keyer) (*Array, bool, error) {
	var arrayRoot cbg.CborCid
	found, err := mm.mp.Get(key, &arrayRoot)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to load multimap key %v", key)
	}
	var array *Array
	if found {
		array = AsArray(mm.mp.store, cid.Cid(arrayRoot))
	}
	return array, found, nil
}
