package adt

import (
	"fmt"
	"io"

	vmr "github.com/vestlock/vesting-actors/actors/runtime"
)

// EmptyValue is the return type for actor methods with no meaningful return value.
type EmptyValue struct{}

var _ vmr.CBORMarshaler = (*EmptyValue)(nil)
var _ vmr.CBORUnmarshaler = (*EmptyValue)(nil)

// Empty is a convenient instance to pass where an empty parameter block is expected.
var Empty = &EmptyValue{}

// 0x80 is an empty list (major type 4 with zero length).
// This is encoded with empty-list since we use tuple-encoding for everything.
const emptyListEncoded = 0x80

func (EmptyValue) MarshalCBOR(w io.Writer) error {
	_, err := w.Write([]byte{emptyListEncoded})
	return err
}

func (EmptyValue) UnmarshalCBOR(r io.Reader) error {
	buf := make([]byte, 1)
	_, err := r.Read(buf)
	if err != nil {
		return err
	}
	if buf[0] != emptyListEncoded {
		return fmt.Errorf("invalid empty value %x", buf[0])
	}
	return nil
}
