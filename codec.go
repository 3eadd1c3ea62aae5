package weave

import (
	"github.com/openst/openst-weave/errors"
	amino "github.com/tendermint/go-amino"
)

// cdc is the binary codec shared by all models and messages. Messages are
// registered as concrete implementations of Msg so that an encoded message
// can be decoded without knowing its type upfront. This is what allows a
// contract to receive an opaque call payload.
var cdc = amino.NewCodec()

func init() {
	cdc.RegisterInterface((*Msg)(nil), nil)
}

// RegisterMsg makes the given message type known to the codec under the
// given name. Call it from init of the extension declaring the message.
// Names must be unique. Registering the same name twice panics.
func RegisterMsg(msg Msg, name string) {
	cdc.RegisterConcrete(msg, name, nil)
}

// EncodeMsg serializes a message together with its type prefix. The result
// can be decoded with DecodeMsg.
func EncodeMsg(msg Msg) ([]byte, error) {
	if msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	bz, err := cdc.MarshalBinaryBare(msg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrMsg, err.Error())
	}
	return bz, nil
}

// MustEncodeMsg is EncodeMsg that panics on failure. Useful in tests and
// when building payloads of well known messages.
func MustEncodeMsg(msg Msg) []byte {
	bz, err := EncodeMsg(msg)
	if err != nil {
		panic(err)
	}
	return bz
}

// DecodeMsg parses bytes created by EncodeMsg back into a message.
func DecodeMsg(raw []byte) (Msg, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "message payload")
	}
	var msg Msg
	if err := cdc.UnmarshalBinaryBare(raw, &msg); err != nil {
		return nil, errors.Wrap(errors.ErrMsg, err.Error())
	}
	return msg, nil
}

// MarshalBinary serializes a model or message without a type prefix. Use it
// to implement the Marshaller interface.
func MarshalBinary(obj interface{}) ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(obj)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return bz, nil
}

// UnmarshalBinary is the inverse of MarshalBinary. obj must be a pointer.
func UnmarshalBinary(raw []byte, obj interface{}) error {
	if err := cdc.UnmarshalBinaryBare(raw, obj); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}
