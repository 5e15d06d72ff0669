package udpnet

import (
	"bytes"
	"encoding/gob"
)

// Codec turns a message into a self-contained byte payload and back. An
// application can swap in its own codec (protobuf, JSON, whatever fits the
// wire) as long as one Encode call produces one complete datagram payload.
type Codec[M any] interface {
	Encode(message *M) ([]byte, error)
	Decode(data []byte) (M, error)
}

// gobCodec is the default Codec, encoding each message with encoding/gob.
type gobCodec[M any] struct{}

// GobCodec returns the default gob-based Codec for message type M.
func GobCodec[M any]() Codec[M] {
	return gobCodec[M]{}
}

func (gobCodec[M]) Encode(message *M) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(message); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobCodec[M]) Decode(data []byte) (M, error) {
	var message M
	err := gob.NewDecoder(bytes.NewReader(data)).Decode(&message)
	return message, err
}
