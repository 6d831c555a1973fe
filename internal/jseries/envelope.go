// Package jseries implements the compact air-track wire format: a
// one-byte kind tag followed by a bit-packed, fixed-point quantized body.
package jseries

import (
	"fmt"

	"github.com/NsdHSO/ads/internal/bits"
)

// KindAirTrack tags an air-track report body on the wire.
const KindAirTrack byte = 0x32

// Message is a decoded wire message. Each implementation maps to exactly
// one kind byte.
type Message interface {
	Kind() byte
}

// Codec packs and unpacks the body of one message kind.
type Codec interface {
	EncodeBody(msg Message) ([]byte, error)
	DecodeBody(body []byte) (Message, error)
}

// UnsupportedKindError reports a kind byte with no registered codec.
type UnsupportedKindError struct {
	Kind byte
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported message kind: %#02x", e.Kind)
}

// codecs maps kind byte to body codec. Register during init only; the map
// is read without locking afterwards.
var codecs = map[byte]Codec{
	KindAirTrack: airTrackCodec{},
}

// Register adds a codec for a new kind. Existing kinds cannot be replaced.
func Register(kind byte, c Codec) error {
	if _, exists := codecs[kind]; exists {
		return fmt.Errorf("message kind %#02x already registered", kind)
	}
	codecs[kind] = c
	return nil
}

// Encode serializes a message as kind byte plus packed body. Encoding is
// all or nothing: on error no partial buffer is returned.
func Encode(msg Message) ([]byte, error) {
	c, ok := codecs[msg.Kind()]
	if !ok {
		return nil, &UnsupportedKindError{Kind: msg.Kind()}
	}

	body, err := c.EncodeBody(msg)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+len(body))
	out = append(out, msg.Kind())
	return append(out, body...), nil
}

// Decode reads the kind byte and delegates the remainder to the matching
// body codec. The input buffer is never mutated.
func Decode(buf []byte) (Message, error) {
	if len(buf) == 0 {
		return nil, &bits.ShortBufferError{NeededBits: 8, AvailableBits: 0}
	}

	c, ok := codecs[buf[0]]
	if !ok {
		return nil, &UnsupportedKindError{Kind: buf[0]}
	}
	return c.DecodeBody(buf[1:])
}
