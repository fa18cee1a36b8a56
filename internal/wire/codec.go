package wire

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Encode serialises a Message for round-trip testing. Report core never
// ships messages off-host, so a real wire codec (protobuf and friends)
// would be unused weight; gob gives an honest byte round-trip with zero
// extra schema to maintain.
func Encode(msg *Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(msg); err != nil {
		return nil, fmt.Errorf("wire: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode.
func Decode(data []byte) (*Message, error) {
	var msg Message
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&msg); err != nil {
		return nil, fmt.Errorf("wire: decode: %w", err)
	}
	return &msg, nil
}
