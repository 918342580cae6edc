// Package msgpack decodes MessagePack values that cross the guest module
// boundary.
// Guest exports return their attribute values MessagePack-encoded.
package msgpack

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// DecodeValue deserializes MessagePack data whose type is not known ahead.
// Strings decode to string, integers to int64/uint64 (or narrower), maps to
// map[string]any.
func DecodeValue(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty MessagePack data")
	}

	var result any
	if err := msgpack.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode MessagePack value: %w", err)
	}

	return result, nil
}
