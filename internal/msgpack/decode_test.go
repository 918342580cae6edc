package msgpack

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestDecodeValue(t *testing.T) {
	data, err := msgpack.Marshal("wasm 1.0")
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	v, err := DecodeValue(data)
	if err != nil {
		t.Fatalf("DecodeValue failed: %v", err)
	}
	if s, ok := v.(string); !ok || s != "wasm 1.0" {
		t.Errorf("DecodeValue() = %#v, want string", v)
	}
}

func TestDecodeEmpty(t *testing.T) {
	if _, err := DecodeValue(nil); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestDecodeGarbage(t *testing.T) {
	// 0xc1 is reserved and never valid.
	if _, err := DecodeValue([]byte{0xc1}); err == nil {
		t.Error("expected error for invalid MessagePack")
	}
}
