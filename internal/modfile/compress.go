// Package modfile reads guest WebAssembly modules from disk.
// Modules may be stored raw or ZStandard-compressed (.wasm.zst).
package modfile

import (
	"bytes"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic is the frame header of a ZStandard stream.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// wasmMagic is the preamble of a WebAssembly binary.
var wasmMagic = []byte{0x00, 0x61, 0x73, 0x6d}

// Decompressor handles ZStandard decompression.
// Create once and reuse to eliminate allocations.
type Decompressor struct {
	decoder *zstd.Decoder
}

// NewDecompressor creates a reusable ZStandard decompressor.
// Caller must call Close() when done to release resources.
func NewDecompressor() (*Decompressor, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &Decompressor{
		decoder: decoder,
	}, nil
}

// Decompress decompresses ZStandard data.
// Safe for concurrent use from multiple goroutines.
func (d *Decompressor) Decompress(compressed []byte) ([]byte, error) {
	if len(compressed) == 0 {
		return []byte{}, nil
	}

	decompressed, err := d.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}

	return decompressed, nil
}

// Close releases decompressor resources.
func (d *Decompressor) Close() {
	if d.decoder != nil {
		d.decoder.Close()
	}
}

// Decode returns the WebAssembly binary held in data, decompressing it
// first when it is a ZStandard frame. The result must start with the wasm
// preamble.
func Decode(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		d, err := NewDecompressor()
		if err != nil {
			return nil, err
		}
		defer d.Close()

		data, err = d.Decompress(data)
		if err != nil {
			return nil, err
		}
	}

	if !bytes.HasPrefix(data, wasmMagic) {
		return nil, fmt.Errorf("not a WebAssembly module")
	}
	return data, nil
}

// Load reads a module binary from path and decodes it with Decode.
func Load(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module: %w", err)
	}

	data, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", path, err)
	}
	return data, nil
}
