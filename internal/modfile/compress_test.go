package modfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
)

// compressor produces .wasm.zst fixtures.
type compressor struct {
	encoder *zstd.Encoder
}

func newCompressor() (*compressor, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	return &compressor{
		encoder: encoder,
	}, nil
}

func (c *compressor) Compress(data []byte) []byte {
	if len(data) == 0 {
		return []byte{}
	}
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data)/2))
}

func (c *compressor) Close() error {
	if c.encoder != nil {
		return c.encoder.Close()
	}
	return nil
}

// emptyModule is the smallest valid WebAssembly binary.
var emptyModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func TestDecode(t *testing.T) {
	c, err := newCompressor()
	if err != nil {
		t.Fatalf("newCompressor failed: %v", err)
	}
	defer c.Close()

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{name: "raw", data: emptyModule},
		{name: "zstd", data: c.Compress(emptyModule)},
		{name: "not wasm", data: []byte("#!/bin/sh"), wantErr: true},
		{name: "zstd not wasm", data: c.Compress([]byte("hello")), wantErr: true},
		{name: "empty", data: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Decode() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !bytes.Equal(got, emptyModule) {
				t.Errorf("Decode() = %x, want %x", got, emptyModule)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	c, err := newCompressor()
	if err != nil {
		t.Fatalf("newCompressor failed: %v", err)
	}
	defer c.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "sys.wasm.zst")
	if err := os.WriteFile(path, c.Compress(emptyModule), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(got, emptyModule) {
		t.Errorf("Load() = %x, want %x", got, emptyModule)
	}

	if _, err := Load(filepath.Join(dir, "missing.wasm")); err == nil {
		t.Error("expected error for missing file")
	}
}
