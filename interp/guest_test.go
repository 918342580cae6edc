package interp

import (
	"sort"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

// nullAttr makes an export return a packed zero.
type nullAttr struct{}

// trapAttr makes an export execute `unreachable`.
type trapAttr struct{}

// loopAttr makes an export spin forever.
type loopAttr struct{}

// buildGuest assembles a WebAssembly module that exports its memory and one
// nullary i64 function per attribute. Each function returns the packed
// location of the attribute's MessagePack payload in a data segment.
func buildGuest(t *testing.T, attrs map[string]any) []byte {
	t.Helper()

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		bodies   [][]byte
		segments [][]byte
		offset   = int64(16)
	)
	for _, name := range names {
		var body []byte
		switch v := attrs[name].(type) {
		case nullAttr:
			body = append([]byte{0x00, 0x42}, sleb(0)...)
			body = append(body, 0x0b)
		case trapAttr:
			body = []byte{0x00, 0x00, 0x0b}
		case loopAttr:
			// loop { br 0 } unreachable
			body = []byte{0x00, 0x03, 0x40, 0x0c, 0x00, 0x0b, 0x00, 0x0b}
		default:
			payload, err := msgpack.Marshal(v)
			if err != nil {
				t.Fatalf("encode %s: %v", name, err)
			}
			packed := offset<<32 | int64(len(payload))
			body = append([]byte{0x00, 0x42}, sleb(packed)...)
			body = append(body, 0x0b)

			seg := []byte{0x00, 0x41}
			seg = append(seg, sleb(offset)...)
			seg = append(seg, 0x0b)
			seg = append(seg, uleb(uint64(len(payload)))...)
			seg = append(seg, payload...)
			segments = append(segments, seg)
			offset += int64(len(payload))
		}
		bodies = append(bodies, append(uleb(uint64(len(body))), body...))
	}

	n := uint64(len(names))
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	// type: () -> i64
	out = append(out, section(0x01, vec(1, []byte{0x60, 0x00, 0x01, 0x7e}))...)

	funcs := make([][]byte, len(names))
	for i := range funcs {
		funcs[i] = []byte{0x00}
	}
	out = append(out, section(0x03, vec(n, funcs...))...)

	// one page of memory
	out = append(out, section(0x05, vec(1, []byte{0x00, 0x01}))...)

	exports := [][]byte{append(str("memory"), 0x02, 0x00)}
	for i, name := range names {
		e := append(str(name), 0x00)
		e = append(e, uleb(uint64(i))...)
		exports = append(exports, e)
	}
	out = append(out, section(0x07, vec(n+1, exports...))...)

	out = append(out, section(0x0a, vec(n, bodies...))...)
	if len(segments) > 0 {
		out = append(out, section(0x0b, vec(uint64(len(segments)), segments...))...)
	}
	return out
}

func section(id byte, content []byte) []byte {
	out := append([]byte{id}, uleb(uint64(len(content)))...)
	return append(out, content...)
}

func vec(n uint64, items ...[]byte) []byte {
	out := uleb(n)
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func str(s string) []byte {
	return append(uleb(uint64(len(s))), s...)
}

func uleb(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func sleb(v int64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}
