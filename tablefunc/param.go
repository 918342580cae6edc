package tablefunc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Param owns a bound parameter as a NUL-terminated byte sequence held in a
// reference-counted Arrow buffer. The contents never change after NewParam.
type Param struct {
	buf *memory.Buffer
}

// NewParam copies s into a buffer allocated from mem.
// Returns an error wrapping ErrAllocation if s contains a NUL byte,
// since it could not be represented as a NUL-terminated string.
func NewParam(mem memory.Allocator, s string) (*Param, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return nil, fmt.Errorf("%w: parameter has a NUL byte at offset %d", ErrAllocation, i)
	}

	buf := memory.NewResizableBuffer(mem)
	buf.Resize(len(s) + 1)
	b := buf.Bytes()
	copy(b, s)
	b[len(s)] = 0

	return &Param{buf: buf}, nil
}

// Len returns the parameter length in bytes, without the terminator.
func (p *Param) Len() int {
	return p.buf.Len() - 1
}

// Bytes returns the parameter without the terminator.
// The slice is valid while the caller holds a reference.
func (p *Param) Bytes() []byte {
	return p.buf.Bytes()[:p.Len()]
}

// Text returns the parameter as a string.
// Returns an error wrapping ErrEncoding if it is not valid UTF-8.
func (p *Param) Text() (string, error) {
	b := p.Bytes()
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: parameter is not valid UTF-8", ErrEncoding)
	}
	return string(b), nil
}

// Retain adds a reference.
func (p *Param) Retain() {
	p.buf.Retain()
}

// Release drops a reference. The buffer returns to its allocator when the
// last reference is dropped.
func (p *Param) Release() {
	p.buf.Release()
}
