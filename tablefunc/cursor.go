package tablefunc

// Cursor gates the single row of one execution.
// Not safe for concurrent use: a cursor, like the InitData holding it, is
// owned by one goroutine. The rule is documented, not enforced at runtime.
type Cursor struct {
	exhausted bool
}

// Next reports whether a row should be produced and marks the cursor
// exhausted. Only the first call returns true.
func (c *Cursor) Next() bool {
	if c.exhausted {
		return false
	}
	c.exhausted = true
	return true
}

// Exhausted reports whether the row was already produced.
func (c *Cursor) Exhausted() bool {
	return c.exhausted
}
