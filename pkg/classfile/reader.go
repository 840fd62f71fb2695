package classfile

import (
	"encoding/binary"
	"fmt"
)

// FormatError indicates that the input is not a valid class file.
type FormatError struct {
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid class file at offset %d: %s", e.Offset, e.Reason)
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) fail(format string, args ...any) error {
	return &FormatError{
		Offset: r.pos,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (r *reader) need(n int) error {
	if n < 0 || len(r.data)-r.pos < n {
		return r.fail("unexpected end of data, need %d bytes but %d left", n, len(r.data)-r.pos)
	}
	return nil
}

func (r *reader) u1() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u2() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) u4() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

func (r *reader) skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}
