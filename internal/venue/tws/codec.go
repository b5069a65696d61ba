// Package tws implements the subset of the TWS socket protocol the gateway
// needs: the v100+ handshake, order placement with acknowledgment, and the
// position / account-summary request cycles.
//
// Wire format: every frame is a 4-byte big-endian length prefix followed by
// NUL-separated string fields with a trailing NUL.
package tws

import (
	"bytes"
	"encoding/binary"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// maxFrameSize caps inbound frames so a corrupt length prefix cannot make
// the reader allocate unbounded memory.
const maxFrameSize = 1 << 20

// writeFrame encodes fields as a length-prefixed NUL-separated frame.
func writeFrame(w io.Writer, fields ...string) error {
	var payload bytes.Buffer
	for _, f := range fields {
		payload.WriteString(f)
		payload.WriteByte(0)
	}

	var head [4]byte
	binary.BigEndian.PutUint32(head[:], uint32(payload.Len()))
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	_, err := w.Write(payload.Bytes())
	return err
}

// readFrame reads one length-prefixed frame and splits it into fields.
func readFrame(r io.Reader) ([]string, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(head[:])
	if size == 0 || size > maxFrameSize {
		return nil, errors.Errorf("bad frame size %d", size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	// Trailing NUL yields one empty trailing element; drop it.
	parts := bytes.Split(payload, []byte{0})
	if n := len(parts); n > 0 && len(parts[n-1]) == 0 {
		parts = parts[:n-1]
	}
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = string(p)
	}
	return fields, nil
}

// decoder walks the fields of one inbound frame with tolerant accessors:
// missing or malformed fields come back as zero values rather than panics,
// since field counts vary across server versions.
type decoder struct {
	fields []string
	pos    int
}

func newDecoder(fields []string) *decoder {
	return &decoder{fields: fields}
}

func (d *decoder) str() string {
	if d.pos >= len(d.fields) {
		return ""
	}
	s := d.fields[d.pos]
	d.pos++
	return s
}

func (d *decoder) int() int {
	v, _ := strconv.Atoi(d.str())
	return v
}

func (d *decoder) float() float64 {
	v, _ := strconv.ParseFloat(d.str(), 64)
	return v
}

// skip discards n fields.
func (d *decoder) skip(n int) {
	d.pos += n
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
