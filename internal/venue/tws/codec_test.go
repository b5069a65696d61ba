package tws

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		fields []string
	}{
		{"single field", []string{"15"}},
		{"message with payload", []string{"3", "1", "42", "AAPL", "STK"}},
		{"empty field preserved", []string{"61", "", "DU123"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeFrame(&buf, c.fields...); err != nil {
				t.Fatalf("writeFrame: %v", err)
			}
			got, err := readFrame(&buf)
			if err != nil {
				t.Fatalf("readFrame: %v", err)
			}
			if len(got) != len(c.fields) {
				t.Fatalf("got %d fields %v, want %d", len(got), got, len(c.fields))
			}
			for i := range got {
				if got[i] != c.fields[i] {
					t.Errorf("field %d: got %q want %q", i, got[i], c.fields[i])
				}
			}
		})
	}
}

func TestWriteFrameLengthPrefix(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFrame(&buf, "71", "2"); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	// "71\x002\x00" = 5 payload bytes behind a 4-byte big-endian prefix.
	if got := binary.BigEndian.Uint32(raw[:4]); got != 5 {
		t.Fatalf("length prefix = %d, want 5", got)
	}
	if !bytes.Equal(raw[4:], []byte("71\x002\x00")) {
		t.Fatalf("payload = %q", raw[4:])
	}
}

func TestReadFrameRejectsBadSizes(t *testing.T) {
	zero := make([]byte, 4)
	if _, err := readFrame(bytes.NewReader(zero)); err == nil {
		t.Error("zero-length frame accepted")
	}

	huge := make([]byte, 4)
	binary.BigEndian.PutUint32(huge, maxFrameSize+1)
	if _, err := readFrame(bytes.NewReader(huge)); err == nil {
		t.Error("oversized frame accepted")
	}
}

func TestReadFrameTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFrame(&buf, "3", "1"); err != nil {
		t.Fatal(err)
	}
	truncated := buf.Bytes()[:buf.Len()-2]
	if _, err := readFrame(bytes.NewReader(truncated)); err == nil {
		t.Error("truncated frame accepted")
	}
	if _, err := readFrame(bytes.NewReader(nil)); err != io.EOF {
		t.Errorf("empty stream: got %v, want io.EOF", err)
	}
}

func TestDecoderTolerance(t *testing.T) {
	d := newDecoder([]string{"9", "1", "42", "187.5", "not-a-number"})

	if got := d.int(); got != 9 {
		t.Errorf("int = %d, want 9", got)
	}
	d.skip(1)
	if got := d.int(); got != 42 {
		t.Errorf("int = %d, want 42", got)
	}
	if got := d.float(); got != 187.5 {
		t.Errorf("float = %v, want 187.5", got)
	}
	// Malformed numeric field reads as zero.
	if got := d.float(); got != 0 {
		t.Errorf("malformed float = %v, want 0", got)
	}

	// Past the end: zero values, no panic.
	if got := d.str(); got != "" {
		t.Errorf("exhausted str = %q, want empty", got)
	}
	if got := d.int(); got != 0 {
		t.Errorf("exhausted int = %d, want 0", got)
	}
}
