package audiosource

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func encodeSamples(samples []int16) []byte {
	buf := new(bytes.Buffer)
	for _, s := range samples {
		binary.Write(buf, binary.LittleEndian, s)
	}
	return buf.Bytes()
}

func TestStreamSource_ReadsFullBuffer(t *testing.T) {
	want := []int16{-32768, 0, 1, 32767}
	src := NewStreamSource(bytes.NewReader(encodeSamples(want)), "test")

	got := make([]int16, len(want))
	n, err := src.Read(got)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != len(want) {
		t.Fatalf("n = %d, want %d", n, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestStreamSource_ShortReadAtEOF(t *testing.T) {
	want := []int16{1, 2, 3}
	src := NewStreamSource(bytes.NewReader(encodeSamples(want)), "test")

	buf := make([]int16, 5)
	n, err := src.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}

	n, err = src.Read(buf)
	if err != nil {
		t.Fatalf("Read at EOF: %v", err)
	}
	if n != 0 {
		t.Fatalf("n = %d, want 0 at EOF", n)
	}
}
