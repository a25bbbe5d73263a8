package binary

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWriterAt(t *testing.T) {
	buf := &BufferWriterAt{}
	w := NewWriter(buf, DefaultConfig())

	w2 := w.At(16)
	if err := w2.WriteInts([]int64{7}); err != nil {
		t.Fatalf("WriteInts failed: %v", err)
	}
	if w.Pos() != 0 {
		t.Errorf("original writer moved to %d", w.Pos())
	}
	if w2.WordPos() != 3 {
		t.Errorf("expected word pos 3, got %d", w2.WordPos())
	}
	if len(buf.Bytes()) != 24 {
		t.Errorf("expected 24 bytes, got %d", len(buf.Bytes()))
	}
}

func TestWriterRoundTrip(t *testing.T) {
	for _, ws := range []int{4, 8} {
		cfg := Config{ByteOrder: binary.BigEndian, WordSize: ws}
		buf := &BufferWriterAt{}
		w := NewWriter(buf, cfg)
		if err := w.WriteInts([]int64{1, -2, 3}); err != nil {
			t.Fatalf("WriteInts failed: %v", err)
		}
		if err := w.WriteReals([]float64{0.25, -8}); err != nil {
			t.Fatalf("WriteReals failed: %v", err)
		}

		r := NewReader(buf, cfg)
		ints, err := r.ReadInts(3)
		if err != nil {
			t.Fatalf("ReadInts failed: %v", err)
		}
		reals, err := r.ReadReals(2)
		if err != nil {
			t.Fatalf("ReadReals failed: %v", err)
		}
		if ints[0] != 1 || ints[1] != -2 || ints[2] != 3 {
			t.Errorf("ws=%d: unexpected ints %v", ws, ints)
		}
		if reals[0] != 0.25 || reals[1] != -8 {
			t.Errorf("ws=%d: unexpected reals %v", ws, reals)
		}
	}
}

func TestWritePadding(t *testing.T) {
	cfg := DefaultConfig()
	buf := &BufferWriterAt{}
	w := NewWriter(buf, cfg)
	w.WriteBytes([]byte{1, 2, 3})

	if err := w.WritePadding(cfg.SectorBytes()); err != nil {
		t.Fatalf("WritePadding failed: %v", err)
	}
	if w.Pos() != 4096 {
		t.Errorf("expected pos 4096, got %d", w.Pos())
	}
	if !bytes.Equal(buf.Bytes()[3:4096], make([]byte, 4093)) {
		t.Error("padding is not zero")
	}

	if err := w.WritePadding(cfg.SectorBytes()); err != nil {
		t.Fatalf("WritePadding failed: %v", err)
	}
	if w.Pos() != 4096 {
		t.Errorf("aligned writer moved to %d", w.Pos())
	}
}
