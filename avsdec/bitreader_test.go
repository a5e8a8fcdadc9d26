/*
DESCRIPTION
  bitreader_test.go exercises BitReader against hand-computed bit patterns.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

import "testing"

func TestBitReaderReadBits(t *testing.T) {
	// 1011 0110 1111 0000
	r := NewBitReader([]byte{0xB6, 0xF0})

	v, err := r.ReadBits(4)
	if err != nil || v != 0xB {
		t.Fatalf("ReadBits(4) = %#x, %v, want 0xb, nil", v, err)
	}
	v, err = r.ReadBits(8)
	if err != nil || v != 0x6F {
		t.Fatalf("ReadBits(8) = %#x, %v, want 0x6f, nil", v, err)
	}
	v, err = r.ReadBits(4)
	if err != nil || v != 0x0 {
		t.Fatalf("ReadBits(4) = %#x, %v, want 0x0, nil", v, err)
	}
	if _, err := r.ReadBits(1); err == nil {
		t.Fatal("expected error reading past end of buffer")
	}
}

func TestBitReaderRead1(t *testing.T) {
	r := NewBitReader([]byte{0x80})
	b, err := r.Read1()
	if err != nil || b != 1 {
		t.Fatalf("Read1() = %d, %v, want 1, nil", b, err)
	}
	for i := 0; i < 7; i++ {
		b, err := r.Read1()
		if err != nil || b != 0 {
			t.Fatalf("Read1() = %d, %v, want 0, nil", b, err)
		}
	}
}

func TestBitReaderByteAlign(t *testing.T) {
	r := NewBitReader([]byte{0xFF, 0x00})
	if !r.ByteAligned() {
		t.Fatal("expected fresh reader to be byte aligned")
	}
	if _, err := r.ReadBits(3); err != nil {
		t.Fatal(err)
	}
	if r.ByteAligned() {
		t.Fatal("expected reader to not be byte aligned after 3 bits")
	}
	r.MakeByteAligned()
	if !r.ByteAligned() {
		t.Fatal("expected reader to be byte aligned after MakeByteAligned")
	}
	if r.Off() != 8 {
		t.Fatalf("Off() = %d, want 8", r.Off())
	}
}

func TestBitReaderPeek32DoesNotAdvance(t *testing.T) {
	r := NewBitReader([]byte{0x12, 0x34, 0x56, 0x78, 0x9A})
	want := uint32(0x12345678)
	if got := r.Peek32(); got != want {
		t.Fatalf("Peek32() = %#x, want %#x", got, want)
	}
	if r.Off() != 0 {
		t.Fatalf("Peek32 must not advance cursor, Off() = %d", r.Off())
	}
}

func TestBitReaderPeek32PastEndZeroPads(t *testing.T) {
	r := NewBitReader([]byte{0xFF})
	if _, err := r.ReadBits(4); err != nil {
		t.Fatal(err)
	}
	want := uint32(0xF0000000)
	if got := r.Peek32(); got != want {
		t.Fatalf("Peek32() = %#x, want %#x", got, want)
	}
}

func TestBitReaderReadEGK0(t *testing.T) {
	// ue(v) codes (ones prefix): 0 -> 0, 100 -> 1, 101 -> 2, 11000 -> 3, 11001 -> 4
	cases := []struct {
		bits []byte
		nbit int
		want uint32
	}{
		{[]byte{0x00}, 1, 0},
		{[]byte{0x80}, 3, 1},
		{[]byte{0xA0}, 3, 2},
		{[]byte{0xC0}, 5, 3},
		{[]byte{0xC8}, 5, 4},
	}
	for _, c := range cases {
		r := NewBitReader(c.bits)
		got, err := r.ReadUE()
		if err != nil {
			t.Fatalf("ReadUE() error = %v", err)
		}
		if got != c.want {
			t.Errorf("ReadUE() = %d, want %d", got, c.want)
		}
		if r.Off() != c.nbit {
			t.Errorf("Off() = %d, want %d", r.Off(), c.nbit)
		}
	}
}

func TestBitReaderReadEGKNonZeroOrder(t *testing.T) {
	// k=2: prefix "0" (lead=0), then 2 suffix bits "11" -> value = 0 + 0b11 = 3
	r := NewBitReader([]byte{0x60}) // 0 11 0 0000
	got, err := r.ReadEGK(2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Fatalf("ReadEGK(2) = %d, want 3", got)
	}
}

func TestBitReaderIsEndOfSlice(t *testing.T) {
	r := NewBitReader([]byte{0xFF, 0xFF})
	if r.IsEndOfSlice() {
		t.Fatal("fresh 2-byte reader should not report end of slice")
	}
	if _, err := r.ReadBits(8); err != nil {
		t.Fatal(err)
	}
	if r.IsEndOfSlice() {
		t.Fatal("1 byte remaining should not yet be end of slice")
	}
	if _, err := r.ReadBits(1); err != nil {
		t.Fatal(err)
	}
	if !r.IsEndOfSlice() {
		t.Fatal("fewer than 8 bits remaining should report end of slice")
	}
}
