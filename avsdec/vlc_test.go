/*
DESCRIPTION
  vlc_test.go exercises VlcCoeffParser's direct-table lookup and its
  table-bank transition, using hand-built exp-Golomb fixtures.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

import "testing"

func TestVlcIntraDirectTableFirstEntry(t *testing.T) {
	w := &testBitWriter{}
	w.writeUE(0) // codeNum 0 -> {1, 1, 1} in bank 0
	br := NewBitReader(w.bytes())
	p := NewIntraVlcParser(br)
	rl, next, err := p.Next(0)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rl.Level != 1 || rl.Run != 1 {
		t.Fatalf("got level=%d run=%d, want level=1 run=1", rl.Level, rl.Run)
	}
	if next != 1 {
		t.Fatalf("next bank = %d, want 1", next)
	}
}

func TestVlcIntraEOBSentinel(t *testing.T) {
	w := &testBitWriter{}
	w.writeUE(8) // codeNum 8 -> {0,0,0} in bank 1, the EOB sentinel
	br := NewBitReader(w.bytes())
	p := NewIntraVlcParser(br)
	rl, _, err := p.Next(1)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !rl.EOB {
		t.Fatalf("expected EOB, got %+v", rl)
	}
}

func TestVlcChromaBankClamp(t *testing.T) {
	if clampBank(9) != 6 {
		t.Fatalf("clampBank(9) = %d, want 6", clampBank(9))
	}
}

func TestVlcEscapeDecode(t *testing.T) {
	w := &testBitWriter{}
	// Bank 6 of intra has only 59 table rows covering run<=1; force an
	// escape by writing a codeNum past the table size.
	w.writeUE(uint32(len(intraVlcTab[6].Tab)) + 3)
	w.writeUE(0) // escape residual (order 2 exp-Golomb -> value 0)
	br := NewBitReader(w.bytes())
	p := NewIntraVlcParser(br)
	rl, _, err := p.Next(6)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rl.Run < 1 {
		t.Fatalf("escape run = %d, want >= 1", rl.Run)
	}
}
