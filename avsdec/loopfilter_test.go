/*
DESCRIPTION
  loopfilter_test.go checks boundary-strength derivation and that a
  zero-strength edge leaves samples untouched.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

import "testing"

func TestBoundaryStrengthIntraIsTwo(t *testing.T) {
	if bs := boundaryStrength(BlockMV{}, BlockMV{}, true, false); bs != 2 {
		t.Fatalf("boundaryStrength = %d, want 2", bs)
	}
}

func TestBoundaryStrengthSameMVIsZero(t *testing.T) {
	mv := BlockMV{RefIdx: [2]int8{0, -1}, MV: [2]MV{{X: 4, Y: 4}}}
	if bs := boundaryStrength(mv, mv, false, false); bs != 0 {
		t.Fatalf("boundaryStrength = %d, want 0", bs)
	}
}

func TestBoundaryStrengthDifferentRefIsOne(t *testing.T) {
	a := BlockMV{RefIdx: [2]int8{0, -1}}
	b := BlockMV{RefIdx: [2]int8{1, -1}}
	if bs := boundaryStrength(a, b, false, false); bs != 1 {
		t.Fatalf("boundaryStrength = %d, want 1", bs)
	}
}

func TestFilterMacroblockZeroStrengthNoOp(t *testing.T) {
	p := flatPlane(90)
	cur := &MbContext{LFBS: 0}
	FilterMacroblock(p, 0, 0, cur, 32, 0, 0)
	if got := p.Get(8, 8); got != 90 {
		t.Fatalf("Get(8,8) = %d, want untouched 90", got)
	}
}
