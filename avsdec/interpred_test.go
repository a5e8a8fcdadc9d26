/*
DESCRIPTION
  interpred_test.go checks GetMvPred's single-candidate fast path, the
  median tie-break, and motion compensation's integer-pel passthrough.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

import "testing"

func TestGetMvPredSingleCandidate(t *testing.T) {
	abc := [3]MvCand{
		{MV: MV{X: 4, Y: -2}, RefIdx: 0, DenDist: 512},
		{RefIdx: -1},
		{RefIdx: -1},
	}
	got := GetMvPred(abc, 512)
	if got != (MV{X: 4, Y: -2}) {
		t.Fatalf("GetMvPred = %+v, want the sole candidate unscaled", got)
	}
}

func TestGetMvPredAllUnavailableIsZero(t *testing.T) {
	abc := [3]MvCand{{RefIdx: -1}, {RefIdx: -1}, {RefIdx: -1}}
	got := GetMvPred(abc, 512)
	if got != (MV{}) {
		t.Fatalf("GetMvPred = %+v, want zero MV", got)
	}
}

func TestMedia3(t *testing.T) {
	cases := []struct{ x, y, z, want int }{
		{1, 2, 3, 2},
		{3, 2, 1, 2},
		{5, 5, 5, 5},
		{-1, 0, 1, 0},
	}
	for _, c := range cases {
		if got := media3(c.x, c.y, c.z); got != c.want {
			t.Errorf("media3(%d,%d,%d) = %d, want %d", c.x, c.y, c.z, got, c.want)
		}
	}
}

func TestMCLumaIntegerPelCopiesSample(t *testing.T) {
	ref := flatPlane(42)
	dst := flatPlane(0)
	MCLuma(dst, 0, 0, ref, MV{0, 0}, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := dst.Get(x, y); got != 42 {
				t.Fatalf("Get(%d,%d) = %d, want 42", x, y, got)
			}
		}
	}
}

func TestBiAvgAveragesOperands(t *testing.T) {
	a := flatPlane(100)
	b := flatPlane(200)
	dst := flatPlane(0)
	BiAvg(dst, 0, 0, a, b, 8)
	if got := dst.Get(0, 0); got != 150 {
		t.Fatalf("BiAvg = %d, want 150", got)
	}
}

func TestDeriveDirectMVIntraColocatedIsZero(t *testing.T) {
	col := BlockMV{RefIdx: [2]int8{-1, -1}}
	got := DeriveDirectMV(col, 256, 256)
	if got.MV[0] != (MV{}) || got.MV[1] != (MV{}) {
		t.Fatalf("DeriveDirectMV = %+v, want zero MVs for intra co-located block", got)
	}
}
