/*
DESCRIPTION
  intrapred_test.go checks the intra predictors' basic shape: a flat
  neighbourhood must produce a flat prediction, regardless of mode.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

import "testing"

func flatPlane(val uint8) *Plane {
	p := &Plane{Buf: make([]byte, 32*32), Width: 16, Height: 16, Pitch: 32, Pad: 8}
	for i := range p.Buf {
		p.Buf[i] = val
	}
	return p
}

func TestPredictLumaFlatNeighbourhood(t *testing.T) {
	nb := Neighbours{Top: true, Left: true, TopRight: true, BottomLeft: true}
	for _, mode := range []IntraLumaMode{PredVertical, PredHorizontal, PredDC, PredDownLeft, PredDownRight} {
		p := flatPlane(100)
		PredictLuma(p, 8, 8, mode, nb)
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				if got := p.Get(8+x, 8+y); got != 100 {
					t.Errorf("mode %d: Get(%d,%d) = %d, want 100", mode, x, y, got)
				}
			}
		}
	}
}

func TestPredictChromaFlatNeighbourhood(t *testing.T) {
	nb := Neighbours{Top: true, Left: true, TopRight: true, BottomLeft: true}
	for _, mode := range []IntraChromaMode{PredChromaDC, PredChromaHorizontal, PredChromaVertical, PredChromaPlane} {
		p := flatPlane(77)
		PredictChroma(p, 8, 8, mode, nb)
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				if got := p.Get(8+x, 8+y); got != 77 {
					t.Errorf("mode %d: Get(%d,%d) = %d, want 77", mode, x, y, got)
				}
			}
		}
	}
}

func TestPredictLumaDCFallsBackWhenUnavailable(t *testing.T) {
	p := flatPlane(50)
	PredictLuma(p, 8, 8, PredDC, Neighbours{})
	if got := p.Get(8, 8); got != 128 {
		t.Fatalf("Get(8,8) = %d, want 128 (no neighbours available)", got)
	}
}
