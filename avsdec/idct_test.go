/*
DESCRIPTION
  idct_test.go checks IDCT8x8's DC-only and saturation behaviour.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

import "testing"

func TestIDCT8x8DCOnlyIsFlat(t *testing.T) {
	var block [64]int16
	block[0] = 512 // a DC-only block should produce a uniform output

	IDCT8x8(&block)

	want := block[0]
	for i, v := range block {
		if v != want {
			t.Fatalf("block[%d] = %d, want uniform %d (DC-only input)", i, v, want)
		}
	}
}

func TestIDCT8x8ZeroInputIsZeroOutput(t *testing.T) {
	var block [64]int16
	IDCT8x8(&block)
	for i, v := range block {
		if v != 0 {
			t.Fatalf("block[%d] = %d, want 0", i, v)
		}
	}
}

func TestAddResidualSaturates(t *testing.T) {
	p := &Plane{Buf: make([]byte, 16*16), Width: 8, Height: 8, Pitch: 16, Pad: 4}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p.Set(x, y, 250)
		}
	}
	var residual [64]int16
	for i := range residual {
		residual[i] = 100
	}
	AddResidual(p, 0, 0, &residual)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := p.Get(x, y); got != 255 {
				t.Fatalf("Get(%d,%d) = %d, want 255 (saturated)", x, y, got)
			}
		}
	}
}
