/*
DESCRIPTION
  idct.go implements the 8x8 inverse integer transform (q.v. standard
  annex on the integer transform, and AvsIdct.cpp's AVS_IDCT_1D macro). The
  reference implementation runs the 1-D butterfly as SSE2 intrinsics over
  four columns/rows at a time; this port runs the same butterfly scalar,
  once per column and once per row, which is the natural shape for Go and
  for a decode pipeline whose goroutines each work through one macroblock
  row, one 8x8 block at a time.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

// idct1D performs the one-dimensional 8-point butterfly shared by the
// column and row passes (q.v. AVS_IDCT_1D). s0..s7 are the frequency-domain
// samples in natural order; the result is returned in natural spatial
// order r0..r7.
func idct1D(s0, s1, s2, s3, s4, s5, s6, s7 int32) (r0, r1, r2, r3, r4, r5, r6, r7 int32) {
	o0 := s1*10 + s3*9 + s5*6 + s7*2
	o1 := s1*9 - s3*2 - s5*10 - s7*6
	o2 := s1*6 - s3*10 + s5*2 + s7*9
	o3 := s1*2 - s3*6 + s5*9 - s7*10

	a := (s0 + s4) * 8
	b := (s0 - s4) * 8
	c := s2*10 + s6*4
	d := s6*10 - s2*4

	e0 := a + c
	e1 := b - d
	e2 := b + d
	e3 := a - c

	r0 = e0 + o0
	r1 = e1 + o1
	r2 = e2 + o2
	r3 = e3 + o3
	r4 = e3 - o3
	r5 = e2 - o2
	r6 = e1 - o1
	r7 = e0 - o0
	return
}

// clipS16 saturates v to the int16 range, mirroring the SSE2 saturating
// adds/subs the reference implementation relies on.
func clipS16(v int32) int32 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}

// IDCT8x8 performs the inverse transform of an 8x8 dequantised coefficient
// block in place: a column pass rounding by 4 and shifting by 3, then a row
// pass rounding by 64 and shifting by 7 (q.v. s_RndCol/s_RndRow).
func IDCT8x8(block *[64]int16) {
	var tmp [64]int32

	for col := 0; col < 8; col++ {
		s := [8]int32{
			int32(block[col]), int32(block[8+col]), int32(block[16+col]), int32(block[24+col]),
			int32(block[32+col]), int32(block[40+col]), int32(block[48+col]), int32(block[56+col]),
		}
		r0, r1, r2, r3, r4, r5, r6, r7 := idct1D(s[0], s[1], s[2], s[3], s[4], s[5], s[6], s[7])
		tmp[col] = (clipS16(r0) + 4) >> 3
		tmp[8+col] = (clipS16(r1) + 4) >> 3
		tmp[16+col] = (clipS16(r2) + 4) >> 3
		tmp[24+col] = (clipS16(r3) + 4) >> 3
		tmp[32+col] = (clipS16(r4) + 4) >> 3
		tmp[40+col] = (clipS16(r5) + 4) >> 3
		tmp[48+col] = (clipS16(r6) + 4) >> 3
		tmp[56+col] = (clipS16(r7) + 4) >> 3
	}

	for row := 0; row < 8; row++ {
		base := row * 8
		s := [8]int32{tmp[base], tmp[base+1], tmp[base+2], tmp[base+3], tmp[base+4], tmp[base+5], tmp[base+6], tmp[base+7]}
		r0, r1, r2, r3, r4, r5, r6, r7 := idct1D(s[0], s[1], s[2], s[3], s[4], s[5], s[6], s[7])
		block[base] = int16((clipS16(r0) + 64) >> 7)
		block[base+1] = int16((clipS16(r1) + 64) >> 7)
		block[base+2] = int16((clipS16(r2) + 64) >> 7)
		block[base+3] = int16((clipS16(r3) + 64) >> 7)
		block[base+4] = int16((clipS16(r4) + 64) >> 7)
		block[base+5] = int16((clipS16(r5) + 64) >> 7)
		block[base+6] = int16((clipS16(r6) + 64) >> 7)
		block[base+7] = int16((clipS16(r7) + 64) >> 7)
	}
}

// clampU8 saturates a reconstructed sample to [0,255].
func clampU8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// AddResidual adds an inverse-transformed 8x8 residual block to an 8x8
// prediction block already written into dst at (x0,y0), saturating to
// [0,255] (q.v. the reference decoder's IDCT_8x8_add step).
func AddResidual(dst *Plane, x0, y0 int, residual *[64]int16) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pred := int32(dst.Get(x0+x, y0+y))
			dst.Set(x0+x, y0+y, clampU8(pred+int32(residual[y*8+x])))
		}
	}
}
