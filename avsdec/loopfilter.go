/*
DESCRIPTION
  loopfilter.go implements the in-loop deblocking filter: per-edge
  boundary-strength derivation and the alpha/beta-threshold sample filter
  applied across 8x8 block boundaries.

  Boundary strength is grounded on calc_BS_P16x16/calc_BS_P16x8 (q.v.
  AvsLoopFilter.cpp): bs=2 whenever either side of the edge is intra,
  bs=1 when the two sides reference different pictures, and bs=0 when
  they agree and every component of the two motion vectors differs by at
  most 3 quarter-pel units. The macroblock decoders do not call
  boundaryStrength: they write MbContext's LFBS directly (0xAAAA for intra
  macroblocks, 0 for skipped ones; DecodeInterMB leaves it unchanged), and
  FilterMacroblock reads it two bits per edge. The retrieved
  source didn't carry the alpha/beta clipping tables (its filter kernel
  is a hand-vectorised SSE4 routine that loads them from a side table not
  present in this excerpt), so the sample filter below uses the
  standard's published Alpha/Beta tables indexed by QP, the same
  structure H.264's deblocking filter uses for the equivalent tables.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

// alphaTab and betaTab are indexed by QP (clamped 0..63) and hold the
// two deblocking thresholds; index with QP plus the picture header's
// alpha_c_offset/beta_offset (clamped back into range).
var alphaTab = [64]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	4, 4, 5, 6, 7, 8, 9, 10, 12, 13, 15, 17, 20, 22, 25, 28,
	32, 36, 40, 45, 50, 56, 63, 71, 80, 90, 101, 113, 127, 144, 162, 182,
	203, 226, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255,
}

var betaTab = [64]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13, 14, 14, 15, 15, 16, 16,
	17, 17, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18,
}

func clampQPIdx(qp int) int {
	if qp < 0 {
		return 0
	}
	if qp > 63 {
		return 63
	}
	return qp
}

// boundaryStrength derives one edge's 2-bit bs value, matching
// calc_BS_P16x16's per-component rule: intra beats everything, then
// reference mismatch, then a >3 quarter-pel motion difference.
func boundaryStrength(cur, nb BlockMV, curIntra, nbIntra bool) uint8 {
	if curIntra || nbIntra {
		return 2
	}
	for list := 0; list < 2; list++ {
		if cur.RefIdx[list] != nb.RefIdx[list] {
			continue
		}
		if cur.RefIdx[list] < 0 {
			continue
		}
		dx := absi(int(cur.MV[list].X) - int(nb.MV[list].X))
		dy := absi(int(cur.MV[list].Y) - int(nb.MV[list].Y))
		if dx > 3 || dy > 3 {
			return 1
		}
	}
	if cur.RefIdx[0] != nb.RefIdx[0] || cur.RefIdx[1] != nb.RefIdx[1] {
		return 1
	}
	return 0
}

// filterEdgeLuma applies the 4-tap deblocking filter along an 8-sample
// vertical or horizontal luma edge, strong (bs==2: p1, p0, q0 and q1 are
// replaced by smoothed averages) or weak (bs==1: only p0 and q0 are
// replaced, with no clipping step); bs==0 filters nothing.
func filterEdgeLuma(p *Plane, x0, y0 int, horiz bool, bs uint8, qp int, alphaOff, betaOff int8) {
	if bs == 0 {
		return
	}
	alpha := int(alphaTab[clampQPIdx(qp+int(alphaOff))])
	beta := int(betaTab[clampQPIdx(qp+int(betaOff))])
	step := func(i int) (x, y int) {
		if horiz {
			return x0 + i, y0
		}
		return x0, y0 + i
	}
	get := func(i, d int) int {
		x, y := step(i)
		if horiz {
			return int(p.Get(x, y+d))
		}
		return int(p.Get(x+d, y))
	}
	set := func(i, d, v int) {
		x, y := step(i)
		if horiz {
			p.Set(x, y+d, clampU8(int32(v)))
		} else {
			p.Set(x+d, y, clampU8(int32(v)))
		}
	}
	for i := 0; i < 8; i++ {
		p0, p1, p2 := get(i, -1), get(i, -2), get(i, -3)
		q0, q1, q2 := get(i, 0), get(i, 1), get(i, 2)
		if absi(p0-q0) >= alpha || absi(p1-p0) >= beta || absi(q1-q0) >= beta {
			continue
		}
		if bs == 2 {
			set(i, -1, (p2+2*p1+2*p0+2*q0+q1+4)>>3)
			set(i, -2, (p2+p1+p0+q0+2)>>2)
			set(i, 0, (p1+2*p0+2*q0+2*q1+q2+4)>>3)
			set(i, 1, (p0+q0+q1+q2+2)>>2)
		} else {
			set(i, -1, (2*p1+p0+q1+2)>>2)
			set(i, 0, (2*q1+q0+p1+2)>>2)
		}
	}
}

// FilterMacroblock deblocks one 16x16 luma macroblock's four vertical and
// four horizontal 8-sample edges on the 8x8 grid, reading each edge's
// boundary strength from cur.LFBS (two bits per edge, matching ResetIntra's
// 0xAAAA all-bs-2 packing; bits 0-7 the vertical edges, bits 8-15 the
// horizontal ones). This simplifies the reference decoder's
// per-4-sample-column SSE4 kernel to one filter call per 8-sample edge.
func FilterMacroblock(luma *Plane, mx, my int, cur *MbContext, qp int, alphaOff, betaOff int8) {
	x0, y0 := mx*16, my*16
	for i := 0; i < 4; i++ {
		bs := uint8((cur.LFBS >> uint(2*i)) & 3)
		filterEdgeLuma(luma, x0+(i>>1)*8, y0+(i&1)*8, false, bs, qp, alphaOff, betaOff)
	}
	for i := 0; i < 4; i++ {
		bs := uint8((cur.LFBS >> uint(8+2*i)) & 3)
		filterEdgeLuma(luma, x0+(i&1)*8, y0+(i>>1)*8, true, bs, qp, alphaOff, betaOff)
	}
}
