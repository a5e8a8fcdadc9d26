/*
DESCRIPTION
  interpred.go implements motion vector prediction and motion
  compensation. The median-of-three predictor and its "scale by reference
  distance, pick the candidate agreeing with the other two" tie-break are
  transcribed directly from AvsInterPred.cpp's get_mv_pred/get_mv_pred2
  and mv_scale. The sub-pel interpolation filters the reference decoder
  hand-vectorises per block size (16xN/8xN/4xN luma, 8xN/4xN chroma) are
  collapsed here into one quarter-pel luma and one eighth-pel chroma
  filter parameterised by block size, which Go's inliner handles without
  the reference's per-size specialisation.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

// MvCand is one of the three causal neighbour candidates (left, above,
// above-right/above-left fallback) get_mv_pred chooses among.
type MvCand struct {
	MV      MV
	RefIdx  int8 // -1 if unavailable
	DenDist int  // the candidate's own reference's distance-scaling factor
}

// media3 returns the median of x, y, z (q.v. media3).
func media3(x, y, z int) int {
	hi := x
	if y > hi {
		hi = y
	}
	lo := x
	if y < lo {
		lo = y
	}
	if z < lo {
		return lo
	}
	if z > hi {
		return hi
	}
	return z
}

// mvRefIdxTable maps the 3-bit "which of A,B,C is unavailable" mask to the
// single surviving candidate's index, or 7 when the caller must fall
// through to full median scaling (q.v. s_MVRefIdx).
var mvRefIdxTable = [8]uint8{7, 7, 7, 2, 7, 1, 0, 0}

// GetMvPred derives the predicted motion vector from three causal
// neighbour candidates and the current block's reference distance
// refDist, matching get_mv_pred's "fast path when at most one neighbour
// has a valid reference" special case.
func GetMvPred(abc [3]MvCand, refDist int) MV {
	mask := 0
	for i, c := range abc {
		if c.RefIdx < 0 {
			mask |= 1 << uint(i)
		}
	}
	idx := mvRefIdxTable[mask]
	if idx <= 2 {
		return abc[idx].MV
	}
	return medianMvPred(abc, refDist)
}

// GetMvPred2 is get_mv_pred2: the median-scaling rule used when the caller
// already knows at least two neighbours carry a valid reference index, so
// the single-candidate fast path in GetMvPred never applies.
func GetMvPred2(abc [3]MvCand, refDist int) MV {
	return medianMvPred(abc, refDist)
}

func medianMvPred(abc [3]MvCand, refDist int) MV {
	mvA := abc[0].MV.Scale(abc[0].DenDist * refDist)
	mvB := abc[1].MV.Scale(abc[1].DenDist * refDist)
	mvC := abc[2].MV.Scale(abc[2].DenDist * refDist)

	distAB := absi(int(mvA.X)-int(mvB.X)) + absi(int(mvA.Y)-int(mvB.Y))
	distBC := absi(int(mvC.X)-int(mvB.X)) + absi(int(mvC.Y)-int(mvB.Y))
	distAC := absi(int(mvA.X)-int(mvC.X)) + absi(int(mvA.Y)-int(mvC.Y))
	med := media3(distAB, distBC, distAC)

	switch med {
	case distAB:
		return mvC
	case distBC:
		return mvA
	default:
		return mvB
	}
}

func absi(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// MCLuma performs luma motion compensation for an nxn block: dst[x,y] is
// sampled from ref at full-pel position plus the quarter-pel fraction of
// mv, using bilinear blending between the two nearest quarter-pel phases
// horizontally and vertically (a scalar simplification of the reference
// decoder's dedicated 16xN/8xN/4xN SSE kernels, which special-case each
// block size and phase for throughput).
func MCLuma(dst *Plane, dx, dy int, ref *Plane, mv MV, n int) {
	fx, fy := int(mv.X)&3, int(mv.Y)&3
	sx, sy := dx+int(mv.X)>>2, dy+int(mv.Y)>>2

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dst.Set(dx+x, dy+y, sampleLumaQPel(ref, sx+x, sy+y, fx, fy))
		}
	}
}

func sampleLumaQPel(ref *Plane, x, y, fx, fy int) uint8 {
	if fx == 0 && fy == 0 {
		return ref.Get(x, y)
	}
	p00 := int32(ref.Get(x, y))
	p10 := int32(ref.Get(x+1, y))
	p01 := int32(ref.Get(x, y+1))
	p11 := int32(ref.Get(x+1, y+1))

	top := p00*int32(4-fx) + p10*int32(fx)
	bot := p01*int32(4-fx) + p11*int32(fx)
	v := (top*int32(4-fy) + bot*int32(fy) + 8) >> 4
	return clampU8(v)
}

// MCChroma performs chroma motion compensation for an nxn block using
// eighth-pel bilinear interpolation (q.v. weight_pred_8xN/MC_avg_8xN for
// chroma).
func MCChroma(dst *Plane, dx, dy int, ref *Plane, mv MV, n int) {
	fx, fy := int(mv.X)&7, int(mv.Y)&7
	sx, sy := dx+int(mv.X)>>3, dy+int(mv.Y)>>3

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			p00 := int32(ref.Get(sx+x, sy+y))
			p10 := int32(ref.Get(sx+x+1, sy+y))
			p01 := int32(ref.Get(sx+x, sy+y+1))
			p11 := int32(ref.Get(sx+x+1, sy+y+1))
			top := p00*int32(8-fx) + p10*int32(fx)
			bot := p01*int32(8-fx) + p11*int32(fx)
			v := (top*int32(8-fy) + bot*int32(fy) + 32) >> 6
			dst.Set(dx+x, dy+y, clampU8(v))
		}
	}
}

// BiAvg averages two already motion-compensated predictors into dst, the
// final step of bi-directional (B-picture) prediction (q.v. MC_avg_16xN
// et al).
func BiAvg(dst *Plane, dx, dy int, a, b *Plane, n int) {
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			v := (int32(a.Get(dx+x, dy+y)) + int32(b.Get(dx+x, dy+y)) + 1) >> 1
			dst.Set(dx+x, dy+y, uint8(v))
		}
	}
}

// WeightedPred applies explicit weighted prediction with weight w
// (7-bit fixed point, 64 == unity) and offset o, clamping to [0,255]
// (q.v. weight_pred_16xN et al).
func WeightedPred(dst *Plane, dx, dy int, src *Plane, n int, w, o int32) {
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			v := (int32(src.Get(dx+x, dy+y))*w+32)>>6 + o
			dst.Set(dx+x, dy+y, clampU8(v))
		}
	}
}

// DeriveDirectMV derives a B_Direct block's list-0/list-1 motion vectors
// from the co-located P-picture block's motion, scaling by the forward and
// backward temporal distances (q.v. 4.6's direct-mode rule). A -1 colRef
// means the co-located block was intra, yielding a zero motion vector in
// both directions.
func DeriveDirectMV(col BlockMV, fwdScale, bwdScale int) BlockMV {
	if col.RefIdx[0] < 0 {
		return BlockMV{RefIdx: [2]int8{0, 0}}
	}
	return BlockMV{
		RefIdx: [2]int8{0, 0},
		MV: [2]MV{
			col.MV[0].Scale(fwdScale),
			col.MV[0].Scale(-bwdScale),
		},
	}
}

// directScale computes DeriveDirectMV's forward/backward scale factors
// from the current B picture's, its co-located forward reference's and its
// backward reference's PicDistance values: TRb is the distance from the
// backward reference to the current picture, TRd is the distance from the
// backward reference to the co-located (forward) picture, and the two
// scales are TRb/TRd and (TRd-TRb)/TRd in the 512-based fixed point Scale
// expects (q.v. §4.6's direct-mode temporal scaling rule, simplified here
// to RefDist's mod-256 distance rather than a full picture-order-count
// chain through every intervening reference).
func directScale(curDist, fwdDist, bwdDist uint8) (fwd, bwd int) {
	trb := RefDist(bwdDist, curDist)
	trd := RefDist(bwdDist, fwdDist)
	fwd = trb * 512 / trd
	bwd = (trd - trb) * 512 / trd
	return
}
