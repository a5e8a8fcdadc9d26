/*
DESCRIPTION
  aec.go implements the context-adaptive binary arithmetic decoding engine
  (AEC) used by broadcast-profile slices, plus the syntax-element helpers
  built on top of it (skip run, macroblock type, reference index, motion
  vector difference, CBP, and transform coefficient blocks).

  The engine is grounded on the reference decoder's AvsAecParser: 200
  contexts reset to {mps:0, cycNo:0, lgPmps:1023} at the start of every
  slice, a four-entry adaptation-speed table indexed by cycNo, and a
  distinct bypass/stuffing-bit path for the equiprobable bins used by
  mv_diff and exp-Golomb escape codes. Where the source used a
  multiplication-free range update (a concession to its target hardware),
  this port does the equivalent fixed-point multiply directly -- Go has no
  comparable constraint to work around.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

import "github.com/pkg/errors"

// lgPmpsAdd is the per-cycNo adaptation step: how much a context's LPS
// sub-range shrinks after an MPS decision. The first two adaptation
// classes share a fast step so a fresh context converges quickly; the
// later classes slow down as the estimate firms up.
var lgPmpsAdd = [4]int16{197, 197, 95, 46}

const (
	lgPmpsInit  = 1023
	rangeUnit   = 1 << 10 // lgPmps is a fixed-point fraction of rangeUnit
	rngRenormLo = 0x100
)

// updateMPS advances ctx after an MPS decision.
func (c *AecContext) updateMPS() {
	c.LgPmps -= lgPmpsAdd[c.CycNo]
	if c.LgPmps < 5 {
		c.LgPmps = 5
	}
	if c.CycNo < 3 {
		c.CycNo++
	}
}

// updateLPS advances ctx after an LPS decision. A context whose LPS
// sub-range has grown past half its window has effectively lost track of
// which symbol is more probable, so the MPS label flips and adaptation
// restarts at the fastest speed.
func (c *AecContext) updateLPS() {
	if c.LgPmps > lgPmpsInit/2 {
		c.MPS = 1 - c.MPS
	}
	c.LgPmps = lgPmpsInit - (lgPmpsInit-c.LgPmps)/2
	c.CycNo = 0
}

// rangeLPS returns the LPS sub-range of rng under ctx's current estimate.
func (c *AecContext) rangeLPS(rng uint32) uint32 {
	r := (rng * uint32(c.LgPmps)) >> 10
	if r < 2 {
		r = 2
	}
	if r > rng-2 {
		r = rng - 2
	}
	return r
}

// AecReader decodes one slice's worth of context-adaptive binary symbols.
// Construct with NewAecReader at the start of every slice; its 200 contexts
// are not carried across slices (q.v. §3, slice independence).
type AecReader struct {
	br  *BitReader
	ctx [numAecContexts]AecContext

	rng uint32
	val uint32
}

// NewAecReader constructs a reader over br and performs the AEC init
// procedure: load the initial value register and reset every context.
func NewAecReader(br *BitReader) (*AecReader, error) {
	a := &AecReader{br: br}
	for i := range a.ctx {
		a.ctx[i] = AecContext{MPS: 0, CycNo: 0, LgPmps: lgPmpsInit}
	}
	a.rng = rangeUnit
	v, err := br.ReadBits(9)
	if err != nil {
		return nil, errors.Wrap(err, "aec init")
	}
	a.val = v
	return a, nil
}

// renorm restores rng to the [rngRenormLo, rangeUnit) window, shifting in
// fresh bits from the underlying bitstream as needed.
func (a *AecReader) renorm() error {
	for a.rng < rngRenormLo {
		bit, err := a.br.Read1()
		if err != nil {
			return errors.Wrap(err, "aec renorm")
		}
		a.rng <<= 1
		a.val = a.val<<1 | uint32(bit)
		a.val &= (rangeUnit << 1) - 1
	}
	return nil
}

// DecDecision decodes one bin using context cIdx (q.v. dec_decision).
func (a *AecReader) DecDecision(cIdx int) (int, error) {
	ctx := &a.ctx[cIdx]
	rLPS := ctx.rangeLPS(a.rng)
	rMPS := a.rng - rLPS

	var bit int
	if a.val < rMPS {
		a.rng = rMPS
		bit = int(ctx.MPS)
		ctx.updateMPS()
	} else {
		a.val -= rMPS
		a.rng = rLPS
		bit = 1 - int(ctx.MPS)
		ctx.updateLPS()
	}
	if err := a.renorm(); err != nil {
		return 0, err
	}
	return bit, nil
}

// DecDecision2 decodes one bin using a context synthesised from two
// contexts, a combine rule used by a handful of syntax elements (e.g.
// mb_skip_run's first bin) that condition on two independent neighbours at
// once (q.v. dec_decision2). Only the synthetic combination drives this
// decision; both source contexts are then updated exactly as a single
// context would be after the same MPS or LPS outcome.
func (a *AecReader) DecDecision2(cIdx1, cIdx2 int) (int, error) {
	c1, c2 := &a.ctx[cIdx1], &a.ctx[cIdx2]
	var combo AecContext
	if c1.MPS == c2.MPS {
		combo.MPS = c1.MPS
		combo.LgPmps = (c1.LgPmps + c2.LgPmps) >> 1
	} else if c1.LgPmps < c2.LgPmps {
		combo.MPS = c1.MPS
		combo.LgPmps = lgPmpsInit - (lgPmpsInit-(c2.LgPmps-c1.LgPmps))>>2
	} else {
		combo.MPS = c2.MPS
		combo.LgPmps = lgPmpsInit - (lgPmpsInit-(c1.LgPmps-c2.LgPmps))>>2
	}
	combo.CycNo = maxi8(c1.CycNo, c2.CycNo)

	rLPS := combo.rangeLPS(a.rng)
	rMPS := a.rng - rLPS

	var bit int
	if a.val < rMPS {
		a.rng = rMPS
		bit = int(combo.MPS)
		c1.updateMPS()
		c2.updateMPS()
	} else {
		a.val -= rMPS
		a.rng = rLPS
		bit = 1 - int(combo.MPS)
		c1.updateLPS()
		c2.updateLPS()
	}
	if err := a.renorm(); err != nil {
		return 0, err
	}
	return bit, nil
}

// DecBypass decodes one equiprobable bin without touching any context
// state (q.v. dec_bypass), used for mv_diff's exp-Golomb escape suffix.
func (a *AecReader) DecBypass() (int, error) {
	half := a.rng >> 1
	var bit int
	if a.val < half {
		bit = 0
	} else {
		a.val -= half
		bit = 1
	}
	if err := a.renorm(); err != nil {
		return 0, err
	}
	return bit, nil
}

// DecStuffingBit decodes one equiprobable "stuffing" bin used to pad a
// slice to a byte boundary (q.v. dec_stuffing_bit); semantically identical
// to DecBypass but kept distinct because callers check its value against 1
// to detect end-of-slice padding rather than treating it as data.
func (a *AecReader) DecStuffingBit() (int, error) { return a.DecBypass() }

// DecZeroCnt decodes a unary run of zero-bins terminated by a one-bin (or
// by reaching maxCnt zeros), returning the run length. Used by the tails of
// DecMbTypeP and DecMbTypeB and by the coefficient run and level prefixes
// (q.v. dec_zero_cnt).
func (a *AecReader) DecZeroCnt(cIdx, maxCnt int) (int, error) {
	n := 0
	for n < maxCnt {
		bit, err := a.DecDecision(cIdx)
		if err != nil {
			return 0, err
		}
		if bit != 0 {
			break
		}
		n++
	}
	return n, nil
}

// IsEndOfSlice reports whether the underlying bitstream has been consumed,
// ignoring any AEC register state still in flight (q.v. is_end_of_slice).
func (a *AecReader) IsEndOfSlice() bool { return a.br.IsEndOfSlice() }

func maxi8(a, b int8) int8 {
	if a > b {
		return a
	}
	return b
}

// --- syntax-element helpers ------------------------------------------------

// DecMbSkipRun decodes mb_skip_run, the count of consecutive skipped
// macroblocks preceding a coded one (q.v. dec_mb_skip_run). It unrolls a
// short prefix of distinct contexts before falling back to a shared
// high-count context, mirroring the source's context indices 0-3.
func (a *AecReader) DecMbSkipRun() (int, error) {
	n := 0
	ctxSeq := [...]int{0, 1, 2, 3}
	for _, c := range ctxSeq {
		bit, err := a.DecDecision(c)
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			return n, nil
		}
		n++
	}
	for {
		bit, err := a.DecDecision(3)
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			return n, nil
		}
		n++
	}
}

// DecMbPartType decodes the P/B macroblock partition shape using contexts
// 19-21 (q.v. dec_mb_part_type).
func (a *AecReader) DecMbPartType() (int, error) {
	b0, err := a.DecDecision(19)
	if err != nil {
		return 0, err
	}
	if b0 == 0 {
		return 0, nil // 16x16
	}
	b1, err := a.DecDecision(20)
	if err != nil {
		return 0, err
	}
	if b1 == 0 {
		return 1, nil // 16x8
	}
	b2, err := a.DecDecision(21)
	if err != nil {
		return 0, err
	}
	if b2 == 0 {
		return 2, nil // 8x16
	}
	return 3, nil // 8x8
}

// DecMbTypeP decodes a P-slice macroblock type (q.v. dec_mb_type_P),
// contexts 4-8, returning a value in [0,6].
func (a *AecReader) DecMbTypeP() (int, error) {
	ctxs := [...]int{4, 5, 6, 7, 8}
	n := 0
	for _, c := range ctxs {
		bit, err := a.DecDecision(c)
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			return n, nil
		}
		n++
	}
	more, err := a.DecZeroCnt(8, 1)
	if err != nil {
		return 0, err
	}
	return n + more, nil
}

// DecMbTypeB decodes a B-slice macroblock type (q.v. dec_mb_type_B),
// context 9+ctxInc for the first bin, then a run through contexts 12..18,
// escaping into DecZeroCnt(18,24) for the long tail.
func (a *AecReader) DecMbTypeB(ctxInc int) (int, error) {
	bit, err := a.DecDecision(9 + ctxInc)
	if err != nil {
		return 0, err
	}
	if bit == 0 {
		return 0, nil // B_Direct/B_Skip, resolved by caller from skip state
	}
	n := 0
	for c := 12; c <= 18; c++ {
		bit, err := a.DecDecision(c)
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			return n + 1, nil
		}
		n++
	}
	tail, err := a.DecZeroCnt(18, 24)
	if err != nil {
		return 0, err
	}
	return 8 + n + tail, nil
}

// DecRefIdxP decodes ref_idx for a P macroblock partition (q.v.
// dec_ref_idx_P). ctxInc selects between the block's left/top neighbour
// context. A run of four ones is a malformed-stream sentinel.
func (a *AecReader) DecRefIdxP(ctxInc int) (int, error) {
	bit, err := a.DecDecision(30 + ctxInc)
	if err != nil {
		return 0, err
	}
	if bit == 0 {
		return 0, nil
	}
	n := 1
	for c := 0; c < 3; c++ {
		bit, err := a.DecDecision(34)
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			return n, nil
		}
		n++
	}
	return 0, errors.Wrap(ErrBadStream, "ref_idx_P: run exceeded")
}

// DecRefIdxB decodes ref_idx for a B macroblock partition (q.v.
// dec_ref_idx_B); context selection XORs ctxInc with 1 relative to the P
// form since B lists index in the opposite temporal direction.
func (a *AecReader) DecRefIdxB(ctxInc int) (int, error) {
	return a.DecDecision(30 + (ctxInc ^ 1))
}

// DecIntraChromaPredMode decodes intra_chroma_pred_mode (q.v.
// dec_intra_chroma_pred_mode): a single context-adapted bin for mode 0,
// then up to two bypass-like bins (contexts 29,29) distinguishing modes
// 1-3.
func (a *AecReader) DecIntraChromaPredMode(ctxInc int) (int, error) {
	bit, err := a.DecDecision(26 + ctxInc)
	if err != nil {
		return 0, err
	}
	if bit == 0 {
		return 0, nil
	}
	b1, err := a.DecDecision(29)
	if err != nil {
		return 0, err
	}
	if b1 == 0 {
		return 1, nil
	}
	b2, err := a.DecDecision(29)
	if err != nil {
		return 0, err
	}
	return 2 + b2, nil
}

// DecCBP decodes coded_block_pattern (q.v. dec_cbp) using the left and
// above neighbours' CBP to derive context increments for contexts 51-53.
func (a *AecReader) DecCBP(leftCbp, topCbp uint8) (uint8, error) {
	var cbp uint8
	for i := 0; i < 4; i++ {
		leftBit := (leftCbp >> uint(i)) & 1
		topBit := (topCbp >> uint(i)) & 1
		ctxInc := 0
		if leftBit == 0 {
			ctxInc++
		}
		if topBit == 0 {
			ctxInc += 2
		}
		bit, err := a.DecDecision(51 + ctxInc%3)
		if err != nil {
			return 0, err
		}
		cbp |= uint8(bit) << uint(i)
	}
	for i := 4; i < 6; i++ {
		bit, err := a.DecDecision(53)
		if err != nil {
			return 0, err
		}
		cbp |= uint8(bit) << uint(i)
	}
	return cbp, nil
}

// DecMVD decodes one component of a motion vector difference (q.v.
// dec_mvd): a magnitude class built from a handful of context-adapted
// bins, escaping to an exp-Golomb-coded bypass suffix once the magnitude
// reaches 3. horiz selects the x (true) or y (false) component's context
// bank (36.. vs 42..).
func (a *AecReader) DecMVD(horiz bool) (int, error) {
	base := 42
	if horiz {
		base = 36
	}
	sign := 0
	mag := 0
	bit, err := a.DecDecision(base)
	if err != nil {
		return 0, err
	}
	if bit != 0 {
		mag = 1
		b1, err := a.DecDecision(base + 1)
		if err != nil {
			return 0, err
		}
		if b1 != 0 {
			mag = 2
			b2, err := a.DecDecision(base + 2)
			if err != nil {
				return 0, err
			}
			if b2 != 0 {
				esc, err := a.decodeEGBypass(3)
				if err != nil {
					return 0, err
				}
				mag = esc
			}
		}
	}
	if mag != 0 {
		s, err := a.DecBypass()
		if err != nil {
			return 0, err
		}
		sign = s
	}
	if sign != 0 {
		return -mag, nil
	}
	return mag, nil
}

// decodeEGBypass decodes an order-0 exp-Golomb code entirely through
// DecBypass bins, used for the mv_diff and coefficient-level escape paths,
// and adds base (the magnitude already established by context-coded bins)
// to the decoded offset.
func (a *AecReader) decodeEGBypass(base int) (int, error) {
	lead := 0
	for {
		b, err := a.DecBypass()
		if err != nil {
			return 0, err
		}
		if b == 0 {
			break
		}
		lead++
		if lead > 24 {
			return 0, errors.Wrap(ErrBadStream, "mvd escape: run exceeded")
		}
	}
	suffix := 0
	for i := 0; i < lead; i++ {
		b, err := a.DecBypass()
		if err != nil {
			return 0, err
		}
		suffix = suffix<<1 | b
	}
	return base + (1<<uint(lead) - 1) + suffix, nil
}

// --- transform coefficient blocks ------------------------------------------

// Context bases for the three distinct coefficient-block classes, each
// reserving contexts [base, base+62] for its run/level/last-flag banks
// (q.v. dec_intra_coeff_block, dec_inter_coeff_block, dec_chroma_coeff_block
// in AvsVlcParser.h, and dec_coeff_block's ctxIdxBase-relative offsets in
// AvsAecParser.cpp).
const (
	intraLumaCoeffCtxBase = 0
	interLumaCoeffCtxBase = 63
	chromaCoeffCtxBase    = 126
)

// coeffRunBankOff and coeffLevelBankOff offset ctxIdxBase to the run-length
// and level-magnitude context banks respectively (q.v.
// ctxIdxR=ctxIdxBase+46, ctxIdxW=ctxIdxBase+14). The last-coefficient-flag
// context has no bank constant: decCoeffBlock computes it as
// ctxIdxBase+priIdx3[lMax] (q.v. ctxIdxL).
const (
	coeffRunBankOff   = 46
	coeffLevelBankOff = 14
)

// decCoeffRun decodes one run-length value: the count of zero coefficients
// preceding the next nonzero one in scan order, context-coded up to a short
// prefix then escaping to a bypass exp-Golomb suffix.
func (a *AecReader) decCoeffRun(ctxBase int) (int, error) {
	n, err := a.DecZeroCnt(ctxBase, 6)
	if err != nil {
		return 0, err
	}
	if n < 6 {
		return n, nil
	}
	return a.decodeEGBypass(6)
}

// decCoeffLevel decodes one coefficient's signed magnitude: a short
// context-coded unary prefix for the first few magnitudes, escaping to a
// bypass exp-Golomb suffix for larger values, followed by a bypass sign
// bit.
func (a *AecReader) decCoeffLevel(ctxBase int) (int16, error) {
	mag, err := a.DecZeroCnt(ctxBase, 6)
	if err != nil {
		return 0, err
	}
	mag++ // levels are never zero
	if mag > 6 {
		esc, err := a.decodeEGBypass(6)
		if err != nil {
			return 0, err
		}
		mag = esc + 1
	}
	sign, err := a.DecBypass()
	if err != nil {
		return 0, err
	}
	if sign != 0 {
		return int16(-mag), nil
	}
	return int16(mag), nil
}

// decCoeffBlock decodes a full 8x8 residual block's run/level pairs in
// scan order, context base ctxIdxBase selecting which of the three
// coefficient-block classes is active (q.v. dec_coeff_block). It returns
// the decoded levels placed directly at their scan positions (not yet
// dequantised or un-zig-zagged).
func (a *AecReader) decCoeffBlock(ctxIdxBase int) (levels [64]int16, err error) {
	pos := -1
	lMax := 0
	for pos < 63 {
		li := lMax
		if li > 7 {
			li = 7
		}
		lastCtx := ctxIdxBase + int(priIdx3[li])
		if lastCtx < 0 {
			lastCtx = ctxIdxBase
		}
		last, err := a.DecDecision(lastCtx)
		if err != nil {
			return levels, err
		}

		run, err := a.decCoeffRun(ctxIdxBase + coeffRunBankOff)
		if err != nil {
			return levels, err
		}
		pos += run + 1
		if pos > 63 {
			return levels, errors.Wrap(ErrBadStream, "coeff_block: run overruns block")
		}

		level, err := a.decCoeffLevel(ctxIdxBase + coeffLevelBankOff)
		if err != nil {
			return levels, err
		}
		levels[pos] = level
		lMax++

		if last != 0 {
			break
		}
	}
	return levels, nil
}

// dequantBlock dequantises levels (already placed at their scan-order
// positions) into display-order coefficients, applying the weighting
// matrix, dequant scale/shift and inverse scan (q.v. dec_coeff_block's
// final "tmp=((level*wqm[idx]>>3)*scale)>>4" step).
func dequantBlock(levels *[64]int16, scan *[64]uint8, wqm *[64]uint8, scale int32, shift uint8) [64]int16 {
	var coeff [64]int16
	var rnd int32
	if shift > 0 {
		rnd = 1 << (shift - 1)
	}
	for pos := 0; pos < 64; pos++ {
		lvl := levels[pos]
		if lvl == 0 {
			continue
		}
		idx := scan[pos]
		w := int32(wqm[idx])
		tmp := ((int32(lvl) * w) >> 3) * scale >> 4
		if tmp < 0 {
			tmp = -(((-tmp) + rnd) >> shift)
		} else {
			tmp = (tmp + rnd) >> shift
		}
		coeff[idx] = int16(tmp)
	}
	return coeff
}

// DecIntraCoeffBlock decodes one 8x8 residual block of an intra luma
// macroblock (q.v. AvsVlcParser::dec_intra_coeff_block's AEC counterpart).
func (a *AecReader) DecIntraCoeffBlock(scan *[64]uint8, wqm *[64]uint8, scale int32, shift uint8) ([64]int16, error) {
	levels, err := a.decCoeffBlock(intraLumaCoeffCtxBase)
	if err != nil {
		return [64]int16{}, err
	}
	return dequantBlock(&levels, scan, wqm, scale, shift), nil
}

// DecInterCoeffBlock decodes one 8x8 residual block of an inter luma
// macroblock (q.v. dec_inter_coeff_block).
func (a *AecReader) DecInterCoeffBlock(scan *[64]uint8, wqm *[64]uint8, scale int32, shift uint8) ([64]int16, error) {
	levels, err := a.decCoeffBlock(interLumaCoeffCtxBase)
	if err != nil {
		return [64]int16{}, err
	}
	return dequantBlock(&levels, scan, wqm, scale, shift), nil
}

// DecChromaCoeffBlock decodes one 8x8 (or, for non-4:2:0 formats, smaller)
// chroma residual block (q.v. dec_chroma_coeff_block).
func (a *AecReader) DecChromaCoeffBlock(scan *[64]uint8, wqm *[64]uint8, scale int32, shift uint8) ([64]int16, error) {
	levels, err := a.decCoeffBlock(chromaCoeffCtxBase)
	if err != nil {
		return [64]int16{}, err
	}
	return dequantBlock(&levels, scan, wqm, scale, shift), nil
}
