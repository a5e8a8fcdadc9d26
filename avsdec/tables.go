/*
DESCRIPTION
  tables.go holds the constant lookup tables GY/T 257.1-2012 specifies
  verbatim: the coded_block_pattern index table (standard table 42), the
  dequantisation scale/shift tables (standard tables 61/62), the chroma QP
  remap (standard table 61), the two zig-zag inverse-scan orders, and the
  intra luma prediction-mode derivation table.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

// cbpTab maps a decoded cbp_idx to {cbp for I-pictures, cbp for P/B
// pictures} (standard table 42).
var cbpTab = [64][2]uint8{
	{63, 0}, {15, 15}, {31, 63}, {47, 31}, {0, 16}, {14, 32}, {13, 47}, {11, 13},
	{7, 14}, {5, 11}, {10, 12}, {8, 5}, {12, 10}, {61, 7}, {4, 48}, {55, 3},
	{1, 2}, {2, 8}, {59, 4}, {3, 1}, {62, 61}, {9, 55}, {6, 59}, {29, 62},
	{45, 29}, {51, 27}, {23, 23}, {39, 19}, {27, 30}, {46, 28}, {53, 9}, {30, 6},
	{43, 60}, {37, 21}, {60, 44}, {16, 26}, {21, 51}, {28, 35}, {19, 18}, {35, 20},
	{42, 24}, {26, 53}, {44, 17}, {32, 37}, {58, 39}, {24, 45}, {20, 58}, {17, 43},
	{18, 42}, {48, 46}, {22, 36}, {33, 33}, {25, 34}, {49, 40}, {40, 52}, {36, 49},
	{34, 50}, {50, 56}, {52, 25}, {54, 22}, {41, 54}, {56, 57}, {38, 41}, {57, 38},
}

// dequantScale is the per-QP dequantisation multiplier (standard table 61).
var dequantScale = [64]int32{
	32768, 36061, 38968, 42495, 46341, 50535, 55437, 60424,
	32932, 35734, 38968, 42495, 46177, 50535, 55109, 59933,
	65535, 35734, 38968, 42577, 46341, 50617, 55027, 60097,
	32809, 35734, 38968, 42454, 46382, 50576, 55109, 60056,
	65535, 35734, 38968, 42495, 46320, 50515, 55109, 60076,
	65535, 35744, 38968, 42495, 46341, 50535, 55099, 60087,
	65535, 35734, 38973, 42500, 46341, 50535, 55109, 60097,
	32771, 35734, 38965, 42497, 46341, 50535, 55109, 60099,
}

// dequantShift is the per-QP dequantisation right-shift (standard table
// 62).
var dequantShift = [64]uint8{
	14, 14, 14, 14, 14, 14, 14, 14,
	13, 13, 13, 13, 13, 13, 13, 13,
	13, 12, 12, 12, 12, 12, 12, 12,
	11, 11, 11, 11, 11, 11, 11, 11,
	11, 10, 10, 10, 10, 10, 10, 10,
	10, 9, 9, 9, 9, 9, 9, 9,
	9, 8, 8, 8, 8, 8, 8, 8,
	7, 7, 7, 7, 7, 7, 7, 7,
}

// chromaQp remaps a luma QP (plus an encoder delta, hence the 16-entry
// overflow margin beyond the 64 valid luma QP values) to its chroma QP
// (standard table 61 appendix).
// The trailing 16 entries are never indexed by a conforming stream (qp+delta
// stays within [0,63]); they are zero, matching the reference table's
// implicit zero-initialisation of the array's declared margin.
var chromaQp = [64 + 16]uint8{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31,
	32, 33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 42, 43, 43, 44, 44,
	45, 45, 46, 46, 47, 47, 48, 48, 48, 49, 49, 49, 50, 50, 50, 51,
}

// invScanFrame and invScanField are the two 8x8 inverse zig-zag scan
// orders giving, for each position in decode (scan) order, the raster
// index of that coefficient.
var invScanFrame = [64]uint8{
	0, 8, 1, 2, 9, 16, 24, 17, 10, 3, 4, 11, 18, 25, 32, 40,
	33, 26, 19, 12, 5, 6, 13, 20, 27, 34, 41, 48, 56, 49, 42, 35,
	28, 21, 14, 7, 15, 22, 29, 36, 43, 50, 57, 58, 51, 44, 37, 30,
	23, 31, 38, 45, 52, 59, 60, 53, 46, 39, 47, 54, 61, 62, 55, 63,
}

var invScanField = [64]uint8{
	0, 1, 2, 8, 3, 4, 9, 10, 5, 6, 11, 16, 17, 7, 12, 18,
	24, 13, 14, 19, 25, 26, 32, 15, 20, 33, 21, 27, 34, 22, 28, 35,
	40, 41, 23, 29, 36, 42, 48, 43, 30, 37, 49, 50, 44, 31, 38, 51,
	45, 39, 52, 46, 53, 47, 54, 56, 55, 57, 58, 59, 60, 61, 62, 63,
}

// invScan returns the scan order to use for a macroblock, selected by
// picture structure (field pictures use the field scan; frame-coded
// pictures, including frame-coded fields of an interlaced sequence, use
// the frame scan).
func invScan(fieldCoded bool) *[64]uint8 {
	if fieldCoded {
		return &invScanField
	}
	return &invScanFrame
}

// predIntraMode derives predIntraPredMode from the left (predA) and above
// (predB) neighbours' intra luma prediction modes, both in [-1,4] where -1
// means "unavailable" (q.v. standard 9.4.4, get_intra_pred_mode).
var predIntraMode = [6][6]int8{
	{2, 2, 2, 2, 2, 2},
	{2, 0, 0, 0, 0, 0},
	{2, 0, 1, 1, 1, 1},
	{2, 0, 1, 2, 2, 2},
	{2, 0, 1, 2, 3, 3},
	{2, 0, 1, 2, 3, 4},
}

func getIntraPredMode(predA, predB int8) int8 {
	return predIntraMode[predA+1][predB+1]
}

// priIdx3 picks decCoeffBlock's last-coefficient-flag context offset
// (ctxIdxL) from lMax, the number of coefficients already decoded in the
// block (capped at 7). priIdx4 is a parallel offset table that nothing in
// the decoder reads.
var priIdx3 = [8]int8{-1, 2, 5, 8, 8, 11, 11, 11}
var priIdx4 = [8]int8{46, 50, 54, 58, 58, 62, 62, 62}

// defaultWeightQuantMatrix8x8 is the flat (non-weighted) matrix applied
// when a picture header's weight_quant_flag is false; every coefficient is
// scaled by the same unit value so dequantBlock's "* wqm[idx] >> 3" step
// is a no-op (8 == 1<<3).
var defaultWeightQuantMatrix8x8 = func() [64]uint8 {
	var m [64]uint8
	for i := range m {
		m[i] = 8
	}
	return m
}()

// wqParamBase gives the three built-in parameter sets a weight_quant_index
// of 1 or 2 selects (index 0 always means "flat", handled separately); each
// row supplies wq[0..5], the six distinct weight classes WQ_MODEL_* spreads
// across the 8x8 block.
var wqParamBase = [3][6]uint8{
	{128, 98, 106, 116, 116, 128},
	{135, 143, 143, 160, 160, 213},
	{128, 98, 106, 116, 116, 128},
}

// weightQuantModel expands a 6-entry wq[] parameter set into the full 8x8
// matrix for the given model (0, 1, or 2), matching WQ_MODEL_0/1/2.
func weightQuantModel(model uint8, wq [6]uint8) [64]uint8 {
	idx := func(i int) uint8 { return wq[i] }
	switch model {
	case 1:
		return [64]uint8{
			idx(0), idx(0), idx(0), idx(4), idx(4), idx(4), idx(5), idx(5),
			idx(0), idx(0), idx(4), idx(4), idx(4), idx(4), idx(5), idx(5),
			idx(0), idx(3), idx(2), idx(2), idx(2), idx(1), idx(5), idx(5),
			idx(3), idx(3), idx(2), idx(2), idx(1), idx(5), idx(5), idx(5),
			idx(3), idx(3), idx(2), idx(1), idx(5), idx(5), idx(5), idx(5),
			idx(3), idx(3), idx(1), idx(5), idx(5), idx(5), idx(5), idx(5),
			idx(5), idx(5), idx(5), idx(5), idx(5), idx(5), idx(5), idx(5),
			idx(5), idx(5), idx(5), idx(5), idx(5), idx(5), idx(5), idx(5),
		}
	case 2:
		return [64]uint8{
			idx(0), idx(0), idx(0), idx(4), idx(4), idx(3), idx(5), idx(5),
			idx(0), idx(0), idx(4), idx(4), idx(3), idx(2), idx(5), idx(5),
			idx(0), idx(4), idx(4), idx(3), idx(2), idx(1), idx(5), idx(5),
			idx(4), idx(4), idx(3), idx(2), idx(1), idx(5), idx(5), idx(5),
			idx(4), idx(3), idx(2), idx(1), idx(5), idx(5), idx(5), idx(5),
			idx(3), idx(2), idx(1), idx(5), idx(5), idx(5), idx(5), idx(5),
			idx(5), idx(5), idx(5), idx(5), idx(5), idx(5), idx(5), idx(5),
			idx(5), idx(5), idx(5), idx(5), idx(5), idx(5), idx(5), idx(5),
		}
	default: // 0
		return [64]uint8{
			idx(0), idx(0), idx(0), idx(4), idx(4), idx(4), idx(5), idx(5),
			idx(0), idx(0), idx(3), idx(3), idx(3), idx(3), idx(5), idx(5),
			idx(0), idx(3), idx(2), idx(2), idx(1), idx(1), idx(5), idx(5),
			idx(4), idx(3), idx(2), idx(2), idx(1), idx(5), idx(5), idx(5),
			idx(4), idx(3), idx(1), idx(1), idx(5), idx(5), idx(5), idx(5),
			idx(4), idx(3), idx(1), idx(5), idx(5), idx(5), idx(5), idx(5),
			idx(5), idx(5), idx(5), idx(5), idx(5), idx(5), idx(5), idx(5),
			idx(5), idx(5), idx(5), idx(5), idx(5), idx(5), idx(5), idx(5),
		}
	}
}

// buildWeightQuantMatrix derives the active weighting-quantisation matrix
// from a broadcast-profile picture header's weight_quant_index/model and
// per-coefficient deltas (q.v. AvsHeaders.cpp weight_quant_param_delta),
// or the flat matrix when weighting is disabled.
func buildWeightQuantMatrix(wq *WeightQuantParam, enabled bool) [64]uint8 {
	if !enabled || wq.Index == 0 {
		return defaultWeightQuantMatrix8x8
	}
	base := wqParamBase[wq.Index-1]
	var params [6]uint8
	for i := range params {
		v := int(base[i])
		if i < len(wq.DeltaParam) {
			v += int(wq.DeltaParam[i])
		}
		if v < 1 {
			v = 1
		}
		if v > 255 {
			v = 255
		}
		params[i] = uint8(v)
	}
	return weightQuantModel(wq.Model, params)
}
