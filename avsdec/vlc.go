/*
DESCRIPTION
  vlc.go implements the baseline-profile (non-AEC) coefficient parser: a
  run/level VLC table lookup with an exp-Golomb escape for values outside
  the table, used by sequences whose picture headers leave aec_enable
  unset (q.v. AvsVlcParser.cpp's s_IntraVlcTab/s_InterVlcTab/s_ChromaVlcTab).
  Three banks of seven (luma) or five (chroma) tables exist because the
  coding table switches to a higher bank as larger absolute levels are
  decoded within the block, the same "context drifts" idea
  DecIntraCoeffBlock/DecInterCoeffBlock/DecChromaCoeffBlock apply to
  AEC's adaptive contexts in aec.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

import "github.com/pkg/errors"

// vlcEntry is one levelRunInc row: the decoded (level, run) pair and the
// table-bank increment to apply before decoding the next coefficient.
type vlcEntry struct {
	Level, Run, NextInc int8
}

// vlcMap mirrors VLCMap: a direct-lookup table for codeNum < len(Tab),
// an escape table keyed by run length for larger codeNum, and the
// exp-Golomb order used to read the escape's excess magnitude.
type vlcMap struct {
	Tab         []vlcEntry
	RefAbsLevel []int8
	Order       int8
	MaxRun      int8
}

// intraVlcTab is s_IntraVlcTab: the 7-bank table bank for intra-luma
// baseline-profile coefficient blocks.
var intraVlcTab = [7]vlcMap{
	{
		Tab: []vlcEntry{
			{1, 1, 1}, {-1, 1, 1}, {1, 2, 1}, {-1, 2, 1}, {1, 3, 1}, {-1, 3, 1},
			{1, 4, 1}, {-1, 4, 1}, {1, 5, 1}, {-1, 5, 1}, {1, 6, 1}, {-1, 6, 1},
			{1, 7, 1}, {-1, 7, 1}, {1, 8, 1}, {-1, 8, 1}, {1, 9, 1}, {-1, 9, 1},
			{1, 10, 1}, {-1, 10, 1}, {1, 11, 1}, {-1, 11, 1}, {2, 1, 2}, {-2, 1, 2},
			{1, 12, 1}, {-1, 12, 1}, {1, 13, 1}, {-1, 13, 1}, {1, 14, 1}, {-1, 14, 1},
			{1, 15, 1}, {-1, 15, 1}, {2, 2, 2}, {-2, 2, 2}, {1, 16, 1}, {-1, 16, 1},
			{1, 17, 1}, {-1, 17, 1}, {3, 1, 3}, {-3, 1, 3}, {1, 18, 1}, {-1, 18, 1},
			{1, 19, 1}, {-1, 19, 1}, {2, 3, 2}, {-2, 3, 2}, {1, 20, 1}, {-1, 20, 1},
			{1, 21, 1}, {-1, 21, 1}, {2, 4, 2}, {-2, 4, 2}, {1, 22, 1}, {-1, 22, 1},
			{2, 5, 2}, {-2, 5, 2}, {1, 23, 1}, {-1, 23, 1},
		},
		RefAbsLevel: []int8{4, 3, 3, 3, 3, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
		Order:       2,
		MaxRun:      22,
	},
	{
		Tab: []vlcEntry{
			{1, 1, 0}, {-1, 1, 0}, {1, 2, 0}, {-1, 2, 0}, {2, 1, 1}, {-2, 1, 1},
			{1, 3, 0}, {-1, 3, 0}, {0, 0, 0}, {1, 4, 0}, {-1, 4, 0}, {1, 5, 0},
			{-1, 5, 0}, {1, 6, 0}, {-1, 6, 0}, {3, 1, 2}, {-3, 1, 2}, {2, 2, 1},
			{-2, 2, 1}, {1, 7, 0}, {-1, 7, 0}, {1, 8, 0}, {-1, 8, 0}, {1, 9, 0},
			{-1, 9, 0}, {2, 3, 1}, {-2, 3, 1}, {4, 1, 2}, {-4, 1, 2}, {1, 10, 0},
			{-1, 10, 0}, {1, 11, 0}, {-1, 11, 0}, {2, 4, 1}, {-2, 4, 1}, {3, 2, 2},
			{-3, 2, 2}, {1, 12, 0}, {-1, 12, 0}, {2, 5, 1}, {-2, 5, 1}, {5, 1, 3},
			{-5, 1, 3}, {1, 13, 0}, {-1, 13, 0}, {2, 6, 1}, {-2, 6, 1}, {1, 14, 0},
			{-1, 14, 0}, {2, 7, 1}, {-2, 7, 1}, {2, 8, 1}, {-2, 8, 1}, {3, 3, 2},
			{-3, 3, 2}, {6, 1, 3}, {-6, 1, 3}, {1, 15, 0}, {-1, 15, 0},
		},
		RefAbsLevel: []int8{7, 4, 4, 3, 3, 3, 3, 3, 2, 2, 2, 2, 2, 2, 2},
		Order:       2,
		MaxRun:      14,
	},
	{
		Tab: []vlcEntry{
			{1, 1, 0}, {-1, 1, 0}, {2, 1, 0}, {-2, 1, 0}, {1, 2, 0}, {-1, 2, 0},
			{3, 1, 1}, {-3, 1, 1}, {0, 0, 0}, {1, 3, 0}, {-1, 3, 0}, {2, 2, 0},
			{-2, 2, 0}, {4, 1, 1}, {-4, 1, 1}, {1, 4, 0}, {-1, 4, 0}, {5, 1, 2},
			{-5, 1, 2}, {1, 5, 0}, {-1, 5, 0}, {3, 2, 1}, {-3, 2, 1}, {2, 3, 0},
			{-2, 3, 0}, {1, 6, 0}, {-1, 6, 0}, {6, 1, 2}, {-6, 1, 2}, {2, 4, 0},
			{-2, 4, 0}, {1, 7, 0}, {-1, 7, 0}, {4, 2, 1}, {-4, 2, 1}, {7, 1, 2},
			{-7, 1, 2}, {3, 3, 1}, {-3, 3, 1}, {2, 5, 0}, {-2, 5, 0}, {1, 8, 0},
			{-1, 8, 0}, {2, 6, 0}, {-2, 6, 0}, {8, 1, 3}, {-8, 1, 3}, {1, 9, 0},
			{-1, 9, 0}, {5, 2, 2}, {-5, 2, 2}, {3, 4, 1}, {-3, 4, 1}, {2, 7, 0},
			{-2, 7, 0}, {9, 1, 3}, {-9, 1, 3}, {1, 10, 0}, {-1, 10, 0},
		},
		RefAbsLevel: []int8{10, 6, 4, 4, 3, 3, 3, 2, 2, 2},
		Order:       2,
		MaxRun:      9,
	},
	{
		Tab: []vlcEntry{
			{1, 1, 0}, {-1, 1, 0}, {2, 1, 0}, {-2, 1, 0}, {3, 1, 0}, {-3, 1, 0},
			{1, 2, 0}, {-1, 2, 0}, {0, 0, 0}, {4, 1, 0}, {-4, 1, 0}, {5, 1, 1},
			{-5, 1, 1}, {2, 2, 0}, {-2, 2, 0}, {1, 3, 0}, {-1, 3, 0}, {6, 1, 1},
			{-6, 1, 1}, {3, 2, 0}, {-3, 2, 0}, {7, 1, 1}, {-7, 1, 1}, {1, 4, 0},
			{-1, 4, 0}, {8, 1, 2}, {-8, 1, 2}, {2, 3, 0}, {-2, 3, 0}, {4, 2, 0},
			{-4, 2, 0}, {1, 5, 0}, {-1, 5, 0}, {9, 1, 2}, {-9, 1, 2}, {5, 2, 1},
			{-5, 2, 1}, {2, 4, 0}, {-2, 4, 0}, {10, 1, 2}, {-10, 1, 2}, {3, 3, 0},
			{-3, 3, 0}, {1, 6, 0}, {-1, 6, 0}, {11, 1, 3}, {-11, 1, 3}, {6, 2, 1},
			{-6, 2, 1}, {1, 7, 0}, {-1, 7, 0}, {2, 5, 0}, {-2, 5, 0}, {3, 4, 0},
			{-3, 4, 0}, {12, 1, 3}, {-12, 1, 3}, {4, 3, 0}, {-4, 3, 0},
		},
		RefAbsLevel: []int8{13, 7, 5, 4, 3, 2, 2},
		Order:       2,
		MaxRun:      6,
	},
	{
		Tab: []vlcEntry{
			{1, 1, 0}, {-1, 1, 0}, {2, 1, 0}, {-2, 1, 0}, {3, 1, 0}, {-3, 1, 0},
			{0, 0, 0}, {4, 1, 0}, {-4, 1, 0}, {5, 1, 0}, {-5, 1, 0}, {6, 1, 0},
			{-6, 1, 0}, {1, 2, 0}, {-1, 2, 0}, {7, 1, 0}, {-7, 1, 0}, {8, 1, 1},
			{-8, 1, 1}, {2, 2, 0}, {-2, 2, 0}, {9, 1, 1}, {-9, 1, 1}, {10, 1, 1},
			{-10, 1, 1}, {1, 3, 0}, {-1, 3, 0}, {3, 2, 0}, {-3, 2, 0}, {11, 1, 2},
			{-11, 1, 2}, {4, 2, 0}, {-4, 2, 0}, {12, 1, 2}, {-12, 1, 2}, {13, 1, 2},
			{-13, 1, 2}, {5, 2, 0}, {-5, 2, 0}, {1, 4, 0}, {-1, 4, 0}, {2, 3, 0},
			{-2, 3, 0}, {14, 1, 2}, {-14, 1, 2}, {6, 2, 0}, {-6, 2, 0}, {15, 1, 2},
			{-15, 1, 2}, {16, 1, 2}, {-16, 1, 2}, {3, 3, 0}, {-3, 3, 0}, {1, 5, 0},
			{-1, 5, 0}, {7, 2, 0}, {-7, 2, 0}, {17, 1, 2}, {-17, 1, 2},
		},
		RefAbsLevel: []int8{18, 8, 4, 2, 2},
		Order:       2,
		MaxRun:      4,
	},
	{
		Tab: []vlcEntry{
			{0, 0, 0}, {1, 1, 0}, {-1, 1, 0}, {2, 1, 0}, {-2, 1, 0}, {3, 1, 0},
			{-3, 1, 0}, {4, 1, 0}, {-4, 1, 0}, {5, 1, 0}, {-5, 1, 0}, {6, 1, 0},
			{-6, 1, 0}, {7, 1, 0}, {-7, 1, 0}, {8, 1, 0}, {-8, 1, 0}, {9, 1, 0},
			{-9, 1, 0}, {10, 1, 0}, {-10, 1, 0}, {1, 2, 0}, {-1, 2, 0}, {11, 1, 1},
			{-11, 1, 1}, {12, 1, 1}, {-12, 1, 1}, {13, 1, 1}, {-13, 1, 1}, {2, 2, 0},
			{-2, 2, 0}, {14, 1, 1}, {-14, 1, 1}, {15, 1, 1}, {-15, 1, 1}, {3, 2, 0},
			{-3, 2, 0}, {16, 1, 1}, {-16, 1, 1}, {1, 3, 0}, {-1, 3, 0}, {17, 1, 1},
			{-17, 1, 1}, {4, 2, 0}, {-4, 2, 0}, {18, 1, 1}, {-18, 1, 1}, {5, 2, 0},
			{-5, 2, 0}, {19, 1, 1}, {-19, 1, 1}, {20, 1, 1}, {-20, 1, 1}, {6, 2, 0},
			{-6, 2, 0}, {21, 1, 1}, {-21, 1, 1}, {2, 3, 0}, {-2, 3, 0},
		},
		RefAbsLevel: []int8{22, 7, 3},
		Order:       2,
		MaxRun:      2,
	},
	{
		Tab: []vlcEntry{
			{0, 0, 0}, {1, 1, 0}, {-1, 1, 0}, {2, 1, 0}, {-2, 1, 0}, {3, 1, 0},
			{-3, 1, 0}, {4, 1, 0}, {-4, 1, 0}, {5, 1, 0}, {-5, 1, 0}, {6, 1, 0},
			{-6, 1, 0}, {7, 1, 0}, {-7, 1, 0}, {8, 1, 0}, {-8, 1, 0}, {9, 1, 0},
			{-9, 1, 0}, {10, 1, 0}, {-10, 1, 0}, {11, 1, 0}, {-11, 1, 0}, {12, 1, 0},
			{-12, 1, 0}, {13, 1, 0}, {-13, 1, 0}, {14, 1, 0}, {-14, 1, 0}, {15, 1, 0},
			{-15, 1, 0}, {16, 1, 0}, {-16, 1, 0}, {1, 2, 0}, {-1, 2, 0}, {17, 1, 0},
			{-17, 1, 0}, {18, 1, 0}, {-18, 1, 0}, {19, 1, 0}, {-19, 1, 0}, {20, 1, 0},
			{-20, 1, 0}, {21, 1, 0}, {-21, 1, 0}, {2, 2, 0}, {-2, 2, 0}, {22, 1, 0},
			{-22, 1, 0}, {23, 1, 0}, {-23, 1, 0}, {24, 1, 0}, {-24, 1, 0}, {25, 1, 0},
			{-25, 1, 0}, {3, 2, 0}, {-3, 2, 0}, {26, 1, 0}, {-26, 1, 0},
		},
		RefAbsLevel: []int8{27, 4},
		Order:       2,
		MaxRun:      1,
	},
}

// intraNextIdx is s_IntraNextIdx: the next table-bank index for intra-luma
// blocks, selected by the just-decoded absolute level (clamped to 15).
var intraNextIdx = [16]uint8{1, 1, 2, 3, 3, 4, 4, 4, 5, 5, 5, 6, 6, 6, 6, 6}

// interVlcTab is s_InterVlcTab: the 7-bank table for inter-luma blocks.
var interVlcTab = [7]vlcMap{
	{
		Tab: []vlcEntry{
			{1, 1, 1}, {-1, 1, 1}, {1, 2, 1}, {-1, 2, 1}, {1, 3, 1}, {-1, 3, 1},
			{1, 4, 1}, {-1, 4, 1}, {1, 5, 1}, {-1, 5, 1}, {1, 6, 1}, {-1, 6, 1},
			{1, 7, 1}, {-1, 7, 1}, {1, 8, 1}, {-1, 8, 1}, {1, 9, 1}, {-1, 9, 1},
			{1, 10, 1}, {-1, 10, 1}, {1, 11, 1}, {-1, 11, 1}, {1, 12, 1}, {-1, 12, 1},
			{1, 13, 1}, {-1, 13, 1}, {2, 1, 2}, {-2, 1, 2}, {1, 14, 1}, {-1, 14, 1},
			{1, 15, 1}, {-1, 15, 1}, {1, 16, 1}, {-1, 16, 1}, {1, 17, 1}, {-1, 17, 1},
			{1, 18, 1}, {-1, 18, 1}, {1, 19, 1}, {-1, 19, 1}, {3, 1, 3}, {-3, 1, 3},
			{1, 20, 1}, {-1, 20, 1}, {1, 21, 1}, {-1, 21, 1}, {2, 2, 2}, {-2, 2, 2},
			{1, 22, 1}, {-1, 22, 1}, {1, 23, 1}, {-1, 23, 1}, {1, 24, 1}, {-1, 24, 1},
			{1, 25, 1}, {-1, 25, 1}, {1, 26, 1}, {-1, 26, 1},
		},
		RefAbsLevel: []int8{4, 3, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
		Order:       3,
		MaxRun:      25,
	},
	{
		Tab: []vlcEntry{
			{1, 1, 0}, {-1, 1, 0}, {0, 0, 0}, {1, 2, 0}, {-1, 2, 0}, {1, 3, 0},
			{-1, 3, 0}, {1, 4, 0}, {-1, 4, 0}, {1, 5, 0}, {-1, 5, 0}, {1, 6, 0},
			{-1, 6, 0}, {2, 1, 1}, {-2, 1, 1}, {1, 7, 0}, {-1, 7, 0}, {1, 8, 0},
			{-1, 8, 0}, {1, 9, 0}, {-1, 9, 0}, {1, 10, 0}, {-1, 10, 0}, {2, 2, 1},
			{-2, 2, 1}, {1, 11, 0}, {-1, 11, 0}, {1, 12, 0}, {-1, 12, 0}, {3, 1, 2},
			{-3, 1, 2}, {1, 13, 0}, {-1, 13, 0}, {1, 14, 0}, {-1, 14, 0}, {2, 3, 1},
			{-2, 3, 1}, {1, 15, 0}, {-1, 15, 0}, {2, 4, 1}, {-2, 4, 1}, {1, 16, 0},
			{-1, 16, 0}, {2, 5, 1}, {-2, 5, 1}, {1, 17, 0}, {-1, 17, 0}, {4, 1, 3},
			{-4, 1, 3}, {2, 6, 1}, {-2, 6, 1}, {1, 18, 0}, {-1, 18, 0}, {1, 19, 0},
			{-1, 19, 0}, {2, 7, 1}, {-2, 7, 1}, {3, 2, 2}, {-3, 2, 2},
		},
		RefAbsLevel: []int8{5, 4, 3, 3, 3, 3, 3, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
		Order:       2,
		MaxRun:      18,
	},
	{
		Tab: []vlcEntry{
			{1, 1, 0}, {-1, 1, 0}, {0, 0, 0}, {1, 2, 0}, {-1, 2, 0}, {2, 1, 0},
			{-2, 1, 0}, {1, 3, 0}, {-1, 3, 0}, {1, 4, 0}, {-1, 4, 0}, {3, 1, 1},
			{-3, 1, 1}, {2, 2, 0}, {-2, 2, 0}, {1, 5, 0}, {-1, 5, 0}, {1, 6, 0},
			{-1, 6, 0}, {1, 7, 0}, {-1, 7, 0}, {2, 3, 0}, {-2, 3, 0}, {4, 1, 2},
			{-4, 1, 2}, {1, 8, 0}, {-1, 8, 0}, {3, 2, 1}, {-3, 2, 1}, {2, 4, 0},
			{-2, 4, 0}, {1, 9, 0}, {-1, 9, 0}, {1, 10, 0}, {-1, 10, 0}, {5, 1, 2},
			{-5, 1, 2}, {2, 5, 0}, {-2, 5, 0}, {1, 11, 0}, {-1, 11, 0}, {2, 6, 0},
			{-2, 6, 0}, {1, 12, 0}, {-1, 12, 0}, {3, 3, 1}, {-3, 3, 1}, {6, 1, 2},
			{-6, 1, 2}, {4, 2, 2}, {-4, 2, 2}, {1, 13, 0}, {-1, 13, 0}, {2, 7, 0},
			{-2, 7, 0}, {3, 4, 1}, {-3, 4, 1}, {1, 14, 0}, {-1, 14, 0},
		},
		RefAbsLevel: []int8{7, 5, 4, 4, 3, 3, 3, 2, 2, 2, 2, 2, 2, 2},
		Order:       2,
		MaxRun:      13,
	},
	{
		Tab: []vlcEntry{
			{1, 1, 0}, {-1, 1, 0}, {0, 0, 0}, {2, 1, 0}, {-2, 1, 0}, {1, 2, 0},
			{-1, 2, 0}, {3, 1, 0}, {-3, 1, 0}, {1, 3, 0}, {-1, 3, 0}, {2, 2, 0},
			{-2, 2, 0}, {4, 1, 1}, {-4, 1, 1}, {1, 4, 0}, {-1, 4, 0}, {5, 1, 1},
			{-5, 1, 1}, {1, 5, 0}, {-1, 5, 0}, {3, 2, 0}, {-3, 2, 0}, {2, 3, 0},
			{-2, 3, 0}, {1, 6, 0}, {-1, 6, 0}, {6, 1, 1}, {-6, 1, 1}, {2, 4, 0},
			{-2, 4, 0}, {1, 7, 0}, {-1, 7, 0}, {4, 2, 1}, {-4, 2, 1}, {7, 1, 2},
			{-7, 1, 2}, {3, 3, 0}, {-3, 3, 0}, {1, 8, 0}, {-1, 8, 0}, {2, 5, 0},
			{-2, 5, 0}, {8, 1, 2}, {-8, 1, 2}, {1, 9, 0}, {-1, 9, 0}, {3, 4, 0},
			{-3, 4, 0}, {2, 6, 0}, {-2, 6, 0}, {5, 2, 1}, {-5, 2, 1}, {1, 10, 0},
			{-1, 10, 0}, {9, 1, 2}, {-9, 1, 2}, {4, 3, 1}, {-4, 3, 1},
		},
		RefAbsLevel: []int8{10, 6, 5, 4, 3, 3, 2, 2, 2, 2},
		Order:       2,
		MaxRun:      9,
	},
	{
		Tab: []vlcEntry{
			{1, 1, 0}, {-1, 1, 0}, {0, 0, 0}, {2, 1, 0}, {-2, 1, 0}, {3, 1, 0},
			{-3, 1, 0}, {1, 2, 0}, {-1, 2, 0}, {4, 1, 0}, {-4, 1, 0}, {5, 1, 0},
			{-5, 1, 0}, {2, 2, 0}, {-2, 2, 0}, {1, 3, 0}, {-1, 3, 0}, {6, 1, 0},
			{-6, 1, 0}, {3, 2, 0}, {-3, 2, 0}, {7, 1, 1}, {-7, 1, 1}, {1, 4, 0},
			{-1, 4, 0}, {8, 1, 1}, {-8, 1, 1}, {2, 3, 0}, {-2, 3, 0}, {4, 2, 0},
			{-4, 2, 0}, {1, 5, 0}, {-1, 5, 0}, {9, 1, 1}, {-9, 1, 1}, {5, 2, 0},
			{-5, 2, 0}, {2, 4, 0}, {-2, 4, 0}, {1, 6, 0}, {-1, 6, 0}, {10, 1, 2},
			{-10, 1, 2}, {3, 3, 0}, {-3, 3, 0}, {11, 1, 2}, {-11, 1, 2}, {1, 7, 0},
			{-1, 7, 0}, {6, 2, 0}, {-6, 2, 0}, {3, 4, 0}, {-3, 4, 0}, {2, 5, 0},
			{-2, 5, 0}, {12, 1, 2}, {-12, 1, 2}, {4, 3, 0}, {-4, 3, 0},
		},
		RefAbsLevel: []int8{13, 7, 5, 4, 3, 2, 2},
		Order:       2,
		MaxRun:      6,
	},
	{
		Tab: []vlcEntry{
			{0, 0, 0}, {1, 1, 0}, {-1, 1, 0}, {2, 1, 0}, {-2, 1, 0}, {3, 1, 0},
			{-3, 1, 0}, {4, 1, 0}, {-4, 1, 0}, {5, 1, 0}, {-5, 1, 0}, {1, 2, 0},
			{-1, 2, 0}, {6, 1, 0}, {-6, 1, 0}, {7, 1, 0}, {-7, 1, 0}, {8, 1, 0},
			{-8, 1, 0}, {2, 2, 0}, {-2, 2, 0}, {9, 1, 0}, {-9, 1, 0}, {1, 3, 0},
			{-1, 3, 0}, {10, 1, 1}, {-10, 1, 1}, {3, 2, 0}, {-3, 2, 0}, {11, 1, 1},
			{-11, 1, 1}, {4, 2, 0}, {-4, 2, 0}, {12, 1, 1}, {-12, 1, 1}, {1, 4, 0},
			{-1, 4, 0}, {2, 3, 0}, {-2, 3, 0}, {13, 1, 1}, {-13, 1, 1}, {5, 2, 0},
			{-5, 2, 0}, {14, 1, 1}, {-14, 1, 1}, {6, 2, 0}, {-6, 2, 0}, {1, 5, 0},
			{-1, 5, 0}, {15, 1, 1}, {-15, 1, 1}, {3, 3, 0}, {-3, 3, 0}, {16, 1, 1},
			{-16, 1, 1}, {2, 4, 0}, {-2, 4, 0}, {7, 2, 0}, {-7, 2, 0},
		},
		RefAbsLevel: []int8{17, 8, 4, 3, 2},
		Order:       2,
		MaxRun:      4,
	},
	{
		Tab: []vlcEntry{
			{0, 0, 0}, {1, 1, 0}, {-1, 1, 0}, {2, 1, 0}, {-2, 1, 0}, {3, 1, 0},
			{-3, 1, 0}, {4, 1, 0}, {-4, 1, 0}, {5, 1, 0}, {-5, 1, 0}, {6, 1, 0},
			{-6, 1, 0}, {7, 1, 0}, {-7, 1, 0}, {1, 2, 0}, {-1, 2, 0}, {8, 1, 0},
			{-8, 1, 0}, {9, 1, 0}, {-9, 1, 0}, {10, 1, 0}, {-10, 1, 0}, {11, 1, 0},
			{-11, 1, 0}, {12, 1, 0}, {-12, 1, 0}, {2, 2, 0}, {-2, 2, 0}, {13, 1, 0},
			{-13, 1, 0}, {1, 3, 0}, {-1, 3, 0}, {14, 1, 0}, {-14, 1, 0}, {15, 1, 0},
			{-15, 1, 0}, {3, 2, 0}, {-3, 2, 0}, {16, 1, 0}, {-16, 1, 0}, {17, 1, 0},
			{-17, 1, 0}, {18, 1, 0}, {-18, 1, 0}, {4, 2, 0}, {-4, 2, 0}, {19, 1, 0},
			{-19, 1, 0}, {20, 1, 0}, {-20, 1, 0}, {2, 3, 0}, {-2, 3, 0}, {1, 4, 0},
			{-1, 4, 0}, {5, 2, 0}, {-5, 2, 0}, {21, 1, 0}, {-21, 1, 0},
		},
		RefAbsLevel: []int8{22, 6, 3, 2},
		Order:       2,
		MaxRun:      3,
	},
}

// interNextIdx is s_InterNextIdx.
var interNextIdx = [16]uint8{1, 1, 2, 3, 4, 4, 4, 5, 5, 5, 6, 6, 6, 6, 6, 6}

// chromaVlcTab is s_ChromaVlcTab: the 5-bank table for chroma blocks.
var chromaVlcTab = [5]vlcMap{
	{
		Tab: []vlcEntry{
			{1, 1, 1}, {-1, 1, 1}, {1, 2, 1}, {-1, 2, 1}, {1, 3, 1}, {-1, 3, 1},
			{1, 4, 1}, {-1, 4, 1}, {1, 5, 1}, {-1, 5, 1}, {1, 6, 1}, {-1, 6, 1},
			{1, 7, 1}, {-1, 7, 1}, {2, 1, 2}, {-2, 1, 2}, {1, 8, 1}, {-1, 8, 1},
			{1, 9, 1}, {-1, 9, 1}, {1, 10, 1}, {-1, 10, 1}, {1, 11, 1}, {-1, 11, 1},
			{1, 12, 1}, {-1, 12, 1}, {1, 13, 1}, {-1, 13, 1}, {1, 14, 1}, {-1, 14, 1},
			{1, 15, 1}, {-1, 15, 1}, {3, 1, 3}, {-3, 1, 3}, {1, 16, 1}, {-1, 16, 1},
			{1, 17, 1}, {-1, 17, 1}, {1, 18, 1}, {-1, 18, 1}, {1, 19, 1}, {-1, 19, 1},
			{1, 20, 1}, {-1, 20, 1}, {1, 21, 1}, {-1, 21, 1}, {1, 22, 1}, {-1, 22, 1},
			{2, 2, 2}, {-2, 2, 2}, {1, 23, 1}, {-1, 23, 1}, {1, 24, 1}, {-1, 24, 1},
			{1, 25, 1}, {-1, 25, 1}, {4, 1, 3}, {-4, 1, 3},
		},
		RefAbsLevel: []int8{5, 3, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
		Order:       2,
		MaxRun:      24,
	},
	{
		Tab: []vlcEntry{
			{0, 0, 0}, {1, 1, 0}, {-1, 1, 0}, {1, 2, 0}, {-1, 2, 0}, {2, 1, 1},
			{-2, 1, 1}, {1, 3, 0}, {-1, 3, 0}, {1, 4, 0}, {-1, 4, 0}, {1, 5, 0},
			{-1, 5, 0}, {1, 6, 0}, {-1, 6, 0}, {3, 1, 2}, {-3, 1, 2}, {1, 7, 0},
			{-1, 7, 0}, {1, 8, 0}, {-1, 8, 0}, {2, 2, 1}, {-2, 2, 1}, {1, 9, 0},
			{-1, 9, 0}, {1, 10, 0}, {-1, 10, 0}, {1, 11, 0}, {-1, 11, 0}, {4, 1, 2},
			{-4, 1, 2}, {1, 12, 0}, {-1, 12, 0}, {1, 13, 0}, {-1, 13, 0}, {1, 14, 0},
			{-1, 14, 0}, {2, 3, 1}, {-2, 3, 1}, {1, 15, 0}, {-1, 15, 0}, {2, 4, 1},
			{-2, 4, 1}, {5, 1, 3}, {-5, 1, 3}, {3, 2, 2}, {-3, 2, 2}, {1, 16, 0},
			{-1, 16, 0}, {1, 17, 0}, {-1, 17, 0}, {1, 18, 0}, {-1, 18, 0}, {2, 5, 1},
			{-2, 5, 1}, {1, 19, 0}, {-1, 19, 0}, {1, 20, 0}, {-1, 20, 0},
		},
		RefAbsLevel: []int8{6, 4, 3, 3, 3, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
		Order:       0,
		MaxRun:      19,
	},
	{
		Tab: []vlcEntry{
			{1, 1, 0}, {-1, 1, 0}, {0, 0, 0}, {2, 1, 0}, {-2, 1, 0}, {1, 2, 0},
			{-1, 2, 0}, {3, 1, 1}, {-3, 1, 1}, {1, 3, 0}, {-1, 3, 0}, {4, 1, 1},
			{-4, 1, 1}, {2, 2, 0}, {-2, 2, 0}, {1, 4, 0}, {-1, 4, 0}, {5, 1, 2},
			{-5, 1, 2}, {1, 5, 0}, {-1, 5, 0}, {3, 2, 1}, {-3, 2, 1}, {2, 3, 0},
			{-2, 3, 0}, {1, 6, 0}, {-1, 6, 0}, {6, 1, 2}, {-6, 1, 2}, {1, 7, 0},
			{-1, 7, 0}, {2, 4, 0}, {-2, 4, 0}, {7, 1, 2}, {-7, 1, 2}, {1, 8, 0},
			{-1, 8, 0}, {4, 2, 1}, {-4, 2, 1}, {1, 9, 0}, {-1, 9, 0}, {3, 3, 1},
			{-3, 3, 1}, {2, 5, 0}, {-2, 5, 0}, {2, 6, 0}, {-2, 6, 0}, {8, 1, 2},
			{-8, 1, 2}, {1, 10, 0}, {-1, 10, 0}, {1, 11, 0}, {-1, 11, 0}, {9, 1, 2},
			{-9, 1, 2}, {5, 2, 2}, {-5, 2, 2}, {3, 4, 1}, {-3, 4, 1},
		},
		RefAbsLevel: []int8{10, 6, 4, 4, 3, 3, 2, 2, 2, 2, 2},
		Order:       1,
		MaxRun:      10,
	},
	{
		Tab: []vlcEntry{
			{0, 0, 0}, {1, 1, 0}, {-1, 1, 0}, {2, 1, 0}, {-2, 1, 0}, {3, 1, 0},
			{-3, 1, 0}, {4, 1, 0}, {-4, 1, 0}, {1, 2, 0}, {-1, 2, 0}, {5, 1, 1},
			{-5, 1, 1}, {2, 2, 0}, {-2, 2, 0}, {6, 1, 1}, {-6, 1, 1}, {1, 3, 0},
			{-1, 3, 0}, {7, 1, 1}, {-7, 1, 1}, {3, 2, 0}, {-3, 2, 0}, {8, 1, 1},
			{-8, 1, 1}, {1, 4, 0}, {-1, 4, 0}, {2, 3, 0}, {-2, 3, 0}, {9, 1, 1},
			{-9, 1, 1}, {4, 2, 0}, {-4, 2, 0}, {1, 5, 0}, {-1, 5, 0}, {10, 1, 1},
			{-10, 1, 1}, {3, 3, 0}, {-3, 3, 0}, {5, 2, 1}, {-5, 2, 1}, {2, 4, 0},
			{-2, 4, 0}, {11, 1, 1}, {-11, 1, 1}, {1, 6, 0}, {-1, 6, 0}, {12, 1, 1},
			{-12, 1, 1}, {1, 7, 0}, {-1, 7, 0}, {6, 2, 1}, {-6, 2, 1}, {13, 1, 1},
			{-13, 1, 1}, {2, 5, 0}, {-2, 5, 0}, {1, 8, 0}, {-1, 8, 0},
		},
		RefAbsLevel: []int8{14, 7, 4, 3, 3, 2, 2, 2},
		Order:       1,
		MaxRun:      7,
	},
	{
		Tab: []vlcEntry{
			{0, 0, 0}, {1, 1, 0}, {-1, 1, 0}, {2, 1, 0}, {-2, 1, 0}, {3, 1, 0},
			{-3, 1, 0}, {4, 1, 0}, {-4, 1, 0}, {5, 1, 0}, {-5, 1, 0}, {6, 1, 0},
			{-6, 1, 0}, {7, 1, 0}, {-7, 1, 0}, {8, 1, 0}, {-8, 1, 0}, {1, 2, 0},
			{-1, 2, 0}, {9, 1, 0}, {-9, 1, 0}, {10, 1, 0}, {-10, 1, 0}, {11, 1, 0},
			{-11, 1, 0}, {2, 2, 0}, {-2, 2, 0}, {12, 1, 0}, {-12, 1, 0}, {13, 1, 0},
			{-13, 1, 0}, {3, 2, 0}, {-3, 2, 0}, {14, 1, 0}, {-14, 1, 0}, {1, 3, 0},
			{-1, 3, 0}, {15, 1, 0}, {-15, 1, 0}, {4, 2, 0}, {-4, 2, 0}, {16, 1, 0},
			{-16, 1, 0}, {17, 1, 0}, {-17, 1, 0}, {5, 2, 0}, {-5, 2, 0}, {1, 4, 0},
			{-1, 4, 0}, {2, 3, 0}, {-2, 3, 0}, {18, 1, 0}, {-18, 1, 0}, {6, 2, 0},
			{-6, 2, 0}, {19, 1, 0}, {-19, 1, 0}, {1, 5, 0}, {-1, 5, 0},
		},
		RefAbsLevel: []int8{20, 7, 3, 2, 2},
		Order:       0,
		MaxRun:      4,
	},
}

// VlcCoeffParser decodes run/level coefficients for baseline-profile
// slices (aec_enable == 0), where a VLC codeNum is read instead of
// arithmetic-coded decisions, and the table bank used to look it up
// moves up as larger absolute levels are decoded (q.v. nextIdx).
type VlcCoeffParser struct {
	br   *BitReader
	bank *[7]vlcMap
}

// NewIntraVlcParser returns a parser over the intra-luma table bank.
func NewIntraVlcParser(br *BitReader) *VlcCoeffParser {
	return &VlcCoeffParser{br: br, bank: &intraVlcTab}
}

// NewInterVlcParser returns a parser over the inter-luma table bank.
func NewInterVlcParser(br *BitReader) *VlcCoeffParser {
	return &VlcCoeffParser{br: br, bank: &interVlcTab}
}

var chromaBank5 = func() *[7]vlcMap {
	var b [7]vlcMap
	copy(b[:5], chromaVlcTab[:])
	b[5], b[6] = chromaVlcTab[4], chromaVlcTab[4]
	return &b
}()

// NewChromaVlcParser returns a parser over the chroma table bank. Chroma
// only has 5 banks in the standard table; indices beyond 4 clamp to the
// last bank, mirroring the reference decoder's behaviour once maxRun
// saturates.
func NewChromaVlcParser(br *BitReader) *VlcCoeffParser {
	return &VlcCoeffParser{br: br, bank: chromaBank5}
}

// nextIdx returns the bank for the next coefficient: the larger of the
// current bank and the next-bank index intraNextIdx (intra luma and chroma)
// or interNextIdx (inter luma) gives for absLevel, so the bank never moves
// down. Chroma indices past 4 land on chromaBank5's copies of bank 4.
func (p *VlcCoeffParser) nextIdx(bankIdx int, absLevel int8) int {
	if absLevel > 15 {
		absLevel = 15
	}
	var next int
	switch p.bank {
	case &intraVlcTab, chromaBank5:
		next = int(intraNextIdx[absLevel])
	default:
		next = int(interNextIdx[absLevel])
	}
	if next < bankIdx {
		next = bankIdx
	}
	return clampBank(next)
}

func clampBank(idx int) int {
	if idx > 6 {
		return 6
	}
	return idx
}

// coeffRL is one decoded (level, run) pair, or EOB when the table row read
// is a {0,0,0} sentinel, at whatever point in the block it occurs (such
// rows are present in every table but bank 0, which never has anything
// left to signal end-of-block through).
type coeffRL struct {
	Level int16
	Run   int8
	EOB   bool
}

// Next decodes the next (level, run) pair, or reports EOB.
func (p *VlcCoeffParser) Next(bankIdx int) (coeffRL, int, error) {
	m := p.bank[bankIdx]
	codeNum, err := p.br.ReadUE()
	if err != nil {
		return coeffRL{}, bankIdx, errors.Wrap(err, "vlc: read codeNum")
	}
	if int(codeNum) < len(m.Tab) {
		e := m.Tab[codeNum]
		if e.Level == 0 && e.Run == 0 {
			return coeffRL{EOB: true}, bankIdx, nil
		}
		next := p.nextIdx(bankIdx, abs8(e.Level))
		return coeffRL{Level: int16(e.Level), Run: e.Run}, next, nil
	}
	level, run, err := p.decodeEscape(&m, codeNum)
	if err != nil {
		return coeffRL{}, bankIdx, err
	}
	next := p.nextIdx(bankIdx, abs8(int8(clampAbs(level))))
	return coeffRL{Level: level, Run: run}, next, nil
}

// decodeEscape handles codeNum beyond the direct table: the excess is an
// order-m exp-Golomb residual added on top of the run-indexed
// RefAbsLevel threshold (q.v. VLCMap.refAbsLevel / Table D.20's escape
// rule for run/level pairs the direct table doesn't cover).
func (p *VlcCoeffParser) decodeEscape(m *vlcMap, codeNum uint32) (int16, int8, error) {
	excess := int(codeNum) - len(m.Tab)
	run := int8(excess/2) + 1
	if int(run) > len(m.RefAbsLevel) {
		run = int8(len(m.RefAbsLevel))
	}
	base := int16(m.RefAbsLevel[run-1])
	extra, err := p.br.ReadEGK(int(m.Order))
	if err != nil {
		return 0, 0, errors.Wrap(err, "vlc: read escape residual")
	}
	level := base + int16(extra)
	if excess%2 == 0 {
		level = -level
	}
	return level, run, nil
}

func abs8(v int8) int8 {
	if v < 0 {
		return -v
	}
	return v
}

func clampAbs(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}
