/*
DESCRIPTION
  macroblock_test.go exercises DecodeIntraMB's no-residual fast path
  (cbp_idx selecting the all-zero CBP entry) over the baseline-profile
  VLC entropy path, and DecodeSkipMB's motion-compensation-only path.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

import "testing"

func newTestMbDecoder(hdr *PictureHeader, mbCols, mbRows int) *MacroblockDecoder {
	wqm := buildWeightQuantMatrix(&hdr.WeightQuant, false)
	return &MacroblockDecoder{
		Hdr:     hdr,
		LeftMb:  &MbContext{},
		TopLine: make([]MbContext, mbCols),
		CurLine: make([]MbContext, mbCols),
		Planes: [3]*Plane{
			flatPlane(128), flatPlane(128), flatPlane(128),
		},
		Scan:   invScan(false),
		WQM:    &wqm,
		CurQP:  32,
		MbCols: mbCols,
		MbRows: mbRows,
	}
}

func TestDecodeIntraMBZeroCBPNoResidual(t *testing.T) {
	w := &testBitWriter{}
	for i := 0; i < 4; i++ {
		w.writeBits(1, 1) // pred_mode_flag: use predicted mode
	}
	w.writeUE(0) // chroma pred mode
	w.writeUE(4) // cbp_idx 4 -> cbpTab[4][0] == 0
	br := NewBitReader(w.bytes())
	ep := newEntropyPath(br, nil)

	hdr := &PictureHeader{PicType: PictureI, FixedPicQP: true}
	md := newTestMbDecoder(hdr, 4, 4)

	if err := md.DecodeIntraMB(ep, 0, 0, 0); err != nil {
		t.Fatalf("DecodeIntraMB: %v", err)
	}
	if !md.CurLine[0].Avail {
		t.Fatalf("expected CurLine[0].Avail after decode")
	}
	if md.CurLine[0].CBP != 0 {
		t.Fatalf("CBP = %d, want 0", md.CurLine[0].CBP)
	}
}

func TestDecodeSkipMBCopiesReference(t *testing.T) {
	hdr := &PictureHeader{PicType: PictureP, LoopFilterDisable: true}
	md := newTestMbDecoder(hdr, 2, 2)

	refFrame := &DecFrame{}
	refFrame.Planes[0] = *flatPlane(200)
	refFrame.Planes[1] = *flatPlane(100)
	refFrame.Planes[2] = *flatPlane(100)
	var refs ReferenceList
	refs.Push(refFrame)

	mv := BlockMV{RefIdx: [2]int8{0, -1}}
	md.DecodeSkipMB(0, 0, mv, [2]*ReferenceList{&refs, nil})

	if got := md.Planes[0].Get(4, 4); got != 200 {
		t.Fatalf("Planes[0].Get(4,4) = %d, want 200 (copied from reference)", got)
	}
	if !md.CurLine[0].Skip {
		t.Fatalf("expected CurLine[0].Skip after DecodeSkipMB")
	}
}
