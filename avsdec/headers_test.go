/*
DESCRIPTION
  headers_test.go builds synthetic header bitstreams bit-by-bit and checks
  that ParseSequenceHeader/ParsePictureHeaderI/ParsePictureHeaderPB recover
  the values written.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

import "testing"

// testBitWriter packs MSB-first bits into a byte slice; used only to build
// fixture bitstreams for header tests.
type testBitWriter struct {
	bits []bool
}

func (w *testBitWriter) writeBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.bits = append(w.bits, (v>>uint(i))&1 != 0)
	}
}

func (w *testBitWriter) writeSE(v int32) {
	var k uint32
	if v > 0 {
		k = uint32(v)*2 - 1
	} else {
		k = uint32(-v) * 2
	}
	w.writeUE(k)
}

func (w *testBitWriter) writeUE(k uint32) {
	lead := 0
	for v := k + 1; v > 1; v >>= 1 {
		lead++
	}
	for i := 0; i < lead; i++ {
		w.bits = append(w.bits, true)
	}
	w.bits = append(w.bits, false)
	rest := k + 1 - (1 << uint(lead))
	w.writeBits(rest, lead)
}

func (w *testBitWriter) bytes() []byte {
	out := make([]byte, (len(w.bits)+7)/8)
	for i, b := range w.bits {
		if b {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

func TestParseSequenceHeaderBaseline(t *testing.T) {
	w := &testBitWriter{}
	w.writeBits(1, 1)    // progressive_seq
	w.writeBits(320, 14) // width
	w.writeBits(240, 14) // height
	w.writeBits(1, 2)    // chroma_format 4:2:0
	w.writeBits(1, 3)    // sample_precision
	w.writeBits(1, 4)    // aspect_ratio
	w.writeBits(3, 4)    // frame_rate_code
	w.writeBits(0, 18)   // bitrate low
	w.writeBits(1, 1)    // marker_bit
	w.writeBits(0, 12)   // bitrate high
	w.writeBits(0, 1)    // low_delay
	w.writeBits(1, 1)    // marker_bit
	w.writeBits(0, 18)   // bbv_buffer_size

	data := append([]byte{0x00, 0x00, 0x01, 0xB0, byte(ProfileBaseline), 0x20}, w.bytes()...)
	hdr, err := ParseSequenceHeader(data)
	if err != nil {
		t.Fatalf("ParseSequenceHeader: %v", err)
	}
	if hdr.Width != 320 || hdr.Height != 240 {
		t.Fatalf("Width/Height = %d/%d, want 320/240", hdr.Width, hdr.Height)
	}
	if hdr.ChromaFormat != ChromaFormat420 {
		t.Fatalf("ChromaFormat = %d, want %d", hdr.ChromaFormat, ChromaFormat420)
	}
	if !hdr.ProgressiveSeq {
		t.Fatal("ProgressiveSeq = false, want true")
	}
	if hdr.MbWidth() != 20 || hdr.MbHeight() != 15 {
		t.Fatalf("MbWidth/MbHeight = %d/%d, want 20/15", hdr.MbWidth(), hdr.MbHeight())
	}
}

func TestParseSequenceHeaderRejectsBadStartCode(t *testing.T) {
	data := make([]byte, 20)
	data[3] = 0xB3
	if _, err := ParseSequenceHeader(data); err == nil {
		t.Fatal("expected error for wrong start code")
	}
}

func TestParseSequenceHeaderRejectsNon420(t *testing.T) {
	w := &testBitWriter{}
	w.writeBits(1, 1)
	w.writeBits(320, 14)
	w.writeBits(240, 14)
	w.writeBits(2, 2) // 4:2:2, unsupported
	w.writeBits(1, 3)
	w.writeBits(1, 4)
	w.writeBits(3, 4)
	w.writeBits(0, 18)
	w.writeBits(1, 1)
	w.writeBits(0, 12)
	w.writeBits(0, 1)
	w.writeBits(1, 1)
	w.writeBits(0, 18)
	data := append([]byte{0x00, 0x00, 0x01, 0xB0, byte(ProfileBaseline), 0x20}, w.bytes()...)
	if _, err := ParseSequenceHeader(data); err != ErrUnsupportedProfile {
		t.Fatalf("err = %v, want ErrUnsupportedProfile", err)
	}
}

func baselineSeqHeader() *SequenceHeader {
	return &SequenceHeader{
		Profile:      ProfileBaseline,
		ChromaFormat: ChromaFormat420,
		Width:        320,
		Height:       240,
	}
}

func TestParsePictureHeaderIBaseline(t *testing.T) {
	seq := baselineSeqHeader()

	w := &testBitWriter{}
	w.writeBits(0, 16) // bbv_delay
	w.writeBits(0, 1)  // time_code_flag
	w.writeBits(1, 1)  // marker_bit
	w.writeBits(7, 8)  // pic_distance
	w.writeBits(1, 1)  // progressive_frame
	w.writeBits(1, 1)  // top_field_first
	w.writeBits(0, 1)  // repeat_first_field
	w.writeBits(1, 1)  // fixed_pic_qp
	w.writeBits(32, 6) // pic_qp
	w.writeBits(0, 4)  // reserved_bits
	w.writeBits(1, 1)  // loop_filter_disable

	data := append([]byte{0x00, 0x00, 0x01, 0xB3}, w.bytes()...)
	hdr, err := ParsePictureHeaderI(seq, data)
	if err != nil {
		t.Fatalf("ParsePictureHeaderI: %v", err)
	}
	if hdr.PicType != PictureI {
		t.Fatalf("PicType = %v, want I", hdr.PicType)
	}
	if hdr.PicDistance != 7 {
		t.Fatalf("PicDistance = %d, want 7", hdr.PicDistance)
	}
	if hdr.PicQP != 32 {
		t.Fatalf("PicQP = %d, want 32", hdr.PicQP)
	}
	if !hdr.LoopFilterDisable {
		t.Fatal("LoopFilterDisable = false, want true")
	}
}

func TestParsePictureHeaderPBRejectsReservedType(t *testing.T) {
	seq := baselineSeqHeader()
	w := &testBitWriter{}
	w.writeBits(0, 16) // bbv_delay
	w.writeBits(3, 2)  // pic_type = 1+3 = 4, reserved
	data := append([]byte{0x00, 0x00, 0x01, 0xB6}, w.bytes()...)
	data = append(data, make([]byte, 8)...)
	if _, err := ParsePictureHeaderPB(seq, data); err == nil {
		t.Fatal("expected error for reserved pic_type")
	}
}

func TestParsePictureHeaderPBAcceptsP(t *testing.T) {
	seq := baselineSeqHeader()

	w := &testBitWriter{}
	w.writeBits(0, 16) // bbv_delay
	w.writeBits(0, 2)  // pic_type = 1 (P)
	w.writeBits(3, 8)  // pic_distance
	w.writeBits(1, 1)  // progressive_frame
	w.writeBits(1, 1)  // top_field_first
	w.writeBits(0, 1)  // repeat_first_field
	w.writeBits(1, 1)  // fixed_pic_qp
	w.writeBits(20, 6) // pic_qp
	w.writeBits(1, 1)  // pic_ref_flag
	w.writeBits(0, 1)  // no_fwd_ref_flag
	w.writeBits(0, 1)  // pb_field_enhanced_flag
	w.writeBits(0, 2)  // reserved_bits
	w.writeBits(0, 1)  // skip_mode_flag
	w.writeBits(1, 1)  // loop_filter_disable

	data := append([]byte{0x00, 0x00, 0x01, 0xB6}, w.bytes()...)
	hdr, err := ParsePictureHeaderPB(seq, data)
	if err != nil {
		t.Fatalf("ParsePictureHeaderPB: %v", err)
	}
	if hdr.PicType != PictureP {
		t.Fatalf("PicType = %v, want P", hdr.PicType)
	}
	if hdr.PicDistance != 3 {
		t.Fatalf("PicDistance = %d, want 3", hdr.PicDistance)
	}
}
