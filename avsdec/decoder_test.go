/*
DESCRIPTION
  decoder_test.go exercises Decoder.Feed end to end over a synthetic
  single-macroblock I picture: sequence header detection/reset, GetInfo
  before and after it arrives, and a full decode through to the
  notifier.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

import (
	"context"
	"errors"
	"testing"
)

// tinySeqHeaderBytes builds a 16x16 (one macroblock) baseline sequence
// header, matching the field layout TestParseSequenceHeaderBaseline
// checks.
func tinySeqHeaderBytes() []byte {
	w := &testBitWriter{}
	w.writeBits(1, 1)   // progressive_seq
	w.writeBits(16, 14) // width
	w.writeBits(16, 14) // height
	w.writeBits(1, 2)   // chroma_format 4:2:0
	w.writeBits(1, 3)   // sample_precision
	w.writeBits(1, 4)   // aspect_ratio
	w.writeBits(3, 4)   // frame_rate_code
	w.writeBits(0, 18)  // bitrate low
	w.writeBits(1, 1)   // marker_bit
	w.writeBits(0, 12)  // bitrate high
	w.writeBits(0, 1)   // low_delay
	w.writeBits(1, 1)   // marker_bit
	w.writeBits(0, 18)  // bbv_buffer_size
	return append([]byte{0x00, 0x00, 0x01, 0xB0, byte(ProfileBaseline), 0x20}, w.bytes()...)
}

// tinyIPictureBytes builds an I picture header (loop filter disabled,
// fixed QP so DecodeIntraMB skips qp_delta) over one slice holding one
// zero-CBP macroblock, matching TestParsePictureHeaderIBaseline's layout
// plus the fixture TestDecodeIntraMBZeroCBPNoResidual exercises directly.
func tinyIPictureBytes() []byte {
	hw := &testBitWriter{}
	hw.writeBits(0, 16) // bbv_delay
	hw.writeBits(0, 1)  // time_code_flag
	hw.writeBits(1, 1)  // marker_bit
	hw.writeBits(0, 8)  // pic_distance
	hw.writeBits(1, 1)  // progressive_frame
	hw.writeBits(1, 1)  // top_field_first
	hw.writeBits(0, 1)  // repeat_first_field
	hw.writeBits(1, 1)  // fixed_pic_qp
	hw.writeBits(32, 6) // pic_qp
	hw.writeBits(0, 4)  // reserved_bits
	hw.writeBits(1, 1)  // loop_filter_disable
	data := append([]byte{0x00, 0x00, 0x01, 0xB3}, hw.bytes()...)

	mw := &testBitWriter{}
	for i := 0; i < 4; i++ {
		mw.writeBits(1, 1) // pred_mode_flag per luma block
	}
	mw.writeUE(0) // chroma pred mode
	mw.writeUE(4) // cbp_idx -> cbpTab[4][0] == 0
	slice := append([]byte{0x00, 0x00, 0x01, 0x00}, mw.bytes()...)

	return append(data, slice...)
}

func TestFeedRequiresSequenceHeaderFirst(t *testing.T) {
	d := NewDecoder(Config{})
	if _, ok := d.GetInfo(); ok {
		t.Fatal("GetInfo reported info before any sequence header was fed")
	}
	pic := CodedPic{Data: tinyIPictureBytes(), PicType: PictureI}
	if err := d.Feed(context.Background(), pic); !errors.Is(err, ErrBadStream) {
		t.Fatalf("err = %v, want ErrBadStream", err)
	}
}

func TestFeedDecodesOneMacroblockIPicture(t *testing.T) {
	d := NewDecoder(Config{})
	var got *DecodedPic
	var failed bool
	d.SetNotifier(func(code int, dp *DecodedPic) {
		if code == NotifyFailed {
			failed = true
			return
		}
		got = dp
	})

	data := append(tinySeqHeaderBytes(), tinyIPictureBytes()...)
	pic := CodedPic{Data: data, PicType: PictureI}
	if err := d.Feed(context.Background(), pic); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if failed {
		t.Fatal("notifier reported NotifyFailed")
	}
	if got == nil {
		t.Fatal("notifier never received a decoded picture")
	}
	if got.Width[0] != 16 || got.Height[0] != 16 {
		t.Fatalf("Width/Height = %d/%d, want 16/16", got.Width[0], got.Height[0])
	}

	info, ok := d.GetInfo()
	if !ok {
		t.Fatal("GetInfo reported no info after a sequence header was fed")
	}
	if info.Width != 16 || info.Height != 16 {
		t.Fatalf("StreamInfo Width/Height = %d/%d, want 16/16", info.Width, info.Height)
	}
}
