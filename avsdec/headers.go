/*
DESCRIPTION
  headers.go parses the three header types a coded picture carries: the
  sequence header (emitted once, or repeated before an I-picture) and the
  I and PB picture headers. The bit layouts are transcribed from
  AvsHeaders.cpp's parse_seq_header/parse_pic_header_I/parse_pic_header_PB,
  including their broadcast-profile-only fields (weighting quantisation,
  AEC enable) and the cross-field range checks the original applies before
  accepting a header.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

import "github.com/pkg/errors"

// Start codes recognised at the front of a coded picture's payload (q.v.
// 7.1.1). A CodedPic's Data is expected to begin with one of these,
// followed by the two profile/level bytes for a sequence header or
// directly by the header's bitstream for a picture header.
const (
	startCodeSequence = 0xB0
	startCodeI        = 0xB3
	startCodePB       = 0xB6
	startCodeExt      = 0xB5
	startCodeUser     = 0xB2
)

// ParseSequenceHeader parses a sequence header from data, which must begin
// with the four-byte start code 00 00 01 B0 (q.v. 7.1.2.2).
func ParseSequenceHeader(data []byte) (*SequenceHeader, error) {
	if len(data) < 18 {
		return nil, errors.Wrap(ErrBadStream, "sequence header: short")
	}
	if data[3] != startCodeSequence {
		return nil, errors.Wrap(ErrBadStream, "sequence header: bad start code")
	}

	hdr := &SequenceHeader{
		Profile: Profile(data[4]),
		Level:   data[5],
	}
	if hdr.Profile != ProfileBaseline && hdr.Profile != ProfileBroadcast {
		return nil, ErrUnsupportedProfile
	}

	br := NewBitReader(data[6:])
	var err error
	readBit := func(dst *bool) {
		if err != nil {
			return
		}
		var v int
		v, err = br.Read1()
		*dst = v != 0
	}
	readN := func(n int) uint32 {
		if err != nil {
			return 0
		}
		var v uint32
		v, err = br.ReadBits(n)
		return v
	}

	readBit(&hdr.ProgressiveSeq)
	hdr.Width = int(readN(14))
	hdr.Height = int(readN(14))
	hdr.ChromaFormat = ChromaFormat(readN(2))
	hdr.SamplePrecision = uint8(readN(3))
	hdr.AspectRatio = uint8(readN(4))
	hdr.FrameRateCode = uint8(readN(4))
	hdr.Bitrate = readN(18)
	_ = readN(1) // marker_bit
	hdr.Bitrate += readN(12) << 18
	readBit(&hdr.LowDelay)
	_ = readN(1) // marker_bit
	hdr.BBVBufferSize = readN(18)
	if err != nil {
		return nil, errors.Wrap(err, "sequence header")
	}

	if hdr.ChromaFormat != ChromaFormat420 {
		return nil, ErrUnsupportedProfile
	}
	if hdr.Width <= 0 || hdr.Height <= 0 || hdr.Width%16 != 0 || hdr.Height%16 != 0 {
		return nil, errors.Wrap(ErrBadStream, "sequence header: bad dimensions")
	}
	return hdr, nil
}

// weightQuantBlock parses the broadcast-profile-only weighting
// quantisation and AEC-enable fields shared verbatim between the I and PB
// picture header parsers.
func weightQuantBlock(br *BitReader, hdr *PictureHeader, seq *SequenceHeader) error {
	if seq.Profile != ProfileBroadcast {
		return nil
	}
	if br.IsEndOfSlice() {
		return errors.Wrap(ErrBadStream, "picture header: truncated before weight-quant block")
	}

	flag, err := br.Read1()
	if err != nil {
		return err
	}
	hdr.WeightQuantFlag = flag != 0
	hdr.ChromaQuantParamDisable = true

	if hdr.WeightQuantFlag {
		if err := br.Skip(1); err != nil { // reserved_bits
			return err
		}
		disable, err := br.Read1()
		if err != nil {
			return err
		}
		hdr.ChromaQuantParamDisable = disable != 0

		if !hdr.ChromaQuantParamDisable {
			cb, err := br.ReadSE()
			if err != nil {
				return err
			}
			cr, err := br.ReadSE()
			if err != nil {
				return err
			}
			if cb < -16 || cb > 16 || cr < -16 || cr > 16 {
				return errors.Wrap(ErrBadStream, "picture header: chroma_quant_delta out of range")
			}
			hdr.ChromaQuantDeltaCb = int8(cb)
			hdr.ChromaQuantDeltaCr = int8(cr)
		}

		idx, err := br.ReadBits(2)
		if err != nil {
			return err
		}
		model, err := br.ReadBits(2)
		if err != nil {
			return err
		}
		if idx == 3 || model == 3 {
			return errors.Wrap(ErrBadStream, "picture header: reserved weight_quant_index/model")
		}
		hdr.WeightQuant.Index = uint8(idx)
		hdr.WeightQuant.Model = uint8(model)

		if idx != 0 {
			for i := 0; i < 6; i++ {
				delta, err := br.ReadSE()
				if err != nil {
					return err
				}
				if delta < -128 || delta > 127 {
					return errors.Wrap(ErrBadStream, "picture header: weight_quant_param_delta out of range")
				}
				hdr.WeightQuant.DeltaParam[i] = int8(delta)
			}
		}
	}

	aec, err := br.Read1()
	if err != nil {
		return err
	}
	hdr.AECEnable = aec != 0
	return nil
}

// loopFilterBlock parses the shared loop-filter-parameter fields.
func loopFilterBlock(br *BitReader, hdr *PictureHeader) error {
	disable, err := br.Read1()
	if err != nil {
		return err
	}
	hdr.LoopFilterDisable = disable != 0
	if hdr.LoopFilterDisable {
		return nil
	}
	paramFlag, err := br.Read1()
	if err != nil {
		return err
	}
	hdr.LoopFilterParamFlag = paramFlag != 0
	if hdr.LoopFilterParamFlag {
		a, err := br.ReadSE()
		if err != nil {
			return err
		}
		b, err := br.ReadSE()
		if err != nil {
			return err
		}
		hdr.AlphaCOffset = int8(a)
		hdr.BetaOffset = int8(b)
	}
	if hdr.AlphaCOffset < -8 || hdr.AlphaCOffset > 8 {
		return errors.Wrap(ErrBadStream, "picture header: alpha_c_offset out of range")
	}
	if hdr.BetaOffset < -8 || hdr.BetaOffset > 8 {
		return errors.Wrap(ErrBadStream, "picture header: beta_offset out of range")
	}
	return nil
}

// ParsePictureHeaderI parses an I-picture header (q.v. 7.1.3.1). data must
// begin with the four-byte start code 00 00 01 B3.
func ParsePictureHeaderI(seq *SequenceHeader, data []byte) (*PictureHeader, error) {
	if len(data) < 8 {
		return nil, errors.Wrap(ErrBadStream, "I picture header: short")
	}
	if data[3] != startCodeI {
		return nil, errors.Wrap(ErrBadStream, "I picture header: bad start code")
	}
	br := NewBitReader(data[4:])
	hdr := &PictureHeader{PicType: PictureI, PicRefFlag: true}

	delay, err := br.ReadBits(16)
	if err != nil {
		return nil, err
	}
	hdr.BBVDelay = delay
	if seq.Profile == ProfileBroadcast {
		if err := br.Skip(1); err != nil {
			return nil, err
		}
		low, err := br.ReadBits(7)
		if err != nil {
			return nil, err
		}
		hdr.BBVDelay = hdr.BBVDelay<<7 + low
	}

	tcFlag, err := br.Read1()
	if err != nil {
		return nil, err
	}
	hdr.TimeCodeFlag = tcFlag != 0
	if hdr.TimeCodeFlag {
		tc, err := br.ReadBits(24)
		if err != nil {
			return nil, err
		}
		hdr.TimeCode = tc
	}

	if err := br.Skip(1); err != nil { // marker_bit
		return nil, err
	}
	dist, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}
	hdr.PicDistance = uint8(dist)

	if seq.LowDelay {
		bct, err := br.ReadUE()
		if err != nil {
			return nil, err
		}
		hdr.BBVCheckTimes = bct
	}

	prog, err := br.Read1()
	if err != nil {
		return nil, err
	}
	hdr.ProgressiveFrame = prog != 0
	if !hdr.ProgressiveFrame {
		st, err := br.Read1()
		if err != nil {
			return nil, err
		}
		hdr.PictureStructure = uint8(st)
	} else {
		hdr.PictureStructure = 1
	}

	tff, err := br.Read1()
	if err != nil {
		return nil, err
	}
	hdr.TopFieldFirst = tff != 0
	rff, err := br.Read1()
	if err != nil {
		return nil, err
	}
	hdr.RepeatFirstField = rff != 0

	fixed, err := br.Read1()
	if err != nil {
		return nil, err
	}
	hdr.FixedPicQP = fixed != 0
	qp, err := br.ReadBits(6)
	if err != nil {
		return nil, err
	}
	hdr.PicQP = uint8(qp)

	if !hdr.ProgressiveFrame && hdr.PictureStructure == 0 {
		sm, err := br.Read1()
		if err != nil {
			return nil, err
		}
		hdr.SkipModeFlag = sm != 0
	}

	if err := br.Skip(4); err != nil { // reserved_bits
		return nil, err
	}

	if err := loopFilterBlock(br, hdr); err != nil {
		return nil, err
	}
	if err := weightQuantBlock(br, hdr, seq); err != nil {
		return nil, err
	}
	if err := hdr.Validate(seq); err != nil {
		return nil, err
	}
	return hdr, nil
}

// ParsePictureHeaderPB parses a P or B picture header (q.v. 7.1.3.2). data
// must begin with the four-byte start code 00 00 01 B6.
func ParsePictureHeaderPB(seq *SequenceHeader, data []byte) (*PictureHeader, error) {
	if len(data) < 8 {
		return nil, errors.Wrap(ErrBadStream, "PB picture header: short")
	}
	if data[3] != startCodePB {
		return nil, errors.Wrap(ErrBadStream, "PB picture header: bad start code")
	}
	br := NewBitReader(data[4:])
	hdr := &PictureHeader{}

	delay, err := br.ReadBits(16)
	if err != nil {
		return nil, err
	}
	hdr.BBVDelay = delay
	if seq.Profile == ProfileBroadcast {
		if err := br.Skip(1); err != nil {
			return nil, err
		}
		low, err := br.ReadBits(7)
		if err != nil {
			return nil, err
		}
		hdr.BBVDelay = hdr.BBVDelay<<7 + low
	}

	ptBits, err := br.ReadBits(2)
	if err != nil {
		return nil, err
	}
	hdr.PicType = PictureType(1 + ptBits)
	if hdr.PicType != PictureP && hdr.PicType != PictureB {
		return nil, errors.Wrap(ErrBadStream, "PB picture header: reserved pic_type")
	}

	dist, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}
	hdr.PicDistance = uint8(dist)

	if seq.LowDelay {
		bct, err := br.ReadUE()
		if err != nil {
			return nil, err
		}
		hdr.BBVCheckTimes = bct
	}

	prog, err := br.Read1()
	if err != nil {
		return nil, err
	}
	hdr.ProgressiveFrame = prog != 0
	if !hdr.ProgressiveFrame {
		st, err := br.Read1()
		if err != nil {
			return nil, err
		}
		hdr.PictureStructure = uint8(st)
		if hdr.PictureStructure == 0 {
			if err := br.Skip(1); err != nil { // advanced_pred_mode_disable
				return nil, err
			}
		}
	} else {
		hdr.PictureStructure = 1
	}

	tff, err := br.Read1()
	if err != nil {
		return nil, err
	}
	hdr.TopFieldFirst = tff != 0
	rff, err := br.Read1()
	if err != nil {
		return nil, err
	}
	hdr.RepeatFirstField = rff != 0

	fixed, err := br.Read1()
	if err != nil {
		return nil, err
	}
	hdr.FixedPicQP = fixed != 0
	qp, err := br.ReadBits(6)
	if err != nil {
		return nil, err
	}
	hdr.PicQP = uint8(qp)

	if !(hdr.PicType == PictureB && hdr.PictureStructure == 1) {
		ref, err := br.Read1()
		if err != nil {
			return nil, err
		}
		hdr.PicRefFlag = ref != 0
	} else {
		hdr.PicRefFlag = true
	}

	noFwd, err := br.Read1()
	if err != nil {
		return nil, err
	}
	hdr.NoFwdRefFlag = noFwd != 0
	pbEnh, err := br.Read1()
	if err != nil {
		return nil, err
	}
	hdr.PBFieldEnhanced = pbEnh != 0

	if err := br.Skip(2); err != nil { // reserved_bits
		return nil, err
	}
	skip, err := br.Read1()
	if err != nil {
		return nil, err
	}
	hdr.SkipModeFlag = skip != 0

	if err := loopFilterBlock(br, hdr); err != nil {
		return nil, err
	}
	if err := weightQuantBlock(br, hdr, seq); err != nil {
		return nil, err
	}
	if err := hdr.Validate(seq); err != nil {
		return nil, err
	}
	return hdr, nil
}
