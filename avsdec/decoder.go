/*
DESCRIPTION
  decoder.go is the public facade: Config, Decoder, and the Feed/GetInfo/
  Close API coded-picture consumers use. It demultiplexes start codes,
  dispatches to header parsing, then drives one FramePipeline call per
  coded picture and invokes the caller's Notifier once the picture is
  fully reconstructed and deblocked.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

import (
	"bytes"
	"context"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Config configures a Decoder, in the style of revid's plain
// struct-with-defaults configuration objects: no env/flag binding here,
// that belongs to the CLI harness this package excludes.
type Config struct {
	Log        logging.Logger
	Allocator  Allocator
	RowWorkers int // 0 selects sequential row decode
}

// Decoder holds all state for decoding one AVS+ elementary stream:
// the current sequence header, forward/backward reference lists, and
// the row-worker pipeline.
type Decoder struct {
	log   logging.Logger
	alloc Allocator

	seq      *SequenceHeader
	fwdRefs  ReferenceList
	bwdRefs  ReferenceList
	pipeline FramePipeline

	notifier Notifier
	closed   bool
}

// NewDecoder constructs a Decoder. A zero Config is valid and installs a
// discarding logger and the default Go-slice allocator.
func NewDecoder(cfg Config) *Decoder {
	alloc := cfg.Allocator
	if alloc == nil {
		alloc = defaultAllocator{}
	}
	d := &Decoder{log: logOrDiscard(cfg.Log), alloc: alloc}
	d.pipeline.RowWorkers = cfg.RowWorkers
	d.pipeline.FwdRefs = &d.fwdRefs
	d.pipeline.BwdRefs = &d.bwdRefs
	d.pipeline.Log = d.log
	return d
}

// SetNotifier installs the callback invoked once per fully decoded
// picture, or with NotifyFailed if the picture could not be completed.
func (d *Decoder) SetNotifier(n Notifier) { d.notifier = n }

// GetInfo returns the stream parameters learned from the most recently
// parsed sequence header, or false if none has been seen yet.
func (d *Decoder) GetInfo() (StreamInfo, bool) {
	if d.seq == nil {
		return StreamInfo{}, false
	}
	return StreamInfo{
		Profile:        d.seq.Profile,
		Level:          d.seq.Level,
		Width:          d.seq.Width,
		Height:         d.seq.Height,
		ChromaFormat:   d.seq.ChromaFormat,
		Bitrate:        d.seq.Bitrate,
		ProgressiveSeq: d.seq.ProgressiveSeq,
	}, true
}

// Feed delivers one coded picture's bytes (including its start code and
// any sequence/extension headers that precede it in the stream) to the
// decoder. Failures found before the picture start code is searched for
// (Feed after Close, a bad sequence header, or no sequence header yet) are
// only returned; every later failure is returned and also reported to the
// notifier with NotifyFailed.
func (d *Decoder) Feed(ctx context.Context, pic CodedPic) error {
	if d.closed {
		return errors.Wrap(ErrCancelled, "feed after close")
	}

	start := findStartCode(pic.Data, startCodeSequence)
	if start >= 0 {
		seq, err := ParseSequenceHeader(pic.Data[start:])
		if err != nil {
			return errors.Wrap(err, "decoder: sequence header")
		}
		d.seq = seq
		d.fwdRefs.Reset()
		d.bwdRefs.Reset()
	}
	if d.seq == nil {
		return errors.Wrap(ErrBadStream, "decoder: picture before sequence header")
	}

	picCode := startCodeI
	if pic.PicType != PictureI {
		picCode = startCodePB
	}
	picStart := findStartCode(pic.Data, picCode)
	if picStart < 0 {
		d.notify(NotifyFailed, nil)
		return errors.Wrap(ErrBadStream, "decoder: no picture start code")
	}
	picData := pic.Data[picStart:]

	var hdr *PictureHeader
	var err error
	switch pic.PicType {
	case PictureI:
		hdr, err = ParsePictureHeaderI(d.seq, picData)
	default:
		hdr, err = ParsePictureHeaderPB(d.seq, picData)
	}
	if err != nil {
		d.notify(NotifyFailed, nil)
		return errors.Wrap(err, "decoder: picture header")
	}

	sliceStart := findSliceStartCode(picData)
	if sliceStart < 0 {
		d.notify(NotifyFailed, nil)
		return errors.Wrap(ErrBadStream, "decoder: no slice start code")
	}

	frame := d.newFrame(hdr, pic)
	if err := d.decodeFrame(ctx, hdr, frame, picData[sliceStart:]); err != nil {
		d.notify(NotifyFailed, nil)
		return errors.Wrap(err, "decoder: frame decode")
	}

	d.pipeline.PublishFrame(frame)
	d.notify(NotifyDone, frame.toDecodedPic())
	return nil
}

// interRowState carries one row's mb_skip_run lookahead across the
// per-column loop in decodeMB: a row may be mid-run (skipRun macroblocks
// still to skip before the next coded mb_type) or between runs (havePending
// false, meaning the next call must read a fresh mb_skip_run).
type interRowState struct {
	skipRun     int
	havePending bool
}

// decodeMB dispatches one macroblock: DecodeIntraMB throughout an I
// picture (mb_type is implicitly intra so no per-MB dispatch is needed),
// or the P/B mb_skip_run/mb_type syntax feeding DecodeSkipMB/DecodeInterMB
// otherwise (q.v. dec_slice_P/dec_slice_B's outer loop in AvsSlice.cpp).
// mb_type 0 is treated as the skip/direct type for both P and B slices,
// matching dec_mb_type_P/B's lowest-index "no motion coded" case.
func (d *Decoder) decodeMB(ep *entropyPath, md *MacroblockDecoder, hdr *PictureHeader, mx, row int, st *interRowState) error {
	if hdr.PicType == PictureI {
		return md.DecodeIntraMB(ep, mx, row, 0)
	}

	refs := [2]*ReferenceList{&d.fwdRefs, &d.bwdRefs}
	if !st.havePending {
		run, err := md.readMbSkipRun(ep)
		if err != nil {
			return errors.Wrap(err, "mb_skip_run")
		}
		st.skipRun, st.havePending = run, true
	}
	if st.skipRun > 0 {
		st.skipRun--
		mv := md.predictSkipMV(mx, row, refs[0], refs[1])
		md.DecodeSkipMB(mx, row, mv, refs)
		return nil
	}
	st.havePending = false

	mbType, err := md.readMbType(ep)
	if err != nil {
		return errors.Wrap(err, "mb_type")
	}
	if mbType == 0 {
		mv := md.predictSkipMV(mx, row, refs[0], refs[1])
		md.DecodeSkipMB(mx, row, mv, refs)
		return nil
	}

	bmv, err := md.readInterMB(ep, mx)
	if err != nil {
		return err
	}
	var partitions [4]BlockMV
	for i := range partitions {
		partitions[i] = bmv
	}
	return md.DecodeInterMB(ep, mx, row, mbType, partitions, refs)
}

// decodeFrame runs the row pipeline over one already-allocated frame. data
// begins at the picture's first slice start code; decodeFrame locates
// every slice start code within it and, when there's one per macroblock
// row, gives each row its own independent BitReader/AecReader so RowWorkers
// can actually run rows concurrently (q.v. pipeline.go's RowGate). A
// picture whose slices don't subdivide per row shares one entropy stream
// across rows and is forced to a single worker for this call, since
// concurrent rows reading one BitReader cursor would corrupt it regardless
// of RowGate's pixel-level pacing.
func (d *Decoder) decodeFrame(ctx context.Context, hdr *PictureHeader, frame *DecFrame, data []byte) error {
	mbCols, mbRows := d.seq.MbWidth(), d.seq.MbHeight()
	topLines := make([][]MbContext, mbRows+1)
	for i := range topLines {
		topLines[i] = make([]MbContext, mbCols)
		for j := range topLines[i] {
			topLines[i][j].IPMode = [2]int8{-1, -1}
		}
	}
	wqm := buildWeightQuantMatrix(&hdr.WeightQuant, hdr.WeightQuantFlag)
	scan := invScan(hdr.PictureStructure == 0)

	offsets := findAllSliceStartCodes(data)
	if len(offsets) == 0 {
		return errors.Wrap(ErrBadStream, "decoder: no slice start code")
	}

	newEntropyPathAt := func(off int) (*entropyPath, error) {
		br := NewBitReader(data[off+4:])
		var aec *AecReader
		if hdr.AECEnable {
			var err error
			if aec, err = NewAecReader(br); err != nil {
				return nil, errors.Wrap(err, "decoder: aec init")
			}
		}
		return newEntropyPath(br, aec), nil
	}

	workers := d.pipeline.RowWorkers
	var rowEps []*entropyPath
	if len(offsets) >= mbRows {
		rowEps = make([]*entropyPath, mbRows)
		for row := 0; row < mbRows; row++ {
			ep, err := newEntropyPathAt(offsets[row])
			if err != nil {
				return err
			}
			rowEps[row] = ep
		}
	} else {
		ep, err := newEntropyPathAt(offsets[0])
		if err != nil {
			return err
		}
		rowEps = []*entropyPath{ep}
		workers = 1
	}

	newRow := func(row int) *MacroblockDecoder {
		return &MacroblockDecoder{
			Seq:     d.seq,
			Hdr:     hdr,
			LeftMb:  &MbContext{IPMode: [2]int8{-1, -1}},
			TopLine: topLines[row],
			CurLine: topLines[row+1],
			Planes:  [3]*Plane{&frame.Planes[0], &frame.Planes[1], &frame.Planes[2]},
			Scan:    scan,
			WQM:     &wqm,
			CurQP:   hdr.PicQP,
			ColMvs:  frame.ColMvs,
			MbCols:  mbCols,
			MbRows:  mbRows,
		}
	}

	rowFn := func(ctx context.Context, row int, md *MacroblockDecoder, gate *RowGate) error {
		rowEp := rowEps[0]
		if len(rowEps) == mbRows {
			rowEp = rowEps[row]
		}
		st := &interRowState{}
		for mx := 0; mx < mbCols; mx++ {
			if err := gate.Wait(ctx, row, mx); err != nil {
				return err
			}
			if err := d.decodeMB(rowEp, md, hdr, mx, row, st); err != nil {
				return errors.Wrapf(err, "mb (%d,%d)", mx, row)
			}
			if !hdr.LoopFilterDisable {
				FilterMacroblock(&frame.Planes[0], mx, row, &md.CurLine[mx], int(md.CurLine[mx].QP), hdr.AlphaCOffset, hdr.BetaOffset)
			}
			gate.Advance(row, mx)
		}
		return nil
	}

	return d.pipeline.DecodePicture(ctx, mbRows, mbCols, workers, rowFn, newRow)
}

func (d *Decoder) newFrame(hdr *PictureHeader, pic CodedPic) *DecFrame {
	mbCols, mbRows := d.seq.MbWidth(), d.seq.MbHeight()
	f := &DecFrame{
		PicType:          hdr.PicType,
		PicDistance:      hdr.PicDistance,
		Progressive:      hdr.ProgressiveFrame,
		TopFieldFirst:    hdr.TopFieldFirst,
		RepeatFirstField: hdr.RepeatFirstField,
		UserPTS:          pic.UserPTS,
		UserData:         pic.UserData,
		mbCols:           mbCols,
		mbRows:           mbRows,
	}
	const pad = 16
	f.Planes[0] = newPlane(d.seq.Width, d.seq.Height, pad)
	f.Planes[1] = newPlane(d.seq.Width/2, d.seq.Height/2, pad)
	f.Planes[2] = newPlane(d.seq.Width/2, d.seq.Height/2, pad)
	if hdr.PicType == PictureP {
		f.ColMvs = make([]BDColMvs, mbCols*mbRows)
	}
	return f
}

func newPlane(w, h, pad int) Plane {
	pitch := w + 2*pad
	return Plane{
		Buf:    make([]byte, pitch*(h+2*pad)),
		Width:  w,
		Height: h,
		Pitch:  pitch,
		Pad:    pad,
	}
}

func (f *DecFrame) toDecodedPic() *DecodedPic {
	dp := &DecodedPic{
		UserPTS:          f.UserPTS,
		UserData:         f.UserData,
		PicType:          f.PicType,
		Progressive:      f.Progressive,
		TopFieldFirst:    f.TopFieldFirst,
		RepeatFirstField: f.RepeatFirstField,
	}
	for i, p := range f.Planes {
		dp.Plane[i] = p.Buf
		dp.Width[i] = p.Width
		dp.Height[i] = p.Height
		dp.Pitch[i] = p.Pitch
	}
	return dp
}

func (d *Decoder) notify(code int, dp *DecodedPic) {
	if d.notifier != nil {
		d.notifier(code, dp)
	}
}

// Close releases the decoder's reference pictures. It is not safe to
// call Feed concurrently with or after Close.
func (d *Decoder) Close() {
	d.closed = true
	d.fwdRefs.Reset()
	d.bwdRefs.Reset()
}

// findStartCode returns the byte offset of the first 00 00 01 xx start
// code matching code within data, or -1.
func findStartCode(data []byte, code byte) int {
	needle := []byte{0, 0, 1, code}
	return bytes.Index(data, needle)
}

// findSliceStartCode returns the byte offset of the first slice start
// code (00 00 01 xx with xx in [0x00,0xAF], one per macroblock row per
// §7.1.1) at or after a parsed picture header, or -1. The macroblock
// bitstream decodeFrame reads begins four bytes past this offset.
func findSliceStartCode(data []byte) int {
	for i := 0; i+3 < len(data); i++ {
		if data[i] == 0 && data[i+1] == 0 && data[i+2] == 1 && data[i+3] <= 0xaf {
			return i
		}
	}
	return -1
}

// findAllSliceStartCodes returns every slice start-code offset in data, in
// ascending order: one per macroblock row for a stream that slices per
// row, fewer for a stream using multi-row slices.
func findAllSliceStartCodes(data []byte) []int {
	var offs []int
	for i := 0; i+3 < len(data); i++ {
		if data[i] == 0 && data[i+1] == 0 && data[i+2] == 1 && data[i+3] <= 0xaf {
			offs = append(offs, i)
		}
	}
	return offs
}
