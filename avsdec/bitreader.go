/*
DESCRIPTION
  bitreader.go implements the bounded-buffer bit cursor the rest of the
  decoder parses headers and arithmetic-coded slices from. Unlike
  h264dec/bits.BitReader, which wraps an io.Reader and is built for an
  unbounded NAL stream, AVS+ always hands the decoder one complete coded
  picture at a time (Decoder.Feed's CodedPic.Data), so the reader here is a
  plain (buf, bitPos) cursor with an explicit end -- closer to the original
  decoder's AvsBitStream than to a Go io.Reader adapter.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

// BitReader reads big-endian bits out of a fixed byte slice. The zero value
// is not usable; construct with NewBitReader.
type BitReader struct {
	buf    []byte
	bitPos int // absolute bit offset from buf[0], MSB-first
	bitEnd int // bitPos must stay <= bitEnd
}

// NewBitReader returns a reader over buf, positioned at its first bit.
func NewBitReader(buf []byte) *BitReader {
	return &BitReader{buf: buf, bitPos: 0, bitEnd: len(buf) * 8}
}

// Off reports the current absolute bit offset.
func (r *BitReader) Off() int { return r.bitPos }

// BitsLeft reports how many bits remain before the end of the buffer.
func (r *BitReader) BitsLeft() int { return r.bitEnd - r.bitPos }

// ByteAligned reports whether the cursor sits on a byte boundary.
func (r *BitReader) ByteAligned() bool { return r.bitPos&7 == 0 }

// MakeByteAligned advances the cursor to the next byte boundary, discarding
// any stuffing bits (q.v. 9.1, byte_align()).
func (r *BitReader) MakeByteAligned() {
	if rem := r.bitPos & 7; rem != 0 {
		r.bitPos += 8 - rem
	}
}

// Read1 reads a single bit, returning 0/1. It returns ErrBadStream if the
// buffer is exhausted.
func (r *BitReader) Read1() (int, error) {
	if r.bitPos >= r.bitEnd {
		return 0, ErrBadStream
	}
	byt := r.buf[r.bitPos>>3]
	bit := int(byt>>(7-uint(r.bitPos&7))) & 1
	r.bitPos++
	return bit, nil
}

// ReadBits reads n (0 <= n <= 32) bits MSB-first and returns them
// right-justified in the result.
func (r *BitReader) ReadBits(n int) (uint32, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 0 || n > 32 || r.bitPos+n > r.bitEnd {
		return 0, ErrBadStream
	}
	var v uint32
	pos := r.bitPos
	for i := 0; i < n; i++ {
		byt := r.buf[pos>>3]
		bit := uint32(byt>>(7-uint(pos&7))) & 1
		v = v<<1 | bit
		pos++
	}
	r.bitPos = pos
	return v, nil
}

// Peek32 returns the next 32 bits (zero-padded past the end of the buffer)
// without advancing the cursor, mirroring AvsBitStream::peek and the
// lookahead dec_macroblock_I8x8 uses to parse four pred-mode/pred-mode-flag
// pairs in one shot.
func (r *BitReader) Peek32() uint32 {
	var v uint32
	pos := r.bitPos
	for i := 0; i < 32; i++ {
		var bit uint32
		if pos < r.bitEnd {
			byt := r.buf[pos>>3]
			bit = uint32(byt>>(7-uint(pos&7))) & 1
		}
		v = v<<1 | bit
		pos++
	}
	return v
}

// Skip advances the cursor by n bits without decoding them.
func (r *BitReader) Skip(n int) error {
	if n < 0 || r.bitPos+n > r.bitEnd {
		return ErrBadStream
	}
	r.bitPos += n
	return nil
}

// msbIndexUnzero returns the bit index (0 = MSB of a 32-bit word) of the
// highest set bit in v, or 32 if v is zero. ReadEGK's prefix and the AEC
// renormalisation loop both count one bit at a time and do not call it.
func msbIndexUnzero(v uint32) int {
	if v == 0 {
		return 32
	}
	n := 0
	for v&0x80000000 == 0 {
		v <<= 1
		n++
	}
	return n
}

// ReadEGK reads an order-k exponential-Golomb code (q.v. AvsBitStream::
// read_egk): a unary prefix of leadingZeroBits ones (sic -- AVS+ egk uses a
// run of 1s as the prefix, terminated by a 0) followed by
// leadingZeroBits+k suffix bits, i.e. the value is
// ((1<<(lead+k)) - (1<<k)) + suffix.
func (r *BitReader) ReadEGK(k int) (uint32, error) {
	lead := 0
	for {
		b, err := r.Read1()
		if err != nil {
			return 0, err
		}
		if b == 0 {
			break
		}
		lead++
		if lead > 31 {
			return 0, ErrBadStream
		}
	}
	suffix, err := r.ReadBits(lead + k)
	if err != nil {
		return 0, err
	}
	return (uint32(1)<<uint(lead+k) - uint32(1)<<uint(k)) + suffix, nil
}

// ReadUE reads an order-0 exp-Golomb code, the common case used throughout
// the header and macroblock-layer syntax (e.g. bbv_check_times,
// chroma pred mode).
func (r *BitReader) ReadUE() (uint32, error) {
	return r.ReadEGK(0)
}

// IsEndOfSlice reports whether, ignoring AEC state, the raw bitstream has
// been exhausted to within one byte -- used by callers that need a
// non-AEC end check (e.g. before falling back to start-code search).
func (r *BitReader) IsEndOfSlice() bool {
	return r.bitEnd-r.bitPos < 8
}

// ReadSE reads a signed exp-Golomb code (read_se8/read_se16 in the header
// parser): an unsigned code_num k is read via ReadUE, then mapped to a
// signed value by alternating sign with magnitude ceil(k/2).
func (r *BitReader) ReadSE() (int32, error) {
	k, err := r.ReadUE()
	if err != nil {
		return 0, err
	}
	if k&1 != 0 {
		return int32((k + 1) / 2), nil
	}
	return -int32(k / 2), nil
}
