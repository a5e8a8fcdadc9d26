/*
DESCRIPTION
  types.go provides the decoder's data model: sequence/picture headers,
  per-macroblock neighbour context, motion-vector bookkeeping, the decoded
  picture and reference-list types, and the external coded/decoded picture
  structures described in section 6 of the specification.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

// Profile identifies the AVS+ profile a sequence conforms to.
type Profile uint8

// Profiles defined by GY/T 257.1-2012.
const (
	ProfileBaseline  Profile = 0x20
	ProfileBroadcast Profile = 0x48
)

// ChromaFormat identifies the chroma subsampling of a sequence. Only 4:2:0
// is supported; other values cause SequenceHeader parsing to fail with
// ErrUnsupportedProfile.
type ChromaFormat uint8

const ChromaFormat420 ChromaFormat = 1

// PictureType enumerates the three coded-picture types.
type PictureType uint8

const (
	PictureI PictureType = 1
	PictureP PictureType = 2
	PictureB PictureType = 3
)

func (t PictureType) String() string {
	switch t {
	case PictureI:
		return "I"
	case PictureP:
		return "P"
	case PictureB:
		return "B"
	default:
		return "?"
	}
}

// SequenceHeader holds the fields of an AVS+ sequence header (q.v. 7.1.2.2).
// It is immutable once parsed; ParseSequenceHeader never mutates an existing
// instance.
type SequenceHeader struct {
	Profile          Profile
	Level            uint8
	ProgressiveSeq   bool
	Width            int // pixels, multiple of 16
	Height           int // pixels, multiple of 16
	ChromaFormat     ChromaFormat
	SamplePrecision  uint8
	AspectRatio      uint8
	FrameRateCode    uint8
	Bitrate          uint32
	LowDelay         bool
	BBVBufferSize    uint32
}

// MbWidth returns the picture width in macroblock columns.
func (s *SequenceHeader) MbWidth() int { return s.Width / 16 }

// MbHeight returns the picture height in macroblock rows.
func (s *SequenceHeader) MbHeight() int { return s.Height / 16 }

// WeightQuantParam holds the weighting-quantisation-matrix parameters
// carried by a broadcast-profile picture header (q.v. 7.1.3.1).
type WeightQuantParam struct {
	Index      uint8 // 0..2
	Model      uint8 // 0..2
	DeltaParam [6]int8
}

// PictureHeader holds the fields of an AVS+ I or PB picture header (q.v.
// 7.1.3.1, 7.1.3.2).
type PictureHeader struct {
	PicType      PictureType
	BBVDelay     uint32
	TimeCodeFlag bool
	TimeCode     uint32
	PicDistance  uint8 // mod 256
	BBVCheckTimes uint32

	ProgressiveFrame    bool
	PictureStructure    uint8 // 1 = frame, 0 = field
	TopFieldFirst       bool
	RepeatFirstField    bool

	FixedPicQP bool
	PicQP      uint8 // [0,63]

	PicRefFlag        bool
	NoFwdRefFlag      bool
	PBFieldEnhanced   bool
	SkipModeFlag      bool

	LoopFilterDisable   bool
	LoopFilterParamFlag bool
	AlphaCOffset        int8 // [-8,8]
	BetaOffset          int8 // [-8,8]

	WeightQuantFlag        bool
	ChromaQuantParamDisable bool
	ChromaQuantDeltaCb     int8 // [-16,16]
	ChromaQuantDeltaCr     int8 // [-16,16]
	WeightQuant            WeightQuantParam

	AECEnable bool
}

// Validate checks the cross-field invariants listed in spec.md §3. It is
// called by the header parser immediately after a header is fully parsed.
func (h *PictureHeader) Validate(seq *SequenceHeader) error {
	if h.AlphaCOffset < -8 || h.AlphaCOffset > 8 {
		return ErrBadStream
	}
	if h.BetaOffset < -8 || h.BetaOffset > 8 {
		return ErrBadStream
	}
	if h.ChromaQuantDeltaCb < -16 || h.ChromaQuantDeltaCb > 16 {
		return ErrBadStream
	}
	if h.ChromaQuantDeltaCr < -16 || h.ChromaQuantDeltaCr > 16 {
		return ErrBadStream
	}
	if seq.Profile == ProfileBaseline && (h.WeightQuantFlag || h.AECEnable) {
		return ErrUnsupportedProfile
	}
	return nil
}

// MV is a quarter-pel (luma) or eighth-pel (chroma) motion vector.
type MV struct {
	X, Y int16
}

// Scale returns mv scaled by the distance factor scale = denDist*refDist,
// matching the reference decoder's mv_scale (q.v. AvsInterPred.cpp): the
// sign-dependent rounding term (src>>31) makes the shift round toward
// negative infinity for negative products, matching a C arithmetic right
// shift rather than Go's (which already rounds toward -inf identically, so
// the term is reproduced here only for the resulting value, not because Go
// needs the same bit trick).
func (mv MV) Scale(scale int) MV {
	return MV{X: scaleComponent(mv.X, scale), Y: scaleComponent(mv.Y, scale)}
}

func scaleComponent(v int16, scale int) int16 {
	p := int32(v) * int32(scale)
	round := int32(0)
	if p < 0 {
		round = -1
	}
	return int16((p + round + 256) >> 9)
}

// BlockMV captures a block partition's prediction state: the reference
// index (-1 for intra) and its motion vector in list-0/list-1.
type BlockMV struct {
	RefIdx [2]int8
	MV     [2]MV
}

// MbContext is the per-macroblock neighbour record described in spec.md §3.
// Two rows ("above" and "current") plus one "left" slot are allocated per
// worker; MacroblockDecoder updates the relevant slots after each MB.
type MbContext struct {
	Avail bool

	// IPMode holds the intra-pred mode of the MB's right column / bottom row
	// 8x8 luma blocks (the two neighbour-facing blocks), -1 if the MB is
	// inter or unavailable.
	IPMode [2]int8

	CBP uint8 // 6 bits: 4 luma 8x8 + Cb + Cr

	Skip bool

	Blocks [4]BlockMV // one per 8x8 partition, raster order

	// LFBS packs four vertical and four horizontal 8-sample edge boundary
	// strengths, 2 bits each (§4.9).
	LFBS uint16

	QP      uint8
	LeftQP  uint8
	TopQP   uint8
}

// ResetIntra marks ctx as a fully-intra, fully-coded MB's neighbour-facing
// state: all four edges get boundary strength 2 (spec.md §4.9 first rule).
func (c *MbContext) ResetIntra() {
	c.Avail = true
	c.Skip = false
	c.LFBS = 0xAAAA
	for i := range c.Blocks {
		c.Blocks[i] = BlockMV{RefIdx: [2]int8{-1, -1}}
	}
}

// BDColMvs stores, per 8x8 partition of a decoded P picture, the reference
// index and motion vector later consumed by B_Direct derivation in the next
// B picture (§4.6, "Skip / direct modes").
type BDColMvs struct {
	RefIdx [4]int8
	MV     [4]MV
}

// AecContext is a single context-adaptive binary arithmetic coding state
// (§3). 200 of these back an AecReader and reset to {0,0,1023} at the start
// of every slice.
type AecContext struct {
	MPS    int8
	CycNo  int8  // [0,3]
	LgPmps int16 // (4,1023]
}

// numAecContexts is the number of AEC contexts a slice carries. The
// highest index any decoder in aec.go uses is 172 (the chroma coefficient
// run bank). The three coefficient-block classes start at contexts 0, 63
// and 126, so their banks share index space with the syntax-element
// contexts 0-53 rather than occupying a separate range.
const numAecContexts = 200

// Allocator mirrors the C allocator contract of §6: Alloc must return a
// buffer of at least size bytes aligned to align (>=16), or ok=false to
// signal OOM; Free is called exactly once per successful Alloc, possibly
// from a worker goroutine, and must be safe to call concurrently with other
// Allocator methods.
type Allocator interface {
	Alloc(size, align int) (buf []byte, ok bool)
	Free(buf []byte)
}

// defaultAllocator backs Config when the caller supplies none; it simply
// allocates Go byte slices (the Go runtime already 16-byte-aligns slices of
// this size class) and relies on the garbage collector for Free.
type defaultAllocator struct{}

func (defaultAllocator) Alloc(size, align int) ([]byte, bool) {
	if size <= 0 {
		return nil, false
	}
	return make([]byte, size), true
}

func (defaultAllocator) Free([]byte) {}

// Plane is one reconstructed sample plane with Pad samples of padding for
// motion compensation on every side (decoder.go's newFrame uses 16 for
// luma and both chroma planes).
type Plane struct {
	Buf    []byte
	Width  int
	Height int
	Pitch  int
	Pad    int
}

// At returns the sample offset of (x,y) in display coordinates.
func (p *Plane) At(x, y int) int {
	return (y+p.Pad)*p.Pitch + (x + p.Pad)
}

// Get returns the sample at display coordinates (x,y), clamping to the
// padded plane bounds. Motion vectors are not clipped before use, so this
// clamp is what keeps a far out-of-picture vector inside the backing slice.
func (p *Plane) Get(x, y int) uint8 {
	if x < -p.Pad {
		x = -p.Pad
	}
	if x >= p.Width+p.Pad {
		x = p.Width + p.Pad - 1
	}
	if y < -p.Pad {
		y = -p.Pad
	}
	if y >= p.Height+p.Pad {
		y = p.Height + p.Pad - 1
	}
	return p.Buf[p.At(x, y)]
}

// Set writes a sample at display coordinates (x,y).
func (p *Plane) Set(x, y int, v uint8) {
	p.Buf[p.At(x, y)] = v
}

// DecFrame is one reconstructed picture surface plus the bookkeeping the
// reference list and reorder buffer need.
type DecFrame struct {
	Planes [3]Plane

	PicType          PictureType
	PicDistance      uint8
	Progressive      bool
	TopFieldFirst    bool
	RepeatFirstField bool

	UserPTS  int64
	UserData interface{}

	// refCount is not read or updated anywhere in the decoder; frames are
	// not pooled, and the garbage collector reclaims one once no
	// ReferenceList or caller holds it.
	refCount int32

	// ColMvs holds the BDColMvs captured from this frame when it is a P
	// picture, consumed by a later B picture's direct-mode derivation.
	ColMvs []BDColMvs

	mbCols, mbRows int
}

// ReferenceList holds the at-most-two reference entries described in §3.
type ReferenceList struct {
	entries []*DecFrame
}

// Reset empties the list (an I-picture flushes it before installing
// itself).
func (r *ReferenceList) Reset() { r.entries = r.entries[:0] }

// Push installs f as the most recent reference, evicting the oldest entry
// once the list holds two (P picture eviction rule).
func (r *ReferenceList) Push(f *DecFrame) {
	const maxRefs = 2
	r.entries = append(r.entries, f)
	if len(r.entries) > maxRefs {
		r.entries = r.entries[len(r.entries)-maxRefs:]
	}
}

// At returns the i-th most recent reference (0 = most recent), or nil if
// absent.
func (r *ReferenceList) At(i int) *DecFrame {
	idx := len(r.entries) - 1 - i
	if idx < 0 || idx >= len(r.entries) {
		return nil
	}
	return r.entries[idx]
}

// Len reports how many references are currently installed.
func (r *ReferenceList) Len() int { return len(r.entries) }

// CodedPic is the external coded-input structure of §6.
type CodedPic struct {
	Data     []byte
	PicType  PictureType
	UserPTS  int64
	UserData interface{}
}

// DecodedPic is the external decoded-output structure of §6.
type DecodedPic struct {
	Plane            [3][]byte
	Width            [3]int
	Height           [3]int
	Pitch            [3]int
	UserPTS          int64
	UserData         interface{}
	PicType          PictureType
	Progressive      bool
	TopFieldFirst    bool
	RepeatFirstField bool
}

// Notify codes, mirroring IRK_CODEC_DONE / IRK_CODEC_FAILED (§6).
const (
	NotifyDone   = 0
	NotifyFailed = -1
)

// Notifier receives at most one call per fed picture: code=NotifyDone with
// a valid *DecodedPic, or code=NotifyFailed with data=nil (q.v.
// Decoder.Feed for the failures that are only returned).
type Notifier func(code int, data *DecodedPic)

// StreamInfo summarises the currently parsed sequence, equivalent to the
// original's IrkAvsStreamInfo (restored by SPEC_FULL.md's C11 expansion).
// Decoder.GetInfo does not fill FrameRateNum/FrameRateDen; they stay zero.
type StreamInfo struct {
	Profile         Profile
	Level           uint8
	Width           int
	Height          int
	ChromaFormat    ChromaFormat
	FrameRateNum    int
	FrameRateDen    int
	Bitrate         uint32
	ProgressiveSeq  bool
}
