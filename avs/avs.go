/*
DESCRIPTION
  avs provides a thin facade over avsdec, in the style of revid.Revid's
  start/stop/config lifecycle: a Stream wraps one avsdec.Decoder and
  exposes Feed/Info/Close so a caller that already owns a coded-picture
  source (a demuxer, a file reader) doesn't need to reach into avsdec's
  package directly.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package avs is the top-level entry point for decoding an AVS+ (GY/T
// 257.1-2012) elementary stream. It excludes container demuxing and
// network transport (spec Non-goals); callers supply coded pictures
// already split out of whatever container or socket they came from.
package avs

import (
	"context"

	"github.com/ausocean/utils/logging"
	"github.com/irkcodec/avsplus/avsdec"
)

// Config configures a Stream. A zero Config is valid.
type Config struct {
	Log        logging.Logger
	RowWorkers int
}

// Stream decodes one AVS+ elementary stream and delivers finished
// pictures to an installed callback.
type Stream struct {
	dec *avsdec.Decoder
}

// New constructs a Stream ready to receive coded pictures via Feed.
func New(cfg Config) *Stream {
	return &Stream{
		dec: avsdec.NewDecoder(avsdec.Config{
			Log:        cfg.Log,
			RowWorkers: cfg.RowWorkers,
		}),
	}
}

// OnPicture installs the callback invoked once per decoded picture, or
// with a nil *avsdec.DecodedPic when a fed picture failed to decode.
func (s *Stream) OnPicture(fn func(*avsdec.DecodedPic)) {
	s.dec.SetNotifier(func(code int, dp *avsdec.DecodedPic) {
		if code != avsdec.NotifyDone {
			fn(nil)
			return
		}
		fn(dp)
	})
}

// Feed delivers one coded picture to the decoder.
func (s *Stream) Feed(ctx context.Context, pic avsdec.CodedPic) error {
	return s.dec.Feed(ctx, pic)
}

// Info returns the stream parameters learned from the most recently
// parsed sequence header, or false if none has been seen yet.
func (s *Stream) Info() (avsdec.StreamInfo, bool) {
	return s.dec.GetInfo()
}

// Close releases the stream's reference pictures. Feed must not be
// called again afterwards.
func (s *Stream) Close() {
	s.dec.Close()
}
