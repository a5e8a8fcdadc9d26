/*
DESCRIPTION
  errors.go defines the decoder's error kinds and propagation sentinels.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

import "errors"

// Sentinel errors returned (possibly wrapped via github.com/pkg/errors) by
// every layer of the decoder. Callers should use errors.Is to test for these,
// since internal layers wrap them with positional context.
var (
	// ErrBadStream indicates a syntax or semantic rule violation: a reserved
	// value out of range, a bit reader overrun, or a cross-field invariant
	// (e.g. QP out of [0,63]) broken. The current picture is abandoned.
	ErrBadStream = errors.New("avsdec: bad stream")

	// ErrUnsupportedProfile indicates a profile/chroma-format/sample-depth
	// combination the decoder does not implement (anything but 4:2:0, 8-bit,
	// baseline or broadcast profile).
	ErrUnsupportedProfile = errors.New("avsdec: unsupported profile")

	// ErrOutOfMemory indicates the injected allocator returned a nil buffer.
	ErrOutOfMemory = errors.New("avsdec: out of memory")

	// ErrCancelled is returned, wrapped, by Feed once Decoder.Close has been
	// called (without a notification), and by DecodePicture for a row whose
	// context was already cancelled when the row started (Feed then also
	// reports NotifyFailed).
	ErrCancelled = errors.New("avsdec: cancelled")
)
