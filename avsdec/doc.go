/*
DESCRIPTION
  Package avsdec implements the bitstream-decoder core for the AVS+
  (GY/T 257.1-2012) video coding standard: header and slice demultiplexing,
  the AEC arithmetic entropy decoder and its VLC fallback, macroblock
  reconstruction (intra/inter prediction, inverse quantisation, IDCT), the
  in-loop deblocking filter, and the per-frame decoding pipeline.

  File I/O, start-code framing for on-disk test streams, and the CLI harness
  are out of scope; callers deliver one coded picture's bytes at a time via
  Decoder.Feed and receive reconstructed picture surfaces through a notifier
  callback.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package avsdec provides a decoder for AVS+ (GY/T 257.1-2012) elementary
// streams.
package avsdec
