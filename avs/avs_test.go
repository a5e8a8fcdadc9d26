/*
DESCRIPTION
  avs_test.go checks that Stream routes Feed through to the installed
  OnPicture callback and that Info reflects the fed sequence header.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avs

import (
	"context"
	"testing"

	"github.com/irkcodec/avsplus/avsdec"
)

func TestStreamInfoBeforeFeed(t *testing.T) {
	s := New(Config{})
	if _, ok := s.Info(); ok {
		t.Fatal("Info reported data before any picture was fed")
	}
}

func TestStreamFeedPropagatesDecodeError(t *testing.T) {
	s := New(Config{})
	var calls int
	s.OnPicture(func(dp *avsdec.DecodedPic) { calls++ })

	err := s.Feed(context.Background(), avsdec.CodedPic{
		Data:    []byte{0, 0, 0, 0},
		PicType: avsdec.PictureI,
	})
	if err == nil {
		t.Fatal("expected error feeding a picture with no sequence header")
	}
	if calls != 0 {
		t.Fatalf("calls = %d, want 0 (failure before any notify point)", calls)
	}
}
