/*
DESCRIPTION
  pipeline_test.go checks FramePipeline.DecodePicture's row fan-out,
  RowGate's wavefront wait/advance/finish semantics, PublishFrame's
  per-PicType reference-list routing, and RefDist's wraparound arithmetic.

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
	"sync"
	"testing"
	"time"
)

func TestDecodePictureVisitsEveryRow(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[int]bool)
	p := &FramePipeline{}

	err := p.DecodePicture(context.Background(), 5, 4, 2,
		func(ctx context.Context, row int, md *MacroblockDecoder, gate *RowGate) error {
			mu.Lock()
			seen[row] = true
			mu.Unlock()
			return nil
		},
		func(row int) *MacroblockDecoder { return &MacroblockDecoder{} })
	if err != nil {
		t.Fatalf("DecodePicture: %v", err)
	}
	for row := 0; row < 5; row++ {
		if !seen[row] {
			t.Errorf("row %d not visited", row)
		}
	}
}

func TestDecodePicturePropagatesRowError(t *testing.T) {
	p := &FramePipeline{}
	wantErr := errBoom
	err := p.DecodePicture(context.Background(), 3, 4, 1,
		func(ctx context.Context, row int, md *MacroblockDecoder, gate *RowGate) error {
			if row == 1 {
				return wantErr
			}
			return nil
		},
		func(row int) *MacroblockDecoder { return &MacroblockDecoder{} })
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestRowGateOrdersAdjacentRows(t *testing.T) {
	gate := newRowGate(2)
	gate.Advance(0, 3)
	gate.Advance(0, 4)

	done := make(chan error, 1)
	go func() { done <- gate.Wait(context.Background(), 1, 3) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait blocked despite row 0 already two columns ahead")
	}
}

func TestRowGateFinishUnblocksWaiters(t *testing.T) {
	gate := newRowGate(2)

	done := make(chan error, 1)
	go func() { done <- gate.Wait(context.Background(), 1, 0) }()

	gate.finish(0, 4)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait blocked despite row 0 finishing")
	}
}

func TestPublishFrameRouting(t *testing.T) {
	var fwd, bwd ReferenceList
	p := &FramePipeline{FwdRefs: &fwd, BwdRefs: &bwd}

	p.PublishFrame(&DecFrame{PicType: PictureB})
	if fwd.At(0) != nil || bwd.At(0) != nil {
		t.Fatalf("B picture must not be published to either reference list")
	}

	iFrame := &DecFrame{PicType: PictureI}
	p.PublishFrame(iFrame)
	if fwd.At(0) != iFrame || bwd.At(0) != iFrame {
		t.Fatalf("I picture must be published to both reference lists")
	}

	pFrame := &DecFrame{PicType: PictureP}
	p.PublishFrame(pFrame)
	if fwd.At(0) != pFrame {
		t.Fatalf("P picture must be published to the forward reference list")
	}
	if bwd.At(0) != iFrame {
		t.Fatalf("P picture must not touch the backward reference list")
	}
}

func TestRefDistWrapsModulo256(t *testing.T) {
	cases := []struct {
		a, b uint8
		want int
	}{
		{10, 8, 2},
		{2, 254, 4},
		{254, 2, -4},
		{5, 5, 1}, // same distance clamps to 1, never 0
	}
	for _, c := range cases {
		if got := RefDist(c.a, c.b); got != c.want {
			t.Errorf("RefDist(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

var errBoom = errPipelineTestBoom{}

type errPipelineTestBoom struct{}

func (errPipelineTestBoom) Error() string { return "boom" }
