/*
DESCRIPTION
  intrapred.go implements the five luma and four chroma intra prediction
  modes over 8x8 blocks (q.v. AvsIntraPred.h/.cpp): vertical, horizontal,
  DC, down-left (diagonal), down-right (diagonal), and plane. The reference
  decoder computes these with hand-written SSE2/SSE4 intrinsics tuned for
  throughput; this port reduces each to the equivalent scalar averaging
  rule the standard describes, which is the natural shape once a
  macroblock row is itself the unit of parallelism (q.v. pipeline.go).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsdec

// IntraLumaMode enumerates the five 8x8 luma intra prediction modes.
type IntraLumaMode int8

const (
	PredVertical IntraLumaMode = iota
	PredHorizontal
	PredDC
	PredDownLeft
	PredDownRight
)

// IntraChromaMode enumerates the four chroma intra prediction modes.
type IntraChromaMode int8

const (
	PredChromaDC IntraChromaMode = iota
	PredChromaHorizontal
	PredChromaVertical
	PredChromaPlane
)

// Neighbours reports which of a block's causal neighbours are available:
// Top, TopRight, Left, BottomLeft (q.v. NBUsable).
type Neighbours struct {
	Top, TopRight, Left, BottomLeft bool
}

// PredictLuma writes an 8x8 luma prediction block into dst at (x0,y0)
// using mode and the neighbour samples already reconstructed around it.
func PredictLuma(dst *Plane, x0, y0 int, mode IntraLumaMode, nb Neighbours) {
	switch mode {
	case PredVertical:
		predVertical(dst, x0, y0, 8)
	case PredHorizontal:
		predHorizontal(dst, x0, y0, 8)
	case PredDC:
		predDC(dst, x0, y0, 8, nb)
	case PredDownLeft:
		predDownLeft(dst, x0, y0, 8, nb)
	case PredDownRight:
		predDownRight(dst, x0, y0, 8, nb)
	}
}

// PredictChroma writes an 8x8 chroma prediction block into dst at (x0,y0)
// using mode.
func PredictChroma(dst *Plane, x0, y0 int, mode IntraChromaMode, nb Neighbours) {
	switch mode {
	case PredChromaVertical:
		predVertical(dst, x0, y0, 8)
	case PredChromaHorizontal:
		predHorizontal(dst, x0, y0, 8)
	case PredChromaDC:
		predDC(dst, x0, y0, 8, nb)
	case PredChromaPlane:
		predPlane(dst, x0, y0, 8, nb)
	}
}

func predVertical(dst *Plane, x0, y0, n int) {
	for x := 0; x < n; x++ {
		v := dst.Get(x0+x, y0-1)
		for y := 0; y < n; y++ {
			dst.Set(x0+x, y0+y, v)
		}
	}
}

func predHorizontal(dst *Plane, x0, y0, n int) {
	for y := 0; y < n; y++ {
		v := dst.Get(x0-1, y0+y)
		for x := 0; x < n; x++ {
			dst.Set(x0+x, y0+y, v)
		}
	}
}

// predDC averages the available top row and/or left column; falls back to
// the bias value 128 when neither neighbour is available (q.v. 9.4 DC
// prediction edge cases).
func predDC(dst *Plane, x0, y0, n int, nb Neighbours) {
	var sum, cnt int
	if nb.Top {
		for x := 0; x < n; x++ {
			sum += int(dst.Get(x0+x, y0-1))
		}
		cnt += n
	}
	if nb.Left {
		for y := 0; y < n; y++ {
			sum += int(dst.Get(x0-1, y0+y))
		}
		cnt += n
	}
	var v uint8
	if cnt == 0 {
		v = 128
	} else {
		v = uint8((sum + cnt/2) / cnt)
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dst.Set(x0+x, y0+y, v)
		}
	}
}

// predDownLeft fills each sample from the average of the two diagonal
// neighbours above-right of it, extending the top row with its last
// sample when the top-right block is unavailable.
func predDownLeft(dst *Plane, x0, y0, n int, nb Neighbours) {
	top := make([]int, 2*n)
	for i := 0; i < n; i++ {
		top[i] = int(dst.Get(x0+i, y0-1))
	}
	last := top[n-1]
	if nb.TopRight {
		last = int(dst.Get(x0+n, y0-1))
	}
	for i := n; i < 2*n; i++ {
		if nb.TopRight && i < 2*n {
			top[i] = int(dst.Get(x0+i, y0-1))
		} else {
			top[i] = last
		}
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := x + y
			var v int
			if i+2 < len(top) {
				v = (top[i] + 2*top[i+1] + top[i+2] + 2) >> 2
			} else {
				v = top[len(top)-1]
			}
			dst.Set(x0+x, y0+y, uint8(v))
		}
	}
}

// predDownRight blends the top row, the corner sample, and the left
// column along each down-right diagonal.
func predDownRight(dst *Plane, x0, y0, n int, nb Neighbours) {
	corner := int(dst.Get(x0-1, y0-1))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			switch {
			case x > y:
				i := x - y
				var a, b, c int
				if i >= 2 {
					a = int(dst.Get(x0+i-2, y0-1))
				} else {
					a = corner
				}
				b = int(dst.Get(x0+i-1, y0-1))
				c = int(dst.Get(x0+i, y0-1))
				dst.Set(x0+x, y0+y, uint8((a+2*b+c+2)>>2))
			case x < y:
				i := y - x
				var a, b, c int
				if i >= 2 {
					a = int(dst.Get(x0-1, y0+i-2))
				} else {
					a = corner
				}
				b = int(dst.Get(x0-1, y0+i-1))
				c = int(dst.Get(x0-1, y0+i))
				dst.Set(x0+x, y0+y, uint8((a+2*b+c+2)>>2))
			default:
				top := int(dst.Get(x0, y0-1))
				left := int(dst.Get(x0-1, y0))
				dst.Set(x0+x, y0+y, uint8((left+2*corner+top+2)>>2))
			}
		}
	}
}

// predPlane implements the chroma plane predictor: a first-order linear
// fit through the top row and left column extended from the corner
// sample (q.v. 9.4, intra_pred_plane).
func predPlane(dst *Plane, x0, y0, n int, nb Neighbours) {
	half := n / 2
	var h, v int
	for i := 1; i <= half; i++ {
		top1 := int(dst.Get(x0+half-1+i, y0-1))
		top2 := int(dst.Get(x0+half-1-i, y0-1))
		h += i * (top1 - top2)

		left1 := int(dst.Get(x0-1, y0+half-1+i))
		left2 := int(dst.Get(x0-1, y0+half-1-i))
		v += i * (left1 - left2)
	}
	a := 16 * (int(dst.Get(x0-1, y0+n-1)) + int(dst.Get(x0+n-1, y0-1)))
	b := (5*h + 32) >> 6
	c := (5*v + 32) >> 6

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			val := (a + b*(x-half+1) + c*(y-half+1) + 16) >> 5
			dst.Set(x0+x, y0+y, clampU8(int32(val)))
		}
	}
}
