// Package zorder computes z-order (Morton) locality keys for 2D points.
//
// Sorting points by their z-order key clusters spatially nearby points
// together, which is what the bulk loader needs to pack leaves with good
// spatial locality. Keys are deterministic and totally ordered; nothing else
// about the curve is relied upon.
package zorder

import "math"

// Curve maps points inside a fixed extent to 64-bit z-order keys.
//
// Each axis is affinely scaled over the extent to the full uint32 range and
// the two quantized values are bit-interleaved, y taking the higher bit of
// each pair. Points outside the extent are clamped to its border.
type Curve struct {
	xMin, yMin     float64
	xScale, yScale float64
}

// New creates a curve over the given extent. A degenerate extent (zero width
// or height) collapses that axis to a constant 0.
func New(xMin, yMin, xMax, yMax float64) *Curve {
	c := &Curve{xMin: xMin, yMin: yMin}
	if xMax > xMin {
		c.xScale = math.MaxUint32 / (xMax - xMin)
	}
	if yMax > yMin {
		c.yScale = math.MaxUint32 / (yMax - yMin)
	}
	return c
}

// Key returns the z-order key of the point (x, y).
func (c *Curve) Key(x, y float64) uint64 {
	return Interleave(quantize(x, c.xMin, c.xScale), quantize(y, c.yMin, c.yScale))
}

func quantize(v, min, scale float64) uint32 {
	t := (v - min) * scale
	if t <= 0 {
		return 0
	}
	if t >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(math.Round(t))
}

// Interleave combines two 32-bit values into one 64-bit Morton code.
// Bits of y occupy the odd (higher) positions of each pair, matching the
// latitude-first interleaving of the reference curve.
func Interleave(x, y uint32) uint64 {
	return spread(y)<<1 | spread(x)
}

// spread distributes the 32 bits of v over the even bits of a uint64.
func spread(v uint32) uint64 {
	x := uint64(v)
	x = (x | x<<16) & 0x0000ffff0000ffff
	x = (x | x<<8) & 0x00ff00ff00ff00ff
	x = (x | x<<4) & 0x0f0f0f0f0f0f0f0f
	x = (x | x<<2) & 0x3333333333333333
	x = (x | x<<1) & 0x5555555555555555
	return x
}
