package packedrtree

import (
	"fmt"
	"math"
)

// MBR is a minimum bounding rectangle: the smallest axis-aligned box
// containing a geometry. Invariant: XLow <= XHigh and YLow <= YHigh.
type MBR struct {
	XLow  float64
	YLow  float64
	XHigh float64
	YHigh float64
}

// Intersects reports whether the two closed rectangles overlap on both axes.
// Touching edges count as intersecting.
func (m MBR) Intersects(o MBR) bool {
	if m.XHigh < o.XLow || m.XLow > o.XHigh {
		return false
	}
	if m.YHigh < o.YLow || m.YLow > o.YHigh {
		return false
	}
	return true
}

// ExpandToCover grows m to the smallest rectangle containing both m and o.
func (m *MBR) ExpandToCover(o MBR) {
	m.XLow = math.Min(m.XLow, o.XLow)
	m.YLow = math.Min(m.YLow, o.YLow)
	m.XHigh = math.Max(m.XHigh, o.XHigh)
	m.YHigh = math.Max(m.YHigh, o.YHigh)
}

// Union returns the smallest rectangle containing both a and b.
func Union(a, b MBR) MBR {
	a.ExpandToCover(b)
	return a
}

// MinDist returns the Euclidean distance from the point (x, y) to the
// closest point of m, or 0 if the point lies inside m.
//
// MinDist is an admissible lower bound on the distance from the point to any
// object contained in m, which is what makes best-first k-NN search exact.
func (m MBR) MinDist(x, y float64) float64 {
	var dx float64
	if x < m.XLow {
		dx = m.XLow - x
	} else if x > m.XHigh {
		dx = x - m.XHigh
	}

	var dy float64
	if y < m.YLow {
		dy = m.YLow - y
	} else if y > m.YHigh {
		dy = y - m.YHigh
	}

	return math.Sqrt(dx*dx + dy*dy)
}

// Center returns the center point of the rectangle.
func (m MBR) Center() (x, y float64) {
	return (m.XLow + m.XHigh) / 2, (m.YLow + m.YHigh) / 2
}

// String returns a string representation of the MBR.
func (m MBR) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g]", m.XLow, m.XHigh, m.YLow, m.YHigh)
}
