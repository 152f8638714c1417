// Package geometry implements the linear-referencing primitives the trail
// network is built on: fractional substrings, point location and
// interpolation along polylines, and reassembly of ordered segments into a
// single feature geometry.
package geometry

import (
	"errors"
	"math"

	"github.com/twpayne/go-geom"
)

var (
	ErrNotALineString = errors.New("geometry is not a LineString")
	ErrEmptyLine      = errors.New("LineString has no segments")
)

// coordTolerance is the distance below which two coordinates are considered
// the same vertex (projected units, i.e. meters for metric SRIDs).
const coordTolerance = 1e-6

// posTolerance is the tolerance used when comparing fractional positions.
const posTolerance = 1e-9

// CoordsEqual reports whether two coordinates coincide within tolerance.
func CoordsEqual(a, b geom.Coord) bool {
	return math.Abs(a.X()-b.X()) <= coordTolerance && math.Abs(a.Y()-b.Y()) <= coordTolerance
}

// Length returns the 2D length of a LineString.
func Length(ls *geom.LineString) float64 {
	coords := ls.Coords()
	total := 0.0
	for i := 1; i < len(coords); i++ {
		total += dist(coords[i-1], coords[i])
	}
	return total
}

func dist(a, b geom.Coord) float64 {
	return math.Hypot(b.X()-a.X(), b.Y()-a.Y())
}

// Interpolate returns the point at fractional arc-length position frac along
// the line. frac is clamped to [0, 1].
func Interpolate(ls *geom.LineString, frac float64) geom.Coord {
	coords := ls.Coords()
	if frac <= 0 {
		return geom.Coord{coords[0].X(), coords[0].Y()}
	}
	if frac >= 1 {
		last := coords[len(coords)-1]
		return geom.Coord{last.X(), last.Y()}
	}
	target := frac * Length(ls)
	walked := 0.0
	for i := 1; i < len(coords); i++ {
		seg := dist(coords[i-1], coords[i])
		if walked+seg >= target && seg > 0 {
			t := (target - walked) / seg
			return geom.Coord{
				coords[i-1].X() + t*(coords[i].X()-coords[i-1].X()),
				coords[i-1].Y() + t*(coords[i].Y()-coords[i-1].Y()),
			}
		}
		walked += seg
	}
	last := coords[len(coords)-1]
	return geom.Coord{last.X(), last.Y()}
}

// LocatePoint returns the fractional position along the line of the point on
// the line closest to c.
func LocatePoint(ls *geom.LineString, c geom.Coord) float64 {
	coords := ls.Coords()
	total := Length(ls)
	if total == 0 {
		return 0
	}
	best := math.MaxFloat64
	bestAt := 0.0
	walked := 0.0
	for i := 1; i < len(coords); i++ {
		a, b := coords[i-1], coords[i]
		seg := dist(a, b)
		t := 0.0
		if seg > 0 {
			t = ((c.X()-a.X())*(b.X()-a.X()) + (c.Y()-a.Y())*(b.Y()-a.Y())) / (seg * seg)
			t = math.Max(0, math.Min(1, t))
		}
		px := a.X() + t*(b.X()-a.X())
		py := a.Y() + t*(b.Y()-a.Y())
		d := math.Hypot(c.X()-px, c.Y()-py)
		if d < best {
			best = d
			bestAt = (walked + t*seg) / total
		}
		walked += seg
	}
	return bestAt
}

// LineSubstring extracts the substring of ls between fractional positions
// from and to. A from greater than to yields the substring traversed in the
// opposite direction; from equal to to yields the Point at that position.
// This mirrors the "smart" substring used by linear referencing: the result
// is always a usable geometry, never an empty line.
func LineSubstring(ls *geom.LineString, from, to float64) geom.T {
	from = clamp01(from)
	to = clamp01(to)
	if math.Abs(from-to) <= posTolerance {
		c := Interpolate(ls, from)
		return geom.NewPointFlat(geom.XY, []float64{c.X(), c.Y()})
	}
	if from > to {
		sub := LineSubstring(ls, to, from)
		return Reverse(sub.(*geom.LineString))
	}

	coords := ls.Coords()
	total := Length(ls)
	startD := from * total
	endD := to * total

	out := make([]geom.Coord, 0, len(coords))
	out = append(out, Interpolate(ls, from))
	walked := 0.0
	for i := 1; i < len(coords); i++ {
		seg := dist(coords[i-1], coords[i])
		at := walked + seg
		if at > startD+posTolerance && at < endD-posTolerance {
			out = appendCoord(out, coords[i])
		}
		walked = at
		if walked >= endD {
			break
		}
	}
	out = appendCoord(out, Interpolate(ls, to))
	if len(out) < 2 {
		// Degenerate range, collapse to a point.
		return geom.NewPointFlat(geom.XY, []float64{out[0].X(), out[0].Y()})
	}
	return newLine(out)
}

// Reverse returns a copy of ls with its vertices in opposite order.
func Reverse(ls *geom.LineString) *geom.LineString {
	coords := ls.Coords()
	out := make([]geom.Coord, len(coords))
	for i, c := range coords {
		out[len(coords)-1-i] = geom.Coord{c.X(), c.Y()}
	}
	return newLine(out)
}

func appendCoord(coords []geom.Coord, c geom.Coord) []geom.Coord {
	if len(coords) > 0 && CoordsEqual(coords[len(coords)-1], c) {
		return coords
	}
	return append(coords, geom.Coord{c.X(), c.Y()})
}

func newLine(coords []geom.Coord) *geom.LineString {
	flat := make([]float64, 0, 2*len(coords))
	for _, c := range coords {
		flat = append(flat, c.X(), c.Y())
	}
	return geom.NewLineStringFlat(geom.XY, flat)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
