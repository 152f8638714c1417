package topology

import (
	"math"
	"sort"

	"github.com/twpayne/go-geom"

	"geotrail/internal/geometry"
)

const posTolerance = 1e-9

// PiecePosition locates a fractional range on one piece of a cut path.
type PiecePosition struct {
	Piece int
	Start float64
	End   float64
}

// NormalizeCuts filters split positions down to interior fractions, sorted
// and de-duplicated. Cuts at a path's endpoints are no-ops.
func NormalizeCuts(fracs []float64) []float64 {
	out := make([]float64, 0, len(fracs))
	for _, f := range fracs {
		if f > posTolerance && f < 1-posTolerance {
			out = append(out, f)
		}
	}
	sort.Float64s(out)
	dedup := out[:0]
	for _, f := range out {
		if len(dedup) == 0 || f-dedup[len(dedup)-1] > posTolerance {
			dedup = append(dedup, f)
		}
	}
	return dedup
}

// CutLine cuts a line at the given interior fractions and returns the pieces
// in path direction.
func CutLine(line *geom.LineString, cuts []float64) []*geom.LineString {
	b := boundaries(cuts)
	pieces := make([]*geom.LineString, 0, len(b)-1)
	for i := 0; i < len(b)-1; i++ {
		sub := geometry.LineSubstring(line, b[i], b[i+1])
		pieces = append(pieces, sub.(*geom.LineString))
	}
	return pieces
}

// RemapRange re-expresses the fractional range [start, end] of a path cut at
// the given positions as per-piece local ranges, in traversal order. The
// concatenated substrings of the result cover exactly the same ground as the
// original range: a reversed range yields reversed local ranges walked from
// the last piece backwards, and a point range yields a single point position
// on the piece containing it.
func RemapRange(cuts []float64, start, end float64) []PiecePosition {
	b := boundaries(cuts)

	if math.Abs(start-end) <= posTolerance {
		i := pieceIndex(b, start, false)
		p := localPos(b, i, start)
		return []PiecePosition{{Piece: i, Start: p, End: p}}
	}

	var out []PiecePosition
	if start < end {
		lo := pieceIndex(b, start, false)
		hi := pieceIndex(b, end, true)
		for i := lo; i <= hi; i++ {
			s := math.Max(start, b[i])
			e := math.Min(end, b[i+1])
			out = append(out, PiecePosition{Piece: i, Start: localPos(b, i, s), End: localPos(b, i, e)})
		}
	} else {
		hi := pieceIndex(b, start, true)
		lo := pieceIndex(b, end, false)
		for i := hi; i >= lo; i-- {
			s := math.Min(start, b[i+1])
			e := math.Max(end, b[i])
			out = append(out, PiecePosition{Piece: i, Start: localPos(b, i, s), End: localPos(b, i, e)})
		}
	}
	return out
}

func boundaries(cuts []float64) []float64 {
	b := make([]float64, 0, len(cuts)+2)
	b = append(b, 0)
	b = append(b, cuts...)
	b = append(b, 1)
	return b
}

// pieceIndex returns the piece holding fractional position g. A position
// sitting exactly on an interior cut belongs to the right piece unless
// preferLeft is set (used for the downstream end of a range, so that ranges
// ending on a cut do not spill a zero-length tail onto the next piece).
func pieceIndex(b []float64, g float64, preferLeft bool) int {
	n := len(b) - 1
	if g <= b[0]+posTolerance {
		return 0
	}
	if g >= b[n]-posTolerance {
		return n - 1
	}
	for i := 1; i < n; i++ {
		if math.Abs(g-b[i]) <= posTolerance {
			if preferLeft {
				return i - 1
			}
			return i
		}
	}
	for i := 0; i < n; i++ {
		if g > b[i] && g < b[i+1] {
			return i
		}
	}
	return n - 1
}

func localPos(b []float64, i int, g float64) float64 {
	w := b[i+1] - b[i]
	if w <= 0 {
		return 0
	}
	v := (g - b[i]) / w
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
