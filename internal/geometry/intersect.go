package geometry

import (
	"math"
	"sort"

	"github.com/twpayne/go-geom"
)

// segmentIntersection returns the crossing point of segments [p1,p2] and
// [q1,q2], if any. Collinear overlaps are not reported as crossings.
func segmentIntersection(p1, p2, q1, q2 geom.Coord) (geom.Coord, bool) {
	rx, ry := p2.X()-p1.X(), p2.Y()-p1.Y()
	sx, sy := q2.X()-q1.X(), q2.Y()-q1.Y()
	denom := rx*sy - ry*sx
	if math.Abs(denom) < 1e-12 {
		return nil, false
	}
	qpx, qpy := q1.X()-p1.X(), q1.Y()-p1.Y()
	t := (qpx*sy - qpy*sx) / denom
	u := (qpx*ry - qpy*rx) / denom
	const eps = 1e-9
	if t < -eps || t > 1+eps || u < -eps || u > 1+eps {
		return nil, false
	}
	return geom.Coord{p1.X() + t*rx, p1.Y() + t*ry}, true
}

// LineCrossings returns the fractional positions along a and along b of every
// point where the two lines cross.
func LineCrossings(a, b *geom.LineString) (alongA, alongB []float64) {
	ac, bc := a.Coords(), b.Coords()
	var pts []geom.Coord
	for i := 1; i < len(ac); i++ {
		for j := 1; j < len(bc); j++ {
			if pt, ok := segmentIntersection(ac[i-1], ac[i], bc[j-1], bc[j]); ok {
				pts = append(pts, pt)
			}
		}
	}
	for _, pt := range pts {
		alongA = append(alongA, LocatePoint(a, pt))
		alongB = append(alongB, LocatePoint(b, pt))
	}
	sort.Float64s(alongA)
	sort.Float64s(alongB)
	return alongA, alongB
}

// PointInPolygon reports whether c lies inside poly (ray casting over every
// ring; holes are honoured by parity).
func PointInPolygon(poly *geom.Polygon, c geom.Coord) bool {
	inside := false
	for r := 0; r < poly.NumLinearRings(); r++ {
		ring := poly.LinearRing(r).Coords()
		for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
			xi, yi := ring[i].X(), ring[i].Y()
			xj, yj := ring[j].X(), ring[j].Y()
			if (yi > c.Y()) != (yj > c.Y()) &&
				c.X() < (xj-xi)*(c.Y()-yi)/(yj-yi)+xi {
				inside = !inside
			}
		}
	}
	return inside
}

// Intersects reports whether two geometries share at least one point. It
// covers the Point/LineString/Polygon/Multi* combinations the zoning layer
// needs; pairs outside that set are reported as disjoint.
func Intersects(a, b geom.T) bool {
	if a == nil || b == nil {
		return false
	}
	if !boundsOverlap(a.Bounds(), b.Bounds()) {
		return false
	}
	// Normalize so the "simpler" geometry comes first.
	switch ga := a.(type) {
	case *geom.MultiPoint:
		for i := 0; i < ga.NumPoints(); i++ {
			if Intersects(ga.Point(i), b) {
				return true
			}
		}
		return false
	case *geom.MultiLineString:
		for i := 0; i < ga.NumLineStrings(); i++ {
			if Intersects(ga.LineString(i), b) {
				return true
			}
		}
		return false
	case *geom.MultiPolygon:
		for i := 0; i < ga.NumPolygons(); i++ {
			if Intersects(ga.Polygon(i), b) {
				return true
			}
		}
		return false
	case *geom.Point:
		return geometryCoversPoint(b, geom.Coord{ga.X(), ga.Y()})
	case *geom.LineString:
		switch gb := b.(type) {
		case *geom.Point:
			return geometryCoversPoint(a, geom.Coord{gb.X(), gb.Y()})
		case *geom.LineString:
			alongA, _ := LineCrossings(ga, gb)
			return len(alongA) > 0 || sharesVertex(ga, gb)
		case *geom.Polygon:
			return lineIntersectsPolygon(ga, gb)
		default:
			return Intersects(b, a)
		}
	case *geom.Polygon:
		switch b.(type) {
		case *geom.Polygon:
			return polygonsIntersect(ga, b.(*geom.Polygon))
		default:
			return Intersects(b, a)
		}
	}
	return false
}

func boundsOverlap(a, b *geom.Bounds) bool {
	return a.Min(0) <= b.Max(0) && b.Min(0) <= a.Max(0) &&
		a.Min(1) <= b.Max(1) && b.Min(1) <= a.Max(1)
}

func geometryCoversPoint(g geom.T, c geom.Coord) bool {
	switch gt := g.(type) {
	case *geom.Point:
		return CoordsEqual(geom.Coord{gt.X(), gt.Y()}, c)
	case *geom.LineString:
		coords := gt.Coords()
		for i := 1; i < len(coords); i++ {
			if distToSegment(c, coords[i-1], coords[i]) <= coordTolerance {
				return true
			}
		}
		return false
	case *geom.Polygon:
		return PointInPolygon(gt, c)
	case *geom.MultiLineString:
		for i := 0; i < gt.NumLineStrings(); i++ {
			if geometryCoversPoint(gt.LineString(i), c) {
				return true
			}
		}
		return false
	case *geom.MultiPolygon:
		for i := 0; i < gt.NumPolygons(); i++ {
			if PointInPolygon(gt.Polygon(i), c) {
				return true
			}
		}
		return false
	}
	return false
}

func distToSegment(c, a, b geom.Coord) float64 {
	seg := dist(a, b)
	if seg == 0 {
		return dist(c, a)
	}
	t := ((c.X()-a.X())*(b.X()-a.X()) + (c.Y()-a.Y())*(b.Y()-a.Y())) / (seg * seg)
	t = math.Max(0, math.Min(1, t))
	px := a.X() + t*(b.X()-a.X())
	py := a.Y() + t*(b.Y()-a.Y())
	return math.Hypot(c.X()-px, c.Y()-py)
}

func sharesVertex(a, b *geom.LineString) bool {
	for _, ca := range a.Coords() {
		for _, cb := range b.Coords() {
			if CoordsEqual(ca, cb) {
				return true
			}
		}
	}
	return false
}

func lineIntersectsPolygon(ls *geom.LineString, poly *geom.Polygon) bool {
	for _, c := range ls.Coords() {
		if PointInPolygon(poly, c) {
			return true
		}
	}
	for r := 0; r < poly.NumLinearRings(); r++ {
		ring := poly.LinearRing(r)
		ringLine := geom.NewLineStringFlat(geom.XY, ring.FlatCoords())
		if alongA, _ := LineCrossings(ls, ringLine); len(alongA) > 0 {
			return true
		}
	}
	return false
}

func polygonsIntersect(a, b *geom.Polygon) bool {
	for r := 0; r < a.NumLinearRings(); r++ {
		for _, c := range a.LinearRing(r).Coords() {
			if PointInPolygon(b, c) {
				return true
			}
		}
	}
	for r := 0; r < b.NumLinearRings(); r++ {
		for _, c := range b.LinearRing(r).Coords() {
			if PointInPolygon(a, c) {
				return true
			}
		}
	}
	aRing := geom.NewLineStringFlat(geom.XY, a.LinearRing(0).FlatCoords())
	bRing := geom.NewLineStringFlat(geom.XY, b.LinearRing(0).FlatCoords())
	alongA, _ := LineCrossings(aRing, bRing)
	return len(alongA) > 0
}
