package geometry

import (
	"github.com/twpayne/go-geom"
)

// Assemble joins ordered segment geometries into one feature geometry.
//
// Segments are expected to chain end-to-start. Point segments mark positions
// already covered by their neighbours (turnaround markers, standalone point
// features) and never break the chain. The result is:
//   - a Point when the input collapses to a single position,
//   - a LineString when every line segment chains,
//   - a MultiLineString when the chain is broken, which callers treat as a
//     degenerate topology.
func Assemble(parts []geom.T) geom.T {
	var finished [][]geom.Coord
	var current []geom.Coord
	var lonePoint *geom.Point

	for _, part := range parts {
		switch g := part.(type) {
		case *geom.Point:
			if lonePoint == nil {
				lonePoint = g
			}
			// Points never extend nor break the chain.
		case *geom.LineString:
			coords := g.Coords()
			if len(coords) < 2 {
				continue
			}
			if current == nil {
				current = copyCoords(coords)
			} else if CoordsEqual(current[len(current)-1], coords[0]) {
				for _, c := range coords[1:] {
					current = appendCoord(current, c)
				}
			} else {
				finished = append(finished, current)
				current = copyCoords(coords)
			}
		}
	}
	if current != nil {
		finished = append(finished, current)
	}

	switch len(finished) {
	case 0:
		if lonePoint != nil {
			return geom.NewPointFlat(geom.XY, []float64{lonePoint.X(), lonePoint.Y()})
		}
		return nil
	case 1:
		return newLine(finished[0])
	default:
		ml := geom.NewMultiLineString(geom.XY)
		for _, coords := range finished {
			_ = ml.Push(newLine(coords))
		}
		return ml
	}
}

func copyCoords(coords []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, 0, len(coords))
	for _, c := range coords {
		out = appendCoord(out, c)
	}
	return out
}
