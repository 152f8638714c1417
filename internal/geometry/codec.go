package geometry

import (
	"encoding/binary"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// EncodeWKB serializes a geometry to little-endian WKB, the storage format
// used for all geometry columns.
func EncodeWKB(g geom.T) ([]byte, error) {
	return wkb.Marshal(g, binary.LittleEndian)
}

// DecodeWKB parses WKB bytes back into a geometry.
func DecodeWKB(b []byte) (geom.T, error) {
	return wkb.Unmarshal(b)
}

// DecodeLine parses WKB bytes that are expected to hold a LineString.
func DecodeLine(b []byte) (*geom.LineString, error) {
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	ls, ok := g.(*geom.LineString)
	if !ok {
		return nil, ErrNotALineString
	}
	return ls, nil
}

// GeoJSONToWKB parses a GeoJSON string into WKB bytes for storage.
func GeoJSONToWKB(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// WKBToGeoJSON converts stored WKB bytes into a GeoJSON string for API output.
func WKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
