// Package importer loads path linework from GeoJSON files into the network,
// honouring the configured spatial extent and structure scoping.
package importer

import (
	"errors"
	"fmt"
	"os"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"gorm.io/gorm"

	"geotrail/internal/models"
	"geotrail/internal/topology"
)

var (
	// ErrSRIDMismatch is returned when the file's SRID differs from the
	// network's; reprojection is left to the GIS that produced the file.
	ErrSRIDMismatch = errors.New("SRID is not properly configured, change or add the srid option")
	// ErrTooManyStructures is returned when the instance has several
	// structures and none was chosen.
	ErrTooManyStructures = errors.New("there are more than one structure and no --structure option was given")
	// ErrUnknownStructure is returned when the requested structure does not
	// exist.
	ErrUnknownStructure = errors.New("structure does not match any of the instance's structures")
)

// Options tune a path import.
type Options struct {
	SRID       int        // SRID of the file's coordinates
	TargetSRID int        // SRID the network is stored in
	Extent     [4]float64 // working bbox: xmin, ymin, xmax, ymax
	Intersect  bool       // accept features merely intersecting the extent
	Structure  string     // structure name; required when several exist
	Comments   []string   // property names concatenated into path comments
	DryRun     bool       // parse and report without writing
}

// Result summarizes an import.
type Result struct {
	Created int
	Failed  int
	Skipped int
}

// LoadPaths imports every LineString feature of a GeoJSON file as a path.
// Features outside the spatial extent are skipped; features that are not
// LineStrings or fail to insert are counted as failures. Inserted paths go
// through the topology service, so crossings split the network as usual.
func LoadPaths(db *gorm.DB, svc *topology.Service, filename string, opts Options, logf func(string, ...any)) (Result, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	var res Result

	if opts.SRID != opts.TargetSRID {
		return res, ErrSRIDMismatch
	}

	structure, err := resolveStructure(db, opts.Structure)
	if err != nil {
		return res, err
	}
	logf("All paths in the file will be linked to the structure: %s", structure.Name)

	raw, err := os.ReadFile(filename)
	if err != nil {
		return res, fmt.Errorf("read %s: %w", filename, err)
	}
	var fc gjson.FeatureCollection
	if err := fc.UnmarshalJSON(raw); err != nil {
		return res, fmt.Errorf("parse %s: %w", filename, err)
	}

	for i, feature := range fc.Features {
		line, ok := feature.Geometry.(*geom.LineString)
		if !ok {
			logf("Feature %d skipped: geometry is not a LineString", i)
			res.Failed++
			continue
		}
		if !withinExtent(line, opts.Extent, opts.Intersect) {
			res.Skipped++
			continue
		}

		p := &models.Path{
			Name:        propString(feature.Properties, "name"),
			Comments:    collectComments(feature.Properties, opts.Comments),
			Visible:     true,
			StructureID: structure.ID,
		}
		if err := p.SetLine(line); err != nil {
			logf("Feature %d failed: %v", i, err)
			res.Failed++
			continue
		}
		if opts.DryRun {
			res.Created++
			continue
		}
		if err := svc.CreatePath(p); err != nil {
			logf("Feature %d failed: %v", i, err)
			res.Failed++
			continue
		}
		logf("Created path %d (%s)", p.ID, p.Name)
		if p.Comments != "" {
			logf("The comment %s was added on %s", p.Comments, p.Name)
		}
		res.Created++
	}
	return res, nil
}

func resolveStructure(db *gorm.DB, name string) (*models.Structure, error) {
	var structure models.Structure
	if name != "" {
		if err := db.Where("name = ?", name).First(&structure).Error; err != nil {
			return nil, ErrUnknownStructure
		}
		return &structure, nil
	}
	var structures []models.Structure
	if err := db.Find(&structures).Error; err != nil {
		return nil, err
	}
	switch len(structures) {
	case 0:
		return nil, ErrUnknownStructure
	case 1:
		return &structures[0], nil
	default:
		return nil, ErrTooManyStructures
	}
}

// withinExtent checks a line against the working bbox, requiring full
// containment unless intersect is set.
func withinExtent(line *geom.LineString, extent [4]float64, intersect bool) bool {
	b := line.Bounds()
	if intersect {
		return b.Min(0) <= extent[2] && extent[0] <= b.Max(0) &&
			b.Min(1) <= extent[3] && extent[1] <= b.Max(1)
	}
	return b.Min(0) >= extent[0] && b.Max(0) <= extent[2] &&
		b.Min(1) >= extent[1] && b.Max(1) <= extent[3]
}

func propString(props map[string]interface{}, key string) string {
	if v, ok := props[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func collectComments(props map[string]interface{}, names []string) string {
	out := ""
	for _, name := range names {
		v := propString(props, name)
		if v == "" {
			continue
		}
		if out != "" {
			out += "</br>"
		}
		out += v
	}
	return out
}
