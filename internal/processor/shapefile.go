package processor

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/woozymasta/tripmap/internal/geo"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
)

// wgs84WKT is written to the .prj sidecar.
const wgs84WKT = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// DBF field names are capped at 10 characters.
var shapeFields = []shp.Field{
	shp.StringField("sid", 64),
	shp.StringField("title", 254),
	shp.StringField("chart_titl", 254),
	shp.StringField("type", 32),
	shp.FloatField("label_x", 24, 6),
	shp.FloatField("label_y", 24, 6),
	logicalField("label_call"),
}

func logicalField(name string) shp.Field {
	f := shp.Field{Fieldtype: 'L', Size: 1}
	copy(f.Name[:], name)
	return f
}

// shapefilePath forces the .shp extension expected by go-shp.
func shapefilePath(path string) string {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".shp") {
		return path
	}
	return strings.TrimSuffix(path, ext) + ".shp"
}

// saveShapefile writes stations as a Point shapefile with a WGS84 .prj.
func saveShapefile(path string, stations []geo.Station) (string, error) {
	path = shapefilePath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return "", eris.Wrapf(err, "shapefile: create %s", path)
	}
	defer w.Close()

	if err := w.SetFields(shapeFields); err != nil {
		return "", eris.Wrap(err, "shapefile: set fields")
	}

	for _, s := range stations {
		row := int(w.Write(&shp.Point{X: s.Lon, Y: s.Lat}))

		values := []interface{}{
			truncate(s.SID, 64),
			truncate(s.Title, 254),
			truncate(s.ChartTitle, 254),
			truncate(s.Type, 32),
			dbfFloat(s.Label.X),
			dbfFloat(s.Label.Y),
			dbfLogical(s.Label.Callout),
		}
		for field, v := range values {
			if err := w.WriteAttribute(row, field, v); err != nil {
				return "", eris.Wrapf(err, "shapefile: station %q field %d", s.SID, field)
			}
		}
	}

	prj := strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"
	if err := os.WriteFile(prj, []byte(wgs84WKT), 0644); err != nil {
		return "", eris.Wrapf(err, "shapefile: write %s", prj)
	}

	return path, nil
}

// dbfFloat leaves NaN blank, which DBF readers treat as null.
func dbfFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func dbfLogical(b bool) string {
	if b {
		return "T"
	}
	return "F"
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
