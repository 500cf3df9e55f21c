package geo

import (
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// CRS84 is the GeoJSON name of EPSG:4326 with lon/lat axis order.
const CRS84 = "urn:ogc:def:crs:OGC:1.3:CRS84"

// Property names of the exported feature schema.
const (
	PropSID          = "sid"
	PropTitle        = "title"
	PropChartTitle   = "chart_title"
	PropType         = "type"
	PropLabelX       = "label_x"
	PropLabelY       = "label_y"
	PropLabelCallout = "label_callout"
)

// FeatureCollection is a GeoJSON FeatureCollection with a named CRS member.
type FeatureCollection struct {
	Type     string             `json:"type"`
	CRS      *CRS               `json:"crs,omitempty"`
	Features []*geojson.Feature `json:"features"`
}

// CRS is the legacy GeoJSON coordinate reference system member.
type CRS struct {
	Type       string `json:"type"`
	Properties struct {
		Name string `json:"name"`
	} `json:"properties"`
}

// NewCollection builds a WGS84 feature collection from stations.
func NewCollection(stations []Station) *FeatureCollection {
	crs := &CRS{Type: "name"}
	crs.Properties.Name = CRS84

	fc := &FeatureCollection{
		Type:     "FeatureCollection",
		CRS:      crs,
		Features: make([]*geojson.Feature, 0, len(stations)),
	}
	for i := range stations {
		fc.Features = append(fc.Features, ToFeature(stations[i]))
	}

	return fc
}

// ToFeature converts a station to a Point feature carrying the full schema.
// NaN label offsets become null properties. The CRS is carried by the
// enclosing FeatureCollection, not the geometry.
func ToFeature(s Station) *geojson.Feature {
	return &geojson.Feature{
		Geometry: geom.NewPointFlat(geom.XY, []float64{s.Lon, s.Lat}),
		Properties: map[string]interface{}{
			PropSID:          s.SID,
			PropTitle:        s.Title,
			PropChartTitle:   s.ChartTitle,
			PropType:         s.Type,
			PropLabelX:       nullableFloat(s.Label.X),
			PropLabelY:       nullableFloat(s.Label.Y),
			PropLabelCallout: s.Label.Callout,
		},
	}
}

// EncodeCollection writes stations as an indented GeoJSON FeatureCollection.
func EncodeCollection(w io.Writer, stations []Station) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewCollection(stations)); err != nil {
		return eris.Wrap(err, "geojson: encode collection")
	}
	return nil
}

// DecodeStations reads a FeatureCollection back into stations.
// Features without a Point geometry are rejected.
func DecodeStations(r io.Reader) ([]Station, error) {
	fc, err := decodeCollection(r)
	if err != nil {
		return nil, err
	}

	stations := make([]Station, 0, len(fc.Features))
	for i, f := range fc.Features {
		point, ok := f.Geometry.(*geom.Point)
		if !ok || point == nil {
			return nil, eris.Errorf("geojson: feature %d: expected Point geometry, got %T", i, f.Geometry)
		}

		label, err := labelFromProperties(f.Properties)
		if err != nil {
			return nil, eris.Wrapf(err, "geojson: feature %d", i)
		}

		stations = append(stations, Station{
			SID:        stringProperty(f.Properties, PropSID),
			Title:      stringProperty(f.Properties, PropTitle),
			ChartTitle: stringProperty(f.Properties, PropChartTitle),
			Type:       stringProperty(f.Properties, PropType),
			Lon:        point.X(),
			Lat:        point.Y(),
			Label:      label,
		})
	}

	return stations, nil
}

// DecodeLabels reads the sid and label attributes of a prior export.
// Geometry is ignored.
func DecodeLabels(r io.Reader) ([]LabelRecord, error) {
	fc, err := decodeCollection(r)
	if err != nil {
		return nil, err
	}

	records := make([]LabelRecord, 0, len(fc.Features))
	for i, f := range fc.Features {
		label, err := labelFromProperties(f.Properties)
		if err != nil {
			return nil, eris.Wrapf(err, "geojson: feature %d", i)
		}

		records = append(records, LabelRecord{
			SID:   stringProperty(f.Properties, PropSID),
			Label: label,
		})
	}

	return records, nil
}

func decodeCollection(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "geojson: read")
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "geojson: decode collection")
	}

	return &fc, nil
}

func labelFromProperties(props map[string]interface{}) (Label, error) {
	label := NoLabel()

	var err error
	if label.X, err = floatProperty(props, PropLabelX); err != nil {
		return label, err
	}
	if label.Y, err = floatProperty(props, PropLabelY); err != nil {
		return label, err
	}
	if label.Callout, err = boolProperty(props, PropLabelCallout); err != nil {
		return label, err
	}

	return label, nil
}

func nullableFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// stringProperty returns a property as text, formatting numeric ids.
func stringProperty(props map[string]interface{}, key string) string {
	switch v := props[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func floatProperty(props map[string]interface{}, key string) (float64, error) {
	switch v := props[key].(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return math.NaN(), nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return math.NaN(), eris.Wrapf(err, "property %s", key)
		}
		return f, nil
	default:
		return math.NaN(), eris.Errorf("property %s: unsupported value type %T", key, v)
	}
}

func boolProperty(props map[string]interface{}, key string) (bool, error) {
	switch v := props[key].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case float64:
		return v != 0, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, eris.Wrapf(err, "property %s", key)
		}
		return b, nil
	default:
		return false, eris.Errorf("property %s: unsupported value type %T", key, v)
	}
}
