package processor

import (
	"encoding/xml"
	"io"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// ErrMissingAttribute is returned when a station element lacks a required attribute.
var ErrMissingAttribute = eris.New("missing required attribute")

// Internal structures for XML parsing.
// Every child of the root element is a station, whatever its name.
type tripPlannerRoot struct {
	Stations []tripPlannerStation `xml:",any"`
}

type tripPlannerStation struct {
	XMLName xml.Name
	Attrs   []xml.Attr         `xml:",any,attr"`
	Marker  *tripPlannerMarker `xml:"marker"`
}

type tripPlannerMarker struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

// sidPrefixes lists the identifying attributes in precedence order.
var sidPrefixes = []struct {
	attr   string
	prefix string
}{
	{"xid", "x_"},
	{"cid", "c_"},
	{"tid", "t_"},
}

// ParseTripPlanner decodes a TripPlanner XML dataset into CSV rows.
// Coordinates are copied verbatim from the marker element.
func ParseTripPlanner(r io.Reader) ([]StationRow, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "xml: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var root tripPlannerRoot
	if err := decoder.Decode(&root); err != nil {
		return nil, eris.Wrap(err, "xml: decode dataset")
	}

	rows := make([]StationRow, 0, len(root.Stations))
	for i, st := range root.Stations {
		row, err := st.row()
		if err != nil {
			return nil, eris.Wrapf(err, "xml: station %d <%s>", i+1, st.XMLName.Local)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (s tripPlannerStation) row() (StationRow, error) {
	stationType, ok := lookupAttr(s.Attrs, "station_type")
	if !ok {
		return StationRow{}, eris.Wrap(ErrMissingAttribute, "station_type")
	}

	title, ok := lookupAttr(s.Attrs, "title")
	if !ok {
		return StationRow{}, eris.Wrap(ErrMissingAttribute, "title")
	}

	if s.Marker == nil {
		return StationRow{}, eris.Wrap(ErrMissingAttribute, "marker")
	}

	lat, ok := lookupAttr(s.Marker.Attrs, "lat")
	if !ok {
		return StationRow{}, eris.Wrap(ErrMissingAttribute, "marker lat")
	}

	lng, ok := lookupAttr(s.Marker.Attrs, "lng")
	if !ok {
		return StationRow{}, eris.Wrap(ErrMissingAttribute, "marker lng")
	}

	// absent chart_title is an empty column, not an error
	chartTitle, _ := lookupAttr(s.Attrs, "chart_title")

	return StationRow{
		Latitude:   lat,
		Longitude:  lng,
		SID:        stationID(s.Attrs),
		Title:      title,
		ChartTitle: chartTitle,
		Type:       stationType,
	}, nil
}

// stationID builds the prefixed sid, or "" when no identifying attribute is set.
func stationID(attrs []xml.Attr) string {
	for _, p := range sidPrefixes {
		if v, ok := lookupAttr(attrs, p.attr); ok {
			return p.prefix + v
		}
	}
	return ""
}

func lookupAttr(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
