package processor

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/woozymasta/tripmap/internal/geo"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// ErrMissingColumns is returned when the CSV header lacks required columns.
var ErrMissingColumns = eris.New("missing required columns")

// Columns is the CSV header in output order.
var Columns = []string{"latitude", "longitude", "sid", "title", "chart_title", "type"}

// StationRow is one CSV record. Coordinates stay as text so a
// convert/import round trip keeps them exactly as written.
type StationRow struct {
	Latitude   string `csv:"latitude"`
	Longitude  string `csv:"longitude"`
	SID        string `csv:"sid"`
	Title      string `csv:"title"`
	ChartTitle string `csv:"chart_title"`
	Type       string `csv:"type"`
}

// Station converts the row into a feature without label metadata.
func (r StationRow) Station() (geo.Station, error) {
	lon, lat, err := geo.ParseLonLat(r.Longitude, r.Latitude)
	if err != nil {
		return geo.Station{}, err
	}

	return geo.Station{
		SID:        r.SID,
		Title:      r.Title,
		ChartTitle: r.ChartTitle,
		Type:       r.Type,
		Lon:        lon,
		Lat:        lat,
		Label:      geo.NoLabel(),
	}, nil
}

// WriteCSV writes rows with a header line and no index column.
func WriteCSV(w io.Writer, rows []StationRow) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if err := enc.EncodeHeader(StationRow{}); err != nil {
		return eris.Wrap(err, "csv: write header")
	}

	for i, row := range rows {
		if err := enc.Encode(row); err != nil {
			return eris.Wrapf(err, "csv: write row %d", i+1)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "csv: flush")
	}

	return nil
}

// ReadCSV reads station rows. All of Columns must be present in the
// header, in any order; other columns are ignored.
func ReadCSV(r io.Reader) ([]StationRow, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, eris.Wrap(ErrMissingColumns, "csv: empty input")
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}

	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	if missing := missingColumns(header); len(missing) > 0 {
		return nil, eris.Wrapf(ErrMissingColumns, "csv: %s", strings.Join(missing, ", "))
	}

	dec, err := csvutil.NewDecoder(cr, header...)
	if err != nil {
		return nil, eris.Wrap(err, "csv: init decoder")
	}

	var rows []StationRow
	for {
		var row StationRow
		err := dec.Decode(&row)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "csv: row %d", len(rows)+1)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing []string
	for _, c := range Columns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
