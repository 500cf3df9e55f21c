// Package processor converts TripPlanner datasets between XML, CSV, GeoJSON
// and Shapefile, merging persisted label placement on the way.
package processor

import (
	"os"
	"path/filepath"

	"github.com/woozymasta/tripmap/internal/geo"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

// Output formats supported by ImportCSV.
const (
	FormatGeoJSON   = "geojson"
	FormatShapefile = "shp"
)

// ImportOptions configures ImportCSV.
type ImportOptions struct {
	Input       string // CSV with the Columns header
	Output      string
	Join        string // optional prior GeoJSON export with label attributes
	Format      string // FormatGeoJSON when empty
	OnDuplicate DuplicatePolicy
}

// ImportResult describes a finished import.
type ImportResult struct {
	Output string
	Stats  MergeStats
}

// ConvertXML reads a TripPlanner XML file and writes it as CSV.
// The XML is fully parsed before the output file is created.
func ConvertXML(input, output string) (int, error) {
	f, err := os.Open(input)
	if err != nil {
		return 0, eris.Wrapf(err, "convert: open %s", input)
	}
	defer func() { _ = f.Close() }()

	rows, err := ParseTripPlanner(f)
	if err != nil {
		return 0, eris.Wrapf(err, "parse %s", input)
	}

	for _, r := range rows {
		if r.SID == "" {
			log.Warn().
				Str("title", r.Title).
				Msg("Station has no xid, cid or tid; sid left empty")
		}
	}

	if err := saveCSV(output, rows); err != nil {
		return 0, err
	}

	log.Info().
		Str("input", input).
		Str("output", output).
		Int("stations", len(rows)).
		Msg("TripPlanner XML converted")

	return len(rows), nil
}

// ImportCSV reads stations from CSV, optionally joins label placement
// from a prior export, and writes the result. All inputs are read before
// the output is written, so Output may name the Join file.
func ImportCSV(opts ImportOptions) (*ImportResult, error) {
	format := opts.Format
	if format == "" {
		format = FormatGeoJSON
	}
	if format != FormatGeoJSON && format != FormatShapefile {
		return nil, eris.Errorf("unknown output format %q", format)
	}

	policy, err := ParseDuplicatePolicy(string(opts.OnDuplicate))
	if err != nil {
		return nil, err
	}

	stations, err := loadStations(opts.Input)
	if err != nil {
		return nil, err
	}

	var index map[string]geo.Label
	if opts.Join != "" {
		records, err := loadLabels(opts.Join)
		if err != nil {
			return nil, err
		}

		index, err = BuildLabelIndex(records, policy)
		if err != nil {
			return nil, eris.Wrapf(err, "join %s", opts.Join)
		}

		log.Debug().
			Str("join", opts.Join).
			Int("features", len(records)).
			Int("sids", len(index)).
			Msg("Join data loaded")
	}

	merged, stats := MergeLabels(stations, index)

	output := opts.Output
	switch format {
	case FormatShapefile:
		output, err = saveShapefile(output, merged)
	default:
		err = saveGeoJSON(filepath.Dir(output), output, merged)
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("input", opts.Input).
		Str("output", output).
		Str("format", format).
		Int("stations", stats.Total).
		Int("matched", stats.Matched).
		Int("unmatched", stats.Unmatched).
		Msg("CSV imported")

	return &ImportResult{Output: output, Stats: stats}, nil
}

func loadStations(path string) ([]geo.Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "import: open %s", path)
	}
	defer func() { _ = f.Close() }()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}

	stations := make([]geo.Station, 0, len(rows))
	for i, r := range rows {
		s, err := r.Station()
		if err != nil {
			return nil, eris.Wrapf(err, "read %s: row %d (sid %q)", path, i+1, r.SID)
		}

		if !geo.KnownType(s.Type) {
			log.Warn().
				Str("sid", s.SID).
				Str("type", s.Type).
				Msg("Unknown station type")
		}

		stations = append(stations, s)
	}

	return stations, nil
}

func loadLabels(path string) ([]geo.LabelRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "join: open %s", path)
	}
	defer func() { _ = f.Close() }()

	records, err := geo.DecodeLabels(f)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}

	return records, nil
}

// saveCSV writes the CSV rows, creating parent directories.
func saveCSV(path string, rows []StationRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return WriteCSV(f, rows)
}

// saveGeoJSON marshals the feature collection and writes it to disk.
func saveGeoJSON(dir, path string, stations []geo.Station) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return geo.EncodeCollection(f, stations)
}
