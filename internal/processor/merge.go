package processor

import (
	"github.com/woozymasta/tripmap/internal/geo"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

// ErrDuplicateSID is returned by BuildLabelIndex under DuplicateError.
var ErrDuplicateSID = eris.New("duplicate sid in join data")

// DuplicatePolicy selects which label wins when a sid repeats in join data.
type DuplicatePolicy string

// Duplicate policies.
const (
	DuplicateLast  DuplicatePolicy = "last"
	DuplicateFirst DuplicatePolicy = "first"
	DuplicateError DuplicatePolicy = "error"
)

// ParseDuplicatePolicy validates a policy name. Empty means DuplicateLast.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(s); p {
	case "":
		return DuplicateLast, nil
	case DuplicateLast, DuplicateFirst, DuplicateError:
		return p, nil
	default:
		return "", eris.Errorf("unknown duplicate policy %q", s)
	}
}

// MergeStats summarizes a label merge.
type MergeStats struct {
	Total     int
	Matched   int
	Unmatched int
}

// BuildLabelIndex keys prior labels by sid. Records with an empty sid are
// skipped since they can never be joined.
func BuildLabelIndex(records []geo.LabelRecord, policy DuplicatePolicy) (map[string]geo.Label, error) {
	index := make(map[string]geo.Label, len(records))

	for i, rec := range records {
		if rec.SID == "" {
			log.Debug().Int("feature", i).Msg("Join feature without sid skipped")
			continue
		}

		if _, seen := index[rec.SID]; seen {
			log.Warn().
				Str("sid", rec.SID).
				Str("policy", string(policy)).
				Msg("Duplicate sid in join data")

			switch policy {
			case DuplicateFirst:
				continue
			case DuplicateError:
				return nil, eris.Wrapf(ErrDuplicateSID, "sid %q", rec.SID)
			}
		}

		index[rec.SID] = rec.Label
	}

	return index, nil
}

// MergeLabels left-joins stations with the label index on sid.
// Every station is kept; unmatched ones get geo.NoLabel. A nil index
// means no join data, so every station is unmatched.
func MergeLabels(stations []geo.Station, index map[string]geo.Label) ([]geo.Station, MergeStats) {
	out := make([]geo.Station, len(stations))
	stats := MergeStats{Total: len(stations)}

	for i, s := range stations {
		label, ok := index[s.SID]
		if ok && s.SID != "" {
			s.Label = label
			stats.Matched++
		} else {
			s.Label = geo.NoLabel()
			stats.Unmatched++
		}
		out[i] = s
	}

	return out, stats
}
