package server

import (
	"os"
	"sort"

	"github.com/woozymasta/tripmap/internal/config"
	"github.com/woozymasta/tripmap/internal/geo"

	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config          *config.Config
	DatasetResolver map[string]*config.Dataset
}

// NewServerContext initializes the context and validates the dataset list.
// Datasets whose file is missing or not a station collection are skipped.
func NewServerContext(cfg *config.Config) *ServerContext {
	log.Info().Int("config_datasets_count", len(cfg.Datasets)).Msg("Initializing server context")

	validDatasets := make([]config.Dataset, 0, len(cfg.Datasets))

	for i := range cfg.Datasets {
		ds := cfg.Datasets[i]

		if ds.Attribution == "" {
			ds.Attribution = cfg.Attribution
		}
		if ds.Title == "" {
			ds.Title = ds.Name
		}

		count, err := countStations(ds.Path)
		if err != nil {
			log.Warn().
				Err(err).
				Str("dataset", ds.Name).
				Str("path", ds.Path).
				Msg("Skipping dataset: file not readable as station GeoJSON")
			continue
		}
		ds.Features = count

		log.Debug().
			Str("dataset", ds.Name).
			Int("features", count).
			Msg("Dataset validated and added to context")

		validDatasets = append(validDatasets, ds)
	}

	sort.Slice(validDatasets, func(i, j int) bool {
		idxI, idxJ := 999999, 999999
		if validDatasets[i].Index != nil {
			idxI = *validDatasets[i].Index
		}
		if validDatasets[j].Index != nil {
			idxJ = *validDatasets[j].Index
		}
		if idxI != idxJ {
			return idxI < idxJ
		}

		return validDatasets[i].Name < validDatasets[j].Name
	})

	cfg.Datasets = validDatasets

	// resolver points into the sorted slice, so build it last
	resolver := make(map[string]*config.Dataset)
	for i := range cfg.Datasets {
		ds := &cfg.Datasets[i]
		resolver[ds.Name] = ds
		for _, alias := range ds.Aliases {
			resolver[alias] = ds
		}
	}

	log.Info().
		Int("valid_datasets_count", len(cfg.Datasets)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:          cfg,
		DatasetResolver: resolver,
	}
}

func countStations(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	stations, err := geo.DecodeStations(f)
	if err != nil {
		return 0, err
	}

	return len(stations), nil
}
