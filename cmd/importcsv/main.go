package main

import (
	"os"

	"github.com/woozymasta/tripmap/internal/logger"
	"github.com/woozymasta/tripmap/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Format      string `short:"f" long:"format"       env:"OUTPUT_FORMAT" description:"Output format" choice:"geojson" choice:"shp" default:"geojson"`
	OnDuplicate string `short:"d" long:"on-duplicate" env:"ON_DUPLICATE"  description:"Label to keep when a sid repeats in the join file" choice:"last" choice:"first" choice:"error" default:"last"`

	Args struct {
		Input  string `positional-arg-name:"INPUT_CSV"      description:"CSV with latitude, longitude, sid, title, chart_title, type columns" required:"yes"`
		Output string `positional-arg-name:"OUTPUT_GEOJSON" description:"Output file" required:"yes"`
		Join   string `positional-arg-name:"JOIN_GEOJSON"   description:"Prior output whose label_x, label_y and label_callout are preserved"`
	} `positional-args:"yes"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] INPUT_CSV OUTPUT_GEOJSON [JOIN_GEOJSON]"
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	_, err := processor.ImportCSV(processor.ImportOptions{
		Input:       opts.Args.Input,
		Output:      opts.Args.Output,
		Join:        opts.Args.Join,
		Format:      opts.Format,
		OnDuplicate: processor.DuplicatePolicy(opts.OnDuplicate),
	})
	if err != nil {
		log.Fatal().Err(err).Str("input", opts.Args.Input).Msg("Failed to import CSV")
	}
}
