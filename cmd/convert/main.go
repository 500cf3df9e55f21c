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

	Args struct {
		Input  string `positional-arg-name:"INPUT_XML"  description:"TripPlanner XML dataset" required:"yes"`
		Output string `positional-arg-name:"OUTPUT_CSV" description:"CSV file readable by QGIS or importcsv" required:"yes"`
	} `positional-args:"yes"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] INPUT_XML OUTPUT_CSV"
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	if _, err := processor.ConvertXML(opts.Args.Input, opts.Args.Output); err != nil {
		log.Fatal().Err(err).Str("input", opts.Args.Input).Msg("Failed to convert TripPlanner XML")
	}
}
