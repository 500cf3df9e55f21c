package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/woozymasta/tripmap/internal/config"
	"github.com/woozymasta/tripmap/internal/logger"
	"github.com/woozymasta/tripmap/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr       string `short:"a" long:"addr"   env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"   env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	srvCtx := server.NewServerContext(cfg)

	// Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/api/datasets", srvCtx.HandleDatasetsList)
	mux.HandleFunc("/datasets/", srvCtx.HandleDataset)

	handler := server.RequestLogger(mux)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("datasets_loaded", len(cfg.Datasets)).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, handler); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
