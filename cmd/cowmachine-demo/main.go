package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	cowmachine "github.com/rustkas/cowmachine"
	"github.com/rustkas/cowmachine/pkg/forwarded"
	"github.com/rustkas/cowmachine/store"
)

var (
	// CLI flags
	portFlag           int
	dbFilenameFlag     string
	configFilenameFlag string
	verbosityTraceFlag bool

	// this is set by goreleaser
	version string
)

func init() {
	flag.IntVar(&portFlag, "port", 8080, "Port to listen on")
	flag.StringVar(&dbFilenameFlag, "db", "notes.db", "Notes DB file name (use 'memory' for in-memory db)")
	flag.StringVar(&configFilenameFlag, "config", "", "Config file to read")
	flag.BoolVar(&verbosityTraceFlag, "vv", false, "Verbosity: trace logging")

	if version == "" {
		version = "DEV"
	}
}

func main() {
	flag.Parse()

	// set log level
	logLevel := zerolog.DebugLevel
	if verbosityTraceFlag {
		logLevel = zerolog.TraceLevel
	}
	log.Logger = log.Level(logLevel).Output(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Str("version", version).Logger()

	// config file values are defaults, flags override them
	var config Config
	if configFilenameFlag != "" {
		var err error
		config, err = getConfig(configFilenameFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("Cannot read config file")
		}
	}
	port := config.Port
	if port == 0 {
		port = portFlag
	}
	dbFilename := dbFilenameFlag
	if config.DB != "" {
		dbFilename = config.DB
	}
	if dbFilename == "memory" {
		dbFilename = "file::memory:?cache=shared"
	}

	notes, err := store.NewSQLiteStore(dbFilename)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot open notes db")
	}

	resolver, err := forwarded.New(forwarded.Config{
		Proxies: config.TrustedProxies,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot parse trusted proxy list")
	}

	router := chi.NewRouter()
	router.Use(resolver.Middleware)
	router.Handle("/", cowmachine.New(cowmachine.Config{
		Resource: helloResource(),
		Logger:   &log.Logger,
	}))
	router.Handle("/notes/{id}", cowmachine.New(cowmachine.Config{
		Resource: notesResource(notes),
		Logger:   &log.Logger,
	}))

	log.Info().Msgf("Serving notes from %s on port %v", dbFilename, port)
	err = http.ListenAndServe(fmt.Sprintf(":%d", port), router)

	if err != nil {
		panic(err)
	}
}
