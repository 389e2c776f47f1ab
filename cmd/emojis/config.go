package main

import (
	"flag"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the server settings. They are read from an optional TOML
// file, and then any flags given on the command line override them.
type Config struct {
	Port      string `toml:"port"`
	PProfPort string `toml:"pprof_port"`
	Location  string `toml:"location"`
	Binding   string `toml:"binding"`
	Strategy  string `toml:"strategy"`
	SentryDSN string `toml:"sentry_dsn"`
	Init      bool   `toml:"init"`

	// MaxConcurrent caps the requests using the store at once. 0 is no cap.
	MaxConcurrent int `toml:"max_concurrent"`
}

func defaultConfig() Config {
	return Config{
		Port:      "8787",
		Strategy:  "blob",
		SentryDSN: os.Getenv("SENTRY_DSN"),
	}
}

// loadConfig parses args. If a config file is named with -config, it is
// read first, so explicit flags take precedence over it.
func loadConfig(args []string) (Config, error) {
	cfg := defaultConfig()
	fs := flag.NewFlagSet("emojis", flag.ContinueOnError)
	var (
		configFile = fs.String("config", "", "TOML configuration file")
		port       = fs.String("port", "", "port to listen on")
		pprofPort  = fs.String("pprof", "", "port to run the pprof server on")
		location   = fs.String("location", "", "where to store the records: a path, file:, s3:, ql:, or mysql: location")
		binding    = fs.String("binding", "", "namespace for the record keys")
		strategy   = fs.String("strategy", "", "how to keep the items: blob or keyed")
		initList   = fs.Bool("init", false, "create an empty list if there is none")
		maxConc    = fs.Int("max-concurrent", 0, "maximum requests using the store at once, 0 for no limit")
	)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if *configFile != "" {
		if _, err := toml.DecodeFile(*configFile, &cfg); err != nil {
			return cfg, err
		}
	}
	// only flags actually given override the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "pprof":
			cfg.PProfPort = *pprofPort
		case "location":
			cfg.Location = *location
		case "binding":
			cfg.Binding = *binding
		case "strategy":
			cfg.Strategy = *strategy
		case "init":
			cfg.Init = *initList
		case "max-concurrent":
			cfg.MaxConcurrent = *maxConc
		}
	})
	return cfg, nil
}
