package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	raven "github.com/getsentry/raven-go"

	"github.com/ndlib/emojis"
	"github.com/ndlib/emojis/items"
	"github.com/ndlib/emojis/server"
	"github.com/ndlib/emojis/store"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatalln(err)
	}
	if cfg.SentryDSN != "" {
		raven.SetDSN(cfg.SentryDSN)
		raven.SetRelease(server.Version)
	}

	s, err := openStore(cfg)
	if err != nil {
		log.Fatalln("Problem opening location", cfg.Location, err)
	}
	svc, err := emojis.New(s, cfg.Strategy)
	if err != nil {
		log.Fatalln(err)
	}
	if cfg.Init {
		created, err := items.NewBlob(s).Init()
		if err != nil {
			log.Fatalln("Init:", err)
		}
		if created {
			log.Println("Created empty list")
		}
	}

	rs := &server.RESTServer{
		PortNumber: cfg.Port,
		PProfPort:  cfg.PProfPort,
		Service:    svc,

		MaxConcurrent: cfg.MaxConcurrent,
	}
	go signalHandler(rs)
	err = rs.Run()
	if err != nil {
		log.Fatalln(err)
	}
}

// openStore opens the configured location and applies the binding.
func openStore(cfg Config) (store.Store, error) {
	log.Printf("Location = %q", cfg.Location)
	log.Printf("Binding = %q", cfg.Binding)
	log.Printf("Strategy = %q", cfg.Strategy)
	s, err := store.ParseLocation(cfg.Location)
	if err != nil {
		return nil, err
	}
	return store.NewBinding(s, cfg.Binding), nil
}

// signalHandler stops the server gracefully on SIGINT or SIGTERM.
func signalHandler(rs *server.RESTServer) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	sig := <-c
	log.Println("Received signal", sig)
	err := rs.Stop()
	if err != nil {
		log.Println(err)
	}
}
