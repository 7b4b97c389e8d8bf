// Command auctiond runs the sealed-bid auction registry daemon.
//
// # Configuration File
//
// Create a YAML file with daemon settings:
//
//	listen_addr: ":8080"
//	owner: "platform"
//	fee_percent: 5
//	nats_url: "nats://localhost:4222"
//	postgres_dsn: "host=localhost user=auction dbname=auction sslmode=disable"
//
// # Usage
//
//	go run ./cmd/auctiond --config=auctiond.yaml
//	go run ./cmd/auctiond --addr=:8080 --owner=platform
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openclear-io/sealedbid/api/httpserver"
	"github.com/openclear-io/sealedbid/config"
	"github.com/openclear-io/sealedbid/core"
	"github.com/openclear-io/sealedbid/journal"
	"github.com/openclear-io/sealedbid/registry"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		addr       = flag.String("addr", "", "HTTP listen address (overrides config)")
		owner      = flag.String("owner", "", "Platform owner identity (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *owner != "" {
		cfg.Owner = *owner
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	sink, cleanup, err := buildSink(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building audit sinks: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	bank := registry.NewLedgerBank()
	reg, err := registry.New(registry.Config{
		Owner:      core.Identity(cfg.Owner),
		FeePercent: cfg.FeePercent,
		Bank:       bank,
		Sink:       sink,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating registry: %v\n", err)
		os.Exit(1)
	}
	if cfg.StartPaused {
		if err := reg.Pause(core.Identity(cfg.Owner)); err != nil {
			fmt.Fprintf(os.Stderr, "Error pausing registry: %v\n", err)
			os.Exit(1)
		}
		log.Printf("INFO: registry started paused")
	}

	srv := httpserver.New(httpserver.Config{
		ListenAddr:   cfg.ListenAddr,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, httpserver.NewHandler(reg, bank))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Printf("INFO: received %s, shutting down", sig)
	case err := <-errCh:
		if err != nil {
			log.Printf("ERROR: server failed: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("ERROR: shutdown: %v", err)
	}
}

// buildSink assembles the audit trail: the process log always, NATS and
// Postgres when configured.
func buildSink(cfg *config.Config) (registry.Sink, func(), error) {
	sinks := journal.Multi{registry.LogSink{}}
	var closers []func()

	if cfg.NATSURL != "" {
		pub, err := journal.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, pub)
		closers = append(closers, func() {
			if err := pub.Close(); err != nil {
				log.Printf("ERROR: closing NATS publisher: %v", err)
			}
		})
		log.Printf("INFO: NATS audit publisher connected to %s", cfg.NATSURL)
	}

	if cfg.PostgresDSN != "" {
		pg, err := journal.NewPostgresJournal(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, pg)
		closers = append(closers, func() {
			if err := pg.Close(); err != nil {
				log.Printf("ERROR: closing Postgres journal: %v", err)
			}
		})
		log.Printf("INFO: Postgres audit journal ready")
	}

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	return sinks, cleanup, nil
}
