package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"shortbox/internal/cli"
	"shortbox/internal/config"
	"shortbox/internal/preview"
	"shortbox/internal/shortener"
	"shortbox/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	// --- Logger Setup ---
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	// --- Initialize Components ---
	var (
		store   storage.LinkStore
		actions storage.ActionLog
	)
	if cfg.Ephemeral {
		store = storage.NewMemoryStore()
		actions = storage.NewMemoryLog()
	} else {
		repo, err := storage.NewBadgerRepository(cfg.DataDir, log)
		if err != nil {
			log.WithError(err).Error("Failed to initialize database")
			return 1
		}
		defer func() {
			if err := repo.Close(); err != nil {
				log.WithError(err).Error("Error closing database")
			}
		}()
		store = repo
		actions = repo
	}

	gen := shortener.NewRandomGenerator(cfg.CodeLength)
	mgr := shortener.NewManager(store, actions, gen, log)
	res := shortener.NewResolver(store, mgr, actions, log)
	fetcher := preview.NewRodFetcher(log)
	handler := cli.NewHandler(mgr, res, actions, fetcher, log, os.Stdout)

	// Commands run to completion; the context only serves to abort a
	// slow preview fetch on Ctrl+C.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return handler.Run(ctx, os.Args[1:])
}
