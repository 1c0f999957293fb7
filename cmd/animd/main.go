// Command animd runs the live validation server: it loads the animation
// catalog, revalidates it whenever the files change on disk, and pushes every
// validation report to subscribed editors over a websocket.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"rune-and-ruin/graphics/animations/catalog"
	"rune-and-ruin/graphics/internal/live"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides the config file)")
	paths := flag.String("catalog", "", "Comma-separated catalog paths (overrides the config file)")
	historySize := flag.Int("history", 0, "Report history bound (overrides the config file)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides the config file)")
	flag.Parse()

	config, err := LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	if *addr != "" {
		config.Addr = *addr
	}
	if *paths != "" {
		config.CatalogPaths = splitPaths(*paths)
	}
	if *historySize > 0 {
		config.HistorySize = *historySize
	}
	if *logLevel != "" {
		config.LogLevel = *logLevel
	}
	if err := config.Validate(); err != nil {
		logrus.Fatalf("invalid config: %v", err)
	}

	log := setupLogger(config.LogLevel)
	log.WithField("paths", config.CatalogPaths).Info("loading animation catalog")

	// A broken catalog must not keep the server from starting: designers
	// boot it exactly because the files are red. The initial failure is
	// published like any reload outcome and the watcher picks up the fix.
	resolver, loadErr := catalog.LoadLenient(config.CatalogPaths...)
	if loadErr != nil {
		log.WithError(loadErr).Warn("catalog loaded with failures, serving anyway")
	}

	srv := live.NewServer(live.Config{
		Resolver: resolver,
		History:  live.NewHistory(config.HistorySize),
		Log:      log,
	})
	srv.PublishReload(loadErr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("received shutdown signal, stopping")
		cancel()
	}()

	go func() {
		err := resolver.Watch(ctx, config.debounce(), func(reloadErr error) {
			if reloadErr != nil {
				log.WithError(reloadErr).Warn("catalog reload failed")
			} else {
				log.Info("catalog reloaded")
			}
			srv.PublishReload(reloadErr)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("catalog watcher stopped")
		}
	}()

	httpServer := &http.Server{Addr: config.Addr, Handler: srv}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
		srv.Close()
	}()

	log.WithField("addr", config.Addr).Info("validation server listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}

func setupLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
