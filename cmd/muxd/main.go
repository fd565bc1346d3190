package main

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ent0n29/muxd/internal/commands"
	"github.com/ent0n29/muxd/internal/config"
	"github.com/ent0n29/muxd/internal/history"
	"github.com/ent0n29/muxd/internal/hooks"
	"github.com/ent0n29/muxd/internal/httpapi"
	"github.com/ent0n29/muxd/internal/notify"
	"github.com/ent0n29/muxd/internal/observability"
	"github.com/ent0n29/muxd/internal/server"
	"github.com/ent0n29/muxd/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	historyStore, err := history.NewStore(ctx, cfg.DatabaseURL, cfg.HistoryLimit)
	if err != nil {
		log.Fatalf("history store init failed: %v", err)
	}
	defer historyStore.Close()

	bus := notify.NewBus()
	bus.SetFlushObserver(metrics.ObserveNotifyBatch)
	bus.Subscribe(metrics.HandleEvent)

	recorder := history.NewRecorder(historyStore, 128)
	bus.Subscribe(recorder.HandleEvent)

	sessions := session.NewManager()
	globalHooks := hooks.NewRegistry()

	rt := server.NewRuntime(sessions, globalHooks, bus)
	rt.Table = commands.NewTable(commands.Deps{
		Sessions: sessions,
		Waits:    rt.Waits,
		Hooks:    globalHooks,
		Bus:      bus,
	})
	rt.Preparer = commands.StatePreparer(sessions)

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	go rt.Loop.Run(runCtx)
	go recorder.Run(runCtx)

	if cfg.ConfigFile != "" {
		if err := runConfigFile(rt, cfg.ConfigFile); err != nil {
			log.Fatalf("config file error: %v", err)
		}
		for _, cause := range rt.Causes.List() {
			log.Printf("config: %s", cause)
		}
	}

	api := httpapi.New(cfg, rt, historyStore, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}

// runConfigFile executes the startup file line by line on a queue with
// no client. Command errors land in the cause log instead of aborting
// startup; only an unreadable file is fatal.
func runConfigFile(rt *server.Runtime, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	q := rt.NewQueue(nil)
	defer rt.Loop.Do(func() { q.Release() })

	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		n := lineno
		rt.Loop.Do(func() {
			if err := rt.RunLine(q, line, path, n, 0); err != nil {
				rt.Causes.Add(path, n, err.Error())
			}
		})
	}
	return scanner.Err()
}
