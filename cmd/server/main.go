package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"prompt-engine/internal/api"
	"prompt-engine/internal/config"
	"prompt-engine/internal/index"
	"prompt-engine/internal/notify"
	"prompt-engine/internal/service"
	"prompt-engine/internal/storage"
)

func main() {
	cfg := config.Load()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("failed to create data dir: %v", err)
	}

	store, err := storage.NewBoltPromptStore(filepath.Join(cfg.DataDir, "prompts.db"))
	if err != nil {
		log.Fatalf("failed to open prompt store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("prompt store close error: %v", err)
		}
	}()

	var sink notify.Sink = notify.NopSink{}
	if !cfg.NotifyOff {
		redisSink, err := notify.NewRedisSink(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("[boot] redis unavailable, notifications disabled: %v", err)
		} else {
			sink = redisSink
			defer redisSink.Close()
		}
	}

	// The index is an in-memory cache over the store: built here, rebuilt
	// from scratch on every restart.
	manager := index.NewManager(store)
	if err := manager.Initialize(context.Background()); err != nil {
		log.Fatalf("failed to build vector index: %v", err)
	}

	svc := service.New(store, manager, sink)
	auth := api.NewStaticTokenAuthenticator(cfg.AuthTokens)
	srv := api.NewServer(svc, manager, auth)

	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Router(),
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("prompt-engine listening on %s (data=%s)", cfg.ListenAddr, cfg.DataDir)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-done
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}
