package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lotconv/internal/applog"
	"lotconv/internal/config"
	"lotconv/internal/listener"
	"lotconv/internal/mapping"
	"lotconv/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	applog.Setup(os.Getenv("LOG_LEVEL"))

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	store, err := mapping.NewSheetsStore(cfg)
	must(err)
	cache := mapping.NewCache(store, time.Duration(cfg.MappingTTLSec)*time.Second)

	svc := listener.NewService(db, cfg, cache)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
