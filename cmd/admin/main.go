// Package main provides the operator CLI that works directly on the configured store.
package main

import (
	"civicconnect/backend/internal/complaint"
	"civicconnect/backend/internal/config"
	"civicconnect/backend/internal/events"
	"civicconnect/backend/internal/ledger"
	"civicconnect/backend/internal/logger"
	"civicconnect/backend/internal/storage"
	"context"
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return err
	}
	// Keep command output readable.
	cfg.Logger.Level = "error"
	cfg.Logger.OutputPath = "stderr"
	if err := logger.Init(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		return err
	}

	ctx := context.Background()
	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		return err
	}
	defer closeStore()

	writer := ledger.NewWriter(store, cfg.Ledger.Keys...)
	var pub events.Publisher
	if rs, ok := store.(*storage.RedisStore); ok {
		// Open dashboards refresh after a change made from here.
		pub = events.NewRedisBus(rs.Client(), cfg.Redis.KeyPrefix+config.EventsChannel)
	}
	svc := complaint.NewService(writer, pub, nil)

	rootCmd := newRootCmd(store, svc, out)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
