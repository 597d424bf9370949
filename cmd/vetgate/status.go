package main

import (
	"context"
	"fmt"

	"github.com/vetgate/vetgate/internal/store"
	"github.com/vetgate/vetgate/internal/store/sqlite"
)

// cmdStatus prints a short summary of the audit trail.
func cmdStatus() error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DBPath == "off" {
		fmt.Println("audit trail disabled (VETGATE_DB_PATH=off)")
		return nil
	}

	db, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	recent, total, err := db.QueryInvocations(ctx, store.InvocationFilter{Limit: 10})
	if err != nil {
		return fmt.Errorf("query invocations: %w", err)
	}

	_, failed, err := db.QueryInvocations(ctx, store.InvocationFilter{
		Status: store.StatusError, Limit: 1,
	})
	if err != nil {
		return fmt.Errorf("query failures: %w", err)
	}

	fmt.Printf("database:    %s\n", cfg.DBPath)
	fmt.Printf("invocations: %d (%d failed)\n", total, failed)
	if len(recent) > 0 {
		fmt.Println("recent:")
		for _, r := range recent {
			fmt.Printf("  %s  %-20s %-7s %4dms  %s\n",
				r.Timestamp.Format("2006-01-02 15:04:05"),
				r.Tool, r.Status, r.LatencyMs, r.Client)
		}
	}
	return nil
}
