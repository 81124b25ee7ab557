// Command crm-maintenance runs the inactive-customer cleanup once and
// exits. Scheduling is left to the host's cron.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/smallbiznis/crm/internal/clock"
	"github.com/smallbiznis/crm/internal/config"
	custrepository "github.com/smallbiznis/crm/internal/customer/repository"
	"github.com/smallbiznis/crm/internal/logger"
	"github.com/smallbiznis/crm/internal/maintenance"
	orderrepository "github.com/smallbiznis/crm/internal/order/repository"
	"github.com/smallbiznis/crm/pkg/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "crm-maintenance: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	log, err := logger.New(cfg.AppName+"-maintenance", cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	gdb, err := db.Open(cfg, log)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	jobs := maintenance.New(maintenance.Params{
		DB:        gdb,
		Log:       log,
		Clock:     clock.System(),
		Config:    cfg,
		Customers: custrepository.Provide(),
		Orders:    orderrepository.Provide(),
	})

	deleted, err := jobs.CleanupInactiveCustomers(context.Background())
	if err != nil {
		return err
	}
	log.Info("cleanup finished", zap.Int64("deleted", deleted))
	return nil
}
