package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/noah-isme/school-portal-api/pkg/config"
	"github.com/noah-isme/school-portal-api/pkg/database"
	"github.com/noah-isme/school-portal-api/pkg/logger"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [up|down|status]\n", os.Args[0])
	}
	flag.Parse()
	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("connect database", "error", err)
	}
	defer db.Close()

	switch command {
	case "up":
		err = database.MigrateUp(ctx, db.DB)
	case "down":
		err = database.MigrateDown(ctx, db.DB)
	case "status":
		err = database.MigrationStatus(ctx, db.DB)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logr.Sugar().Fatalw("migration failed", "command", command, "error", err)
	}
	logr.Sugar().Infow("migration finished", "command", command)
}
