// Database migration tool for the StoreOps backend.
//
// Usage:
//
//	migrate -cmd up
//	migrate -cmd down
//	migrate -cmd step -n -1
//	migrate -cmd goto -version 20240101120000
//	migrate -cmd version
//	migrate -cmd force -version 20240101120000
//	migrate -cmd drop -confirm
//	migrate -cmd create -name add_returns_index -desc "index returns by store"
//	migrate -cmd list
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/infrastructure/config"
	"github.com/storeops/backend/internal/infrastructure/logger"
	"github.com/storeops/backend/internal/infrastructure/migration"
)

func main() {
	var (
		cmd            = flag.String("cmd", "", "command: up, down, step, goto, version, force, drop, create, list")
		steps          = flag.Int("n", 1, "number of steps for the step command (negative rolls back)")
		targetVersion  = flag.Uint("version", 0, "target version for goto and force")
		name           = flag.String("name", "", "migration name for create")
		description    = flag.String("desc", "", "migration description for create")
		migrationsPath = flag.String("path", "migrations", "path to the migrations directory")
		confirm        = flag.Bool("confirm", false, "required confirmation for destructive commands")
	)
	flag.Parse()

	if *cmd == "" {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// create and list only touch the filesystem, no database needed.
	switch *cmd {
	case "create":
		if *name == "" {
			log.Fatal("create requires -name")
		}
		mf, err := migration.CreateMigration(*migrationsPath, *name, *description)
		if err != nil {
			log.Fatal("failed to create migration", zap.Error(err))
		}
		log.Info("created migration",
			zap.String("up", mf.UpPath),
			zap.String("down", mf.DownPath),
		)
		return
	case "list":
		files, err := migration.ListMigrations(*migrationsPath)
		if err != nil {
			log.Fatal("failed to list migrations", zap.Error(err))
		}
		if len(files) == 0 {
			log.Info("no migrations found", zap.String("path", *migrationsPath))
			return
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		log.Fatal("failed to ping database", zap.Error(err))
	}

	migrator, err := migration.New(db, *migrationsPath, log)
	if err != nil {
		log.Fatal("failed to create migrator", zap.Error(err))
	}
	defer func() { _ = migrator.Close() }()

	switch *cmd {
	case "up":
		err = migrator.Up()
	case "down":
		if !*confirm {
			log.Fatal("down rolls back the last migration; re-run with -confirm")
		}
		err = migrator.Down()
	case "step":
		err = migrator.Steps(*steps)
	case "goto":
		err = migrator.GoTo(*targetVersion)
	case "version":
		version, dirty, verr := migrator.Version()
		if verr != nil {
			log.Fatal("failed to read version", zap.Error(verr))
		}
		log.Info("current schema version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
		return
	case "force":
		err = migrator.Force(int(*targetVersion))
	case "drop":
		if !*confirm {
			log.Fatal("drop destroys the entire schema; re-run with -confirm")
		}
		err = migrator.Drop()
	default:
		log.Fatal("unknown command", zap.String("cmd", *cmd))
	}

	if err != nil {
		log.Fatal("migration failed", zap.String("cmd", *cmd), zap.Error(err))
	}
	log.Info("migration complete", zap.String("cmd", *cmd))
}
