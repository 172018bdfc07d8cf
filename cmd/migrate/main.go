package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/config"
	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/infra"
	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/observability"
	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/schema"
	"github.com/musicislife08/TelegramGroupsAdmin-sub007/resources"
)

func main() {
	log.SetFormatter(&config.ConsoleFormatter{})
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatalln("cant load config")
	}
	log.SetLevel(log.Level(cfg.LogLevel))

	ctx := context.Background()
	if err := observability.Init(ctx, cfg.MetricsAddr); err != nil {
		log.WithError(err).Fatalln("cant initialize observability")
	}
	defer func() { _ = observability.Logger.Sync() }()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: resources.FS,
		Root:       "migrations",
	}

	switch command {
	case "up":
		dbx := openDatabase(cfg)
		defer dbx.Close()
		runUp(ctx, dbx, source)
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil || steps < 1 {
				log.Fatalln("down takes a positive number of steps")
			}
		}
		dbx := openDatabase(cfg)
		defer dbx.Close()
		runDown(ctx, dbx, source, steps, cfg.Migrate.AllowLossyDown)
	case "status":
		dbx := openDatabase(cfg)
		defer dbx.Close()
		runStatus(dbx, source)
	case "plan":
		if len(os.Args) < 4 {
			log.Fatalln("plan takes two schema versions: plan <from> <to>")
		}
		runPlan(os.Args[2], os.Args[3])
	default:
		log.WithField("command", command).Fatalln("unknown command, expected up, down, status or plan")
	}
}

func openDatabase(cfg config.Config) *sqlx.DB {
	workDir := infra.GetWorkDir()
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)", filepath.Join(workDir, cfg.DBName))
	dbx, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		log.WithError(err).Fatalln("cant open database")
	}
	dbx.SetMaxOpenConns(1)
	return dbx
}

func runUp(ctx context.Context, dbx *sqlx.DB, source migrate.MigrationSource) {
	_, span := otel.Tracer("schema-migrate").Start(ctx, "migrations.up")
	defer span.End()

	done := observability.StartMigrationBatch("up")
	n, err := migrate.Exec(dbx.DB, "sqlite3", source, migrate.Up)
	done()
	if err != nil {
		log.WithError(err).Fatalln("cant apply migrations")
	}
	observability.RecordMigrations("up", n)
	observability.Logger.Info("migrations applied", zap.Int("applied", n))
	log.WithField("applied", n).Infoln("schema is up to date")
}

// runDown refuses lossy steps unless explicitly allowed: the catalog knows
// which down migrations drop data that no re-run of up can restore.
func runDown(ctx context.Context, dbx *sqlx.DB, source migrate.MigrationSource, steps int, allowLossy bool) {
	_, span := otel.Tracer("schema-migrate").Start(ctx, "migrations.down")
	defer span.End()

	records, err := migrate.GetMigrationRecords(dbx.DB, "sqlite3")
	if err != nil {
		log.WithError(err).Fatalln("cant read migration records")
	}
	if steps > len(records) {
		log.WithField("applied", len(records)).WithField("requested", steps).Fatalln("cant roll back more steps than applied")
	}

	rollingBack := make([]string, 0, steps)
	for i := len(records) - 1; i >= len(records)-steps; i-- {
		rollingBack = append(rollingBack, records[i].Id)
		meta, ok := resources.Meta(records[i].Id)
		if !ok {
			log.WithField("migration", records[i].Id).Fatalln("applied migration is missing from the catalog")
		}
		if !meta.LossyDown {
			continue
		}
		entry := log.WithField("migration", meta.ID).WithField("loses", meta.LossyFields)
		if !allowLossy {
			entry.Fatalln("down step is lossy, set TGA_MIGRATE_ALLOW_LOSSY_DOWN=true to run it anyway")
		}
		entry.Warnln("running lossy down step")
	}

	done := observability.StartMigrationBatch("down")
	n, err := migrate.ExecMax(dbx.DB, "sqlite3", source, migrate.Down, steps)
	done()
	if err != nil {
		log.WithError(err).Fatalln("cant roll back migrations")
	}
	observability.RecordMigrations("down", n)
	observability.Logger.Info("migrations rolled back",
		zap.Int("rolled_back", n), zap.Strings("migrations", rollingBack))
	log.WithField("rolled_back", n).Infoln("rollback complete")
}

func runStatus(dbx *sqlx.DB, source migrate.MigrationSource) {
	records, err := migrate.GetMigrationRecords(dbx.DB, "sqlite3")
	if err != nil {
		log.WithError(err).Fatalln("cant read migration records")
	}
	applied := make(map[string]bool, len(records))
	for _, rec := range records {
		applied[rec.Id] = true
	}

	all, err := source.FindMigrations()
	if err != nil {
		log.WithError(err).Fatalln("cant list migrations")
	}
	for _, m := range all {
		entry := log.WithField("migration", m.Id)
		if meta, ok := resources.Meta(m.Id); ok && meta.LossyDown {
			entry = entry.WithField("lossy_down", true)
		}
		if applied[m.Id] {
			entry.Infoln("applied")
		} else {
			entry.Infoln("pending")
		}
	}
}

// runPlan answers "what happens between these two schema versions" without
// touching the database.
func runPlan(from, to string) {
	path, err := resources.History().Path(from, to)
	if err != nil {
		log.WithError(err).Fatalln("cant plan schema path")
	}
	for _, edge := range path {
		entry := log.WithField("from", edge.From).WithField("to", edge.To)
		if edge.Lossy {
			entry = entry.WithField("loses", edge.LossyFields)
		}
		entry.Infoln("step")
	}
	if lossy := schema.LossyEdges(path); len(lossy) > 0 {
		log.WithField("lossy_steps", len(lossy)).Warnln("path loses data")
	} else {
		log.Infoln("path is lossless")
	}
}
