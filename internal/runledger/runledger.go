// Package runledger is the ambient audit store: one row per sync pass,
// recording what ran, against which destination, and how it finished.
// Adapted from the teacher's database/database.go connection/migration
// bootstrap (PgBouncer-safe DSN tuning, schema-version tracking,
// AutoMigrate-with-table-exists-logging); the Supabase RLS policy setup
// functions that bootstrap also carried are dropped — there is no
// multi-tenant row-level-security concern in a single-operator ingestion
// engine — and the migrated model set shrinks to the one SyncRun table this
// package owns.
package runledger

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SchemaVersion tracks applied migrations, same shape as the teacher's
// schema_versions table.
type SchemaVersion struct {
	ID          uint      `gorm:"primaryKey"`
	Version     string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// SyncRun is one audit row per sync pass.
type SyncRun struct {
	ID          uint       `gorm:"primaryKey"`
	DestKind    string     `gorm:"type:varchar(20);not null;index"`
	SkipBasic   bool       `gorm:"not null;default:false"`
	SyncerCount int        `gorm:"not null;default:0"`
	Status      string     `gorm:"type:varchar(20);not null;default:'running';index"`
	Error       string     `gorm:"type:text"`
	StartedAt   time.Time  `gorm:"not null"`
	FinishedAt  *time.Time
}

const schemaVersion = "0001_sync_runs"

// Ledger owns the postgres connection backing the audit trail.
type Ledger struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to postgres with the same PgBouncer transaction-pooling-safe
// settings as the teacher's InitDB (disabled prepared-statement cache,
// simple query protocol, short connect timeout), then migrates the ledger's
// own tables.
func Open(dsn string, log zerolog.Logger) (*Ledger, error) {
	if dsn == "" {
		return nil, fmt.Errorf("runledger: empty DSN")
	}

	tunedDSN, err := tunedDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("runledger: parse DSN: %w", err)
	}

	db, err := gorm.Open(postgres.Open(tunedDSN), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
		PrepareStmt:                              false,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("runledger: connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("runledger: underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("runledger: ping: %w", err)
	}

	l := &Ledger{db: db, log: log}
	if err := l.migrate(); err != nil {
		return nil, err
	}
	return l, nil
}

func tunedDSN(dsn string) (string, error) {
	parsed, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	q := parsed.Query()
	q.Set("sslmode", "require")
	q.Set("connect_timeout", "10")
	q.Set("prefer_simple_protocol", "true")
	q.Set("statement_cache_capacity", "0")
	q.Set("default_query_exec_mode", "simple_protocol")
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

func (l *Ledger) migrate() error {
	if err := l.db.AutoMigrate(&SchemaVersion{}); err != nil {
		return fmt.Errorf("runledger: migrate schema_versions: %w", err)
	}

	var existing SchemaVersion
	result := l.db.Where("version = ?", schemaVersion).First(&existing)
	if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
		return fmt.Errorf("runledger: check schema version: %w", result.Error)
	}
	if result.Error == gorm.ErrRecordNotFound {
		l.log.Info().Str("version", schemaVersion).Msg("applying runledger migration")
		if err := l.db.AutoMigrate(&SyncRun{}); err != nil {
			return fmt.Errorf("runledger: migrate sync_runs: %w", err)
		}
		if err := l.db.Create(&SchemaVersion{Version: schemaVersion, Description: "add sync_runs table"}).Error; err != nil {
			return fmt.Errorf("runledger: record schema version: %w", err)
		}
	}
	return nil
}

// StartRun records the beginning of a sync pass.
func (l *Ledger) StartRun(ctx context.Context, destKind string, skipBasic bool) (*SyncRun, error) {
	run := &SyncRun{
		DestKind:  destKind,
		SkipBasic: skipBasic,
		Status:    "running",
		StartedAt: time.Now(),
	}
	if err := l.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, fmt.Errorf("runledger: start run: %w", err)
	}
	return run, nil
}

// FinishRun records a sync pass's outcome. A nil runErr marks the row
// "succeeded"; otherwise its message is recorded and the row is marked
// "failed".
func (l *Ledger) FinishRun(ctx context.Context, run *SyncRun, syncerCount int, runErr error) error {
	now := time.Now()
	run.FinishedAt = &now
	run.SyncerCount = syncerCount
	if runErr != nil {
		run.Status = "failed"
		run.Error = runErr.Error()
	} else {
		run.Status = "succeeded"
	}
	if err := l.db.WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("runledger: finish run: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (l *Ledger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
