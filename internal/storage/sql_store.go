package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Entry is one key-value row. Each ledger and session record is a single row.
type Entry struct {
	Name      string `gorm:"primaryKey;size:128"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "kv_entries" }

// SQLStore keeps keys in a relational table through gorm.
type SQLStore struct {
	DB *gorm.DB
}

// NewSQLStore migrates the kv_entries table on db and wraps it.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &SQLStore{DB: db}, nil
}

// OpenPostgres connects through lib/pq rather than gorm's default pgx driver.
func OpenPostgres(dsn string) (*SQLStore, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        dsn,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}
	return NewSQLStore(db)
}

func OpenSQLite(path string) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	return NewSQLStore(db)
}

func (s *SQLStore) Read(ctx context.Context, key string) (string, bool, error) {
	var entry Entry
	err := s.DB.WithContext(ctx).Where("name = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (s *SQLStore) Write(ctx context.Context, key, raw string) error {
	entry := Entry{Name: key, Value: raw, UpdatedAt: time.Now()}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Clear(ctx context.Context, key string) error {
	if err := s.DB.WithContext(ctx).Where("name = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("failed to clear %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
