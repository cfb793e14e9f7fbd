package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type kvRecord struct {
	Key       string `gorm:"column:store_key;primaryKey"`
	Value     []byte `gorm:"not null"`
	ExpiresAt int64  `gorm:"index"` // unix nanoseconds, 0 for no expiry
	UpdatedAt time.Time
}

func (kvRecord) TableName() string {
	return "kv_entries"
}

// SQLiteStore keeps entries in a single SQLite table. Expired rows are hidden
// from reads and removed lazily.
type SQLiteStore struct {
	db  *gorm.DB
	now func() time.Time
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_journal_mode=WAL&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreConnection, err)
	}

	return NewSQLiteStore(db)
}

func NewSQLiteStore(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&kvRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv_entries: %w", err)
	}

	return &SQLiteStore{
		db:  db,
		now: time.Now,
	}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec kvRecord
	err := s.db.WithContext(ctx).
		Where("store_key = ?", key).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if rec.ExpiresAt != 0 && rec.ExpiresAt <= s.now().UnixNano() {
		if err := s.Delete(ctx, key); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	return rec.Value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now()
	rec := kvRecord{
		Key:       key,
		Value:     value,
		UpdatedAt: now,
	}
	if ttl > 0 {
		rec.ExpiresAt = now.Add(ttl).UnixNano()
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("store_key = ?", key).
		Delete(&kvRecord{}).Error
}

func (s *SQLiteStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	err := s.db.WithContext(ctx).
		Model(&kvRecord{}).
		Where("substr(store_key, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix).
		Where("(expires_at = 0 OR expires_at > ?)", s.now().UnixNano()).
		Order("store_key").
		Pluck("store_key", &keys).Error
	if err != nil {
		return nil, err
	}

	return keys, nil
}

// PurgeExpired deletes every expired row and returns how many were removed.
func (s *SQLiteStore) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <> 0 AND expires_at <= ?", s.now().UnixNano()).
		Delete(&kvRecord{})
	return result.RowsAffected, result.Error
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
