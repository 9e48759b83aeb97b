package storage

import (
	"context"
	"errors"
	"fmt"
	"storefront-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackend stores records as rows of the kv_records table
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend wraps an open connection. The kv_records table must already be migrated.
func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

func (g *GormBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var record model.Record
	err := g.db.WithContext(ctx).Where("key = ?", key).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query record: %w", err)
	}
	return record.Value, true, nil
}

func (g *GormBackend) Set(ctx context.Context, key, value string) error {
	if err := upsert(g.db.WithContext(ctx), key, value); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func (g *GormBackend) SetMany(ctx context.Context, entries ...Entry) error {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			if err := upsert(tx, e.Key, e.Value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

func (g *GormBackend) Delete(ctx context.Context, key string) error {
	if err := g.db.WithContext(ctx).Where("key = ?", key).Delete(&model.Record{}).Error; err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

func upsert(db *gorm.DB, key, value string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model.Record{Key: key, Value: value}).Error
}
