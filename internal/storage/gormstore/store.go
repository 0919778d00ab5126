// Package gormstore implements storage.Store on GORM/Postgres.
package gormstore

import (
	"context"
	"errors"

	"clinicpro-backend/internal/storage"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

var _ storage.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func getByID[T any](ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	var out T
	if err := db.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// updateFields applies only the supplied columns. GORM refreshes updated_at
// on its own for Updates calls.
func updateFields[T any](ctx context.Context, db *gorm.DB, id uint, fields map[string]any) (*T, error) {
	existing, err := getByID[T](ctx, db, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return existing, nil
	}
	if err := db.WithContext(ctx).Model(existing).Updates(fields).Error; err != nil {
		return nil, err
	}
	return getByID[T](ctx, db, id)
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id uint) error {
	var zero T
	return db.WithContext(ctx).Delete(&zero, "id = ?", id).Error
}
