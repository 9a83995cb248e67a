package store

import (
	"context"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Blob is the single table the sqlite substrate uses: one row per
// collection key.
type Blob struct {
	ID    string `gorm:"primaryKey"`
	Value []byte
}

// DB is a KV backed by sqlite.
type DB struct {
	db *gorm.DB
}

func OpenDB(connectionString string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(Blob{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate Blob entity")
	}

	return &DB{db: db}, nil
}

func (d *DB) Load(ctx context.Context, key string) ([]byte, error) {
	blob := &Blob{}
	err := d.db.WithContext(ctx).First(blob, "id = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return blob.Value, nil
}

func (d *DB) Save(ctx context.Context, key string, value []byte) error {
	return d.db.WithContext(ctx).Save(Blob{
		ID:    key,
		Value: value,
	}).Error
}

func (d *DB) Close() error {
	db, err := d.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
