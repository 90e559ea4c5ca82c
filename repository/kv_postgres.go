package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// uniqueViolationCode is the Postgres error code for a unique constraint hit.
const uniqueViolationCode = "23505"

// kvRecord is one row of the key-value table backing asset records when the
// postgres store backend is selected.
type kvRecord struct {
	Key       string         `gorm:"column:key;primaryKey;type:varchar(512)"`
	Value     datatypes.JSON `gorm:"column:value"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (kvRecord) TableName() string {
	return "next_upload_kv"
}

// postgresKV stores values as JSON rows keyed by the full namespaced key.
// The primary-key constraint makes SetNX atomic at the database.
type postgresKV struct {
	db *gorm.DB
}

func NewPostgresKV(db *gorm.DB) (KV, error) {
	if err := db.AutoMigrate(&kvRecord{}); err != nil {
		return nil, err
	}
	return &postgresKV{db: db}, nil
}

func (p *postgresKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var record kvRecord
	tx := p.db.WithContext(ctx).Where("key = ?", key).Find(&record)
	if tx.Error != nil {
		return nil, false, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, false, nil
	}
	return record.Value, true, nil
}

func (p *postgresKV) Set(ctx context.Context, key string, value []byte) error {
	record := kvRecord{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now()}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: []clause.Assignment{
			{Column: clause.Column{Name: "value"}, Value: datatypes.JSON(value)},
			{Column: clause.Column{Name: "updated_at"}, Value: time.Now()},
		},
	}).Create(&record).Error
}

func (p *postgresKV) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	record := kvRecord{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now()}
	err := p.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (p *postgresKV) Delete(ctx context.Context, key string) error {
	return p.db.WithContext(ctx).Delete(&kvRecord{}, "key = ?", key).Error
}

func (p *postgresKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := p.db.WithContext(ctx).Model(&kvRecord{}).
		Where("key LIKE ?", prefix+"%").
		Pluck("key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}
