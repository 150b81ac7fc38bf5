package store

import (
	"context"
	"errors"
	"time"

	"casthub_backend/internal/logger"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVRecord - строка таблицы kv_records: одна запись стора.
type KVRecord struct {
	Collection string         `gorm:"primaryKey;size:64"`
	ID         string         `gorm:"primaryKey;size:64"`
	Data       datatypes.JSON `gorm:"type:jsonb"`
}

func (KVRecord) TableName() string {
	return "kv_records"
}

// PostgresStore кладет все коллекции в одну таблицу (collection, id, data jsonb).
// Update использует транзакцию GORM с SELECT ... FOR UPDATE на чтениях,
// так что конкурентные read-modify-write сериализуются на строках.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&KVRecord{}); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	return gormGet(s.db.WithContext(ctx), collection, id, false)
}

func (s *PostgresStore) List(ctx context.Context, collection string) ([]Record, error) {
	return gormList(s.db.WithContext(ctx), collection, false)
}

func (s *PostgresStore) Put(ctx context.Context, collection, id string, data []byte) error {
	return gormPut(s.db.WithContext(ctx), collection, id, data)
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	return s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&KVRecord{}).Error
}

func (s *PostgresStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
	logger.StoreLog("postgres", "update", time.Since(start), err)
	return err
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Get(collection, id string) ([]byte, error) {
	return gormGet(t.db, collection, id, true)
}

func (t *gormTx) List(collection string) ([]Record, error) {
	return gormList(t.db, collection, true)
}

func (t *gormTx) Put(collection, id string, data []byte) error {
	return gormPut(t.db, collection, id, data)
}

func (t *gormTx) Delete(collection, id string) error {
	return t.db.Where("collection = ? AND id = ?", collection, id).Delete(&KVRecord{}).Error
}

// --- helpers ---

func gormGet(db *gorm.DB, collection, id string, forUpdate bool) ([]byte, error) {
	var rec KVRecord
	q := db.Where("collection = ? AND id = ?", collection, id)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(rec.Data), nil
}

func gormList(db *gorm.DB, collection string, forUpdate bool) ([]Record, error) {
	var recs []KVRecord
	q := db.Where("collection = ?", collection).Order("id")
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(recs))
	for _, rec := range recs {
		records = append(records, Record{ID: rec.ID, Data: []byte(rec.Data)})
	}
	return records, nil
}

func gormPut(db *gorm.DB, collection, id string, data []byte) error {
	rec := KVRecord{Collection: collection, ID: id, Data: datatypes.JSON(data)}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data"}),
	}).Create(&rec).Error
}
