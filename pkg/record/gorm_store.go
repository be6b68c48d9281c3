package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

const migrateLockID int64 = 52305230

// GormStore implements Store using GORM + Postgres with a JSONB payload
// per record. Partial updates are applied as chained jsonb_set calls
// whose field names are bound as path parameters, so an update can only
// ever assign fields, regardless of what the names contain.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migration under an advisory
// lock so concurrent replicas do not race the migration.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := withMigrationLock(db, func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(&RecordModel{}); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func withMigrationLock(db *gorm.DB, fn func(*gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("open sql conn: %w", err)
	}
	defer conn.Close()
	if err := execAdvisory(ctx, conn, "SELECT pg_advisory_lock($1)", migrateLockID); err != nil {
		return fmt.Errorf("acquire migrate lock: %w", err)
	}
	defer func() {
		_ = execAdvisory(ctx, conn, "SELECT pg_advisory_unlock($1)", migrateLockID)
	}()
	return fn(db)
}

func execAdvisory(ctx context.Context, conn *sql.Conn, query string, lockID int64) error {
	_, err := conn.ExecContext(ctx, query, lockID)
	return err
}

// Get returns the record at key, or ErrNotFound.
func (s *GormStore) Get(ctx context.Context, collection, key string) (Record, error) {
	var model RecordModel
	err := s.db.WithContext(ctx).
		First(&model, "collection = ? AND key = ?", collection, key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return Record(model.Data).Clone(), nil
}

// Put writes the record. With failIfExists the insert relies on the
// primary-key conflict for atomicity: exactly one of two concurrent
// creates with the same key succeeds. Upserts overwrite the payload but
// keep the original createdAt.
func (s *GormStore) Put(ctx context.Context, collection, key string, rec Record, failIfExists bool) (Record, error) {
	now := timeNow().UTC()
	stored := rec.Clone()
	if stored.String(FieldCreatedAt) == "" {
		stored[FieldCreatedAt] = FormatTime(now)
	}
	stored[FieldUpdatedAt] = FormatTime(now)

	model := RecordModel{
		Collection: collection,
		Key:        key,
		IndexKey:   stored.String(IndexField(collection)),
		Data:       datatypes.JSONMap(stored),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var onConflict clause.Expression
	if failIfExists {
		onConflict = clause.OnConflict{DoNothing: true}
	} else {
		onConflict = clause.OnConflict{
			Columns: []clause.Column{{Name: "collection"}, {Name: "key"}},
			DoUpdates: clause.Assignments(map[string]any{
				// Overwrite the payload but carry the original createdAt
				// forward: createdAt is set once per key.
				"data": gorm.Expr(
					"jsonb_set(excluded.data, '{createdAt}', COALESCE(records.data->'createdAt', excluded.data->'createdAt'), true)",
				),
				"index_key":  gorm.Expr("excluded.index_key"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}
	}
	res := s.db.WithContext(ctx).Clauses(onConflict).Create(&model)
	if res.Error != nil {
		return nil, res.Error
	}
	if failIfExists && res.RowsAffected == 0 {
		return nil, ErrAlreadyExists
	}
	if failIfExists {
		return stored.Clone(), nil
	}
	// Upserts re-read to surface the preserved createdAt.
	return s.Get(ctx, collection, key)
}

// Update applies the built fields plus updatedAt in a single UPDATE.
func (s *GormStore) Update(ctx context.Context, collection, key string, upd *Update) (Record, error) {
	now := timeNow().UTC()
	expr := gorm.Expr("data")
	for _, fv := range upd.Fields() {
		expr = setFieldExpr(expr, fv.Name, fv.Value)
	}
	expr = setFieldExpr(expr, FieldUpdatedAt, FormatTime(now))

	res := s.db.WithContext(ctx).Model(&RecordModel{}).
		Where("collection = ? AND key = ?", collection, key).
		UpdateColumns(map[string]any{
			"data":       expr,
			"updated_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, collection, key)
}

// setFieldExpr wraps the running jsonb expression in one more jsonb_set
// call. The field name travels as an array-path bind parameter and the
// value as a jsonb literal parameter.
func setFieldExpr(inner clause.Expr, field string, value any) clause.Expr {
	raw, _ := json.Marshal(value)
	return gorm.Expr("jsonb_set(?, ARRAY[?]::text[], ?::jsonb, true)", inner, field, string(raw))
}

// Increment adds delta to a numeric field in one UPDATE statement, so
// concurrent increments never lose writes.
func (s *GormStore) Increment(ctx context.Context, collection, key, field string, delta int64) (Record, error) {
	now := timeNow().UTC()
	rawNow, _ := json.Marshal(FormatTime(now))
	expr := gorm.Expr(
		"jsonb_set(jsonb_set(data, ARRAY[?]::text[], to_jsonb(COALESCE((data->>?)::bigint, 0) + ?), true), ARRAY[?]::text[], ?::jsonb, true)",
		field, field, delta, FieldUpdatedAt, string(rawNow),
	)
	res := s.db.WithContext(ctx).Model(&RecordModel{}).
		Where("collection = ? AND key = ?", collection, key).
		UpdateColumns(map[string]any{
			"data":       expr,
			"updated_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, collection, key)
}

// Delete removes the record; absent keys are a no-op.
func (s *GormStore) Delete(ctx context.Context, collection, key string) error {
	return s.db.WithContext(ctx).
		Delete(&RecordModel{}, "collection = ? AND key = ?", collection, key).Error
}

// ScanAll returns every record in the collection.
func (s *GormStore) ScanAll(ctx context.Context, collection string) ([]Record, error) {
	var models []RecordModel
	if err := s.db.WithContext(ctx).
		Find(&models, "collection = ?", collection).Error; err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(models))
	for _, m := range models {
		out = append(out, Record(m.Data).Clone())
	}
	return out, nil
}

// QueryByIndex returns records by secondary index key, newest first.
func (s *GormStore) QueryByIndex(ctx context.Context, collection, indexKey string) ([]Record, error) {
	var models []RecordModel
	if err := s.db.WithContext(ctx).
		Where("collection = ? AND index_key = ?", collection, indexKey).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(models))
	for _, m := range models {
		out = append(out, Record(m.Data).Clone())
	}
	return out, nil
}
