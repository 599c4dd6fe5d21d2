package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/getveil/veil/pkg/crypto"
	"github.com/getveil/veil/pkg/models"
)

// MappingRecord is the bun schema for one encrypted mapping.
type MappingRecord struct {
	bun.BaseModel `bun:"table:mappings,alias:m"`

	Key        string    `bun:"key,pk"`
	Ciphertext []byte    `bun:"ciphertext,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// NewPostgresConn creates a bun DB connection from a DSN.
func NewPostgresConn(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

var _ models.MappingStore = &PostgresStore{}

// PostgresStore keeps encrypted mapping records in a single table. Row
// writes are atomic in Postgres; the keyed mutex additionally serializes
// our own read-modify cycles per key.
type PostgresStore struct {
	db    *bun.DB
	key   []byte
	locks *keyedMutex
}

func NewPostgresStore(db *bun.DB, secret string) (*PostgresStore, error) {
	if secret == "" {
		return nil, errors.New("mapping store encryption secret not set")
	}
	_, err := db.NewCreateTable().
		Model((*MappingRecord)(nil)).
		IfNotExists().
		Exec(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to create mappings table: %w", err)
	}
	log.Debug("mappings table ready")
	return &PostgresStore{
		db:    db,
		key:   crypto.DeriveKey(secret),
		locks: newKeyedMutex(),
	}, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, mapping models.Mapping) error {
	plaintext, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to serialize mapping: %w", err)
	}
	ciphertext, err := crypto.Encrypt(plaintext, s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt mapping: %w", err)
	}

	unlock := s.locks.lock(key)
	defer unlock()
	record := MappingRecord{Key: key, Ciphertext: ciphertext, CreatedAt: time.Now().UTC()}
	_, err = s.db.NewInsert().
		Model(&record).
		On("CONFLICT (key) DO UPDATE").
		Set("ciphertext = EXCLUDED.ciphertext").
		Exec(ctx)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, key string) (models.Mapping, error) {
	unlock := s.locks.lock(key)
	record := new(MappingRecord)
	err := s.db.NewSelect().
		Model(record).
		Where("key = ?", key).
		Scan(ctx)
	unlock()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("mapping " + key)
		}
		return nil, err
	}

	plaintext, err := crypto.Decrypt(record.Ciphertext, s.key)
	if err != nil {
		return nil, models.NewMappingCorruptError(key, err)
	}
	var mapping models.Mapping
	if err := json.Unmarshal(plaintext, &mapping); err != nil {
		return nil, models.NewMappingCorruptError(key, err)
	}
	return mapping, nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	unlock := s.locks.lock(key)
	defer unlock()
	res, err := s.db.NewDelete().
		Model((*MappingRecord)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NewNotFoundError("mapping " + key)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.db.NewTruncateTable().
		Model((*MappingRecord)(nil)).
		Exec(ctx)
	return err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
