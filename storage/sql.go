package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/ruteri/creator-hub-gateway/interfaces"
	_ "modernc.org/sqlite"
)

// Database drivers supported by SQLStore.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// SQLStore implements SecretStore on a relational database.
type SQLStore struct {
	db     *sqlx.DB
	driver string
	dsn    string
	sealer *Sealer
	log    *slog.Logger
}

// NewSQLStore opens a connection pool for driver and dsn. No connection is
// made until first use; call EnsureSchema before serving.
func NewSQLStore(driver, dsn string, sealer *Sealer, log *slog.Logger) (*SQLStore, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		// A single connection avoids "database is locked" under concurrent writers.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(16)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	return &SQLStore{
		db:     db,
		driver: driver,
		dsn:    dsn,
		sealer: sealer,
		log:    log,
	}, nil
}

// Put inserts a new record. Existing records for the same content id are kept.
func (s *SQLStore) Put(ctx context.Context, contentID interfaces.ContentID, aesKey string) (*interfaces.ContentKeyRecord, error) {
	stored, err := s.sealer.Seal(aesKey)
	if err != nil {
		return nil, err
	}

	record := &interfaces.ContentKeyRecord{
		ContentID: contentID,
		AESKey:    aesKey,
		CreatedAt: time.Now().UTC(),
	}

	query := s.db.Rebind(`INSERT INTO encrypted_content_keys (content_id, aes_key, created_at) VALUES (?, ?, ?) RETURNING id`)
	if err := s.db.QueryRowxContext(ctx, query, contentID, stored, record.CreatedAt).Scan(&record.ID); err != nil {
		return nil, fmt.Errorf("insert key for content %s: %w", contentID, err)
	}

	s.log.Debug("Stored content key",
		slog.String("contentID", contentID.String()),
		slog.Int64("recordID", record.ID))

	return record, nil
}

// GetByContentID returns the first record for contentID, or ErrKeyNotFound.
func (s *SQLStore) GetByContentID(ctx context.Context, contentID interfaces.ContentID) (*interfaces.ContentKeyRecord, error) {
	var record interfaces.ContentKeyRecord
	query := s.db.Rebind(`SELECT id, content_id, aes_key, created_at FROM encrypted_content_keys WHERE content_id = ? LIMIT 1`)
	err := s.db.GetContext(ctx, &record, query, contentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get key for content %s: %w", contentID, err)
	}

	record.AESKey, err = s.sealer.Open(record.AESKey)
	if err != nil {
		return nil, fmt.Errorf("get key for content %s: %w", contentID, err)
	}

	return &record, nil
}

// Ping checks that the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Name returns identifier for logging.
func (s *SQLStore) Name() string {
	if s.driver == DriverPostgres {
		return "postgres"
	}
	return s.driver
}

// Close closes the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
