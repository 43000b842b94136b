package storage

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ruteri/creator-hub-gateway/interfaces"
)

// NewSecretStore creates a secret store from a location URI.
// The URI format should be [scheme]://[auth@]host[:port][/path][?params]
//
// Supported schemes:
//   - sqlite:// - Embedded SQLite database file
//   - postgres:// (or postgresql://) - PostgreSQL via pgx
//   - vault:// - HashiCorp Vault KV v2
//
// Returns an error if the URI is invalid or the scheme is unsupported.
func NewSecretStore(uri string, sealer *Sealer, log *slog.Logger) (interfaces.SecretStore, error) {
	loc, err := interfaces.NewSecretStoreLocation(uri)
	if err != nil {
		return nil, err
	}

	var store interfaces.SecretStore
	switch {
	case loc.Scheme == "sqlite":
		store, err = createSQLiteStore(loc, sealer, log)
	case loc.IsSQL():
		store, err = createPostgresStore(loc, sealer, log)
	case loc.IsVault():
		store, err = createVaultStore(loc, sealer, log)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", interfaces.ErrInvalidLocationURI, loc.Scheme)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// createSQLiteStore creates an SQLite store.
// URI format: sqlite://relative.db or sqlite:///absolute/path.db
func createSQLiteStore(loc interfaces.SecretStoreLocation, sealer *Sealer, log *slog.Logger) (*SQLStore, error) {
	file := loc.Host + loc.Path
	if file == "" {
		return nil, fmt.Errorf("%w: sqlite URI has no database file", interfaces.ErrInvalidLocationURI)
	}

	log.Debug("Creating SQLite secret store", slog.String("file", file))

	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		file,
	)
	return NewSQLStore(DriverSQLite, dsn, sealer, log)
}

// createPostgresStore creates a PostgreSQL store; the URI is passed to pgx unchanged.
func createPostgresStore(loc interfaces.SecretStoreLocation, sealer *Sealer, log *slog.Logger) (*SQLStore, error) {
	log.Debug("Creating PostgreSQL secret store", slog.String("host", loc.Host))
	return NewSQLStore(DriverPostgres, loc.Raw, sealer, log)
}

// createVaultStore creates a Vault store.
// URI format: vault://host:port/mount/path?token=...&tls=false
// The first path segment is the KV v2 mount, the rest is the data path.
func createVaultStore(loc interfaces.SecretStoreLocation, sealer *Sealer, log *slog.Logger) (*VaultStore, error) {
	if loc.Host == "" {
		return nil, fmt.Errorf("%w: vault URI has no host", interfaces.ErrInvalidLocationURI)
	}

	scheme := "https"
	if loc.GetParam("tls") != "" && !loc.GetParamBool("tls") {
		scheme = "http"
	}
	address := fmt.Sprintf("%s://%s", scheme, loc.Host)

	mount, dataPath, _ := strings.Cut(strings.Trim(loc.Path, "/"), "/")

	log.Debug("Creating Vault secret store",
		slog.String("address", address),
		slog.String("mount", mount),
		slog.String("path", dataPath))

	return NewVaultStore(address, loc.GetParam("token"), mount, dataPath, sealer, log)
}

var (
	_ interfaces.SecretStore = (*SQLStore)(nil)
	_ interfaces.SecretStore = (*VaultStore)(nil)
	_ Migrator               = (*SQLStore)(nil)
)
