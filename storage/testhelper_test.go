package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// newTestSQLStore creates a migrated store on a named shared in-memory SQLite
// database. The name derived from t.Name() isolates parallel tests.
func newTestSQLStore(t *testing.T, sealer *Sealer) *SQLStore {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)",
		url.PathEscape(t.Name()),
	)

	store, err := NewSQLStore(DriverSQLite, dsn, sealer, testLogger)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}
