package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ruteri/creator-hub-gateway/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVault serves the subset of the KV v2 and sys/health APIs used by VaultStore.
type fakeVault struct {
	mu       sync.Mutex
	versions map[string][]map[string]interface{}
	token    string
}

func newFakeVault() *fakeVault {
	return &fakeVault{versions: map[string][]map[string]interface{}{}}
}

func (f *fakeVault) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/v1/sys/health" {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"initialized": true, "sealed": false, "standby": false})
		return
	}

	f.token = r.Header.Get("X-Vault-Token")
	path, ok := strings.CutPrefix(r.URL.Path, "/v1/secret/data/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[]}`))
		return
	}

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Format(time.RFC3339Nano)

	switch r.Method {
	case http.MethodPut, http.MethodPost:
		var body struct {
			Data map[string]interface{} `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.versions[path] = append(f.versions[path], body.Data)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"version":       len(f.versions[path]),
				"created_time":  created,
				"deletion_time": "",
				"destroyed":     false,
			},
		})
	case http.MethodGet:
		versions := f.versions[path]
		if len(versions) == 0 {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"data": versions[len(versions)-1],
				"metadata": map[string]interface{}{
					"version":       len(versions),
					"created_time":  created,
					"deletion_time": "",
					"destroyed":     false,
				},
			},
		})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestVaultStore(t *testing.T) {
	backend := newFakeVault()
	srv := httptest.NewServer(backend)
	defer srv.Close()

	store, err := NewVaultStore(srv.URL, "test-token", "secret", "creatorhub", nil, testLogger)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	_, err = store.GetByContentID(ctx, 42)
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	first, err := store.Put(ctx, 42, "Zmlyc3Q=")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)

	second, err := store.Put(ctx, 42, "a2V5")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	got, err := store.GetByContentID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "a2V5", got.AESKey)
	assert.Equal(t, interfaces.ContentID(42), got.ContentID)
	assert.Equal(t, int64(2), got.ID)

	backend.mu.Lock()
	assert.Len(t, backend.versions["creatorhub/42"], 2)
	assert.Equal(t, "test-token", backend.token)
	backend.mu.Unlock()
}

func TestVaultStore_Sealed(t *testing.T) {
	backend := newFakeVault()
	srv := httptest.NewServer(backend)
	defer srv.Close()

	sealer, err := NewSealer(make([]byte, 32))
	require.NoError(t, err)
	store, err := NewVaultStore(srv.URL, "test-token", "secret", "creatorhub", sealer, testLogger)
	require.NoError(t, err)

	_, err = store.Put(context.Background(), 3, "a2V5")
	require.NoError(t, err)

	backend.mu.Lock()
	stored := backend.versions["creatorhub/3"][0]["aes_key"].(string)
	backend.mu.Unlock()
	assert.True(t, strings.HasPrefix(stored, sealedPrefix))

	got, err := store.GetByContentID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "a2V5", got.AESKey)
}
