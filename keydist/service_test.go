package keydist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/ruteri/creator-hub-gateway/interfaces"
	"github.com/ruteri/creator-hub-gateway/metrics"
	"github.com/ruteri/creator-hub-gateway/oracle"
	"github.com/ruteri/creator-hub-gateway/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newSQLiteStore(t *testing.T) *storage.SQLStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(t.Name()))
	store, err := storage.NewSQLStore(storage.DriverSQLite, dsn, nil, testLogger)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestContentKey_Granted(t *testing.T) {
	hub := new(oracle.MockCreatorHub)
	hub.On("HasAccess", mock.Anything, interfaces.WalletAddress("GFAN"), interfaces.ContentID(42)).Return(true, "true", nil)

	store := newSQLiteStore(t)
	_, err := store.Put(context.Background(), 42, "a2V5")
	require.NoError(t, err)

	before := testutil.ToFloat64(metrics.KeyDistributionTotal.WithLabelValues(metrics.OutcomeGranted))

	record, err := NewService(hub, store, testLogger).ContentKey(context.Background(), "GFAN", 42)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ContentID(42), record.ContentID)
	assert.Equal(t, "a2V5", record.AESKey)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.KeyDistributionTotal.WithLabelValues(metrics.OutcomeGranted)))
	hub.AssertExpectations(t)
}

func TestContentKey_DeniedNeverReadsStore(t *testing.T) {
	hub := new(oracle.MockCreatorHub)
	hub.On("HasAccess", mock.Anything, interfaces.WalletAddress("GSTRANGER"), interfaces.ContentID(42)).Return(false, "false", nil)

	_, err := NewService(hub, untouchableStore{t: t}, testLogger).ContentKey(context.Background(), "GSTRANGER", 42)
	assert.ErrorIs(t, err, interfaces.ErrAccessDenied)
	assert.Equal(t, "user has no access to this content", err.Error())
}

func TestContentKey_OracleFailureNeverReadsStore(t *testing.T) {
	hub := new(oracle.MockCreatorHub)
	invErr := &interfaces.InvocationError{Method: oracle.MethodHasAccess, ExitCode: 1, Output: "network unreachable"}
	hub.On("HasAccess", mock.Anything, mock.Anything, mock.Anything).Return(false, "", invErr)

	_, err := NewService(hub, untouchableStore{t: t}, testLogger).ContentKey(context.Background(), "GFAN", 42)
	assert.ErrorIs(t, err, interfaces.ErrExternalInvocation)
	assert.NotErrorIs(t, err, interfaces.ErrAccessDenied)
	assert.Contains(t, err.Error(), "Stellar CLI error: network unreachable")
}

func TestContentKey_GrantedButMissing(t *testing.T) {
	hub := new(oracle.MockCreatorHub)
	hub.On("HasAccess", mock.Anything, mock.Anything, interfaces.ContentID(43)).Return(true, "true", nil)

	_, err := NewService(hub, newSQLiteStore(t), testLogger).ContentKey(context.Background(), "GFAN", 43)
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestContentKey_StoreFailure(t *testing.T) {
	hub := new(oracle.MockCreatorHub)
	hub.On("HasAccess", mock.Anything, mock.Anything, mock.Anything).Return(true, "true", nil)
	store := new(mockStore)
	store.On("GetByContentID", mock.Anything, interfaces.ContentID(1)).Return(nil, errors.New("disk I/O error"))

	_, err := NewService(hub, store, testLogger).ContentKey(context.Background(), "GFAN", 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, interfaces.ErrKeyNotFound)
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestContentKey_NoCaching(t *testing.T) {
	hub := new(oracle.MockCreatorHub)
	hub.On("HasAccess", mock.Anything, mock.Anything, interfaces.ContentID(42)).Return(true, "true", nil).Once()
	hub.On("HasAccess", mock.Anything, mock.Anything, interfaces.ContentID(42)).Return(false, "false", nil).Once()

	store := newSQLiteStore(t)
	_, err := store.Put(context.Background(), 42, "a2V5")
	require.NoError(t, err)

	svc := NewService(hub, store, testLogger)
	_, err = svc.ContentKey(context.Background(), "GFAN", 42)
	require.NoError(t, err)

	_, err = svc.ContentKey(context.Background(), "GFAN", 42)
	assert.ErrorIs(t, err, interfaces.ErrAccessDenied)
	hub.AssertNumberOfCalls(t, "HasAccess", 2)
}

func TestMintContent(t *testing.T) {
	hub := new(oracle.MockCreatorHub)
	hub.On("MintContent", mock.Anything, interfaces.WalletAddress("GCREATOR"), "bafyCID", int64(5), true).
		Return(interfaces.ContentID(42), "42", nil)

	store := newSQLiteStore(t)
	svc := NewService(hub, store, testLogger)

	result, err := svc.MintContent(context.Background(), MintRequest{
		Creator:          "GCREATOR",
		CID:              "bafyCID",
		Price:            5,
		IsForSubscribers: true,
		AESKey:           "a2V5",
	})
	require.NoError(t, err)
	assert.Equal(t, interfaces.ContentID(42), result.ContentID)
	assert.Equal(t, "42", result.CLIOutput)
	require.NotNil(t, result.Record)

	got, err := store.GetByContentID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "a2V5", got.AESKey)
}

func TestMintContent_MintFailureStoresNothing(t *testing.T) {
	hub := new(oracle.MockCreatorHub)
	hub.On("MintContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(interfaces.ContentID(0), "", &interfaces.InvocationError{Method: oracle.MethodMintContent, Output: "not registered"})

	_, err := NewService(hub, untouchableStore{t: t}, testLogger).MintContent(context.Background(), MintRequest{Creator: "GCREATOR", CID: "c", AESKey: "k"})
	assert.ErrorIs(t, err, interfaces.ErrExternalInvocation)
}

func TestMintContent_StoreFailureReportsOrphan(t *testing.T) {
	hub := new(oracle.MockCreatorHub)
	hub.On("MintContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(interfaces.ContentID(77), "77", nil)
	store := new(mockStore)
	store.On("Put", mock.Anything, interfaces.ContentID(77), "k").Return(nil, errors.New("database is locked"))

	result, err := NewService(hub, store, testLogger).MintContent(context.Background(), MintRequest{Creator: "GCREATOR", CID: "c", AESKey: "k"})
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, interfaces.ContentID(77), result.ContentID)
	assert.Nil(t, result.Record)
}
