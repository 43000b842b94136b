package keydist

import (
	"context"
	"testing"

	"github.com/ruteri/creator-hub-gateway/interfaces"
	"github.com/stretchr/testify/mock"
)

// mockStore mocks the SecretStore interface
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, contentID interfaces.ContentID, aesKey string) (*interfaces.ContentKeyRecord, error) {
	args := m.Called(ctx, contentID, aesKey)
	record, _ := args.Get(0).(*interfaces.ContentKeyRecord)
	return record, args.Error(1)
}

func (m *mockStore) GetByContentID(ctx context.Context, contentID interfaces.ContentID) (*interfaces.ContentKeyRecord, error) {
	args := m.Called(ctx, contentID)
	record, _ := args.Get(0).(*interfaces.ContentKeyRecord)
	return record, args.Error(1)
}

func (m *mockStore) Ping(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *mockStore) Name() string                   { return "mock" }
func (m *mockStore) Close() error                   { return nil }

// untouchableStore fails the test on any use.
type untouchableStore struct {
	t *testing.T
}

func (u untouchableStore) Put(context.Context, interfaces.ContentID, string) (*interfaces.ContentKeyRecord, error) {
	u.t.Fatal("store must not be written")
	return nil, nil
}

func (u untouchableStore) GetByContentID(context.Context, interfaces.ContentID) (*interfaces.ContentKeyRecord, error) {
	u.t.Fatal("store must not be read")
	return nil, nil
}

func (u untouchableStore) Ping(context.Context) error { return nil }
func (u untouchableStore) Name() string               { return "untouchable" }
func (u untouchableStore) Close() error               { return nil }
