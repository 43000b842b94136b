package oracle

import (
	"context"

	"github.com/ruteri/creator-hub-gateway/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockInvoker mocks the ContractInvoker interface
type MockInvoker struct {
	mock.Mock
}

// Invoke mocks the Invoke method
func (m *MockInvoker) Invoke(ctx context.Context, method string, args []interfaces.ArgPair, signer interfaces.WalletAddress) (string, error) {
	ret := m.Called(ctx, method, args, signer)
	return ret.String(0), ret.Error(1)
}

// MockCreatorHub mocks the CreatorHub interface
type MockCreatorHub struct {
	mock.Mock
}

// HasAccess mocks the HasAccess method
func (m *MockCreatorHub) HasAccess(ctx context.Context, user interfaces.WalletAddress, contentID interfaces.ContentID) (bool, string, error) {
	args := m.Called(ctx, user, contentID)
	return args.Bool(0), args.String(1), args.Error(2)
}

// RegisterCreator mocks the RegisterCreator method
func (m *MockCreatorHub) RegisterCreator(ctx context.Context, creator interfaces.WalletAddress, profileURI string, price int64) (string, error) {
	args := m.Called(ctx, creator, profileURI, price)
	return args.String(0), args.Error(1)
}

// UpdateCreator mocks the UpdateCreator method
func (m *MockCreatorHub) UpdateCreator(ctx context.Context, creator interfaces.WalletAddress, profileURI string, price int64) (string, error) {
	args := m.Called(ctx, creator, profileURI, price)
	return args.String(0), args.Error(1)
}

// GetCreator mocks the GetCreator method
func (m *MockCreatorHub) GetCreator(ctx context.Context, creator interfaces.WalletAddress) (*interfaces.Creator, string, error) {
	args := m.Called(ctx, creator)
	profile, _ := args.Get(0).(*interfaces.Creator)
	return profile, args.String(1), args.Error(2)
}

// MintContent mocks the MintContent method
func (m *MockCreatorHub) MintContent(ctx context.Context, creator interfaces.WalletAddress, cid string, price int64, forSubscribers bool) (interfaces.ContentID, string, error) {
	args := m.Called(ctx, creator, cid, price, forSubscribers)
	return args.Get(0).(interfaces.ContentID), args.String(1), args.Error(2)
}

// GetContent mocks the GetContent method
func (m *MockCreatorHub) GetContent(ctx context.Context, contentID interfaces.ContentID) (*interfaces.Content, string, error) {
	args := m.Called(ctx, contentID)
	content, _ := args.Get(0).(*interfaces.Content)
	return content, args.String(1), args.Error(2)
}

// Subscribe mocks the Subscribe method
func (m *MockCreatorHub) Subscribe(ctx context.Context, subscriber, creator interfaces.WalletAddress, months uint32) (string, error) {
	args := m.Called(ctx, subscriber, creator, months)
	return args.String(0), args.Error(1)
}

// IsSubscribed mocks the IsSubscribed method
func (m *MockCreatorHub) IsSubscribed(ctx context.Context, user, creator interfaces.WalletAddress) (bool, string, error) {
	args := m.Called(ctx, user, creator)
	return args.Bool(0), args.String(1), args.Error(2)
}

// BuyContent mocks the BuyContent method
func (m *MockCreatorHub) BuyContent(ctx context.Context, buyer interfaces.WalletAddress, contentID interfaces.ContentID) (string, error) {
	args := m.Called(ctx, buyer, contentID)
	return args.String(0), args.Error(1)
}

// MockNetworkProbe mocks the NetworkProbe interface
type MockNetworkProbe struct {
	mock.Mock
}

// Health mocks the Health method
func (m *MockNetworkProbe) Health(ctx context.Context) (*interfaces.NetworkHealth, error) {
	args := m.Called(ctx)
	health, _ := args.Get(0).(*interfaces.NetworkHealth)
	return health, args.Error(1)
}

var (
	_ interfaces.ContractInvoker = (*CLIInvoker)(nil)
	_ interfaces.CreatorHub      = (*CreatorHubClient)(nil)
	_ interfaces.NetworkProbe    = (*RPCProbe)(nil)
	_ interfaces.ContractInvoker = (*MockInvoker)(nil)
	_ interfaces.CreatorHub      = (*MockCreatorHub)(nil)
	_ interfaces.NetworkProbe    = (*MockNetworkProbe)(nil)
)
