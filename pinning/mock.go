package pinning

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockPinner mocks the Pinner interface. The payload is read fully and
// passed to the mock as a string.
type MockPinner struct {
	mock.Mock
}

// Pin mocks the Pin method
func (m *MockPinner) Pin(ctx context.Context, filename string, data io.Reader) (string, error) {
	payload, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	args := m.Called(ctx, filename, string(payload))
	return args.String(0), args.Error(1)
}

// Name mocks the Name method
func (m *MockPinner) Name() string {
	return "mock"
}
