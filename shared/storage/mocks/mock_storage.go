package mocks

import (
	"context"
	"io"

	"depfetch/shared/storage/types"

	"github.com/stretchr/testify/mock"
)

// MockFileStorage is a mock implementation of FileStorage interface.
// Put drains reader before recording the call, so reader errors surface
// the same way they do with a real sink.
type MockFileStorage struct {
	mock.Mock
	Written map[string][]byte
}

// Put mocks the Put method
func (m *MockFileStorage) Put(ctx context.Context, key string, reader io.Reader, metadata types.ObjectMetadata) (int64, error) {
	data, readErr := io.ReadAll(reader)
	args := m.Called(ctx, key, metadata)
	if readErr != nil {
		return int64(len(data)), readErr
	}
	if err := args.Error(1); err != nil {
		return 0, err
	}
	if m.Written == nil {
		m.Written = make(map[string][]byte)
	}
	m.Written[key] = data
	return int64(len(data)), nil
}

// Location mocks the Location method
func (m *MockFileStorage) Location(key string) string {
	return "mock://" + key
}
