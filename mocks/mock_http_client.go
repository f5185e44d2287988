package mocks

import (
	"context"
	"io"
	"strings"

	"github.com/stretchr/testify/mock"
)

// MockHTTPClient is a mock implementation of domain.HTTPClient
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Download(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, map[string]string, error) {
	args := m.Called(ctx, url, headers)

	var reader io.ReadCloser
	if args.Get(0) != nil {
		reader = args.Get(0).(io.ReadCloser)
	}

	var respHeaders map[string]string
	if args.Get(1) != nil {
		respHeaders = args.Get(1).(map[string]string)
	}

	return reader, respHeaders, args.Error(2)
}

// FailingBody returns data and then fails with err, as a connection dropped mid-body would
func FailingBody(data string, err error) io.ReadCloser {
	return io.NopCloser(io.MultiReader(
		strings.NewReader(data),
		&errReader{err: err},
	))
}

type errReader struct {
	err error
}

func (r *errReader) Read([]byte) (int, error) {
	return 0, r.err
}
