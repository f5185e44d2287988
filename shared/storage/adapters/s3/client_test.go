package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	obmocks "depfetch/shared/observability/mocks"
	"depfetch/shared/storage/types"
)

type mockPutObjectAPI struct {
	mock.Mock
	body []byte
}

func (m *mockPutObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if params.Body != nil {
		m.body, _ = io.ReadAll(params.Body)
	}
	args := m.Called(ctx, params)
	if out, ok := args.Get(0).(*s3.PutObjectOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestClient_Put(t *testing.T) {
	t.Run("uploads body with metadata", func(t *testing.T) {
		api := &mockPutObjectAPI{}
		api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return aws.ToString(in.Bucket) == "deps" &&
				aws.ToString(in.Key) == "src/trusted_roots.pem" &&
				aws.ToString(in.ContentType) == "application/x-pem-file" &&
				aws.ToInt64(in.ContentLength) == 5 &&
				in.Metadata["source-url"] == "https://example.test/cacert.pem" &&
				in.Metadata["sha256"] == "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
		})).Return(&s3.PutObjectOutput{}, nil)

		client := NewClientWithAPI(api, "deps", obmocks.NopLogger{}, obmocks.NopMetrics{})

		n, err := client.Put(context.Background(), "./src/trusted_roots.pem", strings.NewReader("hello"), types.ObjectMetadata{
			ContentType: "application/x-pem-file",
			SourceURL:   "https://example.test/cacert.pem",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(5), n)
		assert.Equal(t, "hello", string(api.body))
		api.AssertExpectations(t)
	})

	t.Run("put failure", func(t *testing.T) {
		api := &mockPutObjectAPI{}
		api.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("AccessDenied"))

		client := NewClientWithAPI(api, "deps", obmocks.NopLogger{}, obmocks.NopMetrics{})

		_, err := client.Put(context.Background(), "a.cab", strings.NewReader("x"), types.ObjectMetadata{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to put object")
	})

	t.Run("read failure skips upload", func(t *testing.T) {
		api := &mockPutObjectAPI{}
		client := NewClientWithAPI(api, "deps", obmocks.NopLogger{}, obmocks.NopMetrics{})

		_, err := client.Put(context.Background(), "a.cab", iotestErrReader{}, types.ObjectMetadata{})

		require.Error(t, err)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		api.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
	})

	t.Run("empty key", func(t *testing.T) {
		client := NewClientWithAPI(&mockPutObjectAPI{}, "deps", obmocks.NopLogger{}, obmocks.NopMetrics{})

		_, err := client.Put(context.Background(), "", strings.NewReader("x"), types.ObjectMetadata{})

		assert.ErrorIs(t, err, types.ErrEmptyKey)
	})
}

type iotestErrReader struct{}

func (iotestErrReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "curl-7.87.0.cab", objectKey("curl-7.87.0.cab"))
	assert.Equal(t, "src/trusted_roots.pem", objectKey("./src/trusted_roots.pem"))
	assert.Equal(t, "src/trusted_roots.pem", objectKey(`src\trusted_roots.pem`))
	assert.Equal(t, "etc/x", objectKey("/etc/x"))
}

func TestClient_Location(t *testing.T) {
	client := NewClientWithAPI(&mockPutObjectAPI{}, "deps", obmocks.NopLogger{}, obmocks.NopMetrics{})
	assert.Equal(t, "s3://deps/gnu-bundle-202205.cab", client.Location("gnu-bundle-202205.cab"))
}
