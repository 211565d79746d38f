package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ruteri/domain-resolution/interfaces"
)

const websiteHash = "QmVaAtQbi3EtsfpKoLzALm6vXphdi2KjMgxEDKeGg6wHuK"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockContentBackend implements interfaces.ContentBackend for testing
type MockContentBackend struct {
	mock.Mock
	name string
}

func (m *MockContentBackend) Fetch(ctx context.Context, hash string) ([]byte, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockContentBackend) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockContentBackend) Name() string {
	return m.name
}

func TestMultiBackend_Fetch(t *testing.T) {
	testData := []byte("<html>brad</html>")
	testErr := errors.New("connection refused")

	tests := []struct {
		name          string
		setupMocks    func() []*MockContentBackend
		expectedData  []byte
		expectedError error
	}{
		{
			name: "first backend successful",
			setupMocks: func() []*MockContentBackend {
				mock1 := &MockContentBackend{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Fetch", mock.Anything, websiteHash).Return(testData, nil)

				// not called, the first one succeeds
				mock2 := &MockContentBackend{name: "mock-B"}

				return []*MockContentBackend{mock1, mock2}
			},
			expectedData: testData,
		},
		{
			name: "first backend fails, second succeeds",
			setupMocks: func() []*MockContentBackend {
				mock1 := &MockContentBackend{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Fetch", mock.Anything, websiteHash).Return(nil, testErr)

				mock2 := &MockContentBackend{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Fetch", mock.Anything, websiteHash).Return(testData, nil)

				return []*MockContentBackend{mock1, mock2}
			},
			expectedData: testData,
		},
		{
			name: "unavailable backends are skipped",
			setupMocks: func() []*MockContentBackend {
				mock1 := &MockContentBackend{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(false)

				mock2 := &MockContentBackend{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Fetch", mock.Anything, websiteHash).Return(testData, nil)

				return []*MockContentBackend{mock1, mock2}
			},
			expectedData: testData,
		},
		{
			name: "missing everywhere",
			setupMocks: func() []*MockContentBackend {
				mock1 := &MockContentBackend{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Fetch", mock.Anything, websiteHash).Return(nil, interfaces.ErrContentNotFound)

				mock2 := &MockContentBackend{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Fetch", mock.Anything, websiteHash).Return(nil, interfaces.ErrContentNotFound)

				return []*MockContentBackend{mock1, mock2}
			},
			expectedError: interfaces.ErrContentNotFound,
		},
		{
			name: "nothing reachable",
			setupMocks: func() []*MockContentBackend {
				mock1 := &MockContentBackend{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(false)
				return []*MockContentBackend{mock1}
			},
			expectedError: interfaces.ErrBackendUnavailable,
		},
		{
			name: "all backends fail",
			setupMocks: func() []*MockContentBackend {
				mock1 := &MockContentBackend{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Fetch", mock.Anything, websiteHash).Return(nil, interfaces.ErrContentNotFound)

				mock2 := &MockContentBackend{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Fetch", mock.Anything, websiteHash).Return(nil, testErr)

				return []*MockContentBackend{mock1, mock2}
			},
			expectedError: testErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := tt.setupMocks()
			backends := make([]interfaces.ContentBackend, 0, len(mocks))
			for _, m := range mocks {
				backends = append(backends, m)
			}

			multi := NewMultiBackend(backends, testLogger())
			data, err := multi.Fetch(context.Background(), websiteHash)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedData, data)

			for _, m := range mocks {
				m.AssertExpectations(t)
			}
		})
	}
}

func TestMultiBackend_Available(t *testing.T) {
	down := &MockContentBackend{name: "down"}
	down.On("Available", mock.Anything).Return(false)
	up := &MockContentBackend{name: "up"}
	up.On("Available", mock.Anything).Return(true)

	assert.False(t, NewMultiBackend(nil, testLogger()).Available(context.Background()))
	assert.False(t, NewMultiBackend([]interfaces.ContentBackend{down}, testLogger()).Available(context.Background()))
	assert.True(t, NewMultiBackend([]interfaces.ContentBackend{down, up}, testLogger()).Available(context.Background()))
	assert.Equal(t, "multi:[down,up]", NewMultiBackend([]interfaces.ContentBackend{down, up}, testLogger()).Name())
}

type fakeShell struct {
	up    bool
	files map[string]string
	dirs  map[string]bool
	err   error
	paths []string
}

func (s *fakeShell) IsUp() bool { return s.up }

func (s *fakeShell) Cat(path string) (io.ReadCloser, error) {
	s.paths = append(s.paths, path)
	if s.err != nil {
		return nil, s.err
	}
	if s.dirs[path] {
		return nil, errors.New("cat: this dag node is a directory")
	}
	content, ok := s.files[path]
	if !ok {
		return nil, errors.New("cat: no link named \"x\" under " + path)
	}
	return io.NopCloser(bytes.NewBufferString(content)), nil
}

func TestIPFSBackend_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		sh := &fakeShell{up: true, files: map[string]string{"/ipfs/" + websiteHash: "hello"}}
		data, err := newIPFSBackend(sh, "127.0.0.1:5001", testLogger()).Fetch(ctx, websiteHash)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("directory falls back to index.html", func(t *testing.T) {
		sh := &fakeShell{
			up:    true,
			dirs:  map[string]bool{"/ipfs/" + websiteHash: true},
			files: map[string]string{"/ipfs/" + websiteHash + "/index.html": "<html/>"},
		}
		data, err := newIPFSBackend(sh, "127.0.0.1:5001", testLogger()).Fetch(ctx, "/ipfs/"+websiteHash)
		require.NoError(t, err)
		assert.Equal(t, "<html/>", string(data))
		assert.Equal(t, []string{"/ipfs/" + websiteHash, "/ipfs/" + websiteHash + "/index.html"}, sh.paths)
	})

	t.Run("missing", func(t *testing.T) {
		sh := &fakeShell{up: true}
		_, err := newIPFSBackend(sh, "127.0.0.1:5001", testLogger()).Fetch(ctx, websiteHash)
		assert.ErrorIs(t, err, interfaces.ErrContentNotFound)
	})

	t.Run("node down", func(t *testing.T) {
		sh := &fakeShell{up: false}
		_, err := newIPFSBackend(sh, "127.0.0.1:5001", testLogger()).Fetch(ctx, websiteHash)
		assert.ErrorIs(t, err, interfaces.ErrBackendUnavailable)
		assert.Empty(t, sh.paths)
	})

	t.Run("transport failure", func(t *testing.T) {
		sh := &fakeShell{up: true, err: errors.New("connection reset by peer")}
		_, err := newIPFSBackend(sh, "127.0.0.1:5001", testLogger()).Fetch(ctx, websiteHash)
		require.Error(t, err)
		assert.NotErrorIs(t, err, interfaces.ErrContentNotFound)
	})

	t.Run("empty hash", func(t *testing.T) {
		sh := &fakeShell{up: true}
		_, err := newIPFSBackend(sh, "127.0.0.1:5001", testLogger()).Fetch(ctx, " ")
		assert.ErrorIs(t, err, interfaces.ErrContentNotFound)
		assert.Empty(t, sh.paths)
	})
}

type fakeS3 struct {
	s3iface.S3API
	objects map[string]string
	keys    []string
}

func (f *fakeS3) GetObjectWithContext(ctx aws.Context, in *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error) {
	f.keys = append(f.keys, aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key))
	content, ok := f.objects[aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString(content))}, nil
}

func (f *fakeS3) HeadBucketWithContext(ctx aws.Context, in *s3.HeadBucketInput, opts ...request.Option) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

func TestS3Backend_Fetch(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"websites/" + websiteHash: "mirrored"}}
	backend := newS3Backend(client, "mirror", "/websites/", testLogger())

	assert.True(t, backend.Available(context.Background()))

	data, err := backend.Fetch(context.Background(), websiteHash)
	require.NoError(t, err)
	assert.Equal(t, "mirrored", string(data))
	assert.Equal(t, []string{"mirror/websites/" + websiteHash}, client.keys)

	_, err = backend.Fetch(context.Background(), "QmMissing")
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)
}

func TestFileBackend_Fetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, websiteHash), []byte("single page"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "QmSite"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "QmSite", "index.html"), []byte("<html/>"), 0o644))

	backend, err := NewFileBackend(dir, testLogger())
	require.NoError(t, err)
	assert.True(t, backend.Available(context.Background()))

	data, err := backend.Fetch(context.Background(), websiteHash)
	require.NoError(t, err)
	assert.Equal(t, "single page", string(data))

	data, err = backend.Fetch(context.Background(), "QmSite")
	require.NoError(t, err)
	assert.Equal(t, "<html/>", string(data))

	for _, hash := range []string{"QmMissing", "../etc", "", ".."} {
		_, err = backend.Fetch(context.Background(), hash)
		assert.ErrorIs(t, err, interfaces.ErrContentNotFound, hash)
	}

	_, err = NewFileBackend(filepath.Join(dir, "nope"), testLogger())
	assert.Error(t, err)
}

func TestBackendFactory(t *testing.T) {
	factory := NewBackendFactory(testLogger())

	backend, err := factory.BackendFor("ipfs://127.0.0.1:5001/?timeout=5s")
	require.NoError(t, err)
	assert.Equal(t, "ipfs-127.0.0.1:5001", backend.Name())

	backend, err = factory.BackendFor("ipfs://ipfs.example.com")
	require.NoError(t, err)
	assert.Equal(t, "ipfs-ipfs.example.com:5001", backend.Name())

	backend, err = factory.BackendFor("s3://mirror/websites/?region=eu-west-1")
	require.NoError(t, err)
	assert.Equal(t, "s3-mirror", backend.Name())

	dir := t.TempDir()
	backend, err = factory.BackendFor("file://" + dir)
	require.NoError(t, err)
	assert.Equal(t, "file-"+dir, backend.Name())

	_, err = factory.BackendFor("ipfs://127.0.0.1:5001/?timeout=soon")
	assert.Error(t, err)

	_, err = factory.BackendFor("ftp://example.com")
	assert.ErrorContains(t, err, "unsupported backend scheme")

	multi, err := factory.CreateMultiBackend([]string{"ftp://example.com", "file://" + dir})
	require.NoError(t, err)
	assert.Equal(t, "multi:[file-"+dir+"]", multi.Name())

	_, err = factory.CreateMultiBackend([]string{"ftp://example.com"})
	assert.Error(t, err)
}
