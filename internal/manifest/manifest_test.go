package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depfetch/internal/domain"
)

func TestDefault(t *testing.T) {
	tasks := Default()

	require.Len(t, tasks, 8)
	assert.Equal(t, domain.DownloadTask{
		SourceURL:       "https://curl.haxx.se/ca/cacert.pem",
		DestinationPath: "src/trusted_roots.pem",
	}, tasks[0])
	assert.Equal(t, "pdcurses-3.9.cab", tasks[6].DestinationPath)

	for _, task := range tasks {
		assert.NoError(t, task.Validate(), task.String())
	}

	// callers get their own copy
	tasks[0].DestinationPath = "changed"
	assert.Equal(t, "src/trusted_roots.pem", Default()[0].DestinationPath)
}

func TestParse(t *testing.T) {
	t.Run("keeps order", func(t *testing.T) {
		tasks, err := Parse([]byte(`
tasks:
  - url: https://example.test/b.cab
    destination: b.cab
  - url: https://example.test/a.txt
    destination: out/a.txt
`))
		require.NoError(t, err)
		assert.Equal(t, []domain.DownloadTask{
			{SourceURL: "https://example.test/b.cab", DestinationPath: "b.cab"},
			{SourceURL: "https://example.test/a.txt", DestinationPath: "out/a.txt"},
		}, tasks)
	})

	t.Run("empty document", func(t *testing.T) {
		tasks, err := Parse([]byte(""))
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse([]byte("tasks:\n  - url: https://example.test/a\n    dest: a\n"))
		require.Error(t, err)
	})

	t.Run("invalid task", func(t *testing.T) {
		_, err := Parse([]byte("tasks:\n  - url: ftp://example.test/a\n    destination: a\n"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidTask))
		assert.Contains(t, err.Error(), "task 0")
	})
}

func TestLoad(t *testing.T) {
	t.Run("empty path selects built-in list", func(t *testing.T) {
		tasks, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), tasks)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bundles.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tasks:\n  - url: https://example.test/a.txt\n    destination: out/a.txt\n"), 0o644))

		tasks, err := Load(path)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "out/a.txt", tasks[0].DestinationPath)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
