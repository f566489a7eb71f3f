package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/18steinc/watermark-server/internal/config"
)

func testService(t *testing.T) *Service {
	t.Helper()
	base := t.TempDir()
	svc, err := NewService(config.StorageConfig{
		UploadPath:      filepath.Join(base, "uploads"),
		WatermarkedPath: filepath.Join(base, "watermarked"),
	})
	require.NoError(t, err)
	return svc
}

func TestNewServiceCreatesDirectories(t *testing.T) {
	svc := testService(t)

	for _, dir := range []string{svc.Staged().Dir(), svc.Watermarked().Dir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestBucketSaveReadDelete(t *testing.T) {
	b := testService(t).Staged()

	require.NoError(t, b.Save("photo.jpg", []byte("payload")))

	data, err := b.Read("photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	path, err := b.Path("photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(b.Dir(), "photo.jpg"), path)

	require.NoError(t, b.Delete("photo.jpg"))

	_, err = b.Read("photo.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBucketSaveOverwrites(t *testing.T) {
	b := testService(t).Watermarked()

	require.NoError(t, b.Save("photo.png", []byte("first")))
	require.NoError(t, b.Save("photo.png", []byte("second")))

	data, err := b.Read("photo.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func TestBucketFlattensTraversal(t *testing.T) {
	b := testService(t).Staged()

	require.NoError(t, b.Save("../../escape.jpg", []byte("x")))

	// The file lands inside the bucket under its base name.
	data, err := b.Read("escape.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)

	_, err = os.Stat(filepath.Join(b.Dir(), "..", "..", "escape.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestBucketRejectsEmptyNames(t *testing.T) {
	b := testService(t).Staged()

	for _, name := range []string{"", ".", "..", "  ", "/"} {
		assert.ErrorIs(t, b.Save(name, []byte("x")), ErrInvalidName, "name %q", name)
	}
}

func TestBucketMissingFile(t *testing.T) {
	b := testService(t).Staged()

	_, err := b.Read("nope.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = b.Path("nope.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, b.Delete("nope.jpg"), ErrNotFound)
}

func TestBucketListSkipsDirectories(t *testing.T) {
	b := testService(t).Staged()

	require.NoError(t, b.Save("b.png", []byte("bb")))
	require.NoError(t, b.Save("a.jpg", []byte("a")))
	require.NoError(t, os.Mkdir(filepath.Join(b.Dir(), "subdir"), 0o755))

	files, err := b.List()
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "a.jpg", files[0].Name)
	assert.Equal(t, int64(1), files[0].Size)
	assert.Equal(t, "b.png", files[1].Name)
	assert.False(t, files[1].ModTime.IsZero())
}

func TestHealthCheck(t *testing.T) {
	svc := testService(t)

	status := svc.HealthCheck()
	assert.Equal(t, "healthy", status["staged"])
	assert.Equal(t, "healthy", status["watermarked"])

	require.NoError(t, os.RemoveAll(svc.Staged().Dir()))

	status = svc.HealthCheck()
	assert.Contains(t, status["staged"], "unhealthy")
	assert.Equal(t, "healthy", status["watermarked"])
}
