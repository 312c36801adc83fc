package media

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return &buf
}

func newTestUploader(t *testing.T, maxSide int) (*Uploader, *LocalStorage) {
	t.Helper()

	storage, err := NewLocalStorage(t.TempDir(), "/media/")
	require.NoError(t, err)

	u := NewUploader(storage, maxSide)
	u.now = func() time.Time { return time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC) }
	return u, storage
}

func TestUploader_SaveImage(t *testing.T) {
	ctx := context.Background()

	t.Run("StoresUnderDatedKey", func(t *testing.T) {
		u, storage := newTestUploader(t, 100)

		key, err := u.SaveImage(ctx, "photo.png", encodePNG(t, 40, 20))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(key, "posts/2024/01/14/"), key)
		assert.True(t, strings.HasSuffix(key, ".png"), key)

		img, err := imaging.Open(filepath.Join(storage.Dir(), filepath.FromSlash(key)))
		require.NoError(t, err)
		assert.Equal(t, 40, img.Bounds().Dx())
		assert.Equal(t, 20, img.Bounds().Dy())

		assert.Equal(t, "/media/"+key, u.URL(key))
	})

	t.Run("FitsLargeImages", func(t *testing.T) {
		u, storage := newTestUploader(t, 100)

		key, err := u.SaveImage(ctx, "wide.png", encodePNG(t, 300, 150))
		require.NoError(t, err)

		img, err := imaging.Open(filepath.Join(storage.Dir(), filepath.FromSlash(key)))
		require.NoError(t, err)
		assert.Equal(t, 100, img.Bounds().Dx())
		assert.Equal(t, 50, img.Bounds().Dy())
	})

	t.Run("ReencodesToExtensionFormat", func(t *testing.T) {
		u, _ := newTestUploader(t, 100)

		key, err := u.SaveImage(ctx, "photo.JPEG", encodePNG(t, 10, 10))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(key, ".jpg"), key)
	})

	t.Run("UnknownExtension", func(t *testing.T) {
		u, _ := newTestUploader(t, 100)

		_, err := u.SaveImage(ctx, "notes.txt", encodePNG(t, 10, 10))
		assert.ErrorIs(t, err, ErrUnsupportedImage)
	})

	t.Run("NotAnImage", func(t *testing.T) {
		u, _ := newTestUploader(t, 100)

		_, err := u.SaveImage(ctx, "fake.png", strings.NewReader("definitely not a png"))
		assert.ErrorIs(t, err, ErrUnsupportedImage)
	})

	t.Run("Delete", func(t *testing.T) {
		u, storage := newTestUploader(t, 100)

		key, err := u.SaveImage(ctx, "photo.png", encodePNG(t, 10, 10))
		require.NoError(t, err)

		require.NoError(t, u.Delete(ctx, key))
		_, err = os.Stat(filepath.Join(storage.Dir(), filepath.FromSlash(key)))
		assert.True(t, os.IsNotExist(err))

		assert.NoError(t, u.Delete(ctx, key), "deleting twice is not an error")
	})

	t.Run("EmptyKeyHasNoURL", func(t *testing.T) {
		u, _ := newTestUploader(t, 100)
		assert.Empty(t, u.URL(""))
	})
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)

	for _, key := range []string{"", "../secret", "/etc/passwd", "a/../../b"} {
		err := storage.Put(context.Background(), key, strings.NewReader("x"), 1, "text/plain")
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}
