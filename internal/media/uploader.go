package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const jpegQuality = 85

var ErrUnsupportedImage = errors.New("unsupported image")

var formats = map[imaging.Format]struct {
	ext         string
	contentType string
}{
	imaging.JPEG: {".jpg", "image/jpeg"},
	imaging.PNG:  {".png", "image/png"},
	imaging.GIF:  {".gif", "image/gif"},
	imaging.BMP:  {".bmp", "image/bmp"},
	imaging.TIFF: {".tiff", "image/tiff"},
}

// Uploader normalizes post images and writes them to a Storage.
type Uploader struct {
	storage Storage
	maxSide int
	now     func() time.Time
}

func NewUploader(storage Storage, maxSide int) *Uploader {
	return &Uploader{
		storage: storage,
		maxSide: maxSide,
		now:     time.Now,
	}
}

// SaveImage decodes the upload, applies EXIF orientation, fits it into maxSide x maxSide
// and stores it under posts/YYYY/MM/DD/<uuid>.<ext>. It returns the storage key.
func (u *Uploader) SaveImage(ctx context.Context, filename string, body io.Reader) (string, error) {
	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, filename)
	}

	img, err := imaging.Decode(body, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	if b := img.Bounds(); b.Dx() > u.maxSide || b.Dy() > u.maxSide {
		img = imaging.Fit(img, u.maxSide, u.maxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	meta := formats[format]
	key := path.Join("posts", u.now().Format("2006/01/02"), uuid.NewString()+meta.ext)

	if err := u.storage.Put(ctx, key, &buf, int64(buf.Len()), meta.contentType); err != nil {
		return "", err
	}

	return key, nil
}

func (u *Uploader) Delete(ctx context.Context, key string) error {
	return u.storage.Delete(ctx, key)
}

// URL returns the public address of a stored key.
func (u *Uploader) URL(key string) string {
	if key == "" {
		return ""
	}
	return u.storage.URL(key)
}
