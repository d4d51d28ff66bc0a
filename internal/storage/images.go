// Package storage keeps uploaded license images on the local disk.
package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"ride_hailing/internal/apperr"
)

// sniffLen is the number of leading bytes used to detect the content type.
const sniffLen = 3072

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// ImageStore writes images under dir and returns references below urlPrefix.
type ImageStore struct {
	dir       string
	urlPrefix string
	maxBytes  int64
}

func NewImageStore(dir, urlPrefix string, maxBytes int64) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{dir: dir, urlPrefix: urlPrefix, maxBytes: maxBytes}, nil
}

func (s *ImageStore) Dir() string { return s.dir }

// Save validates the content of r and stores it under a random name. It
// returns the public reference of the stored file.
func (s *ImageStore) Save(r io.Reader) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", apperr.Internal(fmt.Errorf("read upload: %w", err))
	}
	head = head[:n]
	if n == 0 {
		return "", apperr.Validation("Uploaded file is empty")
	}

	mime := mimetype.Detect(head)
	if !mimetype.EqualsAny(mime.String(), allowedImageTypes...) {
		return "", apperr.Validation(fmt.Sprintf("Unsupported image type %s, use JPEG, PNG or WEBP", mime.String()))
	}

	name := uuid.NewString() + mime.Extension()
	full := filepath.Join(s.dir, name)
	f, err := os.Create(full)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("create image file: %w", err))
	}

	body := io.MultiReader(bytes.NewReader(head), r)
	written, err := io.Copy(f, io.LimitReader(body, s.maxBytes+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		os.Remove(full)
		return "", apperr.Internal(fmt.Errorf("write image file: %w", err))
	case closeErr != nil:
		os.Remove(full)
		return "", apperr.Internal(fmt.Errorf("close image file: %w", closeErr))
	case written > s.maxBytes:
		os.Remove(full)
		return "", apperr.Validation(fmt.Sprintf("Image exceeds the %d byte limit", s.maxBytes))
	}

	return path.Join(s.urlPrefix, name), nil
}
