package utils

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// FileStore persists uploaded files. Save returns the stored name and the
// path (or URL) clients can fetch it from.
type FileStore interface {
	Save(ctx context.Context, fileHeader *multipart.FileHeader) (filename, path string, err error)
}

// UploadName builds a collision-free object name that keeps a readable hint
// of the original: <uuid>-<slug>.<ext>.
func UploadName(original string) string {
	base := filepath.Base(original)
	ext := filepath.Ext(base)
	base = slug.Make(strings.TrimSuffix(base, ext))
	if ext = slug.Make(strings.TrimPrefix(ext, ".")); ext != "" {
		ext = "." + ext
	}
	name := uuid.NewString()
	if base != "" {
		name += "-" + base
	}
	return name + ext
}

// DiskStore writes uploads into Dir. PublicPrefix is the URL prefix the
// directory is served under.
type DiskStore struct {
	Dir          string
	PublicPrefix string
}

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{Dir: dir, PublicPrefix: "/uploads"}
}

// EnsureDir creates the upload directory if it doesn't exist
func (d *DiskStore) EnsureDir() error {
	return os.MkdirAll(d.Dir, os.ModePerm)
}

func (d *DiskStore) Save(ctx context.Context, fileHeader *multipart.FileHeader) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	name := UploadName(fileHeader.Filename)
	if err := SaveFile(fileHeader, filepath.Join(d.Dir, name)); err != nil {
		return "", "", fmt.Errorf("failed to save upload: %w", err)
	}
	return name, d.PublicPrefix + "/" + name, nil
}

// SaveFile saves the uploaded file to the given destination path
func SaveFile(fileHeader *multipart.FileHeader, destPath string) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, file)
	return err
}
