package media

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	productDir = "products"
	maxSide    = 1200
)

// Store keeps product images on local disk under root and serves them
// under urlPrefix.
type Store struct {
	root      string
	urlPrefix string
}

func NewStore(root, urlPrefix string) *Store {
	return &Store{root: root, urlPrefix: urlPrefix}
}

// Save decodes the upload, shrinks it to fit maxSide and writes it as JPEG.
// It returns the path relative to the media root.
func (s *Store) Save(r io.Reader) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("image: decode: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > maxSide || b.Dy() > maxSide {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Join(s.root, productDir), 0o755); err != nil {
		return "", fmt.Errorf("image: mkdir: %w", err)
	}
	rel := path.Join(productDir, uuid.NewString()+".jpg")
	if err := imaging.Save(img, filepath.Join(s.root, filepath.FromSlash(rel)), imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("image: save: %w", err)
	}
	return rel, nil
}

// Remove deletes a stored image. Missing files are not an error.
func (s *Store) Remove(rel string) error {
	if rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) URL(rel string) string {
	return s.urlPrefix + rel
}
