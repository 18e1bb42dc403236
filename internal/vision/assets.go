// internal/vision/assets.go
package vision

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // templates may be JPEG
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/image/draw"

	"github.com/xkilldash9x/rumble-cli/internal/navigation"
)

// ErrAssetNotFound is returned when a template reference does not resolve to a file.
var ErrAssetNotFound = errors.New("template asset not found")

// AssetStore loads template images from a directory tree and caches them
// as grayscale. Safe for concurrent use.
type AssetStore struct {
	root string

	mu    sync.Mutex
	cache map[navigation.TemplateRef]*image.Gray
}

// NewAssetStore creates a store rooted at dir. A leading "~" is expanded.
func NewAssetStore(dir string) (*AssetStore, error) {
	root, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("expand assets dir %q: %w", dir, err)
	}
	return &AssetStore{root: root, cache: make(map[navigation.TemplateRef]*image.Gray)}, nil
}

// Root is the resolved asset directory.
func (s *AssetStore) Root() string { return s.root }

// Path resolves ref to a file path under the root. References that would
// escape the root are rejected.
func (s *AssetStore) Path(ref navigation.TemplateRef) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(string(ref)))
	if ref == "" || filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: invalid reference %q", ErrAssetNotFound, ref)
	}
	return filepath.Join(s.root, rel), nil
}

// Load returns the grayscale template for ref, decoding it on first use.
// The returned image is shared and must not be modified.
func (s *AssetStore) Load(ref navigation.TemplateRef) (*image.Gray, error) {
	s.mu.Lock()
	if tpl, ok := s.cache[ref]; ok {
		s.mu.Unlock()
		return tpl, nil
	}
	s.mu.Unlock()

	path, err := s.Path(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, path)
		}
		return nil, fmt.Errorf("open template %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode template %s: %w", path, err)
	}
	tpl := toGray(img)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another goroutine may have loaded it meanwhile; keep the first.
	if existing, ok := s.cache[ref]; ok {
		return existing, nil
	}
	s.cache[ref] = tpl
	return tpl, nil
}

// toGray converts img to luma with a zero-origin bounds rectangle.
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}
