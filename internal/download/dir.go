package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirDownloader writes downloads into a local directory.
type DirDownloader struct {
	dir    string
	loader ImageLoader
}

func NewDirDownloader(dir string, loader ImageLoader) (*DirDownloader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}
	return &DirDownloader{dir: dir, loader: loader}, nil
}

func (d *DirDownloader) Download(ctx context.Context, name, imageRef string) error {
	img, err := d.loader.Load(ctx, imageRef)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	path := filepath.Join(d.dir, filepath.Base(safeFragment(name)))
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

var _ Downloader = (*DirDownloader)(nil)
