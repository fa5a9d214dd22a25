package download

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/media"
	"tailorpreview/pkg/zip"
)

// Entry is a file held by a Tray.
type Entry struct {
	Index   int       `json:"index"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"addedAt"`

	ref string
}

// Tray collects the downloads of the latest job so an HTTP client can fetch
// them one by one or as an archive.
type Tray struct {
	loader ImageLoader
	now    func() time.Time

	mu      sync.Mutex
	entries []Entry
}

func NewTray(loader ImageLoader) *Tray {
	return &Tray{loader: loader, now: time.Now}
}

func (t *Tray) Download(ctx context.Context, name, imageRef string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Entry{Index: len(t.entries), Name: name, AddedAt: t.now(), ref: imageRef})
	return nil
}

// Reset empties the tray.
func (t *Tray) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}

func (t *Tray) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.entries...)
}

// Open loads the entry at index.
func (t *Tray) Open(ctx context.Context, index int) (Entry, media.Image, error) {
	t.mu.Lock()
	if index < 0 || index >= len(t.entries) {
		t.mu.Unlock()
		return Entry{}, media.Image{}, fmt.Errorf("%w: download %d", domain.ErrNotFound, index)
	}
	entry := t.entries[index]
	t.mu.Unlock()

	img, err := t.loader.Load(ctx, entry.ref)
	if err != nil {
		return Entry{}, media.Image{}, fmt.Errorf("load %s: %w", entry.Name, err)
	}
	return entry, img, nil
}

// Archive zips every entry.
func (t *Tray) Archive(ctx context.Context) ([]byte, error) {
	entries := t.Entries()
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no downloads", domain.ErrNotFound)
	}
	assets := make([]zip.Asset, 0, len(entries))
	for _, e := range entries {
		img, err := t.loader.Load(ctx, e.ref)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", e.Name, err)
		}
		assets = append(assets, zip.Asset{Filename: e.Name, Data: img.Data, Modified: e.AddedAt})
	}
	return zip.ArchiveAssets(assets)
}

var _ Downloader = (*Tray)(nil)
