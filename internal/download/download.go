// Package download names and delivers try-on images as files.
package download

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"tailorpreview/internal/media"
)

// Downloader delivers an image under a file name. imageRef is a data: URL or
// an http(s) URL.
type Downloader interface {
	Download(ctx context.Context, name, imageRef string) error
}

// ImageLoader resolves image references; *media.Loader satisfies it.
type ImageLoader interface {
	Load(ctx context.Context, ref string) (media.Image, error)
}

// BatchFileName names a batch output.
func BatchFileName(customer, garment string) string {
	return fmt.Sprintf("TailorPreview_%s_%s.jpg", safeFragment(customer), safeFragment(garment))
}

// ResultFileName names a manual save from the result view.
func ResultFileName(now time.Time) string {
	return fmt.Sprintf("tailor-preview-%d.png", now.UnixMilli())
}

// GalleryFileName names a gallery download.
func GalleryFileName(now time.Time) string {
	return fmt.Sprintf("tailor-generated-%d.png", now.UnixMilli())
}

// ArchiveFileName names the zip of a job's downloads.
func ArchiveFileName(now time.Time) string {
	return fmt.Sprintf("TailorPreview_batch_%d.zip", now.UnixMilli())
}

// safeFragment drops path separators and control characters.
func safeFragment(v string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(v))
}
