// Package media decodes, fetches and normalizes the images that flow through
// the try-on pipeline.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

const (
	// MaxUploadDimension bounds the longest edge of stored uploads.
	MaxUploadDimension = 1536
	jpegQuality        = 85
	maxFetchBytes      = 25 << 20
)

var (
	ErrNotDataURL = errors.New("media: not a data url")
	ErrTooLarge   = errors.New("media: image exceeds size limit")
)

// Image is a decoded image payload.
type Image struct {
	Data     []byte
	MIMEType string
}

// IsDataURL reports whether ref carries its payload inline.
func IsDataURL(ref string) bool {
	return strings.HasPrefix(strings.TrimSpace(ref), "data:")
}

// DecodeDataURL decodes a base64 data: URL.
func DecodeDataURL(ref string) (Image, error) {
	ref = strings.TrimSpace(ref)
	if !IsDataURL(ref) {
		return Image{}, ErrNotDataURL
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return Image{}, fmt.Errorf("media: malformed data url")
	}
	mime, params, _ := strings.Cut(header, ";")
	if !strings.Contains(params, "base64") {
		return Image{}, fmt.Errorf("media: only base64 data urls are supported")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("media: decode data url: %w", err)
	}
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return Image{Data: data, MIMEType: mime}, nil
}

// EncodeDataURL renders bytes as a base64 data: URL.
func EncodeDataURL(data []byte, mime string) string {
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// NormalizeJPEG re-encodes any decodable image as JPEG, shrinking it so the
// longest edge is at most maxDim. Smaller images keep their size.
func NormalizeJPEG(data []byte, maxDim int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("media: decode image: %w", err)
	}
	b := img.Bounds()
	if maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("media: encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Loader resolves image references, either inline data: URLs or http(s) URLs.
type Loader struct {
	client   *http.Client
	maxBytes int64
}

// NewLoader builds a Loader. A nil client gets a 60s timeout.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Loader{client: client, maxBytes: maxFetchBytes}
}

// Load returns the bytes behind ref.
func (l *Loader) Load(ctx context.Context, ref string) (Image, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Image{}, errors.New("media: empty image reference")
	}
	if IsDataURL(ref) {
		return DecodeDataURL(ref)
	}
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return Image{}, fmt.Errorf("media: unsupported image reference %q", ref)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return Image{}, fmt.Errorf("media: create request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("media: fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return Image{}, fmt.Errorf("media: fetch image status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("media: read image: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return Image{}, fmt.Errorf("%w: %s is over %d bytes", ErrTooLarge, ref, l.maxBytes)
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}
	return Image{Data: data, MIMEType: mime}, nil
}
