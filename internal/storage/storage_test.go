package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"tailorpreview/internal/media"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "catalog/1-a.jpg", want: "catalog/1-a.jpg"},
		{in: "/catalog//1-a.jpg", want: "catalog/1-a.jpg"},
		{in: "./customers/x.jpg", want: "customers/x.jpg"},
		{in: `generated\x.jpg`, want: "generated/x.jpg"},
		{in: "../etc/passwd", wantErr: true},
		{in: "..", wantErr: true},
		{in: "  ", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := sanitizeKey(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("sanitizeKey(%q) expected error, got %q", tc.in, got)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("sanitizeKey(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
			}
		})
	}
}

func TestNewKeyFormat(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	key := NewKey(CollectionCatalog, now)
	pattern := regexp.MustCompile(`^catalog/1700000000123-[0-9a-f]{10}\.jpg$`)
	if !pattern.MatchString(key) {
		t.Fatalf("NewKey() = %q", key)
	}
	if NewKey(CollectionCatalog, now) == key {
		t.Fatal("expected random suffix to differ between keys")
	}
}

func TestFileStorePutAndURL(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "http://localhost:8080/static/")
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	if err := store.Put(context.Background(), "customers/1-a.jpg", []byte("jpeg"), "image/jpeg"); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "customers", "1-a.jpg"))
	if err != nil || string(data) != "jpeg" {
		t.Fatalf("stored file = %q, %v", data, err)
	}
	if got := store.URL("customers/1-a.jpg"); got != "http://localhost:8080/static/customers/1-a.jpg" {
		t.Fatalf("URL() = %q", got)
	}
	if err := store.Put(context.Background(), "../escape.jpg", []byte("x"), ""); err == nil {
		t.Fatal("expected traversal to be rejected")
	}
}

func TestFileStoreHonorsCanceledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Put(ctx, "a.jpg", nil, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("Put() error = %v, want context.Canceled", err)
	}
}

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3StorePut(t *testing.T) {
	fake := &fakeS3{}
	store := newS3Store(fake, "images", "https://proj.supabase.co/storage/v1/object/public/images/")
	if err := store.Put(context.Background(), "/generated/1-a.jpg", []byte("jpeg"), "image/jpeg"); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	in := fake.inputs[0]
	if *in.Bucket != "images" || *in.Key != "generated/1-a.jpg" || *in.ContentType != "image/jpeg" {
		t.Fatalf("unexpected input bucket=%s key=%s type=%s", *in.Bucket, *in.Key, *in.ContentType)
	}
	if string(fake.bodies[0]) != "jpeg" {
		t.Fatalf("body = %q", fake.bodies[0])
	}
	if got := store.URL("generated/1-a.jpg"); got != "https://proj.supabase.co/storage/v1/object/public/images/generated/1-a.jpg" {
		t.Fatalf("URL() = %q", got)
	}
}

func TestS3StorePutError(t *testing.T) {
	store := newS3Store(&fakeS3{err: errors.New("denied")}, "images", "https://cdn")
	if err := store.Put(context.Background(), "a.jpg", nil, ""); err == nil || !strings.Contains(err.Error(), "denied") {
		t.Fatalf("Put() error = %v", err)
	}
}

type memoryStore struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memoryStore) URL(key string) string { return "https://cdn/" + key }

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestUploaderStoresJPEG(t *testing.T) {
	store := newMemoryStore()
	uploader := NewUploader(store)
	uploader.now = func() time.Time { return time.UnixMilli(42) }

	url, err := uploader.Upload(context.Background(), CollectionCustomers, samplePNG(t))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn/customers/42-") || !strings.HasSuffix(url, ".jpg") {
		t.Fatalf("Upload() url = %q", url)
	}
	key := strings.TrimPrefix(url, "https://cdn/")
	if store.types[key] != "image/jpeg" {
		t.Fatalf("content type = %q", store.types[key])
	}
	if _, format, err := image.DecodeConfig(bytes.NewReader(store.objects[key])); err != nil || format != "jpeg" {
		t.Fatalf("stored object format = %q, %v", format, err)
	}
}

func TestUploaderUploadRef(t *testing.T) {
	store := newMemoryStore()
	uploader := NewUploader(store)

	kept, err := uploader.UploadRef(context.Background(), CollectionGenerated, "https://cdn/generated/existing.jpg")
	if err != nil || kept != "https://cdn/generated/existing.jpg" {
		t.Fatalf("UploadRef(url) = %q, %v", kept, err)
	}
	if len(store.objects) != 0 {
		t.Fatal("expected no upload for a plain URL")
	}

	url, err := uploader.UploadRef(context.Background(), CollectionGenerated, media.EncodeDataURL(samplePNG(t), "image/png"))
	if err != nil {
		t.Fatalf("UploadRef(data) error: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn/generated/") || len(store.objects) != 1 {
		t.Fatalf("UploadRef(data) = %q, %d objects", url, len(store.objects))
	}
}

func TestUploaderRejectsNonImage(t *testing.T) {
	uploader := NewUploader(newMemoryStore())
	if _, err := uploader.Upload(context.Background(), CollectionCatalog, []byte("nope")); err == nil {
		t.Fatal("expected error for undecodable upload")
	}
}
