package imagegen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/infra"
	"tailorpreview/internal/media"
	"tailorpreview/internal/providers/genai"
)

type stubBackend struct {
	imageReqs []genai.Request
	textReqs  []genai.Request
	asset     genai.ImageAsset
	imageErr  error
	text      string
	textErr   error
}

func (s *stubBackend) GenerateImage(ctx context.Context, req genai.Request) (genai.ImageAsset, error) {
	s.imageReqs = append(s.imageReqs, req)
	return s.asset, s.imageErr
}

func (s *stubBackend) GenerateText(ctx context.Context, req genai.Request) (string, error) {
	s.textReqs = append(s.textReqs, req)
	return s.text, s.textErr
}

type stubLoader struct {
	images map[string]media.Image
}

func (s stubLoader) Load(ctx context.Context, ref string) (media.Image, error) {
	img, ok := s.images[ref]
	if !ok {
		return media.Image{}, errors.New("unreachable")
	}
	return img, nil
}

func newStubs() (*stubBackend, stubLoader) {
	backend := &stubBackend{
		asset: genai.ImageAsset{MIMEType: "image/png", Data: []byte("out")},
		text:  "0.93",
	}
	loader := stubLoader{images: map[string]media.Image{
		"cust": {MIMEType: "image/jpeg", Data: []byte("customer")},
		"garm": {MIMEType: "image/jpeg", Data: []byte("garment")},
	}}
	return backend, loader
}

func TestGenerateSendsCustomerThenGarment(t *testing.T) {
	backend, loader := newStubs()
	c := NewClient(backend, loader, infra.NopLogger(), nil)

	res, err := c.Generate(context.Background(), GenerateRequest{
		CustomerImage: "cust",
		GarmentImage:  "garm",
		Instructions:  "slim fit",
		Tier:          TierPro,
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if res.Confidence != 0.93 || res.Model != ModelPro || string(res.Image.Data) != "out" {
		t.Fatalf("Generate() = %+v", res)
	}
	req := backend.imageReqs[0]
	if req.Model != ModelPro {
		t.Fatalf("model = %q, want %q", req.Model, ModelPro)
	}
	if string(req.Images[0].Data) != "customer" || string(req.Images[1].Data) != "garment" {
		t.Fatal("images must be sent customer first, garment second")
	}
	if !strings.Contains(req.Prompt, "slim fit") {
		t.Fatalf("prompt missing instructions: %q", req.Prompt)
	}
	if backend.textReqs[0].Model != ModelQA || string(backend.textReqs[0].Images[0].Data) != "out" {
		t.Fatal("quality check must score the generated image")
	}
}

func TestGenerateStandardTierModel(t *testing.T) {
	backend, loader := newStubs()
	c := NewClient(backend, loader, infra.NopLogger(), nil)
	if _, err := c.Generate(context.Background(), GenerateRequest{CustomerImage: "cust", GarmentImage: "garm", Tier: TierFor(false)}); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if backend.imageReqs[0].Model != ModelStandard {
		t.Fatalf("model = %q, want %q", backend.imageReqs[0].Model, ModelStandard)
	}
}

func TestGenerateFailuresWrapGenerationError(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*stubBackend, *GenerateRequest)
	}{
		{name: "backend rejects", mutate: func(b *stubBackend, _ *GenerateRequest) { b.imageErr = errors.New("gemini status 400") }},
		{name: "customer unreachable", mutate: func(_ *stubBackend, r *GenerateRequest) { r.CustomerImage = "missing" }},
		{name: "garment unreachable", mutate: func(_ *stubBackend, r *GenerateRequest) { r.GarmentImage = "missing" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			backend, loader := newStubs()
			req := GenerateRequest{CustomerImage: "cust", GarmentImage: "garm"}
			tc.mutate(backend, &req)
			_, err := NewClient(backend, loader, infra.NopLogger(), nil).Generate(context.Background(), req)
			if !errors.Is(err, domain.ErrGeneration) {
				t.Fatalf("Generate() error = %v, want ErrGeneration", err)
			}
		})
	}
}

func TestGenerateQualityCheckFailureDefaults(t *testing.T) {
	backend, loader := newStubs()
	backend.textErr = errors.New("quota")
	res, err := NewClient(backend, loader, infra.NopLogger(), nil).Generate(context.Background(), GenerateRequest{CustomerImage: "cust", GarmentImage: "garm"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if res.Confidence != DefaultConfidence {
		t.Fatalf("Confidence = %v, want %v", res.Confidence, DefaultConfidence)
	}
}

func TestEdit(t *testing.T) {
	backend, loader := newStubs()
	c := NewClient(backend, loader, infra.NopLogger(), nil)

	if _, err := c.Edit(context.Background(), "cust", "  "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Edit() with empty instruction error = %v, want ErrValidation", err)
	}
	res, err := c.Edit(context.Background(), "cust", "add a red tie")
	if err != nil {
		t.Fatalf("Edit() error: %v", err)
	}
	if res.Model != ModelEdit || len(backend.imageReqs) != 1 || len(backend.imageReqs[0].Images) != 1 {
		t.Fatalf("Edit() = %+v, requests %d", res, len(backend.imageReqs))
	}
	backend.imageErr = errors.New("down")
	if _, err := c.Edit(context.Background(), "cust", "add a red tie"); !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("Edit() error = %v, want ErrGeneration", err)
	}
}

func TestParseConfidence(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{in: "0.87", want: 0.87, ok: true},
		{in: "Confidence: 0.5\n", want: 0.5, ok: true},
		{in: "92%", want: 0.92, ok: true},
		{in: "85", want: 0.85, ok: true},
		{in: "1", want: 1, ok: true},
		{in: "250", want: 1, ok: true},
		{in: "no idea", ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseConfidence(tc.in)
			if ok != tc.ok {
				t.Fatalf("ParseConfidence(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			}
			if ok && (got < tc.want-1e-9 || got > tc.want+1e-9) {
				t.Fatalf("ParseConfidence(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
