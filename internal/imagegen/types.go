package imagegen

import (
	"context"

	"tailorpreview/internal/media"
	"tailorpreview/internal/providers/genai"
)

// Tier selects the model family used for try-on generation.
type Tier string

const (
	TierStandard Tier = "standard"
	TierPro      Tier = "pro"
)

const (
	ModelStandard = "gemini-2.5-flash-image"
	ModelPro      = "gemini-3-pro-image-preview"
	ModelEdit     = "gemini-2.5-flash-image"
	ModelQA       = "gemini-2.5-flash"
)

// DefaultConfidence is reported when the quality check cannot produce a score.
const DefaultConfidence = 0.85

// TierFor maps the job's usePro flag to a tier.
func TierFor(usePro bool) Tier {
	if usePro {
		return TierPro
	}
	return TierStandard
}

// Model returns the model identifier for the tier.
func (t Tier) Model() string {
	if t == TierPro {
		return ModelPro
	}
	return ModelStandard
}

// GenerateRequest describes one try-on. Images are references: data: URLs or
// http(s) URLs. An empty SystemPrompt uses DefaultSystemPrompt.
type GenerateRequest struct {
	CustomerImage string
	GarmentImage  string
	Instructions  string
	Tier          Tier
	SystemPrompt  string
}

// Result is a generated try-on image with its quality score in [0,1].
type Result struct {
	Image      media.Image
	Confidence float64
	Model      string
}

// Backend is the model transport; *genai.Client satisfies it.
type Backend interface {
	GenerateImage(ctx context.Context, req genai.Request) (genai.ImageAsset, error)
	GenerateText(ctx context.Context, req genai.Request) (string, error)
}

// ImageLoader resolves image references to bytes; *media.Loader satisfies it.
type ImageLoader interface {
	Load(ctx context.Context, ref string) (media.Image, error)
}
