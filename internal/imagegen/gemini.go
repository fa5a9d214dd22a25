package imagegen

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/infra"
	"tailorpreview/internal/media"
	"tailorpreview/internal/providers/genai"
)

var scorePattern = regexp.MustCompile(`\d+(?:\.\d+)?%?`)

// Client implements try-on generation and editing on top of a Backend.
// Every failure is wrapped in domain.ErrGeneration; nothing is retried.
type Client struct {
	backend Backend
	loader  ImageLoader
	logger  zerolog.Logger
	metrics *infra.Metrics
}

func NewClient(backend Backend, loader ImageLoader, logger zerolog.Logger, metrics *infra.Metrics) *Client {
	return &Client{backend: backend, loader: loader, logger: logger, metrics: metrics}
}

// Generate renders the garment onto the customer and scores the result.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (Result, error) {
	customer, err := c.loader.Load(ctx, req.CustomerImage)
	if err != nil {
		return Result{}, fmt.Errorf("%w: load customer photo: %v", domain.ErrGeneration, err)
	}
	garment, err := c.loader.Load(ctx, req.GarmentImage)
	if err != nil {
		return Result{}, fmt.Errorf("%w: load garment image: %v", domain.ErrGeneration, err)
	}

	model := req.Tier.Model()
	start := time.Now()
	asset, err := c.backend.GenerateImage(ctx, genai.Request{
		Model:  model,
		Prompt: BuildInstruction(req.SystemPrompt, req.Instructions),
		Images: []genai.InlineImage{
			{MIMEType: customer.MIMEType, Data: customer.Data},
			{MIMEType: garment.MIMEType, Data: garment.Data},
		},
	})
	c.metrics.ObserveGeneration(model, err, start)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	out := Result{
		Image:      imageFromAsset(asset),
		Confidence: c.score(ctx, asset),
		Model:      model,
	}
	c.logger.Info().
		Str("model", model).
		Float64("confidence", out.Confidence).
		Dur("elapsed", time.Since(start)).
		Msg("imagegen: try-on generated")
	return out, nil
}

// Edit applies a free-text instruction to an existing image.
func (c *Client) Edit(ctx context.Context, imageRef, instruction string) (Result, error) {
	if strings.TrimSpace(instruction) == "" {
		return Result{}, fmt.Errorf("%w: edit instruction is required", domain.ErrValidation)
	}
	src, err := c.loader.Load(ctx, imageRef)
	if err != nil {
		return Result{}, fmt.Errorf("%w: load image: %v", domain.ErrGeneration, err)
	}
	start := time.Now()
	asset, err := c.backend.GenerateImage(ctx, genai.Request{
		Model:  ModelEdit,
		Prompt: BuildEditInstruction(instruction),
		Images: []genai.InlineImage{{MIMEType: src.MIMEType, Data: src.Data}},
	})
	c.metrics.ObserveGeneration(ModelEdit, err, start)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	return Result{Image: imageFromAsset(asset), Confidence: c.score(ctx, asset), Model: ModelEdit}, nil
}

// score runs the quality check. A failed or unparsable check is logged and
// reported as DefaultConfidence rather than failing the generation.
func (c *Client) score(ctx context.Context, asset genai.ImageAsset) float64 {
	text, err := c.backend.GenerateText(ctx, genai.Request{
		Model:  ModelQA,
		Prompt: QAPrompt,
		Images: []genai.InlineImage{{MIMEType: asset.MIMEType, Data: asset.Data}},
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("imagegen: quality check failed")
		return DefaultConfidence
	}
	v, ok := ParseConfidence(text)
	if !ok {
		c.logger.Warn().Str("reply", text).Msg("imagegen: quality check reply had no score")
		return DefaultConfidence
	}
	return v
}

// ParseConfidence extracts the first number in text and clamps it to [0,1].
// Percentages and values above 1 are read as 0-100 scores.
func ParseConfidence(text string) (float64, bool) {
	match := scorePattern.FindString(text)
	if match == "" {
		return 0, false
	}
	percent := strings.HasSuffix(match, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(match, "%"), 64)
	if err != nil {
		return 0, false
	}
	if percent || v > 1 {
		v /= 100
	}
	return min(max(v, 0), 1), true
}

func imageFromAsset(asset genai.ImageAsset) media.Image {
	return media.Image{Data: asset.Data, MIMEType: asset.MIMEType}
}
