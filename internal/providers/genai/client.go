// Package genai is a small REST client for Gemini generateContent, limited to
// the multimodal image and text calls the try-on pipeline makes.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrNoImage is returned when a response carries no image part.
var ErrNoImage = errors.New("genai: response contained no image")

type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client calls the Gemini API. Without an API key it is synthetic: it returns
// deterministic placeholder output so local runs and CI work end to end.
// Remote failures never fall back to synthetic output.
type Client struct {
	apiKey string
	base   *url.URL
	http   *http.Client
	logger zerolog.Logger
}

type InlineImage struct {
	MIMEType string
	Data     []byte
}

// Request is a single-turn prompt: the text part first, then the images in
// order.
type Request struct {
	Model  string
	Prompt string
	Images []InlineImage
}

type ImageAsset struct {
	MIMEType string
	Data     []byte
	Width    int
	Height   int
}

func NewClient(opts Options) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if raw == "" {
		raw = defaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("genai: invalid base url: %w", err)
	}
	c := &Client{
		apiKey: strings.TrimSpace(opts.APIKey),
		base:   base,
		http:   opts.HTTPClient,
		logger: zerolog.Nop(),
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: time.Minute}
	}
	if opts.Logger != nil {
		c.logger = *opts.Logger
	}
	return c, nil
}

func (c *Client) Synthetic() bool { return c.apiKey == "" }

// GenerateImage returns the first image part of the model's answer.
func (c *Client) GenerateImage(ctx context.Context, req Request) (ImageAsset, error) {
	if err := ctx.Err(); err != nil {
		return ImageAsset{}, err
	}
	if c.Synthetic() {
		asset := synthesizeImage(req)
		c.logger.Debug().Str("model", req.Model).Int("width", asset.Width).Int("height", asset.Height).
			Msg("genai: synthetic image")
		return asset, nil
	}

	resp, err := c.generate(ctx, req, "TEXT", "IMAGE")
	if err != nil {
		return ImageAsset{}, err
	}
	for _, part := range resp.parts() {
		if part.Inline == nil || len(part.Inline.Data) == 0 {
			continue
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(part.Inline.Data))
		if err != nil || cfg.Width == 0 || cfg.Height == 0 {
			return ImageAsset{}, errors.New("genai: model returned an undecodable image")
		}
		mime := part.Inline.MimeType
		if mime == "" {
			mime = "image/png"
		}
		c.logger.Debug().Str("model", req.Model).Int("width", cfg.Width).Int("height", cfg.Height).
			Msg("genai: remote image")
		return ImageAsset{MIMEType: mime, Data: part.Inline.Data, Width: cfg.Width, Height: cfg.Height}, nil
	}
	if reason := resp.abnormalFinish(); reason != "" {
		return ImageAsset{}, fmt.Errorf("%w (finish reason %s)", ErrNoImage, reason)
	}
	return ImageAsset{}, ErrNoImage
}

// GenerateText returns the concatenated text parts of the model's answer.
func (c *Client) GenerateText(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.Synthetic() {
		return synthesizeScore(req), nil
	}

	resp, err := c.generate(ctx, req)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, part := range resp.parts() {
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", errors.New("genai: response contained no text")
	}
	return b.String(), nil
}

func (c *Client) generate(ctx context.Context, req Request, modalities ...string) (*wireResponse, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, errors.New("genai: model is required")
	}
	body, err := json.Marshal(encodeRequest(req, modalities))
	if err != nil {
		return nil, fmt.Errorf("genai: encode request: %w", err)
	}
	endpoint := c.base.JoinPath("models", req.Model+":generateContent")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("genai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("genai: call %s: %w", req.Model, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= http.StatusBadRequest {
		return nil, statusError(httpResp)
	}
	var out wireResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("genai: decode response: %w", err)
	}
	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("genai: prompt blocked: %s", out.PromptFeedback.BlockReason)
	}
	return &out, nil
}

func encodeRequest(req Request, modalities []string) wireRequest {
	parts := make([]wirePart, 0, len(req.Images)+1)
	if prompt := strings.TrimSpace(req.Prompt); prompt != "" {
		parts = append(parts, wirePart{Text: prompt})
	}
	for _, img := range req.Images {
		mime := img.MIMEType
		if mime == "" {
			mime = http.DetectContentType(img.Data)
		}
		parts = append(parts, wirePart{Inline: &wireBlob{MimeType: mime, Data: img.Data}})
	}
	out := wireRequest{Contents: []wireContent{{Role: "user", Parts: parts}}}
	if len(modalities) > 0 {
		out.Config = &wireConfig{ResponseModalities: modalities}
	}
	return out
}

// statusError prefers the API's error message over the raw body.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var apiErr wireError
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("genai: status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return fmt.Errorf("genai: status %d: %s", resp.StatusCode, msg)
	}
	return fmt.Errorf("genai: status %d", resp.StatusCode)
}
