package genai

import (
	"bytes"
	"crypto/sha256"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
)

const (
	syntheticWidth  = 768
	syntheticHeight = 1024
)

// requestDigest hashes everything that influences the output, so identical
// requests produce identical placeholders.
func requestDigest(req Request) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(req.Model))
	h.Write([]byte{0})
	h.Write([]byte(req.Prompt))
	for _, img := range req.Images {
		sum := sha256.Sum256(img.Data)
		h.Write(sum[:])
	}
	var out [sha256.Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

// synthesizeImage draws nested frames in colors taken from the request
// digest, sized like the first input image when it decodes.
func synthesizeImage(req Request) ImageAsset {
	w, h := syntheticWidth, syntheticHeight
	if len(req.Images) > 0 {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(req.Images[0].Data)); err == nil && cfg.Width > 0 && cfg.Height > 0 {
			w, h = cfg.Width, cfg.Height
		}
	}
	d := requestDigest(req)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	step := max(1, min(w, h)/16)
	for i, r := 0, img.Bounds(); !r.Empty(); i, r = i+1, r.Inset(step) {
		off := (i * 3) % (len(d) - 2)
		c := color.RGBA{R: d[off], G: d[off+1], B: d[off+2], A: 255}
		draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return ImageAsset{MIMEType: "image/png", Data: buf.Bytes(), Width: w, Height: h}
}

// synthesizeScore yields a stable score in [0.80, 0.99].
func synthesizeScore(req Request) string {
	d := requestDigest(req)
	return strconv.FormatFloat(0.80+float64(d[0]%20)/100, 'f', 2, 64)
}
