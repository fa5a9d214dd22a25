package domain

import "time"

// GenerationResult is a try-on output that has not been persisted yet.
// ImageURL is either an http(s) URL or a data: URL.
type GenerationResult struct {
	ImageURL     string      `json:"imageUrl"`
	Confidence   float64     `json:"confidence"`
	Customer     Customer    `json:"customer"`
	Garment      CatalogItem `json:"garment"`
	Instructions string      `json:"instructions"`
}

// GalleryItem is the persisted, append-only form of a GenerationResult.
// Pending marks a local placeholder that the backend has not confirmed.
type GalleryItem struct {
	GenerationResult
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Pending   bool      `json:"pending,omitempty"`
}
