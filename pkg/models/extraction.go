package models

import "time"

// ExtractionRequest asks for a matte recovered from two capture
// references: the subject over white and the same subject over black.
type ExtractionRequest struct {
	WhiteURL string `json:"white_url" binding:"required"`
	BlackURL string `json:"black_url" binding:"required"`

	// Format selects the response encoding: "png" (default) streams the
	// image, "json" returns a JSON envelope with the image base64-encoded.
	Format string `json:"format,omitempty"`
}

// MatteStats mirrors the engine's summary statistics for transport.
type MatteStats struct {
	MeanAlpha           float64 `json:"mean_alpha"`
	TransparentFraction float64 `json:"transparent_fraction"`
	OpaqueFraction      float64 `json:"opaque_fraction"`
	Coverage            float64 `json:"coverage"`
	DominantColor       string  `json:"dominant_color,omitempty"`
}

// ExtractionResponse is the result of a matte extraction. PNG holds the
// encoded output and is streamed directly in binary responses; the JSON
// envelope carries it in ImageBase64 instead.
type ExtractionResponse struct {
	WhiteURL          string     `json:"white_url"`
	BlackURL          string     `json:"black_url"`
	Timestamp         time.Time  `json:"timestamp"`
	ProcessingTimeSec float64    `json:"processing_time_sec"`
	Width             int        `json:"width"`
	Height            int        `json:"height"`
	Stats             MatteStats `json:"stats"`
	Warnings          []string   `json:"warnings,omitempty"`

	PNG         []byte `json:"-"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

// ErrorResponse is the transport-level error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
