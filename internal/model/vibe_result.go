package model

import "time"

// VibeResult is the generated phrase and image a feed shares. Rows are written
// by the generation service and never change afterwards.
type VibeResult struct {
	ID                int64     `json:"id"`
	SessionID         int64     `json:"session_id"`
	Phrase            string    `json:"phrase"`
	GeneratedImageURL *string   `json:"generated_image_url"`
	CreatedAt         time.Time `json:"created_at"`
}
