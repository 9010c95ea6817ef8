package model

import "time"

type Lesson struct {
	ID          string
	Title       string
	Description *string
	VideoURL    *string
	EmbedLink   *string
	PDFURLs     []string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
