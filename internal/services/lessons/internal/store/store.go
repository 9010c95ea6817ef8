package store

import "errors"

var ErrNotFound = errors.New("not found")

type InsertLessonRequest struct {
	Title       string
	Description *string
	VideoURL    *string
	EmbedLink   *string
	PDFURLs     []string
	CreatedBy   string
}

// UpdateLessonRequest changes only the non-nil fields. A non-nil pointer to an
// empty string clears the column.
type UpdateLessonRequest struct {
	ID          string
	Title       *string
	Description *string
	VideoURL    *string
	EmbedLink   *string
	PDFURLs     *[]string
}
