package publish

import (
	"strings"

	"github.com/vidora/vidora/internal/posts/models"
)

// Form holds the upload screen's editable state. It is single-writer: only
// the owning pipeline mutates it, on the caller's goroutine or on submit
// completion.
type Form struct {
	Title     string
	Prompt    string
	Video     *models.MediaAsset
	Thumbnail *models.MediaAsset
}

func (f Form) Complete() bool {
	return strings.TrimSpace(f.Title) != "" &&
		strings.TrimSpace(f.Prompt) != "" &&
		!f.Video.Empty() &&
		!f.Thumbnail.Empty()
}

func (f Form) Empty() bool {
	return f == Form{}
}
