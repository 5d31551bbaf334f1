// Package processor applies the gloss pipeline to whole documents.
package processor

import (
	"context"

	"github.com/ZaguanLabs/glossify"
)

// ContentProcessor is the interface for document-level glossing.
type ContentProcessor interface {
	// Gloss transforms the content, replacing sampled words with units.
	Gloss(ctx context.Context, content string, engine *glossify.Engine) (*glossify.Result, error)

	// Revert restores every replacement unit to its original word.
	Revert(content string) (string, error)

	// ContentType identifies the content this processor handles.
	ContentType() string
}
