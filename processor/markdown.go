package processor

import (
	"bytes"
	"context"

	"github.com/ZaguanLabs/glossify"
	"github.com/yuin/goldmark"
)

// MarkdownProcessor glosses Markdown content by rendering it to HTML with
// goldmark and running the HTML pass over the result. Code blocks and
// inline code survive untouched because they render into ignored tags.
type MarkdownProcessor struct {
	md   goldmark.Markdown
	html *HTMLProcessor
}

// NewMarkdownProcessor creates a Markdown processor with default options.
func NewMarkdownProcessor() *MarkdownProcessor {
	return &MarkdownProcessor{
		md:   goldmark.New(),
		html: NewHTMLProcessor(),
	}
}

// Gloss converts the Markdown to HTML and glosses it. The returned
// content is HTML, not Markdown.
func (p *MarkdownProcessor) Gloss(ctx context.Context, content string, engine *glossify.Engine) (*glossify.Result, error) {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(content), &buf); err != nil {
		return nil, &glossify.ProcessorError{
			Message:     "failed to render markdown",
			Cause:       err,
			ContentType: "markdown",
		}
	}
	return p.html.Gloss(ctx, buf.String(), engine)
}

// Revert restores originals in previously glossed output. Since glossed
// output is HTML, this delegates to the HTML processor.
func (p *MarkdownProcessor) Revert(content string) (string, error) {
	return p.html.Revert(content)
}

// ContentType returns "markdown".
func (p *MarkdownProcessor) ContentType() string {
	return "markdown"
}

// Verify MarkdownProcessor implements ContentProcessor
var _ ContentProcessor = (*MarkdownProcessor)(nil)
