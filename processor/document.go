package processor

import (
	"context"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/glossify"
)

// Document is an HTML document bound to an engine so that repeated
// processing passes, reverts, and external mutations all act on the same
// parsed tree. It is the target a glossify.Tracker drives.
type Document struct {
	proc   *HTMLProcessor
	engine *glossify.Engine
	url    string

	mu         sync.Mutex
	doc        *goquery.Document
	lastResult *glossify.Result
}

// Bind parses content into a Document tied to the engine. The url is the
// page address checked against the engine's blacklist on every pass.
func (p *HTMLProcessor) Bind(engine *glossify.Engine, content, url string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &glossify.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}
	return &Document{proc: p, engine: engine, url: url, doc: doc}, nil
}

// ProcessPass runs one gloss pass over the live tree. Disabled engines
// and blacklisted addresses skip the pass entirely. Already-glossed units
// are left alone, so reprocessing after a partial mutation only touches
// new text.
func (d *Document) ProcessPass(ctx context.Context) error {
	if !d.engine.Enabled() || d.engine.URLBlocked(d.url) {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	result, err := d.proc.glossDocument(ctx, d.doc, d.engine)
	if err != nil {
		return err
	}
	d.lastResult = result
	return nil
}

// RevertAll restores every replacement unit in the tree. Idempotent.
func (d *Document) RevertAll() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	revertDocument(d.doc)
	return nil
}

// Highlight marks every unit with the highlight class and returns the
// number of units marked.
func (d *Document) Highlight() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.doc.Find("span[" + attrOriginal + "]")
	sel.AddClass(HighlightClass)
	return sel.Length(), nil
}

// ClearHighlight removes the highlight class from every unit.
func (d *Document) ClearHighlight() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.doc.Find("span[" + attrOriginal + "]")
	sel.RemoveClass(HighlightClass)
	return sel.Length(), nil
}

// HTML serializes the current state of the tree.
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out, err := d.doc.Html()
	if err != nil {
		return "", &glossify.ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: "html",
		}
	}
	return out, nil
}

// Modify applies an external mutation to the live tree under the
// document lock. The host shell calls this, then signals its tracker.
func (d *Document) Modify(fn func(*goquery.Document)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.doc)
}

// LastResult returns the result of the most recent pass, or nil.
func (d *Document) LastResult() *glossify.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastResult
}

// URL returns the page address the document was bound with.
func (d *Document) URL() string {
	return d.url
}

// Verify Document satisfies the tracker and debug contracts.
var (
	_ glossify.Processable   = (*Document)(nil)
	_ glossify.Highlightable = (*Document)(nil)
)
