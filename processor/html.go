package processor

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/glossify"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Markup emitted for replacement units.
const (
	UnitClass      = "glossify-unit"
	HighlightClass = "glossify-highlight"

	attrOriginal = "data-glossify-original"
	attrUnitID   = "data-glossify-id"
	attrNoGloss  = "data-no-gloss"
)

// HTMLProcessor glosses HTML documents in place: each eligible text run
// is segmented, sampled, and swapped for a sequence of text nodes and
// revertible <span> units carrying the original word in a data attribute.
type HTMLProcessor struct {
	ignoredTags map[string]bool
}

// NewHTMLProcessor creates an HTML processor with the default ignored tags.
func NewHTMLProcessor() *HTMLProcessor {
	return &HTMLProcessor{ignoredTags: glossify.IgnoredTags}
}

// NewHTMLProcessorWithIgnoredTags creates an HTML processor with custom ignored tags.
func NewHTMLProcessorWithIgnoredTags(tags []string) *HTMLProcessor {
	ignored := make(map[string]bool)
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLProcessor{ignoredTags: ignored}
}

// Gloss parses the content, runs one processing pass, and serializes the
// transformed document.
func (p *HTMLProcessor) Gloss(ctx context.Context, content string, engine *glossify.Engine) (*glossify.Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &glossify.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	result, err := p.glossDocument(ctx, doc, engine)
	if err != nil {
		return nil, err
	}

	out, err := doc.Html()
	if err != nil {
		return nil, &glossify.ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: "html",
		}
	}
	result.Content = out
	return result, nil
}

// Revert parses the content, restores every unit to its original word,
// and serializes the result. Reverting already-reverted content is a
// no-op.
func (p *HTMLProcessor) Revert(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", &glossify.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	revertDocument(doc)

	out, err := doc.Html()
	if err != nil {
		return "", &glossify.ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: "html",
		}
	}
	return out, nil
}

// ContentType returns "html".
func (p *HTMLProcessor) ContentType() string {
	return "html"
}

// glossDocument runs one pass over a parsed document, swapping eligible
// runs in place. Each swap is atomic per run: an aborted pass leaves
// already-swapped runs valid and the rest untouched.
func (p *HTMLProcessor) glossDocument(ctx context.Context, doc *goquery.Document, engine *glossify.Engine) (*glossify.Result, error) {
	result := &glossify.Result{}

	// Global kill switch: a disabled engine never replaces anything,
	// regardless of which path drives the pass.
	if !engine.Enabled() {
		return result, nil
	}

	// Collect first, then mutate: swapping while walking would disturb
	// sibling iteration.
	var textNodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && p.skipElement(n) {
			return
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			textNodes = append(textNodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	doc.Each(func(i int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			walk(n)
		}
	})

	for _, n := range textNodes {
		if !engine.RunEligible(n.Data) {
			result.RunsSkipped++
			continue
		}

		nodes, err := engine.GlossRun(ctx, n.Data)
		if err != nil {
			return nil, &glossify.ProcessorError{
				Message:     "pass aborted",
				Cause:       err,
				ContentType: "html",
			}
		}
		result.RunsProcessed++

		units := 0
		for _, nd := range nodes {
			if nd.Unit != nil {
				units++
			}
		}
		if units == 0 {
			continue
		}
		swapTextNode(n, nodes)
		result.UnitsEmitted += units
	}

	return result, nil
}

// skipElement applies the structural pre-filters: ignored tags, editable
// contexts, explicitly excluded or invisible elements, already-rendered
// units, and template contents outside open shadow roots.
func (p *HTMLProcessor) skipElement(n *html.Node) bool {
	tag := strings.ToLower(n.Data)
	if p.ignoredTags[tag] || glossify.EditableTags[tag] {
		return true
	}

	var shadowMode string
	for _, attr := range n.Attr {
		switch attr.Key {
		case attrNoGloss, "hidden":
			return true
		case attrOriginal:
			// An already-rendered unit; never gloss inside it.
			return true
		case "contenteditable":
			if !strings.EqualFold(attr.Val, "false") {
				return true
			}
		case "style":
			if strings.Contains(strings.ReplaceAll(attr.Val, " ", ""), "display:none") {
				return true
			}
		case "shadowrootmode":
			shadowMode = strings.ToLower(attr.Val)
		}
	}

	// Template contents render only as declarative shadow roots. Closed
	// roots are a known, accepted blind spot.
	if tag == "template" && shadowMode != "open" {
		return true
	}
	return false
}

// swapTextNode replaces one text node with the rendered node sequence.
func swapTextNode(n *html.Node, nodes []glossify.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for _, nd := range nodes {
		var nn *html.Node
		if nd.Unit != nil {
			nn = unitElement(nd.Unit)
		} else {
			nn = &html.Node{Type: html.TextNode, Data: nd.Text}
		}
		parent.InsertBefore(nn, n)
	}
	parent.RemoveChild(n)
}

// unitElement renders a replacement unit as a revertible span.
func unitElement(u *glossify.ReplacementUnit) *html.Node {
	span := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr: []html.Attribute{
			{Key: "class", Val: UnitClass},
			{Key: attrOriginal, Val: u.Original},
			{Key: attrUnitID, Val: u.ID},
		},
	}
	if u.Pinyin != "" {
		span.Attr = append(span.Attr, html.Attribute{Key: "title", Val: u.Pinyin})
	}
	span.AppendChild(&html.Node{Type: html.TextNode, Data: u.Display()})
	return span
}

// revertDocument restores every unit span to its original word in place.
func revertDocument(doc *goquery.Document) int {
	sel := doc.Find("span[" + attrOriginal + "]")
	count := sel.Length()
	sel.Each(func(i int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			original, _ := s.Attr(attrOriginal)
			parent := n.Parent
			if parent == nil {
				continue
			}
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: original}, n)
			parent.RemoveChild(n)
		}
	})
	return count
}

// ExtractRuns returns the glossable text runs of a document, hashed for
// version comparison. Structural filters apply; the engine's length and
// script-ratio gates do not, since they can change between versions.
func (p *HTMLProcessor) ExtractRuns(content string) ([]glossify.Run, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &glossify.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	var runs []glossify.Run
	var walk func(*html.Node, []string)
	walk = func(n *html.Node, path []string) {
		if n.Type == html.ElementNode {
			if p.skipElement(n) {
				return
			}
			tag := strings.ToLower(n.Data)
			if tag != "html" && tag != "body" && tag != "head" {
				path = append(path, tag)
			}
		}
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				runs = append(runs, glossify.Run{
					Text: trimmed,
					Hash: glossify.HashRun(trimmed),
					Path: strings.Join(path, " > "),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, path)
		}
	}
	doc.Each(func(i int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			walk(n, nil)
		}
	})
	return runs, nil
}

// Verify HTMLProcessor implements ContentProcessor
var _ ContentProcessor = (*HTMLProcessor)(nil)
