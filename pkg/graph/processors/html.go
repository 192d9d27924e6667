package processors

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/athapong/plasticity-go/pkg/graph"
)

// HTMLProcessor replaces HTML content with the visible text of its body.
type HTMLProcessor struct{}

func NewHTMLProcessor() *HTMLProcessor {
	return &HTMLProcessor{}
}

func (p *HTMLProcessor) Name() string {
	return "html"
}

func (p *HTMLProcessor) Process(ctx context.Context, doc *graph.Document) error {
	html, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Content))
	if err != nil {
		return errors.Wrap(err, "parse HTML content")
	}

	body := html.Find("body")
	body.Find("script, style, noscript").Remove()

	var paragraphs []string
	body.Find("h1, h2, h3, h4, h5, h6, p, li, td, blockquote").Each(func(_ int, s *goquery.Selection) {
		if s.Find("p, li").Length() > 0 {
			return
		}
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		paragraphs = append(paragraphs, strings.Join(strings.Fields(body.Text()), " "))
	}

	if title := strings.TrimSpace(html.Find("title").First().Text()); title != "" {
		if doc.Metadata == nil {
			doc.Metadata = map[string]interface{}{}
		}
		doc.Metadata["title"] = title
	}

	doc.Content = strings.Join(paragraphs, "\n")
	doc.ContentType = graph.ContentTypeText
	return nil
}

func (p *HTMLProcessor) SupportedTypes() []string {
	return []string{graph.ContentTypeHTML}
}
