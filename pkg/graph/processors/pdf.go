package processors

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"

	"github.com/athapong/plasticity-go/pkg/graph"
)

// PDFProcessor replaces PDF content with its plain text, page by page.
type PDFProcessor struct{}

func NewPDFProcessor() *PDFProcessor {
	return &PDFProcessor{}
}

func (p *PDFProcessor) Name() string {
	return "pdf"
}

func (p *PDFProcessor) Process(ctx context.Context, doc *graph.Document) error {
	content := []byte(doc.Content)
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return errors.Wrap(err, "open PDF")
	}

	var text strings.Builder
	totalPage := r.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	if doc.Metadata == nil {
		doc.Metadata = map[string]interface{}{}
	}
	doc.Metadata["pages"] = totalPage
	doc.Content = text.String()
	doc.ContentType = graph.ContentTypeText
	return nil
}

func (p *PDFProcessor) SupportedTypes() []string {
	return []string{graph.ContentTypePDF}
}
