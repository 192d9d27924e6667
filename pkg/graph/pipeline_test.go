package graph

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upperProcessor struct {
	calls atomic.Int32
}

func (p *upperProcessor) Process(_ context.Context, doc *Document) error {
	p.calls.Add(1)
	if doc.Content == "fail" {
		return errors.New("cannot process")
	}
	doc.Content = strings.ToUpper(doc.Content)
	return nil
}

func (p *upperProcessor) SupportedTypes() []string {
	return []string{ContentTypeText}
}

// markupProcessor turns text/html into text/plain.
type markupProcessor struct{}

func (markupProcessor) Process(_ context.Context, doc *Document) error {
	doc.Content = strings.TrimSuffix(strings.TrimPrefix(doc.Content, "<p>"), "</p>")
	doc.ContentType = ContentTypeText
	return nil
}

func (markupProcessor) SupportedTypes() []string {
	return []string{ContentTypeHTML}
}

func TestPipeline_ProcessChainsByContentType(t *testing.T) {
	upper := &upperProcessor{}
	p := NewPipeline(nil)
	p.AddProcessor(markupProcessor{})
	p.AddProcessor(upper)

	doc := &Document{ID: "a", Content: "<p>hello</p>", ContentType: ContentTypeHTML}
	require.NoError(t, p.Process(context.Background(), doc))

	assert.Equal(t, "HELLO", doc.Content)
	assert.Equal(t, ContentTypeText, doc.ContentType)
	assert.EqualValues(t, 1, upper.calls.Load())
}

func TestPipeline_DefaultsToPlainText(t *testing.T) {
	p := NewPipeline(nil)
	p.AddProcessor(&upperProcessor{})

	doc := &Document{ID: "a", Content: "hi"}
	require.NoError(t, p.Process(context.Background(), doc))
	assert.Equal(t, "HI", doc.Content)
}

func TestPipeline_UnsupportedContentType(t *testing.T) {
	p := NewPipeline(nil)
	p.AddProcessor(&upperProcessor{})

	err := p.Process(context.Background(), &Document{ID: "a", ContentType: ContentTypePDF})
	assert.True(t, errors.Is(err, ErrNoProcessor))
}

func TestPipeline_NoProcessors(t *testing.T) {
	assert.Error(t, NewPipeline(nil).Process(context.Background(), &Document{ID: "a"}))
	assert.Error(t, NewPipeline(nil).Process(context.Background(), nil))
}

func TestPipeline_BatchProcessAttemptsEveryDocument(t *testing.T) {
	upper := &upperProcessor{}
	p := NewPipeline(nil)
	p.SetBatchSize(2)
	p.AddProcessor(upper)

	docs := []*Document{
		{ID: "1", Content: "a"},
		{ID: "2", Content: "fail"},
		{ID: "3", Content: "c"},
		{ID: "4", Content: "d"},
		{ID: "5", Content: "e"},
	}
	err := p.BatchProcess(context.Background(), docs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document 2")

	assert.EqualValues(t, 5, upper.calls.Load())
	assert.Equal(t, "E", docs[4].Content)
}
