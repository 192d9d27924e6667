package graph

import (
	"context"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/athapong/plasticity-go/pkg/metrics"
)

var (
	pipelineProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_processing_duration_seconds",
			Help: "Time spent processing documents in pipeline",
		},
		[]string{"status"},
	)

	documentProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_documents_processed_total",
			Help: "Total number of documents processed",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(pipelineProcessingDuration)
	prometheus.MustRegister(documentProcessedTotal)
}

// ErrNoProcessor is returned when no processor accepts a document's content
// type.
var ErrNoProcessor = errors.New("no processor for content type")

// TextPipeline runs documents through its processors in order
type TextPipeline struct {
	processors []DocumentProcessor
	mutex      sync.RWMutex
	logger     *logrus.Logger
	batchSize  int
}

func NewPipeline(logger *logrus.Logger) *TextPipeline {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return &TextPipeline{
		processors: make([]DocumentProcessor, 0),
		batchSize:  10,
		logger:     logger,
	}
}

// SetBatchSize bounds how many documents are processed concurrently.
func (p *TextPipeline) SetBatchSize(n int) {
	if n > 0 {
		p.batchSize = n
	}
}

// AddProcessor adds a new processor to the pipeline
func (p *TextPipeline) AddProcessor(processor DocumentProcessor) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.processors = append(p.processors, processor)
}

// BatchProcess processes documents concurrently, batchSize at a time. Every
// document is attempted; the first error is returned.
func (p *TextPipeline) BatchProcess(ctx context.Context, docs []*Document) error {
	p.logger.WithField("document_count", len(docs)).Info("Starting batch processing")
	metrics.PipelineQueueLength.Set(float64(len(docs)))
	defer metrics.PipelineQueueLength.Set(0)

	var firstErr error
	for i := 0; i < len(docs); i += p.batchSize {
		end := i + p.batchSize
		if end > len(docs) {
			end = len(docs)
		}

		batch := docs[i:end]
		errs := make(chan error, len(batch))
		var wg sync.WaitGroup

		for _, doc := range batch {
			wg.Add(1)
			go func(d *Document) {
				defer wg.Done()

				timer := prometheus.NewTimer(pipelineProcessingDuration.WithLabelValues("batch"))
				err := p.Process(ctx, d)
				timer.ObserveDuration()

				if err != nil {
					p.logger.WithError(err).WithField("doc_id", d.ID).Error("Failed to process document")
					documentProcessedTotal.WithLabelValues("error").Inc()
					errs <- errors.Wrapf(err, "document %s", d.ID)
					return
				}

				documentProcessedTotal.WithLabelValues("success").Inc()
			}(doc)
		}

		wg.Wait()
		close(errs)
		metrics.PipelineQueueLength.Sub(float64(len(batch)))

		for err := range errs {
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr != nil {
		return errors.Wrap(firstErr, "batch processing failed")
	}
	p.logger.Info("Batch processing completed successfully")
	return nil
}

// Process runs every processor that supports the document's content type at
// the time it is reached, so an extractor may hand text on to the analyser.
func (p *TextPipeline) Process(ctx context.Context, doc *Document) error {
	if doc == nil {
		return errors.New("cannot process nil document")
	}
	if doc.ContentType == "" {
		doc.ContentType = ContentTypeText
	}

	log := p.logger.WithField("doc_id", doc.ID)
	log.Debug("Processing document")

	p.mutex.RLock()
	processors := slices.Clone(p.processors)
	p.mutex.RUnlock()

	if len(processors) == 0 {
		return errors.New("no processors configured in pipeline")
	}

	applied := 0
	for i, processor := range processors {
		if !slices.Contains(processor.SupportedTypes(), doc.ContentType) {
			continue
		}
		if err := processor.Process(ctx, doc); err != nil {
			metrics.DocumentProcessingErrors.WithLabelValues(processorName(processor), errorType(err)).Inc()
			return errors.Wrapf(err, "processor %d", i)
		}
		applied++
	}
	if applied == 0 {
		return errors.Wrap(ErrNoProcessor, doc.ContentType)
	}

	log.WithField("entities", len(doc.Entities)).Debug("Document processing completed")
	return nil
}

// Named is implemented by processors that report a metrics label.
type Named interface {
	Name() string
}

func processorName(p DocumentProcessor) string {
	if n, ok := p.(Named); ok {
		return n.Name()
	}
	return "unknown"
}

func errorType(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "context"
	}
	return "processing"
}
