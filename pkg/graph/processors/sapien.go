package processors

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/athapong/plasticity-go/pkg/graph"
	"github.com/athapong/plasticity-go/pkg/sapien/core"
)

var (
	processingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "analysis_processing_duration_seconds",
			Help: "Time spent analysing documents",
		},
		[]string{"processor_type"},
	)

	entityCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_entities_extracted_total",
			Help: "Number of entities extracted",
		},
		[]string{"entity_type"},
	)
)

func init() {
	prometheus.MustRegister(processingDuration)
	prometheus.MustRegister(entityCount)
}

// SapienProcessor sends plain text to the core analysis API and extracts
// graph entities and relationships from the response.
type SapienProcessor struct {
	analyzer graph.Analyzer
	flags    core.Flags
	logger   *logrus.Logger
}

// NewSapienProcessor creates a processor that always requests the relation
// graph; ner controls whether entities are typed by concept.
func NewSapienProcessor(analyzer graph.Analyzer, ner bool, logger *logrus.Logger) *SapienProcessor {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &SapienProcessor{
		analyzer: analyzer,
		flags:    core.Flags{Graph: true, NER: ner},
		logger:   logger,
	}
}

func (p *SapienProcessor) Name() string {
	return "sapien"
}

func (p *SapienProcessor) Process(ctx context.Context, doc *graph.Document) error {
	timer := prometheus.NewTimer(processingDuration.WithLabelValues(p.Name()))
	defer timer.ObserveDuration()

	text := strings.TrimSpace(doc.Content)
	if text == "" {
		doc.ProcessedAt = time.Now()
		return nil
	}

	resp, err := p.analyzer.Post(ctx, text, p.flags)
	if err != nil {
		return errors.Wrap(err, "analyse document")
	}
	if err := resp.Err(); err != nil {
		return errors.Wrap(err, "analyse document")
	}

	doc.Analysis = resp
	doc.Entities, doc.Relations = graph.Extract(resp)
	doc.ProcessedAt = time.Now()

	for _, e := range doc.Entities {
		entityCount.WithLabelValues(e.Type).Inc()
	}
	p.logger.WithFields(logrus.Fields{
		"doc_id":    doc.ID,
		"sentences": len(resp.Data),
		"entities":  len(doc.Entities),
		"relations": len(doc.Relations),
	}).Debug("Analysed document")
	return nil
}

func (p *SapienProcessor) SupportedTypes() []string {
	return []string{graph.ContentTypeText}
}
