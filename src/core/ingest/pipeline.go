package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfchat/src/core/vectorstore"
	"pdfchat/src/log"
)

// Config holds the pipeline parameters.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	Metric       string
	ReadyPolls   int
	PollInterval time.Duration
}

func (c *Config) applyDefaults() {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = DefaultChunkOverlap
	}
	if c.Metric == "" {
		c.Metric = vectorstore.MetricCosine
	}
	if c.ReadyPolls <= 0 {
		c.ReadyPolls = 30
	}
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
}

// Pipeline runs the ingestion sequence: extract, chunk, probe the
// embedding dimension, provision the index, embed and upsert. Steps run
// sequentially to completion; ingestion is not idempotent, re-ingesting
// the same document into the same index appends duplicate vectors.
type Pipeline struct {
	extractor Extractor
	embedder  Embedder
	store     vectorstore.Store
	cfg       Config
}

type Option func(*Pipeline)

// WithExtractor replaces the default PDF extractor.
func WithExtractor(e Extractor) Option {
	return func(p *Pipeline) {
		p.extractor = e
	}
}

func NewPipeline(embedder Embedder, store vectorstore.Store, cfg Config, opts ...Option) *Pipeline {
	cfg.applyDefaults()
	p := &Pipeline{
		extractor: PDFExtractor{},
		embedder:  embedder,
		store:     store,
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest processes one document payload into the named index. observe may
// be nil. The returned error always wraps one of the package's sentinel
// errors.
func (p *Pipeline) Ingest(ctx context.Context, data []byte, filename, indexName string, observe ProgressFunc) (*Summary, error) {
	emit := func(stage Stage, format string, args ...interface{}) {
		if observe != nil {
			observe(ProgressEvent{Stage: stage, Detail: fmt.Sprintf(format, args...)})
		}
	}

	emit(StageExtract, "reading PDF document")
	text, pages, err := p.extractor.Extract(data)
	if err != nil {
		if !errors.Is(err, ErrExtraction) {
			err = fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text could be extracted from the PDF", ErrExtraction)
	}
	emit(StageExtract, "extracted %d pages", pages)

	emit(StageChunk, "splitting text into chunks")
	chunks := NewChunker(p.cfg.ChunkSize, p.cfg.ChunkOverlap).Split(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: splitter produced no chunks", ErrChunking)
	}
	emit(StageChunk, "created %d text chunks", len(chunks))

	emit(StageProbe, "testing embeddings")
	probe, err := p.embedder.GetEmbedding(ctx, chunks[0].Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	dimension := len(probe)
	if dimension == 0 {
		return nil, fmt.Errorf("%w: provider returned an empty vector", ErrEmbedding)
	}
	emit(StageProbe, "vector dimension: %d", dimension)

	emit(StageProvision, "setting up index %q", indexName)
	created, err := p.ensureIndex(ctx, indexName, dimension)
	if err != nil {
		return nil, err
	}
	if created {
		emit(StageProvision, "created new index: %s", indexName)
	} else {
		emit(StageProvision, "using existing index: %s", indexName)
	}

	emit(StageUpsert, "embedding and uploading %d chunks", len(chunks))
	docs := make([]vectorstore.Document, 0, len(chunks))
	for i, chunk := range chunks {
		vector := probe
		if i > 0 {
			vector, err = p.embedder.GetEmbedding(ctx, chunk.Text)
			if err != nil {
				return nil, fmt.Errorf("%w: chunk %d: %v", ErrEmbedding, i, err)
			}
		}
		docs = append(docs, vectorstore.Document{
			ID:          uuid.NewString(),
			Text:        chunk.Text,
			SourceIndex: chunk.SourceIndex,
			Length:      chunk.Length,
			Filename:    filename,
			Vector:      vector,
		})
	}
	if err := p.store.Upsert(ctx, indexName, docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	emit(StageUpsert, "vector store ready")

	log.Info("document ingested",
		"index", indexName, "pages", pages, "chunks", len(chunks), "dimension", dimension)

	return &Summary{
		IndexName:    indexName,
		Pages:        pages,
		Chunks:       len(chunks),
		Dimension:    dimension,
		IndexCreated: created,
	}, nil
}

// ensureIndex creates the index if absent and waits for readiness with a
// bounded poll. An existing index is validated against the probed
// dimension and configured metric when the backend reports them.
func (p *Pipeline) ensureIndex(ctx context.Context, name string, dimension int) (bool, error) {
	info, err := p.store.DescribeIndex(ctx, name)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrProvision, err)
	}

	if info != nil {
		if info.Dimension != 0 && info.Dimension != dimension {
			return false, fmt.Errorf("%w: index %q has dimension %d, embeddings have %d",
				ErrIndexMismatch, name, info.Dimension, dimension)
		}
		if info.Metric != "" && !strings.EqualFold(info.Metric, p.cfg.Metric) {
			return false, fmt.Errorf("%w: index %q uses metric %q, configured metric is %q",
				ErrIndexMismatch, name, info.Metric, p.cfg.Metric)
		}
		return false, nil
	}

	if err := p.store.CreateIndex(ctx, name, dimension, p.cfg.Metric); err != nil {
		return false, fmt.Errorf("%w: %v", ErrProvision, err)
	}

	for i := 0; i < p.cfg.ReadyPolls; i++ {
		info, err := p.store.DescribeIndex(ctx, name)
		if err == nil && info != nil && info.Ready {
			return true, nil
		}
		time.Sleep(p.cfg.PollInterval)
	}
	return false, fmt.Errorf("%w: %q after %d polls", ErrIndexTimeout, name, p.cfg.ReadyPolls)
}
