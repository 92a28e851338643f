// Package ingest turns a raw PDF into queryable vectors: extract text,
// split it into overlapping chunks, embed them and upsert them into a
// vector store index.
package ingest

import (
	"context"
	"errors"
)

// Failure classes of the ingestion pipeline. Callers match them with
// errors.Is; the wrapped message carries the provider detail.
var (
	ErrExtraction    = errors.New("pdf text extraction failed")
	ErrChunking      = errors.New("text chunking failed")
	ErrEmbedding     = errors.New("embedding generation failed")
	ErrProvision     = errors.New("index provisioning failed")
	ErrIndexTimeout  = errors.New("index did not become ready in time")
	ErrIndexMismatch = errors.New("existing index is incompatible")
	ErrUpload        = errors.New("vector upload failed")
)

// Stage identifies a pipeline step in progress events.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageChunk     Stage = "chunk"
	StageProbe     Stage = "probe"
	StageProvision Stage = "provision"
	StageUpsert    Stage = "upsert"
)

// ProgressEvent reports pipeline progress. It is an observation side
// channel only; ignoring it does not change pipeline behavior.
type ProgressEvent struct {
	Stage  Stage  `json:"stage"`
	Detail string `json:"detail"`
}

// ProgressFunc observes pipeline progress. A nil ProgressFunc is valid.
type ProgressFunc func(ProgressEvent)

// Summary describes a completed ingestion.
type Summary struct {
	IndexName    string `json:"index_name"`
	Pages        int    `json:"pages"`
	Chunks       int    `json:"chunks"`
	Dimension    int    `json:"dimension"`
	IndexCreated bool   `json:"index_created"`
}

// Extractor pulls plain text out of a document payload. It returns the
// concatenated text of all non-empty pages and the count of those pages.
type Extractor interface {
	Extract(data []byte) (text string, pages int, err error)
}

// Embedder generates an embedding vector for a piece of text.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}
