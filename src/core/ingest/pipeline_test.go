package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"pdfchat/src/core/ingest"
	"pdfchat/src/core/vectorstore"
)

type fakeExtractor struct {
	text  string
	pages int
	err   error
}

func (f fakeExtractor) Extract(data []byte) (string, int, error) {
	return f.text, f.pages, f.err
}

type fakeEmbedder struct {
	dimension int
	calls     int
	err       error
}

func (f *fakeEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return make([]float32, f.dimension), nil
}

type fakeStore struct {
	existing *vectorstore.IndexInfo
	// readyAfterCreate controls whether a created index reports ready.
	readyAfterCreate bool

	createCalls   int
	describeCalls int
	upserted      []vectorstore.Document
	created       bool
	createdDim    int
	createdMetric string
}

func (f *fakeStore) ListIndexes(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeStore) CreateIndex(ctx context.Context, name string, dimension int, metric string) error {
	f.createCalls++
	f.created = true
	f.createdDim = dimension
	f.createdMetric = metric
	return nil
}

func (f *fakeStore) DescribeIndex(ctx context.Context, name string) (*vectorstore.IndexInfo, error) {
	f.describeCalls++
	if f.existing != nil {
		return f.existing, nil
	}
	if f.created && f.readyAfterCreate {
		return &vectorstore.IndexInfo{
			Name:      name,
			Ready:     true,
			Dimension: f.createdDim,
			Metric:    f.createdMetric,
		}, nil
	}
	return nil, nil
}

func (f *fakeStore) Upsert(ctx context.Context, index string, docs []vectorstore.Document) error {
	f.upserted = append(f.upserted, docs...)
	return nil
}

func (f *fakeStore) Query(ctx context.Context, index string, vector []float32, k int) ([]vectorstore.Match, error) {
	return nil, nil
}

func testConfig() ingest.Config {
	return ingest.Config{
		ChunkSize:    100,
		ChunkOverlap: 20,
		Metric:       vectorstore.MetricCosine,
		ReadyPolls:   3,
		PollInterval: time.Millisecond,
	}
}

func TestIngestSuccess(t *testing.T) {
	embedder := &fakeEmbedder{dimension: 4}
	store := &fakeStore{readyAfterCreate: true}
	extractor := fakeExtractor{text: strings.Repeat("x", 250), pages: 3}

	p := ingest.NewPipeline(embedder, store, testConfig(), ingest.WithExtractor(extractor))
	summary, err := p.Ingest(context.Background(), []byte("pdf"), "report.pdf", "docs", nil)
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	if summary.Pages != 3 {
		t.Errorf("summary.Pages = %d, want 3", summary.Pages)
	}
	if summary.Dimension != 4 {
		t.Errorf("summary.Dimension = %d, want 4", summary.Dimension)
	}
	if !summary.IndexCreated {
		t.Error("summary.IndexCreated = false, want true")
	}
	if summary.Chunks != len(store.upserted) {
		t.Errorf("summary.Chunks = %d but %d documents upserted", summary.Chunks, len(store.upserted))
	}
	// The probe embedding is reused for the first chunk.
	if embedder.calls != summary.Chunks {
		t.Errorf("embedder called %d times, want %d", embedder.calls, summary.Chunks)
	}
	if store.createdDim != 4 || store.createdMetric != vectorstore.MetricCosine {
		t.Errorf("index created with dimension %d metric %q", store.createdDim, store.createdMetric)
	}
	for i, doc := range store.upserted {
		if doc.Filename != "report.pdf" {
			t.Errorf("document %d filename = %q, want report.pdf", i, doc.Filename)
		}
		if doc.ID == "" {
			t.Errorf("document %d has empty ID", i)
		}
	}
}

func TestIngestExtractionFailure(t *testing.T) {
	embedder := &fakeEmbedder{dimension: 4}
	store := &fakeStore{readyAfterCreate: true}
	extractor := fakeExtractor{err: fmt.Errorf("corrupt xref table")}

	p := ingest.NewPipeline(embedder, store, testConfig(), ingest.WithExtractor(extractor))
	_, err := p.Ingest(context.Background(), []byte("pdf"), "bad.pdf", "docs", nil)
	if !errors.Is(err, ingest.ErrExtraction) {
		t.Fatalf("Ingest error = %v, want ErrExtraction", err)
	}
	if embedder.calls != 0 {
		t.Errorf("embedder called %d times before extraction succeeded", embedder.calls)
	}
	if store.createCalls != 0 || len(store.upserted) != 0 {
		t.Error("store touched after extraction failure")
	}
}

func TestIngestEmptyDocument(t *testing.T) {
	p := ingest.NewPipeline(&fakeEmbedder{dimension: 4}, &fakeStore{}, testConfig(),
		ingest.WithExtractor(fakeExtractor{text: "   \n  ", pages: 1}))
	_, err := p.Ingest(context.Background(), []byte("pdf"), "empty.pdf", "docs", nil)
	if !errors.Is(err, ingest.ErrExtraction) {
		t.Fatalf("Ingest error = %v, want ErrExtraction", err)
	}
}

func TestIngestTwiceDuplicatesVectors(t *testing.T) {
	embedder := &fakeEmbedder{dimension: 4}
	store := &fakeStore{readyAfterCreate: true}
	extractor := fakeExtractor{text: strings.Repeat("y", 250), pages: 1}

	p := ingest.NewPipeline(embedder, store, testConfig(), ingest.WithExtractor(extractor))

	first, err := p.Ingest(context.Background(), []byte("pdf"), "dup.pdf", "docs", nil)
	if err != nil {
		t.Fatalf("first Ingest returned error: %v", err)
	}
	second, err := p.Ingest(context.Background(), []byte("pdf"), "dup.pdf", "docs", nil)
	if err != nil {
		t.Fatalf("second Ingest returned error: %v", err)
	}

	if second.IndexCreated {
		t.Error("second ingest reports IndexCreated = true")
	}
	if want := first.Chunks + second.Chunks; len(store.upserted) != want {
		t.Errorf("store holds %d documents after double ingest, want %d", len(store.upserted), want)
	}
}

func TestIngestIndexMismatch(t *testing.T) {
	tests := []struct {
		name     string
		existing *vectorstore.IndexInfo
	}{
		{
			name:     "dimension mismatch",
			existing: &vectorstore.IndexInfo{Name: "docs", Ready: true, Dimension: 7, Metric: vectorstore.MetricCosine},
		},
		{
			name:     "metric mismatch",
			existing: &vectorstore.IndexInfo{Name: "docs", Ready: true, Dimension: 4, Metric: vectorstore.MetricDot},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{existing: tt.existing}
			p := ingest.NewPipeline(&fakeEmbedder{dimension: 4}, store, testConfig(),
				ingest.WithExtractor(fakeExtractor{text: strings.Repeat("z", 250), pages: 1}))

			_, err := p.Ingest(context.Background(), []byte("pdf"), "doc.pdf", "docs", nil)
			if !errors.Is(err, ingest.ErrIndexMismatch) {
				t.Fatalf("Ingest error = %v, want ErrIndexMismatch", err)
			}
			if len(store.upserted) != 0 {
				t.Error("documents upserted into incompatible index")
			}
		})
	}
}

func TestIngestIndexReadyTimeout(t *testing.T) {
	store := &fakeStore{readyAfterCreate: false}
	p := ingest.NewPipeline(&fakeEmbedder{dimension: 4}, store, testConfig(),
		ingest.WithExtractor(fakeExtractor{text: strings.Repeat("w", 250), pages: 1}))

	_, err := p.Ingest(context.Background(), []byte("pdf"), "doc.pdf", "docs", nil)
	if !errors.Is(err, ingest.ErrIndexTimeout) {
		t.Fatalf("Ingest error = %v, want ErrIndexTimeout", err)
	}
	if store.createCalls != 1 {
		t.Errorf("CreateIndex called %d times, want 1", store.createCalls)
	}
}

func TestIngestProgressStageOrder(t *testing.T) {
	var stages []ingest.Stage
	observe := func(ev ingest.ProgressEvent) {
		if len(stages) == 0 || stages[len(stages)-1] != ev.Stage {
			stages = append(stages, ev.Stage)
		}
	}

	p := ingest.NewPipeline(&fakeEmbedder{dimension: 4}, &fakeStore{readyAfterCreate: true}, testConfig(),
		ingest.WithExtractor(fakeExtractor{text: strings.Repeat("v", 250), pages: 2}))
	if _, err := p.Ingest(context.Background(), []byte("pdf"), "doc.pdf", "docs", observe); err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	want := []ingest.Stage{
		ingest.StageExtract,
		ingest.StageChunk,
		ingest.StageProbe,
		ingest.StageProvision,
		ingest.StageUpsert,
	}
	if len(stages) != len(want) {
		t.Fatalf("observed stages %v, want %v", stages, want)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("observed stages %v, want %v", stages, want)
		}
	}
}
