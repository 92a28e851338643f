package vectorstore

import "context"

// Distance metrics an index can be created with. Backends translate these
// to their native names.
const (
	MetricCosine    = "cosine"
	MetricDot       = "dot"
	MetricEuclidean = "euclidean"
)

// Document is one chunk of source text plus its embedding, as handed to
// the store for persistence.
type Document struct {
	ID          string
	Text        string
	SourceIndex int
	Length      int
	Filename    string
	Vector      []float32
}

// Match is a single retrieval hit, ranked by the store's similarity score.
type Match struct {
	ID    string
	Text  string
	Score float64
}

// IndexInfo describes an existing index. Dimension is 0 and Metric is ""
// when the backend cannot report them.
type IndexInfo struct {
	Name      string
	Ready     bool
	Dimension int
	Metric    string
}

// Store defines the vector database operations the pipelines rely on.
// DescribeIndex returns (nil, nil) when the index does not exist.
type Store interface {
	ListIndexes(ctx context.Context) ([]string, error)
	CreateIndex(ctx context.Context, name string, dimension int, metric string) error
	DescribeIndex(ctx context.Context, name string) (*IndexInfo, error)
	Upsert(ctx context.Context, index string, docs []Document) error
	Query(ctx context.Context, index string, vector []float32, k int) ([]Match, error)
}
