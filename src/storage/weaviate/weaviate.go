package weaviate

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-openapi/strfmt"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"pdfchat/src/core/vectorstore"
)

// Store implements the vector store operations on top of the Weaviate SDK.
// Weaviate requires class names to start with a capital letter, so index
// names are canonicalized internally; callers keep using their own names.
type Store struct {
	client *weaviate.Client
}

func NewStore(client *weaviate.Client) *Store {
	return &Store{client: client}
}

// distanceNames maps the neutral metric names to Weaviate distances.
var distanceNames = map[string]string{
	vectorstore.MetricCosine:    "cosine",
	vectorstore.MetricDot:       "dot",
	vectorstore.MetricEuclidean: "l2-squared",
}

var metricFromDistance = map[string]string{
	"cosine":     vectorstore.MetricCosine,
	"dot":        vectorstore.MetricDot,
	"l2-squared": vectorstore.MetricEuclidean,
}

// className canonicalizes an index name into a valid Weaviate class name:
// alphanumeric only, first letter capitalized.
func className(index string) string {
	var b strings.Builder
	for _, r := range index {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func (s *Store) ListIndexes(ctx context.Context) ([]string, error) {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}
	names := make([]string, 0, len(schema.Classes))
	for _, class := range schema.Classes {
		names = append(names, class.Class)
	}
	return names, nil
}

func (s *Store) CreateIndex(ctx context.Context, name string, dimension int, metric string) error {
	distance, ok := distanceNames[strings.ToLower(metric)]
	if !ok {
		return fmt.Errorf("unsupported metric %q", metric)
	}

	class := &models.Class{
		Class: className(name),
		Properties: []*models.Property{
			{Name: "text", DataType: []string{"text"}},
			{Name: "sourceIndex", DataType: []string{"int"}},
			{Name: "length", DataType: []string{"int"}},
			{Name: "filename", DataType: []string{"text"}},
		},
		Vectorizer:        "none",
		VectorIndexConfig: map[string]interface{}{"distance": distance},
	}

	if err := s.client.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
		return fmt.Errorf("failed to create class %s: %w", class.Class, err)
	}
	return nil
}

func (s *Store) DescribeIndex(ctx context.Context, name string) (*vectorstore.IndexInfo, error) {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}

	want := className(name)
	for _, class := range schema.Classes {
		if class.Class != want {
			continue
		}
		info := &vectorstore.IndexInfo{
			Name:  name,
			Ready: true,
		}
		if cfg, ok := class.VectorIndexConfig.(map[string]interface{}); ok {
			if distance, ok := cfg["distance"].(string); ok {
				info.Metric = metricFromDistance[distance]
			}
		}
		return info, nil
	}
	return nil, nil
}

func (s *Store) Upsert(ctx context.Context, index string, docs []vectorstore.Document) error {
	objs := make([]*models.Object, len(docs))
	for i, doc := range docs {
		objs[i] = &models.Object{
			ID:    strfmt.UUID(doc.ID),
			Class: className(index),
			Properties: map[string]interface{}{
				"text":        doc.Text,
				"sourceIndex": doc.SourceIndex,
				"length":      doc.Length,
				"filename":    doc.Filename,
			},
			Vector: doc.Vector,
		}
	}

	resp, err := s.client.Batch().ObjectsBatcher().WithObjects(objs...).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to batch add vectors: %w", err)
	}
	if len(resp) == 0 {
		return fmt.Errorf("batch operation returned no results")
	}
	return nil
}

func (s *Store) Query(ctx context.Context, index string, vector []float32, k int) ([]vectorstore.Match, error) {
	class := className(index)
	fields := []graphql.Field{
		{Name: "text"},
		{Name: "_additional { id distance certainty }"},
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	result, err := s.client.GraphQL().Get().
		WithClassName(class).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(k).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	var matches []vectorstore.Match
	data, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return matches, nil
	}
	objects, ok := data[class].([]interface{})
	if !ok {
		return matches, nil
	}
	for _, obj := range objects {
		objMap, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}
		additional, _ := objMap["_additional"].(map[string]interface{})
		text, _ := objMap["text"].(string)

		match := vectorstore.Match{Text: text}
		if additional != nil {
			if id, ok := additional["id"].(string); ok {
				match.ID = id
			}
			// Prefer certainty (higher is closer); fall back to the
			// complement of distance so scores stay comparable.
			if certainty, ok := additional["certainty"].(float64); ok {
				match.Score = certainty
			} else if distance, ok := additional["distance"].(float64); ok {
				match.Score = 1 - distance
			}
		}
		matches = append(matches, match)
	}
	return matches, nil
}
