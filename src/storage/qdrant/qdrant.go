package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pdfchat/src/core/vectorstore"
)

// Store talks to a Qdrant instance over its REST API and implements the
// vector store operations the pipelines rely on.
type Store struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewStore(baseURL, apiKey string, c *http.Client) *Store {
	if c == nil {
		c = &http.Client{Timeout: 60 * time.Second}
	}
	return &Store{
		httpClient: c,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// metricNames maps the neutral metric names to Qdrant distance names.
var metricNames = map[string]string{
	vectorstore.MetricCosine:    "Cosine",
	vectorstore.MetricDot:       "Dot",
	vectorstore.MetricEuclidean: "Euclid",
}

// metricFromQdrant is the reverse mapping, for DescribeIndex.
var metricFromQdrant = map[string]string{
	"Cosine": vectorstore.MetricCosine,
	"Dot":    vectorstore.MetricDot,
	"Euclid": vectorstore.MetricEuclidean,
}

type collectionsResponse struct {
	Result struct {
		Collections []struct {
			Name string `json:"name"`
		} `json:"collections"`
	} `json:"result"`
}

func (s *Store) ListIndexes(ctx context.Context) ([]string, error) {
	var resp collectionsResponse
	if err := s.doJSON(ctx, http.MethodGet, "/collections", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	names := make([]string, 0, len(resp.Result.Collections))
	for _, c := range resp.Result.Collections {
		names = append(names, c.Name)
	}
	return names, nil
}

func (s *Store) CreateIndex(ctx context.Context, name string, dimension int, metric string) error {
	distance, ok := metricNames[strings.ToLower(metric)]
	if !ok {
		return fmt.Errorf("unsupported metric %q", metric)
	}
	body := map[string]interface{}{
		"vectors": map[string]interface{}{
			"size":     dimension,
			"distance": distance,
		},
	}
	if err := s.doJSON(ctx, http.MethodPut, "/collections/"+name, body, nil); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	return nil
}

type collectionInfoResponse struct {
	Result struct {
		Status string `json:"status"`
		Config struct {
			Params struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

func (s *Store) DescribeIndex(ctx context.Context, name string) (*vectorstore.IndexInfo, error) {
	var resp collectionInfoResponse
	err := s.doJSON(ctx, http.MethodGet, "/collections/"+name, nil, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe collection %s: %w", name, err)
	}
	return &vectorstore.IndexInfo{
		Name:      name,
		Ready:     resp.Result.Status == "green",
		Dimension: resp.Result.Config.Params.Vectors.Size,
		Metric:    metricFromQdrant[resp.Result.Config.Params.Vectors.Distance],
	}, nil
}

type point struct {
	ID      string                 `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload"`
}

func (s *Store) Upsert(ctx context.Context, index string, docs []vectorstore.Document) error {
	points := make([]point, 0, len(docs))
	for _, doc := range docs {
		points = append(points, point{
			ID:     doc.ID,
			Vector: doc.Vector,
			Payload: map[string]interface{}{
				"text":         doc.Text,
				"source_index": doc.SourceIndex,
				"length":       doc.Length,
				"filename":     doc.Filename,
			},
		})
	}
	body := map[string]interface{}{"points": points}
	path := fmt.Sprintf("/collections/%s/points?wait=true", index)
	if err := s.doJSON(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("failed to upsert points into %s: %w", index, err)
	}
	return nil
}

type searchResponse struct {
	Result []struct {
		ID      interface{}            `json:"id"`
		Score   float64                `json:"score"`
		Payload map[string]interface{} `json:"payload"`
	} `json:"result"`
}

func (s *Store) Query(ctx context.Context, index string, vector []float32, k int) ([]vectorstore.Match, error) {
	body := map[string]interface{}{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var resp searchResponse
	path := fmt.Sprintf("/collections/%s/points/search", index)
	if err := s.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", index, err)
	}

	matches := make([]vectorstore.Match, 0, len(resp.Result))
	for _, hit := range resp.Result {
		text, _ := hit.Payload["text"].(string)
		matches = append(matches, vectorstore.Match{
			ID:    fmt.Sprintf("%v", hit.ID),
			Text:  text,
			Score: hit.Score,
		})
	}
	return matches, nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant returned status %d: %s", e.code, e.body)
}

// doJSON issues one JSON request against the Qdrant API and decodes the
// response into out when it is non-nil. Non-2xx responses become
// statusError values.
func (s *Store) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshaling request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return &statusError{code: resp.StatusCode, body: string(data)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}
	return nil
}
