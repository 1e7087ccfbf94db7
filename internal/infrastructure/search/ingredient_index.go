// Package search keeps the Elasticsearch ingredient index. Documents are
// written by the indexer worker and read by the ingredient search endpoint.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "user_id":    {"type": "keyword"},
      "name":       {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "updated_at": {"type": "date"}
    }
  }
}`

type IngredientIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewIngredientIndex(es *elasticsearch.Client, index string) *IngredientIndex {
	return &IngredientIndex{ES: es, Index: index}
}

type ingredientDoc struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	UpdatedAt string `json:"updated_at"`
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *IngredientIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.IndicesExistsRequest{Index: []string{x.Index}}.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("es index exists: %w", err)
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	res, err = esapi.IndicesCreateRequest{Index: x.Index, Body: bytes.NewReader([]byte(indexMapping))}.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("es create index: %w", err)
	}
	return closeChecked(res, "create index")
}

func (x *IngredientIndex) Upsert(ctx context.Context, in entity.Ingredient) error {
	updated := in.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	b, err := json.Marshal(ingredientDoc{ID: in.ID, UserID: in.UserID, Name: in.Name, UpdatedAt: updated.UTC().Format(time.RFC3339Nano)})
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.IndexRequest{Index: x.Index, DocumentID: in.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	return closeChecked(res, "index")
}

// Delete removes a document; a missing document is not an error.
func (x *IngredientIndex) Delete(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.DeleteRequest{Index: x.Index, DocumentID: id}.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("es delete: %w", err)
	}
	if res.StatusCode == http.StatusNotFound {
		_ = res.Body.Close()
		return nil
	}
	return closeChecked(res, "delete")
}

// Search matches name for one owner's documents only.
func (x *IngredientIndex) Search(ctx context.Context, userID, q string, size int) ([]entity.Ingredient, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{"match": map[string]any{"name": map[string]any{"query": q, "fuzziness": "AUTO"}}},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"user_id": userID}},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.Index), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source ingredientDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode es search: %w", err)
	}

	out := make([]entity.Ingredient, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, entity.Ingredient{ID: h.Source.ID, UserID: h.Source.UserID, Name: h.Source.Name})
	}
	return out, nil
}

func closeChecked(res *esapi.Response, op string) error {
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("es %s: %s: %s", op, res.Status(), bytes.TrimSpace(body))
	}
	return nil
}
