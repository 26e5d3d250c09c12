package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/m2gi/ecom/internal/models"
)

const DefaultIndex = "product"

// Engine keeps a full-text index of the catalog.
type Engine interface {
	IndexProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	SearchProductIDs(ctx context.Context, query string, size int) ([]int64, error)
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}
	return client, nil
}

type Elastic struct {
	es    *elasticsearch.Client
	index string
}

func NewElastic(es *elasticsearch.Client, index string) *Elastic {
	if index == "" {
		index = DefaultIndex
	}
	return &Elastic{es: es, index: index}
}

type productDoc struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Categories  []string `json:"categories"`
}

func toDoc(p *models.Product) productDoc {
	cats := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		cats = append(cats, c.Name)
	}
	return productDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		Categories:  cats,
	}
}

func (s *Elastic) IndexProduct(ctx context.Context, product *models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(toDoc(product)); err != nil {
		return fmt.Errorf("encode product: %w", err)
	}

	res, err := s.es.Index(
		s.index,
		&buf,
		s.es.Index.WithContext(ctx),
		s.es.Index.WithDocumentID(strconv.FormatInt(product.ID, 10)),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product: %s", res.Status())
	}
	return nil
}

func (s *Elastic) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.es.Delete(s.index, strconv.FormatInt(id, 10), s.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete product: %s", res.Status())
	}
	return nil
}

func buildQuery(query string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description", "categories"},
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"id"},
		"from":    0,
		"size":    size,
	}
}

// SearchProductIDs returns matching product ids by relevance.
func (s *Elastic) SearchProductIDs(ctx context.Context, query string, size int) ([]int64, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildQuery(query, size)); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source productDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search: %w", err)
	}

	ids := make([]int64, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, nil
}
