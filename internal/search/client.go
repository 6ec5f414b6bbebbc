package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/hoversale/internal/models"
	"github.com/Skotchmaster/hoversale/pkg/logging"
)

const DefaultIndex = "products"

var ErrUnavailable = errors.New("search unavailable")

type Config struct {
	URL      string
	User     string
	Password string
	Index    string
}

type Client struct {
	ES    *elasticsearch.Client
	Index string
}

type Document struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *uint           `json:"category_id,omitempty"`
}

// NewClient connects and checks the cluster answers before returning.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	l := logging.FromContext(ctx)
	l.Info("es_connecting", "url", cfg.URL, "user", cfg.User)

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("es client: %w", err)
	}

	res, err := es.Info(es.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		l.Error("es_info_failed", "status", res.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, res.Status())
	}

	index := cfg.Index
	if index == "" {
		index = DefaultIndex
	}
	l.Info("es_connected", "index", index)
	return &Client{ES: es, Index: index}, nil
}

func docID(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func (c *Client) IndexProduct(ctx context.Context, p *models.Product) error {
	doc := Document{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("encode product %d: %w", p.ID, err)
	}

	res, err := c.ES.Index(c.Index, &buf,
		c.ES.Index.WithContext(ctx),
		c.ES.Index.WithDocumentID(docID(p.ID)),
	)
	if err != nil {
		return fmt.Errorf("index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	return responseError(res, "index")
}

// DeleteProduct treats a missing document as already deleted.
func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	res, err := c.ES.Delete(c.Index, docID(id), c.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return responseError(res, "delete")
}

// Search returns matching product ids in relevance order.
func (c *Client) Search(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"id"},
		"from":    from,
		"size":    size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := c.ES.Search(
		c.ES.Search.WithContext(ctx),
		c.ES.Search.WithIndex(c.Index),
		c.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if err := responseError(res, "search"); err != nil {
		return 0, nil, err
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string `json:"_id"`
				Source struct {
					ID uint `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id := hit.Source.ID
		if id == 0 {
			n, err := strconv.ParseUint(hit.ID, 10, 64)
			if err != nil {
				continue
			}
			id = uint(n)
		}
		ids = append(ids, id)
	}
	return r.Hits.Total.Value, ids, nil
}

func responseError(res *esapi.Response, op string) error {
	if !res.IsError() {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	return fmt.Errorf("es %s: %s: %s", op, res.Status(), bytes.TrimSpace(body))
}
