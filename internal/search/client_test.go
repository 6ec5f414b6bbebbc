package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/hoversale/internal/models"
)

type fakeES struct {
	mu       sync.Mutex
	indexed  map[string]string
	deleted  []string
	lastBody map[string]any
	hits     string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	switch {
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	case strings.HasPrefix(r.URL.Path, "/products/_doc/") && r.Method == http.MethodDelete:
		id := strings.TrimPrefix(r.URL.Path, "/products/_doc/")
		if id == "404" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		f.deleted = append(f.deleted, id)
		_, _ = io.WriteString(w, `{"result":"deleted"}`)
	case strings.HasPrefix(r.URL.Path, "/products/_doc/"):
		f.indexed[strings.TrimPrefix(r.URL.Path, "/products/_doc/")] = string(body)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case r.URL.Path == "/products/_search":
		_ = json.Unmarshal(body, &f.lastBody)
		_, _ = io.WriteString(w, f.hits)
	case r.URL.Path == "/broken/_search":
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"bad query"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{}`)
	}
}

func (f *fakeES) doc(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indexed[id]
}

func (f *fakeES) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *fakeES) query() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody
}

func newTestClient(t *testing.T) (*Client, *fakeES) {
	t.Helper()
	fake := &fakeES{indexed: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), Config{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, DefaultIndex, c.Index)
	return c, fake
}

func TestClient_IndexAndDelete(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	p := &models.Product{ID: 7, Name: "Hoverboard", Description: "fast", Price: decimal.RequireFromString("99.90")}
	require.NoError(t, c.IndexProduct(ctx, p))

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(fake.doc("7")), &doc))
	assert.Equal(t, "Hoverboard", doc.Name)
	assert.True(t, doc.Price.Equal(p.Price))

	require.NoError(t, c.DeleteProduct(ctx, 7))
	require.NoError(t, c.DeleteProduct(ctx, 404))
	assert.Equal(t, []string{"7"}, fake.deletedIDs())
}

func TestClient_Search(t *testing.T) {
	c, fake := newTestClient(t)
	fake.mu.Lock()
	fake.hits = `{"hits":{"total":{"value":3},"hits":[
		{"_id":"4","_source":{"id":4}},
		{"_id":"2","_source":{}},
		{"_id":"x","_source":{}}
	]}}`
	fake.mu.Unlock()

	total, ids, err := c.Search(context.Background(), "hovr", 10, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []uint{4, 2}, ids)

	body := fake.query()
	mm := body["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "hovr", mm["query"])
	assert.Equal(t, "AUTO", mm["fuzziness"])
	assert.EqualValues(t, 10, body["from"])
	assert.EqualValues(t, 5, body["size"])
}

func TestClient_SearchError(t *testing.T) {
	c, _ := newTestClient(t)
	c.Index = "broken"

	_, _, err := c.Search(context.Background(), "x", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad query")
}

func TestNewClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(context.Background(), Config{URL: url})
	assert.ErrorIs(t, err, ErrUnavailable)
}
