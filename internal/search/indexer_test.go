package search

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/models"
)

type fakeTransport struct {
	mu       sync.Mutex
	status   int
	requests []*http.Request
	bodies   []string
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body string
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
	}
	f.requests = append(f.requests, req)
	f.bodies = append(f.bodies, body)

	h := http.Header{}
	h.Set("X-Elastic-Product", "Elasticsearch")
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: f.status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(`{"result":"created"}`)),
		Request:    req,
	}, nil
}

func newTestIndexer(t *testing.T, status int) (*Elastic, *fakeTransport) {
	t.Helper()
	tr := &fakeTransport{status: status}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.local:9200"},
		Transport: tr,
	})
	require.NoError(t, err)
	return NewElastic(client, ""), tr
}

func TestIndexProduct(t *testing.T) {
	idx, tr := newTestIndexer(t, http.StatusCreated)
	p := &models.Product{Base: models.Base{ID: uuid.New()}, SellerID: "s1", Title: "CV pack", Category: "cv", Price: 5, Downloads: 3}

	require.NoError(t, idx.IndexProduct(t.Context(), p))
	require.Len(t, tr.requests, 1)

	req := tr.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/products/_doc/"+p.ID.String(), req.URL.Path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(tr.bodies[0]), &doc))
	assert.Equal(t, "CV pack", doc["title"])
	assert.EqualValues(t, 3, doc["downloads"])
	assert.NotContains(t, doc, "rating")
}

func TestIndexProductErrorStatus(t *testing.T) {
	idx, _ := newTestIndexer(t, http.StatusBadRequest)
	err := idx.IndexProduct(t.Context(), &models.Product{Base: models.Base{ID: uuid.New()}})
	require.Error(t, err)
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(Config{URL: "http://localhost:9200"})
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, DefaultIndex, NewElastic(c, "").Index)
	assert.Equal(t, "x", NewElastic(c, "x").Index)
}

func TestNoop(t *testing.T) {
	var i Indexer = Noop{}
	assert.NoError(t, i.IndexProduct(t.Context(), &models.Product{}))
}
