package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/marketplace/internal/models"
)

const DefaultIndex = "products"

// Indexer mirrors catalog products into a search index. The mirror is
// best-effort and is never read back by this service.
type Indexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
}

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

type Elastic struct {
	Client *elasticsearch.Client
	Index  string
}

func NewClient(cfg Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return client, nil
}

func NewElastic(client *elasticsearch.Client, index string) *Elastic {
	if index == "" {
		index = DefaultIndex
	}
	return &Elastic{Client: client, Index: index}
}

type productDoc struct {
	ID          string   `json:"id"`
	SellerID    string   `json:"seller_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	FileType    string   `json:"file_type"`
	Rating      *float64 `json:"rating,omitempty"`
	Downloads   int64    `json:"downloads"`
	CreatedAt   string   `json:"created_at"`
}

func toDoc(p *models.Product) productDoc {
	return productDoc{
		ID:          p.ID.String(),
		SellerID:    p.SellerID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		FileType:    p.FileType,
		Rating:      p.Rating,
		Downloads:   p.Downloads,
		CreatedAt:   p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (e *Elastic) IndexProduct(ctx context.Context, p *models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(toDoc(p)); err != nil {
		return fmt.Errorf("index encode: %w", err)
	}

	res, err := e.Client.Index(
		e.Index,
		&buf,
		e.Client.Index.WithContext(ctx),
		e.Client.Index.WithDocumentID(p.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("index product %s: %w", p.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index product %s: %s: %s", p.ID, res.Status(), body)
	}
	return nil
}

type Noop struct{}

func (Noop) IndexProduct(context.Context, *models.Product) error { return nil }
