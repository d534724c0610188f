package service

import (
	"context"

	"github.com/Skotchmaster/marketplace/internal/events"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/query"
	"github.com/Skotchmaster/marketplace/internal/search"
	"github.com/Skotchmaster/marketplace/internal/store"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type CatalogService struct {
	Services Repository[models.Service]
	Products Repository[models.Product]
	Index    search.Indexer
	Deps
}

func (s *CatalogService) CreateService(ctx context.Context, providerID string, req transport.CreateServiceRequest) (*models.Service, error) {
	svc := &models.Service{
		ProviderID:  providerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Location:    req.Location,
		Icon:        req.Icon,
	}
	if err := s.Services.Insert(ctx, svc); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TopicCatalog, svc.ID.String(), events.NewServiceCreated(svc))
	return svc, nil
}

func (s *CatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	return s.Services.FindByID(ctx, id)
}

func (s *CatalogService) ListServices(ctx context.Context, l query.Listing) ([]models.Service, error) {
	f, err := l.Filter()
	if err != nil {
		return nil, err
	}
	return s.Services.FindMany(ctx, f)
}

func (s *CatalogService) CreateProduct(ctx context.Context, sellerID string, req transport.CreateProductRequest) (*models.Product, error) {
	p := &models.Product{
		SellerID:    sellerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		FileType:    req.FileType,
		FileURL:     req.FileURL,
		Icon:        req.Icon,
	}
	if err := s.Products.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.mirror(ctx, p)
	s.publish(ctx, events.TopicCatalog, p.ID.String(), events.NewProductCreated(p))
	return p, nil
}

func (s *CatalogService) mirror(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("index_product_failed", "product_id", p.ID.String(), "error", err)
	}
}

// GetProduct reads through the product cache. Cache failures fall through to
// the store.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.get_product", "product_id", id)
	if _, err := store.ParseID(id); err != nil {
		return nil, err
	}

	c := s.cache()
	if cached, err := c.Get(ctx, id); err != nil {
		l.Warn("cache_get_failed", "error", err)
	} else if cached != nil {
		return cached, nil
	}

	p, err := s.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, p); err != nil {
		l.Warn("cache_set_failed", "error", err)
	}
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, l query.Listing) ([]models.Product, error) {
	f, err := l.Filter()
	if err != nil {
		return nil, err
	}
	return s.Products.FindMany(ctx, f)
}

// Niche lists the products of a niche's categories.
func (s *CatalogService) Niche(ctx context.Context, nicheType, pattern string, sort query.Sort) ([]models.Product, error) {
	cats, err := query.Niche(nicheType)
	if err != nil {
		return nil, err
	}
	return s.ListProducts(ctx, query.Listing{Categories: cats, Search: pattern, Sort: sort})
}
