package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/query"
	"github.com/Skotchmaster/marketplace/internal/store"
	"github.com/Skotchmaster/marketplace/internal/testdb"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(testdb.Open(t))
}

// faultyRepo wraps a real collection and injects failures.
type faultyRepo[T models.Document] struct {
	*store.Collection[T]

	mu          sync.Mutex
	insertErr   error
	findManyErr error
	failUpdate  func(call int) error
	updates     int
	findManys   int
}

func wrapRepo[T models.Document](c *store.Collection[T]) *faultyRepo[T] {
	return &faultyRepo[T]{Collection: c}
}

func (f *faultyRepo[T]) Insert(ctx context.Context, doc *T) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	return f.Collection.Insert(ctx, doc)
}

func (f *faultyRepo[T]) FindMany(ctx context.Context, q query.Filter) ([]T, error) {
	f.mu.Lock()
	f.findManys++
	err := f.findManyErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.Collection.FindMany(ctx, q)
}

func (f *faultyRepo[T]) UpdateFields(ctx context.Context, id string, u store.Update) error {
	f.mu.Lock()
	f.updates++
	call := f.updates
	hook := f.failUpdate
	f.mu.Unlock()
	if hook != nil {
		if err := hook(call); err != nil {
			return err
		}
	}
	return f.Collection.UpdateFields(ctx, id, u)
}

func (f *faultyRepo[T]) updateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates
}

type outcomeLog struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (r *outcomeLog) Record(_ context.Context, o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *outcomeLog) all() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

func seedProduct(t *testing.T, s *store.Store, p models.Product) *models.Product {
	t.Helper()
	if p.SellerID == "" {
		p.SellerID = "seller-1"
	}
	require.NoError(t, s.Products.Insert(context.Background(), &p))
	return &p
}

func seedService(t *testing.T, s *store.Store, svc models.Service) *models.Service {
	t.Helper()
	if svc.ProviderID == "" {
		svc.ProviderID = "provider-1"
	}
	require.NoError(t, s.Services.Insert(context.Background(), &svc))
	return &svc
}

func countPurchases(t *testing.T, s *store.Store) int64 {
	t.Helper()
	n, err := s.Purchases.Count(context.Background(), query.Filter{})
	require.NoError(t, err)
	return n
}
