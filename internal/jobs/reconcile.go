package jobs

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Skotchmaster/marketplace/internal/cache"
	"github.com/Skotchmaster/marketplace/internal/domain"
	"github.com/Skotchmaster/marketplace/internal/metrics"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/query"
	"github.com/Skotchmaster/marketplace/internal/search"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/store"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

const (
	KindDownloads = "downloads"
	KindRatings   = "ratings"
)

// Report counts the rows a run corrected.
type Report struct {
	Downloads int
	Ratings   int
}

// Reconciler repairs download counters and published ratings left stale by
// failed best-effort updates.
type Reconciler struct {
	Store   *store.Store
	Cache   cache.ProductCache
	Index   search.Indexer
	Metrics *metrics.Metrics
}

// RunOnce scans every product and service once. A failing row is logged and
// skipped; the joined row errors are returned with the report.
func (r *Reconciler) RunOnce(ctx context.Context) (Report, error) {
	l := logging.FromContext(ctx).With("svc", "jobs.reconcile")
	var rep Report
	var errs []error

	products, err := r.Store.Products.FindMany(ctx, query.Filter{})
	if err != nil {
		return rep, fmt.Errorf("reconcile: list products: %w", err)
	}
	for i := range products {
		p := &products[i]
		fixedDownloads, err := r.fixDownloads(ctx, p)
		if err != nil {
			errs = append(errs, err)
		}
		fixedRating, err := r.fixProductRating(ctx, p)
		if err != nil {
			errs = append(errs, err)
		}
		if fixedDownloads {
			rep.Downloads++
		}
		if fixedRating {
			rep.Ratings++
		}
		if fixedDownloads || fixedRating {
			r.refresh(ctx, p)
		}
	}

	services, err := r.Store.Services.FindMany(ctx, query.Filter{})
	if err != nil {
		errs = append(errs, fmt.Errorf("reconcile: list services: %w", err))
	}
	for i := range services {
		s := &services[i]
		mean, ok, err := r.mean(ctx, s.ID.String(), domain.ItemTypeService)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok || sameRating(s.Rating, mean) {
			continue
		}
		if err := r.Store.Services.UpdateFields(ctx, s.ID.String(), store.Update{Set: map[string]any{"rating": mean}}); err != nil {
			errs = append(errs, err)
			continue
		}
		rep.Ratings++
	}

	r.Metrics.ObserveReconciled(KindDownloads, rep.Downloads)
	r.Metrics.ObserveReconciled(KindRatings, rep.Ratings)

	err = errors.Join(errs...)
	if err != nil {
		l.Warn("reconcile_partial", "downloads", rep.Downloads, "ratings", rep.Ratings, "error", err)
	} else {
		l.Info("reconcile_done", "downloads", rep.Downloads, "ratings", rep.Ratings)
	}
	return rep, err
}

// fixDownloads only raises a counter to the purchase count. A counter above
// the count belongs to a settlement whose increment has not landed yet.
func (r *Reconciler) fixDownloads(ctx context.Context, p *models.Product) (bool, error) {
	n, err := r.Store.Purchases.Count(ctx, query.Eq("product_id", p.ID.String()))
	if err != nil {
		return false, err
	}
	if n <= p.Downloads {
		return false, nil
	}
	raised, err := r.Store.Products.RaiseTo(ctx, p.ID.String(), "downloads", n)
	if err != nil || !raised {
		return false, err
	}
	p.Downloads = n
	return true, nil
}

func (r *Reconciler) fixProductRating(ctx context.Context, p *models.Product) (bool, error) {
	mean, ok, err := r.mean(ctx, p.ID.String(), domain.ItemTypeProduct)
	if err != nil || !ok || sameRating(p.Rating, mean) {
		return false, err
	}
	if err := r.Store.Products.UpdateFields(ctx, p.ID.String(), store.Update{Set: map[string]any{"rating": mean}}); err != nil {
		return false, err
	}
	p.Rating = &mean
	return true, nil
}

// mean reports false when the target has no reviews.
func (r *Reconciler) mean(ctx context.Context, id, itemType string) (float64, bool, error) {
	reviews, err := r.Store.Reviews.FindMany(ctx, query.Target(id, itemType))
	if err != nil || len(reviews) == 0 {
		return 0, false, err
	}
	return service.MeanRating(reviews), true, nil
}

func (r *Reconciler) refresh(ctx context.Context, p *models.Product) {
	l := logging.FromContext(ctx)
	if r.Cache != nil {
		if err := r.Cache.Invalidate(ctx, p.ID.String()); err != nil {
			l.Warn("cache_invalidate_failed", "product_id", p.ID.String(), "error", err)
		}
	}
	if r.Index != nil {
		if err := r.Index.IndexProduct(ctx, p); err != nil {
			l.Warn("index_product_failed", "product_id", p.ID.String(), "error", err)
		}
	}
}

func sameRating(current *float64, mean float64) bool {
	return current != nil && math.Abs(*current-mean) < 1e-9
}
