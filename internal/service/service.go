package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/marketplace/internal/cache"
	"github.com/Skotchmaster/marketplace/internal/events"
	"github.com/Skotchmaster/marketplace/internal/metrics"
	"github.com/Skotchmaster/marketplace/internal/query"
	"github.com/Skotchmaster/marketplace/internal/store"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

// Repository is the slice of the entity store the services depend on.
// *store.Collection satisfies it.
type Repository[T any] interface {
	FindByID(ctx context.Context, id string) (*T, error)
	FindOne(ctx context.Context, f query.Filter) (*T, error)
	FindMany(ctx context.Context, f query.Filter) ([]T, error)
	Insert(ctx context.Context, doc *T) error
	UpdateFields(ctx context.Context, id string, u store.Update) error
}

type fieldUpdater interface {
	UpdateFields(ctx context.Context, id string, u store.Update) error
}

const (
	OpDownloadCounter = "purchase.download_counter"
	OpRating          = "review.rating"
)

type OutcomeStatus string

const (
	OutcomeApplied OutcomeStatus = "applied"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomeSkipped OutcomeStatus = "skipped"
)

// Outcome reports a best-effort update that follows a primary write. A failed
// outcome never changes the result of the primary operation.
type Outcome struct {
	Operation string
	TargetID  string
	Status    OutcomeStatus
	Reason    string
	Err       error
}

func (o Outcome) Applied() bool { return o.Status == OutcomeApplied }

type OutcomeRecorder interface {
	Record(ctx context.Context, o Outcome)
}

// LogRecorder logs every outcome and counts it when Metrics is set.
type LogRecorder struct {
	Metrics *metrics.Metrics
}

func (r LogRecorder) Record(ctx context.Context, o Outcome) {
	l := logging.FromContext(ctx).With("svc", "secondary_update", "operation", o.Operation, "target_id", o.TargetID)
	switch o.Status {
	case OutcomeFailed:
		l.Warn("secondary_update_failed", "reason", o.Reason, "error", o.Err)
	case OutcomeSkipped:
		l.Info("secondary_update_skipped", "reason", o.Reason)
	default:
		l.Info("secondary_update_applied")
	}
	r.Metrics.ObserveSecondary(o.Operation, string(o.Status))
}

// Deps holds the optional collaborators shared by the services. Nil fields
// fall back to no-op implementations.
type Deps struct {
	Cache    cache.ProductCache
	Events   events.Publisher
	Recorder OutcomeRecorder
}

func (d Deps) cache() cache.ProductCache {
	if d.Cache == nil {
		return cache.Noop{}
	}
	return d.Cache
}

func (d Deps) recorder() OutcomeRecorder {
	if d.Recorder == nil {
		return LogRecorder{}
	}
	return d.Recorder
}

func (d Deps) publish(ctx context.Context, topic, key string, event any) {
	if d.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := d.Events.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_event_failed", "topic", topic, "key", key, "error", err)
	}
}

func (d Deps) invalidateProduct(ctx context.Context, id string) {
	if err := d.cache().Invalidate(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("cache_invalidate_failed", "product_id", id, "error", err)
	}
}
