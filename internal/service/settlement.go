package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/marketplace/internal/domain"
	"github.com/Skotchmaster/marketplace/internal/events"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/query"
	"github.com/Skotchmaster/marketplace/internal/store"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type PurchaseService struct {
	Products  Repository[models.Product]
	Purchases Repository[models.Purchase]
	Deps
}

// Settlement is the result of a recorded purchase. Counter reports the
// download counter increment separately; when it failed, the product
// under-counts its purchases until reconciled.
type Settlement struct {
	Purchase *models.Purchase
	Counter  Outcome
}

// Settle records a purchase of productID by buyerID. The product is read from
// the store, not the cache, so Amount and DownloadURL are the values at call
// time. The counter is only incremented after the purchase is stored.
func (s *PurchaseService) Settle(ctx context.Context, buyerID, productID, paymentMethod string) (*Settlement, error) {
	l := logging.FromContext(ctx).With("svc", "purchase.settle", "product_id", productID)

	product, err := s.Products.FindByID(ctx, productID)
	if err != nil {
		l.Warn("settle_failed", "reason", "cannot resolve product", "error", err)
		return nil, err
	}

	purchase := &models.Purchase{
		CustomerID:    buyerID,
		ProductID:     product.ID.String(),
		PaymentMethod: paymentMethod,
		Amount:        product.Price,
		Status:        domain.PurchaseCompleted,
		DownloadURL:   product.FileURL,
	}
	if err := s.Purchases.Insert(ctx, purchase); err != nil {
		l.Error("settle_failed", "reason", "cannot insert purchase", "error", err)
		if !errors.Is(err, domain.ErrStorage) {
			err = errors.Join(domain.ErrStorage, err)
		}
		return nil, err
	}

	res := &Settlement{
		Purchase: purchase,
		Counter:  s.incrementDownloads(ctx, purchase.ProductID),
	}
	s.recorder().Record(ctx, res.Counter)

	s.publish(ctx, events.TopicPurchases, purchase.ID.String(), events.PurchaseCompleted{
		Type:           "purchase_completed",
		PurchaseID:     purchase.ID.String(),
		ProductID:      purchase.ProductID,
		CustomerID:     purchase.CustomerID,
		Amount:         purchase.Amount,
		PaymentMethod:  purchase.PaymentMethod,
		CounterUpdated: res.Counter.Applied(),
		At:             purchase.CreatedAt,
	})

	l.Info("settle_success", "purchase_id", purchase.ID.String(), "counter", string(res.Counter.Status))
	return res, nil
}

func (s *PurchaseService) incrementDownloads(ctx context.Context, productID string) Outcome {
	o := Outcome{Operation: OpDownloadCounter, TargetID: productID}
	err := s.Products.UpdateFields(ctx, productID, store.Update{Inc: map[string]int64{"downloads": 1}})
	if err != nil {
		o.Status, o.Reason, o.Err = OutcomeFailed, "cannot increment download counter", err
		return o
	}
	s.invalidateProduct(ctx, productID)
	o.Status = OutcomeApplied
	return o
}

// List returns the buyer's purchases, newest first.
func (s *PurchaseService) List(ctx context.Context, buyerID string) ([]models.Purchase, error) {
	return s.Purchases.FindMany(ctx, query.Newest("customer_id", buyerID))
}
