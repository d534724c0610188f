package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/marketplace/internal/domain"
	"github.com/Skotchmaster/marketplace/internal/events"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/query"
	"github.com/Skotchmaster/marketplace/internal/store"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

const (
	MinRating = 1
	MaxRating = 5
)

type ReviewService struct {
	Reviews  Repository[models.Review]
	Services Repository[models.Service]
	Products Repository[models.Product]
	Deps
}

// Aggregation is the result of a stored review. Mean is the value computed
// from the re-read review set, nil when no re-read happened. Rating reports
// whether that mean reached the target.
type Aggregation struct {
	Review *models.Review
	Mean   *float64
	Rating Outcome
}

// MeanRating is the unweighted mean of the ratings. It is 0 for no reviews.
func MeanRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += float64(r.Rating)
	}
	return sum / float64(len(reviews))
}

// Submit stores a review and republishes the target's mean rating. The
// target is not checked for existence. Concurrent submissions for one target
// are last-write-wins on the published rating.
func (s *ReviewService) Submit(ctx context.Context, authorID, itemID, itemType string, rating int, comment string) (*Aggregation, error) {
	l := logging.FromContext(ctx).With("svc", "review.submit", "item_id", itemID, "item_type", itemType)

	if rating < MinRating || rating > MaxRating {
		l.Warn("submit_review_failed", "status", 400, "reason", "rating out of range", "rating", rating)
		return nil, fmt.Errorf("%w: rating must be between %d and %d", domain.ErrValidation, MinRating, MaxRating)
	}

	review := &models.Review{
		UserID:   authorID,
		ItemID:   itemID,
		ItemType: itemType,
		Rating:   rating,
		Comment:  comment,
	}
	if err := s.Reviews.Insert(ctx, review); err != nil {
		l.Error("submit_review_failed", "reason", "cannot insert review", "error", err)
		if !errors.Is(err, domain.ErrStorage) {
			err = errors.Join(domain.ErrStorage, err)
		}
		return nil, err
	}

	agg := &Aggregation{Review: review}
	agg.Mean, agg.Rating = s.publishMean(ctx, itemID, itemType)
	s.recorder().Record(ctx, agg.Rating)

	s.publish(ctx, events.TopicReviews, review.ID.String(), events.ReviewCreated{
		Type:          "review_created",
		ReviewID:      review.ID.String(),
		ItemID:        itemID,
		ItemType:      itemType,
		Rating:        rating,
		Mean:          agg.Mean,
		RatingUpdated: agg.Rating.Applied(),
		At:            review.CreatedAt,
	})

	l.Info("submit_review_success", "review_id", review.ID.String(), "rating_update", string(agg.Rating.Status))
	return agg, nil
}

func (s *ReviewService) target(itemType string) fieldUpdater {
	switch itemType {
	case domain.ItemTypeService:
		return s.Services
	case domain.ItemTypeProduct:
		return s.Products
	}
	return nil
}

func (s *ReviewService) publishMean(ctx context.Context, itemID, itemType string) (*float64, Outcome) {
	o := Outcome{Operation: OpRating, TargetID: itemID}

	target := s.target(itemType)
	if target == nil {
		o.Status, o.Reason = OutcomeSkipped, "unknown item type "+itemType
		return nil, o
	}
	if _, err := uuid.Parse(itemID); err != nil {
		o.Status, o.Reason = OutcomeSkipped, "malformed target id"
		return nil, o
	}

	reviews, err := s.Reviews.FindMany(ctx, query.Target(itemID, itemType))
	if err != nil {
		o.Status, o.Reason, o.Err = OutcomeFailed, "cannot re-read reviews", err
		return nil, o
	}
	if len(reviews) == 0 {
		o.Status, o.Reason = OutcomeFailed, "stored review not visible on re-read"
		return nil, o
	}

	mean := MeanRating(reviews)
	if err := target.UpdateFields(ctx, itemID, store.Update{Set: map[string]any{"rating": mean}}); err != nil {
		o.Status, o.Reason, o.Err = OutcomeFailed, "cannot publish rating", err
		return &mean, o
	}
	if itemType == domain.ItemTypeProduct {
		s.invalidateProduct(ctx, itemID)
	}
	o.Status = OutcomeApplied
	return &mean, o
}

// List returns the reviews of one target, newest first.
func (s *ReviewService) List(ctx context.Context, itemType, itemID string) ([]models.Review, error) {
	f := query.Target(itemID, itemType)
	f.Order = []query.Order{{Column: "created_at", Desc: true}}
	return s.Reviews.FindMany(ctx, f)
}
