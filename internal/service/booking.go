package service

import (
	"context"

	"github.com/Skotchmaster/marketplace/internal/domain"
	"github.com/Skotchmaster/marketplace/internal/events"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/query"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

type BookingService struct {
	Bookings Repository[models.Booking]
	Deps
}

func (s *BookingService) Create(ctx context.Context, customerID string, req transport.CreateBookingRequest) (*models.Booking, error) {
	b := &models.Booking{
		CustomerID:  customerID,
		ServiceID:   req.ServiceID,
		BookingDate: req.BookingDate,
		BookingTime: req.BookingTime,
		Notes:       req.Notes,
		Status:      domain.BookingPending,
	}
	if err := s.Bookings.Insert(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TopicBookings, b.ID.String(), events.NewBookingCreated(b))
	return b, nil
}

func (s *BookingService) List(ctx context.Context, customerID string) ([]models.Booking, error) {
	return s.Bookings.FindMany(ctx, query.Newest("customer_id", customerID))
}
