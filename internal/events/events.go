package events

import (
	"time"

	"github.com/Skotchmaster/marketplace/internal/models"
)

// Event payloads. Type names the event inside its topic.

type UserRegistered struct {
	Type     string    `json:"type"`
	UserID   string    `json:"userID"`
	UserType string    `json:"user_type"`
	At       time.Time `json:"at"`
}

type ListingCreated struct {
	Type     string    `json:"type"`
	ID       string    `json:"id"`
	OwnerID  string    `json:"ownerID"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Price    float64   `json:"price"`
	At       time.Time `json:"at"`
}

type BookingCreated struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"bookingID"`
	ServiceID  string    `json:"serviceID"`
	CustomerID string    `json:"customerID"`
	At         time.Time `json:"at"`
}

type PurchaseCompleted struct {
	Type           string    `json:"type"`
	PurchaseID     string    `json:"purchaseID"`
	ProductID      string    `json:"productID"`
	CustomerID     string    `json:"customerID"`
	Amount         float64   `json:"amount"`
	PaymentMethod  string    `json:"payment_method"`
	CounterUpdated bool      `json:"counter_updated"`
	At             time.Time `json:"at"`
}

type ReviewCreated struct {
	Type          string    `json:"type"`
	ReviewID      string    `json:"reviewID"`
	ItemID        string    `json:"itemID"`
	ItemType      string    `json:"item_type"`
	Rating        int       `json:"rating"`
	Mean          *float64  `json:"mean,omitempty"`
	RatingUpdated bool      `json:"rating_updated"`
	At            time.Time `json:"at"`
}

func NewUserRegistered(u *models.User) UserRegistered {
	return UserRegistered{Type: "user_registered", UserID: u.ID.String(), UserType: u.UserType, At: u.CreatedAt}
}

func NewServiceCreated(s *models.Service) ListingCreated {
	return ListingCreated{Type: "service_created", ID: s.ID.String(), OwnerID: s.ProviderID, Title: s.Title, Category: s.Category, Price: s.Price, At: s.CreatedAt}
}

func NewProductCreated(p *models.Product) ListingCreated {
	return ListingCreated{Type: "product_created", ID: p.ID.String(), OwnerID: p.SellerID, Title: p.Title, Category: p.Category, Price: p.Price, At: p.CreatedAt}
}

func NewBookingCreated(b *models.Booking) BookingCreated {
	return BookingCreated{Type: "booking_created", BookingID: b.ID.String(), ServiceID: b.ServiceID, CustomerID: b.CustomerID, At: b.CreatedAt}
}
