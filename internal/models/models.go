package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is implemented by every persisted entity. TextField exposes the
// string columns that regex filters may match against.
type Document interface {
	TextField(name string) string
}

// Base carries the identifier and creation time shared by all entities.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type User struct {
	Base
	Name         string `gorm:"not null"             json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null"             json:"-"`
	UserType     string `gorm:"not null"             json:"user_type"`
}

func (User) TextField(name string) string { return "" }

type Service struct {
	Base
	ProviderID  string   `gorm:"index;not null" json:"provider_id"`
	Title       string   `gorm:"not null"       json:"title"`
	Description string   `json:"description"`
	Category    string   `gorm:"index"          json:"category"`
	Price       float64  `gorm:"not null"       json:"price"`
	Location    string   `gorm:"index"          json:"location"`
	Icon        *string  `json:"icon"`
	Rating      *float64 `json:"rating"`
}

func (s Service) TextField(name string) string {
	switch name {
	case "title":
		return s.Title
	case "description":
		return s.Description
	case "location":
		return s.Location
	case "category":
		return s.Category
	}
	return ""
}

type Product struct {
	Base
	SellerID    string   `gorm:"index;not null"      json:"seller_id"`
	Title       string   `gorm:"not null"            json:"title"`
	Description string   `json:"description"`
	Category    string   `gorm:"index"               json:"category"`
	Price       float64  `gorm:"not null"            json:"price"`
	FileType    string   `json:"file_type"`
	FileURL     string   `json:"file_url"`
	Icon        *string  `json:"icon"`
	Rating      *float64 `json:"rating"`
	Downloads   int64    `gorm:"not null;default:0"  json:"downloads"`
}

func (p Product) TextField(name string) string {
	switch name {
	case "title":
		return p.Title
	case "description":
		return p.Description
	case "category":
		return p.Category
	}
	return ""
}

type Booking struct {
	Base
	CustomerID  string  `gorm:"index;not null" json:"customer_id"`
	ServiceID   string  `gorm:"index;not null" json:"service_id"`
	BookingDate string  `json:"booking_date"`
	BookingTime string  `json:"booking_time"`
	Notes       *string `json:"notes"`
	Status      string  `gorm:"not null"       json:"status"`
}

func (Booking) TextField(name string) string { return "" }

// Purchase.Amount and Purchase.DownloadURL are copied from the product when
// the purchase is created and never rewritten.
type Purchase struct {
	Base
	CustomerID    string  `gorm:"index;not null" json:"customer_id"`
	ProductID     string  `gorm:"index;not null" json:"product_id"`
	PaymentMethod string  `json:"payment_method"`
	Amount        float64 `gorm:"not null"       json:"amount"`
	Status        string  `gorm:"not null"       json:"status"`
	DownloadURL   string  `json:"download_url"`
}

func (Purchase) TextField(name string) string { return "" }

type Review struct {
	Base
	UserID   string `gorm:"index;not null"                          json:"user_id"`
	ItemID   string `gorm:"index:idx_reviews_item,priority:1;not null" json:"item_id"`
	ItemType string `gorm:"index:idx_reviews_item,priority:2;not null" json:"item_type"`
	Rating   int    `gorm:"not null"                                json:"rating"`
	Comment  string `json:"comment"`
}

func (r Review) TextField(name string) string {
	if name == "comment" {
		return r.Comment
	}
	return ""
}

// All lists every entity for migration.
func All() []any {
	return []any{&User{}, &Service{}, &Product{}, &Booking{}, &Purchase{}, &Review{}}
}
