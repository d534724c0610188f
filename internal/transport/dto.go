package transport

import "github.com/Skotchmaster/marketplace/internal/models"

type SignupRequest struct {
	Name     string `json:"name"      validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required"`
	UserType string `json:"user_type" validate:"required,oneof=customer provider seller"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID.String(), Name: u.Name, Email: u.Email, UserType: u.UserType}
}

type CreateServiceRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"    validate:"required"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Location    string  `json:"location"    validate:"required"`
	Icon        *string `json:"icon"`
}

type CreateProductRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"    validate:"required"`
	Price       float64 `json:"price"       validate:"gte=0"`
	FileType    string  `json:"file_type"   validate:"required"`
	FileURL     string  `json:"file_url"    validate:"required"`
	Icon        *string `json:"icon"`
}

type CreateBookingRequest struct {
	ServiceID   string  `json:"service_id"   validate:"required"`
	BookingDate string  `json:"booking_date" validate:"required"`
	BookingTime string  `json:"booking_time" validate:"required"`
	Notes       *string `json:"notes"`
}

type CreatePurchaseRequest struct {
	ProductID     string `json:"product_id"     validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// ItemType accepts any value. Reviews of unknown types carry no rating update.
type CreateReviewRequest struct {
	ItemID   string `json:"item_id"   validate:"required"`
	ItemType string `json:"item_type" validate:"required"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

type PurchaseResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	DownloadURL string `json:"download_url"`
	PurchaseID  string `json:"purchase_id"`
}
