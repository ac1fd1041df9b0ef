package transport

import (
	"time"

	"github.com/Skotchmaster/bistro_boss/internal/models"
)

type TokenRequest struct {
	Email string `json:"email"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL"`
}

func (r CreateUserRequest) User() *models.User {
	return &models.User{Name: r.Name, Email: r.Email, PhotoURL: r.PhotoURL}
}

type AdminResponse struct {
	Admin bool `json:"admin"`
}

type UserExistsResponse struct {
	Message    string  `json:"message"`
	InsertedID *string `json:"insertedId"`
}

type AddCartRequest struct {
	MenuID   string  `json:"menuId"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity uint    `json:"quantity"`
}

func (r AddCartRequest) CartItem() *models.CartItem {
	return &models.CartItem{
		MenuID:   r.MenuID,
		Email:    r.Email,
		Name:     r.Name,
		Image:    r.Image,
		Price:    r.Price,
		Quantity: r.Quantity,
	}
}

type CreateMenuRequest struct {
	Name     string  `json:"name"`
	Recipe   string  `json:"recipe"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

func (r CreateMenuRequest) MenuItem() *models.MenuItem {
	return &models.MenuItem{
		Name:     r.Name,
		Recipe:   r.Recipe,
		Image:    r.Image,
		Category: r.Category,
		Price:    r.Price,
	}
}

type PatchMenuRequest struct {
	Name     *string  `json:"name"`
	Recipe   *string  `json:"recipe"`
	Image    *string  `json:"image"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price"`
}

type SearchResponse struct {
	Total int64             `json:"total"`
	Data  []models.MenuItem `json:"data"`
}

type IntentRequest struct {
	Price float64 `json:"price"`
}

type IntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// PaymentRequest accepts the cart ids under "cartIds" or the older "cartId".
type PaymentRequest struct {
	Email         string    `json:"email"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	TransactionID string    `json:"transactionId"`
	Date          time.Time `json:"date"`
	CartIDs       []string  `json:"cartIds"`
	LegacyCartIDs []string  `json:"cartId"`
	MenuItemIDs   []string  `json:"menuItemIds"`
	Status        string    `json:"status"`
}

func (r PaymentRequest) Payment() *models.Payment {
	cartIDs := r.CartIDs
	if len(cartIDs) == 0 {
		cartIDs = r.LegacyCartIDs
	}
	return &models.Payment{
		Email:         r.Email,
		Price:         r.Price,
		Currency:      r.Currency,
		TransactionID: r.TransactionID,
		Date:          r.Date,
		CartIDs:       cartIDs,
		MenuItemIDs:   r.MenuItemIDs,
		Status:        r.Status,
	}
}

type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

type PaymentResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
	DeletedCount int64  `json:"deletedCount"`
}
