package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Documents carry string UUIDs serialized as "_id" so that clients written
// against the document API keep working on either backend.

type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"  json:"_id"       bson:"_id"`
	Name      string    `json:"name"                          bson:"name"`
	Email     string    `gorm:"uniqueIndex;not null"         json:"email"     bson:"email"`
	PhotoURL  string    `json:"photoURL,omitempty"            bson:"photoURL,omitempty"`
	Role      string    `gorm:"not null;default:user"        json:"role"      bson:"role"`
	CreatedAt time.Time `json:"createdAt"                     bson:"createdAt"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

type MenuItem struct {
	ID       string  `gorm:"primaryKey;type:varchar(36)" json:"_id"      bson:"_id"`
	Name     string  `gorm:"not null"                    json:"name"     bson:"name"`
	Recipe   string  `json:"recipe"                       bson:"recipe"`
	Image    string  `json:"image"                        bson:"image"`
	Category string  `gorm:"index"                       json:"category" bson:"category"`
	Price    float64 `gorm:"not null"                    json:"price"    bson:"price"`
}

type Review struct {
	ID      string  `gorm:"primaryKey;type:varchar(36)" json:"_id"     bson:"_id"`
	Name    string  `json:"name"                         bson:"name"`
	Details string  `json:"details"                      bson:"details"`
	Rating  float64 `json:"rating"                       bson:"rating"`
}

type CartItem struct {
	ID       string  `gorm:"primaryKey;type:varchar(36)" json:"_id"      bson:"_id"`
	MenuID   string  `json:"menuId"                       bson:"menuId"`
	Email    string  `gorm:"index;not null"              json:"email"    bson:"email"`
	Name     string  `json:"name"                         bson:"name"`
	Image    string  `json:"image"                        bson:"image"`
	Price    float64 `json:"price"                        bson:"price"`
	Quantity uint    `gorm:"default:1"                   json:"quantity" bson:"quantity"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Payment struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)"  json:"_id"           bson:"_id"`
	Email         string    `gorm:"index;not null"               json:"email"         bson:"email"`
	Price         float64   `json:"price"                         bson:"price"`
	Currency      string    `gorm:"not null;default:usd"         json:"currency"      bson:"currency"`
	TransactionID string    `json:"transactionId"                 bson:"transactionId"`
	Date          time.Time `json:"date"                          bson:"date"`
	CartIDs       []string  `gorm:"serializer:json;type:text"    json:"cartIds"       bson:"cartIds"`
	MenuItemIDs   []string  `gorm:"serializer:json;type:text"    json:"menuItemIds"   bson:"menuItemIds"`
	Status        string    `json:"status"                        bson:"status"`
}

// EnsureID assigns a fresh identifier when the document has none and returns
// the identifier in use. Both store backends call it before inserting.
func (u *User) EnsureID() string     { return ensure(&u.ID) }
func (m *MenuItem) EnsureID() string { return ensure(&m.ID) }
func (r *Review) EnsureID() string   { return ensure(&r.ID) }
func (c *CartItem) EnsureID() string { return ensure(&c.ID) }
func (p *Payment) EnsureID() string  { return ensure(&p.ID) }

func ensure(id *string) string {
	if *id == "" {
		*id = uuid.NewString()
	}
	return *id
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.EnsureID()
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	m.EnsureID()
	return nil
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	r.EnsureID()
	return nil
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	c.EnsureID()
	if c.Quantity == 0 {
		c.Quantity = 1
	}
	return nil
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	p.EnsureID()
	if p.Currency == "" {
		p.Currency = "usd"
	}
	return nil
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{&User{}, &MenuItem{}, &Review{}, &CartItem{}, &Payment{}}
}
