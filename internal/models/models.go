package models

import (
	"time"
)

type Permission struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type Role struct {
	ID          uint         `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string       `gorm:"unique;not null"            json:"name"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"not null"                 json:"username"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	RoleID       *uint  `json:"-"`
	Role         *Role  `json:"role,omitempty"`
}

// Authorities returns the permission names granted through the user's role,
// empty if the user has no role.
func (u *User) Authorities() []string {
	if u.Role == nil {
		return []string{}
	}
	names := make([]string, 0, len(u.Role.Permissions))
	for _, p := range u.Role.Permissions {
		names = append(names, p.Name)
	}
	return names
}

// RoleName falls back to "USER" for users without an assigned role.
func (u *User) RoleName() string {
	if u.Role == nil {
		return "USER"
	}
	return u.Role.Name
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Description string  `gorm:"not null"                 json:"description"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Stock       int     `json:"stock"`
}

const OrderStatusPending = "PENDING"

type Order struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	Status    string    `gorm:"not null"                 json:"status"`
	Total     float64   `gorm:"not null"                 json:"total"`
	CreatedAt time.Time `json:"created_at"`
	Products  []Product `gorm:"many2many:order_products" json:"products"`
}
