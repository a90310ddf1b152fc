// Package model содержит доменные сущности клиента магазина.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User представляет снимок данных пользователя, полученный при входе.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// Session содержит токен доступа и данные пользователя текущей сессии.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Product описывает снимок данных товара на момент добавления в корзину.
type Product struct {
	Code           string
	ProductName    string
	SalePrice      decimal.Decimal
	AvailableStock int
}

// CartLine описывает одну позицию корзины продажи. Цена и доступный
// остаток фиксируются при добавлении и далее не обновляются.
type CartLine struct {
	Code           string          `json:"code"`
	ProductName    string          `json:"product_name"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	AvailableStock int             `json:"available_stock"`
	Qty            int             `json:"qty"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// LowStockAlert описывает запись о низком остатке, полученную от API.
type LowStockAlert struct {
	VariantID   string  `json:"variant_id"`
	ProductName string  `json:"product_name"`
	VariantName *string `json:"variant_name"`
	QtyOnHand   int     `json:"qty_on_hand"`
	PrimaryCode *string `json:"primary_code"`
}

// Notification описывает уведомление о низком остатке варианта товара.
type Notification struct {
	ID          string    `json:"id"`
	VariantID   string    `json:"variant_id"`
	ProductName string    `json:"product_name"`
	QtyOnHand   int       `json:"qty_on_hand"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
