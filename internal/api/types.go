package api

import (
	"github.com/shopspring/decimal"
)

// LoginRequest описывает тело запроса входа.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse описывает ответ на успешный вход.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
}

// DashboardSummary содержит ключевые показатели панели.
type DashboardSummary struct {
	InvestedAmount  decimal.Decimal `json:"invested_amount"`
	GrossSales      decimal.Decimal `json:"gross_sales"`
	CostOfGoodsSold decimal.Decimal `json:"cost_of_goods_sold"`
	Profit          decimal.Decimal `json:"profit"`
}

// Variant описывает вариант товара, найденный по штрихкоду.
type Variant struct {
	Code          string          `json:"code"`
	VariantID     string          `json:"variant_id"`
	ProductName   string          `json:"product_name"`
	VariantName   *string         `json:"variant_name"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	QtyOnHand     int             `json:"qty_on_hand"`
}

// InventoryItem описывает позицию списка инвентаря.
type InventoryItem struct {
	VariantID     string          `json:"variant_id"`
	ProductName   string          `json:"product_name"`
	VariantName   *string         `json:"variant_name"`
	Category      *string         `json:"category"`
	Brand         *string         `json:"brand"`
	Location      *string         `json:"location"`
	PhotoURL      *string         `json:"photo_url"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	QtyOnHand     int             `json:"qty_on_hand"`
	PrimaryCode   *string         `json:"primary_code"`
}

// InventoryUpdate описывает частичное обновление позиции инвентаря.
// Незаполненные поля не передаются и остаются без изменений.
type InventoryUpdate struct {
	ProductName   *string          `json:"product_name,omitempty"`
	Brand         *string          `json:"brand,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Description   *string          `json:"description,omitempty"`
	PhotoURL      *string          `json:"photo_url,omitempty"`
	VariantName   *string          `json:"variant_name,omitempty"`
	Color         *string          `json:"color,omitempty"`
	Size          *string          `json:"size,omitempty"`
	Location      *string          `json:"location,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
}

// ScanUpsertRequest описывает создание товара по отсканированному коду.
type ScanUpsertRequest struct {
	Code          string          `json:"code"`
	ProductName   string          `json:"product_name"`
	Brand         string          `json:"brand"`
	Category      string          `json:"category"`
	Description   *string         `json:"description"`
	PhotoURL      *string         `json:"photo_url"`
	VariantName   *string         `json:"variant_name"`
	Color         *string         `json:"color"`
	Size          *string         `json:"size"`
	Location      *string         `json:"location"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	InitialQty    int             `json:"initial_qty"`
}

// ScanUpsertResponse описывает результат создания товара по коду.
type ScanUpsertResponse struct {
	Created bool     `json:"created"`
	Message string   `json:"message,omitempty"`
	Variant *Variant `json:"variant"`
}

// StockIncreaseRequest описывает пополнение остатка по коду.
type StockIncreaseRequest struct {
	Code   string  `json:"code"`
	Qty    int     `json:"qty"`
	Reason *string `json:"reason,omitempty"`
}

// StockIncreaseResponse описывает результат пополнения остатка.
type StockIncreaseResponse struct {
	OK           bool `json:"ok"`
	UpdatedStock *int `json:"updated_stock"`
}

// SaleItem описывает позицию запроса оформления продажи.
type SaleItem struct {
	Code string `json:"code"`
	Qty  int    `json:"qty"`
}

// CheckoutRequest описывает запрос оформления продажи.
type CheckoutRequest struct {
	CustomerName  *string    `json:"customer_name"`
	CustomerPhone *string    `json:"customer_phone"`
	Items         []SaleItem `json:"items"`
}

// CheckoutResponse описывает подтверждённую продажу.
type CheckoutResponse struct {
	SaleID       string          `json:"sale_id"`
	TicketNumber int64           `json:"ticket_number"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`
}

// DeleteResponse описывает результат удаления позиции инвентаря.
type DeleteResponse struct {
	OK               bool   `json:"ok"`
	DeletedVariantID string `json:"deleted_variant_id"`
}
