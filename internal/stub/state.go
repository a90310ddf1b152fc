// Package stub реализует учебный сервер склада: хранит данные в памяти и
// отдаёт тот же API, что и боевой бэкенд. Используется для локальной
// разработки и интеграционных тестов клиента.
package stub

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/storefront-client/internal/api"
)

var (
	// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCodeNotFound возвращается, если штрихкод не зарегистрирован.
	ErrCodeNotFound = errors.New("code not found")
	// ErrItemNotFound возвращается, если вариант товара не существует.
	ErrItemNotFound = errors.New("item not found")
)

// InsufficientStockError возвращается при попытке продать больше, чем есть
// на складе. Текст ошибки показывается покупателю как есть.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s", e.ProductName)
}

const lowStockCeiling = 1

type userRecord struct {
	id           string
	username     string
	fullName     string
	passwordHash []byte
}

type variantRecord struct {
	variantID     string
	code          string
	productName   string
	variantName   *string
	brand         *string
	category      *string
	description   *string
	photoURL      *string
	color         *string
	size          *string
	location      *string
	purchasePrice decimal.Decimal
	salePrice     decimal.Decimal
	qtyOnHand     int
	deleted       bool
}

type saleRecord struct {
	saleID       string
	ticketNumber int64
	subtotal     decimal.Decimal
	total        decimal.Decimal
	costOfGoods  decimal.Decimal
}

// State хранит пользователей, склад и продажи учебного сервера.
type State struct {
	mu         sync.Mutex
	users      map[string]userRecord
	variants   []*variantRecord
	sales      []saleRecord
	nextTicket int64
}

// NewState создаёт пустое состояние сервера.
func NewState() *State {
	return &State{
		users:      make(map[string]userRecord),
		nextTicket: 1,
	}
}

// AddUser регистрирует пользователя с паролем, хранимым в виде bcrypt-хеша.
func (s *State) AddUser(username, password, fullName string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[username] = userRecord{
		id:           uuid.NewString(),
		username:     username,
		fullName:     fullName,
		passwordHash: hash,
	}
	return nil
}

// SeedVariant описывает начальную позицию склада.
type SeedVariant struct {
	Code          string
	ProductName   string
	VariantName   *string
	Brand         *string
	Category      *string
	Location      *string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	QtyOnHand     int
}

// AddVariant добавляет позицию склада и возвращает её идентификатор.
func (s *State) AddVariant(v SeedVariant) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &variantRecord{
		variantID:     uuid.NewString(),
		code:          v.Code,
		productName:   v.ProductName,
		variantName:   v.VariantName,
		brand:         v.Brand,
		category:      v.Category,
		location:      v.Location,
		purchasePrice: v.PurchasePrice,
		salePrice:     v.SalePrice,
		qtyOnHand:     v.QtyOnHand,
	}
	s.variants = append(s.variants, rec)
	return rec.variantID
}

func (s *State) authenticate(username, password string) (userRecord, error) {
	s.mu.Lock()
	u, ok := s.users[username]
	s.mu.Unlock()

	if !ok {
		return userRecord{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return userRecord{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *State) findByCode(code string) *variantRecord {
	for _, v := range s.variants {
		if !v.deleted && v.code == code {
			return v
		}
	}
	return nil
}

func (s *State) findByID(variantID string) *variantRecord {
	for _, v := range s.variants {
		if !v.deleted && v.variantID == variantID {
			return v
		}
	}
	return nil
}

func (s *State) variantByCode(code string) (api.Variant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.findByCode(code)
	if v == nil {
		return api.Variant{}, ErrCodeNotFound
	}
	return toVariant(v), nil
}

func (s *State) listItems() []api.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]api.InventoryItem, 0, len(s.variants))
	for _, v := range s.variants {
		if v.deleted {
			continue
		}
		items = append(items, toItem(v))
	}

	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].ProductName) < strings.ToLower(items[j].ProductName)
	})
	return items
}

func (s *State) lowStock() []api.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]api.InventoryItem, 0)
	for _, v := range s.variants {
		if v.deleted || v.qtyOnHand > lowStockCeiling {
			continue
		}
		items = append(items, toItem(v))
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].QtyOnHand != items[j].QtyOnHand {
			return items[i].QtyOnHand < items[j].QtyOnHand
		}
		return strings.ToLower(items[i].ProductName) < strings.ToLower(items[j].ProductName)
	})
	return items
}

func (s *State) scanIncrease(code string, qty int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.findByCode(code)
	if v == nil {
		return 0, ErrCodeNotFound
	}
	v.qtyOnHand += qty
	return v.qtyOnHand, nil
}

func (s *State) scanUpsert(req api.ScanUpsertRequest) (api.ScanUpsertResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.findByCode(req.Code); existing != nil {
		v := toVariant(existing)
		return api.ScanUpsertResponse{
			Created: false,
			Message: "Code already registered",
			Variant: &v,
		}, nil
	}

	rec := &variantRecord{
		variantID:     uuid.NewString(),
		code:          req.Code,
		productName:   req.ProductName,
		variantName:   req.VariantName,
		brand:         optional(req.Brand),
		category:      optional(req.Category),
		description:   req.Description,
		photoURL:      req.PhotoURL,
		color:         req.Color,
		size:          req.Size,
		location:      req.Location,
		purchasePrice: req.PurchasePrice,
		salePrice:     req.SalePrice,
		qtyOnHand:     req.InitialQty,
	}
	s.variants = append(s.variants, rec)

	v := toVariant(rec)
	return api.ScanUpsertResponse{Created: true, Variant: &v}, nil
}

func (s *State) updateItem(variantID string, upd api.InventoryUpdate) (api.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.findByID(variantID)
	if v == nil {
		return api.InventoryItem{}, ErrItemNotFound
	}

	if upd.ProductName != nil {
		v.productName = *upd.ProductName
	}
	if upd.Brand != nil {
		v.brand = upd.Brand
	}
	if upd.Category != nil {
		v.category = upd.Category
	}
	if upd.Description != nil {
		v.description = upd.Description
	}
	if upd.PhotoURL != nil {
		v.photoURL = upd.PhotoURL
	}
	if upd.VariantName != nil {
		v.variantName = upd.VariantName
	}
	if upd.Color != nil {
		v.color = upd.Color
	}
	if upd.Size != nil {
		v.size = upd.Size
	}
	if upd.Location != nil {
		v.location = upd.Location
	}
	if upd.PurchasePrice != nil {
		v.purchasePrice = *upd.PurchasePrice
	}
	if upd.SalePrice != nil {
		v.salePrice = *upd.SalePrice
	}

	return toItem(v), nil
}

func (s *State) deleteItem(variantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.findByID(variantID)
	if v == nil {
		return ErrItemNotFound
	}
	v.deleted = true
	return nil
}

func (s *State) checkout(items []api.SaleItem) (api.CheckoutResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Сначала проверяются все позиции, затем списывается остаток: продажа
	// либо проходит целиком, либо не меняет склад вовсе.
	lines := make([]*variantRecord, 0, len(items))
	for _, it := range items {
		v := s.findByCode(it.Code)
		if v == nil {
			return api.CheckoutResponse{}, ErrCodeNotFound
		}
		if it.Qty <= 0 || it.Qty > v.qtyOnHand {
			return api.CheckoutResponse{}, &InsufficientStockError{ProductName: v.productName}
		}
		lines = append(lines, v)
	}

	subtotal := decimal.Zero
	cost := decimal.Zero
	for i, it := range items {
		v := lines[i]
		v.qtyOnHand -= it.Qty
		qty := decimal.NewFromInt(int64(it.Qty))
		subtotal = subtotal.Add(v.salePrice.Mul(qty))
		cost = cost.Add(v.purchasePrice.Mul(qty))
	}

	sale := saleRecord{
		saleID:       uuid.NewString(),
		ticketNumber: s.nextTicket,
		subtotal:     subtotal,
		total:        subtotal,
		costOfGoods:  cost,
	}
	s.nextTicket++
	s.sales = append(s.sales, sale)

	return api.CheckoutResponse{
		SaleID:       sale.saleID,
		TicketNumber: sale.ticketNumber,
		Subtotal:     sale.subtotal,
		Total:        sale.total,
		Currency:     "USD",
	}, nil
}

func (s *State) summary() api.DashboardSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	invested := decimal.Zero
	for _, v := range s.variants {
		if v.deleted {
			continue
		}
		invested = invested.Add(v.purchasePrice.Mul(decimal.NewFromInt(int64(v.qtyOnHand))))
	}

	gross := decimal.Zero
	cogs := decimal.Zero
	for _, sale := range s.sales {
		gross = gross.Add(sale.total)
		cogs = cogs.Add(sale.costOfGoods)
	}

	return api.DashboardSummary{
		InvestedAmount:  invested,
		GrossSales:      gross,
		CostOfGoodsSold: cogs,
		Profit:          gross.Sub(cogs),
	}
}

func toVariant(v *variantRecord) api.Variant {
	return api.Variant{
		Code:          v.code,
		VariantID:     v.variantID,
		ProductName:   v.productName,
		VariantName:   v.variantName,
		SalePrice:     v.salePrice,
		PurchasePrice: v.purchasePrice,
		QtyOnHand:     v.qtyOnHand,
	}
}

func toItem(v *variantRecord) api.InventoryItem {
	code := v.code
	return api.InventoryItem{
		VariantID:     v.variantID,
		ProductName:   v.productName,
		VariantName:   v.variantName,
		Category:      v.category,
		Brand:         v.brand,
		Location:      v.location,
		PhotoURL:      v.photoURL,
		SalePrice:     v.salePrice,
		PurchasePrice: v.purchasePrice,
		QtyOnHand:     v.qtyOnHand,
		PrimaryCode:   &code,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
