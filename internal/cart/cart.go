// Package cart реализует корзину продажи с контролем остатков.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/storefront-client/internal/model"
)

// Ledger хранит позиции корзины текущей сессии продажи в порядке добавления.
// Все некорректные операции молча игнорируются: корзина не возвращает ошибок.
type Ledger struct {
	items []model.CartLine
}

// NewLedger создаёт пустую корзину.
func NewLedger() *Ledger {
	return &Ledger{}
}

// AddOrIncrement добавляет товар в корзину или увеличивает количество
// существующей позиции на единицу. Количество не может превысить остаток,
// зафиксированный при первом добавлении; превышение игнорируется.
func (l *Ledger) AddOrIncrement(p model.Product) {
	for i := range l.items {
		if l.items[i].Code != p.Code {
			continue
		}
		candidate := l.items[i].Qty + 1
		if candidate > l.items[i].AvailableStock {
			return
		}
		l.items[i].Qty = candidate
		l.items[i].LineTotal = lineTotal(l.items[i].SalePrice, candidate)
		return
	}

	if p.AvailableStock <= 0 {
		return
	}

	l.items = append(l.items, model.CartLine{
		Code:           p.Code,
		ProductName:    p.ProductName,
		SalePrice:      p.SalePrice,
		AvailableStock: p.AvailableStock,
		Qty:            1,
		LineTotal:      p.SalePrice,
	})
}

// UpdateQty устанавливает количество позиции, ограничивая его диапазоном
// [1, availableStock]. Неизвестный код игнорируется.
func (l *Ledger) UpdateQty(code string, qty int) {
	for i := range l.items {
		if l.items[i].Code != code {
			continue
		}
		safe := qty
		if safe > l.items[i].AvailableStock {
			safe = l.items[i].AvailableStock
		}
		if safe < 1 {
			safe = 1
		}
		l.items[i].Qty = safe
		l.items[i].LineTotal = lineTotal(l.items[i].SalePrice, safe)
	}

	// Отсев нулевых количеств. При нижнем пределе 1 ветка недостижима;
	// структура сохранена на случай отдельного пути удаления через ноль.
	filtered := l.items[:0]
	for _, it := range l.items {
		if it.Qty > 0 {
			filtered = append(filtered, it)
		}
	}
	l.items = filtered
}

// RemoveItem удаляет позицию по коду. Неизвестный код игнорируется.
func (l *Ledger) RemoveItem(code string) {
	filtered := l.items[:0]
	for _, it := range l.items {
		if it.Code != code {
			filtered = append(filtered, it)
		}
	}
	l.items = filtered
}

// Clear очищает корзину. Вызывается после успешного оформления продажи.
func (l *Ledger) Clear() {
	l.items = nil
}

// Items возвращает копию позиций корзины в порядке добавления.
func (l *Ledger) Items() []model.CartLine {
	res := make([]model.CartLine, len(l.items))
	copy(res, l.items)
	return res
}

// Len возвращает число позиций в корзине.
func (l *Ledger) Len() int {
	return len(l.items)
}

// Total возвращает сумму всех позиций корзины. Значение всегда вычисляется
// заново по текущим позициям и нигде не хранится отдельно.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range l.items {
		total = total.Add(it.LineTotal)
	}
	return total
}

func lineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}
