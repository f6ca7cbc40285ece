// Package pricing реализует расчёт цены с налогом и скидок, а также состояние карточки товара.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/atelier/internal/model"
)

var (
	// TaxRate задаёт фиксированную ставку налога (20%).
	TaxRate = decimal.RequireFromString("0.2")

	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Service вычисляет цены. Не хранит состояния и никогда не возвращает ошибок:
// проверка входных значений остаётся на вызывающей стороне.
type Service struct{}

// NewService создаёт сервис расчёта цен.
func NewService() *Service {
	return &Service{}
}

// TaxedPrice возвращает цену с налогом: base × 1.2.
func (s *Service) TaxedPrice(base decimal.Decimal) decimal.Decimal {
	return base.Mul(one.Add(TaxRate))
}

// ApplyDiscount возвращает price × (1 − percent/100). Скидка больше 100% даёт отрицательную цену.
func (s *Service) ApplyDiscount(price, percent decimal.Decimal) decimal.Decimal {
	return price.Mul(one.Sub(percent.Div(hundred)))
}

// Quote возвращает цену без налога вместе с производной ценой с налогом.
func (s *Service) Quote(base decimal.Decimal) model.PriceQuote {
	return model.PriceQuote{
		BasePrice:  base,
		TaxRate:    TaxRate,
		TaxedPrice: s.TaxedPrice(base),
	}
}

// Discount применяет скидку и возвращает результат вместе с исходными значениями.
func (s *Service) Discount(price, percent decimal.Decimal) model.DiscountResult {
	return model.DiscountResult{
		AppliedPercent:  percent,
		SourcePrice:     price,
		DiscountedPrice: s.ApplyDiscount(price, percent),
	}
}
