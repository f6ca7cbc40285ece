package pricing

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Значения карточки товара по умолчанию.
const (
	DefaultProductName     = "Ordinateur portable"
	DefaultBasePrice       = 1000
	DefaultDiscountPercent = 10
)

//go:generate mockgen -destination=../mocks/calculator.go -package=mocks . Calculator

// Calculator описывает операции расчёта цены, нужные карточке товара.
type Calculator interface {
	TaxedPrice(base decimal.Decimal) decimal.Decimal
	ApplyDiscount(price, percent decimal.Decimal) decimal.Decimal
}

// Stage описывает видимое состояние карточки товара.
type Stage string

const (
	StageInitial    Stage = "initial"
	StageDiscounted Stage = "discounted"
)

// DisplayState содержит снимок состояния карточки товара.
type DisplayState struct {
	Name            string
	BasePrice       decimal.Decimal
	TaxedPrice      decimal.Decimal
	Discount        decimal.Decimal
	DiscountedPrice decimal.Decimal
	Stage           Stage
}

// Display хранит состояние карточки товара: цену без налога, цену с налогом
// и последнюю применённую скидку.
type Display struct {
	mu    sync.Mutex
	calc  Calculator
	state DisplayState
}

// NewDisplay создаёт карточку товара и сразу вычисляет цену с налогом.
func NewDisplay(calc Calculator, name string, base decimal.Decimal) *Display {
	d := &Display{
		calc: calc,
		state: DisplayState{
			Name:      name,
			BasePrice: base,
		},
	}
	d.state.TaxedPrice = calc.TaxedPrice(base)
	d.resetLocked()
	return d
}

// NewDefaultDisplay создаёт карточку товара со значениями по умолчанию.
func NewDefaultDisplay(calc Calculator) *Display {
	return NewDisplay(calc, DefaultProductName, decimal.NewFromInt(DefaultBasePrice))
}

// ApplyDiscount применяет скидку к текущей цене с налогом.
// Повторный вызов с тем же процентом не меняет результат, пока не изменилась цена.
func (d *Display) ApplyDiscount(percent decimal.Decimal) DisplayState {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state.Discount = percent
	d.state.DiscountedPrice = d.calc.ApplyDiscount(d.state.TaxedPrice, percent)
	d.state.Stage = StageDiscounted
	return d.state
}

// SetBasePrice заменяет цену без налога и пересчитывает цену с налогом.
// Состояние скидки не меняется.
func (d *Display) SetBasePrice(base decimal.Decimal) DisplayState {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state.BasePrice = base
	d.state.TaxedPrice = d.calc.TaxedPrice(base)
	return d.state
}

// Reset возвращает карточку в начальное состояние без скидки.
func (d *Display) Reset() DisplayState {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resetLocked()
	return d.state
}

// State возвращает снимок текущего состояния.
func (d *Display) State() DisplayState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Display) resetLocked() {
	d.state.Discount = decimal.Zero
	d.state.DiscountedPrice = decimal.Zero
	d.state.Stage = StageInitial
}
