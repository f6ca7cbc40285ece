// Package model содержит доменные сущности сервиса atelier.
package model

import "github.com/shopspring/decimal"

// User описывает ресурс пользователя. ID отсутствует, пока его не назначит сервер.
type User struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age,omitempty"`
}

// UserFilter содержит параметры поиска пользователей. Нулевые значения не фильтруют.
type UserFilter struct {
	Name string
	Age  int
}

// Credentials содержит значения полей формы входа.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// PriceQuote содержит цену без налога и цену с налогом, вычисленную из неё.
type PriceQuote struct {
	BasePrice  decimal.Decimal `json:"basePrice"`
	TaxRate    decimal.Decimal `json:"taxRate"`
	TaxedPrice decimal.Decimal `json:"taxedPrice"`
}

// DiscountResult описывает результат применения скидки к цене.
type DiscountResult struct {
	AppliedPercent  decimal.Decimal `json:"appliedPercent"`
	SourcePrice     decimal.Decimal `json:"sourcePrice"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
}
