package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTaxedPrice(t *testing.T) {
	tests := []struct {
		name string
		base string
		want string
	}{
		{name: "hundred", base: "100", want: "120"},
		{name: "zero", base: "0", want: "0"},
		{name: "laptop", base: "1000", want: "1200"},
		{name: "cents", base: "19.99", want: "23.988"},
		{name: "negative is not rejected", base: "-10", want: "-12"},
	}

	svc := NewService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.TaxedPrice(dec(tt.base))
			assert.Truef(t, got.Equal(dec(tt.want)), "TaxedPrice(%s) = %s, want %s", tt.base, got, tt.want)
		})
	}
}

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name    string
		price   string
		percent string
		want    string
	}{
		{name: "ten percent", price: "100", percent: "10", want: "90"},
		{name: "zero is identity", price: "100", percent: "0", want: "100"},
		{name: "full discount", price: "100", percent: "100", want: "0"},
		{name: "taxed laptop", price: "1200", percent: "10", want: "1080"},
		{name: "twenty percent", price: "1200", percent: "20", want: "960"},
		{name: "over hundred goes negative", price: "100", percent: "150", want: "-50"},
		{name: "fractional percent", price: "200", percent: "12.5", want: "175"},
	}

	svc := NewService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.ApplyDiscount(dec(tt.price), dec(tt.percent))
			assert.Truef(t, got.Equal(dec(tt.want)), "ApplyDiscount(%s, %s) = %s, want %s", tt.price, tt.percent, got, tt.want)
		})
	}
}

func TestApplyDiscount_OrderIndependent(t *testing.T) {
	svc := NewService()

	first := svc.ApplyDiscount(dec("80"), dec("25"))
	_ = svc.TaxedPrice(dec("5000"))
	second := svc.ApplyDiscount(dec("80"), dec("25"))

	assert.True(t, first.Equal(second))
}

func TestQuote(t *testing.T) {
	q := NewService().Quote(dec("250"))

	assert.True(t, q.BasePrice.Equal(dec("250")))
	assert.True(t, q.TaxRate.Equal(dec("0.2")))
	assert.True(t, q.TaxedPrice.Equal(dec("300")))
}

func TestDiscount(t *testing.T) {
	r := NewService().Discount(dec("1200"), dec("10"))

	assert.True(t, r.SourcePrice.Equal(dec("1200")))
	assert.True(t, r.AppliedPercent.Equal(dec("10")))
	assert.True(t, r.DiscountedPrice.Equal(dec("1080")))
}
