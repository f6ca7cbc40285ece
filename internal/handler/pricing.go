package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/atelier/internal/pricing"
)

type productResponse struct {
	Name            string  `json:"name"`
	BasePrice       float64 `json:"basePrice"`
	TaxedPrice      float64 `json:"taxedPrice"`
	Discount        float64 `json:"discount"`
	DiscountedPrice float64 `json:"discountedPrice"`
	Stage           string  `json:"stage"`
}

func newProductResponse(st pricing.DisplayState) productResponse {
	return productResponse{
		Name:            st.Name,
		BasePrice:       st.BasePrice.InexactFloat64(),
		TaxedPrice:      st.TaxedPrice.InexactFloat64(),
		Discount:        st.Discount.InexactFloat64(),
		DiscountedPrice: st.DiscountedPrice.InexactFloat64(),
		Stage:           string(st.Stage),
	}
}

// GetProduct возвращает текущее состояние карточки товара.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, newProductResponse(h.display.State()))
}

type discountRequest struct {
	Percent *float64 `json:"percent"`
}

// ApplyProductDiscount применяет скидку к текущей цене с налогом. Без тела запроса применяется скидка 10%.
func (h *Handler) ApplyProductDiscount(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	percent := decimal.NewFromInt(pricing.DefaultDiscountPercent)
	if len(bytes.TrimSpace(body)) > 0 {
		var req discountRequest
		if err := json.Unmarshal(body, &req); err != nil {
			h.writeError(w, http.StatusBadRequest, "percent must be a number")
			return
		}
		if req.Percent != nil {
			percent = decimal.NewFromFloat(*req.Percent)
		}
	}

	h.writeJSON(w, http.StatusOK, newProductResponse(h.display.ApplyDiscount(percent)))
}

type basePriceRequest struct {
	BasePrice *float64 `json:"basePrice"`
}

// SetProductPrice заменяет цену без налога и пересчитывает цену с налогом.
func (h *Handler) SetProductPrice(w http.ResponseWriter, r *http.Request) {
	var req basePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BasePrice == nil {
		h.writeError(w, http.StatusBadRequest, "basePrice must be a number")
		return
	}

	st := h.display.SetBasePrice(decimal.NewFromFloat(*req.BasePrice))
	h.writeJSON(w, http.StatusOK, newProductResponse(st))
}

// ResetProduct возвращает карточку товара в состояние без скидки.
func (h *Handler) ResetProduct(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, newProductResponse(h.display.Reset()))
}

type taxedPriceResponse struct {
	Price      float64 `json:"price"`
	TaxedPrice float64 `json:"taxedPrice"`
}

// TaxedPrice вычисляет цену с налогом для параметра price.
func (h *Handler) TaxedPrice(w http.ResponseWriter, r *http.Request) {
	price, err := decimal.NewFromString(r.URL.Query().Get("price"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "price must be a number")
		return
	}

	h.writeJSON(w, http.StatusOK, taxedPriceResponse{
		Price:      price.InexactFloat64(),
		TaxedPrice: h.pricing.TaxedPrice(price).InexactFloat64(),
	})
}

type discountedPriceResponse struct {
	Price           float64 `json:"price"`
	Percent         float64 `json:"percent"`
	DiscountedPrice float64 `json:"discountedPrice"`
}

// DiscountedPrice применяет скидку percent к цене price.
func (h *Handler) DiscountedPrice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	price, err := decimal.NewFromString(q.Get("price"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "price must be a number")
		return
	}
	percent, err := decimal.NewFromString(q.Get("percent"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "percent must be a number")
		return
	}

	h.writeJSON(w, http.StatusOK, discountedPriceResponse{
		Price:           price.InexactFloat64(),
		Percent:         percent.InexactFloat64(),
		DiscountedPrice: h.pricing.ApplyDiscount(price, percent).InexactFloat64(),
	})
}
