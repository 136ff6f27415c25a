package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is a display currency. It never affects stored amounts.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Label  string `json:"label"`
}

var currencies = []Currency{
	{Code: "USD", Symbol: "$", Label: "US Dollar"},
	{Code: "EUR", Symbol: "€", Label: "Euro"},
	{Code: "GBP", Symbol: "£", Label: "British Pound"},
	{Code: "JPY", Symbol: "¥", Label: "Japanese Yen"},
	{Code: "PLN", Symbol: "zł", Label: "Polish Złoty"},
	{Code: "INR", Symbol: "₹", Label: "Indian Rupee"},
	{Code: "CAD", Symbol: "C$", Label: "Canadian Dollar"},
	{Code: "AUD", Symbol: "A$", Label: "Australian Dollar"},
}

// Currencies returns the catalog of selectable currencies.
func Currencies() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// DefaultCurrency is the first catalog entry.
func DefaultCurrency() Currency {
	return currencies[0]
}

// FindCurrency looks a currency up by code, case-insensitively.
func FindCurrency(code string) (Currency, bool) {
	for _, c := range currencies {
		if strings.EqualFold(c.Code, strings.TrimSpace(code)) {
			return c, true
		}
	}
	return Currency{}, false
}

// Format renders an amount with the currency symbol and two decimals.
func (c Currency) Format(amount decimal.Decimal) string {
	return c.Symbol + amount.StringFixed(2)
}
