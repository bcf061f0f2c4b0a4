package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// FormatWeight 重量展示格式，如 "2.50 kg"
func FormatWeight(weight float64) string {
	return fixed2(weight) + " kg"
}

// FormatPrice 价格展示格式，如 "$50.00"
func FormatPrice(price float64) string {
	return "$" + fixed2(price)
}

func fixed2(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "0.00"
	}
	return decimal.NewFromFloat(value).Round(2).StringFixed(2)
}
