// Package pricing estimates order totals from line items. The marketplace
// backend computes the authoritative figures; these values drive the cart and
// checkout views before an order exists.
package pricing

import (
	"github.com/shopspring/decimal"

	"autoparts-storefront/internal/domain"
)

// TaxRate is applied to the subtotal.
const TaxRate = 0.15

var shippingTable = map[domain.ShippingMethod]float64{
	domain.ShippingStandard: 75,
	domain.ShippingExpress:  150,
	domain.ShippingPickup:   0,
}

// Line is the part of a line item that affects its price.
type Line struct {
	Price    float64
	Quantity int
}

// Summary is the derived price breakdown.
type Summary struct {
	Subtotal     float64               `json:"subtotal"`
	Tax          float64               `json:"tax"`
	ShippingCost float64               `json:"shippingCost"`
	Total        float64               `json:"total"`
	Method       domain.ShippingMethod `json:"shippingMethod"`
}

// ShippingCost looks up the fixed price of method. Unknown and empty methods
// are charged as Standard.
func ShippingCost(method domain.ShippingMethod) float64 {
	return shippingTable[NormalizeMethod(method)]
}

// NormalizeMethod maps unknown or empty methods to Standard.
func NormalizeMethod(method domain.ShippingMethod) domain.ShippingMethod {
	if _, ok := shippingTable[method]; ok {
		return method
	}
	return domain.ShippingStandard
}

// Summarize computes subtotal, tax, shipping and total for lines. An empty
// list prices to zero across the board, shipping included.
func Summarize(lines []Line, method domain.ShippingMethod) Summary {
	method = NormalizeMethod(method)
	if len(lines) == 0 {
		return Summary{Method: method}
	}
	var subtotal float64
	for _, l := range lines {
		subtotal += l.Price * float64(l.Quantity)
	}
	tax := subtotal * TaxRate
	shipping := ShippingCost(method)
	return Summary{
		Subtotal:     subtotal,
		Tax:          tax,
		ShippingCost: shipping,
		Total:        subtotal + tax + shipping,
		Method:       method,
	}
}

// FromCart converts cart lines for Summarize.
func FromCart(items []domain.CartLineItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{Price: it.Price, Quantity: it.Quantity})
	}
	return lines
}

// FromOrder converts order lines for Summarize.
func FromOrder(items []domain.OrderItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{Price: it.Price, Quantity: it.Quantity})
	}
	return lines
}

// Round2 rounds v half away from zero to two decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// FormatAmount renders v for display, e.g. "R 305.00".
func FormatAmount(v float64) string {
	return "R " + decimal.NewFromFloat(v).StringFixed(2)
}

// Display is Summary with every amount formatted for the views.
type Display struct {
	Subtotal     string `json:"subtotal"`
	Tax          string `json:"tax"`
	ShippingCost string `json:"shippingCost"`
	Total        string `json:"total"`
}

// Format renders each amount of s with FormatAmount.
func (s Summary) Format() Display {
	return Display{
		Subtotal:     FormatAmount(s.Subtotal),
		Tax:          FormatAmount(s.Tax),
		ShippingCost: FormatAmount(s.ShippingCost),
		Total:        FormatAmount(s.Total),
	}
}
