package cart

import (
	"math"
	"time"
)

// RecomputeTotals overwrites the derived totals from the item list. It is
// idempotent and safe on an empty cart. Negative or NaN prices are
// normalized to 0 so a bad payload can never poison the totals.
func RecomputeTotals(c *Cart) {
	if c.Items == nil {
		c.Items = []CartItem{}
	}

	var totalQty int
	var subTotal, discountTotal float64

	for i := range c.Items {
		item := &c.Items[i]
		normalizeItem(item)

		totalQty += item.Quantity
		subTotal += item.Price * float64(item.Quantity)
		if item.DiscountPercentage > 0 {
			discountTotal += (item.OriginalPrice - item.Price) * float64(item.Quantity)
		}
	}

	c.TotalItems = len(c.Items)
	c.TotalQuantity = totalQty
	c.SubTotal = roundMoney(subTotal)
	c.DiscountTotal = roundMoney(discountTotal)
	c.GrandTotal = roundMoney(c.SubTotal - c.DiscountTotal)
	c.UpdatedAt = time.Now().UTC()
}

func normalizeItem(item *CartItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	item.Price = normalizePrice(item.Price)
	item.OriginalPrice = normalizePrice(item.OriginalPrice)
	if item.DiscountPercentage < 0 || item.DiscountPercentage > 100 ||
		math.IsNaN(item.DiscountPercentage) {
		item.DiscountPercentage = 0
	}
}

func normalizePrice(p float64) float64 {
	if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return p
}

// DiscountedUnitPrice derives the effective unit price from the original
// price and a 0-100 discount percentage, rounded to the nearest piaster.
func DiscountedUnitPrice(original, discountPct float64) float64 {
	original = normalizePrice(original)
	if discountPct <= 0 || discountPct > 100 {
		return roundMoney(original)
	}
	return roundMoney(original * (1 - discountPct/100))
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
