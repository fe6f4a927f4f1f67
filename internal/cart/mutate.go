package cart

// Upsert adds an item to the cart, folding it into an existing line when
// SameLine matches (quantities add) and appending otherwise. Totals are
// recomputed. The item gets a surrogate id if it carries none.
func Upsert(c *Cart, item CartItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if item.ID == "" {
		item.ID = NewLineID()
	}

	for i := range c.Items {
		if SameLine(c.Items[i], item) {
			c.Items[i].Quantity += item.Quantity
			RecomputeTotals(c)
			return
		}
	}

	c.Items = append(c.Items, item)
	RecomputeTotals(c)
}

// AdjustQuantity changes a line's quantity by delta, clamped at 1.
// Dropping below 1 is a no-op on the quantity; removal is a separate
// operation.
func AdjustQuantity(c *Cart, lineID string, delta int) error {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			next := c.Items[i].Quantity + delta
			if next < 1 {
				next = 1
			}
			c.Items[i].Quantity = next
			RecomputeTotals(c)
			return nil
		}
	}
	return ErrLineNotFound
}

// RemoveLine deletes a line by its surrogate id.
func RemoveLine(c *Cart, lineID string) error {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			RecomputeTotals(c)
			return nil
		}
	}
	return ErrLineNotFound
}

// RemoveProduct deletes every line for a product, the removal key the
// remote API uses.
func RemoveProduct(c *Cart, productID int64) error {
	kept := c.Items[:0]
	removed := false
	for _, item := range c.Items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return ErrLineNotFound
	}
	c.Items = kept
	RecomputeTotals(c)
	return nil
}

// Clear empties the cart, keeping its ownership fields.
func Clear(c *Cart) {
	c.Items = []CartItem{}
	RecomputeTotals(c)
}
