package cart

// SummaryLine is what the sidebar and checkout summary render for one line.
type SummaryLine struct {
	LineID        string
	ProductID     int64
	DisplayName   string
	ImageURL      string
	Quantity      int
	UnitPrice     float64
	LineTotal     float64
	Discounted    bool
	VariantLabels []string
}

// Summary is the read-only projection of the in-memory cart consumed by
// display surfaces. It has no state of its own; build a fresh one whenever
// the cart changes.
type Summary struct {
	Lines         []SummaryLine
	TotalItems    int
	TotalQuantity int
	SubTotal      float64
	DiscountTotal float64
	GrandTotal    float64
	Loading       bool
}

// Project builds the display projection for the given language. While an
// authenticated cart is still loading, pass loading=true so the badge
// reports zero instead of stale guest numbers.
func Project(c Cart, lang string, loading bool) Summary {
	lines := make([]SummaryLine, 0, len(c.Items))
	for _, item := range c.Items {
		labels := make([]string, 0, len(item.SelectedVariants))
		for _, opt := range item.SelectedVariants {
			labels = append(labels, opt.In(lang))
		}
		lines = append(lines, SummaryLine{
			LineID:        item.ID,
			ProductID:     item.ProductID,
			DisplayName:   item.Name.In(lang),
			ImageURL:      item.ImageURL,
			Quantity:      item.Quantity,
			UnitPrice:     item.Price,
			LineTotal:     roundMoney(item.Price * float64(item.Quantity)),
			Discounted:    item.DiscountPercentage > 0,
			VariantLabels: labels,
		})
	}
	return Summary{
		Lines:         lines,
		TotalItems:    c.TotalItems,
		TotalQuantity: c.TotalQuantity,
		SubTotal:      c.SubTotal,
		DiscountTotal: c.DiscountTotal,
		GrandTotal:    c.GrandTotal,
		Loading:       loading,
	}
}

// BadgeCount is the header item badge: total quantity, or 0 while the
// authenticated cart is still being fetched.
func (s Summary) BadgeCount() int {
	if s.Loading {
		return 0
	}
	return s.TotalQuantity
}
